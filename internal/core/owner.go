//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"strings"

	"github.com/stackport/ownerengine/pkg/core/model"
)

// parseOwner normalizes a raw owner declaration into a descriptor.
//
// Parsing is total: every input yields a descriptor and no input fails. The
// declaration splits on the first ':' into a kind token and a reference
// body. Only a kind token of "user" (case-insensitive) classifies the owner
// as a user; anything else, including a missing token, classifies it as a
// group so that a malformed reference can never unlock the more privileged
// user form. The canonical name is the segment after the last '/', which
// discards any namespace qualifier.
func parseOwner(raw string) model.OwnerDescriptor {
	kind := model.KindGroup
	body := raw

	if token, rest, ok := strings.Cut(raw, ":"); ok {
		body = rest
		if strings.EqualFold(token, "user") {
			kind = model.KindUser
		}
	}

	name := refTail(body)

	return model.OwnerDescriptor{
		Kind:          kind,
		CanonicalName: name,
		DisplayName:   name,
	}
}

// refTail returns the segment after the last '/' of a reference, or the
// whole string when no '/' is present.
func refTail(ref string) string {
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
