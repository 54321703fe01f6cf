//
//  Copyright © Stackport Inc. All rights reserved.
//

// This file contains the caller identity types for the model package.

package model

import (
	"github.com/stackport/ownerengine/pkg/common"
)

// UserIdentity describes the caller on whose behalf ownership is resolved.
//
// Fields:
//   - UserRef: The caller's entity reference, e.g. "user:default/alice"
//   - OwnershipRefs: Entity references the caller owns through, including
//     group memberships such as "group:default/platform-team"
//
// The JSON tags support decoding identities from resolve requests.
type UserIdentity struct {
	UserRef       string   `json:"userRef"`
	OwnershipRefs []string `json:"ownershipRefs,omitempty"`
}

// Validate checks that the identity is usable for resolution.
//
// A missing user reference is the one identity defect that cannot be absorbed:
// without it no ownership comparison is meaningful, so resolution fails fast
// rather than returning an empty snapshot that could be mistaken for a real
// determination.
func (u *UserIdentity) Validate() *common.ResolverError {
	if u == nil {
		return common.NewError(common.ReasonInvalidIdentity, "user identity is required")
	}
	if u.UserRef == "" {
		return common.NewError(common.ReasonInvalidIdentity, "user identity is missing userRef")
	}
	return nil
}
