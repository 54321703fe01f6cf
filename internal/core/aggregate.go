//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"strings"

	"github.com/stackport/ownerengine/pkg/core/model"
)

// parsedApplication pairs an application with its normalized owner
// declaration.
type parsedApplication struct {
	application *model.Application
	rawOwner    string
	descriptor  model.OwnerDescriptor
	unassigned  bool
}

func parseApplications(applications []*model.Application) []parsedApplication {
	parsed := make([]parsedApplication, len(applications))

	for i, application := range applications {
		p := parsedApplication{application: application}

		if raw, ok := model.NormalizeOwner(application.Owner); ok {
			p.rawOwner = raw
			p.descriptor = parseOwner(raw)
		} else {
			p.unassigned = true
		}

		parsed[i] = p
	}

	return parsed
}

// userGroupNames extracts the canonical group names claimed by the
// identity's ownership refs, preserving first-occurrence order. Only the
// exact "group:" and "Group:" prefixes are recognized group claims; other
// casings are ignored.
func userGroupNames(user *model.UserIdentity) []string {
	groups := []string{}
	seen := map[string]struct{}{}

	for _, ref := range user.OwnershipRefs {
		if !strings.HasPrefix(ref, "group:") && !strings.HasPrefix(ref, "Group:") {
			continue
		}

		name := refTail(ref)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		groups = append(groups, name)
	}

	return groups
}

// ownedByUser applies the direct-ownership rule. The owner's canonical name
// must correspond to the caller, either by matching the tail of the user
// reference or by the raw declaration matching the reference verbatim, and
// the caller's ownership refs must assert the same claim. A name collision
// alone is not proof of ownership.
func ownedByUser(user *model.UserIdentity, rawOwner string, descriptor model.OwnerDescriptor) bool {
	if descriptor.CanonicalName != refTail(user.UserRef) && rawOwner != user.UserRef {
		return false
	}

	for _, ref := range user.OwnershipRefs {
		if ref == rawOwner || refTail(ref) == descriptor.CanonicalName {
			return true
		}
	}

	return false
}

// aggregate assembles the ownership snapshot from the parsed applications
// and their enriched display names, in input order. Unassigned applications
// are recorded with the sentinel owner and never bucketed.
func aggregate(user *model.UserIdentity, parsed []parsedApplication, enriched map[string]enrichment) *model.OwnershipSnapshot {
	groups := userGroupNames(user)
	groupSet := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		groupSet[group] = struct{}{}
	}

	snapshot := &model.OwnershipSnapshot{
		UserOwnedNames:     []string{},
		GroupOwnedNames:    map[string][]string{},
		OwnerByApplication: map[string]model.OwnerDescriptor{},
		UserGroups:         groups,
	}

	for _, p := range parsed {
		name := p.application.Name

		if p.unassigned {
			snapshot.OwnerByApplication[name] = model.UnassignedOwner()
			continue
		}

		descriptor := p.descriptor
		if e, ok := enriched[descriptor.EntityRef()]; ok && e.displayName != "" {
			descriptor.DisplayName = e.displayName
		}
		snapshot.OwnerByApplication[name] = descriptor

		switch descriptor.Kind {
		case model.KindUser:
			if ownedByUser(user, p.rawOwner, descriptor) {
				snapshot.UserOwnedNames = append(snapshot.UserOwnedNames, name)
			}
		case model.KindGroup:
			if _, ok := groupSet[descriptor.CanonicalName]; ok {
				snapshot.GroupOwnedNames[descriptor.CanonicalName] = append(snapshot.GroupOwnedNames[descriptor.CanonicalName], name)
			}
		}
	}

	return snapshot
}
