//
//  Copyright © Stackport Inc. All rights reserved.
//

// This file contains the ownership snapshot types for the model package.

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OwnerKind classifies an owner declaration as a user or a group.
//
// The kind values match the catalog entity kind casing ("User", "Group") so
// that an [OwnerDescriptor] can be turned into an entity reference directly.
type OwnerKind string

// Owner kind values.
const (
	KindUser  OwnerKind = "User"
	KindGroup OwnerKind = "Group"
)

// OwnerDescriptor is the normalized interpretation of a single owner string.
//
// Descriptors are produced by parsing raw owner declarations and optionally
// enriched with catalog display names. Parsing is total: every input string
// yields a descriptor, with unrecognized kind tokens classified as groups.
//
// Fields:
//   - Kind: Whether the owner is a user or a group
//   - CanonicalName: The name segment used for matching (tail after the last '/')
//   - DisplayName: The presentation name; defaults to CanonicalName until enriched
type OwnerDescriptor struct {
	Kind          OwnerKind `json:"kind"`
	CanonicalName string    `json:"canonicalName"`
	DisplayName   string    `json:"displayName"`
}

// EntityRef returns the catalog entity reference for the descriptor, e.g.
// "Group:default/platform-team". Descriptors always resolve against the
// default namespace.
func (d OwnerDescriptor) EntityRef() string {
	return fmt.Sprintf("%s:default/%s", d.Kind, d.CanonicalName)
}

// UnassignedOwner returns the descriptor used for applications without a
// usable owner declaration.
func UnassignedOwner() OwnerDescriptor {
	return OwnerDescriptor{
		Kind:          KindGroup,
		CanonicalName: "unassigned",
		DisplayName:   "Unassigned",
	}
}

// OwnershipSnapshot is the per-user ownership view across a set of
// applications.
//
// A snapshot is computed from a user identity and an application list. It
// buckets applications into direct user ownership and per-group ownership,
// and records the normalized owner descriptor for every application that
// declared one.
//
// Fields:
//   - UserOwnedNames: Applications owned directly by the user
//   - GroupOwnedNames: Applications owned by each of the user's groups, keyed
//     by canonical group name
//   - OwnerByApplication: The owner descriptor for each application with a
//     usable owner declaration, keyed by application name
//   - UserGroups: The canonical group names claimed by the user's identity
type OwnershipSnapshot struct {
	UserOwnedNames     []string                   `json:"userOwnedNames"`
	GroupOwnedNames    map[string][]string        `json:"groupOwnedNames"`
	OwnerByApplication map[string]OwnerDescriptor `json:"ownerByApplication"`
	UserGroups         []string                   `json:"userGroups"`
}

// OwnsAny reports whether the snapshot records any ownership at all, either
// direct or through a group.
func (s *OwnershipSnapshot) OwnsAny() bool {
	if len(s.UserOwnedNames) > 0 {
		return true
	}
	for _, names := range s.GroupOwnedNames {
		if len(names) > 0 {
			return true
		}
	}
	return false
}

// AccessLevel is the outcome of an access determination.
//
// Levels are ordered NONE < LIMITED < FULL. FULL is granted to owners,
// LIMITED to non-owners of applications with a recognized external
// integration, and NONE otherwise.
type AccessLevel int

// Access level values, in ascending order of privilege.
const (
	AccessNone AccessLevel = iota
	AccessLimited
	AccessFull
)

// String returns the canonical name of the access level.
func (l AccessLevel) String() string {
	switch l {
	case AccessFull:
		return "FULL"
	case AccessLimited:
		return "LIMITED"
	default:
		return "NONE"
	}
}

// AtLeast reports whether the level meets or exceeds min.
func (l AccessLevel) AtLeast(min AccessLevel) bool {
	return l >= min
}

// MarshalJSON encodes the access level as its canonical name.
func (l AccessLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes an access level from its canonical name.
func (l *AccessLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	level, err := ParseAccessLevel(name)
	if err != nil {
		return err
	}

	*l = level
	return nil
}

// ParseAccessLevel converts a level name to an [AccessLevel]. Names are
// matched case-insensitively.
func ParseAccessLevel(name string) (AccessLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FULL":
		return AccessFull, nil
	case "LIMITED":
		return AccessLimited, nil
	case "NONE":
		return AccessNone, nil
	default:
		return AccessNone, fmt.Errorf("unknown access level %q", name)
	}
}
