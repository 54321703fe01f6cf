//
//  Copyright © Stackport Inc. All rights reserved.
//

// This file contains owner declaration handling for the model package.

package model

// AnyOwner represents an owner declaration in any of its wire forms.
//
// Owner declarations arrive either as a plain string:
//
//	"group:default/platform-team"
//
// or as a structured reference:
//
//	{"ref": "group:default/platform-team"}
//
// AnyOwner is an alias for interface{} used in struct fields and signatures
// where either form is acceptable. Use [NormalizeOwner] to reduce an AnyOwner
// to its string form before parsing.
type AnyOwner = interface{}

// NormalizeOwner reduces an owner declaration to its string form.
//
// The second return value reports whether a usable owner string was present.
// Absent declarations (nil), empty strings, structured references without a
// "ref" field, and unrecognized shapes all normalize to ("", false), which
// callers treat as an unassigned owner.
func NormalizeOwner(owner AnyOwner) (string, bool) {
	switch v := owner.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case map[string]interface{}:
		ref, ok := v["ref"].(string)
		if !ok || ref == "" {
			return "", false
		}
		return ref, true
	default:
		return "", false
	}
}
