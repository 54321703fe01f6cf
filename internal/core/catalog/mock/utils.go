//
//  Copyright © Stackport Inc. All rights reserved.
//

package mock

import (
	"strings"

	"github.com/stackport/ownerengine/pkg/core/model"
)

// asEntryList normalizes a scripted list, handling both []interface{} (from
// YAML config) and []map[string]interface{} (from programmatic config).
func asEntryList(value interface{}) []map[string]interface{} {
	switch v := value.(type) {
	case []interface{}:
		entries := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			if entry, ok := item.(map[string]interface{}); ok {
				entries = append(entries, entry)
			}
		}
		return entries
	case []map[string]interface{}:
		return v
	default:
		return nil
	}
}

// refParts splits "<Kind>:<namespace>/<name>" without validation. The mock
// trusts its scripted references and leaves missing pieces empty.
func refParts(ref string) (kind, namespace, name string) {
	kind, rest, _ := strings.Cut(ref, ":")
	namespace, name, _ = strings.Cut(rest, "/")
	return kind, namespace, name
}

func toAnnotations(value interface{}) model.Annotations {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	return model.Annotations(m)
}
