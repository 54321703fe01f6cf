//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
)

// hasIntegrationAnnotation reports whether the application carries a
// recognized external-integration annotation. The recognized keys come from
// annotations.integrations; a key counts only when present with a non-empty
// value.
func hasIntegrationAnnotation(application *model.Application) bool {
	if len(application.Annotations) == 0 {
		return false
	}

	for _, key := range config.GetIntegrationAnnotations() {
		value, ok := application.Annotations[key]
		if !ok || value == nil {
			continue
		}
		if text, isString := value.(string); isString && text == "" {
			continue
		}
		return true
	}

	return false
}
