//
//  Copyright © Stackport Inc. All rights reserved.
//

package validation

import (
	"fmt"
	"strings"
)

// ReferenceResolver handles all reference parsing and resolution logic
type ReferenceResolver struct {
	bundles BundleMap
}

// NewReferenceResolver creates a new reference resolver with the given bundles
func NewReferenceResolver(bundles BundleMap) *ReferenceResolver {
	return &ReferenceResolver{
		bundles: bundles,
	}
}

// ParseReference parses a reference string into target bundle and object ID
// Handles both qualified (bundle/objectID) and unqualified (objectID) references
func (r *ReferenceResolver) ParseReference(reference, sourceBundle string) (targetBundle, objectID string, err error) {
	if reference == "" {
		return "", "", fmt.Errorf("empty reference")
	}

	if strings.Contains(reference, "/") {
		// Qualified reference: "bundle/objectID"
		parts := strings.SplitN(reference, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("invalid qualified reference format '%s', expected 'bundle/id'", reference)
		}
		return parts[0], parts[1], nil
	}

	// Unqualified reference: use source bundle
	return sourceBundle, reference, nil
}

// QualifyReference converts a reference to its fully qualified form
func (r *ReferenceResolver) QualifyReference(reference, sourceBundle string) string {
	if strings.Contains(reference, "/") {
		return reference // Already qualified
	}
	return fmt.Sprintf("%s/%s", sourceBundle, reference)
}

// ValidateReference checks if a reference exists and is of the expected type
func (r *ReferenceResolver) ValidateReference(reference, sourceBundle, expectedType string) error {
	if reference == "" {
		return nil
	}

	targetBundle, objectID, err := r.ParseReference(reference, sourceBundle)
	if err != nil {
		return err
	}

	// Check if target bundle exists
	targetModel, exists := r.bundles.GetBundle(targetBundle)
	if !exists {
		return fmt.Errorf("bundle '%s' contains undefined references to bundle '%s'", sourceBundle, targetBundle)
	}

	// Check if referenced object exists and is of the correct type
	if !r.objectExistsInBundle(objectID, expectedType, targetModel) {
		return fmt.Errorf("%s reference '%s' not found in bundle '%s'", expectedType, objectID, targetBundle)
	}

	return nil
}

// ResolveReference parses and validates a reference, returning the target bundle and model
func (r *ReferenceResolver) ResolveReference(reference, sourceBundle, expectedType string) (targetBundle string, targetModel BundleModel, objectID string, err error) {
	targetBundle, objectID, err = r.ParseReference(reference, sourceBundle)
	if err != nil {
		return "", nil, "", err
	}

	targetModel, exists := r.bundles.GetBundle(targetBundle)
	if !exists {
		return "", nil, "", fmt.Errorf("bundle '%s' not found", targetBundle)
	}

	if !r.objectExistsInBundle(objectID, expectedType, targetModel) {
		return "", nil, "", fmt.Errorf("%s reference '%s' not found in bundle '%s'", expectedType, objectID, targetBundle)
	}

	return targetBundle, targetModel, objectID, nil
}

// objectExistsInBundle checks if an object ID exists in a bundle and is of the specified type
func (r *ReferenceResolver) objectExistsInBundle(objectID, objectType string, model BundleModel) bool {
	switch objectType {
	case "policy":
		policies := model.GetPolicies()
		_, exists := policies[objectID]
		return exists
	case "library":
		libraries := model.GetPolicyLibraries()
		_, exists := libraries[objectID]
		return exists
	case "user":
		users := model.GetUsers()
		_, exists := users[objectID]
		return exists
	case "group":
		groups := model.GetGroups()
		_, exists := groups[objectID]
		return exists
	case "application":
		applications := model.GetApplications()
		_, exists := applications[objectID]
		return exists
	default:
		return false
	}
}

// ExistsAcrossBundles reports whether an object of the given type exists in
// any loaded bundle. Owner references are resolved by canonical name alone,
// with bundle precedence deciding collisions, so multiple declarations do
// not make a reference invalid.
func (r *ReferenceResolver) ExistsAcrossBundles(objectID, objectType string) bool {
	for _, bundleModel := range r.bundles.GetAllBundles() {
		if r.objectExistsInBundle(objectID, objectType, bundleModel) {
			return true
		}
	}
	return false
}
