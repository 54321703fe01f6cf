//
//  Copyright © Stackport Inc. All rights reserved.
//

package validation

import (
	"fmt"
	"strings"
)

// libraryNode represents a library in the dependency graph
type libraryNode struct {
	bundle string
	id     string
}

// CatalogValidator handles all validation logic for catalog bundles
type CatalogValidator struct {
	resolver      *ReferenceResolver
	bundles       BundleMap
	regoValidator *RegoValidator
}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator(resolver *ReferenceResolver, bundles BundleMap) *CatalogValidator {
	return &CatalogValidator{
		resolver:      resolver,
		bundles:       bundles,
		regoValidator: NewRegoValidator(),
	}
}

// ValidateAll performs complete validation of all bundles, accumulating all errors
func (v *CatalogValidator) ValidateAll() error {
	errors := NewValidationErrors()

	// Validate references across all bundles
	v.validateAllReferences(errors)

	// Validate library cycles
	v.validateAllLibraryCycles(errors)

	// Validate rego compilation
	v.validateAllRegoCompilation(errors)

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// ValidateWithSummary validates and returns a detailed summary of any errors
func (v *CatalogValidator) ValidateWithSummary() (bool, string) {
	err := v.ValidateAll()
	if err == nil {
		return true, "All validations passed successfully"
	}

	if validationErrors, ok := err.(*Errors); ok {
		return false, validationErrors.Summary()
	}

	// Fallback for non-ValidationErrors
	return false, fmt.Sprintf("Validation failed: %v", err)
}

// GetAllValidationErrors returns all validation errors without stopping on first error
func (v *CatalogValidator) GetAllValidationErrors() []*Error {
	err := v.ValidateAll()
	if err == nil {
		return nil
	}

	if validationErrors, ok := err.(*Errors); ok {
		return validationErrors.Errors
	}

	// Fallback for non-ValidationErrors
	return []*Error{
		{
			Type:    "unknown",
			Message: err.Error(),
		},
	}
}

// ValidateBundle validates a specific bundle, accumulating errors
func (v *CatalogValidator) ValidateBundle(bundleName string) error {
	bundleModel, exists := v.bundles.GetBundle(bundleName)
	if !exists {
		return fmt.Errorf("bundle '%s' not found", bundleName)
	}

	errors := NewValidationErrors()
	v.validateBundleReferences(bundleName, bundleModel, errors)

	// Also validate rego compilation for this specific bundle
	v.regoValidator.ValidateBundleRego(bundleName, bundleModel, errors)

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// validateAllReferences validates all cross-bundle references, accumulating errors
func (v *CatalogValidator) validateAllReferences(errors *Errors) {
	allBundles := v.bundles.GetAllBundles()
	for bundleName, model := range allBundles {
		v.validateBundleReferences(bundleName, model, errors)
	}
}

// validateAllLibraryCycles detects circular dependencies, accumulating errors
func (v *CatalogValidator) validateAllLibraryCycles(errors *Errors) {
	if err := v.detectLibraryCycles(); err != nil {
		errors.AddCycleError(err.Error())
	}
}

// validateAllRegoCompilation validates rego compilation
func (v *CatalogValidator) validateAllRegoCompilation(errors *Errors) {
	allBundles := v.bundles.GetAllBundles()
	for bundleName, model := range allBundles {
		v.regoValidator.ValidateBundleRego(bundleName, model, errors)
	}
}

// validateBundleReferences validates all references within a single bundle, accumulating errors
func (v *CatalogValidator) validateBundleReferences(bundleName string, model BundleModel, errors *Errors) {
	// Validate each entity type, accumulating errors instead of stopping on first failure
	v.validatePolicyLibraries(bundleName, model, errors)
	v.validatePolicies(bundleName, model, errors)
	v.validateAccessPolicy(bundleName, model, errors)
	v.validateGroups(bundleName, model, errors)
	v.validateApplications(bundleName, model, errors)
}

// validatePolicyLibraries validates all policy library dependencies
func (v *CatalogValidator) validatePolicyLibraries(bundleName string, model BundleModel, errors *Errors) {
	libraries := model.GetPolicyLibraries()
	for libID, library := range libraries {
		for _, dep := range library.GetDependencies() {
			if err := v.resolver.ValidateReference(dep, bundleName, "library"); err != nil {
				errors.AddReferenceError(bundleName, "library", libID, "dependencies", err.Error())
			}
		}
	}
}

// validatePolicies validates all policy dependencies
func (v *CatalogValidator) validatePolicies(bundleName string, model BundleModel, errors *Errors) {
	policies := model.GetPolicies()
	for policyID, policy := range policies {
		for _, dep := range policy.GetDependencies() {
			if err := v.resolver.ValidateReference(dep, bundleName, "library"); err != nil {
				errors.AddReferenceError(bundleName, "policy", policyID, "dependencies", err.Error())
			}
		}
	}
}

// validateAccessPolicy validates the bundle's access-policy binding
func (v *CatalogValidator) validateAccessPolicy(bundleName string, model BundleModel, errors *Errors) {
	binding := model.GetAccessPolicy()
	if binding == nil {
		return
	}

	if binding.GetPolicy() == "" {
		errors.AddReferenceError(bundleName, "access-policy", "access-policy", "policy", "access-policy binding names no policy")
		return
	}

	if err := v.resolver.ValidateReference(binding.GetPolicy(), bundleName, "policy"); err != nil {
		errors.AddReferenceError(bundleName, "access-policy", "access-policy", "policy", err.Error())
	}
}

// validateGroups validates all group member references
func (v *CatalogValidator) validateGroups(bundleName string, model BundleModel, errors *Errors) {
	groups := model.GetGroups()
	for groupID, group := range groups {
		for i, member := range group.GetMembers() {
			if err := v.resolver.ValidateReference(member, bundleName, "user"); err != nil {
				errors.AddReferenceError(bundleName, "group", groupID, fmt.Sprintf("members[%d]", i), err.Error())
			}
		}
	}
}

// validateApplications validates all application owner references
func (v *CatalogValidator) validateApplications(bundleName string, model BundleModel, errors *Errors) {
	applications := model.GetApplications()
	for appID, application := range applications {
		owner := application.GetOwner()
		if owner == "" {
			continue
		}

		kind, name := parseOwner(owner)
		if name == "" {
			errors.AddReferenceError(bundleName, "application", appID, "owner",
				fmt.Sprintf("owner reference '%s' has no name", owner))
			continue
		}

		if !v.resolver.ExistsAcrossBundles(name, kind) {
			errors.AddReferenceError(bundleName, "application", appID, "owner",
				fmt.Sprintf("%s '%s' not found in any bundle", kind, name))
		}
	}
}

// parseOwner splits an owner reference into its entity kind and canonical
// name. A prefix before the first ':' selects the kind; anything other than
// "user" (in any case) is treated as a group. The canonical name is the
// segment after the last '/', so "group:default/platform-team" yields
// ("group", "platform-team") and a bare "platform-team" yields
// ("group", "platform-team").
func parseOwner(owner string) (kind, name string) {
	kind = "group"
	rest := owner

	if before, after, found := strings.Cut(owner, ":"); found {
		if strings.EqualFold(before, "user") {
			kind = "user"
		}
		rest = after
	}

	if idx := strings.LastIndex(rest, "/"); idx >= 0 {
		rest = rest[idx+1:]
	}

	return kind, rest
}

// detectLibraryCycles performs DFS-based cycle detection across all bundles
func (v *CatalogValidator) detectLibraryCycles() error {
	qname := func(b, id string) string {
		return fmt.Sprintf("%s/%s", b, id)
	}

	state := make(map[string]int)

	// DFS function for cycle detection
	var dfs func(cur libraryNode, stack []string) error
	dfs = func(cur libraryNode, stack []string) error {
		key := qname(cur.bundle, cur.id)

		if state[key] == 1 {
			// Cycle detected - build error message
			return v.buildCycleError(key, stack)
		}
		if state[key] == 2 {
			return nil // Already processed
		}

		// Mark as visiting and add to stack
		state[key] = 1
		stack = append(stack, key)

		// Get library and validate dependencies
		library, err := v.getLibrary(cur.bundle, cur.id)
		if err != nil {
			return err
		}

		// Check each dependency
		for _, dep := range library.GetDependencies() {
			depNode, err := v.resolveDependencyNode(dep, cur.bundle)
			if err != nil {
				return err
			}

			if err := dfs(depNode, stack); err != nil {
				return err
			}
		}

		// Mark as done
		state[key] = 2
		return nil
	}

	// Check all libraries in all bundles
	allBundles := v.bundles.GetAllBundles()
	for bundleName, bundleModel := range allBundles {
		libraries := bundleModel.GetPolicyLibraries()
		for libID := range libraries {
			if err := dfs(libraryNode{bundle: bundleName, id: libID}, []string{}); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError creates a detailed error message for circular dependencies
func (v *CatalogValidator) buildCycleError(key string, stack []string) error {
	// Find where the cycle starts
	start := 0
	for i, k := range stack {
		if k == key {
			start = i
			break
		}
	}

	cycle := append(stack[start:], key)
	return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " → "))
}

// getLibrary safely retrieves a library from a bundle
func (v *CatalogValidator) getLibrary(bundleName, libID string) (PolicyEntity, error) {
	bundleModel, ok := v.bundles.GetBundle(bundleName)
	if !ok {
		return nil, fmt.Errorf("bundle '%s' not found", bundleName)
	}

	libraries := bundleModel.GetPolicyLibraries()
	library, ok := libraries[libID]
	if !ok {
		return nil, fmt.Errorf("library '%s' not found in bundle '%s'", libID, bundleName)
	}

	return library, nil
}

// resolveDependencyNode resolves a dependency string to a libraryNode
func (v *CatalogValidator) resolveDependencyNode(dependency, sourceBundle string) (libraryNode, error) {
	targetBundle, depID, err := v.resolver.ParseReference(dependency, sourceBundle)
	if err != nil {
		return libraryNode{}, err
	}

	// Validate that the target exists
	if err := v.validateDependencyExists(targetBundle, depID); err != nil {
		return libraryNode{}, err
	}

	return libraryNode{bundle: targetBundle, id: depID}, nil
}

// validateDependencyExists checks if a dependency target exists
func (v *CatalogValidator) validateDependencyExists(targetBundle, depID string) error {
	targetModel, exists := v.bundles.GetBundle(targetBundle)
	if !exists {
		return fmt.Errorf("bundle '%s' not found", targetBundle)
	}

	libraries := targetModel.GetPolicyLibraries()
	if _, exists := libraries[depID]; !exists {
		return fmt.Errorf("library '%s' not found in bundle '%s'", depID, targetBundle)
	}

	return nil
}
