//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package validation checks the internal consistency of parsed catalog
// bundles: policy and library references must resolve, group members must
// name declared users, application owners must name declared entities,
// library dependency graphs must be acyclic, and all Rego must parse.
//
// The package operates on small interfaces rather than concrete bundle
// types so the registry can adapt its models without an import cycle.
package validation

// ValidatorInterface defines the main validation contract
type ValidatorInterface interface {
	// ValidateAll performs complete validation of all bundles
	ValidateAll() error

	// ValidateBundle validates a specific bundle
	ValidateBundle(bundleName string) error

	// ValidateWithSummary validates and returns a summary
	ValidateWithSummary() (bool, string)

	// GetAllValidationErrors returns all validation errors
	GetAllValidationErrors() []*Error
}

// BundleValidator provides high-level validation for catalog bundles
type BundleValidator struct {
	validator *CatalogValidator
}

// NewBundleValidator creates a validator for catalog bundles
func NewBundleValidator(bundles BundleMap) *BundleValidator {
	resolver := NewReferenceResolver(bundles)
	validator := NewCatalogValidator(resolver, bundles)

	return &BundleValidator{
		validator: validator,
	}
}

// ValidateAll validates all bundles in the catalog
func (bv *BundleValidator) ValidateAll() error {
	return bv.validator.ValidateAll()
}

// ValidateBundle validates a specific bundle
func (bv *BundleValidator) ValidateBundle(bundleName string) error {
	return bv.validator.ValidateBundle(bundleName)
}

// ValidateWithSummary validates and returns a summary
func (bv *BundleValidator) ValidateWithSummary() (bool, string) {
	return bv.validator.ValidateWithSummary()
}

// GetAllValidationErrors returns all validation errors
func (bv *BundleValidator) GetAllValidationErrors() []*Error {
	return bv.validator.GetAllValidationErrors()
}

// ValidateDependencies resolves and validates dependencies for a bundle model
func (bv *BundleValidator) ValidateDependencies(model BundleModel, dependencies []string) ([]string, error) {
	resolver := NewReferenceResolver(bv.validator.bundles)
	depResolver := NewDependencyResolver(resolver)
	return depResolver.ResolveDependencies(model, dependencies)
}

// ValidateRegoCode validates individual Rego code snippets
func ValidateRegoCode(regoCode, entityType, entityID string) error {
	validator := NewRegoValidator()
	return validator.ValidateRegoCode(regoCode, entityType, entityID)
}

// ParseReference parses a reference string into bundle and object ID components
func ParseReference(reference, sourceBundle string, bundles BundleMap) (targetBundle, objectID string, err error) {
	resolver := NewReferenceResolver(bundles)
	return resolver.ParseReference(reference, sourceBundle)
}

// ValidateReference validates that a reference exists in the bundle collection
func ValidateReference(reference, sourceBundle, expectedType string, bundles BundleMap) error {
	resolver := NewReferenceResolver(bundles)
	return resolver.ValidateReference(reference, sourceBundle, expectedType)
}
