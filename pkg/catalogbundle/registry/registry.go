//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package registry provides functionality for loading and validating
// catalog bundles from YAML files.
//
// The registry is the primary entry point for loading catalog bundles.
// It parses YAML files, validates cross-references, and compiles Rego
// policies into executable ASTs.
//
// # Loading Catalog Bundles
//
//	registry, err := registry.NewRegistry([]string{
//	    "./catalog/org.yml",
//	    "./catalog/teams.yml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Using with the Owner Resolver
//
//	catalog := static.NewFactory(registry)
//	soe, _ := core.NewResolver(options.WithCatalog(catalog))
//
// # Validation
//
// The registry validates all cross-references between catalog entities
// during loading. Use [Registry.ValidateWithSummary] for detailed error
// information, or [Registry.GetAllValidationErrors] for programmatic access.
package registry

import (
	"crypto/sha256"
	"fmt"

	"github.com/stackport/ownerengine/pkg/catalogbundle"
	"github.com/stackport/ownerengine/pkg/catalogbundle/parsers"
	"github.com/stackport/ownerengine/pkg/catalogbundle/validation"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

// BundleMap maps catalog bundle names to their parsed intermediate models.
type BundleMap map[string]*catalogbundle.IntermediateModel

// Registry manages loaded catalog bundles and their validation state.
//
// Registry is created by [NewRegistry], which loads and validates catalog
// bundle YAML files. The registry can then be used with the static catalog
// to provide entity and policy data to the resolver.
type Registry struct {
	bundles   BundleMap
	names     []string
	validator *validation.BundleValidator
}

func reverse[T any](list []T) []T {
	for i, j := 0, len(list)-1; i < j; {
		list[i], list[j] = list[j], list[i]
		i++
		j--
	}
	return list
}

func (r *Registry) verify() error {
	return r.validator.ValidateAll()
}

// ValidateWithSummary validates and returns a detailed summary of any errors
func (r *Registry) ValidateWithSummary() (bool, string) {
	return r.validator.ValidateWithSummary()
}

// GetAllValidationErrors returns all validation errors without stopping on first error
func (r *Registry) GetAllValidationErrors() []*validation.Error {
	return r.validator.GetAllValidationErrors()
}

// ValidateBundle validates a specific bundle and returns detailed errors
func (r *Registry) ValidateBundle(bundleName string) error {
	return r.validator.ValidateBundle(bundleName)
}

// GetBundles returns the bundle map for accessing bundle models
func (r *Registry) GetBundles() BundleMap {
	return r.bundles
}

// GetBundleNames returns bundle names in load order. Entity lookups that
// scan across bundles follow this order, so earlier bundles win collisions.
func (r *Registry) GetBundleNames() []string {
	return r.names
}

// ResolveDependencies resolves dependencies for a bundle model
func (r *Registry) ResolveDependencies(model *catalogbundle.IntermediateModel, dependencies []string) ([]string, error) {
	// Create adapter for this specific model
	modelAdapter := &BundleModelAdapter{model}

	// Use common library's dependency resolution
	return r.validator.ValidateDependencies(modelAdapter, dependencies)
}

// NewRegistry loads and validates catalog bundles from the specified paths.
//
// Each path names a catalog bundle YAML file. Bundles are loaded in the
// order provided, with earlier bundles taking precedence for name
// collisions.
//
// Returns an error if any bundle fails to parse or validate.
//
// Example:
//
//	registry, err := registry.NewRegistry([]string{
//	    "./catalog/org.yml",
//	    "./catalog/contractors.yml",
//	})
func NewRegistry(bundlePaths []string) (*Registry, error) {
	bundlesList := make([]*catalogbundle.IntermediateModel, 0)
	for _, bundlepath := range bundlePaths {
		instance, err := parsers.Load(bundlepath)
		if err != nil {
			return nil, err
		}
		bundlesList = append(bundlesList, instance)
	}

	names := make([]string, 0, len(bundlesList))
	seen := make(map[string]bool)
	for _, instance := range bundlesList {
		if !seen[instance.Name] {
			seen[instance.Name] = true
			names = append(names, instance.Name)
		}
	}

	bundles := make(map[string]*catalogbundle.IntermediateModel)
	for _, instance := range reverse(bundlesList) {
		bundles[instance.Name] = instance
	}

	// Create adapter for the common validation library
	bundleMapAdapter := NewBundleMapAdapter(bundles)

	// Use the common validation library
	validator := validation.NewBundleValidator(bundleMapAdapter)

	r := &Registry{
		bundles:   bundles,
		names:     names,
		validator: validator,
	}

	if err := r.verify(); err != nil {
		return nil, err
	}
	return r, nil
}

// CompileAllPolicies compiles all policies and mappers in all bundles, caching the ASTs.
// This should be called after registry creation with the compiler from the catalog.
// The policyCompiler is used for access policies (with unsafe builtin exclusions).
// The mapperCompiler is used for mappers (with default capabilities).
func (r *Registry) CompileAllPolicies(policyCompiler *opa.Compiler, mapperCompiler *opa.Compiler) error {
	for bundleName, bundle := range r.bundles {
		// Compile all policies
		if err := r.compilePoliciesInBundle(policyCompiler, bundle); err != nil {
			return fmt.Errorf("bundle %s: %w", bundleName, err)
		}

		// Compile all mappers
		if err := r.compileMappersInBundle(mapperCompiler, bundle); err != nil {
			return fmt.Errorf("bundle %s: %w", bundleName, err)
		}
	}
	return nil
}

// compilePoliciesInBundle compiles all policies in a bundle
func (r *Registry) compilePoliciesInBundle(compiler *opa.Compiler, bundle *catalogbundle.IntermediateModel) error {
	// Compile policy libraries first (they may be dependencies)
	for id, policy := range bundle.PolicyLibraries {
		if policy.Ast != nil {
			continue // Already compiled
		}
		ast, err := r.compilePolicyWithDeps(compiler, bundle, &policy)
		if err != nil {
			return fmt.Errorf("policy library %s: %w", id, err)
		}
		policy.Ast = ast
		bundle.PolicyLibraries[id] = policy
	}

	// Compile policies
	for id, policy := range bundle.Policies {
		if policy.Ast != nil {
			continue // Already compiled
		}
		ast, err := r.compilePolicyWithDeps(compiler, bundle, &policy)
		if err != nil {
			return fmt.Errorf("policy %s: %w", id, err)
		}
		policy.Ast = ast
		bundle.Policies[id] = policy
	}

	return nil
}

// compilePolicyWithDeps compiles a policy with its dependencies
func (r *Registry) compilePolicyWithDeps(compiler *opa.Compiler, sourceBundle *catalogbundle.IntermediateModel, policy *catalogbundle.Policy) (*opa.Ast, error) {
	id := policy.IDSpec.ID

	// Build module map with policy and all dependencies
	modules := map[string]string{}
	modules[id] = policy.Rego

	// Compute fingerprint from all rego code
	h := sha256.New()
	h.Write([]byte(id))
	h.Write([]byte(policy.Rego))

	// Resolve and add dependencies
	deps, err := r.ResolveDependencies(sourceBundle, policy.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("resolving dependencies: %w", err)
	}

	bundleMapAdapter := NewBundleMapAdapter(r.bundles)
	resolver := validation.NewReferenceResolver(bundleMapAdapter)

	for _, depRef := range deps {
		targetBundleName, _, depID, resolveErr := resolver.ResolveReference(depRef, sourceBundle.Name, "library")
		if resolveErr != nil {
			return nil, fmt.Errorf("resolving reference %s: %w", depRef, resolveErr)
		}

		targetBundle := r.bundles[targetBundleName]
		dep, ok := targetBundle.PolicyLibraries[depID]
		if !ok {
			return nil, fmt.Errorf("library %s not found in bundle %s", depID, targetBundleName)
		}

		h.Write([]byte(dep.Rego))
		modules[dep.IDSpec.ID] = dep.Rego
	}

	// Update fingerprint
	policy.IDSpec.Fingerprint = h.Sum(nil)

	// Compile
	ast, err := compiler.Compile(id, modules)
	if err != nil {
		return nil, fmt.Errorf("compilation failed: %w", err)
	}

	return ast, nil
}

// compileMappersInBundle compiles all mappers in a bundle
func (r *Registry) compileMappersInBundle(compiler *opa.Compiler, bundle *catalogbundle.IntermediateModel) error {
	for i := range bundle.Mappers {
		mapper := &bundle.Mappers[i]
		if mapper.Ast != nil {
			continue // Already compiled
		}

		modules := map[string]string{}
		modules[mapper.IDSpec.ID] = mapper.Rego

		ast, err := compiler.Compile(mapper.IDSpec.ID, modules)
		if err != nil {
			return fmt.Errorf("mapper %s: compilation failed: %w", mapper.IDSpec.ID, err)
		}

		mapper.Ast = ast
	}

	return nil
}
