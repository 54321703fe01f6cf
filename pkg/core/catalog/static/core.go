//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package static provides a catalog implementation that serves entities
// from local YAML files via a [registry.Registry].
//
// The static catalog is the standard catalog for deployments that manage
// their organization model as configuration files, either bundled with
// the application or loaded from a filesystem path.
//
// # Usage
//
//	// Load catalog bundles from local files
//	reg, err := registry.NewRegistry([]string{
//	    "./catalog/org.yml",
//	    "./catalog/apps.yml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create a resolver backed by the static catalog
//	soe, err := core.NewResolver(
//	    options.WithCatalog(static.NewFactory(reg)),
//	)
//
// # Policy Compilation
//
// When [Catalog] is created via [Factory.NewCatalog], all access policies
// and mappers in the registry are compiled, along with the built-in default
// access policy. This ensures fast access determinations at runtime with no
// compilation overhead.
package static

import (
	"context"
	"fmt"
	"strings"

	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/catalogbundle"
	"github.com/stackport/ownerengine/pkg/catalogbundle/registry"
	"github.com/stackport/ownerengine/pkg/catalogbundle/validation"
	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core/catalog"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

var logger = logging.GetLogger("ownerengine.catalog.static")
var actor = "catalog.static"

// Factory creates [Catalog] instances from a [registry.Registry].
type Factory struct {
	reg *registry.Registry
}

// Catalog implements [catalog.Service] using entity data from a registry.
//
// Catalog serves entities, applications, and policies from compiled catalog
// bundles. All access policies and mappers are compiled during catalog
// initialization, ensuring fast runtime performance. Entity lookups scan
// bundles in load order, so earlier bundles win name collisions.
type Catalog struct {
	policyCompiler *opa.Compiler
	mapperCompiler *opa.Compiler
	defaultPolicy  *model.Policy
	reg            *registry.Registry
}

// NewFactory creates a [catalog.Factory] for the static catalog.
//
// The registry must be fully loaded and validated before calling NewFactory.
// Use [registry.NewRegistry] to create the registry from bundle paths.
func NewFactory(reg *registry.Registry) catalog.Factory {
	return &Factory{reg: reg}
}

// NewCatalog creates a [Catalog] and compiles all policies in the registry.
//
// The provided compiler is used for access policies (with unsafe built-in
// exclusions). A separate mapper compiler is created with default
// capabilities since mappers may need access to built-ins that are
// restricted for policies.
//
// Returns an error if any policy or mapper fails to compile.
func (f *Factory) NewCatalog(compiler *opa.Compiler) (catalog.Service, error) {
	// Create a separate OPA compiler for mappers, since they don't want/need unsafe builtin exclusions like the policy compiler does
	mapperCompiler := compiler.Clone(opa.WithDefaultCapabilities())

	// Compile all policies and mappers upfront using the catalog's compilers.
	// This ensures trace logging and capability settings are respected.
	if err := f.reg.CompileAllPolicies(compiler, mapperCompiler); err != nil {
		return nil, err
	}

	defaultPolicy, err := catalog.CompileDefaultAccessPolicy(compiler)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		policyCompiler: compiler,
		mapperCompiler: mapperCompiler,
		defaultPolicy:  defaultPolicy,
		reg:            f.reg,
	}, nil
}

func newTestCatalog(compiler *opa.Compiler, reg *registry.Registry) *Catalog {
	return &Catalog{
		policyCompiler: compiler,
		mapperCompiler: compiler,
		reg:            reg,
	}
}

// parseEntityRef splits a canonical entity reference of the form
// "<Kind>:<namespace>/<name>" into its parts. The kind token is matched
// case-insensitively.
func parseEntityRef(ref string) (kind, namespace, name string, rerr *common.ResolverError) {
	malformed := func() *common.ResolverError {
		return common.NewError(common.ReasonInvalidParameter,
			fmt.Sprintf("malformed entity reference '%s', expected '<Kind>:<namespace>/<name>'", ref))
	}

	kind, rest, found := strings.Cut(ref, ":")
	if !found || kind == "" {
		return "", "", "", malformed()
	}

	namespace, name, found = strings.Cut(rest, "/")
	if !found || namespace == "" || name == "" {
		return "", "", "", malformed()
	}

	return strings.ToLower(kind), namespace, name, nil
}

// ResolveByReference resolves a canonical entity reference against the
// loaded bundles.
//
// Bundles are scanned in load order and the first declaration wins, matching
// the registry's precedence rules. Absent entities return (nil, nil) so that
// display-name enrichment stays fail-open; only a malformed reference is an
// error.
func (c *Catalog) ResolveByReference(ctx context.Context, ref string) (*model.Entity, *common.ResolverError) {
	logger.Tracef(actor, "Get", "ResolveByReference: %v", ref)

	kind, namespace, name, rerr := parseEntityRef(ref)
	if rerr != nil {
		return nil, rerr
	}

	// All bundle entities live in the default namespace
	if namespace != "default" {
		return nil, nil
	}

	switch kind {
	case "user":
		return c.getUser(name), nil
	case "group":
		return c.getGroup(name), nil
	default:
		// Kinds the catalog does not serve are absent, not errors
		return nil, nil
	}
}

func (c *Catalog) getUser(name string) *model.Entity {
	for _, bundleName := range c.reg.GetBundleNames() {
		if user, ok := c.reg.GetBundles()[bundleName].Users[name]; ok {
			return &model.Entity{
				Ref:         fmt.Sprintf("User:default/%s", user.Name),
				Kind:        "User",
				Namespace:   "default",
				Name:        user.Name,
				Title:       user.Title,
				Annotations: model.Annotations(user.Annotations),
			}
		}
	}

	return nil
}

func (c *Catalog) getGroup(name string) *model.Entity {
	for _, bundleName := range c.reg.GetBundleNames() {
		if group, ok := c.reg.GetBundles()[bundleName].Groups[name]; ok {
			return &model.Entity{
				Ref:         fmt.Sprintf("Group:default/%s", group.Name),
				Kind:        "Group",
				Namespace:   "default",
				Name:        group.Name,
				Title:       group.Title,
				Annotations: model.Annotations(group.Annotations),
			}
		}
	}

	return nil
}

// GetApplication retrieves an application by name from the loaded bundles.
//
// Bundles are scanned in load order and the first declaration wins. An
// application that no bundle declares returns (nil, nil).
func (c *Catalog) GetApplication(ctx context.Context, name string) (*model.Application, *common.ResolverError) {
	logger.Tracef(actor, "Get", "GetApplication: %v", name)

	for _, bundleName := range c.reg.GetBundleNames() {
		if app, ok := c.reg.GetBundles()[bundleName].Applications[name]; ok {
			application := &model.Application{
				Name:        app.Name,
				Annotations: model.Annotations(app.Annotations),
			}
			if app.Owner != "" {
				application.Owner = app.Owner
			}
			return application, nil
		}
	}

	return nil, nil
}

// getPolicy resolves a policy reference from the binding bundle to its
// compiled form. Policies are pre-compiled during catalog initialization, so
// this is a simple lookup.
func (c *Catalog) getPolicy(ref, sourceBundle string) (*model.Policy, *common.ResolverError) {
	logger.Tracef(actor, "Get", "getPolicy: %v (bundle %v)", ref, sourceBundle)

	resolver := validation.NewReferenceResolver(registry.NewBundleMapAdapter(c.reg.GetBundles()))

	targetBundle, _, policyID, err := resolver.ResolveReference(ref, sourceBundle, "policy")
	if err != nil {
		return nil, common.NewError(common.ReasonNotFound, err.Error())
	}

	policy, ok := c.reg.GetBundles()[targetBundle].Policies[policyID]
	if !ok {
		return nil, common.NewError(common.ReasonUnknown, "internal model corruption")
	}

	// Policy is already compiled at catalog initialization time
	if policy.Ast == nil {
		return nil, common.NewError(common.ReasonCompilationError,
			fmt.Sprintf("policy %s has no compiled AST", policyID))
	}

	return &model.Policy{
		Ref:         policy.IDSpec.ID,
		Fingerprint: policy.IDSpec.Fingerprint,
		Ast:         policy.Ast,
	}, nil
}

func (c *Catalog) policyRefExport(bundleName string, ref *catalogbundle.PolicyReference) (*model.PolicyReference, *common.ResolverError) {
	policy, rerr := c.getPolicy(ref.Policy, bundleName)
	if rerr != nil {
		return nil, rerr
	}

	return &model.PolicyReference{
		Ref:         ref.IDSpec.ID,
		Policy:      policy,
		Annotations: model.Annotations(ref.Annotations),
	}, nil
}

// GetAccessPolicy retrieves the access policy governing the LIMITED tier.
//
// Bundles are scanned in load order and the first bundle that binds an
// access policy wins. When no bundle binds one, the built-in default policy
// applies, granting LIMITED exactly when a recognized integration annotation
// is present.
func (c *Catalog) GetAccessPolicy(ctx context.Context) (*model.PolicyReference, *common.ResolverError) {
	logger.Tracef(actor, "Get", "GetAccessPolicy")

	for _, bundleName := range c.reg.GetBundleNames() {
		bundle := c.reg.GetBundles()[bundleName]
		if bundle.AccessPolicy == nil {
			continue
		}

		return c.policyRefExport(bundleName, bundle.AccessPolicy)
	}

	if c.defaultPolicy == nil {
		return nil, common.NewError(common.ReasonCompilationError, "default access policy has no compiled AST")
	}

	return &model.PolicyReference{
		Ref:    catalog.DefaultPolicyRef,
		Policy: c.defaultPolicy,
	}, nil
}

// exportMapper converts a cached intermediate mapper to a frontend model mapper.
// Mappers are pre-compiled during catalog initialization.
func (c *Catalog) exportMapper(bundleName string, mapper *catalogbundle.Mapper) (*model.Mapper, *common.ResolverError) {
	if mapper.Ast == nil {
		return nil, common.NewError(common.ReasonCompilationError,
			fmt.Sprintf("mapper %s has no compiled AST", mapper.IDSpec.ID))
	}

	return &model.Mapper{
		Bundle: bundleName,
		Ast:    mapper.Ast,
	}, nil
}

// GetMapper retrieves the mapper from the specified bundle or the first available mapper.
// Mappers are pre-compiled during catalog initialization, so this is a simple lookup.
func (c *Catalog) GetMapper(ctx context.Context, bundleName string) (*model.Mapper, *common.ResolverError) {
	if bundleName != "" {
		// Caller specified a bundle name
		bundle, exists := c.reg.GetBundles()[bundleName]
		if !exists || bundle == nil {
			return nil, common.NewError(common.ReasonNotFound, fmt.Sprintf("bundle '%s' not found", bundleName))
		}

		if len(bundle.Mappers) == 0 {
			return nil, common.NewError(common.ReasonNotFound, fmt.Sprintf("no mappers found in bundle '%s'", bundleName))
		}

		if len(bundle.Mappers) > 1 {
			return nil, common.NewError(common.ReasonUnknown, fmt.Sprintf("multiple mappers found in bundle '%s', this is not supported", bundleName))
		}

		return c.exportMapper(bundleName, &bundle.Mappers[0])
	}

	// No bundle specified, find the first mapper across all bundles
	var foundMapper *catalogbundle.Mapper
	var foundBundle string
	mapperCount := 0

	for _, currentBundleName := range c.reg.GetBundleNames() {
		bundle := c.reg.GetBundles()[currentBundleName]
		if len(bundle.Mappers) > 0 {
			mapperCount += len(bundle.Mappers)
			if foundMapper == nil {
				foundMapper = &bundle.Mappers[0]
				foundBundle = currentBundleName
			}
		}
	}

	if foundMapper == nil {
		return nil, common.NewError(common.ReasonNotFound, "no mappers found in any bundle")
	}

	if mapperCount > 1 {
		return nil, common.NewError(common.ReasonUnknown, "multiple mappers found across bundles, please specify a bundle name using --name/-n")
	}

	return c.exportMapper(foundBundle, foundMapper)
}
