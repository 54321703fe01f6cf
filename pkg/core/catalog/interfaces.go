//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package catalog defines the interfaces for entity catalog implementations.
//
// A catalog is responsible for resolving entity references to user and group
// entities, and for providing the access policies and query mappers declared
// by catalog bundles. The owner engine uses catalogs to enrich owner
// descriptors with display names and to decide the LIMITED access tier.
//
// # Built-in Catalogs
//
// The following catalog implementations are available:
//   - [static]: Serves entities from local YAML bundles via a [registry.Registry]
//   - [rest]: Proxies entity lookups to a remote catalog service
//   - Mock catalog (internal): Returns scripted entities, useful for testing
//
// # Implementing a Custom Catalog
//
// To implement a custom catalog (e.g., for a database or an LDAP directory):
//
//  1. Implement the [Factory] interface to create catalog instances
//  2. Implement the [Service] interface to provide entity data
//  3. Use the catalog with [options.WithCatalog] when creating the resolver
//
// Example:
//
//	type MyFactory struct { /* ... */ }
//
//	func (f *MyFactory) NewCatalog(c *opa.Compiler) (catalog.Service, error) {
//	    return &MyCatalog{compiler: c}, nil
//	}
//
//	// Use with the resolver
//	r, _ := core.NewResolver(options.WithCatalog(&MyFactory{}))
//
// # Entity Reference Format
//
// All methods that accept entity reference parameters expect identifiers in
// the format: <Kind>:<namespace>/<name>
// For example: Group:default/platform-team
package catalog

import (
	"context"

	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

// Factory creates catalog [Service] instances.
//
// The factory pattern separates early initialization (configuration defaults,
// resource allocation) from late initialization (connecting to services,
// compiling policies). The resolver framework guarantees:
//
//  1. Factory construction happens early, allowing Viper defaults to be set
//  2. Configuration is fully loaded before [NewCatalog] is called
//  3. The OPA [Compiler] is initialized and passed to [NewCatalog]
//
// Implementations should perform expensive operations (network connections,
// policy compilation) in [NewCatalog], not during factory construction.
type Factory interface {
	// NewCatalog creates a new catalog service instance.
	//
	// The provided compiler should be used to compile any Rego access
	// policies. This method is called after configuration is fully loaded.
	//
	// Returns an error if the catalog cannot be initialized (e.g., network
	// failure, policy compilation error).
	NewCatalog(*opa.Compiler) (Service, error)
}

// Service provides access to catalog entities and access policies.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// # Error Handling
//
// Methods return *[common.ResolverError] instead of error to provide
// structured error information including reason codes suitable for decision
// log records. A nil ResolverError indicates success.
type Service interface {
	// ResolveByReference resolves an entity reference to a catalog entity.
	//
	// An entity that does not exist is a normal outcome, not a failure:
	// implementations return (nil, nil) for absent entities. A non-nil error
	// indicates the catalog itself misbehaved (e.g., a transport failure),
	// which enrichment callers absorb the same way as an absent entity.
	ResolveByReference(ctx context.Context, ref string) (*model.Entity, *common.ResolverError)

	// GetApplication retrieves an application declared by a catalog bundle,
	// by name.
	//
	// Like ResolveByReference, an application that does not exist returns
	// (nil, nil); callers decide whether absence is an error.
	GetApplication(ctx context.Context, name string) (*model.Application, *common.ResolverError)

	// GetAccessPolicy retrieves the access policy governing the LIMITED tier.
	//
	// The returned PolicyReference carries the compiled policy and any
	// bundle-level annotations to merge into the evaluation input.
	GetAccessPolicy(ctx context.Context) (*model.PolicyReference, *common.ResolverError)

	// GetMapper retrieves the query mapper for a catalog bundle.
	//
	// Mappers transform gateway request attributes into resolve queries.
	// If bundleName is empty, returns the mapper from the first bundle
	// that has one (error if multiple bundles have mappers).
	GetMapper(ctx context.Context, bundleName string) (*model.Mapper, *common.ResolverError)
}
