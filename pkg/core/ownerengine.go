//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package core provides the primary interface for the Stackport Owner
// Engine, a library that determines which managed applications a user may
// act on, and at what privilege level, by resolving each application's
// owner declaration against the user's identity and group claims.
//
// The engine classifies every owner declaration into a typed descriptor,
// opportunistically enriches it with catalog display names, aggregates the
// results into a per-user ownership snapshot, and derives a coarse access
// level (FULL / LIMITED / NONE) per application. Snapshots are cached per
// (user, application set) with a bounded staleness window.
//
// # Quick Start
//
// Create a resolver with default options (stdout decision log, REST catalog
// when catalog.url is configured, mock catalog otherwise):
//
//	r, err := core.NewResolver()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Resolve ownership for a user:
//
//	snapshot, err := r.Resolve(ctx,
//	    &model.UserIdentity{
//	        UserRef:       "user:default/alice",
//	        OwnershipRefs: []string{"group:default/platform-team"},
//	    },
//	    applications)
//
// Determine the access level for one application:
//
//	level, err := r.AccessLevel(ctx, user, application)
//	if level.AtLeast(model.AccessLimited) {
//	    // expose read/trigger functionality
//	}
//
// # Configuration
//
// The resolver supports various configuration options via functional options:
//
//	r, err := core.NewResolver(
//	    options.WithCatalog(static.NewFactory(registry)),
//	    options.WithDecisionLog(decisionlog.NewStdoutFactory()),
//	)
//
// # Probe Mode
//
// For UI capabilities discovery without impacting the audit trail, use probe
// mode:
//
//	level, err := r.AccessLevel(ctx, user, application, options.SetProbeMode(true))
//
// See the [options] package for all available configuration options.
package core

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stackport/ownerengine/internal/core"
	"github.com/stackport/ownerengine/internal/core/catalog/mock"
	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/catalogbundle/registry"
	"github.com/stackport/ownerengine/pkg/core/catalog"
	"github.com/stackport/ownerengine/pkg/core/catalog/rest"
	"github.com/stackport/ownerengine/pkg/core/catalog/static"
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/decisionlog"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/options"
)

var logger = logging.GetLogger("ownerengine")
var agent = "ownerengine"

// Resolver is the primary interface for ownership resolution and access
// determination.
//
// Implementations of Resolver are safe for concurrent use by multiple
// goroutines; each call resolves one user's request and shares no mutable
// state with other calls beyond the snapshot cache.
type Resolver interface {
	// Resolve computes the ownership snapshot for the user across the given
	// applications: which are owned directly, which through a group, and the
	// normalized owner descriptor for each.
	//
	// Returns an error only for caller contract violations (an identity
	// missing its user reference); catalog failures degrade to un-enriched
	// display names and never fail the call.
	Resolve(ctx context.Context, user *model.UserIdentity, applications []*model.Application, resolveOptions ...options.ResolveOptionsFunc) (*model.OwnershipSnapshot, error)

	// AccessLevel determines the user's access to a single application:
	// FULL for owners, LIMITED for non-owners when the catalog access
	// policy grants it, NONE otherwise.
	AccessLevel(ctx context.Context, user *model.UserIdentity, application *model.Application, resolveOptions ...options.ResolveOptionsFunc) (model.AccessLevel, error)

	// MembersOf filters candidateGroups down to the groups actually claimed
	// by the user's identity, preserving candidate order.
	MembersOf(user *model.UserIdentity, candidateGroups []string) ([]string, error)

	// Invalidate evicts cached snapshots whose cache key contains ref. An
	// empty ref clears the entire cache.
	Invalidate(ref string)

	// GetCatalog returns the underlying catalog service used for entity
	// resolution.
	//
	// This is useful for advanced use cases where direct access to catalog
	// data is needed, such as decision points that look up applications by
	// name before requesting an access level.
	GetCatalog() catalog.Service
}

// ResolverImpl is the default implementation of the [Resolver] interface.
//
// ResolverImpl wraps the internal engine and can be embedded or wrapped by
// applications that need to extend the resolver's behavior, such as adding
// request-scoped context management or middleware.
//
// Use [NewResolver] to create a properly initialized instance.
type ResolverImpl struct {
	instance core.Resolver
}

// NewResolver creates and initializes a new [Resolver] instance.
//
// By default, the resolver uses a stdout decision log and the REST catalog
// when catalog.url is configured, falling back to a mock catalog otherwise.
// Use functional options to configure the catalog and decision log directly:
//
//	r, err := core.NewResolver(
//	    options.WithCatalog(static.NewFactory(registry)),
//	    options.WithDecisionLog(decisionlog.NewStdoutFactory()),
//	    options.WithCompilerOptions(opa.WithRegoVersion(ast.RegoV1)),
//	)
//
// NewResolver loads configuration from environment variables and config
// files before initializing the engine. See the [config] package for details.
//
// Returns an error if configuration loading fails or if the catalog cannot
// be initialized.
func NewResolver(engineOptions ...options.EngineOptionsFunc) (Resolver, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	opts := &options.EngineOptions{
		DecisionLogFactory: decisionlog.NewStdoutFactory(),
		CatalogFactory:     defaultCatalogFactory(),
	}
	for _, o := range engineOptions {
		o(opts)
	}

	instance, err := core.NewResolver(opts)
	if err != nil {
		return nil, err
	}

	return &ResolverImpl{
		instance: *instance,
	}, nil
}

// defaultCatalogFactory selects the catalog backend when the caller does not
// request one: the REST catalog when catalog.url is configured, otherwise
// the mock catalog. Called after config.Load so the settings are visible.
// mock.enabled trumps catalog.url, mirroring [options.WithCatalog].
func defaultCatalogFactory() catalog.Factory {
	if !config.VConfig.GetBool(config.MockEnabled) && config.VConfig.GetString(config.CatalogURL) != "" {
		return rest.NewFactory()
	}

	return mock.NewFactory()
}

// NewLocalResolver creates and initializes a new [Resolver] instance from
// local catalog bundle files.
//
// Each bundlePath should be a file containing a CatalogBundle YAML document.
// Bundles are loaded in the order provided, with earlier bundles taking
// precedence for name collisions.
//
// Other defaults are inherited from [NewResolver].
//
// Returns an error if configuration loading fails, if the bundles do not
// validate, or if the catalog cannot be initialized.
func NewLocalResolver(bundlePaths []string, engineOptions ...options.EngineOptionsFunc) (Resolver, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	r, err := registry.NewRegistry(bundlePaths)
	if err != nil {
		return nil, err
	}

	engineOptions = append(engineOptions, options.WithCatalog(static.NewFactory(r)))
	return NewResolver(engineOptions...)
}

func gatherResolveOptions(resolveOptions []options.ResolveOptionsFunc) *options.ResolveOptions {
	opts := &options.ResolveOptions{Probe: false}
	for _, o := range resolveOptions {
		o(opts)
	}
	return opts
}

// Resolve computes the ownership snapshot for the user across the given
// applications.
//
// Fresh results are served from the snapshot cache; see [Invalidate] for
// explicit eviction. Each non-probe call emits a decision record to the
// configured decision log.
func (r *ResolverImpl) Resolve(ctx context.Context, user *model.UserIdentity, applications []*model.Application, resolveOptions ...options.ResolveOptionsFunc) (*model.OwnershipSnapshot, error) {
	logger.Debug(agent, "Resolve", "Enter")
	defer logger.Debug(agent, "Resolve", "Exit")

	snapshot, rerr := r.instance.Resolve(ctx, user, applications, gatherResolveOptions(resolveOptions))
	if rerr != nil {
		return nil, rerr
	}

	return snapshot, nil
}

// AccessLevel determines the user's access to a single application.
//
// Authorization options can modify the evaluation behavior:
//
//	// Enable probe mode to skip decision logging
//	level, err := r.AccessLevel(ctx, user, application, options.SetProbeMode(true))
func (r *ResolverImpl) AccessLevel(ctx context.Context, user *model.UserIdentity, application *model.Application, resolveOptions ...options.ResolveOptionsFunc) (model.AccessLevel, error) {
	logger.Debug(agent, "AccessLevel", "Enter")
	defer logger.Debug(agent, "AccessLevel", "Exit")

	level, rerr := r.instance.AccessLevel(ctx, user, application, gatherResolveOptions(resolveOptions))
	if rerr != nil {
		return model.AccessNone, rerr
	}

	logger.Debugf(agent, "AccessLevel", "returned from accessLevel(): %s", level)

	return level, nil
}

// MembersOf filters candidateGroups down to the groups the user's identity
// actually claims. No catalog lookups occur and no decision record is
// emitted.
func (r *ResolverImpl) MembersOf(user *model.UserIdentity, candidateGroups []string) ([]string, error) {
	members, rerr := r.instance.MembersOf(user, candidateGroups)
	if rerr != nil {
		return nil, rerr
	}

	return members, nil
}

// Invalidate evicts cached ownership snapshots. Cache keys embed the user
// reference verbatim, so passing a full or partial user reference evicts
// that user's entries; an empty ref clears everything.
func (r *ResolverImpl) Invalidate(ref string) {
	r.instance.Invalidate(ref)
}

// GetCatalog returns the catalog service used by this resolver.
//
// The catalog service provides entity resolution, application lookup, and
// access-policy retrieval. This method is primarily intended for decision
// points and debugging.
func (r *ResolverImpl) GetCatalog() catalog.Service {
	return r.instance.GetCatalog()
}
