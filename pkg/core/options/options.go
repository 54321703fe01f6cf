//
//  Copyright © Stackport Inc. All rights reserved.
//
// shared between pkg/core and internal/core, and thus must be in a separate package to avoid circular dependencies

package options

import (
	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/core/catalog"
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/decisionlog"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

var logger = logging.GetLogger("resolver")
var agent = "resolver"

// EngineOptions defines the configuration options for initializing a resolver, including factories for decision logs and catalogs.
type EngineOptions struct {
	DecisionLogFactory decisionlog.Factory
	CatalogFactory     catalog.Factory
	CompilerOptions    []opa.CompilerOptionFunc
	AuxData            map[string]interface{}
}

// EngineOptionsFunc is a function that modifies EngineOptions.
type EngineOptionsFunc func(*EngineOptions)

// WithDecisionLog configures the decision log stream for the resolver.
func WithDecisionLog(factory decisionlog.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.DecisionLogFactory = factory
	}
}

// WithCatalog configures the catalog factory for the resolver.
func WithCatalog(factory catalog.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		if config.VConfig.GetBool(config.MockEnabled) {
			logger.Warn(agent, "WithCatalog", "Ignoring catalog factory as mock mode is enabled")
		} else {
			o.CatalogFactory = factory
		}
	}
}

// WithCompilerOptions configures the OPA compiler options for the resolver.
func WithCompilerOptions(opts ...opa.CompilerOptionFunc) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.CompilerOptions = opts
	}
}

// WithAuxData configures auxiliary data merged into every access-policy
// evaluation input under the "auxdata" key.
func WithAuxData(auxdata map[string]interface{}) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.AuxData = auxdata
	}
}

// ResolveOptions represents configuration options for Resolve and AccessLevel operations.
type ResolveOptions struct {
	Probe bool
}

// ResolveOptionsFunc is a function that modifies ResolveOptions.
type ResolveOptionsFunc func(*ResolveOptions)

// SetProbeMode configures the probe mode for Resolve and AccessLevel operations.  Probe mode resolves ownership but
// does not log decisions, which is helpful for returning information about what access a user has without impacting
// the audit trail.  For instance, if you want to show a UI user whether they would see an application's deployment
// details, you can run AccessLevel in probe mode as if they had requested access, using the outcome in the display.
// However, it would be unfair to generate an audit record that suggests that the user requested access, when really
// your service was merely testing to see what they would get.
//
// Probe mode is disabled by default. Use with caution and only in places where you are sure that the decision doesn't
// require logging.
func SetProbeMode(probe bool) ResolveOptionsFunc {
	return func(o *ResolveOptions) {
		o.Probe = probe
	}
}
