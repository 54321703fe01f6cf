//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core/catalog"
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/decisionlog"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/opa"
	"github.com/stackport/ownerengine/pkg/core/options"
)

/**********************************************************************************************************************************
 Resolution runs as a pipeline: parse every owner declaration, enrich the distinct owners against the catalog, then aggregate
 the results into a per-user snapshot. Enrichment is the only stage that performs I/O and it holds no locks while doing so; the
 cache is touched strictly before and after. Access determination layers the catalog policy on top of a snapshot for a single
 application.
**********************************************************************************************************************************/

var logger = logging.GetLogger("ownerengine")

const agent = "resolver"

// Resolver computes ownership snapshots and access levels.
type Resolver struct {
	decisions decisionlog.Stream
	catalog   catalog.Service
	compiler  *opa.Compiler
	cache     *resolutionCache
	auxdata   map[string]interface{}
}

// NewResolver instantiates the engine from the supplied options. The
// compiler is built first, with the configured unsafe builtins removed from
// its capabilities, and handed to the catalog factory so bundle policies
// compile under the same restrictions.
func NewResolver(engineOptions *options.EngineOptions) (*Resolver, error) {
	engineOptions.CompilerOptions = append(engineOptions.CompilerOptions, opa.WithUnsafeBuiltins(getUnsafeBuiltins()))

	compiler := opa.NewCompiler(engineOptions.CompilerOptions...)

	decisions, err := engineOptions.DecisionLogFactory.NewStream()
	if err != nil {
		return nil, err
	}

	cat, err := engineOptions.CatalogFactory.NewCatalog(compiler)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		decisions: decisions,
		catalog:   cat,
		compiler:  compiler,
		cache: newResolutionCache(
			config.VConfig.GetBool(config.CacheEnabled),
			config.VConfig.GetDuration(config.CacheTTL),
			nil,
		),
		auxdata: engineOptions.AuxData,
	}, nil
}

// Resolve computes the per-user ownership snapshot across the given
// applications.
//
// Fresh results are served from the snapshot cache. The cache key pairs the
// user reference with a digest of the application-name set, so the same user
// resolving different sets occupies distinct entries.
func (r *Resolver) Resolve(ctx context.Context, user *model.UserIdentity, applications []*model.Application, resolveOptions *options.ResolveOptions) (*model.OwnershipSnapshot, *common.ResolverError) {
	start := time.Now()

	record := decisionlog.NewRecord(decisionlog.OperationResolve)
	defer func() {
		record.DurationUs = durationMicros(time.Since(start))
		r.auditDecision(resolveOptions, record)
	}()

	if rerr := user.Validate(); rerr != nil {
		record.Error = rerr.Error()
		return nil, rerr
	}

	record.User = user.UserRef
	record.Input = marshalInput(user, applications)

	snapshot, cacheHit, fallbacks := r.resolveSnapshot(ctx, user, applications)
	record.CacheHit = cacheHit
	record.Fallbacks = fallbacks
	record.Assignments = buildAssignments(snapshot, applications)

	return snapshot, nil
}

// AccessLevel determines the caller's access to a single application.
//
// Ownership grants FULL. Non-owners are evaluated against the catalog access
// policy for the LIMITED tier; an unevaluable policy denies the tier rather
// than failing the call, so privilege never widens on error.
func (r *Resolver) AccessLevel(ctx context.Context, user *model.UserIdentity, application *model.Application, resolveOptions *options.ResolveOptions) (model.AccessLevel, *common.ResolverError) {
	start := time.Now()

	record := decisionlog.NewRecord(decisionlog.OperationAccessLevel)
	defer func() {
		record.DurationUs = durationMicros(time.Since(start))
		r.auditDecision(resolveOptions, record)
	}()

	if rerr := user.Validate(); rerr != nil {
		record.Error = rerr.Error()
		return model.AccessNone, rerr
	}

	applications := []*model.Application{application}

	record.User = user.UserRef
	record.Input = marshalInput(user, applications)

	snapshot, cacheHit, fallbacks := r.resolveSnapshot(ctx, user, applications)
	record.CacheHit = cacheHit
	record.Fallbacks = fallbacks
	record.Assignments = buildAssignments(snapshot, applications)

	level := model.AccessNone

	if snapshotOwns(snapshot, application.Name) {
		level = model.AccessFull
	} else {
		limited, policyRef, rerr := r.evaluateLimited(ctx, user, application)
		if policyRef != nil {
			record.Policy = policyRef.Ref
			if policyRef.Policy != nil {
				record.Fingerprint = fmt.Sprintf("%x", policyRef.Policy.Fingerprint)
			}
		}
		switch {
		case rerr != nil:
			logger.Errorf(agent, "AccessLevel", "access policy evaluation failed, denying LIMITED (%s)", rerr)
			record.Error = rerr.Error()
		case limited:
			level = model.AccessLimited
		}
	}

	record.AccessLevel = level.String()

	logger.Debugf(agent, "AccessLevel", "user: %s, application: %s, level: %s", user.UserRef, application.Name, level)

	return level, nil
}

// MembersOf filters candidateGroups down to the groups the user's identity
// actually claims, preserving candidate order. Membership derives entirely
// from the identity's ownership refs; no catalog lookups occur and no
// decision record is emitted.
func (r *Resolver) MembersOf(user *model.UserIdentity, candidateGroups []string) ([]string, *common.ResolverError) {
	if rerr := user.Validate(); rerr != nil {
		return nil, rerr
	}

	claimed := map[string]struct{}{}
	for _, name := range userGroupNames(user) {
		claimed[name] = struct{}{}
	}

	members := []string{}
	for _, candidate := range candidateGroups {
		if _, ok := claimed[candidate]; ok {
			members = append(members, candidate)
		}
	}

	return members, nil
}

// Invalidate evicts cached snapshots whose key contains ref. An empty ref
// clears the entire cache.
func (r *Resolver) Invalidate(ref string) {
	logger.Debugf(agent, "Invalidate", "evicting cache entries matching %q", ref)
	r.cache.invalidate(ref)
}

// GetCatalog returns the catalog service backing this resolver.
func (r *Resolver) GetCatalog() catalog.Service {
	return r.catalog
}

// resolveSnapshot returns the snapshot for the user and application set,
// consulting the cache first. A computation abandoned by context
// cancellation is returned to the caller but never cached, so a partially
// enriched snapshot cannot be served later.
func (r *Resolver) resolveSnapshot(ctx context.Context, user *model.UserIdentity, applications []*model.Application) (*model.OwnershipSnapshot, bool, int) {
	key := cacheKey(user.UserRef, applications)

	if snapshot, ok := r.cache.get(key); ok {
		logger.Tracef(agent, "resolveSnapshot", "cache hit for %s", user.UserRef)
		return snapshot, true, 0
	}

	snapshot, fallbacks := r.computeSnapshot(ctx, user, applications)

	if ctx.Err() == nil {
		r.cache.put(key, snapshot)
	} else {
		logger.Debugf(agent, "resolveSnapshot", "resolution for %s interrupted, snapshot not cached", user.UserRef)
	}

	return snapshot, false, fallbacks
}

// computeSnapshot runs the parse, enrich, aggregate pipeline and reports how
// many owner lookups fell back to parse-derived names.
func (r *Resolver) computeSnapshot(ctx context.Context, user *model.UserIdentity, applications []*model.Application) (*model.OwnershipSnapshot, int) {
	parsed := parseApplications(applications)

	descriptors := map[string]model.OwnerDescriptor{}
	for _, p := range parsed {
		if p.unassigned {
			continue
		}
		descriptors[p.descriptor.EntityRef()] = p.descriptor
	}

	enriched := r.enrichDescriptors(ctx, descriptors)

	fallbacks := 0
	for _, e := range enriched {
		if !e.resolved {
			fallbacks++
		}
	}

	return aggregate(user, parsed, enriched), fallbacks
}

func (r *Resolver) auditDecision(resolveOptions *options.ResolveOptions, record *decisionlog.Record) {
	if logger.IsDebugEnabled() {
		logger.Debugf(agent, "auditDecision", "operation: %s, user: %s, options: %+v", record.Operation, record.User, resolveOptions)
		logger.Debug(agent, "auditDecision", "decision record:")
		common.PrettyPrint(record)
	}

	if r.decisions != nil && !resolveOptions.Probe {
		if err := r.decisions.Send(record); err != nil {
			logger.Errorf(agent, "auditDecision", "unable to send decision record %+v", err)
		}
	}
}

func marshalInput(user *model.UserIdentity, applications []*model.Application) string {
	input, err := json.Marshal(map[string]interface{}{
		"user":         user,
		"applications": applications,
	})
	if err != nil {
		logger.Errorf(agent, "marshalInput", "failed to marshal decision input: %v", err)
		return ""
	}

	return string(input)
}

// buildAssignments flattens the snapshot into per-application audit entries,
// in input order.
func buildAssignments(snapshot *model.OwnershipSnapshot, applications []*model.Application) []decisionlog.Assignment {
	assignments := make([]decisionlog.Assignment, 0, len(applications))

	for _, application := range applications {
		descriptor, ok := snapshot.OwnerByApplication[application.Name]
		if !ok {
			continue
		}
		assignments = append(assignments, decisionlog.Assignment{
			Application: application.Name,
			OwnerKind:   string(descriptor.Kind),
			Owner:       descriptor.CanonicalName,
			Owned:       snapshotOwns(snapshot, application.Name),
		})
	}

	return assignments
}
