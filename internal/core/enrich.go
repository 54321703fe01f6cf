//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
)

// enrichment carries the display-name outcome for one entity reference. The
// resolved flag distinguishes a catalog-backed name from a parse-derived
// fallback so that degraded lookups stay visible in decision records.
type enrichment struct {
	displayName string
	resolved    bool
}

// enrichDescriptors resolves display names for the given descriptors, keyed
// by entity reference. Lookups run concurrently, bounded by
// enrich.concurrency, and each failure or absent entity degrades to the
// descriptor's parse-derived name. Enrichment is display-only and never
// fails the resolution.
func (r *Resolver) enrichDescriptors(ctx context.Context, descriptors map[string]model.OwnerDescriptor) map[string]enrichment {
	if len(descriptors) == 0 {
		return nil
	}

	refs := make([]string, 0, len(descriptors))
	for ref := range descriptors {
		refs = append(refs, ref)
	}

	results := make([]enrichment, len(refs))

	group, ctx := errgroup.WithContext(ctx)
	if limit := config.VConfig.GetInt(config.EnrichConcurrency); limit > 0 {
		group.SetLimit(limit)
	}

	for i, ref := range refs {
		group.Go(func() error {
			results[i] = r.enrichOne(ctx, ref, descriptors[ref])
			return nil
		})
	}

	// Lookups report no errors; failures degrade to the fallback name
	_ = group.Wait()

	enriched := make(map[string]enrichment, len(refs))
	for i, ref := range refs {
		enriched[ref] = results[i]
	}

	return enriched
}

func (r *Resolver) enrichOne(ctx context.Context, ref string, descriptor model.OwnerDescriptor) enrichment {
	fallback := enrichment{displayName: descriptor.DisplayName}

	entity, rerr := r.catalog.ResolveByReference(ctx, ref)
	if rerr != nil {
		logger.Debugf(agent, "enrich", "lookup failed for %s, keeping fallback name (%s)", ref, rerr)
		return fallback
	}
	if entity == nil {
		logger.Tracef(agent, "enrich", "no catalog entity for %s, keeping fallback name", ref)
		return fallback
	}

	resolved := enrichment{displayName: descriptor.DisplayName, resolved: true}
	if name := entity.DisplayName(); name != "" {
		resolved.displayName = name
	}

	return resolved
}
