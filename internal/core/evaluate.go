//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"context"
	"slices"

	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core/auxdata"
	"github.com/stackport/ownerengine/pkg/core/model"
)

// snapshotOwns reports whether the snapshot records ownership of the named
// application, directly or through any group.
func snapshotOwns(snapshot *model.OwnershipSnapshot, name string) bool {
	if slices.Contains(snapshot.UserOwnedNames, name) {
		return true
	}

	for _, names := range snapshot.GroupOwnedNames {
		if slices.Contains(names, name) {
			return true
		}
	}

	return false
}

// buildPolicyInput assembles the evaluation input for the access policy.
// Binding annotations ride alongside the application's own so a bundle can
// parameterize a shared policy, and any configured auxdata is merged in
// under its reserved key.
func (r *Resolver) buildPolicyInput(user *model.UserIdentity, application *model.Application, integration bool, binding model.Annotations) interface{} {
	annotations := map[string]interface{}{}
	for key, value := range application.Annotations {
		annotations[key] = value
	}

	ownershipRefs := make([]interface{}, len(user.OwnershipRefs))
	for i, ref := range user.OwnershipRefs {
		ownershipRefs[i] = ref
	}

	input := map[string]interface{}{
		"user": map[string]interface{}{
			"ref":           user.UserRef,
			"ownershipRefs": ownershipRefs,
		},
		"application": map[string]interface{}{
			"name": application.Name,
		},
		"annotations": annotations,
		"integration": integration,
	}

	if len(binding) > 0 {
		input["binding"] = map[string]interface{}(binding)
	}

	return auxdata.MergeAuxData(input, r.auxdata)
}

// evaluateLimited decides the LIMITED tier for a non-owner via the catalog
// access policy. The policy reference is returned even on failure so the
// decision record can name what was evaluated.
func (r *Resolver) evaluateLimited(ctx context.Context, user *model.UserIdentity, application *model.Application) (bool, *model.PolicyReference, *common.ResolverError) {
	policyRef, rerr := r.catalog.GetAccessPolicy(ctx)
	if rerr != nil {
		return false, nil, rerr
	}

	integration := hasIntegrationAnnotation(application)
	input := r.buildPolicyInput(user, application, integration, policyRef.Annotations)

	limited, rerr := policyRef.Policy.EvaluateLimited(ctx, input)
	if rerr != nil {
		return false, policyRef, rerr
	}

	return limited, policyRef, nil
}
