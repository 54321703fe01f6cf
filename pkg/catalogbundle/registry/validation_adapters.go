//
//  Copyright © Stackport Inc. All rights reserved.
//

package registry

import (
	"github.com/stackport/ownerengine/pkg/catalogbundle"
	"github.com/stackport/ownerengine/pkg/catalogbundle/validation"
)

// BundleMapAdapter adapts the existing BundleMap to the validation.BundleMap interface
type BundleMapAdapter struct {
	bundles BundleMap // existing BundleMap type from registry
}

// NewBundleMapAdapter creates a new adapter for the bundle map
func NewBundleMapAdapter(bundles BundleMap) *BundleMapAdapter {
	return &BundleMapAdapter{
		bundles: bundles,
	}
}

// GetBundle implements validation.BundleMap interface
func (bma *BundleMapAdapter) GetBundle(name string) (validation.BundleModel, bool) {
	model, exists := bma.bundles[name]
	if !exists {
		return nil, false
	}
	return &BundleModelAdapter{model}, true
}

// GetAllBundles implements validation.BundleMap interface
func (bma *BundleMapAdapter) GetAllBundles() map[string]validation.BundleModel {
	result := make(map[string]validation.BundleModel)
	for name, model := range bma.bundles {
		result[name] = &BundleModelAdapter{model}
	}
	return result
}

// PolicyAdapter adapts catalogbundle.Policy to validation.PolicyEntity interface
type PolicyAdapter struct {
	*catalogbundle.Policy
}

// GetRego implements validation.RegoEntity interface
func (pa *PolicyAdapter) GetRego() string {
	return pa.Rego
}

// GetDependencies implements validation.PolicyEntity interface
func (pa *PolicyAdapter) GetDependencies() []string {
	return pa.Dependencies
}

// ReferenceAdapter adapts policy reference strings to validation.ReferenceEntity interface
type ReferenceAdapter struct {
	policy string
}

// GetPolicy implements validation.ReferenceEntity interface
func (ra *ReferenceAdapter) GetPolicy() string {
	return ra.policy
}

// GroupAdapter adapts member slices to validation.GroupEntity interface
type GroupAdapter struct {
	members []string
}

// GetMembers implements validation.GroupEntity interface
func (ga *GroupAdapter) GetMembers() []string {
	return ga.members
}

// ApplicationAdapter adapts owner strings to validation.ApplicationEntity interface
type ApplicationAdapter struct {
	owner string
}

// GetOwner implements validation.ApplicationEntity interface
func (aa *ApplicationAdapter) GetOwner() string {
	return aa.owner
}

// MapperAdapter adapts catalogbundle.Mapper to validation.MapperEntity interface
type MapperAdapter struct {
	*catalogbundle.Mapper
}

// GetRego implements validation.RegoEntity interface
func (ma *MapperAdapter) GetRego() string {
	return ma.Rego
}

// GetID implements validation.MapperEntity interface
func (ma *MapperAdapter) GetID() string {
	return ma.IDSpec.ID
}

// BundleModelAdapter adapts catalogbundle.IntermediateModel to validation.BundleModel interface
type BundleModelAdapter struct {
	*catalogbundle.IntermediateModel
}

// GetName implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetName() string {
	return bma.Name
}

// GetPolicies implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetPolicies() map[string]validation.PolicyEntity {
	result := make(map[string]validation.PolicyEntity)
	for id, policy := range bma.Policies {
		result[id] = &PolicyAdapter{&policy}
	}
	return result
}

// GetPolicyLibraries implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetPolicyLibraries() map[string]validation.PolicyEntity {
	result := make(map[string]validation.PolicyEntity)
	for id, library := range bma.PolicyLibraries {
		result[id] = &PolicyAdapter{&library}
	}
	return result
}

// GetAccessPolicy implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetAccessPolicy() validation.ReferenceEntity {
	// Explicit nil keeps the interface value nil when no binding exists
	if bma.AccessPolicy == nil {
		return nil
	}
	return &ReferenceAdapter{bma.AccessPolicy.Policy}
}

// GetUsers implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetUsers() map[string]struct{} {
	result := make(map[string]struct{}, len(bma.Users))
	for name := range bma.Users {
		result[name] = struct{}{}
	}
	return result
}

// GetGroups implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetGroups() map[string]validation.GroupEntity {
	result := make(map[string]validation.GroupEntity)
	for id, group := range bma.Groups {
		result[id] = &GroupAdapter{group.Members}
	}
	return result
}

// GetApplications implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetApplications() map[string]validation.ApplicationEntity {
	result := make(map[string]validation.ApplicationEntity)
	for id, application := range bma.Applications {
		result[id] = &ApplicationAdapter{application.Owner}
	}
	return result
}

// GetMappers implements validation.BundleModel interface
func (bma *BundleModelAdapter) GetMappers() []validation.MapperEntity {
	result := make([]validation.MapperEntity, len(bma.Mappers))
	for i, mapper := range bma.Mappers {
		result[i] = &MapperAdapter{&mapper}
	}
	return result
}
