//
//  Copyright © Stackport Inc. All rights reserved.
//

package validation

// BundleMap provides access to catalog bundle models by name
type BundleMap interface {
	GetBundle(name string) (BundleModel, bool)
	GetAllBundles() map[string]BundleModel
}

// BundleModel interface represents a catalog bundle
type BundleModel interface {
	GetName() string
	GetPolicies() map[string]PolicyEntity
	GetPolicyLibraries() map[string]PolicyEntity
	GetAccessPolicy() ReferenceEntity
	GetUsers() map[string]struct{}
	GetGroups() map[string]GroupEntity
	GetApplications() map[string]ApplicationEntity
	GetMappers() []MapperEntity
}

// RegoEntity interface for any entity that contains Rego code
// This allows the validator to work with any bundle model without importing bundle types
type RegoEntity interface {
	GetRego() string
}

// PolicyEntity interface for policies and policy libraries (have dependencies and rego)
type PolicyEntity interface {
	RegoEntity
	GetDependencies() []string
}

// ReferenceEntity interface for entities that reference policies
type ReferenceEntity interface {
	GetPolicy() string
}

// GroupEntity interface for groups that declare member users
type GroupEntity interface {
	GetMembers() []string
}

// ApplicationEntity interface for applications that declare an owner
type ApplicationEntity interface {
	GetOwner() string
}

// MapperEntity interface for mappers that have Rego and an ID
type MapperEntity interface {
	RegoEntity
	GetID() string
}
