// Copyright © Stackport Inc. All rights reserved.

// Package catalogbundle provides the intermediate representation for catalog
// bundles: declarative YAML documents that describe the users, groups, and
// applications of an organization, plus the optional Rego policies that govern
// limited access and the mappers that adapt transport-level requests into
// resolver queries.
//
// Bundles are parsed from YAML by the parsers subpackage into an
// IntermediateModel, validated by the validation subpackage, and aggregated
// into a queryable whole by the registry subpackage. The core resolver never
// consumes this package directly; it goes through a catalog.Service
// implementation such as pkg/core/catalog/static.
package catalogbundle

import (
	"github.com/stackport/ownerengine/pkg/core/opa"
)

// IDSpec carries the stable identity of a declared object together with a
// fingerprint of its content. Fingerprints are computed by the parsers from
// the object's declaration and updated by the registry once compilation
// resolves library dependencies, so two bundles that declare byte-identical
// policies produce identical fingerprints.
type IDSpec struct {
	ID          string
	Fingerprint []byte
}

// Policy is a Rego policy declared by a bundle, either an access policy
// candidate under spec.policies or a shared library under
// spec.policy-libraries. Dependencies name policy libraries whose modules are
// compiled alongside this policy. Ast is nil until the registry compiles the
// bundle.
type Policy struct {
	IDSpec       IDSpec
	Dependencies []string
	Rego         string
	Ast          *opa.Ast
}

// PolicyReference binds the bundle's access-policy selection to a declared
// policy. Policy holds the reference in either local ("integration-access")
// or qualified ("acme/integration-access") form. Annotations ride along into
// every evaluation input produced for the referenced policy.
type PolicyReference struct {
	IDSpec      IDSpec
	Policy      string
	Annotations map[string]interface{}
}

// User is a person declared by a bundle. Name is unique within the bundle
// and doubles as the canonical name of the User entity the catalog serves.
type User struct {
	Name        string
	Title       string
	Annotations map[string]interface{}
}

// Group is a team declared by a bundle. Members name users, either locally
// or qualified with a bundle name.
type Group struct {
	Name        string
	Title       string
	Members     []string
	Annotations map[string]interface{}
}

// Application is a deployable component declared by a bundle. Owner is the
// raw owner reference string exactly as authored ("group:default/platform" or
// a bare name); the resolver, not the catalog, decides how to interpret it.
type Application struct {
	Name        string
	Owner       string
	Annotations map[string]interface{}
}

// Mapper is a Rego program that converts decision-point inputs, such as Envoy
// CheckRequest attributes, into resolver queries. Ast is nil until the
// registry compiles the bundle.
type Mapper struct {
	IDSpec IDSpec
	Rego   string
	Ast    *opa.Ast
}

// IntermediateModel is the version-independent form of one parsed bundle.
// Every parser version exports into this shape, which lets the registry and
// validator treat all bundles uniformly regardless of the apiVersion they
// were authored against.
type IntermediateModel struct {
	// Name is the bundle name from metadata.name. Qualified references use
	// it as the prefix, e.g. "acme/integration-access".
	Name string

	// PolicyLibraries holds shared Rego modules keyed by ID. Libraries are
	// compiled only as dependencies of policies and are never evaluated on
	// their own.
	PolicyLibraries map[string]Policy

	// Policies holds access policy candidates keyed by ID.
	Policies map[string]Policy

	// AccessPolicy selects which policy governs limited access for
	// applications served from this bundle. Nil when the bundle relies on
	// the built-in default.
	AccessPolicy *PolicyReference

	// Users, Groups, and Applications hold the bundle's entities keyed by
	// name.
	Users        map[string]User
	Groups       map[string]Group
	Applications map[string]Application

	// Mappers holds the bundle's decision-point mappers in declaration
	// order.
	Mappers []Mapper
}
