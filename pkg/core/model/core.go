//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package model defines the core data structures for ownership resolution.
//
// This package contains the runtime data types used by the owner engine
// and catalog implementations. These types represent applications, catalog
// entities, owner descriptors, ownership snapshots, and compiled access
// policies at runtime.
//
// # Key Types
//
// Resolution types:
//   - [Application]: A deployable unit with an owner declaration
//   - [OwnerDescriptor]: The normalized interpretation of an owner string
//   - [OwnershipSnapshot]: The per-user ownership view across applications
//   - [AccessLevel]: The FULL / LIMITED / NONE access determination
//
// Catalog types:
//   - [Entity]: A user or group entity resolved from the catalog
//   - [UserIdentity]: The caller's identity reference and group claims
//   - [Annotations]: Key-value metadata attached to applications and entities
//
// Policy types:
//   - [Policy]: A compiled Rego access policy with its AST and metadata
//   - [PolicyReference]: A policy binding with annotations
//   - [Mapper]: A compiled query mapper for transforming gateway requests
//
// # Relationship to catalogbundle Package
//
// The [catalogbundle] package contains the intermediate model parsed from
// YAML bundle files. This package (model) contains the runtime representation
// after entities are indexed and access policies have been compiled.
package model

import (
	"github.com/stackport/ownerengine/pkg/core/opa"
)

// Annotations is a key-value map for storing metadata on applications and
// catalog entities.
//
// Values can be any JSON-compatible type (strings, numbers, booleans, arrays,
// or nested objects). Application annotations drive the LIMITED access tier:
// an application carrying a recognized external-integration annotation (such
// as "github.com/project-slug") grants LIMITED access to non-owners.
//
// Annotations are available during access policy evaluation via the query
// input:
//
//	limited {
//	    input.annotations["github.com/project-slug"]
//	}
type Annotations map[string]interface{}

// Application represents a deployable unit subject to ownership resolution.
//
// Applications are the objects whose owner declarations are parsed, enriched,
// and classified into a per-user [OwnershipSnapshot]. The Owner field is a
// tagged union as it appears on the wire: either a plain string such as
// "group:default/platform-team" or a structured form {"ref": "..."}. Use
// [NormalizeOwner] to reduce it to a string before parsing.
//
// The JSON tags support decoding applications from resolve requests and
// catalog bundles.
type Application struct {
	Name        string      `json:"name"`
	Owner       AnyOwner    `json:"owner,omitempty"`
	Annotations Annotations `json:"annotations,omitempty"`
}

// Entity represents a user or group entity resolved from the catalog.
//
// Entities carry the presentation metadata used to enrich owner descriptors:
// the Title field, when present, supplies the human-friendly display name.
//
// Fields:
//   - Ref: The full entity reference, e.g. "Group:default/platform-team"
//   - Kind: The entity kind ("User" or "Group")
//   - Namespace: The entity namespace (currently always "default")
//   - Name: The canonical entity name
//   - Title: Optional human-friendly display name
//   - Annotations: Custom metadata carried by the entity
type Entity struct {
	Ref         string      `json:"ref"`
	Kind        string      `json:"kind"`
	Namespace   string      `json:"namespace,omitempty"`
	Name        string      `json:"name"`
	Title       string      `json:"title,omitempty"`
	Annotations Annotations `json:"annotations,omitempty"`
}

// DisplayName returns the presentation name for the entity: the title when
// present, otherwise the canonical name.
func (e *Entity) DisplayName() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Name
}

// Policy represents a compiled Rego access policy ready for evaluation.
//
// Policy contains the compiled AST (Abstract Syntax Tree) of a Rego policy
// along with identifying metadata. The AST is used by the evaluator to
// decide the LIMITED access tier.
//
// Fields:
//   - Ref: The reference uniquely identifying this policy within its bundle
//   - Fingerprint: A SHA-256 hash of the policy content for change detection
//   - Ast: The compiled OPA AST for policy evaluation
type Policy struct {
	Ref         string
	Fingerprint []byte
	Ast         *opa.Ast
}

// PolicyReference represents an access policy binding with annotations.
//
// PolicyReference associates a compiled policy with the bundle that declared
// it. The annotations provide bundle-level metadata that is merged into the
// policy input during evaluation, allowing bundles to parameterize a shared
// policy without editing its Rego source.
type PolicyReference struct {
	Ref         string
	Policy      *Policy
	Annotations Annotations
}

// Mapper transforms gateway requests into resolve queries.
//
// Mappers are Rego policies used for integrations where the enforcement
// point cannot construct resolve queries directly (e.g., Envoy ext_authz).
// The mapper receives the raw request attributes and produces a query with
// the caller identity and target applications.
//
// A mapper Rego policy uses package mapper and defines a query rule:
//
//	package mapper
//
//	query := {
//	    "token": input.request.http.headers.authorization,
//	    "application": input.request.http.headers["x-application"],
//	}
//
// Most integrations should construct queries directly in application code
// rather than using mappers.
//
// Fields:
//   - Bundle: The catalog bundle this mapper belongs to
//   - Ast: The compiled Rego AST for executing the transformation
type Mapper struct {
	Bundle string
	Ast    *opa.Ast
}
