//
//  Copyright © Stackport Inc. All rights reserved.
//

// This file contains the built-in access policy shared by catalog
// implementations.

package catalog

import (
	"crypto/sha256"

	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

// DefaultPolicyRef identifies the built-in access policy in policy
// references and decision records.
const DefaultPolicyRef = "policy:builtin/default-access"

// DefaultAccessPolicy is the Rego source of the built-in access policy.
//
// The built-in policy grants the LIMITED tier exactly when the evaluator
// marks the application as carrying a recognized external-integration
// annotation. Catalog bundles may bind their own access policy to refine
// this behavior.
const DefaultAccessPolicy = `package access

default limited = false

limited {
	input.integration == true
}
`

// CompileDefaultAccessPolicy compiles the built-in access policy.
//
// Catalog implementations call this from NewCatalog so that
// [Service.GetAccessPolicy] always returns an evaluable policy, even when no
// bundle binds one.
func CompileDefaultAccessPolicy(compiler *opa.Compiler) (*model.Policy, error) {
	ast, err := compiler.CompileSingle("builtin-access", DefaultAccessPolicy)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	h.Write([]byte(DefaultPolicyRef))
	h.Write([]byte(DefaultAccessPolicy))

	return &model.Policy{
		Ref:         DefaultPolicyRef,
		Fingerprint: h.Sum(nil),
		Ast:         ast,
	}, nil
}
