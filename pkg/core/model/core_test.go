//
//  Copyright © Stackport Inc. All rights reserved.
//

package model

import (
	"context"
	"testing"

	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core/opa"
	"github.com/stretchr/testify/assert"
)

func compileAccessPolicy(t *testing.T, source string) *Policy {
	t.Helper()

	compiler := opa.NewCompiler()
	ast, err := compiler.CompileSingle("access-policy", source)
	assert.NoError(t, err)

	return &Policy{
		Ref:         "policy:default/access",
		Fingerprint: []byte("test-fingerprint"),
		Ast:         ast,
	}
}

func TestEvaluateLimited(t *testing.T) {
	policy := compileAccessPolicy(t, `
package access
default limited = false
limited = true { input.integration == true }
`)

	limited, rerr := policy.EvaluateLimited(context.Background(), map[string]interface{}{
		"integration": true,
	})
	assert.Nil(t, rerr)
	assert.True(t, limited)

	limited, rerr = policy.EvaluateLimited(context.Background(), map[string]interface{}{
		"integration": false,
	})
	assert.Nil(t, rerr)
	assert.False(t, limited)
}

func TestEvaluateLimitedWithNonBoolResult(t *testing.T) {
	// Create a policy that returns a string instead of bool
	policy := compileAccessPolicy(t, `
package access
limited = "not a boolean"
`)

	limited, rerr := policy.EvaluateLimited(context.Background(), map[string]interface{}{
		"integration": true,
	})
	assert.False(t, limited)
	assert.NotNil(t, rerr)
	assert.Equal(t, common.ReasonEvaluationError, rerr.ReasonCode)
	assert.Contains(t, rerr.Reason, "unexpected evaluation result")
}

func TestEvaluateLimitedWithAnnotations(t *testing.T) {
	policy := compileAccessPolicy(t, `
package access
default limited = false

limited = true {
	input.annotations["github.com/project-slug"]
}
`)

	limited, rerr := policy.EvaluateLimited(context.Background(), map[string]interface{}{
		"annotations": map[string]interface{}{
			"github.com/project-slug": "acme/billing",
		},
	})
	assert.Nil(t, rerr)
	assert.True(t, limited)

	// No annotation present, the default rule applies
	limited, rerr = policy.EvaluateLimited(context.Background(), map[string]interface{}{
		"annotations": map[string]interface{}{},
	})
	assert.Nil(t, rerr)
	assert.False(t, limited)
}

func TestMapperEvaluate(t *testing.T) {
	compiler := opa.NewCompiler()
	ast, err := compiler.CompileSingle("query-mapper", `
package mapper

query := {
	"token": input.request.http.headers.authorization,
	"application": input.request.http.headers["x-application"],
}
`)
	assert.NoError(t, err)

	mapper := &Mapper{
		Bundle: "acme",
		Ast:    ast,
	}

	result, rerr := mapper.Evaluate(context.Background(), map[string]interface{}{
		"request": map[string]interface{}{
			"http": map[string]interface{}{
				"headers": map[string]interface{}{
					"authorization": "Bearer token-123",
					"x-application": "billing",
				},
			},
		},
	})
	assert.Nil(t, rerr)

	query, ok := result.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Bearer token-123", query["token"])
	assert.Equal(t, "billing", query["application"])
}

func TestEntityDisplayName(t *testing.T) {
	withTitle := &Entity{Name: "platform-team", Title: "Platform Team"}
	assert.Equal(t, "Platform Team", withTitle.DisplayName())

	withoutTitle := &Entity{Name: "platform-team"}
	assert.Equal(t, "platform-team", withoutTitle.DisplayName())
}

func TestToJSON(t *testing.T) {
	annotations, rerr := ToJSON(map[string]string{
		"github.com/project-slug": `"acme/billing"`,
		"replicas":                `3`,
		"features":                `["alpha", "beta"]`,
	})
	assert.Nil(t, rerr)
	assert.Equal(t, "acme/billing", annotations["github.com/project-slug"])
	assert.Equal(t, float64(3), annotations["replicas"])
	assert.Equal(t, []interface{}{"alpha", "beta"}, annotations["features"])
}

func TestToJSONWithBadData(t *testing.T) {
	annotations, rerr := ToJSON(map[string]string{
		"bad": `{invalid json`,
	})
	assert.Nil(t, annotations)
	assert.NotNil(t, rerr)
	assert.Equal(t, common.ReasonInvalidParameter, rerr.ReasonCode)
}

func TestUnsafeToJSONPanicsOnBadData(t *testing.T) {
	assert.Panics(t, func() {
		UnsafeToJSON(map[string]string{"bad": `{invalid json`})
	})
}
