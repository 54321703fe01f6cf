//
//  Copyright © Stackport Inc. All rights reserved.
//

package opa

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stretchr/testify/assert"
)

const accessPolicy = `
package access
default limited = false
limited = true { input.integration == true }
`

func TestNewCompiler(t *testing.T) {
	compiler := NewCompiler()
	assert.NotNil(t, compiler)
}

func TestCompileSuccess(t *testing.T) {
	compiler := NewCompiler()

	modules := Modules{
		"access.rego": accessPolicy,
	}

	ast, err := compiler.Compile("access-policy", modules)
	assert.NoError(t, err)
	assert.NotNil(t, ast)
	assert.Equal(t, "access-policy", ast.name)
	assert.NotNil(t, ast.compiler)
}

func TestCompileSingle(t *testing.T) {
	compiler := NewCompiler()

	ast, err := compiler.CompileSingle("access-policy", accessPolicy)
	assert.NoError(t, err)
	assert.NotNil(t, ast)

	result, rerr := ast.Evaluate(context.Background(), "data.access.limited", map[string]interface{}{"integration": true})
	assert.Nil(t, rerr)
	assert.Equal(t, true, result.Expressions[0].Value)
}

func TestCompileWithSyntaxError(t *testing.T) {
	compiler := NewCompiler()

	modules := Modules{
		"access.rego": `
package access
default limited = false
limited = true { this is invalid syntax }
`,
	}

	ast, err := compiler.Compile("access-policy", modules)
	assert.Error(t, err)
	assert.Nil(t, ast)
}

func TestCompileWithCompilationError(t *testing.T) {
	compiler := NewCompiler()

	modules := Modules{
		"access.rego": `
package access
limited = true { data.undefined_function() }
`,
	}

	ast, err := compiler.Compile("access-policy", modules)
	assert.Error(t, err)
	assert.Nil(t, ast)
}

func TestCompileWithUnsafeBuiltins(t *testing.T) {
	// First try without allowing unsafe builtins
	compiler := NewCompiler(WithUnsafeBuiltins(map[string]struct{}{
		"http.send": {},
	}))

	modules := Modules{
		"access.rego": `
package access
limited = true {
	response := http.send({"method": "get", "url": "http://example.com"})
	response.status_code == 200
}
`,
	}

	ast, err := compiler.Compile("access-policy", modules)
	assert.Error(t, err)
	assert.Nil(t, ast)
	assert.Contains(t, err.Error(), "undefined function http.send")

	// Now allow the unsafe builtin
	compiler2 := NewCompiler()
	ast2, err2 := compiler2.Compile("access-policy", modules)
	assert.NoError(t, err2)
	assert.NotNil(t, ast2)

	// Now test that a clone of the instance with UnsafeBuiltins inherits the Capabilities
	compiler3 := compiler.Clone()
	ast3, err3 := compiler3.Compile("access-policy", modules)
	assert.Error(t, err3)
	assert.Nil(t, ast3)
	assert.Contains(t, err3.Error(), "undefined function http.send")

	// Now Clone again, but override the builtins so that http.send is now allowed
	compiler4 := compiler.Clone(WithDefaultCapabilities())
	ast4, err4 := compiler4.Compile("access-policy", modules)
	assert.NoError(t, err4)
	assert.NotNil(t, ast4)
}

func TestEvaluateSuccess(t *testing.T) {
	compiler := NewCompiler()

	ast, err := compiler.CompileSingle("access-policy", accessPolicy)
	assert.NoError(t, err)

	// Application with a recognized integration
	input := map[string]interface{}{
		"integration": true,
	}

	result, rerr := ast.Evaluate(context.Background(), "data.access.limited", input)
	assert.Nil(t, rerr)
	assert.Equal(t, true, result.Expressions[0].Value)

	// Application without an integration
	input = map[string]interface{}{
		"integration": false,
	}

	result, rerr = ast.Evaluate(context.Background(), "data.access.limited", input)
	assert.Nil(t, rerr)
	assert.Equal(t, false, result.Expressions[0].Value)
}

func TestEvaluateWithNoResults(t *testing.T) {
	compiler := NewCompiler()

	modules := Modules{
		"access.rego": `
package access
# No limited rule defined
`,
	}

	ast, err := compiler.Compile("access-policy", modules)
	assert.NoError(t, err)

	input := map[string]interface{}{
		"integration": true,
	}

	_, rerr := ast.Evaluate(context.Background(), "data.access.limited", input)
	assert.NotNil(t, rerr)
	assert.Equal(t, common.ReasonEvaluationError, rerr.ReasonCode)
	assert.Contains(t, rerr.Reason, "no opa results")
}

func TestEvaluateWithRuntimeError(t *testing.T) {
	compiler := NewCompiler()

	modules := Modules{
		"access.rego": `
package access
limited = true {
	# This will cause a runtime error - division by zero
	x := 1 / 0
}
`,
	}

	ast, err := compiler.Compile("access-policy", modules)
	assert.NoError(t, err)

	input := map[string]interface{}{
		"integration": true,
	}

	_, rerr := ast.Evaluate(context.Background(), "data.access.limited", input)
	assert.NotNil(t, rerr)
	assert.Equal(t, common.ReasonEvaluationError, rerr.ReasonCode)
}

func TestEvaluateWithComplexInput(t *testing.T) {
	compiler := NewCompiler()

	modules := Modules{
		"access.rego": `
package access
default limited = false

limited = true {
	input.annotations["github.com/project-slug"]
	input.application != ""
	not input.user == ""
}
`,
	}

	ast, err := compiler.Compile("access-policy", modules)
	assert.NoError(t, err)

	// Test successful case
	input := map[string]interface{}{
		"application": "billing",
		"user":        "user:default/alice",
		"annotations": map[string]interface{}{
			"github.com/project-slug": "acme/billing",
		},
	}

	result, rerr := ast.Evaluate(context.Background(), "data.access.limited", input)
	assert.Nil(t, rerr)
	assert.Equal(t, true, result.Expressions[0].Value)

	// Test failure case - no integration annotation
	input = map[string]interface{}{
		"application": "billing",
		"user":        "user:default/alice",
		"annotations": map[string]interface{}{},
	}

	result, rerr = ast.Evaluate(context.Background(), "data.access.limited", input)
	assert.Nil(t, rerr)
	assert.Equal(t, false, result.Expressions[0].Value)
}

func TestWithRegoVersion(t *testing.T) {
	compiler := NewCompiler(WithRegoVersion(ast.RegoV1))
	assert.NotNil(t, compiler)
	assert.Equal(t, ast.RegoV1, compiler.options.regoVersion)
}

func TestWithCapabilities(t *testing.T) {
	caps := ast.CapabilitiesForThisVersion()
	compiler := NewCompiler(WithCapabilities(caps))
	assert.NotNil(t, compiler)
	assert.Equal(t, caps, compiler.options.capabilities)
}

func captureStdout(f func()) string {
	originalStdout := os.Stdout
	defer func() {
		os.Stdout = originalStdout
	}()
	r, w, _ := os.Pipe()
	os.Stdout = w
	f()
	err := w.Close()
	if err != nil {
		return ""
	}
	out, _ := io.ReadAll(r)
	return string(out)
}

func TestTracing(t *testing.T) {
	input := map[string]interface{}{
		"integration": true,
	}

	t.Run("verify default settings emit no traces", func(t *testing.T) {
		compiler := NewCompiler()

		instance, err := compiler.CompileSingle("access-policy", accessPolicy)
		assert.NoError(t, err)

		output := captureStdout(func() {
			result, rerr := instance.Evaluate(context.Background(), "data.access.limited", input)
			assert.Nil(t, rerr)
			assert.Equal(t, true, result.Expressions[0].Value)
		})
		assert.Equal(t, output, "")
	})

	t.Run("as compiler option", func(t *testing.T) {
		compiler := NewCompiler(WithDefaultTracing(true))

		instance, err := compiler.CompileSingle("access-policy", accessPolicy)
		assert.NoError(t, err)

		output := captureStdout(func() {
			result, rerr := instance.Evaluate(context.Background(), "data.access.limited", input)
			assert.Nil(t, rerr)
			assert.Equal(t, true, result.Expressions[0].Value)
		})
		assert.Contains(t, output, "Enter data.access.limited")
	})

	t.Run("as eval option", func(t *testing.T) {
		compiler := NewCompiler()

		instance, err := compiler.CompileSingle("access-policy", accessPolicy)
		assert.NoError(t, err)

		output := captureStdout(func() {
			result, rerr := instance.Evaluate(context.Background(), "data.access.limited", input, WithTrace(true))
			assert.Nil(t, rerr)
			assert.Equal(t, true, result.Expressions[0].Value)
		})
		assert.Contains(t, output, "Enter data.access.limited")
	})

}

func TestCompileMultipleModules(t *testing.T) {
	compiler := NewCompiler()

	modules := Modules{
		"module1.rego": `
package access
import data.utils
default limited = false
limited = true { utils.has_integration(input.annotations) }
`,
		"module2.rego": `
package utils
has_integration(annotations) { annotations["github.com/project-slug"] }
`,
	}

	ast, err := compiler.Compile("multi-module-policy", modules)
	assert.NoError(t, err)
	assert.NotNil(t, ast)

	input := map[string]interface{}{
		"annotations": map[string]interface{}{
			"github.com/project-slug": "acme/billing",
		},
	}

	result, rerr := ast.Evaluate(context.Background(), "data.access.limited", input)
	assert.Nil(t, rerr)
	assert.Equal(t, true, result.Expressions[0].Value)
}

func TestFilterFunction(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		result := filter([]int{}, func(i int) bool { return i > 5 })
		assert.Empty(t, result)
	})

	t.Run("no matches", func(t *testing.T) {
		result := filter([]int{1, 2, 3}, func(i int) bool { return i > 10 })
		assert.Empty(t, result)
	})

	t.Run("all match", func(t *testing.T) {
		result := filter([]int{1, 2, 3}, func(i int) bool { return i > 0 })
		assert.Equal(t, []int{1, 2, 3}, result)
	})

	t.Run("some match", func(t *testing.T) {
		result := filter([]int{1, 5, 10, 15}, func(i int) bool { return i > 7 })
		assert.Equal(t, []int{10, 15}, result)
	})

	t.Run("string slice", func(t *testing.T) {
		result := filter([]string{"billing", "payments", "search"}, func(s string) bool { return s != "payments" })
		assert.Equal(t, []string{"billing", "search"}, result)
	})
}
