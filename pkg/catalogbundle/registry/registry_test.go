//
//  Copyright © Stackport Inc. All rights reserved.
//

package registry

import (
	"errors"
	"os"
	"testing"

	"github.com/stackport/ownerengine/pkg/catalogbundle/validation"
	"github.com/stackport/ownerengine/pkg/core/opa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions
func createBundleFile(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "bundle-*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	return tmpfile.Name()
}

const validBundle = `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: acme
spec:
  policy-libraries:
    - id: helpers
      description: shared helpers
      rego: |
        package helpers

        has_slug {
            input.annotations["github.com/project-slug"]
        }
  policies:
    - id: integration-access
      description: limited access for integration annotations
      dependencies:
        - helpers
      rego: |
        package access

        default limited = false

        limited {
            data.helpers.has_slug
        }
  access-policy:
    id: binding
    policy: integration-access
    annotations:
      tier: standard
  users:
    - name: alice
      title: Alice Smith
    - name: bob
      title: Bob Jones
  groups:
    - name: platform-team
      title: Platform Team
      members:
        - alice
        - bob
  applications:
    - name: billing
      owner: group:default/platform-team
      annotations:
        github.com/project-slug: acme/billing
  mappers:
    - id: envoy
      rego: |
        package mapper

        query = {"application": input.attributes.request.http.headers["x-application"]}
`

const legacyBundle = `
apiVersion: catalog.stackport.io/v1alpha1
kind: CatalogBundle
metadata:
  name: legacy
spec:
  users:
    - name: carol
      title: Carol
  groups:
    - name: ops
      members:
        - carol
  applications:
    - name: metrics
      owner: ops
`

const badRegoBundle = `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: test
spec:
  policies:
    - id: bad
      rego: |
        package access
        invalid {{{
`

const brokenAlphaBundle = `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: alpha
spec:
  policy-libraries:
    - id: loopy-a
      dependencies:
        - beta/loopy-b
      rego: |
        package loopy_a
    - id: loopy-c
      dependencies:
        - loopy-a
      rego: |
        package loopy_c
  access-policy:
    id: binding
    policy: missing-policy
  users:
    - name: alice
  groups:
    - name: platform-team
      members:
        - alice
        - ghost
`

const brokenBetaBundle = `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: beta
spec:
  policy-libraries:
    - id: loopy-b
      dependencies:
        - alpha/loopy-c
      rego: |
        package loopy_b
  applications:
    - name: billing
      owner: group:default/missing-team
`

const unsafePolicyBundle = `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: unsafe
spec:
  policies:
    - id: phone-home
      rego: |
        package access

        default limited = false

        limited {
            resp := http.send({"method": "get", "url": "http://example.com"})
            resp.status_code == 200
        }
`

const unsafeMapperBundle = `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: enricher
spec:
  mappers:
    - id: remote
      rego: |
        package mapper

        query = resp.body {
            resp := http.send({"method": "get", "url": "http://example.com"})
        }
`

func TestNewRegistry_ValidBundle(t *testing.T) {
	file := createBundleFile(t, validBundle)

	registry, err := NewRegistry([]string{file})
	require.NoError(t, err)
	require.NotNil(t, registry)

	bundles := registry.GetBundles()
	require.Contains(t, bundles, "acme")

	acme := bundles["acme"]
	assert.Len(t, acme.Policies, 1)
	assert.Len(t, acme.PolicyLibraries, 1)
	assert.Len(t, acme.Users, 2)
	assert.Len(t, acme.Groups, 1)
	assert.Len(t, acme.Applications, 1)
	assert.Len(t, acme.Mappers, 1)
	require.NotNil(t, acme.AccessPolicy)
	assert.Equal(t, "integration-access", acme.AccessPolicy.Policy)

	assert.Equal(t, []string{"acme"}, registry.GetBundleNames())

	isValid, summary := registry.ValidateWithSummary()
	assert.True(t, isValid)
	assert.Contains(t, summary, "successfully")

	assert.Nil(t, registry.GetAllValidationErrors())
}

func TestNewRegistry_LegacyBundle(t *testing.T) {
	file := createBundleFile(t, legacyBundle)

	registry, err := NewRegistry([]string{file})
	require.NoError(t, err)

	legacy := registry.GetBundles()["legacy"]
	require.NotNil(t, legacy)
	assert.Len(t, legacy.Users, 1)
	assert.Len(t, legacy.Groups, 1)
	assert.Len(t, legacy.Applications, 1)
	assert.Empty(t, legacy.Policies)
	assert.Empty(t, legacy.PolicyLibraries)
	assert.Nil(t, legacy.AccessPolicy)
}

func TestNewRegistry_ParseError(t *testing.T) {
	file := createBundleFile(t, "not: [valid: yaml")

	registry, err := NewRegistry([]string{file})
	assert.Nil(t, registry)
	assert.Error(t, err)
}

func TestNewRegistry_WrongKind(t *testing.T) {
	file := createBundleFile(t, `
apiVersion: catalog.stackport.io/v1beta1
kind: Component
metadata:
  name: test
`)

	registry, err := NewRegistry([]string{file})
	assert.Nil(t, registry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected CatalogBundle")
}

func TestNewRegistry_BadRego(t *testing.T) {
	file := createBundleFile(t, badRegoBundle)

	registry, err := NewRegistry([]string{file})
	assert.Nil(t, registry, "Registry should be nil when rego validation fails")
	require.Error(t, err)

	var validationErrors *validation.Errors
	ok := errors.As(err, &validationErrors)
	require.True(t, ok, "Error should be ValidationErrors type")
	assert.True(t, validationErrors.HasErrors())

	byType := validationErrors.ErrorsByType()
	require.Contains(t, byType, "rego")

	regoErrors := byType["rego"]
	require.Len(t, regoErrors, 1)
	assert.Equal(t, "test", regoErrors[0].Bundle)
	assert.Equal(t, "policy", regoErrors[0].Entity)
	assert.Equal(t, "bad", regoErrors[0].EntityID)
	assert.Equal(t, "rego", regoErrors[0].Field)
}

func TestNewRegistry_BrokenBundles(t *testing.T) {
	alphaFile := createBundleFile(t, brokenAlphaBundle)
	betaFile := createBundleFile(t, brokenBetaBundle)

	registry, err := NewRegistry([]string{alphaFile, betaFile})
	assert.Nil(t, registry, "Registry should be nil when validation fails")
	require.Error(t, err)

	validationErrors, ok := err.(*validation.Errors)
	require.True(t, ok, "Error should be ValidationErrors type")
	assert.Greater(t, validationErrors.Count(), 3, "Should accumulate multiple validation errors")

	errorText := err.Error()
	assert.Contains(t, errorText, "circular dependency detected", "Should detect cross-bundle cycle")
	assert.Contains(t, errorText, "not found", "Should detect missing references")
	assert.Contains(t, errorText, "[cycle]", "Should show cycle type in output")
	assert.Contains(t, errorText, "[reference]", "Should show reference type in output")

	byBundle := validationErrors.ErrorsByBundle()
	assert.Contains(t, byBundle, "alpha", "Should have alpha bundle errors")
	assert.Contains(t, byBundle, "beta", "Should have beta bundle errors")

	byType := validationErrors.ErrorsByType()
	assert.Contains(t, byType, "cycle")
	assert.Contains(t, byType, "reference")

	t.Logf("Accumulated %d validation errors:\n%s", validationErrors.Count(), validationErrors.Summary())
}

func TestNewRegistry_Precedence(t *testing.T) {
	first := createBundleFile(t, `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: acme
spec:
  users:
    - name: alice
`)
	second := createBundleFile(t, `
apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: acme
spec:
  users:
    - name: bob
`)

	registry, err := NewRegistry([]string{first, second})
	require.NoError(t, err)

	acme := registry.GetBundles()["acme"]
	require.NotNil(t, acme)
	assert.Contains(t, acme.Users, "alice", "Earlier bundle should win name collisions")
	assert.NotContains(t, acme.Users, "bob")

	assert.Equal(t, []string{"acme"}, registry.GetBundleNames())
}

func TestRegistry_ValidateBundle(t *testing.T) {
	file := createBundleFile(t, validBundle)

	registry, err := NewRegistry([]string{file})
	require.NoError(t, err)

	assert.NoError(t, registry.ValidateBundle("acme"))

	err = registry.ValidateBundle("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRegistry_ResolveDependencies(t *testing.T) {
	file := createBundleFile(t, validBundle)

	registry, err := NewRegistry([]string{file})
	require.NoError(t, err)

	acme := registry.GetBundles()["acme"]
	policy := acme.Policies["integration-access"]

	deps, err := registry.ResolveDependencies(acme, policy.Dependencies)
	require.NoError(t, err)
	assert.Contains(t, deps, "helpers")
}

func TestRegistry_CompileAllPolicies(t *testing.T) {
	file := createBundleFile(t, validBundle)

	registry, err := NewRegistry([]string{file})
	require.NoError(t, err)

	compiler := opa.NewCompiler()
	require.NoError(t, registry.CompileAllPolicies(compiler, compiler))

	acme := registry.GetBundles()["acme"]

	policy := acme.Policies["integration-access"]
	assert.NotNil(t, policy.Ast, "Policy should be compiled")
	assert.NotEmpty(t, policy.IDSpec.Fingerprint, "Fingerprint should cover policy and dependencies")

	library := acme.PolicyLibraries["helpers"]
	assert.NotNil(t, library.Ast, "Library should be compiled")

	require.Len(t, acme.Mappers, 1)
	assert.NotNil(t, acme.Mappers[0].Ast, "Mapper should be compiled")

	// Second pass is a no-op since ASTs are cached
	require.NoError(t, registry.CompileAllPolicies(compiler, compiler))
}

func TestRegistry_CompileAllPolicies_FingerprintCoversDependencies(t *testing.T) {
	file := createBundleFile(t, validBundle)

	registry, err := NewRegistry([]string{file})
	require.NoError(t, err)

	acme := registry.GetBundles()["acme"]
	parseFingerprint := acme.Policies["integration-access"].IDSpec.Fingerprint

	compiler := opa.NewCompiler()
	require.NoError(t, registry.CompileAllPolicies(compiler, compiler))

	compiled := acme.Policies["integration-access"].IDSpec.Fingerprint
	assert.NotEqual(t, parseFingerprint, compiled,
		"Compilation folds dependency sources into the fingerprint")
}

func TestRegistry_CompileAllPolicies_UnsafeBuiltins(t *testing.T) {
	policyCompiler := opa.NewCompiler(opa.WithUnsafeBuiltins(opa.Builtins{"http.send": {}}))
	mapperCompiler := policyCompiler.Clone(opa.WithDefaultCapabilities())

	t.Run("policy may not call unsafe builtins", func(t *testing.T) {
		file := createBundleFile(t, unsafePolicyBundle)

		registry, err := NewRegistry([]string{file})
		require.NoError(t, err, "Unsafe builtins parse fine and fail at compile time")

		err = registry.CompileAllPolicies(policyCompiler, mapperCompiler)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http.send")
	})

	t.Run("mapper keeps default capabilities", func(t *testing.T) {
		file := createBundleFile(t, unsafeMapperBundle)

		registry, err := NewRegistry([]string{file})
		require.NoError(t, err)

		assert.NoError(t, registry.CompileAllPolicies(policyCompiler, mapperCompiler))
	})
}
