//
//  Copyright © Stackport Inc. All rights reserved.
//

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing

type mockBundleMap struct {
	bundles map[string]BundleModel
}

func newMockBundleMap() *mockBundleMap {
	return &mockBundleMap{
		bundles: make(map[string]BundleModel),
	}
}

func (m *mockBundleMap) GetBundle(name string) (BundleModel, bool) {
	bundle, ok := m.bundles[name]
	return bundle, ok
}

func (m *mockBundleMap) GetAllBundles() map[string]BundleModel {
	return m.bundles
}

func (m *mockBundleMap) addBundle(name string, bundle BundleModel) {
	m.bundles[name] = bundle
}

type mockBundleModel struct {
	name            string
	policies        map[string]PolicyEntity
	policyLibraries map[string]PolicyEntity
	accessPolicy    ReferenceEntity
	users           map[string]struct{}
	groups          map[string]GroupEntity
	applications    map[string]ApplicationEntity
	mappers         []MapperEntity
}

func newMockBundleModel(name string) *mockBundleModel {
	return &mockBundleModel{
		name:            name,
		policies:        make(map[string]PolicyEntity),
		policyLibraries: make(map[string]PolicyEntity),
		users:           make(map[string]struct{}),
		groups:          make(map[string]GroupEntity),
		applications:    make(map[string]ApplicationEntity),
		mappers:         make([]MapperEntity, 0),
	}
}

func (m *mockBundleModel) GetName() string                               { return m.name }
func (m *mockBundleModel) GetPolicies() map[string]PolicyEntity          { return m.policies }
func (m *mockBundleModel) GetPolicyLibraries() map[string]PolicyEntity   { return m.policyLibraries }
func (m *mockBundleModel) GetAccessPolicy() ReferenceEntity              { return m.accessPolicy }
func (m *mockBundleModel) GetUsers() map[string]struct{}                 { return m.users }
func (m *mockBundleModel) GetGroups() map[string]GroupEntity             { return m.groups }
func (m *mockBundleModel) GetApplications() map[string]ApplicationEntity { return m.applications }
func (m *mockBundleModel) GetMappers() []MapperEntity                    { return m.mappers }

type mockPolicyEntity struct {
	rego         string
	dependencies []string
}

func (m *mockPolicyEntity) GetRego() string           { return m.rego }
func (m *mockPolicyEntity) GetDependencies() []string { return m.dependencies }

type mockReferenceEntity struct {
	policy string
}

func (m *mockReferenceEntity) GetPolicy() string { return m.policy }

type mockGroupEntity struct {
	members []string
}

func (m *mockGroupEntity) GetMembers() []string { return m.members }

type mockApplicationEntity struct {
	owner string
}

func (m *mockApplicationEntity) GetOwner() string { return m.owner }

type mockMapperEntity struct {
	id   string
	rego string
}

func (m *mockMapperEntity) GetID() string   { return m.id }
func (m *mockMapperEntity) GetRego() string { return m.rego }

// Tests for ReferenceResolver

func TestReferenceResolver_ParseReference(t *testing.T) {
	bundles := newMockBundleMap()
	resolver := NewReferenceResolver(bundles)

	tests := []struct {
		name           string
		reference      string
		sourceBundle   string
		expectedBundle string
		expectedID     string
		expectError    bool
	}{
		{
			name:           "unqualified reference",
			reference:      "integration-access",
			sourceBundle:   "acme",
			expectedBundle: "acme",
			expectedID:     "integration-access",
		},
		{
			name:           "qualified reference",
			reference:      "shared/integration-access",
			sourceBundle:   "acme",
			expectedBundle: "shared",
			expectedID:     "integration-access",
		},
		{
			name:        "empty reference",
			reference:   "",
			expectError: true,
		},
		{
			name:        "invalid qualified reference - empty bundle",
			reference:   "/integration-access",
			expectError: true,
		},
		{
			name:        "invalid qualified reference - empty id",
			reference:   "acme/",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, id, err := resolver.ParseReference(tt.reference, tt.sourceBundle)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedBundle, bundle)
				assert.Equal(t, tt.expectedID, id)
			}
		})
	}
}

func TestReferenceResolver_QualifyReference(t *testing.T) {
	bundles := newMockBundleMap()
	resolver := NewReferenceResolver(bundles)

	tests := []struct {
		name         string
		reference    string
		sourceBundle string
		expected     string
	}{
		{
			name:         "unqualified reference",
			reference:    "helpers",
			sourceBundle: "acme",
			expected:     "acme/helpers",
		},
		{
			name:         "already qualified reference",
			reference:    "shared/helpers",
			sourceBundle: "acme",
			expected:     "shared/helpers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolver.QualifyReference(tt.reference, tt.sourceBundle)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestReferenceResolver_ValidateReference(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")
	bundle.policies["integration-access"] = &mockPolicyEntity{rego: "package access\ndefault limited = false"}
	bundle.policyLibraries["helpers"] = &mockPolicyEntity{rego: "package utils"}
	bundle.users["alice"] = struct{}{}
	bundle.groups["platform-team"] = &mockGroupEntity{members: []string{"alice"}}
	bundle.applications["billing"] = &mockApplicationEntity{owner: "group:default/platform-team"}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)

	tests := []struct {
		name         string
		reference    string
		sourceBundle string
		expectedType string
		expectError  bool
	}{
		{
			name:         "valid policy reference",
			reference:    "integration-access",
			sourceBundle: "acme",
			expectedType: "policy",
		},
		{
			name:         "valid library reference",
			reference:    "helpers",
			sourceBundle: "acme",
			expectedType: "library",
		},
		{
			name:         "valid user reference",
			reference:    "alice",
			sourceBundle: "acme",
			expectedType: "user",
		},
		{
			name:         "valid group reference",
			reference:    "platform-team",
			sourceBundle: "acme",
			expectedType: "group",
		},
		{
			name:         "valid application reference",
			reference:    "billing",
			sourceBundle: "acme",
			expectedType: "application",
		},
		{
			name:         "non-existent policy",
			reference:    "nonexistent",
			sourceBundle: "acme",
			expectedType: "policy",
			expectError:  true,
		},
		{
			name:         "non-existent bundle",
			reference:    "other-bundle/integration-access",
			sourceBundle: "acme",
			expectedType: "policy",
			expectError:  true,
		},
		{
			name:         "empty reference is valid",
			reference:    "",
			sourceBundle: "acme",
			expectedType: "policy",
			expectError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolver.ValidateReference(tt.reference, tt.sourceBundle, tt.expectedType)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReferenceResolver_ResolveReference(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")
	bundle.policies["integration-access"] = &mockPolicyEntity{rego: "package access\ndefault limited = false"}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)

	t.Run("valid reference", func(t *testing.T) {
		targetBundle, targetModel, objectID, err := resolver.ResolveReference("integration-access", "acme", "policy")
		require.NoError(t, err)
		assert.Equal(t, "acme", targetBundle)
		assert.NotNil(t, targetModel)
		assert.Equal(t, "integration-access", objectID)
	})

	t.Run("non-existent bundle", func(t *testing.T) {
		_, _, _, err := resolver.ResolveReference("other-bundle/integration-access", "acme", "policy")
		assert.Error(t, err)
	})

	t.Run("non-existent object", func(t *testing.T) {
		_, _, _, err := resolver.ResolveReference("nonexistent", "acme", "policy")
		assert.Error(t, err)
	})
}

func TestReferenceResolver_ExistsAcrossBundles(t *testing.T) {
	bundles := newMockBundleMap()

	bundle1 := newMockBundleModel("bundle1")
	bundle1.users["alice"] = struct{}{}
	bundle1.groups["platform-team"] = &mockGroupEntity{}
	bundles.addBundle("bundle1", bundle1)

	bundle2 := newMockBundleModel("bundle2")
	bundle2.groups["platform-team"] = &mockGroupEntity{}
	bundles.addBundle("bundle2", bundle2)

	resolver := NewReferenceResolver(bundles)

	t.Run("unique object", func(t *testing.T) {
		assert.True(t, resolver.ExistsAcrossBundles("alice", "user"))
	})

	t.Run("object declared in multiple bundles", func(t *testing.T) {
		// precedence decides collisions, so duplicates are still valid
		assert.True(t, resolver.ExistsAcrossBundles("platform-team", "group"))
	})

	t.Run("object not found", func(t *testing.T) {
		assert.False(t, resolver.ExistsAcrossBundles("nonexistent", "group"))
	})

	t.Run("wrong type", func(t *testing.T) {
		assert.False(t, resolver.ExistsAcrossBundles("alice", "group"))
	})
}

// Tests for CatalogValidator

func TestCatalogValidator_ValidateAll(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.policies["integration-access"] = &mockPolicyEntity{
			rego: "package access\ndefault limited = false",
		}
		bundle.accessPolicy = &mockReferenceEntity{
			policy: "integration-access",
		}
		bundle.users["alice"] = struct{}{}
		bundle.groups["platform-team"] = &mockGroupEntity{members: []string{"alice"}}
		bundle.applications["billing"] = &mockApplicationEntity{owner: "group:default/platform-team"}
		bundles.addBundle("acme", bundle)

		resolver := NewReferenceResolver(bundles)
		validator := NewCatalogValidator(resolver, bundles)

		err := validator.ValidateAll()
		assert.NoError(t, err)
	})

	t.Run("invalid access-policy reference", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.accessPolicy = &mockReferenceEntity{
			policy: "nonexistent",
		}
		bundles.addBundle("acme", bundle)

		resolver := NewReferenceResolver(bundles)
		validator := NewCatalogValidator(resolver, bundles)

		err := validator.ValidateAll()
		assert.Error(t, err)
	})

	t.Run("access-policy without policy", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.accessPolicy = &mockReferenceEntity{}
		bundles.addBundle("acme", bundle)

		resolver := NewReferenceResolver(bundles)
		validator := NewCatalogValidator(resolver, bundles)

		err := validator.ValidateAll()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "names no policy")
	})

	t.Run("invalid rego code", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.policies["invalid"] = &mockPolicyEntity{
			rego: "package access\ninvalid syntax {{{",
		}
		bundles.addBundle("acme", bundle)

		resolver := NewReferenceResolver(bundles)
		validator := NewCatalogValidator(resolver, bundles)

		err := validator.ValidateAll()
		assert.Error(t, err)
	})
}

func TestCatalogValidator_ValidateWithSummary(t *testing.T) {
	t.Run("valid bundle returns success", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.policies["integration-access"] = &mockPolicyEntity{
			rego: "package access\ndefault limited = false",
		}
		bundles.addBundle("acme", bundle)

		resolver := NewReferenceResolver(bundles)
		validator := NewCatalogValidator(resolver, bundles)

		valid, summary := validator.ValidateWithSummary()
		assert.True(t, valid)
		assert.Contains(t, summary, "passed successfully")
	})

	t.Run("invalid bundle returns summary", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.accessPolicy = &mockReferenceEntity{
			policy: "nonexistent",
		}
		bundles.addBundle("acme", bundle)

		resolver := NewReferenceResolver(bundles)
		validator := NewCatalogValidator(resolver, bundles)

		valid, summary := validator.ValidateWithSummary()
		assert.False(t, valid)
		assert.NotEmpty(t, summary)
	})
}

func TestCatalogValidator_GetAllValidationErrors(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")
	bundle.groups["platform-team"] = &mockGroupEntity{
		members: []string{"ghost"},
	}
	bundle.applications["billing"] = &mockApplicationEntity{
		owner: "group:default/missing-team",
	}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)
	validator := NewCatalogValidator(resolver, bundles)

	errors := validator.GetAllValidationErrors()
	assert.NotEmpty(t, errors)
	assert.GreaterOrEqual(t, len(errors), 2)
}

func TestCatalogValidator_ValidateBundle(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")
	bundle.policies["integration-access"] = &mockPolicyEntity{
		rego: "package access\ndefault limited = false",
	}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)
	validator := NewCatalogValidator(resolver, bundles)

	t.Run("existing bundle", func(t *testing.T) {
		err := validator.ValidateBundle("acme")
		assert.NoError(t, err)
	})

	t.Run("non-existing bundle", func(t *testing.T) {
		err := validator.ValidateBundle("nonexistent")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestCatalogValidator_CircularDependency(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")

	// Create circular dependency: lib-a -> lib-b -> lib-c -> lib-a
	bundle.policyLibraries["lib-a"] = &mockPolicyEntity{
		rego:         "package lib_a",
		dependencies: []string{"lib-b"},
	}
	bundle.policyLibraries["lib-b"] = &mockPolicyEntity{
		rego:         "package lib_b",
		dependencies: []string{"lib-c"},
	}
	bundle.policyLibraries["lib-c"] = &mockPolicyEntity{
		rego:         "package lib_c",
		dependencies: []string{"lib-a"},
	}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)
	validator := NewCatalogValidator(resolver, bundles)

	err := validator.ValidateAll()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
}

func TestCatalogValidator_ValidateGroups(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")
	bundle.users["alice"] = struct{}{}
	bundle.groups["platform-team"] = &mockGroupEntity{
		members: []string{"alice", "ghost"},
	}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)
	validator := NewCatalogValidator(resolver, bundles)

	err := validator.ValidateAll()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestCatalogValidator_ValidateGroups_CrossBundleMembers(t *testing.T) {
	bundles := newMockBundleMap()

	people := newMockBundleModel("people")
	people.users["alice"] = struct{}{}
	bundles.addBundle("people", people)

	teams := newMockBundleModel("teams")
	teams.groups["platform-team"] = &mockGroupEntity{
		members: []string{"people/alice"},
	}
	bundles.addBundle("teams", teams)

	resolver := NewReferenceResolver(bundles)
	validator := NewCatalogValidator(resolver, bundles)

	err := validator.ValidateAll()
	assert.NoError(t, err)
}

func TestCatalogValidator_ValidateApplications(t *testing.T) {
	t.Run("owner group exists", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.groups["platform-team"] = &mockGroupEntity{}
		bundle.applications["billing"] = &mockApplicationEntity{owner: "group:default/platform-team"}
		bundles.addBundle("acme", bundle)

		validator := NewCatalogValidator(NewReferenceResolver(bundles), bundles)
		assert.NoError(t, validator.ValidateAll())
	})

	t.Run("owner user exists", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.users["alice"] = struct{}{}
		bundle.applications["billing"] = &mockApplicationEntity{owner: "user:default/alice"}
		bundles.addBundle("acme", bundle)

		validator := NewCatalogValidator(NewReferenceResolver(bundles), bundles)
		assert.NoError(t, validator.ValidateAll())
	})

	t.Run("bare owner name resolves as group", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.groups["platform-team"] = &mockGroupEntity{}
		bundle.applications["billing"] = &mockApplicationEntity{owner: "platform-team"}
		bundles.addBundle("acme", bundle)

		validator := NewCatalogValidator(NewReferenceResolver(bundles), bundles)
		assert.NoError(t, validator.ValidateAll())
	})

	t.Run("owner declared in another bundle", func(t *testing.T) {
		bundles := newMockBundleMap()

		people := newMockBundleModel("people")
		people.groups["platform-team"] = &mockGroupEntity{}
		bundles.addBundle("people", people)

		apps := newMockBundleModel("apps")
		apps.applications["billing"] = &mockApplicationEntity{owner: "group:default/platform-team"}
		bundles.addBundle("apps", apps)

		validator := NewCatalogValidator(NewReferenceResolver(bundles), bundles)
		assert.NoError(t, validator.ValidateAll())
	})

	t.Run("missing owner entity", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.applications["billing"] = &mockApplicationEntity{owner: "group:default/missing-team"}
		bundles.addBundle("acme", bundle)

		validator := NewCatalogValidator(NewReferenceResolver(bundles), bundles)
		err := validator.ValidateAll()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing-team")
	})

	t.Run("empty owner is allowed", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.applications["billing"] = &mockApplicationEntity{}
		bundles.addBundle("acme", bundle)

		validator := NewCatalogValidator(NewReferenceResolver(bundles), bundles)
		assert.NoError(t, validator.ValidateAll())
	})

	t.Run("owner reference without name", func(t *testing.T) {
		bundles := newMockBundleMap()
		bundle := newMockBundleModel("acme")
		bundle.applications["billing"] = &mockApplicationEntity{owner: "group:"}
		bundles.addBundle("acme", bundle)

		validator := NewCatalogValidator(NewReferenceResolver(bundles), bundles)
		err := validator.ValidateAll()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "has no name")
	})
}

func TestParseOwner(t *testing.T) {
	tests := []struct {
		name         string
		owner        string
		expectedKind string
		expectedName string
	}{
		{
			name:         "group reference",
			owner:        "group:default/platform-team",
			expectedKind: "group",
			expectedName: "platform-team",
		},
		{
			name:         "user reference",
			owner:        "user:default/alice",
			expectedKind: "user",
			expectedName: "alice",
		},
		{
			name:         "kind is case-insensitive",
			owner:        "User:default/alice",
			expectedKind: "user",
			expectedName: "alice",
		},
		{
			name:         "bare name defaults to group",
			owner:        "platform-team",
			expectedKind: "group",
			expectedName: "platform-team",
		},
		{
			name:         "unknown kind defaults to group",
			owner:        "team:default/platform-team",
			expectedKind: "group",
			expectedName: "platform-team",
		},
		{
			name:         "nested path keeps final segment",
			owner:        "group:org/sub/platform-team",
			expectedKind: "group",
			expectedName: "platform-team",
		},
		{
			name:         "missing name",
			owner:        "group:",
			expectedKind: "group",
			expectedName: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, name := parseOwner(tt.owner)
			assert.Equal(t, tt.expectedKind, kind)
			assert.Equal(t, tt.expectedName, name)
		})
	}
}

// Tests for DependencyResolver

func TestDependencyResolver_ResolveDependencies(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")
	bundle.policyLibraries["utils"] = &mockPolicyEntity{
		rego:         "package utils",
		dependencies: []string{},
	}
	bundle.policyLibraries["helpers"] = &mockPolicyEntity{
		rego:         "package helpers",
		dependencies: []string{"utils"},
	}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)
	depResolver := NewDependencyResolver(resolver)

	t.Run("resolve single dependency", func(t *testing.T) {
		deps, err := depResolver.ResolveDependencies(bundle, []string{"utils"})
		require.NoError(t, err)
		assert.Contains(t, deps, "utils")
	})

	t.Run("resolve transitive dependencies", func(t *testing.T) {
		deps, err := depResolver.ResolveDependencies(bundle, []string{"helpers"})
		require.NoError(t, err)
		assert.Contains(t, deps, "helpers")
		// Should also include transitive dependency
		found := false
		for _, d := range deps {
			if d == "utils" || d == "acme/utils" {
				found = true
				break
			}
		}
		assert.True(t, found, "Should include transitive dependency utils")
	})

	t.Run("non-existent dependency", func(t *testing.T) {
		_, err := depResolver.ResolveDependencies(bundle, []string{"nonexistent"})
		assert.Error(t, err)
	})
}

func TestDependencyResolver_CircularDependency(t *testing.T) {
	bundles := newMockBundleMap()
	bundle := newMockBundleModel("acme")
	bundle.policyLibraries["lib-a"] = &mockPolicyEntity{
		rego:         "package lib_a",
		dependencies: []string{"lib-b"},
	}
	bundle.policyLibraries["lib-b"] = &mockPolicyEntity{
		rego:         "package lib_b",
		dependencies: []string{"lib-a"},
	}
	bundles.addBundle("acme", bundle)

	resolver := NewReferenceResolver(bundles)
	depResolver := NewDependencyResolver(resolver)

	_, err := depResolver.ResolveDependencies(bundle, []string{"lib-a"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
}

// Tests for RegoValidator

func TestRegoValidator_ValidateRegoCode(t *testing.T) {
	validator := NewRegoValidator()

	tests := []struct {
		name        string
		rego        string
		expectError bool
	}{
		{
			name:        "valid rego",
			rego:        "package access\ndefault limited = false",
			expectError: false,
		},
		{
			name:        "empty rego is valid",
			rego:        "",
			expectError: false,
		},
		{
			name:        "whitespace only is valid",
			rego:        "   \n\t  ",
			expectError: false,
		},
		{
			name:        "invalid rego syntax",
			rego:        "package access\ninvalid {{{",
			expectError: true,
		},
		{
			name:        "complex valid rego",
			rego:        "package access\n\nimport rego.v1\n\ndefault limited := false\n\nlimited if {\n    input.annotations[\"github.com/project-slug\"]\n}",
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateRegoCode(tt.rego, "policy", "test-policy")
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegoValidator_ValidateBundleRego(t *testing.T) {
	validator := NewRegoValidator()

	t.Run("all valid rego", func(t *testing.T) {
		bundle := newMockBundleModel("acme")
		bundle.policyLibraries["utils"] = &mockPolicyEntity{
			rego: "package utils\nhelper := true",
		}
		bundle.policies["integration-access"] = &mockPolicyEntity{
			rego: "package access\ndefault limited = false",
		}
		bundle.mappers = append(bundle.mappers, &mockMapperEntity{
			id:   "envoy",
			rego: "package mapper\nquery := {}",
		})

		errors := NewValidationErrors()
		validator.ValidateBundleRego("acme", bundle, errors)
		assert.False(t, errors.HasErrors())
	})

	t.Run("invalid library rego", func(t *testing.T) {
		bundle := newMockBundleModel("acme")
		bundle.policyLibraries["invalid"] = &mockPolicyEntity{
			rego: "package utils\ninvalid {{{",
		}

		errors := NewValidationErrors()
		validator.ValidateBundleRego("acme", bundle, errors)
		assert.True(t, errors.HasErrors())
	})

	t.Run("invalid policy rego", func(t *testing.T) {
		bundle := newMockBundleModel("acme")
		bundle.policies["invalid"] = &mockPolicyEntity{
			rego: "package access\ninvalid {{{",
		}

		errors := NewValidationErrors()
		validator.ValidateBundleRego("acme", bundle, errors)
		assert.True(t, errors.HasErrors())
	})

	t.Run("invalid mapper rego", func(t *testing.T) {
		bundle := newMockBundleModel("acme")
		bundle.mappers = append(bundle.mappers, &mockMapperEntity{
			id:   "invalid-mapper",
			rego: "package mapper\ninvalid {{{",
		})

		errors := NewValidationErrors()
		validator.ValidateBundleRego("acme", bundle, errors)
		assert.True(t, errors.HasErrors())
	})

	t.Run("mapper without id uses fallback", func(t *testing.T) {
		bundle := newMockBundleModel("acme")
		bundle.mappers = append(bundle.mappers, &mockMapperEntity{
			id:   "",
			rego: "package mapper\ninvalid {{{",
		})

		errors := NewValidationErrors()
		validator.ValidateBundleRego("acme", bundle, errors)
		assert.True(t, errors.HasErrors())
		// Error should contain mapper[0] as fallback ID
		assert.Contains(t, errors.Error(), "mapper")
	})
}

// Tests for ValidationErrors

func TestValidationErrors_Basic(t *testing.T) {
	errors := NewValidationErrors()

	assert.False(t, errors.HasErrors())
	assert.Equal(t, 0, errors.Count())

	errors.AddReferenceError("bundle1", "group", "group-1", "members[0]", "not found")
	assert.True(t, errors.HasErrors())
	assert.Equal(t, 1, errors.Count())

	errors.AddCycleError("circular dependency detected")
	assert.Equal(t, 2, errors.Count())

	errors.AddRegoError("bundle1", "policy", "policy-1", "syntax error")
	assert.Equal(t, 3, errors.Count())
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		errors := NewValidationErrors()
		assert.Equal(t, "no validation errors", errors.Error())
	})

	t.Run("single error", func(t *testing.T) {
		errors := NewValidationErrors()
		errors.AddReferenceError("bundle1", "group", "group-1", "members[0]", "not found")
		errStr := errors.Error()
		assert.Contains(t, errStr, "bundle1")
		assert.Contains(t, errStr, "group")
	})

	t.Run("multiple errors", func(t *testing.T) {
		errors := NewValidationErrors()
		errors.AddReferenceError("bundle1", "group", "group-1", "members[0]", "not found")
		errors.AddCycleError("circular dependency")
		errStr := errors.Error()
		assert.Contains(t, errStr, "2 errors")
	})
}

func TestValidationErrors_Grouping(t *testing.T) {
	errors := NewValidationErrors()
	errors.AddReferenceError("bundle1", "group", "group-1", "members[0]", "not found")
	errors.AddReferenceError("bundle1", "application", "app-1", "owner", "not found")
	errors.AddReferenceError("bundle2", "group", "group-2", "members[0]", "not found")
	errors.AddCycleError("circular dependency")

	byBundle := errors.ErrorsByBundle()
	assert.Len(t, byBundle["bundle1"], 2)
	assert.Len(t, byBundle["bundle2"], 1)
	assert.Len(t, byBundle["unknown"], 1) // cycle errors have no bundle

	byType := errors.ErrorsByType()
	assert.Len(t, byType["reference"], 3)
	assert.Len(t, byType["cycle"], 1)
}

func TestValidationErrors_Summary(t *testing.T) {
	errors := NewValidationErrors()
	errors.AddReferenceError("bundle1", "group", "group-1", "members[0]", "not found")
	errors.AddCycleError("circular dependency")

	summary := errors.Summary()
	assert.Contains(t, summary, "Validation Summary")
	assert.Contains(t, summary, "2 errors")
	assert.Contains(t, summary, "By Bundle")
	assert.Contains(t, summary, "By Type")
}

func TestValidationErrors_First(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		errors := NewValidationErrors()
		assert.Nil(t, errors.First())
	})

	t.Run("with errors", func(t *testing.T) {
		errors := NewValidationErrors()
		errors.AddReferenceError("bundle1", "group", "group-1", "members[0]", "first error")
		errors.AddReferenceError("bundle2", "group", "group-2", "members[0]", "second error")

		first := errors.First()
		assert.NotNil(t, first)
		assert.Contains(t, first.Error(), "first error")
	})
}

func TestValidationErrors_ToSlice(t *testing.T) {
	errors := NewValidationErrors()
	errors.AddReferenceError("bundle1", "group", "group-1", "members[0]", "error 1")
	errors.AddReferenceError("bundle2", "group", "group-2", "members[0]", "error 2")

	slice := errors.ToSlice()
	assert.Len(t, slice, 2)
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected []string
	}{
		{
			name: "full error",
			err: &Error{
				Bundle:   "bundle1",
				Entity:   "group",
				EntityID: "group-1",
				Field:    "members[0]",
				Message:  "not found",
			},
			expected: []string{"bundle1", "group", "group-1", "members[0]", "not found"},
		},
		{
			name: "no bundle",
			err: &Error{
				Entity:   "group",
				EntityID: "group-1",
				Message:  "error message",
			},
			expected: []string{"group", "group-1", "error message"},
		},
		{
			name: "only message",
			err: &Error{
				Message: "simple error",
			},
			expected: []string{"simple error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, exp := range tt.expected {
				assert.Contains(t, errStr, exp)
			}
		})
	}
}

// Test helper functions

func TestRemoveDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "no duplicates",
			input:    []string{"a", "b", "c"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "with duplicates",
			input:    []string{"a", "b", "a", "c", "b"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "all same",
			input:    []string{"a", "a", "a"},
			expected: []string{"a"},
		},
		{
			name:     "empty",
			input:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeDuplicates(tt.input)
			assert.ElementsMatch(t, tt.expected, result)
		})
	}
}
