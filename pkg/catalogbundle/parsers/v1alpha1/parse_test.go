//
//  Copyright © Stackport Inc. All rights reserved.
//

package v1alpha1

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidCatalogBundle(t *testing.T) {
	content := `apiVersion: catalog.stackport.io/v1alpha1
kind: CatalogBundle
metadata:
  name: legacy
spec:
  users:
    - name: alice
      title: Alice Anderson
      annotations:
        - name: github.com/login
          value: '"alice-gh"'
  groups:
    - name: platform-team
      title: Platform Team
      members:
        - alice
  applications:
    - name: billing
      owner: group:default/platform-team
      annotations:
        - name: github.com/project-slug
          value: '"legacy/billing"'
        - name: replicas
          value: "3"
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.yml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	model, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "legacy", model.Name)

	// v1alpha1 predates policies and mappers; the exported model still
	// carries empty collections so downstream consumers need no nil checks
	assert.Empty(t, model.PolicyLibraries)
	assert.Empty(t, model.Policies)
	assert.Nil(t, model.AccessPolicy)
	assert.Empty(t, model.Mappers)

	// Verify users with JSON-decoded annotation values
	assert.Len(t, model.Users, 1)
	alice, ok := model.Users["alice"]
	assert.True(t, ok)
	assert.Equal(t, "Alice Anderson", alice.Title)
	assert.Equal(t, "alice-gh", alice.Annotations["github.com/login"])

	// Verify groups
	assert.Len(t, model.Groups, 1)
	group, ok := model.Groups["platform-team"]
	assert.True(t, ok)
	assert.Equal(t, []string{"alice"}, group.Members)

	// Verify applications
	assert.Len(t, model.Applications, 1)
	app, ok := model.Applications["billing"]
	assert.True(t, ok)
	assert.Equal(t, "group:default/platform-team", app.Owner)
	assert.Equal(t, "legacy/billing", app.Annotations["github.com/project-slug"])
	assert.Equal(t, float64(3), app.Annotations["replicas"]) // JSON numbers decode as float64
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/file.yml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "invalid.yml")
	err := os.WriteFile(tmpFile, []byte("invalid: yaml: : content"), 0644)
	require.NoError(t, err)

	_, err = Load(tmpFile)
	assert.Error(t, err)
}

func TestLoad_BadAnnotationJSON(t *testing.T) {
	content := `apiVersion: catalog.stackport.io/v1alpha1
kind: CatalogBundle
metadata:
  name: bad-annotations
spec:
  applications:
    - name: billing
      annotations:
        - name: github.com/project-slug
          value: not-json
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "bad.yml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github.com/project-slug")
	assert.Contains(t, err.Error(), "billing")
}

func TestLoad_EmptySpec(t *testing.T) {
	content := `apiVersion: catalog.stackport.io/v1alpha1
kind: CatalogBundle
metadata:
  name: empty-bundle
spec: {}
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "empty.yml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	model, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "empty-bundle", model.Name)
	assert.Empty(t, model.Users)
	assert.Empty(t, model.Groups)
	assert.Empty(t, model.Applications)
}

func TestExportAnnotations(t *testing.T) {
	annotations, err := exportAnnotations([]Annotation{
		{Name: "string_val", Value: `"hello"`},
		{Name: "number_val", Value: "42"},
		{Name: "bool_val", Value: "true"},
		{Name: "array_val", Value: `[1, 2, 3]`},
		{Name: "object_val", Value: `{"key": "value"}`},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", annotations["string_val"])
	assert.Equal(t, float64(42), annotations["number_val"])
	assert.Equal(t, true, annotations["bool_val"])

	arrayVal, ok := annotations["array_val"].([]interface{})
	require.True(t, ok, "array_val should be a slice")
	assert.Len(t, arrayVal, 3)

	objVal, ok := annotations["object_val"].(map[string]interface{})
	require.True(t, ok, "object_val should be a map")
	assert.Equal(t, "value", objVal["key"])
}

func TestExportAnnotations_Empty(t *testing.T) {
	annotations, err := exportAnnotations(nil)
	require.NoError(t, err)
	assert.Nil(t, annotations)
}

func TestExportUser_BadAnnotation(t *testing.T) {
	_, err := exportUser(User{
		Name:        "alice",
		Annotations: []Annotation{{Name: "broken", Value: "{not json"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alice")
}

func TestExportGroup(t *testing.T) {
	group, err := exportGroup(Group{
		Name:    "platform-team",
		Title:   "Platform Team",
		Members: []string{"alice", "bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, "platform-team", group.Name)
	assert.Equal(t, []string{"alice", "bob"}, group.Members)
}

func TestExportApplications(t *testing.T) {
	applications, err := exportApplications([]Application{
		{Name: "billing", Owner: "user:default/alice"},
		{Name: "search"},
	})
	require.NoError(t, err)
	assert.Len(t, applications, 2)
	assert.Equal(t, "user:default/alice", applications["billing"].Owner)
	assert.Empty(t, applications["search"].Owner)
}
