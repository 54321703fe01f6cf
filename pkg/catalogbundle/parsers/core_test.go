//
//  Copyright © Stackport Inc. All rights reserved.
//

package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_V1Alpha1(t *testing.T) {
	// Create a temporary v1alpha1 catalog bundle file
	content := `apiVersion: catalog.stackport.io/v1alpha1
kind: CatalogBundle
metadata:
  name: legacy-bundle
spec:
  users:
    - name: alice
      title: Alice Anderson
  groups:
    - name: platform-team
      members:
        - alice
  applications:
    - name: billing
      owner: group:default/platform-team
      annotations:
        - name: github.com/project-slug
          value: '"legacy/billing"'
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-v1alpha1.yml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	model, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "legacy-bundle", model.Name)
	assert.Len(t, model.Users, 1)
	assert.Len(t, model.Groups, 1)
	assert.Len(t, model.Applications, 1)
	assert.Empty(t, model.Policies)
	assert.Equal(t, "legacy/billing", model.Applications["billing"].Annotations["github.com/project-slug"])
}

func TestLoad_V1Beta1(t *testing.T) {
	// Create a temporary v1beta1 catalog bundle file
	content := `apiVersion: catalog.stackport.io/v1beta1
kind: CatalogBundle
metadata:
  name: current-bundle
spec:
  policies:
    - id: integration-access
      rego: |
        package access
        default limited = false
  access-policy:
    id: current-access
    policy: integration-access
  users:
    - name: alice
  applications:
    - name: billing
      owner: user:default/alice
      annotations:
        github.com/project-slug: current/billing
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-v1beta1.yml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	model, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "current-bundle", model.Name)
	assert.Len(t, model.Policies, 1)
	assert.Contains(t, model.Policies, "integration-access")
	require.NotNil(t, model.AccessPolicy)
	assert.Equal(t, "integration-access", model.AccessPolicy.Policy)
	assert.Equal(t, "current/billing", model.Applications["billing"].Annotations["github.com/project-slug"])
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/file.yml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "invalid.yml")
	err := os.WriteFile(tmpFile, []byte("invalid: yaml: content:"), 0644)
	require.NoError(t, err)

	_, err = Load(tmpFile)
	assert.Error(t, err)
}

func TestLoad_WrongKind(t *testing.T) {
	content := `apiVersion: catalog.stackport.io/v1beta1
kind: NotCatalogBundle
metadata:
  name: test
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "wrong-kind.yml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected CatalogBundle")
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	content := `apiVersion: catalog.stackport.io/v999
kind: CatalogBundle
metadata:
  name: test
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "unsupported.yml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported CatalogBundle API Version")
}

func TestLoad_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "empty.yml")
	err := os.WriteFile(tmpFile, []byte(""), 0644)
	require.NoError(t, err)

	_, err = Load(tmpFile)
	assert.Error(t, err)
}
