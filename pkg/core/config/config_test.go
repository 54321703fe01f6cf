//
//  Copyright © Stackport Inc. All rights reserved.
//

package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stretchr/testify/assert"
)

func TestInitConfig(t *testing.T) {
	os.Setenv(config.ConfigPathEnv, "../../..")
	config.ResetConfig()
	assert.NotNil(t, config.VConfig)
}

func TestConfigDefaults(t *testing.T) {
	os.Setenv(config.ConfigPathEnv, "../../..")
	config.ResetConfig()

	// Check some default values
	assert.Equal(t, true, config.VConfig.GetBool(config.CacheEnabled))
	assert.Equal(t, 5*time.Minute, config.VConfig.GetDuration(config.CacheTTL))
	assert.Equal(t, 4, config.VConfig.GetInt(config.EnrichConcurrency))
	assert.Equal(t, "http.send", config.VConfig.GetString(config.UnsafeBuiltIns))
	assert.Equal(t, []string{"github.com/project-slug"}, config.GetIntegrationAnnotations())
	assert.Equal(t, "@every 5m", config.VConfig.GetString(config.GithubPollSchedule))
}

func TestConfigWithCustomFilename(t *testing.T) {
	os.Setenv(config.ConfigPathEnv, "../../..")
	os.Setenv(config.ConfigFileNameEnv, "soe-config")
	defer os.Unsetenv(config.ConfigFileNameEnv)

	config.ResetConfig()
}

func TestConfigEnvOverride(t *testing.T) {
	os.Setenv(config.ConfigPathEnv, "../../..")
	os.Setenv("SOE_CACHE_TTL", "30s")
	defer os.Unsetenv("SOE_CACHE_TTL")

	config.ResetConfig()

	assert.Equal(t, 30*time.Second, config.VConfig.GetDuration(config.CacheTTL))
}

func TestGetAuditEnv(t *testing.T) {
	os.Setenv(config.ConfigPathEnv, "../../..")
	config.ResetConfig()

	os.Setenv("TEST_AUDIT_HOSTNAME", "pod-123")
	defer os.Unsetenv("TEST_AUDIT_HOSTNAME")

	config.VConfig.Set(config.AuditEnv, map[string]string{
		"pod":    "TEST_AUDIT_HOSTNAME",
		"region": "TEST_AUDIT_UNSET_VAR",
	})

	result := config.GetAuditEnv()
	assert.Equal(t, "pod-123", result["pod"])
	assert.Equal(t, "", result["region"])
}

func TestGetAuditEnvEmpty(t *testing.T) {
	os.Setenv(config.ConfigPathEnv, "../../..")
	config.ResetConfig()

	result := config.GetAuditEnv()
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGetAuditMetadataIncludesEnv(t *testing.T) {
	os.Setenv(config.ConfigPathEnv, "../../..")
	config.ResetConfig()

	os.Setenv("TEST_AUDIT_REGION", "us-east-1")
	defer os.Unsetenv("TEST_AUDIT_REGION")

	config.VConfig.Set(config.AuditEnv, map[string]string{"region": "TEST_AUDIT_REGION"})
	// point podinfo at a directory that does not exist; k8s metadata is skipped
	config.VConfig.Set(config.AuditK8sPodinfo, "/nonexistent/podinfo")

	result := config.GetAuditMetadata()
	assert.Equal(t, "us-east-1", result["region"])
	for k := range result {
		assert.NotContains(t, k, "k8s.label.")
	}
}
