//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package config provides configuration management for the owner engine
// using [Viper] for flexible configuration sources.
//
// Configuration can be provided via:
//   - YAML configuration files
//   - Environment variables with the SOE_ prefix
//   - Programmatic defaults
//
// # Configuration File
//
// By default, the engine looks for soe-config.yaml in the current directory.
// Override the location using environment variables:
//
//	SOE_CONFIG_PATH=/etc/ownerengine
//	SOE_CONFIG_FILENAME=production-config
//
// Example configuration file:
//
//	log:
//	  level: ".:info"
//	cache:
//	  ttl: 5m
//	  enabled: true
//	catalog:
//	  url: https://catalog.internal.example.com/api
//	annotations:
//	  integrations:
//	    - github.com/project-slug
//	audit:
//	  env:
//	    pod: HOSTNAME
//	    region: AWS_REGION
//
// # Environment Variables
//
// All configuration keys can be set via environment variables with the SOE_
// prefix. Dots in key names become underscores:
//
//	SOE_LOG_LEVEL=.:debug
//	SOE_CACHE_TTL=30s
//	SOE_MOCK_ENABLED=true
//
// # Configuration Keys
//
// Available configuration options:
//   - log.level: Log level configuration (default: ".:info")
//   - mock.enabled: Use the mock catalog instead of the configured catalog
//   - cache.ttl: Snapshot cache time-to-live (default: 5m)
//   - cache.enabled: Enable the snapshot cache (default: true)
//   - catalog.url / catalog.token / catalog.ratelimit: REST catalog settings
//   - enrich.concurrency: Concurrent display-name lookups per resolution (default: 4)
//   - annotations.integrations: Annotation keys that mark an external integration
//   - opa.unsafebuiltins: Comma-separated list of Rego built-ins to disable
//   - audit.env: Map of decision-record metadata keys to environment variable names
//   - audit.k8s.podinfo: Directory holding Kubernetes Downward API podinfo files
//   - identity.jwt.secret / identity.jwt.insecure: Bearer-token verification
//   - github.token / github.poll.schedule: GitHub status polling
//   - db.path: SQLite path for the environment-configuration store
//   - auxdata.path: Directory of auxiliary policy data files
//
// [Viper]: https://github.com/spf13/viper
package config

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/stackport/ownerengine/internal/logging"
)

// Environment variable and default path constants for configuration loading.
const (
	// EnvVarPrefix is the prefix for all owner engine environment variables.
	// For example, the key "log.level" becomes SOE_LOG_LEVEL.
	EnvVarPrefix string = "SOE"

	// ConfigPathEnv is the environment variable that specifies the directory
	// containing the configuration file.
	ConfigPathEnv string = "SOE_CONFIG_PATH"

	// ConfigFileNameEnv is the environment variable that specifies the
	// configuration file name (without extension).
	ConfigFileNameEnv string = "SOE_CONFIG_FILENAME"

	// ConfigDefaultPath is the default directory to search for config files.
	ConfigDefaultPath string = "."

	// ConfigDefaultFilename is the default configuration file name (without extension).
	ConfigDefaultFilename string = "soe-config"
)

// Configuration key constants for use with [VConfig].
const (
	logLevel string = "log.level"

	// MockEnabled when set to true causes the engine to use a mock catalog
	// regardless of any catalog configured via [options.WithCatalog].
	// This is useful for unit testing applications that use the resolver.
	//
	// Set via environment: SOE_MOCK_ENABLED=true
	MockEnabled string = "mock.enabled"

	// CacheTTL bounds the staleness of cached ownership snapshots. A cached
	// snapshot older than this duration is evicted on the next lookup.
	//
	// Default: 5m
	// Set via environment: SOE_CACHE_TTL=30s
	CacheTTL string = "cache.ttl"

	// CacheEnabled enables or disables the snapshot cache. When disabled,
	// every resolution recomputes the snapshot.
	//
	// Default: true
	// Set via environment: SOE_CACHE_ENABLED=false
	CacheEnabled string = "cache.enabled"

	// CatalogURL is the base URL of a remote catalog service consumed by the
	// REST catalog implementation.
	CatalogURL string = "catalog.url"

	// CatalogToken is the bearer token presented to the remote catalog.
	CatalogToken string = "catalog.token"

	// CatalogRateLimit caps outbound catalog lookups per second.
	//
	// Default: 10
	CatalogRateLimit string = "catalog.ratelimit"

	// EnrichConcurrency bounds the number of concurrent display-name lookups
	// issued while assembling a single snapshot.
	//
	// Default: 4
	EnrichConcurrency string = "enrich.concurrency"

	// IntegrationAnnotations lists annotation keys whose presence on an
	// application marks an external integration for the LIMITED access tier.
	//
	// Default: ["github.com/project-slug"]
	IntegrationAnnotations string = "annotations.integrations"

	// UnsafeBuiltIns is a comma-separated list of Rego built-in function names
	// to remove from OPA capabilities. This prevents access policies from
	// using potentially dangerous functions like http.send.
	//
	// Default: "http.send"
	// Set via environment: SOE_OPA_UNSAFEBUILTINS=http.send,opa.runtime
	UnsafeBuiltIns string = "opa.unsafebuiltins"

	// AuditEnv defines a mapping from decision-record metadata keys to
	// environment variable names. The values of the specified environment
	// variables are included in every decision record.
	//
	// Example config:
	//
	//	audit:
	//	  env:
	//	    pod: HOSTNAME
	//	    region: AWS_REGION
	AuditEnv string = "audit.env"

	// AuditK8sPodinfo is the directory holding Kubernetes Downward API files
	// (labels, annotations). When present, pod metadata is folded into
	// decision-record metadata.
	//
	// Default: /etc/podinfo
	AuditK8sPodinfo string = "audit.k8s.podinfo"

	// IdentityJWTSecret is the HMAC secret used to verify bearer tokens.
	IdentityJWTSecret string = "identity.jwt.secret"

	// IdentityJWTInsecure permits unverified token parsing. Intended for
	// development behind a trusted gateway that has already verified the
	// token.
	IdentityJWTInsecure string = "identity.jwt.insecure"

	// GithubToken authenticates the GitHub status poller.
	GithubToken string = "github.token"

	// GithubPollSchedule is the cron schedule for deployment-status polling.
	//
	// Default: "@every 5m"
	GithubPollSchedule string = "github.poll.schedule"

	// DBPath locates the SQLite database backing the environment store.
	//
	// Default: soe.db
	DBPath string = "db.path"

	// AuxDataPath locates a directory of auxiliary data files made available
	// to access policies and mappers under input.auxdata.
	AuxDataPath string = "auxdata.path"
)

var (
	once     sync.Once
	loadOnce sync.Once
	loadErr  error

	// VConfig is the global Viper configuration instance for the owner engine.
	//
	// VConfig provides access to all configuration values. Use the
	// configuration key constants ([MockEnabled], [CacheTTL], etc.) to access
	// specific settings:
	//
	//	if config.VConfig.GetBool(config.MockEnabled) {
	//	    // Using mock catalog
	//	}
	//
	// VConfig is initialized automatically when [Load] or [Init] is called.
	// In most cases, applications don't need to access VConfig directly;
	// configuration is handled automatically by [core.NewResolver].
	VConfig *viper.Viper
	logger  = logging.GetLogger("ownerengine.config")
)

// Init initializes the configuration system without loading config files.
//
// Init sets up Viper with:
//   - Configuration file paths and names
//   - Environment variable handling (SOE_ prefix)
//   - Default values for all configuration keys
//
// This function is safe to call multiple times; subsequent calls are no-ops.
// Most applications don't need to call Init directly; it's called
// automatically by [Load], which is called by [core.NewResolver].
//
// Call Init explicitly only if you need to set Viper defaults before [Load]
// reads the configuration file.
func Init() {
	once.Do(func() {
		doInitialize()
	})
}

func getConfigPath() string {
	configPath, ok := os.LookupEnv(ConfigPathEnv)
	if ok {
		return configPath
	}

	return ConfigDefaultPath
}

func getConfigFileName() string {
	configName, ok := os.LookupEnv(ConfigFileNameEnv)
	if ok {
		return configName
	}

	return ConfigDefaultFilename
}

func doInitialize() {
	VConfig = viper.New()

	// set up config-file loading:  default is './soe-config.yaml' but can be overridden with $(SOE_CONFIG_PATH)/$(SOE_CONFIG_FILENAME).yaml
	VConfig.AddConfigPath(getConfigPath())
	VConfig.SetConfigName(getConfigFileName())
	VConfig.SetConfigType("yaml")

	// set up envvar handling:  keys such as 'log.level' become 'SOE_LOG_LEVEL'
	VConfig.SetEnvPrefix(EnvVarPrefix)
	VConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	VConfig.AutomaticEnv()

	// set up VConfig defaults
	VConfig.SetDefault(logLevel, ".:info")
	VConfig.SetDefault(CacheTTL, 5*time.Minute)
	VConfig.SetDefault(CacheEnabled, true)
	VConfig.SetDefault(CatalogRateLimit, 10)
	VConfig.SetDefault(EnrichConcurrency, 4)
	VConfig.SetDefault(IntegrationAnnotations, []string{"github.com/project-slug"})
	VConfig.SetDefault(UnsafeBuiltIns, "http.send")
	VConfig.SetDefault(AuditK8sPodinfo, "/etc/podinfo")
	VConfig.SetDefault(GithubPollSchedule, "@every 5m")
	VConfig.SetDefault(DBPath, "soe.db")
}

// Load initializes configuration and loads settings from files and environment.
//
// Load performs the following steps:
//  1. Calls [Init] if not already called
//  2. Reads the configuration file (if present; missing files are not an error)
//  3. Applies environment variable overrides
//  4. Updates log levels based on configuration
//
// This function is safe to call concurrently from multiple goroutines.
// Subsequent calls after the first successful load are no-ops that return nil.
//
// Load is called automatically by [core.NewResolver]. Most applications
// don't need to call it directly.
//
// Returns an error if log level configuration is invalid.
func Load() error {
	loadOnce.Do(func() {
		Init()

		// Early log level update from environment variable allows us to debug the config loading.
		earlyLoglevel := os.Getenv("SOE_LOG_LEVEL")
		if earlyLoglevel != "" {
			if err := logging.UpdateLogLevels(earlyLoglevel); err != nil {
				logger.SysErrorf("Failed updating early log level %s: %+v", earlyLoglevel, err)
				loadErr = err
				return
			}
		}

		logger.SysDebugf("Loading configuration from %s/%s.yaml", getConfigPath(), getConfigFileName())
		err := VConfig.ReadInConfig()
		if err != nil {
			// Only log if it's an actual error, not just a missing config file
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				logger.SysWarnf("error reading config; using defaults: %+v", err)
			}
			logger.SysDebugf("No config file found at %s/%s.yaml", getConfigPath(), getConfigFileName())
		}

		// Update log levels based on final configuration
		loglevel := VConfig.GetString(logLevel)
		if err := logging.UpdateLogLevels(loglevel); err != nil {
			logger.SysErrorf("Failed updating log level %s: %+v", loglevel, err)
			loadErr = err
			return
		}

		if logger.IsDebugEnabled() {
			VConfig.DebugTo(logger.Out())
		}
	})

	return loadErr
}

// ResetConfig clears all configuration and reinitializes with defaults.
//
// WARNING: This function is intended for testing only. It resets the global
// configuration state, which can cause race conditions in concurrent code.
//
// After calling ResetConfig, the configuration system is reinitialized with
// default values. Any previously loaded configuration file or environment
// variable overrides are discarded.
func ResetConfig() {
	VConfig = nil
	once = sync.Once{}     // reset the sync.Once to allow re-initialization
	loadOnce = sync.Once{} // reset the loadOnce to allow re-loading
	loadErr = nil          // reset any previous load error
	resetK8sCache()
	Init()
	// ignore any reset errors
	_ = Load()
}

// GetAuditEnv returns resolved audit environment metadata for decision records.
//
// This function reads the audit.env configuration section and resolves each
// configured environment variable to its current value. The result is a map
// suitable for inclusion in decision records as metadata.
//
// Configuration format:
//
//	audit:
//	  env:
//	    pod: HOSTNAME
//	    region: AWS_REGION
//
// With HOSTNAME=pod-123 and AWS_REGION=us-east-1, this returns:
//
//	{"pod": "pod-123", "region": "us-east-1"}
//
// Environment variables that are not set will have empty string values in the
// result. Returns an empty map if no audit.env configuration is present.
func GetAuditEnv() map[string]string {
	result := make(map[string]string)

	envConfig := VConfig.GetStringMapString(AuditEnv)
	if envConfig == nil {
		return result
	}

	for key, envVarName := range envConfig {
		result[key] = os.Getenv(envVarName)
	}

	return result
}

// GetAuditMetadata returns the full metadata map for decision records:
// audit.env resolutions plus any Kubernetes Downward API labels and
// annotations found under audit.k8s.podinfo. Kubernetes keys are prefixed
// with "k8s.label." and "k8s.annotation." respectively.
func GetAuditMetadata() map[string]string {
	result := GetAuditEnv()

	for k, v := range getK8sLabels() {
		result["k8s.label."+k] = v
	}
	for k, v := range getK8sAnnotations() {
		result["k8s.annotation."+k] = v
	}

	return result
}

// GetIntegrationAnnotations returns the annotation keys that mark an
// application as externally integrated for the LIMITED access tier.
func GetIntegrationAnnotations() []string {
	return VConfig.GetStringSlice(IntegrationAnnotations)
}
