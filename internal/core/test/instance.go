//
//  Copyright © Stackport Inc. All rights reserved.
//

package test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	internaldl "github.com/stackport/ownerengine/internal/core/decisionlog"
	"github.com/stackport/ownerengine/pkg/core"
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/decisionlog"
	"github.com/stackport/ownerengine/pkg/core/options"
)

// TestConfigFilename is the name of the test configuration file (without extension).
const TestConfigFilename = "soe-config"

// GetTestdataPath returns the absolute path to the testdata directory.
// This uses runtime.Caller to locate the source file and compute the path
// relative to it, ensuring tests work regardless of the working directory.
func GetTestdataPath() string {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		// Fallback to relative path if runtime.Caller fails
		return "testdata"
	}
	// thisFile is internal/core/test/instance.go
	// We need to go up 3 levels to reach the project root, then into testdata
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(thisFile))))
	return filepath.Join(projectRoot, "testdata")
}

// SetupTestConfig configures the environment to use the test configuration.
// This sets both SOE_CONFIG_PATH and SOE_CONFIG_FILENAME to ensure tests
// use the correct configuration regardless of user environment variables.
func SetupTestConfig() error {
	if err := os.Setenv(config.ConfigPathEnv, GetTestdataPath()); err != nil {
		return err
	}
	if err := os.Setenv(config.ConfigFileNameEnv, TestConfigFilename); err != nil {
		return err
	}
	return nil
}

// NewTestResolver instantiates a resolver suitable for unit-testing.
// It uses the test configuration from the testdata directory and routes
// decision records to the returned channel. Configuration is reset so each
// resolver starts from the testdata defaults, free of scripted state left
// behind by earlier tests.
func NewTestResolver(depth int) (core.Resolver, chan *decisionlog.Record, error) {
	if err := SetupTestConfig(); err != nil {
		return nil, nil, err
	}
	config.ResetConfig()

	ch := make(chan *decisionlog.Record, depth)
	resolver, err := core.NewResolver(
		options.WithDecisionLog(internaldl.NewChannelLogger(ch)),
	)
	if err != nil {
		return nil, nil, err
	}

	return resolver, ch, nil
}

// WriteTempBundle writes a catalog bundle to a temporary file that is
// cleaned up with the test, returning its path.
func WriteTempBundle(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bundle.yml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write bundle: %v", err)
	}

	return path
}
