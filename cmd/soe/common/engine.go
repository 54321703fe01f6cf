package common

import (
	"fmt"
	"io"

	"github.com/stackport/ownerengine/pkg/core"
	"github.com/stackport/ownerengine/pkg/core/decisionlog"
	"github.com/stackport/ownerengine/pkg/core/opa"
	"github.com/stackport/ownerengine/pkg/core/options"
	"github.com/urfave/cli/v3"
)

// NewCliResolver creates a new Resolver instance configured from CLI command
// flags. Bundles are loaded from local files, with CatalogBundleReference
// files built automatically, and decisions are logged to the provided writer.
// Additional engine options, such as auxiliary data for access-policy
// evaluation, are applied after the CLI-derived defaults.
func NewCliResolver(cmd *cli.Command, stdout io.Writer, extraOptions ...options.EngineOptionsFunc) (core.Resolver, error) {
	// Enable trace logging if requested (global flag from root command)
	traceEnabled := cmd.Root().Bool("trace")

	bundles := cmd.StringSlice("bundle")
	if len(bundles) == 0 {
		return nil, fmt.Errorf("at least one bundle must be specified")
	}

	// Auto-build any CatalogBundleReference files
	bundles, err := AutoBuildReferenceFiles(bundles)
	if err != nil {
		return nil, err
	}

	engineOptions := []options.EngineOptionsFunc{
		options.WithDecisionLog(decisionlog.NewIoWriterFactory(stdout)),
		options.WithCompilerOptions(
			opa.WithDefaultTracing(traceEnabled)),
	}
	engineOptions = append(engineOptions, extraOptions...)

	return core.NewLocalResolver(bundles, engineOptions...)
}
