//
//  Copyright © Stackport Inc. All rights reserved.
//

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/stackport/ownerengine/cmd/soe/subcommands/build"
	"github.com/stackport/ownerengine/cmd/soe/subcommands/lint"
	"github.com/stackport/ownerengine/cmd/soe/subcommands/serve"
	"github.com/stackport/ownerengine/cmd/soe/subcommands/test"
	"github.com/stackport/ownerengine/cmd/soe/version"
	"github.com/stackport/ownerengine/internal/logging"
	"github.com/urfave/cli/v3"
)

var logger = logging.GetLogger("soe")

func main() {
	cmd := &cli.Command{
		Name:    "soe",
		Usage:   "A CLI application for working with the Stackport Owner Engine",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "trace",
				Aliases: []string{"t"},
				Usage:   "Enable OPA trace logging output to stderr for commands that evaluate REGO",
				Value:   logger.IsTraceEnabled(),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "test",
				Usage: "Invokes various aspects of ownership-resolution flow, simplifying catalog-bundle authoring and verification",
				Commands: []*cli.Command{
					{
						Name:  "resolve",
						Usage: "Computes an ownership snapshot for a user across a set of applications",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "input",
								Aliases: []string{"i"},
								Usage:   "Load query from 'FILE', or use '-' for stdin",
							},
							&cli.StringSliceFlag{
								Name:    "bundle",
								Aliases: []string{"b"},
								Usage:   "Load CatalogBundle from `FILE`.  Can be specified multiple times.",
							},
						},
						Action: test.ExecuteResolve,
					},
					{
						Name:  "access",
						Usage: "Determines a user's access level (FULL/LIMITED/NONE) for a single application",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "input",
								Aliases: []string{"i"},
								Usage:   "Load query from 'FILE', or use '-' for stdin",
							},
							&cli.StringSliceFlag{
								Name:    "bundle",
								Aliases: []string{"b"},
								Usage:   "Load CatalogBundle from `FILE`.  Can be specified multiple times.",
							},
						},
						Action: test.ExecuteAccess,
					},
					{
						Name:  "members",
						Usage: "Filters candidate groups down to those the user's identity claims",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "input",
								Aliases: []string{"i"},
								Usage:   "Load query from 'FILE', or use '-' for stdin",
							},
							&cli.StringSliceFlag{
								Name:    "bundle",
								Aliases: []string{"b"},
								Usage:   "Load CatalogBundle from `FILE`.  Can be specified multiple times.",
							},
						},
						Action: test.ExecuteMembers,
					},
					{
						Name:  "suite",
						Usage: "Runs a YAML suite of access-level expectations against one or more CatalogBundle files",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "input",
								Aliases:  []string{"i"},
								Usage:    "Load test suite from `FILE`",
								Required: true,
							},
							&cli.StringSliceFlag{
								Name:    "bundle",
								Aliases: []string{"b"},
								Usage:   "Load CatalogBundle from `FILE`.  Can be specified multiple times.",
							},
							&cli.StringSliceFlag{
								Name:  "test",
								Usage: "Run only tests matching this glob pattern.  Can be specified multiple times.",
							},
						},
						Action: test.ExecuteSuite,
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Creates a decision-point service",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Usage: "The TCP port to serve on.",
						Value: 9000,
					},
					&cli.StringFlag{
						Name:    "protocol",
						Aliases: []string{"p"},
						Usage:   "The protocol to serve.  Must be one of 'generic' or 'envoy'",
						Value:   "generic",
						Action: func(ctx context.Context, command *cli.Command, s string) error {
							if s != "generic" && s != "envoy" {
								return fmt.Errorf("unsupported protocol: %s", s)
							}
							return nil
						},
					},
					&cli.StringSliceFlag{
						Name:    "bundle",
						Aliases: []string{"b"},
						Usage:   "Load CatalogBundle from `FILE`.  Can be specified multiple times.",
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Bundle name to use when multiple bundles are provided",
					},
					&cli.StringFlag{
						Name:  "min-level",
						Usage: "Minimum access level the envoy protocol admits (FULL, LIMITED). Defaults to LIMITED.",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the SQLite database backing the environment store. Overrides the 'db.path' config setting.",
					},
					&cli.StringFlag{
						Name:  "auxdata",
						Usage: "Directory of auxiliary data files made available to access policies and mappers. Overrides the 'auxdata.path' config setting.",
					},
				},
				Action: serve.Execute,
			},
			{
				Name:  "lint",
				Usage: "Validate CatalogBundle YAML files for syntax errors and lint embedded Rego code",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "CatalogBundle YAML file to lint (.yml, .yaml). Validates YAML syntax and lints all embedded Rego code with cross-references resolved. Can be specified multiple times.",
						Required: true,
					},
				},
				Action: lint.Execute,
			},
			{
				Name:  "build",
				Usage: "Build CatalogBundle YAML from CatalogBundleReference (with external .rego files)",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "CatalogBundleReference YAML file to build (.yml, .yaml). Can be specified multiple times.",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (only valid when building a single file). If not specified, generates '<input>-built.yml'",
					},
				},
				Action: build.Execute,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
