//
//  Copyright © Stackport Inc. All rights reserved.
//

package serve

import (
	"context"
	"os"
	"os/signal"

	"github.com/stackport/ownerengine/cmd/soe/common"
	"github.com/stackport/ownerengine/internal/envstore"
	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/internal/scm/github"
	"github.com/stackport/ownerengine/pkg/core/auxdata"
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/options"
	"github.com/stackport/ownerengine/pkg/decisionpoint"
	"github.com/stackport/ownerengine/pkg/decisionpoint/envoy"
	"github.com/stackport/ownerengine/pkg/decisionpoint/generic"
	"github.com/urfave/cli/v3"
)

var logger = logging.GetLogger("ownerengine")

const agent string = "serve"

// Execute runs the serve command, starting a decision point server based on the configured protocol.
// It supports both "generic" and "envoy" protocols and gracefully shuts down on interrupt signals.
func Execute(ctx context.Context, cmd *cli.Command) error {
	port := cmd.Int("port")

	if err := config.Load(); err != nil {
		return err
	}

	// Auxiliary data must be loaded before the resolver so access policies
	// see it under input.auxdata
	auxPath := config.VConfig.GetString(config.AuxDataPath)
	if p := cmd.String("auxdata"); p != "" {
		auxPath = p
	}
	aux, err := auxdata.LoadAuxData(auxPath)
	if err != nil {
		return err
	}

	r, err := common.NewCliResolver(cmd, os.Stdout, options.WithAuxData(aux))
	if err != nil {
		return err
	}

	// Open the environment store backing the generic protocol's CRUD surface
	dbPath := config.VConfig.GetString(config.DBPath)
	if p := cmd.String("db"); p != "" {
		dbPath = p
	}
	var store *envstore.Store
	if dbPath != "" {
		store, err = envstore.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	// Start the deployment-status poller when a GitHub token is configured
	if token := config.VConfig.GetString(config.GithubToken); token != "" && store != nil {
		poller := github.NewPoller(github.NewClient(token), store)
		if err := poller.Start(); err != nil {
			return err
		}
		defer poller.Stop()
	}

	// The envoy protocol gates on a minimum access level, LIMITED by default
	minLevel := model.AccessLimited
	if s := cmd.String("min-level"); s != "" {
		minLevel, err = model.ParseAccessLevel(s)
		if err != nil {
			return err
		}
	}

	var server decisionpoint.Server
	switch cmd.String("protocol") {
	case "generic":
		server, err = generic.CreateServer(r, store, port)
	case "envoy":
		server, err = envoy.CreateServer(r, port, cmd.String("name"), minLevel, aux)
	}
	if err != nil {
		return err
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info(agent, "shutdown", "Shutting down server...")

	err = server.Stop(ctx)
	if err != nil {
		return err
	}

	logger.Info(agent, "shutdown", "Server exited gracefully.")
	return nil
}
