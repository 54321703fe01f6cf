//
//  Copyright © Stackport Inc. All rights reserved.
//

package common

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// runCliCommand runs action under a CLI command tree mirroring the real one,
// so NewCliResolver sees the global trace flag and the bundle slice.
func runCliCommand(t *testing.T, args []string, action cli.ActionFunc) {
	t.Helper()

	t.Setenv(config.ConfigPathEnv, t.TempDir())
	config.ResetConfig()

	cmd := &cli.Command{
		Name: "soe",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "trace", Value: false},
		},
		Commands: []*cli.Command{
			{
				Name: "serve",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "bundle", Aliases: []string{"b"}},
				},
				Action: action,
			},
		},
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"soe", "serve"}, args...)))
}

func TestNewCliResolver_RequiresBundle(t *testing.T) {
	runCliCommand(t, nil, func(ctx context.Context, cmd *cli.Command) error {
		_, err := NewCliResolver(cmd, io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one bundle")
		return nil
	})
}

func TestNewCliResolver_AuxDataOption(t *testing.T) {
	bundle := filepath.Join("test", "aux-bundle.yml")
	mallory := &model.UserIdentity{
		UserRef:       "user:default/mallory",
		OwnershipRefs: []string{"user:default/mallory"},
	}
	billing := &model.Application{Name: "billing", Owner: "group:default/platform-team"}

	runCliCommand(t, []string{"-b", bundle}, func(ctx context.Context, cmd *cli.Command) error {
		// extra engine options reach the resolver, so the bundle access
		// policy sees input.auxdata
		r, err := NewCliResolver(cmd, io.Discard,
			options.WithAuxData(map[string]interface{}{"tier": "gold"}))
		require.NoError(t, err)

		level, err := r.AccessLevel(ctx, mallory, billing)
		require.NoError(t, err)
		assert.Equal(t, model.AccessLimited, level)

		// without auxdata the same policy denies the tier
		r, err = NewCliResolver(cmd, io.Discard)
		require.NoError(t, err)

		level, err = r.AccessLevel(ctx, mallory, billing)
		require.NoError(t, err)
		assert.Equal(t, model.AccessNone, level)

		return nil
	})
}
