//
//  Copyright © Stackport Inc. All rights reserved.
//

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stackport/ownerengine/cmd/soe/common"
	"github.com/stackport/ownerengine/pkg/core"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/urfave/cli/v3"
)

// resolveQuery is the JSON input for a one-shot resolve operation. It mirrors
// the request body of the generic decision point.
type resolveQuery struct {
	User         *model.UserIdentity  `json:"user"`
	Applications []*model.Application `json:"applications"`
}

// accessQuery is the JSON input for a one-shot access-level operation. The
// application may be given inline or looked up from the catalog by name.
type accessQuery struct {
	User            *model.UserIdentity `json:"user"`
	Application     *model.Application  `json:"application,omitempty"`
	ApplicationName string              `json:"applicationName,omitempty"`
}

// membersQuery is the JSON input for a one-shot group-membership operation.
type membersQuery struct {
	User   *model.UserIdentity `json:"user"`
	Groups []string            `json:"groups"`
}

type engine struct {
	resolver core.Resolver
	cmd      *cli.Command
}

func newEngine(cmd *cli.Command) (*engine, error) {
	// Decision records go to stderr under --trace so stdout stays pure JSON
	logWriter := io.Discard
	if cmd.Root().Bool("trace") {
		logWriter = os.Stderr
	}

	r, err := common.NewCliResolver(cmd, logWriter)
	if err != nil {
		return nil, err
	}

	return &engine{
		resolver: r,
		cmd:      cmd,
	}, nil
}

func (e *engine) executeResolve(ctx context.Context, input string) (string, error) {
	var query resolveQuery
	if err := json.Unmarshal([]byte(input), &query); err != nil {
		return "", fmt.Errorf("failed to parse query JSON: %w", err)
	}

	snapshot, err := e.resolver.Resolve(ctx, query.User, query.Applications)
	if err != nil {
		return "", err
	}

	return marshalOutput(snapshot)
}

func (e *engine) executeAccess(ctx context.Context, input string) (string, error) {
	var query accessQuery
	if err := json.Unmarshal([]byte(input), &query); err != nil {
		return "", fmt.Errorf("failed to parse query JSON: %w", err)
	}

	application, err := e.lookupApplication(ctx, &query)
	if err != nil {
		return "", err
	}

	level, err := e.resolver.AccessLevel(ctx, query.User, application)
	if err != nil {
		return "", err
	}

	return marshalOutput(map[string]model.AccessLevel{"accessLevel": level})
}

func (e *engine) executeMembers(input string) (string, error) {
	var query membersQuery
	if err := json.Unmarshal([]byte(input), &query); err != nil {
		return "", fmt.Errorf("failed to parse query JSON: %w", err)
	}

	groups, err := e.resolver.MembersOf(query.User, query.Groups)
	if err != nil {
		return "", err
	}
	if groups == nil {
		groups = []string{}
	}

	return marshalOutput(map[string][]string{"groups": groups})
}

// lookupApplication returns the inline application when present, otherwise
// fetches it from the catalog by name.
func (e *engine) lookupApplication(ctx context.Context, query *accessQuery) (*model.Application, error) {
	if query.Application != nil {
		return query.Application, nil
	}

	if query.ApplicationName == "" {
		return nil, fmt.Errorf("either 'application' or 'applicationName' must be specified")
	}

	application, rerr := e.resolver.GetCatalog().GetApplication(ctx, query.ApplicationName)
	if rerr != nil {
		return nil, rerr
	}
	if application == nil {
		return nil, fmt.Errorf("application '%s' not found in catalog", query.ApplicationName)
	}

	return application, nil
}

func marshalOutput(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal output JSON: %w", err)
	}
	return string(data), nil
}
