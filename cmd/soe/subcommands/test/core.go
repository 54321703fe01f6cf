//
//  Copyright © Stackport Inc. All rights reserved.
//

package test

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ExecuteResolve computes a stand-alone ownership snapshot and prints the output
func ExecuteResolve(ctx context.Context, cmd *cli.Command) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	output, err := engine.executeResolve(ctx, getInputExpression(cmd.String("input")))
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}

// ExecuteAccess computes a stand-alone access-level determination and prints the output
func ExecuteAccess(ctx context.Context, cmd *cli.Command) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	output, err := engine.executeAccess(ctx, getInputExpression(cmd.String("input")))
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}

// ExecuteMembers filters candidate groups against the user's claims and prints the output
func ExecuteMembers(ctx context.Context, cmd *cli.Command) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	output, err := engine.executeMembers(getInputExpression(cmd.String("input")))
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}
