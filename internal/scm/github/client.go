//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package github polls GitHub Actions for the most recent workflow run of
// each integrated environment and records its status in the environment
// store. Integration is declared by setting an environment's project slug
// ("owner/repo").
package github

import (
	"context"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/pkg/errors"
)

// Client wraps the GitHub API surface used by the status poller.
type Client struct {
	gh *github.Client
}

// NewClient returns a Client authenticated with the provided token. An empty
// token yields an unauthenticated client, subject to much lower rate limits.
func NewClient(token string) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// SplitProjectSlug splits an "owner/repo" slug into its parts.
func SplitProjectSlug(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid project slug %q: expected owner/repo", slug)
	}

	return parts[0], parts[1], nil
}

// LatestWorkflowStatus returns the status of the most recent workflow run for
// the repository identified by slug. Completed runs report their conclusion
// ("success", "failure", ...); in-flight runs report their status
// ("queued", "in_progress"). Returns "" when the repository has no runs.
func (c *Client) LatestWorkflowStatus(ctx context.Context, slug string) (string, error) {
	owner, repo, err := SplitProjectSlug(slug)
	if err != nil {
		return "", err
	}

	runs, _, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, &github.ListWorkflowRunsOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", errors.Wrapf(err, "listing workflow runs for %s", slug)
	}

	if len(runs.WorkflowRuns) == 0 {
		return "", nil
	}

	return runStatus(runs.WorkflowRuns[0]), nil
}

func runStatus(run *github.WorkflowRun) string {
	if run.GetStatus() == "completed" {
		return run.GetConclusion()
	}

	return run.GetStatus()
}
