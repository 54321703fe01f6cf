//
//  Copyright © Stackport Inc. All rights reserved.
//

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// TestCase represents a single access-level test case. The query uses the
// same JSON field names as the one-shot access operation.
type TestCase struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Query       map[string]any `yaml:"query"`
	Result      TestResult     `yaml:"result"`
}

// TestResult represents the expected result of a test
type TestResult struct {
	Level string `yaml:"level"`
}

// TestSuite represents a collection of test cases
type TestSuite struct {
	Tests []TestCase `yaml:"tests"`
}

// ExecuteSuite runs a suite of access-level tests from a YAML file
func ExecuteSuite(ctx context.Context, cmd *cli.Command) error {
	// Read and parse the test file
	inputPath := cmd.String("input")
	testSuite, err := loadTestSuite(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load test suite: %w", err)
	}

	if len(testSuite.Tests) == 0 {
		return fmt.Errorf("no tests found in test suite")
	}

	// Filter tests based on --test patterns
	testPatterns := cmd.StringSlice("test")
	testsToRun := filterTests(testSuite.Tests, testPatterns)

	if len(testsToRun) == 0 {
		return fmt.Errorf("no tests match the specified patterns")
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	// Run tests and collect results
	passed := 0
	failed := 0

	for _, tc := range testsToRun {
		expected, err := model.ParseAccessLevel(tc.Result.Level)
		if err != nil {
			fmt.Printf("%s: ERROR (invalid expected level '%s')\n", tc.Name, tc.Result.Level)
			failed++
			continue
		}

		// Convert the query through JSON so the model field names apply
		queryJSON, err := json.Marshal(tc.Query)
		if err != nil {
			fmt.Printf("%s: ERROR (failed to marshal query: %v)\n", tc.Name, err)
			failed++
			continue
		}

		var query accessQuery
		if err := json.Unmarshal(queryJSON, &query); err != nil {
			fmt.Printf("%s: ERROR (failed to parse query: %v)\n", tc.Name, err)
			failed++
			continue
		}

		application, err := engine.lookupApplication(ctx, &query)
		if err != nil {
			fmt.Printf("%s: ERROR (%v)\n", tc.Name, err)
			failed++
			continue
		}

		level, err := engine.resolver.AccessLevel(ctx, query.User, application)
		if err != nil {
			fmt.Printf("%s: ERROR (%v)\n", tc.Name, err)
			failed++
			continue
		}

		// Compare result
		if level == expected {
			fmt.Printf("%s: PASS\n", tc.Name)
			passed++
		} else {
			fmt.Printf("%s: FAIL (expected %s, got %s)\n", tc.Name, expected, level)
			failed++
		}
	}

	// Print summary
	total := passed + failed
	fmt.Printf("\n%d/%d tests passed\n", passed, total)

	// Return error if any tests failed
	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}

// loadTestSuite reads and parses a test suite from a YAML file
func loadTestSuite(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool intentionally reads user-provided paths
	if err != nil {
		return nil, fmt.Errorf("failed to read test file: %w", err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse test file: %w", err)
	}

	return &suite, nil
}

// filterTests returns tests that match the specified patterns.
// If no patterns are specified, all tests are returned.
// Patterns support glob matching (e.g., "admin-*" matches "admin-can-read").
func filterTests(tests []TestCase, patterns []string) []TestCase {
	if len(patterns) == 0 {
		return tests
	}

	var filtered []TestCase
	for _, tc := range tests {
		for _, pattern := range patterns {
			matched, err := filepath.Match(pattern, tc.Name)
			if err != nil {
				// Invalid pattern - treat as literal match
				if pattern == tc.Name {
					filtered = append(filtered, tc)
					break
				}
			} else if matched {
				filtered = append(filtered, tc)
				break
			}
		}
	}

	return filtered
}
