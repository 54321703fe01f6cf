//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package v1beta1 parses the current catalog bundle format. It extends
// v1alpha1 with policy libraries, access policies, an access-policy binding,
// and decision-point mappers, and replaces JSON-encoded annotation strings
// with native YAML values.
package v1beta1

import (
	"crypto/sha256"
	"io"
	"os"

	"github.com/stackport/ownerengine/pkg/catalogbundle"

	"gopkg.in/yaml.v3"
)

// PolicyDefinition represents a policy definition in v1beta1 format
type PolicyDefinition struct {
	ID           string   `yaml:"id"`
	Description  string   `yaml:"description"`
	Rego         string   `yaml:"rego"`
	Dependencies []string `yaml:"dependencies"`
}

// AccessPolicy represents the bundle's access-policy binding in v1beta1 format
type AccessPolicy struct {
	ID          string                 `yaml:"id"`
	Description string                 `yaml:"description"`
	Policy      string                 `yaml:"policy"`
	Annotations map[string]interface{} `yaml:"annotations"`
}

// User represents a user entity in v1beta1 format
type User struct {
	Name        string                 `yaml:"name"`
	Title       string                 `yaml:"title"`
	Annotations map[string]interface{} `yaml:"annotations"`
}

// Group represents a group entity in v1beta1 format
type Group struct {
	Name        string                 `yaml:"name"`
	Title       string                 `yaml:"title"`
	Members     []string               `yaml:"members"`
	Annotations map[string]interface{} `yaml:"annotations"`
}

// Application represents an application entity in v1beta1 format
type Application struct {
	Name        string                 `yaml:"name"`
	Owner       string                 `yaml:"owner"`
	Annotations map[string]interface{} `yaml:"annotations"`
}

// Mapper represents a decision-point mapper in v1beta1 format
type Mapper struct {
	ID   string `yaml:"id"`
	Rego string `yaml:"rego"`
}

func exportDefinition(def PolicyDefinition) catalogbundle.Policy {
	fingerprint := sha256.Sum256([]byte(def.Rego))
	return catalogbundle.Policy{
		IDSpec: catalogbundle.IDSpec{
			ID:          def.ID,
			Fingerprint: fingerprint[:],
		},
		Dependencies: def.Dependencies,
		Rego:         def.Rego,
	}
}

func exportDefinitions(defs []PolicyDefinition) map[string]catalogbundle.Policy {
	policies := make(map[string]catalogbundle.Policy, 0)
	for _, def := range defs {
		policies[def.ID] = exportDefinition(def)
	}

	return policies
}

func exportAccessPolicy(def *AccessPolicy) *catalogbundle.PolicyReference {
	if def == nil {
		return nil
	}

	return &catalogbundle.PolicyReference{
		IDSpec: catalogbundle.IDSpec{
			ID: def.ID,
		},
		Policy:      def.Policy,
		Annotations: def.Annotations,
	}
}

func exportUsers(defs []User) map[string]catalogbundle.User {
	users := make(map[string]catalogbundle.User, 0)
	for _, def := range defs {
		users[def.Name] = catalogbundle.User{
			Name:        def.Name,
			Title:       def.Title,
			Annotations: def.Annotations,
		}
	}

	return users
}

func exportGroups(defs []Group) map[string]catalogbundle.Group {
	groups := make(map[string]catalogbundle.Group, 0)
	for _, def := range defs {
		groups[def.Name] = catalogbundle.Group{
			Name:        def.Name,
			Title:       def.Title,
			Members:     def.Members,
			Annotations: def.Annotations,
		}
	}

	return groups
}

func exportApplications(defs []Application) map[string]catalogbundle.Application {
	applications := make(map[string]catalogbundle.Application, 0)
	for _, def := range defs {
		applications[def.Name] = catalogbundle.Application{
			Name:        def.Name,
			Owner:       def.Owner,
			Annotations: def.Annotations,
		}
	}

	return applications
}

func exportMappers(defs []Mapper) []catalogbundle.Mapper {
	mappers := make([]catalogbundle.Mapper, 0)
	for _, def := range defs {
		fingerprint := sha256.Sum256([]byte(def.Rego))
		mappers = append(mappers, catalogbundle.Mapper{
			IDSpec: catalogbundle.IDSpec{
				ID:          def.ID,
				Fingerprint: fingerprint[:],
			},
			Rego: def.Rego,
		})
	}

	return mappers
}

// IntermediateModel represents the intermediate v1beta1 YAML structure
type IntermediateModel struct {
	Metadata struct {
		Name string `yaml:"name"`
	}
	Spec struct {
		PolicyLibraries []PolicyDefinition `yaml:"policy-libraries"`
		Policies        []PolicyDefinition `yaml:"policies"`
		AccessPolicy    *AccessPolicy      `yaml:"access-policy"`
		Users           []User             `yaml:"users"`
		Groups          []Group            `yaml:"groups"`
		Applications    []Application      `yaml:"applications"`
		Mappers         []Mapper           `yaml:"mappers"`
	}
}

// Load loads a v1beta1 catalog bundle from a file path
func Load(path string) (*catalogbundle.IntermediateModel, error) {
	f, err := os.Open(path) // #nosec G304 -- CLI tool intentionally reads user-provided paths
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var intermediate IntermediateModel

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &intermediate)
	if err != nil {
		return nil, err
	}

	return &catalogbundle.IntermediateModel{
		Name:            intermediate.Metadata.Name,
		PolicyLibraries: exportDefinitions(intermediate.Spec.PolicyLibraries),
		Policies:        exportDefinitions(intermediate.Spec.Policies),
		AccessPolicy:    exportAccessPolicy(intermediate.Spec.AccessPolicy),
		Users:           exportUsers(intermediate.Spec.Users),
		Groups:          exportGroups(intermediate.Spec.Groups),
		Applications:    exportApplications(intermediate.Spec.Applications),
		Mappers:         exportMappers(intermediate.Spec.Mappers),
	}, nil
}
