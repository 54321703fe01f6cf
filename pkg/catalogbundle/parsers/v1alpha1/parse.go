//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package v1alpha1 parses the original catalog bundle format. It carries
// entities only; policies and mappers arrived in v1beta1. Annotation values
// are JSON-encoded strings and are decoded during parsing.
package v1alpha1

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stackport/ownerengine/pkg/catalogbundle"

	"gopkg.in/yaml.v3"
)

// Annotation represents a key-value annotation whose value is JSON-encoded
type Annotation struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// User represents a user entity in v1alpha1 format
type User struct {
	Name        string       `yaml:"name"`
	Title       string       `yaml:"title"`
	Annotations []Annotation `yaml:"annotations"`
}

// Group represents a group entity in v1alpha1 format
type Group struct {
	Name        string       `yaml:"name"`
	Title       string       `yaml:"title"`
	Members     []string     `yaml:"members"`
	Annotations []Annotation `yaml:"annotations"`
}

// Application represents an application entity in v1alpha1 format
type Application struct {
	Name        string       `yaml:"name"`
	Owner       string       `yaml:"owner"`
	Annotations []Annotation `yaml:"annotations"`
}

func exportAnnotations(defs []Annotation) (map[string]interface{}, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	annotations := make(map[string]interface{}, len(defs))
	for _, ann := range defs {
		var value interface{}
		if err := json.Unmarshal([]byte(ann.Value), &value); err != nil {
			return nil, fmt.Errorf("annotation %q: value is not valid JSON: %w", ann.Name, err)
		}
		annotations[ann.Name] = value
	}

	return annotations, nil
}

func exportUser(def User) (*catalogbundle.User, error) {
	annotations, err := exportAnnotations(def.Annotations)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", def.Name, err)
	}

	return &catalogbundle.User{
		Name:        def.Name,
		Title:       def.Title,
		Annotations: annotations,
	}, nil
}

func exportUsers(defs []User) (map[string]catalogbundle.User, error) {
	users := make(map[string]catalogbundle.User, 0)
	for _, def := range defs {
		user, err := exportUser(def)
		if err != nil {
			return nil, err
		}
		users[def.Name] = *user
	}

	return users, nil
}

func exportGroup(def Group) (*catalogbundle.Group, error) {
	annotations, err := exportAnnotations(def.Annotations)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", def.Name, err)
	}

	return &catalogbundle.Group{
		Name:        def.Name,
		Title:       def.Title,
		Members:     def.Members,
		Annotations: annotations,
	}, nil
}

func exportGroups(defs []Group) (map[string]catalogbundle.Group, error) {
	groups := make(map[string]catalogbundle.Group, 0)
	for _, def := range defs {
		group, err := exportGroup(def)
		if err != nil {
			return nil, err
		}
		groups[def.Name] = *group
	}

	return groups, nil
}

func exportApplication(def Application) (*catalogbundle.Application, error) {
	annotations, err := exportAnnotations(def.Annotations)
	if err != nil {
		return nil, fmt.Errorf("application %q: %w", def.Name, err)
	}

	return &catalogbundle.Application{
		Name:        def.Name,
		Owner:       def.Owner,
		Annotations: annotations,
	}, nil
}

func exportApplications(defs []Application) (map[string]catalogbundle.Application, error) {
	applications := make(map[string]catalogbundle.Application, 0)
	for _, def := range defs {
		application, err := exportApplication(def)
		if err != nil {
			return nil, err
		}
		applications[def.Name] = *application
	}

	return applications, nil
}

// IntermediateModel represents the intermediate v1alpha1 YAML structure
type IntermediateModel struct {
	Metadata struct {
		Name string `yaml:"name"`
	}
	Spec struct {
		Users        []User        `yaml:"users"`
		Groups       []Group       `yaml:"groups"`
		Applications []Application `yaml:"applications"`
	}
}

// Load loads a v1alpha1 catalog bundle from a file path
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

	users, err := exportUsers(intermediate.Spec.Users)
	if err != nil {
		return nil, err
	}

	groups, err := exportGroups(intermediate.Spec.Groups)
	if err != nil {
		return nil, err
	}

	applications, err := exportApplications(intermediate.Spec.Applications)
	if err != nil {
		return nil, err
	}

	return &catalogbundle.IntermediateModel{
		Name:            intermediate.Metadata.Name,
		PolicyLibraries: map[string]catalogbundle.Policy{},
		Policies:        map[string]catalogbundle.Policy{},
		Users:           users,
		Groups:          groups,
		Applications:    applications,
		Mappers:         []catalogbundle.Mapper{},
	}, nil
}
