//
//  Copyright © Stackport Inc. All rights reserved.
//

package parsers

import (
	"fmt"
	"io"
	"os"

	"github.com/stackport/ownerengine/pkg/catalogbundle"
	"github.com/stackport/ownerengine/pkg/catalogbundle/parsers/v1alpha1"
	"github.com/stackport/ownerengine/pkg/catalogbundle/parsers/v1beta1"

	"gopkg.in/yaml.v3"
)

// Preamble represents the header information of a catalog bundle file
type Preamble struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

// Load loads a catalog bundle from a file path
func Load(path string) (*catalogbundle.IntermediateModel, error) {
	f, err := os.Open(path) // #nosec G304 -- CLI tool intentionally reads user-provided paths
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var preamble Preamble

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &preamble)
	if err != nil {
		return nil, err
	}

	if preamble.Kind != "CatalogBundle" {
		return nil, fmt.Errorf("expected CatalogBundle got %s", preamble.Kind)
	}

	switch preamble.APIVersion {
	case "catalog.stackport.io/v1alpha1":
		return v1alpha1.Load(path)
	case "catalog.stackport.io/v1beta1":
		return v1beta1.Load(path)
	}

	return nil, fmt.Errorf("unsupported CatalogBundle API Version %s", preamble.APIVersion)
}
