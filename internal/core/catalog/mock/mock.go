//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package mock provides a scripted catalog backed entirely by configuration,
// intended for unit testing applications that embed the resolver.
//
// Entities, applications, mappers, and the access policy are read from viper
// configuration under the "mock.catalog" prefix, so tests can stage catalog
// state without standing up a real provider:
//
//	mock:
//	  catalog:
//	    entities:
//	      - ref: User:default/alice
//	        title: Alice Anderson
//	    applications:
//	      - name: billing
//	        owner: group:default/platform-team
//	        annotations:
//	          github.com/project-slug: acme/billing
//	    access-policy:
//	      name: main
//	      rego: |
//	        package access
//	        default limited = false
//	    mappers:
//	      - name: envoy
//	        rego_filename: mapper.rego
//
// Rego may be supplied inline via "rego" or read from a file named by
// "rego_filename", resolved relative to the config file in use. Any entity
// reference or application name containing the substring "networkerror"
// simulates an unreachable catalog, as does setting access-policy to the
// string "networkerror". When no access policy is scripted, the built-in
// default policy applies.
package mock

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core/catalog"
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

const (
	// soe-config.yaml config names
	cfgRef          = "ref"
	cfgTitle        = "title"
	cfgName         = "name"
	cfgOwner        = "owner"
	cfgAnnotations  = "annotations"
	cfgRego         = "rego"
	cfgRegoFilename = "rego_filename"

	mockCatalogCfg string = "mock.catalog"
)

var logger = logging.GetLogger("ownerengine.catalog.mock")
var mockAgent string = "mock"

// Factory creates mock catalog instances.
type Factory struct {
}

// Catalog is a mock implementation of [catalog.Service] driven by
// configuration under "mock.catalog".
type Catalog struct {
	compiler       *opa.Compiler
	mapperCompiler *opa.Compiler
}

// NewFactory creates a new Factory for mock catalogs.
func NewFactory() catalog.Factory {
	return &Factory{}
}

// NewCatalog creates a new mock Catalog with the specified compiler.
func (f *Factory) NewCatalog(compiler *opa.Compiler) (catalog.Service, error) {
	logger.Warn(mockAgent, "Init", "RUNNING IN MOCK MODE. SHOULD NOT BE USED IN PRODUCTION")

	// Create a separate OPA compiler for mappers, since they don't want/need
	// unsafe builtin exclusions like the policy compiler does
	mapperCompiler := compiler.Clone(opa.WithDefaultCapabilities())

	return &Catalog{
		compiler:       compiler,
		mapperCompiler: mapperCompiler,
	}, nil
}

// ResolveByReference retrieves an entity from the scripted configuration.
// References containing "networkerror" simulate an unreachable catalog.
func (c *Catalog) ResolveByReference(ctx context.Context, ref string) (*model.Entity, *common.ResolverError) {
	if strings.Contains(ref, "networkerror") {
		return nil, &common.ResolverError{ReasonCode: common.ReasonNetworkError, Reason: "network error"}
	}

	entities := asEntryList(config.VConfig.Get(fmt.Sprintf("%s.entities", mockCatalogCfg)))
	for _, entry := range entities {
		eref, ok := entry[cfgRef]
		if !ok || ref != eref.(string) {
			continue
		}

		kind, namespace, name := refParts(ref)

		entity := &model.Entity{
			Ref:         ref,
			Kind:        kind,
			Namespace:   namespace,
			Name:        name,
			Annotations: toAnnotations(entry[cfgAnnotations]),
		}
		if title, ok := entry[cfgTitle]; ok {
			entity.Title = title.(string)
		}

		logger.Debugf(mockAgent, "ResolveByReference", "resolved scripted entity %s", ref)
		return entity, nil
	}

	return nil, nil
}

// GetApplication retrieves an application from the scripted configuration.
// Names containing "networkerror" simulate an unreachable catalog.
func (c *Catalog) GetApplication(ctx context.Context, name string) (*model.Application, *common.ResolverError) {
	if strings.Contains(name, "networkerror") {
		return nil, &common.ResolverError{ReasonCode: common.ReasonNetworkError, Reason: "network error"}
	}

	applications := asEntryList(config.VConfig.Get(fmt.Sprintf("%s.applications", mockCatalogCfg)))
	for _, entry := range applications {
		aname, ok := entry[cfgName]
		if !ok || name != aname.(string) {
			continue
		}

		return &model.Application{
			Name:        name,
			Owner:       entry[cfgOwner],
			Annotations: toAnnotations(entry[cfgAnnotations]),
		}, nil
	}

	return nil, nil
}

// GetAccessPolicy retrieves the scripted access policy, compiling it on
// demand. When nothing is scripted, the built-in default policy applies.
func (c *Catalog) GetAccessPolicy(ctx context.Context) (*model.PolicyReference, *common.ResolverError) {
	scripted := config.VConfig.Get(fmt.Sprintf("%s.access-policy", mockCatalogCfg))

	if trigger, ok := scripted.(string); ok && strings.Contains(trigger, "networkerror") {
		return nil, &common.ResolverError{ReasonCode: common.ReasonNetworkError, Reason: "network error"}
	}

	entry, ok := scripted.(map[string]interface{})
	if !ok {
		policy, err := catalog.CompileDefaultAccessPolicy(c.compiler)
		if err != nil {
			return nil, common.NewError(common.ReasonCompilationError, err.Error())
		}

		return &model.PolicyReference{
			Ref:    catalog.DefaultPolicyRef,
			Policy: policy,
		}, nil
	}

	name, ok := entry[cfgName]
	if !ok {
		return nil, common.NewError(common.ReasonNotFound, "access policy name not found")
	}

	doc, rerr := c.regoSource(entry)
	if rerr != nil {
		return nil, rerr
	}

	pm := map[string]string{}
	pm[name.(string)] = doc
	ast, err := c.compiler.Compile(name.(string), pm)
	if err != nil {
		return nil, common.NewError(common.ReasonCompilationError, fmt.Sprintf("compilation failed: %s", err))
	}

	h := sha256.New()
	h.Write([]byte(name.(string)))
	h.Write([]byte(doc))

	return &model.PolicyReference{
		Ref: name.(string),
		Policy: &model.Policy{
			Ref:         name.(string),
			Fingerprint: h.Sum(nil), // doesn't really matter for mock, but we should return a realistic value
			Ast:         ast,
		},
		Annotations: toAnnotations(entry[cfgAnnotations]),
	}, nil
}

// GetMapper retrieves the first scripted mapper, compiling it on demand. The
// bundleName parameter is ignored since scripted mappers have no bundle.
func (c *Catalog) GetMapper(ctx context.Context, bundleName string) (*model.Mapper, *common.ResolverError) {
	mappers := asEntryList(config.VConfig.Get(fmt.Sprintf("%s.mappers", mockCatalogCfg)))
	if len(mappers) == 0 {
		return nil, common.NewError(common.ReasonNotFound, "no mappers found in mock catalog")
	}

	entry := mappers[0]

	name, ok := entry[cfgName]
	if !ok {
		return nil, common.NewError(common.ReasonNotFound, "mapper name not found")
	}

	doc, rerr := c.regoSource(entry)
	if rerr != nil {
		return nil, rerr
	}

	mapperID := fmt.Sprintf("mapper.%s", name.(string))
	modules := map[string]string{
		mapperID: doc,
	}

	ast, err := c.mapperCompiler.Compile(mapperID, modules)
	if err != nil {
		return nil, common.NewError(common.ReasonCompilationError, fmt.Sprintf("compilation failed: %s", err))
	}

	return &model.Mapper{
		Bundle: "",
		Ast:    ast,
	}, nil
}

// regoSource extracts inline rego from a scripted entry, falling back to a
// rego_filename read relative to the config file in use.
func (c *Catalog) regoSource(entry map[string]interface{}) (string, *common.ResolverError) {
	if rego, ok := entry[cfgRego]; ok {
		if doc, ok := rego.(string); ok && len(doc) > 0 {
			return doc, nil
		}
	}

	filename, ok := entry[cfgRegoFilename]
	if !ok {
		return "", common.NewError(common.ReasonNotFound, "rego not found")
	}

	// data not in config so try to read from the filesystem relative to the config yaml
	dir := filepath.Dir(config.VConfig.ConfigFileUsed())
	filedata, err := os.ReadFile(filepath.Clean(filepath.Join(dir, filename.(string))))
	if err != nil {
		return "", common.NewError(common.ReasonNotFound, fmt.Sprintf("failed to read rego file: %s", err))
	}
	if len(filedata) == 0 {
		return "", common.NewError(common.ReasonNotFound, "rego is empty")
	}

	return string(filedata), nil
}
