//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package rest provides a catalog implementation backed by a remote catalog
// service over HTTP.
//
// The REST catalog is used when the organization model lives in an external
// system, such as a developer portal, that exposes entity and application
// lookups. Access policies are deployment artifacts rather than catalog
// data, so the built-in default policy governs the LIMITED tier and mappers
// are unavailable.
//
// # Configuration
//
//	catalog:
//	  url: https://catalog.internal.example.com/api
//	  token: <bearer token>
//	  ratelimit: 10
//
// # Remote Endpoints
//
// The remote service implements two lookups, both returning JSON:
//
//	GET {url}/entities/by-ref/{ref}   -> model.Entity
//	GET {url}/applications/{name}     -> model.Application
//
// A 404 response marks an absent entity and is not an error. Lookups are
// rate limited to catalog.ratelimit requests per second.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core/catalog"
	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

var logger = logging.GetLogger("ownerengine.catalog.rest")
var actor = "catalog.rest"

// Factory creates [Catalog] instances from the catalog.* configuration.
type Factory struct{}

// Catalog implements [catalog.Service] against a remote catalog service.
type Catalog struct {
	base          *url.URL
	token         string
	client        *http.Client
	limiter       *rate.Limiter
	defaultPolicy *model.Policy
}

// NewFactory creates a [catalog.Factory] for the REST catalog.
//
// Configuration is read when [Factory.NewCatalog] runs, not here, so the
// factory may be constructed before configuration is loaded.
func NewFactory() catalog.Factory {
	return &Factory{}
}

// NewCatalog creates a [Catalog] from the catalog.* configuration.
//
// Returns an error when catalog.url is missing or unparsable, or when the
// built-in default access policy fails to compile.
func (f *Factory) NewCatalog(compiler *opa.Compiler) (catalog.Service, error) {
	baseURL := config.VConfig.GetString(config.CatalogURL)
	if baseURL == "" {
		return nil, errors.New("catalog.url is not configured")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "not able to parse catalog url '%s'", baseURL)
	}

	defaultPolicy, err := catalog.CompileDefaultAccessPolicy(compiler)
	if err != nil {
		return nil, err
	}

	// ratelimit <= 0 disables throttling
	limit := rate.Limit(config.VConfig.GetInt(config.CatalogRateLimit))
	burst := config.VConfig.GetInt(config.CatalogRateLimit)
	if burst <= 0 {
		limit = rate.Inf
		burst = 1
	}

	return &Catalog{
		base:          base,
		token:         config.VConfig.GetString(config.CatalogToken),
		client:        http.DefaultClient,
		limiter:       rate.NewLimiter(limit, burst),
		defaultPolicy: defaultPolicy,
	}, nil
}

// get performs one rate-limited lookup against the remote catalog, decoding
// a 200 response into out. The boolean reports presence: a 404 response is
// absent, not an error.
func (c *Catalog) get(ctx context.Context, path string, out interface{}) (bool, *common.ResolverError) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, common.NewError(common.ReasonNetworkError, err.Error())
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, common.NewError(common.ReasonInvalidParameter, err.Error())
	}
	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, common.NewError(common.ReasonNetworkError, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, common.NewError(common.ReasonUnknown, fmt.Sprintf("bad catalog response: %s", err.Error()))
		}
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, common.NewError(common.ReasonNetworkError,
			fmt.Sprintf("unexpected response from catalog: %s (code %d)", strings.TrimSpace(string(body)), resp.StatusCode))
	}
}

// ResolveByReference resolves a canonical entity reference against the
// remote catalog.
//
// Absent entities return (nil, nil); transport failures surface as
// ReasonNetworkError, which enrichment callers absorb the same way.
func (c *Catalog) ResolveByReference(ctx context.Context, ref string) (*model.Entity, *common.ResolverError) {
	logger.Tracef(actor, "Get", "ResolveByReference: %v", ref)

	var entity model.Entity
	found, rerr := c.get(ctx, "/entities/by-ref/"+url.PathEscape(ref), &entity)
	if rerr != nil || !found {
		return nil, rerr
	}

	return &entity, nil
}

// GetApplication retrieves an application by name from the remote catalog.
func (c *Catalog) GetApplication(ctx context.Context, name string) (*model.Application, *common.ResolverError) {
	logger.Tracef(actor, "Get", "GetApplication: %v", name)

	var application model.Application
	found, rerr := c.get(ctx, "/applications/"+url.PathEscape(name), &application)
	if rerr != nil || !found {
		return nil, rerr
	}

	return &application, nil
}

// GetAccessPolicy returns the built-in default access policy.
//
// The remote catalog serves entities and applications only; LIMITED is
// always decided by the built-in default when running against it. Use the
// static catalog to bind a bundle access policy.
func (c *Catalog) GetAccessPolicy(ctx context.Context) (*model.PolicyReference, *common.ResolverError) {
	return &model.PolicyReference{
		Ref:    catalog.DefaultPolicyRef,
		Policy: c.defaultPolicy,
	}, nil
}

// GetMapper always fails: mappers are bundle artifacts and are not served by
// the remote catalog.
func (c *Catalog) GetMapper(ctx context.Context, bundleName string) (*model.Mapper, *common.ResolverError) {
	return nil, common.NewError(common.ReasonNotFound, "the REST catalog does not serve mappers")
}
