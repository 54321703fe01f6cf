//
//  Copyright © Stackport Inc. All rights reserved.
//

package api

import (
	"context"

	"github.com/stackport/ownerengine/internal/envstore"
	"github.com/stackport/ownerengine/pkg/core"
	"github.com/stackport/ownerengine/pkg/core/identity"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/options"
)

// Server implements the generic decision point API server.
//
// The environment store is optional; when nil, the environment endpoints
// respond 503.
type Server struct {
	resolver core.Resolver
	store    *envstore.Store
}

// NewServer creates a new API server instance with the given Resolver and
// optional environment store.
func NewServer(resolver core.Resolver, store *envstore.Store) Server {
	return Server{
		resolver: resolver,
		store:    store,
	}
}

func apiError(err error) Error {
	return Error{Message: err.Error()}
}

// lookupApplication fetches a catalog application by name, normalizing the
// typed catalog error into a plain error.
func lookupApplication(ctx context.Context, resolver core.Resolver, name string) (*model.Application, error) {
	application, rerr := resolver.GetCatalog().GetApplication(ctx, name)
	if rerr != nil {
		return nil, rerr
	}
	return application, nil
}

// callerIdentity establishes the caller identity for a request: an explicit
// user object wins, otherwise a bearer token is parsed.
func callerIdentity(user *model.UserIdentity, token *string) (*model.UserIdentity, error) {
	if user != nil {
		return user, nil
	}

	var tokenString string
	if token != nil {
		tokenString = *token
	}

	return identity.FromToken(tokenString)
}

// Resolve handles ownership resolution requests.
func (s Server) Resolve(ctx context.Context, request ResolveRequestObject) (ResolveResponseObject, error) {
	user, err := callerIdentity(request.Body.User, request.Body.Token)
	if err != nil {
		return Resolve401JSONResponse(apiError(err)), nil
	}

	applications := make([]*model.Application, len(request.Body.Applications))
	for i := range request.Body.Applications {
		applications[i] = &request.Body.Applications[i]
	}

	snapshot, err := s.resolver.Resolve(ctx, user, applications)
	if err != nil {
		return Resolve400JSONResponse(apiError(err)), nil
	}

	return Resolve200JSONResponse(*snapshot), nil
}

// AccessLevel handles access determination requests. The target application
// may be supplied inline or named for catalog lookup.
func (s Server) AccessLevel(ctx context.Context, request AccessLevelRequestObject) (AccessLevelResponseObject, error) {
	user, err := callerIdentity(request.Body.User, request.Body.Token)
	if err != nil {
		return AccessLevel401JSONResponse(apiError(err)), nil
	}

	application := request.Body.Application
	if application == nil {
		if request.Body.ApplicationName == nil {
			return AccessLevel400JSONResponse(Error{Message: "request carries neither an application nor an applicationName"}), nil
		}

		var rerr error
		application, rerr = lookupApplication(ctx, s.resolver, *request.Body.ApplicationName)
		if rerr != nil {
			return AccessLevel400JSONResponse(apiError(rerr)), nil
		}
		if application == nil {
			return AccessLevel404JSONResponse(Error{Message: "unknown application " + *request.Body.ApplicationName}), nil
		}
	}

	probe := request.Params.Probe != nil && *request.Params.Probe
	level, err := s.resolver.AccessLevel(ctx, user, application, options.SetProbeMode(probe))
	if err != nil {
		return AccessLevel400JSONResponse(apiError(err)), nil
	}

	return AccessLevel200JSONResponse{AccessLevel: level}, nil
}

// MembersOf handles group membership filtering requests.
func (s Server) MembersOf(ctx context.Context, request MembersOfRequestObject) (MembersOfResponseObject, error) {
	user, err := callerIdentity(request.Body.User, request.Body.Token)
	if err != nil {
		return MembersOf401JSONResponse(apiError(err)), nil
	}

	groups, err := s.resolver.MembersOf(user, request.Body.Groups)
	if err != nil {
		return MembersOf400JSONResponse(apiError(err)), nil
	}

	if groups == nil {
		groups = []string{}
	}

	return MembersOf200JSONResponse{Groups: groups}, nil
}

// InvalidateCache evicts every cached ownership snapshot.
func (s Server) InvalidateCache(ctx context.Context, request InvalidateCacheRequestObject) (InvalidateCacheResponseObject, error) {
	s.resolver.Invalidate("")
	return InvalidateCache204Response{}, nil
}

// InvalidateCacheRef evicts cached snapshots matching the given reference.
func (s Server) InvalidateCacheRef(ctx context.Context, request InvalidateCacheRefRequestObject) (InvalidateCacheRefResponseObject, error) {
	s.resolver.Invalidate(request.Ref)
	return InvalidateCacheRef204Response{}, nil
}

// ListEnvironments lists deployment environments, optionally scoped to one
// application.
func (s Server) ListEnvironments(ctx context.Context, request ListEnvironmentsRequestObject) (ListEnvironmentsResponseObject, error) {
	if s.store == nil {
		return ListEnvironments503JSONResponse(storeUnavailable()), nil
	}

	var application string
	if request.Params.Application != nil {
		application = *request.Params.Application
	}

	environments, err := s.store.List(ctx, application)
	if err != nil {
		return nil, err
	}

	result := make([]Environment, len(environments))
	for i, env := range environments {
		result[i] = env
	}

	return ListEnvironments200JSONResponse(result), nil
}

// CreateEnvironment creates a deployment environment record.
func (s Server) CreateEnvironment(ctx context.Context, request CreateEnvironmentRequestObject) (CreateEnvironmentResponseObject, error) {
	if s.store == nil {
		return CreateEnvironment503JSONResponse(storeUnavailable()), nil
	}

	env := *request.Body
	if env.Application == "" || env.Name == "" {
		return CreateEnvironment400JSONResponse(Error{Message: "application and name are required"}), nil
	}

	existing, err := s.store.Get(ctx, env.Application, env.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return CreateEnvironment409JSONResponse(Error{Message: "environment already exists"}), nil
	}

	if err := s.store.Create(ctx, &env); err != nil {
		return nil, err
	}

	return CreateEnvironment201JSONResponse(env), nil
}

// GetEnvironment retrieves one deployment environment record.
func (s Server) GetEnvironment(ctx context.Context, request GetEnvironmentRequestObject) (GetEnvironmentResponseObject, error) {
	if s.store == nil {
		return GetEnvironment503JSONResponse(storeUnavailable()), nil
	}

	env, err := s.store.Get(ctx, request.Application, request.Name)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return GetEnvironment404JSONResponse(notFound()), nil
	}

	return GetEnvironment200JSONResponse(*env), nil
}

// UpdateEnvironment updates one deployment environment record. The path
// parameters identify the record; the body supplies the new values.
func (s Server) UpdateEnvironment(ctx context.Context, request UpdateEnvironmentRequestObject) (UpdateEnvironmentResponseObject, error) {
	if s.store == nil {
		return UpdateEnvironment503JSONResponse(storeUnavailable()), nil
	}

	env := *request.Body
	env.Application = request.Application
	env.Name = request.Name

	found, err := s.store.Update(ctx, &env)
	if err != nil {
		return nil, err
	}
	if !found {
		return UpdateEnvironment404JSONResponse(notFound()), nil
	}

	updated, err := s.store.Get(ctx, request.Application, request.Name)
	if err != nil {
		return nil, err
	}

	return UpdateEnvironment200JSONResponse(*updated), nil
}

// DeleteEnvironment deletes one deployment environment record.
func (s Server) DeleteEnvironment(ctx context.Context, request DeleteEnvironmentRequestObject) (DeleteEnvironmentResponseObject, error) {
	if s.store == nil {
		return DeleteEnvironment503JSONResponse(storeUnavailable()), nil
	}

	found, err := s.store.Delete(ctx, request.Application, request.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return DeleteEnvironment404JSONResponse(notFound()), nil
	}

	return DeleteEnvironment204Response{}, nil
}

func storeUnavailable() Error {
	return Error{Message: "environment store is not enabled on this server"}
}

func notFound() Error {
	return Error{Message: "environment not found"}
}
