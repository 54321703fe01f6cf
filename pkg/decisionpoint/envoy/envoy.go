//
//  Copyright © Stackport Inc. All rights reserved.
//

package envoy

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	corev3 "github.com/envoyproxy/go-control-plane/envoy/config/core/v3"
	authv3 "github.com/envoyproxy/go-control-plane/envoy/service/auth/v3"
	typev3 "github.com/envoyproxy/go-control-plane/envoy/type/v3"
	"github.com/stackport/ownerengine/internal/logging"
	"github.com/stackport/ownerengine/pkg/core/auxdata"
	"github.com/stackport/ownerengine/pkg/core/catalog"
	"github.com/stackport/ownerengine/pkg/core/identity"
	"github.com/stackport/ownerengine/pkg/core/model"
	"github.com/stackport/ownerengine/pkg/core/types"
	"github.com/stackport/ownerengine/pkg/decisionpoint"
	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/stackport/ownerengine/pkg/common"
	"github.com/stackport/ownerengine/pkg/core"
)

var logger = logging.GetLogger("ownerengine.decisionpoint")

const agent string = "envoy"

const (
	resultHeader        = "x-ownership-check-result"
	levelHeader         = "x-ownership-access-level"
	applicationHeader   = "x-application"
	authorizationHeader = "authorization"
	resultAllowed       = "allowed"
	resultDenied        = "denied"
)

// ExtAuthzServer implements the ext_authz v3 gRPC check request API as an
// ownership gate: a request is allowed when the caller's access level for
// the target application meets the configured minimum.
type ExtAuthzServer struct {
	grpcServer *grpc.Server
	resolver   core.Resolver
	catalog    catalog.Service
	bundle     string
	minLevel   model.AccessLevel
	auxdata    map[string]interface{}

	// For test only
	grpcPort chan int
}

func logRequest(outcome string, request *authv3.CheckRequest) {
	httpAttrs := request.GetAttributes().GetRequest().GetHttp()
	logger.Tracef(agent, "logRequest", "[gRPCv3][%s]: %s%s, attributes: %v", outcome, httpAttrs.GetHost(),
		httpAttrs.GetPath(),
		request.GetAttributes())
}

func checkHeaders(result string, level model.AccessLevel) []*corev3.HeaderValueOption {
	return []*corev3.HeaderValueOption{
		{
			Header: &corev3.HeaderValue{
				Key:   resultHeader,
				Value: result,
			},
		},
		{
			Header: &corev3.HeaderValue{
				Key:   levelHeader,
				Value: level.String(),
			},
		},
	}
}

func (s *ExtAuthzServer) allow(request *authv3.CheckRequest, level model.AccessLevel) *authv3.CheckResponse {
	logRequest(resultAllowed, request)
	return &authv3.CheckResponse{
		HttpResponse: &authv3.CheckResponse_OkResponse{
			OkResponse: &authv3.OkHttpResponse{
				Headers: checkHeaders(resultAllowed, level),
			},
		},
		Status: &status.Status{Code: int32(codes.OK)},
	}
}

func (s *ExtAuthzServer) deny(request *authv3.CheckRequest, level model.AccessLevel) *authv3.CheckResponse {
	logRequest(resultDenied, request)
	return &authv3.CheckResponse{
		HttpResponse: &authv3.CheckResponse_DeniedResponse{
			DeniedResponse: &authv3.DeniedHttpResponse{
				Status:  &typev3.HttpStatus{Code: typev3.StatusCode_Forbidden},
				Body:    "permission denied",
				Headers: checkHeaders(resultDenied, level),
			},
		},
		Status: &status.Status{Code: int32(codes.PermissionDenied)},
	}
}

func (s *ExtAuthzServer) unauthenticated(request *authv3.CheckRequest, reason string) *authv3.CheckResponse {
	logRequest(resultDenied, request)
	return &authv3.CheckResponse{
		HttpResponse: &authv3.CheckResponse_DeniedResponse{
			DeniedResponse: &authv3.DeniedHttpResponse{
				Status:  &typev3.HttpStatus{Code: typev3.StatusCode_Unauthorized},
				Body:    reason,
				Headers: checkHeaders(resultDenied, model.AccessNone),
			},
		},
		Status: &status.Status{Code: int32(codes.Unauthenticated)},
	}
}

// gatherQuery derives the (token, application) pair for the check. When the
// catalog carries a query mapper it is evaluated over the raw request
// attributes; otherwise the authorization and x-application headers are used
// directly.
func (s *ExtAuthzServer) gatherQuery(ctx context.Context, request *authv3.CheckRequest) (string, string, error) {
	headers := request.GetAttributes().GetRequest().GetHttp().GetHeaders()

	mapper, rerr := s.catalog.GetMapper(ctx, s.bundle)
	if rerr != nil {
		if rerr.ReasonCode != common.ReasonNotFound {
			return "", "", rerr
		}

		// No mapper declared; take the query straight off the headers.
		return headers[authorizationHeader], headers[applicationHeader], nil
	}

	jattrs, err := protojson.Marshal(request.GetAttributes())
	if err != nil {
		return "", "", err
	}

	mattrs := make(map[string]interface{})
	if err := json.Unmarshal(jattrs, &mattrs); err != nil {
		return "", "", err
	}

	auxdata.MergeAuxData(mattrs, s.auxdata)

	result, rerr := mapper.Evaluate(ctx, mattrs)
	if rerr != nil {
		logger.Errorf(agent, "mapper.evaluate", "error evaluating mapper: %v", rerr)
		return "", "", rerr
	}

	query, err := types.UnmarshalQuery(result)
	if err != nil {
		return "", "", err
	}

	token, _ := query["token"].(string)
	application, _ := query["application"].(string)

	return token, application, nil
}

// Check implements the gRPC v3 check request.
func (s *ExtAuthzServer) Check(ctx context.Context, request *authv3.CheckRequest) (*authv3.CheckResponse, error) {
	token, applicationName, err := s.gatherQuery(ctx, request)
	if err != nil {
		return nil, err
	}

	user, err := identity.FromAuthorizationHeader(token)
	if err != nil {
		return s.unauthenticated(request, err.Error()), nil
	}

	if applicationName == "" {
		return s.deny(request, model.AccessNone), nil
	}

	application, rerr := s.catalog.GetApplication(ctx, applicationName)
	if rerr != nil {
		return nil, rerr
	}
	if application == nil {
		// Unknown to the catalog; an ownerless application still flows
		// through the evaluator, which lands on NONE.
		application = &model.Application{Name: applicationName}
	}

	level, err := s.resolver.AccessLevel(ctx, user, application)
	if err != nil {
		return nil, err
	}

	if level.AtLeast(s.minLevel) {
		return s.allow(request, level), nil
	}

	return s.deny(request, level), nil
}

func (s *ExtAuthzServer) startGRPC(address string, wg *sync.WaitGroup) {
	logger.Infof(agent, "start", "Starting Envoy External Authorization gRPC server on %s", address)
	defer func() {
		wg.Done()
		logger.SysInfof("Stopped gRPC server")
	}()

	listener, err := net.Listen("tcp", address)
	if err != nil {
		logger.Fatalf(agent, "net.listen", "Failed to start gRPC server: %v", err)
		return
	}

	s.grpcServer = grpc.NewServer()
	authv3.RegisterAuthorizationServer(s.grpcServer, s)

	// Store the port for test only. Must be after grpcServer is set to avoid race condition.
	s.grpcPort <- listener.Addr().(*net.TCPAddr).Port

	logger.SysInfof("Starting gRPC server at %s", listener.Addr())
	if err := s.grpcServer.Serve(listener); err != nil {
		logger.Fatalf(agent, "grpc.start", "Failed to serve gRPC server: %v", err)
		return
	}
}

func (s *ExtAuthzServer) run(grpcAddr string) {
	var wg sync.WaitGroup
	wg.Add(1)
	go s.startGRPC(grpcAddr, &wg)
	wg.Wait()
}

// CreateServer creates and starts a new Envoy External Authorization server.
// It returns a Server interface that implements the decisionpoint.Server interface.
// bundle names the catalog bundle whose query mapper transforms request
// attributes, if one is declared. minLevel is the access level required for
// a request to be allowed. The aux parameter, if non-nil, is merged into the
// mapper input under the "auxdata" key.
func CreateServer(resolver core.Resolver, port int, bundle string, minLevel model.AccessLevel, aux map[string]interface{}) (decisionpoint.Server, error) {
	s := &ExtAuthzServer{
		grpcPort: make(chan int, 1),
		resolver: resolver,
		catalog:  resolver.GetCatalog(),
		bundle:   bundle,
		minLevel: minLevel,
		auxdata:  aux,
	}

	go s.run(fmt.Sprintf(":%d", port))

	return s, nil
}

// Stop gracefully stops the ExtAuthzServer by stopping the underlying gRPC server.
func (s *ExtAuthzServer) Stop(ctx context.Context) error {
	s.grpcServer.Stop()
	logger.SysInfof("GRPC server stopped")

	return nil
}
