//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package decisionpoint provides interfaces and implementations for
// ownership decision point servers.
//
// A decision point exposes the owner engine as a network service that
// enforcement points (API gateways, UI backends, sidecar proxies) can call
// to resolve ownership and determine access levels.
//
// # Available Implementations
//
// The following decision point implementations are available:
//   - [generic]: HTTP/REST server with an OpenAPI schema
//   - [envoy]: External authorization server for Envoy proxy
//
// # Usage
//
// Create and start a decision point server:
//
//	r, _ := core.NewLocalResolver(bundles)
//	server, _ := generic.CreateServer(r, nil, 8080)
//	defer server.Stop(ctx)
package decisionpoint

import "context"

// Server is the interface for decision point servers that can be gracefully
// stopped.
//
// Implementations must ensure that [Stop] completes any in-flight requests
// before returning.
type Server interface {
	// Stop gracefully shuts down the server, waiting for active requests
	// to complete or until the context is cancelled.
	Stop(context.Context) error
}
