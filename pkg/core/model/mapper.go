//
//  Copyright © Stackport Inc. All rights reserved.
//

// This file contains mapper evaluation methods for the model package.

package model

import (
	"context"

	"github.com/stackport/ownerengine/pkg/common"
)

// Evaluate transforms gateway request attributes into a resolve query.
//
// The mapper policy's data.mapper.query rule is executed with the provided
// input. Mappers are typically used with external systems like Envoy that
// have fixed request formats.
//
// Example input (Envoy ext_authz format):
//
//	{
//	    "request": {
//	        "http": {
//	            "method": "GET",
//	            "path": "/api/apps/billing",
//	            "headers": {
//	                "authorization": "Bearer ...",
//	                "x-application": "billing"
//	            }
//	        }
//	    }
//	}
//
// The mapper policy transforms this into a query with the caller's bearer
// token and the target application name.
//
// Returns the query as interface{} (typically map[string]interface{}),
// or a [common.ResolverError] if evaluation fails.
func (p *Mapper) Evaluate(ctx context.Context, input interface{}) (interface{}, *common.ResolverError) {
	result, err := p.Ast.Evaluate(ctx, "query = data.mapper.query", input)
	if err != nil {
		return nil, err
	}

	return result.Bindings["query"], nil
}
