//
//  Copyright © Stackport Inc. All rights reserved.
//

// This file contains access policy evaluation methods for the model package.

package model

import (
	"context"
	"fmt"

	"github.com/stackport/ownerengine/pkg/common"
)

func (p *Policy) evaluate(ctx context.Context, input interface{}) (interface{}, *common.ResolverError) {
	result, err := p.Ast.Evaluate(ctx, "x = data.access.limited", input)
	if err != nil {
		return nil, err
	}

	return result.Bindings["x"], nil
}

// EvaluateLimited evaluates the access policy and reports whether the
// LIMITED tier applies.
//
// This method executes the "data.access.limited" query against the policy
// AST with the provided input. The input is a map describing the access
// probe: the application name, its annotations, whether a recognized
// external integration is present, and the caller's user reference.
//
// Unlike display-name enrichment, policy evaluation is not fail-open: a
// failed or non-boolean evaluation returns false with a
// [common.ResolverError], and the caller denies the LIMITED tier.
func (p *Policy) EvaluateLimited(ctx context.Context, input interface{}) (bool, *common.ResolverError) {
	x, err := p.evaluate(ctx, input)
	if err != nil {
		return false, err
	}

	limited, ok := x.(bool)
	if !ok { // bad results
		return false, common.NewError(common.ReasonEvaluationError, fmt.Sprintf("unexpected evaluation result: %+v", x))
	}

	return limited, nil
}
