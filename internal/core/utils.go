//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"strings"
	"time"

	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/opa"
)

// durationMicros converts a time.Duration to int64 microseconds for decision
// records, clamping negative values to zero.
func durationMicros(d time.Duration) int64 {
	return max(0, d.Microseconds())
}

func getUnsafeBuiltins() opa.Builtins {
	builtins := strings.Split(config.VConfig.GetString(config.UnsafeBuiltIns), ",")
	m := make(opa.Builtins)
	for _, f := range builtins {
		m[f] = struct{}{}
	}

	return m
}
