//
//  Copyright © Stackport Inc. All rights reserved.
//

package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGetLogger(t *testing.T) {
	resetForTesting()

	// Get logger - should create with default level
	l := GetLogger("resolver")
	assert.NotNil(t, l)
	assert.Equal(t, l.IsLevelEnabled(zapcore.InfoLevel), true)
	assert.Equal(t, l.IsLevelEnabled(zapcore.DebugLevel), false)
}

func TestUpdateConfigFromString(t *testing.T) {
	resetForTesting()

	err := UpdateLogLevels(".:info;resolver:debug;catalog:warn")
	assert.NoError(t, err)

	l1 := GetLogger("resolver")
	assert.Equal(t, l1.IsLevelEnabled(zapcore.DebugLevel), true)

	l2 := GetLogger("catalog")
	assert.Equal(t, l2.IsLevelEnabled(zapcore.WarnLevel), true)
	assert.Equal(t, l2.IsLevelEnabled(zapcore.InfoLevel), false)

	// Undeclared module should get default (info)
	l3 := GetLogger("envstore")
	assert.Equal(t, l3.IsLevelEnabled(zapcore.InfoLevel), true)
	assert.Equal(t, l3.IsLevelEnabled(zapcore.DebugLevel), false)

	// Update default level to debug
	err = UpdateLogLevels(".:debug")
	assert.NoError(t, err)

	// New undeclared module should get debug
	l4 := GetLogger("poller")
	assert.Equal(t, l4.IsLevelEnabled(zapcore.DebugLevel), true)

	// Existing undeclared module should also be updated to debug
	assert.Equal(t, l3.IsLevelEnabled(zapcore.DebugLevel), true)
}

func TestUpdateConfigFromStringWithWhitespace(t *testing.T) {
	resetForTesting()

	err := UpdateLogLevels("  resolver: debug  ;  catalog: error  ;  .: info  ")
	assert.NoError(t, err)

	l1 := GetLogger("resolver")
	assert.Equal(t, l1.IsLevelEnabled(zapcore.DebugLevel), true)

	l2 := GetLogger("catalog")
	assert.Equal(t, l2.IsLevelEnabled(zapcore.ErrorLevel), true)
	assert.Equal(t, l2.IsLevelEnabled(zapcore.WarnLevel), false)
}

func TestTraceLevelMapsToDebug(t *testing.T) {
	resetForTesting()

	// Trace maps to debug since zap doesn't support trace
	err := UpdateLogLevels(".:trace")
	assert.NoError(t, err)

	l := GetLogger("resolver")
	assert.Equal(t, true, l.IsLevelEnabled(zapcore.DebugLevel))
	assert.Equal(t, true, l.IsTraceEnabled())
}

// TestRaceCondition makes sure the manager supports multi-threaded callers.
func TestRaceCondition(t *testing.T) {
	resetForTesting()

	done := make(chan bool, 15)
	for i := 0; i < 15; i++ {
		go func(k int) {
			module := fmt.Sprintf("module%d", k)
			l := GetLogger(module)
			l.SysDebug("this is a test")
			done <- true
		}(i % 5)
	}

	for i := 0; i < 15; i++ {
		<-done
	}
}
