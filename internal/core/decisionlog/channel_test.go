//
//  Copyright © Stackport Inc. All rights reserved.
//

package decisionlog

import (
	"testing"

	"github.com/stackport/ownerengine/pkg/core/decisionlog"
	"github.com/stretchr/testify/assert"
)

func TestChannelInstantiate(t *testing.T) {
	ch := make(chan *decisionlog.Record, 10)
	stream := NewChannelLogger(ch)
	assert.NotNil(t, stream)
}

func TestChannelLoggerSend(t *testing.T) {
	ch := make(chan *decisionlog.Record, 10)
	logger := &ChannelStream{ch: ch}

	record := &decisionlog.Record{
		Operation:   decisionlog.OperationAccessLevel,
		User:        "user:default/alice",
		AccessLevel: "FULL",
	}

	err := logger.Send(record)
	assert.NoError(t, err)

	// Verify record was sent
	select {
	case received := <-ch:
		assert.Equal(t, decisionlog.OperationAccessLevel, received.Operation)
		assert.Equal(t, "user:default/alice", received.User)
		assert.Equal(t, "FULL", received.AccessLevel)
	default:
		t.Fatal("Expected record to be sent to channel")
	}
}

func TestChannelLoggerClose(t *testing.T) {
	ch := make(chan *decisionlog.Record, 10)
	logger := &ChannelStream{ch: ch}

	logger.Close()

	// Verify channel is closed
	_, ok := <-ch
	assert.False(t, ok, "Channel should be closed")
}

func TestChannelLoggerCloseWithNilChannel(t *testing.T) {
	logger := &ChannelStream{ch: nil}

	// Should not panic
	assert.NotPanics(t, func() {
		logger.Close()
	})
}
