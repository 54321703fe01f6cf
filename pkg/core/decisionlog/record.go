//
//  Copyright © Stackport Inc. All rights reserved.
//

package decisionlog

import (
	"time"

	"github.com/google/uuid"
	"github.com/stackport/ownerengine/pkg/core/config"
)

// Operation names used in decision records.
const (
	OperationResolve     = "resolve"
	OperationAccessLevel = "access-level"
)

// Metadata identifies a single decision record and where it was produced.
//
// Environment carries the resolved audit metadata from configuration
// (audit.env mappings plus Kubernetes pod labels/annotations when the
// downward API is mounted).
type Metadata struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment map[string]string `json:"environment,omitempty"`
}

// Assignment captures the owner assigned to a single application during a
// resolution.
type Assignment struct {
	Application string `json:"application"`
	OwnerKind   string `json:"owner_kind"`
	Owner       string `json:"owner"`
	Owned       bool   `json:"owned"`
}

// Record describes a single ownership resolution or access determination.
//
// The Input field holds the JSON-encoded request input. Stream
// implementations may expand it back into an object for readability.
type Record struct {
	Metadata    Metadata     `json:"metadata"`
	Operation   string       `json:"operation"`
	User        string       `json:"user"`
	Input       string       `json:"input,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty"`
	AccessLevel string       `json:"access_level,omitempty"`
	Policy      string       `json:"policy,omitempty"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	Fallbacks   int          `json:"fallbacks"`
	CacheHit    bool         `json:"cache_hit"`
	DurationUs  int64        `json:"duration_us"`
	Error       string       `json:"error,omitempty"`
}

// NewRecord creates a record for the named operation, stamping a unique ID,
// the current time, and the configured audit environment metadata.
//
// Configuration must be loaded before calling NewRecord.
func NewRecord(operation string) *Record {
	return &Record{
		Metadata: Metadata{
			ID:          uuid.New().String(),
			Timestamp:   time.Now().UTC(),
			Environment: config.GetAuditMetadata(),
		},
		Operation: operation,
	}
}
