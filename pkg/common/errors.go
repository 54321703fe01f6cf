//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package common provides shared types and utilities used across the
// owner engine packages.
//
// # Error Handling
//
// The [ResolverError] type provides structured error information for
// resolution failures, including reason codes suitable for decision
// log records.
package common

import (
	"fmt"
)

// ReasonCode classifies a resolver failure for decision log records.
type ReasonCode string

// Reason codes reported by the resolver and its collaborators.
const (
	// ReasonInvalidIdentity indicates a caller contract violation: the
	// supplied UserIdentity is missing required fields.
	ReasonInvalidIdentity ReasonCode = "INVALID_IDENTITY"

	// ReasonNotFound indicates an entity reference did not resolve to a
	// catalog entity. For the enricher this is a normal outcome, not a
	// failure.
	ReasonNotFound ReasonCode = "NOTFOUND_ERROR"

	// ReasonInvalidParameter indicates malformed input data, such as an
	// annotation value that is not valid JSON.
	ReasonInvalidParameter ReasonCode = "INVALPARAM_ERROR"

	// ReasonNetworkError indicates the catalog collaborator could not be
	// reached.
	ReasonNetworkError ReasonCode = "NETWORK_ERROR"

	// ReasonEvaluationError indicates an access-policy evaluation failed.
	ReasonEvaluationError ReasonCode = "EVALUATION_ERROR"

	// ReasonCompilationError indicates an access-policy failed to compile.
	ReasonCompilationError ReasonCode = "COMPILATION_ERROR"

	// ReasonUnknown indicates an unexpected error condition.
	ReasonUnknown ReasonCode = "UNKNOWN_ERROR"
)

// ResolverError represents an error encountered during ownership resolution.
//
// ResolverError provides structured error information that can be included
// in decision log records. It includes both a machine-readable reason code
// and a human-readable message.
//
// ResolverError is returned by catalog implementations and policy evaluation
// functions instead of the standard error interface to ensure decision
// records carry a classification.
type ResolverError struct {
	// ReasonCode is the machine-readable error classification.
	ReasonCode ReasonCode
	// Reason is a human-readable description of the error.
	Reason string
}

// Error implements the error interface, returning a formatted string
// containing both the reason message and the reason code.
func (e *ResolverError) Error() string {
	return fmt.Sprintf("%s(code-%s)", e.Reason, e.ReasonCode)
}

// NewError creates a new [ResolverError] with the specified reason code and message.
func NewError(code ReasonCode, msg string) *ResolverError {
	return &ResolverError{ReasonCode: code, Reason: msg}
}
