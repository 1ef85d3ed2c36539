// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEntityNotFound          ErrorCode = "ENTITY_NOT_FOUND"
	ErrCodeInvalidEntityType       ErrorCode = "INVALID_ENTITY_TYPE"
	ErrCodeCounterpartyFetchFailed ErrorCode = "COUNTERPARTY_FETCH_FAILED"
	ErrCodeMatchInsertFailed       ErrorCode = "MATCH_INSERT_FAILED"
	ErrCodeMatchNotFound           ErrorCode = "MATCH_NOT_FOUND"
	ErrCodeMatchNotPending         ErrorCode = "MATCH_NOT_PENDING"
	ErrCodeOverlayStoreFailed      ErrorCode = "OVERLAY_STORE_FAILED"
	ErrCodeProfileCacheFailed      ErrorCode = "PROFILE_CACHE_FAILED"
	ErrCodeConnectionFetchFailed   ErrorCode = "CONNECTION_FETCH_FAILED"
	ErrCodeInputValidationFailed   ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeQueryExecutionFailed    ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed       ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout           ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
	ErrCodeTimeout                 ErrorCode = "TIMEOUT_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

func newStandardError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewEntityNotFoundError is fatal for a generation run: nothing is scored.
func NewEntityNotFoundError(entityType, entityID string) *StandardError {
	return newStandardError(ErrCodeEntityNotFound,
		fmt.Sprintf("%s not found", entityType),
		fmt.Sprintf("entityType: %s, entityId: %s", entityType, entityID),
		false).WithMetadata("entityId", entityID)
}

func NewInvalidEntityTypeError(entityType string) *StandardError {
	return newStandardError(ErrCodeInvalidEntityType,
		"Unsupported entity type",
		fmt.Sprintf("entityType: %s", entityType),
		false)
}

// NewCounterpartyFetchFailedError is fatal for the run but worth retrying.
func NewCounterpartyFetchFailedError(entityType string, err error) *StandardError {
	return newStandardError(ErrCodeCounterpartyFetchFailed,
		"Failed to load counter-party set",
		fmt.Sprintf("counterpartyType: %s, error: %s", entityType, err.Error()),
		true)
}

// NewMatchInsertFailedError reports a failed batch; no match of the batch was persisted.
func NewMatchInsertFailedError(err error) *StandardError {
	return newStandardError(ErrCodeMatchInsertFailed,
		"Match batch insert failed",
		err.Error(),
		true)
}

func NewMatchNotFoundError(matchID string) *StandardError {
	return newStandardError(ErrCodeMatchNotFound,
		"Match not found",
		fmt.Sprintf("matchId: %s", matchID),
		false)
}

func NewMatchNotPendingError(matchID, reason string) *StandardError {
	return newStandardError(ErrCodeMatchNotPending,
		"Match is no longer pending",
		fmt.Sprintf("matchId: %s, reason: %s", matchID, reason),
		false)
}

func NewOverlayStoreFailedError(viewerID string, err error) *StandardError {
	return newStandardError(ErrCodeOverlayStoreFailed,
		"Overlay store error",
		fmt.Sprintf("viewerId: %s, error: %s", viewerID, err.Error()),
		true)
}

// NewProfileCacheFailedError is retried: a stale cached profile skews scoring.
func NewProfileCacheFailedError(entityType, entityID string, err error) *StandardError {
	return newStandardError(ErrCodeProfileCacheFailed,
		"Profile cache invalidation failed",
		fmt.Sprintf("entityType: %s, entityId: %s, error: %s", entityType, entityID, err.Error()),
		true).WithMetadata("entityId", entityID)
}

func NewConnectionFetchFailedError(err error) *StandardError {
	return newStandardError(ErrCodeConnectionFetchFailed,
		"Failed to load connections",
		err.Error(),
		true)
}

func NewInputValidationFailedError(details string) *StandardError {
	return newStandardError(ErrCodeInputValidationFailed,
		"Job input failed schema validation",
		details,
		false)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newStandardError(ErrCodeQueryExecutionFailed,
		"Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newStandardError(ErrCodeSearchQueryFailed,
		"Search query failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		true)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newStandardError(ErrCodeSearchTimeout,
		"Search query timeout",
		fmt.Sprintf("index: %s", index),
		true)
}

// Generic constructors

func NewInternalError(err error) *StandardError {
	return newStandardError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newStandardError(ErrCodeTimeout,
		fmt.Sprintf("Service '%s' timeout", service),
		err.Error(),
		true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCounterpartyFetchFailed,
		ErrCodeMatchInsertFailed,
		ErrCodeOverlayStoreFailed,
		ErrCodeProfileCacheFailed,
		ErrCodeConnectionFetchFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed:
		return 3

	case ErrCodeSearchTimeout,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes are the internal codes verbatim.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ENTITY") || strings.Contains(codeStr, "COUNTERPARTY"):
		return "ENTITY"
	case strings.Contains(codeStr, "MATCH"):
		return "MATCH"
	case strings.Contains(codeStr, "OVERLAY"):
		return "OVERLAY"
	case strings.Contains(codeStr, "PROFILE_CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "CONNECTION_FETCH"):
		return "CONNECTION"
	case strings.Contains(codeStr, "QUERY_EXECUTION"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
