// Package errors provides unified, structured error handling for the
// control plane: configuration loading, state storage, planning, DDL
// ordering, and process supervision each raise a ServiceError carrying a
// stable code, an HTTP status (for the admin surface), and structured
// details for logging.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents a unique, stable error code.
type ErrorCode string

const (
	// Validation errors (3xxx)
	ErrCodeInvalidInput     ErrorCode = "VAL_3001"
	ErrCodeMissingParameter ErrorCode = "VAL_3002"
	ErrCodeInvalidFormat    ErrorCode = "VAL_3003"
	ErrCodeOutOfRange       ErrorCode = "VAL_3004"

	// Resource errors (4xxx)
	ErrCodeNotFound      ErrorCode = "RES_4001"
	ErrCodeAlreadyExists ErrorCode = "RES_4002"
	ErrCodeConflict      ErrorCode = "RES_4003"

	// Service errors (5xxx)
	ErrCodeInternal ErrorCode = "SVC_5001"
	ErrCodeTimeout  ErrorCode = "SVC_5002"

	// Configuration errors (8xxx)
	ErrCodeConfiguration ErrorCode = "CFG_8001"

	// State storage errors (9xxx)
	ErrCodeStateIO            ErrorCode = "STATE_9001"
	ErrCodeMigrationInProgress ErrorCode = "STATE_9002"

	// Lifecycle/planning errors (10xxx)
	ErrCodeLifecycleViolation ErrorCode = "PLAN_10001"
	ErrCodePlanOrdering       ErrorCode = "PLAN_10002"
	ErrCodeEngineChange       ErrorCode = "PLAN_10003"

	// Process supervision errors (11xxx)
	ErrCodeProcessStart ErrorCode = "PROC_11001"

	// Transient infrastructure errors (12xxx), safe to retry.
	ErrCodeTransientIO ErrorCode = "IO_12001"
)

// ServiceError represents a structured error with a code, message, and HTTP
// status for the admin surface. Details carry machine-readable context
// (e.g. the lock holder, the cycle's member IDs) in addition to Message.
type ServiceError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WithDetails adds additional structured detail to the error.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new ServiceError.
func New(code ErrorCode, message string, httpStatus int) *ServiceError {
	return &ServiceError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an existing error with a ServiceError.
func Wrap(code ErrorCode, message string, httpStatus int, err error) *ServiceError {
	return &ServiceError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Validation Errors

func InvalidInput(field, reason string) *ServiceError {
	return New(ErrCodeInvalidInput, "Invalid input", http.StatusBadRequest).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

func MissingParameter(param string) *ServiceError {
	return New(ErrCodeMissingParameter, "Missing required parameter", http.StatusBadRequest).
		WithDetails("parameter", param)
}

func InvalidFormat(field, expected string) *ServiceError {
	return New(ErrCodeInvalidFormat, "Invalid format", http.StatusBadRequest).
		WithDetails("field", field).
		WithDetails("expected", expected)
}

func OutOfRange(field string, minValue, maxValue interface{}) *ServiceError {
	return New(ErrCodeOutOfRange, "Value out of range", http.StatusBadRequest).
		WithDetails("field", field).
		WithDetails("min", minValue).
		WithDetails("max", maxValue)
}

// Resource Errors

func NotFound(resource, id string) *ServiceError {
	return New(ErrCodeNotFound, "Resource not found", http.StatusNotFound).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

func AlreadyExists(resource, id string) *ServiceError {
	return New(ErrCodeAlreadyExists, "Resource already exists", http.StatusConflict).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

func Conflict(message string) *ServiceError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// Service Errors

func Internal(message string, err error) *ServiceError {
	return Wrap(ErrCodeInternal, message, http.StatusInternalServerError, err)
}

func Timeout(operation string) *ServiceError {
	return New(ErrCodeTimeout, "Operation timed out", http.StatusGatewayTimeout).
		WithDetails("operation", operation)
}

// Configuration Errors

// ConfigurationError reports a missing or malformed configuration value,
// raised before any state storage or executor work begins.
func ConfigurationError(field, reason string) *ServiceError {
	return New(ErrCodeConfiguration, "Invalid configuration", http.StatusInternalServerError).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// State Storage Errors

// StateIOError wraps an underlying I/O failure (network, disk, driver)
// encountered while reading or writing the infrastructure map or the
// migration lock. Callers should treat it as non-retryable unless Err
// also satisfies IsTransient.
func StateIOError(operation string, err error) *ServiceError {
	return Wrap(ErrCodeStateIO, "State storage operation failed", http.StatusInternalServerError, err).
		WithDetails("operation", operation)
}

// MigrationInProgress reports that the migration lock is already held by
// another machine. ExpiresIn is the backend's declared TTL remaining on the
// lock, after which it is safe to retry.
func MigrationInProgress(holder string, expiresIn time.Duration) *ServiceError {
	return New(ErrCodeMigrationInProgress,
		fmt.Sprintf("Migration already in progress. Lock expires automatically in %s.", expiresIn),
		http.StatusConflict).
		WithDetails("holder", holder).
		WithDetails("expires_in_seconds", int(expiresIn.Seconds()))
}

// Lifecycle/Planning Errors

// Violation describes a single lifecycle rule broken by a computed change,
// caught by the planner's final safety guard.
type Violation struct {
	EntityID string `json:"entity_id"`
	Reason   string `json:"reason"`
}

// LifecycleViolation reports that validate_lifecycle_compliance found one
// or more changes that should have been filtered out by the lifecycle
// filter but were not. This always indicates a planner bug, never user
// error, and the plan must not be executed.
func LifecycleViolation(violations []Violation) *ServiceError {
	return New(ErrCodeLifecycleViolation,
		fmt.Sprintf("plan violates lifecycle policy for %d entities", len(violations)),
		http.StatusInternalServerError).
		WithDetails("violations", violations)
}

// PlanOrderingError reports that the dependency graph could not be
// topologically sorted, i.e. it contains a cycle.
func PlanOrderingError(cycleMembers []string) *ServiceError {
	return New(ErrCodePlanOrdering,
		"dependency graph contains a cycle and cannot be ordered",
		http.StatusInternalServerError).
		WithDetails("cycle_members", cycleMembers)
}

// EngineChangeError reports that a table's engine changed in a way its
// TableDiffStrategy cannot express as an in-place alter, and the caller
// did not opt into replace-via-drop-and-recreate.
func EngineChangeError(tableID, fromEngine, toEngine string) *ServiceError {
	return New(ErrCodeEngineChange,
		"table engine change requires drop and recreate",
		http.StatusConflict).
		WithDetails("table_id", tableID).
		WithDetails("from_engine", fromEngine).
		WithDetails("to_engine", toEngine)
}

// Process Supervision Errors

// ProcessStartError reports that a supervised child process failed to
// start or exited immediately with a non-zero status.
func ProcessStartError(processID string, err error) *ServiceError {
	return Wrap(ErrCodeProcessStart, "process failed to start", http.StatusInternalServerError, err).
		WithDetails("process_id", processID)
}

// Transient Errors

// TransientIOError wraps a failure that callers should retry with backoff
// (e.g. a connection reset while dialing ClickHouse or Redis).
func TransientIOError(operation string, err error) *ServiceError {
	return Wrap(ErrCodeTransientIO, "transient I/O failure", http.StatusServiceUnavailable, err).
		WithDetails("operation", operation)
}

// Helper functions

// IsServiceError checks if an error is a ServiceError.
func IsServiceError(err error) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr)
}

// GetServiceError extracts a ServiceError from an error chain.
func GetServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return nil
}

// GetHTTPStatus returns the HTTP status code for an error.
func GetHTTPStatus(err error) int {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsTransient reports whether err (or one it wraps) is a transient,
// retry-safe failure.
func IsTransient(err error) bool {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.Code == ErrCodeTransientIO
	}
	return false
}
