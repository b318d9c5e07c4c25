package errors

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ServiceError
		want string
	}{
		{
			name: "error without underlying error",
			err:  New(ErrCodeInvalidInput, "test message", http.StatusBadRequest),
			want: "[VAL_3001] test message",
		},
		{
			name: "error with underlying error",
			err:  Wrap(ErrCodeInternal, "test message", http.StatusInternalServerError, errors.New("underlying")),
			want: "[SVC_5001] test message: underlying",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "test", http.StatusInternalServerError, underlying)

	if got := err.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}
}

func TestServiceError_WithDetails(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test", http.StatusBadRequest)
	err.WithDetails("field", "username").WithDetails("reason", "too short")

	if len(err.Details) != 2 {
		t.Errorf("Details length = %d, want 2", len(err.Details))
	}

	if err.Details["field"] != "username" {
		t.Errorf("Details[field] = %v, want username", err.Details["field"])
	}

	if err.Details["reason"] != "too short" {
		t.Errorf("Details[reason] = %v, want too short", err.Details["reason"])
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("email", "invalid format")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusBadRequest)
	}

	if err.Details["field"] != "email" {
		t.Errorf("Details[field] = %v, want email", err.Details["field"])
	}
}

func TestMissingParameter(t *testing.T) {
	err := MissingParameter("user_id")

	if err.Code != ErrCodeMissingParameter {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingParameter)
	}

	if err.Details["parameter"] != "user_id" {
		t.Errorf("Details[parameter] = %v, want user_id", err.Details["parameter"])
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("table", "events")

	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}

	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusNotFound)
	}

	if err.Details["resource"] != "table" {
		t.Errorf("Details[resource] = %v, want table", err.Details["resource"])
	}

	if err.Details["id"] != "events" {
		t.Errorf("Details[id] = %v, want events", err.Details["id"])
	}
}

func TestAlreadyExists(t *testing.T) {
	err := AlreadyExists("topic", "events")

	if err.Code != ErrCodeAlreadyExists {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeAlreadyExists)
	}

	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusConflict)
	}
}

func TestInternal(t *testing.T) {
	underlying := errors.New("unexpected nil pointer")
	err := Internal("internal error", underlying)

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusInternalServerError)
	}

	if err.Err != underlying {
		t.Errorf("Err = %v, want %v", err.Err, underlying)
	}
}

func TestConfigurationError(t *testing.T) {
	err := ConfigurationError("STATE_BACKEND", "must be one of kv, olap")

	if err.Code != ErrCodeConfiguration {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfiguration)
	}

	if err.Details["field"] != "STATE_BACKEND" {
		t.Errorf("Details[field] = %v, want STATE_BACKEND", err.Details["field"])
	}
}

func TestStateIOError(t *testing.T) {
	underlying := errors.New("connection reset")
	err := StateIOError("load_infra_map", underlying)

	if err.Code != ErrCodeStateIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStateIO)
	}

	if err.Err != underlying {
		t.Errorf("Err = %v, want %v", err.Err, underlying)
	}
}

func TestMigrationInProgress(t *testing.T) {
	err := MigrationInProgress("machine-a", 4*time.Minute)

	if err.Code != ErrCodeMigrationInProgress {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMigrationInProgress)
	}

	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusConflict)
	}

	if err.Details["holder"] != "machine-a" {
		t.Errorf("Details[holder] = %v, want machine-a", err.Details["holder"])
	}

	if err.Details["expires_in_seconds"] != 240 {
		t.Errorf("Details[expires_in_seconds] = %v, want 240", err.Details["expires_in_seconds"])
	}
}

func TestLifecycleViolation(t *testing.T) {
	violations := []Violation{{EntityID: "table.events", Reason: "DeletionProtected table scheduled for removal"}}
	err := LifecycleViolation(violations)

	if err.Code != ErrCodeLifecycleViolation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLifecycleViolation)
	}

	got, ok := err.Details["violations"].([]Violation)
	if !ok || len(got) != 1 {
		t.Fatalf("Details[violations] = %v, want one violation", err.Details["violations"])
	}
	if got[0].EntityID != "table.events" {
		t.Errorf("violation EntityID = %v, want table.events", got[0].EntityID)
	}
}

func TestPlanOrderingError(t *testing.T) {
	err := PlanOrderingError([]string{"table.a", "table.b"})

	if err.Code != ErrCodePlanOrdering {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePlanOrdering)
	}

	members, ok := err.Details["cycle_members"].([]string)
	if !ok || len(members) != 2 {
		t.Fatalf("Details[cycle_members] = %v, want 2 members", err.Details["cycle_members"])
	}
}

func TestEngineChangeError(t *testing.T) {
	err := EngineChangeError("table.events", "MergeTree", "S3Queue")

	if err.Code != ErrCodeEngineChange {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeEngineChange)
	}

	if err.Details["from_engine"] != "MergeTree" {
		t.Errorf("Details[from_engine] = %v, want MergeTree", err.Details["from_engine"])
	}
}

func TestProcessStartError(t *testing.T) {
	underlying := errors.New("exec: no such file")
	err := ProcessStartError("fn-1", underlying)

	if err.Code != ErrCodeProcessStart {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeProcessStart)
	}

	if err.Details["process_id"] != "fn-1" {
		t.Errorf("Details[process_id] = %v, want fn-1", err.Details["process_id"])
	}
}

func TestTransientIOError(t *testing.T) {
	underlying := errors.New("i/o timeout")
	err := TransientIOError("dial_clickhouse", underlying)

	if err.Code != ErrCodeTransientIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTransientIO)
	}

	if !IsTransient(err) {
		t.Error("IsTransient() should be true for TransientIOError")
	}
}

func TestIsServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "service error",
			err:  New(ErrCodeInternal, "test", http.StatusInternalServerError),
			want: true,
		},
		{
			name: "standard error",
			err:  errors.New("standard error"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsServiceError(tt.err); got != tt.want {
				t.Errorf("IsServiceError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetServiceError(t *testing.T) {
	serviceErr := New(ErrCodeInternal, "test", http.StatusInternalServerError)
	standardErr := errors.New("standard error")

	tests := []struct {
		name string
		err  error
		want *ServiceError
	}{
		{
			name: "service error",
			err:  serviceErr,
			want: serviceErr,
		},
		{
			name: "standard error",
			err:  standardErr,
			want: nil,
		},
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetServiceError(tt.err)
			if got != tt.want {
				t.Errorf("GetServiceError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "service error",
			err:  New(ErrCodeConflict, "test", http.StatusConflict),
			want: http.StatusConflict,
		},
		{
			name: "standard error",
			err:  errors.New("standard error"),
			want: http.StatusInternalServerError,
		},
		{
			name: "nil error",
			err:  nil,
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutOfRange(t *testing.T) {
	err := OutOfRange("retries", 0, 10)

	if err.Code != ErrCodeOutOfRange {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOutOfRange)
	}

	if err.Details["field"] != "retries" {
		t.Errorf("Details[field] = %v, want retries", err.Details["field"])
	}

	if err.Details["min"] != 0 {
		t.Errorf("Details[min] = %v, want 0", err.Details["min"])
	}

	if err.Details["max"] != 10 {
		t.Errorf("Details[max] = %v, want 10", err.Details["max"])
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("resource locked")

	if err.Code != ErrCodeConflict {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConflict)
	}

	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusConflict)
	}

	if err.Message != "resource locked" {
		t.Errorf("Message = %v, want resource locked", err.Message)
	}
}

func TestTimeout(t *testing.T) {
	err := Timeout("olap query")

	if err.Code != ErrCodeTimeout {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTimeout)
	}

	if err.HTTPStatus != http.StatusGatewayTimeout {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusGatewayTimeout)
	}

	if err.Details["operation"] != "olap query" {
		t.Errorf("Details[operation] = %v, want olap query", err.Details["operation"])
	}
}
