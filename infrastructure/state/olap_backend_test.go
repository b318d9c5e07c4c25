package state

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const defaultTestTTL = 5 * time.Minute

func newMockOlapBackend(t *testing.T) (*OlapBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &OlapBackend{db: db, prefix: "proj:"}, mock
}

func encodeLockPayload(t *testing.T, machineID string, expiresAt time.Time) string {
	t.Helper()
	raw, err := json.Marshal(lockPayload{MachineID: machineID, StartedAt: time.Now(), ExpiresAt: expiresAt})
	if err != nil {
		t.Fatalf("marshal lock payload: %v", err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestOlapBackend_StoreInfrastructureMap(t *testing.T) {
	backend, mock := newMockOlapBackend(t)

	mock.ExpectExec(`INSERT INTO _moose_state \(key, value\) VALUES \(\$1, \$2\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := backend.StoreInfrastructureMap(context.Background(), []byte("payload")); err != nil {
		t.Fatalf("StoreInfrastructureMap() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOlapBackend_LoadInfrastructureMap_Found(t *testing.T) {
	backend, mock := newMockOlapBackend(t)

	encoded := base64.StdEncoding.EncodeToString([]byte("payload"))
	rows := sqlmock.NewRows([]string{"value"}).AddRow(encoded)
	mock.ExpectQuery(`SELECT value FROM _moose_state WHERE key LIKE \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("proj:infra_map_%").
		WillReturnRows(rows)

	data, found, err := backend.LoadInfrastructureMap(context.Background())
	if err != nil {
		t.Fatalf("LoadInfrastructureMap() error = %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want payload", data)
	}
}

func TestOlapBackend_LoadInfrastructureMap_NotFound(t *testing.T) {
	backend, mock := newMockOlapBackend(t)

	mock.ExpectQuery(`SELECT value FROM _moose_state WHERE key LIKE \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("proj:infra_map_%").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, found, err := backend.LoadInfrastructureMap(context.Background())
	if err != nil {
		t.Fatalf("LoadInfrastructureMap() error = %v", err)
	}
	if found {
		t.Fatal("expected found=false when no rows exist")
	}
}

func TestOlapBackend_AcquireMigrationLock_Fresh(t *testing.T) {
	backend, mock := newMockOlapBackend(t)

	mock.ExpectQuery(`SELECT value FROM _moose_state WHERE key = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("proj:migration_lock").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(`INSERT INTO _moose_state \(key, value\) VALUES \(\$1, \$2\)`).
		WithArgs("proj:migration_lock", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT value FROM _moose_state WHERE key = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("proj:migration_lock").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(
			encodeLockPayload(t, "machine-a", time.Now().Add(defaultTestTTL)),
		))

	acquired, isNew, lock, err := backend.AcquireMigrationLock(context.Background(), "machine-a", defaultTestTTL)
	if err != nil {
		t.Fatalf("AcquireMigrationLock() error = %v", err)
	}
	if !acquired || !isNew {
		t.Fatalf("expected acquired=true isNew=true, got acquired=%v isNew=%v", acquired, isNew)
	}
	if lock.MachineID != "machine-a" {
		t.Errorf("MachineID = %q, want machine-a", lock.MachineID)
	}
}

func TestOlapBackend_AcquireMigrationLock_HeldByOther(t *testing.T) {
	backend, mock := newMockOlapBackend(t)

	mock.ExpectQuery(`SELECT value FROM _moose_state WHERE key = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("proj:migration_lock").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(
			encodeLockPayload(t, "machine-b", time.Now().Add(defaultTestTTL)),
		))

	acquired, isNew, lock, err := backend.AcquireMigrationLock(context.Background(), "machine-a", defaultTestTTL)
	if err != nil {
		t.Fatalf("AcquireMigrationLock() error = %v", err)
	}
	if acquired || isNew {
		t.Fatalf("expected acquired=false isNew=false, got acquired=%v isNew=%v", acquired, isNew)
	}
	if lock.MachineID != "machine-b" {
		t.Errorf("MachineID = %q, want machine-b (the actual holder)", lock.MachineID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOlapBackend_ReleaseMigrationLock_NotHolder(t *testing.T) {
	backend, mock := newMockOlapBackend(t)

	mock.ExpectQuery(`SELECT value FROM _moose_state WHERE key = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("proj:migration_lock").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(
			encodeLockPayload(t, "machine-b", time.Now().Add(defaultTestTTL)),
		))

	if err := backend.ReleaseMigrationLock(context.Background(), "machine-a"); err != nil {
		t.Fatalf("ReleaseMigrationLock() error = %v", err)
	}

	// No INSERT expected since machine-a does not hold the lock.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
