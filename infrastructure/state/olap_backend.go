package state

import (
	"context"
	"database/sql"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const stateTable = "_moose_state"

// OlapConfig configures an OlapBackend: a SQL OLAP warehouse used both to
// hold the control plane's own coordination table and, typically, the
// tables the infrastructure map itself describes.
type OlapConfig struct {
	DSN string
	// KeyPrefix namespaces rows in the shared coordination table, letting
	// one warehouse host state for more than one project.
	KeyPrefix string
}

// OlapBackend implements Storage against a SQL OLAP warehouse via an
// insert-only coordination table (mirroring a ClickHouse KeeperMap-backed
// design): every store is a new row, and "current value" means the row
// with the greatest created_at for a given key. This avoids requiring
// UPDATE/DELETE support from engines that only efficiently support inserts.
type OlapBackend struct {
	db     *sql.DB
	prefix string
}

// NewOlapBackend opens the warehouse connection, runs the embedded schema
// migration to ensure the coordination table exists, and returns a ready
// OlapBackend.
func NewOlapBackend(ctx context.Context, cfg OlapConfig) (*OlapBackend, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open olap connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping olap connection: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run schema migrations: %w", err)
	}

	return &OlapBackend{db: db, prefix: cfg.KeyPrefix}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func (o *OlapBackend) key(name string) string {
	return o.prefix + name
}

// StoreInfrastructureMap inserts a new infra_map row keyed by the current
// timestamp so that concurrent writers never collide, and base64-encodes
// the payload since the value column is text.
func (o *OlapBackend) StoreInfrastructureMap(ctx context.Context, data []byte) error {
	key := fmt.Sprintf("%sinfra_map_%d", o.prefix, time.Now().UnixMilli())
	encoded := base64.StdEncoding.EncodeToString(data)

	_, err := o.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)`, stateTable),
		key, encoded,
	)
	if err != nil {
		return fmt.Errorf("insert infra_map row: %w", err)
	}
	return nil
}

// LoadInfrastructureMap returns the most recently stored infra_map row
// across all timestamped keys for this project's prefix.
func (o *OlapBackend) LoadInfrastructureMap(ctx context.Context) ([]byte, bool, error) {
	row := o.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key LIKE $1 ORDER BY created_at DESC LIMIT 1`, stateTable),
		o.prefix+"infra_map_%",
	)
	var encoded string
	if err := row.Scan(&encoded); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query infra_map row: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("decode infra_map payload: %w", err)
	}
	return data, true, nil
}

// AcquireMigrationLock implements the same insert-only coordination
// protocol as StoreInfrastructureMap: it reads the latest migration_lock
// row, and if none exists or the existing one is expired, inserts a fresh
// row claiming the lock (isNew=true). If the same machine already holds an
// unexpired lock, a renewal row is inserted (isNew=false). If another
// machine holds an unexpired lock, acquisition fails.
//
// Because two machines could both observe a stale lock and race to insert
// a reclaiming row, the winner is decided by a single re-read after
// inserting: whichever row is latest once both inserts have landed wins.
func (o *OlapBackend) AcquireMigrationLock(ctx context.Context, machineID string, ttl time.Duration) (bool, bool, *MigrationLock, error) {
	current, err := o.readLatestLock(ctx)
	if err != nil {
		return false, false, nil, err
	}

	acquired, isNew, result := decideAcquire(current, machineID, time.Now(), ttl)
	if !acquired {
		return false, false, &result, nil
	}
	if err := o.insertLockRow(ctx, result); err != nil {
		return false, false, nil, err
	}
	if isNew {
		// Another machine may have inserted a reclaiming row in the same
		// race window; re-check once to see who actually holds the lock now.
		latest, err := o.readLatestLock(ctx)
		if err != nil {
			return false, false, nil, err
		}
		if latest != nil && latest.MachineID != machineID && !latest.Expired(time.Now()) {
			return false, false, latest, nil
		}
	}
	return true, isNew, &result, nil
}

// ReleaseMigrationLock inserts an already-expired tombstone row for the
// lock key if and only if machineID currently holds it, making the lock
// immediately reclaimable by the next AcquireMigrationLock call.
func (o *OlapBackend) ReleaseMigrationLock(ctx context.Context, machineID string) error {
	current, err := o.readLatestLock(ctx)
	if err != nil {
		return err
	}
	if current == nil || current.MachineID != machineID {
		return nil
	}
	now := time.Now()
	tombstone := MigrationLock{MachineID: machineID, StartedAt: current.StartedAt, ExpiresAt: now}
	return o.insertLockRow(ctx, tombstone)
}

func (o *OlapBackend) insertLockRow(ctx context.Context, lock MigrationLock) error {
	payload, err := json.Marshal(lockPayload{MachineID: lock.MachineID, StartedAt: lock.StartedAt, ExpiresAt: lock.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal lock payload: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)
	_, err = o.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)`, stateTable),
		o.key(migrationLockKey), encoded,
	)
	if err != nil {
		return fmt.Errorf("insert migration_lock row: %w", err)
	}
	return nil
}

func (o *OlapBackend) readLatestLock(ctx context.Context) (*MigrationLock, error) {
	row := o.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1 ORDER BY created_at DESC LIMIT 1`, stateTable),
		o.key(migrationLockKey),
	)
	var encoded string
	if err := row.Scan(&encoded); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query migration_lock row: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode migration_lock payload: %w", err)
	}
	var payload lockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal migration_lock payload: %w", err)
	}
	return &MigrationLock{MachineID: payload.MachineID, StartedAt: payload.StartedAt, ExpiresAt: payload.ExpiresAt}, nil
}

// Close closes the underlying *sql.DB.
func (o *OlapBackend) Close(ctx context.Context) error {
	return o.db.Close()
}
