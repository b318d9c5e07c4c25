package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// KVConfig configures a Redis-backed Storage implementation.
type KVConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// DefaultKVConfig returns sane defaults for local development.
func DefaultKVConfig() KVConfig {
	return KVConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "moose:",
	}
}

const (
	infraMapKey   = "infra_map"
	migrationLockKey = "migration_lock"
)

// KVBackend implements Storage against a Redis-compatible key/value store.
// It is the preferred backend for deployments that already run Redis for
// caching or pub/sub, since acquiring/releasing the migration lock this way
// needs no schema migration of its own.
type KVBackend struct {
	client *redis.Client
	prefix string
}

// NewKVBackend dials Redis and returns a ready-to-use KVBackend.
func NewKVBackend(cfg KVConfig) *KVBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &KVBackend{client: client, prefix: cfg.KeyPrefix}
}

// NewKVBackendFromClient wraps an existing *redis.Client, useful when the
// caller already maintains a shared connection pool for other purposes.
func NewKVBackendFromClient(client *redis.Client, keyPrefix string) *KVBackend {
	return &KVBackend{client: client, prefix: keyPrefix}
}

func (k *KVBackend) key(name string) string {
	return k.prefix + name
}

// StoreInfrastructureMap overwrites the single stored infrastructure map.
// Unlike the OLAP backend, Redis keeps no history: only the latest applied
// map is needed to compute the next diff.
func (k *KVBackend) StoreInfrastructureMap(ctx context.Context, data []byte) error {
	if err := k.client.Set(ctx, k.key(infraMapKey), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", infraMapKey, err)
	}
	return nil
}

// LoadInfrastructureMap returns the most recently stored infrastructure map.
func (k *KVBackend) LoadInfrastructureMap(ctx context.Context) ([]byte, bool, error) {
	data, err := k.client.Get(ctx, k.key(infraMapKey)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", infraMapKey, err)
	}
	return data, true, nil
}

// lockPayload is the JSON value stored under the migration lock key.
type lockPayload struct {
	MachineID string    `json:"machine_id"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AcquireMigrationLock implements the same leadership semantics as the
// original leadership_manager.attempt_lock: SetNX wins outright and is a
// fresh acquisition (isNew=true); if the key is already held by machineID
// itself the TTL is renewed and reported as a non-new acquisition; if held
// by someone else and not yet expired, acquisition fails with the current
// holder returned for diagnostics.
func (k *KVBackend) AcquireMigrationLock(ctx context.Context, machineID string, ttl time.Duration) (bool, bool, *MigrationLock, error) {
	now := time.Now()
	payload := lockPayload{MachineID: machineID, StartedAt: now, ExpiresAt: now.Add(ttl)}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return false, false, nil, fmt.Errorf("marshal lock payload: %w", err)
	}

	ok, err := k.client.SetNX(ctx, k.key(migrationLockKey), encoded, ttl).Result()
	if err != nil {
		return false, false, nil, fmt.Errorf("redis setnx %s: %w", migrationLockKey, err)
	}
	if ok {
		return true, true, &MigrationLock{MachineID: machineID, StartedAt: payload.StartedAt, ExpiresAt: payload.ExpiresAt}, nil
	}

	current, err := k.readLock(ctx)
	if err != nil {
		return false, false, nil, err
	}
	if current == nil {
		// Key vanished between SetNX and Get (TTL race); retry acquisition once.
		return k.AcquireMigrationLock(ctx, machineID, ttl)
	}
	if current.MachineID == machineID {
		if err := k.client.Set(ctx, k.key(migrationLockKey), encoded, ttl).Err(); err != nil {
			return false, false, nil, fmt.Errorf("renew lock: %w", err)
		}
		return true, false, &MigrationLock{MachineID: machineID, StartedAt: payload.StartedAt, ExpiresAt: payload.ExpiresAt}, nil
	}
	return false, false, current, nil
}

// ReleaseMigrationLock deletes the lock only if machineID is the holder.
func (k *KVBackend) ReleaseMigrationLock(ctx context.Context, machineID string) error {
	current, err := k.readLock(ctx)
	if err != nil {
		return err
	}
	if current == nil || current.MachineID != machineID {
		return nil
	}
	if err := k.client.Del(ctx, k.key(migrationLockKey)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", migrationLockKey, err)
	}
	return nil
}

func (k *KVBackend) readLock(ctx context.Context) (*MigrationLock, error) {
	raw, err := k.client.Get(ctx, k.key(migrationLockKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", migrationLockKey, err)
	}
	var payload lockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal lock payload: %w", err)
	}
	return &MigrationLock{MachineID: payload.MachineID, StartedAt: payload.StartedAt, ExpiresAt: payload.ExpiresAt}, nil
}

// Close closes the underlying Redis connection.
func (k *KVBackend) Close(ctx context.Context) error {
	return k.client.Close()
}
