package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/sellsheet/internal/snapshot"
)

// StateStore keeps the single working-state snapshot under snapshot.StorageKey.
type StateStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewStateStore creates a StateStore backed by db.
func NewStateStore(db *sql.DB, logger *zap.Logger) *StateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateStore{db: db, logger: logger, now: time.Now}
}

// Load returns the persisted snapshot. A missing or corrupt entry yields snapshot.Default().
func (s *StateStore) Load(ctx context.Context) (snapshot.Snapshot, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, snapshot.StorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.Default(), nil
	}
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("query app_state: %w", err)
	}

	state, ok := snapshot.DecodeOrDefault([]byte(value))
	if !ok {
		s.logger.Warn("stored state is corrupt, falling back to defaults",
			zap.String("op", "store.StateStore.Load"),
			zap.String("key", snapshot.StorageKey),
		)
	}
	return state, nil
}

// Save stamps LastUpdated and replaces the persisted snapshot.
func (s *StateStore) Save(ctx context.Context, state snapshot.Snapshot) (snapshot.Snapshot, error) {
	now := s.now().UTC()
	state.LastUpdated = &now

	data, err := snapshot.Encode(state)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, snapshot.StorageKey, string(data), now.Format(sqliteTimeLayout))
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("upsert app_state: %w", err)
	}

	return state, nil
}

// Clear removes the persisted snapshot so the next Load returns defaults.
func (s *StateStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, snapshot.StorageKey); err != nil {
		return fmt.Errorf("delete app_state: %w", err)
	}
	return nil
}
