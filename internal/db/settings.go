package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const settingServerID = "server_id"

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(database *sql.DB) *SettingsStore {
	return &SettingsStore{db: database}
}

func (s *SettingsStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SettingsStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

// ServerID returns the durable identity of this daemon, generating and
// persisting one on first use.
func (s *SettingsStore) ServerID(ctx context.Context) (string, error) {
	id, err := s.GetSetting(ctx, settingServerID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id = uuid.NewString()
	if err := s.SetSetting(ctx, settingServerID, id); err != nil {
		return "", err
	}
	return id, nil
}
