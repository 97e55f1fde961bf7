package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rcliao/record-and-post/internal/model"
)

func (s *SQLiteStore) getKV(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrStorage, key, err)
	}
	return value, nil
}

func (s *SQLiteStore) setKV(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStorage, key, err)
	}
	return nil
}

func (s *SQLiteStore) GetSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	raw, err := s.getKV(ctx, SettingsKey)
	if err != nil || raw == nil {
		return settings, err
	}
	// Fields missing from an older record keep their defaults.
	if err := json.Unmarshal(raw, &settings); err != nil {
		return model.DefaultSettings(), fmt.Errorf("%w: decode settings: %w", ErrStorage, err)
	}
	return settings, nil
}

func (s *SQLiteStore) PutSettings(ctx context.Context, settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: encode settings: %w", ErrStorage, err)
	}
	return s.setKV(ctx, SettingsKey, raw)
}

func (s *SQLiteStore) GetModels(ctx context.Context) ([]model.LocalModel, error) {
	raw, err := s.getKV(ctx, ModelsKey)
	if err != nil || raw == nil {
		return nil, err
	}
	var models []model.LocalModel
	if err := json.Unmarshal(raw, &models); err != nil {
		return nil, fmt.Errorf("%w: decode models: %w", ErrStorage, err)
	}
	return models, nil
}

func (s *SQLiteStore) PutModels(ctx context.Context, models []model.LocalModel) error {
	raw, err := json.Marshal(models)
	if err != nil {
		return fmt.Errorf("%w: encode models: %w", ErrStorage, err)
	}
	return s.setKV(ctx, ModelsKey, raw)
}
