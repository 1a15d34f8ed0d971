package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/repository/library"
)

func (s *Store) GetSetting(key string) (domain.Setting, error) {
	var setting domain.Setting
	err := s.db.QueryRow("SELECT key, value, updated_at FROM settings WHERE key = ?", key).
		Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Setting{}, library.ErrSettingNotFound
	}

	return setting, err
}

func (s *Store) SetSetting(key, value string) (domain.Setting, error) {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`, key, value, now)
	if err != nil {
		return domain.Setting{}, err
	}

	return domain.Setting{Key: key, Value: value, UpdatedAt: now}, nil
}

// SeedDefaultSettings inserts the settings a fresh install expects, leaving
// any existing values untouched.
func (s *Store) SeedDefaultSettings() error {
	defaultTheme, err := json.Marshal(map[string]any{
		"id": "neon-chalkboard",
		"palette": map[string]any{
			"bg":     "#0f1115",
			"fg":     "#F4F4F4",
			"accent": []string{"#39FF14", "#00E5FF", "#FF3AF2", "#FFE600"},
		},
		"fonts":  map[string]string{"heading": "Bebas Neue", "body": "Inter"},
		"motion": map[string]any{"easing": "easeOutQuad", "defaultMs": 350},
	})
	if err != nil {
		return err
	}

	defaultLayout, err := json.Marshal(map[string]int{
		"left_panel_width":  250,
		"right_panel_width": 300,
		"timeline_height":   200,
	})
	if err != nil {
		return err
	}

	defaults := map[string]string{
		"theme":              string(defaultTheme),
		"master_volume":      "0.8",
		"operator_ui_layout": string(defaultLayout),
	}

	now := time.Now().Unix()
	for key, value := range defaults {
		if _, err := s.db.Exec(`
			INSERT INTO settings (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, value, now); err != nil {
			return err
		}
	}

	return nil
}
