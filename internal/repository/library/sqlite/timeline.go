package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/repository/library"
)

func scanTimeline(row interface{ Scan(...any) error }) (domain.Timeline, error) {
	var (
		t         domain.Timeline
		itemsJSON string
		notes     sql.NullString
		isActive  int
	)
	if err := row.Scan(&t.Id, &t.Name, &itemsJSON, &t.ThemeId, &t.CreatedAt, &t.UpdatedAt, &isActive, &notes); err != nil {
		return domain.Timeline{}, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &t.Items); err != nil {
		return domain.Timeline{}, fmt.Errorf("failed to decode timeline items: %w", err)
	}
	t.Notes = notes.String
	t.IsActive = isActive != 0

	return t, nil
}

const timelineColumns = "id, name, timeline_json, theme_id, created_at, updated_at, is_active, notes"

func (s *Store) CreateTimeline(params *library.CreateTimelineParams) (domain.Timeline, error) {
	now := time.Now().Unix()

	tx, err := s.db.Begin()
	if err != nil {
		return domain.Timeline{}, err
	}
	defer tx.Rollback()

	// At most one timeline may be active at a time.
	if params.IsActive {
		if _, err := tx.Exec("UPDATE timelines SET is_active = 0 WHERE is_active = 1"); err != nil {
			return domain.Timeline{}, err
		}
	}

	res, err := tx.Exec(`
		INSERT INTO timelines (name, timeline_json, theme_id, created_at, updated_at, is_active, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, params.Name, string(params.ItemsJSON), params.ThemeId, now, now, boolToInt(params.IsActive), nullString(params.Notes))
	if err != nil {
		return domain.Timeline{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Timeline{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Timeline{}, err
	}

	return s.GetTimeline(id)
}

func (s *Store) UpdateTimeline(params *library.UpdateTimelineParams) (domain.Timeline, error) {
	now := time.Now().Unix()

	tx, err := s.db.Begin()
	if err != nil {
		return domain.Timeline{}, err
	}
	defer tx.Rollback()

	if params.IsActive != nil && *params.IsActive {
		if _, err := tx.Exec("UPDATE timelines SET is_active = 0 WHERE is_active = 1 AND id != ?", params.TimelineId); err != nil {
			return domain.Timeline{}, err
		}
	}

	res, err := tx.Exec(`
		UPDATE timelines SET
			name = COALESCE(?, name),
			timeline_json = COALESCE(?, timeline_json),
			theme_id = COALESCE(?, theme_id),
			is_active = COALESCE(?, is_active),
			notes = COALESCE(?, notes),
			updated_at = ?
		WHERE id = ?
	`,
		params.Name,
		nullBytes(params.ItemsJSON),
		params.ThemeId,
		nullBoolToInt(params.IsActive),
		params.Notes,
		now,
		params.TimelineId,
	)
	if err != nil {
		return domain.Timeline{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Timeline{}, err
	}
	if affected == 0 {
		return domain.Timeline{}, library.ErrTimelineNotFound
	}

	if err := tx.Commit(); err != nil {
		return domain.Timeline{}, err
	}

	return s.GetTimeline(params.TimelineId)
}

func (s *Store) GetTimeline(timelineId int64) (domain.Timeline, error) {
	row := s.db.QueryRow("SELECT "+timelineColumns+" FROM timelines WHERE id = ?", timelineId)

	t, err := scanTimeline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Timeline{}, library.ErrTimelineNotFound
	}

	return t, err
}

func (s *Store) GetActiveTimeline() (domain.Timeline, error) {
	row := s.db.QueryRow("SELECT " + timelineColumns + " FROM timelines WHERE is_active = 1 LIMIT 1")

	t, err := scanTimeline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Timeline{}, library.ErrTimelineNotFound
	}

	return t, err
}

func (s *Store) ListTimelines() ([]domain.Timeline, error) {
	rows, err := s.db.Query("SELECT " + timelineColumns + " FROM timelines ORDER BY updated_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timelines []domain.Timeline
	for rows.Next() {
		t, err := scanTimeline(rows)
		if err != nil {
			return nil, err
		}
		timelines = append(timelines, t)
	}

	return timelines, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullBoolToInt(b *bool) any {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
