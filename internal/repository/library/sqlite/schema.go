package sqlite

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS timelines (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	timeline_json TEXT NOT NULL,
	theme_id TEXT NOT NULL DEFAULT 'neon-chalkboard',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 0,
	notes TEXT
);
CREATE INDEX IF NOT EXISTS idx_timelines_active ON timelines(is_active);
CREATE INDEX IF NOT EXISTS idx_timelines_updated ON timelines(updated_at);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assets (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	path TEXT NOT NULL UNIQUE,
	width INTEGER,
	height INTEGER,
	duration_ms INTEGER,
	file_size_bytes INTEGER NOT NULL,
	hash TEXT,
	mime_type TEXT,
	added_at INTEGER NOT NULL,
	validated_at INTEGER,
	error_state TEXT
);
CREATE INDEX IF NOT EXISTS idx_assets_type ON assets(type);
CREATE INDEX IF NOT EXISTS idx_assets_added ON assets(added_at);

CREATE TABLE IF NOT EXISTS asset_thumbnails (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id TEXT NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	size TEXT NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	thumbnail_blob BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE(asset_id, size)
);
CREATE INDEX IF NOT EXISTS idx_thumbnails_asset ON asset_thumbnails(asset_id);
`

func (s *Store) EnsureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite: missing database connection")
	}

	_, err := s.db.Exec(schema)
	return err
}
