package sqlite

import (
	"database/sql"
	"errors"

	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/repository/library"
)

const assetColumns = "id, type, path, width, height, duration_ms, file_size_bytes, hash, mime_type, added_at, validated_at, error_state"

func scanAsset(row interface{ Scan(...any) error }) (domain.Asset, error) {
	var (
		a        domain.Asset
		hash     sql.NullString
		mimeType sql.NullString
	)
	if err := row.Scan(
		&a.Id, &a.Type, &a.Path,
		&a.Width, &a.Height, &a.DurationMs,
		&a.FileSizeBytes, &hash, &mimeType,
		&a.AddedAt, &a.ValidatedAt, &a.ErrorState,
	); err != nil {
		return domain.Asset{}, err
	}
	a.Hash = hash.String
	a.MimeType = mimeType.String

	return a, nil
}

func (s *Store) GetAsset(assetId string) (domain.Asset, error) {
	row := s.db.QueryRow("SELECT "+assetColumns+" FROM assets WHERE id = ?", assetId)

	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Asset{}, library.ErrAssetNotFound
	}

	return a, err
}

// ListAssets returns assets newest first, filtered by type when assetType is
// non-empty. Assets in an error state are excluded.
func (s *Store) ListAssets(assetType string) ([]domain.Asset, error) {
	query := "SELECT " + assetColumns + " FROM assets WHERE error_state IS NULL"
	args := []any{}
	if assetType != "" {
		query += " AND type = ?"
		args = append(args, assetType)
	}
	query += " ORDER BY added_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

// SaveAsset inserts or replaces an asset record. The ingestion pipeline that
// produces these records lives outside this server.
func (s *Store) SaveAsset(a *domain.Asset) error {
	_, err := s.db.Exec(`
		INSERT INTO assets (id, type, path, width, height, duration_ms, file_size_bytes, hash, mime_type, added_at, validated_at, error_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type=excluded.type,
			path=excluded.path,
			width=excluded.width,
			height=excluded.height,
			duration_ms=excluded.duration_ms,
			file_size_bytes=excluded.file_size_bytes,
			hash=excluded.hash,
			mime_type=excluded.mime_type,
			validated_at=excluded.validated_at,
			error_state=excluded.error_state
	`,
		a.Id, a.Type, a.Path,
		a.Width, a.Height, a.DurationMs,
		a.FileSizeBytes, nullString(a.Hash), nullString(a.MimeType),
		a.AddedAt, a.ValidatedAt, a.ErrorState,
	)
	return err
}

// SaveThumbnail inserts or replaces a cached thumbnail for an asset.
func (s *Store) SaveThumbnail(t *domain.AssetThumbnail) error {
	_, err := s.db.Exec(`
		INSERT INTO asset_thumbnails (asset_id, size, width, height, thumbnail_blob, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(asset_id, size) DO UPDATE SET
			width=excluded.width,
			height=excluded.height,
			thumbnail_blob=excluded.thumbnail_blob,
			created_at=excluded.created_at
	`, t.AssetId, t.Size, t.Width, t.Height, t.Blob, t.CreatedAt)
	return err
}

func (s *Store) GetThumbnail(assetId, size string) (domain.AssetThumbnail, error) {
	var t domain.AssetThumbnail
	err := s.db.QueryRow(`
		SELECT asset_id, size, width, height, thumbnail_blob, created_at
		FROM asset_thumbnails
		WHERE asset_id = ? AND size = ?
	`, assetId, size).Scan(&t.AssetId, &t.Size, &t.Width, &t.Height, &t.Blob, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AssetThumbnail{}, library.ErrThumbnailNotFound
	}

	return t, err
}
