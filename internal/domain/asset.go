package domain

// Asset is file metadata for a media asset referenced from timeline items.
// Ingestion happens outside this server; we only read the records.
type Asset struct {
	Id            string  `json:"id"`
	Type          string  `json:"type"`
	Path          string  `json:"path"`
	Width         *int    `json:"width"`
	Height        *int    `json:"height"`
	DurationMs    *int64  `json:"duration_ms"`
	FileSizeBytes int64   `json:"file_size_bytes"`
	Hash          string  `json:"hash,omitempty"`
	MimeType      string  `json:"mime_type,omitempty"`
	AddedAt       int64   `json:"added_at"`
	ValidatedAt   *int64  `json:"validated_at"`
	ErrorState    *string `json:"error_state"`
}

// AssetThumbnail is a cached JPEG preview of an asset.
type AssetThumbnail struct {
	AssetId   string `json:"asset_id"`
	Size      string `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Blob      []byte `json:"-"`
	CreatedAt int64  `json:"created_at"`
}
