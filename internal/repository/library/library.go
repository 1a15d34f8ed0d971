package library

import "errors"

var (
	ErrTimelineNotFound  = errors.New("timeline not found")
	ErrSettingNotFound   = errors.New("setting not found")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrThumbnailNotFound = errors.New("thumbnail not found")
)

// CreateTimelineParams carries the fields of a new timeline record.
type CreateTimelineParams struct {
	Name      string
	ThemeId   string
	ItemsJSON []byte
	Notes     string
	IsActive  bool
}

// UpdateTimelineParams carries a partial update; nil fields are left unchanged.
type UpdateTimelineParams struct {
	TimelineId int64
	Name       *string
	ThemeId    *string
	ItemsJSON  []byte
	Notes      *string
	IsActive   *bool
}
