package domain

import "encoding/json"

// TimelineItem is an opaque renderer payload. The server never interprets it
// beyond addressing it by index.
type TimelineItem = json.RawMessage

// Timeline is the scripted sequence of items a show plays through. Items are
// opaque to the server: renderers interpret them, the playback engine only
// indexes into them.
type Timeline struct {
	Id        int64             `json:"id"`
	Name      string            `json:"name"`
	ThemeId   string            `json:"theme_id"`
	Items     []json.RawMessage `json:"items"`
	Notes     string            `json:"notes,omitempty"`
	IsActive  bool              `json:"is_active"`
	CreatedAt int64             `json:"created_at"`
	UpdatedAt int64             `json:"updated_at"`
}

// TimelineDefinition is the client-supplied shape of a timeline, before it has
// a stored identity.
type TimelineDefinition struct {
	Name    string            `json:"name" validate:"required,max=255"`
	ThemeId string            `json:"theme_id" validate:"max=50"`
	Items   []json.RawMessage `json:"items"`
	Notes   string            `json:"notes,omitempty"`
}
