package state

import "errors"

// ErrSnapshotNotFound is returned when no playback snapshot has been persisted
// yet (first boot against an empty store).
var ErrSnapshotNotFound = errors.New("playback snapshot not found")

// Snapshot is the stored shape of the playback position singleton.
type Snapshot struct {
	TimelineId   int64 `redis:"timeline_id"`
	CurrentIndex int   `redis:"current_index"`
	TimecodeMs   int64 `redis:"timecode_ms"`
	IsPlaying    bool  `redis:"is_playing"`
	UpdatedAt    int64 `redis:"updated_at"`
}
