package redis

import (
	"context"
	"fmt"

	"github.com/primetime/server/internal/repository/state"
	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc *redis.Client
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{rc: rc}
}

func (r repo) getSnapshotKey() string {
	return "playback:state"
}

func (r repo) SetSnapshot(ctx context.Context, snapshot *state.Snapshot) error {
	snapshotKey := r.getSnapshotKey()
	if err := r.rc.HSet(ctx, snapshotKey,
		"timeline_id", snapshot.TimelineId,
		"current_index", snapshot.CurrentIndex,
		"timecode_ms", snapshot.TimecodeMs,
		"is_playing", snapshot.IsPlaying,
		"updated_at", snapshot.UpdatedAt,
	).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (r repo) GetSnapshot(ctx context.Context) (state.Snapshot, error) {
	snapshotKey := r.getSnapshotKey()
	cmd := r.rc.Exists(ctx, snapshotKey)
	if err := cmd.Err(); err != nil {
		return state.Snapshot{}, fmt.Errorf("failed to check if snapshot exists: %w", err)
	}

	if cmd.Val() == 0 {
		return state.Snapshot{}, state.ErrSnapshotNotFound
	}

	var snapshot state.Snapshot
	if err := r.rc.HGetAll(ctx, snapshotKey).Scan(&snapshot); err != nil {
		return state.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}
