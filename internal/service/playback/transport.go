package playback

import (
	"context"
	"time"

	"github.com/primetime/server/internal/domain"
)

// LoadTimeline replaces the in-memory timeline and resets the position. A
// definition with no items sequence at all is rejected; an empty sequence is
// allowed (the timeline just cannot be played yet).
func (s *service) LoadTimeline(ctx context.Context, timeline *domain.Timeline) error {
	if timeline == nil || timeline.Items == nil {
		return ErrInvalidTimelineDefinition
	}

	s.mu.Lock()
	s.timeline = timeline
	s.currentIndex = 0
	s.timecodeMs = 0
	s.isPlaying = false
	s.playbackStartTime = time.Time{}
	s.initialOffsetMs = 0
	s.phase = domain.PhaseLoading
	s.persistLocked(ctx)
	persistErr := s.takePersistErrLocked()
	s.mu.Unlock()

	if persistErr != nil {
		s.reportStorageDegraded(persistErr)
	}

	s.logger.InfoContext(ctx, "timeline loaded", "timeline_id", timeline.Id, "name", timeline.Name, "items", len(timeline.Items))
	return nil
}

type PlayParams struct {
	// Index seeks before starting when set. Must be within bounds.
	Index *int
}

type PlayResponse struct {
	Index      int
	TimecodeMs int64
}

// Play starts or resumes playback. Calling Play while already playing only
// re-anchors the start time: the timecode is recomputed from elapsed time, not
// accumulated, so repeated calls cannot drift it.
func (s *service) Play(ctx context.Context, params *PlayParams) (PlayResponse, error) {
	s.mu.Lock()
	resp, err := s.playLocked(ctx, params.Index)
	persistErr := s.takePersistErrLocked()
	s.mu.Unlock()

	if err != nil {
		return PlayResponse{}, err
	}
	if persistErr != nil {
		s.reportStorageDegraded(persistErr)
	}

	s.logger.InfoContext(ctx, "playback started", "current_index", resp.Index, "timecode_ms", resp.TimecodeMs)
	return resp, nil
}

func (s *service) playLocked(ctx context.Context, index *int) (PlayResponse, error) {
	if s.timeline == nil || len(s.timeline.Items) == 0 {
		return PlayResponse{}, ErrNoTimelineLoaded
	}

	// Bounds are checked before any mutation so a rejected play leaves the
	// position untouched.
	if index != nil {
		if *index < 0 || *index >= len(s.timeline.Items) {
			return PlayResponse{}, ErrIndexOutOfRange
		}
		s.currentIndex = *index
		s.timecodeMs = 0
	} else if s.currentIndex < 0 || s.currentIndex >= len(s.timeline.Items) {
		return PlayResponse{}, ErrIndexOutOfRange
	}

	s.playbackStartTime = s.now()
	s.initialOffsetMs = s.timecodeMs
	s.isPlaying = true
	s.phase = domain.PhasePlaying
	s.persistLocked(ctx)

	return PlayResponse{Index: s.currentIndex, TimecodeMs: s.timecodeMs}, nil
}

type PauseResponse struct {
	Index      int
	TimecodeMs int64
}

// Pause freezes the live timecode. Pausing while already paused (or with
// nothing loaded) is a no-op that reports the current position, so the error
// is always nil; the signature stays uniform with the other transport ops.
func (s *service) Pause(ctx context.Context) (PauseResponse, error) {
	s.mu.Lock()
	resp := s.pauseLocked(ctx)
	persistErr := s.takePersistErrLocked()
	s.mu.Unlock()

	if persistErr != nil {
		s.reportStorageDegraded(persistErr)
	}

	s.logger.InfoContext(ctx, "playback paused", "current_index", resp.Index, "timecode_ms", resp.TimecodeMs)
	return resp, nil
}

func (s *service) pauseLocked(ctx context.Context) PauseResponse {
	if !s.isPlaying {
		return PauseResponse{Index: s.currentIndex, TimecodeMs: s.timecodeMs}
	}

	s.timecodeMs = s.currentTimecodeLocked()
	s.isPlaying = false
	s.playbackStartTime = time.Time{}
	s.phase = domain.PhasePaused
	s.persistLocked(ctx)

	return PauseResponse{Index: s.currentIndex, TimecodeMs: s.timecodeMs}
}

type JumpParams struct {
	Index int
}

type JumpResponse struct {
	Index      int
	WasPlaying bool
}

// Jump seeks to an absolute item index, resetting the within-item position.
// Playback resumes from zero if it was running. Out-of-range indexes are
// rejected without any state change.
func (s *service) Jump(ctx context.Context, params *JumpParams) (JumpResponse, error) {
	s.mu.Lock()
	resp, err := s.jumpLocked(ctx, params.Index)
	persistErr := s.takePersistErrLocked()
	s.mu.Unlock()

	if err != nil {
		return JumpResponse{}, err
	}
	if persistErr != nil {
		s.reportStorageDegraded(persistErr)
	}

	s.logger.InfoContext(ctx, "jumped", "current_index", resp.Index, "resumed", resp.WasPlaying)
	return resp, nil
}

func (s *service) jumpLocked(ctx context.Context, index int) (JumpResponse, error) {
	if s.timeline == nil || len(s.timeline.Items) == 0 {
		return JumpResponse{}, ErrNoTimelineLoaded
	}
	if index < 0 || index >= len(s.timeline.Items) {
		return JumpResponse{}, ErrIndexOutOfRange
	}

	wasPlaying := s.isPlaying
	s.pauseLocked(ctx)

	s.currentIndex = index
	s.timecodeMs = 0

	if wasPlaying {
		if _, err := s.playLocked(ctx, nil); err != nil {
			return JumpResponse{}, err
		}
	} else {
		s.phase = domain.PhaseLoading
		s.persistLocked(ctx)
	}

	return JumpResponse{Index: index, WasPlaying: wasPlaying}, nil
}

type SkipParams struct {
	Delta int
}

type SkipResponse struct {
	Index      int
	Delta      int
	WasPlaying bool
}

// Skip moves the position by a relative delta, clamped to the timeline edges.
// Unlike Jump it never fails on an out-of-range target; this asymmetry is
// deliberate (skip is a relative nudge, jump is an absolute seek).
func (s *service) Skip(ctx context.Context, params *SkipParams) (SkipResponse, error) {
	s.mu.Lock()
	resp, err := s.skipLocked(ctx, params.Delta)
	persistErr := s.takePersistErrLocked()
	s.mu.Unlock()

	if err != nil {
		return SkipResponse{}, err
	}
	if persistErr != nil {
		s.reportStorageDegraded(persistErr)
	}

	s.logger.InfoContext(ctx, "skipped", "delta", params.Delta, "current_index", resp.Index)
	return resp, nil
}

func (s *service) skipLocked(ctx context.Context, delta int) (SkipResponse, error) {
	if s.timeline == nil || len(s.timeline.Items) == 0 {
		return SkipResponse{}, ErrNoTimelineLoaded
	}

	newIndex := s.currentIndex + delta
	if newIndex < 0 {
		newIndex = 0
	} else if newIndex >= len(s.timeline.Items) {
		newIndex = len(s.timeline.Items) - 1
	}

	jumpResp, err := s.jumpLocked(ctx, newIndex)
	if err != nil {
		return SkipResponse{}, err
	}

	return SkipResponse{Index: jumpResp.Index, Delta: delta, WasPlaying: jumpResp.WasPlaying}, nil
}

// SaveTimeline persists the definition as the active timeline record and loads
// it for playback.
func (s *service) SaveTimeline(ctx context.Context, definition *domain.TimelineDefinition) (domain.Timeline, error) {
	if definition == nil || definition.Items == nil {
		return domain.Timeline{}, ErrInvalidTimelineDefinition
	}

	timeline, err := s.library.SaveActiveTimeline(ctx, definition)
	if err != nil {
		return domain.Timeline{}, err
	}

	if err := s.LoadTimeline(ctx, &timeline); err != nil {
		return domain.Timeline{}, err
	}

	return timeline, nil
}

type TelemetryParams struct {
	SessionId  string
	State      string
	TimecodeMs *int64
	Fps        *float64
}

// ReportTelemetry records renderer-reported status. The hint is advisory only
// and never overrides the clock-derived timecode.
func (s *service) ReportTelemetry(ctx context.Context, params *TelemetryParams) {
	s.logger.DebugContext(ctx, "show telemetry",
		"session_id", params.SessionId,
		"state", params.State,
		"reported_timecode_ms", params.TimecodeMs,
		"fps", params.Fps,
	)
}
