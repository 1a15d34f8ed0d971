package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/metrics"
	"github.com/primetime/server/internal/repository/state"
)

type iStateRepo interface {
	SetSnapshot(context.Context, *state.Snapshot) error
	GetSnapshot(context.Context) (state.Snapshot, error)
}

type iLibraryService interface {
	GetTimeline(ctx context.Context, timelineId int64) (domain.Timeline, error)
	SaveActiveTimeline(ctx context.Context, definition *domain.TimelineDefinition) (domain.Timeline, error)
}

type iBroadcaster interface {
	Broadcast(channel domain.Channel, msg *domain.Message)
}

type Config struct {
	PersistTimeout  time.Duration
	UpdatesInterval time.Duration
}

// service is the playback state machine. All fields below the mutex are
// guarded by it; every transport operation and timecode read takes the lock so
// readers always observe a consistent (isPlaying, playbackStartTime,
// initialOffsetMs, timecodeMs) combination.
type service struct {
	mu                sync.Mutex
	timeline          *domain.Timeline
	currentIndex      int
	timecodeMs        int64
	isPlaying         bool
	playbackStartTime time.Time
	initialOffsetMs   int64
	phase             domain.PlaybackPhase
	persistErr        error

	stateRepo iStateRepo
	library   iLibraryService
	conns     iBroadcaster
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	persistTimeout  time.Duration
	updatesInterval time.Duration
}

func NewService(stateRepo iStateRepo, library iLibraryService, conns iBroadcaster, m *metrics.Metrics, cfg *Config, logger *slog.Logger) *service {
	return &service{
		phase:           domain.PhaseIdle,
		stateRepo:       stateRepo,
		library:         library,
		conns:           conns,
		metrics:         m,
		logger:          logger,
		now:             time.Now,
		persistTimeout:  cfg.PersistTimeout,
		updatesInterval: cfg.UpdatesInterval,
	}
}

// Rehydrate restores the last persisted playback position. A restart always
// lands paused: the stored isPlaying flag is ignored because wall-clock time
// spent down is not time played. A snapshot referencing a timeline that no
// longer exists degrades to IDLE instead of failing startup.
func (s *service) Rehydrate(ctx context.Context) error {
	snapshot, err := s.stateRepo.GetSnapshot(ctx)
	if err != nil {
		if errors.Is(err, state.ErrSnapshotNotFound) {
			s.logger.InfoContext(ctx, "no persisted playback state, starting idle")
			return nil
		}
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	if snapshot.TimelineId == 0 {
		return nil
	}

	timeline, err := s.library.GetTimeline(ctx, snapshot.TimelineId)
	if err != nil {
		s.logger.WarnContext(ctx, "persisted playback state references a missing timeline, starting idle",
			"timeline_id", snapshot.TimelineId,
			"error", err,
		)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.timeline = &timeline
	s.currentIndex = snapshot.CurrentIndex
	if len(timeline.Items) > 0 && s.currentIndex >= len(timeline.Items) {
		s.logger.WarnContext(ctx, "persisted index beyond timeline end, clamping",
			"current_index", snapshot.CurrentIndex,
			"items", len(timeline.Items),
		)
		s.currentIndex = len(timeline.Items) - 1
	}
	s.timecodeMs = snapshot.TimecodeMs
	s.isPlaying = false
	s.phase = domain.PhasePaused

	s.logger.InfoContext(ctx, "playback state rehydrated",
		"timeline_id", timeline.Id,
		"current_index", s.currentIndex,
		"timecode_ms", s.timecodeMs,
		"was_playing", snapshot.IsPlaying,
	)

	return nil
}

// persistLocked writes the current position through the state repo. The
// in-memory transition has already happened and is not rolled back on failure:
// availability wins over durability during a live show. The error is recorded
// so the public operation can report degraded storage after releasing the lock.
func (s *service) persistLocked(ctx context.Context) {
	var timelineId int64
	if s.timeline != nil {
		timelineId = s.timeline.Id
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.stateRepo.SetSnapshot(persistCtx, &state.Snapshot{
		TimelineId:   timelineId,
		CurrentIndex: s.currentIndex,
		TimecodeMs:   s.timecodeMs,
		IsPlaying:    s.isPlaying,
		UpdatedAt:    s.now().Unix(),
	}); err != nil {
		s.metrics.IncPersistFailures()
		s.logger.ErrorContext(ctx, "failed to persist playback state", "error", err)
		s.persistErr = err
	}
}

// takePersistErrLocked returns and clears the persist failure recorded by the
// locked operation that just ran.
func (s *service) takePersistErrLocked() error {
	err := s.persistErr
	s.persistErr = nil
	return err
}

// reportStorageDegraded warns operators that recovery-on-restart is at risk.
func (s *service) reportStorageDegraded(persistErr error) {
	s.conns.Broadcast(domain.ChannelControl, &domain.Message{
		Type: domain.MsgControlStorageDegraded,
		Payload: map[string]any{
			"error": persistErr.Error(),
		},
	})
}

func (s *service) currentTimecodeLocked() int64 {
	if !s.isPlaying || s.playbackStartTime.IsZero() {
		return s.timecodeMs
	}

	elapsed := s.now().Sub(s.playbackStartTime)
	return s.initialOffsetMs + elapsed.Milliseconds()
}

// State is a point-in-time view of the machine, used for late-joiner catch-up.
type State struct {
	Timeline     *domain.Timeline
	CurrentIndex int
	TimecodeMs   int64
	IsPlaying    bool
	Phase        domain.PlaybackPhase
}

func (s *service) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Timeline:     s.timeline,
		CurrentIndex: s.currentIndex,
		TimecodeMs:   s.currentTimecodeLocked(),
		IsPlaying:    s.isPlaying,
		Phase:        s.phase,
	}
}

// CurrentTimecode returns the live timecode in milliseconds. Reading never
// mutates state; only Pause freezes the value.
func (s *service) CurrentTimecode() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentTimecodeLocked()
}

// CurrentItem returns the item at the current index, or false when no timeline
// is loaded or the index is out of bounds.
func (s *service) CurrentItem() (domain.TimelineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timeline == nil || len(s.timeline.Items) == 0 {
		return nil, false
	}
	if s.currentIndex < 0 || s.currentIndex >= len(s.timeline.Items) {
		return nil, false
	}

	return domain.TimelineItem(s.timeline.Items[s.currentIndex]), true
}
