package playback

import (
	"context"
	"time"

	"github.com/primetime/server/internal/domain"
)

// RunTimecodeUpdates periodically broadcasts the live timecode to every
// show-channel connection while playing. It blocks until ctx is cancelled and
// is meant to run as a single goroutine started at process startup. Sends are
// bounded per connection by the registry's write deadline, so one stalled
// renderer cannot delay a tick for the others.
func (s *service) RunTimecodeUpdates(ctx context.Context) {
	ticker := time.NewTicker(s.updatesInterval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "timecode publisher started", "interval", s.updatesInterval)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "timecode publisher stopped")
			return
		case <-ticker.C:
			s.mu.Lock()
			playing := s.isPlaying
			timecode := s.currentTimecodeLocked()
			s.mu.Unlock()

			if !playing {
				continue
			}

			s.metrics.IncTimecodeTicks()
			s.conns.Broadcast(domain.ChannelShow, &domain.Message{
				Type: domain.MsgShowSetTimecode,
				Payload: map[string]any{
					"timecode_ms": timecode,
				},
			})
		}
	}
}
