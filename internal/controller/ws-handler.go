package controller

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/pkg/wsrouter"
)

func (c controller) controlWS(w http.ResponseWriter, r *http.Request) {
	c.serveChannel(w, r, domain.ChannelControl, c.controlMux)
}

func (c controller) showWS(w http.ResponseWriter, r *http.Request) {
	c.serveChannel(w, r, domain.ChannelShow, c.showMux)
}

func (c controller) serveChannel(w http.ResponseWriter, r *http.Request, channel domain.Channel, mux *wsrouter.WSRouter) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	sessionId := uuid.NewString()
	if err := c.conns.Add(conn, sessionId, channel); err != nil {
		c.logger.WarnContext(r.Context(), "failed to register session", "error", err)
		conn.Close()
		return
	}
	c.metrics.SetConnections(string(channel), c.conns.Count(channel))
	c.logger.InfoContext(r.Context(), "session connected", "session_id", sessionId, "channel", string(channel))

	defer func() {
		c.conns.RemoveByConn(conn)
		c.metrics.SetConnections(string(channel), c.conns.Count(channel))
		// Disconnection is silent: peers detect liveness via their own pings.
		c.logger.InfoContext(r.Context(), "session disconnected", "session_id", sessionId, "channel", string(channel))
	}()

	if channel == domain.ChannelShow {
		c.pushCurrentTimeline(r.Context(), conn)
	}

	ctx := context.WithValue(r.Context(), sessionIdCtxKey, sessionId)
	ctx = context.WithValue(ctx, channelCtxKey, channel)

	if err := mux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(r.Context(), "connection closed", "session_id", sessionId, "error", err)
	}
}

// pushCurrentTimeline performs late-joiner catch-up: the show channel has no
// state query, so a renderer that connects mid-show is synchronized by an
// immediate push of the loaded timeline and position.
func (c controller) pushCurrentTimeline(ctx context.Context, conn *websocket.Conn) {
	playbackState := c.playbackService.CurrentState()
	if playbackState.Timeline == nil {
		return
	}

	if err := c.conns.SendToConn(conn, &domain.Message{
		Type:    domain.MsgShowLoadTimeline,
		Payload: loadTimelinePayload(playbackState.Timeline, playbackState.CurrentIndex, playbackState.TimecodeMs, playbackState.IsPlaying),
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to push timeline to late joiner", "error", err)
	}
}

func loadTimelinePayload(timeline *domain.Timeline, currentIndex int, timecodeMs int64, isPlaying bool) map[string]any {
	return map[string]any{
		"timeline":      timeline,
		"current_index": currentIndex,
		"timecode_ms":   timecodeMs,
		"is_playing":    isPlaying,
	}
}
