package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/service/playback"
	"github.com/primetime/server/pkg/wsrouter"
)

func (c *controller) getShowWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdMw())
	mux.Use(c.wsLoggerMw())
	mux.Use(c.wsMetricsMw())

	mux.Handle(domain.MsgShowStatus, wsrouter.Typed(c.handleShowStatus))
	mux.Handle(domain.MsgShowError, wsrouter.Typed(c.handleShowError))
	mux.Handle(domain.MsgShowFpsUpdate, wsrouter.Typed(c.handleShowFps))
	mux.Handle(domain.MsgShowPing, wsrouter.Typed(c.handleShowPing))

	return mux
}

type showStatusInput struct {
	State      string `json:"state"`
	TimecodeMs *int64 `json:"timecode_ms"`
}

// handleShowStatus relays renderer status to every operator console. The
// reported timecode is advisory; the clock-derived one stays authoritative.
func (c controller) handleShowStatus(ctx context.Context, conn *websocket.Conn, input showStatusInput) error {
	sessionId := c.getSessionIdFromCtx(ctx)

	c.playbackService.ReportTelemetry(ctx, &playback.TelemetryParams{
		SessionId:  sessionId,
		State:      input.State,
		TimecodeMs: input.TimecodeMs,
	})

	c.conns.Broadcast(domain.ChannelControl, &domain.Message{
		Type: domain.MsgControlShowStatusUpdate,
		Payload: map[string]any{
			"session_id":  sessionId,
			"state":       input.State,
			"timecode_ms": input.TimecodeMs,
		},
	})

	return nil
}

type showErrorInput struct {
	Message string `json:"message"`
}

func (c controller) handleShowError(ctx context.Context, conn *websocket.Conn, input showErrorInput) error {
	sessionId := c.getSessionIdFromCtx(ctx)

	c.logger.WarnContext(ctx, "renderer reported error", "session_id", sessionId, "message", input.Message)

	c.conns.Broadcast(domain.ChannelControl, &domain.Message{
		Type: domain.MsgControlError,
		Payload: map[string]any{
			"session_id": sessionId,
			"message":    input.Message,
		},
	})

	return nil
}

type showFpsInput struct {
	Fps float64 `json:"fps"`
}

func (c controller) handleShowFps(ctx context.Context, conn *websocket.Conn, input showFpsInput) error {
	sessionId := c.getSessionIdFromCtx(ctx)

	c.playbackService.ReportTelemetry(ctx, &playback.TelemetryParams{
		SessionId: sessionId,
		Fps:       &input.Fps,
	})

	c.conns.Broadcast(domain.ChannelControl, &domain.Message{
		Type: domain.MsgControlShowFpsUpdate,
		Payload: map[string]any{
			"session_id": sessionId,
			"fps":        input.Fps,
		},
	})

	return nil
}

type showPingInput struct {
	Echo string `json:"echo"`
}

func (c controller) handleShowPing(ctx context.Context, conn *websocket.Conn, input showPingInput) error {
	if err := c.conns.SendToConn(conn, &domain.Message{
		Type:    domain.MsgShowPong,
		Payload: map[string]string{"echo": input.Echo},
	}); err != nil {
		return fmt.Errorf("failed to send pong: %w", err)
	}

	return nil
}
