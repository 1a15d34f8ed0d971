package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/service/playback"
	"github.com/primetime/server/pkg/wsrouter"
)

func (c *controller) getControlWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdMw())
	mux.Use(c.wsLoggerMw())
	mux.Use(c.wsMetricsMw())

	mux.Handle(domain.MsgControlPlay, wsrouter.Typed(c.handleControlPlay))
	mux.Handle(domain.MsgControlPause, wsrouter.Typed(c.handleControlPause))
	mux.Handle(domain.MsgControlJump, wsrouter.Typed(c.handleControlJump))
	mux.Handle(domain.MsgControlSkip, wsrouter.Typed(c.handleControlSkip))
	mux.Handle(domain.MsgControlSaveTimeline, wsrouter.Typed(c.handleControlSaveTimeline))
	mux.Handle(domain.MsgControlPing, wsrouter.Typed(c.handleControlPing))

	return mux
}

// rejectCommand reports a failed transport command back to the operator that
// issued it. The connection stays open: a bad command must never take the
// console down mid-show.
func (c controller) rejectCommand(ctx context.Context, conn *websocket.Conn, command string, err error) error {
	c.metrics.IncCommandsRejected()

	if sendErr := c.conns.SendToConn(conn, &domain.Message{
		Type: domain.MsgControlCommandRejected,
		Payload: map[string]string{
			"command": command,
			"error":   err.Error(),
		},
	}); sendErr != nil {
		c.logger.WarnContext(ctx, "failed to send command rejection", "error", sendErr)
	}

	return fmt.Errorf("command rejected: %w", err)
}

type controlPlayInput struct {
	Index *int `json:"index"`
}

func (c controller) handleControlPlay(ctx context.Context, conn *websocket.Conn, input controlPlayInput) error {
	resp, err := c.playbackService.Play(ctx, &playback.PlayParams{Index: input.Index})
	if err != nil {
		return c.rejectCommand(ctx, conn, domain.MsgControlPlay, err)
	}

	c.conns.Broadcast(domain.ChannelShow, &domain.Message{
		Type: domain.MsgShowPlay,
		Payload: map[string]any{
			"index":       resp.Index,
			"timecode_ms": resp.TimecodeMs,
		},
	})

	return nil
}

func (c controller) handleControlPause(ctx context.Context, conn *websocket.Conn, _ struct{}) error {
	resp, err := c.playbackService.Pause(ctx)
	if err != nil {
		return c.rejectCommand(ctx, conn, domain.MsgControlPause, err)
	}

	c.conns.Broadcast(domain.ChannelShow, &domain.Message{
		Type: domain.MsgShowPause,
		Payload: map[string]any{
			"index":       resp.Index,
			"timecode_ms": resp.TimecodeMs,
		},
	})

	return nil
}

type controlJumpInput struct {
	Index int `json:"index"`
}

func (c controller) handleControlJump(ctx context.Context, conn *websocket.Conn, input controlJumpInput) error {
	resp, err := c.playbackService.Jump(ctx, &playback.JumpParams{Index: input.Index})
	if err != nil {
		return c.rejectCommand(ctx, conn, domain.MsgControlJump, err)
	}

	c.conns.Broadcast(domain.ChannelShow, &domain.Message{
		Type: domain.MsgShowJump,
		Payload: map[string]any{
			"index": resp.Index,
		},
	})

	return nil
}

type controlSkipInput struct {
	Delta int `json:"delta"`
}

func (c controller) handleControlSkip(ctx context.Context, conn *websocket.Conn, input controlSkipInput) error {
	resp, err := c.playbackService.Skip(ctx, &playback.SkipParams{Delta: input.Delta})
	if err != nil {
		return c.rejectCommand(ctx, conn, domain.MsgControlSkip, err)
	}

	c.conns.Broadcast(domain.ChannelShow, &domain.Message{
		Type: domain.MsgShowSkip,
		Payload: map[string]any{
			"delta": resp.Delta,
			"index": resp.Index,
		},
	})

	return nil
}

func (c controller) handleControlSaveTimeline(ctx context.Context, conn *websocket.Conn, input domain.TimelineDefinition) error {
	if validationErrors, ok := c.validate.Validate(&input); !ok {
		messages := make([]string, 0, len(validationErrors))
		for _, validationError := range validationErrors {
			messages = append(messages, validationError.Message)
		}
		return c.rejectCommand(ctx, conn, domain.MsgControlSaveTimeline, fmt.Errorf("invalid timeline definition: %s", strings.Join(messages, "; ")))
	}

	timeline, err := c.playbackService.SaveTimeline(ctx, &input)
	if err != nil {
		return c.rejectCommand(ctx, conn, domain.MsgControlSaveTimeline, err)
	}

	c.conns.Broadcast(domain.ChannelShow, &domain.Message{
		Type:    domain.MsgShowLoadTimeline,
		Payload: loadTimelinePayload(&timeline, 0, 0, false),
	})

	return nil
}

type controlPingInput struct {
	Echo string `json:"echo"`
}

func (c controller) handleControlPing(ctx context.Context, conn *websocket.Conn, input controlPingInput) error {
	if err := c.conns.SendToConn(conn, &domain.Message{
		Type:    domain.MsgControlPong,
		Payload: map[string]string{"echo": input.Echo},
	}); err != nil {
		return fmt.Errorf("failed to send pong: %w", err)
	}

	return nil
}
