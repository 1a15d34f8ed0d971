package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/primetime/server/pkg/ctxlogger"
	"github.com/primetime/server/pkg/wsrouter"
)

func (c controller) wsRequestIdMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", uuid.NewString()))
			return next(ctx, conn, payload)
		}
	}
}

func (c controller) wsLoggerMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			ctx = ctxlogger.AppendCtx(ctx, slog.String("session_id", c.getSessionIdFromCtx(ctx)))

			start := time.Now()

			err := next(ctx, conn, payload)
			if err != nil {
				c.logger.WarnContext(ctx, "websocket message failed",
					"processing_time_us", time.Since(start).Microseconds(),
					"error", err,
				)
				return err
			}

			c.logger.InfoContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
			)

			return nil
		}
	}
}

func (c controller) wsMetricsMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			c.metrics.IncMessagesRelayed(wsrouter.GetMessageTypeFromCtx(ctx))
			return next(ctx, conn, payload)
		}
	}
}
