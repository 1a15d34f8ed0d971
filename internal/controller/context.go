package controller

import (
	"context"

	"github.com/primetime/server/internal/domain"
)

type contextKey int

const (
	sessionIdCtxKey contextKey = iota
	channelCtxKey
)

func (c controller) getSessionIdFromCtx(ctx context.Context) string {
	sessionId, ok := ctx.Value(sessionIdCtxKey).(string)
	if !ok {
		return ""
	}

	return sessionId
}

func (c controller) getChannelFromCtx(ctx context.Context) domain.Channel {
	channel, ok := ctx.Value(channelCtxKey).(domain.Channel)
	if !ok {
		return ""
	}

	return channel
}
