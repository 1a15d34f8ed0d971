package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/metrics"
	"github.com/primetime/server/internal/service/library"
	"github.com/primetime/server/internal/service/playback"
	"github.com/primetime/server/pkg/validator"
	"github.com/primetime/server/pkg/wsrouter"
)

type iPlaybackService interface {
	Play(ctx context.Context, params *playback.PlayParams) (playback.PlayResponse, error)
	Pause(ctx context.Context) (playback.PauseResponse, error)
	Jump(ctx context.Context, params *playback.JumpParams) (playback.JumpResponse, error)
	Skip(ctx context.Context, params *playback.SkipParams) (playback.SkipResponse, error)
	SaveTimeline(ctx context.Context, definition *domain.TimelineDefinition) (domain.Timeline, error)
	CurrentState() playback.State
	ReportTelemetry(ctx context.Context, params *playback.TelemetryParams)
}

type iLibraryService interface {
	ListTimelines(ctx context.Context) ([]domain.Timeline, error)
	GetTimeline(ctx context.Context, timelineId int64) (domain.Timeline, error)
	GetActiveTimeline(ctx context.Context) (domain.Timeline, error)
	CreateTimeline(ctx context.Context, params *library.CreateTimelineParams) (domain.Timeline, error)
	UpdateTimeline(ctx context.Context, params *library.UpdateTimelineParams) (domain.Timeline, error)
	GetSetting(ctx context.Context, key string) (domain.Setting, error)
	SetSetting(ctx context.Context, key, value string) (domain.Setting, error)
	ListAssets(ctx context.Context, assetType string) ([]domain.Asset, error)
	GetAsset(ctx context.Context, assetId string) (domain.Asset, error)
	GetThumbnail(ctx context.Context, assetId, size string) (domain.AssetThumbnail, error)
}

type iConnRegistry interface {
	Add(conn *websocket.Conn, sessionId string, channel domain.Channel) error
	RemoveByConn(conn *websocket.Conn) error
	Count(channel domain.Channel) int
	SendToConn(conn *websocket.Conn, msg *domain.Message) error
	Broadcast(channel domain.Channel, msg *domain.Message)
}

type controller struct {
	playbackService iPlaybackService
	libraryService  iLibraryService
	conns           iConnRegistry
	upgrader        websocket.Upgrader
	validate        *validator.Validator
	logger          *slog.Logger
	metrics         *metrics.Metrics
	controlMux      *wsrouter.WSRouter
	showMux         *wsrouter.WSRouter
}

func NewController(playbackService iPlaybackService, libraryService iLibraryService, conns iConnRegistry, m *metrics.Metrics, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		playbackService: playbackService,
		libraryService:  libraryService,
		conns:           conns,
		validate:        validator.NewValidator(),
		logger:          logger,
		metrics:         m,
	}
	c.controlMux = c.getControlWSRouter()
	c.showMux = c.getShowWSRouter()

	return c
}
