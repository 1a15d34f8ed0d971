package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/primetime/server/internal/domain"
	repository "github.com/primetime/server/internal/repository/library"
)

var (
	ErrTimelineNotFound  = errors.New("timeline not found")
	ErrSettingNotFound   = errors.New("setting not found")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrThumbnailNotFound = errors.New("thumbnail not found")
)

type iLibraryStore interface {
	CreateTimeline(*repository.CreateTimelineParams) (domain.Timeline, error)
	UpdateTimeline(*repository.UpdateTimelineParams) (domain.Timeline, error)
	GetTimeline(timelineId int64) (domain.Timeline, error)
	GetActiveTimeline() (domain.Timeline, error)
	ListTimelines() ([]domain.Timeline, error)
	GetSetting(key string) (domain.Setting, error)
	SetSetting(key, value string) (domain.Setting, error)
	GetAsset(assetId string) (domain.Asset, error)
	ListAssets(assetType string) ([]domain.Asset, error)
	GetThumbnail(assetId, size string) (domain.AssetThumbnail, error)
}

type service struct {
	store  iLibraryStore
	logger *slog.Logger
}

func NewService(store iLibraryStore, logger *slog.Logger) *service {
	return &service{
		store:  store,
		logger: logger,
	}
}

func (s service) ListTimelines(ctx context.Context) ([]domain.Timeline, error) {
	timelines, err := s.store.ListTimelines()
	if err != nil {
		return nil, fmt.Errorf("failed to list timelines: %w", err)
	}

	return timelines, nil
}

func (s service) GetTimeline(ctx context.Context, timelineId int64) (domain.Timeline, error) {
	timeline, err := s.store.GetTimeline(timelineId)
	if err != nil {
		if errors.Is(err, repository.ErrTimelineNotFound) {
			return domain.Timeline{}, ErrTimelineNotFound
		}
		return domain.Timeline{}, fmt.Errorf("failed to get timeline: %w", err)
	}

	return timeline, nil
}

func (s service) GetActiveTimeline(ctx context.Context) (domain.Timeline, error) {
	timeline, err := s.store.GetActiveTimeline()
	if err != nil {
		if errors.Is(err, repository.ErrTimelineNotFound) {
			return domain.Timeline{}, ErrTimelineNotFound
		}
		return domain.Timeline{}, fmt.Errorf("failed to get active timeline: %w", err)
	}

	return timeline, nil
}

type CreateTimelineParams struct {
	Definition domain.TimelineDefinition
	IsActive   bool
}

func (s service) CreateTimeline(ctx context.Context, params *CreateTimelineParams) (domain.Timeline, error) {
	itemsJSON, err := marshalItems(params.Definition.Items)
	if err != nil {
		return domain.Timeline{}, err
	}

	timeline, err := s.store.CreateTimeline(&repository.CreateTimelineParams{
		Name:      params.Definition.Name,
		ThemeId:   themeIdOrDefault(params.Definition.ThemeId),
		ItemsJSON: itemsJSON,
		Notes:     params.Definition.Notes,
		IsActive:  params.IsActive,
	})
	if err != nil {
		return domain.Timeline{}, fmt.Errorf("failed to create timeline: %w", err)
	}

	s.logger.InfoContext(ctx, "timeline created", "timeline_id", timeline.Id, "name", timeline.Name)
	return timeline, nil
}

type UpdateTimelineParams struct {
	TimelineId int64
	Name       *string
	ThemeId    *string
	Items      []json.RawMessage
	Notes      *string
	IsActive   *bool
}

func (s service) UpdateTimeline(ctx context.Context, params *UpdateTimelineParams) (domain.Timeline, error) {
	var itemsJSON []byte
	if params.Items != nil {
		encoded, err := marshalItems(params.Items)
		if err != nil {
			return domain.Timeline{}, err
		}
		itemsJSON = encoded
	}

	timeline, err := s.store.UpdateTimeline(&repository.UpdateTimelineParams{
		TimelineId: params.TimelineId,
		Name:       params.Name,
		ThemeId:    params.ThemeId,
		ItemsJSON:  itemsJSON,
		Notes:      params.Notes,
		IsActive:   params.IsActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrTimelineNotFound) {
			return domain.Timeline{}, ErrTimelineNotFound
		}
		return domain.Timeline{}, fmt.Errorf("failed to update timeline: %w", err)
	}

	return timeline, nil
}

// SaveActiveTimeline creates or updates the active timeline record from a
// definition: an existing active timeline is overwritten in place, otherwise a
// new active record is inserted (deactivating any previous one atomically).
func (s service) SaveActiveTimeline(ctx context.Context, definition *domain.TimelineDefinition) (domain.Timeline, error) {
	active, err := s.store.GetActiveTimeline()
	if err != nil {
		if !errors.Is(err, repository.ErrTimelineNotFound) {
			return domain.Timeline{}, fmt.Errorf("failed to get active timeline: %w", err)
		}

		return s.CreateTimeline(ctx, &CreateTimelineParams{
			Definition: *definition,
			IsActive:   true,
		})
	}

	themeId := themeIdOrDefault(definition.ThemeId)
	isActive := true
	timeline, err := s.UpdateTimeline(ctx, &UpdateTimelineParams{
		TimelineId: active.Id,
		Name:       &definition.Name,
		ThemeId:    &themeId,
		Items:      definition.Items,
		Notes:      &definition.Notes,
		IsActive:   &isActive,
	})
	if err != nil {
		return domain.Timeline{}, err
	}

	s.logger.InfoContext(ctx, "active timeline saved", "timeline_id", timeline.Id, "name", timeline.Name)
	return timeline, nil
}

func (s service) GetSetting(ctx context.Context, key string) (domain.Setting, error) {
	setting, err := s.store.GetSetting(key)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			return domain.Setting{}, ErrSettingNotFound
		}
		return domain.Setting{}, fmt.Errorf("failed to get setting: %w", err)
	}

	return setting, nil
}

func (s service) SetSetting(ctx context.Context, key, value string) (domain.Setting, error) {
	setting, err := s.store.SetSetting(key, value)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("failed to set setting: %w", err)
	}

	return setting, nil
}

func (s service) ListAssets(ctx context.Context, assetType string) ([]domain.Asset, error) {
	assets, err := s.store.ListAssets(assetType)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return assets, nil
}

func (s service) GetAsset(ctx context.Context, assetId string) (domain.Asset, error) {
	asset, err := s.store.GetAsset(assetId)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return domain.Asset{}, ErrAssetNotFound
		}
		return domain.Asset{}, fmt.Errorf("failed to get asset: %w", err)
	}

	return asset, nil
}

func (s service) GetThumbnail(ctx context.Context, assetId, size string) (domain.AssetThumbnail, error) {
	thumbnail, err := s.store.GetThumbnail(assetId, size)
	if err != nil {
		if errors.Is(err, repository.ErrThumbnailNotFound) {
			return domain.AssetThumbnail{}, ErrThumbnailNotFound
		}
		return domain.AssetThumbnail{}, fmt.Errorf("failed to get thumbnail: %w", err)
	}

	return thumbnail, nil
}

func marshalItems(items []json.RawMessage) ([]byte, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode timeline items: %w", err)
	}

	return encoded, nil
}

func themeIdOrDefault(themeId string) string {
	if themeId == "" {
		return "neon-chalkboard"
	}
	return themeId
}
