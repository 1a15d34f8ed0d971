package library

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/primetime/server/internal/domain"
	repository "github.com/primetime/server/internal/repository/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	timelines map[int64]domain.Timeline
	settings  map[string]domain.Setting
	nextId    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		timelines: map[int64]domain.Timeline{},
		settings:  map[string]domain.Setting{},
	}
}

func (f *fakeStore) CreateTimeline(params *repository.CreateTimelineParams) (domain.Timeline, error) {
	if params.IsActive {
		for id, t := range f.timelines {
			t.IsActive = false
			f.timelines[id] = t
		}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(params.ItemsJSON, &items); err != nil {
		return domain.Timeline{}, err
	}

	f.nextId++
	timeline := domain.Timeline{
		Id:       f.nextId,
		Name:     params.Name,
		ThemeId:  params.ThemeId,
		Items:    items,
		Notes:    params.Notes,
		IsActive: params.IsActive,
	}
	f.timelines[timeline.Id] = timeline
	return timeline, nil
}

func (f *fakeStore) UpdateTimeline(params *repository.UpdateTimelineParams) (domain.Timeline, error) {
	timeline, ok := f.timelines[params.TimelineId]
	if !ok {
		return domain.Timeline{}, repository.ErrTimelineNotFound
	}

	if params.Name != nil {
		timeline.Name = *params.Name
	}
	if params.ThemeId != nil {
		timeline.ThemeId = *params.ThemeId
	}
	if params.ItemsJSON != nil {
		var items []json.RawMessage
		if err := json.Unmarshal(params.ItemsJSON, &items); err != nil {
			return domain.Timeline{}, err
		}
		timeline.Items = items
	}
	if params.Notes != nil {
		timeline.Notes = *params.Notes
	}
	if params.IsActive != nil {
		timeline.IsActive = *params.IsActive
	}

	f.timelines[params.TimelineId] = timeline
	return timeline, nil
}

func (f *fakeStore) GetTimeline(timelineId int64) (domain.Timeline, error) {
	timeline, ok := f.timelines[timelineId]
	if !ok {
		return domain.Timeline{}, repository.ErrTimelineNotFound
	}
	return timeline, nil
}

func (f *fakeStore) GetActiveTimeline() (domain.Timeline, error) {
	for _, t := range f.timelines {
		if t.IsActive {
			return t, nil
		}
	}
	return domain.Timeline{}, repository.ErrTimelineNotFound
}

func (f *fakeStore) ListTimelines() ([]domain.Timeline, error) {
	timelines := make([]domain.Timeline, 0, len(f.timelines))
	for _, t := range f.timelines {
		timelines = append(timelines, t)
	}
	return timelines, nil
}

func (f *fakeStore) GetSetting(key string) (domain.Setting, error) {
	setting, ok := f.settings[key]
	if !ok {
		return domain.Setting{}, repository.ErrSettingNotFound
	}
	return setting, nil
}

func (f *fakeStore) SetSetting(key, value string) (domain.Setting, error) {
	setting := domain.Setting{Key: key, Value: value}
	f.settings[key] = setting
	return setting, nil
}

func (f *fakeStore) GetAsset(assetId string) (domain.Asset, error) {
	return domain.Asset{}, repository.ErrAssetNotFound
}

func (f *fakeStore) ListAssets(assetType string) ([]domain.Asset, error) {
	return nil, nil
}

func (f *fakeStore) GetThumbnail(assetId, size string) (domain.AssetThumbnail, error) {
	return domain.AssetThumbnail{}, repository.ErrThumbnailNotFound
}

func newTestService() (*service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, slog.Default()), store
}

func TestCreateTimelineAppliesDefaultTheme(t *testing.T) {
	s, _ := newTestService()

	timeline, err := s.CreateTimeline(context.Background(), &CreateTimelineParams{
		Definition: domain.TimelineDefinition{Name: "untitled"},
	})
	require.NoError(t, err)
	assert.Equal(t, "neon-chalkboard", timeline.ThemeId)
	assert.NotNil(t, timeline.Items)
	assert.Empty(t, timeline.Items)
}

func TestCreateTimelineKeepsExplicitTheme(t *testing.T) {
	s, _ := newTestService()

	timeline, err := s.CreateTimeline(context.Background(), &CreateTimelineParams{
		Definition: domain.TimelineDefinition{Name: "styled", ThemeId: "midnight"},
	})
	require.NoError(t, err)
	assert.Equal(t, "midnight", timeline.ThemeId)
}

func TestGetTimelineMapsNotFound(t *testing.T) {
	s, _ := newTestService()

	_, err := s.GetTimeline(context.Background(), 42)
	require.ErrorIs(t, err, ErrTimelineNotFound)
}

func TestUpdateTimelineMapsNotFound(t *testing.T) {
	s, _ := newTestService()

	name := "ghost"
	_, err := s.UpdateTimeline(context.Background(), &UpdateTimelineParams{TimelineId: 42, Name: &name})
	require.ErrorIs(t, err, ErrTimelineNotFound)
}

func TestSaveActiveTimelineCreatesWhenNoneActive(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()

	timeline, err := s.SaveActiveTimeline(ctx, &domain.TimelineDefinition{
		Name:  "opening night",
		Items: []json.RawMessage{json.RawMessage(`{"type":"card"}`)},
	})
	require.NoError(t, err)
	assert.True(t, timeline.IsActive)
	assert.Len(t, store.timelines, 1)
}

func TestSaveActiveTimelineUpdatesExistingActive(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()

	first, err := s.SaveActiveTimeline(ctx, &domain.TimelineDefinition{
		Name:  "draft",
		Items: []json.RawMessage{},
	})
	require.NoError(t, err)

	second, err := s.SaveActiveTimeline(ctx, &domain.TimelineDefinition{
		Name:  "final cut",
		Items: []json.RawMessage{json.RawMessage(`{"type":"card"}`)},
	})
	require.NoError(t, err)

	// Same record, overwritten in place.
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, "final cut", second.Name)
	assert.Len(t, second.Items, 1)
	assert.Len(t, store.timelines, 1)
}

func TestSettingsPassThrough(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.GetSetting(ctx, "theme")
	require.ErrorIs(t, err, ErrSettingNotFound)

	saved, err := s.SetSetting(ctx, "master_volume", "0.4")
	require.NoError(t, err)
	assert.Equal(t, "0.4", saved.Value)

	got, err := s.GetSetting(ctx, "master_volume")
	require.NoError(t, err)
	assert.Equal(t, "0.4", got.Value)
}

func TestAssetLookupsMapNotFound(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.GetAsset(ctx, "missing")
	require.ErrorIs(t, err, ErrAssetNotFound)

	_, err = s.GetThumbnail(ctx, "missing", "small")
	require.ErrorIs(t, err, ErrThumbnailNotFound)
}
