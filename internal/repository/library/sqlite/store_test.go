package sqlite

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/repository/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"), Options{BusyTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func items(n int) []byte {
	raw := make([]json.RawMessage, 0, n)
	for i := 0; i < n; i++ {
		raw = append(raw, json.RawMessage(`{"type":"card"}`))
	}
	encoded, _ := json.Marshal(raw)
	return encoded
}

func TestCreateAndGetTimeline(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name:      "friday night",
		ThemeId:   "neon-chalkboard",
		ItemsJSON: items(3),
		Notes:     "dress rehearsal",
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.Equal(t, "friday night", created.Name)
	assert.Equal(t, "neon-chalkboard", created.ThemeId)
	assert.Len(t, created.Items, 3)
	assert.Equal(t, "dress rehearsal", created.Notes)
	assert.True(t, created.IsActive)
	assert.NotZero(t, created.CreatedAt)

	got, err := store.GetTimeline(created.Id)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetTimelineNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetTimeline(999)
	require.ErrorIs(t, err, library.ErrTimelineNotFound)
}

func TestCreateActiveTimelineDeactivatesPrevious(t *testing.T) {
	store := newTestStore(t)

	first, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name: "first", ItemsJSON: items(1), IsActive: true,
	})
	require.NoError(t, err)

	second, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name: "second", ItemsJSON: items(1), IsActive: true,
	})
	require.NoError(t, err)

	active, err := store.GetActiveTimeline()
	require.NoError(t, err)
	assert.Equal(t, second.Id, active.Id)

	firstReloaded, err := store.GetTimeline(first.Id)
	require.NoError(t, err)
	assert.False(t, firstReloaded.IsActive)
}

func TestGetActiveTimelineNoneActive(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name: "inactive", ItemsJSON: items(1),
	})
	require.NoError(t, err)

	_, err = store.GetActiveTimeline()
	require.ErrorIs(t, err, library.ErrTimelineNotFound)
}

func TestUpdateTimelinePartialFields(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name:      "original",
		ThemeId:   "neon-chalkboard",
		ItemsJSON: items(2),
		Notes:     "keep me",
	})
	require.NoError(t, err)

	newName := "renamed"
	updated, err := store.UpdateTimeline(&library.UpdateTimelineParams{
		TimelineId: created.Id,
		Name:       &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "neon-chalkboard", updated.ThemeId)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, "keep me", updated.Notes)
}

func TestUpdateTimelineReplacesItems(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name: "show", ItemsJSON: items(2),
	})
	require.NoError(t, err)

	updated, err := store.UpdateTimeline(&library.UpdateTimelineParams{
		TimelineId: created.Id,
		ItemsJSON:  items(5),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 5)
}

func TestUpdateTimelineNotFound(t *testing.T) {
	store := newTestStore(t)

	name := "ghost"
	_, err := store.UpdateTimeline(&library.UpdateTimelineParams{
		TimelineId: 42,
		Name:       &name,
	})
	require.ErrorIs(t, err, library.ErrTimelineNotFound)
}

func TestUpdateTimelineActivationDeactivatesOthers(t *testing.T) {
	store := newTestStore(t)

	first, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name: "first", ItemsJSON: items(1), IsActive: true,
	})
	require.NoError(t, err)

	second, err := store.CreateTimeline(&library.CreateTimelineParams{
		Name: "second", ItemsJSON: items(1),
	})
	require.NoError(t, err)

	isActive := true
	_, err = store.UpdateTimeline(&library.UpdateTimelineParams{
		TimelineId: second.Id,
		IsActive:   &isActive,
	})
	require.NoError(t, err)

	active, err := store.GetActiveTimeline()
	require.NoError(t, err)
	assert.Equal(t, second.Id, active.Id)

	firstReloaded, err := store.GetTimeline(first.Id)
	require.NoError(t, err)
	assert.False(t, firstReloaded.IsActive)
}

func TestListTimelines(t *testing.T) {
	store := newTestStore(t)

	timelines, err := store.ListTimelines()
	require.NoError(t, err)
	assert.Empty(t, timelines)

	_, err = store.CreateTimeline(&library.CreateTimelineParams{Name: "a", ItemsJSON: items(1)})
	require.NoError(t, err)
	_, err = store.CreateTimeline(&library.CreateTimelineParams{Name: "b", ItemsJSON: items(1)})
	require.NoError(t, err)

	timelines, err = store.ListTimelines()
	require.NoError(t, err)
	assert.Len(t, timelines, 2)
}

func TestSettingsUpsertAndSeed(t *testing.T) {
	store := newTestStore(t)

	// Seeded on open.
	theme, err := store.GetSetting("theme")
	require.NoError(t, err)
	assert.Contains(t, theme.Value, "neon-chalkboard")

	volume, err := store.GetSetting("master_volume")
	require.NoError(t, err)
	assert.Equal(t, "0.8", volume.Value)

	_, err = store.GetSetting("operator_ui_layout")
	require.NoError(t, err)

	updated, err := store.SetSetting("master_volume", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.5", updated.Value)

	reloaded, err := store.GetSetting("master_volume")
	require.NoError(t, err)
	assert.Equal(t, "0.5", reloaded.Value)

	// Reopening must not overwrite user changes.
	require.NoError(t, store.SeedDefaultSettings())
	reloaded, err = store.GetSetting("master_volume")
	require.NoError(t, err)
	assert.Equal(t, "0.5", reloaded.Value)
}

func TestGetSettingNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSetting("no-such-key")
	require.ErrorIs(t, err, library.ErrSettingNotFound)
}

func testAsset(id string) *domain.Asset {
	width, height := 1920, 1080
	return &domain.Asset{
		Id:            id,
		Type:          "image",
		Path:          "media/" + id + ".png",
		Width:         &width,
		Height:        &height,
		FileSizeBytes: 1024,
		MimeType:      "image/png",
		AddedAt:       time.Now().Unix(),
	}
}

func TestSaveAndGetAsset(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveAsset(testAsset("asset-1")))

	got, err := store.GetAsset("asset-1")
	require.NoError(t, err)
	assert.Equal(t, "image", got.Type)
	assert.Equal(t, "media/asset-1.png", got.Path)
	require.NotNil(t, got.Width)
	assert.Equal(t, 1920, *got.Width)

	_, err = store.GetAsset("no-such-asset")
	require.ErrorIs(t, err, library.ErrAssetNotFound)
}

func TestListAssetsFiltersErroredAndByType(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveAsset(testAsset("image-1")))

	video := testAsset("video-1")
	video.Type = "video"
	require.NoError(t, store.SaveAsset(video))

	broken := testAsset("broken-1")
	errorState := "file missing"
	broken.ErrorState = &errorState
	require.NoError(t, store.SaveAsset(broken))

	all, err := store.ListAssets("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	videos, err := store.ListAssets("video")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "video-1", videos[0].Id)
}

func TestThumbnailRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveAsset(testAsset("asset-1")))
	require.NoError(t, store.SaveThumbnail(&domain.AssetThumbnail{
		AssetId:   "asset-1",
		Size:      "small",
		Width:     160,
		Height:    90,
		Blob:      []byte{0xff, 0xd8, 0xff},
		CreatedAt: time.Now().Unix(),
	}))

	got, err := store.GetThumbnail("asset-1", "small")
	require.NoError(t, err)
	assert.Equal(t, 160, got.Width)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, got.Blob)

	_, err = store.GetThumbnail("asset-1", "large")
	require.ErrorIs(t, err, library.ErrThumbnailNotFound)
}
