package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/service/library"
)

func (c controller) listTimelines(w http.ResponseWriter, r *http.Request) {
	timelines, err := c.libraryService.ListTimelines(r.Context())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to list timelines", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to list timelines")
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"timelines": timelines})
}

type createTimelineRequest struct {
	domain.TimelineDefinition
	IsActive bool `json:"is_active"`
}

func (c controller) createTimeline(w http.ResponseWriter, r *http.Request) {
	var req createTimelineRequest
	if err := c.decodeJSON(r, &req); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if validationErrors, ok := c.validate.Validate(&req.TimelineDefinition); !ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validationErrors})
		return
	}

	timeline, err := c.libraryService.CreateTimeline(r.Context(), &library.CreateTimelineParams{
		Definition: req.TimelineDefinition,
		IsActive:   req.IsActive,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create timeline", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to create timeline")
		return
	}

	c.writeJSON(w, http.StatusCreated, timeline)
}

func (c controller) getActiveTimeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := c.libraryService.GetActiveTimeline(r.Context())
	if err != nil {
		if errors.Is(err, library.ErrTimelineNotFound) {
			c.writeError(w, http.StatusNotFound, "no active timeline")
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get active timeline", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to get active timeline")
		return
	}

	c.writeJSON(w, http.StatusOK, timeline)
}

func (c controller) getTimeline(w http.ResponseWriter, r *http.Request) {
	timelineId, err := strconv.ParseInt(chi.URLParam(r, "timeline-id"), 10, 64)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid timeline id")
		return
	}

	timeline, err := c.libraryService.GetTimeline(r.Context(), timelineId)
	if err != nil {
		if errors.Is(err, library.ErrTimelineNotFound) {
			c.writeError(w, http.StatusNotFound, "timeline not found")
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get timeline", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to get timeline")
		return
	}

	c.writeJSON(w, http.StatusOK, timeline)
}

type updateTimelineRequest struct {
	Name     *string           `json:"name" validate:"omitempty,max=255"`
	ThemeId  *string           `json:"theme_id" validate:"omitempty,max=50"`
	Items    []json.RawMessage `json:"items"`
	Notes    *string           `json:"notes"`
	IsActive *bool             `json:"is_active"`
}

func (c controller) updateTimeline(w http.ResponseWriter, r *http.Request) {
	timelineId, err := strconv.ParseInt(chi.URLParam(r, "timeline-id"), 10, 64)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid timeline id")
		return
	}

	var req updateTimelineRequest
	if err := c.decodeJSON(r, &req); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if validationErrors, ok := c.validate.Validate(&req); !ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validationErrors})
		return
	}

	timeline, err := c.libraryService.UpdateTimeline(r.Context(), &library.UpdateTimelineParams{
		TimelineId: timelineId,
		Name:       req.Name,
		ThemeId:    req.ThemeId,
		Items:      req.Items,
		Notes:      req.Notes,
		IsActive:   req.IsActive,
	})
	if err != nil {
		if errors.Is(err, library.ErrTimelineNotFound) {
			c.writeError(w, http.StatusNotFound, "timeline not found")
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to update timeline", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to update timeline")
		return
	}

	c.writeJSON(w, http.StatusOK, timeline)
}

func (c controller) getSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	setting, err := c.libraryService.GetSetting(r.Context(), key)
	if err != nil {
		if errors.Is(err, library.ErrSettingNotFound) {
			c.writeError(w, http.StatusNotFound, "setting not found")
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get setting", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to get setting")
		return
	}

	c.writeJSON(w, http.StatusOK, setting)
}

type setSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

func (c controller) setSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req setSettingRequest
	if err := c.decodeJSON(r, &req); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if validationErrors, ok := c.validate.Validate(&req); !ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validationErrors})
		return
	}

	setting, err := c.libraryService.SetSetting(r.Context(), key, req.Value)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to set setting", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to set setting")
		return
	}

	c.writeJSON(w, http.StatusOK, setting)
}

func (c controller) listAssets(w http.ResponseWriter, r *http.Request) {
	assetType := strings.TrimSpace(r.URL.Query().Get("type"))

	assets, err := c.libraryService.ListAssets(r.Context(), assetType)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to list assets", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"assets": assets})
}

func (c controller) getAsset(w http.ResponseWriter, r *http.Request) {
	assetId := chi.URLParam(r, "asset-id")

	asset, err := c.libraryService.GetAsset(r.Context(), assetId)
	if err != nil {
		if errors.Is(err, library.ErrAssetNotFound) {
			c.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get asset", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}

	c.writeJSON(w, http.StatusOK, asset)
}

func (c controller) getAssetThumbnail(w http.ResponseWriter, r *http.Request) {
	assetId := chi.URLParam(r, "asset-id")

	size := r.URL.Query().Get("size")
	if size == "" {
		size = "small"
	}

	thumbnail, err := c.libraryService.GetThumbnail(r.Context(), assetId, size)
	if err != nil {
		if errors.Is(err, library.ErrThumbnailNotFound) {
			c.writeError(w, http.StatusNotFound, "thumbnail not found")
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get thumbnail", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to get thumbnail")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(thumbnail.Blob)
}
