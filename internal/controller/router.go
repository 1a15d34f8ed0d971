package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Get("/metrics", c.metrics.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Route("/ws", func(r chi.Router) {
			r.Get("/control", c.controlWS)
			r.Get("/show", c.showWS)
		})

		r.Route("/timelines", func(r chi.Router) {
			r.Get("/", c.listTimelines)
			r.Post("/", c.createTimeline)
			r.Get("/active", c.getActiveTimeline)
			r.Route("/{timeline-id}", func(r chi.Router) {
				r.Get("/", c.getTimeline)
				r.Put("/", c.updateTimeline)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", c.getSetting)
				r.Put("/", c.setSetting)
			})
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", c.listAssets)
			r.Route("/{asset-id}", func(r chi.Router) {
				r.Get("/", c.getAsset)
				r.Get("/thumbnail", c.getAssetThumbnail)
			})
		})
	})

	return r
}
