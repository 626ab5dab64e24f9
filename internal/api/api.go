// Package api exposes the data-access facade over HTTP. Routing is
// go-chi; authentication is a static bearer-token scheme that resolves
// each request to a session before the handlers run.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ololeeye/ololeeye/internal/facade"
	"github.com/ololeeye/ololeeye/internal/logger"
)

// Server holds the HTTP handlers' dependencies.
type Server struct {
	facade *facade.Facade
	// tokens maps bearer tokens to user IDs.
	tokens map[string]string
}

// New creates the HTTP server layer over the facade.
func New(f *facade.Facade, tokens map[string]string) *Server {
	return &Server{facade: f, tokens: tokens}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.withSession)

	r.Route("/api", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", s.listCampaigns)
			r.Post("/", s.createCampaign)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getCampaign)
				r.Put("/", s.updateCampaign)
				r.Delete("/", s.deleteCampaign)
				r.Get("/stats", s.campaignStats)
				r.Get("/contributors", s.campaignContributors)
				r.Get("/payments", s.campaignPayments)
			})
		})

		r.Route("/contributors", func(r chi.Router) {
			r.Get("/", s.listContributors)
			r.Post("/", s.createContributor)
			r.Put("/{id}", s.updateContributor)
			r.Delete("/{id}", s.deleteContributor)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", s.listPayments)
			r.Post("/", s.createPayment)
			r.Post("/approve-all", s.approveAllPayments)
			r.Post("/{id}/approve", s.approvePayment)
			r.Post("/{id}/reject", s.rejectPayment)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/performance", s.performance)
			r.Get("/top-campaigns", s.topCampaigns)
			r.Get("/top-contributors", s.topContributors)
			r.Get("/breakdown", s.breakdown)
			r.Get("/breakdown/chart", s.breakdownChart)
			r.Get("/timeline", s.timeline)
			r.Get("/timeline/chart", s.timelineChart)
			r.Get("/collection-rate", s.collectionRate)
			r.Get("/collected", s.collectedIn)
			r.Get("/success", s.success)
			r.Get("/recent", s.recent)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.listTemplates)
			r.Post("/", s.saveTemplate)
			r.Put("/{id}", s.saveTemplate)
			r.Delete("/{id}", s.deleteTemplate)
		})

		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.saveSettings)
		r.Get("/logs", s.listLogs)
		r.Get("/export", s.exportAll)
		r.Post("/import", s.importAll)
		r.Post("/migrate", s.migrate)
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
