package api

import (
	"net/http"
	"strconv"

	"github.com/ololeeye/ololeeye/internal/apperr"
)

// intQuery reads a positive integer query parameter, falling back to a
// default for absent or unusable values.
func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (s *Server) performance(w http.ResponseWriter, r *http.Request) {
	performance, err := s.facade.Performance(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, performance)
}

func (s *Server) topCampaigns(w http.ResponseWriter, r *http.Request) {
	top, err := s.facade.TopCampaigns(r.Context(), sessionFrom(r), intQuery(r, "n", 5))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) topContributors(w http.ResponseWriter, r *http.Request) {
	top, err := s.facade.TopContributors(r.Context(), sessionFrom(r), intQuery(r, "n", 5))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) breakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.facade.Breakdown(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	points, err := s.facade.Timeline(r.Context(), sessionFrom(r), intQuery(r, "days", 30))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) collectionRate(w http.ResponseWriter, r *http.Request) {
	rate, err := s.facade.CollectionRate(r.Context(), sessionFrom(r), intQuery(r, "days", 30))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"perDay": rate})
}

func (s *Server) success(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.facade.Success(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) {
	activity, err := s.facade.Recent(r.Context(), sessionFrom(r), intQuery(r, "n", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) collectedIn(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		writeError(w, apperr.New(apperr.KindValidation, "currency query parameter is required"))
		return
	}
	conversion, err := s.facade.CollectedIn(r.Context(), sessionFrom(r), currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversion)
}

func (s *Server) timelineChart(w http.ResponseWriter, r *http.Request) {
	png, err := s.facade.TimelineChart(r.Context(), sessionFrom(r), intQuery(r, "days", 30))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) breakdownChart(w http.ResponseWriter, r *http.Request) {
	png, err := s.facade.BreakdownChart(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
