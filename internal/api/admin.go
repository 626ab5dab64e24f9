package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ololeeye/ololeeye/internal/localstore"
	"github.com/ololeeye/ololeeye/internal/models"
)

type templateRequest struct {
	MessageType string   `json:"messageType"`
	Name        string   `json:"name"`
	Body        string   `json:"body"`
	Variables   []string `json:"variables"`
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.facade.ListTemplates(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// saveTemplate serves both create (POST, no id) and update (PUT /{id}).
func (s *Server) saveTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	template, err := s.facade.SaveTemplate(r.Context(), sessionFrom(r), models.Template{
		ID:          chi.URLParam(r, "id"),
		MessageType: req.MessageType,
		Name:        req.Name,
		Body:        req.Body,
		Variables:   req.Variables,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.DeleteTemplate(r.Context(), sessionFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.facade.GetSettings(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := decodeBody(r, &settings); err != nil {
		writeError(w, err)
		return
	}
	if err := s.facade.SaveSettings(r.Context(), sessionFrom(r), settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.facade.ListLogs(r.Context(), sessionFrom(r), r.URL.Query().Get("campaignId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) exportAll(w http.ResponseWriter, r *http.Request) {
	payload, err := s.facade.ExportAll(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="ololeeye-export.json"`)
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) importAll(w http.ResponseWriter, r *http.Request) {
	var payload localstore.ExportPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := s.facade.ImportAll(r.Context(), sessionFrom(r), &payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) migrate(w http.ResponseWriter, r *http.Request) {
	report, err := s.facade.MigrateLocalToRemote(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
