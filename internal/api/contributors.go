package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ololeeye/ololeeye/internal/models"
)

type contributorRequest struct {
	CampaignID string          `json:"campaignId"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
}

func (s *Server) listContributors(w http.ResponseWriter, r *http.Request) {
	contributors, err := s.facade.ListContributors(r.Context(), sessionFrom(r), r.URL.Query().Get("campaignId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributors)
}

func (s *Server) createContributor(w http.ResponseWriter, r *http.Request) {
	var req contributorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	contributor, err := s.facade.SaveContributor(r.Context(), sessionFrom(r), models.Contributor{
		CampaignID: req.CampaignID,
		Name:       req.Name,
		Phone:      req.Phone,
		Amount:     req.Amount,
		Status:     req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contributor)
}

func (s *Server) updateContributor(w http.ResponseWriter, r *http.Request) {
	var req contributorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	contributor, err := s.facade.SaveContributor(r.Context(), sessionFrom(r), models.Contributor{
		ID:         chi.URLParam(r, "id"),
		CampaignID: req.CampaignID,
		Name:       req.Name,
		Phone:      req.Phone,
		Amount:     req.Amount,
		Status:     req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributor)
}

func (s *Server) deleteContributor(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.DeleteContributor(r.Context(), sessionFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
