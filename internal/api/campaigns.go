package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ololeeye/ololeeye/internal/models"
)

type campaignRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Goal           decimal.Decimal `json:"goal"`
	Deadline       *time.Time      `json:"deadline"`
	CoordinatorPIN string          `json:"coordinatorPin"`
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.facade.ListCampaigns(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) getCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.facade.GetCampaign(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	campaign, err := s.facade.SaveCampaign(r.Context(), sessionFrom(r), models.Campaign{
		Name:           req.Name,
		Description:    req.Description,
		Goal:           req.Goal,
		Deadline:       req.Deadline,
		CoordinatorPIN: req.CoordinatorPIN,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (s *Server) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	campaign, err := s.facade.SaveCampaign(r.Context(), sessionFrom(r), models.Campaign{
		ID:             chi.URLParam(r, "id"),
		Name:           req.Name,
		Description:    req.Description,
		Goal:           req.Goal,
		Deadline:       req.Deadline,
		CoordinatorPIN: req.CoordinatorPIN,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := s.facade.DeleteCampaign(r.Context(), sessionFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) campaignStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.facade.CampaignStats(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) campaignContributors(w http.ResponseWriter, r *http.Request) {
	contributors, err := s.facade.ListContributors(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributors)
}

func (s *Server) campaignPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.facade.ListPayments(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
