package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ololeeye/ololeeye/internal/models"
)

// paymentRequest carries the amount as free text: payments are
// self-reported by contributors typing into a form, so "70 USD" and
// "12.5" both need to land.
type paymentRequest struct {
	CampaignID   string `json:"campaignId"`
	ReporterName string `json:"reporterName"`
	Amount       string `json:"amount"`
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.facade.ListPayments(r.Context(), sessionFrom(r), r.URL.Query().Get("campaignId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	payment, err := s.facade.SavePayment(r.Context(), sessionFrom(r), models.Payment{
		CampaignID:   req.CampaignID,
		ReporterName: req.ReporterName,
		Amount:       models.ParseAmount(req.Amount),
		Status:       models.PaymentStatusPending,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) approvePayment(w http.ResponseWriter, r *http.Request) {
	payment, err := s.facade.ApprovePayment(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) rejectPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := s.facade.RejectPayment(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) approveAllPayments(w http.ResponseWriter, r *http.Request) {
	approved, err := s.facade.ApproveAllPayments(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"approved": approved})
}
