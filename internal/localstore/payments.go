package localstore

import (
	"fmt"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/logger"
	"github.com/ololeeye/ololeeye/internal/models"
)

// Payments returns payments, filtered to one campaign when campaignID is
// non-empty.
func (s *Store) Payments(campaignID string) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := readCollection[models.Payment](s.path(paymentsFile))
	if campaignID == "" {
		return payments, nil
	}
	var filtered []models.Payment
	for _, p := range payments {
		if p.CampaignID == campaignID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// SavePayment inserts or replaces a self-reported payment by ID. Amounts
// are deliberately not validated here: a contributor can report anything,
// and the coordinator decides at approval time.
func (s *Store) SavePayment(payment models.Payment) (*models.Payment, error) {
	if payment.CampaignID == "" {
		return nil, apperr.New(apperr.KindValidation, "payment campaign is required")
	}
	if payment.ReporterName == "" {
		return nil, apperr.New(apperr.KindValidation, "payment reporter name is required")
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payments := readCollection[models.Payment](s.path(paymentsFile))
	now := s.now()

	if payment.ID == "" {
		payment.ID = GenerateID(now)
		payment.CreatedAt = now
		payments = append(payments, payment)
	} else {
		idx := -1
		for i, p := range payments {
			if p.ID == payment.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, apperr.New(apperr.KindNotFound, "payment not found")
		}
		payment.CreatedAt = payments[idx].CreatedAt
		payments[idx] = payment
	}

	if err := writeFile(s.path(paymentsFile), payments); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ApprovePayment transitions a pending payment to approved and records the
// compensating contributor: a paid contributor for the same amount, linked
// through PaymentID. An audit log entry is appended.
func (s *Store) ApprovePayment(id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approvePaymentLocked(id)
}

func (s *Store) approvePaymentLocked(id string) (*models.Payment, error) {
	payments := readCollection[models.Payment](s.path(paymentsFile))
	idx := -1
	for i, p := range payments {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.New(apperr.KindNotFound, "payment not found")
	}
	payment := payments[idx]

	if payment.Status != models.PaymentStatusPending {
		return nil, apperr.New(apperr.KindValidation,
			fmt.Sprintf("payment is %s, only pending payments can be approved", payment.Status))
	}
	if !payment.Amount.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "payment amount must be positive")
	}

	now := s.now()
	payment.Status = models.PaymentStatusApproved
	payment.ApprovedAt = &now
	payments[idx] = payment
	if err := writeFile(s.path(paymentsFile), payments); err != nil {
		return nil, err
	}

	// Create the paid contributor, or update the one already linked to
	// this payment if the approval is replayed after a partial failure.
	contributors := readCollection[models.Contributor](s.path(contributorsFile))
	linked := -1
	for i, c := range contributors {
		if c.PaymentID == payment.ID {
			linked = i
			break
		}
	}
	if linked >= 0 {
		contributors[linked].Amount = payment.Amount
		contributors[linked].Status = models.ContributorStatusPaid
		contributors[linked].UpdatedAt = now
	} else {
		contributors = append(contributors, models.Contributor{
			ID:         GenerateID(now),
			CampaignID: payment.CampaignID,
			Name:       payment.ReporterName,
			Amount:     payment.Amount,
			Status:     models.ContributorStatusPaid,
			PaymentID:  payment.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if err := writeFile(s.path(contributorsFile), contributors); err != nil {
		return nil, err
	}

	if err := s.appendLog(payment.CampaignID, "payment_approved",
		fmt.Sprintf("approved payment of %s from %s", payment.Amount.String(), payment.ReporterName)); err != nil {
		return nil, err
	}

	return &payment, nil
}

// RejectPayment transitions a pending payment to rejected.
func (s *Store) RejectPayment(id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := readCollection[models.Payment](s.path(paymentsFile))
	idx := -1
	for i, p := range payments {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.New(apperr.KindNotFound, "payment not found")
	}
	payment := payments[idx]

	if payment.Status != models.PaymentStatusPending {
		return nil, apperr.New(apperr.KindValidation,
			fmt.Sprintf("payment is %s, only pending payments can be rejected", payment.Status))
	}

	now := s.now()
	payment.Status = models.PaymentStatusRejected
	payment.RejectedAt = &now
	payments[idx] = payment
	if err := writeFile(s.path(paymentsFile), payments); err != nil {
		return nil, err
	}

	if err := s.appendLog(payment.CampaignID, "payment_rejected",
		fmt.Sprintf("rejected payment of %s from %s", payment.Amount.String(), payment.ReporterName)); err != nil {
		return nil, err
	}

	return &payment, nil
}

// ApproveAllPayments approves every pending payment. A failing payment is
// logged and skipped; the batch continues and the count of successful
// approvals is returned.
func (s *Store) ApproveAllPayments() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := readCollection[models.Payment](s.path(paymentsFile))
	var pendingIDs []string
	for _, p := range payments {
		if p.Status == models.PaymentStatusPending {
			pendingIDs = append(pendingIDs, p.ID)
		}
	}

	approved := 0
	for _, id := range pendingIDs {
		if _, err := s.approvePaymentLocked(id); err != nil {
			logger.For("localstore").Warn().Str("payment_id", id).Err(err).
				Msg("Skipping payment in approve-all batch")
			continue
		}
		approved++
	}
	return approved, nil
}
