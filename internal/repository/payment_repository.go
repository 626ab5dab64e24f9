package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ololeeye/ololeeye/internal/database"
	"github.com/ololeeye/ololeeye/internal/models"
)

// PaymentRepository handles self-reported payment database operations.
// Like contributors, payment reads are not owner-filtered.
type PaymentRepository struct {
	db database.PGXDB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db database.PGXDB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, campaign_id, reporter_name, amount, status, created_at, approved_at, rejected_at`

// GetByCampaign retrieves the payments of a campaign, newest first. An
// empty campaignID retrieves all payments.
func (r *PaymentRepository) GetByCampaign(ctx context.Context, campaignID string) ([]models.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE ($1 = '' OR campaign_id = $1)
		ORDER BY created_at DESC, id DESC
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.ReporterName, &p.Amount,
			&p.Status, &p.CreatedAt, &p.ApprovedAt, &p.RejectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE id = $1
	`, id).Scan(&p.ID, &p.CampaignID, &p.ReporterName, &p.Amount,
		&p.Status, &p.CreatedAt, &p.ApprovedAt, &p.RejectedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

// Create adds a new self-reported payment with status pending.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (campaign_id, reporter_name, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, payment.CampaignID, payment.ReporterName, payment.Amount, payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Approve transitions a pending payment to approved and records the
// compensating paid contributor in the same transaction, so the two
// records never diverge.
func (r *PaymentRepository) Approve(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, ErrNotPending
	}
	if !payment.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	run := func(db database.PGXDB) error {
		err := db.QueryRow(ctx, `
			UPDATE payments SET status = $2, approved_at = NOW()
			WHERE id = $1 AND status = $3
			RETURNING approved_at
		`, id, models.PaymentStatusApproved, models.PaymentStatusPending,
		).Scan(&payment.ApprovedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotPending
		}
		if err != nil {
			return fmt.Errorf("failed to approve payment: %w", err)
		}

		// Update the contributor already linked to this payment, or
		// create the paid contributor record.
		tag, err := db.Exec(ctx, `
			UPDATE contributors SET amount = $2, status = $3, updated_at = NOW()
			WHERE payment_id = $1
		`, id, payment.Amount, models.ContributorStatusPaid)
		if err != nil {
			return fmt.Errorf("failed to update linked contributor: %w", err)
		}
		if tag.RowsAffected() == 0 {
			_, err = db.Exec(ctx, `
				INSERT INTO contributors (campaign_id, name, phone, amount, status, payment_id)
				VALUES ($1, $2, '', $3, $4, $5)
			`, payment.CampaignID, payment.ReporterName, payment.Amount,
				models.ContributorStatusPaid, id)
			if err != nil {
				return fmt.Errorf("failed to create paid contributor: %w", err)
			}
		}
		return nil
	}

	if beginner, ok := r.db.(database.TxBeginner); ok {
		tx, err := beginner.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to begin approval transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := run(tx); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit approval: %w", err)
		}
	} else if err := run(r.db); err != nil {
		return nil, err
	}

	payment.Status = models.PaymentStatusApproved
	return payment, nil
}

// Reject transitions a pending payment to rejected.
func (r *PaymentRepository) Reject(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, ErrNotPending
	}

	err = r.db.QueryRow(ctx, `
		UPDATE payments SET status = $2, rejected_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING rejected_at
	`, id, models.PaymentStatusRejected, models.PaymentStatusPending,
	).Scan(&payment.RejectedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reject payment: %w", err)
	}

	payment.Status = models.PaymentStatusRejected
	return payment, nil
}
