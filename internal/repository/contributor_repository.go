package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ololeeye/ololeeye/internal/database"
	"github.com/ololeeye/ololeeye/internal/models"
)

// ContributorRepository handles contributor database operations.
// Contributor reads are not owner-filtered; access control happens at the
// campaign level.
type ContributorRepository struct {
	db database.PGXDB
}

// NewContributorRepository creates a new ContributorRepository.
func NewContributorRepository(db database.PGXDB) *ContributorRepository {
	return &ContributorRepository{db: db}
}

const contributorColumns = `id, campaign_id, name, phone, amount, status, payment_id, created_at, updated_at`

// GetByCampaign retrieves the contributors of a campaign. An empty
// campaignID retrieves all contributors.
func (r *ContributorRepository) GetByCampaign(ctx context.Context, campaignID string) ([]models.Contributor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+contributorColumns+`
		FROM contributors
		WHERE ($1 = '' OR campaign_id = $1)
		ORDER BY created_at DESC, id DESC
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributors: %w", err)
	}
	defer rows.Close()

	var contributors []models.Contributor
	for rows.Next() {
		var c models.Contributor
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.Name, &c.Phone, &c.Amount,
			&c.Status, &c.PaymentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		contributors = append(contributors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributors: %w", err)
	}
	return contributors, nil
}

// GetByID retrieves a contributor by ID.
func (r *ContributorRepository) GetByID(ctx context.Context, id string) (*models.Contributor, error) {
	var c models.Contributor
	err := r.db.QueryRow(ctx, `
		SELECT `+contributorColumns+`
		FROM contributors WHERE id = $1
	`, id).Scan(&c.ID, &c.CampaignID, &c.Name, &c.Phone, &c.Amount,
		&c.Status, &c.PaymentID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contributor: %w", err)
	}
	return &c, nil
}

// Create adds a new contributor. The phone number is normalized before the
// insert.
func (r *ContributorRepository) Create(ctx context.Context, contributor *models.Contributor) error {
	contributor.Phone = models.NormalizePhone(contributor.Phone)
	if contributor.Status == "" {
		contributor.Status = models.ContributorStatusPending
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO contributors (campaign_id, name, phone, amount, status, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, contributor.CampaignID, contributor.Name, contributor.Phone,
		contributor.Amount, contributor.Status, contributor.PaymentID,
	).Scan(&contributor.ID, &contributor.CreatedAt, &contributor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contributor: %w", err)
	}
	return nil
}

// Update modifies an existing contributor.
func (r *ContributorRepository) Update(ctx context.Context, contributor *models.Contributor) error {
	contributor.Phone = models.NormalizePhone(contributor.Phone)

	tag, err := r.db.Exec(ctx, `
		UPDATE contributors SET
			name = $2,
			phone = $3,
			amount = $4,
			status = $5,
			payment_id = $6,
			updated_at = NOW()
		WHERE id = $1
	`, contributor.ID, contributor.Name, contributor.Phone,
		contributor.Amount, contributor.Status, contributor.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to update contributor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a contributor by ID.
func (r *ContributorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contributors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contributor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
