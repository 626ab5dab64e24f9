package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ololeeye/ololeeye/internal/database"
	"github.com/ololeeye/ololeeye/internal/models"
)

// CampaignRepository handles campaign database operations. Every query is
// scoped to the owning user: a campaign is only visible to and mutable by
// the account that created it.
type CampaignRepository struct {
	db database.PGXDB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db database.PGXDB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `id, code, name, description, goal, deadline, coordinator_pin, user_id, created_at, updated_at`

// GetAllByUser retrieves all campaigns owned by a user, newest first.
func (r *CampaignRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Campaign, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %w", err)
	}
	return campaigns, nil
}

// GetByID retrieves a campaign owned by the given user.
func (r *CampaignRepository) GetByID(ctx context.Context, id, userID string) (*models.Campaign, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create adds a new campaign for the user, assigning a 4-digit code unique
// among that user's campaigns.
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	rows, err := r.db.Query(ctx, `SELECT code FROM campaigns WHERE user_id = $1`, campaign.UserID)
	if err != nil {
		return fmt.Errorf("failed to query campaign codes: %w", err)
	}
	var used []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan campaign code: %w", err)
		}
		used = append(used, code)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating campaign codes: %w", err)
	}

	code, err := models.GenerateCampaignCode(used)
	if err != nil {
		return fmt.Errorf("failed to assign campaign code: %w", err)
	}
	campaign.Code = code

	err = r.db.QueryRow(ctx, `
		INSERT INTO campaigns (code, name, description, goal, deadline, coordinator_pin, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, campaign.Code, campaign.Name, campaign.Description, campaign.Goal,
		campaign.Deadline, campaign.CoordinatorPIN, campaign.UserID,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// Update modifies an existing campaign owned by the user. The code and
// creation time never change.
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE campaigns SET
			name = $3,
			description = $4,
			goal = $5,
			deadline = $6,
			coordinator_pin = $7,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, campaign.ID, campaign.UserID, campaign.Name, campaign.Description,
		campaign.Goal, campaign.Deadline, campaign.CoordinatorPIN)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a campaign owned by the user. Contributors cascade at the
// schema level; payments are kept.
func (r *CampaignRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM campaigns WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanCampaign scans one campaign row.
func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Goal,
		&c.Deadline, &c.CoordinatorPIN, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	return &c, nil
}
