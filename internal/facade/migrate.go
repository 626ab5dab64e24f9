package facade

import (
	"context"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/logger"
	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/ololeeye/ololeeye/internal/session"
)

// MigrationReport summarizes one local-to-remote copy.
type MigrationReport struct {
	Campaigns    int `json:"campaigns"`
	Contributors int `json:"contributors"`
	Payments     int `json:"payments"`
	// Success is true only when every campaign migrated cleanly.
	Success bool `json:"success"`
}

// MigrateLocalToRemote copies every local campaign, with its contributors
// and payments, into the remote store under the caller's account.
//
// The copy is sequential and campaign by campaign: when one campaign
// fails, it is logged and skipped, and the rest continue. Rows are
// re-created remotely so they get fresh IDs and the remote schema's
// timestamps; child rows are re-pointed at the new campaign ID.
//
// Running it twice duplicates the data. The local store is left
// untouched either way, so a failed run can simply be repeated after the
// remote side is cleaned up.
func (f *Facade) MigrateLocalToRemote(ctx context.Context, sess *session.Session) (*MigrationReport, error) {
	if f.remote == nil {
		return nil, apperr.New(apperr.KindOffline, "remote store is not configured")
	}
	if !sess.Authenticated() {
		return nil, apperr.New(apperr.KindAuth, "sign in to migrate data")
	}

	campaigns, err := f.local.Campaigns()
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{Success: true}
	for _, campaign := range campaigns {
		if err := f.migrateCampaign(ctx, sess, campaign, report); err != nil {
			logger.For("facade").Error().Err(err).
				Str("campaign_code", campaign.Code).
				Msg("failed to migrate campaign, skipping")
			report.Success = false
		}
	}
	return report, nil
}

func (f *Facade) migrateCampaign(ctx context.Context, sess *session.Session, campaign models.Campaign, report *MigrationReport) error {
	contributors, err := f.local.Contributors(campaign.ID)
	if err != nil {
		return err
	}
	payments, err := f.local.Payments(campaign.ID)
	if err != nil {
		return err
	}

	// The remote store assigns its own code, unique within the account;
	// a local code may already be taken by an earlier remote campaign.
	remote := models.Campaign{
		UserID:         sess.UserID,
		Name:           campaign.Name,
		Description:    campaign.Description,
		Goal:           campaign.Goal,
		Deadline:       campaign.Deadline,
		CoordinatorPIN: campaign.CoordinatorPIN,
	}
	cctx, cancel := f.withTimeout(ctx)
	err = f.remote.Campaigns.Create(cctx, &remote)
	cancel()
	if err != nil {
		return classifyRemote("migrate campaign", err)
	}
	report.Campaigns++

	for _, contributor := range contributors {
		row := contributor
		row.ID = ""
		row.CampaignID = remote.ID
		cctx, cancel := f.withTimeout(ctx)
		err := f.remote.Contributors.Create(cctx, &row)
		cancel()
		if err != nil {
			return classifyRemote("migrate contributor", err)
		}
		report.Contributors++
	}

	for _, payment := range payments {
		row := payment
		row.ID = ""
		row.CampaignID = remote.ID
		cctx, cancel := f.withTimeout(ctx)
		err := f.remote.Payments.Create(cctx, &row)
		cancel()
		if err != nil {
			return classifyRemote("migrate payment", err)
		}
		report.Payments++
	}

	logger.For("facade").Info().
		Str("campaign_code", remote.Code).
		Int("contributors", len(contributors)).
		Int("payments", len(payments)).
		Msg("migrated campaign")
	return nil
}
