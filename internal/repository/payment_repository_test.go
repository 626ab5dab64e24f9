package repository

import (
	"context"
	"testing"

	"github.com/ololeeye/ololeeye/internal/database"
	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupPaymentTest(t *testing.T) (*PaymentRepository, *ContributorRepository, *models.Campaign, context.Context) {
	t.Helper()
	tx := database.TestTx(t)
	ctx := context.Background()

	profiles := NewProfileRepository(tx)
	require.NoError(t, profiles.Upsert(ctx, &models.Profile{ID: "user-1", Name: "Owner"}))

	campaigns := NewCampaignRepository(tx)
	campaign := &models.Campaign{Name: "Well construction", Goal: decimal.NewFromInt(100), UserID: "user-1"}
	require.NoError(t, campaigns.Create(ctx, campaign))

	return NewPaymentRepository(tx), NewContributorRepository(tx), campaign, ctx
}

func TestPaymentRepository_Approve(t *testing.T) {
	t.Parallel()
	payments, contributors, campaign, ctx := setupPaymentTest(t)

	payment := &models.Payment{CampaignID: campaign.ID, ReporterName: "Hodan", Amount: decimal.NewFromInt(30)}
	require.NoError(t, payments.Create(ctx, payment))
	require.Equal(t, models.PaymentStatusPending, payment.Status)

	approved, err := payments.Approve(ctx, payment.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	t.Run("creates a linked paid contributor", func(t *testing.T) {
		list, err := contributors.GetByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, models.ContributorStatusPaid, list[0].Status)
		require.Equal(t, payment.ID, list[0].PaymentID)
		require.True(t, list[0].Amount.Equal(payment.Amount))
	})

	t.Run("second approval fails", func(t *testing.T) {
		_, err := payments.Approve(ctx, payment.ID)
		require.ErrorIs(t, err, ErrNotPending)
	})
}

func TestPaymentRepository_ApproveUpdatesLinkedContributor(t *testing.T) {
	t.Parallel()
	payments, contributors, campaign, ctx := setupPaymentTest(t)

	payment := &models.Payment{CampaignID: campaign.ID, ReporterName: "Hodan", Amount: decimal.NewFromInt(45)}
	require.NoError(t, payments.Create(ctx, payment))

	// A contributor already linked to the payment gets updated, not
	// duplicated.
	existing := &models.Contributor{
		CampaignID: campaign.ID, Name: "Hodan", Amount: decimal.NewFromInt(45),
		Status: models.ContributorStatusPending, PaymentID: payment.ID,
	}
	require.NoError(t, contributors.Create(ctx, existing))

	_, err := payments.Approve(ctx, payment.ID)
	require.NoError(t, err)

	list, err := contributors.GetByCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, models.ContributorStatusPaid, list[0].Status)
}

func TestPaymentRepository_ApproveRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()
	payments, contributors, campaign, ctx := setupPaymentTest(t)

	payment := &models.Payment{CampaignID: campaign.ID, ReporterName: "Hodan", Amount: decimal.Zero}
	require.NoError(t, payments.Create(ctx, payment))

	_, err := payments.Approve(ctx, payment.ID)
	require.Error(t, err)

	// The payment stays pending and no contributor appears.
	fetched, err := payments.GetByID(ctx, payment.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPending, fetched.Status)

	list, err := contributors.GetByCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPaymentRepository_Reject(t *testing.T) {
	t.Parallel()
	payments, contributors, campaign, ctx := setupPaymentTest(t)

	payment := &models.Payment{CampaignID: campaign.ID, ReporterName: "Hodan", Amount: decimal.NewFromInt(30)}
	require.NoError(t, payments.Create(ctx, payment))

	rejected, err := payments.Reject(ctx, payment.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt)

	_, err = payments.Reject(ctx, payment.ID)
	require.ErrorIs(t, err, ErrNotPending)

	list, err := contributors.GetByCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPaymentRepository_GetByID(t *testing.T) {
	t.Parallel()
	payments, _, _, ctx := setupPaymentTest(t)

	_, err := payments.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
