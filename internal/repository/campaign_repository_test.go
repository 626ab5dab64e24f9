package repository

import (
	"context"
	"testing"

	"github.com/ololeeye/ololeeye/internal/database"
	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupCampaignTest(t *testing.T) (*CampaignRepository, *ProfileRepository, context.Context) {
	t.Helper()
	tx := database.TestTx(t)
	return NewCampaignRepository(tx), NewProfileRepository(tx), context.Background()
}

func createProfile(t *testing.T, profiles *ProfileRepository, ctx context.Context, id string) {
	t.Helper()
	require.NoError(t, profiles.Upsert(ctx, &models.Profile{ID: id, Name: "Test User", Phone: "0634433221"}))
}

func TestCampaignRepository_Create(t *testing.T) {
	t.Parallel()
	campaigns, profiles, ctx := setupCampaignTest(t)
	createProfile(t, profiles, ctx, "user-1")

	campaign := &models.Campaign{
		Name:        "Masjid renovation",
		Description: "New roof before the rains",
		Goal:        decimal.NewFromInt(5000),
		UserID:      "user-1",
	}
	require.NoError(t, campaigns.Create(ctx, campaign))
	require.NotEmpty(t, campaign.ID)
	require.Len(t, campaign.Code, models.CampaignCodeLength)
	require.False(t, campaign.CreatedAt.IsZero())

	t.Run("codes are unique per user", func(t *testing.T) {
		second := &models.Campaign{Name: "Second", Goal: decimal.Zero, UserID: "user-1"}
		require.NoError(t, campaigns.Create(ctx, second))
		require.NotEqual(t, campaign.Code, second.Code)
	})
}

func TestCampaignRepository_UserScoping(t *testing.T) {
	t.Parallel()
	campaigns, profiles, ctx := setupCampaignTest(t)
	createProfile(t, profiles, ctx, "owner")
	createProfile(t, profiles, ctx, "other")

	campaign := &models.Campaign{Name: "Private", Goal: decimal.NewFromInt(100), UserID: "owner"}
	require.NoError(t, campaigns.Create(ctx, campaign))

	t.Run("owner sees the campaign", func(t *testing.T) {
		fetched, err := campaigns.GetByID(ctx, campaign.ID, "owner")
		require.NoError(t, err)
		require.Equal(t, campaign.Name, fetched.Name)

		list, err := campaigns.GetAllByUser(ctx, "owner")
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("other user does not", func(t *testing.T) {
		_, err := campaigns.GetByID(ctx, campaign.ID, "other")
		require.ErrorIs(t, err, ErrNotFound)

		list, err := campaigns.GetAllByUser(ctx, "other")
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("other user cannot update or delete", func(t *testing.T) {
		stolen := *campaign
		stolen.UserID = "other"
		stolen.Name = "Hijacked"
		require.ErrorIs(t, campaigns.Update(ctx, &stolen), ErrNotFound)
		require.ErrorIs(t, campaigns.Delete(ctx, campaign.ID, "other"), ErrNotFound)
	})
}

func TestCampaignRepository_Update(t *testing.T) {
	t.Parallel()
	campaigns, profiles, ctx := setupCampaignTest(t)
	createProfile(t, profiles, ctx, "user-1")

	campaign := &models.Campaign{Name: "Before", Goal: decimal.NewFromInt(100), UserID: "user-1"}
	require.NoError(t, campaigns.Create(ctx, campaign))
	originalCode := campaign.Code

	campaign.Name = "After"
	campaign.Goal = decimal.NewFromInt(250)
	require.NoError(t, campaigns.Update(ctx, campaign))

	fetched, err := campaigns.GetByID(ctx, campaign.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, "After", fetched.Name)
	require.True(t, fetched.Goal.Equal(decimal.NewFromInt(250)))
	require.Equal(t, originalCode, fetched.Code)
}

func TestCampaignRepository_DeleteCascade(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	campaigns := NewCampaignRepository(tx)
	profiles := NewProfileRepository(tx)
	contributors := NewContributorRepository(tx)
	payments := NewPaymentRepository(tx)

	createProfile(t, profiles, ctx, "user-1")
	campaign := &models.Campaign{Name: "Doomed", Goal: decimal.NewFromInt(100), UserID: "user-1"}
	require.NoError(t, campaigns.Create(ctx, campaign))

	contributor := &models.Contributor{CampaignID: campaign.ID, Name: "Ayaan", Amount: decimal.NewFromInt(20)}
	require.NoError(t, contributors.Create(ctx, contributor))
	payment := &models.Payment{CampaignID: campaign.ID, ReporterName: "Hodan", Amount: decimal.NewFromInt(30)}
	require.NoError(t, payments.Create(ctx, payment))

	require.NoError(t, campaigns.Delete(ctx, campaign.ID, "user-1"))

	t.Run("contributors cascade", func(t *testing.T) {
		list, err := contributors.GetByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("payments survive", func(t *testing.T) {
		list, err := payments.GetByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}
