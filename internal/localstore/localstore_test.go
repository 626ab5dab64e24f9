package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("seeds default templates and settings", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)

		templates, err := store.Templates()
		require.NoError(t, err)
		require.NotEmpty(t, templates)

		settings, err := store.Settings()
		require.NoError(t, err)
		require.Equal(t, models.DefaultCurrency, settings.Currency)
	})

	t.Run("does not reseed an existing store", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := Open(dir)
		require.NoError(t, err)

		templates, err := store.Templates()
		require.NoError(t, err)
		require.NoError(t, store.DeleteTemplate(templates[0].ID))

		reopened, err := Open(dir)
		require.NoError(t, err)
		after, err := reopened.Templates()
		require.NoError(t, err)
		require.Len(t, after, len(templates)-1)
	})
}

func TestSaveCampaign(t *testing.T) {
	t.Parallel()

	t.Run("insert assigns id, code and timestamps", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)

		saved, err := store.SaveCampaign(models.Campaign{
			Name: "Masjid renovation",
			Goal: decimal.NewFromInt(5000),
		})
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)
		require.Len(t, saved.Code, models.CampaignCodeLength)
		require.False(t, saved.CreatedAt.IsZero())
		require.Equal(t, saved.CreatedAt, saved.UpdatedAt)
	})

	t.Run("update keeps code and creation time", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)

		saved, err := store.SaveCampaign(models.Campaign{Name: "Original", Goal: decimal.NewFromInt(100)})
		require.NoError(t, err)

		saved.Name = "Renamed"
		saved.Code = "0000" // must be ignored
		updated, err := store.SaveCampaign(*saved)
		require.NoError(t, err)
		require.Equal(t, "Renamed", updated.Name)
		require.NotEqual(t, "0000", updated.Code)
		require.Equal(t, saved.CreatedAt, updated.CreatedAt)
	})

	t.Run("rejects negative goal", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)

		_, err := store.SaveCampaign(models.Campaign{Name: "Bad", Goal: decimal.NewFromInt(-1)})
		require.Error(t, err)
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("rejects unknown id", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)

		_, err := store.SaveCampaign(models.Campaign{ID: "nope", Name: "Ghost", Goal: decimal.Zero})
		require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("codes are unique across campaigns", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)

		seen := map[string]bool{}
		for range 50 {
			saved, err := store.SaveCampaign(models.Campaign{Name: "C", Goal: decimal.Zero})
			require.NoError(t, err)
			require.False(t, seen[saved.Code], "code %s assigned twice", saved.Code)
			seen[saved.Code] = true
		}
	})
}

func TestDeleteCampaign(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	campaign, err := store.SaveCampaign(models.Campaign{Name: "Doomed", Goal: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = store.SaveContributor(models.Contributor{
		CampaignID: campaign.ID, Name: "Ayaan", Amount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	payment, err := store.SavePayment(models.Payment{
		CampaignID: campaign.ID, ReporterName: "Hodan", Amount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteCampaign(campaign.ID))

	t.Run("campaign is gone", func(t *testing.T) {
		_, err := store.Campaign(campaign.ID)
		require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("contributors cascade", func(t *testing.T) {
		contributors, err := store.Contributors(campaign.ID)
		require.NoError(t, err)
		require.Empty(t, contributors)
	})

	t.Run("payments survive", func(t *testing.T) {
		payments, err := store.Payments(campaign.ID)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		require.Equal(t, payment.ID, payments[0].ID)
	})

	t.Run("deleting again reports not found", func(t *testing.T) {
		require.True(t, apperr.IsKind(store.DeleteCampaign(campaign.ID), apperr.KindNotFound))
	})
}

func TestSaveContributor(t *testing.T) {
	t.Parallel()

	t.Run("normalizes phone on save", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)
		campaign, err := store.SaveCampaign(models.Campaign{Name: "C", Goal: decimal.Zero})
		require.NoError(t, err)

		saved, err := store.SaveContributor(models.Contributor{
			CampaignID: campaign.ID,
			Name:       "Ayaan",
			Phone:      "063 4433221",
			Amount:     decimal.NewFromInt(20),
		})
		require.NoError(t, err)
		require.Equal(t, "252634433221", saved.Phone)
		require.Equal(t, models.ContributorStatusPending, saved.Status)

		// Saving the already normalized number changes nothing.
		again, err := store.SaveContributor(*saved)
		require.NoError(t, err)
		require.Equal(t, saved.Phone, again.Phone)
	})

	t.Run("rejects missing campaign reference", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)
		_, err := store.SaveContributor(models.Contributor{Name: "X", Amount: decimal.Zero})
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)
		_, err := store.SaveContributor(models.Contributor{
			CampaignID: "c1", Name: "X", Amount: decimal.NewFromInt(-5),
		})
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestSettings(t *testing.T) {
	t.Parallel()

	t.Run("save and reload", func(t *testing.T) {
		t.Parallel()
		store := setupStore(t)

		require.NoError(t, store.SaveSettings(models.Settings{
			Currency:             "SLSH",
			Language:             "so",
			DefaultPaymentNumber: "252634433221",
		}))

		settings, err := store.Settings()
		require.NoError(t, err)
		require.Equal(t, "SLSH", settings.Currency)
		// Symbol filled in from the supported currency table.
		require.Equal(t, models.SupportedCurrencies["SLSH"], settings.CurrencySymbol)
	})

	t.Run("corrupt settings file falls back to defaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := Open(dir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{nope"), 0o644))

		settings, err := store.Settings()
		require.NoError(t, err)
		require.Equal(t, models.DefaultSettings(), settings)
	})
}

func TestCorruptCollectionReadsAsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "campaigns.json"), []byte("not json"), 0o644))

	campaigns, err := store.Campaigns()
	require.NoError(t, err)
	require.Empty(t, campaigns)

	// The store stays writable after corruption.
	_, err = store.SaveCampaign(models.Campaign{Name: "Fresh start", Goal: decimal.Zero})
	require.NoError(t, err)
}

func TestLogs(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	campaign, err := store.SaveCampaign(models.Campaign{Name: "C", Goal: decimal.NewFromInt(100)})
	require.NoError(t, err)

	payment, err := store.SavePayment(models.Payment{
		CampaignID: campaign.ID, ReporterName: "Hodan", Amount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	_, err = store.ApprovePayment(payment.ID)
	require.NoError(t, err)

	entries, err := store.Logs(campaign.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "payment_approved", entries[0].Action)
	require.Contains(t, entries[0].Detail, "Hodan")
}
