package stats

import (
	"testing"
	"time"

	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/stretchr/testify/require"
)

func TestTimelineChart(t *testing.T) {
	t.Parallel()

	t.Run("renders a PNG", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		contributors := []models.Contributor{
			{Amount: amt(30), Status: models.ContributorStatusPaid, UpdatedAt: now},
			{Amount: amt(10), Status: models.ContributorStatusPaid, UpdatedAt: now.AddDate(0, 0, -3)},
		}

		buf, err := TimelineChart(Timeline(contributors, 7, now), "Collections - 7 days")
		require.NoError(t, err)
		require.NotEmpty(t, buf)
		// PNG magic bytes.
		require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf[:4])
	})

	t.Run("empty timeline errors", func(t *testing.T) {
		t.Parallel()
		_, err := TimelineChart(nil, "empty")
		require.Error(t, err)
	})
}

func TestBreakdownChart(t *testing.T) {
	t.Parallel()

	t.Run("renders a PNG", func(t *testing.T) {
		t.Parallel()
		contributors := []models.Contributor{
			{Amount: amt(20), Status: models.ContributorStatusPaid},
			{Amount: amt(30), Status: models.ContributorStatusPending},
		}

		buf, err := BreakdownChart(Breakdown(contributors), "Status breakdown")
		require.NoError(t, err)
		require.NotEmpty(t, buf)
	})

	t.Run("no contributors errors", func(t *testing.T) {
		t.Parallel()
		_, err := BreakdownChart(Breakdown(nil), "empty")
		require.Error(t, err)
	})
}
