package facade

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/exchange"
	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/ololeeye/ololeeye/internal/session"
	"github.com/ololeeye/ololeeye/internal/stats"
)

// snapshot holds one consistent-enough read of the routed collections for
// aggregation. The three lists come from the same store, but are not a
// transaction; analytics tolerate that.
type snapshot struct {
	campaigns    []models.Campaign
	contributors []models.Contributor
	payments     []models.Payment
}

func (f *Facade) snapshot(ctx context.Context, sess *session.Session) (*snapshot, error) {
	campaigns, err := f.ListCampaigns(ctx, sess)
	if err != nil {
		return nil, err
	}
	contributors, err := f.ListContributors(ctx, sess, "")
	if err != nil {
		return nil, err
	}
	payments, err := f.ListPayments(ctx, sess, "")
	if err != nil {
		return nil, err
	}
	return &snapshot{campaigns: campaigns, contributors: contributors, payments: payments}, nil
}

// CampaignStats computes the headline numbers for one campaign.
func (f *Facade) CampaignStats(ctx context.Context, sess *session.Session, id string) (*stats.CampaignStats, error) {
	campaign, err := f.GetCampaign(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.New(apperr.KindNotFound, "campaign not found")
	}
	contributors, err := f.ListContributors(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	payments, err := f.ListPayments(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	s := stats.ForCampaign(*campaign, contributors, payments)
	return &s, nil
}

// Performance computes per-campaign performance across all of the caller's
// campaigns.
func (f *Facade) Performance(ctx context.Context, sess *session.Session) ([]stats.CampaignPerformance, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	return stats.Performance(snap.campaigns, snap.contributors, snap.payments), nil
}

// TopCampaigns returns the n campaigns with the highest collected totals.
func (f *Facade) TopCampaigns(ctx context.Context, sess *session.Session, n int) ([]stats.CampaignPerformance, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	return stats.TopCampaigns(snap.campaigns, snap.contributors, n), nil
}

// TopContributors returns the n contributors with the highest paid totals
// across all campaigns.
func (f *Facade) TopContributors(ctx context.Context, sess *session.Session, n int) ([]stats.TopContributor, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	return stats.TopContributors(snap.contributors, n), nil
}

// Breakdown returns contributor counts and amounts per status.
func (f *Facade) Breakdown(ctx context.Context, sess *session.Session) (*stats.StatusBreakdown, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	b := stats.Breakdown(snap.contributors)
	return &b, nil
}

// Timeline returns daily collection totals for the trailing days window.
func (f *Facade) Timeline(ctx context.Context, sess *session.Session, days int) ([]stats.TimelinePoint, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	return stats.Timeline(snap.contributors, days, f.now()), nil
}

// CollectionRate returns the average amount collected per day over the
// trailing window.
func (f *Facade) CollectionRate(ctx context.Context, sess *session.Session, days int) (decimal.Decimal, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return decimal.Zero, err
	}
	return stats.CollectionRate(snap.contributors, days, f.now()), nil
}

// Success returns goal-completion metrics across all campaigns.
func (f *Facade) Success(ctx context.Context, sess *session.Session) (*stats.SuccessMetrics, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	m := stats.Success(snap.campaigns, snap.contributors)
	return &m, nil
}

// Recent returns the n newest contributor and payment events, merged.
func (f *Facade) Recent(ctx context.Context, sess *session.Session, n int) ([]stats.Activity, error) {
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	return stats.Recent(snap.contributors, snap.payments, n), nil
}

// CollectedIn converts the total collected across all campaigns from the
// store currency into the given display currency.
func (f *Facade) CollectedIn(ctx context.Context, sess *session.Session, currency string) (*exchange.Conversion, error) {
	if f.converter == nil {
		return nil, apperr.New(apperr.KindOffline, "currency conversion is not configured")
	}
	settings, err := f.GetSettings(ctx, sess)
	if err != nil {
		return nil, err
	}
	snap, err := f.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, c := range snap.contributors {
		if c.Status == models.ContributorStatusPaid {
			total = total.Add(c.Amount)
		}
	}
	if total.IsZero() {
		return &exchange.Conversion{Amount: decimal.Zero, Rate: decimal.New(1, 0), AsOf: f.now()}, nil
	}

	conversion, err := f.converter.Convert(ctx, total, settings.Currency, currency)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, "convert collected total", err)
	}
	return &conversion, nil
}

// TimelineChart renders the timeline as a PNG line chart.
func (f *Facade) TimelineChart(ctx context.Context, sess *session.Session, days int) ([]byte, error) {
	points, err := f.Timeline(ctx, sess, days)
	if err != nil {
		return nil, err
	}
	png, err := stats.TimelineChart(points, "Collections")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "render timeline chart", err)
	}
	return png, nil
}

// BreakdownChart renders the status breakdown as a PNG pie chart.
func (f *Facade) BreakdownChart(ctx context.Context, sess *session.Session) ([]byte, error) {
	breakdown, err := f.Breakdown(ctx, sess)
	if err != nil {
		return nil, err
	}
	png, err := stats.BreakdownChart(*breakdown, "Contributors by status")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "render breakdown chart", err)
	}
	return png, nil
}
