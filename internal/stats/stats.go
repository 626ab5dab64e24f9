// Package stats derives display metrics from snapshots of campaigns,
// contributors and payments. Everything here is a pure function over
// already-fetched collections; no I/O happens in this package.
package stats

import (
	"sort"
	"time"

	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CampaignStats is the progress summary of one campaign.
type CampaignStats struct {
	Total           int             `json:"total"`
	PaidCount       int             `json:"paidCount"`
	PendingCount    int             `json:"pendingCount"`
	DeclinedCount   int             `json:"declinedCount"`
	Collected       decimal.Decimal `json:"collected"`
	Goal            decimal.Decimal `json:"goal"`
	Percent         int             `json:"percent"`
	Remaining       decimal.Decimal `json:"remaining"`
	PendingPayments int             `json:"pendingPayments"`
}

// ForCampaign computes the progress summary of one campaign from its
// contributors and payments. Percent is round(100*collected/goal) clamped
// to [0,100], and 0 when the goal is 0.
func ForCampaign(campaign models.Campaign, contributors []models.Contributor, payments []models.Payment) CampaignStats {
	s := CampaignStats{
		Goal:      campaign.Goal,
		Collected: decimal.Zero,
	}

	for _, c := range contributors {
		if c.CampaignID != campaign.ID {
			continue
		}
		s.Total++
		switch c.Status {
		case models.ContributorStatusPaid:
			s.PaidCount++
			s.Collected = s.Collected.Add(c.Amount)
		case models.ContributorStatusDeclined:
			s.DeclinedCount++
		default:
			s.PendingCount++
		}
	}

	for _, p := range payments {
		if p.CampaignID == campaign.ID && p.Status == models.PaymentStatusPending {
			s.PendingPayments++
		}
	}

	s.Collected = s.Collected.Round(2)
	s.Percent = percentOf(s.Collected, campaign.Goal)
	s.Remaining = campaign.Goal.Sub(s.Collected)
	if s.Remaining.IsNegative() {
		s.Remaining = decimal.Zero
	}
	return s
}

// percentOf is round(100*part/whole) clamped to [0,100]; 0 when whole is 0.
func percentOf(part, whole decimal.Decimal) int {
	if whole.IsZero() {
		return 0
	}
	percent := int(part.Mul(oneHundred).Div(whole).Round(0).IntPart())
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// CampaignPerformance pairs a campaign with its progress summary.
type CampaignPerformance struct {
	CampaignID   string          `json:"campaignId"`
	CampaignName string          `json:"campaignName"`
	Code         string          `json:"code"`
	Stats        CampaignStats   `json:"stats"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	Goal         decimal.Decimal `json:"goal"`
}

// Performance computes the progress summary of every campaign, in the
// input order.
func Performance(campaigns []models.Campaign, contributors []models.Contributor, payments []models.Payment) []CampaignPerformance {
	out := make([]CampaignPerformance, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, CampaignPerformance{
			CampaignID:   campaign.ID,
			CampaignName: campaign.Name,
			Code:         campaign.Code,
			Stats:        ForCampaign(campaign, contributors, payments),
			Deadline:     campaign.Deadline,
			Goal:         campaign.Goal,
		})
	}
	return out
}

// TopCampaigns returns the n campaigns with the highest collected amount.
// Ties keep the input order.
func TopCampaigns(campaigns []models.Campaign, contributors []models.Contributor, n int) []CampaignPerformance {
	perf := Performance(campaigns, contributors, nil)
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].Stats.Collected.GreaterThan(perf[j].Stats.Collected)
	})
	if n > 0 && len(perf) > n {
		perf = perf[:n]
	}
	return perf
}

// TopContributor is one entry of the cross-campaign contributor ranking.
type TopContributor struct {
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Contributions int             `json:"contributions"`
}

// TopContributors ranks contributors by their summed paid amounts across
// all campaigns. Contributors are identified by phone number when present,
// by name otherwise. Ties keep first-seen order.
func TopContributors(contributors []models.Contributor, n int) []TopContributor {
	index := map[string]int{}
	var ranked []TopContributor

	for _, c := range contributors {
		if c.Status != models.ContributorStatusPaid {
			continue
		}
		key := c.Phone
		if key == "" {
			key = c.Name
		}
		i, ok := index[key]
		if !ok {
			index[key] = len(ranked)
			ranked = append(ranked, TopContributor{Name: c.Name, Phone: c.Phone, TotalPaid: decimal.Zero})
			i = index[key]
		}
		ranked[i].TotalPaid = ranked[i].TotalPaid.Add(c.Amount)
		ranked[i].Contributions++
	}

	for i := range ranked {
		ranked[i].TotalPaid = ranked[i].TotalPaid.Round(2)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPaid.GreaterThan(ranked[j].TotalPaid)
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// StatusBreakdown counts contributors and sums amounts per status.
type StatusBreakdown struct {
	Counts  map[string]int             `json:"counts"`
	Amounts map[string]decimal.Decimal `json:"amounts"`
}

// Breakdown computes the contributor status breakdown.
func Breakdown(contributors []models.Contributor) StatusBreakdown {
	b := StatusBreakdown{
		Counts: map[string]int{
			models.ContributorStatusPending:  0,
			models.ContributorStatusPaid:     0,
			models.ContributorStatusDeclined: 0,
		},
		Amounts: map[string]decimal.Decimal{
			models.ContributorStatusPending:  decimal.Zero,
			models.ContributorStatusPaid:     decimal.Zero,
			models.ContributorStatusDeclined: decimal.Zero,
		},
	}
	for _, c := range contributors {
		b.Counts[c.Status]++
		b.Amounts[c.Status] = b.Amounts[c.Status].Add(c.Amount).Round(2)
	}
	return b
}

// TimelinePoint is one calendar day of the collection timeline.
type TimelinePoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// Timeline buckets paid contributions by calendar day over the trailing
// window of days ending today. Days without collections appear with a zero
// amount so charts show gaps.
func Timeline(contributors []models.Contributor, days int, now time.Time) []TimelinePoint {
	if days <= 0 {
		return nil
	}

	byDay := map[string]*TimelinePoint{}
	points := make([]TimelinePoint, 0, days)
	start := now.AddDate(0, 0, -(days - 1))
	for i := range days {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, TimelinePoint{Date: date, Amount: decimal.Zero})
		byDay[date] = &points[len(points)-1]
	}

	for _, c := range contributors {
		if c.Status != models.ContributorStatusPaid {
			continue
		}
		point, ok := byDay[c.UpdatedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		point.Amount = point.Amount.Add(c.Amount).Round(2)
		point.Count++
	}

	return points
}

// CollectionRate is the average amount collected per day over a window.
func CollectionRate(contributors []models.Contributor, days int, now time.Time) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, point := range Timeline(contributors, days, now) {
		total = total.Add(point.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(days))).Round(2)
}

// SuccessMetrics summarizes goal attainment across all campaigns.
type SuccessMetrics struct {
	CampaignCount   int             `json:"campaignCount"`
	CompletedCount  int             `json:"completedCount"`
	SuccessRate     int             `json:"successRate"`
	TotalCollected  decimal.Decimal `json:"totalCollected"`
	TotalGoal       decimal.Decimal `json:"totalGoal"`
	AverageProgress int             `json:"averageProgress"`
}

// Success computes cross-campaign goal attainment. A campaign counts as
// completed when its collected amount reaches a positive goal.
func Success(campaigns []models.Campaign, contributors []models.Contributor) SuccessMetrics {
	m := SuccessMetrics{
		TotalCollected: decimal.Zero,
		TotalGoal:      decimal.Zero,
	}

	progressSum := 0
	for _, campaign := range campaigns {
		s := ForCampaign(campaign, contributors, nil)
		m.CampaignCount++
		m.TotalCollected = m.TotalCollected.Add(s.Collected)
		m.TotalGoal = m.TotalGoal.Add(campaign.Goal)
		progressSum += s.Percent
		if campaign.Goal.IsPositive() && s.Collected.GreaterThanOrEqual(campaign.Goal) {
			m.CompletedCount++
		}
	}

	if m.CampaignCount > 0 {
		m.SuccessRate = percentOf(
			decimal.NewFromInt(int64(m.CompletedCount)),
			decimal.NewFromInt(int64(m.CampaignCount)))
		m.AverageProgress = progressSum / m.CampaignCount
	}
	m.TotalCollected = m.TotalCollected.Round(2)
	return m
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	Type       string          `json:"type"`
	CampaignID string          `json:"campaignId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	At         time.Time       `json:"at"`
}

// Recent merges contributors and payments into one feed sorted newest
// first, truncated to n entries.
func Recent(contributors []models.Contributor, payments []models.Payment, n int) []Activity {
	feed := make([]Activity, 0, len(contributors)+len(payments))
	for _, c := range contributors {
		feed = append(feed, Activity{
			Type:       "contribution",
			CampaignID: c.CampaignID,
			Name:       c.Name,
			Amount:     c.Amount,
			Status:     c.Status,
			At:         c.UpdatedAt,
		})
	}
	for _, p := range payments {
		feed = append(feed, Activity{
			Type:       "payment",
			CampaignID: p.CampaignID,
			Name:       p.ReporterName,
			Amount:     p.Amount,
			Status:     p.Status,
			At:         p.CreatedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].At.After(feed[j].At)
	})
	if n > 0 && len(feed) > n {
		feed = feed[:n]
	}
	return feed
}
