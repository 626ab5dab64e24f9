package stats

import (
	"fmt"

	"github.com/go-analyze/charts"
)

// TimelineChart renders the collection timeline as a PNG line chart.
func TimelineChart(points []TimelinePoint, title string) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no timeline points to chart")
	}

	values := make([]float64, 0, len(points))
	labels := make([]string, 0, len(points))
	for _, point := range points {
		values = append(values, point.Amount.InexactFloat64())
		labels = append(labels, point.Date)
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.XAxisLabelsOptionFunc(labels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create timeline chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render timeline chart: %w", err)
	}
	return buf, nil
}

// BreakdownChart renders the contributor status breakdown as a PNG pie
// chart. Statuses with no contributors are left out.
func BreakdownChart(breakdown StatusBreakdown, title string) ([]byte, error) {
	var values []float64
	var labels []string
	for status, count := range breakdown.Counts {
		if count == 0 {
			continue
		}
		values = append(values, float64(count))
		labels = append(labels, status)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no contributors to chart")
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.LegendLabelsOptionFunc(labels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create breakdown chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render breakdown chart: %w", err)
	}
	return buf, nil
}
