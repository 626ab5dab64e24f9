//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"

	"github.com/ololeeye/ololeeye/internal/models"
	"github.com/ololeeye/ololeeye/internal/stats"
	"github.com/shopspring/decimal"
)

func main() {
	contributors := []models.Contributor{
		{Name: "Ayaan", Amount: decimal.NewFromInt(150), Status: models.ContributorStatusPaid},
		{Name: "Hodan", Amount: decimal.NewFromInt(130), Status: models.ContributorStatusPaid},
		{Name: "Mohamed", Amount: decimal.NewFromInt(60), Status: models.ContributorStatusPending},
		{Name: "Fatima", Amount: decimal.NewFromInt(25), Status: models.ContributorStatusPending},
		{Name: "Omar", Amount: decimal.NewFromInt(120), Status: models.ContributorStatusDeclined},
	}

	chartData, err := stats.BreakdownChart(stats.Breakdown(contributors), "Contributors by status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("graph.png", chartData, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Created graph.png - Example status breakdown chart")
}
