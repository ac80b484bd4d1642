// Package export renders profit reports as CSV and PDF documents.
package export

import (
	"strconv"
	"time"

	"github.com/Simplici0/sellsheet/internal/pricing"
	"github.com/Simplici0/sellsheet/internal/snapshot"
)

const (
	CSVFilename = "sellsheet-data.csv"
	PDFFilename = "sellsheet-analysis.pdf"

	reportTitle = "SellSheet Pro - Profit Analysis"
)

// Report is the data an export lays out. Ingredients holds only valid rows.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Ingredients []pricing.Ingredient
	Evaluation  snapshot.Evaluation
}

// NewReport evaluates s and keeps the ingredients that pass validation.
func NewReport(s snapshot.Snapshot, generatedAt time.Time) Report {
	return Report{
		Title:       reportTitle,
		GeneratedAt: generatedAt,
		Ingredients: pricing.ValidIngredients(s.Ingredients),
		Evaluation:  snapshot.Evaluate(s),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
