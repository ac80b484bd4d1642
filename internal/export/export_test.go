package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/sellsheet/internal/pricing"
	"github.com/Simplici0/sellsheet/internal/snapshot"
)

func reportSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Ingredients: []pricing.Ingredient{
			{ID: "1", Name: "Flour", Quantity: 1, Unit: pricing.UnitKilogram, Cost: 2},
			{ID: "2", Name: "Sugar", Quantity: 0.5, Unit: pricing.UnitKilogram, Cost: 3},
			{ID: "3", Name: "", Quantity: 1, Unit: pricing.UnitGram, Cost: 0},
		},
		Margin:             100,
		CustomSellingPrice: 10,
		BusinessExpenses:   pricing.BusinessExpenses{OperatingExpenses: 1, Taxes: 1},
		ShowAdvancedMode:   true,
	}
}

func TestNewReport_KeepsOnlyValidIngredients(t *testing.T) {
	r := NewReport(reportSnapshot(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "Flour", r.Ingredients[0].Name)
	assert.Equal(t, "SellSheet Pro - Profit Analysis", r.Title)
	assert.InDelta(t, 7, r.Evaluation.TotalCost, 1e-9)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, NewReport(reportSnapshot(), time.Now())))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	expected := [][]string{
		{"Ingredient Name", "Quantity", "Unit", "Cost"},
		{"Flour", "1", "kg", "2"},
		{"Sugar", "0.5", "kg", "3"},
		{"", "", "", ""},
		{"Summary", "", "", ""},
		{"Selling Price", "", "", "10"},
		{"Total Cost", "", "", "7"},
		{"Profit", "", "", "3"},
		{"Profit Margin", "", "", "0.3"},
	}
	assert.Equal(t, expected, rows)
}

func TestWriteCSV_QuotesNamesWithCommas(t *testing.T) {
	s := snapshot.Snapshot{
		Ingredients: []pricing.Ingredient{{Name: "Nuts, mixed", Quantity: 2, Unit: pricing.UnitCup, Cost: 4.5}},
		Margin:      50,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, NewReport(s, time.Now())))
	assert.Contains(t, buf.String(), `"Nuts, mixed",2,cup,4.5`)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, NewReport(reportSnapshot(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "missing PDF header")
	assert.Greater(t, buf.Len(), 500)
}
