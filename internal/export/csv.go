package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the ingredient table followed by a summary block.
func WriteCSV(w io.Writer, r Report) error {
	ev := r.Evaluation
	rows := [][]string{{"Ingredient Name", "Quantity", "Unit", "Cost"}}
	for _, ing := range r.Ingredients {
		rows = append(rows, []string{ing.Name, formatNumber(ing.Quantity), string(ing.Unit), formatNumber(ing.Cost)})
	}
	rows = append(rows,
		[]string{"", "", "", ""},
		[]string{"Summary", "", "", ""},
		[]string{"Selling Price", "", "", formatNumber(ev.SellingPrice)},
		[]string{"Total Cost", "", "", formatNumber(ev.TotalCost)},
		[]string{"Profit", "", "", formatNumber(ev.Analysis.TotalProfit())},
		[]string{"Profit Margin", "", "", formatNumber(ev.Analysis.ProfitMargin() / 100)},
	)

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
