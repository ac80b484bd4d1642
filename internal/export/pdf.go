package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/Simplici0/sellsheet/internal/pricing"
)

var tableWidths = [4]float64{80, 30, 30, 40}

// WritePDF renders an A4 report with the summary lines and the ingredient table.
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("SellSheet", true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetModificationDate(r.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(20, 30, tr(r.Title))

	ev := r.Evaluation
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Generated on: " + r.GeneratedAt.Format("1/2/2006"),
		fmt.Sprintf("Total Ingredients: %d", len(r.Ingredients)),
		"Selling Price: " + pricing.FormatCurrency(ev.SellingPrice),
		"Total Cost: " + pricing.FormatCurrency(ev.TotalCost),
		"Profit: " + pricing.FormatCurrency(ev.Analysis.TotalProfit()),
		"Profit Margin: " + pricing.FormatPercentage(ev.Analysis.ProfitMargin()),
	}
	for i, line := range lines {
		pdf.Text(20, 45+float64(i)*10, tr(line))
	}

	pdf.SetXY(20, 110)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range []string{"Ingredient", "Quantity", "Unit", "Cost"} {
		pdf.CellFormat(tableWidths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, ing := range r.Ingredients {
		pdf.SetX(20)
		cells := []string{ing.Name, formatNumber(ing.Quantity), string(ing.Unit), pricing.FormatCurrency(ing.Cost)}
		for i, cell := range cells {
			pdf.CellFormat(tableWidths[i], 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
