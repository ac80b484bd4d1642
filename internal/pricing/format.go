package pricing

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as US dollars with grouping and two decimals (e.g. "-$1,234.50").
func FormatCurrency(amount float64) string {
	formatted := usPrinter.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatPercentage renders a percentage with one decimal (e.g. "33.3%").
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
