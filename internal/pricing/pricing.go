package pricing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultMargin = 100.0
	MinMargin     = 0.0
	MaxMargin     = 1000.0
)

// Ingredient represents one line item of a recipe. Cost is the total paid for Quantity, not a unit price.
type Ingredient struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
	Cost     float64 `json:"cost"`
}

// CostPerUnit returns the cost of a single unit of the ingredient, or 0 when quantity is not positive.
func (i Ingredient) CostPerUnit() float64 {
	if i.Quantity <= 0 {
		return 0
	}
	return i.Cost / i.Quantity
}

// BusinessExpenses holds the expense categories counted in advanced mode.
type BusinessExpenses struct {
	OperatingExpenses float64 `json:"operatingExpenses"`
	InterestExpenses  float64 `json:"interestExpenses"`
	Taxes             float64 `json:"taxes"`
	OtherExpenses     float64 `json:"otherExpenses"`
	LaborCost         float64 `json:"laborCost"`
	OverheadCost      float64 `json:"overheadCost"`
	PackagingCost     float64 `json:"packagingCost"`
}

// Total sums every expense category.
func (e BusinessExpenses) Total() float64 {
	return e.LaborCost +
		e.OverheadCost +
		e.PackagingCost +
		e.OperatingExpenses +
		e.InterestExpenses +
		e.Taxes +
		e.OtherExpenses
}

// ProfitAnalysis is the result of one profit computation. Margins are percentages of revenue.
type ProfitAnalysis struct {
	TotalRevenue      float64
	COGS              float64
	GrossProfit       float64
	GrossProfitMargin float64
	TotalExpenses     float64
	NetProfit         float64
	NetProfitMargin   float64
}

// IngredientsCost is an alias of COGS.
func (a ProfitAnalysis) IngredientsCost() float64 { return a.COGS }

// TotalProfit is an alias of NetProfit.
func (a ProfitAnalysis) TotalProfit() float64 { return a.NetProfit }

// ProfitMargin is an alias of NetProfitMargin.
func (a ProfitAnalysis) ProfitMargin() float64 { return a.NetProfitMargin }

type profitAnalysisJSON struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	COGS              float64 `json:"cogs"`
	GrossProfit       float64 `json:"grossProfit"`
	GrossProfitMargin float64 `json:"grossProfitMargin"`
	TotalExpenses     float64 `json:"totalExpenses"`
	NetProfit         float64 `json:"netProfit"`
	NetProfitMargin   float64 `json:"netProfitMargin"`
	IngredientsCost   float64 `json:"ingredientsCost"`
	TotalProfit       float64 `json:"totalProfit"`
	ProfitMargin      float64 `json:"profitMargin"`
}

// MarshalJSON emits the canonical fields together with their alias names.
func (a ProfitAnalysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(profitAnalysisJSON{
		TotalRevenue:      a.TotalRevenue,
		COGS:              a.COGS,
		GrossProfit:       a.GrossProfit,
		GrossProfitMargin: a.GrossProfitMargin,
		TotalExpenses:     a.TotalExpenses,
		NetProfit:         a.NetProfit,
		NetProfitMargin:   a.NetProfitMargin,
		IngredientsCost:   a.IngredientsCost(),
		TotalProfit:       a.TotalProfit(),
		ProfitMargin:      a.ProfitMargin(),
	})
}

// UnmarshalJSON reads the canonical fields; alias keys are ignored.
func (a *ProfitAnalysis) UnmarshalJSON(data []byte) error {
	var raw profitAnalysisJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = ProfitAnalysis{
		TotalRevenue:      raw.TotalRevenue,
		COGS:              raw.COGS,
		GrossProfit:       raw.GrossProfit,
		GrossProfitMargin: raw.GrossProfitMargin,
		TotalExpenses:     raw.TotalExpenses,
		NetProfit:         raw.NetProfit,
		NetProfitMargin:   raw.NetProfitMargin,
	}
	return nil
}

// TotalCost sums ingredient costs and, when includeExpenses is set and expenses is not nil,
// every business expense category. Non-finite costs count as zero.
func TotalCost(ingredients []Ingredient, expenses *BusinessExpenses, includeExpenses bool) float64 {
	sum := 0.0
	for _, ing := range ingredients {
		sum += finiteOrZero(ing.Cost)
	}

	if includeExpenses && expenses != nil {
		return sum + expenses.Total()
	}
	return sum
}

// SuggestedPrice applies a markup percentage on top of cost.
func SuggestedPrice(totalCost, marginPercent float64) float64 {
	return totalCost * (1 + marginPercent/100)
}

// ComprehensiveProfitAnalysis computes gross and net figures for the given selling price.
// Business expenses never enter COGS; they only extend TotalExpenses when includeExpenses is set.
func ComprehensiveProfitAnalysis(ingredients []Ingredient, sellingPrice float64, expenses BusinessExpenses, includeExpenses bool) ProfitAnalysis {
	cogs := TotalCost(ingredients, nil, false)
	revenue := sellingPrice
	grossProfit := revenue - cogs

	totalExpenses := cogs
	if includeExpenses {
		totalExpenses = cogs + expenses.Total()
	}
	netProfit := revenue - totalExpenses

	return ProfitAnalysis{
		TotalRevenue:      revenue,
		COGS:              cogs,
		GrossProfit:       grossProfit,
		GrossProfitMargin: marginOf(grossProfit, revenue),
		TotalExpenses:     totalExpenses,
		NetProfit:         netProfit,
		NetProfitMargin:   marginOf(netProfit, revenue),
	}
}

// ValidateIngredient reports whether an ingredient is complete enough to be exported.
func ValidateIngredient(ing Ingredient) bool {
	return strings.TrimSpace(ing.Name) != "" && ing.Quantity > 0 && ing.Cost >= 0
}

// ValidIngredients returns the ingredients that pass ValidateIngredient, in order.
func ValidIngredients(ingredients []Ingredient) []Ingredient {
	valid := make([]Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if ValidateIngredient(ing) {
			valid = append(valid, ing)
		}
	}
	return valid
}

// DefaultIngredient returns a blank row with a fresh identifier.
func DefaultIngredient() Ingredient {
	return NewIngredient(uuid.NewString())
}

// NewIngredient returns a blank row with the given identifier.
func NewIngredient(id string) Ingredient {
	return Ingredient{
		ID:       id,
		Name:     "",
		Quantity: 1,
		Unit:     DefaultUnit,
		Cost:     0,
	}
}

// DefaultBusinessExpenses returns a record with every category set to zero.
func DefaultBusinessExpenses() BusinessExpenses {
	return BusinessExpenses{}
}

// ClampMargin constrains a markup percentage to [MinMargin, MaxMargin].
func ClampMargin(margin float64) float64 {
	if math.IsNaN(margin) {
		return DefaultMargin
	}
	return math.Max(MinMargin, math.Min(MaxMargin, margin))
}

// Only strictly positive revenue divides.
func marginOf(profit, revenue float64) float64 {
	if revenue > 0 {
		return profit / revenue * 100
	}
	return 0
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
