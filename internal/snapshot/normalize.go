package snapshot

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/sellsheet/internal/pricing"
)

type rawSnapshot struct {
	Ingredients        any `json:"ingredients"`
	Margin             any `json:"margin"`
	CustomSellingPrice any `json:"customSellingPrice"`
	BusinessExpenses   any `json:"businessExpenses"`
	ShowAdvancedMode   any `json:"showAdvancedMode"`
	LastUpdated        any `json:"lastUpdated"`
}

func (r rawSnapshot) normalize() Snapshot {
	s := Snapshot{
		Ingredients:        normalizeIngredients(r.Ingredients),
		Margin:             pricing.DefaultMargin,
		CustomSellingPrice: numberOrZero(r.CustomSellingPrice),
		BusinessExpenses:   normalizeExpenses(r.BusinessExpenses),
	}

	if r.Margin != nil {
		s.Margin = pricing.ClampMargin(numberOrZero(r.Margin))
	}
	if advanced, ok := r.ShowAdvancedMode.(bool); ok {
		s.ShowAdvancedMode = advanced
	}
	if raw, ok := r.LastUpdated.(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			s.LastUpdated = &ts
		}
	}

	return s
}

func normalizeIngredients(v any) []pricing.Ingredient {
	items, _ := v.([]any)

	ingredients := make([]pricing.Ingredient, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ingredients = append(ingredients, normalizeIngredient(fields))
	}

	if len(ingredients) == 0 {
		return []pricing.Ingredient{pricing.DefaultIngredient()}
	}
	return ingredients
}

func normalizeIngredient(fields map[string]any) pricing.Ingredient {
	ing := pricing.Ingredient{
		ID:       stringOrEmpty(fields["id"]),
		Name:     stringOrEmpty(fields["name"]),
		Quantity: numberOrZero(fields["quantity"]),
		Unit:     pricing.DefaultUnit,
		Cost:     numberOrZero(fields["cost"]),
	}
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if unit, ok := pricing.ParseUnit(stringOrEmpty(fields["unit"])); ok {
		ing.Unit = unit
	}
	return ing
}

func normalizeExpenses(v any) pricing.BusinessExpenses {
	fields, _ := v.(map[string]any)
	return pricing.BusinessExpenses{
		OperatingExpenses: numberOrZero(fields["operatingExpenses"]),
		InterestExpenses:  numberOrZero(fields["interestExpenses"]),
		Taxes:             numberOrZero(fields["taxes"]),
		OtherExpenses:     numberOrZero(fields["otherExpenses"]),
		LaborCost:         numberOrZero(fields["laborCost"]),
		OverheadCost:      numberOrZero(fields["overheadCost"]),
		PackagingCost:     numberOrZero(fields["packagingCost"]),
	}
}

// numberOrZero accepts JSON numbers, numeric strings and booleans; anything else is 0.
func numberOrZero(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if x {
			f = 1
		}
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}
