// Package snapshot holds the calculator working state: the record persisted under the storage
// key, its lenient decoding, and the evaluation that turns it into prices and a profit analysis.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/sellsheet/internal/pricing"
)

// StorageKey is the fixed key the working state is persisted under.
const StorageKey = "sellsheet-data"

// ErrMalformed is returned when persisted or submitted state is not a JSON object.
var ErrMalformed = errors.New("malformed snapshot")

// Snapshot is the full calculator state as persisted and exchanged with clients.
type Snapshot struct {
	Ingredients        []pricing.Ingredient     `json:"ingredients"`
	Margin             float64                  `json:"margin"`
	CustomSellingPrice float64                  `json:"customSellingPrice"`
	BusinessExpenses   pricing.BusinessExpenses `json:"businessExpenses"`
	ShowAdvancedMode   bool                     `json:"showAdvancedMode"`
	LastUpdated        *time.Time               `json:"lastUpdated,omitempty"`
}

// Evaluation is the derived view of a snapshot.
type Evaluation struct {
	TotalCost      float64                `json:"totalCost"`
	SuggestedPrice float64                `json:"suggestedPrice"`
	SellingPrice   float64                `json:"sellingPrice"`
	Analysis       pricing.ProfitAnalysis `json:"analysis"`
}

// Default returns the cleared form state.
func Default() Snapshot {
	return Snapshot{
		Ingredients:        []pricing.Ingredient{pricing.DefaultIngredient()},
		Margin:             pricing.DefaultMargin,
		CustomSellingPrice: 0,
		BusinessExpenses:   pricing.DefaultBusinessExpenses(),
		ShowAdvancedMode:   false,
	}
}

// Evaluate computes total cost, suggested and effective selling price, and the profit analysis.
// A custom selling price of zero or less means the suggested price is used.
func Evaluate(s Snapshot) Evaluation {
	expenses := s.BusinessExpenses
	totalCost := pricing.TotalCost(s.Ingredients, &expenses, s.ShowAdvancedMode)
	suggested := pricing.SuggestedPrice(totalCost, s.Margin)

	selling := suggested
	if s.CustomSellingPrice > 0 {
		selling = s.CustomSellingPrice
	}

	return Evaluation{
		TotalCost:      totalCost,
		SuggestedPrice: suggested,
		SellingPrice:   selling,
		Analysis:       pricing.ComprehensiveProfitAnalysis(s.Ingredients, selling, expenses, s.ShowAdvancedMode),
	}
}

// Encode serializes s in the persisted shape.
func Encode(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses externally sourced state, coercing every numeric field to a finite number.
func Decode(data []byte) (Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return raw.normalize(), nil
}

// DecodeOrDefault is Decode falling back to Default. The boolean reports whether data was usable.
func DecodeOrDefault(data []byte) (Snapshot, bool) {
	s, err := Decode(data)
	if err != nil {
		return Default(), false
	}
	return s, true
}
