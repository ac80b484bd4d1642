package seed

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/sellsheet/internal/pricing"
	"github.com/Simplici0/sellsheet/internal/snapshot"
)

const (
	sampleRecipeName   = "Chocolate Chip Cookies (sample)"
	advancedRecipeName = "Sourdough Loaf (sample)"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run inserts the sample recipes in an idempotent way.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureRecipe(tx, sampleRecipeName, cookieSnapshot(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureRecipe(tx, advancedRecipeName, sourdoughSnapshot(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureRecipe(tx *sql.Tx, name string, state snapshot.Snapshot, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM recipes WHERE name = ? LIMIT 1)`, name).Scan(&exists); err != nil {
		return fmt.Errorf("check sample recipe existence: %w", err)
	}
	if exists {
		return nil
	}

	data, err := snapshot.Encode(state)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO recipes (id, name, snapshot_json)
		VALUES (?, ?, ?)
	`, uuid.NewString(), name, string(data)); err != nil {
		return fmt.Errorf("insert sample recipe %q: %w", name, err)
	}
	stats.Inserts++
	return nil
}

func cookieSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Ingredients: []pricing.Ingredient{
			{ID: uuid.NewString(), Name: "All-purpose flour", Quantity: 280, Unit: pricing.UnitGram, Cost: 0.45},
			{ID: uuid.NewString(), Name: "Butter", Quantity: 225, Unit: pricing.UnitGram, Cost: 2.6},
			{ID: uuid.NewString(), Name: "Brown sugar", Quantity: 200, Unit: pricing.UnitGram, Cost: 0.7},
			{ID: uuid.NewString(), Name: "Eggs", Quantity: 2, Unit: pricing.UnitEach, Cost: 0.6},
			{ID: uuid.NewString(), Name: "Chocolate chips", Quantity: 340, Unit: pricing.UnitGram, Cost: 3.9},
		},
		Margin:           pricing.DefaultMargin,
		BusinessExpenses: pricing.DefaultBusinessExpenses(),
	}
}

func sourdoughSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Ingredients: []pricing.Ingredient{
			{ID: uuid.NewString(), Name: "Bread flour", Quantity: 500, Unit: pricing.UnitGram, Cost: 0.9},
			{ID: uuid.NewString(), Name: "Water", Quantity: 350, Unit: pricing.UnitMilliliter, Cost: 0},
			{ID: uuid.NewString(), Name: "Salt", Quantity: 10, Unit: pricing.UnitGram, Cost: 0.02},
		},
		Margin:             150,
		CustomSellingPrice: 8,
		BusinessExpenses: pricing.BusinessExpenses{
			LaborCost:     2,
			OverheadCost:  0.5,
			PackagingCost: 0.3,
		},
		ShowAdvancedMode: true,
	}
}
