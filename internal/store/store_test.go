package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Simplici0/sellsheet/internal/db"
	"github.com/Simplici0/sellsheet/internal/migrations"
	"github.com/Simplici0/sellsheet/internal/pricing"
	"github.com/Simplici0/sellsheet/internal/snapshot"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "store-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database, zap.NewNop()))
	return database
}

func sampleSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Ingredients: []pricing.Ingredient{
			{ID: "i1", Name: "Flour", Quantity: 500, Unit: pricing.UnitGram, Cost: 1.2},
			{ID: "i2", Name: "Butter", Quantity: 250, Unit: pricing.UnitGram, Cost: 2.8},
		},
		Margin:             80,
		CustomSellingPrice: 0,
		BusinessExpenses:   pricing.BusinessExpenses{PackagingCost: 0.5},
		ShowAdvancedMode:   true,
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestStateStore_LoadWithoutEntryReturnsDefaults(t *testing.T) {
	states := NewStateStore(newTestDB(t), nil)

	state, err := states.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, state.Ingredients, 1)
	assert.Equal(t, pricing.DefaultMargin, state.Margin)
	assert.False(t, state.ShowAdvancedMode)
}

func TestStateStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	states := NewStateStore(newTestDB(t), zap.NewNop())
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	states.now = fixedClock(ts)

	saved, err := states.Save(ctx, sampleSnapshot())
	require.NoError(t, err)
	require.NotNil(t, saved.LastUpdated)
	assert.True(t, saved.LastUpdated.Equal(ts))

	loaded, err := states.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot().Ingredients, loaded.Ingredients)
	assert.Equal(t, 80.0, loaded.Margin)
	assert.True(t, loaded.ShowAdvancedMode)
	require.NotNil(t, loaded.LastUpdated)
	assert.True(t, loaded.LastUpdated.Equal(ts))

	updated := sampleSnapshot()
	updated.Margin = 25
	_, err = states.Save(ctx, updated)
	require.NoError(t, err)

	loaded, err = states.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.0, loaded.Margin)
}

func TestStateStore_CorruptEntryFallsBackToDefaults(t *testing.T) {
	database := newTestDB(t)
	_, err := database.Exec(`INSERT INTO app_state (key, value) VALUES (?, ?)`, snapshot.StorageKey, `{"ingredients": [`)
	require.NoError(t, err)

	state, err := NewStateStore(database, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultMargin, state.Margin)
	assert.Len(t, state.Ingredients, 1)
}

func TestStateStore_Clear(t *testing.T) {
	ctx := context.Background()
	states := NewStateStore(newTestDB(t), nil)

	_, err := states.Save(ctx, sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, states.Clear(ctx))

	state, err := states.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultMargin, state.Margin)
	assert.Nil(t, state.LastUpdated)
}

func TestRecipeStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	recipes := NewRecipeStore(newTestDB(t), nil)

	created, err := recipes.Create(ctx, "Shortbread", sampleSnapshot())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := recipes.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shortbread", got.Name)
	assert.Equal(t, sampleSnapshot().Ingredients, got.Snapshot.Ingredients)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt), "created %v, got %v", created.CreatedAt, got.CreatedAt)

	require.NoError(t, recipes.Delete(ctx, created.ID))

	_, err = recipes.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, recipes.Delete(ctx, created.ID), ErrNotFound)
}

func TestRecipeStore_ListNewestFirstWithFilter(t *testing.T) {
	ctx := context.Background()
	recipes := NewRecipeStore(newTestDB(t), nil)

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"Brownies", "Lemon Bars", "Blondies"} {
		recipes.now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		_, err := recipes.Create(ctx, name, sampleSnapshot())
		require.NoError(t, err)
	}

	all, err := recipes.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Blondies", "Lemon Bars", "Brownies"}, []string{all[0].Name, all[1].Name, all[2].Name})

	filtered, err := recipes.List(ctx, "ies")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Blondies", filtered[0].Name)
	assert.Equal(t, "Brownies", filtered[1].Name)
}

func TestRecipeStore_CorruptSnapshotUsesDefaults(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	_, err := database.Exec(`
		INSERT INTO recipes (id, name, snapshot_json, created_at, updated_at)
		VALUES ('broken', 'Broken', 'nope', '2024-01-01 00:00:00', '2024-01-01 00:00:00')
	`)
	require.NoError(t, err)

	recipe, err := NewRecipeStore(database, nil).Get(ctx, "broken")
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultMargin, recipe.Snapshot.Margin)
	assert.Equal(t, 2024, recipe.CreatedAt.Year())
}
