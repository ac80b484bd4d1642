package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Simplici0/sellsheet/internal/snapshot"
)

// Recipe is a named, saved snapshot.
type Recipe struct {
	ID        string
	Name      string
	Snapshot  snapshot.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeStore persists saved recipes.
type RecipeStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewRecipeStore creates a RecipeStore backed by db.
func NewRecipeStore(db *sql.DB, logger *zap.Logger) *RecipeStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeStore{db: db, logger: logger, now: time.Now}
}

// Create saves state under name and returns the new recipe.
func (s *RecipeStore) Create(ctx context.Context, name string, state snapshot.Snapshot) (Recipe, error) {
	now := s.now().UTC().Truncate(time.Second)
	state.LastUpdated = &now

	data, err := snapshot.Encode(state)
	if err != nil {
		return Recipe{}, err
	}

	recipe := Recipe{
		ID:        uuid.NewString(),
		Name:      name,
		Snapshot:  state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, name, snapshot_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, recipe.ID, recipe.Name, string(data), now.Format(sqliteTimeLayout), now.Format(sqliteTimeLayout))
	if err != nil {
		return Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}

	return recipe, nil
}

// List returns saved recipes newest first. A non-empty query filters by name.
func (s *RecipeStore) List(ctx context.Context, query string) ([]Recipe, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, snapshot_json, created_at, updated_at
		FROM recipes
		WHERE (? = '' OR name LIKE ?)
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, query, search)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]Recipe, 0)
	for rows.Next() {
		recipe, err := s.scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}

	return recipes, nil
}

// Get returns the recipe with the given id or ErrNotFound.
func (s *RecipeStore) Get(ctx context.Context, id string) (Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, snapshot_json, created_at, updated_at
		FROM recipes
		WHERE id = ?
	`, id)

	recipe, err := s.scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Recipe{}, ErrNotFound
	}
	return recipe, err
}

// Delete removes the recipe with the given id or returns ErrNotFound.
func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *RecipeStore) scanRecipe(row scanner) (Recipe, error) {
	var (
		recipe       Recipe
		snapshotJSON string
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(&recipe.ID, &recipe.Name, &snapshotJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, err
		}
		return Recipe{}, fmt.Errorf("scan recipe: %w", err)
	}

	state, ok := snapshot.DecodeOrDefault([]byte(snapshotJSON))
	if !ok {
		s.logger.Warn("saved recipe snapshot is corrupt, using defaults",
			zap.String("op", "store.RecipeStore.scanRecipe"),
			zap.String("recipe_id", recipe.ID),
		)
	}

	recipe.Snapshot = state
	recipe.CreatedAt = parseTimestamp(createdAt)
	recipe.UpdatedAt = parseTimestamp(updatedAt)
	return recipe, nil
}

// The driver may hand back either the stored text or an RFC 3339 rendering of it.
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
