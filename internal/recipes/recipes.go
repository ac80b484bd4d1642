// Package recipes manages saved recipes and their cached profit evaluations.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/Simplici0/sellsheet/internal/snapshot"
	"github.com/Simplici0/sellsheet/internal/store"
)

// ErrInvalid is returned when a recipe fails validation.
var ErrInvalid = errors.New("invalid recipe")

// Repository is the persistence the service depends on.
type Repository interface {
	Create(ctx context.Context, name string, state snapshot.Snapshot) (store.Recipe, error)
	List(ctx context.Context, query string) ([]store.Recipe, error)
	Get(ctx context.Context, id string) (store.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// Recipe is a saved recipe together with its evaluation.
type Recipe struct {
	store.Recipe
	Evaluation snapshot.Evaluation
}

type saveInput struct {
	Name string `validate:"required,max=120"`
}

// Service saves, lists and deletes recipes. Saved snapshots never change, so their
// evaluations are cached by recipe id.
type Service struct {
	repo     Repository
	validate *validator.Validate
	cache    *expirable.LRU[string, snapshot.Evaluation]
	logger   *zap.Logger
}

// NewService creates a Service caching up to cacheSize evaluations for ttl.
func NewService(repo Repository, logger *zap.Logger, cacheSize int, ttl time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		validate: validator.New(),
		cache:    expirable.NewLRU[string, snapshot.Evaluation](cacheSize, nil, ttl),
		logger:   logger,
	}
}

// Save validates name and stores state as a new recipe.
func (s *Service) Save(ctx context.Context, name string, state snapshot.Snapshot) (Recipe, error) {
	input := saveInput{Name: strings.TrimSpace(name)}
	if err := s.validate.Struct(input); err != nil {
		return Recipe{}, fmt.Errorf("%w: %s", ErrInvalid, describeValidation(err))
	}

	created, err := s.repo.Create(ctx, input.Name, state)
	if err != nil {
		return Recipe{}, fmt.Errorf("save recipe: %w", err)
	}

	s.logger.Info("recipe saved",
		zap.String("op", "recipes.Service.Save"),
		zap.String("recipe_id", created.ID),
		zap.Int("ingredients", len(created.Snapshot.Ingredients)),
	)
	return s.withEvaluation(created), nil
}

// List returns saved recipes, newest first, optionally filtered by name.
func (s *Service) List(ctx context.Context, query string) ([]Recipe, error) {
	stored, err := s.repo.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	out := make([]Recipe, 0, len(stored))
	for _, r := range stored {
		out = append(out, s.withEvaluation(r))
	}
	return out, nil
}

// Get returns a single recipe. Missing ids yield store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Recipe, error) {
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return Recipe{}, err
	}
	return s.withEvaluation(stored), nil
}

// Delete removes a recipe and its cached evaluation.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Remove(id)

	s.logger.Info("recipe deleted",
		zap.String("op", "recipes.Service.Delete"),
		zap.String("recipe_id", id),
	)
	return nil
}

func (s *Service) withEvaluation(r store.Recipe) Recipe {
	if ev, ok := s.cache.Get(r.ID); ok {
		return Recipe{Recipe: r, Evaluation: ev}
	}

	ev := snapshot.Evaluate(r.Snapshot)
	s.cache.Add(r.ID, ev)
	return Recipe{Recipe: r, Evaluation: ev}
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid input"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}
