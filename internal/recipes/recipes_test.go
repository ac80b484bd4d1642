package recipes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/sellsheet/internal/pricing"
	"github.com/Simplici0/sellsheet/internal/snapshot"
	"github.com/Simplici0/sellsheet/internal/store"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, name string, state snapshot.Snapshot) (store.Recipe, error) {
	args := m.Called(ctx, name, state)
	return args.Get(0).(store.Recipe), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, query string) ([]store.Recipe, error) {
	args := m.Called(ctx, query)
	recipes, _ := args.Get(0).([]store.Recipe)
	return recipes, args.Error(1)
}

func (m *mockRepository) Get(ctx context.Context, id string) (store.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.Recipe), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func cookieSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Ingredients: []pricing.Ingredient{
			{ID: "a", Name: "Flour", Quantity: 1, Unit: pricing.UnitKilogram, Cost: 2},
			{ID: "b", Name: "Sugar", Quantity: 1, Unit: pricing.UnitKilogram, Cost: 3},
		},
		Margin: 100,
	}
}

func TestService_SaveValidatesName(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil, 8, time.Minute)

	_, err := svc.Save(context.Background(), "   ", cookieSnapshot())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "name is required")

	_, err = svc.Save(context.Background(), strings.Repeat("x", 121), cookieSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 120")

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SaveTrimsNameAndEvaluates(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	state := cookieSnapshot()
	repo.On("Create", ctx, "Cookies", state).Return(store.Recipe{ID: "r1", Name: "Cookies", Snapshot: state}, nil)

	svc := NewService(repo, nil, 8, time.Minute)
	saved, err := svc.Save(ctx, "  Cookies ", state)
	require.NoError(t, err)

	assert.Equal(t, "r1", saved.ID)
	assert.InDelta(t, 5, saved.Evaluation.TotalCost, 1e-9)
	assert.InDelta(t, 10, saved.Evaluation.SellingPrice, 1e-9)
	assert.InDelta(t, 50, saved.Evaluation.Analysis.NetProfitMargin, 1e-9)
	repo.AssertExpectations(t)
}

func TestService_ListEvaluatesEachRecipe(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)

	advanced := cookieSnapshot()
	advanced.ShowAdvancedMode = true
	advanced.CustomSellingPrice = 10
	advanced.BusinessExpenses = pricing.BusinessExpenses{OperatingExpenses: 1, Taxes: 1}

	repo.On("List", ctx, "coo").Return([]store.Recipe{
		{ID: "r2", Name: "Cookies deluxe", Snapshot: advanced},
		{ID: "r1", Name: "Cookies", Snapshot: cookieSnapshot()},
	}, nil)

	svc := NewService(repo, nil, 8, time.Minute)
	list, err := svc.List(ctx, " coo ")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.InDelta(t, 30, list[0].Evaluation.Analysis.NetProfitMargin, 1e-9)
	assert.InDelta(t, 50, list[1].Evaluation.Analysis.NetProfitMargin, 1e-9)
	repo.AssertExpectations(t)
}

func TestService_GetUsesCachedEvaluation(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	repo.On("Get", ctx, "r1").Return(store.Recipe{ID: "r1", Snapshot: cookieSnapshot()}, nil)

	svc := NewService(repo, nil, 8, time.Minute)
	first, err := svc.Get(ctx, "r1")
	require.NoError(t, err)

	cached, ok := svc.cache.Get("r1")
	require.True(t, ok)
	assert.Equal(t, first.Evaluation, cached)

	second, err := svc.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, first.Evaluation, second.Evaluation)
}

func TestService_GetPropagatesNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	repo.On("Get", ctx, "missing").Return(store.Recipe{}, store.ErrNotFound)

	_, err := NewService(repo, nil, 8, time.Minute).Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_DeleteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	repo.On("Get", ctx, "r1").Return(store.Recipe{ID: "r1", Snapshot: cookieSnapshot()}, nil)
	repo.On("Delete", ctx, "r1").Return(nil).Once()
	repo.On("Delete", ctx, "r1").Return(store.ErrNotFound).Once()

	svc := NewService(repo, nil, 8, time.Minute)
	_, err := svc.Get(ctx, "r1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "r1"))
	_, ok := svc.cache.Get("r1")
	assert.False(t, ok)

	assert.ErrorIs(t, svc.Delete(ctx, "r1"), store.ErrNotFound)
	repo.AssertExpectations(t)
}
