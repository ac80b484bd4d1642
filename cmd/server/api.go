package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/sellsheet/internal/metrics"
	"github.com/Simplici0/sellsheet/internal/pricing"
	"github.com/Simplici0/sellsheet/internal/recipes"
	"github.com/Simplici0/sellsheet/internal/snapshot"
	"github.com/Simplici0/sellsheet/internal/store"
)

type unitView struct {
	Unit pricing.Unit     `json:"unit"`
	Kind pricing.UnitKind `json:"kind"`
}

type defaultsResponse struct {
	Ingredient       pricing.Ingredient       `json:"ingredient"`
	BusinessExpenses pricing.BusinessExpenses `json:"businessExpenses"`
	Margin           float64                  `json:"margin"`
	MinMargin        float64                  `json:"minMargin"`
	MaxMargin        float64                  `json:"maxMargin"`
}

type formattedFigures struct {
	TotalCost         string `json:"totalCost"`
	SuggestedPrice    string `json:"suggestedPrice"`
	SellingPrice      string `json:"sellingPrice"`
	COGS              string `json:"cogs"`
	GrossProfit       string `json:"grossProfit"`
	GrossProfitMargin string `json:"grossProfitMargin"`
	TotalExpenses     string `json:"totalExpenses"`
	NetProfit         string `json:"netProfit"`
	NetProfitMargin   string `json:"netProfitMargin"`
}

type ingredientLine struct {
	ID          string  `json:"id"`
	CostPerUnit float64 `json:"costPerUnit"`
	Valid       bool    `json:"valid"`
}

type analysisResponse struct {
	Snapshot snapshot.Snapshot `json:"snapshot"`
	snapshot.Evaluation
	Formatted formattedFigures `json:"formatted"`
	Lines     []ingredientLine `json:"lines"`
}

type recipeResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Snapshot   snapshot.Snapshot   `json:"snapshot"`
	Evaluation snapshot.Evaluation `json:"evaluation"`
	Formatted  formattedFigures    `json:"formatted"`
}

type createRecipeRequest struct {
	Name     string          `json:"name"`
	Snapshot json.RawMessage `json:"snapshot"`
}

func (s *server) handleUnits(w http.ResponseWriter, r *http.Request) {
	units := pricing.Units()
	views := make([]unitView, 0, len(units))
	for _, u := range units {
		views = append(views, unitView{Unit: u, Kind: u.Kind()})
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, defaultsResponse{
		Ingredient:       pricing.DefaultIngredient(),
		BusinessExpenses: pricing.DefaultBusinessExpenses(),
		Margin:           pricing.DefaultMargin,
		MinMargin:        pricing.MinMargin,
		MaxMargin:        pricing.MaxMargin,
	})
}

func (s *server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	state, ok := s.decodeSnapshotBody(w, r, "server.handleAnalysis")
	if !ok {
		return
	}
	metrics.AnalysesComputed.WithLabelValues("draft").Inc()
	s.writeJSON(w, http.StatusOK, buildAnalysis(state))
}

func (s *server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.states.Load(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load state", "server.handleGetState", err)
		return
	}
	metrics.AnalysesComputed.WithLabelValues("state").Inc()
	s.writeJSON(w, http.StatusOK, buildAnalysis(state))
}

func (s *server) handlePutState(w http.ResponseWriter, r *http.Request) {
	state, ok := s.decodeSnapshotBody(w, r, "server.handlePutState")
	if !ok {
		return
	}

	saved, err := s.states.Save(r.Context(), state)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to save state", "server.handlePutState", err)
		return
	}
	metrics.AnalysesComputed.WithLabelValues("state").Inc()
	s.writeJSON(w, http.StatusOK, buildAnalysis(saved))
}

func (s *server) handleClearState(w http.ResponseWriter, r *http.Request) {
	if err := s.states.Clear(r.Context()); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to clear state", "server.handleClearState", err)
		return
	}
	s.writeJSON(w, http.StatusOK, buildAnalysis(snapshot.Default()))
}

func (s *server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := s.recipes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load recipes", "server.handleListRecipes", err)
		return
	}

	out := make([]recipeResponse, 0, len(list))
	for _, recipe := range list {
		out = append(out, toRecipeResponse(recipe))
	}
	metrics.AnalysesComputed.WithLabelValues("recipe").Add(float64(len(out)))
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r, "server.handleCreateRecipe")
	if !ok {
		return
	}

	var req createRecipeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", "server.handleCreateRecipe", err)
		return
	}

	var state snapshot.Snapshot
	if len(req.Snapshot) == 0 || string(req.Snapshot) == "null" {
		loaded, err := s.states.Load(r.Context())
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to load state", "server.handleCreateRecipe", err)
			return
		}
		state = loaded
	} else {
		decoded, err := snapshot.Decode(req.Snapshot)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCreateRecipe", err)
			return
		}
		state = decoded
	}

	saved, err := s.recipes.Save(r.Context(), req.Name, state)
	if err != nil {
		if errors.Is(err, recipes.ErrInvalid) {
			s.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCreateRecipe", err)
			return
		}
		s.respondError(w, http.StatusInternalServerError, "failed to save recipe", "server.handleCreateRecipe", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toRecipeResponse(saved))
}

func (s *server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, ok := s.lookupRecipe(w, r, "server.handleGetRecipe")
	if !ok {
		return
	}
	metrics.AnalysesComputed.WithLabelValues("recipe").Inc()
	s.writeJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "recipe not found", "server.handleDeleteRecipe", err)
			return
		}
		s.respondError(w, http.StatusInternalServerError, "failed to delete recipe", "server.handleDeleteRecipe", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLoadRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, ok := s.lookupRecipe(w, r, "server.handleLoadRecipe")
	if !ok {
		return
	}

	saved, err := s.states.Save(r.Context(), recipe.Snapshot)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to save state", "server.handleLoadRecipe", err)
		return
	}
	metrics.AnalysesComputed.WithLabelValues("state").Inc()
	s.writeJSON(w, http.StatusOK, buildAnalysis(saved))
}

func (s *server) lookupRecipe(w http.ResponseWriter, r *http.Request, op string) (recipes.Recipe, bool) {
	recipe, err := s.recipes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "recipe not found", op, err)
			return recipes.Recipe{}, false
		}
		s.respondError(w, http.StatusInternalServerError, "failed to load recipe", op, err)
		return recipes.Recipe{}, false
	}
	return recipe, true
}

func (s *server) decodeSnapshotBody(w http.ResponseWriter, r *http.Request, op string) (snapshot.Snapshot, bool) {
	body, ok := s.readBody(w, r, op)
	if !ok {
		return snapshot.Snapshot{}, false
	}

	state, err := snapshot.Decode(body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), op, err)
		return snapshot.Snapshot{}, false
	}
	return state, true
}

func (s *server) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", s.maxBodyBytes), op, err)
			return nil, false
		}
		s.respondError(w, http.StatusBadRequest, "failed to read request body", op, err)
		return nil, false
	}
	return body, true
}

func buildAnalysis(state snapshot.Snapshot) analysisResponse {
	ev := snapshot.Evaluate(state)

	lines := make([]ingredientLine, 0, len(state.Ingredients))
	for _, ing := range state.Ingredients {
		lines = append(lines, ingredientLine{
			ID:          ing.ID,
			CostPerUnit: ing.CostPerUnit(),
			Valid:       pricing.ValidateIngredient(ing),
		})
	}

	return analysisResponse{
		Snapshot:   state,
		Evaluation: ev,
		Formatted:  formatEvaluation(ev),
		Lines:      lines,
	}
}

func toRecipeResponse(recipe recipes.Recipe) recipeResponse {
	return recipeResponse{
		ID:         recipe.ID,
		Name:       recipe.Name,
		CreatedAt:  recipe.CreatedAt,
		UpdatedAt:  recipe.UpdatedAt,
		Snapshot:   recipe.Snapshot,
		Evaluation: recipe.Evaluation,
		Formatted:  formatEvaluation(recipe.Evaluation),
	}
}

func formatEvaluation(ev snapshot.Evaluation) formattedFigures {
	a := ev.Analysis
	return formattedFigures{
		TotalCost:         pricing.FormatCurrency(ev.TotalCost),
		SuggestedPrice:    pricing.FormatCurrency(ev.SuggestedPrice),
		SellingPrice:      pricing.FormatCurrency(ev.SellingPrice),
		COGS:              pricing.FormatCurrency(a.COGS),
		GrossProfit:       pricing.FormatCurrency(a.GrossProfit),
		GrossProfitMargin: pricing.FormatPercentage(a.GrossProfitMargin),
		TotalExpenses:     pricing.FormatCurrency(a.TotalExpenses),
		NetProfit:         pricing.FormatCurrency(a.NetProfit),
		NetProfitMargin:   pricing.FormatPercentage(a.NetProfitMargin),
	}
}

func (s *server) respondError(w http.ResponseWriter, status int, msg, op string, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Warn("request rejected", fields...)
	}

	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
