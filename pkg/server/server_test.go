package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/team"
	"github.com/teamdex/teamdex/pkg/typechart"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mapProvider map[int]*model.Pokemon

func (m mapProvider) Pokemon(_ context.Context, id int) (*model.Pokemon, error) {
	p, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("pokemon %d: %w", id, model.ErrNotFound)
	}

	return p, nil
}

type fakeCatalog struct {
	pokemon mapProvider
	species map[int]*model.Species
	moves   map[int]*model.Move
}

func (f *fakeCatalog) PokemonByName(_ context.Context, name string) (*model.Pokemon, error) {
	for _, p := range f.pokemon {
		if p.Name == strings.ToLower(name) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("pokemon %q: %w", name, model.ErrNotFound)
}

func (f *fakeCatalog) ListPokemon(_ context.Context, limit, offset int) ([]model.PokemonRef, error) {
	refs := make([]model.PokemonRef, 0, len(f.pokemon))
	for _, p := range f.pokemon {
		refs = append(refs, model.PokemonRef{ID: p.ID, Name: p.Name})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	return page(refs, limit, offset), nil
}

func (f *fakeCatalog) Species(_ context.Context, id int) (*model.Species, error) {
	s, ok := f.species[id]
	if !ok {
		return nil, fmt.Errorf("species %d: %w", id, model.ErrNotFound)
	}

	return s, nil
}

func (f *fakeCatalog) Move(_ context.Context, id int) (*model.Move, error) {
	m, ok := f.moves[id]
	if !ok {
		return nil, fmt.Errorf("move %d: %w", id, model.ErrNotFound)
	}

	return m, nil
}

func (f *fakeCatalog) MoveByName(_ context.Context, name string) (*model.Move, error) {
	for _, m := range f.moves {
		if m.Name == strings.ToLower(name) {
			return m, nil
		}
	}

	return nil, fmt.Errorf("move %q: %w", name, model.ErrNotFound)
}

func (f *fakeCatalog) ListMoves(_ context.Context, limit, offset int) ([]model.MoveRef, error) {
	refs := make([]model.MoveRef, 0, len(f.moves))
	for _, m := range f.moves {
		refs = append(refs, model.MoveRef{ID: m.ID, Name: m.Name})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	return page(refs, limit, offset), nil
}

func page[T any](refs []T, limit, offset int) []T {
	if offset >= len(refs) {
		return nil
	}
	refs = refs[offset:]
	if len(refs) > limit {
		refs = refs[:limit]
	}

	return refs
}

func testServer(t *testing.T) *Server {
	t.Helper()

	provider := mapProvider{
		3: {
			ID: 3, Name: "venusaur",
			Types: []typechart.Type{typechart.Grass, typechart.Poison},
			Stats: model.Stats{HP: 80, Attack: 82, Defense: 83, SpecialAttack: 100, SpecialDefense: 100, Speed: 80},
		},
		6: {
			ID: 6, Name: "charizard",
			Types: []typechart.Type{typechart.Fire, typechart.Flying},
			Stats: model.Stats{HP: 78, Attack: 84, Defense: 78, SpecialAttack: 109, SpecialDefense: 85, Speed: 100},
		},
		9: {
			ID: 9, Name: "blastoise",
			Types: []typechart.Type{typechart.Water},
			Stats: model.Stats{HP: 79, Attack: 83, Defense: 100, SpecialAttack: 85, SpecialDefense: 105, Speed: 78},
		},
	}
	catalog := &fakeCatalog{
		pokemon: provider,
		species: map[int]*model.Species{
			6: {ID: 6, Name: "charizard", FlavorText: "Spits fire that is hot enough to melt boulders."},
		},
		moves: map[int]*model.Move{
			14: {ID: 14, Name: "swords-dance", Type: typechart.Normal, DamageClass: "status", PP: 20},
			53: {ID: 53, Name: "flamethrower", Type: typechart.Fire, DamageClass: "special", Power: 90, Accuracy: 100, PP: 15},
		},
	}

	return New(team.NewService(provider, nil), catalog, nil)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTypeMatchups(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/types/fire,flying/matchups", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Types                 []string `json:"types"`
		Weaknesses            []string `json:"weaknesses"`
		Immunities            []string `json:"immunities"`
		SuperEffectiveAgainst []string `json:"superEffectiveAgainst"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"fire", "flying"}, resp.Types)
	assert.Contains(t, resp.Weaknesses, "rock")
	assert.Contains(t, resp.Immunities, "ground")
	assert.Contains(t, resp.SuperEffectiveAgainst, "grass")
}

func TestTypeMatchupsUnknownType(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/types/shadow/matchups", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTypeMatchupsTooManyTypes(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/types/fire,water,grass/matchups", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPokemonByID(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon/6", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var p model.Pokemon
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "charizard", p.Name)
	assert.Equal(t, []typechart.Type{typechart.Fire, typechart.Flying}, p.Types)
}

func TestPokemonByIDNotFound(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon/9999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPokemonByIDMalformed(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon/mewtwo", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPokemonPaged(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon?limit=2&offset=1", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []model.PokemonRef `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, model.PokemonRef{ID: 6, Name: "charizard"}, resp.Results[0])
	assert.Equal(t, model.PokemonRef{ID: 9, Name: "blastoise"}, resp.Results[1])
}

func TestListPokemonExactNameSearch(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon?name=Charizard", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []model.PokemonRef `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, model.PokemonRef{ID: 6, Name: "charizard"}, resp.Results[0])
}

func TestListPokemonSubstringSearch(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon?name=saur", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []model.PokemonRef `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, model.PokemonRef{ID: 3, Name: "venusaur"}, resp.Results[0])
}

func TestListPokemonRejectsBadLimit(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon?limit=zero", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPokemonSpecies(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon/6/species", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var s model.Species
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "charizard", s.Name)
	assert.Contains(t, s.FlavorText, "Spits fire")
}

func TestPokemonSpeciesNotFound(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/pokemon/9999/species", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoveByID(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/moves/53", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var m model.Move
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "flamethrower", m.Name)
	assert.Equal(t, typechart.Fire, m.Type)
	assert.Equal(t, "special", m.DamageClass)
	assert.Equal(t, 90, m.Power)
}

func TestMoveByIDNotFound(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/moves/9999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoveByIDMalformed(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/moves/tackle", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMovesPaged(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/moves?limit=1", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []model.MoveRef `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, model.MoveRef{ID: 14, Name: "swords-dance"}, resp.Results[0])
}

func TestListMovesNameSearch(t *testing.T) {
	w := do(t, testServer(t), http.MethodGet, "/api/v1/moves?name=flame", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []model.MoveRef `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, model.MoveRef{ID: 53, Name: "flamethrower"}, resp.Results[0])
}

func TestTeamWeaknesses(t *testing.T) {
	body := map[string]any{
		"team": []map[string]any{
			{"name": "charmander", "types": []string{"fire"}},
			{"name": "vulpix", "types": []string{"fire"}},
		},
	}
	w := do(t, testServer(t), http.MethodPost, "/api/v1/team/weaknesses", body)

	require.Equal(t, http.StatusOK, w.Code)

	var report team.WeaknessReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.NotEmpty(t, report.CriticalWeaknesses)
	assert.Equal(t, typechart.Water, report.CriticalWeaknesses[0].Type)
	assert.Equal(t, 2, report.CriticalWeaknesses[0].Count)
}

func TestTeamWeaknessesRejectsOversizedTeam(t *testing.T) {
	members := make([]map[string]any, 7)
	for i := range members {
		members[i] = map[string]any{"name": "pikachu", "types": []string{"electric"}}
	}
	w := do(t, testServer(t), http.MethodPost, "/api/v1/team/weaknesses", map[string]any{"team": members})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamWeaknessesRejectsUnknownType(t *testing.T) {
	body := map[string]any{
		"team": []map[string]any{
			{"name": "missingno", "types": []string{"glitch"}},
		},
	}
	w := do(t, testServer(t), http.MethodPost, "/api/v1/team/weaknesses", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamAnalysis(t *testing.T) {
	w := do(t, testServer(t), http.MethodPost, "/api/v1/team/analysis", map[string]any{"ids": []int{3, 6, 9}})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Analysis *team.TeamAnalysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Analysis)
	assert.GreaterOrEqual(t, resp.Analysis.OverallScore, 0)
	assert.LessOrEqual(t, resp.Analysis.OverallScore, 100)
	assert.NotEmpty(t, resp.Analysis.Grade)
}

func TestTeamAnalysisUnknownPokemon(t *testing.T) {
	w := do(t, testServer(t), http.MethodPost, "/api/v1/team/analysis", map[string]any{"ids": []int{12345}})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamRecommendations(t *testing.T) {
	body := map[string]any{
		"slots": []map[string]any{{"id": 6}, {"id": 0}},
		"max":   4,
	}
	w := do(t, testServer(t), http.MethodPost, "/api/v1/team/recommendations", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recommendations []team.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.LessOrEqual(t, len(resp.Recommendations), 4)
	for _, rec := range resp.Recommendations {
		assert.NotEqual(t, 6, rec.Pokemon.ID, "roster members are never recommended")
	}
}
