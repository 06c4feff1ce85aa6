package pokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

const charizardJSON = `{
	"id": 6,
	"name": "charizard",
	"types": [
		{"slot": 2, "type": {"name": "flying"}},
		{"slot": 1, "type": {"name": "Fire"}}
	],
	"stats": [
		{"base_stat": 78, "stat": {"name": "hp"}},
		{"base_stat": 84, "stat": {"name": "attack"}},
		{"base_stat": 78, "stat": {"name": "defense"}},
		{"base_stat": 109, "stat": {"name": "special-attack"}},
		{"base_stat": 85, "stat": {"name": "special-defense"}},
		{"base_stat": 100, "stat": {"name": "speed"}}
	],
	"sprites": {
		"front_default": "https://example.test/6.png",
		"other": {
			"official-artwork": {"front_default": "https://example.test/6-art.png"}
		}
	}
}`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Options{
		BaseURL:        srv.URL,
		RateLimit:      rate.Inf,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})
}

func TestPokemonMapsResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/6", r.URL.Path)
		w.Write([]byte(charizardJSON))
	}))

	p, err := c.Pokemon(context.Background(), 6)

	require.NoError(t, err)
	assert.Equal(t, 6, p.ID)
	assert.Equal(t, "charizard", p.Name)
	assert.Equal(t, []typechart.Type{typechart.Fire, typechart.Flying}, p.Types,
		"types come back in slot order with normalized names")
	assert.Equal(t, model.Stats{
		HP: 78, Attack: 84, Defense: 78,
		SpecialAttack: 109, SpecialDefense: 85, Speed: 100,
	}, p.Stats)
	assert.Equal(t, "https://example.test/6.png", p.Sprites.FrontDefault)
	assert.Equal(t, "https://example.test/6-art.png", p.Sprites.OfficialArtwork)
}

func TestPokemonByNameLowercasesInput(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/charizard", r.URL.Path)
		w.Write([]byte(charizardJSON))
	}))

	p, err := c.PokemonByName(context.Background(), "  Charizard ")

	require.NoError(t, err)
	assert.Equal(t, "charizard", p.Name)
}

func TestPokemonNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.Pokemon(context.Background(), 99999)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPokemonRetriesAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(charizardJSON))
	}))

	p, err := c.Pokemon(context.Background(), 6)

	require.NoError(t, err)
	assert.Equal(t, "charizard", p.Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSpeciesPicksEnglishFlavorText(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon-species/6", r.URL.Path)
		w.Write([]byte(`{
			"id": 6,
			"name": "charizard",
			"flavor_text_entries": [
				{"flavor_text": "Crache du feu.", "language": {"name": "fr"}},
				{"flavor_text": "Spits fire that\nis hot enough to\fmelt boulders.", "language": {"name": "en"}}
			]
		}`))
	}))

	s, err := c.Species(context.Background(), 6)

	require.NoError(t, err)
	assert.Equal(t, "charizard", s.Name)
	assert.Equal(t, "Spits fire that is hot enough to melt boulders.", s.FlavorText)
}

func TestListPokemonParsesIDs(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "3", r.URL.Query().Get("offset"))
		w.Write([]byte(`{
			"count": 1302,
			"results": [
				{"name": "charmander", "url": "https://pokeapi.co/api/v2/pokemon/4/"},
				{"name": "charmeleon", "url": "https://pokeapi.co/api/v2/pokemon/5/"},
				{"name": "charizard", "url": "https://pokeapi.co/api/v2/pokemon/6/"}
			]
		}`))
	}))

	refs, err := c.ListPokemon(context.Background(), 3, 3)

	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, model.PokemonRef{ID: 4, Name: "charmander"}, refs[0])
	assert.Equal(t, model.PokemonRef{ID: 6, Name: "charizard"}, refs[2])
}

func TestMoveMapsResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/move/53", r.URL.Path)
		w.Write([]byte(`{
			"id": 53,
			"name": "flamethrower",
			"power": 90,
			"accuracy": 100,
			"pp": 15,
			"priority": 0,
			"damage_class": {"name": "special"},
			"type": {"name": "Fire"},
			"flavor_text_entries": [
				{"flavor_text": "Lance-Flammes.", "language": {"name": "fr"}},
				{"flavor_text": "A powerful fire\nattack that may\finflict a burn.", "language": {"name": "en"}}
			]
		}`))
	}))

	m, err := c.Move(context.Background(), 53)

	require.NoError(t, err)
	assert.Equal(t, 53, m.ID)
	assert.Equal(t, "flamethrower", m.Name)
	assert.Equal(t, typechart.Fire, m.Type)
	assert.Equal(t, "special", m.DamageClass)
	assert.Equal(t, 90, m.Power)
	assert.Equal(t, 100, m.Accuracy)
	assert.Equal(t, 15, m.PP)
	assert.Equal(t, "A powerful fire attack that may inflict a burn.", m.Description)
}

func TestMoveNullPowerAndAccuracy(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 14,
			"name": "swords-dance",
			"power": null,
			"accuracy": null,
			"pp": 20,
			"priority": 0,
			"damage_class": {"name": "status"},
			"type": {"name": "normal"},
			"flavor_text_entries": []
		}`))
	}))

	m, err := c.Move(context.Background(), 14)

	require.NoError(t, err)
	assert.Equal(t, 0, m.Power)
	assert.Equal(t, 0, m.Accuracy)
	assert.Equal(t, "status", m.DamageClass)
	assert.Empty(t, m.Description)
}

func TestMoveByNameLowercasesInput(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/move/flamethrower", r.URL.Path)
		w.Write([]byte(`{"id": 53, "name": "flamethrower", "pp": 15, "damage_class": {"name": "special"}, "type": {"name": "fire"}}`))
	}))

	m, err := c.MoveByName(context.Background(), " Flamethrower ")

	require.NoError(t, err)
	assert.Equal(t, "flamethrower", m.Name)
}

func TestMoveNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.Move(context.Background(), 99999)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListMovesParsesIDs(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/move", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		w.Write([]byte(`{
			"count": 937,
			"results": [
				{"name": "pound", "url": "https://pokeapi.co/api/v2/move/1/"},
				{"name": "karate-chop", "url": "https://pokeapi.co/api/v2/move/2/"}
			]
		}`))
	}))

	refs, err := c.ListMoves(context.Background(), 2, 0)

	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, model.MoveRef{ID: 1, Name: "pound"}, refs[0])
	assert.Equal(t, model.MoveRef{ID: 2, Name: "karate-chop"}, refs[1])
}

func TestPokemonServerError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))

	_, err := c.Pokemon(context.Background(), 6)

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}
