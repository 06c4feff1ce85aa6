// Package pokeapi is a rate-limited REST client for the public PokéAPI,
// mapping its wire representation onto the catalog model.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

const (
	// DefaultBaseURL is the public PokéAPI endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	defaultMaxRetries     = 3
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 8 * time.Second
)

// DefaultRateLimit keeps well under the PokéAPI fair-use guidance.
var DefaultRateLimit = rate.Every(200 * time.Millisecond)

// Options configures the client.
type Options struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// RateLimit controls request frequency (default: 5 req/second).
	RateLimit rate.Limit

	// Timeout for HTTP requests (default: 30 seconds).
	Timeout time.Duration

	// HTTPClient allows a custom HTTP client.
	HTTPClient *http.Client

	// MaxRetries bounds retry attempts on transient failures.
	MaxRetries int

	// InitialBackoff and MaxBackoff shape the retry delay.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// UserAgent identifies the client to the API.
	UserAgent string
}

// DefaultOptions returns conservative defaults.
func DefaultOptions() Options {
	return Options{
		BaseURL:        DefaultBaseURL,
		RateLimit:      DefaultRateLimit,
		Timeout:        DefaultTimeout,
		MaxRetries:     defaultMaxRetries,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
		UserAgent:      "teamdex/1.0",
	}
}

// Client fetches Pokémon snapshots over HTTP with rate limiting and
// retries. It satisfies the team.Provider contract.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	userAgent      string
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewClient builds a client, filling zero options with defaults.
func NewClient(options Options) *Client {
	defaults := DefaultOptions()
	if options.BaseURL == "" {
		options.BaseURL = defaults.BaseURL
	}
	if options.RateLimit == 0 {
		options.RateLimit = defaults.RateLimit
	}
	if options.Timeout == 0 {
		options.Timeout = defaults.Timeout
	}
	if options.MaxRetries == 0 {
		options.MaxRetries = defaults.MaxRetries
	}
	if options.InitialBackoff == 0 {
		options.InitialBackoff = defaults.InitialBackoff
	}
	if options.MaxBackoff == 0 {
		options.MaxBackoff = defaults.MaxBackoff
	}
	if options.UserAgent == "" {
		options.UserAgent = defaults.UserAgent
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	return &Client{
		baseURL:        strings.TrimSuffix(options.BaseURL, "/"),
		httpClient:     httpClient,
		limiter:        rate.NewLimiter(options.RateLimit, 1),
		userAgent:      options.UserAgent,
		maxRetries:     options.MaxRetries,
		initialBackoff: options.InitialBackoff,
		maxBackoff:     options.MaxBackoff,
	}
}

// Pokemon retrieves a snapshot by catalog ID.
func (c *Client) Pokemon(ctx context.Context, id int) (*model.Pokemon, error) {
	url := fmt.Sprintf("%s/pokemon/%d", c.baseURL, id)

	var resp pokemonResponse
	if err := c.doRequest(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to get pokemon %d: %w", id, err)
	}

	return resp.toModel(), nil
}

// PokemonByName retrieves a snapshot by its API name.
func (c *Client) PokemonByName(ctx context.Context, name string) (*model.Pokemon, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	url := fmt.Sprintf("%s/pokemon/%s", c.baseURL, name)

	var resp pokemonResponse
	if err := c.doRequest(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to get pokemon %q: %w", name, err)
	}

	return resp.toModel(), nil
}

// Species retrieves the English flavor text for a species, cleaned of
// the form-feed and line-break artifacts the API carries over from the
// game data.
func (c *Client) Species(ctx context.Context, id int) (*model.Species, error) {
	url := fmt.Sprintf("%s/pokemon-species/%d", c.baseURL, id)

	var resp speciesResponse
	if err := c.doRequest(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to get species %d: %w", id, err)
	}

	return resp.toModel(), nil
}

// ListPokemon retrieves one page of the catalog index.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) ([]model.PokemonRef, error) {
	url := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)

	var resp listResponse
	if err := c.doRequest(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to list pokemon: %w", err)
	}

	refs := make([]model.PokemonRef, 0, len(resp.Results))
	for _, result := range resp.Results {
		refs = append(refs, model.PokemonRef{
			ID:   idFromURL(result.URL),
			Name: result.Name,
		})
	}

	return refs, nil
}

// Move retrieves a move snapshot by catalog ID.
func (c *Client) Move(ctx context.Context, id int) (*model.Move, error) {
	url := fmt.Sprintf("%s/move/%d", c.baseURL, id)

	var resp moveResponse
	if err := c.doRequest(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to get move %d: %w", id, err)
	}

	return resp.toModel(), nil
}

// MoveByName retrieves a move snapshot by its API name.
func (c *Client) MoveByName(ctx context.Context, name string) (*model.Move, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	url := fmt.Sprintf("%s/move/%s", c.baseURL, name)

	var resp moveResponse
	if err := c.doRequest(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to get move %q: %w", name, err)
	}

	return resp.toModel(), nil
}

// ListMoves retrieves one page of the move index.
func (c *Client) ListMoves(ctx context.Context, limit, offset int) ([]model.MoveRef, error) {
	url := fmt.Sprintf("%s/move?limit=%d&offset=%d", c.baseURL, limit, offset)

	var resp listResponse
	if err := c.doRequest(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	refs := make([]model.MoveRef, 0, len(resp.Results))
	for _, result := range resp.Results {
		refs = append(refs, model.MoveRef{
			ID:   idFromURL(result.URL),
			Name: result.Name,
		})
	}

	return refs, nil
}

// idFromURL pulls the trailing numeric segment out of a resource URL
// like https://pokeapi.co/api/v2/pokemon/6/.
func idFromURL(resourceURL string) int {
	trimmed := strings.TrimSuffix(resourceURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx == -1 {
		return 0
	}

	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0
	}

	return id
}

// doRequest performs one GET with rate limiting and retry on transient
// failures.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < c.maxRetries {
				time.Sleep(backoff)
				backoff = min(backoff*2, c.maxBackoff)
				continue
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}

			return nil

		case http.StatusTooManyRequests:
			resp.Body.Close()
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < c.maxRetries {
				delay := backoff
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if parsed, err := time.ParseDuration(retryAfter + "s"); err == nil {
						delay = parsed
					}
				}
				time.Sleep(delay)
				backoff = min(backoff*2, c.maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			resp.Body.Close()
			return &NotFoundError{URL: url}

		default:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Wire representation of /pokemon responses, trimmed to the fields the
// model needs.
type pokemonResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
}

type speciesResponse struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	FlavorTextEntries []struct {
		FlavorText string `json:"flavor_text"`
		Language   struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"flavor_text_entries"`
}

func (r *speciesResponse) toModel() *model.Species {
	s := &model.Species{ID: r.ID, Name: r.Name}
	for _, entry := range r.FlavorTextEntries {
		if entry.Language.Name == "en" {
			s.FlavorText = cleanFlavorText(entry.FlavorText)
			break
		}
	}

	return s
}

// cleanFlavorText strips the form-feed and line-break artifacts the API
// carries over from the game data.
func cleanFlavorText(text string) string {
	text = strings.NewReplacer("\n", " ", "\f", " ").Replace(text)

	return strings.Join(strings.Fields(text), " ")
}

type moveResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          int    `json:"pp"`
	Priority    int    `json:"priority"`
	DamageClass struct {
		Name string `json:"name"`
	} `json:"damage_class"`
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
	FlavorTextEntries []struct {
		FlavorText string `json:"flavor_text"`
		Language   struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"flavor_text_entries"`
}

func (r *moveResponse) toModel() *model.Move {
	m := &model.Move{
		ID:          r.ID,
		Name:        r.Name,
		Type:        typechart.Normalize(typechart.Type(r.Type.Name)),
		DamageClass: r.DamageClass.Name,
		PP:          r.PP,
		Priority:    r.Priority,
	}
	// Status moves ship power as null; moves that never miss ship
	// accuracy as null. Both collapse to zero in the snapshot.
	if r.Power != nil {
		m.Power = *r.Power
	}
	if r.Accuracy != nil {
		m.Accuracy = *r.Accuracy
	}
	for _, entry := range r.FlavorTextEntries {
		if entry.Language.Name == "en" {
			m.Description = cleanFlavorText(entry.FlavorText)
			break
		}
	}

	return m
}

type listResponse struct {
	Count   int `json:"count"`
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

func (r *pokemonResponse) toModel() *model.Pokemon {
	// Primary typing first, regardless of response order.
	sort.SliceStable(r.Types, func(i, j int) bool { return r.Types[i].Slot < r.Types[j].Slot })

	p := &model.Pokemon{
		ID:   r.ID,
		Name: r.Name,
		Sprites: model.Sprites{
			FrontDefault:    r.Sprites.FrontDefault,
			OfficialArtwork: r.Sprites.Other.OfficialArtwork.FrontDefault,
		},
	}
	for _, t := range r.Types {
		p.Types = append(p.Types, typechart.Normalize(typechart.Type(t.Type.Name)))
	}
	for _, s := range r.Stats {
		switch s.Stat.Name {
		case "hp":
			p.Stats.HP = s.BaseStat
		case "attack":
			p.Stats.Attack = s.BaseStat
		case "defense":
			p.Stats.Defense = s.BaseStat
		case "special-attack":
			p.Stats.SpecialAttack = s.BaseStat
		case "special-defense":
			p.Stats.SpecialDefense = s.BaseStat
		case "speed":
			p.Stats.Speed = s.BaseStat
		}
	}

	return p
}
