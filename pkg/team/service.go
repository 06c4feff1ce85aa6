// Package team implements the team-composition engine: per-Pokémon role
// classification, roster weakness analysis, archetype detection and
// scoring, and the recommendation generator layered on top.
package team

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

// Provider fetches Pokémon snapshots from the upstream catalog.
type Provider interface {
	Pokemon(ctx context.Context, id int) (*model.Pokemon, error)
}

// Service is the team analysis and recommendation engine. Its two caches
// (snapshots and per-Pokémon analyses, both keyed by catalog ID) grow
// unbounded for the lifetime of the process and are guarded by a mutex
// so the service is safe for concurrent request handlers.
type Service struct {
	provider Provider
	logger   *slog.Logger

	mu       sync.Mutex
	pokemon  map[int]*model.Pokemon
	analyses map[int]*Analysis
}

// NewService builds a Service on top of a catalog provider.
func NewService(provider Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		provider: provider,
		logger:   logger,
		pokemon:  make(map[int]*model.Pokemon),
		analyses: make(map[int]*Analysis),
	}
}

// AnalyzeTeam derives the full analysis for a roster of up to six
// snapshots. It is a pure function of the snapshots: identical rosters
// produce identical analyses.
func (s *Service) AnalyzeTeam(roster []*model.Pokemon) *TeamAnalysis {
	analyses := make([]*Analysis, len(roster))
	for i, p := range roster {
		analyses[i] = s.analysisFor(p)
	}

	return buildTeamAnalysis(roster, analyses)
}

// Analyze runs the full team analysis, degrading to the weakness-only
// report instead of failing the whole operation if the richer analysis
// cannot be computed.
func (s *Service) Analyze(roster []*model.Pokemon) (analysis *TeamAnalysis, fallback *WeaknessReport) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("full team analysis failed, degrading to weakness report", "cause", r)
			members := make([]Member, len(roster))
			for i, p := range roster {
				members[i] = Member{Name: p.Name, Types: p.Types}
			}
			report := AnalyzeWeaknesses(members)
			analysis = nil
			fallback = &report
		}
	}()

	return s.AnalyzeTeam(roster), nil
}

// PokemonByID resolves one snapshot through the service cache.
func (s *Service) PokemonByID(ctx context.Context, id int) (*model.Pokemon, error) {
	return s.pokemonByID(ctx, id)
}

// Roster resolves a list of catalog IDs into snapshots, failing on the
// first ID that cannot be fetched.
func (s *Service) Roster(ctx context.Context, ids []int) ([]*model.Pokemon, error) {
	roster := make([]*model.Pokemon, len(ids))
	for i, id := range ids {
		p, err := s.pokemonByID(ctx, id)
		if err != nil {
			return nil, err
		}
		roster[i] = p
	}

	return roster, nil
}

// analysisFor returns the cached per-Pokémon analysis, computing it on
// first use.
func (s *Service) analysisFor(p *model.Pokemon) *Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.analyses[p.ID]; ok {
		return a
	}

	a := analyzePokemon(p)
	s.analyses[p.ID] = a

	return a
}

// pokemonByID fetches one snapshot through the process-lifetime cache.
func (s *Service) pokemonByID(ctx context.Context, id int) (*model.Pokemon, error) {
	s.mu.Lock()
	if p, ok := s.pokemon[id]; ok {
		s.mu.Unlock()
		return p, nil
	}
	s.mu.Unlock()

	p, err := s.provider.Pokemon(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error while fetching pokemon %d: %w", id, err)
	}

	s.mu.Lock()
	s.pokemon[id] = p
	s.mu.Unlock()

	return p, nil
}

// fetchAll fetches independent IDs concurrently and joins the results in
// input order so downstream tie-breaks stay deterministic. Failed
// fetches are logged and skipped.
func (s *Service) fetchAll(ctx context.Context, ids []int) []*model.Pokemon {
	fetched := make([]*model.Pokemon, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			p, err := s.pokemonByID(ctx, id)
			if err != nil {
				s.logger.Warn("skipping candidate", "id", id, "error", err)
				return
			}
			fetched[i] = p
		}(i, id)
	}
	wg.Wait()

	results := make([]*model.Pokemon, 0, len(ids))
	for _, p := range fetched {
		if p != nil {
			results = append(results, p)
		}
	}

	return results
}

// pokemonByType materializes up to limit candidates of the given type
// from the curated per-type lists. Per-item fetch failures are skipped;
// entries whose current typing no longer matches are filtered out.
func (s *Service) pokemonByType(ctx context.Context, t typechart.Type, limit int) []*model.Pokemon {
	ids := popularByType[t]
	if len(ids) > limit+2 {
		ids = ids[:limit+2]
	}

	var results []*model.Pokemon
	for _, id := range ids {
		p, err := s.pokemonByID(ctx, id)
		if err != nil {
			s.logger.Warn("skipping candidate", "type", t, "id", id, "error", err)
			continue
		}
		if p.HasType(t) {
			results = append(results, p)
			if len(results) >= limit {
				break
			}
		}
	}

	return results
}
