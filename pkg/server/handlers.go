package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/team"
	"github.com/teamdex/teamdex/pkg/typechart"
)

// parseTypes validates a comma-separated typing like "fire,flying".
func parseTypes(raw string) ([]typechart.Type, error) {
	parts := strings.Split(raw, ",")
	if len(parts) < 1 || len(parts) > 2 {
		return nil, errors.New("typing must have one or two types")
	}

	types := make([]typechart.Type, len(parts))
	for i, part := range parts {
		t := typechart.Normalize(typechart.Type(strings.TrimSpace(part)))
		if !typechart.Known(t) {
			return nil, fmt.Errorf("unknown type %q", part)
		}
		types[i] = t
	}

	return types, nil
}

func (s *Server) typeMatchups(c *gin.Context) {
	types, err := parseTypes(c.Param("types"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"types":                 types,
		"weaknesses":            typechart.Weaknesses(types),
		"resistances":           typechart.Resistances(types),
		"immunities":            typechart.Immunities(types),
		"superEffectiveAgainst": typechart.SuperEffectiveAgainst(types),
	})
}

func (s *Server) pokemonByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	p, err := s.service.PokemonByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("pokemon %d not found", id)})
			return
		}
		s.logger.Error("pokemon lookup failed", "id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch pokemon"})
		return
	}

	c.JSON(http.StatusOK, p)
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 200

	// searchIndexLimit bounds the index page a substring search scans
	// when no exact name match exists.
	searchIndexLimit = 1000
)

// pageParams parses the limit/offset query parameters.
func pageParams(c *gin.Context) (limit, offset int, err error) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

func (s *Server) listPokemon(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if query := strings.TrimSpace(c.Query("name")); query != "" {
		// Exact name hit first, then a substring scan of the index.
		p, err := s.catalog.PokemonByName(c.Request.Context(), query)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"results": []model.PokemonRef{{ID: p.ID, Name: p.Name}}})
			return
		}
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("pokemon search failed", "name", query, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to search pokemon"})
			return
		}

		refs, err := s.catalog.ListPokemon(c.Request.Context(), searchIndexLimit, 0)
		if err != nil {
			s.logger.Error("pokemon search failed", "name", query, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to search pokemon"})
			return
		}
		matches := make([]model.PokemonRef, 0, limit)
		for _, ref := range refs {
			if strings.Contains(ref.Name, strings.ToLower(query)) {
				matches = append(matches, ref)
				if len(matches) == limit {
					break
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"results": matches})
		return
	}

	refs, err := s.catalog.ListPokemon(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.Error("pokemon listing failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list pokemon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": refs, "limit": limit, "offset": offset})
}

func (s *Server) pokemonSpecies(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	sp, err := s.catalog.Species(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("species %d not found", id)})
			return
		}
		s.logger.Error("species lookup failed", "id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch species"})
		return
	}

	c.JSON(http.StatusOK, sp)
}

func (s *Server) moveByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	m, err := s.catalog.Move(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("move %d not found", id)})
			return
		}
		s.logger.Error("move lookup failed", "id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch move"})
		return
	}

	c.JSON(http.StatusOK, m)
}

func (s *Server) listMoves(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if query := strings.TrimSpace(c.Query("name")); query != "" {
		m, err := s.catalog.MoveByName(c.Request.Context(), query)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"results": []model.MoveRef{{ID: m.ID, Name: m.Name}}})
			return
		}
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("move search failed", "name", query, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to search moves"})
			return
		}

		refs, err := s.catalog.ListMoves(c.Request.Context(), searchIndexLimit, 0)
		if err != nil {
			s.logger.Error("move search failed", "name", query, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to search moves"})
			return
		}
		matches := make([]model.MoveRef, 0, limit)
		for _, ref := range refs {
			if strings.Contains(ref.Name, strings.ToLower(query)) {
				matches = append(matches, ref)
				if len(matches) == limit {
					break
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"results": matches})
		return
	}

	refs, err := s.catalog.ListMoves(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.Error("move listing failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list moves"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": refs, "limit": limit, "offset": offset})
}

type weaknessRequest struct {
	Team []struct {
		Name  string   `json:"name"`
		Types []string `json:"types"`
	} `json:"team"`
}

func (s *Server) teamWeaknesses(c *gin.Context) {
	var req weaknessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Team) > model.TeamSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team cannot exceed 6 pokemon"})
		return
	}

	members := make([]team.Member, len(req.Team))
	for i, m := range req.Team {
		types, err := parseTypes(strings.Join(m.Types, ","))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("member %q: %s", m.Name, err)})
			return
		}
		members[i] = team.Member{Name: m.Name, Types: types}
	}

	c.JSON(http.StatusOK, team.AnalyzeWeaknesses(members))
}

type analysisRequest struct {
	IDs []int `json:"ids"`
}

func (s *Server) teamAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.IDs) > model.TeamSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team cannot exceed 6 pokemon"})
		return
	}

	roster, err := s.service.Roster(c.Request.Context(), req.IDs)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("roster resolution failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch team"})
		return
	}

	analysis, fallback := s.service.Analyze(roster)
	if analysis == nil {
		c.JSON(http.StatusOK, gin.H{"degraded": true, "weaknesses": fallback})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

type recommendationsRequest struct {
	Slots []struct {
		ID int `json:"id"`
	} `json:"slots"`
	Max int `json:"max"`
}

func (s *Server) teamRecommendations(c *gin.Context) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Slots) > model.TeamSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team cannot exceed 6 pokemon"})
		return
	}

	// Zero IDs are empty slots awaiting a pick.
	slots := make([]model.Slot, len(req.Slots))
	for i, slot := range req.Slots {
		if slot.ID == 0 {
			continue
		}
		p, err := s.service.PokemonByID(c.Request.Context(), slot.ID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("pokemon %d not found", slot.ID)})
				return
			}
			s.logger.Error("slot resolution failed", "id", slot.ID, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch team"})
			return
		}
		slots[i] = model.Slot{Pokemon: p}
	}

	recs, err := s.service.Recommendations(c.Request.Context(), slots, req.Max)
	if err != nil {
		s.logger.Error("recommendation generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
