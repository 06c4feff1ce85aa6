// Package server exposes the team engine over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/team"
)

const shutdownTimeout = 10 * time.Second

// Catalog is the browse surface behind the dex grid and the detail
// views: paged indexes, name lookup, species flavor text, and moves.
// Both snapshot providers implement it.
type Catalog interface {
	PokemonByName(ctx context.Context, name string) (*model.Pokemon, error)
	ListPokemon(ctx context.Context, limit, offset int) ([]model.PokemonRef, error)
	Species(ctx context.Context, id int) (*model.Species, error)
	Move(ctx context.Context, id int) (*model.Move, error)
	MoveByName(ctx context.Context, name string) (*model.Move, error)
	ListMoves(ctx context.Context, limit, offset int) ([]model.MoveRef, error)
}

// Server wires the team service and the catalog into a gin engine.
type Server struct {
	engine  *gin.Engine
	service *team.Service
	catalog Catalog
	logger  *slog.Logger
}

// New builds the server and registers all routes.
func New(service *team.Service, catalog Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		engine:  engine,
		service: service,
		catalog: catalog,
		logger:  logger,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/types/:types/matchups", s.typeMatchups)
		v1.GET("/pokemon", s.listPokemon)
		v1.GET("/pokemon/:id", s.pokemonByID)
		v1.GET("/pokemon/:id/species", s.pokemonSpecies)
		v1.GET("/moves", s.listMoves)
		v1.GET("/moves/:id", s.moveByID)

		teamGroup := v1.Group("/team")
		{
			teamGroup.POST("/weaknesses", s.teamWeaknesses)
			teamGroup.POST("/analysis", s.teamAnalysis)
			teamGroup.POST("/recommendations", s.teamRecommendations)
		}
	}
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errc
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
