// Package storage reads Pokémon snapshots from a local PokeAPI sqlite
// dump, for running without network access to the public API.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

// Catalog serves snapshots from the dump. It satisfies the
// team.Provider contract.
type Catalog struct {
	db *sqlx.DB
}

// Open opens the dump read-only and verifies it is reachable.
func Open(ctx context.Context, dbPath string) (*Catalog, error) {
	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to read from database: %w", err)
	}

	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// English in pokemon_v2_language, fixed by the upstream schema.
const languageEnglishID = 9

// Stat IDs in pokemon_v2_pokemonstat, fixed by the upstream schema.
const (
	statHP = iota + 1
	statAttack
	statDefense
	statSpecialAttack
	statSpecialDefense
	statSpeed
)

// Pokemon retrieves a snapshot by catalog ID.
func (c *Catalog) Pokemon(ctx context.Context, id int) (*model.Pokemon, error) {
	var row struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	err := c.db.QueryRowxContext(ctx,
		/* sql */ `
		SELECT id, name
		FROM pokemon_v2_pokemon
		WHERE id = ?
	`, id).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pokemon %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error while querying pokemon: %w", err)
	}

	return c.assemble(ctx, row.ID, row.Name)
}

// PokemonByName retrieves a snapshot by its catalog name,
// case-insensitively.
func (c *Catalog) PokemonByName(ctx context.Context, name string) (*model.Pokemon, error) {
	var row struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	err := c.db.QueryRowxContext(ctx,
		/* sql */ `
		SELECT id, name
		FROM pokemon_v2_pokemon
		WHERE name = LOWER(?)
	`, name).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pokemon %q: %w", name, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error while querying pokemon: %w", err)
	}

	return c.assemble(ctx, row.ID, row.Name)
}

// ListPokemon retrieves one page of the catalog index in ID order.
func (c *Catalog) ListPokemon(ctx context.Context, limit, offset int) ([]model.PokemonRef, error) {
	var refs []model.PokemonRef
	err := c.db.SelectContext(ctx, &refs,
		/* sql */ `
		SELECT id, name
		FROM pokemon_v2_pokemon
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error while listing pokemon: %w", err)
	}

	return refs, nil
}

// Species retrieves the English flavor text for a species, preferring
// the most recent game version in the dump.
func (c *Catalog) Species(ctx context.Context, id int) (*model.Species, error) {
	s := &model.Species{ID: id}
	err := c.db.QueryRowxContext(ctx,
		/* sql */ `
		SELECT name
		FROM pokemon_v2_pokemonspecies
		WHERE id = ?
	`, id).Scan(&s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("species %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error while querying species: %w", err)
	}

	var flavorText string
	err = c.db.QueryRowxContext(ctx,
		/* sql */ `
		SELECT flavor_text
		FROM pokemon_v2_pokemonspeciesflavortext
		WHERE pokemon_species_id = ? AND language_id = ?
		ORDER BY version_id DESC
		LIMIT 1
	`, id, languageEnglishID).Scan(&flavorText)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("error while querying species flavor text: %w", err)
	}
	s.FlavorText = cleanFlavorText(flavorText)

	return s, nil
}

// Move retrieves a move snapshot by catalog ID.
func (c *Catalog) Move(ctx context.Context, id int) (*model.Move, error) {
	return c.move(ctx, /* sql */ `m.id = ?`, id)
}

// MoveByName retrieves a move snapshot by its catalog name,
// case-insensitively.
func (c *Catalog) MoveByName(ctx context.Context, name string) (*model.Move, error) {
	return c.move(ctx, /* sql */ `m.name = LOWER(?)`, name)
}

func (c *Catalog) move(ctx context.Context, where string, arg any) (*model.Move, error) {
	var row struct {
		ID          int    `db:"id"`
		Name        string `db:"name"`
		Power       *int   `db:"power"`
		Accuracy    *int   `db:"accuracy"`
		PP          int    `db:"pp"`
		Priority    int    `db:"priority"`
		TypeName    string `db:"type_name"`
		DamageClass string `db:"damage_class"`
	}
	err := c.db.QueryRowxContext(ctx,
		/* sql */ `
		SELECT m.id, m.name, m.power, m.accuracy, m.pp, m.priority,
			t.name AS type_name, dc.name AS damage_class
		FROM pokemon_v2_move m
		JOIN pokemon_v2_type t
			ON m.type_id = t.id
		JOIN pokemon_v2_movedamageclass dc
			ON m.move_damage_class_id = dc.id
		WHERE `+where,
		arg).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("move %v: %w", arg, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error while querying move: %w", err)
	}

	m := &model.Move{
		ID:          row.ID,
		Name:        row.Name,
		Type:        typechart.Normalize(typechart.Type(row.TypeName)),
		DamageClass: row.DamageClass,
		PP:          row.PP,
		Priority:    row.Priority,
	}
	if row.Power != nil {
		m.Power = *row.Power
	}
	if row.Accuracy != nil {
		m.Accuracy = *row.Accuracy
	}

	var description string
	err = c.db.QueryRowxContext(ctx,
		/* sql */ `
		SELECT flavor_text
		FROM pokemon_v2_moveflavortext
		WHERE move_id = ? AND language_id = ?
		ORDER BY version_group_id DESC
		LIMIT 1
	`, row.ID, languageEnglishID).Scan(&description)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("error while querying move flavor text: %w", err)
	}
	m.Description = cleanFlavorText(description)

	return m, nil
}

// ListMoves retrieves one page of the move index in ID order.
func (c *Catalog) ListMoves(ctx context.Context, limit, offset int) ([]model.MoveRef, error) {
	var refs []model.MoveRef
	err := c.db.SelectContext(ctx, &refs,
		/* sql */ `
		SELECT id, name
		FROM pokemon_v2_move
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error while listing moves: %w", err)
	}

	return refs, nil
}

// cleanFlavorText strips the form-feed and line-break artifacts the
// dump carries over from the game data.
func cleanFlavorText(text string) string {
	text = strings.NewReplacer("\n", " ", "\f", " ").Replace(text)

	return strings.Join(strings.Fields(text), " ")
}

func (c *Catalog) assemble(ctx context.Context, id int, name string) (*model.Pokemon, error) {
	p := &model.Pokemon{
		ID:   id,
		Name: name,
		Sprites: model.Sprites{
			FrontDefault:    fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png", id),
			OfficialArtwork: fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png", id),
		},
	}

	var typeNames []string
	err := c.db.SelectContext(ctx, &typeNames,
		/* sql */ `
		SELECT t.name
		FROM pokemon_v2_pokemontype pt
		JOIN pokemon_v2_type t
			ON pt.type_id = t.id
		WHERE pt.pokemon_id = ?
		ORDER BY pt.slot ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("error while querying pokemon types: %w", err)
	}
	for _, typeName := range typeNames {
		p.Types = append(p.Types, typechart.Normalize(typechart.Type(typeName)))
	}

	var stats []struct {
		StatID   int `db:"stat_id"`
		BaseStat int `db:"base_stat"`
	}
	err = c.db.SelectContext(ctx, &stats,
		/* sql */ `
		SELECT stat_id, base_stat
		FROM pokemon_v2_pokemonstat
		WHERE pokemon_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("error while querying pokemon stats: %w", err)
	}
	for _, s := range stats {
		switch s.StatID {
		case statHP:
			p.Stats.HP = s.BaseStat
		case statAttack:
			p.Stats.Attack = s.BaseStat
		case statDefense:
			p.Stats.Defense = s.BaseStat
		case statSpecialAttack:
			p.Stats.SpecialAttack = s.BaseStat
		case statSpecialDefense:
			p.Stats.SpecialDefense = s.BaseStat
		case statSpeed:
			p.Stats.Speed = s.BaseStat
		}
	}

	return p, nil
}
