// Package model holds the Pokémon snapshot types shared by the analysis
// engine, the data providers, and the HTTP surface. Snapshots are owned
// by the upstream catalog; everything here only reads them.
package model

import (
	"errors"

	"github.com/teamdex/teamdex/pkg/typechart"
)

// ErrNotFound reports that a Pokémon or move does not exist in the
// upstream catalog. Provider implementations wrap it so callers can
// errors.Is it without knowing which provider served the request.
var ErrNotFound = errors.New("not found in catalog")

// TeamSize is the number of slots on a full team.
const TeamSize = 6

// Stats are the six base stats of one Pokémon.
type Stats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"specialAttack"`
	SpecialDefense int `json:"specialDefense"`
	Speed          int `json:"speed"`
}

// Total returns the base stat total.
func (s Stats) Total() int {
	return s.HP + s.Attack + s.Defense + s.SpecialAttack + s.SpecialDefense + s.Speed
}

// Offense returns the higher of the two attacking stats.
func (s Stats) Offense() int {
	if s.Attack > s.SpecialAttack {
		return s.Attack
	}

	return s.SpecialAttack
}

// Bulk returns the average of HP and the two defensive stats.
func (s Stats) Bulk() float64 {
	return float64(s.HP+s.Defense+s.SpecialDefense) / 3
}

// Sprites carries the artwork URLs the upstream catalog ships for one
// Pokémon.
type Sprites struct {
	FrontDefault    string `json:"frontDefault"`
	OfficialArtwork string `json:"officialArtwork"`
}

// Pokemon is a read-only snapshot of one catalog entry. Types holds one
// or two entries in primary/secondary order.
type Pokemon struct {
	ID      int              `json:"id"`
	Name    string           `json:"name"`
	Types   []typechart.Type `json:"types"`
	Stats   Stats            `json:"stats"`
	Sprites Sprites          `json:"sprites"`
}

// HasType reports whether the snapshot carries the given type.
func (p *Pokemon) HasType(t typechart.Type) bool {
	for _, pt := range p.Types {
		if pt == t {
			return true
		}
	}

	return false
}

// Slot is one of the six team positions; an empty slot holds nil.
type Slot struct {
	Pokemon *Pokemon `json:"pokemon"`
}

// PokemonRef is one entry of the paged catalog index.
type PokemonRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Species carries the flavor description of a Pokémon species.
type Species struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	FlavorText string `json:"flavorText"`
}
