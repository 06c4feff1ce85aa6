// Package typechart holds the static type-effectiveness chart and the
// derived weakness/resistance/coverage queries built on top of it.
package typechart

import "strings"

// Type is the lower-case name of one of the 18 elemental types. Values
// outside the known set are tolerated everywhere and treated as dealing
// and receiving neutral damage.
type Type string

const (
	Normal   Type = "normal"
	Fire     Type = "fire"
	Water    Type = "water"
	Electric Type = "electric"
	Grass    Type = "grass"
	Ice      Type = "ice"
	Fighting Type = "fighting"
	Poison   Type = "poison"
	Ground   Type = "ground"
	Flying   Type = "flying"
	Psychic  Type = "psychic"
	Bug      Type = "bug"
	Rock     Type = "rock"
	Ghost    Type = "ghost"
	Dragon   Type = "dragon"
	Dark     Type = "dark"
	Steel    Type = "steel"
	Fairy    Type = "fairy"
)

// All lists every type in canonical dex order. Query results are emitted
// in this order so repeated calls are deterministic.
var All = []Type{
	Normal, Fire, Water, Electric, Grass, Ice, Fighting, Poison, Ground,
	Flying, Psychic, Bug, Rock, Ghost, Dragon, Dark, Steel, Fairy,
}

// chart maps attacking type to defending type to damage multiplier.
// Absent entries are neutral (1x).
var chart = map[Type]map[Type]float64{
	Normal: {
		Rock:  0.5,
		Ghost: 0,
		Steel: 0.5,
	},
	Fire: {
		Fire:   0.5,
		Water:  0.5,
		Grass:  2,
		Ice:    2,
		Bug:    2,
		Rock:   0.5,
		Dragon: 0.5,
		Steel:  2,
	},
	Water: {
		Fire:   2,
		Water:  0.5,
		Grass:  0.5,
		Ground: 2,
		Rock:   2,
		Dragon: 0.5,
	},
	Electric: {
		Water:    2,
		Electric: 0.5,
		Grass:    0.5,
		Ground:   0,
		Flying:   2,
		Dragon:   0.5,
	},
	Grass: {
		Fire:   0.5,
		Water:  2,
		Grass:  0.5,
		Poison: 0.5,
		Ground: 2,
		Rock:   2,
		Bug:    0.5,
		Dragon: 0.5,
		Steel:  0.5,
		Flying: 0.5,
	},
	Ice: {
		Fire:   0.5,
		Water:  0.5,
		Grass:  2,
		Ice:    0.5,
		Ground: 2,
		Flying: 2,
		Dragon: 2,
		Steel:  0.5,
	},
	Fighting: {
		Normal:  2,
		Ice:     2,
		Poison:  0.5,
		Psychic: 0.5,
		Bug:     0.5,
		Rock:    2,
		Ghost:   0,
		Dark:    2,
		Steel:   2,
		Flying:  0.5,
		Fairy:   0.5,
	},
	Poison: {
		Grass:  2,
		Poison: 0.5,
		Ground: 0.5,
		Rock:   0.5,
		Ghost:  0.5,
		Steel:  0,
		Fairy:  2,
	},
	Ground: {
		Fire:     2,
		Electric: 2,
		Grass:    0.5,
		Poison:   2,
		Bug:      0.5,
		Rock:     2,
		Steel:    2,
		Flying:   0,
	},
	Flying: {
		Electric: 0.5,
		Grass:    2,
		Ice:      0.5,
		Fighting: 2,
		Bug:      2,
		Rock:     0.5,
		Steel:    0.5,
	},
	Psychic: {
		Fighting: 2,
		Poison:   2,
		Psychic:  0.5,
		Dark:     0,
		Steel:    0.5,
	},
	Bug: {
		Fire:     0.5,
		Grass:    2,
		Fighting: 0.5,
		Poison:   0.5,
		Psychic:  2,
		Ghost:    0.5,
		Dark:     2,
		Steel:    0.5,
		Flying:   0.5,
		Fairy:    0.5,
	},
	Rock: {
		Fire:     2,
		Ice:      2,
		Fighting: 0.5,
		Ground:   0.5,
		Bug:      2,
		Steel:    0.5,
		Flying:   2,
	},
	Ghost: {
		Normal:  0,
		Psychic: 2,
		Ghost:   2,
		Dark:    0.5,
	},
	Dragon: {
		Dragon: 2,
		Steel:  0.5,
		Fairy:  0,
	},
	Dark: {
		Fighting: 0.5,
		Psychic:  2,
		Ghost:    2,
		Dark:     0.5,
		Fairy:    0.5,
	},
	Steel: {
		Fire:     0.5,
		Water:    0.5,
		Electric: 0.5,
		Ice:      2,
		Rock:     2,
		Steel:    0.5,
		Fairy:    2,
	},
	Fairy: {
		Fire:     0.5,
		Fighting: 2,
		Poison:   0.5,
		Dragon:   2,
		Dark:     2,
		Steel:    0.5,
	},
}

// Normalize lowercases a type name so lookups are case-insensitive.
func Normalize(t Type) Type {
	return Type(strings.ToLower(string(t)))
}

// Known reports whether the name is one of the eighteen types, after
// normalization.
func Known(t Type) bool {
	_, ok := chart[Normalize(t)]
	return ok
}

// Effectiveness returns the damage multiplier of one attacking type
// against one defending type. Unknown types on either side are neutral.
func Effectiveness(attacking, defending Type) float64 {
	row, ok := chart[Normalize(attacking)]
	if !ok {
		return 1
	}

	mult, ok := row[Normalize(defending)]
	if !ok {
		return 1
	}

	return mult
}

// DamageMultiplier returns the combined multiplier of an attacking type
// against a defender with one or two types. Dual typings stack
// multiplicatively, so an immunity on either type zeroes the result.
func DamageMultiplier(attacking Type, defending []Type) float64 {
	mult := 1.0
	for _, t := range defending {
		mult *= Effectiveness(attacking, t)
	}

	return mult
}

// Weaknesses returns every attacking type dealing more than neutral
// damage to the given defensive typing.
func Weaknesses(types []Type) []Type {
	var weak []Type
	for _, attacking := range All {
		if DamageMultiplier(attacking, types) > 1 {
			weak = append(weak, attacking)
		}
	}

	return weak
}

// Resistances returns every attacking type dealing reduced but non-zero
// damage to the given defensive typing.
func Resistances(types []Type) []Type {
	var resist []Type
	for _, attacking := range All {
		mult := DamageMultiplier(attacking, types)
		if mult > 0 && mult < 1 {
			resist = append(resist, attacking)
		}
	}

	return resist
}

// Immunities returns every attacking type dealing no damage to the given
// defensive typing.
func Immunities(types []Type) []Type {
	var immune []Type
	for _, attacking := range All {
		if DamageMultiplier(attacking, types) == 0 {
			immune = append(immune, attacking)
		}
	}

	return immune
}

// SuperEffectiveAgainst returns the defending types the given typing hits
// for more than neutral damage when its own types are used offensively.
// This deliberately treats defensive typing as the attack types on offer;
// actual movepools are not modeled.
func SuperEffectiveAgainst(types []Type) []Type {
	var super []Type
	seen := make(map[Type]bool)
	for _, attacking := range types {
		for _, defending := range All {
			if Effectiveness(attacking, defending) > 1 && !seen[defending] {
				seen[defending] = true
				super = append(super, defending)
			}
		}
	}

	return super
}

// ResistantTo returns the defending types that take reduced or zero
// damage from the given attacking type.
func ResistantTo(attacking Type) []Type {
	var resistant []Type
	for _, defending := range All {
		if Effectiveness(attacking, defending) < 1 {
			resistant = append(resistant, defending)
		}
	}

	return resistant
}

// EffectiveAgainst returns the attacking types that deal more than
// neutral damage to the given defending type.
func EffectiveAgainst(defending Type) []Type {
	var effective []Type
	for _, attacking := range All {
		if Effectiveness(attacking, defending) > 1 {
			effective = append(effective, attacking)
		}
	}

	return effective
}
