package team

import (
	"fmt"
	"math"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

// Role is a qualitative combat role derived from base stats and typing.
// A Pokémon can hold several roles at once.
type Role string

const (
	RoleSweeper      Role = "sweeper"
	RoleWallbreaker  Role = "wallbreaker"
	RoleWall         Role = "wall"
	RoleTank         Role = "tank"
	RolePivot        Role = "pivot"
	RoleHazardSetter Role = "hazard-setter"
	RoleDefogger     Role = "defogger"
	RoleSupport      Role = "support"
	RoleUtility      Role = "utility"
)

// AllRoles lists every role in classification order.
var AllRoles = []Role{
	RoleSweeper, RoleWallbreaker, RoleWall, RoleTank, RolePivot,
	RoleHazardSetter, RoleDefogger, RoleSupport, RoleUtility,
}

// Analysis is the per-Pokémon derivation the scoring engine works from.
// Computed on demand and cached by ID for the service lifetime.
type Analysis struct {
	Roles             []Role           `json:"roles"`
	CoreCompatibility []string         `json:"coreCompatibility"`
	ThreatsHandled    []string         `json:"threatsHandled"`
	Weaknesses        []typechart.Type `json:"weaknesses"`
	Synergy           float64          `json:"synergy"`
}

// HasRole reports whether the analysis carries the given role.
func (a *Analysis) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// Classification thresholds, all on base-stat values.
const (
	sweeperOffense     = 100
	sweeperSpeed       = 90
	sweeperTotal       = 500
	wallbreakerOffense = 120
	wallbreakerTotal   = 480
	wallHP             = 100
	wallDefense        = 90
	wallOffenseCeiling = 90
	tankBulk           = 85
	tankOffenseFloor   = 70
	tankOffenseCeiling = 110
	pivotSpeed         = 80
	pivotBulk          = 75
	pivotTotal         = 480
	setterBulk         = 70
	removerSpeed       = 80
	removerBulk        = 80
	supportBulk        = 70
)

func classifyRoles(p *model.Pokemon) []Role {
	stats := p.Stats
	offense := stats.Offense()
	bulk := stats.Bulk()
	total := stats.Total()

	var roles []Role

	if offense >= sweeperOffense && stats.Speed >= sweeperSpeed && total >= sweeperTotal {
		roles = append(roles, RoleSweeper)
	}

	if offense >= wallbreakerOffense && total >= wallbreakerTotal {
		roles = append(roles, RoleWallbreaker)
	}

	if stats.HP >= wallHP && (stats.Defense >= wallDefense || stats.SpecialDefense >= wallDefense) &&
		offense < wallOffenseCeiling {
		roles = append(roles, RoleWall)
	}

	if bulk >= tankBulk && offense >= tankOffenseFloor && offense < tankOffenseCeiling {
		roles = append(roles, RoleTank)
	}

	if stats.Speed >= pivotSpeed && bulk >= pivotBulk && total >= pivotTotal {
		roles = append(roles, RolePivot)
	}

	if canSetHazards(p) && bulk >= setterBulk {
		roles = append(roles, RoleHazardSetter)
	}

	if canRemoveHazards(p) && (stats.Speed >= removerSpeed || bulk >= removerBulk) {
		roles = append(roles, RoleDefogger)
	}

	if hasUtilityMoves(p) && bulk >= supportBulk {
		roles = append(roles, RoleSupport)
	}

	if len(roles) == 0 {
		roles = append(roles, RoleUtility)
	}

	return roles
}

func canSetHazards(p *model.Pokemon) bool {
	if hazardSetterIDs[p.ID] {
		return true
	}

	return p.HasType(typechart.Rock) || p.HasType(typechart.Ground) || p.HasType(typechart.Steel)
}

func canRemoveHazards(p *model.Pokemon) bool {
	if hazardRemoverIDs[p.ID] {
		return true
	}

	return p.HasType(typechart.Flying) || p.HasType(typechart.Psychic)
}

func hasUtilityMoves(p *model.Pokemon) bool {
	if utilityIDs[p.ID] {
		return true
	}

	return p.HasType(typechart.Psychic) || p.HasType(typechart.Fairy) || p.HasType(typechart.Grass)
}

func analyzePokemon(p *model.Pokemon) *Analysis {
	return &Analysis{
		Roles:             classifyRoles(p),
		CoreCompatibility: coreCompatibility(p.Types),
		ThreatsHandled:    threatsHandled(p.Types),
		Weaknesses:        typechart.Weaknesses(p.Types),
		Synergy:           baseSynergy(p),
	}
}

func coreCompatibility(types []typechart.Type) []string {
	var compatible []string
	for _, core := range compatibilityCores {
		for _, t := range types {
			if containsType(core.Types, t) {
				compatible = append(compatible, core.Name)
				break
			}
		}
	}

	return compatible
}

// threatsHandled lists the attack types this typing takes reduced or no
// damage from.
func threatsHandled(types []typechart.Type) []string {
	var threats []string
	for _, attacking := range typechart.All {
		if typechart.DamageMultiplier(attacking, types) < 1 {
			threats = append(threats, fmt.Sprintf("%s-type attacks", attacking))
		}
	}

	return threats
}

// baseSynergy scores how well a Pokémon slots into cores, 0-50.
func baseSynergy(p *model.Pokemon) float64 {
	synergy := math.Min(float64(p.Stats.Total())/15, 30)

	for _, t := range p.Types {
		if strongSynergyTypes[t] {
			synergy += 10
			break
		}
	}

	if len(p.Types) == 2 {
		synergy += 5
	}

	return math.Min(synergy, 50)
}

func containsType(types []typechart.Type, t typechart.Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}

	return false
}
