package team

import (
	"fmt"
	"math"
	"strings"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

// Archetype is the qualitative strategy label of a team.
type Archetype string

const (
	ArchetypeBalance      Archetype = "balance"
	ArchetypeStall        Archetype = "stall"
	ArchetypeHyperOffense Archetype = "hyper-offense"
	ArchetypeBulkyOffense Archetype = "bulky-offense"
	ArchetypeUndefined    Archetype = "undefined"
)

// TeamAnalysis is the full derived view of a roster, recomputed whenever
// the roster changes and never persisted.
type TeamAnalysis struct {
	CriticalWeaknesses []TypePressure   `json:"criticalWeaknesses"`
	CoverageGaps       []typechart.Type `json:"coverageGaps"`
	Archetype          Archetype        `json:"archetype"`
	RoleDistribution   map[Role]int     `json:"roleDistribution"`
	MissingRoles       []Role           `json:"missingRoles"`
	CoreStrength       float64          `json:"coreStrength"`
	DefensiveRating    int              `json:"defensiveRating"`
	OffensiveRating    int              `json:"offensiveRating"`
	OverallScore       int              `json:"overallScore"`
	Grade              string           `json:"grade"`
	Strengths          []string         `json:"strengths"`
	Weaknesses         []string         `json:"weaknesses"`
}

// roleRequirement is a minimum role count an archetype wants filled.
type roleRequirement struct {
	role Role
	min  int
}

// archetypeRequirements drive missing-role detection, in report order.
var archetypeRequirements = map[Archetype][]roleRequirement{
	ArchetypeBalance: {
		{RoleWall, 1}, {RoleSweeper, 1}, {RoleWallbreaker, 1}, {RoleHazardSetter, 1},
	},
	ArchetypeStall: {
		{RoleWall, 3}, {RoleSupport, 1}, {RoleDefogger, 1}, {RoleHazardSetter, 1},
	},
	ArchetypeHyperOffense: {
		{RoleSweeper, 2}, {RoleWallbreaker, 1}, {RoleHazardSetter, 1},
	},
	ArchetypeBulkyOffense: {
		{RoleWallbreaker, 2}, {RoleTank, 1}, {RoleDefogger, 1},
	},
}

// buildTeamAnalysis derives the full analysis from roster snapshots and
// their per-Pokémon analyses (paired by index).
func buildTeamAnalysis(roster []*model.Pokemon, analyses []*Analysis) *TeamAnalysis {
	weaknesses := newPressureTally()
	for _, p := range roster {
		for _, t := range typechart.Weaknesses(p.Types) {
			weaknesses.add(t, p.Name)
		}
	}
	critical := weaknesses.sorted(criticalWeaknessThreshold)

	var teamTypes []typechart.Type
	for _, p := range roster {
		teamTypes = append(teamTypes, p.Types...)
	}
	gaps := coverageGaps(teamTypes)

	distribution := roleDistribution(analyses)
	archetype := determineArchetype(distribution, roster)
	missing := missingRoles(distribution, archetype)
	coreStrength := calcCoreStrength(analyses, roster, teamTypes)
	defensive := calcDefensiveRating(roster, critical)
	offensive := calcOffensiveRating(roster, gaps)

	analysis := &TeamAnalysis{
		CriticalWeaknesses: critical,
		CoverageGaps:       gaps,
		Archetype:          archetype,
		RoleDistribution:   distribution,
		MissingRoles:       missing,
		CoreStrength:       coreStrength,
		DefensiveRating:    defensive,
		OffensiveRating:    offensive,
	}
	analysis.OverallScore = calcOverallScore(roster, analysis)
	analysis.Grade = gradeFor(analysis.OverallScore)
	analysis.Strengths = teamStrengths(analysis)
	analysis.Weaknesses = teamWeaknesses(analysis)

	return analysis
}

func roleDistribution(analyses []*Analysis) map[Role]int {
	distribution := make(map[Role]int, len(AllRoles))
	for _, role := range AllRoles {
		distribution[role] = 0
	}
	for _, a := range analyses {
		for _, role := range a.Roles {
			distribution[role]++
		}
	}

	return distribution
}

// Archetype thresholds.
const (
	hyperOffenseSpeed = 90
	bulkyOffenseBulk  = 75
)

// determineArchetype classifies the roster strategy. The branch order is
// load-bearing: overlapping role distributions resolve to the first
// matching rule.
func determineArchetype(roles map[Role]int, roster []*model.Pokemon) Archetype {
	if len(roster) < 3 {
		return ArchetypeUndefined
	}

	avgSpeed := teamAverage(roster, func(p *model.Pokemon) float64 { return float64(p.Stats.Speed) })
	avgBulk := teamAverage(roster, func(p *model.Pokemon) float64 { return p.Stats.Bulk() })

	switch {
	case roles[RoleWall] >= 3 && roles[RoleSweeper] <= 1:
		return ArchetypeStall
	case roles[RoleSweeper] >= 2 && avgSpeed >= hyperOffenseSpeed:
		return ArchetypeHyperOffense
	case roles[RoleWallbreaker] >= 2 && avgBulk >= bulkyOffenseBulk:
		return ArchetypeBulkyOffense
	case roles[RoleWall] >= 1 && roles[RoleSweeper] >= 1 && roles[RoleWallbreaker] >= 1:
		return ArchetypeBalance
	default:
		return ArchetypeUndefined
	}
}

func missingRoles(roles map[Role]int, archetype Archetype) []Role {
	var missing []Role
	for _, req := range archetypeRequirements[archetype] {
		if roles[req.role] < req.min {
			missing = append(missing, req.role)
		}
	}

	return missing
}

// Core-strength terms.
const (
	coreBonus          = 25
	typeDiversityBonus = 2
)

// calcCoreStrength scores type-core synergy 0-100: a flat bonus per
// fully present named core, the average per-Pokémon synergy, and a small
// diversity term.
func calcCoreStrength(analyses []*Analysis, roster []*model.Pokemon, teamTypes []typechart.Type) float64 {
	if len(roster) == 0 {
		return 0
	}

	var strength float64
	for _, core := range scoredCores {
		complete := true
		for _, t := range core.Types {
			if !containsType(teamTypes, t) {
				complete = false
				break
			}
		}
		if complete {
			strength += coreBonus
		}
	}

	var totalSynergy float64
	for _, a := range analyses {
		totalSynergy += a.Synergy
	}
	strength += totalSynergy / float64(len(roster))

	strength += float64(distinctTypeCount(teamTypes) * typeDiversityBonus)

	return math.Min(strength, 100)
}

// Defensive-rating terms.
const (
	defensiveBase           = 85
	perWeaknessPenaltyCap   = 12
	totalWeaknessPenaltyCap = 40
	defensiveFloor          = 20
)

func calcDefensiveRating(roster []*model.Pokemon, critical []TypePressure) int {
	rating := defensiveBase

	penalty := 0
	for _, weakness := range critical {
		penalty += minInt(weakness.Count*4, perWeaknessPenaltyCap)
	}
	rating -= minInt(penalty, totalWeaknessPenaltyCap)

	avgBulk := teamAverage(roster, func(p *model.Pokemon) float64 { return p.Stats.Bulk() })
	if avgBulk > 75 {
		rating += 10
	}
	if avgBulk > 90 {
		rating += 10
	}
	if avgBulk > 105 {
		rating += 5
	}

	var teamTypes []typechart.Type
	for _, p := range roster {
		teamTypes = append(teamTypes, p.Types...)
	}
	distinct := distinctTypeCount(teamTypes)
	if distinct >= 6 {
		rating += 5
	}
	if distinct >= 8 {
		rating += 5
	}

	return clampInt(rating, defensiveFloor, 100)
}

// Offensive-rating terms.
const (
	offensiveBase = 60
	perGapPenalty = 3
)

func calcOffensiveRating(roster []*model.Pokemon, gaps []typechart.Type) int {
	rating := offensiveBase - len(gaps)*perGapPenalty

	avgOffense := teamAverage(roster, func(p *model.Pokemon) float64 { return float64(p.Stats.Offense()) })
	if avgOffense > 90 {
		rating += 15
	}
	if avgOffense > 110 {
		rating += 10
	}

	avgSpeed := teamAverage(roster, func(p *model.Pokemon) float64 { return float64(p.Stats.Speed) })
	if avgSpeed > 85 {
		rating += 10
	}
	if avgSpeed > 100 {
		rating += 5
	}

	return clampInt(rating, 0, 100)
}

// Overall-score terms.
const (
	overallBase           = 40
	completenessWeight    = 20
	roleBalanceCap        = 15
	missingRolePenaltyCap = 10
	archetypeBonus        = 10
	noArchetypePenalty    = 5
	coreStrengthWeight    = 0.2
	defensiveWeight       = 0.25
	offensiveWeight       = 0.25
	weaknessPenaltyCap    = 15
	gapPenaltyCap         = 10
	fullTeamBonus         = 5
	tinyTeamPenalty       = 10
	qualityBonusCap       = 10
)

func calcOverallScore(roster []*model.Pokemon, analysis *TeamAnalysis) int {
	size := len(roster)
	if size == 0 {
		return 0
	}

	score := float64(overallBase)

	score += float64(size) / model.TeamSize * completenessWeight

	totalRoles := 0
	for _, count := range analysis.RoleDistribution {
		totalRoles += count
	}
	if totalRoles > 0 {
		score += math.Min(float64(totalRoles)/float64(size)*10, roleBalanceCap)
	}

	score -= math.Min(float64(len(analysis.MissingRoles)*2), missingRolePenaltyCap)

	if size >= 3 {
		if analysis.Archetype != ArchetypeUndefined {
			score += archetypeBonus
		} else {
			score -= noArchetypePenalty
		}
	}

	score += analysis.CoreStrength * coreStrengthWeight
	score += float64(analysis.DefensiveRating) * defensiveWeight
	score += float64(analysis.OffensiveRating) * offensiveWeight

	weaknessPenalty := 0
	for _, weakness := range analysis.CriticalWeaknesses {
		weaknessPenalty += weakness.Count * 2
	}
	score -= math.Min(float64(weaknessPenalty), weaknessPenaltyCap)

	score -= math.Min(float64(len(analysis.CoverageGaps)), gapPenaltyCap)

	if size == model.TeamSize {
		score += fullTeamBonus
	} else if size < 3 {
		score -= tinyTeamPenalty
	}

	avgTotal := teamAverage(roster, func(p *model.Pokemon) float64 { return float64(p.Stats.Total()) })
	score += math.Max(0, math.Min((avgTotal-400)/50, qualityBonusCap))

	return int(math.Round(math.Max(0, math.Min(score, 100))))
}

// gradeFor maps a 0-100 score to its letter grade.
func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "S"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

const narrativeCap = 4

func teamStrengths(analysis *TeamAnalysis) []string {
	var strengths []string

	switch {
	case analysis.DefensiveRating >= 80:
		strengths = append(strengths, "Excellent defensive coverage")
	case analysis.DefensiveRating >= 70:
		strengths = append(strengths, "Good defensive synergy")
	}

	switch {
	case analysis.OffensiveRating >= 80:
		strengths = append(strengths, "Outstanding offensive pressure")
	case analysis.OffensiveRating >= 70:
		strengths = append(strengths, "Solid offensive coverage")
	}

	if analysis.CoreStrength >= 75 {
		strengths = append(strengths, "Strong type core synergy")
	}

	switch analysis.Archetype {
	case ArchetypeBalance:
		strengths = append(strengths, "Well-balanced team composition")
	case ArchetypeHyperOffense:
		strengths = append(strengths, "High-speed aggressive strategy")
	case ArchetypeStall:
		strengths = append(strengths, "Defensive endurance strategy")
	case ArchetypeBulkyOffense:
		strengths = append(strengths, "Controlled offensive pressure")
	}

	if analysis.RoleDistribution[RoleSweeper] >= 2 {
		strengths = append(strengths, "Multiple win conditions")
	}
	if analysis.RoleDistribution[RoleWall] >= 2 {
		strengths = append(strengths, "Strong defensive backbone")
	}
	if analysis.RoleDistribution[RoleHazardSetter] >= 1 && analysis.RoleDistribution[RoleDefogger] >= 1 {
		strengths = append(strengths, "Complete hazard control")
	}

	if len(strengths) > narrativeCap {
		strengths = strengths[:narrativeCap]
	}

	return strengths
}

func teamWeaknesses(analysis *TeamAnalysis) []string {
	var weaknesses []string

	if len(analysis.CriticalWeaknesses) > 0 {
		top := analysis.CriticalWeaknesses[0]
		weaknesses = append(weaknesses, fmt.Sprintf(
			"Vulnerable to %s attacks (%d Pokemon affected)", top.Type, top.Count,
		))
	}

	switch {
	case len(analysis.CoverageGaps) >= 8:
		weaknesses = append(weaknesses, fmt.Sprintf(
			"Limited offensive coverage (%d types uncovered)", len(analysis.CoverageGaps),
		))
	case len(analysis.CoverageGaps) >= 5:
		weaknesses = append(weaknesses, "Some offensive coverage gaps")
	}

	if analysis.DefensiveRating < 60 {
		weaknesses = append(weaknesses, "Poor defensive synergy")
	}
	if analysis.OffensiveRating < 60 {
		weaknesses = append(weaknesses, "Weak offensive presence")
	}

	switch {
	case len(analysis.MissingRoles) >= 3:
		weaknesses = append(weaknesses, "Unclear team strategy")
	case len(analysis.MissingRoles) >= 1:
		names := make([]string, 0, 2)
		for _, role := range analysis.MissingRoles[:minInt(len(analysis.MissingRoles), 2)] {
			names = append(names, strings.ReplaceAll(string(role), "-", " "))
		}
		suffix := "role"
		if len(analysis.MissingRoles) > 1 {
			suffix = "roles"
		}
		weaknesses = append(weaknesses, fmt.Sprintf("Missing %s %s", strings.Join(names, " and "), suffix))
	}

	if len(weaknesses) > narrativeCap {
		weaknesses = weaknesses[:narrativeCap]
	}

	return weaknesses
}

func teamAverage(roster []*model.Pokemon, f func(*model.Pokemon) float64) float64 {
	if len(roster) == 0 {
		return 0
	}

	var sum float64
	for _, p := range roster {
		sum += f(p)
	}

	return sum / float64(len(roster))
}

func distinctTypeCount(types []typechart.Type) int {
	seen := make(map[typechart.Type]bool)
	for _, t := range types {
		seen[t] = true
	}

	return len(seen)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
