package team

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

// Action is the kind of change a recommendation proposes.
type Action string

const (
	// ActionAdd proposes filling an empty slot.
	ActionAdd Action = "add"
	// ActionSwap proposes replacing the occupied slot in SwapSlot.
	ActionSwap Action = "swap"
)

// Recommendation is one candidate change to the roster, with a 0-100
// score and human-readable justification.
type Recommendation struct {
	Pokemon  *model.Pokemon `json:"pokemon"`
	Action   Action         `json:"action"`
	SwapSlot *int           `json:"swapSlot,omitempty"`
	Score    int            `json:"score"`
	Reason   string         `json:"reason"`
	Benefits []string       `json:"benefits"`
}

// DefaultMaxRecommendations bounds the returned list when the caller
// does not ask for a specific count.
const DefaultMaxRecommendations = 6

// Recommendations proposes add and swap actions for the given slots,
// sorted descending by score and truncated to max. Candidates already on
// the roster are never proposed; individual fetch failures skip the
// candidate rather than failing the batch.
func (s *Service) Recommendations(ctx context.Context, slots []model.Slot, max int) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if max <= 0 {
		max = DefaultMaxRecommendations
	}

	var roster []*model.Pokemon
	emptySlots := 0
	for _, slot := range slots {
		if slot.Pokemon != nil {
			roster = append(roster, slot.Pokemon)
		} else {
			emptySlots++
		}
	}

	if len(roster) == 0 {
		recs := s.starterRecommendations(ctx)
		if len(recs) > max {
			recs = recs[:max]
		}
		return recs, nil
	}

	analysis := s.AnalyzeTeam(roster)

	var recs []Recommendation
	if emptySlots > 0 {
		recs = append(recs, s.addRecommendations(ctx, roster, analysis, emptySlots)...)
	}
	if len(roster) >= 3 {
		recs = append(recs, s.swapRecommendations(ctx, slots, roster, analysis)...)
	}
	if len(roster) == model.TeamSize {
		recs = append(recs, s.alternativeRecommendations(ctx, roster, analysis)...)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > max {
		recs = recs[:max]
	}

	return recs, nil
}

// starterRecommendations seeds an empty roster with classic starters.
func (s *Service) starterRecommendations(ctx context.Context) []Recommendation {
	ids := starterIDs
	if len(ids) > model.TeamSize {
		ids = ids[:model.TeamSize]
	}

	var recs []Recommendation
	for _, p := range s.fetchAll(ctx, ids) {
		recs = append(recs, Recommendation{
			Pokemon: p,
			Action:  ActionAdd,
			Score:   85,
			Reason:  "Great starter Pokemon with balanced stats",
			Benefits: []string{
				"Well-rounded stats",
				"Good type coverage",
				"Reliable team foundation",
			},
		})
	}

	return recs
}

func (s *Service) addRecommendations(
	ctx context.Context,
	roster []*model.Pokemon,
	analysis *TeamAnalysis,
	slotsToFill int,
) []Recommendation {
	teamTypes := rosterTypes(roster)
	candidates := newTypeSet()

	criticals := analysis.CriticalWeaknesses
	if len(criticals) > 2 {
		criticals = criticals[:2]
	}
	for _, weakness := range criticals {
		for _, t := range typechart.ResistantTo(weakness.Type) {
			if !containsType(teamTypes, t) {
				candidates.add(t)
			}
		}
	}

	gaps := analysis.CoverageGaps
	if len(gaps) > 3 {
		gaps = gaps[:3]
	}
	for _, gap := range gaps {
		for _, t := range typechart.EffectiveAgainst(gap) {
			if !containsType(teamTypes, t) {
				candidates.add(t)
			}
		}
	}

	if candidates.empty() {
		for _, t := range fallbackTypes {
			if !containsType(teamTypes, t) {
				candidates.add(t)
			}
		}
	}

	types := candidates.order
	if len(types) > slotsToFill*2 {
		types = types[:slotsToFill*2]
	}

	var recs []Recommendation
	for _, t := range types {
		for _, p := range s.pokemonByType(ctx, t, 2) {
			if onRoster(roster, p.ID) {
				continue
			}
			recs = append(recs, Recommendation{
				Pokemon:  p,
				Action:   ActionAdd,
				Score:    s.candidateScore(p, analysis, teamTypes),
				Reason:   s.addReason(p, analysis, teamTypes),
				Benefits: s.addBenefits(p, analysis, teamTypes),
			})
		}
	}

	return recs
}

func (s *Service) swapRecommendations(
	ctx context.Context,
	slots []model.Slot,
	roster []*model.Pokemon,
	analysis *TeamAnalysis,
) []Recommendation {
	if len(analysis.CriticalWeaknesses) == 0 {
		return nil
	}
	weakness := analysis.CriticalWeaknesses[0]
	teamTypes := rosterTypes(roster)

	var vulnerable []*model.Pokemon
	for _, p := range roster {
		if typechart.DamageMultiplier(weakness.Type, p.Types) > 1 {
			vulnerable = append(vulnerable, p)
		}
	}
	if len(vulnerable) > 2 {
		vulnerable = vulnerable[:2]
	}

	var recs []Recommendation
	for _, victim := range vulnerable {
		slotIndex := -1
		for i, slot := range slots {
			if slot.Pokemon != nil && slot.Pokemon.ID == victim.ID {
				slotIndex = i
				break
			}
		}
		if slotIndex == -1 {
			continue
		}

		var alternativeTypes []typechart.Type
		for _, t := range typechart.ResistantTo(weakness.Type) {
			if !rosterHasType(roster, t) {
				alternativeTypes = append(alternativeTypes, t)
			}
		}
		if len(alternativeTypes) > 2 {
			alternativeTypes = alternativeTypes[:2]
		}

		for _, t := range alternativeTypes {
			for _, alternative := range s.pokemonByType(ctx, t, 1) {
				if onRoster(roster, alternative.ID) {
					continue
				}
				slot := slotIndex
				recs = append(recs, Recommendation{
					Pokemon:  alternative,
					Action:   ActionSwap,
					SwapSlot: &slot,
					Score:    s.candidateScore(alternative, analysis, teamTypes),
					Reason:   swapReason(victim, alternative),
					Benefits: swapBenefits(victim, alternative, analysis),
				})
			}
		}
	}

	return recs
}

// alternativeRecommendations proposes replacements for the two weakest
// contributors of a full roster.
func (s *Service) alternativeRecommendations(
	ctx context.Context,
	roster []*model.Pokemon,
	analysis *TeamAnalysis,
) []Recommendation {
	teamTypes := rosterTypes(roster)

	type contribution struct {
		pokemon *model.Pokemon
		value   float64
	}
	contributions := make([]contribution, len(roster))
	for i, p := range roster {
		contributions[i] = contribution{p, teamContribution(p, roster, analysis)}
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].value < contributions[j].value
	})

	weakest := contributions
	if len(weakest) > 2 {
		weakest = weakest[:2]
	}

	var recs []Recommendation
	for _, c := range weakest {
		alternatives := s.betterAlternatives(ctx, c.pokemon, roster, analysis)
		if len(alternatives) > 2 {
			alternatives = alternatives[:2]
		}

		slotIndex := -1
		for i, p := range roster {
			if p.ID == c.pokemon.ID {
				slotIndex = i
				break
			}
		}

		for _, alternative := range alternatives {
			slot := slotIndex
			recs = append(recs, Recommendation{
				Pokemon:  alternative,
				Action:   ActionSwap,
				SwapSlot: &slot,
				Score:    s.candidateScore(alternative, analysis, teamTypes),
				Reason:   fmt.Sprintf("Better team synergy than %s", c.pokemon.Name),
				Benefits: swapBenefits(c.pokemon, alternative, analysis),
			})
		}
	}

	return recs
}

// teamContribution scores how much one member does for the roster:
// countering shared weaknesses, unique typing, gap coverage, and raw
// stats, less the weaknesses it shares with teammates.
func teamContribution(p *model.Pokemon, roster []*model.Pokemon, analysis *TeamAnalysis) float64 {
	var contribution float64

	for _, weakness := range analysis.CriticalWeaknesses {
		if typechart.DamageMultiplier(weakness.Type, p.Types) < 1 {
			contribution += 20
		}
	}

	var teammateTypes []typechart.Type
	var teammateWeaknesses []typechart.Type
	for _, teammate := range roster {
		if teammate.ID == p.ID {
			continue
		}
		teammateTypes = append(teammateTypes, teammate.Types...)
		teammateWeaknesses = append(teammateWeaknesses, typechart.Weaknesses(teammate.Types)...)
	}

	for _, t := range p.Types {
		if !containsType(teammateTypes, t) {
			contribution += 10
		}
	}

	for _, t := range p.Types {
		for _, gap := range analysis.CoverageGaps {
			if typechart.Effectiveness(t, gap) > 1 {
				contribution += 5
			}
		}
	}

	contribution += float64(p.Stats.Total()) / 20

	for _, weakness := range typechart.Weaknesses(p.Types) {
		if containsType(teammateWeaknesses, weakness) {
			contribution -= 5
		}
	}

	return contribution
}

// contributionImprovement is how much a replacement must beat the
// incumbent's contribution by before it is worth proposing.
const contributionImprovement = 10

func (s *Service) betterAlternatives(
	ctx context.Context,
	current *model.Pokemon,
	roster []*model.Pokemon,
	analysis *TeamAnalysis,
) []*model.Pokemon {
	withoutCurrent := make([]*model.Pokemon, 0, len(roster)-1)
	for _, p := range roster {
		if p.ID != current.ID {
			withoutCurrent = append(withoutCurrent, p)
		}
	}

	typesToTry := newTypeSet()
	for _, t := range current.Types {
		typesToTry.add(t)
	}
	for _, t := range s.complementaryTypes(withoutCurrent, analysis) {
		typesToTry.add(t)
	}

	types := typesToTry.order
	if len(types) > 4 {
		types = types[:4]
	}

	currentContribution := teamContribution(current, roster, analysis)

	var alternatives []*model.Pokemon
	for _, t := range types {
		for _, candidate := range s.pokemonByType(ctx, t, 3) {
			if onRoster(roster, candidate.ID) {
				continue
			}
			hypothetical := append(append([]*model.Pokemon{}, withoutCurrent...), candidate)
			if teamContribution(candidate, hypothetical, analysis) > currentContribution+contributionImprovement {
				alternatives = append(alternatives, candidate)
			}
		}
	}
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	return alternatives
}

func (s *Service) complementaryTypes(roster []*model.Pokemon, analysis *TeamAnalysis) []typechart.Type {
	teamTypes := rosterTypes(roster)
	complementary := newTypeSet()

	criticals := analysis.CriticalWeaknesses
	if len(criticals) > 2 {
		criticals = criticals[:2]
	}
	for _, weakness := range criticals {
		for _, t := range typechart.ResistantTo(weakness.Type) {
			if !containsType(teamTypes, t) {
				complementary.add(t)
			}
		}
	}

	gaps := analysis.CoverageGaps
	if len(gaps) > 3 {
		gaps = gaps[:3]
	}
	for _, gap := range gaps {
		for _, t := range typechart.EffectiveAgainst(gap) {
			if !containsType(teamTypes, t) {
				complementary.add(t)
			}
		}
	}

	return complementary.order
}

// Candidate score weights and caps. Each component is capped before its
// weight applies; the weighted total tops out just over 100 and is
// clamped.
const (
	candidateBase        = 20
	roleWeight           = 0.6
	roleCap              = 35
	compositionWeight    = 0.7
	compositionCap       = 25
	defensiveScoreWeight = 0.4
	defensiveScoreCap    = 30
	offensiveScoreWeight = 0.4
	offensiveScoreCap    = 25
	synergyWeight        = 0.3
	synergyCap           = 20
	statsWeight          = 0.3
	statsCap             = 20
)

func (s *Service) candidateScore(p *model.Pokemon, analysis *TeamAnalysis, teamTypes []typechart.Type) int {
	pa := s.analysisFor(p)

	score := float64(candidateBase)
	score += roleScore(pa, analysis) * roleWeight
	score += compositionScore(pa, analysis) * compositionWeight
	score += defensiveScore(p, analysis) * defensiveScoreWeight
	score += offensiveScore(p, analysis) * offensiveScoreWeight
	score += synergyScore(p, teamTypes) * synergyWeight
	score += statsScore(p) * statsWeight
	score += rarityScore(p)

	return int(math.Round(math.Max(0, math.Min(score, 100))))
}

func roleScore(pa *Analysis, analysis *TeamAnalysis) float64 {
	var score float64

	for _, role := range pa.Roles {
		if containsRole(analysis.MissingRoles, role) {
			score += 15
		}
	}

	switch analysis.Archetype {
	case ArchetypeBalance:
		if pa.HasRole(RoleWall) && analysis.RoleDistribution[RoleWall] < 2 {
			score += 8
		}
		if pa.HasRole(RoleSweeper) && analysis.RoleDistribution[RoleSweeper] < 2 {
			score += 8
		}
		if pa.HasRole(RoleWallbreaker) && analysis.RoleDistribution[RoleWallbreaker] < 2 {
			score += 8
		}
	case ArchetypeHyperOffense:
		if pa.HasRole(RoleSweeper) {
			score += 12
		}
		if pa.HasRole(RoleWallbreaker) {
			score += 8
		}
	case ArchetypeStall:
		if pa.HasRole(RoleWall) {
			score += 12
		}
		if pa.HasRole(RoleSupport) {
			score += 8
		}
		if pa.HasRole(RoleDefogger) {
			score += 8
		}
	case ArchetypeBulkyOffense:
		if pa.HasRole(RoleWallbreaker) {
			score += 12
		}
		if pa.HasRole(RoleTank) {
			score += 8
		}
	}

	// Oversaturated roles work against the candidate.
	for _, role := range pa.Roles {
		if analysis.RoleDistribution[role] >= 3 {
			score -= 8
		}
	}

	return math.Min(score, roleCap)
}

func compositionScore(pa *Analysis, analysis *TeamAnalysis) float64 {
	score := float64(len(pa.CoreCompatibility)) * 3
	score += pa.Synergy * 0.2

	newThreats := 0
	for _, threat := range pa.ThreatsHandled {
		handled := false
		for _, weakness := range analysis.CriticalWeaknesses {
			if strings.Contains(threat, string(weakness.Type)) {
				handled = true
				break
			}
		}
		if !handled {
			newThreats++
		}
	}
	score += math.Min(float64(newThreats), 3) * 1.5

	if analysis.DefensiveRating < 60 && (pa.HasRole(RoleWall) || pa.HasRole(RoleTank)) {
		score += 6
	}
	if analysis.OffensiveRating < 60 && (pa.HasRole(RoleSweeper) || pa.HasRole(RoleWallbreaker)) {
		score += 6
	}
	if analysis.CoreStrength < 50 {
		score += math.Min(pa.Synergy/3, 5)
	}

	return math.Min(score, compositionCap)
}

func defensiveScore(p *model.Pokemon, analysis *TeamAnalysis) float64 {
	var score float64

	for _, weakness := range analysis.CriticalWeaknesses {
		mult := typechart.DamageMultiplier(weakness.Type, p.Types)
		if mult < 1 {
			// Resisting a weakness that hurts more teammates is
			// worth more.
			score += 15 + float64(weakness.Count)*3
			if mult <= 0.5 {
				score += 5
			}
		}
	}

	for _, weakness := range typechart.Weaknesses(p.Types) {
		for _, critical := range analysis.CriticalWeaknesses {
			if critical.Type == weakness {
				score -= 8
				break
			}
		}
	}

	bulk := p.Stats.Bulk()
	if bulk > 80 {
		score += 8
	}
	if bulk > 100 {
		score += 5
	}

	return math.Min(score, defensiveScoreCap)
}

func offensiveScore(p *model.Pokemon, analysis *TeamAnalysis) float64 {
	var coverageBonus float64
	for _, t := range p.Types {
		for _, gap := range analysis.CoverageGaps {
			if typechart.Effectiveness(t, gap) > 1 {
				coverageBonus += 4
			}
		}
	}
	score := math.Min(coverageBonus, 20)

	avgOffense := float64(p.Stats.Attack+p.Stats.SpecialAttack+p.Stats.Speed) / 3
	if avgOffense > 90 {
		score += 8
	}
	if avgOffense > 110 {
		score += 5
	}

	for _, t := range p.Types {
		if strongOffensiveTypes[t] {
			score += 5
			break
		}
	}

	return math.Min(score, offensiveScoreCap)
}

func synergyScore(p *model.Pokemon, teamTypes []typechart.Type) float64 {
	var score float64

	for _, t := range p.Types {
		if !containsType(teamTypes, t) {
			score += 6
		}
	}

	for _, pair := range complementaryPairs {
		hasFirst := containsType(p.Types, pair[0]) || containsType(teamTypes, pair[0])
		hasSecond := containsType(p.Types, pair[1]) || containsType(teamTypes, pair[1])
		if hasFirst && hasSecond {
			score += 3
		}
	}

	for _, t := range p.Types {
		if containsType(teamTypes, t) {
			score -= 3
		}
	}

	return math.Min(score, synergyCap)
}

func statsScore(p *model.Pokemon) float64 {
	stats := p.Stats
	score := math.Min(float64(stats.Total())/15, 15)

	values := []int{stats.HP, stats.Attack, stats.Defense, stats.SpecialAttack, stats.SpecialDefense, stats.Speed}
	maxStat, minStat := values[0], values[0]
	for _, v := range values[1:] {
		if v > maxStat {
			maxStat = v
		}
		if v < minStat {
			minStat = v
		}
	}

	if maxStat-minStat < 60 {
		score += 3
	}
	if maxStat > 130 {
		score += 2
	}

	return math.Min(score, statsCap)
}

// rarityScore awards a flat bonus for legendary, pseudo-legendary, and
// competitive-staple catalog IDs, up to 8.
func rarityScore(p *model.Pokemon) float64 {
	for _, r := range legendaryRanges {
		if p.ID >= r.lo && p.ID <= r.hi {
			return 8
		}
	}
	if pseudoLegendaryIDs[p.ID] {
		return 6
	}
	if competitiveStapleIDs[p.ID] {
		return 4
	}

	return 0
}

func (s *Service) addBenefits(p *model.Pokemon, analysis *TeamAnalysis, teamTypes []typechart.Type) []string {
	var benefits []string

	for _, weakness := range analysis.CriticalWeaknesses {
		if typechart.DamageMultiplier(weakness.Type, p.Types) < 1 {
			benefits = append(benefits, fmt.Sprintf("Resists %s attacks", weakness.Type))
		}
	}

	var coverage []typechart.Type
	for _, t := range p.Types {
		for _, gap := range analysis.CoverageGaps {
			if typechart.Effectiveness(t, gap) > 1 {
				coverage = append(coverage, t)
				break
			}
		}
	}
	if len(coverage) > 0 {
		benefits = append(benefits, fmt.Sprintf("Adds coverage against %s", joinTypes(coverage, 2, ", ")))
	}

	newTypes := typesNotOnTeam(p.Types, teamTypes)
	if len(newTypes) > 0 {
		benefits = append(benefits, fmt.Sprintf("Adds new %s typing", joinTypes(newTypes, len(newTypes), "/")))
	}

	if p.Stats.Total() >= 500 {
		benefits = append(benefits, "High base stat total")
	}

	return benefits
}

func swapBenefits(old, replacement *model.Pokemon, analysis *TeamAnalysis) []string {
	var benefits []string

	for _, weakness := range analysis.CriticalWeaknesses {
		oldMult := typechart.DamageMultiplier(weakness.Type, old.Types)
		newMult := typechart.DamageMultiplier(weakness.Type, replacement.Types)
		if oldMult > 1 && newMult <= 1 {
			benefits = append(benefits, fmt.Sprintf("Fixes %s weakness", weakness.Type))
		}
	}

	if replacement.Stats.Total() > old.Stats.Total()+50 {
		benefits = append(benefits, "Better overall stats")
	}

	return benefits
}

func (s *Service) addReason(p *model.Pokemon, analysis *TeamAnalysis, teamTypes []typechart.Type) string {
	pa := s.analysisFor(p)

	var filledRoles []string
	for _, role := range analysis.MissingRoles {
		if pa.HasRole(role) {
			filledRoles = append(filledRoles, strings.ReplaceAll(string(role), "-", " "))
		}
	}
	if len(filledRoles) > 0 {
		return fmt.Sprintf("Fills critical %s role needed for your %s team",
			strings.Join(filledRoles, " and "), analysis.Archetype)
	}

	if analysis.Archetype == ArchetypeHyperOffense && pa.HasRole(RoleSweeper) {
		return "Fast sweeper perfect for your hyper-offensive team strategy"
	}
	if analysis.Archetype == ArchetypeStall && pa.HasRole(RoleWall) {
		return "Defensive wall that strengthens your stall strategy"
	}
	if analysis.Archetype == ArchetypeBalance && len(pa.Roles) >= 2 {
		return "Versatile Pokemon that fills multiple roles in your balanced team"
	}

	for _, weakness := range analysis.CriticalWeaknesses {
		if typechart.DamageMultiplier(weakness.Type, p.Types) < 1 {
			return fmt.Sprintf("Resists %s attacks that threaten %d of your Pokemon",
				weakness.Type, weakness.Count)
		}
	}

	var coverage []typechart.Type
	for _, t := range p.Types {
		for _, gap := range analysis.CoverageGaps {
			if typechart.Effectiveness(t, gap) > 1 {
				coverage = append(coverage, t)
				break
			}
		}
	}
	if len(coverage) > 0 {
		return fmt.Sprintf("Provides super effective coverage against %s types",
			joinTypes(coverage, 2, " and "))
	}

	if len(pa.CoreCompatibility) > 0 {
		return fmt.Sprintf("Completes %s core synergy", pa.CoreCompatibility[0])
	}

	if analysis.DefensiveRating < 70 && (pa.HasRole(RoleWall) || pa.HasRole(RoleTank)) {
		return fmt.Sprintf("Improves team's defensive rating (currently %d/100)", analysis.DefensiveRating)
	}
	if analysis.OffensiveRating < 70 && (pa.HasRole(RoleSweeper) || pa.HasRole(RoleWallbreaker)) {
		return fmt.Sprintf("Boosts team's offensive power (currently %d/100)", analysis.OffensiveRating)
	}

	newTypes := typesNotOnTeam(p.Types, teamTypes)
	if len(newTypes) > 0 {
		return fmt.Sprintf("Adds valuable %s typing to your team", joinTypes(newTypes, len(newTypes), "/"))
	}

	return "High-tier Pokemon with excellent competitive viability"
}

func swapReason(old, replacement *model.Pokemon) string {
	return fmt.Sprintf("Replace %s with %s to improve team balance and fix weaknesses",
		old.Name, replacement.Name)
}

// typeSet accumulates types while preserving insertion order.
type typeSet struct {
	order []typechart.Type
	seen  map[typechart.Type]bool
}

func newTypeSet() *typeSet {
	return &typeSet{seen: make(map[typechart.Type]bool)}
}

func (ts *typeSet) add(t typechart.Type) {
	if !ts.seen[t] {
		ts.seen[t] = true
		ts.order = append(ts.order, t)
	}
}

func (ts *typeSet) empty() bool {
	return len(ts.order) == 0
}

func rosterTypes(roster []*model.Pokemon) []typechart.Type {
	var types []typechart.Type
	for _, p := range roster {
		types = append(types, p.Types...)
	}

	return types
}

func rosterHasType(roster []*model.Pokemon, t typechart.Type) bool {
	for _, p := range roster {
		if p.HasType(t) {
			return true
		}
	}

	return false
}

func onRoster(roster []*model.Pokemon, id int) bool {
	for _, p := range roster {
		if p.ID == id {
			return true
		}
	}

	return false
}

func containsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}

	return false
}
