package team

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teamdex/teamdex/pkg/typechart"
)

// Member is the simplified roster entry the legacy weakness analysis
// accepts: a name and 1-2 types, no stats required.
type Member struct {
	Name  string           `json:"name"`
	Types []typechart.Type `json:"types"`
}

// TypePressure counts how many roster members share a reaction to one
// attacking type, with the member names for display.
type TypePressure struct {
	Type    typechart.Type `json:"type"`
	Count   int            `json:"count"`
	Pokemon []string       `json:"pokemon"`
}

// WeaknessReport is the weakness-only view of a roster: shared
// weaknesses, shared resistances, offensive coverage gaps, and textual
// recommendations.
type WeaknessReport struct {
	CriticalWeaknesses []TypePressure   `json:"criticalWeaknesses"`
	Resistances        []TypePressure   `json:"resistances"`
	CoverageGaps       []typechart.Type `json:"coverageGaps"`
	Recommendations    []string         `json:"recommendations"`
}

// pressureTally accumulates per-type counts while preserving
// first-occurrence order, so ties sort deterministically.
type pressureTally struct {
	order  []typechart.Type
	byType map[typechart.Type]*TypePressure
}

func newPressureTally() *pressureTally {
	return &pressureTally{byType: make(map[typechart.Type]*TypePressure)}
}

func (pt *pressureTally) add(t typechart.Type, member string) {
	entry, ok := pt.byType[t]
	if !ok {
		entry = &TypePressure{Type: t}
		pt.byType[t] = entry
		pt.order = append(pt.order, t)
	}
	entry.Count++
	entry.Pokemon = append(entry.Pokemon, member)
}

// sorted returns entries with count >= minCount, descending by count,
// ties in first-occurrence order.
func (pt *pressureTally) sorted(minCount int) []TypePressure {
	var entries []TypePressure
	for _, t := range pt.order {
		if entry := pt.byType[t]; entry.Count >= minCount {
			entries = append(entries, *entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	return entries
}

// criticalWeaknessThreshold is the member count at which a shared
// weakness becomes critical.
const criticalWeaknessThreshold = 2

// AnalyzeWeaknesses aggregates per-member weaknesses and resistances
// across a roster of up to six members. It is a pure function of the
// roster snapshot.
func AnalyzeWeaknesses(roster []Member) WeaknessReport {
	weaknesses := newPressureTally()
	resistances := newPressureTally()

	for _, member := range roster {
		for _, t := range typechart.Weaknesses(member.Types) {
			weaknesses.add(t, member.Name)
		}
		for _, t := range typechart.Resistances(member.Types) {
			resistances.add(t, member.Name)
		}
	}

	var teamTypes []typechart.Type
	for _, member := range roster {
		teamTypes = append(teamTypes, member.Types...)
	}

	report := WeaknessReport{
		CriticalWeaknesses: weaknesses.sorted(criticalWeaknessThreshold),
		Resistances:        resistances.sorted(0),
		CoverageGaps:       coverageGaps(teamTypes),
	}
	report.Recommendations = weaknessRecommendations(report, teamTypes)

	return report
}

// coverageGaps returns the defending types no team typing threatens
// super-effectively. An empty roster leaves all 18 types uncovered.
func coverageGaps(teamTypes []typechart.Type) []typechart.Type {
	var gaps []typechart.Type
	for _, defending := range typechart.All {
		covered := false
		for _, attacking := range teamTypes {
			if typechart.Effectiveness(attacking, defending) > 1 {
				covered = true
				break
			}
		}
		if !covered {
			gaps = append(gaps, defending)
		}
	}

	return gaps
}

func weaknessRecommendations(report WeaknessReport, teamTypes []typechart.Type) []string {
	var recs []string

	if len(report.CriticalWeaknesses) > 0 {
		top := report.CriticalWeaknesses[0]
		missing := typesNotOnTeam(typechart.ResistantTo(top.Type), teamTypes)

		if len(missing) > 0 {
			recs = append(recs, fmt.Sprintf(
				"Consider adding a %s type to resist %s attacks (affects %d Pokemon)",
				joinTypes(missing, 3, " or "), top.Type, top.Count,
			))
		} else {
			recs = append(recs, fmt.Sprintf(
				"Your team has good type diversity, but %d Pokemon share a %s weakness",
				top.Count, top.Type,
			))
		}
	}

	gaps := report.CoverageGaps
	if len(gaps) > 2 {
		gaps = gaps[:2]
	}
	for _, gap := range gaps {
		missing := typesNotOnTeam(typechart.EffectiveAgainst(gap), teamTypes)
		if len(missing) > 0 {
			recs = append(recs, fmt.Sprintf(
				"Add %s type to cover %s weakness",
				joinTypes(missing, 2, " or "), gap,
			))
		}
	}

	return recs
}

func typesNotOnTeam(candidates, teamTypes []typechart.Type) []typechart.Type {
	var missing []typechart.Type
	for _, t := range candidates {
		if !containsType(teamTypes, t) {
			missing = append(missing, t)
		}
	}

	return missing
}

func joinTypes(types []typechart.Type, limit int, sep string) string {
	if len(types) > limit {
		types = types[:limit]
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	return strings.Join(names, sep)
}
