package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdex/teamdex/pkg/model"
	"github.com/teamdex/teamdex/pkg/typechart"
)

func TestDetermineArchetypeStallBeatsOffense(t *testing.T) {
	roster := []*model.Pokemon{
		mon(1, "a", []typechart.Type{typechart.Steel}, 100, 60, 120, 60, 120, 40),
		mon(2, "b", []typechart.Type{typechart.Water}, 100, 60, 120, 60, 120, 40),
		mon(3, "c", []typechart.Type{typechart.Fairy}, 100, 60, 120, 60, 120, 40),
	}
	roles := map[Role]int{RoleWall: 3, RoleSweeper: 1}

	assert.Equal(t, ArchetypeStall, determineArchetype(roles, roster))
}

func TestDetermineArchetypeHyperOffense(t *testing.T) {
	roster := []*model.Pokemon{
		mon(1, "a", []typechart.Type{typechart.Electric}, 60, 120, 60, 120, 60, 110),
		mon(2, "b", []typechart.Type{typechart.Dark}, 60, 120, 60, 120, 60, 105),
		mon(3, "c", []typechart.Type{typechart.Dragon}, 60, 120, 60, 120, 60, 100),
	}
	roles := map[Role]int{RoleSweeper: 2, RoleWall: 1}

	assert.Equal(t, ArchetypeHyperOffense, determineArchetype(roles, roster))
}

func TestDetermineArchetypeSmallRosterUndefined(t *testing.T) {
	roster := []*model.Pokemon{
		mon(1, "a", []typechart.Type{typechart.Fire}, 100, 100, 100, 100, 100, 100),
	}

	assert.Equal(t, ArchetypeUndefined, determineArchetype(map[Role]int{RoleSweeper: 1}, roster))
}

func TestCalcCoreStrengthCompleteCore(t *testing.T) {
	roster := []*model.Pokemon{
		mon(1, "a", []typechart.Type{typechart.Fire}, 80, 80, 80, 80, 80, 80),
		mon(2, "b", []typechart.Type{typechart.Water}, 80, 80, 80, 80, 80, 80),
		mon(3, "c", []typechart.Type{typechart.Grass}, 80, 80, 80, 80, 80, 80),
	}
	analyses := make([]*Analysis, len(roster))
	for i, p := range roster {
		analyses[i] = analyzePokemon(p)
	}
	teamTypes := []typechart.Type{typechart.Fire, typechart.Water, typechart.Grass}

	strength := calcCoreStrength(analyses, roster, teamTypes)

	assert.GreaterOrEqual(t, strength, 25.0, "complete fire-water-grass core pays the flat bonus")
	assert.LessOrEqual(t, strength, 100.0)
}

func TestCalcOverallScoreBounds(t *testing.T) {
	roster := []*model.Pokemon{
		mon(445, "garchomp", []typechart.Type{typechart.Dragon, typechart.Ground}, 108, 130, 95, 80, 85, 102),
		mon(9, "blastoise", []typechart.Type{typechart.Water}, 79, 83, 100, 85, 105, 78),
		mon(3, "venusaur", []typechart.Type{typechart.Grass, typechart.Poison}, 80, 82, 83, 100, 100, 80),
		mon(6, "charizard", []typechart.Type{typechart.Fire, typechart.Flying}, 78, 84, 78, 109, 85, 100),
		mon(376, "metagross", []typechart.Type{typechart.Steel, typechart.Psychic}, 80, 135, 130, 95, 90, 70),
		mon(130, "gyarados", []typechart.Type{typechart.Water, typechart.Flying}, 95, 125, 79, 60, 100, 81),
	}
	analyses := make([]*Analysis, len(roster))
	for i, p := range roster {
		analyses[i] = analyzePokemon(p)
	}

	analysis := buildTeamAnalysis(roster, analyses)

	assert.GreaterOrEqual(t, analysis.OverallScore, 0)
	assert.LessOrEqual(t, analysis.OverallScore, 100)
	assert.Contains(t, []string{"S", "A", "B", "C", "D", "F"}, analysis.Grade)
	assert.NotEmpty(t, analysis.RoleDistribution)
	require.NotNil(t, analysis.Strengths)
	assert.LessOrEqual(t, len(analysis.Strengths), 4)
	assert.LessOrEqual(t, len(analysis.Weaknesses), 4)
}

func TestCalcOverallScoreEmptyRoster(t *testing.T) {
	analysis := buildTeamAnalysis(nil, nil)

	assert.Equal(t, 0, analysis.OverallScore)
	assert.Equal(t, "F", analysis.Grade)
	assert.Equal(t, ArchetypeUndefined, analysis.Archetype)
}

func TestGradeForSteps(t *testing.T) {
	cases := []struct {
		score int
		grade string
	}{
		{95, "S"}, {90, "S"}, {89, "A"}, {80, "A"},
		{79, "B"}, {70, "B"}, {65, "C"}, {55, "D"}, {49, "F"}, {0, "F"},
	}
	for _, c := range cases {
		assert.Equal(t, c.grade, gradeFor(c.score), "score %d", c.score)
	}
}

func TestBuildTeamAnalysisIsDeterministic(t *testing.T) {
	roster := []*model.Pokemon{
		mon(6, "charizard", []typechart.Type{typechart.Fire, typechart.Flying}, 78, 84, 78, 109, 85, 100),
		mon(9, "blastoise", []typechart.Type{typechart.Water}, 79, 83, 100, 85, 105, 78),
		mon(3, "venusaur", []typechart.Type{typechart.Grass, typechart.Poison}, 80, 82, 83, 100, 100, 80),
	}
	analyses := make([]*Analysis, len(roster))
	for i, p := range roster {
		analyses[i] = analyzePokemon(p)
	}

	first := buildTeamAnalysis(roster, analyses)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, buildTeamAnalysis(roster, analyses))
	}
}
