package typechart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivenessDefaultsToNeutral(t *testing.T) {
	// Every pair absent from the chart must be exactly neutral.
	assert.Equal(t, 1.0, Effectiveness(Normal, Normal))
	assert.Equal(t, 1.0, Effectiveness(Fire, Electric))
	assert.Equal(t, 1.0, Effectiveness("mystery", Fire))
	assert.Equal(t, 1.0, Effectiveness(Fire, "mystery"))
}

func TestEffectivenessCaseInsensitive(t *testing.T) {
	assert.Equal(t, 2.0, Effectiveness("FIRE", "Grass"))
	assert.Equal(t, 0.0, Effectiveness("Normal", "GHOST"))
}

func TestDamageMultiplierStacks(t *testing.T) {
	// ice vs water/flying: 0.5 * 2 = 1.
	assert.Equal(t, 1.0, DamageMultiplier(Ice, []Type{Water, Flying}))

	// rock vs fire/flying: 2 * 2 = 4.
	assert.Equal(t, 4.0, DamageMultiplier(Rock, []Type{Fire, Flying}))

	// immunity zeroes everything: ground vs electric/flying.
	assert.Equal(t, 0.0, DamageMultiplier(Ground, []Type{Electric, Flying}))

	for _, attacking := range All {
		assert.Equal(t,
			Effectiveness(attacking, Water)*Effectiveness(attacking, Flying),
			DamageMultiplier(attacking, []Type{Water, Flying}),
		)
	}
}

func TestWeaknessesFireFlying(t *testing.T) {
	weak := Weaknesses([]Type{Fire, Flying})

	assert.Contains(t, weak, Rock)
	assert.NotContains(t, weak, Fighting)
	assert.Contains(t, weak, Water)
	assert.Contains(t, weak, Electric)
}

func TestImmunitiesGhostDark(t *testing.T) {
	immune := Immunities([]Type{Ghost, Dark})

	assert.Contains(t, immune, Normal)
	assert.Contains(t, immune, Psychic)
	assert.Contains(t, immune, Fighting)
}

func TestResistancesExcludeImmunities(t *testing.T) {
	resist := Resistances([]Type{Ghost, Dark})

	assert.NotContains(t, resist, Normal)
	assert.NotContains(t, resist, Psychic)
	assert.Contains(t, resist, Poison)
}

func TestSuperEffectiveAgainstUsesOwnTypes(t *testing.T) {
	super := SuperEffectiveAgainst([]Type{Water})

	assert.ElementsMatch(t, []Type{Fire, Ground, Rock}, super)

	// Dual typing unions coverage without duplicates.
	super = SuperEffectiveAgainst([]Type{Water, Ground})
	counts := make(map[Type]int)
	for _, s := range super {
		counts[s]++
	}
	for typ, n := range counts {
		assert.Equalf(t, 1, n, "type %s appeared %d times", typ, n)
	}
	assert.Contains(t, super, Electric)
}

func TestResistantTo(t *testing.T) {
	resistant := ResistantTo(Rock)

	assert.Contains(t, resistant, Fighting)
	assert.Contains(t, resistant, Ground)
	assert.Contains(t, resistant, Steel)
	assert.NotContains(t, resistant, Fire)
}

func TestEffectiveAgainst(t *testing.T) {
	effective := EffectiveAgainst(Dragon)

	assert.ElementsMatch(t, []Type{Ice, Dragon, Fairy}, effective)
}

func TestQueriesDeterministic(t *testing.T) {
	require.Equal(t, Weaknesses([]Type{Fire, Flying}), Weaknesses([]Type{Fire, Flying}))
	require.Equal(t, SuperEffectiveAgainst([]Type{Bug, Steel}), SuperEffectiveAgainst([]Type{Bug, Steel}))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("fire"))
	assert.True(t, Known("FIRE"))
	assert.False(t, Known("shadow"))
	assert.False(t, Known(""))
}

func TestChartCoversAllTypes(t *testing.T) {
	require.Len(t, All, 18)
	for _, typ := range All {
		_, ok := chart[typ]
		assert.Truef(t, ok, "missing attacking row for %s", typ)
	}
}
