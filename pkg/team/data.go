package team

import "github.com/teamdex/teamdex/pkg/typechart"

// Curated catalog IDs used by the classifier and the recommendation
// generator. These are compiled-in constants; update them alongside new
// generations of the upstream catalog.

// popularByType lists strong, commonly used Pokémon per type, in the
// order candidates are tried.
var popularByType = map[typechart.Type][]int{
	typechart.Fire:     {6, 59, 78, 136, 157, 244, 257, 392, 609, 815},
	typechart.Water:    {9, 130, 144, 160, 245, 260, 395, 503, 658, 818},
	typechart.Grass:    {3, 45, 103, 154, 254, 389, 465, 497, 724, 812},
	typechart.Electric: {25, 26, 125, 135, 181, 243, 310, 466, 604, 807},
	typechart.Psychic:  {65, 122, 150, 196, 251, 282, 475, 579, 786, 866},
	typechart.Ice:      {87, 131, 144, 225, 361, 471, 473, 646, 713, 883},
	typechart.Dragon:   {149, 230, 373, 445, 646, 700, 706, 804, 887, 890},
	typechart.Dark:     {94, 197, 229, 248, 359, 430, 452, 635, 717, 862},
	typechart.Fighting: {68, 107, 214, 257, 392, 448, 532, 647, 739, 865},
	typechart.Poison:   {34, 89, 169, 454, 569, 748, 793, 804},
	typechart.Ground:   {31, 76, 105, 208, 232, 330, 445, 464, 530, 770},
	typechart.Flying:   {6, 18, 83, 142, 144, 149, 227, 277, 334, 430},
	typechart.Bug:      {12, 15, 123, 127, 212, 214, 469, 542, 637, 738},
	typechart.Rock:     {76, 139, 142, 219, 248, 306, 409, 526, 639, 719},
	typechart.Ghost:    {94, 105, 354, 477, 609, 681, 711, 792, 855},
	typechart.Steel:    {81, 208, 227, 306, 376, 395, 448, 530, 681, 797},
	typechart.Fairy:    {35, 39, 122, 184, 282, 468, 700, 716, 786, 858},
}

// starterIDs seed recommendations for an empty roster.
var starterIDs = []int{1, 4, 7, 152, 155, 158, 252, 255, 258}

// fallbackTypes are suggested when neither weaknesses nor coverage gaps
// produce candidate types.
var fallbackTypes = []typechart.Type{
	typechart.Dragon, typechart.Steel, typechart.Fairy, typechart.Fighting, typechart.Psychic,
}

// Allow-lists for roles that depend on movepool knowledge the stat block
// cannot express.
var (
	hazardSetterIDs = map[int]bool{
		76: true, 208: true, 227: true, 464: true, // Stealth Rock
		89: true, 205: true, 442: true, 563: true, // Spikes
		169: true, 454: true, 569: true, 748: true, // Toxic Spikes
	}

	hazardRemoverIDs = map[int]bool{
		18: true, 83: true, 142: true, 227: true, 277: true, 334: true, 430: true, // Defog
		76: true, 465: true, 464: true, 530: true, // Rapid Spin
	}

	utilityIDs = map[int]bool{
		113: true, 242: true, 196: true, 197: true, 282: true, 468: true, 700: true,
		122: true, 124: true, 144: true, 145: true, 146: true,
	}
)

// namedCore is a trio of types considered to synergize well together.
type namedCore struct {
	Name  string
	Types []typechart.Type
}

// compatibilityCores are the cores a single Pokémon can participate in.
var compatibilityCores = []namedCore{
	{"fire-water-grass", []typechart.Type{typechart.Fire, typechart.Water, typechart.Grass}},
	{"dragon-steel-fairy", []typechart.Type{typechart.Dragon, typechart.Steel, typechart.Fairy}},
	{"electric-ground-flying", []typechart.Type{typechart.Electric, typechart.Ground, typechart.Flying}},
	{"fighting-psychic-dark", []typechart.Type{typechart.Fighting, typechart.Psychic, typechart.Dark}},
	{"rock-steel-water", []typechart.Type{typechart.Rock, typechart.Steel, typechart.Water}},
}

// scoredCores award the flat core-strength bonus when fully present in
// team typing.
var scoredCores = []namedCore{
	{"fire-water-grass", []typechart.Type{typechart.Fire, typechart.Water, typechart.Grass}},
	{"dragon-steel-fairy", []typechart.Type{typechart.Dragon, typechart.Steel, typechart.Fairy}},
	{"fighting-psychic-dark", []typechart.Type{typechart.Fighting, typechart.Psychic, typechart.Dark}},
}

// strongSynergyTypes earn a flat per-Pokémon synergy bonus.
var strongSynergyTypes = map[typechart.Type]bool{
	typechart.Dragon:   true,
	typechart.Steel:    true,
	typechart.Fairy:    true,
	typechart.Psychic:  true,
	typechart.Fighting: true,
}

// strongOffensiveTypes earn a flat offensive-score bonus.
var strongOffensiveTypes = map[typechart.Type]bool{
	typechart.Dragon:   true,
	typechart.Fighting: true,
	typechart.Ground:   true,
	typechart.Rock:     true,
	typechart.Steel:    true,
}

// complementaryPairs are type pairings that cover each other's checks.
var complementaryPairs = [][2]typechart.Type{
	{typechart.Fire, typechart.Water},
	{typechart.Fire, typechart.Ground},
	{typechart.Water, typechart.Electric},
	{typechart.Grass, typechart.Fire},
	{typechart.Grass, typechart.Flying},
	{typechart.Electric, typechart.Ground},
	{typechart.Psychic, typechart.Dark},
	{typechart.Fighting, typechart.Psychic},
	{typechart.Ghost, typechart.Normal},
	{typechart.Steel, typechart.Fire},
	{typechart.Dragon, typechart.Ice},
	{typechart.Fairy, typechart.Steel},
}

// legendaryRange is a span of catalog IDs holding legendary Pokémon.
type legendaryRange struct{ lo, hi int }

var legendaryRanges = []legendaryRange{
	{144, 151},
	{243, 251},
	{377, 386},
	{480, 493},
}

var pseudoLegendaryIDs = map[int]bool{
	149: true, 248: true, 373: true, 376: true, 445: true,
	484: true, 612: true, 635: true, 700: true, 706: true,
}

var competitiveStapleIDs = map[int]bool{
	6: true, 9: true, 65: true, 68: true, 94: true,
	130: true, 142: true, 196: true, 197: true, 212: true,
	214: true, 229: true, 254: true, 257: true, 260: true,
}
