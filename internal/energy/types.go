package energy

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/tags"
)

// #region tier
// Tier is the letter grade derived from a final score.
type Tier string

const (
	TierSS Tier = "SS"
	TierS  Tier = "S"
	TierA  Tier = "A"
	TierB  Tier = "B"
	TierC  Tier = "C"
	TierF  Tier = "F"
)

// TierThreshold maps a minimum score to a tier.
type TierThreshold struct {
	Min  int
	Tier Tier
}

// #endregion tier

// #region config
// Config holds every score constant the pipeline uses.
type Config struct {
	// seasonality, by line element against month element
	SeasonSame          int
	SeasonGeneratedBy   int // month generates line
	SeasonGenerates     int // line generates month
	SeasonOvercomes     int // line overcomes month
	SeasonOvercomeBy    int // month overcomes line
	SeasonDefault       int
	StaticStrengthDelta map[ganzhi.Strength]int

	// day authority
	DarkActivationMin   int
	DarkActivationBonus int
	DayElementDelta     int

	// mutation
	ReturnGenerationBonus int
	AdvanceFactor         float64
	RetreatFactor         float64
	ChangedTombCap        int

	// override
	TrinityScore      int
	ResurrectionScore int

	// final filter
	ProsperousVoidAbove int
	TrueVoidBelow       int
	StoredAbove         int
	BuriedBelow         int

	MaxScore int
	Tiers    []TierThreshold // descending by Min
}

// DefaultConfig returns the standard scoring constants.
func DefaultConfig() Config {
	return Config{
		SeasonSame:        100,
		SeasonGeneratedBy: 90,
		SeasonGenerates:   60,
		SeasonOvercomes:   50,
		SeasonOvercomeBy:  40,
		SeasonDefault:     60,
		StaticStrengthDelta: map[ganzhi.Strength]int{
			ganzhi.StrengthWang:  20,
			ganzhi.StrengthXiang: 10,
			ganzhi.StrengthXiu:   0,
			ganzhi.StrengthQiu:   -10,
			ganzhi.StrengthSi:    -20,
		},

		DarkActivationMin:   60,
		DarkActivationBonus: 30,
		DayElementDelta:     20,

		ReturnGenerationBonus: 50,
		AdvanceFactor:         1.5,
		RetreatFactor:         0.5,
		ChangedTombCap:        40,

		TrinityScore:      150,
		ResurrectionScore: 70,

		ProsperousVoidAbove: 80,
		TrueVoidBelow:       50,
		StoredAbove:         70,
		BuriedBelow:         50,

		MaxScore: 150,
		Tiers: []TierThreshold{
			{Min: 130, Tier: TierSS},
			{Min: 100, Tier: TierS},
			{Min: 80, Tier: TierA},
			{Min: 60, Tier: TierB},
			{Min: 40, Tier: TierC},
		},
	}
}

// #endregion config

// #region input
// LineInput is what the pipeline needs from one line. Changed fields are
// only read for moving lines.
type LineInput struct {
	Position       int
	Element        ganzhi.Element
	Branch         ganzhi.Branch
	IsMoving       bool
	ChangedBranch  ganzhi.Branch
	ChangedElement ganzhi.Element
}

// Date is the calendar context shared by all lines.
type Date struct {
	Month ganzhi.Branch
	Day   ganzhi.Branch
	Void  ganzhi.Void
}

// #endregion input

// #region step
// Outcome tells the pipeline whether to run the next step.
type Outcome uint8

const (
	Continue Outcome = iota
	Terminated
)

// State is the running assessment threaded through the steps. Tier is empty
// unless a step fixed it.
type State struct {
	Score int
	Tier  Tier
	Tags  []tags.TagInfo
	Log   []string
}

// StepResult is the tagged result of one step.
type StepResult struct {
	Outcome Outcome
	State   State
}

// #endregion step

// #region result
// Result is the scored assessment of one line.
type Result struct {
	Position     int            `json:"position"`
	BaseScore    int            `json:"baseScore"`
	FinalScore   int            `json:"finalScore"`
	Tier         Tier           `json:"tier"`
	Tags         []tags.TagInfo `json:"tags"`
	AuditLog     []string       `json:"auditLog"`
	TerminatedBy string         `json:"terminatedBy,omitempty"`
}

// #endregion result
