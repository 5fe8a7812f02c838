package chart

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/energy"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
	"github.com/danielpatrickdp/liuyao-engine/internal/tags"
)

// #region input
// Date holds the four calendar pillars of a cast. Month and Day are
// required; Year and Hour may be left zero.
type Date struct {
	Year  ganzhi.Pillar `json:"year"`
	Month ganzhi.Pillar `json:"month"`
	Day   ganzhi.Pillar `json:"day"`
	Hour  ganzhi.Pillar `json:"hour"`
}

// Input is one cast: six lines in top-down order, the rule set to apply and
// the date.
type Input struct {
	Lines      []hexagram.LineInput `json:"lines" validate:"len=6"`
	RuleSetKey string               `json:"ruleSetKey" validate:"required"`
	Date       Date                 `json:"date"`
}

// #endregion input

// #region config
// Config configures an Engine.
type Config struct {
	Energy energy.Config
	// BatchLimit caps concurrent computations in ComputeAll.
	BatchLimit int
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Energy:     energy.DefaultConfig(),
		BatchLimit: 8,
	}
}

// #endregion config

// #region result
// Result is a fully computed chart. Hexagram.Lines carry every annotation;
// Variant is nil when no line moves.
type Result struct {
	RuleSet     string             `json:"ruleSet"`
	Date        Date               `json:"date"`
	Hexagram    *hexagram.Hexagram `json:"hexagram"`
	Variant     *hexagram.Hexagram `json:"variant,omitempty"`
	Mutual      *hexagram.Hexagram `json:"mutual"`
	HiddenCount int                `json:"hiddenCount"`
	SixGods     [6]hexagram.SixGod `json:"sixGods"`
	Void        ganzhi.Void        `json:"void"`
	Placements  []ganzhi.Placement `json:"placements"`
	Energy      []energy.Result    `json:"energy"`
	Tags        tags.Result        `json:"tags"`
}

// VariantLines returns the variant's lines, or zero lines when nothing moves.
func (r *Result) VariantLines() [6]hexagram.Line {
	if r.Variant == nil {
		return [6]hexagram.Line{}
	}
	return r.Variant.Lines
}

// #endregion result
