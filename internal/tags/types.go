package tags

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
)

// #region tag
// Tone says whether a tag helps, hurts or merely describes a line.
type Tone string

const (
	ToneBuff    Tone = "buff"
	ToneDebuff  Tone = "debuff"
	ToneNeutral Tone = "neutral"
)

// Category groups tags for display.
type Category string

const (
	CategoryDynamic     Category = "dynamic"
	CategorySeasonal    Category = "seasonal"
	CategoryInteraction Category = "interaction"
	CategoryMutation    Category = "mutation"
	CategoryPosition    Category = "position"
	CategorySpiritual   Category = "spiritual"
)

// TagInfo is one named condition found on a line or on the whole chart.
type TagInfo struct {
	Code        string   `json:"code"`
	Label       string   `json:"label"`
	Category    Category `json:"category"`
	Type        Tone     `json:"type"`
	Description string   `json:"description,omitempty"`
}

// #endregion tag

// #region input
// Date carries the calendar pillars and derived values the detectors read.
type Date struct {
	Year       ganzhi.Pillar
	Month      ganzhi.Pillar
	Day        ganzhi.Pillar
	Void       ganzhi.Void
	Placements []ganzhi.Placement
}

// Input is a fully annotated chart. Lines and Variant are top-down; Variant
// lines are only read where the base line is moving.
type Input struct {
	Hexagram *hexagram.Hexagram
	Lines    [6]hexagram.Line
	Variant  [6]hexagram.Line
	Date     Date
}

// LineTags holds the tags found on one line in discovery order.
type LineTags struct {
	Index    int           `json:"index"`
	Label    string        `json:"label"`
	Position int           `json:"position"`
	Branch   ganzhi.Branch `json:"branch,omitempty"`
	IsMoving bool          `json:"isMoving"`
	Tags     []TagInfo     `json:"tags"`
}

// Result is the tag engine output.
type Result struct {
	Global        []TagInfo  `json:"global"`
	Lines         []LineTags `json:"lines"`
	WorldResponse string     `json:"worldResponse,omitempty"`
}

// #endregion input
