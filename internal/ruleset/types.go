package ruleset

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
)

// #region ruleset
// BaseBy selects which half of the day pillar starts the six gods.
type BaseBy string

const (
	BaseByDayStem   BaseBy = "dayStem"
	BaseByDayBranch BaseBy = "dayBranch"
)

// RuleSet is an immutable school configuration. Sequences are bottom-up.
type RuleSet struct {
	Key           string
	Name          string
	NaJia         NaJiaRule
	SixGod        SixGodRule
	WorldResponse string
}

// NaJiaRule controls how stems and branches are attached to lines.
// TrigramStem entries hold one stem or a bottom-to-top triplet.
type NaJiaRule struct {
	TrigramStem     map[hexagram.TrigramName][]ganzhi.Stem
	StemSequence    map[hexagram.TrigramName][6]ganzhi.Stem
	BranchSequence  map[hexagram.TrigramName][6]ganzhi.Branch
	DefaultBranches []ganzhi.Branch
}

// SixGodRule picks the starting god from the day pillar and rotates Sequence.
type SixGodRule struct {
	BaseBy        BaseBy
	StartByStem   map[ganzhi.Stem]hexagram.SixGod
	StartByBranch map[ganzhi.Branch]hexagram.SixGod
	Sequence      [6]hexagram.SixGod
}

// #endregion ruleset

// #region yaml
type rawFile struct {
	RuleSets []rawRuleSet `yaml:"rulesets"`
}

type rawRuleSet struct {
	Key           string    `yaml:"key"`
	Name          string    `yaml:"name"`
	WorldResponse string    `yaml:"worldResponse"`
	NaJia         rawNaJia  `yaml:"najia"`
	SixGod        rawSixGod `yaml:"sixGod"`
}

type rawNaJia struct {
	TrigramStem     map[string]stemSpec `yaml:"trigramStem"`
	StemSequence    map[string][]string `yaml:"stemSequence"`
	BranchSequence  map[string][]string `yaml:"branchSequence"`
	DefaultBranches []string            `yaml:"defaultBranches"`
}

type rawSixGod struct {
	BaseBy        string            `yaml:"baseBy"`
	StartByStem   map[string]string `yaml:"startByStem"`
	StartByBranch map[string]string `yaml:"startByBranch"`
	Sequence      []string          `yaml:"sequence"`
}

// #endregion yaml
