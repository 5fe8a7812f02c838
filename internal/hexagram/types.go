package hexagram

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
)

// #region trigram
// TrigramName identifies one of the eight trigrams. Zero means unresolved.
type TrigramName uint8

const (
	TrigramNone TrigramName = iota
	Qian
	Dui
	Li
	Zhen
	Xun
	Kan
	Gen
	Kun
)

var trigramLabels = [...]string{"", "乾", "兑", "离", "震", "巽", "坎", "艮", "坤"}

// Trigrams lists the eight trigrams in palace order.
var Trigrams = [8]TrigramName{Qian, Zhen, Kan, Gen, Kun, Xun, Li, Dui}

// trigram by 3-bit value, bottom line as the high bit
var trigramByBits = [8]TrigramName{Kun, Gen, Kan, Xun, Zhen, Li, Dui, Qian}

func (t TrigramName) String() string {
	if int(t) < len(trigramLabels) {
		return trigramLabels[t]
	}
	return ""
}

func (t TrigramName) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TrigramName) UnmarshalText(b []byte) error {
	v, ok := ParseTrigram(string(b))
	if !ok && len(b) > 0 {
		return errUnknownTrigram(string(b))
	}
	*t = v
	return nil
}

// ParseTrigram resolves a label such as "乾".
func ParseTrigram(s string) (TrigramName, bool) {
	for i := 1; i < len(trigramLabels); i++ {
		if trigramLabels[i] == s {
			return TrigramName(i), true
		}
	}
	return TrigramNone, false
}

// Trigram is one half of a hexagram. Lines are top-down.
type Trigram struct {
	Name  TrigramName `json:"name"`
	Lines [3]Line     `json:"lines"`
}

// #endregion trigram

// #region category
// Category is a hexagram's generational place within its palace.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryBase
	CategoryFirst
	CategorySecond
	CategoryThird
	CategoryFourth
	CategoryFifth
	CategoryWandering
	CategoryReturning
)

var categoryLabels = [...]string{"", "本宫", "一世", "二世", "三世", "四世", "五世", "游魂", "归魂"}

func (c Category) String() string {
	if int(c) < len(categoryLabels) {
		return categoryLabels[c]
	}
	return ""
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(b []byte) error {
	for i, l := range categoryLabels {
		if l == string(b) {
			*c = Category(i)
			return nil
		}
	}
	return errUnknownCategory(string(b))
}

// #endregion category

// #region relative
// SixRelative classifies a line against the hexagram's own element.
type SixRelative uint8

const (
	RelativeNone SixRelative = iota
	RelativeParent
	RelativeSibling
	RelativeOfficer
	RelativeWealth
	RelativeOffspring
)

var relativeLabels = [...]string{"", "父母", "兄弟", "官星", "妻财", "子孙"}
var relativeShort = [...]string{"", "父", "兄", "官", "财", "子"}

// Relatives lists the five categories in display order.
var Relatives = [5]SixRelative{RelativeParent, RelativeOfficer, RelativeOffspring, RelativeWealth, RelativeSibling}

func (r SixRelative) String() string {
	if int(r) < len(relativeLabels) {
		return relativeLabels[r]
	}
	return ""
}

// Short is the one-character form used in tag codes and compact rendering.
func (r SixRelative) Short() string {
	if int(r) < len(relativeShort) {
		return relativeShort[r]
	}
	return ""
}

func (r SixRelative) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *SixRelative) UnmarshalText(b []byte) error {
	for i, l := range relativeLabels {
		if l == string(b) {
			*r = SixRelative(i)
			return nil
		}
	}
	return errUnknownRelative(string(b))
}

// #endregion relative

// #region sixgod
// SixGod is one of the six spirits rotated across the lines.
type SixGod uint8

const (
	GodNone SixGod = iota
	GodQingLong
	GodZhuQue
	GodGouChen
	GodTengShe
	GodBaiHu
	GodXuanWu
)

var godLabels = [...]string{"", "青龙", "朱雀", "勾陈", "腾蛇", "白虎", "玄武"}

var godElements = [...]ganzhi.Element{
	ganzhi.ElementNone, ganzhi.Wood, ganzhi.Fire, ganzhi.Earth, ganzhi.Earth, ganzhi.Metal, ganzhi.Water,
}

func (g SixGod) String() string {
	if int(g) < len(godLabels) {
		return godLabels[g]
	}
	return ""
}

// Element is the phase the spirit carries.
func (g SixGod) Element() ganzhi.Element {
	if int(g) < len(godElements) {
		return godElements[g]
	}
	return ganzhi.ElementNone
}

func (g SixGod) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *SixGod) UnmarshalText(b []byte) error {
	v, ok := ParseSixGod(string(b))
	if !ok && len(b) > 0 {
		return errUnknownGod(string(b))
	}
	*g = v
	return nil
}

// ParseSixGod resolves a label such as "青龙".
func ParseSixGod(s string) (SixGod, bool) {
	for i := 1; i < len(godLabels); i++ {
		if godLabels[i] == s {
			return SixGod(i), true
		}
	}
	return GodNone, false
}

// #endregion sixgod

// #region line
// LineInput is one cast line.
type LineInput struct {
	IsYang   bool `json:"isYang"`
	IsMoving bool `json:"isMoving"`
}

// HiddenSpirit is a relative borrowed from the palace's base hexagram.
type HiddenSpirit struct {
	Stem     ganzhi.Stem   `json:"stem"`
	Branch   ganzhi.Branch `json:"branch"`
	Relative SixRelative   `json:"relative"`
}

// Line is a hexagram line. Position 1 is the top line; annotation fields are
// zero until the NaJia passes fill them.
type Line struct {
	Position int  `json:"position"`
	IsYang   bool `json:"isYang"`
	IsMoving bool `json:"isMoving"`

	Stem     ganzhi.Stem     `json:"stem,omitempty"`
	Branch   ganzhi.Branch   `json:"branch,omitempty"`
	Element  ganzhi.Element  `json:"element,omitempty"`
	Relative SixRelative     `json:"relative,omitempty"`
	God      SixGod          `json:"sixGod,omitempty"`
	Stage    ganzhi.Stage    `json:"stage,omitempty"`
	Strength ganzhi.Strength `json:"strength,omitempty"`
	Hidden   *HiddenSpirit   `json:"hidden,omitempty"`
}

// Input returns the yin/yang and moving flags of l.
func (l Line) Input() LineInput { return LineInput{IsYang: l.IsYang, IsMoving: l.IsMoving} }

// #endregion line

// #region hexagram
// Hexagram is a six-line figure. Lines are top-down; WorldIndex and
// ResponseIndex index into Lines.
type Hexagram struct {
	Name          string         `json:"name"`
	Code          string         `json:"code"`
	Upper         Trigram        `json:"upper"`
	Lower         Trigram        `json:"lower"`
	Lines         [6]Line        `json:"lines"`
	Palace        TrigramName    `json:"palace"`
	Category      Category       `json:"category"`
	Element       ganzhi.Element `json:"element"`
	WorldIndex    int            `json:"worldIndex"`
	ResponseIndex int            `json:"responseIndex"`
}

// Inputs returns the six line inputs in top-down order.
func (h *Hexagram) Inputs() []LineInput {
	out := make([]LineInput, 6)
	for i, l := range h.Lines {
		out[i] = l.Input()
	}
	return out
}

// HasMoving reports whether any line is moving.
func (h *Hexagram) HasMoving() bool {
	for _, l := range h.Lines {
		if l.IsMoving {
			return true
		}
	}
	return false
}

// #endregion hexagram
