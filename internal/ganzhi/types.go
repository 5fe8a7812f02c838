// Package ganzhi holds the stem, branch and five-element enumerations and the
// fixed relation tables every chart computation reads from.
package ganzhi

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
)

// #region element
// Element is one of the five phases. The zero value means "not assigned".
type Element uint8

const (
	ElementNone Element = iota
	Wood
	Fire
	Earth
	Metal
	Water
)

var elementLabels = [...]string{"", "木", "火", "土", "金", "水"}

// Elements lists the five phases in generating order.
var Elements = [5]Element{Wood, Fire, Earth, Metal, Water}

func (e Element) String() string {
	if int(e) < len(elementLabels) {
		return elementLabels[e]
	}
	return ""
}

// Valid reports whether e is one of the five phases.
func (e Element) Valid() bool { return e >= Wood && e <= Water }

func (e Element) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Element) UnmarshalText(b []byte) error {
	v, err := ParseElement(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseElement resolves a label such as "金". The empty string yields ElementNone.
func ParseElement(s string) (Element, error) {
	if s == "" {
		return ElementNone, nil
	}
	for i := 1; i < len(elementLabels); i++ {
		if elementLabels[i] == s {
			return Element(i), nil
		}
	}
	return ElementNone, errs.Validation("element", "unknown element %q", s)
}

// #endregion element

// #region stem
// Stem is a heavenly stem. The zero value means "not assigned".
type Stem uint8

const (
	StemNone Stem = iota
	StemJia
	StemYi
	StemBing
	StemDing
	StemWu
	StemJi
	StemGeng
	StemXin
	StemRen
	StemGui
)

var stemLabels = [...]string{"", "甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var stemElements = [...]Element{ElementNone, Wood, Wood, Fire, Fire, Earth, Earth, Metal, Metal, Water, Water}

// StemAt returns the stem at cycle index i (0 = 甲), wrapping in both directions.
func StemAt(i int) Stem { return Stem(mod(i, 10) + 1) }

func (s Stem) String() string {
	if int(s) < len(stemLabels) {
		return stemLabels[s]
	}
	return ""
}

func (s Stem) Valid() bool { return s >= StemJia && s <= StemGui }

// Index is the 0-based cycle position, -1 for StemNone.
func (s Stem) Index() int {
	if !s.Valid() {
		return -1
	}
	return int(s) - 1
}

func (s Stem) IsYang() bool { return s.Valid() && s.Index()%2 == 0 }

func (s Stem) Element() Element {
	if int(s) < len(stemElements) {
		return stemElements[s]
	}
	return ElementNone
}

func (s Stem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stem) UnmarshalText(b []byte) error {
	v, err := ParseStem(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStem resolves a label such as "甲". The empty string yields StemNone.
func ParseStem(label string) (Stem, error) {
	if label == "" {
		return StemNone, nil
	}
	for i := 1; i < len(stemLabels); i++ {
		if stemLabels[i] == label {
			return Stem(i), nil
		}
	}
	return StemNone, errs.Validation("stem", "unknown stem %q", label)
}

// #endregion stem

// #region branch
// Branch is an earthly branch. The zero value means "not assigned".
type Branch uint8

const (
	BranchNone Branch = iota
	BranchZi
	BranchChou
	BranchYin
	BranchMao
	BranchChen
	BranchSi
	BranchWu
	BranchWei
	BranchShen
	BranchYou
	BranchXu
	BranchHai
)

var branchLabels = [...]string{"", "子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

var branchElements = [...]Element{
	ElementNone,
	Water, Earth, Wood, Wood, Earth, Fire,
	Fire, Earth, Metal, Metal, Earth, Water,
}

// BranchAt returns the branch at cycle index i (0 = 子), wrapping in both directions.
func BranchAt(i int) Branch { return Branch(mod(i, 12) + 1) }

func (b Branch) String() string {
	if int(b) < len(branchLabels) {
		return branchLabels[b]
	}
	return ""
}

func (b Branch) Valid() bool { return b >= BranchZi && b <= BranchHai }

// Index is the 0-based cycle position, -1 for BranchNone.
func (b Branch) Index() int {
	if !b.Valid() {
		return -1
	}
	return int(b) - 1
}

func (b Branch) IsYang() bool { return b.Valid() && b.Index()%2 == 0 }

func (b Branch) Element() Element {
	if int(b) < len(branchElements) {
		return branchElements[b]
	}
	return ElementNone
}

// Offset moves n steps along the cycle. BranchNone stays BranchNone.
func (b Branch) Offset(n int) Branch {
	if !b.Valid() {
		return BranchNone
	}
	return BranchAt(b.Index() + n)
}

func (b Branch) Next() Branch { return b.Offset(1) }
func (b Branch) Prev() Branch { return b.Offset(-1) }

func (b Branch) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Branch) UnmarshalText(text []byte) error {
	v, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBranch resolves a label such as "子". The empty string yields BranchNone.
func ParseBranch(label string) (Branch, error) {
	if label == "" {
		return BranchNone, nil
	}
	for i := 1; i < len(branchLabels); i++ {
		if branchLabels[i] == label {
			return Branch(i), nil
		}
	}
	return BranchNone, errs.Validation("branch", "unknown branch %q", label)
}

// #endregion branch

// #region pillar
// Pillar is a stem-branch pair from the sexagenary cycle.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// Valid reports whether both halves are set and share yin/yang parity.
func (p Pillar) Valid() bool {
	return p.Stem.Valid() && p.Branch.Valid() && p.Stem.IsYang() == p.Branch.IsYang()
}

func (p Pillar) IsZero() bool { return p.Stem == StemNone && p.Branch == BranchNone }

func (p Pillar) String() string { return p.Stem.String() + p.Branch.String() }

func (p Pillar) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText accepts an empty label as the zero pillar.
func (p *Pillar) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = Pillar{}
		return nil
	}
	v, err := ParsePillar(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePillar resolves a two-character label such as "甲子".
func ParsePillar(label string) (Pillar, error) {
	r := []rune(label)
	if len(r) != 2 {
		return Pillar{}, errs.Validation("pillar", "pillar %q must be one stem and one branch", label)
	}
	s, err := ParseStem(string(r[0]))
	if err != nil {
		return Pillar{}, errs.Validation("pillar", "pillar %q", label).WithCause(err)
	}
	b, err := ParseBranch(string(r[1]))
	if err != nil {
		return Pillar{}, errs.Validation("pillar", "pillar %q", label).WithCause(err)
	}
	p := Pillar{Stem: s, Branch: b}
	if !p.Valid() {
		return Pillar{}, errs.Validation("pillar", "pillar %q is not in the sexagenary cycle", label)
	}
	return p, nil
}

// #endregion pillar

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
