// Package hexagram builds hexagrams and their variant and mutual forms from
// six cast lines, resolving names and palaces through the fixed palace table.
package hexagram

import (
	"strings"

	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
)

// #region index
// ToBottomIndex converts a top-down line index (0 = top) to a bottom-up one
// (0 = bottom). It is its own inverse.
func ToBottomIndex(top int) int { return 5 - top }

// ToTopIndex converts a bottom-up line index to a top-down one.
func ToTopIndex(bottom int) int { return 5 - bottom }

// #endregion index

// #region build
// Build constructs a hexagram from six lines given top-down.
func Build(lines []LineInput) (*Hexagram, error) {
	if len(lines) != 6 {
		return nil, errs.Validation("line_count", "need 6 lines, got %d", len(lines))
	}
	h := &Hexagram{}
	for i, in := range lines {
		h.Lines[i] = Line{Position: i + 1, IsYang: in.IsYang, IsMoving: in.IsMoving}
	}
	h.Code = codeOf(h.Lines)

	row, ok := Lookup(h.Code)
	if !ok {
		return nil, errs.Computation("palace_lookup", "no palace row for code %s", h.Code)
	}
	h.Upper = Trigram{Name: trigramOf(h.Lines[0:3]), Lines: [3]Line{h.Lines[0], h.Lines[1], h.Lines[2]}}
	h.Lower = Trigram{Name: trigramOf(h.Lines[3:6]), Lines: [3]Line{h.Lines[3], h.Lines[4], h.Lines[5]}}
	if h.Upper.Name == TrigramNone || h.Lower.Name == TrigramNone {
		return nil, errs.Computation("trigram_lookup", "unresolved trigram in code %s", h.Code)
	}
	h.Name = row.Name
	h.Palace = row.Palace
	h.Category = row.Category
	h.Element = row.Element
	h.WorldIndex = ToTopIndex(row.World)
	h.ResponseIndex = ToTopIndex(row.Response)
	return h, nil
}

// FromCode builds a static hexagram from a bottom-up code such as "111000".
func FromCode(code string) (*Hexagram, error) {
	if len(code) != 6 || strings.Trim(code, "01") != "" {
		return nil, errs.Validation("code", "hexagram code %q must be six 0/1 digits", code)
	}
	lines := make([]LineInput, 6)
	for b := 0; b < 6; b++ {
		lines[ToTopIndex(b)] = LineInput{IsYang: code[b] == '1'}
	}
	return Build(lines)
}

// DeriveVariant flips every moving line. Moving flags are kept so the flip
// can be reapplied.
func DeriveVariant(h *Hexagram) (*Hexagram, error) {
	lines := h.Inputs()
	for i := range lines {
		if lines[i].IsMoving {
			lines[i].IsYang = !lines[i].IsYang
		}
	}
	return Build(lines)
}

// DeriveMutual takes bottom-up lines 2-4 as the new lower trigram and 3-5 as
// the new upper trigram.
func DeriveMutual(h *Hexagram) (*Hexagram, error) {
	in := h.Inputs()
	bottom := func(b int) LineInput { return in[ToTopIndex(b)] }
	seq := [6]LineInput{bottom(1), bottom(2), bottom(3), bottom(2), bottom(3), bottom(4)}
	lines := make([]LineInput, 6)
	for b, l := range seq {
		lines[ToTopIndex(b)] = l
	}
	return Build(lines)
}

// BaseOf builds the 本宫 hexagram of a palace.
func BaseOf(palace TrigramName) (*Hexagram, error) {
	row, ok := BaseRow(palace)
	if !ok {
		return nil, errs.Computation("palace_lookup", "no base hexagram for palace %q", palace.String())
	}
	return FromCode(row.Code)
}

// #endregion build

// #region helpers
func codeOf(lines [6]Line) string {
	var sb strings.Builder
	for b := 0; b < 6; b++ {
		if lines[ToTopIndex(b)].IsYang {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// trigramOf resolves three top-down lines.
func trigramOf(lines []Line) TrigramName {
	v := 0
	for i := len(lines) - 1; i >= 0; i-- {
		v <<= 1
		if lines[i].IsYang {
			v |= 1
		}
	}
	return trigramByBits[v]
}

func errUnknownTrigram(s string) error {
	return errs.Validation("trigram", "unknown trigram %q", s)
}

func errUnknownCategory(s string) error {
	return errs.Validation("category", "unknown palace category %q", s)
}

func errUnknownRelative(s string) error {
	return errs.Validation("relative", "unknown six relative %q", s)
}

func errUnknownGod(s string) error {
	return errs.Validation("six_god", "unknown six god %q", s)
}

// #endregion helpers
