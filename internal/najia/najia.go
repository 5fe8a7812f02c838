// Package najia attaches stems, branches, six relatives, hidden spirits and
// six gods to hexagram lines under a school rule set.
package najia

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

// #region map
// Map returns a copy of h's lines with stem, branch and element set. The
// lower trigram feeds bottom-up positions 0-2 and the upper feeds 3-5.
func Map(h *hexagram.Hexagram, rs *ruleset.RuleSet) [6]hexagram.Line {
	lines := h.Lines
	for b := 0; b < 6; b++ {
		t := h.Lower.Name
		if b >= 3 {
			t = h.Upper.Name
		}
		l := &lines[hexagram.ToTopIndex(b)]
		l.Branch = branchFor(rs, t, b)
		l.Stem = stemFor(rs, t, b)
		l.Element = l.Branch.Element()
		if !l.Element.Valid() {
			l.Element = l.Stem.Element()
		}
	}
	return lines
}

func branchFor(rs *ruleset.RuleSet, t hexagram.TrigramName, b int) ganzhi.Branch {
	if seq, ok := rs.NaJia.BranchSequence[t]; ok {
		return seq[b]
	}
	if d := rs.NaJia.DefaultBranches; len(d) > 0 {
		return d[b%len(d)]
	}
	return ganzhi.BranchNone
}

func stemFor(rs *ruleset.RuleSet, t hexagram.TrigramName, b int) ganzhi.Stem {
	if seq, ok := rs.NaJia.StemSequence[t]; ok {
		return seq[b]
	}
	switch stems := rs.NaJia.TrigramStem[t]; len(stems) {
	case 1:
		return stems[0]
	case 3:
		return stems[b%3]
	}
	return ganzhi.StemNone
}

// #endregion map

// #region relatives
// Relative classifies element e against the hexagram's own element.
func Relative(self, e ganzhi.Element) hexagram.SixRelative {
	switch ganzhi.Relate(self, e) {
	case ganzhi.RelationSame:
		return hexagram.RelativeSibling
	case ganzhi.RelationGenerates:
		return hexagram.RelativeOffspring
	case ganzhi.RelationGeneratedBy:
		return hexagram.RelativeParent
	case ganzhi.RelationOvercomes:
		return hexagram.RelativeWealth
	case ganzhi.RelationOvercomeBy:
		return hexagram.RelativeOfficer
	}
	return hexagram.RelativeNone
}

// Annotate sets six relative, life-cycle stage and seasonal strength on
// every line that carries an element.
func Annotate(lines *[6]hexagram.Line, self ganzhi.Element, month ganzhi.Branch) {
	for i := range lines {
		l := &lines[i]
		if !l.Element.Valid() {
			continue
		}
		l.Relative = Relative(self, l.Element)
		l.Stage = ganzhi.StageOf(l.Element, l.Branch)
		l.Strength = ganzhi.SeasonStrength(month, l.Element)
	}
}

// #endregion relatives

// #region hidden
// ResolveHidden borrows each relative missing from lines out of the palace's
// base hexagram, attaching it to the same position. Categories are processed
// in hexagram.Relatives order and a later category overwrites an earlier one
// at the same position. It returns the number of positions attached.
func ResolveHidden(h *hexagram.Hexagram, lines *[6]hexagram.Line, rs *ruleset.RuleSet, self ganzhi.Element) (int, error) {
	present := map[hexagram.SixRelative]bool{}
	for _, l := range lines {
		if l.Relative != hexagram.RelativeNone {
			present[l.Relative] = true
		}
	}
	var missing []hexagram.SixRelative
	for _, r := range hexagram.Relatives {
		if !present[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	base, err := hexagram.BaseOf(h.Palace)
	if err != nil {
		return 0, err
	}
	baseLines := Map(base, rs)

	attached := map[int]bool{}
	for _, want := range missing {
		for i, bl := range baseLines {
			if Relative(self, bl.Element) != want {
				continue
			}
			lines[i].Hidden = &hexagram.HiddenSpirit{Stem: bl.Stem, Branch: bl.Branch, Relative: want}
			attached[i] = true
		}
	}
	return len(attached), nil
}

// #endregion hidden

// #region gods
// AssignSixGods rotates the rule set's god sequence across the lines in
// bottom-up order, starting from the god the day pillar selects.
func AssignSixGods(lines *[6]hexagram.Line, rs *ruleset.RuleSet, day ganzhi.Pillar) [6]hexagram.SixGod {
	seq := rs.SixGod.Sequence
	start := rs.StartGod(day)
	si := 0
	for i, g := range seq {
		if g == start {
			si = i
			break
		}
	}
	var out [6]hexagram.SixGod
	for i := range lines {
		b := hexagram.ToBottomIndex(i)
		out[i] = seq[((si-b)%6+6)%6]
		lines[i].God = out[i]
	}
	return out
}

// #endregion gods
