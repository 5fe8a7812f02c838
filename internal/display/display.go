package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/energy"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
	"github.com/danielpatrickdp/liuyao-engine/internal/tags"
)

// Columns are the line table headings, left to right.
var Columns = []string{"六神", "六亲", "干支", "卦", "动", "世应", "伏神", "变爻", "分数"}

const (
	glyphYang = "━━━━━"
	glyphYin  = "━━ ━━"
)

// #region render
// Render draws the chart header and one row per line, top line first.
func Render(res *chart.Result, s Styles) string {
	var sb strings.Builder
	sb.WriteString(header(res, s))
	sb.WriteString("\n")

	rows := make([][]string, 6)
	styles := make([]lipgloss.Style, 6)
	variant := res.VariantLines()
	for i, l := range res.Hexagram.Lines {
		var e *energy.Result
		if i < len(res.Energy) {
			e = &res.Energy[i]
		}
		rows[i] = lineRow(res.Hexagram, i, l, variant[i], e)
		styles[i] = s.Body
		if l.IsMoving {
			styles[i] = s.Moving
		}
	}
	sb.WriteString(table(Columns, rows, styles, s))
	return sb.String()
}

func header(res *chart.Result, s Styles) string {
	h := res.Hexagram
	var sb strings.Builder
	sb.WriteString(s.Title.Render(h.Name))
	sb.WriteString(" ")
	sb.WriteString(s.Body.Render(fmt.Sprintf("%s宫 %s", h.Palace, h.Category)))
	if res.Variant != nil {
		sb.WriteString(s.Muted.Render(" 变 "))
		sb.WriteString(s.Body.Render(res.Variant.Name))
	}
	if res.Mutual != nil {
		sb.WriteString(s.Muted.Render(" 互 "))
		sb.WriteString(s.Body.Render(res.Mutual.Name))
	}
	sb.WriteString("\n")

	d := res.Date
	var parts []string
	for _, p := range []struct {
		pillar ganzhi.Pillar
		unit   string
	}{{d.Year, "年"}, {d.Month, "月"}, {d.Day, "日"}, {d.Hour, "时"}} {
		if !p.pillar.IsZero() {
			parts = append(parts, p.pillar.String()+p.unit)
		}
	}
	sb.WriteString(s.Muted.Render(strings.Join(parts, " ")))
	sb.WriteString(s.Muted.Render(fmt.Sprintf("  旬空 %s%s", res.Void[0], res.Void[1])))
	sb.WriteString("\n")
	return sb.String()
}

func lineRow(h *hexagram.Hexagram, i int, l, v hexagram.Line, e *energy.Result) []string {
	glyph := glyphYin
	if l.IsYang {
		glyph = glyphYang
	}
	mark := ""
	if l.IsMoving {
		mark = "×"
		if l.IsYang {
			mark = "○"
		}
	}
	wr := ""
	switch i {
	case h.WorldIndex:
		wr = "世"
	case h.ResponseIndex:
		wr = "应"
	}
	hidden := ""
	if l.Hidden != nil {
		hidden = l.Hidden.Relative.String() + l.Hidden.Stem.String() + l.Hidden.Branch.String()
	}
	changed := ""
	if l.IsMoving {
		changed = v.Relative.String() + v.Stem.String() + v.Branch.String() + v.Element.String()
	}
	score := ""
	if e != nil {
		score = fmt.Sprintf("%d %s", e.FinalScore, e.Tier)
	}
	return []string{
		l.God.String(),
		l.Relative.String(),
		l.Stem.String() + l.Branch.String() + l.Element.String(),
		glyph,
		mark,
		wr,
		hidden,
		changed,
		score,
	}
}

// table pads every column to its widest cell. lipgloss.Width counts CJK
// characters as two cells.
func table(headers []string, rows [][]string, rowStyles []lipgloss.Style, s Styles) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, st lipgloss.Style) {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = st.Width(widths[i] + 1).Render(c)
		}
		sb.WriteString(strings.TrimRight(strings.Join(out, " "), " "))
		sb.WriteString("\n")
	}
	writeRow(headers, s.Header)
	for i, row := range rows {
		writeRow(row, rowStyles[i])
	}
	return sb.String()
}

// #endregion render

// #region tags
// RenderTags lists the chart-wide tags and then each line's tags, coloured by
// tone.
func RenderTags(res *chart.Result, s Styles) string {
	var sb strings.Builder
	if len(res.Tags.Global) > 0 {
		sb.WriteString(s.Header.Render("全局"))
		sb.WriteString(" ")
		sb.WriteString(tagList(res.Tags.Global, s))
		sb.WriteString("\n")
	}
	for _, lt := range res.Tags.Lines {
		list := lt.Tags
		if lt.Index < len(res.Energy) {
			list = append(append([]tags.TagInfo{}, list...), res.Energy[lt.Index].Tags...)
		}
		if len(list) == 0 {
			continue
		}
		sb.WriteString(s.Header.Render(lt.Label))
		sb.WriteString(" ")
		sb.WriteString(tagList(list, s))
		sb.WriteString("\n")
	}
	return sb.String()
}

func tagList(ts []tags.TagInfo, s Styles) string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		st := s.Body
		switch t.Type {
		case tags.ToneBuff:
			st = s.Buff
		case tags.ToneDebuff:
			st = s.Debuff
		}
		out = append(out, st.Render(t.Label))
	}
	return strings.Join(out, s.Muted.Render("、"))
}

// #endregion tags
