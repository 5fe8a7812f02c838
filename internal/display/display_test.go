package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

func compute(t *testing.T, lines string) *chart.Result {
	t.Helper()
	reg, err := ruleset.Default()
	require.NoError(t, err)
	parsed, err := chart.ParseLines(lines)
	require.NoError(t, err)
	p := func(s string) ganzhi.Pillar {
		v, err := ganzhi.ParsePillar(s)
		require.NoError(t, err)
		return v
	}
	res, err := chart.NewEngine(reg, chart.DefaultConfig(), nil).Compute(chart.Input{
		Lines:      parsed,
		RuleSetKey: ruleset.DefaultKey,
		Date:       chart.Date{Year: p("甲辰"), Month: p("丙寅"), Day: p("甲子")},
	})
	require.NoError(t, err)
	return res
}

func TestRenderMovingChart(t *testing.T) {
	res := compute(t, "7,7,8,6,9,8")
	out := Render(res, PlainStyles())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2+1+6, "two header lines, column headings, six rows")
	assert.Contains(t, lines[0], "风水涣")
	assert.Contains(t, lines[0], "离宫 五世")
	assert.Contains(t, lines[0], "变 风山渐")
	assert.Contains(t, lines[0], "互 山雷颐")
	assert.Contains(t, lines[1], "甲辰年 丙寅月 甲子日")
	assert.Contains(t, lines[1], "旬空 戌亥")
	assert.NotContains(t, lines[1], "时", "hour was not given")

	for _, c := range Columns {
		assert.Contains(t, lines[2], c)
	}

	rows := lines[3:]
	assert.Contains(t, rows[3], "×", "old yin")
	assert.Contains(t, rows[4], "○", "old yang")
	assert.Contains(t, rows[res.Hexagram.WorldIndex], "世")
	assert.Contains(t, rows[res.Hexagram.ResponseIndex], "应")
	for i, l := range res.Hexagram.Lines {
		assert.Contains(t, rows[i], l.God.String())
		assert.Contains(t, rows[i], l.Stem.String()+l.Branch.String())
		if l.Hidden != nil {
			assert.Contains(t, rows[i], l.Hidden.Relative.String()+l.Hidden.Stem.String()+l.Hidden.Branch.String())
		}
		glyph := glyphYin
		if l.IsYang {
			glyph = glyphYang
		}
		assert.Contains(t, rows[i], glyph)
	}
}

func TestRenderStaticChart(t *testing.T) {
	res := compute(t, "7,7,7,7,7,7")
	out := Render(res, PlainStyles())
	assert.Contains(t, out, "乾为天")
	assert.NotContains(t, out, " 变 ")
	assert.NotContains(t, out, "○")
	assert.NotContains(t, out, "×")
}

func TestRenderTags(t *testing.T) {
	res := compute(t, "7,7,7,7,7,7")
	out := RenderTags(res, PlainStyles())
	assert.True(t, strings.HasPrefix(out, "全局 "))
	assert.Contains(t, out, "六冲卦")
	for _, lt := range res.Tags.Lines {
		assert.Contains(t, out, lt.Label)
	}
}

func TestDefaultStylesRender(t *testing.T) {
	res := compute(t, "7,7,8,6,9,8")
	assert.Contains(t, Render(res, DefaultStyles()), "风水涣")
}
