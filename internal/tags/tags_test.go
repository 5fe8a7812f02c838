package tags

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
	"github.com/danielpatrickdp/liuyao-engine/internal/najia"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

func pillar(t *testing.T, s string) ganzhi.Pillar {
	t.Helper()
	p, err := ganzhi.ParsePillar(s)
	require.NoError(t, err)
	return p
}

func branch(t *testing.T, s string) ganzhi.Branch {
	t.Helper()
	b, err := ganzhi.ParseBranch(s)
	require.NoError(t, err)
	return b
}

func lineOf(b ganzhi.Branch, moving bool) hexagram.Line {
	return hexagram.Line{IsMoving: moving, Branch: b, Element: b.Element()}
}

// staticInput builds a chart of static lines from six branch labels.
func staticInput(t *testing.T, branches string, day, month, year string) Input {
	t.Helper()
	runes := []rune(branches)
	require.Len(t, runes, 6)
	in := Input{Date: Date{Day: pillar(t, day), Month: pillar(t, month), Year: pillar(t, year)}}
	in.Date.Void = ganzhi.VoidBranches(in.Date.Day)
	for i, r := range runes {
		in.Lines[i] = lineOf(branch(t, string(r)), false)
		in.Lines[i].Position = i + 1
	}
	return in
}

func move(in *Input, i int, to ganzhi.Branch) {
	in.Lines[i].IsMoving = true
	in.Variant[i] = lineOf(to, false)
}

func codes(ts []TagInfo) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Code
	}
	return out
}

func find(ts []TagInfo, code string) (TagInfo, bool) {
	for _, t := range ts {
		if t.Code == code {
			return t, true
		}
	}
	return TagInfo{}, false
}

func TestPositionTagsLeadEveryLine(t *testing.T) {
	in := staticInput(t, "子巳寅卯辰未", "甲午", "丁亥", "甲辰")
	res := Calculate(in)
	require.Len(t, res.Lines, 6)
	for i, lt := range res.Lines {
		require.GreaterOrEqual(t, len(lt.Tags), 2)
		assert.Equal(t, fmt.Sprintf("YAO_POSITION_%d", i+1), lt.Tags[0].Code)
		assert.Equal(t, LineLabels[i], lt.Label)
		want := "INNER_TRIGRAM"
		if i < 3 {
			want = "OUTER_TRIGRAM"
		}
		assert.Equal(t, want, lt.Tags[1].Code, "line %d", i)
	}
}

func TestDarkMovingAndBreaks(t *testing.T) {
	// 子 water in a 亥 month is prosperous, so the 午 day clash wakes it
	in := staticInput(t, "子巳寅卯辰未", "甲午", "丁亥", "甲辰")
	res := Calculate(in)
	line0 := codes(res.Lines[0].Tags)
	assert.Contains(t, line0, "DARK_MOVING")
	assert.Contains(t, line0, "CLASH_DAY")
	assert.NotContains(t, line0, "DAY_BREAK")
	assert.Contains(t, codes(res.Lines[1].Tags), "MONTH_BREAK", "巳 against a 亥 month")

	// in a 午 month water is confined, so the same clash breaks it
	in = staticInput(t, "子巳寅卯辰未", "甲午", "丙午", "甲辰")
	res = Calculate(in)
	line0 = codes(res.Lines[0].Tags)
	assert.Contains(t, line0, "DAY_BREAK")
	assert.NotContains(t, line0, "DARK_MOVING")
}

func TestVoidVariants(t *testing.T) {
	in := staticInput(t, "戌戌子子子子", "戊辰", "丙寅", "甲辰")
	assert.Equal(t, ganzhi.Void{ganzhi.BranchXu, ganzhi.BranchHai}, in.Date.Void)
	move(&in, 0, ganzhi.BranchXu)

	res := Calculate(in)
	moving := codes(res.Lines[0].Tags)
	assert.Contains(t, moving, "VOID")
	assert.Contains(t, moving, "VOID_FILLED")
	assert.NotContains(t, moving, "CLASH_VOID_REAL_VOID")

	static := codes(res.Lines[1].Tags)
	assert.Contains(t, static, "VOID")
	assert.Contains(t, static, "CLASH_VOID_REAL_VOID")
	assert.NotContains(t, static, "VOID_FILLED")

	assert.NotContains(t, codes(res.Lines[2].Tags), "VOID")
}

func TestAdvanceAndRetreat(t *testing.T) {
	cases := []struct {
		name       string
		day, month string
		advance    string
		retreat    string
	}{
		{"day water supports", "甲子", "丙子", "ADVANCE_GOD", "RETREAT_GOD_HOLD"},
		{"day metal clashes", "庚申", "壬午", "ADVANCE_GOD_WEAK", "RETREAT_GOD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := staticInput(t, "寅卯子子子子", tc.day, tc.month, "甲辰")
			move(&in, 0, ganzhi.BranchMao)
			move(&in, 1, ganzhi.BranchYin)
			res := Calculate(in)
			assert.Contains(t, codes(res.Lines[0].Tags), tc.advance)
			assert.Contains(t, codes(res.Lines[1].Tags), tc.retreat)
		})
	}
}

func TestLineInteractions(t *testing.T) {
	in := staticInput(t, "子丑午卯未戌", "丙寅", "戊辰", "甲辰")
	in.Lines[0].God = hexagram.GodBaiHu
	in.Lines[0].Relative = hexagram.RelativeSibling

	got := codes(Calculate(in).Lines[0].Tags)
	for _, want := range []string{
		"SIX_HARMONY_1", "SIX_CLASH_2", "TRIPLE_PUNISH_3", "SIX_HARM_4",
		"HARMONY_MEET_CLASH", "CLASH_MEET_HARMONY",
		"SIXGOD_白虎", "SIXGOD_SUPPORT", "SIX_RELATIVE_兄",
	} {
		assert.Contains(t, got, want)
	}
	for _, c := range got {
		assert.NotRegexp(t, `_5$`, c, "子 has no relation with 戌")
	}
}

func TestTripleHarmonyWithDayAndMonth(t *testing.T) {
	in := staticInput(t, "子卯卯卯卯卯", "庚申", "戊辰", "甲辰")
	in.Lines[0].IsMoving = true
	res := Calculate(in)
	assert.Contains(t, codes(res.Lines[0].Tags), "TRIPLE_HARMONY_FULL")

	in.Lines[0].IsMoving = false
	res = Calculate(in)
	assert.NotContains(t, codes(res.Lines[0].Tags), "TRIPLE_HARMONY_FULL", "static lines never form the frame")
}

func TestTombReturnAndEcho(t *testing.T) {
	in := staticInput(t, "子辰午寅寅寅", "甲子", "丙寅", "甲辰")
	in.Lines[0].Relative = hexagram.RelativeOfficer
	move(&in, 0, ganzhi.BranchChen)
	move(&in, 1, ganzhi.BranchXu)
	move(&in, 2, ganzhi.BranchWu)

	res := Calculate(in)
	line0 := codes(res.Lines[0].Tags)
	assert.Contains(t, line0, "TRANSFORM_TOMB")
	assert.Contains(t, line0, "GHOST_INTO_TOMB")
	assert.Contains(t, line0, "RETURN_KILL")

	line1 := codes(res.Lines[1].Tags)
	assert.Contains(t, line1, "INTO_TOMB")
	assert.Contains(t, line1, "OUT_TOMB")
	assert.Contains(t, line1, "CONTRARY_YIN")

	assert.Contains(t, codes(res.Lines[2].Tags), "HIDDEN_YIN")
	assert.NotContains(t, codes(res.Lines[3].Tags), "HIDDEN_YIN", "static lines have no echo")
}

func TestHiddenSpirit(t *testing.T) {
	in := staticInput(t, "午子子子子子", "己酉", "庚申", "甲辰")
	in.Lines[0].Hidden = &hexagram.HiddenSpirit{Stem: ganzhi.StemXin, Branch: ganzhi.BranchYou, Relative: hexagram.RelativeWealth}

	got := codes(Calculate(in).Lines[0].Tags)
	assert.Contains(t, got, "HIDDEN_ON_DAY")
	assert.Contains(t, got, "HIDDEN_HAS_QI")
	assert.Contains(t, got, "FLYING_OVERCOME_HIDDEN")
	assert.NotContains(t, got, "HIDDEN_ON_MONTH")
}

func TestGlobalTagsOnQian(t *testing.T) {
	reg, err := ruleset.Default()
	require.NoError(t, err)
	rs, err := reg.Lookup("jingfang-basic")
	require.NoError(t, err)
	h, err := hexagram.FromCode("111111")
	require.NoError(t, err)

	in := Input{Hexagram: h, Lines: najia.Map(h, rs)}
	in.Date = Date{Year: pillar(t, "甲戌"), Month: pillar(t, "丙寅"), Day: pillar(t, "甲子")}
	in.Date.Void = ganzhi.VoidBranches(in.Date.Day)
	in.Date.Placements = []ganzhi.Placement{{Spirit: ganzhi.SpiritYiMa, Branches: []ganzhi.Branch{ganzhi.BranchYin}}}

	res := Calculate(in)
	global := codes(res.Global)
	for _, want := range []string{"WORLD_APPLY_RELATION", "TAI_SUI", "TAI_SUI_CLASH", "MOON_GENERAL", "SIX_CLASH_HEX", "YI_MA_4"} {
		assert.Contains(t, global, want)
	}
	assert.NotContains(t, global, "GHOST_HEX")
	assert.Equal(t, "比和", res.WorldResponse)

	moon, ok := find(res.Global, "MOON_GENERAL")
	require.True(t, ok)
	assert.Equal(t, "月将：寅", moon.Label)
	yima, _ := find(res.Global, "YI_MA_4")
	assert.Equal(t, "驿马", yima.Label)
	assert.Equal(t, ToneNeutral, yima.Type)

	assert.Contains(t, codes(res.Lines[h.WorldIndex].Tags), "WORLD")
	assert.Contains(t, codes(res.Lines[h.ResponseIndex].Tags), "RESPONSE")
}

func TestWanderingAndReturningSouls(t *testing.T) {
	want := map[hexagram.Category]string{
		hexagram.CategoryWandering: "GHOST_HEX",
		hexagram.CategoryReturning: "RETURNING_HEX",
	}
	for _, row := range hexagram.Rows() {
		code, ok := want[row.Category]
		if !ok {
			continue
		}
		h, err := hexagram.FromCode(row.Code)
		require.NoError(t, err)
		res := Calculate(Input{Hexagram: h})
		assert.Contains(t, codes(res.Global), code, row.Name)
		assert.Empty(t, res.WorldResponse, "bare lines have no elements")
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	in := staticInput(t, "子丑午卯未戌", "丙寅", "戊辰", "甲辰")
	move(&in, 2, ganzhi.BranchWei)
	first := Calculate(in)
	second := Calculate(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}

	data, err := json.Marshal(first)
	require.NoError(t, err)
	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(first, back); diff != "" {
		t.Fatalf("json round trip (-want +got):\n%s", diff)
	}
}
