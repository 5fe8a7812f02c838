package tags

import (
	"fmt"

	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
)

// LineLabels names the lines in top-down order.
var LineLabels = [6]string{"上爻", "五爻", "四爻", "三爻", "二爻", "初爻"}

// #region engine
// lineCtx is what a detector sees for one line. variant is the zero Line
// unless the line is moving.
type lineCtx struct {
	in      *Input
	index   int
	line    hexagram.Line
	variant hexagram.Line
}

func (c lineCtx) moving() bool { return c.line.IsMoving }

func (c lineCtx) branch() ganzhi.Branch { return c.line.Branch }

func (c lineCtx) element() ganzhi.Element { return c.line.Element }

func (c lineCtx) hasBranch() bool { return c.line.Branch.Valid() }

func (c lineCtx) changedBranch() ganzhi.Branch { return c.variant.Branch }

func (c lineCtx) strength() ganzhi.Strength {
	return ganzhi.SeasonStrength(c.in.Date.Month.Branch, c.line.Element)
}

type detector struct {
	name string
	run  func(c lineCtx) []TagInfo
}

// lineDetectors run in this order for every line; a tag list keeps the order
// in which detectors found them.
var lineDetectors = []detector{
	{"position", detectPosition},
	{"world_response", detectWorldMarker},
	{"dark_moving", detectDarkMoving},
	{"month_break", detectMonthBreak},
	{"day_break", detectDayBreak},
	{"void", detectVoid},
	{"changsheng", detectChangsheng},
	{"advance_retreat", detectAdvanceRetreat},
	{"interactions", detectInteractions},
	{"compound", detectCompound},
	{"tomb", detectTomb},
	{"return", detectReturn},
	{"hidden", detectHidden},
	{"six_god", detectSixGod},
	{"six_relative", detectRelative},
	{"moving_static", detectMovingStatic},
	{"ghost_tomb", detectGhostTomb},
	{"echo", detectEcho},
}

// Calculate runs every detector over a fully annotated chart. Detectors
// skip any check whose inputs are missing.
func Calculate(in Input) Result {
	res := Result{Lines: make([]LineTags, 0, len(in.Lines))}

	res.Global = append(res.Global, hexagramType(&in)...)
	if t, ok := worldResponse(&in); ok {
		res.Global = append(res.Global, t)
		res.WorldResponse = t.Label
	}
	res.Global = append(res.Global, taiSui(&in)...)
	res.Global = append(res.Global, moonGeneral(&in)...)
	res.Global = append(res.Global, hexagramPattern(&in)...)
	res.Global = append(res.Global, spiritPlacements(&in)...)

	for i, l := range in.Lines {
		c := lineCtx{in: &in, index: i, line: l}
		if l.IsMoving {
			c.variant = in.Variant[i]
		}
		found := []TagInfo{}
		for _, d := range lineDetectors {
			found = append(found, d.run(c)...)
		}
		res.Lines = append(res.Lines, LineTags{
			Index:    i,
			Label:    LineLabels[i],
			Position: position(l, i),
			Branch:   l.Branch,
			IsMoving: l.IsMoving,
			Tags:     found,
		})
	}
	return res
}

func position(l hexagram.Line, i int) int {
	if l.Position > 0 {
		return l.Position
	}
	return i + 1
}

func tag(code, label string, cat Category, tone Tone, desc string) TagInfo {
	return TagInfo{Code: code, Label: label, Category: cat, Type: tone, Description: desc}
}

// #endregion engine

// #region position
func detectPosition(c lineCtx) []TagInfo {
	pos := position(c.line, c.index)
	out := []TagInfo{tag(fmt.Sprintf("YAO_POSITION_%d", pos), LineLabels[c.index], CategoryPosition, ToneNeutral,
		fmt.Sprintf("第%d爻，%s", pos, LineLabels[c.index]))}
	if c.index < 3 {
		out = append(out, tag("OUTER_TRIGRAM", "外卦", CategoryPosition, ToneNeutral, "爻位处于外卦，代表变化与结果"))
	} else {
		out = append(out, tag("INNER_TRIGRAM", "内卦", CategoryPosition, ToneNeutral, "爻位处于内卦，代表情境与基础"))
	}
	return out
}

func detectWorldMarker(c lineCtx) []TagInfo {
	h := c.in.Hexagram
	if h == nil {
		return nil
	}
	switch c.index {
	case h.WorldIndex:
		return []TagInfo{tag("WORLD", "世爻", CategoryPosition, ToneNeutral, "世爻，代表求测者自身")}
	case h.ResponseIndex:
		return []TagInfo{tag("RESPONSE", "应爻", CategoryPosition, ToneNeutral, "应爻，代表对方或所求之事")}
	}
	return nil
}

// #endregion position

// #region seasonal
func detectDarkMoving(c lineCtx) []TagInfo {
	if c.moving() || !c.hasBranch() || !c.branch().Clashes(c.in.Date.Day.Branch) {
		return nil
	}
	s := c.strength()
	if !s.Prosperous() {
		return nil
	}
	return []TagInfo{tag("DARK_MOVING", "暗动", CategoryDynamic, ToneBuff,
		fmt.Sprintf("静爻与日支相冲且处于%s状态，虽静实动", s))}
}

func detectMonthBreak(c lineCtx) []TagInfo {
	month := c.in.Date.Month.Branch
	if !c.hasBranch() || !c.branch().Clashes(month) {
		return nil
	}
	return []TagInfo{tag("MONTH_BREAK", "月破", CategorySeasonal, ToneDebuff,
		fmt.Sprintf("%s与月令%s相冲，爻象在本月受制", c.branch(), month))}
}

func detectDayBreak(c lineCtx) []TagInfo {
	if !c.hasBranch() || !c.branch().Clashes(c.in.Date.Day.Branch) {
		return nil
	}
	s := c.strength()
	if s == ganzhi.StrengthNone || s.Prosperous() {
		return nil
	}
	return []TagInfo{tag("DAY_BREAK", "日破", CategorySeasonal, ToneDebuff, fmt.Sprintf("日冲且%s", s))}
}

func detectVoid(c lineCtx) []TagInfo {
	if !c.in.Date.Void.Contains(c.branch()) {
		return nil
	}
	out := []TagInfo{tag("VOID", "空亡", CategorySeasonal, ToneNeutral, "爻落旬空，事象虚而难实")}
	if !c.branch().Clashes(c.in.Date.Day.Branch) {
		return out
	}
	if c.moving() {
		out = append(out, tag("VOID_FILLED", "空亡填实", CategorySeasonal, ToneBuff, "动爻空亡遇日冲，冲空则实"))
	} else {
		out = append(out, tag("CLASH_VOID_REAL_VOID", "冲空实空", CategorySeasonal, ToneDebuff, "静爻空亡遭日冲，空而更空"))
	}
	return out
}

var stageTones = map[ganzhi.Stage]Tone{
	ganzhi.StageChangsheng: ToneBuff,
	ganzhi.StageBing:       ToneDebuff,
	ganzhi.StageJue:        ToneDebuff,
}

var stageDescriptions = map[ganzhi.Stage]string{
	ganzhi.StageChangsheng: "五行处于长生，朝气初发",
	ganzhi.StageMuyu:       "五行处于沐浴，主变化，吉凶各半",
	ganzhi.StageGuandai:    "五行处于冠带，初具成就",
	ganzhi.StageLinguan:    "五行处于临官，权位显达",
	ganzhi.StageDiwang:     "五行处于帝旺，力量最盛",
	ganzhi.StageShuai:      "五行处于衰，能力渐退",
	ganzhi.StageBing:       "五行处于病，主困阻",
	ganzhi.StageSi:         "五行处于死，事象终结",
	ganzhi.StageMu:         "五行处于墓库，不易彰显",
	ganzhi.StageJue:        "五行处于绝，事象陷入绝境",
	ganzhi.StageTai:        "五行处于胎，事象酝酿",
	ganzhi.StageYang:       "五行处于养，蓄势待发",
}

func detectChangsheng(c lineCtx) []TagInfo {
	stage := ganzhi.StageOf(c.element(), c.branch())
	if stage == ganzhi.StageNone {
		return nil
	}
	tone, ok := stageTones[stage]
	if !ok {
		tone = ToneNeutral
	}
	return []TagInfo{tag("CHANGSHENG_"+stage.String(), stage.String(), CategorySeasonal, tone, stageDescriptions[stage])}
}

// #endregion seasonal

// #region mutation
func detectAdvanceRetreat(c lineCtx) []TagInfo {
	b, changed, e := c.branch(), c.changedBranch(), c.element()
	if !c.moving() || !b.Valid() || !changed.Valid() || !e.Valid() || c.variant.Element != e {
		return nil
	}
	advance := ganzhi.Advances(e, b, changed)
	if !advance && !ganzhi.Retreats(e, b, changed) {
		return nil
	}

	day, month := c.in.Date.Day.Branch, c.in.Date.Month.Branch
	dayE, monthE := day.Element(), month.Element()

	if advance {
		weakened := day.Clashes(b) || day.Clashes(changed) ||
			month.Clashes(b) || month.Clashes(changed) ||
			(dayE.Valid() && dayE.Overcomes() == e) ||
			(monthE.Valid() && monthE.Overcomes() == e) ||
			c.in.Date.Void.Contains(changed) ||
			ganzhi.TombOf(e) == changed
		if weakened {
			return []TagInfo{tag("ADVANCE_GOD_WEAK", "进神受克", CategoryMutation, ToneDebuff, "化进成立但受冲克、空亡或入墓")}
		}
		return []TagInfo{tag("ADVANCE_GOD", "进神", CategoryMutation, ToneBuff, "动爻化进，事象向前推进")}
	}

	supported := func(x ganzhi.Element) bool { return x.Valid() && (x == e || x.Generates() == e) }
	if supported(dayE) || supported(monthE) || changed == day || changed == month {
		return []TagInfo{tag("RETREAT_GOD_HOLD", "退神不退", CategoryMutation, ToneNeutral, "化退但得日月生扶或变爻临日月")}
	}
	return []TagInfo{tag("RETREAT_GOD", "退神", CategoryMutation, ToneDebuff, "动爻化退，事象后缩")}
}

func detectTomb(c lineCtx) []TagInfo {
	tomb := ganzhi.TombOf(c.element())
	if !c.hasBranch() || !tomb.Valid() {
		return nil
	}
	var out []TagInfo
	if c.branch() == tomb {
		out = append(out, tag("INTO_TOMB", "入墓", CategorySeasonal, ToneDebuff, fmt.Sprintf("%s入墓于%s", c.element(), tomb)))
	}
	switch {
	case c.moving() && c.changedBranch() == tomb:
		out = append(out, tag("TRANSFORM_TOMB", "化墓", CategoryMutation, ToneDebuff, "动爻化入墓库，事象被埋没"))
	case c.moving() && c.branch() == tomb:
		out = append(out, tag("OUT_TOMB", "出墓", CategoryMutation, ToneBuff, "墓中之爻发动而出"))
	}
	return out
}

func detectReturn(c lineCtx) []TagInfo {
	if !c.moving() || !c.changedBranch().Valid() {
		return nil
	}
	switch ganzhi.Relate(c.variant.Element, c.element()) {
	case ganzhi.RelationGenerates:
		return []TagInfo{tag("RETURN_BORN", "回头生", CategoryMutation, ToneBuff, "变爻回生本爻")}
	case ganzhi.RelationOvercomes:
		return []TagInfo{tag("RETURN_KILL", "回头克", CategoryMutation, ToneDebuff, "变爻回克本爻")}
	}
	return nil
}

func detectGhostTomb(c lineCtx) []TagInfo {
	if c.line.Relative != hexagram.RelativeOfficer || !c.moving() {
		return nil
	}
	tomb := ganzhi.TombOf(c.element())
	if !tomb.Valid() || c.changedBranch() != tomb {
		return nil
	}
	return []TagInfo{tag("GHOST_INTO_TOMB", "随鬼入墓", CategorySeasonal, ToneDebuff, "官鬼发动化入墓库")}
}

// detectEcho compares a moving line's branch with the branch it changes to.
func detectEcho(c lineCtx) []TagInfo {
	b, changed := c.branch(), c.changedBranch()
	if !c.moving() || !b.Valid() || !changed.Valid() {
		return nil
	}
	switch {
	case b.Clashes(changed):
		return []TagInfo{tag("CONTRARY_YIN", "反吟", CategoryMutation, ToneDebuff, "本爻与变爻相冲，事多反复")}
	case b == changed:
		return []TagInfo{tag("HIDDEN_YIN", "伏吟", CategoryMutation, ToneNeutral, "本爻与变爻相同，事多呻吟停滞")}
	}
	return nil
}

// #endregion mutation

// #region interaction
func detectInteractions(c lineCtx) []TagInfo {
	if !c.hasBranch() {
		return nil
	}
	b := c.branch()
	var out []TagInfo
	for j, other := range c.in.Lines {
		ob := other.Branch
		if j == c.index || !ob.Valid() {
			continue
		}
		switch {
		case b.Harmonizes(ob):
			out = append(out, tag(fmt.Sprintf("SIX_HARMONY_%d", j), "六合", CategoryInteraction, ToneBuff,
				fmt.Sprintf("与%s六合，两爻相合", LineLabels[j])))
		case b.Clashes(ob):
			out = append(out, tag(fmt.Sprintf("SIX_CLASH_%d", j), "六冲", CategoryInteraction, ToneNeutral,
				fmt.Sprintf("与%s六冲，事象易生变动", LineLabels[j])))
		case b.Punishes(ob):
			out = append(out, tag(fmt.Sprintf("TRIPLE_PUNISH_%d", j), "三刑", CategoryInteraction, ToneDebuff,
				fmt.Sprintf("与%s相刑，主刑伤诉讼", LineLabels[j])))
		case b.Harms(ob):
			out = append(out, tag(fmt.Sprintf("SIX_HARM_%d", j), "六害", CategoryInteraction, ToneDebuff,
				fmt.Sprintf("与%s六害，主暗损隐患", LineLabels[j])))
		}
	}

	day, month := c.in.Date.Day.Branch, c.in.Date.Month.Branch
	if c.moving() && day != month {
		if _, ok := ganzhi.CompleteTrinity(b, []ganzhi.Branch{day, month}); ok {
			out = append(out, tag("TRIPLE_HARMONY_FULL", "三合局", CategoryInteraction, ToneBuff, "动爻与日辰、月令三者齐全成局"))
		}
	}
	if b.Harmonizes(day) {
		out = append(out, tag("HARMONY_DAY", "与日支合", CategoryInteraction, ToneBuff, "爻与日支相合，得当日助力"))
	}
	if b.Clashes(day) {
		out = append(out, tag("CLASH_DAY", "与日支冲", CategoryInteraction, ToneNeutral, "爻与日支相冲，当日易生变数"))
	}
	if b.Harmonizes(month) {
		out = append(out, tag("HARMONY_MONTH", "与月令合", CategoryInteraction, ToneBuff, "爻与月令相合，得月令扶持"))
	}
	return out
}

// detectCompound finds three-line chains: a partner line this line
// harmonizes (or clashes) that is itself clashed (or harmonized) by a third.
func detectCompound(c lineCtx) []TagInfo {
	if !c.hasBranch() {
		return nil
	}
	b := c.branch()
	third := func(partner int, rel func(x, y ganzhi.Branch) bool) (int, bool) {
		pb := c.in.Lines[partner].Branch
		for k, l := range c.in.Lines {
			if k == partner || k == c.index || !l.Branch.Valid() {
				continue
			}
			if rel(pb, l.Branch) {
				return k, true
			}
		}
		return 0, false
	}
	clash := func(x, y ganzhi.Branch) bool { return x.Clashes(y) }
	harmony := func(x, y ganzhi.Branch) bool { return x.Harmonizes(y) }

	var out []TagInfo
	for j, other := range c.in.Lines {
		if j == c.index || !other.Branch.Valid() || !b.Harmonizes(other.Branch) {
			continue
		}
		if k, ok := third(j, clash); ok {
			out = append(out, tag("HARMONY_MEET_CLASH", "合处逢冲", CategoryInteraction, ToneDebuff,
				fmt.Sprintf("与%s相合，而%s冲之，合而不成", LineLabels[j], LineLabels[k])))
			break
		}
	}
	for j, other := range c.in.Lines {
		if j == c.index || !other.Branch.Valid() || !b.Clashes(other.Branch) {
			continue
		}
		if k, ok := third(j, harmony); ok {
			out = append(out, tag("CLASH_MEET_HARMONY", "冲处逢合", CategoryInteraction, ToneBuff,
				fmt.Sprintf("与%s相冲，而%s合之，冲反成合", LineLabels[j], LineLabels[k])))
			break
		}
	}
	return out
}

func detectMovingStatic(c lineCtx) []TagInfo {
	if !c.moving() || !c.element().Valid() {
		return nil
	}
	var out []TagInfo
	for j, other := range c.in.Lines {
		if j == c.index || other.IsMoving {
			continue
		}
		switch ganzhi.Relate(c.element(), other.Element) {
		case ganzhi.RelationGenerates:
			out = append(out, tag(fmt.Sprintf("MOVING_GENERATE_STATIC_%d", j), "动爻生"+LineLabels[j], CategoryInteraction, ToneBuff,
				fmt.Sprintf("动爻五行生%s，有扶持之力", LineLabels[j])))
		case ganzhi.RelationOvercomes:
			out = append(out, tag(fmt.Sprintf("MOVING_OVERCOME_STATIC_%d", j), "动爻克"+LineLabels[j], CategoryInteraction, ToneDebuff,
				fmt.Sprintf("动爻五行克%s，有制约之力", LineLabels[j])))
		}
	}
	return out
}

// #endregion interaction

// #region spiritual
// detectHidden reads the hidden spirit under a line, if any; the line itself
// is its flying spirit.
func detectHidden(c lineCtx) []TagInfo {
	h := c.line.Hidden
	if h == nil || !h.Branch.Valid() {
		return nil
	}
	day, month := c.in.Date.Day.Branch, c.in.Date.Month.Branch
	he := h.Branch.Element()

	var out []TagInfo
	if h.Branch == day {
		out = append(out, tag("HIDDEN_ON_DAY", "伏神临日", CategorySpiritual, ToneBuff, "伏神临日支，隐事得日激发"))
	}
	if h.Branch == month {
		out = append(out, tag("HIDDEN_ON_MONTH", "伏神临月", CategorySpiritual, ToneBuff, "伏神临月建，隐事得月扶持"))
	}
	if s := ganzhi.SeasonStrength(month, he); s.Prosperous() {
		out = append(out, tag("HIDDEN_HAS_QI", "伏神有气", CategorySpiritual, ToneBuff, fmt.Sprintf("伏神%s，隐事可成", s)))
	}

	switch ganzhi.Relate(c.element(), he) {
	case ganzhi.RelationGenerates:
		out = append(out, tag("FLYING_GENERATE_HIDDEN", "飞来生伏", CategorySpiritual, ToneBuff, "飞神生伏神，伏神得长生"))
	case ganzhi.RelationOvercomes:
		out = append(out, tag("FLYING_OVERCOME_HIDDEN", "飞来克伏", CategorySpiritual, ToneDebuff, "飞神克伏神，伏神受制难出"))
	case ganzhi.RelationGeneratedBy:
		out = append(out, tag("HIDDEN_GENERATE_FLYING", "伏去生飞", CategorySpiritual, ToneDebuff, "伏神生飞神，泄气"))
	case ganzhi.RelationOvercomeBy:
		out = append(out, tag("HIDDEN_OVERCOME_FLYING", "伏去克飞", CategorySpiritual, ToneNeutral, "伏神克飞神，可以出现"))
	}
	return out
}

func detectSixGod(c lineCtx) []TagInfo {
	g := c.line.God
	if g == hexagram.GodNone {
		return nil
	}
	out := []TagInfo{tag("SIXGOD_"+g.String(), "六神："+g.String(), CategorySpiritual, ToneNeutral,
		fmt.Sprintf("%s临此爻", g))}
	switch ganzhi.Relate(g.Element(), c.element()) {
	case ganzhi.RelationGenerates:
		out = append(out, tag("SIXGOD_SUPPORT", "六神生爻", CategorySpiritual, ToneBuff, fmt.Sprintf("%s之%s生爻之%s", g, g.Element(), c.element())))
	case ganzhi.RelationOvercomes:
		out = append(out, tag("SIXGOD_SUPPRESS", "六神克爻", CategorySpiritual, ToneDebuff, fmt.Sprintf("%s之%s克爻之%s", g, g.Element(), c.element())))
	}
	return out
}

func detectRelative(c lineCtx) []TagInfo {
	r := c.line.Relative
	if r == hexagram.RelativeNone {
		return nil
	}
	return []TagInfo{tag("SIX_RELATIVE_"+r.Short(), "六亲："+r.Short(), CategorySpiritual, ToneNeutral,
		fmt.Sprintf("此爻为%s", r))}
}

// #endregion spiritual

// #region global
func hexagramType(in *Input) []TagInfo {
	if in.Hexagram == nil {
		return nil
	}
	switch in.Hexagram.Category {
	case hexagram.CategoryWandering:
		return []TagInfo{tag("GHOST_HEX", "游魂卦", CategoryPosition, ToneNeutral, "游魂卦，主心神不定、游移在外")}
	case hexagram.CategoryReturning:
		return []TagInfo{tag("RETURNING_HEX", "归魂卦", CategoryPosition, ToneNeutral, "归魂卦，主回归、落定")}
	}
	return nil
}

// worldResponse relates the world line's element to the response line's.
func worldResponse(in *Input) (TagInfo, bool) {
	h := in.Hexagram
	if h == nil || h.WorldIndex < 0 || h.WorldIndex > 5 || h.ResponseIndex < 0 || h.ResponseIndex > 5 {
		return TagInfo{}, false
	}
	w, r := in.Lines[h.WorldIndex].Element, in.Lines[h.ResponseIndex].Element

	var label string
	var tone Tone
	switch ganzhi.Relate(w, r) {
	case ganzhi.RelationSame:
		label, tone = "比和", ToneNeutral
	case ganzhi.RelationGenerates:
		label, tone = "世生应", ToneNeutral
	case ganzhi.RelationGeneratedBy:
		label, tone = "应生世", ToneBuff
	case ganzhi.RelationOvercomes:
		label, tone = "世克应", ToneBuff
	case ganzhi.RelationOvercomeBy:
		label, tone = "应克世", ToneDebuff
	default:
		return TagInfo{}, false
	}
	return tag("WORLD_APPLY_RELATION", label, CategoryPosition, tone,
		fmt.Sprintf("世爻%s，应爻%s", w, r)), true
}

func taiSui(in *Input) []TagInfo {
	year := in.Date.Year.Branch
	if !year.Valid() {
		return nil
	}
	var out []TagInfo
	for i, l := range in.Lines {
		if l.Branch == year {
			out = append(out, tag("TAI_SUI", "太岁", CategorySpiritual, ToneDebuff,
				fmt.Sprintf("%s临太岁%s，主权威与制约", LineLabels[i], year)))
			break
		}
	}
	for i, l := range in.Lines {
		if l.Branch.Clashes(year) {
			out = append(out, tag("TAI_SUI_CLASH", "冲太岁", CategorySpiritual, ToneDebuff,
				fmt.Sprintf("%s冲太岁%s，主与上位相抗", LineLabels[i], year)))
			break
		}
	}
	return out
}

func moonGeneral(in *Input) []TagInfo {
	month := in.Date.Month.Branch
	if !month.Valid() {
		return nil
	}
	return []TagInfo{tag("MOON_GENERAL", "月将："+month.String(), CategorySpiritual, ToneNeutral,
		fmt.Sprintf("月建%s为本月提纲", month))}
}

// hexagramPattern checks the inner and outer trigrams line for line: all
// three pairs clashing is a six-clash hexagram, all harmonizing a
// six-harmony one.
func hexagramPattern(in *Input) []TagInfo {
	clash, harmony := true, true
	for outer := 0; outer < 3; outer++ {
		a, b := in.Lines[outer].Branch, in.Lines[outer+3].Branch
		if !a.Valid() || !b.Valid() {
			return nil
		}
		clash = clash && a.Clashes(b)
		harmony = harmony && a.Harmonizes(b)
	}
	switch {
	case clash:
		return []TagInfo{tag("SIX_CLASH_HEX", "六冲卦", CategoryInteraction, ToneNeutral, "内外卦爻爻相冲，事主散、主速变")}
	case harmony:
		return []TagInfo{tag("SIX_HARMONY_HEX", "六合卦", CategoryInteraction, ToneBuff, "内外卦爻爻相合，事主聚、主成")}
	}
	return nil
}

func spiritPlacements(in *Input) []TagInfo {
	var out []TagInfo
	for i, l := range in.Lines {
		if !l.Branch.Valid() {
			continue
		}
		for _, p := range in.Date.Placements {
			if !p.Has(l.Branch) {
				continue
			}
			info := p.Spirit.Info()
			out = append(out, tag(fmt.Sprintf("%s_%d", info.Code, i), info.Label, CategorySpiritual, Tone(info.Tone), info.Description))
		}
	}
	return out
}

// #endregion global
