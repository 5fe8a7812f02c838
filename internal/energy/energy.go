// Package energy scores each line through five ordered steps. Any step may
// terminate the pipeline; every rule that fires is written to the audit log.
package energy

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/tags"
)

// #region calculator
// Calculator runs the scoring pipeline. It holds no per-call state.
type Calculator struct {
	config Config
	logger *zap.Logger
}

// NewCalculator creates a calculator. A nil logger disables logging.
func NewCalculator(config Config, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{config: config, logger: logger}
}

// Config returns the calculator's constants.
func (c *Calculator) Config() Config { return c.config }

type stepInput struct {
	line   LineInput
	others []ganzhi.Branch
	date   Date
}

type namedStep struct {
	name string
	run  func(stepInput, State) StepResult
}

func (c *Calculator) pipeline() []namedStep {
	return []namedStep{
		{"seasonality", c.seasonality},
		{"day_authority", c.dayAuthority},
		{"mutation", c.mutation},
		{"override", c.override},
		{"final_filter", c.finalFilter},
	}
}

// Analyze scores every line. Interaction tags against the other lines and
// the day and month follow the pipeline tags.
func (c *Calculator) Analyze(lines []LineInput, date Date) []Result {
	out := make([]Result, 0, len(lines))
	for i, l := range lines {
		others := make([]ganzhi.Branch, 0, len(lines))
		for j, o := range lines {
			if j != i && o.Branch.Valid() {
				others = append(others, o.Branch)
			}
		}
		r := c.Score(l, others, date)
		r.Tags = append(r.Tags, interactionTags(l, lines, i, date)...)
		out = append(out, r)
	}
	return out
}

// Score runs the pipeline for one line. others are the branches of the rest
// of the hexagram.
func (c *Calculator) Score(line LineInput, others []ganzhi.Branch, date Date) Result {
	in := stepInput{line: line, others: others, date: date}
	res := Result{Position: line.Position}

	var st State
	for i, s := range c.pipeline() {
		r := s.run(in, st)
		st = r.State
		if i == 0 {
			res.BaseScore = st.Score
		}
		if r.Outcome == Terminated {
			res.TerminatedBy = s.name
			c.logger.Debug("energy pipeline terminated",
				zap.Int("position", line.Position),
				zap.String("step", s.name),
				zap.Int("score", st.Score),
			)
			break
		}
	}

	res.FinalScore = c.clamp(st.Score)
	res.Tier = st.Tier
	if res.Tier == "" {
		res.Tier = c.TierFor(res.FinalScore)
	}
	res.Tags = st.Tags
	res.AuditLog = st.Log
	if res.Tags == nil {
		res.Tags = []tags.TagInfo{}
	}
	if res.AuditLog == nil {
		res.AuditLog = []string{}
	}
	return res
}

// TierFor maps a score to its tier.
func (c *Calculator) TierFor(score int) Tier {
	for _, t := range c.config.Tiers {
		if score >= t.Min {
			return t.Tier
		}
	}
	return TierF
}

func (c *Calculator) clamp(score int) int {
	return max(0, min(c.config.MaxScore, score))
}

// #endregion calculator

// #region steps
// seasonality rates the line against the month. A month clash ends the
// pipeline at zero.
func (c *Calculator) seasonality(in stepInput, st State) StepResult {
	l, month := in.line, in.date.Month
	if l.Branch.Clashes(month) {
		st.Score, st.Tier = 0, TierF
		st.add(tagMonthBreak, "月破：%s冲月建%s，分数清零", l.Branch, month)
		return stop(st)
	}

	switch ganzhi.Relate(l.Element, month.Element()) {
	case ganzhi.RelationSame:
		st.Score = c.config.SeasonSame
		st.note("月建同五行，%d分", st.Score)
	case ganzhi.RelationGeneratedBy:
		st.Score = c.config.SeasonGeneratedBy
		st.note("月生爻，%d分", st.Score)
	case ganzhi.RelationGenerates:
		st.Score = c.config.SeasonGenerates
		st.note("爻生月，%d分", st.Score)
	case ganzhi.RelationOvercomes:
		st.Score = c.config.SeasonOvercomes
		st.note("爻克月，%d分", st.Score)
	case ganzhi.RelationOvercomeBy:
		st.Score = c.config.SeasonOvercomeBy
		st.note("月克爻，%d分", st.Score)
	default:
		st.Score = c.config.SeasonDefault
		st.note("无月建关系，%d分", st.Score)
	}

	if !l.IsMoving {
		if s := ganzhi.SeasonStrength(month, l.Element); s != ganzhi.StrengthNone {
			d := c.config.StaticStrengthDelta[s]
			st.Score += d
			st.note("静爻四时旺衰：%s%+d分", s, d)
		}
	}
	return cont(st)
}

// dayAuthority applies the day branch: a clash activates a strong line and
// breaks a weak one.
func (c *Calculator) dayAuthority(in stepInput, st State) StepResult {
	l, day := in.line, in.date.Day
	if l.Branch.Clashes(day) {
		if st.Score >= c.config.DarkActivationMin {
			st.Score += c.config.DarkActivationBonus
			st.add(tagDarkActivation, "日冲旺相之爻，暗动，%+d分", c.config.DarkActivationBonus)
		} else {
			st.Score, st.Tier = 0, TierF
			st.add(tagDayBreak, "日冲休囚之爻，日破，分数清零")
			return stop(st)
		}
	}
	if l.Branch.Harmonizes(day) {
		st.add(tagDayCombine, "日合：被日辰合住，分数不变")
	}
	switch ganzhi.Relate(day.Element(), l.Element) {
	case ganzhi.RelationGenerates:
		st.Score += c.config.DayElementDelta
		st.note("日生爻，%+d分", c.config.DayElementDelta)
	case ganzhi.RelationOvercomes:
		st.Score -= c.config.DayElementDelta
		st.note("日克爻，%+d分", -c.config.DayElementDelta)
	}
	return cont(st)
}

// mutation looks at what a moving line changes into.
func (c *Calculator) mutation(in stepInput, st State) StepResult {
	l := in.line
	if !l.IsMoving || !l.ChangedBranch.Valid() || !l.ChangedElement.Valid() {
		return cont(st)
	}

	switch ganzhi.Relate(l.ChangedElement, l.Element) {
	case ganzhi.RelationGenerates:
		st.Score += c.config.ReturnGenerationBonus
		st.add(tagReturnGeneration, "变爻生本爻，回头生，%+d分", c.config.ReturnGenerationBonus)
	case ganzhi.RelationOvercomes:
		st.Score, st.Tier = 0, TierF
		st.add(tagReturnOvercome, "变爻克本爻，回头克，分数清零")
		return stop(st)
	case ganzhi.RelationSame:
		switch {
		case ganzhi.Advances(l.Element, l.Branch, l.ChangedBranch):
			st.Score = int(math.Round(float64(st.Score) * c.config.AdvanceFactor))
			st.add(tagAdvance, "%s化%s，化进神，分数×%.1f", l.Branch, l.ChangedBranch, c.config.AdvanceFactor)
		case ganzhi.Retreats(l.Element, l.Branch, l.ChangedBranch):
			st.Score = int(math.Round(float64(st.Score) * c.config.RetreatFactor))
			st.add(tagRetreat, "%s化%s，化退神，分数×%.1f", l.Branch, l.ChangedBranch, c.config.RetreatFactor)
		}
	}

	switch ganzhi.StageOf(l.Element, l.ChangedBranch) {
	case ganzhi.StageJue:
		st.Score = 0
		st.add(tagTransformExtinction, "变爻%s为%s之绝地，分数清零", l.ChangedBranch, l.Element)
		return stop(st)
	case ganzhi.StageMu:
		st.Score = min(st.Score, c.config.ChangedTombCap)
		st.add(tagTransformTomb, "变爻%s为%s之墓库，分数不高于%d", l.ChangedBranch, l.Element, c.config.ChangedTombCap)
	}
	return cont(st)
}

// override forces the score for a completed triple harmony or a line
// reborn from extinction.
func (c *Calculator) override(in stepInput, st State) StepResult {
	l := in.line
	pool := make([]ganzhi.Branch, 0, len(in.others)+2)
	pool = append(pool, in.others...)
	pool = append(pool, in.date.Day, in.date.Month)
	if g, ok := ganzhi.CompleteTrinity(l.Branch, pool); ok {
		st.Score, st.Tier = c.config.TrinityScore, TierSS
		st.add(tagTrinity, "%s%s%s三合局成，分数强制%d", g[0], g[1], g[2], c.config.TrinityScore)
		return stop(st)
	}
	if l.IsMoving &&
		ganzhi.StageOf(l.Element, l.Branch) == ganzhi.StageJue &&
		ganzhi.StageOf(l.Element, l.ChangedBranch) == ganzhi.StageChangsheng {
		st.Score = c.config.ResurrectionScore
		st.add(tagResurrection, "本爻绝地，变爻长生，绝处逢生，分数%d", c.config.ResurrectionScore)
		return stop(st)
	}
	return cont(st)
}

// finalFilter applies void and tomb conditions to the line's own branch.
func (c *Calculator) finalFilter(in stepInput, st State) StepResult {
	l := in.line
	if in.date.Void.Contains(l.Branch) {
		switch {
		case st.Score > c.config.ProsperousVoidAbove:
			st.add(tagProsperousVoid, "旬空：旺空，分数不变")
		case st.Score < c.config.TrueVoidBelow:
			st.Score = 0
			st.add(tagTrueVoid, "旬空：真空，分数清零")
		}
	}
	if ganzhi.StageOf(l.Element, l.Branch) == ganzhi.StageMu {
		switch {
		case st.Score > c.config.StoredAbove:
			st.add(tagTombStored, "入库：有气入库，分数不变")
		case st.Score < c.config.BuriedBelow:
			st.Score = 0
			st.add(tagTombBuried, "入库：无气入库，分数清零")
		}
	}
	return cont(st)
}

// #endregion steps

// #region interactions
func interactionTags(l LineInput, lines []LineInput, self int, date Date) []tags.TagInfo {
	if !l.Branch.Valid() {
		return nil
	}
	var out []tags.TagInfo
	for j, o := range lines {
		if j == self || !o.Branch.Valid() || o.Branch == l.Branch {
			continue
		}
		kind := "静爻"
		if o.IsMoving {
			kind = "动爻"
		}
		switch {
		case l.Branch.Clashes(o.Branch):
			out = append(out, lineTag("CLASH_WITH_LINE", "被"+kind+"冲", tags.ToneNeutral))
		case l.Branch.Harmonizes(o.Branch):
			out = append(out, lineTag("COMBINE_WITH_LINE", "被"+kind+"合", tags.ToneNeutral))
		case l.Branch.Punishes(o.Branch):
			out = append(out, lineTag("PUNISH_WITH_LINE", "被"+kind+"刑", tags.ToneDebuff))
		case l.Branch.Harms(o.Branch):
			out = append(out, lineTag("HARM_WITH_LINE", "被"+kind+"害", tags.ToneDebuff))
		}
	}
	out = appendPillarTag(out, l.Branch, date.Day, "DAY", "日支")
	out = appendPillarTag(out, l.Branch, date.Month, "MONTH", "月令")
	return out
}

func appendPillarTag(out []tags.TagInfo, b, p ganzhi.Branch, suffix, name string) []tags.TagInfo {
	if !p.Valid() {
		return out
	}
	switch {
	case b == p:
		return append(out, lineTag("SAME_AS_"+suffix, "与"+name+"比", tags.ToneBuff))
	case b.Harmonizes(p):
		return append(out, lineTag("COMBINE_WITH_"+suffix, "与"+name+"合", tags.ToneBuff))
	case b.Clashes(p):
		return append(out, lineTag("CLASH_WITH_"+suffix, "与"+name+"冲", tags.ToneNeutral))
	case b.Punishes(p):
		return append(out, lineTag("PUNISH_WITH_"+suffix, "与"+name+"刑", tags.ToneDebuff))
	case b.Harms(p):
		return append(out, lineTag("HARM_WITH_"+suffix, "与"+name+"害", tags.ToneDebuff))
	}
	return out
}

func lineTag(code, label string, tone tags.Tone) tags.TagInfo {
	return tags.TagInfo{Code: code, Label: label, Category: tags.CategoryInteraction, Type: tone}
}

// #endregion interactions

// #region helpers
func (s *State) add(t tags.TagInfo, format string, args ...any) {
	s.Tags = append(s.Tags, t)
	s.note(format, args...)
}

func (s *State) note(format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}

func cont(st State) StepResult { return StepResult{Outcome: Continue, State: st} }
func stop(st State) StepResult { return StepResult{Outcome: Terminated, State: st} }

var (
	tagMonthBreak          = stepTag("MONTH_BREAK", "月破", tags.CategorySeasonal, tags.ToneDebuff)
	tagDarkActivation      = stepTag("DARK_ACTIVATION", "日冲/暗动", tags.CategoryDynamic, tags.ToneBuff)
	tagDayBreak            = stepTag("DAY_BREAK", "日破", tags.CategorySeasonal, tags.ToneDebuff)
	tagDayCombine          = stepTag("DAY_COMBINE", "日合/贪合", tags.CategoryInteraction, tags.ToneNeutral)
	tagReturnGeneration    = stepTag("RETURN_GENERATION", "回头生", tags.CategoryMutation, tags.ToneBuff)
	tagReturnOvercome      = stepTag("RETURN_OVERCOME", "回头克", tags.CategoryMutation, tags.ToneDebuff)
	tagAdvance             = stepTag("ADVANCE", "化进", tags.CategoryMutation, tags.ToneBuff)
	tagRetreat             = stepTag("RETREAT", "化退", tags.CategoryMutation, tags.ToneDebuff)
	tagTransformExtinction = stepTag("TRANSFORM_EXTINCTION", "化绝", tags.CategoryMutation, tags.ToneDebuff)
	tagTransformTomb       = stepTag("TRANSFORM_TOMB", "化墓", tags.CategoryMutation, tags.ToneDebuff)
	tagTrinity             = stepTag("TRIPLE_HARMONY", "三合局", tags.CategoryInteraction, tags.ToneBuff)
	tagResurrection        = stepTag("RESURRECTION", "绝处逢生", tags.CategoryMutation, tags.ToneBuff)
	tagProsperousVoid      = stepTag("PROSPEROUS_VOID", "旺空/待用", tags.CategorySeasonal, tags.ToneNeutral)
	tagTrueVoid            = stepTag("TRUE_VOID", "真空/到底", tags.CategorySeasonal, tags.ToneDebuff)
	tagTombStored          = stepTag("TOMB_STORED", "入库/待冲", tags.CategorySeasonal, tags.ToneNeutral)
	tagTombBuried          = stepTag("TOMB_BURIED", "入库/被埋", tags.CategorySeasonal, tags.ToneDebuff)
)

func stepTag(code, label string, cat tags.Category, tone tags.Tone) tags.TagInfo {
	return tags.TagInfo{Code: code, Label: label, Category: cat, Type: tone}
}

// #endregion helpers
