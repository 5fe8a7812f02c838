package ganzhi

// #region changsheng
// Stage is a position in the twelve-stage life cycle. Zero means unknown.
type Stage uint8

const (
	StageNone Stage = iota
	StageChangsheng
	StageMuyu
	StageGuandai
	StageLinguan
	StageDiwang
	StageShuai
	StageBing
	StageSi
	StageMu
	StageJue
	StageTai
	StageYang
)

var stageLabels = [...]string{"", "长生", "沐浴", "冠带", "临官", "帝旺", "衰", "病", "死", "墓", "绝", "胎", "养"}

func (s Stage) String() string {
	if int(s) < len(stageLabels) {
		return stageLabels[s]
	}
	return ""
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stage) UnmarshalText(b []byte) error {
	for i, l := range stageLabels {
		if l == string(b) {
			*s = Stage(i)
			return nil
		}
	}
	*s = StageNone
	return nil
}

// birth branch per element. Earth follows water.
var stageStart = [...]Branch{
	ElementNone: BranchNone,
	Wood:        BranchHai,
	Fire:        BranchYin,
	Earth:       BranchShen,
	Metal:       BranchSi,
	Water:       BranchShen,
}

// StageOf returns where element e stands in its life cycle at branch b.
func StageOf(e Element, b Branch) Stage {
	if !e.Valid() || !b.Valid() {
		return StageNone
	}
	return Stage(mod(b.Index()-stageStart[e].Index(), 12) + 1)
}

// BranchAtStage is the inverse of StageOf.
func BranchAtStage(e Element, s Stage) Branch {
	if !e.Valid() || s == StageNone || int(s) >= len(stageLabels) {
		return BranchNone
	}
	return stageStart[e].Offset(int(s) - 1)
}

// TombOf returns the tomb (墓) branch of e.
func TombOf(e Element) Branch { return BranchAtStage(e, StageMu) }

// #endregion changsheng

// #region season
// Strength is an element's seasonal standing against the month.
type Strength uint8

const (
	StrengthNone Strength = iota
	StrengthWang
	StrengthXiang
	StrengthXiu
	StrengthQiu
	StrengthSi
)

var strengthLabels = [...]string{"", "旺", "相", "休", "囚", "死"}

func (s Strength) String() string {
	if int(s) < len(strengthLabels) {
		return strengthLabels[s]
	}
	return ""
}

func (s Strength) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strength) UnmarshalText(b []byte) error {
	for i, l := range strengthLabels {
		if l == string(b) {
			*s = Strength(i)
			return nil
		}
	}
	*s = StrengthNone
	return nil
}

// Prosperous is true for 旺 and 相.
func (s Strength) Prosperous() bool { return s == StrengthWang || s == StrengthXiang }

// SeasonStrength rates e against the element ruling month.
func SeasonStrength(month Branch, e Element) Strength {
	season := month.Element()
	if !season.Valid() || !e.Valid() {
		return StrengthNone
	}
	switch {
	case season == e:
		return StrengthWang
	case season.Generates() == e:
		return StrengthXiang
	case e.Generates() == season:
		return StrengthXiu
	case e.Overcomes() == season:
		return StrengthQiu
	}
	return StrengthSi
}

// #endregion season

// #region void
// Void is the pair of branches left empty in a day's ten-day decade.
type Void [2]Branch

// VoidBranches returns the void pair for a day pillar. An invalid pillar
// yields an empty Void.
func VoidBranches(day Pillar) Void {
	if !day.Valid() {
		return Void{}
	}
	head := mod(day.Branch.Index()-day.Stem.Index(), 12)
	return Void{BranchAt(head - 2), BranchAt(head - 1)}
}

func (v Void) Contains(b Branch) bool { return b.Valid() && (v[0] == b || v[1] == b) }

func (v Void) Slice() []Branch {
	if !v[0].Valid() {
		return nil
	}
	return []Branch{v[0], v[1]}
}

// #endregion void
