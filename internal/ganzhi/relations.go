package ganzhi

// #region elements
// Generates returns the element e produces in the generating cycle.
func (e Element) Generates() Element {
	if !e.Valid() {
		return ElementNone
	}
	return Elements[(int(e-Wood)+1)%5]
}

// Overcomes returns the element e restrains: 木土 土水 水火 火金 金木.
func (e Element) Overcomes() Element {
	if !e.Valid() {
		return ElementNone
	}
	return Elements[(int(e-Wood)+2)%5]
}

// Relation describes how one element stands toward another.
type Relation uint8

const (
	RelationNone Relation = iota
	RelationSame
	RelationGenerates
	RelationGeneratedBy
	RelationOvercomes
	RelationOvercomeBy
)

var relationLabels = [...]string{"无", "比和", "生", "被生", "克", "被克"}

func (r Relation) String() string {
	if int(r) < len(relationLabels) {
		return relationLabels[r]
	}
	return ""
}

// Relate reports how a stands toward b. Unassigned elements yield RelationNone.
func Relate(a, b Element) Relation {
	switch {
	case !a.Valid() || !b.Valid():
		return RelationNone
	case a == b:
		return RelationSame
	case a.Generates() == b:
		return RelationGenerates
	case b.Generates() == a:
		return RelationGeneratedBy
	case a.Overcomes() == b:
		return RelationOvercomes
	case b.Overcomes() == a:
		return RelationOvercomeBy
	}
	return RelationNone
}

// #endregion elements

// #region branches
var harmonyPartner = [...]Branch{
	BranchNone,
	BranchChou, BranchZi, BranchHai, BranchXu, BranchYou, BranchShen,
	BranchWei, BranchWu, BranchSi, BranchChen, BranchMao, BranchYin,
}

var harmPartner = [...]Branch{
	BranchNone,
	BranchWei, BranchWu, BranchSi, BranchChen, BranchMao, BranchYin,
	BranchChou, BranchZi, BranchHai, BranchXu, BranchYou, BranchShen,
}

// punishment targets per branch. 辰午酉亥 punish themselves.
var punishments = map[Branch][]Branch{
	BranchYin:  {BranchSi, BranchShen},
	BranchSi:   {BranchYin, BranchShen},
	BranchShen: {BranchYin, BranchSi},
	BranchChou: {BranchXu, BranchWei},
	BranchXu:   {BranchChou, BranchWei},
	BranchWei:  {BranchChou, BranchXu},
	BranchZi:   {BranchMao},
	BranchMao:  {BranchZi},
	BranchChen: {BranchChen},
	BranchWu:   {BranchWu},
	BranchYou:  {BranchYou},
	BranchHai:  {BranchHai},
}

// Trinities are the four triple-harmony groups, listed birth, peak, tomb.
var Trinities = [4][3]Branch{
	{BranchShen, BranchZi, BranchChen},
	{BranchHai, BranchMao, BranchWei},
	{BranchYin, BranchWu, BranchXu},
	{BranchSi, BranchYou, BranchChou},
}

// ClashPartner is the branch directly opposite b.
func (b Branch) ClashPartner() Branch { return b.Offset(6) }

func (b Branch) HarmonyPartner() Branch {
	if int(b) < len(harmonyPartner) {
		return harmonyPartner[b]
	}
	return BranchNone
}

func (b Branch) HarmPartner() Branch {
	if int(b) < len(harmPartner) {
		return harmPartner[b]
	}
	return BranchNone
}

func (b Branch) Clashes(o Branch) bool    { return b.Valid() && b.ClashPartner() == o }
func (b Branch) Harmonizes(o Branch) bool { return b.Valid() && b.HarmonyPartner() == o }
func (b Branch) Harms(o Branch) bool      { return b.Valid() && b.HarmPartner() == o }

// Punishes reports whether b punishes o under the triple-punishment table.
func (b Branch) Punishes(o Branch) bool {
	for _, t := range punishments[b] {
		if t == o {
			return true
		}
	}
	return false
}

// TrinityOf returns the triple-harmony group b belongs to.
func TrinityOf(b Branch) ([3]Branch, bool) {
	for _, g := range Trinities {
		for _, m := range g {
			if m == b && b.Valid() {
				return g, true
			}
		}
	}
	return [3]Branch{}, false
}

// CompleteTrinity reports whether b's triple-harmony group is completed by
// two distinct members found among others.
func CompleteTrinity(b Branch, others []Branch) ([3]Branch, bool) {
	g, ok := TrinityOf(b)
	if !ok {
		return g, false
	}
	for _, m := range g {
		if m == b {
			continue
		}
		found := false
		for _, o := range others {
			if o == m {
				found = true
				break
			}
		}
		if !found {
			return g, false
		}
	}
	return g, true
}

// #endregion branches

// #region advance-retreat
var advanceTable = map[Element]map[Branch]Branch{
	Wood:  {BranchYin: BranchMao},
	Fire:  {BranchSi: BranchWu},
	Metal: {BranchShen: BranchYou},
	Water: {BranchHai: BranchZi},
	Earth: {BranchChou: BranchChen, BranchChen: BranchWei, BranchWei: BranchXu, BranchXu: BranchChou},
}

// Advances reports whether moving from b to changed is an advance for e.
func Advances(e Element, b, changed Branch) bool {
	next, ok := advanceTable[e][b]
	return ok && next == changed
}

// Retreats reports whether moving from b to changed is a retreat for e.
func Retreats(e Element, b, changed Branch) bool {
	prev, ok := advanceTable[e][changed]
	return ok && prev == b
}

// #endregion advance-retreat
