package ganzhi

// #region spirits
// Spirit is a named auspicious or baleful star placed on branches by the
// day, month or year pillar.
type Spirit uint8

const (
	SpiritNone Spirit = iota
	SpiritTaoHua
	SpiritYiMa
	SpiritWenChang
	SpiritLuShen
	SpiritTianYi
	SpiritJiangXing
	SpiritHuaGai
	SpiritTianYiMedicine
	SpiritXianChi
	SpiritGuChen
	SpiritGuaSu
)

// SpiritInfo is the fixed descriptive record of a spirit. Tone is one of
// "buff", "debuff" or "neutral".
type SpiritInfo struct {
	Code        string
	Label       string
	Tone        string
	Description string
}

var spiritInfo = [...]SpiritInfo{
	SpiritNone:           {},
	SpiritTaoHua:         {"TAO_HUA", "桃花", "neutral", "桃花临爻，主异性缘与感情波澜，吉凶各半"},
	SpiritYiMa:           {"YI_MA", "驿马", "neutral", "驿马临爻，主动象、出行与迁移"},
	SpiritWenChang:       {"WEN_CHANG_NOBLE", "文昌贵人", "buff", "文昌临爻，主聪慧、文书与功名"},
	SpiritLuShen:         {"LU_SHEN", "禄神", "buff", "禄神临爻，主俸禄与财利"},
	SpiritTianYi:         {"TIAN_YI_NOBLE", "天乙贵人", "buff", "天乙贵人临爻，主贵人扶助、逢凶化吉"},
	SpiritJiangXing:      {"JIANG_XING", "将星", "buff", "将星临爻，主权势与领导力"},
	SpiritHuaGai:         {"HUA_GAI", "华盖", "neutral", "华盖临爻，主聪慧与艺术，亦主孤高"},
	SpiritTianYiMedicine: {"TIAN_YI_MEDICINE", "天医", "buff", "天医临爻，主医药与康复"},
	SpiritXianChi:        {"XIAN_CHI", "咸池", "debuff", "咸池临爻，主风流与意外，需防感情纠葛"},
	SpiritGuChen:         {"GU_CHEN", "孤辰", "debuff", "孤辰临爻，主孤独与离散"},
	SpiritGuaSu:          {"GUA_SU", "寡宿", "debuff", "寡宿临爻，主孤寡与冷局"},
}

func (s Spirit) Info() SpiritInfo {
	if int(s) < len(spiritInfo) {
		return spiritInfo[s]
	}
	return SpiritInfo{}
}

func (s Spirit) String() string { return s.Info().Label }

func (s Spirit) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Spirit) UnmarshalText(b []byte) error {
	for i, info := range spiritInfo {
		if info.Label == string(b) {
			*s = Spirit(i)
			return nil
		}
	}
	*s = SpiritNone
	return nil
}

// #endregion spirits

// #region tables
// by day-branch trinity group, in Trinities order
var (
	taoHua    = [4]Branch{BranchYou, BranchZi, BranchMao, BranchWu}
	yiMa      = [4]Branch{BranchYin, BranchSi, BranchShen, BranchHai}
	jiangXing = [4]Branch{BranchZi, BranchMao, BranchWu, BranchYou}
	huaGai    = [4]Branch{BranchChen, BranchWei, BranchXu, BranchChou}
)

// by day stem, 甲..癸
var (
	wenChang = [10]Branch{BranchSi, BranchWu, BranchShen, BranchYou, BranchShen, BranchYou, BranchHai, BranchZi, BranchYin, BranchMao}
	luShen   = [10]Branch{BranchYin, BranchMao, BranchSi, BranchWu, BranchSi, BranchWu, BranchShen, BranchYou, BranchHai, BranchZi}
	xianChi  = [10]Branch{BranchZi, BranchSi, BranchMao, BranchShen, BranchMao, BranchShen, BranchWu, BranchHai, BranchYou, BranchYin}
	tianYi   = [10][2]Branch{
		{BranchChou, BranchWei}, {BranchShen, BranchZi}, {BranchHai, BranchYou}, {BranchHai, BranchYou}, {BranchChou, BranchWei},
		{BranchShen, BranchZi}, {BranchChou, BranchWei}, {BranchSi, BranchYou}, {BranchSi, BranchMao}, {BranchSi, BranchMao},
	}
)

// by year-branch season group 亥子丑 寅卯辰 巳午未 申酉戌
var (
	guChen = [4]Branch{BranchYin, BranchSi, BranchShen, BranchHai}
	guaSu  = [4]Branch{BranchXu, BranchChou, BranchChen, BranchWei}
)

func trinityIndex(b Branch) int {
	for i, g := range Trinities {
		for _, m := range g {
			if m == b {
				return i
			}
		}
	}
	return -1
}

func seasonGroup(b Branch) int {
	if !b.Valid() {
		return -1
	}
	return mod(b.Index()+1, 12) / 3
}

// #endregion tables

// #region placements
// Placement lists the branches a spirit occupies for a given date.
type Placement struct {
	Spirit   Spirit   `json:"spirit"`
	Branches []Branch `json:"branches"`
}

// Placements computes every spirit placement in a fixed order. Spirits whose
// keying pillar is absent are skipped.
func Placements(day Pillar, month, year Branch) []Placement {
	var out []Placement
	add := func(s Spirit, bs ...Branch) {
		out = append(out, Placement{Spirit: s, Branches: bs})
	}
	if g := trinityIndex(day.Branch); g >= 0 {
		add(SpiritTaoHua, taoHua[g])
		add(SpiritYiMa, yiMa[g])
	}
	if i := day.Stem.Index(); i >= 0 {
		add(SpiritWenChang, wenChang[i])
		add(SpiritLuShen, luShen[i])
		add(SpiritTianYi, tianYi[i][0], tianYi[i][1])
	}
	if g := trinityIndex(day.Branch); g >= 0 {
		add(SpiritJiangXing, jiangXing[g])
		add(SpiritHuaGai, huaGai[g])
	}
	if month.Valid() {
		add(SpiritTianYiMedicine, month.Prev())
	}
	if i := day.Stem.Index(); i >= 0 {
		add(SpiritXianChi, xianChi[i])
	}
	if g := seasonGroup(year); g >= 0 {
		add(SpiritGuChen, guChen[g])
		add(SpiritGuaSu, guaSu[g])
	}
	return out
}

// Has reports whether the placement covers b.
func (p Placement) Has(b Branch) bool {
	for _, x := range p.Branches {
		if x == b {
			return true
		}
	}
	return false
}

// #endregion placements
