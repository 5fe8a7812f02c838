package hexagram

import (
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
)

// #region palace-table
// PalaceRow is one entry of the fixed 64-row palace table. Code is read
// bottom-up with yang as '1'; World and Response count from the bottom line.
type PalaceRow struct {
	Name     string
	Code     string
	Palace   TrigramName
	Element  ganzhi.Element
	Category Category
	World    int
	Response int
}

type member struct {
	name string
	code string
}

type family struct {
	palace  TrigramName
	element ganzhi.Element
	members [8]member
}

// members run 本宫, 一世..五世, 游魂, 归魂
var families = [8]family{
	{Qian, ganzhi.Metal, [8]member{
		{"乾为天", "111111"}, {"天风姤", "011111"}, {"天山遁", "001111"}, {"天地否", "000111"},
		{"风地观", "000011"}, {"山地剥", "000001"}, {"火地晋", "000101"}, {"火天大有", "111101"},
	}},
	{Zhen, ganzhi.Wood, [8]member{
		{"震为雷", "100100"}, {"雷地豫", "000100"}, {"雷水解", "010100"}, {"雷风恒", "011100"},
		{"地风升", "011000"}, {"水风井", "011010"}, {"泽风大过", "011110"}, {"泽雷随", "100110"},
	}},
	{Kan, ganzhi.Water, [8]member{
		{"坎为水", "010010"}, {"水泽节", "110010"}, {"水雷屯", "100010"}, {"水火既济", "101010"},
		{"泽火革", "101110"}, {"雷火丰", "101100"}, {"地火明夷", "101000"}, {"地水师", "010000"},
	}},
	{Gen, ganzhi.Earth, [8]member{
		{"艮为山", "001001"}, {"山火贲", "101001"}, {"山天大畜", "111001"}, {"山泽损", "110001"},
		{"火泽睽", "110101"}, {"天泽履", "110111"}, {"风泽中孚", "110011"}, {"风山渐", "001011"},
	}},
	{Kun, ganzhi.Earth, [8]member{
		{"坤为地", "000000"}, {"地雷复", "100000"}, {"地泽临", "110000"}, {"地天泰", "111000"},
		{"雷天大壮", "111100"}, {"泽天夬", "111110"}, {"水天需", "111010"}, {"水地比", "000010"},
	}},
	{Xun, ganzhi.Wood, [8]member{
		{"巽为风", "011011"}, {"风天小畜", "111011"}, {"风火家人", "101011"}, {"风雷益", "100011"},
		{"天雷无妄", "100111"}, {"火雷噬嗑", "100101"}, {"山雷颐", "100001"}, {"山风蛊", "011001"},
	}},
	{Li, ganzhi.Fire, [8]member{
		{"离为火", "101101"}, {"火山旅", "001101"}, {"火风鼎", "011101"}, {"火水未济", "010101"},
		{"山水蒙", "010001"}, {"风水涣", "010011"}, {"天水讼", "010111"}, {"天火同人", "101111"},
	}},
	{Dui, ganzhi.Metal, [8]member{
		{"兑为泽", "110110"}, {"泽水困", "010110"}, {"泽地萃", "000110"}, {"泽山咸", "001110"},
		{"水山蹇", "001010"}, {"地山谦", "001000"}, {"雷山小过", "001100"}, {"雷泽归妹", "110100"},
	}},
}

var familyCategories = [8]Category{
	CategoryBase, CategoryFirst, CategorySecond, CategoryThird,
	CategoryFourth, CategoryFifth, CategoryWandering, CategoryReturning,
}

// world and response lines per category, counted from the bottom
var categoryLines = map[Category][2]int{
	CategoryBase:      {5, 2},
	CategoryFirst:     {0, 3},
	CategorySecond:    {1, 4},
	CategoryThird:     {2, 5},
	CategoryFourth:    {3, 0},
	CategoryFifth:     {4, 1},
	CategoryWandering: {3, 0},
	CategoryReturning: {2, 5},
}

var (
	palaceRows  []PalaceRow
	palaceIndex = map[string]int{}
	baseIndex   = map[TrigramName]int{}
)

func init() {
	for _, f := range families {
		for i, m := range f.members {
			cat := familyCategories[i]
			wr := categoryLines[cat]
			palaceIndex[m.code] = len(palaceRows)
			if cat == CategoryBase {
				baseIndex[f.palace] = len(palaceRows)
			}
			palaceRows = append(palaceRows, PalaceRow{
				Name:     m.name,
				Code:     m.code,
				Palace:   f.palace,
				Element:  f.element,
				Category: cat,
				World:    wr[0],
				Response: wr[1],
			})
		}
	}
}

// Lookup finds the palace row for a bottom-up code.
func Lookup(code string) (PalaceRow, bool) {
	i, ok := palaceIndex[code]
	if !ok {
		return PalaceRow{}, false
	}
	return palaceRows[i], true
}

// BaseRow returns the 本宫 row of a palace.
func BaseRow(palace TrigramName) (PalaceRow, bool) {
	i, ok := baseIndex[palace]
	if !ok {
		return PalaceRow{}, false
	}
	return palaceRows[i], true
}

// Rows returns a copy of the whole table in palace order.
func Rows() []PalaceRow {
	out := make([]PalaceRow, len(palaceRows))
	copy(out, palaceRows)
	return out
}

// #endregion palace-table
