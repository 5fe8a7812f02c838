package ruleset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"branch-sixgod", "jingfang-basic", "jingfang-plain"}, reg.Keys())

	rs, err := reg.Lookup(DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "京房基础", rs.Name)
	assert.Equal(t, BaseByDayStem, rs.SixGod.BaseBy)
	assert.Equal(t, [6]ganzhi.Branch{
		ganzhi.BranchZi, ganzhi.BranchYin, ganzhi.BranchChen, ganzhi.BranchWu, ganzhi.BranchShen, ganzhi.BranchXu,
	}, rs.NaJia.BranchSequence[hexagram.Qian])
	assert.Equal(t, ganzhi.StemRen, rs.NaJia.StemSequence[hexagram.Qian][3])
	assert.Equal(t, []ganzhi.Stem{ganzhi.StemXin}, rs.NaJia.TrigramStem[hexagram.Xun])
	assert.Len(t, rs.NaJia.BranchSequence, 8)

	plain, err := reg.Lookup("jingfang-plain")
	require.NoError(t, err)
	assert.Empty(t, plain.NaJia.StemSequence)
	assert.Equal(t, rs.NaJia.BranchSequence, plain.NaJia.BranchSequence, "aliases resolve to the same table")
}

func TestLookupUnknown(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	_, err = reg.Lookup("nope")
	assert.True(t, errs.IsValidation(err))
}

func TestStartGod(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	basic, _ := reg.Lookup("jingfang-basic")
	assert.Equal(t, hexagram.GodQingLong, basic.StartGod(ganzhi.Pillar{Stem: ganzhi.StemJia, Branch: ganzhi.BranchZi}))
	assert.Equal(t, hexagram.GodTengShe, basic.StartGod(ganzhi.Pillar{Stem: ganzhi.StemJi, Branch: ganzhi.BranchSi}))
	assert.Equal(t, hexagram.GodQingLong, basic.StartGod(ganzhi.Pillar{}), "unknown day falls back to the first god")

	byBranch, _ := reg.Lookup("branch-sixgod")
	assert.Equal(t, hexagram.GodXuanWu, byBranch.StartGod(ganzhi.Pillar{Stem: ganzhi.StemJia, Branch: ganzhi.BranchZi}))
}

func TestLoadTriplet(t *testing.T) {
	doc := `
rulesets:
  - key: triplet
    name: t
    najia:
      trigramStem:
        乾: [甲, 甲, 壬]
      defaultBranches: [子]
    sixGod:
      baseBy: dayStem
      sequence: [青龙, 朱雀, 勾陈, 腾蛇, 白虎, 玄武]
`
	reg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	rs, err := reg.Lookup("triplet")
	require.NoError(t, err)
	assert.Equal(t, []ganzhi.Stem{ganzhi.StemJia, ganzhi.StemJia, ganzhi.StemRen}, rs.NaJia.TrigramStem[hexagram.Qian])
}

func TestLoadRejectsMalformed(t *testing.T) {
	base := func(najia, gods string) string {
		return "rulesets:\n  - key: bad\n    najia:\n" + najia + "    sixGod:\n" + gods
	}
	okGods := "      baseBy: dayStem\n      sequence: [青龙, 朱雀, 勾陈, 腾蛇, 白虎, 玄武]\n"
	okNaJia := "      defaultBranches: [子]\n"

	cases := map[string]string{
		"empty document":    "rulesets: []\n",
		"unknown trigram":   base("      trigramStem:\n        天: 甲\n"+okNaJia, okGods),
		"two stems":         base("      trigramStem:\n        乾: [甲, 壬]\n"+okNaJia, okGods),
		"unknown stem":      base("      trigramStem:\n        乾: 子\n"+okNaJia, okGods),
		"short branch seq":  base("      branchSequence:\n        乾: [子, 寅]\n"+okNaJia, okGods),
		"no default":        base("      defaultBranches: []\n", okGods),
		"bad base":          base(okNaJia, "      baseBy: hour\n      sequence: [青龙, 朱雀, 勾陈, 腾蛇, 白虎, 玄武]\n"),
		"repeated god":      base(okNaJia, "      baseBy: dayStem\n      sequence: [青龙, 青龙, 勾陈, 腾蛇, 白虎, 玄武]\n"),
		"short god seq":     base(okNaJia, "      baseBy: dayStem\n      sequence: [青龙]\n"),
		"unknown start god": base(okNaJia, "      baseBy: dayStem\n      startByStem:\n        甲: 麒麟\n      sequence: [青龙, 朱雀, 勾陈, 腾蛇, 白虎, 玄武]\n"),
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err), "got %v", err)
		})
	}
}
