package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/replay"
)

// run executes the CLI with a fresh command tree and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var huanArgs = []string{"cast", "--lines", "7,7,8,6,9,8", "--year", "甲辰", "--month", "丙寅", "--day", "甲子"}

func TestRulesets(t *testing.T) {
	out, err := run(t, "rulesets")
	require.NoError(t, err)
	assert.Contains(t, out, "* jingfang-basic")
	assert.Contains(t, out, "  jingfang-plain")
	assert.Contains(t, out, "  branch-sixgod")
}

func TestCastJSON(t *testing.T) {
	out, err := run(t, append(huanArgs, "--json")...)
	require.NoError(t, err)
	var res chart.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "风水涣", res.Hexagram.Name)
	require.NotNil(t, res.Variant)
	assert.Equal(t, "风山渐", res.Variant.Name)
	assert.Len(t, res.Energy, 6)
}

func TestCastRendered(t *testing.T) {
	out, err := run(t, append(huanArgs, "--plain", "--tags")...)
	require.NoError(t, err)
	assert.Contains(t, out, "风水涣")
	assert.Contains(t, out, "旬空 戌亥")
	assert.Contains(t, out, "全局")
}

func TestCastRejectsBadInput(t *testing.T) {
	_, err := run(t, "cast", "--lines", "7,7,8,6,9,8", "--month", "丙寅")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err), "missing day: %v", err)

	_, err = run(t, "cast", "--lines", "7,7,8,6,9,8", "--month", "丙寅", "--day", "甲丑")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err), "bad pillar: %v", err)

	_, err = run(t, "cast", "--lines", "7,7,5", "--month", "丙寅", "--day", "甲子")
	require.Error(t, err)

	_, err = run(t, "cast", "--month", "丙寅", "--day", "甲子")
	require.Error(t, err, "--lines is required")
}

func TestBatch(t *testing.T) {
	var inputs []chart.Input
	for _, code := range []string{"7,7,8,6,9,8", "7,7,7,7,7,7"} {
		out, err := run(t, "cast", "--lines", code, "--month", "丙寅", "--day", "甲子", "--json")
		require.NoError(t, err)
		var res chart.Result
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		lines, err := chart.ParseLines(code)
		require.NoError(t, err)
		inputs = append(inputs, chart.Input{Lines: lines, RuleSetKey: res.RuleSet, Date: res.Date})
	}
	data, err := json.Marshal(inputs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "inputs.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	out, err := run(t, "batch", "-f", path)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "风水涣")
	assert.Contains(t, rows[0], "→ 风山渐")
	assert.Contains(t, rows[1], "乾为天")
	assert.NotContains(t, rows[1], "→")
}

func TestArchiveInspectExportReplay(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "charts.db")

	_, err := run(t, append(huanArgs, "--db", db, "--archive", "--note", "first", "--json")...)
	require.NoError(t, err)

	out, err := run(t, "inspect", "--db", db, "--json")
	require.NoError(t, err)
	var rows []listRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].Note)
	assert.Equal(t, "风水涣", rows[0].Name)
	id := rows[0].ChartID

	_, err = run(t, "cast", "--lines", "7,7,8,8,9,8", "--month", "丙寅", "--day", "甲子",
		"--db", db, "--archive", "--recast-of", id, "--json")
	require.NoError(t, err)

	out, err = run(t, "inspect", "--db", db, "--id", id, "--json")
	require.NoError(t, err)
	var detail detailOutput
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Len(t, detail.Audit, 6)
	assert.Len(t, detail.Recasts, 1)

	out, err = run(t, "inspect", "--db", db, "--id", id, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Chart:    "+id)
	assert.Contains(t, out, "Note:     first")
	assert.Contains(t, out, "Recast:   ")

	fixture := filepath.Join(dir, "fixture.json")
	out, err = run(t, "export", "--db", db, "-o", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 cases")
	f, err := replay.LoadFixture(fixture)
	require.NoError(t, err)
	assert.Len(t, f.Cases, 2)

	out, err = run(t, "replay", "-f", fixture)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 cases: 2 passed, 0 failed, 0 errored")
}

func TestInspectEmptyArchive(t *testing.T) {
	out, err := run(t, "inspect", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "no charts archived")

	_, err = run(t, "export", "--db", filepath.Join(t.TempDir(), "empty.db"), "-o", filepath.Join(t.TempDir(), "x.json"))
	require.Error(t, err)
}

func TestReplayReferenceFixture(t *testing.T) {
	out, err := run(t, "replay", "-f", filepath.Join("..", "..", "internal", "replay", "testdata", "cases.json"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS  huan")
	assert.Contains(t, out, "3 cases: 3 passed")
}

func TestReplayReportsDrift(t *testing.T) {
	f := &replay.Fixture{Cases: []replay.FixtureCase{{
		Name:    "wrong",
		Lines:   "7,7,7,7,7,7",
		RuleSet: "jingfang-basic",
		Expect:  replay.Expectation{Name: "坤为地"},
	}}}
	var err error
	f.Cases[0].Date.Month, err = ganzhi.ParsePillar("丙寅")
	require.NoError(t, err)
	f.Cases[0].Date.Day, err = ganzhi.ParsePillar("甲子")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "drift.json")
	require.NoError(t, replay.WriteFixture(path, f))

	out, err := run(t, "replay", "-f", path)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL  wrong")
	assert.Contains(t, out, "name: want 坤为地, got 乾为天")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("LIUYAO_TEST_VALUE", "set")
	assert.Equal(t, "set", envOr("LIUYAO_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", envOr("LIUYAO_TEST_UNSET", "fallback"))
}
