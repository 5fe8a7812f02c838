package replay

import (
	"context"
	"strings"
	"testing"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

func date(t *testing.T, year, month, day string) chart.Date {
	t.Helper()
	var d chart.Date
	for _, p := range []struct {
		dst   *ganzhi.Pillar
		label string
	}{{&d.Year, year}, {&d.Month, month}, {&d.Day, day}} {
		v, err := ganzhi.ParsePillar(p.label)
		if err != nil {
			t.Fatalf("ParsePillar(%q): %v", p.label, err)
		}
		*p.dst = v
	}
	return d
}

func intPtr(n int) *int { return &n }

func qianCase(t *testing.T) FixtureCase {
	return FixtureCase{
		Name:    "qian",
		Lines:   "7,7,7,7,7,7",
		RuleSet: ruleset.DefaultKey,
		Date:    date(t, "甲戌", "丙寅", "甲子"),
	}
}

// 1. A case that matches passes with no mismatches.
func TestRun_Pass(t *testing.T) {
	fc := qianCase(t)
	fc.Expect = Expectation{Name: "乾为天", Palace: "乾", Category: "本宫", HiddenCount: intPtr(0)}

	results, err := Run(context.Background(), newEngine(t), &Fixture{Cases: []FixtureCase{fc}}, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Passed {
		t.Errorf("expected pass, got mismatches %v", results[0].Mismatches)
	}
}

// 2. Every differing field is reported, not just the first.
func TestRun_Mismatches(t *testing.T) {
	fc := qianCase(t)
	fc.Expect = Expectation{
		Name:        "坤为地",
		Variant:     "天风姤",
		HiddenCount: intPtr(3),
		GlobalTags:  []string{"SIX_HARMONY_HEX"},
		Lines: []LineExpectation{
			{Position: 2, Tier: "SS", FinalScore: intPtr(100), Tags: []string{"VOID"}},
			{Position: 9},
		},
	}

	results, err := Run(context.Background(), newEngine(t), &Fixture{Cases: []FixtureCase{fc}}, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := results[0]
	if r.Passed {
		t.Fatal("expected failure")
	}
	want := []string{
		"name:", "variant:", "hidden_count:", "global: missing tag SIX_HARMONY_HEX",
		"line 2 tier:", "line 2 final_score:", "line 2: missing tag VOID", "line 9: not in result",
	}
	joined := strings.Join(r.Mismatches, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("expected mismatch containing %q, got:\n%s", w, joined)
		}
	}
	if len(r.Mismatches) != len(want) {
		t.Errorf("expected %d mismatches, got %d", len(want), len(r.Mismatches))
	}
}

// 3. Engine rejections are recorded per case and do not stop the run.
func TestRun_ErroredCase(t *testing.T) {
	bad := qianCase(t)
	bad.Name = "bad"
	bad.RuleSet = "no-such-school"
	good := qianCase(t)

	results, err := Run(context.Background(), newEngine(t), &Fixture{Cases: []FixtureCase{bad, good}}, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Err == nil {
		t.Error("expected error on unknown rule set")
	}
	if results[1].Err != nil || !results[1].Passed {
		t.Errorf("expected second case to pass, got %+v", results[1])
	}
}

// 4. A cancelled context aborts the run.
func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, newEngine(t), &Fixture{Cases: []FixtureCase{qianCase(t)}}, 1)
	if err == nil {
		t.Fatal("expected context error")
	}
}

// 5. Results keep fixture order regardless of parallelism.
func TestRun_KeepsOrder(t *testing.T) {
	codes := []string{"7,7,7,7,7,7", "8,8,8,8,8,8", "7,7,8,6,9,8", "9,6,9,6,9,6"}
	f := &Fixture{}
	for _, c := range codes {
		fc := qianCase(t)
		fc.Name = c
		fc.Lines = c
		f.Cases = append(f.Cases, fc)
	}
	results, err := Run(context.Background(), newEngine(t), f, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, r := range results {
		if r.Name != codes[i] {
			t.Errorf("result %d: expected %s, got %s", i, codes[i], r.Name)
		}
	}
}

// 6. Summarize counts pass, fail and error separately.
func TestSummarize(t *testing.T) {
	results := []CaseResult{
		{Name: "a", Passed: true},
		{Name: "b", Passed: false, Mismatches: []string{"name: want x, got y"}},
		{Name: "c", Err: context.Canceled},
		{Name: "d", Passed: true},
	}
	s := Summarize(results)
	if s.Total != 4 || s.Passed != 2 || s.Failed != 1 || s.Errored != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
}
