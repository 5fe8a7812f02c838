package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/liuyao-engine/internal/archive"
	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

// #region fixture-tests

func newEngine(t *testing.T) *chart.Engine {
	t.Helper()
	reg, err := ruleset.Default()
	if err != nil {
		t.Fatalf("ruleset.Default: %v", err)
	}
	return chart.NewEngine(reg, chart.DefaultConfig(), nil)
}

// TestFixture_Cases loads the reference fixture and replays every case. This
// is the regression baseline: any drift in tables, scoring or tagging shows
// up here as a mismatch.
func TestFixture_Cases(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "cases.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(f.Cases))
	}

	results, err := Run(t.Context(), newEngine(t), f, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: engine error: %v", r.Name, r.Err)
			continue
		}
		for _, m := range r.Mismatches {
			t.Errorf("%s: %s", r.Name, m)
		}
	}
}

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

// TestWriteFixture_RoundTrip writes a fixture and reads it back unchanged.
func TestWriteFixture_RoundTrip(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "cases.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteFixture(path, f); err != nil {
		t.Fatalf("WriteFixture: %v", err)
	}
	back, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if diff := cmp.Diff(f, back); diff != "" {
		t.Errorf("fixture changed on round trip (-want +got):\n%s", diff)
	}
}

// TestToInput_BadLines surfaces a line parse error.
func TestToInput_BadLines(t *testing.T) {
	fc := FixtureCase{Name: "bad", Lines: "7,7,7", RuleSet: ruleset.DefaultKey}
	if _, err := fc.ToInput(); err == nil {
		t.Fatal("expected error for three lines")
	}
}

// TestExpectationFrom_PassesCheck verifies a captured expectation matches the
// chart it was captured from.
func TestExpectationFrom_PassesCheck(t *testing.T) {
	e := newEngine(t)
	f, err := LoadFixture(filepath.Join("testdata", "cases.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	in, err := f.Cases[0].ToInput()
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	res, err := e.Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	exp := ExpectationFrom(res)
	if exp.Variant != "风山渐" {
		t.Errorf("expected variant 风山渐, got %q", exp.Variant)
	}
	if len(exp.Lines) != 6 {
		t.Fatalf("expected 6 line expectations, got %d", len(exp.Lines))
	}
	if m := Check(exp, res); len(m) != 0 {
		t.Errorf("expected no mismatches, got %v", m)
	}
}

// TestFixtureFromRecord exports an archived chart and replays it.
func TestFixtureFromRecord(t *testing.T) {
	e := newEngine(t)
	store, err := archive.NewStore(filepath.Join(t.TempDir(), "charts.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	f, err := LoadFixture(filepath.Join("testdata", "cases.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	in, err := f.Cases[1].ToInput()
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	res, err := e.Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	rec, err := store.SaveChart(in, res, "archived qian")
	if err != nil {
		t.Fatalf("SaveChart: %v", err)
	}

	fc, err := FixtureFromRecord(rec)
	if err != nil {
		t.Fatalf("FixtureFromRecord: %v", err)
	}
	if fc.Name != "archived qian" {
		t.Errorf("expected name from note, got %q", fc.Name)
	}
	if fc.Lines != "7,7,7,7,7,7" {
		t.Errorf("expected lines 7,7,7,7,7,7, got %q", fc.Lines)
	}
	if fc.Date != in.Date {
		t.Errorf("expected date %+v, got %+v", in.Date, fc.Date)
	}

	results, err := Run(t.Context(), e, &Fixture{Cases: []FixtureCase{fc}}, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !results[0].Passed {
		t.Errorf("exported case failed: %v %v", results[0].Mismatches, results[0].Err)
	}
}

// TestFixtureFromRecord_BadJSON rejects records with unreadable payloads.
func TestFixtureFromRecord_BadJSON(t *testing.T) {
	rec := archive.ChartRecord{ChartID: "x", InputJSON: "{", ResultJSON: "{}"}
	if _, err := FixtureFromRecord(rec); err == nil {
		t.Error("expected error for bad input JSON")
	}
	rec = archive.ChartRecord{ChartID: "x", InputJSON: `{"lines":[]}`, ResultJSON: "{}"}
	if _, err := FixtureFromRecord(rec); err == nil {
		t.Error("expected error for result without hexagram")
	}
}

// #endregion fixture-tests
