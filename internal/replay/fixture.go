package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/liuyao-engine/internal/archive"
	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one cast and what the engine is expected to make of it.
type FixtureCase struct {
	Name    string      `json:"name"`
	Lines   string      `json:"lines"` // coin values, top-down
	RuleSet string      `json:"rule_set"`
	Date    chart.Date  `json:"date"`
	Expect  Expectation `json:"expect"`
}

// Expectation lists the chart facts a case pins down. Empty fields are not
// checked.
type Expectation struct {
	Name        string            `json:"name,omitempty"`
	Palace      string            `json:"palace,omitempty"`
	Category    string            `json:"category,omitempty"`
	Variant     string            `json:"variant,omitempty"`
	HiddenCount *int              `json:"hidden_count,omitempty"`
	GlobalTags  []string          `json:"global_tags,omitempty"`
	Lines       []LineExpectation `json:"lines,omitempty"`
}

// LineExpectation pins one line by its 1-based position. Tags are matched
// against both the energy tags and the tag engine's line tags.
type LineExpectation struct {
	Position   int      `json:"position"`
	Tier       string   `json:"tier,omitempty"`
	FinalScore *int     `json:"final_score,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToInput converts a FixtureCase to an engine input.
func (fc *FixtureCase) ToInput() (chart.Input, error) {
	lines, err := chart.ParseLines(fc.Lines)
	if err != nil {
		return chart.Input{}, err
	}
	return chart.Input{Lines: lines, RuleSetKey: fc.RuleSet, Date: fc.Date}, nil
}

// ExpectationFrom captures everything Check compares from a computed chart,
// so a fixture built from it passes against the same engine.
func ExpectationFrom(res *chart.Result) Expectation {
	hidden := res.HiddenCount
	exp := Expectation{
		Name:        res.Hexagram.Name,
		Palace:      res.Hexagram.Palace.String(),
		Category:    res.Hexagram.Category.String(),
		HiddenCount: &hidden,
		GlobalTags:  tagCodes(res.Tags.Global),
	}
	if res.Variant != nil {
		exp.Variant = res.Variant.Name
	}
	for _, r := range res.Energy {
		score := r.FinalScore
		le := LineExpectation{
			Position:   r.Position,
			Tier:       string(r.Tier),
			FinalScore: &score,
			Tags:       tagCodes(r.Tags),
		}
		exp.Lines = append(exp.Lines, le)
	}
	return exp
}

// FixtureFromRecord turns an archived chart into a fixture case whose
// expectations are the archived result.
func FixtureFromRecord(rec archive.ChartRecord) (FixtureCase, error) {
	var in chart.Input
	if err := json.Unmarshal([]byte(rec.InputJSON), &in); err != nil {
		return FixtureCase{}, fmt.Errorf("decode input of chart %s: %w", rec.ChartID, err)
	}
	var res chart.Result
	if err := json.Unmarshal([]byte(rec.ResultJSON), &res); err != nil {
		return FixtureCase{}, fmt.Errorf("decode result of chart %s: %w", rec.ChartID, err)
	}
	if res.Hexagram == nil {
		return FixtureCase{}, fmt.Errorf("chart %s has no hexagram", rec.ChartID)
	}
	name := rec.ChartID
	if rec.Note != "" {
		name = rec.Note
	}
	return FixtureCase{
		Name:    name,
		Lines:   chart.FormatLines(in.Lines),
		RuleSet: in.RuleSetKey,
		Date:    in.Date,
		Expect:  ExpectationFrom(&res),
	}, nil
}

// #endregion fixture-loader
