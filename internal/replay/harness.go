// Package replay runs fixture cases through the chart engine and reports
// where the computed charts drift from the recorded expectations.
package replay

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/energy"
	"github.com/danielpatrickdp/liuyao-engine/internal/tags"
)

// #region types
// CaseResult captures the outcome of replaying one fixture case.
type CaseResult struct {
	Name       string
	Passed     bool
	Mismatches []string
	Err        error // set when the engine rejected the case
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
}

// #endregion types

// #region replay
// Run replays every case of f through engine, at most parallel at a time.
// Case failures are recorded in the results; the returned error is only set
// when ctx ends first.
func Run(ctx context.Context, engine *chart.Engine, f *Fixture, parallel int) ([]CaseResult, error) {
	results := make([]CaseResult, len(f.Cases))
	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range f.Cases {
		fc := &f.Cases[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runCase(engine, fc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runCase(engine *chart.Engine, fc *FixtureCase) CaseResult {
	r := CaseResult{Name: fc.Name}
	in, err := fc.ToInput()
	if err != nil {
		r.Err = err
		return r
	}
	res, err := engine.Compute(in)
	if err != nil {
		r.Err = err
		return r
	}
	r.Mismatches = Check(fc.Expect, res)
	r.Passed = len(r.Mismatches) == 0
	return r
}

// Check compares res against exp and describes every difference.
func Check(exp Expectation, res *chart.Result) []string {
	var out []string
	diff := func(field, want, got string) {
		if want != "" && want != got {
			out = append(out, fmt.Sprintf("%s: want %s, got %s", field, want, got))
		}
	}

	diff("name", exp.Name, res.Hexagram.Name)
	diff("palace", exp.Palace, res.Hexagram.Palace.String())
	diff("category", exp.Category, res.Hexagram.Category.String())
	variant := ""
	if res.Variant != nil {
		variant = res.Variant.Name
	}
	diff("variant", exp.Variant, variant)
	if exp.HiddenCount != nil && *exp.HiddenCount != res.HiddenCount {
		out = append(out, fmt.Sprintf("hidden_count: want %d, got %d", *exp.HiddenCount, res.HiddenCount))
	}

	global := tagCodes(res.Tags.Global)
	for _, code := range exp.GlobalTags {
		if !slices.Contains(global, code) {
			out = append(out, fmt.Sprintf("global: missing tag %s", code))
		}
	}

	for _, le := range exp.Lines {
		idx := slices.IndexFunc(res.Energy, func(e energy.Result) bool { return e.Position == le.Position })
		if idx < 0 {
			out = append(out, fmt.Sprintf("line %d: not in result", le.Position))
			continue
		}
		e := res.Energy[idx]
		field := fmt.Sprintf("line %d tier", le.Position)
		diff(field, le.Tier, string(e.Tier))
		if le.FinalScore != nil && *le.FinalScore != e.FinalScore {
			out = append(out, fmt.Sprintf("line %d final_score: want %d, got %d", le.Position, *le.FinalScore, e.FinalScore))
		}

		have := tagCodes(e.Tags)
		for _, lt := range res.Tags.Lines {
			if lt.Position == le.Position {
				have = append(have, tagCodes(lt.Tags)...)
			}
		}
		for _, code := range le.Tags {
			if !slices.Contains(have, code) {
				out = append(out, fmt.Sprintf("line %d: missing tag %s", le.Position, code))
			}
		}
	}
	return out
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CaseResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Errored++
		case r.Passed:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}

// #endregion replay

func tagCodes(ts []tags.TagInfo) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Code
	}
	return out
}
