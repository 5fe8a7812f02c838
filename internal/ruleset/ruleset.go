// Package ruleset loads school rule sets from YAML into a read-only registry.
package ruleset

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
)

//go:embed rulesets.yaml
var defaultYAML []byte

// DefaultKey is the rule set used when a caller does not name one.
const DefaultKey = "jingfang-basic"

// #region registry
// Registry is a read-only set of rule sets keyed by RuleSet.Key.
type Registry struct {
	sets map[string]*RuleSet
}

// Default decodes the embedded rule sets.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// LoadFile decodes rule sets from a YAML file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule sets: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML rule-set document.
func Load(r io.Reader) (*Registry, error) {
	var raw rawFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errs.Validation("rule_set", "decode rule sets").WithCause(err)
	}
	if len(raw.RuleSets) == 0 {
		return nil, errs.Validation("rule_set", "no rule sets declared")
	}
	reg := &Registry{sets: make(map[string]*RuleSet, len(raw.RuleSets))}
	for _, rr := range raw.RuleSets {
		rs, err := rr.convert()
		if err != nil {
			return nil, err
		}
		if _, dup := reg.sets[rs.Key]; dup {
			return nil, errs.Validation("rule_set", "duplicate rule set key %q", rs.Key)
		}
		reg.sets[rs.Key] = rs
	}
	return reg, nil
}

// Lookup returns the rule set for key.
func (r *Registry) Lookup(key string) (*RuleSet, error) {
	rs, ok := r.sets[key]
	if !ok {
		return nil, errs.Validation("rule_set", "unknown rule set %q", key)
	}
	return rs, nil
}

// Keys returns every registered key, sorted.
func (r *Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r.sets))
}

// #endregion registry

// #region start-god
// StartGod returns the god the rotation starts from for a day pillar, or the
// first sequence entry when the day is not in the start table.
func (rs *RuleSet) StartGod(day ganzhi.Pillar) hexagram.SixGod {
	var (
		g  hexagram.SixGod
		ok bool
	)
	switch rs.SixGod.BaseBy {
	case BaseByDayBranch:
		g, ok = rs.SixGod.StartByBranch[day.Branch]
	default:
		g, ok = rs.SixGod.StartByStem[day.Stem]
	}
	if !ok {
		return rs.SixGod.Sequence[0]
	}
	return g
}

// #endregion start-god

// #region convert
// stemSpec accepts either a scalar stem or a sequence of three.
type stemSpec []string

func (s *stemSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = stemSpec{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	return fmt.Errorf("line %d: trigram stem must be a stem or a list of three", node.Line)
}

func (rr rawRuleSet) convert() (*RuleSet, error) {
	if rr.Key == "" {
		return nil, errs.Validation("rule_set", "rule set without key")
	}
	fail := func(format string, args ...any) error {
		return errs.Validation("rule_set", "%s: %s", rr.Key, fmt.Sprintf(format, args...))
	}

	rs := &RuleSet{
		Key:           rr.Key,
		Name:          rr.Name,
		WorldResponse: rr.WorldResponse,
		NaJia: NaJiaRule{
			TrigramStem:    map[hexagram.TrigramName][]ganzhi.Stem{},
			StemSequence:   map[hexagram.TrigramName][6]ganzhi.Stem{},
			BranchSequence: map[hexagram.TrigramName][6]ganzhi.Branch{},
		},
		SixGod: SixGodRule{
			BaseBy:        BaseBy(rr.SixGod.BaseBy),
			StartByStem:   map[ganzhi.Stem]hexagram.SixGod{},
			StartByBranch: map[ganzhi.Branch]hexagram.SixGod{},
		},
	}

	for name, spec := range rr.NaJia.TrigramStem {
		t, ok := hexagram.ParseTrigram(name)
		if !ok {
			return nil, fail("unknown trigram %q", name)
		}
		if len(spec) != 1 && len(spec) != 3 {
			return nil, fail("trigram %s needs one stem or three, got %d", name, len(spec))
		}
		stems, err := parseStems(spec)
		if err != nil {
			return nil, fail("trigram %s: %v", name, err)
		}
		rs.NaJia.TrigramStem[t] = stems
	}
	for name, seq := range rr.NaJia.StemSequence {
		t, ok := hexagram.ParseTrigram(name)
		if !ok {
			return nil, fail("unknown trigram %q", name)
		}
		if len(seq) != 6 {
			return nil, fail("stem sequence for %s needs 6 entries, got %d", name, len(seq))
		}
		stems, err := parseStems(seq)
		if err != nil {
			return nil, fail("stem sequence for %s: %v", name, err)
		}
		rs.NaJia.StemSequence[t] = [6]ganzhi.Stem(stems)
	}
	for name, seq := range rr.NaJia.BranchSequence {
		t, ok := hexagram.ParseTrigram(name)
		if !ok {
			return nil, fail("unknown trigram %q", name)
		}
		if len(seq) != 6 {
			return nil, fail("branch sequence for %s needs 6 entries, got %d", name, len(seq))
		}
		branches, err := parseBranches(seq)
		if err != nil {
			return nil, fail("branch sequence for %s: %v", name, err)
		}
		rs.NaJia.BranchSequence[t] = [6]ganzhi.Branch(branches)
	}
	if len(rr.NaJia.DefaultBranches) == 0 {
		return nil, fail("defaultBranches is empty")
	}
	def, err := parseBranches(rr.NaJia.DefaultBranches)
	if err != nil {
		return nil, fail("defaultBranches: %v", err)
	}
	rs.NaJia.DefaultBranches = def

	switch rs.SixGod.BaseBy {
	case BaseByDayStem, BaseByDayBranch:
	default:
		return nil, fail("sixGod.baseBy must be %q or %q, got %q", BaseByDayStem, BaseByDayBranch, rr.SixGod.BaseBy)
	}
	if len(rr.SixGod.Sequence) != 6 {
		return nil, fail("six god sequence needs 6 entries, got %d", len(rr.SixGod.Sequence))
	}
	seen := map[hexagram.SixGod]bool{}
	for i, label := range rr.SixGod.Sequence {
		g, ok := hexagram.ParseSixGod(label)
		if !ok {
			return nil, fail("unknown six god %q", label)
		}
		if seen[g] {
			return nil, fail("six god %s repeated in sequence", label)
		}
		seen[g] = true
		rs.SixGod.Sequence[i] = g
	}
	for s, label := range rr.SixGod.StartByStem {
		stem, err := ganzhi.ParseStem(s)
		if err != nil || stem == ganzhi.StemNone {
			return nil, fail("startByStem: unknown stem %q", s)
		}
		g, ok := hexagram.ParseSixGod(label)
		if !ok {
			return nil, fail("startByStem: unknown six god %q", label)
		}
		rs.SixGod.StartByStem[stem] = g
	}
	for b, label := range rr.SixGod.StartByBranch {
		branch, err := ganzhi.ParseBranch(b)
		if err != nil || branch == ganzhi.BranchNone {
			return nil, fail("startByBranch: unknown branch %q", b)
		}
		g, ok := hexagram.ParseSixGod(label)
		if !ok {
			return nil, fail("startByBranch: unknown six god %q", label)
		}
		rs.SixGod.StartByBranch[branch] = g
	}
	return rs, nil
}

func parseStems(labels []string) ([]ganzhi.Stem, error) {
	out := make([]ganzhi.Stem, len(labels))
	for i, l := range labels {
		s, err := ganzhi.ParseStem(l)
		if err != nil {
			return nil, err
		}
		if s == ganzhi.StemNone {
			return nil, fmt.Errorf("empty stem at %d", i)
		}
		out[i] = s
	}
	return out, nil
}

func parseBranches(labels []string) ([]ganzhi.Branch, error) {
	out := make([]ganzhi.Branch, len(labels))
	for i, l := range labels {
		b, err := ganzhi.ParseBranch(l)
		if err != nil {
			return nil, err
		}
		if b == ganzhi.BranchNone {
			return nil, fmt.Errorf("empty branch at %d", i)
		}
		out[i] = b
	}
	return out, nil
}

// #endregion convert
