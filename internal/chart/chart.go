// Package chart turns six cast lines and a date into a complete annotated
// chart: hexagram and derived forms, NaJia, hidden spirits, six gods, energy
// scores and tags.
package chart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/liuyao-engine/internal/energy"
	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/hexagram"
	"github.com/danielpatrickdp/liuyao-engine/internal/najia"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
	"github.com/danielpatrickdp/liuyao-engine/internal/tags"
)

// #region engine
// Engine computes charts. It holds only read-only collaborators and is safe
// for concurrent use.
type Engine struct {
	rules    *ruleset.Registry
	calc     *energy.Calculator
	config   Config
	logger   *zap.Logger
	validate *validator.Validate
}

// NewEngine creates an engine over a rule-set registry. A nil logger
// disables logging.
func NewEngine(rules *ruleset.Registry, config Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.RegisterStructValidation(validateDate, Date{})
	return &Engine{
		rules:    rules,
		calc:     energy.NewCalculator(config.Energy, logger.Named("energy")),
		config:   config,
		logger:   logger,
		validate: v,
	}
}

// Rules returns the engine's rule-set registry.
func (e *Engine) Rules() *ruleset.Registry { return e.rules }

// Compute builds the full chart for in.
func (e *Engine) Compute(in Input) (*Result, error) {
	if err := e.Validate(in); err != nil {
		return nil, err
	}
	rs, err := e.rules.Lookup(in.RuleSetKey)
	if err != nil {
		return nil, err
	}

	h, err := hexagram.Build(in.Lines)
	if err != nil {
		return nil, err
	}
	mutual, err := hexagram.DeriveMutual(h)
	if err != nil {
		return nil, fmt.Errorf("derive mutual: %w", err)
	}

	month, day := in.Date.Month, in.Date.Day
	lines := najia.Map(h, rs)
	najia.Annotate(&lines, h.Element, month.Branch)
	hidden, err := najia.ResolveHidden(h, &lines, rs, h.Element)
	if err != nil {
		return nil, fmt.Errorf("resolve hidden spirits: %w", err)
	}
	gods := najia.AssignSixGods(&lines, rs, day)
	h.Lines = lines

	var variant *hexagram.Hexagram
	var variantLines [6]hexagram.Line
	if h.HasMoving() {
		if variant, err = hexagram.DeriveVariant(h); err != nil {
			return nil, fmt.Errorf("derive variant: %w", err)
		}
		variantLines = najia.Map(variant, rs)
		najia.Annotate(&variantLines, variant.Element, month.Branch)
		variant.Lines = variantLines
	}

	void := ganzhi.VoidBranches(day)
	placements := ganzhi.Placements(day, month.Branch, in.Date.Year.Branch)

	res := &Result{
		RuleSet:     rs.Key,
		Date:        in.Date,
		Hexagram:    h,
		Variant:     variant,
		Mutual:      mutual,
		HiddenCount: hidden,
		SixGods:     gods,
		Void:        void,
		Placements:  placements,
		Energy:      e.calc.Analyze(energyLines(lines, variantLines), energy.Date{Month: month.Branch, Day: day.Branch, Void: void}),
		Tags: tags.Calculate(tags.Input{
			Hexagram: h,
			Lines:    lines,
			Variant:  variantLines,
			Date: tags.Date{
				Year:       in.Date.Year,
				Month:      month,
				Day:        day,
				Void:       void,
				Placements: placements,
			},
		}),
	}

	e.logger.Debug("chart computed",
		zap.String("hexagram", h.Name),
		zap.String("code", h.Code),
		zap.String("rule_set", rs.Key),
		zap.Int("hidden", hidden),
		zap.Bool("moving", variant != nil),
	)
	return res, nil
}

// ComputeAll computes every input concurrently, keeping input order. The
// first failure cancels the rest.
func (e *Engine) ComputeAll(ctx context.Context, inputs []Input) ([]*Result, error) {
	out := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if e.config.BatchLimit > 0 {
		g.SetLimit(e.config.BatchLimit)
	}
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := e.Compute(in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func energyLines(lines, variant [6]hexagram.Line) []energy.LineInput {
	out := make([]energy.LineInput, len(lines))
	for i, l := range lines {
		out[i] = energy.LineInput{
			Position: l.Position,
			Element:  l.Element,
			Branch:   l.Branch,
			IsMoving: l.IsMoving,
		}
		if l.IsMoving {
			out[i].ChangedBranch = variant[i].Branch
			out[i].ChangedElement = variant[i].Element
		}
	}
	return out
}

// #endregion engine

// #region validation
// Validate checks in without computing anything.
func (e *Engine) Validate(in Input) error {
	err := e.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Validation("input", "%v", err).WithCause(err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errs.Validation("input", "%s", strings.Join(msgs, "; ")).WithCause(err)
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", field, fe.Param())
	case "pillar":
		return fmt.Sprintf("%s is not a valid stem-branch pair", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validateDate requires valid month and day pillars; year and hour are
// checked only when present.
func validateDate(sl validator.StructLevel) {
	d := sl.Current().Interface().(Date)
	check := func(p ganzhi.Pillar, name string, required bool) {
		if p.IsZero() && !required {
			return
		}
		if !p.Valid() {
			sl.ReportError(p, name, name, "pillar", "")
		}
	}
	check(d.Year, "Year", false)
	check(d.Month, "Month", true)
	check(d.Day, "Day", true)
	check(d.Hour, "Hour", false)
}

// #endregion validation

// #region parse
// ParseLines reads six comma-separated coin values in top-down order: 6 old
// yin (moving), 7 young yang, 8 young yin, 9 old yang (moving).
func ParseLines(s string) ([]hexagram.LineInput, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return nil, errs.Validation("line_count", "expected 6 line values, got %d", len(parts))
	}
	out := make([]hexagram.LineInput, 0, 6)
	for i, p := range parts {
		switch strings.TrimSpace(p) {
		case "6":
			out = append(out, hexagram.LineInput{IsYang: false, IsMoving: true})
		case "7":
			out = append(out, hexagram.LineInput{IsYang: true})
		case "8":
			out = append(out, hexagram.LineInput{IsYang: false})
		case "9":
			out = append(out, hexagram.LineInput{IsYang: true, IsMoving: true})
		default:
			return nil, errs.Validation("line_value", "line %d: unknown value %q", i+1, p)
		}
	}
	return out, nil
}

// FormatLines is the inverse of ParseLines.
func FormatLines(lines []hexagram.LineInput) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case l.IsYang && l.IsMoving:
			parts[i] = "9"
		case l.IsYang:
			parts[i] = "7"
		case l.IsMoving:
			parts[i] = "6"
		default:
			parts[i] = "8"
		}
	}
	return strings.Join(parts, ",")
}

// #endregion parse
