package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/display"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

type castOptions struct {
	lines    string
	ruleSet  string
	date     dateFlags
	jsonOut  bool
	showTags bool
	plain    bool
	save     bool
	note     string
	parentID string
}

func newCastCmd(root *rootOptions) *cobra.Command {
	opts := &castOptions{}
	cmd := &cobra.Command{
		Use:   "cast",
		Short: "Compute one chart",
		Example: "  liuyao cast --lines 7,7,8,6,9,8 --year 甲辰 --month 丙寅 --day 甲子\n" +
			"  liuyao cast --lines 9,8,7,7,8,6 --month 丙寅 --day 甲子 --archive --note \"job offer\"",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCast(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.lines, "lines", "", "six coin values top-down: 6 old yin, 7 yang, 8 yin, 9 old yang (required)")
	f.StringVar(&opts.ruleSet, "rule-set", ruleset.DefaultKey, "rule set key")
	f.BoolVar(&opts.jsonOut, "json", false, "print the chart as JSON")
	f.BoolVar(&opts.showTags, "tags", false, "list tags under the chart")
	f.BoolVar(&opts.plain, "plain", false, "render without colour")
	f.BoolVar(&opts.save, "archive", false, "store the chart in the archive database")
	f.StringVar(&opts.note, "note", "", "note stored with an archived chart")
	f.StringVar(&opts.parentID, "recast-of", "", "archive the chart as a recast of this chart ID")
	opts.date.register(cmd)
	_ = cmd.MarkFlagRequired("lines")
	return cmd
}

func runCast(cmd *cobra.Command, root *rootOptions, opts *castOptions) error {
	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, err := root.engine(logger)
	if err != nil {
		return err
	}
	lines, err := chart.ParseLines(opts.lines)
	if err != nil {
		return err
	}
	date, err := opts.date.date()
	if err != nil {
		return err
	}
	in := chart.Input{Lines: lines, RuleSetKey: opts.ruleSet, Date: date}

	res, err := engine.Compute(in)
	if err != nil {
		return err
	}

	if opts.save {
		id, err := archiveChart(root, in, res, opts.note, opts.parentID)
		if err != nil {
			return err
		}
		logger.Info("chart archived", zap.String("chart_id", id), zap.String("hexagram", res.Hexagram.Name))
		fmt.Fprintf(cmd.ErrOrStderr(), "archived %s\n", id)
	}

	return printResult(cmd.OutOrStdout(), res, opts.jsonOut, opts.showTags, opts.plain)
}

func archiveChart(root *rootOptions, in chart.Input, res *chart.Result, note, parentID string) (string, error) {
	store, err := root.openArchive()
	if err != nil {
		return "", err
	}
	defer store.Close()

	if parentID != "" {
		rec, err := store.SaveRecast(parentID, in, res, note)
		if err != nil {
			return "", err
		}
		return rec.ChartID, nil
	}
	rec, err := store.SaveChart(in, res, note)
	if err != nil {
		return "", err
	}
	return rec.ChartID, nil
}

func printResult(w io.Writer, res *chart.Result, jsonOut, showTags, plain bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	styles := display.DefaultStyles()
	if plain {
		styles = display.PlainStyles()
	}
	fmt.Fprint(w, display.Render(res, styles))
	if showTags {
		fmt.Fprintln(w)
		fmt.Fprint(w, display.RenderTags(res, styles))
	}
	return nil
}
