package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/liuyao-engine/internal/archive"
	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/logging"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootOptions are the persistent flags every subcommand reads.
type rootOptions struct {
	logLevel string
	logJSON  bool
	rules    string
	dbPath   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "liuyao",
		Short:        "Liuyao hexagram chart engine",
		Long:         "liuyao builds annotated Liuyao charts: NaJia, hidden spirits, six gods,\nline energy scores and condition tags.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	f.StringVar(&opts.rules, "rules", "", "rule-set YAML file (default: built-in rule sets)")
	f.StringVar(&opts.dbPath, "db", envOr("LIUYAO_DB", "liuyao.db"), "chart archive database")

	cmd.AddCommand(
		newCastCmd(opts),
		newBatchCmd(opts),
		newRulesetsCmd(opts),
		newReplayCmd(opts),
		newInspectCmd(opts),
		newExportCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// #region helpers
func (o *rootOptions) logger() (*zap.Logger, error) {
	return logging.NewLogger(o.logLevel, o.logJSON)
}

func (o *rootOptions) registry() (*ruleset.Registry, error) {
	if o.rules == "" {
		return ruleset.Default()
	}
	reg, err := ruleset.LoadFile(o.rules)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", o.rules, err)
	}
	return reg, nil
}

func (o *rootOptions) engine(logger *zap.Logger) (*chart.Engine, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, err
	}
	return chart.NewEngine(reg, chart.DefaultConfig(), logger), nil
}

func (o *rootOptions) openArchive() (*archive.Store, error) {
	store, err := archive.NewStore(o.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", o.dbPath, err)
	}
	return store, nil
}

// dateFlags are the four pillar flags shared by commands that build a date.
type dateFlags struct {
	year, month, day, hour string
}

func (d *dateFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&d.year, "year", "", "year pillar, e.g. 甲辰")
	f.StringVar(&d.month, "month", "", "month pillar (required)")
	f.StringVar(&d.day, "day", "", "day pillar (required)")
	f.StringVar(&d.hour, "hour", "", "hour pillar")
}

// date parses the flags. Missing month or day is left to engine validation.
func (d *dateFlags) date() (chart.Date, error) {
	var out chart.Date
	for _, p := range []struct {
		dst   *ganzhi.Pillar
		label string
		name  string
	}{
		{&out.Year, d.year, "year"},
		{&out.Month, d.month, "month"},
		{&out.Day, d.day, "day"},
		{&out.Hour, d.hour, "hour"},
	} {
		if p.label == "" {
			continue
		}
		v, err := ganzhi.ParsePillar(p.label)
		if err != nil {
			return chart.Date{}, fmt.Errorf("--%s: %w", p.name, err)
		}
		*p.dst = v
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
