package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
)

type batchOptions struct {
	file    string
	jsonOut bool
	save    bool
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute a JSON array of chart inputs concurrently",
		Long:  "batch reads a JSON array of chart inputs (the same shape cast --json embeds)\nfrom a file or stdin and computes them concurrently, keeping input order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "-", "input file, - for stdin")
	f.BoolVar(&opts.jsonOut, "json", false, "print results as a JSON array")
	f.BoolVar(&opts.save, "archive", false, "store every chart in the archive database")
	return cmd
}

func runBatch(cmd *cobra.Command, root *rootOptions, opts *batchOptions) error {
	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var r io.Reader = cmd.InOrStdin()
	if opts.file != "-" {
		fh, err := os.Open(opts.file)
		if err != nil {
			return fmt.Errorf("open %s: %w", opts.file, err)
		}
		defer fh.Close()
		r = fh
	}
	var inputs []chart.Input
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return fmt.Errorf("decode inputs: %w", err)
	}

	engine, err := root.engine(logger)
	if err != nil {
		return err
	}
	results, err := engine.ComputeAll(cmd.Context(), inputs)
	if err != nil {
		return err
	}
	logger.Info("batch computed", zap.Int("charts", len(results)))

	if opts.save {
		store, err := root.openArchive()
		if err != nil {
			return err
		}
		defer store.Close()
		for i, res := range results {
			if _, err := store.SaveChart(inputs[i], res, ""); err != nil {
				return fmt.Errorf("archive input %d: %w", i, err)
			}
		}
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, res := range results {
		line := fmt.Sprintf("%d\t%s\t%s\t%s宫%s", i+1, chart.FormatLines(inputs[i].Lines), res.Hexagram.Name, res.Hexagram.Palace, res.Hexagram.Category)
		if res.Variant != nil {
			line += "\t→ " + res.Variant.Name
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
