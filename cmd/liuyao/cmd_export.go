package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/liuyao-engine/internal/archive"
	"github.com/danielpatrickdp/liuyao-engine/internal/replay"
)

type exportOptions struct {
	ids         []string
	last        int
	output      string
	description string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write archived charts out as a replay fixture",
		Long:  "export turns archived charts into fixture cases whose expectations are the\narchived results, so later engine changes can be replayed against them.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&opts.ids, "id", nil, "chart IDs to export (default: the most recent charts)")
	f.IntVar(&opts.last, "last", 20, "export the N most recent charts when no --id is given")
	f.StringVarP(&opts.output, "output", "o", "", "fixture file to write (required)")
	f.StringVar(&opts.description, "description", "", "fixture description")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runExport(cmd *cobra.Command, root *rootOptions, opts *exportOptions) error {
	store, err := root.openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	var recs []archive.ChartRecord
	if len(opts.ids) > 0 {
		for _, id := range opts.ids {
			rec, err := store.GetChart(id)
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
	} else {
		if recs, err = store.ListCharts(opts.last); err != nil {
			return err
		}
	}
	if len(recs) == 0 {
		return fmt.Errorf("export: no charts in %s", root.dbPath)
	}

	desc := opts.description
	if desc == "" {
		desc = fmt.Sprintf("Exported from %s (%d charts)", root.dbPath, len(recs))
	}
	f := &replay.Fixture{Description: desc}
	for _, rec := range recs {
		fc, err := replay.FixtureFromRecord(rec)
		if err != nil {
			return err
		}
		f.Cases = append(f.Cases, fc)
	}
	if err := replay.WriteFixture(opts.output, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d cases to %s\n", len(f.Cases), opts.output)
	return nil
}
