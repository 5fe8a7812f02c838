package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/liuyao-engine/internal/replay"
)

type replayOptions struct {
	file     string
	parallel int
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a fixture and report drift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReplay(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "fixture JSON file (required)")
	f.IntVar(&opts.parallel, "parallel", 4, "cases replayed at once")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runReplay(cmd *cobra.Command, root *rootOptions, opts *replayOptions) error {
	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := replay.LoadFixture(opts.file)
	if err != nil {
		return err
	}
	engine, err := root.engine(logger)
	if err != nil {
		return err
	}
	results, err := replay.Run(cmd.Context(), engine, f, opts.parallel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "ERROR %s: %v\n", r.Name, r.Err)
		case r.Passed:
			fmt.Fprintf(out, "PASS  %s\n", r.Name)
		default:
			fmt.Fprintf(out, "FAIL  %s\n", r.Name)
			for _, m := range r.Mismatches {
				fmt.Fprintf(out, "      %s\n", m)
			}
		}
	}

	s := replay.Summarize(results)
	fmt.Fprintf(out, "\n%d cases: %d passed, %d failed, %d errored\n", s.Total, s.Passed, s.Failed, s.Errored)
	if s.Failed+s.Errored > 0 {
		return fmt.Errorf("replay: %d of %d cases did not pass", s.Failed+s.Errored, s.Total)
	}
	return nil
}
