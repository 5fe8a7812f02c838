package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/liuyao-engine/internal/archive"
	"github.com/danielpatrickdp/liuyao-engine/internal/display"
)

type inspectOptions struct {
	last    int
	id      string
	jsonOut bool
	plain   bool
}

func newInspectCmd(root *rootOptions) *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List archived charts or show one with its audit trail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := root.openArchive()
			if err != nil {
				return err
			}
			defer store.Close()
			if opts.id != "" {
				return runDetailMode(cmd.OutOrStdout(), store, opts)
			}
			return runListMode(cmd.OutOrStdout(), store, opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.last, "last", 20, "show N most recent charts")
	f.StringVar(&opts.id, "id", "", "show a single chart")
	f.BoolVar(&opts.jsonOut, "json", false, "output as JSON instead of a table")
	f.BoolVar(&opts.plain, "plain", false, "render without colour")
	return cmd
}

// #region list-mode

type listRow struct {
	ChartID   string `json:"chart_id"`
	ParentID  string `json:"parent_id,omitempty"`
	RuleSet   string `json:"rule_set"`
	Lines     string `json:"lines"`
	Name      string `json:"name"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

func runListMode(w io.Writer, store *archive.Store, opts *inspectOptions) error {
	recs, err := store.ListCharts(opts.last)
	if err != nil {
		return err
	}
	rows := make([]listRow, len(recs))
	for i, rec := range recs {
		rows[i] = listRow{
			ChartID:   rec.ChartID,
			ParentID:  rec.ParentID,
			RuleSet:   rec.RuleSet,
			Lines:     rec.Lines,
			Name:      rec.Name,
			Note:      rec.Note,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if opts.jsonOut {
		return printJSON(w, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "no charts archived")
		return nil
	}
	fmt.Fprintf(w, "%-8s  %-8s  %-11s  %-16s  %-20s  %s\n", "Chart", "Parent", "Lines", "Rule set", "Time", "Hexagram")
	for _, r := range rows {
		parent := "—"
		if r.ParentID != "" {
			parent = shortID(r.ParentID)
		}
		fmt.Fprintf(w, "%-8s  %-8s  %-11s  %-16s  %-20s  %s", shortID(r.ChartID), parent, r.Lines, r.RuleSet, r.CreatedAt, r.Name)
		if r.Note != "" {
			fmt.Fprintf(w, "  (%s)", r.Note)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type auditRow struct {
	Position     int    `json:"position"`
	BaseScore    int    `json:"base_score"`
	FinalScore   int    `json:"final_score"`
	Tier         string `json:"tier"`
	TerminatedBy string `json:"terminated_by,omitempty"`
}

type detailOutput struct {
	listRow
	Recasts []string   `json:"recasts,omitempty"`
	Audit   []auditRow `json:"audit"`
}

func runDetailMode(w io.Writer, store *archive.Store, opts *inspectOptions) error {
	rec, err := store.GetChart(opts.id)
	if err != nil {
		return err
	}
	trail, err := store.AuditTrail(rec.ChartID)
	if err != nil {
		return err
	}
	recasts, err := store.Recasts(rec.ChartID)
	if err != nil {
		return err
	}

	out := detailOutput{
		listRow: listRow{
			ChartID:   rec.ChartID,
			ParentID:  rec.ParentID,
			RuleSet:   rec.RuleSet,
			Lines:     rec.Lines,
			Name:      rec.Name,
			Note:      rec.Note,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		},
		Audit: make([]auditRow, len(trail)),
	}
	for i, a := range trail {
		out.Audit[i] = auditRow{
			Position:     a.Position,
			BaseScore:    a.BaseScore,
			FinalScore:   a.FinalScore,
			Tier:         a.Tier,
			TerminatedBy: a.TerminatedBy,
		}
	}
	for _, r := range recasts {
		out.Recasts = append(out.Recasts, r.ChartID)
	}

	if opts.jsonOut {
		return printJSON(w, out)
	}

	res, err := store.LoadResult(rec.ChartID)
	if err != nil {
		return err
	}
	styles := display.DefaultStyles()
	if opts.plain {
		styles = display.PlainStyles()
	}

	fmt.Fprintf(w, "Chart:    %s\n", out.ChartID)
	if out.ParentID != "" {
		fmt.Fprintf(w, "Parent:   %s\n", out.ParentID)
	}
	fmt.Fprintf(w, "Created:  %s\n", out.CreatedAt)
	if out.Note != "" {
		fmt.Fprintf(w, "Note:     %s\n", out.Note)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, display.Render(res, styles))

	fmt.Fprintf(w, "\n%-4s  %5s  %5s  %-4s  %s\n", "Pos", "Base", "Final", "Tier", "Stopped at")
	for _, a := range out.Audit {
		stop := "—"
		if a.TerminatedBy != "" {
			stop = a.TerminatedBy
		}
		fmt.Fprintf(w, "%-4d  %5d  %5d  %-4s  %s\n", a.Position, a.BaseScore, a.FinalScore, a.Tier, stop)
	}
	for _, id := range out.Recasts {
		fmt.Fprintf(w, "Recast:   %s\n", id)
	}
	return nil
}

// #endregion detail-mode

// #region helpers

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion helpers
