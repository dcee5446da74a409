package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"gitlab.com/tinyland/lab/coraldeck/config"
	"gitlab.com/tinyland/lab/coraldeck/telemetry"
)

// runHistory prints the last n archived samples from the dashboard's
// sample database as a table, newest first.
func runHistory(ctx context.Context, cfg *config.Config, n int, w io.Writer) error {
	if cfg.Dashboard.DBPath == "" {
		return fmt.Errorf("no sample archive configured (dashboard.db_path)")
	}

	store, err := telemetry.Open(cfg.Dashboard.DBPath)
	if err != nil {
		return fmt.Errorf("open sample archive: %w", err)
	}
	defer store.Close()

	samples, err := store.Recent(ctx, n)
	if err != nil {
		return fmt.Errorf("read samples: %w", err)
	}
	renderHistory(samples, w)
	return nil
}

func renderHistory(samples []telemetry.Sample, w io.Writer) {
	if len(samples) == 0 {
		fmt.Fprintln(w, "no samples archived yet")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false

	if width, _, err := term.GetSize(os.Stdout.Fd()); err == nil && width > 0 {
		tw.SetAllowedRowLength(width)
	}

	tw.AppendHeader(table.Row{"Timestamp", "Metric", "%", "Value", "Total"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "%", Align: text.AlignRight},
		{Name: "Value", Align: text.AlignRight},
		{Name: "Total", Align: text.AlignRight},
	})

	for _, s := range samples {
		tw.AppendRow(table.Row{
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Identifier,
			strconv.FormatFloat(s.Quotient, 'f', 1, 64),
			strconv.FormatFloat(s.Value, 'f', -1, 64),
			strconv.FormatFloat(s.Total, 'f', -1, 64),
		})
	}
	tw.Render()
}
