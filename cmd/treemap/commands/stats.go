package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treemap/pkg/snapshot"
)

const (
	statsCmdUse   = "stats <snapshot>"
	statsCmdShort = "Show tree shape and snapshot statistics"
	statsArgsNum  = 1
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   statsCmdUse,
		Short: statsCmdShort,
		Args:  cobra.ExactArgs(statsArgsNum),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				return a.runStats(ctx, args[0])
			})
		},
	}
}

func (a *app) runStats(ctx context.Context, path string) error {
	info, err := snapshot.Inspect(path)
	if err != nil {
		return err
	}

	m, err := a.loadSnapshot(ctx, path)
	if err != nil {
		return err
	}

	tree := m.Tree()
	arena := tree.Allocator()

	tbl := a.newTable()
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Pairs", humanize.Comma(int64(m.Len()))},
		{"Height", tree.Height()},
		{"Black height", tree.BlackHeight()},
		{"Arena used", humanize.Comma(int64(arena.Used()))},
		{"Arena free", humanize.Comma(int64(arena.Free()))},
		{"Snapshot bytes", humanize.Bytes(uint64(max(info.Bytes, 0)))},
		{"Compressed", info.Compressed},
		{"Codec", a.cfg.Snapshot.Codec},
	})

	fmt.Fprintln(a.stdout, tbl.Render())

	if checkErr := tree.Check(); checkErr != nil {
		a.paint(color.FgRed).Fprintf(a.stdout, "tree invalid: %v\n", checkErr)

		return fmt.Errorf("%s: %w", path, checkErr)
	}

	a.paint(color.FgGreen).Fprintln(a.stdout, "tree valid")

	return nil
}
