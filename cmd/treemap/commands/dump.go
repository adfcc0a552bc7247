package commands

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treemap/pkg/treemap"
)

const (
	dumpCmdUse   = "dump <snapshot>"
	dumpCmdShort = "Print a key range of a snapshot as a table"
	dumpArgsNum  = 1
)

type dumpOptions struct {
	from          int
	to            int
	fromExclusive bool
	toInclusive   bool
	reverse       bool
	limit         int
}

func newDumpCommand(a *app) *cobra.Command {
	var opts dumpOptions

	cmd := &cobra.Command{
		Use:   dumpCmdUse,
		Short: dumpCmdShort,
		Args:  cobra.ExactArgs(dumpArgsNum),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasFrom := cmd.Flags().Changed("from")
			hasTo := cmd.Flags().Changed("to")

			if !cmd.Flags().Changed("limit") {
				opts.limit = a.cfg.Render.Limit
			}

			return a.run(cmd, func(ctx context.Context) error {
				return a.runDump(ctx, args[0], opts, hasFrom, hasTo)
			})
		},
	}

	cmd.Flags().IntVar(&opts.from, "from", 0, "lowest key (inclusive unless --from-exclusive)")
	cmd.Flags().IntVar(&opts.to, "to", 0, "highest key (exclusive unless --to-inclusive)")
	cmd.Flags().BoolVar(&opts.fromExclusive, "from-exclusive", false, "exclude the --from key")
	cmd.Flags().BoolVar(&opts.toInclusive, "to-inclusive", false, "include the --to key")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "print keys in descending order")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum rows to print (0 prints all)")

	return cmd
}

func (a *app) runDump(ctx context.Context, path string, opts dumpOptions, hasFrom, hasTo bool) error {
	m, err := a.loadSnapshot(ctx, path)
	if err != nil {
		return err
	}

	view, err := selectRange(m, opts, hasFrom, hasTo)
	if err != nil {
		return err
	}

	if opts.reverse {
		view = view.DescendingMap()
	}

	tbl := a.newTable()
	tbl.AppendHeader(table.Row{"Key", "Value"})

	rows := 0

	for key, value := range view.All() {
		if opts.limit > 0 && rows == opts.limit {
			break
		}

		tbl.AppendRow(table.Row{key, value})

		rows++
	}

	tbl.AppendFooter(table.Row{"Rows", fmt.Sprintf("%d of %d", rows, view.Len())})

	fmt.Fprintln(a.stdout, tbl.Render())

	return nil
}

func selectRange(m *treemap.Map[string], opts dumpOptions, hasFrom, hasTo bool) (treemap.NavigableMap[string], error) {
	switch {
	case hasFrom && hasTo:
		return m.SubMap(opts.from, !opts.fromExclusive, opts.to, opts.toInclusive)
	case hasFrom:
		return m.TailMap(opts.from, !opts.fromExclusive)
	case hasTo:
		return m.HeadMap(opts.to, opts.toInclusive)
	default:
		return m, nil
	}
}
