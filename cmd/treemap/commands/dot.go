package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const (
	dotCmdUse   = "dot <snapshot>"
	dotCmdShort = "Export the tree of a snapshot as Graphviz DOT"
	dotArgsNum  = 1
)

func newDotCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   dotCmdUse,
		Short: dotCmdShort,
		Args:  cobra.ExactArgs(dotArgsNum),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				return a.runDot(ctx, args[0], output)
			})
		},
	}

	cmd.Flags().StringVarP(&output, outputFlag, outputShort, "", "write DOT to file instead of stdout")

	return cmd
}

func (a *app) runDot(ctx context.Context, path, output string) (err error) {
	m, err := a.loadSnapshot(ctx, path)
	if err != nil {
		return err
	}

	var w io.Writer = a.stdout

	if output != "" {
		f, createErr := os.Create(output)
		if createErr != nil {
			return fmt.Errorf("create dot output: %w", createErr)
		}

		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close dot output: %w", closeErr)
			}
		}()

		w = f
	}

	return m.Tree().WriteDot(w)
}
