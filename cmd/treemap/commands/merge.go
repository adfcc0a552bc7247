package commands

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const (
	mergeCmdUse   = "merge <base> <overlay>"
	mergeCmdShort = "Merge two snapshots, overlay values winning on equal keys"
	mergeArgsNum  = 2
)

func newMergeCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   mergeCmdUse,
		Short: mergeCmdShort,
		Args:  cobra.ExactArgs(mergeArgsNum),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return ErrNoOutput
			}

			return a.run(cmd, func(ctx context.Context) error {
				return a.runMerge(ctx, args[0], args[1], output)
			})
		},
	}

	cmd.Flags().StringVarP(&output, outputFlag, outputShort, "", "output snapshot path")

	return cmd
}

func (a *app) runMerge(ctx context.Context, basePath, overlayPath, output string) error {
	base, err := a.loadSnapshot(ctx, basePath)
	if err != nil {
		return err
	}

	overlay, err := a.loadSnapshot(ctx, overlayPath)
	if err != nil {
		return err
	}

	// Into an empty map, PutAll of a sorted map takes the linear build path.
	merged := a.newMap()

	err = merged.PutAll(base)
	if err != nil {
		return err
	}

	err = merged.PutAll(overlay)
	if err != nil {
		return err
	}

	size, err := a.saveSnapshot(ctx, output, merged)
	if err != nil {
		return err
	}

	a.printf("merged %s pairs into %s (%s)\n",
		humanize.Comma(int64(merged.Len())), output, humanize.Bytes(uint64(max(size, 0))))

	return nil
}
