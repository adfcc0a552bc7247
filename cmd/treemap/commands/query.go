package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treemap/pkg/treemap"
)

const (
	queryCmdUse   = "query <snapshot> <get|floor|ceiling|higher|lower|first|last> [key]"
	queryCmdShort = "Answer a navigation query against a snapshot"
	queryMinArgs  = 2
	queryMaxArgs  = 3
)

var (
	// ErrNoResult is returned when a query has no answer.
	ErrNoResult = errors.New("no matching key")
	// ErrUnknownQuery is returned for unsupported query operations.
	ErrUnknownQuery = errors.New("unknown query")
	// ErrQueryKey is returned when a query is missing its key or has an extra one.
	ErrQueryKey = errors.New("bad query key")
)

type keyedQuery func(m *treemap.Map[string], key int) treemap.Entry[string]

var keyedQueries = map[string]keyedQuery{
	"get": func(m *treemap.Map[string], key int) treemap.Entry[string] {
		if value, ok := m.Get(key); ok {
			return treemap.NewEntry(key, value)
		}

		return nil
	},
	"floor":   func(m *treemap.Map[string], key int) treemap.Entry[string] { return m.FloorEntry(key) },
	"ceiling": func(m *treemap.Map[string], key int) treemap.Entry[string] { return m.CeilingEntry(key) },
	"higher":  func(m *treemap.Map[string], key int) treemap.Entry[string] { return m.HigherEntry(key) },
	"lower":   func(m *treemap.Map[string], key int) treemap.Entry[string] { return m.LowerEntry(key) },
}

var unkeyedQueries = map[string]func(m *treemap.Map[string]) treemap.Entry[string]{
	"first": (*treemap.Map[string]).FirstEntry,
	"last":  (*treemap.Map[string]).LastEntry,
}

func newQueryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   queryCmdUse,
		Short: queryCmdShort,
		Args:  cobra.RangeArgs(queryMinArgs, queryMaxArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				return a.runQuery(ctx, args[0], args[1], args[2:])
			})
		},
	}
}

func (a *app) runQuery(ctx context.Context, path, op string, rest []string) error {
	m, err := a.loadSnapshot(ctx, path)
	if err != nil {
		return err
	}

	entry, err := answer(m, op, rest)
	if err != nil {
		return err
	}

	if entry == nil {
		return fmt.Errorf("%w: %s %v", ErrNoResult, op, rest)
	}

	fmt.Fprintf(a.stdout, "%d\t%s\n", entry.Key(), entry.Value())

	return nil
}

func answer(m *treemap.Map[string], op string, rest []string) (treemap.Entry[string], error) {
	if query, ok := unkeyedQueries[op]; ok {
		if len(rest) != 0 {
			return nil, fmt.Errorf("%w: %s takes no key", ErrQueryKey, op)
		}

		return query(m), nil
	}

	query, ok := keyedQueries[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuery, op)
	}

	if len(rest) != 1 {
		return nil, fmt.Errorf("%w: %s needs a key", ErrQueryKey, op)
	}

	key, err := strconv.Atoi(rest[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryKey, err)
	}

	return query(m, key), nil
}
