package treemap_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
	"github.com/Sumatoshi-tech/treemap/pkg/treemap"
)

func drainKeys(t *testing.T, it *treemap.Iterator[int]) []int {
	t.Helper()

	var keys []int

	for it.HasNext() {
		key, err := it.Next()
		require.NoError(t, err)

		keys = append(keys, key)
	}

	_, err := it.Next()
	require.ErrorIs(t, err, treemap.ErrNoSuchElement)

	return keys
}

func TestIteratorOrder(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 4, 2, 6, 1, 3, 5, 7)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, drainKeys(t, m.KeyIterator()))
	assert.Equal(t, []int{7, 6, 5, 4, 3, 2, 1}, drainKeys(t, m.DescendingKeyIterator()))

	values := m.ValueIterator()
	first, err := values.Next()
	require.NoError(t, err)
	assert.Equal(t, 10, first)
}

func TestIteratorFailFast(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2, 3)
	it := m.KeyIterator()

	_, err := it.Next()
	require.NoError(t, err)

	_, _, _ = m.Put(10, 100)

	assert.True(t, it.HasNext())

	_, err = it.Next()
	require.ErrorIs(t, err, treemap.ErrConcurrentModification)

	require.ErrorIs(t, it.Remove(), treemap.ErrConcurrentModification)
}

func TestIteratorFailFastOnClear(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2, 3, 4, 5, 6, 7, 8)
	view, err := m.Range(2, 6)
	require.NoError(t, err)

	it := view.KeyIterator()
	m.Clear()

	_, err = it.Next()
	require.ErrorIs(t, err, treemap.ErrConcurrentModification)
}

func TestValueReplacementIsNotStructural(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2, 3)
	it := m.EntryIterator()

	_, err := it.Next()
	require.NoError(t, err)

	_, replaced, err := m.Put(2, 222)
	require.NoError(t, err)
	require.True(t, replaced)

	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, e.Key())
	assert.Equal(t, 222, e.Value())
}

func TestIteratorRemoveWithoutNext(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2)
	it := m.KeyIterator()

	require.ErrorIs(t, it.Remove(), treemap.ErrIllegalState)

	_, err := it.Next()
	require.NoError(t, err)
	require.NoError(t, it.Remove())
	require.ErrorIs(t, it.Remove(), treemap.ErrIllegalState)
}

func TestIteratorRemoveAll(t *testing.T) {
	t.Parallel()

	for _, descending := range []bool{false, true} {
		m := treemap.New[int]()
		for key := range 100 {
			_, _, _ = m.Put((key*37)%101, key)
		}

		want := slices.Collect(m.KeySet().All())
		if descending {
			slices.Reverse(want)
		}

		it := m.KeyIterator()
		if descending {
			it = m.DescendingKeyIterator()
		}

		var seen []int

		for it.HasNext() {
			key, err := it.Next()
			require.NoError(t, err)
			require.NoError(t, it.Remove())
			require.NoError(t, m.Tree().Check())

			seen = append(seen, key)
		}

		assert.Equal(t, want, seen, "descending=%v", descending)
		assert.True(t, m.IsEmpty())
	}
}

func TestIteratorRemoveEveryOther(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)
	it := m.KeyIterator()

	var seen []int

	for it.HasNext() {
		key, err := it.Next()
		require.NoError(t, err)

		seen = append(seen, key)

		if key%2 == 0 {
			require.NoError(t, it.Remove())
		}
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, seen)
	assert.Equal(t, []int{1, 3, 5, 7, 9, 11, 13, 15}, slices.Collect(m.KeySet().All()))
	require.NoError(t, m.Tree().Check())
}

// TestSubMapIteratorStopsAtRelocatedFence removes the last key of a range
// whose successor, the fence, gets moved into the removed key's node.
func TestSubMapIteratorStopsAtRelocatedFence(t *testing.T) {
	t.Parallel()

	keys := []int{1, 2, 3, 4, 5, 6, 7}

	m, err := treemap.FromSortedKeys[int](nil, len(keys), slices.Values(keys), 0)
	require.NoError(t, err)

	node := m.Tree().Find(6)
	require.NotEqual(t, rbtree.Nil, m.Tree().Left(node))
	require.NotEqual(t, rbtree.Nil, m.Tree().Right(node))

	view, err := m.Range(5, 7)
	require.NoError(t, err)

	it := view.KeyIterator()

	var seen []int

	for it.HasNext() {
		key, err := it.Next()
		require.NoError(t, err)

		if key == 6 {
			require.NoError(t, it.Remove())
		}

		seen = append(seen, key)
	}

	assert.Equal(t, []int{5, 6}, seen)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 7}, slices.Collect(m.KeySet().All()))
	require.NoError(t, m.Tree().Check())
}

func TestDescendingSubMapIteratorRemove(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	view, err := m.DescendingMap().SubMap(8, false, 2, true)
	require.NoError(t, err)

	it := view.KeyIterator()

	var seen []int

	for it.HasNext() {
		key, err := it.Next()
		require.NoError(t, err)
		require.NoError(t, it.Remove())

		seen = append(seen, key)
	}

	assert.Equal(t, []int{7, 6, 5, 4, 3, 2}, seen)
	assert.Equal(t, "{1=10, 8=80, 9=90}", m.String())
}

func TestLiveEntrySetValue(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2, 3)
	it := m.EntryIterator()

	for it.HasNext() {
		e, err := it.Next()
		require.NoError(t, err)

		old, err := e.SetValue(e.Value() + 1)
		require.NoError(t, err)
		assert.Equal(t, e.Key()*10, old)
	}

	assert.Equal(t, "{1=11, 2=21, 3=31}", m.String())
}

func TestLiveEntryAfterRemoval(t *testing.T) {
	t.Parallel()

	m := newRangeMap(t, 1, 2, 3)
	it := m.EntryIterator()

	e, err := it.Next()
	require.NoError(t, err)
	require.NoError(t, it.Remove())

	_, err = e.SetValue(5)
	require.ErrorIs(t, err, treemap.ErrIllegalState)
	assert.False(t, m.ContainsKey(1))
}
