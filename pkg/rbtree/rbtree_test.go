package rbtree //nolint:testpackage // tests require access to unexported fields (storage, gaps, color).

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Create a tree storing a set of integers, each mapped to its own key.
func testNewIntSet() *Tree[int] {
	return New[int](nil)
}

func keysOf(tree *Tree[int]) []int {
	var keys []int

	for n := tree.First(); n != Nil; n = tree.Next(n) {
		keys = append(keys, tree.Key(n))
	}

	return keys
}

func reverseKeysOf(tree *Tree[int]) []int {
	var keys []int

	for n := tree.Last(); n != Nil; n = tree.Prev(n) {
		keys = append(keys, tree.Key(n))
	}

	return keys
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, Nil, tree.First())
	assert.Equal(t, Nil, tree.Last())
	assert.Equal(t, Nil, tree.Ceiling(10))
	assert.Equal(t, Nil, tree.Floor(10))
	assert.Equal(t, Nil, tree.Higher(10))
	assert.Equal(t, Nil, tree.Lower(10))
	assert.Equal(t, Nil, tree.Find(10))
	assert.Equal(t, Nil, tree.Next(Nil))
	require.NoError(t, tree.Check())
}

func TestPutReplacesValue(t *testing.T) {
	t.Parallel()

	tree := New[string](nil)

	n, _, replaced := tree.Put(10, "a")
	assert.False(t, replaced)

	m, old, replaced := tree.Put(10, "b")
	assert.True(t, replaced)
	assert.Equal(t, "a", old)
	assert.Equal(t, n, m)
	assert.Equal(t, "b", tree.Value(n))
	assert.Equal(t, 1, tree.Len())
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for _, key := range []int{10, 20, 30} {
		tree.Put(key, key)
	}

	cases := []struct {
		name string
		fn   func(int) Node
		key  int
		want int
		none bool
	}{
		{name: "floor_between", fn: tree.Floor, key: 25, want: 20},
		{name: "floor_exact", fn: tree.Floor, key: 20, want: 20},
		{name: "floor_below", fn: tree.Floor, key: 5, none: true},
		{name: "ceiling_between", fn: tree.Ceiling, key: 25, want: 30},
		{name: "ceiling_exact", fn: tree.Ceiling, key: 30, want: 30},
		{name: "ceiling_above", fn: tree.Ceiling, key: 31, none: true},
		{name: "higher_exact", fn: tree.Higher, key: 20, want: 30},
		{name: "higher_last", fn: tree.Higher, key: 30, none: true},
		{name: "lower_exact", fn: tree.Lower, key: 20, want: 10},
		{name: "lower_first", fn: tree.Lower, key: 10, none: true},
		{name: "lower_above", fn: tree.Lower, key: 100, want: 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			n := tc.fn(tc.key)
			if tc.none {
				assert.Equal(t, Nil, n)

				return
			}

			require.NotEqual(t, Nil, n)
			assert.Equal(t, tc.want, tree.Key(n))
		})
	}
}

func TestReverseComparator(t *testing.T) {
	t.Parallel()

	tree := New[int](Reverse(nil))
	for _, key := range []int{3, 1, 2, 5, 4} {
		tree.Put(key, key)
	}

	assert.Equal(t, []int{5, 4, 3, 2, 1}, keysOf(tree))
	assert.Equal(t, 3, tree.Key(tree.Ceiling(3)))
	assert.Equal(t, 2, tree.Key(tree.Higher(3)))
	assert.Equal(t, 4, tree.Key(tree.Lower(3)))
	require.NoError(t, tree.Check())
}

func TestSameOrder(t *testing.T) {
	t.Parallel()

	fn := CompareFunc(func(a, b int) int { return b - a })

	assert.True(t, SameOrder(nil, Natural{}))
	assert.True(t, SameOrder(Reverse(nil), Reverse(Natural{})))
	assert.True(t, SameOrder(Reverse(Reverse(nil)), nil))
	assert.False(t, SameOrder(nil, Reverse(nil)))
	assert.False(t, SameOrder(fn, fn))
	assert.False(t, SameOrder(Reverse(fn), nil))
}

func TestDeleteTwoChildrenKeepsCell(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for _, key := range []int{20, 10, 30, 25, 35} {
		tree.Put(key, key*10)
	}

	target := tree.Find(30)
	require.NotEqual(t, Nil, tree.Left(target))
	require.NotEqual(t, Nil, tree.Right(target))

	successor := tree.Next(target)
	tree.Delete(target)

	assert.Equal(t, 35, tree.Key(target))
	assert.Equal(t, 350, tree.Value(target))
	assert.False(t, tree.Valid(successor))
	assert.Equal(t, []int{10, 20, 25, 35}, keysOf(tree))
	require.NoError(t, tree.Check())
}

func TestDeleteAll(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for key := range 100 {
		tree.Put(key, key)
	}

	for tree.Len() > 0 {
		tree.Delete(tree.Root())
		require.NoError(t, tree.Check())
	}

	assert.Equal(t, Nil, tree.Root())
	assert.Equal(t, 0, tree.Allocator().Used())
	assert.Equal(t, 100, tree.Allocator().Free())
}

func TestAllocatorReuse(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	tree.Put(1, 1)
	tree.Put(2, 2)
	tree.Delete(tree.Find(1))

	size := tree.Allocator().Size()
	tree.Put(3, 3)
	assert.Equal(t, size, tree.Allocator().Size())
	assert.Equal(t, 0, tree.Allocator().Free())
}

func TestAllocatorFreeZero(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int]()
	alloc.malloc()
	assert.Panics(t, func() { alloc.free(0) })
}

func TestClear(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for key := range 10 {
		tree.Put(key, key)
	}

	tree.Clear()
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, Nil, tree.Root())
	assert.Equal(t, 1, tree.Allocator().Size())
	require.NoError(t, tree.Check())
}

// oracle stores keys in a sorted slice.
type oracle struct {
	data []int
}

func (o *oracle) Insert(key int) bool {
	idx, found := slices.BinarySearch(o.data, key)
	if found {
		return false
	}

	o.data = slices.Insert(o.data, idx, key)

	return true
}

func (o *oracle) Delete(key int) bool {
	idx, found := slices.BinarySearch(o.data, key)
	if !found {
		return false
	}

	o.data = slices.Delete(o.data, idx, idx+1)

	return true
}

func (o *oracle) RandomExistingKey(rng *rand.Rand) int {
	return o.data[rng.Intn(len(o.data))]
}

// Ceiling returns the least key >= key, or false.
func (o *oracle) Ceiling(key int) (int, bool) {
	idx, _ := slices.BinarySearch(o.data, key)
	if idx == len(o.data) {
		return 0, false
	}

	return o.data[idx], true
}

// Lower returns the greatest key < key, or false.
func (o *oracle) Lower(key int) (int, bool) {
	idx, _ := slices.BinarySearch(o.data, key)
	if idx == 0 {
		return 0, false
	}

	return o.data[idx-1], true
}

func assertNode(tb testing.TB, tree *Tree[int], n Node, want int, ok bool) {
	tb.Helper()

	if !ok {
		assert.Equal(tb, Nil, n)

		return
	}

	require.NotEqual(tb, Nil, n)
	assert.Equal(tb, want, tree.Key(n))
}

func TestRandomized(t *testing.T) {
	t.Parallel()

	const numKeys = 1000

	orc := &oracle{}
	tree := testNewIntSet()
	rng := rand.New(rand.NewSource(0))

	for i := range 10000 {
		op := rng.Intn(100)

		switch {
		case op < 50:
			key := rng.Intn(numKeys)
			_, _, replaced := tree.Put(key, key)
			assert.Equal(t, orc.Insert(key), !replaced)
		case op < 90 && len(orc.data) > 0:
			key := orc.RandomExistingKey(rng)
			orc.Delete(key)

			n := tree.Find(key)
			require.NotEqual(t, Nil, n, "DeleteExisting %d", key)
			tree.Delete(n)
		case op < 95:
			key := rng.Intn(numKeys)
			want, ok := orc.Ceiling(key)
			assertNode(t, tree, tree.Ceiling(key), want, ok)
		default:
			key := rng.Intn(numKeys)
			want, ok := orc.Lower(key)
			assertNode(t, tree, tree.Lower(key), want, ok)
		}

		if i%100 == 0 {
			require.NoError(t, tree.Check())
			assert.Equal(t, orc.data, keysOf(tree))
		}
	}

	require.NoError(t, tree.Check())
	assert.Equal(t, len(orc.data), tree.Len())
	assert.Equal(t, orc.data, keysOf(tree))

	reversed := slices.Clone(orc.data)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, reverseKeysOf(tree))
}

func TestComputeRedLevel(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 4: 2, 6: 2, 7: 3, 8: 3, 15: 4, 16: 4}
	for size, want := range cases {
		assert.Equal(t, want, computeRedLevel(size), "size %d", size)
	}
}

func sliceSource(keys []int) Source[int] {
	idx := 0

	return SourceFunc[int](func() (int, int, error) {
		if idx == len(keys) {
			return 0, 0, io.EOF
		}

		key := keys[idx]
		idx++

		return key, key * 2, nil
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	for size := range 130 {
		keys := make([]int, size)
		for i := range keys {
			keys[i] = i * 3
		}

		tree := testNewIntSet()
		require.NoError(t, tree.Build(size, sliceSource(keys)))
		require.NoError(t, tree.Check(), "size %d", size)

		assert.Equal(t, size, tree.Len())
		assert.Equal(t, size, tree.Allocator().Used())

		if size > 0 {
			assert.Equal(t, keys, keysOf(tree))
		}

		for n := tree.First(); n != Nil; n = tree.Next(n) {
			assert.Equal(t, tree.Key(n)*2, tree.Value(n))
		}
	}
}

func TestBuildRedLevel(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	require.NoError(t, tree.Build(5, sliceSource([]int{1, 2, 3, 4, 5})))

	redLevel := computeRedLevel(5)

	var walk func(n Node, level int)
	walk = func(n Node, level int) {
		if n == Nil {
			return
		}

		assert.Equal(t, level == redLevel, tree.IsRed(n), "key %d", tree.Key(n))
		walk(tree.Left(n), level+1)
		walk(tree.Right(n), level+1)
	}

	walk(tree.Root(), 0)
}

func TestBuildThenMutate(t *testing.T) {
	t.Parallel()

	keys := make([]int, 200)
	for i := range keys {
		keys[i] = i
	}

	tree := testNewIntSet()
	require.NoError(t, tree.Build(len(keys), sliceSource(keys)))

	rng := rand.New(rand.NewSource(1))
	for range 300 {
		key := rng.Intn(400)
		if n := tree.Find(key); n != Nil {
			tree.Delete(n)
		} else {
			tree.Put(key, key)
		}
	}

	require.NoError(t, tree.Check())
}

func TestBuildShortSource(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	tree.Put(42, 42)

	err := tree.Build(4, sliceSource([]int{1, 2}))
	require.ErrorIs(t, err, ErrShortSource)

	assert.Equal(t, []int{42}, keysOf(tree))
}

func TestBuildUnsorted(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()

	err := tree.Build(3, sliceSource([]int{1, 3, 2}))
	require.ErrorIs(t, err, ErrUnsorted)
	assert.Equal(t, 0, tree.Len())
}

func TestBuildSourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := SourceFunc[int](func() (int, int, error) { return 0, 0, boom })

	err := testNewIntSet().Build(1, src)
	require.ErrorIs(t, err, boom)
}

func TestCheckDetectsCorruption(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for key := range 10 {
		tree.Put(key, key)
	}

	tree.alloc.storage[tree.root].color = red
	require.ErrorIs(t, tree.Check(), ErrInvariant)
}

func TestHeights(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for key := range 1000 {
		tree.Put(key, key)
	}

	height := tree.Height()
	assert.LessOrEqual(t, height, 2*tree.BlackHeight())
	assert.GreaterOrEqual(t, height, 10)
}

func TestWriteDot(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for _, key := range []int{2, 1, 3} {
		tree.Put(key, key)
	}

	var buf bytes.Buffer
	require.NoError(t, tree.WriteDot(&buf))

	out := buf.String()
	assert.Contains(t, out, "strict digraph {")
	assert.Contains(t, out, `label="2",fillcolor=black`)
	assert.Contains(t, out, `label="1",fillcolor=red`)
	assert.Contains(t, out, "->")
}
