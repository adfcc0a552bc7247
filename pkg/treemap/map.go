// Package treemap provides Map, an ordered map keyed by int and backed by a
// red-black tree, together with bounded and reversed range views, fail-fast
// iterators and navigable key, value and entry views.
//
// A Map is not safe for concurrent use. Iterators detect structural changes
// made behind their back on a best-effort basis and report
// ErrConcurrentModification.
package treemap

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
)

// Map is an ordered map from int keys to values of type V.
type Map[V any] struct {
	tree *rbtree.Tree[V]

	// modCount counts structural changes: insertions, deletions, clears and
	// bulk rebuilds. Replacing the value of an existing key is not one.
	modCount int

	keySet     *KeySet[V]
	values     *Values[V]
	entrySet   *EntrySet[V]
	descending *SubMap[V]
}

// New creates an empty map in natural key order.
func New[V any]() *Map[V] {
	return NewWithComparator[V](nil)
}

// NewWithComparator creates an empty map ordered by c; nil selects natural
// order.
func NewWithComparator[V any](c rbtree.Comparator) *Map[V] {
	return &Map[V]{tree: rbtree.New[V](c)}
}

// FromMap creates a map in natural order holding all pairs of src.
func FromMap[V any](src Readable[V]) (*Map[V], error) {
	m := New[V]()

	if err := m.PutAll(src); err != nil {
		return nil, err
	}

	return m, nil
}

// FromSorted creates a map with the ordering and content of src in linear
// time.
func FromSorted[V any](src SortedMap[V]) (*Map[V], error) {
	m := NewWithComparator[V](src.Comparator())

	if err := m.buildFromSeq(src.Len(), src.All()); err != nil {
		return nil, err
	}

	return m, nil
}

// Build creates a map ordered by c from size pairs of src, which must yield
// keys strictly increasing under c. It runs in linear time.
func Build[V any](c rbtree.Comparator, size int, src rbtree.Source[V]) (*Map[V], error) {
	m := NewWithComparator[V](c)

	if err := m.build(size, src); err != nil {
		return nil, err
	}

	return m, nil
}

// FromSortedKeys creates a map from size sorted keys, all bound to
// defaultValue, in linear time. It backs sets implemented on top of maps.
func FromSortedKeys[V any](c rbtree.Comparator, size int, keys iter.Seq[int], defaultValue V) (*Map[V], error) {
	next, stop := iter.Pull(keys)
	defer stop()

	src := rbtree.SourceFunc[V](func() (int, V, error) {
		key, ok := next()
		if !ok {
			return 0, defaultValue, io.EOF
		}

		return key, defaultValue, nil
	})

	return Build[V](c, size, src)
}

func (m *Map[V]) buildFromSeq(size int, seq iter.Seq2[int, V]) error {
	next, stop := iter.Pull2(seq)
	defer stop()

	src := rbtree.SourceFunc[V](func() (int, V, error) {
		key, value, ok := next()
		if !ok {
			return 0, value, io.EOF
		}

		return key, value, nil
	})

	return m.build(size, src)
}

func (m *Map[V]) build(size int, src rbtree.Source[V]) error {
	if err := m.tree.Build(size, src); err != nil {
		return fmt.Errorf("build map: %w", err)
	}

	m.modCount++

	return nil
}

// Tree exposes the underlying tree for inspection.
func (m *Map[V]) Tree() *rbtree.Tree[V] {
	return m.tree
}

// Comparator returns the ordering, or nil for natural order.
func (m *Map[V]) Comparator() rbtree.Comparator {
	return m.tree.Comparator()
}

// Len returns the number of pairs.
func (m *Map[V]) Len() int {
	return m.tree.Len()
}

// IsEmpty reports whether the map holds no pairs.
func (m *Map[V]) IsEmpty() bool {
	return m.tree.Len() == 0
}

// Get returns the value bound to key.
func (m *Map[V]) Get(key int) (V, bool) {
	n := m.tree.Find(key)
	if n == rbtree.Nil {
		var zero V

		return zero, false
	}

	return m.tree.Value(n), true
}

// ContainsKey reports whether key is bound.
func (m *Map[V]) ContainsKey(key int) bool {
	return m.tree.Find(key) != rbtree.Nil
}

// ContainsValue reports whether some key is bound to a value deeply equal
// to value. It runs in linear time.
func (m *Map[V]) ContainsValue(value V) bool {
	for n := m.tree.First(); n != rbtree.Nil; n = m.tree.Next(n) {
		if valEquals(value, m.tree.Value(n)) {
			return true
		}
	}

	return false
}

// Put binds key to value. If key was already bound, its value is replaced in
// place and the previous value is returned with replaced set; this does not
// count as a structural change, so live iterators keep going. The error is
// always nil.
func (m *Map[V]) Put(key int, value V) (old V, replaced bool, err error) {
	_, old, replaced = m.tree.Put(key, value)
	if !replaced {
		m.modCount++
	}

	return old, replaced, nil
}

// PutAll copies every pair of src into the map. When the map is empty and
// src is sorted in the same order, the tree is built in linear time instead.
func (m *Map[V]) PutAll(src Readable[V]) error {
	size := src.Len()

	if sorted, ok := src.(SortedMap[V]); ok && m.tree.Len() == 0 && size != 0 &&
		rbtree.SameOrder(sorted.Comparator(), m.Comparator()) {
		return m.buildFromSeq(size, src.All())
	}

	for key, value := range src.All() {
		_, _, _ = m.Put(key, value)
	}

	return nil
}

// Remove unbinds key and returns its previous value.
func (m *Map[V]) Remove(key int) (old V, removed bool) {
	n := m.tree.Find(key)
	if n == rbtree.Nil {
		return old, false
	}

	old = m.tree.Value(n)
	m.deleteNode(n)

	return old, true
}

func (m *Map[V]) deleteNode(n rbtree.Node) {
	m.modCount++
	m.tree.Delete(n)
}

// Clear removes every pair in constant time.
func (m *Map[V]) Clear() {
	m.modCount++
	m.tree.Clear()
}

// Clone returns an independent copy with the same ordering, built in linear
// time. Values are copied shallowly.
func (m *Map[V]) Clone() *Map[V] {
	clone := NewWithComparator[V](m.Comparator())

	// Own content is sorted and complete, so building cannot fail.
	if err := clone.buildFromSeq(m.Len(), m.All()); err != nil {
		panic(err)
	}

	return clone
}

// FirstKey returns the lowest key, or ErrNoSuchElement.
func (m *Map[V]) FirstKey() (int, error) {
	return keyOrError(m.tree, m.tree.First())
}

// LastKey returns the highest key, or ErrNoSuchElement.
func (m *Map[V]) LastKey() (int, error) {
	return keyOrError(m.tree, m.tree.Last())
}

// FirstEntry returns a snapshot of the lowest pair, or nil.
func (m *Map[V]) FirstEntry() Entry[V] {
	return exportEntry(m.tree, m.tree.First())
}

// LastEntry returns a snapshot of the highest pair, or nil.
func (m *Map[V]) LastEntry() Entry[V] {
	return exportEntry(m.tree, m.tree.Last())
}

// PollFirstEntry removes and returns the lowest pair, or nil.
func (m *Map[V]) PollFirstEntry() Entry[V] {
	return m.poll(m.tree.First())
}

// PollLastEntry removes and returns the highest pair, or nil.
func (m *Map[V]) PollLastEntry() Entry[V] {
	return m.poll(m.tree.Last())
}

func (m *Map[V]) poll(n rbtree.Node) Entry[V] {
	e := exportEntry(m.tree, n)
	if n != rbtree.Nil {
		m.deleteNode(n)
	}

	return e
}

// LowerEntry returns the pair with the greatest key below key, or nil.
func (m *Map[V]) LowerEntry(key int) Entry[V] {
	return exportEntry(m.tree, m.tree.Lower(key))
}

// LowerKey returns the greatest key below key.
func (m *Map[V]) LowerKey(key int) (int, bool) {
	return keyOf(m.tree, m.tree.Lower(key))
}

// FloorEntry returns the pair with the greatest key at or below key, or nil.
func (m *Map[V]) FloorEntry(key int) Entry[V] {
	return exportEntry(m.tree, m.tree.Floor(key))
}

// FloorKey returns the greatest key at or below key.
func (m *Map[V]) FloorKey(key int) (int, bool) {
	return keyOf(m.tree, m.tree.Floor(key))
}

// CeilingEntry returns the pair with the least key at or above key, or nil.
func (m *Map[V]) CeilingEntry(key int) Entry[V] {
	return exportEntry(m.tree, m.tree.Ceiling(key))
}

// CeilingKey returns the least key at or above key.
func (m *Map[V]) CeilingKey(key int) (int, bool) {
	return keyOf(m.tree, m.tree.Ceiling(key))
}

// HigherEntry returns the pair with the least key above key, or nil.
func (m *Map[V]) HigherEntry(key int) Entry[V] {
	return exportEntry(m.tree, m.tree.Higher(key))
}

// HigherKey returns the least key above key.
func (m *Map[V]) HigherKey(key int) (int, bool) {
	return keyOf(m.tree, m.tree.Higher(key))
}

// KeySet returns the navigable view of the keys.
func (m *Map[V]) KeySet() *KeySet[V] {
	if m.keySet == nil {
		m.keySet = &KeySet[V]{m: m}
	}

	return m.keySet
}

// NavigableKeySet is the same view as KeySet.
func (m *Map[V]) NavigableKeySet() *KeySet[V] {
	return m.KeySet()
}

// DescendingKeySet returns the keys in reverse order.
func (m *Map[V]) DescendingKeySet() *KeySet[V] {
	return m.DescendingMap().NavigableKeySet()
}

// Values returns the view of the values in key order.
func (m *Map[V]) Values() *Values[V] {
	if m.values == nil {
		m.values = &Values[V]{m: m}
	}

	return m.values
}

// EntrySet returns the view of the pairs in key order.
func (m *Map[V]) EntrySet() *EntrySet[V] {
	if m.entrySet == nil {
		m.entrySet = &EntrySet[V]{m: m}
	}

	return m.entrySet
}

// DescendingMap returns a reverse-ordered view of the whole map.
func (m *Map[V]) DescendingMap() NavigableMap[V] {
	if m.descending == nil {
		m.descending = &SubMap[V]{
			m:          m,
			bounds:     bounds{fromStart: true, toEnd: true, loInclusive: true, hiInclusive: true},
			descending: true,
			size:       -1,
		}
	}

	return m.descending
}

// SubMap returns the view of keys between fromKey and toKey.
func (m *Map[V]) SubMap(fromKey int, fromInclusive bool, toKey int, toInclusive bool) (NavigableMap[V], error) {
	return newSubMap(m, bounds{lo: fromKey, loInclusive: fromInclusive, hi: toKey, hiInclusive: toInclusive}, false)
}

// HeadMap returns the view of keys below toKey.
func (m *Map[V]) HeadMap(toKey int, inclusive bool) (NavigableMap[V], error) {
	return newSubMap(m, bounds{fromStart: true, loInclusive: true, hi: toKey, hiInclusive: inclusive}, false)
}

// TailMap returns the view of keys above fromKey.
func (m *Map[V]) TailMap(fromKey int, inclusive bool) (NavigableMap[V], error) {
	return newSubMap(m, bounds{lo: fromKey, loInclusive: inclusive, toEnd: true, hiInclusive: true}, false)
}

// Range returns the view of keys in [fromKey, toKey).
func (m *Map[V]) Range(fromKey, toKey int) (NavigableMap[V], error) {
	return m.SubMap(fromKey, true, toKey, false)
}

// Below returns the view of keys strictly below toKey.
func (m *Map[V]) Below(toKey int) (NavigableMap[V], error) {
	return m.HeadMap(toKey, false)
}

// From returns the view of keys at or above fromKey.
func (m *Map[V]) From(fromKey int) (NavigableMap[V], error) {
	return m.TailMap(fromKey, true)
}

// All yields the pairs in key order. It panics with
// ErrConcurrentModification if the map is structurally changed during the
// loop; use an Iterator to remove pairs while traversing.
func (m *Map[V]) All() iter.Seq2[int, V] {
	return m.pairs(func() *nodeCursor[V] { return m.newCursor(m.tree.First(), rbtree.Nil, false) })
}

// Backward yields the pairs in reverse key order, with the same panics as
// All.
func (m *Map[V]) Backward() iter.Seq2[int, V] {
	return m.pairs(func() *nodeCursor[V] { return m.newCursor(m.tree.Last(), rbtree.Nil, true) })
}

// EntryIterator returns an iterator over live entries in key order.
func (m *Map[V]) EntryIterator() *Iterator[Entry[V]] {
	return newIterator(m.newCursor(m.tree.First(), rbtree.Nil, false), m.entryAt)
}

// KeyIterator returns an iterator over keys in key order.
func (m *Map[V]) KeyIterator() *Iterator[int] {
	return newIterator(m.newCursor(m.tree.First(), rbtree.Nil, false), m.tree.Key)
}

// ValueIterator returns an iterator over values in key order.
func (m *Map[V]) ValueIterator() *Iterator[V] {
	return newIterator(m.newCursor(m.tree.First(), rbtree.Nil, false), m.tree.Value)
}

// DescendingKeyIterator returns an iterator over keys in reverse order.
func (m *Map[V]) DescendingKeyIterator() *Iterator[int] {
	return newIterator(m.newCursor(m.tree.Last(), rbtree.Nil, true), m.tree.Key)
}

func (m *Map[V]) entryAt(n rbtree.Node) Entry[V] {
	return &liveEntry[V]{m: m, node: n, key: m.tree.Key(n)}
}

// String formats the map as {k1=v1, k2=v2}.
func (m *Map[V]) String() string {
	return formatPairs(m.All())
}

func formatPairs[V any](seq iter.Seq2[int, V]) string {
	var sb strings.Builder

	sb.WriteByte('{')

	first := true
	for key, value := range seq {
		if !first {
			sb.WriteString(", ")
		}

		first = false

		fmt.Fprintf(&sb, "%d=%v", key, value)
	}

	sb.WriteByte('}')

	return sb.String()
}

func keyOf[V any](tree *rbtree.Tree[V], n rbtree.Node) (int, bool) {
	if n == rbtree.Nil {
		return 0, false
	}

	return tree.Key(n), true
}

func keyOrError[V any](tree *rbtree.Tree[V], n rbtree.Node) (int, error) {
	if n == rbtree.Nil {
		return 0, ErrNoSuchElement
	}

	return tree.Key(n), nil
}
