package treemap

import (
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
)

// bounds delimits a range view in the backing map's order. fromStart and
// toEnd mark an unbounded side; lo and hi are then ignored.
type bounds struct {
	fromStart, toEnd         bool
	lo, hi                   int
	loInclusive, hiInclusive bool
}

// SubMap is a live view over the keys of a Map that fall within bounds. It
// owns no nodes: every query is range-checked and delegated to the backing
// map. A descending SubMap presents the same keys in reverse order.
type SubMap[V any] struct {
	m *Map[V]
	bounds
	descending bool

	size         int
	sizeModCount int

	keySet         *KeySet[V]
	values         *Values[V]
	entrySet       *EntrySet[V]
	descendingView *SubMap[V]
}

func newSubMap[V any](m *Map[V], b bounds, descending bool) (NavigableMap[V], error) {
	if !b.fromStart && !b.toEnd && m.tree.Compare(b.lo, b.hi) > 0 {
		return nil, fmt.Errorf("%w: fromKey > toKey", ErrRangeViolation)
	}

	return &SubMap[V]{m: m, bounds: b, descending: descending, size: -1}, nil
}

// Range checks, in the backing map's order.

func (s *SubMap[V]) tooLow(key int) bool {
	if s.fromStart {
		return false
	}

	c := s.m.tree.Compare(key, s.lo)

	return c < 0 || (c == 0 && !s.loInclusive)
}

func (s *SubMap[V]) tooHigh(key int) bool {
	if s.toEnd {
		return false
	}

	c := s.m.tree.Compare(key, s.hi)

	return c > 0 || (c == 0 && !s.hiInclusive)
}

func (s *SubMap[V]) inRange(key int) bool {
	return !s.tooLow(key) && !s.tooHigh(key)
}

func (s *SubMap[V]) inClosedRange(key int) bool {
	return (s.fromStart || s.m.tree.Compare(key, s.lo) >= 0) &&
		(s.toEnd || s.m.tree.Compare(s.hi, key) >= 0)
}

// inRangeBound checks a bound of a nested view: an exclusive bound may sit
// on an exclusive edge of this view.
func (s *SubMap[V]) inRangeBound(key int, inclusive bool) bool {
	if inclusive {
		return s.inRange(key)
	}

	return s.inClosedRange(key)
}

// Absolute lookups, in the backing map's order, clipped to the bounds.

func (s *SubMap[V]) absLowest() rbtree.Node {
	tree := s.m.tree

	var n rbtree.Node

	switch {
	case s.fromStart:
		n = tree.First()
	case s.loInclusive:
		n = tree.Ceiling(s.lo)
	default:
		n = tree.Higher(s.lo)
	}

	if n == rbtree.Nil || s.tooHigh(tree.Key(n)) {
		return rbtree.Nil
	}

	return n
}

func (s *SubMap[V]) absHighest() rbtree.Node {
	tree := s.m.tree

	var n rbtree.Node

	switch {
	case s.toEnd:
		n = tree.Last()
	case s.hiInclusive:
		n = tree.Floor(s.hi)
	default:
		n = tree.Lower(s.hi)
	}

	if n == rbtree.Nil || s.tooLow(tree.Key(n)) {
		return rbtree.Nil
	}

	return n
}

func (s *SubMap[V]) absCeiling(key int) rbtree.Node {
	if s.tooLow(key) {
		return s.absLowest()
	}

	return s.clipHigh(s.m.tree.Ceiling(key))
}

func (s *SubMap[V]) absHigher(key int) rbtree.Node {
	if s.tooLow(key) {
		return s.absLowest()
	}

	return s.clipHigh(s.m.tree.Higher(key))
}

func (s *SubMap[V]) absFloor(key int) rbtree.Node {
	if s.tooHigh(key) {
		return s.absHighest()
	}

	return s.clipLow(s.m.tree.Floor(key))
}

func (s *SubMap[V]) absLower(key int) rbtree.Node {
	if s.tooHigh(key) {
		return s.absHighest()
	}

	return s.clipLow(s.m.tree.Lower(key))
}

func (s *SubMap[V]) clipHigh(n rbtree.Node) rbtree.Node {
	if n == rbtree.Nil || s.tooHigh(s.m.tree.Key(n)) {
		return rbtree.Nil
	}

	return n
}

func (s *SubMap[V]) clipLow(n rbtree.Node) rbtree.Node {
	if n == rbtree.Nil || s.tooLow(s.m.tree.Key(n)) {
		return rbtree.Nil
	}

	return n
}

// absHighFence returns the first node past the high bound, Nil when there
// is none or the view is unbounded above.
func (s *SubMap[V]) absHighFence() rbtree.Node {
	switch {
	case s.toEnd:
		return rbtree.Nil
	case s.hiInclusive:
		return s.m.tree.Higher(s.hi)
	default:
		return s.m.tree.Ceiling(s.hi)
	}
}

// absLowFence returns the last node before the low bound.
func (s *SubMap[V]) absLowFence() rbtree.Node {
	switch {
	case s.fromStart:
		return rbtree.Nil
	case s.loInclusive:
		return s.m.tree.Lower(s.lo)
	default:
		return s.m.tree.Floor(s.lo)
	}
}

// Relative lookups, in the view's own order.

func (s *SubMap[V]) subLowest() rbtree.Node {
	if s.descending {
		return s.absHighest()
	}

	return s.absLowest()
}

func (s *SubMap[V]) subHighest() rbtree.Node {
	if s.descending {
		return s.absLowest()
	}

	return s.absHighest()
}

func (s *SubMap[V]) subCeiling(key int) rbtree.Node {
	if s.descending {
		return s.absFloor(key)
	}

	return s.absCeiling(key)
}

func (s *SubMap[V]) subHigher(key int) rbtree.Node {
	if s.descending {
		return s.absLower(key)
	}

	return s.absHigher(key)
}

func (s *SubMap[V]) subFloor(key int) rbtree.Node {
	if s.descending {
		return s.absCeiling(key)
	}

	return s.absFloor(key)
}

func (s *SubMap[V]) subLower(key int) rbtree.Node {
	if s.descending {
		return s.absHigher(key)
	}

	return s.absLower(key)
}

// cursor walks the view in its own order, or in reverse when reverse is set.
func (s *SubMap[V]) cursor(reverse bool) *nodeCursor[V] {
	if s.descending != reverse {
		return s.m.newCursor(s.absHighest(), s.absLowFence(), true)
	}

	return s.m.newCursor(s.absLowest(), s.absHighFence(), false)
}

// Comparator returns the view's ordering: the backing map's one, reversed
// for descending views.
func (s *SubMap[V]) Comparator() rbtree.Comparator {
	if s.descending {
		return rbtree.Reverse(s.m.Comparator())
	}

	return s.m.Comparator()
}

// Len returns the number of pairs in range. Bounded views count them and
// cache the result until the next structural change.
func (s *SubMap[V]) Len() int {
	if s.fromStart && s.toEnd {
		return s.m.Len()
	}

	if s.size < 0 || s.sizeModCount != s.m.modCount {
		s.size = 0

		cur := s.cursor(false)
		for cur.hasNext() {
			if _, err := cur.advance(); err != nil {
				break
			}

			s.size++
		}

		s.sizeModCount = s.m.modCount
	}

	return s.size
}

// IsEmpty reports whether no key of the backing map falls in range.
func (s *SubMap[V]) IsEmpty() bool {
	if s.fromStart && s.toEnd {
		return s.m.IsEmpty()
	}

	return s.absLowest() == rbtree.Nil
}

// Get returns the value bound to key; keys out of range are absent.
func (s *SubMap[V]) Get(key int) (V, bool) {
	if !s.inRange(key) {
		var zero V

		return zero, false
	}

	return s.m.Get(key)
}

// ContainsKey reports whether key is in range and bound.
func (s *SubMap[V]) ContainsKey(key int) bool {
	return s.inRange(key) && s.m.ContainsKey(key)
}

// ContainsValue reports whether a key in range is bound to value.
func (s *SubMap[V]) ContainsValue(value V) bool {
	for _, v := range s.All() {
		if valEquals(value, v) {
			return true
		}
	}

	return false
}

// Put binds key to value in the backing map, or returns ErrRangeViolation
// when key is out of range.
func (s *SubMap[V]) Put(key int, value V) (old V, replaced bool, err error) {
	if !s.inRange(key) {
		return old, false, fmt.Errorf("%w: key out of range", ErrRangeViolation)
	}

	return s.m.Put(key, value)
}

// Remove unbinds key when it is in range.
func (s *SubMap[V]) Remove(key int) (old V, removed bool) {
	if !s.inRange(key) {
		return old, false
	}

	return s.m.Remove(key)
}

// Clear removes every pair in range from the backing map.
func (s *SubMap[V]) Clear() {
	if s.fromStart && s.toEnd {
		s.m.Clear()

		return
	}

	// The cursor refreshes its counter after its own removals and nothing
	// else mutates the map meanwhile, so advance and remove cannot fail.
	cur := s.cursor(false)
	for cur.hasNext() {
		if _, err := cur.advance(); err != nil {
			panic(err)
		}

		if err := cur.remove(); err != nil {
			panic(err)
		}
	}
}

// FirstKey returns the first key in view order, or ErrNoSuchElement.
func (s *SubMap[V]) FirstKey() (int, error) {
	return keyOrError(s.m.tree, s.subLowest())
}

// LastKey returns the last key in view order, or ErrNoSuchElement.
func (s *SubMap[V]) LastKey() (int, error) {
	return keyOrError(s.m.tree, s.subHighest())
}

// FirstEntry returns a snapshot of the first pair in view order, or nil.
func (s *SubMap[V]) FirstEntry() Entry[V] {
	return exportEntry(s.m.tree, s.subLowest())
}

// LastEntry returns a snapshot of the last pair in view order, or nil.
func (s *SubMap[V]) LastEntry() Entry[V] {
	return exportEntry(s.m.tree, s.subHighest())
}

// PollFirstEntry removes and returns the first pair in view order, or nil.
func (s *SubMap[V]) PollFirstEntry() Entry[V] {
	return s.m.poll(s.subLowest())
}

// PollLastEntry removes and returns the last pair in view order, or nil.
func (s *SubMap[V]) PollLastEntry() Entry[V] {
	return s.m.poll(s.subHighest())
}

// LowerEntry returns the pair preceding key in view order, or nil.
func (s *SubMap[V]) LowerEntry(key int) Entry[V] {
	return exportEntry(s.m.tree, s.subLower(key))
}

// LowerKey returns the key preceding key in view order.
func (s *SubMap[V]) LowerKey(key int) (int, bool) {
	return keyOf(s.m.tree, s.subLower(key))
}

// FloorEntry returns the pair at or preceding key in view order, or nil.
func (s *SubMap[V]) FloorEntry(key int) Entry[V] {
	return exportEntry(s.m.tree, s.subFloor(key))
}

// FloorKey returns the key at or preceding key in view order.
func (s *SubMap[V]) FloorKey(key int) (int, bool) {
	return keyOf(s.m.tree, s.subFloor(key))
}

// CeilingEntry returns the pair at or following key in view order, or nil.
func (s *SubMap[V]) CeilingEntry(key int) Entry[V] {
	return exportEntry(s.m.tree, s.subCeiling(key))
}

// CeilingKey returns the key at or following key in view order.
func (s *SubMap[V]) CeilingKey(key int) (int, bool) {
	return keyOf(s.m.tree, s.subCeiling(key))
}

// HigherEntry returns the pair following key in view order, or nil.
func (s *SubMap[V]) HigherEntry(key int) Entry[V] {
	return exportEntry(s.m.tree, s.subHigher(key))
}

// HigherKey returns the key following key in view order.
func (s *SubMap[V]) HigherKey(key int) (int, bool) {
	return keyOf(s.m.tree, s.subHigher(key))
}

// KeySet returns the navigable view of the keys in range.
func (s *SubMap[V]) KeySet() *KeySet[V] {
	if s.keySet == nil {
		s.keySet = &KeySet[V]{m: s}
	}

	return s.keySet
}

// NavigableKeySet is the same view as KeySet.
func (s *SubMap[V]) NavigableKeySet() *KeySet[V] {
	return s.KeySet()
}

// DescendingKeySet returns the keys in range in reverse view order.
func (s *SubMap[V]) DescendingKeySet() *KeySet[V] {
	return s.DescendingMap().NavigableKeySet()
}

// Values returns the view of the values in range.
func (s *SubMap[V]) Values() *Values[V] {
	if s.values == nil {
		s.values = &Values[V]{m: s}
	}

	return s.values
}

// EntrySet returns the view of the pairs in range.
func (s *SubMap[V]) EntrySet() *EntrySet[V] {
	if s.entrySet == nil {
		s.entrySet = &EntrySet[V]{m: s}
	}

	return s.entrySet
}

// DescendingMap returns the same range in the opposite order. The
// descending view of a descending view is ascending again.
func (s *SubMap[V]) DescendingMap() NavigableMap[V] {
	if s.descendingView == nil {
		s.descendingView = &SubMap[V]{m: s.m, bounds: s.bounds, descending: !s.descending, size: -1}
	}

	return s.descendingView
}

// SubMap returns the view of keys between fromKey and toKey in view order.
// Both bounds must lie within this view.
func (s *SubMap[V]) SubMap(fromKey int, fromInclusive bool, toKey int, toInclusive bool) (NavigableMap[V], error) {
	if !s.inRangeBound(fromKey, fromInclusive) {
		return nil, fmt.Errorf("%w: fromKey out of range", ErrRangeViolation)
	}

	if !s.inRangeBound(toKey, toInclusive) {
		return nil, fmt.Errorf("%w: toKey out of range", ErrRangeViolation)
	}

	if s.descending {
		return newSubMap(s.m, bounds{lo: toKey, loInclusive: toInclusive, hi: fromKey, hiInclusive: fromInclusive}, true)
	}

	return newSubMap(s.m, bounds{lo: fromKey, loInclusive: fromInclusive, hi: toKey, hiInclusive: toInclusive}, false)
}

// HeadMap returns the view of keys preceding toKey in view order.
func (s *SubMap[V]) HeadMap(toKey int, inclusive bool) (NavigableMap[V], error) {
	if !s.inRangeBound(toKey, inclusive) {
		return nil, fmt.Errorf("%w: toKey out of range", ErrRangeViolation)
	}

	b := s.bounds

	if s.descending {
		b.fromStart, b.lo, b.loInclusive = false, toKey, inclusive
	} else {
		b.toEnd, b.hi, b.hiInclusive = false, toKey, inclusive
	}

	return newSubMap(s.m, b, s.descending)
}

// TailMap returns the view of keys following fromKey in view order.
func (s *SubMap[V]) TailMap(fromKey int, inclusive bool) (NavigableMap[V], error) {
	if !s.inRangeBound(fromKey, inclusive) {
		return nil, fmt.Errorf("%w: fromKey out of range", ErrRangeViolation)
	}

	b := s.bounds

	if s.descending {
		b.toEnd, b.hi, b.hiInclusive = false, fromKey, inclusive
	} else {
		b.fromStart, b.lo, b.loInclusive = false, fromKey, inclusive
	}

	return newSubMap(s.m, b, s.descending)
}

// Range returns the view of keys from fromKey inclusive to toKey exclusive.
func (s *SubMap[V]) Range(fromKey, toKey int) (NavigableMap[V], error) {
	return s.SubMap(fromKey, true, toKey, false)
}

// Below returns the view of keys strictly preceding toKey.
func (s *SubMap[V]) Below(toKey int) (NavigableMap[V], error) {
	return s.HeadMap(toKey, false)
}

// From returns the view of keys at or following fromKey.
func (s *SubMap[V]) From(fromKey int) (NavigableMap[V], error) {
	return s.TailMap(fromKey, true)
}

// All yields the pairs in view order. It panics with
// ErrConcurrentModification if the backing map is structurally changed
// during the loop.
func (s *SubMap[V]) All() iter.Seq2[int, V] {
	return s.m.pairs(func() *nodeCursor[V] { return s.cursor(false) })
}

// Backward yields the pairs in reverse view order.
func (s *SubMap[V]) Backward() iter.Seq2[int, V] {
	return s.m.pairs(func() *nodeCursor[V] { return s.cursor(true) })
}

// EntryIterator returns an iterator over live entries in view order.
func (s *SubMap[V]) EntryIterator() *Iterator[Entry[V]] {
	return newIterator(s.cursor(false), s.m.entryAt)
}

// KeyIterator returns an iterator over keys in view order.
func (s *SubMap[V]) KeyIterator() *Iterator[int] {
	return newIterator(s.cursor(false), s.m.tree.Key)
}

// ValueIterator returns an iterator over values in view order.
func (s *SubMap[V]) ValueIterator() *Iterator[V] {
	return newIterator(s.cursor(false), s.m.tree.Value)
}

// DescendingKeyIterator returns an iterator over keys in reverse view order.
func (s *SubMap[V]) DescendingKeyIterator() *Iterator[int] {
	return newIterator(s.cursor(true), s.m.tree.Key)
}

// String formats the view as {k1=v1, k2=v2} in view order.
func (s *SubMap[V]) String() string {
	return formatPairs(s.All())
}
