package treemap

import (
	"iter"
	"maps"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
)

// Readable is a source of key-value pairs, such as a Map or a plain Go map
// wrapped with Pairs.
type Readable[V any] interface {
	Len() int
	All() iter.Seq2[int, V]
}

// SortedMap is a Readable whose All yields keys in Comparator order.
type SortedMap[V any] interface {
	Readable[V]
	// Comparator returns the ordering, nil meaning natural order.
	Comparator() rbtree.Comparator
}

// NavigableMap is the behavior shared by Map and its range views.
//
// Put returns an error only on range views, for keys outside the view.
type NavigableMap[V any] interface {
	SortedMap[V]

	IsEmpty() bool
	Get(key int) (V, bool)
	ContainsKey(key int) bool
	ContainsValue(value V) bool
	Put(key int, value V) (old V, replaced bool, err error)
	Remove(key int) (old V, removed bool)
	Clear()

	FirstKey() (int, error)
	LastKey() (int, error)
	FirstEntry() Entry[V]
	LastEntry() Entry[V]
	PollFirstEntry() Entry[V]
	PollLastEntry() Entry[V]
	LowerEntry(key int) Entry[V]
	LowerKey(key int) (int, bool)
	FloorEntry(key int) Entry[V]
	FloorKey(key int) (int, bool)
	CeilingEntry(key int) Entry[V]
	CeilingKey(key int) (int, bool)
	HigherEntry(key int) Entry[V]
	HigherKey(key int) (int, bool)

	Backward() iter.Seq2[int, V]
	EntryIterator() *Iterator[Entry[V]]
	KeyIterator() *Iterator[int]
	ValueIterator() *Iterator[V]
	DescendingKeyIterator() *Iterator[int]

	KeySet() *KeySet[V]
	NavigableKeySet() *KeySet[V]
	DescendingKeySet() *KeySet[V]
	Values() *Values[V]
	EntrySet() *EntrySet[V]

	DescendingMap() NavigableMap[V]
	SubMap(fromKey int, fromInclusive bool, toKey int, toInclusive bool) (NavigableMap[V], error)
	HeadMap(toKey int, inclusive bool) (NavigableMap[V], error)
	TailMap(fromKey int, inclusive bool) (NavigableMap[V], error)
	// Range is SubMap(fromKey, true, toKey, false).
	Range(fromKey, toKey int) (NavigableMap[V], error)
	// Below is HeadMap(toKey, false).
	Below(toKey int) (NavigableMap[V], error)
	// From is TailMap(fromKey, true).
	From(fromKey int) (NavigableMap[V], error)

	String() string
}

// Pairs adapts a Go map to Readable. Its iteration order is random.
func Pairs[V any](m map[int]V) Readable[V] {
	return goMap[V](m)
}

type goMap[V any] map[int]V

func (g goMap[V]) Len() int { return len(g) }

func (g goMap[V]) All() iter.Seq2[int, V] { return maps.All(g) }

var (
	_ NavigableMap[int] = (*Map[int])(nil)
	_ NavigableMap[int] = (*SubMap[int])(nil)
)
