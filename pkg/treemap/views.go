package treemap

import (
	"fmt"
	"iter"
	"strings"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
)

// KeySet is a navigable view of the keys of a map or range view. Removing
// keys removes their pairs from the backing map; adding keys is not
// supported.
type KeySet[V any] struct {
	m NavigableMap[V]
}

// Comparator returns the ordering of the keys.
func (ks *KeySet[V]) Comparator() rbtree.Comparator { return ks.m.Comparator() }

// Len returns the number of keys.
func (ks *KeySet[V]) Len() int { return ks.m.Len() }

// IsEmpty reports whether the view holds no keys.
func (ks *KeySet[V]) IsEmpty() bool { return ks.m.IsEmpty() }

// Contains reports whether key is in the view.
func (ks *KeySet[V]) Contains(key int) bool { return ks.m.ContainsKey(key) }

// Add always fails with ErrUnsupportedOperation.
func (ks *KeySet[V]) Add(int) error { return ErrUnsupportedOperation }

// Remove deletes key and its value from the backing map.
func (ks *KeySet[V]) Remove(key int) bool {
	_, removed := ks.m.Remove(key)

	return removed
}

// Clear removes every key of the view from the backing map.
func (ks *KeySet[V]) Clear() { ks.m.Clear() }

// First returns the first key, or ErrNoSuchElement.
func (ks *KeySet[V]) First() (int, error) { return ks.m.FirstKey() }

// Last returns the last key, or ErrNoSuchElement.
func (ks *KeySet[V]) Last() (int, error) { return ks.m.LastKey() }

// Lower returns the key preceding key.
func (ks *KeySet[V]) Lower(key int) (int, bool) { return ks.m.LowerKey(key) }

// Floor returns the key at or preceding key.
func (ks *KeySet[V]) Floor(key int) (int, bool) { return ks.m.FloorKey(key) }

// Ceiling returns the key at or following key.
func (ks *KeySet[V]) Ceiling(key int) (int, bool) { return ks.m.CeilingKey(key) }

// Higher returns the key following key.
func (ks *KeySet[V]) Higher(key int) (int, bool) { return ks.m.HigherKey(key) }

// PollFirst removes and returns the first key.
func (ks *KeySet[V]) PollFirst() (int, bool) { return entryKey(ks.m.PollFirstEntry()) }

// PollLast removes and returns the last key.
func (ks *KeySet[V]) PollLast() (int, bool) { return entryKey(ks.m.PollLastEntry()) }

// Iterator returns an iterator over the keys.
func (ks *KeySet[V]) Iterator() *Iterator[int] { return ks.m.KeyIterator() }

// DescendingIterator returns an iterator over the keys in reverse order.
func (ks *KeySet[V]) DescendingIterator() *Iterator[int] { return ks.m.DescendingKeyIterator() }

// DescendingSet returns the keys in reverse order.
func (ks *KeySet[V]) DescendingSet() *KeySet[V] { return ks.m.DescendingMap().NavigableKeySet() }

// SubSet returns the keys between fromKey and toKey.
func (ks *KeySet[V]) SubSet(fromKey int, fromInclusive bool, toKey int, toInclusive bool) (*KeySet[V], error) {
	return keySetOf[V](ks.m.SubMap(fromKey, fromInclusive, toKey, toInclusive))
}

// HeadSet returns the keys preceding toKey.
func (ks *KeySet[V]) HeadSet(toKey int, inclusive bool) (*KeySet[V], error) {
	return keySetOf[V](ks.m.HeadMap(toKey, inclusive))
}

// TailSet returns the keys following fromKey.
func (ks *KeySet[V]) TailSet(fromKey int, inclusive bool) (*KeySet[V], error) {
	return keySetOf[V](ks.m.TailMap(fromKey, inclusive))
}

// All yields the keys in order.
func (ks *KeySet[V]) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for key := range ks.m.All() {
			if !yield(key) {
				return
			}
		}
	}
}

// String formats the keys as [k1, k2].
func (ks *KeySet[V]) String() string {
	return formatSeq(ks.All())
}

func keySetOf[V any](m NavigableMap[V], err error) (*KeySet[V], error) {
	if err != nil {
		return nil, err
	}

	return m.NavigableKeySet(), nil
}

func entryKey[V any](e Entry[V]) (int, bool) {
	if e == nil {
		return 0, false
	}

	return e.Key(), true
}

// Values is a view of the values of a map or range view, in key order.
type Values[V any] struct {
	m NavigableMap[V]
}

// Len returns the number of values.
func (vs *Values[V]) Len() int { return vs.m.Len() }

// IsEmpty reports whether the view holds no values.
func (vs *Values[V]) IsEmpty() bool { return vs.m.IsEmpty() }

// Contains reports whether some key is bound to a value deeply equal to
// value.
func (vs *Values[V]) Contains(value V) bool { return vs.m.ContainsValue(value) }

// Add always fails with ErrUnsupportedOperation.
func (vs *Values[V]) Add(V) error { return ErrUnsupportedOperation }

// Remove deletes the first pair, in key order, whose value equals value.
func (vs *Values[V]) Remove(value V) bool {
	it := vs.m.ValueIterator()

	// The iterator is private to this loop, so Next and Remove cannot fail.
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			panic(err)
		}

		if valEquals(value, v) {
			if err := it.Remove(); err != nil {
				panic(err)
			}

			return true
		}
	}

	return false
}

// Clear removes every pair of the view from the backing map.
func (vs *Values[V]) Clear() { vs.m.Clear() }

// Iterator returns an iterator over the values.
func (vs *Values[V]) Iterator() *Iterator[V] { return vs.m.ValueIterator() }

// All yields the values in key order.
func (vs *Values[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, value := range vs.m.All() {
			if !yield(value) {
				return
			}
		}
	}
}

// String formats the values as [v1, v2].
func (vs *Values[V]) String() string {
	return formatSeq(vs.All())
}

// EntrySet is a view of the pairs of a map or range view, in key order.
type EntrySet[V any] struct {
	m NavigableMap[V]
}

// Len returns the number of pairs.
func (es *EntrySet[V]) Len() int { return es.m.Len() }

// IsEmpty reports whether the view holds no pairs.
func (es *EntrySet[V]) IsEmpty() bool { return es.m.IsEmpty() }

// Contains reports whether the view binds e's key to a value deeply equal
// to e's value.
func (es *EntrySet[V]) Contains(e Entry[V]) bool {
	value, ok := es.m.Get(e.Key())

	return ok && valEquals(value, e.Value())
}

// Add always fails with ErrUnsupportedOperation.
func (es *EntrySet[V]) Add(Entry[V]) error { return ErrUnsupportedOperation }

// Remove deletes e's pair when the view contains it.
func (es *EntrySet[V]) Remove(e Entry[V]) bool {
	if !es.Contains(e) {
		return false
	}

	_, removed := es.m.Remove(e.Key())

	return removed
}

// Clear removes every pair of the view from the backing map.
func (es *EntrySet[V]) Clear() { es.m.Clear() }

// Iterator returns an iterator over live entries.
func (es *EntrySet[V]) Iterator() *Iterator[Entry[V]] { return es.m.EntryIterator() }

// All yields live entries in order. It panics with
// ErrConcurrentModification on concurrent structural changes.
func (es *EntrySet[V]) All() iter.Seq[Entry[V]] {
	return func(yield func(Entry[V]) bool) {
		it := es.m.EntryIterator()

		for it.HasNext() {
			e, err := it.Next()
			if err != nil {
				panic(err)
			}

			if !yield(e) {
				return
			}
		}
	}
}

// String formats the entries as [k1=v1, k2=v2].
func (es *EntrySet[V]) String() string {
	return formatSeq(es.All())
}

func formatSeq[T any](seq iter.Seq[T]) string {
	var sb strings.Builder

	sb.WriteByte('[')

	first := true
	for item := range seq {
		if !first {
			sb.WriteString(", ")
		}

		first = false

		fmt.Fprint(&sb, item)
	}

	sb.WriteByte(']')

	return sb.String()
}
