package treemap

import (
	"fmt"
	"reflect"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
)

// Entry is a key-value pair of a map.
type Entry[V any] interface {
	Key() int
	Value() V
	// SetValue replaces the value and returns the previous one.
	SetValue(value V) (V, error)
	String() string
}

// snapshotEntry is an immutable copy handed out by navigation methods.
type snapshotEntry[V any] struct {
	key   int
	value V
}

// NewEntry returns an immutable entry holding key and value.
func NewEntry[V any](key int, value V) Entry[V] {
	return snapshotEntry[V]{key: key, value: value}
}

func (e snapshotEntry[V]) Key() int { return e.key }

func (e snapshotEntry[V]) Value() V { return e.value }

func (e snapshotEntry[V]) SetValue(V) (V, error) {
	var zero V

	return zero, ErrUnsupportedOperation
}

func (e snapshotEntry[V]) String() string {
	return fmt.Sprintf("%d=%v", e.key, e.value)
}

// liveEntry is yielded by entry iterators and writes through to the map.
// It remembers its key so that it can find its node again after the node
// content was moved by a deletion.
type liveEntry[V any] struct {
	m    *Map[V]
	node rbtree.Node
	key  int
}

func (e *liveEntry[V]) Key() int { return e.key }

func (e *liveEntry[V]) Value() V {
	if n := e.locate(); n != rbtree.Nil {
		return e.m.tree.Value(n)
	}

	var zero V

	return zero
}

func (e *liveEntry[V]) SetValue(value V) (V, error) {
	n := e.locate()
	if n == rbtree.Nil {
		var zero V

		return zero, fmt.Errorf("%w: entry %d was removed", ErrIllegalState, e.key)
	}

	return e.m.tree.SetValue(n, value), nil
}

func (e *liveEntry[V]) String() string {
	return fmt.Sprintf("%d=%v", e.key, e.Value())
}

func (e *liveEntry[V]) locate() rbtree.Node {
	tree := e.m.tree
	if tree.Valid(e.node) && tree.Key(e.node) == e.key {
		return e.node
	}

	e.node = tree.Find(e.key)

	return e.node
}

func exportEntry[V any](tree *rbtree.Tree[V], n rbtree.Node) Entry[V] {
	if n == rbtree.Nil {
		return nil
	}

	return snapshotEntry[V]{key: tree.Key(n), value: tree.Value(n)}
}

// valEquals compares values of arbitrary type by deep equality.
func valEquals[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}
