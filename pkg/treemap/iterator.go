package treemap

import (
	"iter"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
)

// Iterator walks a map or one of its views. It is fail-fast: once the
// backing map is structurally changed by anything but the iterator's own
// Remove, Next returns ErrConcurrentModification.
type Iterator[T any] struct {
	cur     cursor
	project func(rbtree.Node) T
}

type cursor interface {
	hasNext() bool
	advance() (rbtree.Node, error)
	remove() error
}

func newIterator[T any](cur cursor, project func(rbtree.Node) T) *Iterator[T] {
	return &Iterator[T]{cur: cur, project: project}
}

// HasNext reports whether Next has an element to return. After a
// concurrent structural change it reports true, so that the following Next
// surfaces the error.
func (it *Iterator[T]) HasNext() bool {
	return it.cur.hasNext()
}

// Next returns the following element, ErrNoSuchElement once exhausted or
// ErrConcurrentModification.
func (it *Iterator[T]) Next() (T, error) {
	n, err := it.cur.advance()
	if err != nil {
		var zero T

		return zero, err
	}

	return it.project(n), nil
}

// Remove deletes the element last returned by Next from the backing map.
// It returns ErrIllegalState when Next was not called since the previous
// Remove.
func (it *Iterator[T]) Remove() error {
	return it.cur.remove()
}

// nodeCursor is the traversal state shared by all iterators. It stops at
// the end of the tree or at the fence, the first key past the view's range.
// The fence is remembered by key: deleting a node with two children moves
// the successor's key into another cell.
type nodeCursor[V any] struct {
	m            *Map[V]
	next         rbtree.Node
	lastReturned rbtree.Node
	fenceKey     int
	fenced       bool
	expected     int
	descending   bool
}

func (m *Map[V]) newCursor(first, fence rbtree.Node, descending bool) *nodeCursor[V] {
	c := &nodeCursor[V]{m: m, next: first, expected: m.modCount, descending: descending}

	if fence != rbtree.Nil {
		c.fenceKey, c.fenced = m.tree.Key(fence), true
	}

	return c
}

func (c *nodeCursor[V]) hasNext() bool {
	if c.m.modCount != c.expected {
		return true
	}

	return c.next != rbtree.Nil && !(c.fenced && c.m.tree.Key(c.next) == c.fenceKey)
}

func (c *nodeCursor[V]) advance() (rbtree.Node, error) {
	if c.m.modCount != c.expected {
		return rbtree.Nil, ErrConcurrentModification
	}

	if !c.hasNext() {
		return rbtree.Nil, ErrNoSuchElement
	}

	e := c.next
	if c.descending {
		c.next = c.m.tree.Prev(e)
	} else {
		c.next = c.m.tree.Next(e)
	}

	c.lastReturned = e

	return e, nil
}

func (c *nodeCursor[V]) remove() error {
	if c.lastReturned == rbtree.Nil {
		return ErrIllegalState
	}

	if c.m.modCount != c.expected {
		return ErrConcurrentModification
	}

	tree := c.m.tree

	// Deleting a node with two children moves its successor into it. In
	// ascending order that successor is the next element.
	if !c.descending && tree.Left(c.lastReturned) != rbtree.Nil && tree.Right(c.lastReturned) != rbtree.Nil {
		c.next = c.lastReturned
	}

	c.m.deleteNode(c.lastReturned)
	c.lastReturned = rbtree.Nil
	c.expected = c.m.modCount

	return nil
}

// pairs turns a cursor factory into a range function. The cursor is created
// when the loop starts.
func (m *Map[V]) pairs(newCursor func() *nodeCursor[V]) iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		cur := newCursor()

		for cur.hasNext() {
			n, err := cur.advance()
			if err != nil {
				panic(err)
			}

			if !yield(m.tree.Key(n), m.tree.Value(n)) {
				return
			}
		}
	}
}
