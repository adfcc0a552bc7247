package rbtree

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrShortSource is returned by Build when the source yields fewer
	// pairs than announced.
	ErrShortSource = errors.New("rbtree: source ended early")
	// ErrUnsorted is returned by Build when keys are not strictly
	// increasing under the tree's ordering.
	ErrUnsorted = errors.New("rbtree: source keys are not strictly increasing")
)

// maxBuildPrealloc caps the cells reserved up front, so an announced size
// read from untrusted input cannot force a huge allocation.
const maxBuildPrealloc = 1 << 20

// Source yields key/value pairs in ascending order for Build. It returns
// io.EOF once exhausted.
type Source[V any] interface {
	Next() (key int, value V, err error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[V any] func() (int, V, error)

// Next calls f.
func (f SourceFunc[V]) Next() (int, V, error) {
	return f()
}

// Build replaces the content of the tree with size pairs pulled from src,
// in linear time. Nodes of the deepest, possibly incomplete, level are red
// and all others are black. The tree is only modified when the whole source
// was consumed successfully.
func (tree *Tree[V]) Build(size int, src Source[V]) error {
	if size < 0 || size > maxNodes {
		return fmt.Errorf("rbtree: build size %d out of range", size)
	}

	builder := &builder[V]{
		alloc: NewAllocatorWithCapacity[V](min(size, maxBuildPrealloc)),
		src:   src,
		cmp:   tree.cmp,
	}

	root, err := builder.build(0, 0, size-1, computeRedLevel(size))
	if err != nil {
		return err
	}

	tree.alloc = builder.alloc
	tree.root = root
	tree.count = size

	return nil
}

type builder[V any] struct {
	alloc   *Allocator[V]
	src     Source[V]
	cmp     Comparator
	prevKey int
	started bool
}

// build constructs the subtree for positions lo..hi, taking the middle
// element as its root, and returns it. Elements are consumed in order: left
// subtree, root, right subtree.
func (b *builder[V]) build(level, lo, hi, redLevel int) (Node, error) {
	if hi < lo {
		return Nil, nil
	}

	mid := int(uint(lo+hi) >> 1)

	left := Nil

	if lo < mid {
		var err error

		left, err = b.build(level+1, lo, mid-1, redLevel)
		if err != nil {
			return Nil, err
		}
	}

	key, value, err := b.src.Next()
	if errors.Is(err, io.EOF) {
		return Nil, fmt.Errorf("%w: got %d pairs", ErrShortSource, mid)
	}

	if err != nil {
		return Nil, fmt.Errorf("rbtree: read pair %d: %w", mid, err)
	}

	if b.started && compareWith(b.cmp, b.prevKey, key) >= 0 {
		return Nil, fmt.Errorf("%w: %d after %d", ErrUnsorted, key, b.prevKey)
	}

	b.prevKey, b.started = key, true

	n := b.alloc.malloc()
	cell := &b.alloc.storage[n]
	cell.key = key
	cell.value = value
	cell.color = black

	if level == redLevel {
		cell.color = red
	}

	if left != Nil {
		cell.left = left
		b.alloc.storage[left].parent = n
	}

	if mid < hi {
		right, err := b.build(level+1, mid+1, hi, redLevel)
		if err != nil {
			return Nil, err
		}

		b.alloc.storage[n].right = right
		b.alloc.storage[right].parent = n
	}

	return n, nil
}

// computeRedLevel finds the level down to which a complete binary tree of sz
// nodes is full. Nodes below that level are the only ones colored red.
func computeRedLevel(sz int) int {
	level := 0

	for m := sz - 1; m >= 0; m = m/2 - 1 {
		level++
	}

	return level
}
