// Package rbtree implements an arena-backed red-black tree keyed by int.
//
// Nodes live in an Allocator and are referenced by Node handles, so parent
// links are plain indices. The tree keeps the classic invariants: the root is
// black, no red node has a red child and every root-to-leaf path holds the
// same number of black nodes.
package rbtree

import "errors"

// ErrInvariant is returned by Check when the tree structure is corrupt.
var ErrInvariant = errors.New("rbtree invariant violated")

// Tree is a red-black tree mapping int keys to values of type V.
//
// Deleting a node with two children moves its in-order successor's key and
// value into the node and unlinks the successor cell instead. Handles to
// other nodes stay valid across such a deletion.
type Tree[V any] struct {
	// Nodes allocator.
	alloc *Allocator[V]

	// Root of the tree.
	root Node

	// Number of nodes under root, including the root.
	count int

	// Ordering; nil means natural order.
	cmp Comparator
}

// New creates an empty tree ordered by c. A nil c selects natural order.
func New[V any](c Comparator) *Tree[V] {
	if isNatural(c) {
		c = nil
	}

	return &Tree[V]{alloc: NewAllocator[V](), cmp: c}
}

// Allocator returns the bound nodes allocator.
func (tree *Tree[V]) Allocator() *Allocator[V] {
	return tree.alloc
}

// Comparator returns the ordering, or nil for natural order.
func (tree *Tree[V]) Comparator() Comparator {
	return tree.cmp
}

// Compare orders two keys with the tree's ordering.
func (tree *Tree[V]) Compare(a, b int) int {
	return compareWith(tree.cmp, a, b)
}

// Len returns the number of elements in the tree.
func (tree *Tree[V]) Len() int {
	return tree.count
}

// Root returns the root node, Nil when the tree is empty.
func (tree *Tree[V]) Root() Node {
	return tree.root
}

// Valid reports whether n refers to a live node.
func (tree *Tree[V]) Valid(n Node) bool {
	return tree.alloc.valid(n)
}

// Key returns the key stored in n.
func (tree *Tree[V]) Key(n Node) int {
	return tree.alloc.storage[n].key
}

// Value returns the value stored in n.
func (tree *Tree[V]) Value(n Node) V {
	return tree.alloc.storage[n].value
}

// SetValue replaces the value stored in n and returns the previous one.
// This is not a structural change.
func (tree *Tree[V]) SetValue(n Node, value V) V {
	doAssert(n != Nil)

	old := tree.alloc.storage[n].value
	tree.alloc.storage[n].value = value

	return old
}

// Left returns the left child of n.
func (tree *Tree[V]) Left(n Node) Node {
	return tree.alloc.storage[n].left
}

// Right returns the right child of n.
func (tree *Tree[V]) Right(n Node) Node {
	return tree.alloc.storage[n].right
}

// Parent returns the parent of n.
func (tree *Tree[V]) Parent(n Node) Node {
	return tree.alloc.storage[n].parent
}

// IsRed reports whether n is red. Nil is black.
func (tree *Tree[V]) IsRed(n Node) bool {
	return colorOf(n, tree.alloc.storage) == red
}

// Clear removes all the nodes from the tree and releases the arena.
func (tree *Tree[V]) Clear() {
	tree.alloc = NewAllocator[V]()
	tree.root = Nil
	tree.count = 0
}

// Find returns the node holding key, or Nil.
func (tree *Tree[V]) Find(key int) Node {
	alloc := tree.alloc.storage
	cursor := tree.root

	for cursor != Nil {
		switch c := tree.Compare(key, alloc[cursor].key); {
		case c < 0:
			cursor = alloc[cursor].left
		case c > 0:
			cursor = alloc[cursor].right
		default:
			return cursor
		}
	}

	return Nil
}

// Put inserts key with value. When key is already present its value is
// replaced in place, the previous value is returned and replaced is true.
func (tree *Tree[V]) Put(key int, value V) (n Node, old V, replaced bool) {
	if tree.root == Nil {
		n = tree.alloc.malloc()
		cell := &tree.alloc.storage[n]
		cell.key = key
		cell.value = value
		cell.color = black
		tree.root = n
		tree.count = 1

		return n, old, false
	}

	alloc := tree.alloc.storage
	parent := Nil
	cursor := tree.root
	c := 0

	for cursor != Nil {
		parent = cursor
		c = tree.Compare(key, alloc[cursor].key)

		switch {
		case c < 0:
			cursor = alloc[cursor].left
		case c > 0:
			cursor = alloc[cursor].right
		default:
			old = alloc[cursor].value
			alloc[cursor].value = value

			return cursor, old, true
		}
	}

	n = tree.alloc.malloc()
	// malloc may have grown the storage.
	alloc = tree.alloc.storage
	alloc[n].key = key
	alloc[n].value = value
	alloc[n].parent = parent

	if c < 0 {
		alloc[parent].left = n
	} else {
		alloc[parent].right = n
	}

	tree.fixAfterInsertion(n)
	tree.count++

	return n, old, false
}

// Delete unlinks n from the tree and rebalances. When n has two children the
// successor's key and value are moved into n and the successor cell is freed.
func (tree *Tree[V]) Delete(n Node) {
	doAssert(tree.alloc.valid(n))

	alloc := tree.alloc.storage
	tree.count--

	if alloc[n].left != Nil && alloc[n].right != Nil {
		s := tree.Next(n)
		alloc[n].key = alloc[s].key
		alloc[n].value = alloc[s].value
		n = s
	}

	replacement := alloc[n].left
	if replacement == Nil {
		replacement = alloc[n].right
	}

	switch {
	case replacement != Nil:
		alloc[replacement].parent = alloc[n].parent
		tree.replaceChild(n, replacement)

		alloc[n].left, alloc[n].right, alloc[n].parent = Nil, Nil, Nil

		if alloc[n].color == black {
			tree.fixAfterDeletion(replacement)
		}
	case alloc[n].parent == Nil:
		tree.root = Nil
	default:
		if alloc[n].color == black {
			tree.fixAfterDeletion(n)
		}

		if parent := alloc[n].parent; parent != Nil {
			if alloc[parent].left == n {
				alloc[parent].left = Nil
			} else if alloc[parent].right == n {
				alloc[parent].right = Nil
			}

			alloc[n].parent = Nil
		}
	}

	tree.alloc.free(n)
}

// replaceChild points oldn's parent (or the root) at newn.
func (tree *Tree[V]) replaceChild(oldn, newn Node) {
	alloc := tree.alloc.storage
	parent := alloc[oldn].parent

	switch {
	case parent == Nil:
		tree.root = newn
	case alloc[parent].left == oldn:
		alloc[parent].left = newn
	default:
		alloc[parent].right = newn
	}
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}
