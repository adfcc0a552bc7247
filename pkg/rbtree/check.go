package rbtree

import "fmt"

// Check walks the whole tree and verifies that keys are strictly increasing
// in order, parent links are consistent, the root is black, no red node has
// a red child, all root-to-leaf paths carry the same number of black nodes
// and the node count matches Len.
func (tree *Tree[V]) Check() error {
	alloc := tree.alloc.storage

	if tree.root == Nil {
		if tree.count != 0 {
			return fmt.Errorf("%w: empty tree reports %d nodes", ErrInvariant, tree.count)
		}

		return nil
	}

	if alloc[tree.root].parent != Nil {
		return fmt.Errorf("%w: root %d has a parent", ErrInvariant, tree.root)
	}

	if colorOf(tree.root, alloc) != black {
		return fmt.Errorf("%w: root is red", ErrInvariant)
	}

	c := &checker[V]{tree: tree}

	if _, err := c.walk(tree.root); err != nil {
		return err
	}

	if c.seen != tree.count {
		return fmt.Errorf("%w: reached %d nodes, count is %d", ErrInvariant, c.seen, tree.count)
	}

	if used := tree.alloc.Used(); used != tree.count {
		return fmt.Errorf("%w: allocator holds %d nodes, count is %d", ErrInvariant, used, tree.count)
	}

	return nil
}

type checker[V any] struct {
	tree    *Tree[V]
	seen    int
	prevKey int
	started bool
}

// walk checks the subtree at n in order and returns its black height.
func (c *checker[V]) walk(n Node) (int, error) {
	if n == Nil {
		return 1, nil
	}

	tree := c.tree
	alloc := tree.alloc.storage

	if !tree.alloc.valid(n) {
		return 0, fmt.Errorf("%w: node %d is not allocated", ErrInvariant, n)
	}

	left, right := alloc[n].left, alloc[n].right

	for _, child := range [2]Node{left, right} {
		if child == Nil {
			continue
		}

		if int(child) >= len(alloc) || alloc[child].parent != n {
			return 0, fmt.Errorf("%w: child %d of %d has a broken parent link", ErrInvariant, child, n)
		}

		if alloc[n].color == red && colorOf(child, alloc) == red {
			return 0, fmt.Errorf("%w: red node %d has a red child %d", ErrInvariant, alloc[n].key, alloc[child].key)
		}
	}

	leftHeight, err := c.walk(left)
	if err != nil {
		return 0, err
	}

	if c.started && tree.Compare(c.prevKey, alloc[n].key) >= 0 {
		return 0, fmt.Errorf("%w: key %d follows %d", ErrInvariant, alloc[n].key, c.prevKey)
	}

	c.prevKey, c.started = alloc[n].key, true
	c.seen++

	rightHeight, err := c.walk(right)
	if err != nil {
		return 0, err
	}

	if leftHeight != rightHeight {
		return 0, fmt.Errorf("%w: black heights %d and %d differ below key %d",
			ErrInvariant, leftHeight, rightHeight, alloc[n].key)
	}

	if alloc[n].color == black {
		leftHeight++
	}

	return leftHeight, nil
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (tree *Tree[V]) Height() int {
	return tree.height(tree.root)
}

func (tree *Tree[V]) height(n Node) int {
	if n == Nil {
		return 0
	}

	alloc := tree.alloc.storage

	return 1 + max(tree.height(alloc[n].left), tree.height(alloc[n].right))
}

// BlackHeight returns the number of black nodes on the leftmost
// root-to-leaf path.
func (tree *Tree[V]) BlackHeight() int {
	height := 0

	for n := tree.root; n != Nil; n = tree.alloc.storage[n].left {
		if tree.alloc.storage[n].color == black {
			height++
		}
	}

	return height
}
