package rbtree

const (
	red   = false
	black = true
)

// Internal node attribute accessors. All of them treat Nil as a black leaf
// and ignore writes to it.

func colorOf[V any](n Node, alloc []node[V]) bool {
	if n == Nil {
		return black
	}

	return alloc[n].color
}

func setColor[V any](n Node, color bool, alloc []node[V]) {
	if n != Nil {
		alloc[n].color = color
	}
}

func parentOf[V any](n Node, alloc []node[V]) Node {
	if n == Nil {
		return Nil
	}

	return alloc[n].parent
}

// childOf returns the left child when left is set, the right one otherwise.
func childOf[V any](n Node, left bool, alloc []node[V]) Node {
	if n == Nil {
		return Nil
	}

	if left {
		return alloc[n].left
	}

	return alloc[n].right
}

// fixAfterInsertion restores the red-black properties after x was linked as
// a new leaf.
func (tree *Tree[V]) fixAfterInsertion(x Node) {
	alloc := tree.alloc.storage
	alloc[x].color = red

	for x != Nil && x != tree.root && alloc[alloc[x].parent].color == red {
		parent := parentOf(x, alloc)
		grand := parentOf(parent, alloc)
		// onLeft tells which side of the grandparent the parent hangs on.
		onLeft := parent == childOf(grand, true, alloc)
		uncle := childOf(grand, !onLeft, alloc)

		if colorOf(uncle, alloc) == red {
			setColor(parent, black, alloc)
			setColor(uncle, black, alloc)
			setColor(grand, red, alloc)
			x = grand

			continue
		}

		if x == childOf(parent, !onLeft, alloc) {
			x = parent
			tree.rotateDirection(x, onLeft)
		}

		parent = parentOf(x, alloc)
		grand = parentOf(parent, alloc)
		setColor(parent, black, alloc)
		setColor(grand, red, alloc)

		if grand != Nil {
			tree.rotateDirection(grand, !onLeft)
		}
	}

	alloc[tree.root].color = black
}

// fixAfterDeletion restores the red-black properties after a black node was
// unlinked; x is the node that took its place, or the doomed leaf itself.
func (tree *Tree[V]) fixAfterDeletion(x Node) {
	alloc := tree.alloc.storage

	for x != tree.root && colorOf(x, alloc) == black {
		parent := parentOf(x, alloc)
		onLeft := x == childOf(parent, true, alloc)
		sib := childOf(parent, !onLeft, alloc)

		if colorOf(sib, alloc) == red {
			setColor(sib, black, alloc)
			setColor(parent, red, alloc)
			tree.rotateDirection(parent, onLeft)
			sib = childOf(parentOf(x, alloc), !onLeft, alloc)
		}

		if colorOf(childOf(sib, true, alloc), alloc) == black &&
			colorOf(childOf(sib, false, alloc), alloc) == black {
			setColor(sib, red, alloc)
			x = parentOf(x, alloc)

			continue
		}

		if colorOf(childOf(sib, !onLeft, alloc), alloc) == black {
			setColor(childOf(sib, onLeft, alloc), black, alloc)
			setColor(sib, red, alloc)
			tree.rotateDirection(sib, !onLeft)
			sib = childOf(parentOf(x, alloc), !onLeft, alloc)
		}

		parent = parentOf(x, alloc)
		setColor(sib, colorOf(parent, alloc), alloc)
		setColor(parent, black, alloc)
		setColor(childOf(sib, !onLeft, alloc), black, alloc)
		tree.rotateDirection(parent, onLeft)
		x = tree.root
	}

	setColor(x, black, alloc)
}

// rotateDirection performs a tree rotation in the specified direction.
// isLeft=true performs left rotation, isLeft=false performs right rotation.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree[V]) rotateDirection(pivot Node, isLeft bool) {
	if pivot == Nil {
		return
	}

	alloc := tree.alloc.storage
	child := childOf(pivot, !isLeft, alloc)

	// Move the inner subtree.
	inner := childOf(child, isLeft, alloc)
	if isLeft {
		alloc[pivot].right = inner
	} else {
		alloc[pivot].left = inner
	}

	if inner != Nil {
		alloc[inner].parent = pivot
	}

	alloc[child].parent = alloc[pivot].parent
	tree.replaceChild(pivot, child)

	if isLeft {
		alloc[child].left = pivot
	} else {
		alloc[child].right = pivot
	}

	alloc[pivot].parent = child
}
