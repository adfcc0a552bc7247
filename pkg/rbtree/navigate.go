package rbtree

// First returns the node with the lowest key, or Nil.
func (tree *Tree[V]) First() Node {
	return tree.extreme(tree.root, true)
}

// Last returns the node with the highest key, or Nil.
func (tree *Tree[V]) Last() Node {
	return tree.extreme(tree.root, false)
}

func (tree *Tree[V]) extreme(n Node, left bool) Node {
	if n == Nil {
		return Nil
	}

	alloc := tree.alloc.storage

	for next := childOf(n, left, alloc); next != Nil; next = childOf(n, left, alloc) {
		n = next
	}

	return n
}

// Next returns the in-order successor of n, or Nil.
func (tree *Tree[V]) Next(n Node) Node {
	return tree.step(n, false)
}

// Prev returns the in-order predecessor of n, or Nil.
func (tree *Tree[V]) Prev(n Node) Node {
	return tree.step(n, true)
}

// step walks one position in order: backwards when back is set.
func (tree *Tree[V]) step(n Node, back bool) Node {
	if n == Nil {
		return Nil
	}

	alloc := tree.alloc.storage

	if sub := childOf(n, back, alloc); sub != Nil {
		return tree.extreme(sub, !back)
	}

	return tree.climb(n, back)
}

// climb walks up from n while it is a left child (a right child when fromLeft
// is unset) and returns the first ancestor reached from the other side.
func (tree *Tree[V]) climb(n Node, fromLeft bool) Node {
	alloc := tree.alloc.storage
	parent := alloc[n].parent

	for parent != Nil && n == childOf(parent, fromLeft, alloc) {
		n = parent
		parent = alloc[parent].parent
	}

	return parent
}

// Ceiling returns the node with the least key greater than or equal to key,
// or Nil.
func (tree *Tree[V]) Ceiling(key int) Node {
	return tree.search(key, true, true)
}

// Higher returns the node with the least key strictly greater than key, or
// Nil.
func (tree *Tree[V]) Higher(key int) Node {
	return tree.search(key, true, false)
}

// Floor returns the node with the greatest key less than or equal to key, or
// Nil.
func (tree *Tree[V]) Floor(key int) Node {
	return tree.search(key, false, true)
}

// Lower returns the node with the greatest key strictly less than key, or
// Nil.
func (tree *Tree[V]) Lower(key int) Node {
	return tree.search(key, false, false)
}

// search descends once from the root looking for the nearest key above
// (up) or below key. When the descent falls off the tree on the wrong side
// it climbs back to the first ancestor on the right side.
func (tree *Tree[V]) search(key int, up, inclusive bool) Node {
	alloc := tree.alloc.storage
	cursor := tree.root

	for cursor != Nil {
		c := tree.Compare(key, alloc[cursor].key)

		if c == 0 && inclusive {
			return cursor
		}

		// Go towards the target side when the key sorts on it, or when the
		// cursor equals key and equality is excluded.
		var towardsLeft bool
		if up {
			towardsLeft = c < 0
		} else {
			towardsLeft = c <= 0
		}

		next := childOf(cursor, towardsLeft, alloc)
		if next != Nil {
			cursor = next

			continue
		}

		if towardsLeft == up {
			return cursor
		}

		return tree.climb(cursor, towardsLeft)
	}

	return Nil
}
