package rbtree

import (
	"math"

	"github.com/Sumatoshi-tech/treemap/pkg/safeconv"
)

// Node is a stable handle to a cell in an Allocator. Nil is never allocated.
type Node uint32

// Nil is the absent node.
const Nil Node = 0

// maxNodes is the largest number of cells an allocator can hand out; index 0 is reserved.
const maxNodes = math.MaxUint32 - 1

type node[V any] struct {
	key                 int
	value               V
	parent, left, right Node
	color               bool // Black or red.
	inUse               bool
}

// Allocator owns every node cell of a Tree. Cells are addressed by Node
// handles and reused through a free list.
type Allocator[V any] struct {
	storage []node[V]
	gaps    []Node
}

// NewAllocator creates a new allocator for Tree nodes.
func NewAllocator[V any]() *Allocator[V] {
	return NewAllocatorWithCapacity[V](0)
}

// NewAllocatorWithCapacity creates an allocator with room for capacity nodes.
func NewAllocatorWithCapacity[V any](capacity int) *Allocator[V] {
	storage := make([]node[V], 1, capacity+1)

	return &Allocator[V]{storage: storage}
}

// Size returns the currently allocated size, the reserved cell included.
func (allocator *Allocator[V]) Size() int {
	return len(allocator.storage)
}

// Used returns the number of live nodes contained in the allocator.
func (allocator *Allocator[V]) Used() int {
	return len(allocator.storage) - 1 - len(allocator.gaps)
}

// Free returns the number of released cells waiting for reuse.
func (allocator *Allocator[V]) Free() int {
	return len(allocator.gaps)
}

func (allocator *Allocator[V]) malloc() Node {
	if n := len(allocator.gaps); n > 0 {
		idx := allocator.gaps[n-1]
		allocator.gaps = allocator.gaps[:n-1]
		allocator.storage[idx].inUse = true

		return idx
	}

	nodeLen := len(allocator.storage)
	if nodeLen > maxNodes {
		panic("rbtree allocator has reached the maximum value for uint32")
	}

	allocator.storage = append(allocator.storage, node[V]{inUse: true})

	return Node(safeconv.MustIntToUint32(nodeLen))
}

func (allocator *Allocator[V]) free(idx Node) {
	if idx == Nil {
		panic("node #0 is special and cannot be deallocated")
	}

	doAssert(allocator.storage[idx].inUse)

	allocator.storage[idx] = node[V]{}
	allocator.gaps = append(allocator.gaps, idx)
}

func (allocator *Allocator[V]) valid(idx Node) bool {
	return idx != Nil && int(idx) < len(allocator.storage) && allocator.storage[idx].inUse
}
