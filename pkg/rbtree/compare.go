package rbtree

import (
	"cmp"
	"reflect"
)

// Comparator defines a strict total order over int keys. Compare returns a
// negative number when a sorts before b, zero when they are equivalent and a
// positive number otherwise.
type Comparator interface {
	Compare(a, b int) int
}

// CompareFunc adapts an ordinary function to the Comparator interface.
type CompareFunc func(a, b int) int

// Compare calls f(a, b).
func (f CompareFunc) Compare(a, b int) int {
	return f(a, b)
}

// Natural is ascending integer order.
type Natural struct{}

// Compare implements Comparator.
func (Natural) Compare(a, b int) int {
	return cmp.Compare(a, b)
}

// Reversed inverts an ordering. A nil Order stands for Natural.
type Reversed struct {
	Order Comparator
}

// Compare implements Comparator.
func (r Reversed) Compare(a, b int) int {
	return compareWith(r.Order, b, a)
}

// Reverse returns the inverse of c. Reversing a reversed ordering yields the
// original one; a nil c means natural order.
func Reverse(c Comparator) Comparator {
	if r, ok := c.(Reversed); ok {
		return r.Order
	}

	return Reversed{Order: c}
}

// SameOrder reports whether two comparators are known to define the same
// ordering. Function comparators are never considered equal.
func SameOrder(a, b Comparator) bool {
	if isNatural(a) && isNatural(b) {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	ra, aok := a.(Reversed)
	rb, bok := b.(Reversed)

	if aok && bok {
		return SameOrder(ra.Order, rb.Order)
	}

	if aok != bok {
		return false
	}

	if !reflect.TypeOf(a).Comparable() || reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return a == b
}

func isNatural(c Comparator) bool {
	if c == nil {
		return true
	}

	_, ok := c.(Natural)

	return ok
}

func compareWith(c Comparator, a, b int) int {
	if c == nil {
		return cmp.Compare(a, b)
	}

	return c.Compare(a, b)
}
