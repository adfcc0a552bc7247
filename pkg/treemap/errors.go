package treemap

import "errors"

var (
	// ErrRangeViolation is returned when a key or bound falls outside a range
	// view, or when a view is requested with its low bound above its high one.
	ErrRangeViolation = errors.New("treemap: range violation")
	// ErrConcurrentModification is returned by an iterator that observes a
	// structural change it did not make itself.
	ErrConcurrentModification = errors.New("treemap: concurrent structural change")
	// ErrNoSuchElement is returned when asking an empty map or an exhausted
	// iterator for an element.
	ErrNoSuchElement = errors.New("treemap: no such element")
	// ErrUnsupportedOperation is returned by insertions through derived views
	// and by SetValue on detached entries.
	ErrUnsupportedOperation = errors.New("treemap: unsupported operation")
	// ErrIllegalState is returned by Iterator.Remove when no element was
	// returned since the last removal.
	ErrIllegalState = errors.New("treemap: illegal iterator state")
)
