package interval

import (
	"cmp"
	"errors"
	"fmt"
)

// ErrNotTotalOrder is the fault raised when two keys cannot be ordered.
var ErrNotTotalOrder = errors.New("values are not totally ordered")

// CompareFunc returns a negative number when a < b, zero when a == b and a
// positive number when a > b. It must be a total order over the values used.
type CompareFunc[T any] func(a, b T) int

// Ordered returns the natural order of T. Unordered values (NaN) panic with
// ErrNotTotalOrder instead of being silently sorted.
func Ordered[T cmp.Ordered]() CompareFunc[T] {
	return func(a, b T) int {
		if a != a || b != b {
			panic(fmt.Errorf("%w: %v <=> %v", ErrNotTotalOrder, a, b))
		}
		return cmp.Compare(a, b)
	}
}

type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

func (k BoundKind) String() string {
	switch k {
	case Unbounded:
		return "Unbounded"
	case Included:
		return "Included"
	case Excluded:
		return "Excluded"
	}
	return fmt.Sprintf("BoundKind(%d)", int(k))
}

// Bound is one endpoint marker of a range. Value is only meaningful when
// Kind is Included or Excluded.
type Bound[T any] struct {
	Kind  BoundKind
	Value T
}

func UnboundedBound[T any]() Bound[T]   { return Bound[T]{} }
func IncludedBound[T any](v T) Bound[T] { return Bound[T]{Kind: Included, Value: v} }
func ExcludedBound[T any](v T) Bound[T] { return Bound[T]{Kind: Excluded, Value: v} }

func (b Bound[T]) IsUnbounded() bool { return b.Kind == Unbounded }

// flip returns the bound at the same value playing the opposite role.
func (b Bound[T]) flip() Bound[T] {
	switch b.Kind {
	case Included:
		return Bound[T]{Kind: Excluded, Value: b.Value}
	case Excluded:
		return Bound[T]{Kind: Included, Value: b.Value}
	}
	panic("interval: cannot convert an unbounded bound")
}

// StartBound is a Bound used as the start of a range. Unbounded is -inf.
type StartBound[T any] struct {
	Bound[T]
}

// EndBound is a Bound used as the end of a range. Unbounded is +inf.
type EndBound[T any] struct {
	Bound[T]
}

func Start[T any](b Bound[T]) StartBound[T] { return StartBound[T]{b} }
func End[T any](b Bound[T]) EndBound[T]     { return EndBound[T]{b} }

// ToEnd returns the end bound that finishes just before s begins. Included
// and Excluded swap; an unbounded start has no such end and panics.
func (s StartBound[T]) ToEnd() EndBound[T] { return EndBound[T]{s.flip()} }

// ToStart returns the start bound that begins just after e finishes.
func (e EndBound[T]) ToStart() StartBound[T] { return StartBound[T]{e.flip()} }

// Compare orders two start bounds. At equal values an excluded start begins
// after an included one.
func (s StartBound[T]) Compare(o StartBound[T], cmp CompareFunc[T]) int {
	switch {
	case s.Kind == Unbounded && o.Kind == Unbounded:
		return 0
	case s.Kind == Unbounded:
		return -1
	case o.Kind == Unbounded:
		return 1
	}
	if c := cmp(s.Value, o.Value); c != 0 || s.Kind == o.Kind {
		return c
	}
	if s.Kind == Excluded {
		return 1
	}
	return -1
}

// CompareEnd orders a start bound against an end bound. The result is
// positive exactly when the interval [s, e] is empty.
func (s StartBound[T]) CompareEnd(e EndBound[T], cmp CompareFunc[T]) int {
	if s.Kind == Unbounded || e.Kind == Unbounded {
		return -1
	}
	if c := cmp(s.Value, e.Value); c != 0 {
		return c
	}
	if s.Kind == Included && e.Kind == Included {
		return 0
	}
	return 1
}

// ComparePoint orders s against the point x: negative when the range would
// already have started at x, positive when it starts after x.
func (s StartBound[T]) ComparePoint(x T, cmp CompareFunc[T]) int {
	switch s.Kind {
	case Unbounded:
		return -1
	case Excluded:
		if c := cmp(s.Value, x); c != 0 {
			return c
		}
		return 1
	}
	return cmp(s.Value, x)
}

// Compare orders two end bounds. At equal values an excluded end finishes
// before an included one.
func (e EndBound[T]) Compare(o EndBound[T], cmp CompareFunc[T]) int {
	switch {
	case e.Kind == Unbounded && o.Kind == Unbounded:
		return 0
	case e.Kind == Unbounded:
		return 1
	case o.Kind == Unbounded:
		return -1
	}
	if c := cmp(e.Value, o.Value); c != 0 || e.Kind == o.Kind {
		return c
	}
	if e.Kind == Excluded {
		return -1
	}
	return 1
}

// CompareStart orders an end bound against a start bound.
func (e EndBound[T]) CompareStart(s StartBound[T], cmp CompareFunc[T]) int {
	return -s.CompareEnd(e, cmp)
}

// ComparePoint orders e against the point x: negative when the range has
// already finished at x.
func (e EndBound[T]) ComparePoint(x T, cmp CompareFunc[T]) int {
	switch e.Kind {
	case Unbounded:
		return 1
	case Excluded:
		if c := cmp(e.Value, x); c != 0 {
			return c
		}
		return -1
	}
	return cmp(e.Value, x)
}
