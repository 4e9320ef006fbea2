package interval

import (
	"fmt"
	"strings"
)

// Interval is a range of T delimited by a start and an end bound.
//
// The zero Interval is the full range (-∞, +∞).
type Interval[T any] struct {
	Start StartBound[T]
	End   EndBound[T]
}

func New[T any](start, end Bound[T]) Interval[T] {
	return Interval[T]{Start: StartBound[T]{start}, End: EndBound[T]{end}}
}

// HalfOpen returns [a, b).
func HalfOpen[T any](a, b T) Interval[T] { return New(IncludedBound(a), ExcludedBound(b)) }

// Closed returns [a, b].
func Closed[T any](a, b T) Interval[T] { return New(IncludedBound(a), IncludedBound(b)) }

// Open returns (a, b).
func Open[T any](a, b T) Interval[T] { return New(ExcludedBound(a), ExcludedBound(b)) }

// OpenClosed returns (a, b].
func OpenClosed[T any](a, b T) Interval[T] { return New(ExcludedBound(a), IncludedBound(b)) }

// AtLeast returns [a, +∞).
func AtLeast[T any](a T) Interval[T] { return New(IncludedBound(a), UnboundedBound[T]()) }

// GreaterThan returns (a, +∞).
func GreaterThan[T any](a T) Interval[T] { return New(ExcludedBound(a), UnboundedBound[T]()) }

// LessThan returns (-∞, b).
func LessThan[T any](b T) Interval[T] { return New(UnboundedBound[T](), ExcludedBound(b)) }

// AtMost returns (-∞, b].
func AtMost[T any](b T) Interval[T] { return New(UnboundedBound[T](), IncludedBound(b)) }

// Full returns (-∞, +∞).
func Full[T any]() Interval[T] { return Interval[T]{} }

// Point returns [a, a].
func Point[T any](a T) Interval[T] { return Closed(a, a) }

// IsEmpty reports whether no value lies in r. A closed single point is not
// empty.
func (r Interval[T]) IsEmpty(cmp CompareFunc[T]) bool {
	return r.Start.CompareEnd(r.End, cmp) > 0
}

// ComparePoint returns -1 when r lies entirely below x, 1 when it lies
// entirely above x and 0 when x is inside r. Over a sorted run of disjoint
// intervals this is the order a binary search for x needs.
func (r Interval[T]) ComparePoint(x T, cmp CompareFunc[T]) int {
	if r.Start.ComparePoint(x, cmp) > 0 {
		return 1
	}
	if r.End.ComparePoint(x, cmp) < 0 {
		return -1
	}
	return 0
}

func (r Interval[T]) Contains(x T, cmp CompareFunc[T]) bool {
	return r.ComparePoint(x, cmp) == 0
}

// EntirelyBefore returns whether r finishes before other starts.
func (r Interval[T]) EntirelyBefore(other Interval[T], cmp CompareFunc[T]) bool {
	return r.End.CompareStart(other.Start, cmp) < 0
}

// EntirelyAfter returns whether r starts after other finishes.
func (r Interval[T]) EntirelyAfter(other Interval[T], cmp CompareFunc[T]) bool {
	return r.Start.CompareEnd(other.End, cmp) > 0
}

// Overlaps returns whether r and other share at least one value. Both are
// assumed non-empty.
func (r Interval[T]) Overlaps(other Interval[T], cmp CompareFunc[T]) bool {
	return !r.EntirelyBefore(other, cmp) && !r.EntirelyAfter(other, cmp)
}

// CoveredBy returns whether every value of r is also in other.
func (r Interval[T]) CoveredBy(other Interval[T], cmp CompareFunc[T]) bool {
	return other.Start.Compare(r.Start, cmp) <= 0 && r.End.Compare(other.End, cmp) <= 0
}

// Intersect returns the values common to r and other, and false when there
// are none.
func (r Interval[T]) Intersect(other Interval[T], cmp CompareFunc[T]) (Interval[T], bool) {
	out := r
	if r.Start.Compare(other.Start, cmp) < 0 {
		out.Start = other.Start
	}
	if other.End.Compare(r.End, cmp) < 0 {
		out.End = other.End
	}
	if out.IsEmpty(cmp) {
		return Interval[T]{}, false
	}
	return out, true
}

// Fragments holds what is left of an interval after another one has been
// subtracted from it.
type Fragments[T any] struct {
	Before    Interval[T]
	After     Interval[T]
	HasBefore bool
	HasAfter  bool
}

// Subtract removes other from r. Before is the part of r strictly below
// other's start, After the part strictly above other's end. When they do not
// overlap r is returned unchanged on the side where it lies.
func (r Interval[T]) Subtract(other Interval[T], cmp CompareFunc[T]) Fragments[T] {
	var f Fragments[T]
	switch {
	case r.EntirelyBefore(other, cmp):
		f.Before, f.HasBefore = r, true
	case r.EntirelyAfter(other, cmp):
		f.After, f.HasAfter = r, true
	default:
		if r.Start.Compare(other.Start, cmp) < 0 {
			f.Before = Interval[T]{Start: r.Start, End: other.Start.ToEnd()}
			f.HasBefore = true
		}
		if r.End.Compare(other.End, cmp) > 0 {
			f.After = Interval[T]{Start: other.End.ToStart(), End: r.End}
			f.HasAfter = true
		}
	}
	return f
}

// String renders r in bracket notation, e.g. "[10, 20)" or "(-∞, 5]". The
// output is accepted by Parse.
func (r Interval[T]) String() string {
	var b strings.Builder
	switch r.Start.Kind {
	case Unbounded:
		b.WriteString("(-∞")
	case Included:
		fmt.Fprintf(&b, "[%v", r.Start.Value)
	case Excluded:
		fmt.Fprintf(&b, "(%v", r.Start.Value)
	}
	b.WriteString(", ")
	switch r.End.Kind {
	case Unbounded:
		b.WriteString("+∞)")
	case Included:
		fmt.Fprintf(&b, "%v]", r.End.Value)
	case Excluded:
		fmt.Fprintf(&b, "%v)", r.End.Value)
	}
	return b.String()
}
