// Package intervalmap implements an ordered map keyed by non-overlapping
// intervals.
//
// A Map stores (interval, value) entries in a slice sorted by position. At
// rest the entries are ascending, pairwise disjoint and never empty. Adjacent
// entries holding equal values are not coalesced.
//
// A Map is not safe for concurrent use.
package intervalmap

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/henderiw/intervalmap/pkg/interval"
)

var (
	// ErrKeyNotFound is the fault raised by MustGet for an uncovered key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvariant is wrapped by the errors Validate returns.
	ErrInvariant = errors.New("interval map invariant violated")
)

// Entry is a stored interval with its value.
type Entry[K, V any] struct {
	Interval interval.Interval[K]
	Value    V
}

type Map[K, V any] struct {
	cmp     interval.CompareFunc[K]
	entries []Entry[K, V]
}

// New returns an empty map ordering its keys with cmp.
func New[K, V any](cmp interval.CompareFunc[K]) *Map[K, V] {
	return &Map[K, V]{cmp: cmp}
}

// NewOrdered returns an empty map using the natural order of K.
func NewOrdered[K cmp.Ordered, V any]() *Map[K, V] {
	return New[K, V](interval.Ordered[K]())
}

// Collect builds a map from seq, applying every pair with Insert.
func Collect[K, V any](cmp interval.CompareFunc[K], seq iter.Seq2[interval.Interval[K], V]) *Map[K, V] {
	m := New[K, V](cmp)
	m.Extend(seq)
	return m
}

// Extend inserts every pair of seq. Earlier pairs win where they overlap.
func (m *Map[K, V]) Extend(seq iter.Seq2[interval.Interval[K], V]) {
	for iv, v := range seq {
		m.Insert(iv, v)
	}
}

// ExtendOverwrite overwrites with every pair of seq. Later pairs win where
// they overlap.
func (m *Map[K, V]) ExtendOverwrite(seq iter.Seq2[interval.Interval[K], V]) {
	for iv, v := range seq {
		m.Overwrite(iv, v)
	}
}

// FromInnerUnchecked wraps entries without checking them. The caller
// guarantees they are sorted, disjoint and non-empty; the map takes
// ownership of the slice.
func FromInnerUnchecked[K, V any](cmp interval.CompareFunc[K], entries []Entry[K, V]) *Map[K, V] {
	return &Map[K, V]{cmp: cmp, entries: entries}
}

// FromInner is FromInnerUnchecked followed by Validate.
func FromInner[K, V any](cmp interval.CompareFunc[K], entries []Entry[K, V]) (*Map[K, V], error) {
	m := FromInnerUnchecked(cmp, entries)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Inner returns the backing slice. It must not be modified.
func (m *Map[K, V]) Inner() []Entry[K, V] { return m.entries }

// IntoInner hands the backing slice to the caller and leaves m empty.
func (m *Map[K, V]) IntoInner() []Entry[K, V] {
	entries := m.entries
	m.entries = nil
	return entries
}

func (m *Map[K, V]) Len() int      { return len(m.entries) }
func (m *Map[K, V]) IsEmpty() bool { return len(m.entries) == 0 }

func (m *Map[K, V]) Clear() {
	clear(m.entries)
	m.entries = m.entries[:0]
}

func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{cmp: m.cmp, entries: slices.Clone(m.entries)}
}

// Compare returns the key order of m.
func (m *Map[K, V]) Compare() interval.CompareFunc[K] { return m.cmp }

func (m *Map[K, V]) First() (Entry[K, V], bool) {
	if len(m.entries) == 0 {
		return Entry[K, V]{}, false
	}
	return m.entries[0], true
}

func (m *Map[K, V]) Last() (Entry[K, V], bool) {
	if len(m.entries) == 0 {
		return Entry[K, V]{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// All returns every entry in ascending order.
func (m *Map[K, V]) All() iter.Seq2[interval.Interval[K], V] {
	return func(yield func(interval.Interval[K], V) bool) {
		for _, e := range m.entries {
			if !yield(e.Interval, e.Value) {
				return
			}
		}
	}
}

func (m *Map[K, V]) Keys() iter.Seq[interval.Interval[K]] {
	return func(yield func(interval.Interval[K]) bool) {
		for _, e := range m.entries {
			if !yield(e.Interval) {
				return
			}
		}
	}
}

func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, e := range m.entries {
			if !yield(e.Value) {
				return
			}
		}
	}
}

func (m *Map[K, V]) find(k K) (int, bool) {
	return slices.BinarySearchFunc(m.entries, k, func(e Entry[K, V], k K) int {
		return e.Interval.ComparePoint(k, m.cmp)
	})
}

// Get returns the value of the entry containing k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if i, ok := m.find(k); ok {
		return m.entries[i].Value, true
	}
	var v V
	return v, false
}

// GetEntry returns the entry containing k.
func (m *Map[K, V]) GetEntry(k K) (Entry[K, V], bool) {
	if i, ok := m.find(k); ok {
		return m.entries[i], true
	}
	return Entry[K, V]{}, false
}

// GetMut returns a pointer to the value of the entry containing k, or nil.
// The pointer is invalidated by the next mutation of m.
func (m *Map[K, V]) GetMut(k K) *V {
	if i, ok := m.find(k); ok {
		return &m.entries[i].Value
	}
	return nil
}

func (m *Map[K, V]) Contains(k K) bool {
	_, ok := m.find(k)
	return ok
}

// MustGet returns the value of the entry containing k and panics with an
// error wrapping ErrKeyNotFound when there is none.
func (m *Map[K, V]) MustGet(k K) V {
	i, ok := m.find(k)
	if !ok {
		panic(fmt.Errorf("%w: %v", ErrKeyNotFound, k))
	}
	return m.entries[i].Value
}

// window returns the index range [lo, hi) of the entries overlapping iv.
//
// Starts and ends are both strictly increasing, so two searches locate it.
// On a miss the neighbour below the insertion point of the start search is
// only part of the window if it reaches iv, and the entry at the insertion
// point of the end search only if it starts within iv.
func (m *Map[K, V]) window(iv interval.Interval[K]) (int, int) {
	lo, found := slices.BinarySearchFunc(m.entries, iv.Start, func(e Entry[K, V], s interval.StartBound[K]) int {
		return e.Interval.Start.Compare(s, m.cmp)
	})
	if !found && lo > 0 && m.entries[lo-1].Interval.End.CompareStart(iv.Start, m.cmp) >= 0 {
		lo--
	}

	hi, found := slices.BinarySearchFunc(m.entries, iv.End, func(e Entry[K, V], end interval.EndBound[K]) int {
		return e.Interval.End.Compare(end, m.cmp)
	})
	switch {
	case found:
		hi++
	case hi < len(m.entries) && m.entries[hi].Interval.Start.CompareEnd(iv.End, m.cmp) <= 0:
		hi++
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// RangeEntries returns the entries overlapping q in ascending order. The
// result aliases m and is invalidated by the next mutation.
func (m *Map[K, V]) RangeEntries(q interval.Interval[K]) []Entry[K, V] {
	if q.IsEmpty(m.cmp) {
		return nil
	}
	lo, hi := m.window(q)
	return m.entries[lo:hi:hi]
}

// Range returns the entries overlapping q in ascending order. Entries are
// reported whole, not clipped to q.
func (m *Map[K, V]) Range(q interval.Interval[K]) iter.Seq2[interval.Interval[K], V] {
	return func(yield func(interval.Interval[K], V) bool) {
		for _, e := range m.RangeEntries(q) {
			if !yield(e.Interval, e.Value) {
				return
			}
		}
	}
}

// Validate checks that the entries are non-empty, sorted and disjoint.
func (m *Map[K, V]) Validate() error {
	for i, e := range m.entries {
		if e.Interval.IsEmpty(m.cmp) {
			return fmt.Errorf("%w: entry %d %v is empty", ErrInvariant, i, e.Interval)
		}
		if i > 0 && !m.entries[i-1].Interval.EntirelyBefore(e.Interval, m.cmp) {
			return fmt.Errorf("%w: entry %d %v does not follow %v", ErrInvariant, i, e.Interval, m.entries[i-1].Interval)
		}
	}
	return nil
}

// Equal reports whether m and o hold the same intervals with values equal
// under eq.
func (m *Map[K, V]) Equal(o *Map[K, V], eq func(a, b V) bool) bool {
	return slices.EqualFunc(m.entries, o.entries, func(a, b Entry[K, V]) bool {
		return a.Interval.Start.Compare(b.Interval.Start, m.cmp) == 0 &&
			a.Interval.End.Compare(b.Interval.End, m.cmp) == 0 &&
			eq(a.Value, b.Value)
	})
}

func (m *Map[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", e.Interval, e.Value)
	}
	b.WriteByte('}')
	return b.String()
}
