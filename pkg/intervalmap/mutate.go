package intervalmap

import (
	"slices"

	"github.com/henderiw/intervalmap/pkg/interval"
)

// Insert maps the parts of iv not covered by any entry to v. Existing entries
// are left untouched. An empty iv is a no-op.
func (m *Map[K, V]) Insert(iv interval.Interval[K], v V) {
	if iv.IsEmpty(m.cmp) {
		return
	}
	lo, hi := m.window(iv)
	if lo == hi {
		m.entries = slices.Insert(m.entries, lo, Entry[K, V]{Interval: iv, Value: v})
		return
	}

	// walk the overlapped entries keeping the part of iv not yet covered
	out := make([]Entry[K, V], 0, 2*(hi-lo)+1)
	rest, ok := iv, true
	for _, e := range m.entries[lo:hi] {
		if ok {
			f := rest.Subtract(e.Interval, m.cmp)
			if f.HasBefore {
				out = append(out, Entry[K, V]{Interval: f.Before, Value: v})
			}
			rest, ok = f.After, f.HasAfter
		}
		out = append(out, e)
	}
	if ok {
		out = append(out, Entry[K, V]{Interval: rest, Value: v})
	}
	m.entries = slices.Replace(m.entries, lo, hi, out...)
}

// Overwrite maps every point of iv to v, splitting the entries it straddles.
// An empty iv is a no-op.
func (m *Map[K, V]) Overwrite(iv interval.Interval[K], v V) {
	if iv.IsEmpty(m.cmp) {
		return
	}
	lo, hi := m.window(iv)
	m.carve(lo, hi, iv, &Entry[K, V]{Interval: iv, Value: v})
}

// Remove drops every point of iv from the map, splitting the entries it
// straddles. An empty iv is a no-op.
func (m *Map[K, V]) Remove(iv interval.Interval[K]) {
	if iv.IsEmpty(m.cmp) {
		return
	}
	lo, hi := m.window(iv)
	if lo == hi {
		return
	}
	m.carve(lo, hi, iv, nil)
}

// carve replaces the window [lo, hi) by what its first and last entries keep
// outside iv, with fill in between when it is not nil.
func (m *Map[K, V]) carve(lo, hi int, iv interval.Interval[K], fill *Entry[K, V]) {
	out := make([]Entry[K, V], 0, 3)
	if lo < hi {
		first := m.entries[lo]
		if f := first.Interval.Subtract(iv, m.cmp); f.HasBefore {
			out = append(out, Entry[K, V]{Interval: f.Before, Value: first.Value})
		}
	}
	if fill != nil {
		out = append(out, *fill)
	}
	if lo < hi {
		last := m.entries[hi-1]
		if f := last.Interval.Subtract(iv, m.cmp); f.HasAfter {
			out = append(out, Entry[K, V]{Interval: f.After, Value: last.Value})
		}
	}
	m.entries = slices.Replace(m.entries, lo, hi, out...)
}

// Append moves every entry of other into m where m has no entry yet. The
// entries of m take priority. other is left empty. Appending a map to itself
// does nothing.
func (m *Map[K, V]) Append(other *Map[K, V]) {
	if other == m || len(other.entries) == 0 {
		return
	}
	if len(m.entries) == 0 {
		m.entries, other.entries = other.entries, nil
		return
	}

	a, b := m.entries, other.entries
	out := make([]Entry[K, V], 0, len(a)+len(b))
	i := 0
	for _, be := range b {
		rest, ok := be.Interval, true
		for ok && i < len(a) {
			ae := a[i]
			if ae.Interval.EntirelyBefore(rest, m.cmp) {
				out = append(out, ae)
				i++
				continue
			}
			if ae.Interval.EntirelyAfter(rest, m.cmp) {
				break
			}
			f := rest.Subtract(ae.Interval, m.cmp)
			if f.HasBefore {
				out = append(out, Entry[K, V]{Interval: f.Before, Value: be.Value})
			}
			if !f.HasAfter {
				// ae may still cover the next entries of b
				ok = false
				break
			}
			out = append(out, ae)
			i++
			rest = f.After
		}
		if ok {
			out = append(out, Entry[K, V]{Interval: rest, Value: be.Value})
		}
	}
	out = append(out, a[i:]...)

	m.entries = out
	clear(other.entries)
	other.entries = nil
}

// SplitOff cuts m at k. m keeps the entries strictly before k and the
// returned map holds k onward. An entry containing k is split with its value
// copied into both halves.
func (m *Map[K, V]) SplitOff(k K) *Map[K, V] {
	right := New[K, V](m.cmp)
	i, found := m.find(k)
	if !found {
		right.entries = slices.Clone(m.entries[i:])
		clear(m.entries[i:])
		m.entries = m.entries[:i]
		return right
	}

	e := m.entries[i]
	right.entries = make([]Entry[K, V], 0, len(m.entries)-i)
	right.entries = append(right.entries, Entry[K, V]{
		Interval: interval.Interval[K]{Start: interval.Start(interval.IncludedBound(k)), End: e.Interval.End},
		Value:    e.Value,
	})
	right.entries = append(right.entries, m.entries[i+1:]...)

	clear(m.entries[i:])
	m.entries = m.entries[:i]
	left := interval.Interval[K]{Start: e.Interval.Start, End: interval.End(interval.ExcludedBound(k))}
	if !left.IsEmpty(m.cmp) {
		m.entries = append(m.entries, Entry[K, V]{Interval: left, Value: e.Value})
	}
	return right
}
