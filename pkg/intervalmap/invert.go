package intervalmap

import "github.com/henderiw/intervalmap/pkg/interval"

// Invert replaces the contents of m by the gaps between its entries, each
// valued fill. The stored values are discarded. An empty map becomes a single
// full entry. The entries are rewritten in place.
func (m *Map[K, V]) Invert(fill V) {
	if len(m.entries) == 0 {
		m.entries = append(m.entries, Entry[K, V]{Interval: interval.Full[K](), Value: fill})
		return
	}

	n, size := 0, len(m.entries)
	gapStart := interval.Start(interval.UnboundedBound[K]())
	tail := true
	for i := 0; i < size; i++ {
		e := m.entries[i]
		if !e.Interval.Start.IsUnbounded() {
			gap := interval.Interval[K]{Start: gapStart, End: e.Interval.Start.ToEnd()}
			if !gap.IsEmpty(m.cmp) {
				// n <= i, slot n has been read already
				m.entries[n] = Entry[K, V]{Interval: gap, Value: fill}
				n++
			}
		}
		if e.Interval.End.IsUnbounded() {
			tail = false
			break
		}
		gapStart = e.Interval.End.ToStart()
	}

	if tail {
		last := Entry[K, V]{Interval: interval.Interval[K]{Start: gapStart}, Value: fill}
		if n < size {
			m.entries[n] = last
		} else {
			m.entries = append(m.entries, last)
		}
		n++
	}
	if n < size {
		clear(m.entries[n:size])
	}
	m.entries = m.entries[:n]
}
