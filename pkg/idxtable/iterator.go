package idxtable

import (
	"github.com/henderiw/intervalmap/pkg/interval"
	"github.com/henderiw/intervalmap/pkg/intervalmap"
)

// Iterator walks the ids of a snapshot of id ranges one by one.
type Iterator[T1 any] struct {
	entries []intervalmap.Entry[int64, T1]
	idx     int
	id      int64
	prev    int64
	started bool
	hasPrev bool
}

func newIterator[T1 any](entries []intervalmap.Entry[int64, T1]) *Iterator[T1] {
	return &Iterator[T1]{entries: entries}
}

func (r *Iterator[T1]) Value() T1 {
	return r.entries[r.idx].Value
}

func (r *Iterator[T1]) ID() int64 {
	return r.id
}

// Range returns the id range the current id belongs to.
func (r *Iterator[T1]) Range() interval.Interval[int64] {
	return r.entries[r.idx].Interval
}

func (r *Iterator[T1]) Next() bool {
	if r.idx >= len(r.entries) {
		return false
	}
	if !r.started {
		r.started = true
		r.id = r.entries[0].Interval.Start.Value
		return true
	}
	r.prev, r.hasPrev = r.id, true
	r.id++
	if r.id < r.entries[r.idx].Interval.End.Value {
		return true
	}
	r.idx++
	if r.idx >= len(r.entries) {
		return false
	}
	r.id = r.entries[r.idx].Interval.Start.Value
	return true
}

func (r *Iterator[T1]) IsConsecutive() bool {
	if !r.hasPrev {
		return false
	}
	return r.prev == r.id-1
}
