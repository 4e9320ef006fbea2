package idxtable

import "github.com/henderiw/intervalmap/pkg/interval"

// Entry is a run of consecutive ids claimed with the same data.
type Entry[T1 any] interface {
	Range() interval.Interval[int64]
	Start() int64
	Size() int64
	Data() T1
}

type entry[T1 any] struct {
	start int64
	end   int64
	data  T1
}

type Entries[T1 any] []Entry[T1]

func (r entry[T1]) Range() interval.Interval[int64] { return interval.HalfOpen(r.start, r.end) }
func (r entry[T1]) Start() int64                    { return r.start }
func (r entry[T1]) Size() int64                     { return r.end - r.start }
func (r entry[T1]) Data() T1                        { return r.data }

// NewEntry returns the entry for ids [start, start+size).
func NewEntry[T1 any](start, size int64, d T1) Entry[T1] {
	return entry[T1]{
		start: start,
		end:   start + size,
		data:  d,
	}
}
