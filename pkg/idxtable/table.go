package idxtable

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/intervalmap/pkg/interval"
	"github.com/henderiw/intervalmap/pkg/intervalmap"
)

type Table[T1 any] interface {
	Get(id int64) (T1, error)
	GetRange(id int64) (Entry[T1], error)
	Claim(id int64, d T1) error
	ClaimDynamic(d T1) (int64, error)
	ClaimRange(start, size int64, d T1) error
	ClaimInterval(r interval.Interval[int64], d T1) error
	ClaimSize(size int64, d T1) error
	Release(id int64) error
	ReleaseRange(start, size int64) error
	ReleaseInterval(r interval.Interval[int64]) error
	Update(id int64, d T1) error
	UpdateRange(start, size int64, d T1) error

	Iterate() *Iterator[T1]
	IterateFree() *Iterator[T1]

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)
	FindFreeRange(start, size int64) (interval.Interval[int64], error)
	FindFreeSize(size int64) ([]interval.Interval[int64], error)
	FreeRanges() []interval.Interval[int64]

	Entries() Entries[T1]
	GetAll() map[int64]T1
}

type ValidationFn func(id int64) error

type Option func(*options)

type options struct {
	log logr.Logger
}

// WithLogger sets the logger claims and releases are reported to.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

func NewTable[T1 any](s int64, initEntries map[int64]T1, v ValidationFn, opts ...Option) (Table[T1], error) {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	r := &table[T1]{
		m:          new(sync.RWMutex),
		claims:     intervalmap.NewOrdered[int64, T1](),
		size:       s,
		validateFn: v,
		log:        o.log.WithName("idxtable"),
	}

	var errm error
	for _, id := range slices.Sorted(maps.Keys(initEntries)) {
		if err := r.add(point(id), initEntries[id], true); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

type table[T1 any] struct {
	m          *sync.RWMutex
	claims     *intervalmap.Map[int64, T1]
	size       int64
	validateFn ValidationFn
	log        logr.Logger
}

func point(id int64) interval.Interval[int64] { return interval.HalfOpen(id, id+1) }

func span(r interval.Interval[int64]) int64 { return r.End.Value - r.Start.Value }

func (r *table[T1]) validate(id int64, init bool) error {
	if id < 0 {
		return fmt.Errorf("id %d is negative", id)
	}
	if id > r.size-1 {
		return fmt.Errorf("id %d is bigger then max allowed entries: %d", id, r.size-1)
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(id); err != nil {
			return err
		}
	}
	return nil
}

// validateRange checks a half-open range of ids.
func (r *table[T1]) validateRange(rng interval.Interval[int64], init bool) error {
	start, end := rng.Start.Value, rng.End.Value
	if start >= end {
		return fmt.Errorf("range %s is empty", rng)
	}
	if err := r.validate(start, true); err != nil {
		return err
	}
	if err := r.validate(end-1, true); err != nil {
		return err
	}
	if r.validateFn != nil && !init {
		for id := start; id < end; id++ {
			if err := r.validateFn(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// canonical turns r into the half-open range of ids it covers. Unbounded
// sides stop at the table boundaries.
func (r *table[T1]) canonical(rng interval.Interval[int64]) (interval.Interval[int64], error) {
	start, end := int64(0), r.size
	switch rng.Start.Kind {
	case interval.Included:
		start = rng.Start.Value
	case interval.Excluded:
		if rng.Start.Value == math.MaxInt64 {
			return rng, fmt.Errorf("range %s starts past the last id %d", rng, r.size-1)
		}
		start = rng.Start.Value + 1
	}
	switch rng.End.Kind {
	case interval.Included:
		if rng.End.Value == math.MaxInt64 {
			return rng, fmt.Errorf("range %s ends past the last id %d", rng, r.size-1)
		}
		end = rng.End.Value + 1
	case interval.Excluded:
		end = rng.End.Value
	}
	out := interval.HalfOpen(start, end)
	if start >= end {
		return out, fmt.Errorf("range %s holds no ids", rng)
	}
	return out, nil
}

func (r *table[T1]) Get(id int64) (T1, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	var d T1

	if err := r.validate(id, false); err != nil {
		return d, err
	}

	d, ok := r.claims.Get(id)
	if !ok {
		return d, fmt.Errorf("no match found for: %v", id)
	}
	return d, nil
}

func (r *table[T1]) GetRange(id int64) (Entry[T1], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if err := r.validate(id, false); err != nil {
		return nil, err
	}
	e, ok := r.claims.GetEntry(id)
	if !ok {
		return nil, fmt.Errorf("no match found for: %v", id)
	}
	return toEntry(e), nil
}

func (r *table[T1]) Claim(id int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(point(id), d, false)
}

func (r *table[T1]) ClaimDynamic(d T1) (int64, error) {
	r.m.Lock()
	defer r.m.Unlock()

	free := r.freeMap()
	first, ok := free.First()
	if !ok {
		return 0, fmt.Errorf("no free entry found")
	}
	id := first.Interval.Start.Value
	if err := r.add(point(id), d, false); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *table[T1]) ClaimRange(start, size int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.findFreeRange(start, size)
	if err != nil {
		return err
	}
	return r.add(rng, d, false)
}

func (r *table[T1]) ClaimInterval(rng interval.Interval[int64], d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	c, err := r.canonical(rng)
	if err != nil {
		return err
	}
	return r.add(c, d, false)
}

func (r *table[T1]) ClaimSize(size int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	ranges, err := r.findFreeSize(size)
	if err != nil {
		return err
	}
	for _, rng := range ranges {
		// getting an error is unlikely as we have a lock
		if err := r.add(rng, d, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T1]) Release(id int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(point(id))
}

func (r *table[T1]) ReleaseRange(start, size int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(interval.HalfOpen(start, start+size))
}

func (r *table[T1]) ReleaseInterval(rng interval.Interval[int64]) error {
	r.m.Lock()
	defer r.m.Unlock()

	c, err := r.canonical(rng)
	if err != nil {
		return err
	}
	return r.delete(c)
}

func (r *table[T1]) Update(id int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(point(id), d)
}

func (r *table[T1]) UpdateRange(start, size int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(interval.HalfOpen(start, start+size), d)
}

func (r *table[T1]) Iterate() *Iterator[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	return newIterator(slices.Clone(r.claims.Inner()))
}

func (r *table[T1]) IterateFree() *Iterator[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	return newIterator(r.freeMap().IntoInner())
}

// freeMap returns the unclaimed ids of the table as a map of its own.
func (r *table[T1]) freeMap() *intervalmap.Map[int64, T1] {
	var d T1
	free := r.claims.Clone()
	free.Invert(d)
	free.Remove(interval.LessThan[int64](0))
	free.Remove(interval.AtLeast(r.size))
	return free
}

func (r *table[T1]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return int(countIDs(r.claims))
}

func countIDs[T1 any](m *intervalmap.Map[int64, T1]) int64 {
	var n int64
	for rng := range m.Keys() {
		n += span(rng)
	}
	return n
}

func (r *table[T1]) Has(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claims.Contains(id)
}

func (r *table[T1]) IsFree(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.isFree(point(id))
}

func (r *table[T1]) isFree(rng interval.Interval[int64]) bool {
	return len(r.claims.RangeEntries(rng)) == 0
}

func (r *table[T1]) FindFree() (int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	first, ok := r.freeMap().First()
	if !ok {
		return 0, fmt.Errorf("no free entry found")
	}
	return first.Interval.Start.Value, nil
}

func (r *table[T1]) FindFreeRange(start, size int64) (interval.Interval[int64], error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeRange(start, size)
}

func (r *table[T1]) findFreeRange(start, size int64) (interval.Interval[int64], error) {
	end := start + size - 1
	rng := interval.HalfOpen(start, start+size)

	if size < 1 {
		return rng, fmt.Errorf("size %d must be positive", size)
	}
	if start < 0 || start > r.size-1 {
		return rng, fmt.Errorf("start %d is bigger then max allowed entries: %d", start, r.size)
	}
	if end > r.size-1 {
		return rng, fmt.Errorf("end %d is bigger then max allowed entries: %d", end, r.size)
	}
	if used := r.claims.RangeEntries(rng); len(used) > 0 {
		first := max(used[0].Interval.Start.Value, start)
		return rng, fmt.Errorf("entry %d in use in range: start: %d, end %d", first, start, end)
	}
	return rng, nil
}

func (r *table[T1]) FindFreeSize(size int64) ([]interval.Interval[int64], error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeSize(size)
}

// findFreeSize collects the lowest free ids until size of them are found.
func (r *table[T1]) findFreeSize(size int64) ([]interval.Interval[int64], error) {
	if size > r.size {
		return nil, fmt.Errorf("size %d is bigger then max allowed entries: %d", size, r.size)
	}
	var ranges []interval.Interval[int64]
	need := size
	for rng := range r.freeMap().Keys() {
		if need < 1 {
			break
		}
		if n := span(rng); n > need {
			rng = interval.HalfOpen(rng.Start.Value, rng.Start.Value+need)
		}
		ranges = append(ranges, rng)
		need -= span(rng)
	}
	if need > 0 {
		return nil, fmt.Errorf("could not find free entries that fit in size %d", size)
	}
	return ranges, nil
}

func (r *table[T1]) FreeRanges() []interval.Interval[int64] {
	r.m.RLock()
	defer r.m.RUnlock()

	return slices.Collect(r.freeMap().Keys())
}

func (r *table[T1]) add(rng interval.Interval[int64], d T1, init bool) error {
	if err := r.validateRange(rng, init); err != nil {
		return err
	}
	if used := r.claims.RangeEntries(rng); len(used) > 0 {
		if span(rng) == 1 {
			return fmt.Errorf("entry %d already exists", rng.Start.Value)
		}
		return fmt.Errorf("range %s overlaps claimed range %s", rng, used[0].Interval)
	}
	r.claims.Insert(rng, d)
	r.log.V(1).Info("claimed", "range", rng.String(), "init", init)
	return nil
}

func (r *table[T1]) update(rng interval.Interval[int64], d T1) error {
	if err := r.validateRange(rng, false); err != nil {
		return err
	}
	var covered int64
	for _, e := range r.claims.RangeEntries(rng) {
		if in, ok := e.Interval.Intersect(rng, r.claims.Compare()); ok {
			covered += span(in)
		}
	}
	if covered != span(rng) {
		if span(rng) == 1 {
			return fmt.Errorf("entry %d not found", rng.Start.Value)
		}
		return fmt.Errorf("range %s is not fully claimed", rng)
	}
	r.claims.Overwrite(rng, d)
	r.log.V(1).Info("updated", "range", rng.String())
	return nil
}

func (r *table[T1]) delete(rng interval.Interval[int64]) error {
	if err := r.validateRange(rng, false); err != nil {
		return err
	}
	r.claims.Remove(rng)
	r.log.V(1).Info("released", "range", rng.String())
	return nil
}

func toEntry[T1 any](e intervalmap.Entry[int64, T1]) Entry[T1] {
	return NewEntry(e.Interval.Start.Value, span(e.Interval), e.Value)
}

func (r *table[T1]) Entries() Entries[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(Entries[T1], 0, r.claims.Len())
	for _, e := range r.claims.Inner() {
		entries = append(entries, toEntry(e))
	}
	return entries
}

func (r *table[T1]) GetAll() map[int64]T1 {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[int64]T1, countIDs(r.claims))

	iter := newIterator(r.claims.Inner())
	for iter.Next() {
		entries[iter.ID()] = iter.Value()
	}
	return entries
}
