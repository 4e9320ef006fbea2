package vxlantable

import (
	"fmt"

	"github.com/henderiw/intervalmap/pkg/idxtable"
	"github.com/henderiw/intervalmap/pkg/interval"
	"k8s.io/apimachinery/pkg/labels"
)

type VXLANTable interface {
	Get(id int64) (labels.Set, error)
	Claim(id int64, d labels.Set) error
	ClaimDynamic(d labels.Set) (int64, error)
	ClaimRange(start, size int64, d labels.Set) error
	Release(id int64) error
	Update(id int64, d labels.Set) error

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)
	FreeRanges() []interval.Interval[int64]

	GetAll() map[int64]labels.Set
	GetByLabel(selector labels.Selector) map[int64]labels.Set
}

// New returns a table of the VNIs in [offset, max).
func New(offset, max int64, opts ...idxtable.Option) (VXLANTable, error) {
	if max <= offset {
		return nil, fmt.Errorf("vxlan window [%d, %d) is empty", offset, max)
	}
	t, err := idxtable.NewTable[labels.Set](
		max-offset,
		map[int64]labels.Set{},
		nil,
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return &vxlanTable{
		table:  t,
		offset: offset,
		max:    max,
	}, nil
}

type vxlanTable struct {
	table  idxtable.Table[labels.Set]
	offset int64
	max    int64
}

func (r *vxlanTable) Get(id int64) (labels.Set, error) {
	return r.table.Get(r.calculateIndex(id))
}

func (r *vxlanTable) Claim(id int64, d labels.Set) error {
	idx := r.calculateIndex(id)
	if !r.table.IsFree(idx) {
		return fmt.Errorf("id %d is already claimed", id)
	}
	return r.table.Claim(idx, d)
}

func (r *vxlanTable) ClaimDynamic(d labels.Set) (int64, error) {
	idx, err := r.table.ClaimDynamic(d)
	if err != nil {
		return -1, err
	}
	return idx + r.offset, nil
}

func (r *vxlanTable) ClaimRange(start, size int64, d labels.Set) error {
	return r.table.ClaimRange(r.calculateIndex(start), size, d)
}

func (r *vxlanTable) Release(id int64) error {
	return r.table.Release(r.calculateIndex(id))
}

func (r *vxlanTable) Update(id int64, d labels.Set) error {
	idx := r.calculateIndex(id)
	if r.table.IsFree(idx) {
		return fmt.Errorf("id %d is not claimed", id)
	}
	return r.table.Update(idx, d)
}

func (r *vxlanTable) Count() int {
	return r.table.Count()
}

func (r *vxlanTable) Has(id int64) bool {
	return r.table.Has(r.calculateIndex(id))
}

func (r *vxlanTable) IsFree(id int64) bool {
	return r.table.IsFree(r.calculateIndex(id))
}

func (r *vxlanTable) FindFree() (int64, error) {
	id, err := r.table.FindFree()
	if err != nil {
		return -1, err
	}
	return id + r.offset, nil
}

// FreeRanges returns the free VNIs as half-open ranges.
func (r *vxlanTable) FreeRanges() []interval.Interval[int64] {
	free := r.table.FreeRanges()
	for i, rng := range free {
		free[i] = interval.HalfOpen(rng.Start.Value+r.offset, rng.End.Value+r.offset)
	}
	return free
}

func (r *vxlanTable) GetAll() map[int64]labels.Set {
	entries := map[int64]labels.Set{}
	for idx, d := range r.table.GetAll() {
		entries[idx+r.offset] = d
	}
	return entries
}

func (r *vxlanTable) GetByLabel(selector labels.Selector) map[int64]labels.Set {
	entries := map[int64]labels.Set{}

	iter := r.table.Iterate()
	for iter.Next() {
		if selector.Matches(iter.Value()) {
			entries[iter.ID()+r.offset] = iter.Value()
		}
	}
	return entries
}

func (r *vxlanTable) calculateIndex(id int64) int64 {
	// Calculate the index in the table
	return id - r.offset
}
