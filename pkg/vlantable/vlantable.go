package vlantable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/henderiw/intervalmap/pkg/idxtable"
	"github.com/henderiw/intervalmap/pkg/interval"
	"k8s.io/apimachinery/pkg/labels"
)

type VLANTable interface {
	Get(id int64) (labels.Set, error)
	Claim(id int64, d labels.Set) error
	ClaimDynamic(d labels.Set) (int64, error)
	ClaimRange(rng string, d labels.Set) error
	Release(id int64) error
	ReleaseRange(rng string) error
	Update(id int64, d labels.Set) error

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)
	FreeRanges() []interval.Interval[int64]

	GetAll() map[int64]labels.Set
	GetByLabel(selector labels.Selector) map[int64]labels.Set
}

var initEntries = map[int64]labels.Set{
	0:    map[string]string{"type": "untagged", "status": "reserved"},
	1:    map[string]string{"type": "untagged", "status": "reserved"},
	4095: map[string]string{"type": "untagged", "status": "reserved"},
}

func New(opts ...idxtable.Option) (VLANTable, error) {
	t, err := idxtable.NewTable[labels.Set](
		4096,
		initEntries,
		func(id int64) error {
			switch id {
			case 0:
				return fmt.Errorf("VLAN %d is the untagged VLAN, cannot be added to the database", id)
			case 1:
				return fmt.Errorf("VLAN %d is the default VLAN, cannot be added to the database", id)
			case 4095:
				return fmt.Errorf("VLAN %d is reserved, cannot be added to the database", id)
			}
			return nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return &vlanTable{
		table: t,
	}, nil
}

type vlanTable struct {
	table idxtable.Table[labels.Set]
}

func (r *vlanTable) Get(id int64) (labels.Set, error) {
	return r.table.Get(id)
}

func (r *vlanTable) Claim(id int64, d labels.Set) error {
	if !r.table.IsFree(id) {
		return fmt.Errorf("id %d is already claimed", id)
	}
	return r.table.Claim(id, d)
}

func (r *vlanTable) ClaimDynamic(d labels.Set) (int64, error) {
	return r.table.ClaimDynamic(d)
}

// ClaimRange claims every VLAN of rng, e.g. "100-199", "[100, 200)" or
// "100..=199".
func (r *vlanTable) ClaimRange(rng string, d labels.Set) error {
	iv, err := parseRange(rng)
	if err != nil {
		return err
	}
	return r.table.ClaimInterval(iv, d)
}

func (r *vlanTable) ReleaseRange(rng string) error {
	iv, err := parseRange(rng)
	if err != nil {
		return err
	}
	return r.table.ReleaseInterval(iv)
}

func (r *vlanTable) Release(id int64) error {
	return r.table.Release(id)
}

func (r *vlanTable) Update(id int64, d labels.Set) error {
	if r.table.IsFree(id) {
		return fmt.Errorf("id %d is not claimed", id)
	}
	return r.table.Update(id, d)
}

func (r *vlanTable) Count() int {
	return r.table.Count()
}

func (r *vlanTable) Has(id int64) bool {
	return r.table.Has(id)
}

func (r *vlanTable) IsFree(id int64) bool {
	return r.table.IsFree(id)
}

func (r *vlanTable) FindFree() (int64, error) {
	return r.table.FindFree()
}

func (r *vlanTable) FreeRanges() []interval.Interval[int64] {
	return r.table.FreeRanges()
}

func (r *vlanTable) GetAll() map[int64]labels.Set {
	return r.table.GetAll()
}

func (r *vlanTable) GetByLabel(selector labels.Selector) map[int64]labels.Set {
	entries := map[int64]labels.Set{}

	iter := r.table.Iterate()

	for iter.Next() {
		if selector.Matches(iter.Value()) {
			entries[iter.ID()] = iter.Value()
		}
	}
	return entries
}

// parseRange accepts the interval notations of interval.ParseInt and the
// dash notation "a-b" for a closed range.
func parseRange(s string) (interval.Interval[int64], error) {
	in := strings.TrimSpace(s)
	if a, b, ok := strings.Cut(in, "-"); ok && in[0] >= '0' && in[0] <= '9' {
		from, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return interval.Interval[int64]{}, fmt.Errorf("vlan range %q: invalid start: %w", s, err)
		}
		to, err := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
		if err != nil {
			return interval.Interval[int64]{}, fmt.Errorf("vlan range %q: invalid end: %w", s, err)
		}
		return interval.Closed(from, to), nil
	}
	iv, err := interval.ParseInt(s)
	if err != nil {
		return iv, fmt.Errorf("vlan range %q: %w", s, err)
	}
	return iv, nil
}
