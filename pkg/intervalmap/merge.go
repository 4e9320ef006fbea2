package intervalmap

import (
	"fmt"

	"github.com/henderiw/intervalmap/pkg/interval"
)

// Side tells which operands of Merge covered a fragment.
type Side int

const (
	SideLeft Side = iota + 1
	SideRight
	SideBoth
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideBoth:
		return "both"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// MergedValue is the value of a Merge fragment. Left is set for SideLeft and
// SideBoth, Right for SideRight and SideBoth.
type MergedValue[L, R any] struct {
	Side  Side
	Left  L
	Right R
}

func LeftValue[L, R any](l L) MergedValue[L, R] {
	return MergedValue[L, R]{Side: SideLeft, Left: l}
}

func RightValue[L, R any](r R) MergedValue[L, R] {
	return MergedValue[L, R]{Side: SideRight, Right: r}
}

func BothValues[L, R any](l L, r R) MergedValue[L, R] {
	return MergedValue[L, R]{Side: SideBoth, Left: l, Right: r}
}

func (v MergedValue[L, R]) HasLeft() bool  { return v.Side == SideLeft || v.Side == SideBoth }
func (v MergedValue[L, R]) HasRight() bool { return v.Side == SideRight || v.Side == SideBoth }

func (v MergedValue[L, R]) String() string {
	switch v.Side {
	case SideLeft:
		return fmt.Sprintf("left(%v)", v.Left)
	case SideRight:
		return fmt.Sprintf("right(%v)", v.Right)
	case SideBoth:
		return fmt.Sprintf("both(%v, %v)", v.Left, v.Right)
	}
	return v.Side.String()
}

// Merge combines a and b into a new map. Every point covered by only one of
// them keeps that value tagged Left or Right, every point covered by both
// gets Both. Neither operand is modified. The result uses the key order of a.
func Merge[K, L, R any](a *Map[K, L], b *Map[K, R]) *Map[K, MergedValue[L, R]] {
	cmp := a.cmp
	out := make([]Entry[K, MergedValue[L, R]], 0, len(a.entries)+len(b.entries))
	emit := func(start interval.StartBound[K], end interval.EndBound[K], v MergedValue[L, R]) {
		out = append(out, Entry[K, MergedValue[L, R]]{
			Interval: interval.Interval[K]{Start: start, End: end},
			Value:    v,
		})
	}

	var (
		l      Entry[K, L]
		r      Entry[K, R]
		hasL   bool
		hasR   bool
		ai, bi int
	)
	for {
		if !hasL && ai < len(a.entries) {
			l, hasL = a.entries[ai], true
			ai++
		}
		if !hasR && bi < len(b.entries) {
			r, hasR = b.entries[bi], true
			bi++
		}
		if !hasL || !hasR {
			break
		}

		li, ri := &l.Interval, &r.Interval
		switch {
		case li.EntirelyBefore(*ri, cmp):
			emit(li.Start, li.End, LeftValue[L, R](l.Value))
			hasL = false
			continue
		case ri.EntirelyBefore(*li, cmp):
			emit(ri.Start, ri.End, RightValue[L](r.Value))
			hasR = false
			continue
		}

		// cut the side starting first down to the later start
		switch c := li.Start.Compare(ri.Start, cmp); {
		case c < 0:
			emit(li.Start, ri.Start.ToEnd(), LeftValue[L, R](l.Value))
			li.Start = ri.Start
		case c > 0:
			emit(ri.Start, li.Start.ToEnd(), RightValue[L](r.Value))
			ri.Start = li.Start
		}

		// both start together; the shorter one is consumed
		switch c := li.End.Compare(ri.End, cmp); {
		case c < 0:
			emit(li.Start, li.End, BothValues(l.Value, r.Value))
			ri.Start = li.End.ToStart()
			hasL = false
		case c > 0:
			emit(ri.Start, ri.End, BothValues(l.Value, r.Value))
			li.Start = ri.End.ToStart()
			hasR = false
		default:
			emit(li.Start, li.End, BothValues(l.Value, r.Value))
			hasL, hasR = false, false
		}
	}

	if hasL {
		emit(l.Interval.Start, l.Interval.End, LeftValue[L, R](l.Value))
	}
	for _, e := range a.entries[ai:] {
		emit(e.Interval.Start, e.Interval.End, LeftValue[L, R](e.Value))
	}
	if hasR {
		emit(r.Interval.Start, r.Interval.End, RightValue[L](r.Value))
	}
	for _, e := range b.entries[bi:] {
		emit(e.Interval.Start, e.Interval.End, RightValue[L](e.Value))
	}
	return FromInnerUnchecked(cmp, out)
}
