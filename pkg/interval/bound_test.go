package interval

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intCmp = Ordered[int]()

func TestCompareStarts(t *testing.T) {
	cases := map[string]struct {
		a, b StartBound[int]
		want int
	}{
		"IncludedLess":        {a: Start(IncludedBound(1)), b: Start(IncludedBound(2)), want: -1},
		"IncludedEqual":       {a: Start(IncludedBound(2)), b: Start(IncludedBound(2)), want: 0},
		"ExcludedEqual":       {a: Start(ExcludedBound(2)), b: Start(ExcludedBound(2)), want: 0},
		"ExcludedAfterIncl":   {a: Start(ExcludedBound(2)), b: Start(IncludedBound(2)), want: 1},
		"IncludedBeforeExcl":  {a: Start(IncludedBound(2)), b: Start(ExcludedBound(2)), want: -1},
		"ValueWinsOverKind":   {a: Start(ExcludedBound(1)), b: Start(IncludedBound(2)), want: -1},
		"UnboundedFirst":      {a: Start(UnboundedBound[int]()), b: Start(IncludedBound(math.MinInt)), want: -1},
		"UnboundedBoth":       {a: Start(UnboundedBound[int]()), b: Start(UnboundedBound[int]()), want: 0},
		"BoundedAfterUnbound": {a: Start(ExcludedBound(0)), b: Start(UnboundedBound[int]()), want: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, sign(tc.a.Compare(tc.b, intCmp)))
			assert.Equal(t, -tc.want, sign(tc.b.Compare(tc.a, intCmp)))
		})
	}
}

func TestCompareEnds(t *testing.T) {
	cases := map[string]struct {
		a, b EndBound[int]
		want int
	}{
		"IncludedLess":       {a: End(IncludedBound(1)), b: End(IncludedBound(2)), want: -1},
		"ExcludedBeforeIncl": {a: End(ExcludedBound(2)), b: End(IncludedBound(2)), want: -1},
		"IncludedAfterExcl":  {a: End(IncludedBound(2)), b: End(ExcludedBound(2)), want: 1},
		"ExcludedEqual":      {a: End(ExcludedBound(2)), b: End(ExcludedBound(2)), want: 0},
		"UnboundedLast":      {a: End(UnboundedBound[int]()), b: End(IncludedBound(math.MaxInt)), want: 1},
		"UnboundedBoth":      {a: End(UnboundedBound[int]()), b: End(UnboundedBound[int]()), want: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, sign(tc.a.Compare(tc.b, intCmp)))
			assert.Equal(t, -tc.want, sign(tc.b.Compare(tc.a, intCmp)))
		})
	}
}

func TestCompareStartEnd(t *testing.T) {
	cases := map[string]struct {
		s    StartBound[int]
		e    EndBound[int]
		want int
	}{
		"InclInclEqual":  {s: Start(IncludedBound(5)), e: End(IncludedBound(5)), want: 0},
		"InclExclEqual":  {s: Start(IncludedBound(5)), e: End(ExcludedBound(5)), want: 1},
		"ExclInclEqual":  {s: Start(ExcludedBound(5)), e: End(IncludedBound(5)), want: 1},
		"ExclExclEqual":  {s: Start(ExcludedBound(5)), e: End(ExcludedBound(5)), want: 1},
		"ExclExclBelow":  {s: Start(ExcludedBound(4)), e: End(ExcludedBound(5)), want: -1},
		"InclInclAbove":  {s: Start(IncludedBound(6)), e: End(IncludedBound(5)), want: 1},
		"UnboundedStart": {s: Start(UnboundedBound[int]()), e: End(ExcludedBound(math.MinInt)), want: -1},
		"UnboundedEnd":   {s: Start(ExcludedBound(math.MaxInt)), e: End(UnboundedBound[int]()), want: -1},
		"UnboundedBoth":  {s: Start(UnboundedBound[int]()), e: End(UnboundedBound[int]()), want: -1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, sign(tc.s.CompareEnd(tc.e, intCmp)))
			assert.Equal(t, -tc.want, sign(tc.e.CompareStart(tc.s, intCmp)))
		})
	}
}

func TestComparePoint(t *testing.T) {
	cases := map[string]struct {
		start     StartBound[int]
		end       EndBound[int]
		x         int
		wantStart int
		wantEnd   int
	}{
		"Included": {start: Start(IncludedBound(5)), end: End(IncludedBound(5)), x: 5, wantStart: 0, wantEnd: 0},
		"Excluded": {start: Start(ExcludedBound(5)), end: End(ExcludedBound(5)), x: 5, wantStart: 1, wantEnd: -1},
		"Below":    {start: Start(ExcludedBound(5)), end: End(ExcludedBound(5)), x: 4, wantStart: 1, wantEnd: 1},
		"Above":    {start: Start(ExcludedBound(5)), end: End(ExcludedBound(5)), x: 6, wantStart: -1, wantEnd: -1},
		"Infinite": {start: Start(UnboundedBound[int]()), end: End(UnboundedBound[int]()), x: 0, wantStart: -1, wantEnd: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.wantStart, sign(tc.start.ComparePoint(tc.x, intCmp)))
			assert.Equal(t, tc.wantEnd, sign(tc.end.ComparePoint(tc.x, intCmp)))
		})
	}
}

func TestBoundConversion(t *testing.T) {
	assert.Equal(t, End(ExcludedBound(3)), Start(IncludedBound(3)).ToEnd())
	assert.Equal(t, End(IncludedBound(3)), Start(ExcludedBound(3)).ToEnd())
	assert.Equal(t, Start(IncludedBound(3)), End(ExcludedBound(3)).ToStart())
	assert.Equal(t, Start(ExcludedBound(3)), End(IncludedBound(3)).ToStart())

	assert.Panics(t, func() { Start(UnboundedBound[int]()).ToEnd() })
	assert.Panics(t, func() { End(UnboundedBound[int]()).ToStart() })
}

func TestOrderedNaN(t *testing.T) {
	cmp := Ordered[float64]()
	assert.Equal(t, -1, cmp(1, 2))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrNotTotalOrder))
	}()
	Closed(0.0, 1.0).Contains(math.NaN(), cmp)
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}
