package interval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := map[string]struct {
		r    Interval[int]
		want bool
	}{
		"HalfOpen":        {r: HalfOpen(1, 2), want: false},
		"HalfOpenEqual":   {r: HalfOpen(2, 2), want: true},
		"ClosedPoint":     {r: Point(2), want: false},
		"OpenEqual":       {r: Open(2, 2), want: true},
		"OpenClosedEqual": {r: OpenClosed(2, 2), want: true},
		"OpenAdjacent":    {r: Open(2, 3), want: false},
		"Reversed":        {r: Closed(3, 2), want: true},
		"Full":            {r: Full[int](), want: false},
		"AtLeast":         {r: AtLeast(7), want: false},
		"LessThan":        {r: LessThan(7), want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.r.IsEmpty(intCmp))
		})
	}
}

func TestIntervalComparePoint(t *testing.T) {
	r := HalfOpen(10, 20)
	assert.Equal(t, 1, r.ComparePoint(9, intCmp))
	assert.Equal(t, 0, r.ComparePoint(10, intCmp))
	assert.Equal(t, 0, r.ComparePoint(19, intCmp))
	assert.Equal(t, -1, r.ComparePoint(20, intCmp))

	o := Open(10, 20)
	assert.False(t, o.Contains(10, intCmp))
	assert.True(t, o.Contains(11, intCmp))
	assert.False(t, o.Contains(20, intCmp))

	assert.True(t, Full[int]().Contains(0, intCmp))
	assert.True(t, AtMost(5).Contains(5, intCmp))
	assert.False(t, GreaterThan(5).Contains(5, intCmp))
}

func TestSubtract(t *testing.T) {
	cases := map[string]struct {
		r, other Interval[int]
		want     Fragments[int]
	}{
		"EntirelyBefore": {
			r:     HalfOpen(0, 10),
			other: HalfOpen(10, 20),
			want:  Fragments[int]{Before: HalfOpen(0, 10), HasBefore: true},
		},
		"EntirelyAfter": {
			r:     HalfOpen(20, 30),
			other: HalfOpen(10, 20),
			want:  Fragments[int]{After: HalfOpen(20, 30), HasAfter: true},
		},
		"TouchingClosed": {
			r:     Closed(0, 10),
			other: Closed(10, 20),
			want:  Fragments[int]{Before: HalfOpen(0, 10), HasBefore: true},
		},
		"Middle": {
			r:     HalfOpen(0, 30),
			other: HalfOpen(10, 20),
			want: Fragments[int]{
				Before: HalfOpen(0, 10), HasBefore: true,
				After: HalfOpen(20, 30), HasAfter: true,
			},
		},
		"MiddleClosed": {
			r:     Closed(0, 30),
			other: Closed(10, 20),
			want: Fragments[int]{
				Before: HalfOpen(0, 10), HasBefore: true,
				After: OpenClosed(20, 30), HasAfter: true,
			},
		},
		"CoveredEntirely": {
			r:     HalfOpen(10, 20),
			other: Closed(0, 30),
			want:  Fragments[int]{},
		},
		"OverlapStart": {
			r:     HalfOpen(5, 15),
			other: HalfOpen(10, 20),
			want:  Fragments[int]{Before: HalfOpen(5, 10), HasBefore: true},
		},
		"OverlapEnd": {
			r:     HalfOpen(15, 25),
			other: HalfOpen(10, 20),
			want:  Fragments[int]{After: HalfOpen(20, 25), HasAfter: true},
		},
		"PointFromExcludedStart": {
			r:     Closed(10, 20),
			other: Open(10, 20),
			want: Fragments[int]{
				Before: Point(10), HasBefore: true,
				After: Point(20), HasAfter: true,
			},
		},
		"Unbounded": {
			r:     Full[int](),
			other: HalfOpen(10, 20),
			want: Fragments[int]{
				Before: LessThan(10), HasBefore: true,
				After: AtLeast(20), HasAfter: true,
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := tc.r.Subtract(tc.other, intCmp)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			if got.HasBefore {
				assert.False(t, got.Before.IsEmpty(intCmp))
			}
			if got.HasAfter {
				assert.False(t, got.After.IsEmpty(intCmp))
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	got, ok := HalfOpen(0, 20).Intersect(Closed(10, 30), intCmp)
	assert.True(t, ok)
	assert.Equal(t, HalfOpen(10, 20), got)

	got, ok = Full[int]().Intersect(AtMost(4), intCmp)
	assert.True(t, ok)
	assert.Equal(t, AtMost(4), got)

	_, ok = HalfOpen(0, 10).Intersect(HalfOpen(10, 20), intCmp)
	assert.False(t, ok)

	assert.True(t, Closed(3, 4).CoveredBy(HalfOpen(0, 10), intCmp))
	assert.False(t, Closed(3, 10).CoveredBy(HalfOpen(0, 10), intCmp))
	assert.True(t, Closed(0, 10).Overlaps(Closed(10, 20), intCmp))
	assert.False(t, HalfOpen(0, 10).Overlaps(Closed(10, 20), intCmp))
}

func TestString(t *testing.T) {
	cases := map[string]struct {
		r    Interval[int]
		want string
	}{
		"HalfOpen":   {r: HalfOpen(10, 20), want: "[10, 20)"},
		"OpenClosed": {r: OpenClosed(-1, 1), want: "(-1, 1]"},
		"Full":       {r: Full[int](), want: "(-∞, +∞)"},
		"AtLeast":    {r: AtLeast(60), want: "[60, +∞)"},
		"LessThan":   {r: LessThan(10), want: "(-∞, 10)"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.r.String())
		})
	}
}
