package vlantable

import (
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/henderiw/intervalmap/pkg/idxtable"
	"github.com/tj/assert"
	"k8s.io/apimachinery/pkg/labels"
)

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		initEntries       map[int64]labels.Set
		newSuccessEntries map[int64]labels.Set
		newFailedEntries  map[int64]labels.Set
		expectedEntries   int
	}{

		"Normal": {
			initEntries: initEntries,
			newSuccessEntries: map[int64]labels.Set{
				10: map[string]string{},
				11: map[string]string{},
			},
			newFailedEntries: map[int64]labels.Set{
				5000: map[string]string{},
			},
			expectedEntries: 5,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := New()
			assert.NoError(t, err)

			for id, d := range tc.newSuccessEntries {
				err := r.Claim(id, d)
				assert.NoError(t, err)

			}
			for id, d := range tc.newFailedEntries {
				err := r.Claim(id, d)
				assert.Error(t, err)
			}
			// check table
			for id := range tc.initEntries {
				if !r.Has(id) {
					t.Errorf("%s expecting initEntry: %d\n", name, id)
				}
			}
			for id := range tc.newSuccessEntries {
				if !r.Has(id) {
					t.Errorf("%s expecting success claim entry: %d\n", name, id)
				}
			}
			for id := range tc.newFailedEntries {
				if r.Has(id) {
					t.Errorf("%s no expecting failed claim entry: %d\n", name, id)
				}
			}
			if r.Count() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, len(r.GetAll()))
			}
		})
	}
}

func TestClaimRange(t *testing.T) {
	cases := map[string]struct {
		rng             string
		expectedErr     bool
		expectedEntries int
	}{
		"Dash":          {rng: "100-199", expectedEntries: 103},
		"Brackets":      {rng: "[100, 200)", expectedEntries: 103},
		"Literal":       {rng: "100..=199", expectedEntries: 103},
		"Reserved":      {rng: "0-10", expectedErr: true, expectedEntries: 3},
		"ReservedTop":   {rng: ">=4000", expectedErr: true, expectedEntries: 3},
		"TooBig":        {rng: "4000-5000", expectedErr: true, expectedEntries: 3},
		"Invalid":       {rng: "a-b", expectedErr: true, expectedEntries: 3},
		"TrailingInput": {rng: "100-199junk", expectedErr: true, expectedEntries: 3},
		"MissingEnd":    {rng: "100-", expectedErr: true, expectedEntries: 3},
		"DashSpaces":    {rng: " 100 - 199 ", expectedEntries: 103},
		"BelowReserved": {rng: "[2, 4095)", expectedEntries: 4096},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := New(idxtable.WithLogger(testr.New(t)))
			assert.NoError(t, err)

			err = r.ClaimRange(tc.rng, labels.Set{"range": name})
			if tc.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectedEntries, r.Count())
		})
	}
}

func TestGetByLabel(t *testing.T) {
	r, err := New()
	assert.NoError(t, err)

	assert.NoError(t, r.ClaimRange("10-12", labels.Set{"tenant": "blue"}))
	assert.NoError(t, r.Claim(20, labels.Set{"tenant": "red"}))
	id, err := r.ClaimDynamic(labels.Set{"tenant": "red"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), id)

	selector, err := labels.Parse("tenant=blue")
	assert.NoError(t, err)
	blue := r.GetByLabel(selector)
	assert.Equal(t, 3, len(blue))
	for _, id := range []int64{10, 11, 12} {
		assert.Equal(t, "blue", blue[id]["tenant"])
	}

	selector, err = labels.Parse("status=reserved")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(r.GetByLabel(selector)))

	assert.NoError(t, r.Update(11, labels.Set{"tenant": "green"}))
	assert.Error(t, r.Update(13, labels.Set{"tenant": "green"}))
	d, err := r.Get(11)
	assert.NoError(t, err)
	assert.Equal(t, "green", d.Get("tenant"))

	assert.NoError(t, r.ReleaseRange("[10, 12]"))
	assert.True(t, r.IsFree(11))
	assert.Error(t, r.ReleaseRange("0..2"))

	free := r.FreeRanges()
	assert.Equal(t, "[3, 20)", free[0].String())
}
