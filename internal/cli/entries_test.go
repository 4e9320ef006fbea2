package cli

import (
	"testing"

	"github.com/henderiw/intervalmap/pkg/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	cases := map[string]struct {
		input     string
		wantRange interval.Interval[int64]
		wantValue string
		wantErr   bool
	}{
		"HalfOpen":       {input: "[0, 10)=a", wantRange: interval.HalfOpen[int64](0, 10), wantValue: "a"},
		"Point":          {input: "7=x", wantRange: interval.Point[int64](7), wantValue: "x"},
		"PointEquals":    {input: "=7=x", wantRange: interval.Point[int64](7), wantValue: "x"},
		"AtLeast":        {input: ">=5=v", wantRange: interval.AtLeast[int64](5), wantValue: "v"},
		"InclusiveRange": {input: "1..=3=v", wantRange: interval.Closed[int64](1, 3), wantValue: "v"},
		"EmptyValue":     {input: "..4=", wantRange: interval.LessThan[int64](4), wantValue: ""},
		"NoValue":        {input: "[0, 10)", wantErr: true},
		"BadRange":       {input: "a..b=c", wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := parseEntry(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRange, e.Interval)
			assert.Equal(t, tc.wantValue, e.Value)
		})
	}
}

func TestReadEntryFile(t *testing.T) {
	f, err := readEntryFile("testdata/entries/base.yaml")
	require.NoError(t, err)
	assert.False(t, f.Overwrite)
	assert.Equal(t, []fileEntry{
		{Range: "[0, 10)", Value: "a"},
		{Range: "[20, 30]", Value: "b"},
		{Range: "[5, 25)", Value: "c"},
	}, f.Entries)

	f, err = readEntryFile("testdata/entries/base.toml")
	require.NoError(t, err)
	assert.True(t, f.Overwrite)
	assert.Len(t, f.Entries, 2)

	f, err = readEntryFile("testdata/entries/empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, f.Entries)

	_, err = readEntryFile("testdata/entries/unknown.yaml")
	assert.ErrorContains(t, err, "field entrys not found")

	_, err = readEntryFile("testdata/entries/unknown.toml")
	assert.ErrorContains(t, err, `unknown key "fill"`)

	_, err = readEntryFile("testdata/entries/missing.yml")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	o := &rootOptions{
		file:    "testdata/entries/base.toml",
		entries: []string{"[0, 20)=z"},
	}
	m, err := o.load()
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, "{[0, 5): a, [5, 15): b, [15, 20): z}", m.String())

	o = &rootOptions{entries: []string{"oops"}}
	_, err = o.load()
	assert.Error(t, err)
}
