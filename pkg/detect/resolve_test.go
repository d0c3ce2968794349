package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/baseline/pkg/feature"
)

func at(name string, line, column int) feature.Detected {
	return feature.Detected{Name: name, Line: line, Column: column, Status: feature.StatusUnknown}
}

func TestResolveNothingOnLine(t *testing.T) {
	features := []feature.Detected{at("Grid", 1, 0)}
	_, ok := Resolve(features, 2, 0)
	assert.False(t, ok)
	_, ok = Resolve(nil, 1, 0)
	assert.False(t, ok)
}

func TestResolveSingleFeatureIgnoresColumn(t *testing.T) {
	features := []feature.Detected{at("Grid", 1, 0), at("Flexbox", 2, 4), at("Subgrid", 3, 0)}
	for _, col := range []int{-5, 0, 4, 10, 500} {
		got, ok := Resolve(features, 2, col)
		require.True(t, ok)
		assert.Equal(t, "Flexbox", got.Name, "column %d", col)
	}
}

func TestResolveMultipleOnLine(t *testing.T) {
	// Spans: "abc" [0,3), "defgh" [20,25), "ij" [40,42).
	features := []feature.Detected{at("abc", 1, 0), at("defgh", 1, 20), at("ij", 1, 40)}

	tests := []struct {
		name   string
		column int
		want   string
	}{
		{"inside first", 1, "abc"},
		{"span start", 20, "defgh"},
		{"span end is exclusive", 25, "defgh"},
		{"near first end", 6, "abc"},
		{"near second start", 15, "defgh"},
		{"nearer edge wins", 11, "abc"},
		{"inside last", 41, "ij"},
		{"past last within tolerance", 50, "ij"},
		{"beyond tolerance falls back to first", 90, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(features, 1, tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestResolveTieKeepsFirst(t *testing.T) {
	// "ab" ends at 2 and "cd" starts at 12; column 7 is 5 from both.
	features := []feature.Detected{at("ab", 1, 0), at("cd", 1, 12)}
	got, ok := Resolve(features, 1, 7)
	require.True(t, ok)
	assert.Equal(t, "ab", got.Name)

	reversed := []feature.Detected{at("cd", 1, 12), at("ab", 1, 0)}
	got, _ = Resolve(reversed, 1, 7)
	assert.Equal(t, "cd", got.Name)
}

func TestResolveWithinTolerance(t *testing.T) {
	features := []feature.Detected{at("abc", 1, 0), at("xyz", 1, 30)}

	got, _ := ResolveWithin(features, 1, 25, 2)
	assert.Equal(t, "abc", got.Name, "outside tolerance falls back to first")

	got, _ = ResolveWithin(features, 1, 25, 5)
	assert.Equal(t, "xyz", got.Name)
}

func TestResolveSpanCountsCharacters(t *testing.T) {
	// Measured in bytes the first span would cover column 5.
	features := []feature.Detected{at("éééé", 1, 0), at("b", 1, 5)}

	got, _ := ResolveWithin(features, 1, 5, 0)
	assert.Equal(t, "b", got.Name)
}

func TestDetectorFeatureAt(t *testing.T) {
	d := New(nil, quiet(), WithTolerance(3))
	assert.Equal(t, 3, d.Tolerance())

	f, ok := d.FeatureAt(t.Context(), ".a { display: grid; }\n", feature.LanguageCSS, 1, 0)
	require.True(t, ok)
	assert.Equal(t, "CSS Grid Layout", f.Name)

	_, ok = d.FeatureAt(t.Context(), ".a { display: grid; }\n", feature.LanguageCSS, 2, 0)
	assert.False(t, ok)
}
