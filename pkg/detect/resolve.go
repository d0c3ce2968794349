package detect

import (
	"unicode/utf8"

	"github.com/matzehuels/baseline/pkg/feature"
)

// Resolve finds the feature at (line, column) with [DefaultTolerance].
func Resolve(features []feature.Detected, line, column int) (feature.Detected, bool) {
	return ResolveWithin(features, line, column, DefaultTolerance)
}

// ResolveWithin finds the feature at (line, column). line is 1-based and
// column a 0-based character offset. Among several features on the line,
// a feature whose name span [column, column+len(name)) contains the column
// wins; otherwise the nearest span edge within tolerance; otherwise the
// first feature on the line. ok is false only when nothing is on the line.
func ResolveWithin(features []feature.Detected, line, column, tolerance int) (feature.Detected, bool) {
	var onLine []int
	for i := range features {
		if features[i].Line == line {
			onLine = append(onLine, i)
		}
	}
	switch len(onLine) {
	case 0:
		return feature.Detected{}, false
	case 1:
		return features[onLine[0]], true
	}

	best, bestDist := -1, 0
	for _, i := range onLine {
		start := features[i].Column
		end := start + utf8.RuneCountInString(features[i].Name)
		if column >= start && column < end {
			return features[i], true
		}
		dist := min(abs(column-start), abs(column-end))
		if dist <= tolerance && (best < 0 || dist < bestDist) {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		return features[best], true
	}
	return features[onLine[0]], true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
