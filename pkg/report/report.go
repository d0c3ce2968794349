// Package report aggregates detected features: status counts, a 0..100
// compatibility score, ranked recommendations, hover text and the combined
// report. Everything here is pure and safe for concurrent use.
package report

import (
	"math"

	"github.com/matzehuels/baseline/pkg/feature"
)

// Summary counts features by status.
type Summary struct {
	Widely  int `json:"widelyAvailable"`
	Newly   int `json:"newlyAvailable"`
	Limited int `json:"limitedAvailability"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

// Summarize counts features by status.
func Summarize(features []feature.Detected) Summary {
	s := Summary{Total: len(features)}
	for _, f := range features {
		switch f.Status {
		case feature.StatusWidely:
			s.Widely++
		case feature.StatusNewly:
			s.Newly++
		case feature.StatusLimited:
			s.Limited++
		default:
			s.Unknown++
		}
	}
	return s
}

var weights = map[feature.Status]float64{
	feature.StatusWidely:  100,
	feature.StatusNewly:   75,
	feature.StatusLimited: 30,
	feature.StatusUnknown: 50,
}

// Score is the rounded mean status weight of features, 100 for none.
func Score(features []feature.Detected) int {
	if len(features) == 0 {
		return 100
	}
	var total float64
	for _, f := range features {
		w, ok := weights[f.Status]
		if !ok {
			w = weights[feature.StatusUnknown]
		}
		total += w
	}
	score := math.Round(total / float64(len(features)))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 100
	}
	return int(min(max(score, 0), 100))
}

// Grade labels a score.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 40:
		return "Poor"
	default:
		return "Critical"
	}
}

// Groups partitions features by status, keeping detection order.
type Groups struct {
	Widely  []feature.Detected `json:"widely_available"`
	Newly   []feature.Detected `json:"newly_available"`
	Limited []feature.Detected `json:"limited_availability"`
	Unknown []feature.Detected `json:"unknown"`
}

// ByStatus groups features by status. Every group is non-nil.
func ByStatus(features []feature.Detected) Groups {
	g := Groups{
		Widely:  []feature.Detected{},
		Newly:   []feature.Detected{},
		Limited: []feature.Detected{},
		Unknown: []feature.Detected{},
	}
	for _, f := range features {
		switch f.Status {
		case feature.StatusWidely:
			g.Widely = append(g.Widely, f)
		case feature.StatusNewly:
			g.Newly = append(g.Newly, f)
		case feature.StatusLimited:
			g.Limited = append(g.Limited, f)
		default:
			g.Unknown = append(g.Unknown, f)
		}
	}
	return g
}

// Report is the full compatibility report of one document.
type Report struct {
	Score           int              `json:"score"`
	Grade           string           `json:"grade"`
	Total           int              `json:"total"`
	ByStatus        Groups           `json:"byStatus"`
	Recommendations []Recommendation `json:"recommendations"`
	Stats           Summary          `json:"stats"`
}

// Generate builds the report for features.
func Generate(features []feature.Detected) Report {
	score := Score(features)
	return Report{
		Score:           score,
		Grade:           Grade(score),
		Total:           len(features),
		ByStatus:        ByStatus(features),
		Recommendations: Recommend(features),
		Stats:           Summarize(features),
	}
}
