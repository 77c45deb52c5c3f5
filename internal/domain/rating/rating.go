package rating

import (
	"math"
	"strings"

	"github.com/contractorhub/contractor-directory/internal/httperr"
)

const (
	MinScore = 1
	MaxScore = 5
)

// ===============================
// Validation
// ===============================

func ValidateScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return httperr.ErrBusiness("invalid_score")
	}
	if score < MinScore || score > MaxScore {
		return httperr.ErrBusiness("invalid_score")
	}
	return nil
}

func ValidateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return httperr.ErrBusiness("empty_comment")
	}
	return nil
}

// ===============================
// Aggregation
// ===============================

// Average returns the arithmetic mean of the given scores, or nil when the
// slice is empty. Nil is what "no ratings yet" looks like on the contractor
// record; zero would read as a real zero-star average.
func Average(scores []float64) *float64 {
	if len(scores) == 0 {
		return nil
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}

	avg := sum / float64(len(scores))
	return &avg
}
