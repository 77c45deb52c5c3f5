package rating

import (
	"math"
	"testing"

	"github.com/contractorhub/contractor-directory/internal/httperr"
)

func TestValidateScore_AcceptsRange(t *testing.T) {
	for _, score := range []float64{1, 2, 3, 4, 5, 4.0} {
		if err := ValidateScore(score); err != nil {
			t.Fatalf("expected score %v to be valid, got: %v", score, err)
		}
	}
}

func TestValidateScore_RejectsOutOfRange(t *testing.T) {
	for _, score := range []float64{0, 6, -1, 0.99, 5.01, math.NaN(), math.Inf(1)} {
		err := ValidateScore(score)
		if !httperr.IsBusiness(err, "invalid_score") {
			t.Fatalf("expected invalid_score for %v, got: %v", score, err)
		}
	}
}

func TestValidateComment_RejectsEmpty(t *testing.T) {
	for _, comment := range []string{"", "   ", "\t\n"} {
		err := ValidateComment(comment)
		if !httperr.IsBusiness(err, "empty_comment") {
			t.Fatalf("expected empty_comment for %q, got: %v", comment, err)
		}
	}

	if err := ValidateComment("great work"); err != nil {
		t.Fatalf("expected non-empty comment to be valid, got: %v", err)
	}
}

func TestAverage_EmptyIsNil(t *testing.T) {
	if avg := Average(nil); avg != nil {
		t.Fatalf("expected nil average for no scores, got: %v", *avg)
	}
	if avg := Average([]float64{}); avg != nil {
		t.Fatalf("expected nil average for empty scores, got: %v", *avg)
	}
}

func TestAverage_Mean(t *testing.T) {
	cases := []struct {
		scores []float64
		want   float64
	}{
		{[]float64{4}, 4.0},
		{[]float64{4, 5}, 4.5},
		{[]float64{5}, 5.0},
		{[]float64{1, 2, 3, 4, 5}, 3.0},
	}

	for _, tc := range cases {
		avg := Average(tc.scores)
		if avg == nil {
			t.Fatalf("expected average for %v, got nil", tc.scores)
		}
		if *avg != tc.want {
			t.Fatalf("average of %v: expected %v, got %v", tc.scores, tc.want, *avg)
		}
	}
}
