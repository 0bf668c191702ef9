package confidence

import (
	"math"
	"testing"

	"github.com/mdmkit/mdmkit/core"
)

func matrixFrom(n int, pairs map[[2]int]float64) *core.SimilarityMatrix {
	m := core.NewSimilarityMatrix(n)
	for pair, sim := range pairs {
		m.Set(pair[0], pair[1], sim)
	}
	return m
}

func TestScoreMeanPairwise(t *testing.T) {
	m := matrixFrom(3, map[[2]int]float64{
		{0, 1}: 0.9,
		{0, 2}: 0.8,
		{1, 2}: 0.7,
	})

	got := Score([]int{0, 1, 2}, m)
	want := (0.9 + 0.8 + 0.7) / 3
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %f, want %f", got, want)
	}
}

func TestScoreSmallGroups(t *testing.T) {
	m := core.NewSimilarityMatrix(2)
	if got := Score([]int{0}, m); got != 0 {
		t.Errorf("single member score = %f, want 0", got)
	}
	if got := Score(nil, m); got != 0 {
		t.Errorf("empty group score = %f, want 0", got)
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		name       string
		score      float64
		wantLevel  core.ConfidenceLevel
		wantAction core.RecommendedAction
		wantReview bool
	}{
		{name: "high", score: 0.92, wantLevel: core.ConfidenceHigh, wantAction: core.ActionAutoMerge, wantReview: false},
		{name: "high boundary", score: 0.85, wantLevel: core.ConfidenceHigh, wantAction: core.ActionAutoMerge, wantReview: false},
		{name: "medium", score: 0.72, wantLevel: core.ConfidenceMedium, wantAction: core.ActionManualReview, wantReview: true},
		{name: "medium boundary", score: 0.65, wantLevel: core.ConfidenceMedium, wantAction: core.ActionManualReview, wantReview: true},
		{name: "low", score: 0.4, wantLevel: core.ConfidenceLow, wantAction: core.ActionSeparate, wantReview: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, action, review := Tier(tt.score)
			if level != tt.wantLevel || action != tt.wantAction || review != tt.wantReview {
				t.Errorf("Tier(%f) = (%s, %s, %v), want (%s, %s, %v)",
					tt.score, level, action, review, tt.wantLevel, tt.wantAction, tt.wantReview)
			}
		})
	}
}

func TestTierMonotonicity(t *testing.T) {
	scores := []float64{0.1, 0.3, 0.64, 0.65, 0.7, 0.84, 0.85, 0.9, 1.0}
	prevRank := -1
	for _, score := range scores {
		level, _, _ := Tier(score)
		if level.Rank() < prevRank {
			t.Errorf("tier rank decreased at score %f", score)
		}
		prevRank = level.Rank()
	}
}
