// Package confidence 把一个聚类归约为标量置信度，并映射到处理档位。
package confidence

import (
	"gonum.org/v1/gonum/stat"

	"github.com/mdmkit/mdmkit/core"
)

// 三个固定档位阈值，下界均为闭区间。
const (
	HighThreshold   = 0.85
	MediumThreshold = 0.65
)

// Score 计算组内所有无序对相似度的算术平均。
// 组大小为 2 时即为该对的相似度；成员不足 2 个时返回 0。
func Score(indices []int, matrix *core.SimilarityMatrix) float64 {
	if len(indices) < 2 {
		return 0
	}
	var pairs []float64
	for i := 0; i < len(indices); i++ {
		for j := i + 1; j < len(indices); j++ {
			pairs = append(pairs, matrix.At(indices[i], indices[j]))
		}
	}
	return stat.Mean(pairs, nil)
}

// Tier 把置信度分数映射到档位与建议动作。
//
//	score >= 0.85        → High   → AutoMerge（无需人工复核）
//	0.65 <= score < 0.85 → Medium → ManualReview
//	score < 0.65         → Low    → Separate
func Tier(score float64) (core.ConfidenceLevel, core.RecommendedAction, bool) {
	switch {
	case score >= HighThreshold:
		return core.ConfidenceHigh, core.ActionAutoMerge, false
	case score >= MediumThreshold:
		return core.ConfidenceMedium, core.ActionManualReview, true
	default:
		return core.ConfidenceLow, core.ActionSeparate, true
	}
}

// Classify 对一个聚类给出 (分数, 档位, 建议动作, 是否需人工复核)。
func Classify(indices []int, matrix *core.SimilarityMatrix) (float64, core.ConfidenceLevel, core.RecommendedAction, bool) {
	score := Score(indices, matrix)
	level, action, review := Tier(score)
	return score, level, action, review
}
