package core

import "time"

// ConfidenceLevel 是重复组的置信度档位。
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"   // score >= 0.85
	ConfidenceMedium ConfidenceLevel = "medium" // 0.65 <= score < 0.85
	ConfidenceLow    ConfidenceLevel = "low"    // score < 0.65
)

// Rank 返回档位的序数，用于单调性比较（low < medium < high）。
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// RecommendedAction 是针对重复组的建议处理动作。
type RecommendedAction string

const (
	ActionAutoMerge    RecommendedAction = "auto_merge"    // 自动合并
	ActionManualReview RecommendedAction = "manual_review" // 人工复核
	ActionSeparate     RecommendedAction = "separate"      // 判定为不同物料
)

// DuplicateGroup 是一次批次分析产出的重复组。
// 每个批次产出全新的组，从不原地修改。
type DuplicateGroup struct {
	GroupID             string              `json:"group_id"`
	Master              *MaterialIdentity   `json:"master"`
	Duplicates          []*MaterialIdentity `json:"duplicates"`
	SimilarityScore     float64             `json:"similarity_score"` // 组内两两相似度均值 [0,1]
	ConfidenceLevel     ConfidenceLevel     `json:"confidence_level"`
	RecommendedAction   RecommendedAction   `json:"recommended_action"`
	HumanReviewRequired bool                `json:"human_review_required"`

	// SuggestedCategory / CategoryConfidence 由分类协作方补充（仅丰富结果，
	// 不参与聚类决策）；master 已有类别时为空。
	SuggestedCategory  string  `json:"suggested_category,omitempty"`
	CategoryConfidence float64 `json:"category_confidence,omitempty"`

	// ReviewQueue 由 CEL 路由规则产出，驱动复核任务分派。
	ReviewQueue string `json:"review_queue,omitempty"`
}

// Size 返回组内成员总数（master + duplicates）。
func (g *DuplicateGroup) Size() int {
	return 1 + len(g.Duplicates)
}

// Members 返回组内全部成员，master 在首位。
func (g *DuplicateGroup) Members() []*MaterialIdentity {
	out := make([]*MaterialIdentity, 0, g.Size())
	out = append(out, g.Master)
	out = append(out, g.Duplicates...)
	return out
}

// UserDecision 是人工复核的结论。
type UserDecision string

const (
	DecisionMerge     UserDecision = "merge"     // 确认为同一物料
	DecisionSeparate  UserDecision = "separate"  // 确认为不同物料
	DecisionUncertain UserDecision = "uncertain" // 无法判断
)

// LearningFeedback 是一条人工复核反馈，由权重调整器消费一次后交由存储落库审计。
type LearningFeedback struct {
	GroupID          string       `json:"group_id"`
	UserDecision     UserDecision `json:"user_decision"`
	ConfidenceBefore float64      `json:"confidence_before"` // 决策时系统给出的 similarity_score
	UserConfidence   int          `json:"user_confidence"`   // 用户自评置信度 1-5
	Timestamp        time.Time    `json:"timestamp"`
}
