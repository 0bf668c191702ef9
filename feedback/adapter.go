// Package feedback 根据人工复核结论调整相似度权重。
//
// 调整器消费一条反馈、产出一份全新的权重快照，从不原地修改输入。
// 权重的持久化与批次间传递由调用方负责。
package feedback

import (
	"github.com/mdmkit/mdmkit/core"
)

// WeightAdapter 把一条反馈转化为新的权重快照。
// 接口隔离调整策略：默认的启发式规则可被替换为在线学习器而不影响引擎其余部分。
type WeightAdapter interface {
	// Name 返回调整器名称（用于日志/监控）
	Name() string

	// Adapt 返回调整后的新权重。输入权重不被修改。
	// 反馈与系统判断一致时原样返回克隆，不做调整。
	Adapt(current core.SimilarityWeights, fb *core.LearningFeedback) core.SimilarityWeights
}

const (
	// DefaultStep 是单次反馈的权重步长
	DefaultStep = 0.05

	// underScoreCeiling 之下的 Merge 反馈说明系统低估了真重复
	underScoreCeiling = 0.8

	// overScoreFloor 之上的 Separate 反馈说明系统高估了假重复
	overScoreFloor = 0.7

	// weightEpsilon 是调整后权重的下限，防止单条反馈把某个维度永久清零
	weightEpsilon = 1e-3
)

// HeuristicAdapter 是默认的启发式权重调整器。
//
// 规则（刻意保持简单，无收敛保证）：
//   - Merge 且 confidence_before < 0.8：全维度加一个步长，name 维度加双倍
//   - Separate 且 confidence_before > 0.7：同样的非对称规则取负步长
//   - 其余情况不调整
//
// 每次调整后 clamp 到最小正值再归一化，保持权重和恒为 1.0。
type HeuristicAdapter struct {
	// Step 为零时使用 DefaultStep
	Step float64
}

func (a *HeuristicAdapter) Name() string { return "feedback.heuristic" }

func (a *HeuristicAdapter) Adapt(current core.SimilarityWeights, fb *core.LearningFeedback) core.SimilarityWeights {
	next := current.Clone()
	if fb == nil {
		return next
	}

	step := a.Step
	if step == 0 {
		step = DefaultStep
	}

	switch {
	case fb.UserDecision == core.DecisionMerge && fb.ConfidenceBefore < underScoreCeiling:
		// 系统低估真重复，整体上调
	case fb.UserDecision == core.DecisionSeparate && fb.ConfidenceBefore > overScoreFloor:
		// 系统高估假重复，整体下调
		step = -step
	default:
		return next
	}

	for _, dim := range core.Dimensions {
		delta := step
		if dim == core.DimensionName {
			delta = 2 * step
		}
		w := next[dim] + delta
		if w < weightEpsilon {
			w = weightEpsilon
		}
		next[dim] = w
	}
	return next.Normalize()
}

var _ WeightAdapter = (*HeuristicAdapter)(nil)
