package core

import "github.com/mdmkit/mdmkit/pkg/utils"

// ResolveContext 承载一个批次的分析状态，贯穿整个 Pipeline 透传。
//
// 数据严格单向流动：记录 → 指纹 → 相似度矩阵 → 聚类 → 重复组。
// 每个批次创建一个全新的 ResolveContext；批次之间唯一共享的状态是
// SimilarityWeights，由调用方在批次开始前写入快照。
type ResolveContext struct {
	BatchID string

	// Weights 是本批次使用的权重快照，批次内不变。
	Weights SimilarityWeights

	// MediumThreshold 是中置信度下界，同时决定聚类半径 eps = 1 - MediumThreshold。
	MediumThreshold float64

	// Labels 是批次级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（来源系统优先级、场景标识等）。
	Params map[string]any

	// 下游各节点写入的批次产物。
	Matrix   *SimilarityMatrix
	Clusters [][]int
	Groups   []*DuplicateGroup

	// SkippedRecords 统计因缺少 code/name 被跳过的记录数。
	SkippedRecords int
}

// DefaultMediumThreshold 是中置信度档位的默认下界。
const DefaultMediumThreshold = 0.65

func NewResolveContext(batchID string, weights SimilarityWeights) *ResolveContext {
	return &ResolveContext{
		BatchID:         batchID,
		Weights:         weights,
		MediumThreshold: DefaultMediumThreshold,
		Labels:          make(map[string]utils.Label),
		Params:          make(map[string]any),
	}
}

// PutLabel 写入批次级 Label。
func (rctx *ResolveContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取批次级 Label。
func (rctx *ResolveContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
