package pipeline

import (
	"context"

	"github.com/mdmkit/mdmkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不合法或已确认不同的记录
	KindFingerprint Kind = "fingerprint" // 指纹阶段：生成规范化指纹
	KindSimilarity  Kind = "similarity"  // 相似度阶段：构建批次相似度矩阵
	KindCluster     Kind = "cluster"     // 聚类阶段：从矩阵中提取重复组索引
	KindConfidence  Kind = "confidence"  // 置信度阶段：给聚类打分与分档
	KindAssemble    Kind = "assemble"    // 组装阶段：产出 DuplicateGroup 结果
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 records -> 输出 records"的形态；阶段性产物（矩阵、聚类、
// 重复组）写入 ResolveContext，由下游节点消费。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.ResolveContext,
		records []*core.Record,
	) ([]*core.Record, error)
}
