package core

import "context"

// CategoryClassifier 是分类引擎的协作方接口。
// 当重复组的 master 记录缺少类别时，由分类引擎给出建议类别与置信度；
// 结果只用于丰富输出，不参与聚类决策。
type CategoryClassifier interface {
	// Name 返回分类器名称（用于日志/监控）
	Name() string

	// Suggest 为一条未分类的 master 记录给出建议类别。
	Suggest(ctx context.Context, master *MaterialIdentity) (category string, confidence float64, err error)
}
