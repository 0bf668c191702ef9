package assemble

import (
	"context"

	"github.com/google/uuid"

	"github.com/mdmkit/mdmkit/confidence"
	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/pipeline"
	"github.com/mdmkit/mdmkit/pkg/dsl"
	"github.com/mdmkit/mdmkit/pkg/utils"
)

// RoutingRule 把满足 CEL 表达式的重复组路由到指定复核队列。
// 规则按顺序求值，首个命中的队列生效；表达式为空视为无条件命中。
type RoutingRule struct {
	Queue string `yaml:"queue" json:"queue"`
	Expr  string `yaml:"expr" json:"expr"`
}

// Node 是结果组装的 Pipeline 节点：消费 ResolveContext.Clusters 与 Matrix，
// 产出 ResolveContext.Groups。
//
// 每个组：按策略选 master，其余成员按批次顺序作为 duplicates；
// 置信度打分与分档来自 confidence 包；master 缺少类别时由分类协作方
// 补充建议类别（失败只降级，不阻断）。
type Node struct {
	// Strategy 为空时使用 FirstInBatch（历史行为）。
	Strategy MasterStrategy

	// Classifier 可选：分类引擎协作方，仅丰富输出。
	Classifier core.CategoryClassifier

	// Routing 可选：复核路由规则，命中后写入 group.ReviewQueue。
	Routing []RoutingRule
}

func (n *Node) Name() string        { return "assemble" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindAssemble }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.ResolveContext,
	records []*core.Record,
) ([]*core.Record, error) {
	if rctx.Matrix == nil {
		return nil, core.NewDomainError(core.ModuleCluster, core.ErrorCodeInvalidInput, "assemble: similarity matrix not built")
	}

	strategy := n.Strategy
	if strategy == nil {
		strategy = FirstInBatch{}
	}

	groups := make([]*core.DuplicateGroup, 0, len(rctx.Clusters))
	for _, indices := range rctx.Clusters {
		if len(indices) < 2 {
			continue
		}

		members := make([]*core.MaterialIdentity, 0, len(indices))
		for _, idx := range indices {
			members = append(members, records[idx].Identity)
		}

		masterIdx := strategy.SelectMaster(members)
		if masterIdx < 0 || masterIdx >= len(members) {
			masterIdx = 0
		}
		master := members[masterIdx]
		duplicates := make([]*core.MaterialIdentity, 0, len(members)-1)
		for i, m := range members {
			if i != masterIdx {
				duplicates = append(duplicates, m)
			}
		}

		score, level, action, review := confidence.Classify(indices, rctx.Matrix)
		group := &core.DuplicateGroup{
			GroupID:             uuid.NewString(),
			Master:              master,
			Duplicates:          duplicates,
			SimilarityScore:     score,
			ConfidenceLevel:     level,
			RecommendedAction:   action,
			HumanReviewRequired: review,
		}

		n.enrichCategory(ctx, group)
		n.route(group, rctx)

		for _, idx := range indices {
			records[idx].PutLabel("group_id", utils.Label{Value: group.GroupID, Source: "assemble"})
		}
		groups = append(groups, group)
	}

	rctx.Groups = groups
	return records, nil
}

func (n *Node) enrichCategory(ctx context.Context, group *core.DuplicateGroup) {
	if n.Classifier == nil || group.Master.MaterialType != "" {
		return
	}
	category, conf, err := n.Classifier.Suggest(ctx, group.Master)
	if err != nil {
		// 分类协作方失败只影响附加信息，不影响查重结果
		return
	}
	group.SuggestedCategory = category
	group.CategoryConfidence = conf
}

func (n *Node) route(group *core.DuplicateGroup, rctx *core.ResolveContext) {
	if len(n.Routing) == 0 {
		return
	}
	eval := dsl.NewEval(group, rctx)
	for _, rule := range n.Routing {
		ok, err := eval.Evaluate(rule.Expr)
		if err != nil {
			continue
		}
		if ok {
			group.ReviewQueue = rule.Queue
			return
		}
	}
}
