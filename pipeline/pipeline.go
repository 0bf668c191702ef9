package pipeline

import (
	"context"

	"github.com/mdmkit/mdmkit/core"
)

// Pipeline 是 mdmkit 的核心抽象：把批次分析逻辑拆成可组合的 Node 链。
// 一个批次是一次同步的全量处理，不产出中间结果；任一节点失败整批失败。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.ResolveContext,
	records []*core.Record,
) ([]*core.Record, error) {
	cur := records
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
