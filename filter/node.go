package filter

import (
	"context"

	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/pipeline"
	"github.com/mdmkit/mdmkit/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器。
// 任一过滤器命中即剔除该记录；过滤器报错时跳过该过滤器而不中断批次。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string        { return "filter.node" }
func (n *FilterNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.ResolveContext,
	records []*core.Record,
) ([]*core.Record, error) {
	if len(n.Filters) == 0 || len(records) == 0 {
		return records, nil
	}

	out := make([]*core.Record, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}

		dropped := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, rec)
			if err != nil {
				continue
			}
			if ok {
				dropped = true
				rec.PutLabel("filtered", utils.Label{Value: "true", Source: f.Name()})
				break
			}
		}
		if !dropped {
			out = append(out, rec)
		}
	}
	return out, nil
}
