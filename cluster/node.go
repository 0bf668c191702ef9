package cluster

import (
	"context"
	"fmt"

	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/pipeline"
	"github.com/mdmkit/mdmkit/pkg/utils"
)

// Node 是聚类提取的 Pipeline 节点：消费 ResolveContext.Matrix，
// 产出 ResolveContext.Clusters，并给记录打上簇标签便于观测。
type Node struct{}

func (n *Node) Name() string        { return "cluster.dbscan" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindCluster }

func (n *Node) Process(
	_ context.Context,
	rctx *core.ResolveContext,
	records []*core.Record,
) ([]*core.Record, error) {
	if rctx.Matrix == nil {
		return nil, core.NewDomainError(core.ModuleCluster, core.ErrorCodeInvalidInput, "cluster: similarity matrix not built")
	}

	rctx.Clusters = Extract(rctx.Matrix, rctx.MediumThreshold)

	clustered := make(map[int]int)
	for cid, members := range rctx.Clusters {
		for _, idx := range members {
			clustered[idx] = cid
		}
	}
	for idx, rec := range records {
		if cid, ok := clustered[idx]; ok {
			rec.PutLabel("cluster", utils.Label{Value: fmt.Sprintf("%d", cid), Source: "cluster"})
		} else {
			rec.PutLabel("cluster", utils.Label{Value: "noise", Source: "cluster"})
		}
	}
	return records, nil
}
