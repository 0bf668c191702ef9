// Package assemble 把聚类结果组装为可上报的 DuplicateGroup。
package assemble

import (
	"github.com/mdmkit/mdmkit/core"
)

// MasterStrategy 决定重复组的 master 记录。
//
// 历史行为是按批次顺序取第一条，没有任何文档化的优选规则；在产品层
// 确认新策略之前，默认实现必须保持这一行为。质量感知 / 来源优先级
// 的策略通过本接口显式启用，而不是悄悄替换默认行为。
type MasterStrategy interface {
	Name() string

	// SelectMaster 从组内成员（按批次顺序）中选出 master 的下标。
	SelectMaster(members []*core.MaterialIdentity) int
}

// FirstInBatch 保持历史行为：master = 组内第一条记录（批次顺序）。
type FirstInBatch struct{}

func (FirstInBatch) Name() string { return "first_in_batch" }

func (FirstInBatch) SelectMaster(members []*core.MaterialIdentity) int {
	return 0
}

// SourcePriority 按来源系统优先级选 master：优先级列表靠前的来源胜出，
// 同来源或都不在列表中时退回批次顺序。
type SourcePriority struct {
	// Order 是来源系统的优先级列表，例如 []string{"plm", "erp", "wms"}。
	Order []string
}

func (SourcePriority) Name() string { return "source_priority" }

func (s SourcePriority) SelectMaster(members []*core.MaterialIdentity) int {
	if len(members) == 0 {
		return 0
	}
	rank := make(map[string]int, len(s.Order))
	for i, src := range s.Order {
		rank[src] = i
	}

	best := 0
	bestRank := rankOf(rank, members[0].SourceSystem)
	for i := 1; i < len(members); i++ {
		r := rankOf(rank, members[i].SourceSystem)
		if r < bestRank {
			best = i
			bestRank = r
		}
	}
	return best
}

func rankOf(rank map[string]int, source string) int {
	if r, ok := rank[source]; ok {
		return r
	}
	return len(rank) + 1
}

var (
	_ MasterStrategy = FirstInBatch{}
	_ MasterStrategy = SourcePriority{}
)
