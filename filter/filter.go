package filter

import (
	"context"

	"github.com/mdmkit/mdmkit/core"
)

// Filter 是记录过滤器的抽象接口，用于判断一条记录是否应该被剔除出批次。
// 返回 true 表示剔除，false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 record 是否应该被剔除
	ShouldFilter(ctx context.Context, rctx *core.ResolveContext, record *core.Record) (bool, error)
}
