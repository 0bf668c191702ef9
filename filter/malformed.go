package filter

import (
	"context"

	"github.com/mdmkit/mdmkit/core"
)

// MalformedFilter 剔除缺少 code 或 name 的记录。
// 单条坏记录只跳过并计数，绝不让整批失败。
type MalformedFilter struct{}

func NewMalformedFilter() *MalformedFilter { return &MalformedFilter{} }

func (f *MalformedFilter) Name() string { return "filter.malformed" }

func (f *MalformedFilter) ShouldFilter(_ context.Context, rctx *core.ResolveContext, record *core.Record) (bool, error) {
	if record.Identity == nil || !record.Identity.Valid() {
		rctx.SkippedRecords++
		return true, nil
	}
	return false, nil
}

var _ Filter = (*MalformedFilter)(nil)
