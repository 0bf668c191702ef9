package filter

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/fingerprint"
)

// SeenFingerprintFilter 在增量同步场景下剔除指纹已入库的重复提交。
//
// 布隆过滤器做第一道快速判断：一定没见过的记录直接放行；
// 可能见过时再查指纹存储确认（布隆有误判，存储是事实来源）。
// 留在批次里的记录指纹会被记入过滤器，供后续批次使用。
type SeenFingerprintFilter struct {
	store core.FingerprintStore

	mu    sync.Mutex
	bloom *bloom.BloomFilter
}

// NewSeenFingerprintFilter 创建增量过滤器。
// capacity 是预期指纹总量，falsePositiveRate 是期望误判率（例如 0.01）。
func NewSeenFingerprintFilter(store core.FingerprintStore, capacity uint, falsePositiveRate float64) *SeenFingerprintFilter {
	if capacity == 0 {
		capacity = 1 << 20
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = 0.01
	}
	return &SeenFingerprintFilter{
		store: store,
		bloom: bloom.NewWithEstimates(capacity, falsePositiveRate),
	}
}

func (f *SeenFingerprintFilter) Name() string { return "filter.seen_fingerprint" }

func (f *SeenFingerprintFilter) ShouldFilter(ctx context.Context, _ *core.ResolveContext, record *core.Record) (bool, error) {
	if record.Identity == nil {
		return false, nil
	}
	fp := record.Fingerprint
	if fp == nil {
		fp = fingerprint.Fingerprint(record.Identity)
		record.Fingerprint = fp
	}

	key := record.Identity.Key() + "#" + fp.CombinedHash

	f.mu.Lock()
	maybeSeen := f.bloom.TestString(key)
	if !maybeSeen {
		f.bloom.AddString(key)
	}
	f.mu.Unlock()

	if !maybeSeen {
		return false, nil
	}

	// 布隆命中只代表"可能见过"，以存储为准
	if f.store == nil {
		return false, nil
	}
	stored, err := f.store.GetFingerprint(ctx, record.Identity.Code, record.Identity.SourceSystem)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return stored.Equal(fp), nil
}

var _ Filter = (*SeenFingerprintFilter)(nil)
