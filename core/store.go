package core

import "context"

// Store 是通用 KV 存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 指纹缓存与查重索引
//   - 重复组与反馈的落库
//   - 权重快照的持久化
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取（指纹批量回查常用，减少网络往返）
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}

// FingerprintStore 按 (code, source_system) 存取指纹，供审计与快速精确查重。
type FingerprintStore interface {
	SaveFingerprint(ctx context.Context, identity *MaterialIdentity, fp *Fingerprint) error
	GetFingerprint(ctx context.Context, code, sourceSystem string) (*Fingerprint, error)
	BatchSaveFingerprints(ctx context.Context, records []*Record) error
}

// GroupStore 按生成的 group id 落库重复组及其成员。
type GroupStore interface {
	SaveGroup(ctx context.Context, group *DuplicateGroup) error
	GetGroup(ctx context.Context, groupID string) (*DuplicateGroup, error)
}

// FeedbackStore 落库原始反馈，用于审计。
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, fb *LearningFeedback) error
}

// WeightsStore 存取当前权重快照，保证批次间的权重延续。
type WeightsStore interface {
	SaveWeights(ctx context.Context, weights SimilarityWeights) error
	LoadWeights(ctx context.Context) (SimilarityWeights, error)
}
