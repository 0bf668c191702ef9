// Package engine 是查重分析的门面：组装默认 Pipeline、托管跨批次的权重
// 快照、在计算完成后执行落库并把写失败随结果一并上报。
package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mdmkit/mdmkit/assemble"
	"github.com/mdmkit/mdmkit/cluster"
	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/feedback"
	"github.com/mdmkit/mdmkit/filter"
	"github.com/mdmkit/mdmkit/fingerprint"
	"github.com/mdmkit/mdmkit/pipeline"
	"github.com/mdmkit/mdmkit/similarity"
)

// AnalysisReport 是一次批次分析的完整产出。
// 落库失败不丢弃已算出的结果：WriteErrors 与 Groups 并列上报，由调用方决策重试。
type AnalysisReport struct {
	BatchID        string
	Groups         []*core.DuplicateGroup
	TotalRecords   int
	SkippedRecords int

	// Weights 是本批次实际使用的权重快照。
	Weights core.SimilarityWeights

	// WriteErrors 收集计算完成后落库阶段的全部失败。
	WriteErrors []error
}

// Engine 是物料查重引擎。
//
// 唯一跨批次的状态是权重快照，受读写锁保护：批次开始读一次快照，
// 反馈调权整体替换。引擎可安全地被多个 goroutine 并发调用 Analyze。
type Engine struct {
	mu      sync.RWMutex
	weights core.SimilarityWeights

	mediumThreshold float64
	adapter         feedback.WeightAdapter
	logger          *zap.Logger

	generator   *fingerprint.Generator
	simEngine   *similarity.Engine
	strategy    assemble.MasterStrategy
	classifier  core.CategoryClassifier
	routing     []assemble.RoutingRule
	filters     []filter.Filter
	parallelism int

	fingerprints  core.FingerprintStore
	groups        core.GroupStore
	feedbackStore core.FeedbackStore
	weightsStore  core.WeightsStore
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 设置日志器，默认 zap.NewNop()。
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWeights 设置初始权重快照，默认 core.DefaultWeights()。
func WithWeights(weights core.SimilarityWeights) Option {
	return func(e *Engine) {
		if weights != nil {
			e.weights = weights.Clone()
		}
	}
}

// WithMediumThreshold 设置中置信度下界，同时决定聚类半径。
func WithMediumThreshold(threshold float64) Option {
	return func(e *Engine) {
		if threshold > 0 && threshold < 1 {
			e.mediumThreshold = threshold
		}
	}
}

// WithWeightAdapter 替换权重调整策略，默认启发式规则。
func WithWeightAdapter(adapter feedback.WeightAdapter) Option {
	return func(e *Engine) {
		if adapter != nil {
			e.adapter = adapter
		}
	}
}

// WithMasterStrategy 设置主记录选择策略，默认 FirstInBatch。
func WithMasterStrategy(strategy assemble.MasterStrategy) Option {
	return func(e *Engine) {
		if strategy != nil {
			e.strategy = strategy
		}
	}
}

// WithClassifier 设置分类协作方，仅丰富输出。
func WithClassifier(classifier core.CategoryClassifier) Option {
	return func(e *Engine) { e.classifier = classifier }
}

// WithRouting 设置复核队列路由规则。
func WithRouting(rules []assemble.RoutingRule) Option {
	return func(e *Engine) { e.routing = rules }
}

// WithFilters 追加前置过滤器（在内置的畸形记录过滤之后执行）。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, filters...) }
}

// WithParallelism 设置相似度矩阵的并行度。
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// WithFingerprintStore 设置指纹落库协作方。
func WithFingerprintStore(s core.FingerprintStore) Option {
	return func(e *Engine) { e.fingerprints = s }
}

// WithGroupStore 设置重复组落库协作方。
func WithGroupStore(s core.GroupStore) Option {
	return func(e *Engine) { e.groups = s }
}

// WithFeedbackStore 设置反馈审计落库协作方。
func WithFeedbackStore(s core.FeedbackStore) Option {
	return func(e *Engine) { e.feedbackStore = s }
}

// WithWeightsStore 设置权重快照落库协作方。
func WithWeightsStore(s core.WeightsStore) Option {
	return func(e *Engine) { e.weightsStore = s }
}

// New 创建引擎。零配置可用：默认权重、默认阈值、无落库协作方。
func New(opts ...Option) (*Engine, error) {
	gen, err := fingerprint.NewGenerator(0)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		weights:         core.DefaultWeights(),
		mediumThreshold: core.DefaultMediumThreshold,
		adapter:         &feedback.HeuristicAdapter{},
		logger:          zap.NewNop(),
		generator:       gen,
		simEngine:       similarity.NewEngine(),
		strategy:        assemble.FirstInBatch{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}
	e.simEngine.Parallelism = e.parallelism
	return e, nil
}

// Weights 返回当前权重快照的副本。
func (e *Engine) Weights() core.SimilarityWeights {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights.Clone()
}

// RestoreWeights 从权重存储恢复上次的快照，key 不存在时保持当前权重。
func (e *Engine) RestoreWeights(ctx context.Context) error {
	if e.weightsStore == nil {
		return nil
	}
	weights, err := e.weightsStore.LoadWeights(ctx)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.weights = weights
	e.mu.Unlock()
	return nil
}

// Analyze 对一个批次执行完整的查重分析。
//
// 流程：畸形记录过滤 → 指纹 → 相似度矩阵 → DBSCAN 聚类 → 结果组装。
// 计算全部完成后才落库；落库失败不影响返回的 Groups，
// 失败明细收集在 AnalysisReport.WriteErrors。
func (e *Engine) Analyze(ctx context.Context, batch []*core.MaterialIdentity) (*AnalysisReport, error) {
	e.mu.RLock()
	weights := e.weights.Clone()
	e.mu.RUnlock()

	rctx := core.NewResolveContext(uuid.NewString(), weights)
	rctx.MediumThreshold = e.mediumThreshold

	records := make([]*core.Record, 0, len(batch))
	for _, identity := range batch {
		records = append(records, &core.Record{Identity: identity})
	}

	p := e.buildPipeline()
	processed, err := p.Run(ctx, rctx, records)
	if err != nil {
		e.logger.Error("batch analysis failed",
			zap.String("batch_id", rctx.BatchID),
			zap.Error(err))
		return nil, err
	}

	report := &AnalysisReport{
		BatchID:        rctx.BatchID,
		Groups:         rctx.Groups,
		TotalRecords:   len(batch),
		SkippedRecords: rctx.SkippedRecords,
		Weights:        weights,
	}
	report.WriteErrors = e.persist(ctx, rctx, processed)

	e.logger.Info("batch analysis done",
		zap.String("batch_id", rctx.BatchID),
		zap.Int("records", report.TotalRecords),
		zap.Int("skipped", report.SkippedRecords),
		zap.Int("groups", len(report.Groups)),
		zap.Int("write_errors", len(report.WriteErrors)))
	return report, nil
}

func (e *Engine) buildPipeline() *pipeline.Pipeline {
	filters := make([]filter.Filter, 0, 1+len(e.filters))
	filters = append(filters, filter.NewMalformedFilter())
	filters = append(filters, e.filters...)

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.FilterNode{Filters: filters},
			&fingerprint.Node{Generator: e.generator},
			&similarity.Node{Engine: e.simEngine},
			&cluster.Node{},
			&assemble.Node{
				Strategy:   e.strategy,
				Classifier: e.classifier,
				Routing:    e.routing,
			},
		},
	}
}

// persist 在计算完成后执行落库，返回全部写失败。
func (e *Engine) persist(ctx context.Context, rctx *core.ResolveContext, records []*core.Record) []error {
	var writeErrors []error

	if e.fingerprints != nil {
		if err := e.fingerprints.BatchSaveFingerprints(ctx, records); err != nil {
			e.logger.Warn("save fingerprints failed",
				zap.String("batch_id", rctx.BatchID),
				zap.Error(err))
			writeErrors = append(writeErrors, err)
		}
	}
	if e.groups != nil {
		for _, group := range rctx.Groups {
			if err := e.groups.SaveGroup(ctx, group); err != nil {
				e.logger.Warn("save group failed",
					zap.String("group_id", group.GroupID),
					zap.Error(err))
				writeErrors = append(writeErrors, err)
			}
		}
	}
	return writeErrors
}

// SubmitFeedback 消费一条人工复核反馈：调权、整体替换快照、落库审计。
// 返回调整后的新权重；反馈与权重的落库失败通过 error 上报，
// 此时权重已在内存中生效，调用方可据此决定重试落库。
func (e *Engine) SubmitFeedback(ctx context.Context, fb *core.LearningFeedback) (core.SimilarityWeights, error) {
	if fb == nil {
		return e.Weights(), core.NewDomainError(core.ModuleFeedback, core.ErrorCodeInvalidInput, "feedback: nil feedback")
	}

	e.mu.Lock()
	next := e.adapter.Adapt(e.weights, fb)
	e.weights = next
	e.mu.Unlock()

	e.logger.Info("feedback applied",
		zap.String("group_id", fb.GroupID),
		zap.String("decision", string(fb.UserDecision)),
		zap.Float64("confidence_before", fb.ConfidenceBefore))

	var firstErr error
	if e.feedbackStore != nil {
		if err := e.feedbackStore.SaveFeedback(ctx, fb); err != nil {
			e.logger.Warn("save feedback failed", zap.Error(err))
			firstErr = err
		}
	}
	if e.weightsStore != nil {
		if err := e.weightsStore.SaveWeights(ctx, next); err != nil {
			e.logger.Warn("save weights failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return next.Clone(), firstErr
}
