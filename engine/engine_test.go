package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/store"
)

func TestAnalyzeDuplicatePair(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	batch := []*core.MaterialIdentity{
		{
			Code:           "M001",
			SourceSystem:   "ERP",
			Name:           "不锈钢球阀",
			Specifications: "DN100 PN16",
			Manufacturer:   "上海阀门厂",
		},
		{
			Code:           "MAT001",
			SourceSystem:   "PLM",
			Name:           "304不锈钢球阀",
			Specifications: "DN100 压力16bar",
			Manufacturer:   "上海阀门制造有限公司",
		},
	}

	report, err := eng.Analyze(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	group := report.Groups[0]
	assert.Equal(t, 2, group.Size())
	assert.GreaterOrEqual(t, group.SimilarityScore, 0.65)
	assert.Contains(t,
		[]core.RecommendedAction{core.ActionManualReview, core.ActionAutoMerge},
		group.RecommendedAction)
	assert.Equal(t, "M001", group.Master.Code)
	assert.Zero(t, report.SkippedRecords)
	assert.Empty(t, report.WriteErrors)
}

func TestAnalyzeUnrelatedRecords(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	batch := []*core.MaterialIdentity{
		{Code: "X1", SourceSystem: "ERP", Name: "不锈钢球阀", Specifications: "DN100 PN16", Manufacturer: "上海阀门厂"},
		{Code: "X2", SourceSystem: "WMS", Name: "铜管", Specifications: "φ25×2mm", Manufacturer: "江苏铜业"},
	}

	report, err := eng.Analyze(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, report.Groups, "unrelated records should both become noise")
}

func TestAnalyzeSkipsMalformedRecords(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	batch := []*core.MaterialIdentity{
		{Code: "M001", SourceSystem: "ERP", Name: "不锈钢球阀", Specifications: "DN100 PN16", Manufacturer: "上海阀门厂"},
		{Code: "", SourceSystem: "ERP", Name: "缺编码"},
		{SourceSystem: "PLM", Code: "M003"},
		{Code: "MAT001", SourceSystem: "PLM", Name: "304不锈钢球阀", Specifications: "DN100 压力16bar", Manufacturer: "上海阀门制造有限公司"},
	}

	report, err := eng.Analyze(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalRecords)
	assert.Equal(t, 2, report.SkippedRecords)
	require.Len(t, report.Groups, 1, "the batch must survive malformed records")
}

func TestAnalyzeEmptyAndSingleBatch(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	report, err := eng.Analyze(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Groups)

	report, err = eng.Analyze(context.Background(), []*core.MaterialIdentity{
		{Code: "M001", SourceSystem: "ERP", Name: "螺栓"},
	})
	require.NoError(t, err)
	assert.Empty(t, report.Groups)
}

func TestAnalyzeGroupsDoNotOverlap(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	batch := []*core.MaterialIdentity{
		{Code: "A1", SourceSystem: "ERP", Name: "不锈钢球阀", Specifications: "DN100 PN16", Manufacturer: "上海阀门厂"},
		{Code: "A2", SourceSystem: "PLM", Name: "304不锈钢球阀", Specifications: "DN100 压力16bar", Manufacturer: "上海阀门制造有限公司"},
		{Code: "B1", SourceSystem: "ERP", Name: "内六角螺栓", Specifications: "M8×30", Manufacturer: "宁波紧固件厂"},
		{Code: "B2", SourceSystem: "WMS", Name: "内六角螺栓 M8", Specifications: "M8×30", Manufacturer: "宁波紧固件制造有限公司"},
	}

	report, err := eng.Analyze(context.Background(), batch)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, group := range report.Groups {
		for _, member := range group.Members() {
			key := member.Code + "|" + member.SourceSystem
			assert.False(t, seen[key], "record %s appears in two groups", key)
			seen[key] = true
		}
	}
}

func TestAnalyzePersistsResults(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	typed := store.NewTypedStore(kv)

	eng, err := New(
		WithFingerprintStore(typed),
		WithGroupStore(typed),
	)
	require.NoError(t, err)

	batch := []*core.MaterialIdentity{
		{Code: "M001", SourceSystem: "ERP", Name: "不锈钢球阀", Specifications: "DN100 PN16", Manufacturer: "上海阀门厂"},
		{Code: "MAT001", SourceSystem: "PLM", Name: "304不锈钢球阀", Specifications: "DN100 压力16bar", Manufacturer: "上海阀门制造有限公司"},
	}

	report, err := eng.Analyze(context.Background(), batch)
	require.NoError(t, err)
	require.Empty(t, report.WriteErrors)

	fp, err := typed.GetFingerprint(context.Background(), "M001", "ERP")
	require.NoError(t, err)
	assert.NotEmpty(t, fp.CombinedHash)

	require.Len(t, report.Groups, 1)
	stored, err := typed.GetGroup(context.Background(), report.Groups[0].GroupID)
	require.NoError(t, err)
	assert.Equal(t, report.Groups[0].SimilarityScore, stored.SimilarityScore)
}

type failingGroupStore struct{}

func (failingGroupStore) SaveGroup(context.Context, *core.DuplicateGroup) error {
	return errors.New("db unavailable")
}

func (failingGroupStore) GetGroup(context.Context, string) (*core.DuplicateGroup, error) {
	return nil, errors.New("db unavailable")
}

func TestAnalyzeReportsWriteFailuresAlongsideResults(t *testing.T) {
	eng, err := New(WithGroupStore(failingGroupStore{}))
	require.NoError(t, err)

	batch := []*core.MaterialIdentity{
		{Code: "M001", SourceSystem: "ERP", Name: "不锈钢球阀", Specifications: "DN100 PN16", Manufacturer: "上海阀门厂"},
		{Code: "MAT001", SourceSystem: "PLM", Name: "304不锈钢球阀", Specifications: "DN100 压力16bar", Manufacturer: "上海阀门制造有限公司"},
	}

	report, err := eng.Analyze(context.Background(), batch)
	require.NoError(t, err, "write failures must not fail the analysis")
	assert.Len(t, report.Groups, 1, "computed results must survive write failures")
	assert.Len(t, report.WriteErrors, 1)
}

func TestSubmitFeedbackUpdatesWeights(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)
	before := eng.Weights()

	after, err := eng.SubmitFeedback(context.Background(), &core.LearningFeedback{
		GroupID:          "g-1",
		UserDecision:     core.DecisionSeparate,
		ConfidenceBefore: 0.9,
		UserConfidence:   5,
		Timestamp:        time.Now(),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, after.Sum(), 1e-9)
	assert.NotEqual(t, before[core.DimensionUnit], after[core.DimensionUnit])

	// 引擎内的快照被整体替换，下一批次使用新权重
	current := eng.Weights()
	assert.Equal(t, after[core.DimensionName], current[core.DimensionName])
}

func TestSubmitFeedbackPersists(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	typed := store.NewTypedStore(kv)

	eng, err := New(
		WithFeedbackStore(typed),
		WithWeightsStore(typed),
	)
	require.NoError(t, err)

	after, err := eng.SubmitFeedback(context.Background(), &core.LearningFeedback{
		GroupID:          "g-1",
		UserDecision:     core.DecisionMerge,
		ConfidenceBefore: 0.7,
		Timestamp:        time.Now(),
	})
	require.NoError(t, err)

	stored, err := typed.LoadWeights(context.Background())
	require.NoError(t, err)
	for _, dim := range core.Dimensions {
		assert.Equal(t, after[dim], stored[dim])
	}
}

func TestRestoreWeights(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	typed := store.NewTypedStore(kv)

	saved := core.SimilarityWeights{
		core.DimensionName:         0.40,
		core.DimensionSpec:         0.20,
		core.DimensionManufacturer: 0.15,
		core.DimensionType:         0.10,
		core.DimensionUnit:         0.05,
		core.DimensionAttributes:   0.10,
	}
	require.NoError(t, typed.SaveWeights(context.Background(), saved))

	eng, err := New(WithWeightsStore(typed))
	require.NoError(t, err)
	require.NoError(t, eng.RestoreWeights(context.Background()))

	assert.Equal(t, 0.40, eng.Weights()[core.DimensionName])
}

func TestRestoreWeightsMissingSnapshot(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	eng, err := New(WithWeightsStore(store.NewTypedStore(kv)))
	require.NoError(t, err)
	require.NoError(t, eng.RestoreWeights(context.Background()))

	assert.InDelta(t, 1.0, eng.Weights().Sum(), 1e-9)
}

func TestNewRejectsInvalidWeights(t *testing.T) {
	_, err := New(WithWeights(core.SimilarityWeights{core.DimensionName: 2.0}))
	assert.Error(t, err)
}
