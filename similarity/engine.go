package similarity

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mdmkit/mdmkit/core"
	"github.com/mdmkit/mdmkit/fingerprint"
	"github.com/mdmkit/mdmkit/pipeline"
	"github.com/mdmkit/mdmkit/pkg/utils"
)

// Engine 构建一个批次的综合相似度矩阵。
//
// 六个维度的得分按权重加权求和：
//   - name: 名称指纹的字符 1~3 gram TF-IDF 余弦
//   - spec: 规格指纹的字符 1~2 gram TF-IDF 余弦（独立词表）
//   - manufacturer: 厂商指纹的编辑距离比率
//   - type / unit: 精确匹配 / 别名表匹配
//   - attributes: 扩展属性键交集匹配率
//
// 复杂度为 O(n²) 两两组合 + 每个文本维度一次 O(n) 向量化，
// 适用于数百到数千条的批次；超大语料需要分块或索引预筛，不在此处理。
type Engine struct {
	nameVectorizer *Vectorizer
	specVectorizer *Vectorizer

	// Parallelism 是行块并行度，<=0 时取 GOMAXPROCS。
	// 各维度计算互相独立，并行只影响耗时不影响结果。
	Parallelism int
}

func NewEngine() *Engine {
	return &Engine{
		nameVectorizer: NewVectorizer(1, 3),
		specVectorizer: NewVectorizer(1, 2),
	}
}

// BuildMatrix 为一批记录构建对称相似度矩阵，对角线恒为 1.0 且不参与计算。
// 权重必须已归一化（和为 1.0）。记录缺少指纹时就地补算。
func (e *Engine) BuildMatrix(
	ctx context.Context,
	records []*core.Record,
	weights core.SimilarityWeights,
) (*core.SimilarityMatrix, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	n := len(records)
	matrix := core.NewSimilarityMatrix(n)
	if n < 2 {
		return matrix, nil
	}

	names := make([]string, n)
	specs := make([]string, n)
	for i, rec := range records {
		if rec.Fingerprint == nil {
			rec.Fingerprint = fingerprint.Fingerprint(rec.Identity)
		}
		names[i] = rec.Fingerprint.NameFingerprint
		specs[i] = rec.Fingerprint.SpecFingerprint
	}

	// 文本维度的词表与 IDF 在整个批次上构建一次
	nameVecs := e.nameVectorizer.Vectors(names)
	specVecs := e.specVectorizer.Vectors(specs)

	workers := e.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := 0; i < n-1; i++ {
		row := i
		eg.Go(func() error {
			for j := row + 1; j < n; j++ {
				sim := e.pairSimilarity(records[row], records[j], nameVecs[row], nameVecs[j], specVecs[row], specVecs[j], weights)
				matrix.Set(row, j, sim)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return matrix, nil
}

func (e *Engine) pairSimilarity(
	a, b *core.Record,
	nameVecA, nameVecB map[string]float64,
	specVecA, specVecB map[string]float64,
	weights core.SimilarityWeights,
) float64 {
	scores := map[core.Dimension]float64{
		core.DimensionName:         Cosine(nameVecA, nameVecB),
		core.DimensionSpec:         Cosine(specVecA, specVecB),
		core.DimensionManufacturer: ManufacturerSimilarity(a.Fingerprint.ManufacturerFingerprint, b.Fingerprint.ManufacturerFingerprint),
		core.DimensionType:         TypeSimilarity(a.Identity.MaterialType, b.Identity.MaterialType),
		core.DimensionUnit:         UnitSimilarity(a.Identity.Unit, b.Identity.Unit),
		core.DimensionAttributes:   AttributeSimilarity(a.Identity.RawAttributes, b.Identity.RawAttributes),
	}

	var combined float64
	for dim, score := range scores {
		combined += weights[dim] * score
	}
	return combined
}

// Node 是相似度计算的 Pipeline 节点：把矩阵写入 ResolveContext.Matrix。
type Node struct {
	Engine *Engine
}

func (n *Node) Name() string        { return "similarity" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindSimilarity }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.ResolveContext,
	records []*core.Record,
) ([]*core.Record, error) {
	engine := n.Engine
	if engine == nil {
		engine = NewEngine()
		n.Engine = engine
	}

	matrix, err := engine.BuildMatrix(ctx, records, rctx.Weights)
	if err != nil {
		return nil, err
	}
	rctx.Matrix = matrix
	rctx.PutLabel("matrix_size", utils.Label{
		Value:  fmt.Sprintf("%d", matrix.Len()),
		Source: "similarity",
	})
	return records, nil
}
