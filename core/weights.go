package core

import "math"

// Dimension 是相似度计算的维度标识。
type Dimension string

const (
	DimensionName         Dimension = "name"         // 名称（n-gram 向量余弦）
	DimensionSpec         Dimension = "spec"         // 规格（n-gram 向量余弦）
	DimensionManufacturer Dimension = "manufacturer" // 厂商（编辑距离比率）
	DimensionType         Dimension = "type"         // 类别（精确匹配）
	DimensionUnit         Dimension = "unit"         // 单位（别名表匹配）
	DimensionAttributes   Dimension = "attributes"   // 扩展属性（键交集匹配率）
)

// Dimensions 按固定顺序列出所有维度，供遍历与校验使用。
var Dimensions = []Dimension{
	DimensionName,
	DimensionSpec,
	DimensionManufacturer,
	DimensionType,
	DimensionUnit,
	DimensionAttributes,
}

// WeightSumTolerance 是权重和的浮点容差。
const WeightSumTolerance = 1e-9

// SimilarityWeights 是各维度相似度的加权配置。
//
// 生命周期约定（跨批次唯一的共享状态）：
//   - 引擎构造时用 DefaultWeights 初始化
//   - 批次开始时读取一次快照，整批使用同一份
//   - 反馈调权产生一份全新的权重（函数式更新，不原地修改）
//   - 任何时刻满足 Sum() == 1.0（容差内）
type SimilarityWeights map[Dimension]float64

// DefaultWeights 返回默认权重，和为 1.0。
func DefaultWeights() SimilarityWeights {
	return SimilarityWeights{
		DimensionName:         0.35,
		DimensionSpec:         0.25,
		DimensionManufacturer: 0.15,
		DimensionType:         0.10,
		DimensionUnit:         0.05,
		DimensionAttributes:   0.10,
	}
}

// Clone 返回权重的独立副本。
func (w SimilarityWeights) Clone() SimilarityWeights {
	out := make(SimilarityWeights, len(w))
	for d, v := range w {
		out[d] = v
	}
	return out
}

// Sum 返回所有维度权重之和。
func (w SimilarityWeights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Normalize 返回归一化后的新权重（和为 1.0）。
// 权重和为 0 时回退到默认权重，避免产生全零配置。
func (w SimilarityWeights) Normalize() SimilarityWeights {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights()
	}
	out := make(SimilarityWeights, len(w))
	for d, v := range w {
		out[d] = v / sum
	}
	return out
}

// Validate 校验权重配置：维度齐全、非负、和为 1.0（容差内）。
func (w SimilarityWeights) Validate() error {
	for _, d := range Dimensions {
		v, ok := w[d]
		if !ok {
			return NewDomainError(ModuleSimilarity, ErrorCodeInvalidInput, "weights: missing dimension "+string(d))
		}
		if v < 0 {
			return NewDomainError(ModuleSimilarity, ErrorCodeInvalidInput, "weights: negative weight for "+string(d))
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightSumTolerance {
		return NewDomainError(ModuleSimilarity, ErrorCodeInvalidInput, "weights: sum must be 1.0")
	}
	return nil
}
