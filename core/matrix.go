package core

// SimilarityMatrix 是一个批次的两两综合相似度矩阵。
// 对称、对角线恒为 1.0、取值 [0,1]；构建完成后只读，聚类结束即随批次丢弃。
type SimilarityMatrix struct {
	n      int
	values [][]float64
}

// NewSimilarityMatrix 创建 n×n 矩阵，对角线初始化为 1.0。
func NewSimilarityMatrix(n int) *SimilarityMatrix {
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1.0
	}
	return &SimilarityMatrix{n: n, values: values}
}

// Len 返回矩阵维度（批次大小）。
func (m *SimilarityMatrix) Len() int { return m.n }

// At 返回 (i,j) 的相似度。
func (m *SimilarityMatrix) At(i, j int) float64 { return m.values[i][j] }

// Set 同时写入 (i,j) 与 (j,i)，由构建方保证对称。
// 对角线不可写，构造时已固定为 1.0。
func (m *SimilarityMatrix) Set(i, j int, v float64) {
	if i == j {
		return
	}
	m.values[i][j] = v
	m.values[j][i] = v
}

// Distance 返回 (i,j) 的距离（1 - 相似度），供密度聚类使用。
func (m *SimilarityMatrix) Distance(i, j int) float64 {
	return 1.0 - m.values[i][j]
}
