// Package cluster 把相似度矩阵转化为距离矩阵，并用密度聚类提取重复组。
package cluster

import (
	"sort"

	"github.com/mdmkit/mdmkit/core"
)

// MinPoints 是密度聚类的最小邻域点数。取 2 意味着任意一对足够接近的
// 记录即可成组，单点簇在构造上不可能出现。
const MinPoints = 2

const (
	labelUnvisited = 0
	labelNoise     = -1
)

// Extract 在预计算的距离矩阵（distance = 1 - similarity）上运行 DBSCAN。
//
// eps = 1 - mediumThreshold：中置信度下界以下的相似度不足以把两条记录
// 拉进同一邻域。噪声点（未落入任何簇）被丢弃；输出的每个索引组至少
// 2 个成员，且任一索引只出现在一个组里（硬性不变量，出组前再校验一次）。
func Extract(matrix *core.SimilarityMatrix, mediumThreshold float64) [][]int {
	n := matrix.Len()
	if n < 2 {
		return nil
	}

	eps := 1.0 - mediumThreshold

	// labels[i]: 0 未访问, -1 噪声, >0 簇编号
	labels := make([]int, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != labelUnvisited {
			continue
		}
		neighbors := regionQuery(matrix, i, eps)
		if len(neighbors) < MinPoints {
			labels[i] = labelNoise
			continue
		}
		clusterID++
		expandCluster(matrix, labels, i, neighbors, clusterID, eps)
	}

	return collect(labels, clusterID)
}

// regionQuery 返回与 i 距离不超过 eps 的所有点（含 i 自身）。
// 距离全部来自预计算矩阵，算法内部不做任何相似度重算。
func regionQuery(matrix *core.SimilarityMatrix, i int, eps float64) []int {
	var neighbors []int
	for j := 0; j < matrix.Len(); j++ {
		if matrix.Distance(i, j) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

func expandCluster(matrix *core.SimilarityMatrix, labels []int, seed int, neighbors []int, clusterID int, eps float64) {
	labels[seed] = clusterID

	queue := append([]int(nil), neighbors...)
	for idx := 0; idx < len(queue); idx++ {
		p := queue[idx]
		if labels[p] == labelNoise {
			// 噪声点可以被簇吸收为边界点
			labels[p] = clusterID
		}
		if labels[p] != labelUnvisited {
			continue
		}
		labels[p] = clusterID

		pNeighbors := regionQuery(matrix, p, eps)
		if len(pNeighbors) >= MinPoints {
			queue = append(queue, pNeighbors...)
		}
	}
}

// collect 按簇编号汇总索引组，过滤退化的单点组并强制不重叠。
func collect(labels []int, clusterCount int) [][]int {
	byCluster := make(map[int][]int, clusterCount)
	seen := make(map[int]bool, len(labels))
	for idx, id := range labels {
		if id <= 0 {
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		byCluster[id] = append(byCluster[id], idx)
	}

	clusters := make([][]int, 0, len(byCluster))
	for id := 1; id <= clusterCount; id++ {
		members := byCluster[id]
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)
		clusters = append(clusters, members)
	}
	return clusters
}
