// Package mdmkit 是一个物料主数据查重工具包（Master Data Management Kit）。
//
// 设计要点：
// - Pipeline-first: 批次分析通过 Node 串联（Filter → Fingerprint → Similarity → Cluster → Assemble）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 权重显式传递: 跨批次唯一共享的状态是 SimilarityWeights，由引擎托管快照、反馈调权整体替换
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地过滤或远程协作方均可）
package mdmkit

import "github.com/mdmkit/mdmkit/pipeline"

// 轻量 facade：便于用户直接 import "mdmkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter      = pipeline.KindFilter
	KindFingerprint = pipeline.KindFingerprint
	KindSimilarity  = pipeline.KindSimilarity
	KindCluster     = pipeline.KindCluster
	KindConfidence  = pipeline.KindConfidence
	KindAssemble    = pipeline.KindAssemble
)
