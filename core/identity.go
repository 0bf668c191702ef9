package core

import "github.com/mdmkit/mdmkit/pkg/utils"

// MaterialIdentity 是一条参与查重分析的物料记录。
// 不同来源系统（ERP/PLM/WMS）对同一物理物料的编码、名称、规格可能各不相同，
// 本结构只承载原始字段，不做任何规范化；创建后在一个批次内不可变。
type MaterialIdentity struct {
	Code           string            `json:"code"`           // 来源系统内的本地编码
	SourceSystem   string            `json:"source_system"`  // 来源系统标识（erp / plm / wms ...）
	Name           string            `json:"name"`           // 物料名称
	Specifications string            `json:"specifications"` // 规格型号
	Manufacturer   string            `json:"manufacturer"`   // 生产厂商
	MaterialType   string            `json:"material_type"`  // 物料类别
	Unit           string            `json:"unit"`           // 计量单位
	RawAttributes  map[string]string `json:"raw_attributes"` // 任意扩展属性（开放 key/value）
}

// Key 返回 (code, source_system) 组合键，用于指纹缓存与持久化。
func (m *MaterialIdentity) Key() string {
	return m.Code + "|" + m.SourceSystem
}

// Valid 判断记录是否具备参与分析的最低要求：code 与 name 都不能缺失。
// 不合法的记录在批次中被跳过并计数，而不是让整批失败。
func (m *MaterialIdentity) Valid() bool {
	return m.Code != "" && m.Name != ""
}

// Record 是分析链路中的统一承载结构：一条物料记录 + 派生指纹 + 标签。
// Identity 不可变；Fingerprint 由指纹节点补充；Labels 用于解释与观测。
type Record struct {
	Identity    *MaterialIdentity
	Fingerprint *Fingerprint
	Labels      map[string]utils.Label
}

func NewRecord(identity *MaterialIdentity) *Record {
	return &Record{
		Identity: identity,
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (r *Record) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (r *Record) GetLabel(key string) (utils.Label, bool) {
	if r.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := r.Labels[key]
	return lbl, ok
}
