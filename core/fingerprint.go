package core

// Fingerprint 是一条物料记录关键文本字段的规范化表示。
// 三个字段级指纹都是排序后的 token 串，对 token 顺序不敏感：
// "球阀 不锈钢" 与 "不锈钢 球阀" 生成相同指纹。
// CombinedHash 是三个指纹拼接后的内容哈希，用于快速精确查重与审计留痕；
// 只防"意外合并"，不承担任何安全职责。
type Fingerprint struct {
	NameFingerprint         string `json:"name_fingerprint"`
	SpecFingerprint         string `json:"spec_fingerprint"`
	ManufacturerFingerprint string `json:"manufacturer_fingerprint"`
	CombinedHash            string `json:"combined_hash"`
}

// Equal 判断两个指纹是否完全一致（逐字段比较，不依赖 CombinedHash）。
func (f *Fingerprint) Equal(other *Fingerprint) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.NameFingerprint == other.NameFingerprint &&
		f.SpecFingerprint == other.SpecFingerprint &&
		f.ManufacturerFingerprint == other.ManufacturerFingerprint
}
