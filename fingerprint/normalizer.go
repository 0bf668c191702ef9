// Package fingerprint 把物料记录的关键文本字段规范化为与 token 顺序无关的指纹。
//
// 指纹只做快速精确/近精确查重与审计留痕；更重的多维相似度计算在
// similarity 包中完成。所有规范化函数都是纯函数：字段缺失时产出空指纹，
// 从不报错。
package fingerprint

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mdmkit/mdmkit/core"
)

// tokenPattern 提取字母数字串（含小数）与 CJK 连续串。
// 其余字符（标点、空白、全角符号）一律视为分隔符。
var tokenPattern = regexp.MustCompile(`[\p{Han}]+|[a-z]+|\d+(?:\.\d+)?`)

// nameNoiseTokens 是名称中的计量类噪声 token，整 token 命中时剔除。
var nameNoiseTokens = map[string]bool{
	"个": true, "台": true, "套": true, "只": true, "件": true,
	"支": true, "根": true, "条": true, "块": true, "张": true,
	"瓶": true, "盒": true, "箱": true, "桶": true, "卷": true,
	"pcs": true, "pc": true, "set": true,
}

// specUnits 是规格串中可识别的计量单位。
var specUnits = map[string]bool{
	"mm": true, "cm": true, "m": true, "um": true,
	"kg": true, "g": true, "t": true,
	"mpa": true, "kpa": true, "pa": true, "bar": true,
	"c": true, "°c": true, "℃": true,
	"v": true, "kv": true, "w": true, "kw": true,
	"l": true, "ml": true, "inch": true, "in": true,
}

// specIdentifiers 是规格串中可识别的规格标识符（公称直径、压力等级等）。
var specIdentifiers = map[string]bool{
	"dn": true, "pn": true, "cl": true, "φ": true, "Φ": true,
	"gb": true, "iso": true, "din": true, "jb": true,
}

// manufacturerSuffixes 是厂商名称中的法律实体后缀，按长度降序剥离。
var manufacturerSuffixes = []string{
	"制造股份有限公司", "制造有限责任公司", "制造有限公司",
	"股份有限公司", "有限责任公司", "有限公司",
	"制造厂", "集团", "公司", "制造", "厂",
	"co., ltd.", "co.,ltd.", "co., ltd", "co.,ltd",
	"corporation", "incorporated", "gmbh", "corp", "inc", "ltd", "co",
}

// NormalizeName 生成名称指纹：小写、剔除计量噪声 token、
// 提取字母数字与 CJK 连续串、按字典序排序后拼接。
// 排序使指纹对 token 顺序不敏感："球阀 不锈钢" 与 "不锈钢 球阀" 结果相同。
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	tokens := tokenize(strings.ToLower(name))
	out := tokens[:0]
	for _, tok := range tokens {
		if nameNoiseTokens[tok] {
			continue
		}
		out = append(out, tok)
	}
	sort.Strings(out)
	return strings.Join(out, "")
}

// NormalizeSpec 生成规格指纹：从规格串中提取三类 token——
// 裸数字、可识别单位、可识别标识符，排序后拼接。
// 未识别的文字描述（如 "压力"、"材质"）不进入指纹。
func NormalizeSpec(spec string) string {
	if spec == "" {
		return ""
	}
	raw := tokenize(strings.ToLower(spec))
	var tokens []string
	for _, tok := range raw {
		if isNumber(tok) || specUnits[tok] || specIdentifiers[tok] {
			tokens = append(tokens, tok)
		}
	}
	// φ 和 ℃ 紧贴数字出现时会被 tokenPattern 丢弃，单独补扫
	if strings.Contains(spec, "φ") || strings.Contains(spec, "Φ") {
		tokens = append(tokens, "φ")
	}
	if strings.Contains(spec, "℃") {
		tokens = append(tokens, "℃")
	}
	sort.Strings(tokens)
	return strings.Join(tokens, "")
}

// NormalizeManufacturer 生成厂商指纹：小写、剥离法律实体后缀、
// 去掉所有非字母数字/CJK 字符。
// "上海阀门制造有限公司" 与 "上海阀门制造" 结果相同。
func NormalizeManufacturer(manufacturer string) string {
	if manufacturer == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(manufacturer))
	for _, suffix := range manufacturerSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	tokens := tokenize(s)
	return strings.Join(tokens, "")
}

// CombinedHash 计算三个字段指纹的内容哈希（xxhash 64 位，十六进制）。
// 只用于意外合并的防护与查重索引，无安全语义。
func CombinedHash(nameFP, specFP, manufacturerFP string) string {
	sum := xxhash.Sum64String(nameFP + "|" + specFP + "|" + manufacturerFP)
	return strconv.FormatUint(sum, 16)
}

// Fingerprint 为一条记录生成完整指纹。纯函数：相同输入恒产出相同指纹。
func Fingerprint(identity *core.MaterialIdentity) *core.Fingerprint {
	nameFP := NormalizeName(identity.Name)
	specFP := NormalizeSpec(identity.Specifications)
	mfrFP := NormalizeManufacturer(identity.Manufacturer)
	return &core.Fingerprint{
		NameFingerprint:         nameFP,
		SpecFingerprint:         specFP,
		ManufacturerFingerprint: mfrFP,
		CombinedHash:            CombinedHash(nameFP, specFP, mfrFP),
	}
}

func tokenize(s string) []string {
	return tokenPattern.FindAllString(s, -1)
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
