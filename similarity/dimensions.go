package similarity

import "strings"

// unitAliases 把等价计量单位归并到同一规范单位。
var unitAliases = map[string]string{
	"个": "piece", "只": "piece", "件": "piece", "套": "piece",
	"pcs": "piece", "pc": "piece", "ea": "piece",
	"米": "meter", "m": "meter",
	"千克": "kg", "公斤": "kg", "kg": "kg",
	"升": "liter", "l": "liter",
}

// ManufacturerSimilarity 计算两个厂商指纹的归一化编辑距离比率。
// 指纹完全一致（含同为空）⇒ 1.0；任一为空而另一非空 ⇒ 0。
func ManufacturerSimilarity(fpA, fpB string) float64 {
	if fpA == fpB {
		return 1.0
	}
	if fpA == "" || fpB == "" {
		return 0
	}
	ra, rb := []rune(fpA), []rune(fpB)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	dist := levenshtein(ra, rb)
	return 1.0 - float64(dist)/float64(maxLen)
}

// TypeSimilarity 类别维度：忽略大小写的精确匹配。
func TypeSimilarity(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1.0
	}
	return 0
}

// UnitSimilarity 单位维度：先查别名表（"个/只/件/套/pcs/pc" 视为等价），
// 别名表未覆盖时退回精确匹配。
func UnitSimilarity(a, b string) float64 {
	ua := strings.ToLower(strings.TrimSpace(a))
	ub := strings.ToLower(strings.TrimSpace(b))
	if ca, ok := unitAliases[ua]; ok {
		if cb, ok := unitAliases[ub]; ok && ca == cb {
			return 1.0
		}
	}
	if ua == ub {
		return 1.0
	}
	return 0
}

// AttributeSimilarity 扩展属性维度：共有键中取值一致（忽略大小写）的比例。
// 没有共有键时返回 0。
func AttributeSimilarity(a, b map[string]string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	la := lowerKeys(a)
	lb := lowerKeys(b)

	shared, matched := 0, 0
	for k, va := range la {
		vb, ok := lb[k]
		if !ok {
			continue
		}
		shared++
		if strings.EqualFold(strings.TrimSpace(va), strings.TrimSpace(vb)) {
			matched++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(matched) / float64(shared)
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// levenshtein 计算两个 rune 串的编辑距离（两行滚动数组）。
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = minInt(
				prev[j]+1,      // 删除
				cur[j-1]+1,     // 插入
				prev[j-1]+cost, // 替换
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func minInt(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
