// Package similarity 计算一个批次内两两记录的多维加权相似度矩阵。
//
// 文本维度（名称/规格）使用字符 n-gram 词袋 + TF-IDF + 余弦相似度；
// 词表与 IDF 在每个批次上构建一次，不做全局词表。
// 其余维度为编辑距离比率、精确匹配、别名表匹配与属性键交集匹配。
package similarity

import "math"

// Vectorizer 把一组文本编码为字符 n-gram 的 TF-IDF 稀疏向量。
// IDF 在传入的整组文本（一个批次）上计算，采用平滑公式
// idf = ln((1+N)/(1+df)) + 1，避免小批次中共现 gram 权重归零。
type Vectorizer struct {
	MinN int
	MaxN int
}

// NewVectorizer 创建 n-gram 范围为 [minN, maxN] 的向量化器。
func NewVectorizer(minN, maxN int) *Vectorizer {
	if minN <= 0 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	return &Vectorizer{MinN: minN, MaxN: maxN}
}

// Vectors 为每个文本构建 TF-IDF 向量。空文本对应 nil 向量。
// 整组文本都为空时（词表为空），所有向量为 nil，余弦相似度自然为 0。
func (v *Vectorizer) Vectors(docs []string) []map[string]float64 {
	termFreqs := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)

	for i, doc := range docs {
		if doc == "" {
			continue
		}
		tf := make(map[string]int)
		for _, gram := range v.ngrams(doc) {
			tf[gram]++
		}
		termFreqs[i] = tf
		for gram := range tf {
			docFreq[gram]++
		}
	}

	n := float64(len(docs))
	vectors := make([]map[string]float64, len(docs))
	for i, tf := range termFreqs {
		if tf == nil {
			continue
		}
		vec := make(map[string]float64, len(tf))
		for gram, freq := range tf {
			idf := math.Log((1+n)/(1+float64(docFreq[gram]))) + 1
			vec[gram] = float64(freq) * idf
		}
		vectors[i] = vec
	}
	return vectors
}

func (v *Vectorizer) ngrams(s string) []string {
	runes := []rune(s)
	var grams []string
	for n := v.MinN; n <= v.MaxN; n++ {
		for i := 0; i+n <= len(runes); i++ {
			grams = append(grams, string(runes[i:i+n]))
		}
	}
	return grams
}

// Cosine 计算两个稀疏向量的余弦相似度。任一向量为空时返回 0。
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// 在较小的向量上迭代求点积
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for gram, va := range a {
		if vb, ok := b[gram]; ok {
			dot += va * vb
		}
	}
	if dot == 0 {
		return 0
	}
	var normA, normB float64
	for _, va := range a {
		normA += va * va
	}
	for _, vb := range b {
		normB += vb * vb
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
