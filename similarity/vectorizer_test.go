package similarity

import (
	"math"
	"testing"
)

func TestVectorsIdenticalDocs(t *testing.T) {
	v := NewVectorizer(1, 3)
	vecs := v.Vectors([]string{"不锈钢球阀", "不锈钢球阀"})

	sim := Cosine(vecs[0], vecs[1])
	if math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("identical docs should have cosine 1.0, got %f", sim)
	}
}

func TestVectorsDisjointDocs(t *testing.T) {
	v := NewVectorizer(1, 3)
	vecs := v.Vectors([]string{"不锈钢球阀", "铜管"})

	if sim := Cosine(vecs[0], vecs[1]); sim != 0 {
		t.Errorf("docs with no shared grams should have cosine 0, got %f", sim)
	}
}

func TestVectorsEmptyDoc(t *testing.T) {
	v := NewVectorizer(1, 2)
	vecs := v.Vectors([]string{"", "铜管"})

	if vecs[0] != nil {
		t.Errorf("empty doc should yield nil vector, got %v", vecs[0])
	}
	if sim := Cosine(vecs[0], vecs[1]); sim != 0 {
		t.Errorf("cosine with empty vector should be 0, got %f", sim)
	}
}

func TestVectorsAllEmptyVocabulary(t *testing.T) {
	v := NewVectorizer(1, 3)
	vecs := v.Vectors([]string{"", ""})

	if sim := Cosine(vecs[0], vecs[1]); sim != 0 {
		t.Errorf("empty vocabulary must contribute 0, got %f", sim)
	}
}

func TestCosineSymmetry(t *testing.T) {
	v := NewVectorizer(1, 3)
	vecs := v.Vectors([]string{"不锈钢球阀", "304不锈钢球阀"})

	ab := Cosine(vecs[0], vecs[1])
	ba := Cosine(vecs[1], vecs[0])
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("cosine must be symmetric: %f vs %f", ab, ba)
	}
	if ab <= 0 || ab >= 1 {
		t.Errorf("overlapping but distinct docs should fall in (0,1), got %f", ab)
	}
}

func TestVectorsSharedGramsSurviveSmallBatch(t *testing.T) {
	// 两条文档的语料里，公共 gram 的 IDF 不允许归零，
	// 否则任何两条记录的相似度都会坍缩为 0。
	v := NewVectorizer(1, 3)
	vecs := v.Vectors([]string{"不锈钢球阀", "不锈钢法兰"})

	if sim := Cosine(vecs[0], vecs[1]); sim <= 0 {
		t.Errorf("docs sharing grams should have positive similarity, got %f", sim)
	}
}
