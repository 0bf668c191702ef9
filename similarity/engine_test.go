package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/mdmkit/mdmkit/core"
)

func makeRecords(identities ...*core.MaterialIdentity) []*core.Record {
	records := make([]*core.Record, 0, len(identities))
	for _, identity := range identities {
		records = append(records, &core.Record{Identity: identity})
	}
	return records
}

func TestBuildMatrixProperties(t *testing.T) {
	records := makeRecords(
		&core.MaterialIdentity{Code: "M001", SourceSystem: "ERP", Name: "不锈钢球阀", Specifications: "DN100 PN16", Manufacturer: "上海阀门厂"},
		&core.MaterialIdentity{Code: "MAT001", SourceSystem: "PLM", Name: "304不锈钢球阀", Specifications: "DN100 压力16bar", Manufacturer: "上海阀门制造有限公司"},
		&core.MaterialIdentity{Code: "X2", SourceSystem: "WMS", Name: "铜管", Specifications: "φ25×2mm", Manufacturer: "江苏铜业"},
	)

	engine := NewEngine()
	matrix, err := engine.BuildMatrix(context.Background(), records, core.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}

	n := matrix.Len()
	if n != 3 {
		t.Fatalf("matrix size = %d, want 3", n)
	}
	for i := 0; i < n; i++ {
		if matrix.At(i, i) != 1.0 {
			t.Errorf("diagonal [%d][%d] = %f, want 1.0", i, i, matrix.At(i, i))
		}
		for j := 0; j < n; j++ {
			if matrix.At(i, j) != matrix.At(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
			v := matrix.At(i, j)
			if v < 0 || v > 1 {
				t.Errorf("value out of range at (%d,%d): %f", i, j, v)
			}
		}
	}

	// 同一物料的两条变体记录必须达到中置信度下界之上
	if sim := matrix.At(0, 1); sim < 0.65 {
		t.Errorf("variant pair similarity = %f, want >= 0.65", sim)
	}
	// 无关记录必须显著低于下界
	if sim := matrix.At(0, 2); sim >= 0.65 {
		t.Errorf("unrelated pair similarity = %f, want < 0.65", sim)
	}
}

func TestBuildMatrixSmallBatches(t *testing.T) {
	engine := NewEngine()

	matrix, err := engine.BuildMatrix(context.Background(), nil, core.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	if matrix.Len() != 0 {
		t.Errorf("empty batch matrix size = %d, want 0", matrix.Len())
	}

	single := makeRecords(&core.MaterialIdentity{Code: "M001", SourceSystem: "ERP", Name: "螺栓"})
	matrix, err = engine.BuildMatrix(context.Background(), single, core.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	if matrix.Len() != 1 || matrix.At(0, 0) != 1.0 {
		t.Errorf("single record matrix should be the 1x1 identity")
	}
}

func TestBuildMatrixInvalidWeights(t *testing.T) {
	engine := NewEngine()
	bad := core.SimilarityWeights{core.DimensionName: 1.0}

	if _, err := engine.BuildMatrix(context.Background(), nil, bad); err == nil {
		t.Error("incomplete weights must be rejected")
	}
}

func TestBuildMatrixEmptyNamesContributeZero(t *testing.T) {
	// 名称全空时该维度贡献 0 而不是报错
	records := makeRecords(
		&core.MaterialIdentity{Code: "A", SourceSystem: "ERP", Name: " ", Unit: "个"},
		&core.MaterialIdentity{Code: "B", SourceSystem: "PLM", Name: " ", Unit: "pcs"},
	)

	engine := NewEngine()
	matrix, err := engine.BuildMatrix(context.Background(), records, core.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}

	// type 空==空 1.0×0.10 + unit 别名 1.0×0.05 + manufacturer 空==空 1.0×0.15
	want := 0.10 + 0.05 + 0.15
	if got := matrix.At(0, 1); math.Abs(got-want) > 1e-9 {
		t.Errorf("similarity = %f, want %f", got, want)
	}
}

func TestBuildMatrixParallelDeterminism(t *testing.T) {
	records := makeRecords(
		&core.MaterialIdentity{Code: "A", SourceSystem: "ERP", Name: "不锈钢球阀", Specifications: "DN100"},
		&core.MaterialIdentity{Code: "B", SourceSystem: "PLM", Name: "304不锈钢球阀", Specifications: "DN100"},
		&core.MaterialIdentity{Code: "C", SourceSystem: "WMS", Name: "碳钢闸阀", Specifications: "DN50"},
		&core.MaterialIdentity{Code: "D", SourceSystem: "ERP", Name: "铜管", Specifications: "φ25×2mm"},
	)

	serial := NewEngine()
	serial.Parallelism = 1
	parallel := NewEngine()
	parallel.Parallelism = 4

	m1, err := serial.BuildMatrix(context.Background(), records, core.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	m2, err := parallel.BuildMatrix(context.Background(), records, core.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < m1.Len(); i++ {
		for j := 0; j < m1.Len(); j++ {
			if m1.At(i, j) != m2.At(i, j) {
				t.Errorf("parallelism changed result at (%d,%d): %f vs %f", i, j, m1.At(i, j), m2.At(i, j))
			}
		}
	}
}
