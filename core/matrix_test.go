package core

import (
	"math"
	"testing"
)

func TestNewSimilarityMatrix(t *testing.T) {
	m := NewSimilarityMatrix(3)
	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	for i := 0; i < 3; i++ {
		if m.At(i, i) != 1.0 {
			t.Errorf("diagonal [%d][%d] = %f, want 1.0", i, i, m.At(i, i))
		}
	}
}

func TestMatrixSetSymmetric(t *testing.T) {
	m := NewSimilarityMatrix(3)
	m.Set(0, 2, 0.7)
	if m.At(0, 2) != 0.7 || m.At(2, 0) != 0.7 {
		t.Errorf("Set must write both halves: %f / %f", m.At(0, 2), m.At(2, 0))
	}
}

func TestMatrixDiagonalImmutable(t *testing.T) {
	m := NewSimilarityMatrix(2)
	m.Set(1, 1, 0.3)
	if m.At(1, 1) != 1.0 {
		t.Errorf("diagonal overwritten to %f", m.At(1, 1))
	}
}

func TestMatrixDistance(t *testing.T) {
	m := NewSimilarityMatrix(2)
	m.Set(0, 1, 0.65)
	if d := m.Distance(0, 1); math.Abs(d-0.35) > 1e-12 {
		t.Errorf("Distance = %f, want 0.35", d)
	}
	if d := m.Distance(0, 0); d != 0 {
		t.Errorf("self distance = %f, want 0", d)
	}
}

func TestMaterialIdentity(t *testing.T) {
	identity := &MaterialIdentity{Code: "M001", SourceSystem: "ERP", Name: "螺栓"}
	if identity.Key() != "M001|ERP" {
		t.Errorf("Key = %q", identity.Key())
	}
	if !identity.Valid() {
		t.Error("record with code and name should be valid")
	}
	if (&MaterialIdentity{SourceSystem: "ERP", Name: "螺栓"}).Valid() {
		t.Error("record without code should be invalid")
	}
	if (&MaterialIdentity{Code: "M001", SourceSystem: "ERP"}).Valid() {
		t.Error("record without name should be invalid")
	}
}
