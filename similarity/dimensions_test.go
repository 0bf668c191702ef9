package similarity

import (
	"math"
	"testing"
)

func TestManufacturerSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical fingerprints", a: "上海阀门", b: "上海阀门", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "上海阀门", b: "", want: 0},
		{name: "completely different", a: "上海阀门", b: "江苏铜业", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ManufacturerSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("ManufacturerSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestManufacturerSimilarityPartialOverlap(t *testing.T) {
	// 4 个 rune 中差 1 个，编辑距离比率 1 - 1/4
	got := ManufacturerSimilarity("上海阀门", "上海闸门")
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", got)
	}
}

func TestTypeSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "exact", a: "阀门", b: "阀门", want: 1.0},
		{name: "case insensitive", a: "Valve", b: "valve", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "different", a: "阀门", b: "管件", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("TypeSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestUnitSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "alias table pcs", a: "个", b: "pcs", want: 1.0},
		{name: "alias table piece", a: "只", b: "件", want: 1.0},
		{name: "exact non alias", a: "米", b: "米", want: 1.0},
		{name: "no match", a: "米", b: "kg", want: 0},
		{name: "both empty", a: "", b: "", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnitSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("UnitSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAttributeSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]string
		want float64
	}{
		{
			name: "all shared keys match",
			a:    map[string]string{"材质": "304", "颜色": "银"},
			b:    map[string]string{"材质": "304", "颜色": "银"},
			want: 1.0,
		},
		{
			name: "half match",
			a:    map[string]string{"材质": "304", "颜色": "银"},
			b:    map[string]string{"材质": "304", "颜色": "金"},
			want: 0.5,
		},
		{
			name: "no shared keys",
			a:    map[string]string{"材质": "304"},
			b:    map[string]string{"颜色": "银"},
			want: 0,
		},
		{
			name: "nil maps",
			a:    nil,
			b:    nil,
			want: 0,
		},
		{
			name: "case insensitive values",
			a:    map[string]string{"grade": "A2-70"},
			b:    map[string]string{"grade": "a2-70"},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttributeSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("AttributeSimilarity(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"上海阀门", "上海阀门", 0},
		{"上海阀门", "上海闸门", 1},
	}

	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
