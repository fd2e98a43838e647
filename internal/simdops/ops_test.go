package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_Float64(t *testing.T) {
	ops := For[float64]()
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 2, 2, 2, 2}

	assert.InDelta(t, 30.0, ops.DotProductUnsafe(a, b), 1e-12)
	assert.InDelta(t, 15.0, ops.Sum(a), 1e-12)

	dst := make([]float64, len(a))
	ops.Scale(dst, a, 0.5)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1.5, 2, 2.5}, dst, 1e-12)
	assert.Same(t, Float64Ops(), ops)
}

func TestFor_Float32(t *testing.T) {
	ops := For[float32]()
	a := []float32{1, -2, 3}

	assert.InDelta(t, 2.0, float64(ops.Sum(a)), 1e-6)

	dst := make([]float32, len(a))
	ops.Scale(dst, a, 0.2)
	assert.InDelta(t, 0.2, float64(dst[0]), 1e-6)
	assert.InDelta(t, -0.4, float64(dst[1]), 1e-6)
	assert.Same(t, Float32Ops(), ops)
}

func TestSumSquares(t *testing.T) {
	assert.InDelta(t, 0.0, SumSquares[float64](nil), 0)
	assert.InDelta(t, 25.0, SumSquares([]float64{3, 4}), 1e-12)
	assert.InDelta(t, 2.0, float64(SumSquares([]float32{1, -1})), 1e-6)
}

// BenchmarkIndirectF64DotProduct measures the call through the Ops table.
func BenchmarkIndirectF64DotProduct(b *testing.B) {
	ops := For[float64]()
	a := make([]float64, 64)
	c := make([]float64, 64)
	for i := range a {
		a[i] = float64(i) * 0.01
		c[i] = float64(i) * 0.02
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.DotProductUnsafe(a, c)
	}
}
