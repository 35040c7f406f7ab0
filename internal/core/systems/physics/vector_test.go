package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a, b := V3(1, 2, 3), V3(4, 5, 6)

	assert.Equal(t, V3(5, 7, 9), a.Add(b))
	assert.Equal(t, V3(-3, -3, -3), a.Sub(b))
	assert.Equal(t, V3(2, 4, 6), a.Scale(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, V3(-3, 6, -3), a.Cross(b))
	assert.Equal(t, V3(2.5, 3.5, 4.5), a.Lerp(b, 0.5))
	assert.InDelta(t, 1, V3(3, 4, 0).Normalize().Length(), 1e-12)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.InDelta(t, 5, V3(0, 0, 0).DistanceTo(V3(3, 4, 0)), 1e-12)
}

func TestVectorRotations(t *testing.T) {
	quarter := math.Pi / 2

	assert.True(t, Forward().RotateX(quarter).ApproxEqual(V3(0, -1, 0), 1e-12))
	assert.True(t, Forward().RotateY(quarter).ApproxEqual(V3(1, 0, 0), 1e-12))
	assert.True(t, V3(1, 0, 0).RotateZ(quarter).ApproxEqual(V3(0, 1, 0), 1e-12))
}

func TestVectorFinite(t *testing.T) {
	assert.True(t, V3(1, 2, 3).IsFinite())
	assert.False(t, V3(math.NaN(), 0, 0).IsFinite())
	assert.False(t, V3(0, math.Inf(-1), 0).IsFinite())
}
