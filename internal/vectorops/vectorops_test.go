package vectorops_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/vectorops"
)

func TestCosine_SymmetricAndSelf(t *testing.T) {
	a := models.Vector{1, 2, 3}
	b := models.Vector{-1, 0, 4}

	ab, err := vectorops.Cosine(a, b)
	require.NoError(t, err)
	ba, err := vectorops.Cosine(b, a)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-12)

	self, err := vectorops.Cosine(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self, 1e-9)
}

func TestCosine_NegativeClampedToZero(t *testing.T) {
	a := models.Vector{1, 0}
	b := models.Vector{-1, 0}
	got, err := vectorops.Cosine(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestCosine_ZeroMagnitudeYieldsZero(t *testing.T) {
	a := models.Vector{0, 0}
	b := models.Vector{1, 1}
	got, err := vectorops.Cosine(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := vectorops.Cosine(models.Vector{1, 2}, models.Vector{1, 2, 3})
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindDimensionMismatch))
}

func TestNormalize_UnitMagnitude(t *testing.T) {
	v := models.Vector{3, 4}
	n := vectorops.Normalize(v)
	var mag float64
	for _, x := range n {
		mag += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-9)
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	v := models.Vector{0, 0, 0}
	n := vectorops.Normalize(v)
	assert.Equal(t, v, n)
}

func TestCentroid_EmptyInput(t *testing.T) {
	_, err := vectorops.Centroid(nil)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindEmptyInput))
}

func TestProjectOnto_Bounds(t *testing.T) {
	a := models.Vector{0, 0}
	b := models.Vector{10, 0}

	at, err := vectorops.ProjectOnto(a, a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, at)

	bt, err := vectorops.ProjectOnto(b, a, b)
	require.NoError(t, err)
	assert.Equal(t, 1.0, bt)

	mid, err := vectorops.ProjectOnto(models.Vector{5, 0}, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mid, 1e-9)

	beyond, err := vectorops.ProjectOnto(models.Vector{20, 0}, a, b)
	require.NoError(t, err)
	assert.Equal(t, 1.0, beyond)
}

func TestProjectOnto_DegenerateLine(t *testing.T) {
	p := models.Vector{1, 1}
	a := models.Vector{5, 5}
	got, err := vectorops.ProjectOnto(p, a, a)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
}

func TestMidpoint_IsNormalized(t *testing.T) {
	a := models.Vector{1, 0}
	b := models.Vector{0, 1}
	m, err := vectorops.Midpoint(a, b)
	require.NoError(t, err)
	var mag float64
	for _, x := range m {
		mag += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-9)
}
