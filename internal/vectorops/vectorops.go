// Package vectorops implements the pure numeric primitives the
// semantic scorer is built on: cosine similarity, normalization,
// midpoint/interpolation, centroid, and gradient projection. No
// function in this package performs I/O.
package vectorops

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Cosine returns the cosine similarity of a and b, clamped to [0,1]:
// negative cosine (opposite-direction vectors) is floored to 0 so the
// scorer reads it as "unrelated" rather than "anti-related". This
// clamp is a deliberate contract used throughout the scorer (spec
// §4.1) — callers must not assume a full [-1,1] range.
func Cosine(a, b models.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, apierr.New(apierr.KindDimensionMismatch, "vectors have different dimensions")
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	dot := floats.Dot(a, b)
	cos := dot / (na * nb)
	if cos < 0 {
		return 0, nil
	}
	if cos > 1 {
		return 1, nil
	}
	return cos, nil
}

// Normalize returns v/|v|, or v unchanged when |v| = 0.
func Normalize(v models.Vector) models.Vector {
	n := floats.Norm(v, 2)
	if n == 0 {
		return v.Clone()
	}
	out := v.Clone()
	floats.Scale(1/n, out)
	return out
}

// Midpoint returns the element-wise average of a and b, normalized.
func Midpoint(a, b models.Vector) (models.Vector, error) {
	if len(a) != len(b) {
		return nil, apierr.New(apierr.KindDimensionMismatch, "vectors have different dimensions")
	}
	out := make(models.Vector, len(a))
	for i := range a {
		out[i] = (a[i] + b[i]) / 2
	}
	return Normalize(out), nil
}

// Interpolate returns a + alpha*(b-a), normalized. alpha is not
// clamped by this primitive — callers that want [0,1] semantics must
// clamp before calling.
func Interpolate(a, b models.Vector, alpha float64) (models.Vector, error) {
	if len(a) != len(b) {
		return nil, apierr.New(apierr.KindDimensionMismatch, "vectors have different dimensions")
	}
	out := make(models.Vector, len(a))
	for i := range a {
		out[i] = a[i] + alpha*(b[i]-a[i])
	}
	return Normalize(out), nil
}

// Centroid returns the element-wise mean of a non-empty list of
// same-dimension vectors, normalized. Fails EmptyInput on an empty
// list.
func Centroid(vs []models.Vector) (models.Vector, error) {
	if len(vs) == 0 {
		return nil, apierr.New(apierr.KindEmptyInput, "centroid requires at least one vector")
	}
	dim := len(vs[0])
	sum := make(models.Vector, dim)
	for _, v := range vs {
		if len(v) != dim {
			return nil, apierr.New(apierr.KindDimensionMismatch, "vectors have different dimensions")
		}
		for i, x := range v {
			sum[i] += x
		}
	}
	floats.Scale(1/float64(len(vs)), sum)
	return Normalize(sum), nil
}

// ProjectOnto returns the scalar position of p along the line a->b:
// ((p-a).(b-a)) / |b-a|^2, clamped to [0,1]. Returns 0.5 when b-a is
// the zero vector (the line is degenerate, so every point projects to
// its midpoint by convention).
func ProjectOnto(p, a, b models.Vector) (float64, error) {
	if len(p) != len(a) || len(a) != len(b) {
		return 0, apierr.New(apierr.KindDimensionMismatch, "vectors have different dimensions")
	}
	dir := make(models.Vector, len(a))
	pa := make(models.Vector, len(a))
	for i := range a {
		dir[i] = b[i] - a[i]
		pa[i] = p[i] - a[i]
	}
	denom := floats.Dot(dir, dir)
	if denom == 0 {
		return 0.5, nil
	}
	t := floats.Dot(pa, dir) / denom
	return clamp01(t), nil
}

// GradientDirection returns the unit vector (b-a)/|b-a|.
func GradientDirection(a, b models.Vector) (models.Vector, error) {
	if len(a) != len(b) {
		return nil, apierr.New(apierr.KindDimensionMismatch, "vectors have different dimensions")
	}
	dir := make(models.Vector, len(a))
	for i := range a {
		dir[i] = b[i] - a[i]
	}
	return Normalize(dir), nil
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0.5
	}
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
