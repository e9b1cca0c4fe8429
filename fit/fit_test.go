package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyFitExactLine(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 2 + 3*xi
	}

	r, err := PolyFit(x, y, nil, 1)
	require.NoError(t, err)
	require.Len(t, r.Coeffs, 2)
	assert.InDelta(t, 2, r.Coeffs[0], 1e-10)
	assert.InDelta(t, 3, r.Coeffs[1], 1e-10)
	assert.InDelta(t, 0, r.ChiSq, 1e-16)
	assert.Equal(t, 3, r.Dof)

	// PolyFit does not estimate uncertainties.
	assert.Nil(t, r.Uncerts)
	assert.Nil(t, r.Cov)
}

func TestPolyFitConstant(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{1, 2, 3}

	r, err := PolyFit(x, y, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2, r.Coeffs[0], 1e-12)
	assert.InDelta(t, 2, r.ChiSq, 1e-12)
	assert.Equal(t, 2, r.Dof)
	assert.InDelta(t, 1, r.RedChiSq, 1e-12)
}

func TestPolyFitWeighted(t *testing.T) {
	// Weights 1/sigma: the third point counts double, pulling the
	// weighted mean to 2.5.
	x := []float64{0, 1, 2}
	y := []float64{1, 2, 3}
	sigmas := []float64{1, 1, 0.5}

	r, err := PolyFit(x, y, sigmas, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, r.Coeffs[0], 1e-12)
	assert.InDelta(t, 3.5, r.ChiSq, 1e-12)
	assert.InDelta(t, 1.75, r.RedChiSq, 1e-12)
}

func TestPolyFitZeroSigmaFallsBackToUnitWeight(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{1, 2, 3}

	r, err := PolyFit(x, y, []float64{0, 1, 1}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2, r.Coeffs[0], 1e-12)
}

func TestPolyFitQuadratic(t *testing.T) {
	x := []float64{-2, -1, 0, 1, 2, 3}
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 0.5 - 1.5*xi + 0.25*xi*xi
	}

	r, err := PolyFit(x, y, nil, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r.Coeffs[0], 1e-10)
	assert.InDelta(t, -1.5, r.Coeffs[1], 1e-10)
	assert.InDelta(t, 0.25, r.Coeffs[2], 1e-10)
}

func TestPolyFitErrors(t *testing.T) {
	_, err := PolyFit([]float64{1, 2}, []float64{1}, nil, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = PolyFit([]float64{1, 2}, []float64{1, 2}, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = PolyFit([]float64{1, 2}, []float64{1, 2}, nil, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PolyFit([]float64{1, 2}, []float64{1, 2}, nil, -1)
	assert.Error(t, err)
}

func TestPolyValue(t *testing.T) {
	coefs := []float64{1, -2, 3} // 1 - 2x + 3x^2
	assert.InDelta(t, 1, PolyValue(coefs, 0), 1e-15)
	assert.InDelta(t, 2, PolyValue(coefs, 1), 1e-15)
	assert.InDelta(t, 9, PolyValue(coefs, -1), 1e-15)
	assert.InDelta(t, 0, PolyValue(nil, 5), 1e-15)
}

// alternating returns n points of 1 + 2x with +-0.1 alternating
// residuals, for which the least-squares solution is known.
func alternating(n int) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		e := 0.1
		if i%2 == 1 {
			e = -0.1
		}
		y[i] = 1 + 2*x[i] + e
	}
	return x, y
}

func TestCurveFitMatchesPolyFit(t *testing.T) {
	x, y := alternating(10)

	linear := func(c []float64, xi float64) float64 { return c[0] + c[1]*xi }
	cf, err := CurveFit(linear, x, y, nil, []float64{0.5, 1.5})
	require.NoError(t, err)

	pf, err := PolyFit(x, y, nil, 1)
	require.NoError(t, err)

	assert.InDelta(t, pf.Coeffs[0], cf.Coeffs[0], 1e-6)
	assert.InDelta(t, pf.Coeffs[1], cf.Coeffs[1], 1e-6)
	assert.InDelta(t, pf.ChiSq, cf.ChiSq, 1e-6)
}

func TestCurveFitUncertainties(t *testing.T) {
	// For a linear model the covariance has the closed form
	// redchi2 * (XtX)^-1, which for x = 0..9 gives the values below.
	x, y := alternating(10)

	linear := func(c []float64, xi float64) float64 { return c[0] + c[1]*xi }
	r, err := CurveFit(linear, x, y, nil, []float64{0.5, 1.5})
	require.NoError(t, err)

	require.Len(t, r.Uncerts, 2)
	assert.InDelta(t, 0.06471, r.Uncerts[0], 2e-4)
	assert.InDelta(t, 0.01212, r.Uncerts[1], 5e-5)

	require.NotNil(t, r.Cov)
	require.NotNil(t, r.Corr)
	assert.InDelta(t, 1, r.Corr.At(0, 0), 1e-9)
	assert.InDelta(t, 1, r.Corr.At(1, 1), 1e-9)
	assert.InDelta(t, -0.84295, r.Corr.At(0, 1), 5e-3)
	assert.InDelta(t, r.Uncerts[0]*r.Uncerts[0], r.Cov.At(0, 0), 1e-9)
}

func TestCurveFitExponential(t *testing.T) {
	x := make([]float64, 15)
	y := make([]float64, 15)
	for i := range x {
		x[i] = float64(i) * 0.15
		y[i] = 3 * math.Exp(-0.7*x[i])
	}

	model := func(c []float64, xi float64) float64 { return c[0] * math.Exp(c[1]*xi) }
	r, err := CurveFit(model, x, y, nil, []float64{2, -0.5})
	require.NoError(t, err)
	assert.InDelta(t, 3, r.Coeffs[0], 1e-6)
	assert.InDelta(t, -0.7, r.Coeffs[1], 1e-6)
	assert.InDelta(t, 0, r.ChiSq, 1e-10)
}

func TestCurveFitWeighted(t *testing.T) {
	// With all sigmas equal the coefficients match the unweighted
	// fit; the chi-square scales by 1/sigma^2.
	x, y := alternating(10)
	sigmas := make([]float64, len(x))
	for i := range sigmas {
		sigmas[i] = 0.5
	}

	linear := func(c []float64, xi float64) float64 { return c[0] + c[1]*xi }
	rw, err := CurveFit(linear, x, y, sigmas, []float64{1, 2})
	require.NoError(t, err)
	ru, err := CurveFit(linear, x, y, nil, []float64{1, 2})
	require.NoError(t, err)

	assert.InDelta(t, ru.Coeffs[0], rw.Coeffs[0], 1e-6)
	assert.InDelta(t, ru.Coeffs[1], rw.Coeffs[1], 1e-6)
	assert.InDelta(t, 4*ru.ChiSq, rw.ChiSq, 1e-6)
}

func TestCurveFitErrors(t *testing.T) {
	linear := func(c []float64, xi float64) float64 { return c[0] + c[1]*xi }

	_, err := CurveFit(linear, []float64{1}, []float64{1, 2}, nil, []float64{0, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = CurveFit(linear, []float64{1}, []float64{1}, nil, []float64{0, 0})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CurveFit(linear, []float64{1, 2}, []float64{1, 2}, nil, nil)
	assert.Error(t, err)
}

func TestCompareSeries(t *testing.T) {
	y := []float64{1, 2}
	yfit := []float64{1.5, 2}
	sigmas := []float64{0.5, 1}

	r, err := CompareSeries(nil, y, yfit, sigmas)
	require.NoError(t, err)
	assert.InDelta(t, 1, r.ChiSq, 1e-12)
	assert.Equal(t, 2, r.Dof)
	assert.InDelta(t, 0.5, r.RedChiSq, 1e-12)
	assert.Nil(t, r.Coeffs)
}

func TestOptionErrors(t *testing.T) {
	_, err := PolyFit([]float64{1, 2}, []float64{1, 2}, nil, 1, WithWriter(nil))
	assert.Error(t, err)

	_, err = CurveFit(func(c []float64, x float64) float64 { return c[0] },
		[]float64{1}, []float64{1}, nil, []float64{0}, WithMaxIterations(0))
	assert.Error(t, err)
}
