// Package fit provides weighted polynomial and nonlinear
// least-squares fitting with reduced chi-square diagnostics.
//
// PolyFit solves a weighted Vandermonde system by QR factorisation.
// CurveFit drives a Levenberg-Marquardt minimiser over an arbitrary
// model function and derives coefficient uncertainties from the
// numerical Jacobian at the optimum. Both return a Result carrying
// the goodness-of-fit bookkeeping, and print diagnostics at whatever
// verbosity the caller asks for.
package fit

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"

	"github.com/HamletTheHamster/sciutil/internal/options"
)

var (
	// ErrDimensionMismatch flags x, y and sigma slices of unequal length.
	ErrDimensionMismatch = errors.New("fit: x, y and sigma lengths differ")
	// ErrInsufficientData flags fewer data points than coefficients.
	ErrInsufficientData = errors.New("fit: fewer data points than coefficients")
	// ErrFitFailed flags a fit that did not converge or a singular system.
	ErrFitFailed = errors.New("fit: fit failed")
)

// ModelFunc evaluates a model with coefficients coefs at x.
type ModelFunc func(coefs []float64, x float64) float64

// Result holds fitted coefficients and goodness-of-fit diagnostics.
// Cov, Corr and Uncerts are only set by CurveFit; PolyFit does not
// estimate coefficient uncertainties.
type Result struct {
	Coeffs  []float64 // fitted coefficients, constant term first for PolyFit
	Uncerts []float64 // 1-sigma coefficient uncertainties

	ChiSq    float64 // sum of squared weighted residuals
	RedChiSq float64 // ChiSq per degree of freedom, +Inf when Dof is 0
	Dof      int     // degrees of freedom

	Cov  *mat.SymDense // variance-covariance matrix of the coefficients
	Corr *mat.SymDense // correlation matrix derived from Cov

	x, y, sigmas []float64
	fitted       []float64
	sigmaSet     bool
}

type config struct {
	verbosity int
	out       io.Writer
	names     []string
	facs      []float64
	maxIter   int
}

// Option configures a fit.
type Option = options.Option[config]

func defaultConfig() config {
	return config{out: os.Stdout, maxIter: 1000}
}

// WithVerbosity sets the amount of diagnostic output: 0 none,
// 1 a fit-quality summary, 2 plus the coefficient table, 3 plus a
// per-point table, 4 plus solver internals.
func WithVerbosity(v int) Option {
	return options.NoError(func(c *config) { c.verbosity = v })
}

// WithWriter redirects diagnostic output, which defaults to stdout.
func WithWriter(w io.Writer) Option {
	return options.New(func(c *config) error {
		if w == nil {
			return errors.New("fit: nil writer")
		}
		c.out = w
		return nil
	})
}

// WithCoeffNames labels the coefficients in the report table.
func WithCoeffNames(names ...string) Option {
	return options.NoError(func(c *config) { c.names = names })
}

// WithCoeffFactors scales the coefficients in the report table, e.g.
// to print them in different units.
func WithCoeffFactors(facs ...float64) Option {
	return options.NoError(func(c *config) { c.facs = facs })
}

// WithMaxIterations caps the Levenberg-Marquardt iterations for
// CurveFit. The default is 1000.
func WithMaxIterations(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("fit: max iterations %d < 1", n)
		}
		c.maxIter = n
		return nil
	})
}

// PolyFit fits a polynomial of the given degree to x, y by weighted
// linear least squares and returns the coefficients with the constant
// term first. Weights are 1/sigma following the polyfit convention,
// so sigmas act as relative weights; a nil sigmas fits unweighted. A
// sigma of exactly 0 falls back to weight 1 for that point.
func PolyFit(x, y, sigmas []float64, degree int, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	n := len(x)
	if len(y) != n || (sigmas != nil && len(sigmas) != n) {
		return nil, ErrDimensionMismatch
	}
	m := degree + 1
	if degree < 0 {
		return nil, fmt.Errorf("fit: negative degree %d", degree)
	}
	if n < m {
		return nil, fmt.Errorf("%w: %d points for %d coefficients",
			ErrInsufficientData, n, m)
	}

	sigmaSet := sigmas != nil
	if !sigmaSet {
		if cfg.verbosity > 0 {
			fmt.Fprintln(cfg.out, "sigmas=nil; assuming sigma=1 for all data points.")
		}
		sigmas = ones(n)
	}

	// Weighted Vandermonde system: row i is w_i * [1, x_i, x_i^2, ...].
	a := mat.NewDense(n, m, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		w := 1.0
		if sigmas[i] != 0 {
			w = 1 / sigmas[i]
		}
		p := 1.0
		for j := 0; j < m; j++ {
			a.Set(i, j, w*p)
			p *= x[i]
		}
		b.SetVec(i, w*y[i])
	}

	var qr mat.QR
	qr.Factorize(a)
	sol := mat.NewDense(m, 1, nil)
	if err := qr.SolveTo(sol, false, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFitFailed, err)
	}

	coeffs := make([]float64, m)
	for j := range coeffs {
		coeffs[j] = sol.At(j, 0)
	}

	fitted := make([]float64, n)
	for i, xi := range x {
		fitted[i] = PolyValue(coeffs, xi)
	}

	r := newResult(coeffs, x, y, sigmas, fitted, sigmaSet)
	if cfg.verbosity > 3 {
		fmt.Fprintln(cfg.out, "coefs:      ", coeffs)
		fmt.Fprintln(cfg.out, "resids:     ", r.ChiSq)
	}
	r.report(cfg)
	return r, nil
}

// PolyValue evaluates the polynomial with coefficients coefs
// (constant term first) at x.
func PolyValue(coefs []float64, x float64) float64 {
	v := 0.0
	for j := len(coefs) - 1; j >= 0; j-- {
		v = v*x + coefs[j]
	}
	return v
}

// CurveFit fits the model f to x, y by Levenberg-Marquardt starting
// from p0, and returns the coefficients with their uncertainties and
// the covariance and correlation matrices. Residuals are weighted by
// 1/sigma when sigmas are given (nil fits unweighted, sigma 0 falls
// back to weight 1). The covariance is (JtJ)^-1 scaled by the reduced
// chi-square, so sigmas act as relative weights.
func CurveFit(f ModelFunc, x, y, sigmas, p0 []float64, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	n := len(x)
	if len(y) != n || (sigmas != nil && len(sigmas) != n) {
		return nil, ErrDimensionMismatch
	}
	m := len(p0)
	if m == 0 {
		return nil, fmt.Errorf("fit: empty initial coefficients")
	}
	if n < m {
		return nil, fmt.Errorf("%w: %d points for %d coefficients",
			ErrInsufficientData, n, m)
	}

	sigmaSet := sigmas != nil
	if !sigmaSet {
		if cfg.verbosity > 0 {
			fmt.Fprintln(cfg.out, "sigmas=nil; assuming sigma=1 for all data points.")
		}
		sigmas = ones(n)
	}

	resFunc := func(dst, coefs []float64) {
		for i := range x {
			r := f(coefs, x[i]) - y[i]
			if sigmas[i] != 0 {
				r /= sigmas[i]
			}
			dst[i] = r
		}
	}

	nj := lm.NumJac{Func: resFunc}
	prob := lm.LMProblem{
		Dim:        m,
		Size:       n,
		Func:       resFunc,
		Jac:        nj.Jac,
		InitParams: append([]float64(nil), p0...),
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}
	res, err := lm.LM(prob, &lm.Settings{Iterations: cfg.maxIter, ObjectiveTol: 1e-16})
	if err != nil {
		if cfg.verbosity > 0 {
			fmt.Fprintln(cfg.out, "fit failed:", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrFitFailed, err)
	}
	coeffs := append([]float64(nil), res.X...)

	fitted := make([]float64, n)
	for i, xi := range x {
		fitted[i] = f(coeffs, xi)
	}

	r := newResult(coeffs, x, y, sigmas, fitted, sigmaSet)

	// Covariance of the coefficients: (JtJ)^-1 at the optimum, scaled
	// by the reduced chi-square.
	jac := numericalJacobian(resFunc, coeffs, n)
	var jtj, inv mat.Dense
	jtj.Mul(jac.T(), jac)
	if err := inv.Inverse(&jtj); err != nil {
		return nil, fmt.Errorf("%w: singular normal matrix: %v", ErrFitFailed, err)
	}

	cov := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			cov.SetSym(i, j, inv.At(i, j)*r.RedChiSq)
		}
	}
	r.Cov = cov
	r.Corr = corrFromCov(cov)
	r.Uncerts = make([]float64, m)
	for i := range r.Uncerts {
		r.Uncerts[i] = math.Sqrt(cov.At(i, i))
	}

	if cfg.verbosity > 3 {
		fmt.Fprintln(cfg.out, "Initial coefficients:  ", p0)
		fmt.Fprintln(cfg.out, "Final coefficients:    ", coeffs)
		fmt.Fprintln(cfg.out, "Variance/covariance matrix:")
		fmt.Fprintf(cfg.out, "%.5g\n", mat.Formatted(cov, mat.Squeeze()))
		fmt.Fprintln(cfg.out, "Correlation matrix:")
		fmt.Fprintf(cfg.out, "%.5g\n", mat.Formatted(r.Corr, mat.Squeeze()))
	}
	r.report(cfg)
	return r, nil
}

// CompareSeries computes the chi-square statistics of a precomputed
// model series yfit against data y with uncertainties sigmas, without
// fitting anything, and prints the same diagnostics as a fit would.
// The coefficient count is taken as zero; x may be nil.
func CompareSeries(x, y, yfit, sigmas []float64, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	n := len(y)
	if len(yfit) != n || (x != nil && len(x) != n) ||
		(sigmas != nil && len(sigmas) != n) {
		return nil, ErrDimensionMismatch
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no data", ErrInsufficientData)
	}

	sigmaSet := sigmas != nil
	if !sigmaSet {
		if cfg.verbosity > 0 {
			fmt.Fprintln(cfg.out, "sigmas=nil; assuming sigma=1 for all data points.")
		}
		sigmas = ones(n)
	}
	if x == nil {
		x = make([]float64, n)
		for i := range x {
			x[i] = math.NaN()
		}
	}

	r := newResult(nil, x, y, sigmas, yfit, sigmaSet)
	r.report(cfg)
	return r, nil
}

// newResult assembles a Result and its chi-square bookkeeping from
// fitted values. coeffs may be nil for a pure comparison.
func newResult(coeffs, x, y, sigmas, fitted []float64, sigmaSet bool) *Result {
	chi2 := 0.0
	for i := range y {
		d := fitted[i] - y[i]
		if sigmas[i] != 0 {
			d /= sigmas[i]
		}
		chi2 += d * d
	}

	dof := len(y) - len(coeffs)
	red := math.Inf(1)
	if dof > 0 {
		red = chi2 / float64(dof)
	}

	return &Result{
		Coeffs:   coeffs,
		ChiSq:    chi2,
		RedChiSq: red,
		Dof:      dof,
		x:        x,
		y:        y,
		sigmas:   sigmas,
		fitted:   fitted,
		sigmaSet: sigmaSet,
	}
}

// numericalJacobian estimates d res_i / d coef_j by central
// differences.
func numericalJacobian(res func(dst, coefs []float64), coefs []float64, size int) *mat.Dense {
	m := len(coefs)
	jac := mat.NewDense(size, m, nil)

	rp := make([]float64, size)
	rm := make([]float64, size)
	p := append([]float64(nil), coefs...)
	for j := 0; j < m; j++ {
		h := 1e-8 * math.Max(1, math.Abs(coefs[j]))
		p[j] = coefs[j] + h
		res(rp, p)
		p[j] = coefs[j] - h
		res(rm, p)
		p[j] = coefs[j]

		for i := 0; i < size; i++ {
			jac.Set(i, j, (rp[i]-rm[i])/(2*h))
		}
	}
	return jac
}

func corrFromCov(cov *mat.SymDense) *mat.SymDense {
	m := cov.SymmetricDim()
	corr := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		si := math.Sqrt(cov.At(i, i))
		for j := i; j < m; j++ {
			sj := math.Sqrt(cov.At(j, j))
			corr.SetSym(i, j, cov.At(i, j)/(si*sj))
		}
	}
	return corr
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}
