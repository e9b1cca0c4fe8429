// Fits a sine model to noisy synthetic data and plots the signal, the
// data points and the fitted curve.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/HamletTheHamster/sciutil/astroconst"
	"github.com/HamletTheHamster/sciutil/fit"
	"github.com/HamletTheHamster/sciutil/plot"
)

func main() {
	n, noise, seed, out, verbosity := flags()

	coefsTrue := []float64{1, 2, 3, 4}
	model := func(coefs []float64, x float64) float64 {
		return coefs[0] + coefs[1]*math.Sin(coefs[2]/astroconst.Pi2*x+coefs[3])
	}

	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	signal := make([]float64, n)
	y := make([]float64, n)
	sigmas := make([]float64, n)
	for i := range x {
		x[i] = 20 * float64(i) / float64(n-1)
		signal[i] = model(coefsTrue, x[i])
		y[i] = signal[i] + noise*rng.NormFloat64()
		sigmas[i] = noise
	}

	// Perturb the initial guess so the fit has work to do.
	p0 := make([]float64, len(coefsTrue))
	for i, c := range coefsTrue {
		p0[i] = c * (1 + 0.1*rng.NormFloat64())
	}

	res, err := fit.CurveFit(model, x, y, sigmas, p0, fit.WithVerbosity(verbosity))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Println("\nResults returned to caller:")
	fmt.Println("Coefficients:  ", res.Coeffs)
	fmt.Println("Uncertainties: ", res.Uncerts)
	fmt.Println("Red. chi2:     ", res.RedChiSq)

	yfit := make([]float64, n)
	for i, xi := range x {
		yfit[i] = model(res.Coeffs, xi)
	}

	p, err := plot.New(plot.Both, plot.WithTitle("Curve fit"))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := p.AddLine("signal", x, signal); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := p.AddErrorBars("data", x, y, sigmas); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := p.AddLine("fit", x, yfit); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := p.Finish(out, "Time", "Data", true, true); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func flags() (int, float64, int64, string, int) {
	var n int
	var noise float64
	var seed int64
	var out string
	var verbosity int

	flag.IntVar(&n, "n", 100, "number of data points")
	flag.Float64Var(&noise, "noise", 0.5, "sigma of the noise added to the signal")
	flag.Int64Var(&seed, "seed", 1, "random seed")
	flag.StringVar(&out, "o", "fit-example.png", "output file; empty for screen display")
	flag.IntVar(&verbosity, "v", 4, "fit report verbosity (0-4)")
	flag.Parse()

	if n < 5 {
		fmt.Println("Need at least 5 data points for a 4-coefficient fit.")
		os.Exit(1)
	}
	if noise <= 0 {
		fmt.Println("Specify a positive noise sigma with -noise=")
		os.Exit(1)
	}

	return n, noise, seed, out, verbosity
}
