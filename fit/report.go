package fit

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Report prints the fit diagnostics to w: verbosity 1 gives the
// quality summary, 2 adds the coefficient table, 3 adds a per-point
// table. Verbosity 0 or below prints nothing.
func (r *Result) Report(w io.Writer, verbosity int) {
	r.reportTo(w, verbosity, nil, nil)
}

func (r *Result) report(cfg config) {
	r.reportTo(cfg.out, cfg.verbosity, cfg.names, cfg.facs)
}

func (r *Result) reportTo(w io.Writer, verbosity int, names []string, facs []float64) {
	if verbosity <= 0 {
		return
	}

	maxAbsDev, maxAbsDevX := 0.0, math.NaN()
	maxRelDev, maxRelDevX := 0.0, math.NaN()
	for i := range r.y {
		dev := math.Abs(r.fitted[i] - r.y[i])
		if dev > maxAbsDev {
			maxAbsDev, maxAbsDevX = dev, r.x[i]
		}
		if r.y[i] != 0 {
			rel := math.Abs((r.fitted[i] - r.y[i]) / r.y[i])
			if rel > maxRelDev {
				maxRelDev, maxRelDevX = rel, r.x[i]
			}
		}
	}

	if verbosity > 1 {
		fmt.Fprintln(w, "Fit quality:")
		fmt.Fprintln(w, "Number of data points:    ", len(r.y))
		fmt.Fprintln(w, "Chi2:                     ", r.ChiSq)
	}

	fmt.Fprintln(w, "Reduced chi2:             ", r.RedChiSq)
	fmt.Fprintln(w, "Typical original sigma:   ",
		math.Sqrt(r.RedChiSq)*stat.Mean(r.sigmas, nil))
	fmt.Fprintln(w, "Max. absolute deviation:  ", maxAbsDev, " @ x =", maxAbsDevX)
	fmt.Fprintln(w, "Max. relative deviation:  ", maxRelDev, " @ x =", maxRelDevX)

	if verbosity > 1 && r.Coeffs != nil {
		r.coeffTable(w, names, facs)
	}
	if verbosity > 2 {
		r.pointTable(w)
	}
}

func (r *Result) coeffTable(w io.Writer, names []string, facs []float64) {
	nameLen := 0
	for _, n := range names {
		if len(n) > nameLen {
			nameLen = len(n)
		}
	}

	fmt.Fprintln(w, "\nFit coefficients:")
	for i, c := range r.Coeffs {
		fac := 1.0
		if i < len(facs) {
			fac = facs[i]
		}

		fmt.Fprintf(w, " c%1d:", i)
		if i < len(names) {
			fmt.Fprintf(w, " %*s: ", nameLen, names[i])
		}
		fmt.Fprintf(w, " %12.5e", c*fac)
		if i < len(r.Uncerts) {
			fmt.Fprintf(w, " ± %12.5e (%9.2f%%)",
				r.Uncerts[i]*fac, math.Abs(r.Uncerts[i]/c*100))
		}
		fmt.Fprintln(w)
	}
}

func (r *Result) pointTable(w io.Writer) {
	hdr := fmt.Sprintf("%9s  %12s  %12s  %12s  %12s  %12s  %12s  %12s",
		"i", "x_val", "y_val", "y_sigma", "y_fit",
		"y_diff_abs", "y_diff_wgt", "y_diff_rel")

	fmt.Fprintln(w, "\nFit data:")
	fmt.Fprintln(w, hdr)
	for i := range r.y {
		diff := r.fitted[i] - r.y[i]
		wgt := diff
		if r.sigmas[i] != 0 {
			wgt = diff / r.sigmas[i]
		}
		fmt.Fprintf(w, "%9d  %12.5e  %12.5e  %12.5e  %12.5e  %12.5e  %12.5e  %12.5e\n",
			i, r.x[i], r.y[i], r.sigmas[i], r.fitted[i],
			diff, wgt, math.Abs(diff/r.y[i]))
	}
	fmt.Fprintln(w, hdr)
}
