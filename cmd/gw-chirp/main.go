// Computes a Newtonian compact-binary chirp and writes two figures:
// the time-domain strain and the frequency-domain amplitude against
// the detector noise floor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/HamletTheHamster/sciutil/astroconst"
	"github.com/HamletTheHamster/sciutil/gw"
	"github.com/HamletTheHamster/sciutil/plot"
)

func main() {
	m1, m2, dist, cosi, tlen, n, prefix, verbosity := flags()

	wf, err := gw.CBCWaveform(
		m1*astroconst.SunM, m2*astroconst.SunM, dist*astroconst.MPC,
		cosi, tlen, 0, n,
		gw.WithVerbosity(verbosity),
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := plotStrain(wf, prefix); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	spec, err := gw.CBCSpectrum(
		m1*astroconst.SunM, m2*astroconst.SunM, dist*astroconst.MPC,
		10, 1e4, n,
		gw.WithVerbosity(verbosity),
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	noise, err := gw.AdvancedLIGO.NoiseCurve(10, 1e4, n, gw.WithVerbosity(verbosity))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := plotSpectrum(spec, noise, prefix); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func plotStrain(wf *gw.Waveform, prefix string) error {
	p, err := plot.New(plot.Both, plot.WithTitle("Compact binary chirp"))
	if err != nil {
		return err
	}
	if err := p.AddLine("h x 1e21", wf.Time, wf.H); err != nil {
		return err
	}
	return p.Finish(prefix+"-strain.png", "Time (s)", "Strain x 1e21", false, true)
}

func plotSpectrum(spec *gw.Spectrum, noise *gw.NoiseCurve, prefix string) error {
	p, err := plot.New(plot.Both, plot.WithTitle("Inspiral spectrum"))
	if err != nil {
		return err
	}
	p.LogLog()
	if err := p.AddLine("noise floor", noise.Freq, noise.ASD); err != nil {
		return err
	}
	if err := p.AddLine("signal", spec.Freq, spec.HTildePerSqrtHz); err != nil {
		return err
	}
	return p.Finish(prefix+"-spectrum.png", "Frequency (Hz)", "ASD (1/sqrt Hz)", true, true)
}

func flags() (float64, float64, float64, float64, float64, int, string, int) {
	var m1, m2, dist, cosi, tlen float64
	var n, verbosity int
	var prefix string

	flag.Float64Var(&m1, "m1", 1.4, "primary mass (solar masses)")
	flag.Float64Var(&m2, "m2", 1.4, "secondary mass (solar masses)")
	flag.Float64Var(&dist, "dist", 40, "distance (Mpc)")
	flag.Float64Var(&cosi, "cosi", 0.5, "cosine of the inclination")
	flag.Float64Var(&tlen, "tlen", 10, "waveform length before coalescence (s)")
	flag.IntVar(&n, "n", 10000, "number of samples")
	flag.StringVar(&prefix, "o", "gw-chirp", "output file prefix")
	flag.IntVar(&verbosity, "v", 1, "verbosity (0-2)")
	flag.Parse()

	if m1 <= 0 || m2 <= 0 {
		fmt.Println("Specify positive masses with -m1= and -m2=")
		os.Exit(1)
	}
	if dist <= 0 {
		fmt.Println("Specify a positive distance with -dist=")
		os.Exit(1)
	}

	return m1, m2, dist, cosi, tlen, n, prefix, verbosity
}
