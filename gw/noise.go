package gw

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/HamletTheHamster/sciutil/astroconst"
	"github.com/HamletTheHamster/sciutil/internal/options"
)

// Interferometer holds the toy parameters of a Fabry-Perot Michelson
// gravitational-wave detector.
type Interferometer struct {
	ArmLength    float64 // arm length (m)
	LaserPower   float64 // input laser power (W)
	Wavelength   float64 // laser wavelength (m)
	PDEfficiency float64 // photodetector efficiency (0-1)

	MirrorMass float64 // end mirror / test mass (kg)
	RIn, REnd  float64 // cavity input and end mirror reflectivities (0-1)

	PowerRecycling float64 // power-recycling gain (1 for none)
	NoFabryPerot   bool    // plain Michelson without arm cavities
}

// AdvancedLIGO holds roughly Advanced-LIGO-like numbers for the toy
// noise model.
var AdvancedLIGO = Interferometer{
	ArmLength:      4000,
	LaserPower:     125,
	Wavelength:     1064e-9,
	PDEfficiency:   0.9,
	MirrorMass:     40,
	RIn:            0.97,
	REnd:           1.0,
	PowerRecycling: 40,
}

// Finesse returns the finesse of the arm cavities, or pi/2 without
// Fabry-Perot cavities.
func (ifo Interferometer) Finesse() float64 {
	if ifo.NoFabryPerot {
		return astroconst.Pi / 2
	}
	rr := ifo.RIn * ifo.REnd
	return astroconst.Pi * math.Sqrt(rr) / (1 - rr)
}

// PoleFrequency returns the cavity pole frequency (Hz) above which
// the arm cavities stop amplifying the signal, or 0 without cavities.
func (ifo Interferometer) PoleFrequency() float64 {
	if ifo.NoFabryPerot {
		return 0
	}
	return astroconst.C / (4 * ifo.Finesse() * ifo.ArmLength)
}

// NoiseCurve holds the noise amplitude spectral densities of an
// interferometer as parallel columns, all in strain per sqrt Hz.
type NoiseCurve struct {
	Freq []float64 // frequency (Hz)
	Shot []float64 // photon shot noise
	Rad  []float64 // radiation-pressure noise
	Seis []float64 // ad-hoc seismic wall
	ASD  []float64 // total
}

// Ad-hoc seismic wall alpha/f^seismicPower/L * seismicIsolation,
// scaled to pass near 1e-23 around 10 Hz like the early observing
// runs.
const (
	seismicAlpha     = 1e-6 // m Hz^(3/2)
	seismicIsolation = 1e-4
	seismicPower     = 6
)

// NoiseCurve computes the toy noise budget of the interferometer on n
// log-spaced frequencies between fLow and fHigh (Hz): shot noise with
// the cavity-pole roll-off, radiation-pressure noise and a steep
// seismic wall.
func (ifo Interferometer) NoiseCurve(fLow, fHigh float64, n int, opts ...Option) (*NoiseCurve, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if ifo.ArmLength <= 0 || ifo.LaserPower <= 0 || ifo.Wavelength <= 0 ||
		ifo.PDEfficiency <= 0 || ifo.MirrorMass <= 0 || ifo.PowerRecycling <= 0 {
		return nil, fmt.Errorf("gw: incomplete interferometer %+v", ifo)
	}
	if !ifo.NoFabryPerot && (ifo.RIn <= 0 || ifo.REnd <= 0 || ifo.RIn*ifo.REnd >= 1) {
		return nil, fmt.Errorf("gw: cavity reflectivities %g, %g", ifo.RIn, ifo.REnd)
	}
	if fLow <= 0 || fHigh <= fLow {
		return nil, fmt.Errorf("gw: frequency range %g - %g Hz", fLow, fHigh)
	}
	if n < 2 {
		return nil, fmt.Errorf("gw: %d samples", n)
	}

	c := astroconst.C
	fin := ifo.Finesse()
	fPole := ifo.PoleFrequency()

	shotAmp := 1 / (8 * fin * ifo.ArmLength) *
		math.Sqrt(4*astroconst.Pi*astroconst.HBar*c*ifo.Wavelength/
			(ifo.PDEfficiency*ifo.PowerRecycling*ifo.LaserPower))
	radAmp := 16 * math.Sqrt(2) * fin / (ifo.MirrorMass * ifo.ArmLength) *
		math.Sqrt(astroconst.HBar*ifo.LaserPower*ifo.PowerRecycling/
			(astroconst.Pi2*ifo.Wavelength*c))

	nc := &NoiseCurve{
		Freq: floats.LogSpan(make([]float64, n), fLow, fHigh),
		Shot: make([]float64, n),
		Rad:  make([]float64, n),
		Seis: make([]float64, n),
		ASD:  make([]float64, n),
	}
	for i, f := range nc.Freq {
		fac := 1.0
		if !ifo.NoFabryPerot {
			fac = math.Sqrt(1 + (f/fPole)*(f/fPole))
		}
		w := astroconst.Pi2 * f
		nc.Shot[i] = shotAmp * fac
		nc.Rad[i] = radAmp / (w * w) / fac
		nc.Seis[i] = seismicAlpha / math.Pow(f, seismicPower) / ifo.ArmLength * seismicIsolation
		nc.ASD[i] = nc.Shot[i] + nc.Rad[i] + nc.Seis[i]
	}

	if cfg.verbosity > 1 {
		leffL := 1.0
		if !ifo.NoFabryPerot {
			leffL = 2 * fin / astroconst.Pi
		}
		fmt.Fprintln(cfg.out)
		fmt.Fprintln(cfg.out, "Finesse:   ", fin)
		fmt.Fprintln(cfg.out, "Leff/L:    ", leffL)
		fmt.Fprintln(cfg.out, "f_pole:    ", fPole)
		fmt.Fprintln(cfg.out, "min ASD:   ", floats.Min(nc.ASD))
		fmt.Fprintln(cfg.out)
	}
	return nc, nil
}
