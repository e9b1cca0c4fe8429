// Package gw computes Newtonian toy waveforms for compact-binary
// coalescences and simplified interferometer noise curves. None of
// this is research grade; the point is lecture-quality plots with
// roughly the right numbers.
package gw

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/HamletTheHamster/sciutil/astroconst"
	"github.com/HamletTheHamster/sciutil/internal/options"
)

type config struct {
	verbosity int
	out       io.Writer
}

// Option configures the model computations.
type Option = options.Option[config]

func defaultConfig() config {
	return config{out: os.Stdout}
}

// WithVerbosity sets the amount of progress output, 0 being silent.
func WithVerbosity(v int) Option {
	return options.NoError(func(c *config) { c.verbosity = v })
}

// WithWriter redirects progress output, which defaults to stdout.
func WithWriter(w io.Writer) Option {
	return options.New(func(c *config) error {
		if w == nil {
			return errors.New("gw: nil writer")
		}
		c.out = w
		return nil
	})
}

// ChirpMass returns the chirp mass of a binary with component masses
// m1 and m2 (kg).
func ChirpMass(m1, m2 float64) float64 {
	return math.Pow(m1*m2/math.Cbrt(m1+m2), 3.0/5)
}

// ISCOFrequency returns the gravitational-wave frequency (Hz) at the
// innermost stable circular orbit of a binary with component masses
// m1 and m2 (kg).
func ISCOFrequency(m1, m2 float64) float64 {
	c3 := astroconst.C * astroconst.C * astroconst.C
	return c3 / (6 * math.Sqrt(6) * astroconst.Pi * astroconst.G * (m1 + m2))
}

// CompactRadius returns a toy radius (m) for a compact object of mass
// m (kg): 11.5 km below 3.9 solar masses, where all neutron stars are
// taken to have the same radius, and the Schwarzschild radius above.
// The branches join at the threshold mass.
func CompactRadius(m float64) float64 {
	if m < 3.9*astroconst.SunM {
		return 11.5 * astroconst.KM
	}
	return 2 * astroconst.G * m / (astroconst.C * astroconst.C)
}

// Waveform holds a time-domain Newtonian inspiral as parallel
// columns, plus the frequency bounds used to cut it.
type Waveform struct {
	Time []float64 // time (s); coalescence at TCoal of the call

	Freq    []float64 // gravitational-wave frequency (Hz)
	FreqDot []float64 // frequency derivative (Hz/s)

	OrbFreq []float64 // orbital angular frequency (rad/s)
	Sep     []float64 // orbital separation (m)
	SepISCO []float64 // separation in units of six Schwarzschild radii

	Vorb1, Vorb2 []float64 // orbital speeds of the components (fraction of c)

	Ampl          []float64 // strain amplitude envelope
	HPlus, HCross []float64 // polarisations
	H             []float64 // mean of the polarisations, scaled by 1e21
	HTilde        []float64 // frequency-domain amplitude at Freq (1/Hz)

	FISCO float64 // gravitational-wave frequency at the ISCO (Hz)
	FMax  float64 // cut frequency of the table (Hz)
}

// CBCWaveform computes a Newtonian compact-binary-coalescence
// waveform on n samples of the time span tlen (s) ending at the
// coalescence time tcoal. Masses are in kg, the distance in m and
// cosi is the cosine of the inclination (1 face-on, 0 edge-on).
// Samples past the frequency cut c³/(π G M) are dropped, so fewer
// than n rows come back.
func CBCWaveform(m1, m2, dist, cosi, tlen, tcoal float64, n int, opts ...Option) (*Waveform, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if m1 <= 0 || m2 <= 0 {
		return nil, fmt.Errorf("gw: masses %g, %g kg", m1, m2)
	}
	if dist <= 0 {
		return nil, fmt.Errorf("gw: distance %g m", dist)
	}
	if tlen <= 0 {
		return nil, fmt.Errorf("gw: time span %g s", tlen)
	}
	if n < 2 {
		return nil, fmt.Errorf("gw: %d samples", n)
	}

	mt := m1 + m2
	mu := m1 * m2 / mt
	mc := ChirpMass(m1, m2)
	c := astroconst.C
	c3 := c * c * c
	gmc := astroconst.G * mc / c3 // chirp time scale (s)

	w := &Waveform{
		FISCO: ISCOFrequency(m1, m2),
		FMax:  c3 / (astroconst.Pi * astroconst.G * mt),
	}

	// The frequency power law diverges at tcoal; keep the samples
	// below the cut.
	grid := floats.Span(make([]float64, n), tcoal-tlen, tcoal)
	for _, t := range grid {
		fgw := 1 / astroconst.Pi *
			math.Pow(5.0/256/(tcoal-t), 3.0/8) * math.Pow(gmc, -5.0/8)
		if fgw >= w.FMax {
			continue
		}
		w.Time = append(w.Time, t)
		w.Freq = append(w.Freq, fgw)
	}
	if len(w.Time) < 2 {
		return nil, fmt.Errorf("gw: no samples below %g Hz", w.FMax)
	}

	nk := len(w.Time)
	w.FreqDot = make([]float64, nk)
	w.OrbFreq = make([]float64, nk)
	w.Sep = make([]float64, nk)
	w.SepISCO = make([]float64, nk)
	w.Vorb1 = make([]float64, nk)
	w.Vorb2 = make([]float64, nk)
	w.Ampl = make([]float64, nk)
	w.HPlus = make([]float64, nk)
	w.HCross = make([]float64, nk)
	w.H = make([]float64, nk)
	w.HTilde = make([]float64, nk)

	rs := 2 * astroconst.G * mt / (c * c)
	hCoef := htildeCoef(mc, dist)
	for i, fgw := range w.Freq {
		w.FreqDot[i] = 96.0 / 5 * math.Pow(astroconst.Pi, 8.0/3) *
			math.Pow(gmc, 5.0/3) * math.Pow(fgw, 11.0/3)

		worb := astroconst.Pi * fgw // orbital frequency is half the GW frequency
		aorb := math.Cbrt(astroconst.G * mt / (worb * worb))
		w.OrbFreq[i] = worb
		w.Sep[i] = aorb
		w.SepISCO[i] = aorb / rs / 6
		w.Vorb1[i] = worb * aorb * m2 / mt / c
		w.Vorb2[i] = worb * aorb * m1 / mt / c

		ampl := 4 / dist * astroconst.G / (c * c * c * c) * mu * aorb * aorb * worb * worb
		phase := 2 * worb * (w.Time[i] - tcoal)
		w.Ampl[i] = ampl
		w.HPlus[i] = ampl * (1 + cosi*cosi) / 2 * math.Cos(phase)
		w.HCross[i] = ampl * cosi * math.Sin(phase)
		w.H[i] = (w.HPlus[i] + w.HCross[i]) / 2 * 1e21

		w.HTilde[i] = hCoef * math.Pow(fgw, -7.0/6)
	}

	if cfg.verbosity > 0 {
		fmt.Fprintln(cfg.out, "f_isco, f_max (Hz): ", w.FISCO, w.FMax)
	}
	return w, nil
}

// Spectrum holds a frequency-domain Newtonian inspiral on a
// log-spaced grid.
type Spectrum struct {
	Freq            []float64 // gravitational-wave frequency (Hz)
	HTilde          []float64 // amplitude (1/Hz)
	HTildePerSqrtHz []float64 // HTilde * sqrt(Freq) (1/sqrt Hz)

	FISCO float64 // gravitational-wave frequency at the ISCO (Hz)
	FMax  float64 // cut frequency from the contact criterion (Hz)
}

// CBCSpectrum computes the frequency-domain amplitude of a Newtonian
// compact-binary inspiral on n log-spaced frequencies between fLow
// and fHigh (Hz). The table is cut where the components touch, at
// an orbital separation of 1.5 times the sum of their CompactRadius
// values, which reduces to roughly the ISCO for black holes but also
// works for neutron stars.
func CBCSpectrum(m1, m2, dist, fLow, fHigh float64, n int, opts ...Option) (*Spectrum, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if m1 <= 0 || m2 <= 0 {
		return nil, fmt.Errorf("gw: masses %g, %g kg", m1, m2)
	}
	if dist <= 0 {
		return nil, fmt.Errorf("gw: distance %g m", dist)
	}
	if fLow <= 0 || fHigh <= fLow {
		return nil, fmt.Errorf("gw: frequency range %g - %g Hz", fLow, fHigh)
	}
	if n < 2 {
		return nil, fmt.Errorf("gw: %d samples", n)
	}

	mt := m1 + m2
	mc := ChirpMass(m1, m2)
	c := astroconst.C
	rs := 2 * astroconst.G * mt / (c * c)
	aMin := CompactRadius(m1) + CompactRadius(m2)

	s := &Spectrum{
		FISCO: ISCOFrequency(m1, m2),
		FMax:  1 / astroconst.Pi * math.Sqrt(astroconst.G*mt/math.Pow(1.5*aMin, 3)),
	}

	hCoef := htildeCoef(mc, dist)
	for _, f := range floats.LogSpan(make([]float64, n), fLow, fHigh) {
		if f >= s.FMax {
			continue
		}
		ht := hCoef * math.Pow(f, -7.0/6)
		s.Freq = append(s.Freq, f)
		s.HTilde = append(s.HTilde, ht)
		s.HTildePerSqrtHz = append(s.HTildePerSqrtHz, ht*math.Sqrt(f))
	}
	if len(s.Freq) == 0 {
		return nil, fmt.Errorf("gw: all frequencies above the cut at %g Hz", s.FMax)
	}

	if cfg.verbosity > 0 {
		last := len(s.Freq) - 1
		fmt.Fprintln(cfg.out, "f_low, f_high (Hz):          ", fLow, fHigh)
		fmt.Fprintln(cfg.out, "Rs (km):                     ", rs/1000)
		fmt.Fprintln(cfg.out, "f_isco, f_max (Hz):          ", s.FISCO, s.FMax)
		fmt.Fprintln(cfg.out, "h_start, h_end (1/Hz):       ", s.HTilde[0], s.HTilde[last])
		fmt.Fprintln(cfg.out, "h_start, h_end (1/sqrt Hz):  ", s.HTildePerSqrtHz[0], s.HTildePerSqrtHz[last])
	}
	return s, nil
}

// htildeCoef is the frequency-independent part of the Newtonian
// frequency-domain amplitude h~(f) = htildeCoef * f^(-7/6).
func htildeCoef(mc, dist float64) float64 {
	c := astroconst.C
	c3 := c * c * c
	return math.Pow(astroconst.Pi, -2.0/3) * math.Sqrt(5.0/24) * c / dist *
		math.Pow(astroconst.G*mc/c3, 5.0/6)
}
