package weather

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/HamletTheHamster/sciutil/fit"
	"github.com/HamletTheHamster/sciutil/internal/options"
)

var (
	// ErrNoLocation flags a forecast file without the wanted location.
	ErrNoLocation = errors.New("weather: location not found in forecast file")
	// ErrBadForecast flags a malformed forecast file.
	ErrBadForecast = errors.New("weather: malformed forecast file")
	// ErrNoForecast flags that neither forecast file could be read.
	ErrNoForecast = errors.New("weather: no forecast data")
)

// A forecast block holds at most this many rows.
const forecastRows = 36

// locSearchLimit caps the header scan: the location names sit in the
// top of the file, so a miss there means the location is unknown.
const locSearchLimit = 442

// Forecast holds a 36-hour weather forecast as parallel columns.
// Hours counts from midnight of the day the forecast block starts;
// a merged forecast may run beyond 24.
type Forecast struct {
	Time  []time.Time // wall-clock time per row
	Hours []float64   // hours since midnight of the first day

	Clouds []float64 // cloud cover (%)
	Rain   []float64 // rain intensity (mm/h)
	Temp   []float64 // air temperature (degrees C)
	Press  []float64 // air pressure (hPa)
	RH     []float64 // relative humidity (%)

	WindSpeed []float64 // wind speed (m/s), from the Beaufort column
	WindDir   []float64 // wind direction (degrees)

	WindChill []float64 // derived from Temp and WindSpeed
	DewPoint  []float64 // derived from Temp and RH
	AbsHum    []float64 // derived from Temp and RH (g/m^3)

	WindSpeedFit []float64 // smoothed wind speed, set by Smooth
}

// RainCurve is rain intensity interpolated onto a fine time grid.
type RainCurve struct {
	Hours []float64 // hours since midnight, step 0.1
	Rain  []float64 // rain intensity (mm/h), clamped at 0
}

type config struct {
	verbosity int
	out       io.Writer
	now       time.Time
}

// Option configures forecast reading and smoothing.
type Option = options.Option[config]

func defaultConfig() config {
	return config{out: os.Stdout, now: time.Now()}
}

// WithVerbosity sets the amount of progress output: 0 none, 1 a note
// per step, 2 plus the files read.
func WithVerbosity(v int) Option {
	return options.NoError(func(c *config) { c.verbosity = v })
}

// WithWriter redirects progress output, which defaults to stdout.
func WithWriter(w io.Writer) Option {
	return options.New(func(c *config) error {
		if w == nil {
			return errors.New("weather: nil writer")
		}
		c.out = w
		return nil
	})
}

// WithNow fixes the clock used to name today's forecast file.
func WithNow(t time.Time) Option {
	return options.NoError(func(c *config) { c.now = t })
}

// ReadForecast36h reads today's 36-hour forecast file and the latest
// one from dir and merges them, preferring the fresher file where
// both carry a row for the same hour. One unreadable file of the two
// is tolerated.
func ReadForecast36h(dir, loc string, opts ...Option) (*Forecast, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	todayPath := filepath.Join(dir,
		"wp_weer_"+cfg.now.Format("2006-01-02")+"_36h.dat")
	latestPath := filepath.Join(dir, "wp_weer_latest_36h.dat")

	if cfg.verbosity > 1 {
		fmt.Fprintln(cfg.out, "-", todayPath)
		fmt.Fprintln(cfg.out, "-", latestPath)
	}

	today, errToday := ReadForecastFile(todayPath, loc)
	latest, errLatest := ReadForecastFile(latestPath, loc)

	switch {
	case errToday != nil && errLatest != nil:
		return nil, fmt.Errorf("%w: %v; %v", ErrNoForecast, errToday, errLatest)
	case errToday != nil:
		return latest, nil
	case errLatest != nil:
		return today, nil
	}
	return mergeForecasts(today, latest), nil
}

// ReadForecastFile reads the 36-hour forecast block for location loc
// from a single Weerplaza file. The block starts two lines below the
// line naming the location and holds rows of
//
//	year month day hour clouds rain temp press rh wind-force wind-dir
//
// with wind force on the Beaufort scale. Hour numbers are taken as
// consecutive from the first row, so a block crossing midnight keeps
// a monotonic time axis.
func ReadForecastFile(path, loc string, opts ...Option) (*Forecast, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)

	// Find the location header.
	found := false
	for n := 0; sc.Scan(); {
		n++
		if strings.Contains(sc.Text(), loc) {
			found = true
			break
		}
		if n > locSearchLimit {
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q in %s", ErrNoLocation, loc, path)
	}
	for i := 0; i < 2; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: truncated block in %s", ErrBadForecast, path)
		}
	}

	fc := &Forecast{}
	var time0 float64
	for i := 0; i < forecastRows && sc.Scan(); i++ {
		fields := strings.Fields(sc.Text())
		row, err := parseRow(fields)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("%w: %v in %s", ErrBadForecast, err, path)
			}
			break // end of block
		}

		if i == 0 {
			time0 = row[3]
		}
		hours := time0 + float64(i)
		hour := int(hours) % 24

		fc.Time = append(fc.Time, time.Date(int(row[0]), time.Month(row[1]),
			int(row[2]), hour, 0, 0, 0, time.Local))
		fc.Hours = append(fc.Hours, hours)
		fc.Clouds = append(fc.Clouds, row[4])
		fc.Rain = append(fc.Rain, row[5])
		fc.Temp = append(fc.Temp, row[6])
		fc.Press = append(fc.Press, row[7])
		fc.RH = append(fc.RH, row[8])
		fc.WindSpeed = append(fc.WindSpeed, WindSpeedFromBeaufort(row[9]))
		fc.WindDir = append(fc.WindDir, row[10])
	}
	if len(fc.Hours) == 0 {
		return nil, fmt.Errorf("%w: empty block in %s", ErrBadForecast, path)
	}

	fc.derive()
	return fc, nil
}

func parseRow(fields []string) ([]float64, error) {
	if len(fields) != 11 {
		return nil, fmt.Errorf("want 11 columns, got %d", len(fields))
	}
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %v", i, err)
		}
		row[i] = v
	}
	return row, nil
}

// derive fills the wind-chill, dew-point and absolute-humidity
// columns from the observables.
func (f *Forecast) derive() {
	n := len(f.Hours)
	f.WindChill = make([]float64, n)
	f.DewPoint = make([]float64, n)
	f.AbsHum = make([]float64, n)
	for i := 0; i < n; i++ {
		f.WindChill[i] = WindChill(f.Temp[i], f.WindSpeed[i])
		f.DewPoint[i] = DewPoint(f.Temp[i], f.RH[i]/100)
		f.AbsHum[i] = AbsoluteHumidity(f.Temp[i], f.RH[i]/100)
	}
}

// mergeForecasts joins two forecasts on the hour axis. Where both
// have a row for an hour the fresher one wins.
func mergeForecasts(today, latest *Forecast) *Forecast {
	type src struct {
		f *Forecast
		i int
	}
	rows := make(map[float64]src, len(today.Hours)+len(latest.Hours))
	for i, h := range today.Hours {
		rows[h] = src{today, i}
	}
	for i, h := range latest.Hours {
		rows[h] = src{latest, i}
	}

	hours := make([]float64, 0, len(rows))
	for h := range rows {
		hours = append(hours, h)
	}
	sort.Float64s(hours)

	m := &Forecast{}
	for _, h := range hours {
		s := rows[h]
		f, i := s.f, s.i
		m.Time = append(m.Time, f.Time[i])
		m.Hours = append(m.Hours, h)
		m.Clouds = append(m.Clouds, f.Clouds[i])
		m.Rain = append(m.Rain, f.Rain[i])
		m.Temp = append(m.Temp, f.Temp[i])
		m.Press = append(m.Press, f.Press[i])
		m.RH = append(m.RH, f.RH[i])
		m.WindSpeed = append(m.WindSpeed, f.WindSpeed[i])
		m.WindDir = append(m.WindDir, f.WindDir[i])
		m.WindChill = append(m.WindChill, f.WindChill[i])
		m.DewPoint = append(m.DewPoint, f.DewPoint[i])
		m.AbsHum = append(m.AbsHum, f.AbsHum[i])
	}
	return m
}

// Smooth cleans up the forecast in place and returns a fine-grained
// rain curve. Wind speeds converted from whole Beaufort numbers are
// coarse, so an 11th-degree polynomial is fitted through them
// (clamped at 0) and the wind chill is recomputed from the fit. Rain
// is interpolated with a natural cubic spline onto a 0.1-hour grid
// from 0 to one hour past the last row, capped at 49 hours.
func (f *Forecast) Smooth(opts ...Option) (*RainCurve, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.verbosity > 0 {
		fmt.Fprintln(cfg.out, "Smoothening WP forecast...")
	}

	res, err := fit.PolyFit(f.Hours, f.WindSpeed, nil, 11)
	if err != nil {
		return nil, fmt.Errorf("weather: smooth wind speed: %w", err)
	}

	n := len(f.Hours)
	f.WindSpeedFit = make([]float64, n)
	if f.WindChill == nil {
		f.WindChill = make([]float64, n)
	}
	for i, h := range f.Hours {
		f.WindSpeedFit[i] = math.Max(fit.PolyValue(res.Coeffs, h), 0)
		f.WindSpeed[i] = math.Round(f.WindSpeed[i]*10) / 10
		f.WindChill[i] = WindChill(f.Temp[i], f.WindSpeedFit[i])
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(f.Hours, f.Rain); err != nil {
		return nil, fmt.Errorf("weather: smooth rain: %w", err)
	}

	last := f.Hours[n-1]
	span := math.Min(last+1, 49)
	steps := int(span*10) + 1
	rc := &RainCurve{
		Hours: make([]float64, steps),
		Rain:  make([]float64, steps),
	}
	for i := 0; i < steps; i++ {
		h := float64(i) / 10
		rc.Hours[i] = h
		rc.Rain[i] = math.Max(spline.Predict(h), 0)
	}
	return rc, nil
}
