// Summarises an SBFspot detailed log: peak and mean power, the yield
// so far, an optional day file and an optional power plot.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/HamletTheHamster/sciutil/astroconst"
	"github.com/HamletTheHamster/sciutil/plot"
	"github.com/HamletTheHamster/sciutil/solar"
)

func main() {
	logPath, outDir, ext, plotFile, last, sun, verbosity, specs := flags()

	opts := []solar.Option{
		solar.WithVerbosity(verbosity),
		solar.WithPowerOnly(),
	}
	if last > 0 {
		opts = append(opts, solar.WithLastN(last))
	}
	if sun {
		opts = append(opts, solar.WithSunPosition())
	}

	dayLog, err := solar.ReadDetailedLog(logPath, specs, opts...)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if len(dayLog.Time) == 0 {
		fmt.Println("No power data in", logPath)
		os.Exit(0)
	}

	fmt.Printf("Peak power (W):     %9.1f\n", floats.Max(dayLog.Pac))
	fmt.Printf("Mean power (W):     %9.1f\n", stat.Mean(dayLog.Pac, nil))
	fmt.Printf("Yield today (kWh):  %9.3f\n", dayLog.Eday[len(dayLog.Eday)-1])
	if sun {
		fmt.Printf("Max sun alt (deg):  %9.2f\n", floats.Max(dayLog.SunAlt)*astroconst.R2D)
	}

	if outDir != "" {
		fname, err := dayLog.WriteDayFile(specs, outDir, ext, solar.WithVerbosity(verbosity))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if fname != "" {
			fmt.Println("Wrote", fname)
		}
	}

	if plotFile != "" {
		if err := plotPower(dayLog, sun, plotFile); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

// plotPower plots AC power against the hour of the day, plus the sun
// altitude when it was read along.
func plotPower(dayLog *solar.DetailedLog, sun bool, fname string) error {
	t0 := dayLog.Time[0]
	midnight := time.Date(t0.Year(), t0.Month(), t0.Day(), 0, 0, 0, 0, t0.Location())

	hours := make([]float64, len(dayLog.Time))
	for i, tm := range dayLog.Time {
		hours[i] = tm.Sub(midnight).Hours()
	}

	p, err := plot.New(plot.File, plot.WithTitle(t0.Format("2006-01-02")))
	if err != nil {
		return err
	}
	if err := p.AddLine("AC power", hours, dayLog.Pac); err != nil {
		return err
	}
	if sun {
		// Scale the altitude (rad) to roughly the power axis.
		peak := floats.Max(dayLog.Pac)
		alt := make([]float64, len(dayLog.SunAlt))
		for i, a := range dayLog.SunAlt {
			alt[i] = a / astroconst.PiO2 * peak
		}
		if err := p.AddLine("sun altitude", hours, alt); err != nil {
			return err
		}
	}
	return p.Finish(fname, "Hour of day", "Power (W)", true, true)
}

func flags() (string, string, string, string, int, bool, int, solar.Specs) {
	var logPath, outDir, ext, plotFile string
	var last, verbosity int
	var sun bool
	var name, sn, model, tz string
	var lon, lat float64

	flag.StringVar(&logPath, "log", "", "SBFspot detailed log to read")
	flag.StringVar(&outDir, "outdir", "", "directory for the day file; empty skips it")
	flag.StringVar(&ext, "ext", "csv", "day-file extension")
	flag.StringVar(&plotFile, "plot", "", "power plot file; empty skips it")
	flag.IntVar(&last, "last", 0, "read only the last n log lines")
	flag.BoolVar(&sun, "sun", false, "compute the sun position per row")
	flag.IntVar(&verbosity, "v", 1, "verbosity (0-2)")
	flag.StringVar(&name, "name", "Zonnepanelen", "plant name")
	flag.StringVar(&sn, "sn", "", "inverter serial number")
	flag.StringVar(&model, "model", "", "inverter model")
	flag.StringVar(&tz, "tz", "Europe/Amsterdam", "log timezone (IANA name)")
	flag.Float64Var(&lon, "lon", 5.0, "longitude (degrees, east positive)")
	flag.Float64Var(&lat, "lat", 52.0, "latitude (degrees)")
	flag.Parse()

	if logPath == "" {
		fmt.Println("Specify the detailed log with -log=")
		os.Exit(1)
	}

	specs := solar.Specs{
		Name:          name,
		InverterSN:    sn,
		InverterModel: model,
		Timezone:      tz,
		Lon:           lon * astroconst.D2R,
		Lat:           lat * astroconst.D2R,
	}
	return logPath, outDir, ext, plotFile, last, sun, verbosity, specs
}
