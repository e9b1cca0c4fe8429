// Package env loads the per-user computing environment: which host we
// are on, where the home directory is, and where the various data
// sets live. The settings come from an optional YAML file in the home
// directory, with environment-variable overrides for scripting.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/HamletTheHamster/sciutil/system"
)

// File names looked up in the home directory.
const (
	ConfigFile = ".sciutil.yaml"
	DotenvFile = ".sciutil.env"
)

// Environment is the flat record of per-host settings shared by the
// data-handling packages. Directory fields are empty when not
// configured.
type Environment struct {
	Host string // hostname
	Home string // home directory, no trailing slash

	OnZotac bool // running on the desktop
	OnThink bool // running on the laptop

	Timezone string         // IANA name, e.g. Europe/Amsterdam
	Location *time.Location // resolved Timezone, time.Local when empty

	SPDir string // solar-panel inverter logs
	ELDir string // electricity-meter data

	KNMI10MinDir  string // KNMI 10-minute weather data
	KNMIHourlyDir string // KNMI hourly weather data
	KNMIDailyDir  string // KNMI daily weather data
	WPDir         string // Weerplaza forecast files

	HWCDir string // hot-water-consumption data
}

// fileConfig mirrors the sections of the YAML config file.
type fileConfig struct {
	Localisation struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"localisation"`

	SolarPanels struct {
		BaseDir string `yaml:"basedir"`
	} `yaml:"solar_panels"`

	ElectricityMeter struct {
		BaseDir string `yaml:"basedir"`
	} `yaml:"electricity_meter"`

	Weather struct {
		KNMI10MinDir  string `yaml:"knmi_10min_dir"`
		KNMIHourlyDir string `yaml:"knmi_hourly_dir"`
		KNMIDailyDir  string `yaml:"knmi_daily_dir"`
		WPDir         string `yaml:"wp_dir"`
	} `yaml:"weather"`

	HWC struct {
		BaseDir string `yaml:"basedir"`
	} `yaml:"hwc"`
}

var (
	once      sync.Once
	cached    *Environment
	cachedErr error
)

// Get returns the process-wide environment, loading
// ~/.sciutil.yaml on first use.
func Get() (*Environment, error) {
	once.Do(func() {
		cached, cachedErr = Load(filepath.Join(system.HomeDir(), ConfigFile))
	})
	return cached, cachedErr
}

// Load reads an environment from the YAML file at cfgPath. A missing
// file yields an environment with empty directories. A dotenv file
// next to cfgPath and SCIUTIL_* variables override single fields.
func Load(cfgPath string) (*Environment, error) {
	e := &Environment{
		Host: system.Host(),
		Home: system.HomeDir(),
	}
	e.OnZotac = e.Host == "zotac"
	e.OnThink = e.Host == "think"

	// Machine-local overrides may sit in a dotenv file; a missing one
	// is fine.
	_ = godotenv.Load(filepath.Join(filepath.Dir(cfgPath), DotenvFile))

	var fc fileConfig
	data, err := os.ReadFile(cfgPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("env: parse %s: %w", cfgPath, err)
		}
	case os.IsNotExist(err):
		// No config file: empty defaults.
	default:
		return nil, fmt.Errorf("env: read %s: %w", cfgPath, err)
	}

	e.Timezone = fc.Localisation.Timezone
	e.SPDir = e.expand(fc.SolarPanels.BaseDir)
	e.ELDir = e.expand(fc.ElectricityMeter.BaseDir)
	e.KNMI10MinDir = e.expand(fc.Weather.KNMI10MinDir)
	e.KNMIHourlyDir = e.expand(fc.Weather.KNMIHourlyDir)
	e.KNMIDailyDir = e.expand(fc.Weather.KNMIDailyDir)
	e.WPDir = e.expand(fc.Weather.WPDir)
	e.HWCDir = e.expand(fc.HWC.BaseDir)

	override(&e.Timezone, "SCIUTIL_TIMEZONE")
	e.overrideDir(&e.SPDir, "SCIUTIL_SP_DIR")
	e.overrideDir(&e.ELDir, "SCIUTIL_EL_DIR")
	e.overrideDir(&e.KNMI10MinDir, "SCIUTIL_KNMI_10MIN_DIR")
	e.overrideDir(&e.KNMIHourlyDir, "SCIUTIL_KNMI_HOURLY_DIR")
	e.overrideDir(&e.KNMIDailyDir, "SCIUTIL_KNMI_DAILY_DIR")
	e.overrideDir(&e.WPDir, "SCIUTIL_WP_DIR")
	e.overrideDir(&e.HWCDir, "SCIUTIL_HWC_DIR")

	if e.Timezone != "" {
		loc, err := time.LoadLocation(e.Timezone)
		if err != nil {
			return nil, fmt.Errorf("env: timezone %q: %w", e.Timezone, err)
		}
		e.Location = loc
	} else {
		e.Location = time.Local
	}

	return e, nil
}

// expand substitutes the home directory for a leading or embedded ~.
func (e *Environment) expand(path string) string {
	return strings.ReplaceAll(path, "~", e.Home)
}

func (e *Environment) overrideDir(field *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*field = e.expand(v)
	}
}

func override(field *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*field = v
	}
}
