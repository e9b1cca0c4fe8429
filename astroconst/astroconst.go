// Package astroconst provides the mathematical, physical and
// astronomical constants shared by the models in this module.
// Everything is in SI units unless the name says otherwise.
package astroconst

import "math"

// Angles.
const (
	Pi   = math.Pi     // pi
	Pi2  = 2 * math.Pi // 2 pi
	PiO2 = math.Pi / 2 // pi/2

	R2D = 180 / math.Pi // radians to degrees
	D2R = math.Pi / 180 // degrees to radians

	R2H = 12 / math.Pi // radians to hours
	H2R = math.Pi / 12 // hours to radians

	AS2R = D2R / 3600 // arcseconds to radians
	R2AS = R2D * 3600 // radians to arcseconds
)

// Physical constants (SI, exact where the 2019 redefinition fixes them).
const (
	C    = 299792458.0     // speed of light in vacuo (m/s)
	G    = 6.6743e-11      // Newton's gravitational constant (m^3 kg^-1 s^-2)
	H    = 6.62607015e-34  // Planck constant (J s)
	HBar = H / Pi2         // reduced Planck constant (J s)
	KB   = 1.380649e-23    // Boltzmann constant (J/K)
	SigB = 5.670374419e-8  // Stefan-Boltzmann constant (W m^-2 K^-4)
	EC   = 1.602176634e-19 // elementary charge (C)
)

// Solar-system bodies.
const (
	SunM = 1.9885e30 // solar mass (kg)
	SunR = 6.957e8   // solar radius (m)
	SunL = 3.828e26  // solar luminosity (W)

	EarthM  = 5.9722e24      // Earth mass (kg)
	EarthR  = 6378136.6      // Earth equatorial radius (m)
	EarthFl = 0.003352810665 // Earth flattening
	MoonM   = 7.346e22       // Moon mass (kg)
	MoonR   = 1.7374e6       // Moon mean radius (m)
)

// Lengths.
const (
	KM = 1000.0 // kilometre (m)

	AU = 1.495978707e11 // astronomical unit (m)
	LY = C * JulYear    // light year (m)
	PC = AU * R2AS      // parsec (m)

	KPC = PC * 1e3 // kiloparsec (m)
	MPC = PC * 1e6 // megaparsec (m)
)

// Times.
const (
	Minute  = 60.0         // minute (s)
	Hour    = 3600.0       // hour (s)
	Day     = 86400.0      // day (s)
	Week    = 7 * Day      // week (s)
	JulYear = 365.25 * Day // Julian year (s)

	JD2000 = 2451545.0 // Julian day of the J2000.0 epoch
)
