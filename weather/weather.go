// Package weather derives quantities from observed or forecast
// weather data and reads 36-hour Weerplaza forecast files.
package weather

import "math"

// Magnus coefficients for saturation vapour pressure over water.
const (
	magnusA = 17.62
	magnusB = 243.12 // degrees C
)

// rWater is the specific gas constant of water vapour (J kg^-1 K^-1).
const rWater = 461.5

// WindChill returns the JAG/TI wind-chill temperature in degrees C
// from the air temperature (degrees C, at 1.5 m) and the wind speed
// (m/s, at 10 m). The result is rounded to 0.1 degrees and cannot
// exceed the air temperature below 1.3 m/s, where the formula is
// unreliable.
func WindChill(temp, windVel float64) float64 {
	wchil := 13.12 + 0.6215*temp + (0.4867*temp-13.96)*math.Pow(windVel, 0.16)
	if windVel < 1.3 {
		wchil = math.Min(wchil, temp)
	}
	return math.Round(wchil*10) / 10
}

// WindSpeedFromBeaufort converts wind force on the Beaufort scale to
// a wind speed in m/s.
func WindSpeedFromBeaufort(bft float64) float64 {
	return 0.836 * math.Pow(bft, 1.5)
}

// DewPoint returns the dew-point temperature in degrees C from the
// air temperature (degrees C) and the relative humidity (0-1), using
// the Magnus formula.
func DewPoint(temp, rh float64) float64 {
	gamma := math.Log(rh) + magnusA*temp/(magnusB+temp)
	return magnusB * gamma / (magnusA - gamma)
}

// AbsoluteHumidity returns the absolute humidity in g/m^3 from the
// air temperature (degrees C) and the relative humidity (0-1).
func AbsoluteHumidity(temp, rh float64) float64 {
	e := rh * saturationVapourPressure(temp)
	return e / (rWater * (temp + 273.15)) * 1000
}

// saturationVapourPressure returns the Magnus saturation vapour
// pressure over water in Pa for a temperature in degrees C.
func saturationVapourPressure(temp float64) float64 {
	return 611.2 * math.Exp(magnusA*temp/(magnusB+temp))
}
