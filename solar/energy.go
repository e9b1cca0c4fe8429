package solar

import "math"

// CloudPowerFromRainMeans returns the mean fraction of clear-sky
// power that panels produce under a fully clouded sky, as a function
// of the rain intensity in those clouds (mm/h). Crude empirical fit
// to a year of inverter and rain-gauge data; the two branches join
// continuously at 0.05 mm/h.
func CloudPowerFromRainMeans(rain float64) float64 {
	if rain <= 0.05 {
		return 80*rain*rain - 8*rain + 0.4 - 0.0009
	}
	return 0.74 * math.Exp(-(rain+2.97)/2.3)
}

// CloudPowerFromRainMedians is the median counterpart of
// CloudPowerFromRainMeans.
func CloudPowerFromRainMedians(rain float64) float64 {
	if rain <= 0.05 {
		return 52*rain*rain - 5.2*rain + 0.25 + 0.00085
	}
	return 2.06 * math.Exp(-(rain+10.67)/3.78)
}

// PowerFromTrueSky estimates the actual panel power from the
// clear-sky power, the cloud cover (%) and the mean rain intensity
// (mm/h). The rain intensity is attributed to the clouded fraction of
// the sky; the unclouded fraction produces clear-sky power.
func PowerFromTrueSky(clearSkyPower, clouds, rain float64) float64 {
	rainInt := 0.0
	if clouds > 0 {
		rainInt = rain / clouds * 100
	}

	frac := CloudPowerFromRainMeans(rainInt)
	frac = (frac*clouds + (100 - clouds)) / 100
	return clearSkyPower * frac
}
