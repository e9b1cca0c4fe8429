// Package ephem computes low-precision solar positions locally and
// fetches high-precision ephemerides from the JPL Horizons service.
package ephem

import (
	"math"
	"time"

	"github.com/HamletTheHamster/sciutil/astroconst"
)

// JulianDay returns the Julian day number of t, fractional days
// included.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()

	y, m := year, int(month)
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4

	d := float64(day) +
		(float64(t.Hour())+
			float64(t.Minute())/60+
			(float64(t.Second())+float64(t.Nanosecond())*1e-9)/3600)/24

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		d + float64(b) - 1524.5
}

// SunPosition returns the Sun's azimuth and altitude in radians and
// its distance in AU, for time t at geographic longitude lon (rad,
// east positive) and latitude lat (rad). Azimuth runs from south
// through west. The altitude includes atmospheric refraction. Good to
// a few arcminutes, which is plenty for solar-panel work.
func SunPosition(t time.Time, lon, lat float64) (az, alt, dist float64) {
	jd := JulianDay(t)
	tc := (jd - astroconst.JD2000) / 36525 // Julian centuries

	// Mean longitude, mean anomaly and eccentricity.
	l0 := 280.46646 + tc*(36000.76983+tc*0.0003032)
	ma := 357.52911 + tc*(35999.05029-tc*0.0001537)
	ec := 0.016708634 - tc*(0.000042037+tc*0.0000001267)

	mrad := ma * astroconst.D2R

	// Equation of centre and true longitude.
	cen := (1.914602-tc*(0.004817+tc*0.000014))*math.Sin(mrad) +
		(0.019993-tc*0.000101)*math.Sin(2*mrad) +
		0.000289*math.Sin(3*mrad)
	trueLon := l0 + cen
	trueAnom := (ma + cen) * astroconst.D2R

	dist = 1.000001018 * (1 - ec*ec) / (1 + ec*math.Cos(trueAnom))

	// Apparent longitude, corrected for nutation and aberration.
	omega := (125.04 - 1934.136*tc) * astroconst.D2R
	lambda := (trueLon - 0.00569 - 0.00478*math.Sin(omega)) * astroconst.D2R

	// Obliquity of the ecliptic.
	eps := (23.4392911 - tc*(0.0130042+tc*1.64e-7) +
		0.00256*math.Cos(omega)) * astroconst.D2R

	ra := math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda))
	dec := math.Asin(math.Sin(eps) * math.Sin(lambda))

	// Local hour angle from Greenwich sidereal time.
	gmst := 280.46061837 + 360.98564736629*(jd-astroconst.JD2000)
	ha := math.Mod(gmst*astroconst.D2R+lon-ra, astroconst.Pi2)

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	alt = math.Asin(sinAlt)
	az = math.Atan2(math.Sin(ha),
		math.Cos(ha)*math.Sin(lat)-math.Tan(dec)*math.Cos(lat))

	alt += refraction(alt)
	return az, alt, dist
}

// refraction returns the Saemundsson atmospheric refraction for a
// true altitude (rad), valid down to the horizon.
func refraction(alt float64) float64 {
	if alt < -1*astroconst.D2R {
		return 0
	}
	hdeg := alt * astroconst.R2D
	rArcmin := 1.02 / math.Tan((hdeg+10.3/(hdeg+5.11))*astroconst.D2R)
	return rArcmin / 60 * astroconst.D2R
}
