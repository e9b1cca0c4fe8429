// Package earth provides geodesy helpers.
package earth

import (
	"math"

	"github.com/HamletTheHamster/sciutil/astroconst"
	"github.com/HamletTheHamster/sciutil/numerics"
)

const milesPerKm = 0.62137119

// Distance returns the distance in km between two points on the
// Earth's surface, to first order in the flattening. Longitudes and
// latitudes are in radians.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	re := astroconst.EarthR * 1e-3 // km
	fl := astroconst.EarthFl

	mlat := (lat1 + lat2) / 2
	dlat2 := (lat1 - lat2) / 2
	dlon2 := (lon1 - lon2) / 2

	sins := sq(math.Sin(dlat2))*sq(math.Cos(dlon2)) + sq(math.Cos(mlat))*sq(math.Sin(dlon2))
	coss := sq(math.Cos(dlat2))*sq(math.Cos(dlon2)) + sq(math.Sin(mlat))*sq(math.Sin(dlon2))
	rat := math.Atan2(math.Sqrt(sins), math.Sqrt(coss))

	r := math.Sqrt(sins*coss) / (rat + numerics.Tiny)
	dist := 2 * re * rat

	h1 := (3*r - 1) / (2*coss + numerics.Tiny)
	h2 := (3*r + 1) / (2*sins + numerics.Tiny)

	return dist * (1 +
		fl*h1*sq(math.Sin(mlat))*sq(math.Cos(dlat2)) -
		fl*h2*sq(math.Cos(mlat))*sq(math.Sin(dlat2)))
}

// DistanceMiles is Distance with the result in miles.
func DistanceMiles(lon1, lat1, lon2, lat2 float64) float64 {
	return Distance(lon1, lat1, lon2, lat2) * milesPerKm
}

func sq(x float64) float64 { return x * x }
