package earth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HamletTheHamster/sciutil/astroconst"
)

func TestDistanceZero(t *testing.T) {
	d := Distance(0.1, 0.9, 0.1, 0.9)
	assert.InDelta(t, 0, d, 1e-9)
}

func TestDistanceSymmetric(t *testing.T) {
	ams := [2]float64{4.9041 * astroconst.D2R, 52.3676 * astroconst.D2R}
	par := [2]float64{2.3522 * astroconst.D2R, 48.8566 * astroconst.D2R}

	d1 := Distance(ams[0], ams[1], par[0], par[1])
	d2 := Distance(par[0], par[1], ams[0], ams[1])
	assert.InDelta(t, d1, d2, 1e-9)

	// Amsterdam to Paris is a bit over 400 km.
	assert.InDelta(t, 430, d1, 10)
}

func TestDistanceEquatorQuarter(t *testing.T) {
	// A quarter of the equator, where the flattening terms vanish.
	d := Distance(0, 0, astroconst.PiO2, 0)
	assert.InDelta(t, 10018.6, d, 0.5)
}

func TestDistanceMeridianDegree(t *testing.T) {
	// One degree of latitude at 52-53 N is close to 111.3 km.
	d := Distance(5*astroconst.D2R, 52*astroconst.D2R, 5*astroconst.D2R, 53*astroconst.D2R)
	assert.InDelta(t, 111.28, d, 0.15)
}

func TestDistanceMiles(t *testing.T) {
	km := Distance(0, 0, 0.2, 0.3)
	mi := DistanceMiles(0, 0, 0.2, 0.3)
	assert.InDelta(t, km*0.62137119, mi, 1e-9)
}
