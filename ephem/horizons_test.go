package ephem

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A trimmed Horizons text response for the Moon with two epochs, in
// the CSV layout the client requests.
const horizonsMoonResponse = `API VERSION: 1.2
API SOURCE: NASA/JPL Horizons API

*******************************************************************************
Ephemeris / API_USER Mon Aug 25 12:00:00 2025 Pasadena, USA      / Horizons
*******************************************************************************
 Date__(UT)__HR:MN:SC.fff, Date_JDUT, , , R.A._(ICRF), DEC_(ICRF), R.A._(a-app), DEC_(a-app), APmag, S-brt, Illu%, Def_illu, ang-sep/v, TDB-UT, ObsEcLon, ObsEcLat, hEcl-Lon, hEcl-Lat, r, rdot, delta, deldot, S-T-O, PAB-LON, PAB-LAT,
*******************************************************************************
$$SOE
 2025-Aug-25 00:00:00.000, 2460912.500000000, , , 141.0727453, 14.1205430, 141.4242610, 14.0021332, -8.361, 4.215, 3.54887, 6.10325, 118.2, 69.183909, 144.4087700, -1.3914217, 320.5327000, 0.0643000, 1.0103440, 0.0000522, 0.002480447, 0.0001242, 21.6300, 152.3066, -1.1263,
 2025-Aug-26 00:00:00.000, 2460913.500000000, , , 153.9042167, 9.8233189, 154.2551844, 9.7001260, -9.480, 4.119, 8.38664, 12.93101, 105.4, 69.183921, 156.7742700, -2.4812550, 333.1185000, 0.0892000, 1.0101550, 0.0000534, 0.002502636, 0.0001305, 33.9000, 165.0112, -2.3305,
$$EOE
*******************************************************************************
`

func TestEphemerides(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(horizonsMoonResponse))
	}))
	defer srv.Close()

	c := &HorizonsClient{BaseURL: srv.URL}
	tab, err := c.Ephemerides(context.Background(), "301",
		[]float64{2460912.5, 2460913.5}, "")
	require.NoError(t, err)

	// Request wiring.
	assert.Equal(t, "'301'", gotQuery["COMMAND"][0])
	assert.Equal(t, "'500@399'", gotQuery["CENTER"][0])
	assert.Equal(t, "'OBSERVER'", gotQuery["EPHEM_TYPE"][0])
	assert.Equal(t, "'2460912.5 2460913.5'", gotQuery["TLIST"][0])
	assert.Equal(t, "'YES'", gotQuery["CSV_FORMAT"][0])
	assert.Equal(t, "'DEG'", gotQuery["ANG_FORMAT"][0])

	// Parsed table.
	require.Len(t, tab.Time, 2)
	assert.Equal(t, 2025, tab.Time[0].Year())
	assert.Equal(t, 25, tab.Time[0].Day())
	assert.InDelta(t, 2460912.5, tab.JD[0], 1e-9)
	assert.InDelta(t, 141.0727453, tab.RA[0], 1e-9)
	assert.InDelta(t, 14.1205430, tab.Dec[0], 1e-9)
	assert.InDelta(t, 141.4242610, tab.RAApp[0], 1e-9)
	assert.InDelta(t, 9.8233189, tab.Dec[1], 1e-9)
	assert.InDelta(t, -8.361, tab.Mag[0], 1e-9)
	assert.InDelta(t, 3.54887, tab.Illum[0], 1e-9)
	assert.InDelta(t, 6.10325, tab.IllumDef[0], 1e-9)
	assert.InDelta(t, 1.0103440, tab.HcRad[0], 1e-12)
	assert.InDelta(t, 320.5327, tab.HcLon[0], 1e-9)
	assert.InDelta(t, 0.002480447, tab.GcRad[0], 1e-12)
	assert.InDelta(t, 144.4087700, tab.GcLon[0], 1e-9)
	assert.InDelta(t, -1.3914217, tab.GcLat[0], 1e-9)
	assert.InDelta(t, 21.63, tab.PhAng[0], 1e-9)
	assert.InDelta(t, 69.183909, tab.DeltaT[0], 1e-9)
}

func TestEphemeridesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such object", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := &HorizonsClient{BaseURL: srv.URL}
	_, err := c.Ephemerides(context.Background(), "nonsense", []float64{2460912.5}, "")
	assert.ErrorIs(t, err, ErrHorizonsStatus)
}

func TestEphemeridesNoEpochs(t *testing.T) {
	c := &HorizonsClient{}
	_, err := c.Ephemerides(context.Background(), "301", nil, "")
	assert.Error(t, err)
}

func TestParseHorizonsMissingMarkers(t *testing.T) {
	_, err := parseHorizons("no table here")
	assert.ErrorIs(t, err, ErrHorizonsParse)

	// A table that never closes.
	body := "Date__(UT)__HR:MN, Date_JDUT,\n$$SOE\n 2025-Aug-25 00:00, 2460912.5,\n"
	_, err = parseHorizons(body)
	assert.ErrorIs(t, err, ErrHorizonsParse)
}

func TestParseHorizonsBadColumnsAreNaN(t *testing.T) {
	body := "Date__(UT)__HR:MN, Date_JDUT, APmag,\n" +
		"$$SOE\n" +
		" 2025-Aug-25 00:00, 2460912.5, n.a.,\n" +
		"$$EOE\n"
	tab, err := parseHorizons(body)
	require.NoError(t, err)
	require.Len(t, tab.Time, 1)
	assert.True(t, math.IsNaN(tab.Mag[0]))
	assert.True(t, math.IsNaN(tab.RA[0]))
	assert.InDelta(t, 2460912.5, tab.JD[0], 1e-9)
}
