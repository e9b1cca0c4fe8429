package ephem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultHorizonsURL is the public JPL Horizons API endpoint.
const DefaultHorizonsURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

// Geocentre is the Horizons observer code for the centre of the Earth.
const Geocentre = "500@399"

// Observer quantities requested from Horizons: astrometric and
// apparent RA/dec, visual magnitude, illumination, heliocentric and
// geocentric ecliptic coordinates, ranges, phase angle and delta-T.
const horizonsQuantities = "30,18,19,31,20,39,1,2,36,43,10,11,9"

var (
	// ErrHorizonsStatus flags a non-200 response from the service.
	ErrHorizonsStatus = errors.New("ephem: horizons request failed")
	// ErrHorizonsParse flags a response the parser cannot make sense of.
	ErrHorizonsParse = errors.New("ephem: cannot parse horizons response")
)

// HorizonsClient queries the JPL Horizons API for observer
// ephemerides. The zero value uses the public endpoint and
// http.DefaultClient.
type HorizonsClient struct {
	BaseURL    string       // defaults to DefaultHorizonsURL
	HTTPClient *http.Client // defaults to http.DefaultClient
}

// Table holds observer ephemerides as parallel columns. Angles are in
// degrees, distances in AU. Columns the service did not return hold
// NaN.
type Table struct {
	Time   []time.Time // UT epoch per row
	JD     []float64   // Julian day (UT)
	DeltaT []float64   // TDB-UT (s)

	HcLon, HcLat []float64 // heliocentric ecliptic lon/lat of the target
	HcRad        []float64 // heliocentric range (AU)
	GcLon, GcLat []float64 // observer-centred ecliptic lon/lat
	GcRad        []float64 // observer range (AU)

	RA, Dec       []float64 // astrometric ICRF (deg)
	RAApp, DecApp []float64 // apparent, airless (deg)

	PhAng    []float64 // phase angle (deg)
	Illum    []float64 // illuminated fraction (%)
	IllumDef []float64 // defect of illumination (arcsec)
	Mag      []float64 // apparent visual magnitude
}

// Ephemerides fetches observer ephemerides of the object for the
// given Julian days. obj is a Horizons target such as "301" for the
// Moon or "499" for Mars; an empty observer means the geocentre.
func (c *HorizonsClient) Ephemerides(ctx context.Context, obj string, jds []float64, observer string) (*Table, error) {
	if len(jds) == 0 {
		return nil, fmt.Errorf("%w: no epochs", ErrHorizonsStatus)
	}
	if observer == "" {
		observer = Geocentre
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultHorizonsURL
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	tlist := make([]string, len(jds))
	for i, jd := range jds {
		tlist[i] = strconv.FormatFloat(jd, 'f', -1, 64)
	}

	q := url.Values{}
	q.Set("format", "text")
	q.Set("COMMAND", quote(obj))
	q.Set("OBJ_DATA", quote("NO"))
	q.Set("MAKE_EPHEM", quote("YES"))
	q.Set("EPHEM_TYPE", quote("OBSERVER"))
	q.Set("CENTER", quote(observer))
	q.Set("TLIST", quote(strings.Join(tlist, " ")))
	q.Set("QUANTITIES", quote(horizonsQuantities))
	q.Set("CSV_FORMAT", quote("YES"))
	q.Set("ANG_FORMAT", quote("DEG"))
	q.Set("EXTRA_PREC", quote("YES"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("ephem: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ephem: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("ephem: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrHorizonsStatus, resp.Status)
	}

	return parseHorizons(string(body))
}

func quote(s string) string { return "'" + s + "'" }

// parseHorizons extracts the CSV table between the $$SOE and $$EOE
// markers of a Horizons text response, using the header line above
// the table to locate the columns.
func parseHorizons(body string) (*Table, error) {
	lines := strings.Split(body, "\n")

	soe := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "$$SOE") {
			soe = i
			break
		}
	}
	if soe < 0 {
		return nil, fmt.Errorf("%w: no $$SOE marker", ErrHorizonsParse)
	}

	// The column header is the last comma-separated line before the
	// separator above $$SOE.
	hdr := ""
	for i := soe - 1; i >= 0 && i >= soe-5; i-- {
		if strings.Contains(lines[i], ",") {
			hdr = lines[i]
			break
		}
	}
	if hdr == "" {
		return nil, fmt.Errorf("%w: no column header", ErrHorizonsParse)
	}

	cols := splitCSV(hdr)
	find := func(names ...string) int {
		for _, n := range names {
			for i, c := range cols {
				if c == n {
					return i
				}
			}
		}
		return -1
	}

	idx := map[string]int{
		"date":      find("Date__(UT)__HR:MN", "Date__(UT)__HR:MN:SC.fff", "Date__(UT)__HR:MN:SC"),
		"jd":        find("Date_JDUT"),
		"deltat":    find("TDB-UT"),
		"hclon":     find("hEcl-Lon", "hELon"),
		"hclat":     find("hEcl-Lat", "hELat"),
		"hcrad":     find("r"),
		"gclon":     find("ObsEcLon"),
		"gclat":     find("ObsEcLat"),
		"gcrad":     find("delta"),
		"ra":        find("R.A._(ICRF)", "R.A._____(ICRF)_____DEC", "R.A._(ICRF/J2000.0)"),
		"dec":       find("DEC_(ICRF)", "DEC__(ICRF)"),
		"raapp":     find("R.A._(a-app)", "R.A._(a-appar)"),
		"decapp":    find("DEC_(a-app)", "DEC_(a-appar)"),
		"phang":     find("phi", "phase_angle", "S-T-O"),
		"illum":     find("Illu%"),
		"illumdef":  find("Def_illu"),
		"mag":       find("APmag"),
	}
	if idx["date"] < 0 {
		return nil, fmt.Errorf("%w: no date column", ErrHorizonsParse)
	}

	tab := &Table{}
	for _, l := range lines[soe+1:] {
		if strings.HasPrefix(l, "$$EOE") {
			return tab, nil
		}
		if strings.TrimSpace(l) == "" {
			continue
		}
		row := splitCSV(l)

		tm, err := parseHorizonsTime(row, idx["date"])
		if err != nil {
			return nil, err
		}
		tab.Time = append(tab.Time, tm)

		cell := func(key string) float64 {
			i := idx[key]
			if i < 0 || i >= len(row) {
				return math.NaN()
			}
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return math.NaN()
			}
			return v
		}
		tab.JD = append(tab.JD, cell("jd"))
		tab.DeltaT = append(tab.DeltaT, cell("deltat"))
		tab.HcLon = append(tab.HcLon, cell("hclon"))
		tab.HcLat = append(tab.HcLat, cell("hclat"))
		tab.HcRad = append(tab.HcRad, cell("hcrad"))
		tab.GcLon = append(tab.GcLon, cell("gclon"))
		tab.GcLat = append(tab.GcLat, cell("gclat"))
		tab.GcRad = append(tab.GcRad, cell("gcrad"))
		tab.RA = append(tab.RA, cell("ra"))
		tab.Dec = append(tab.Dec, cell("dec"))
		tab.RAApp = append(tab.RAApp, cell("raapp"))
		tab.DecApp = append(tab.DecApp, cell("decapp"))
		tab.PhAng = append(tab.PhAng, cell("phang"))
		tab.Illum = append(tab.Illum, cell("illum"))
		tab.IllumDef = append(tab.IllumDef, cell("illumdef"))
		tab.Mag = append(tab.Mag, cell("mag"))
	}
	return nil, fmt.Errorf("%w: no $$EOE marker", ErrHorizonsParse)
}

// Epoch formats used in Horizons CSV output.
var horizonsTimeLayouts = []string{
	"2006-Jan-02 15:04:05.000",
	"2006-Jan-02 15:04:05",
	"2006-Jan-02 15:04",
}

func parseHorizonsTime(row []string, i int) (time.Time, error) {
	if i >= len(row) {
		return time.Time{}, fmt.Errorf("%w: short row", ErrHorizonsParse)
	}
	s := row[i]
	for _, layout := range horizonsTimeLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: epoch %q", ErrHorizonsParse, s)
}

func splitCSV(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
