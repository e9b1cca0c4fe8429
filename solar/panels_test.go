package solar

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamletTheHamster/sciutil/astroconst"
)

func testSpecs() Specs {
	return Specs{
		Name:          "Zonnig",
		InverterSN:    "2130310138",
		InverterModel: "SB 1300TL-10",
		Timezone:      "UTC",
		Lon:           5 * astroconst.D2R,
		Lat:           52 * astroconst.D2R,
	}
}

// logLine builds one detailed-log row in the SBFspot column layout.
// The logged power columns hold the rounded product I*V, so a test
// can tell the recomputed powers from the logged ones.
func logLine(date, clock string, idc, vdc, iac, vac, eday, etot float64, cond, relay string) string {
	fields := []string{
		date, clock, "SN: 2130310138", "SB 1300TL-10", "2130310138",
		fmt.Sprintf("%.0f", idc*vdc), "0",
		fmt.Sprintf("%.3f", idc), "0.000",
		fmt.Sprintf("%.2f", vdc), "0.00",
		fmt.Sprintf("%.0f", iac*vac), "0", "0",
		fmt.Sprintf("%.3f", iac), "0.000", "0.000",
		fmt.Sprintf("%.2f", vac), "0.00", "0.00",
		fmt.Sprintf("%.0f", idc*vdc), fmt.Sprintf("%.0f", iac*vac), "96.8",
		fmt.Sprintf("%.3f", eday), fmt.Sprintf("%.3f", etot), "50.02",
		"123456", "120000", "80",
		cond, relay, "34.50",
	}
	return strings.Join(fields, ", ")
}

// testLogLines is a short day: two producing rows, one idle evening
// row with the relay open and one row with the inverter off.
func testLogLines() []string {
	return []string{
		logLine("2025-06-21", "06:05:00", 3.456, 210.5, 3.105, 233.2, 0.512, 4321.001, "Ok", "Closed"),
		logLine("2025-06-21", "12:10:00", 4.0, 220.0, 3.8, 230.0, 3.208, 4323.700, "Ok", "Closed"),
		logLine("2025-06-21", "21:20:00", 0, 0, 0, 0, 5.800, 4326.293, "Ok", "Open"),
		logLine("2025-06-21", "22:25:00", 0, 0, 0, 0, 5.800, 4326.293, "Off", "Open"),
	}
}

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detailed-log.csv")
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
	require.NoError(t, err)
	return path
}

func TestReadDetailedLog(t *testing.T) {
	path := writeLog(t, testLogLines())

	l, err := ReadDetailedLog(path, testSpecs())
	require.NoError(t, err)
	require.Len(t, l.Time, 4)

	want := time.Date(2025, 6, 21, 6, 5, 0, 0, time.UTC)
	assert.True(t, l.Time[0].Equal(want), "got %v", l.Time[0])

	// Powers come from I*V, not from the rounded logged columns.
	assert.InDelta(t, 3.456*210.5, l.Pdc[0], 1e-9)
	assert.InDelta(t, 3.105*233.2, l.Pac[0], 1e-9)
	assert.InDelta(t, 880.0, l.Pdc[1], 1e-9)

	assert.InDelta(t, 0.512, l.Eday[0], 1e-9)
	assert.InDelta(t, 4326.293, l.Etot[3], 1e-9)
	assert.InDelta(t, 50.02, l.Freq[2], 1e-9)

	// Status columns are dropped unless asked for.
	assert.Nil(t, l.Cond)
	assert.Nil(t, l.Relay)
	assert.Nil(t, l.Tinv)
	assert.Nil(t, l.SunAz)
}

func TestReadDetailedLogPowerOnly(t *testing.T) {
	path := writeLog(t, testLogLines())

	l, err := ReadDetailedLog(path, testSpecs(), WithPowerOnly(), WithStatus())
	require.NoError(t, err)
	require.Len(t, l.Time, 2)

	for i := range l.Time {
		assert.Greater(t, l.Pdc[i], 0.0)
		assert.Greater(t, l.Pac[i], 0.0)
	}
	assert.Equal(t, 12, l.Time[1].Hour())
	// Status columns go away after filtering on them.
	assert.Nil(t, l.Cond)
	assert.Nil(t, l.Relay)
}

func TestReadDetailedLogStatus(t *testing.T) {
	path := writeLog(t, testLogLines())

	l, err := ReadDetailedLog(path, testSpecs(), WithStatus())
	require.NoError(t, err)
	require.Len(t, l.Cond, 4)
	assert.Equal(t, "Ok", l.Cond[2])
	assert.Equal(t, "Open", l.Relay[2])
	assert.Equal(t, "Off", l.Cond[3])
	assert.InDelta(t, 34.5, l.Tinv[0], 1e-9)
}

func TestReadDetailedLogEnergyOnly(t *testing.T) {
	path := writeLog(t, testLogLines())

	l, err := ReadDetailedLog(path, testSpecs(), WithEnergyOnly())
	require.NoError(t, err)
	require.Len(t, l.Time, 4)

	assert.Nil(t, l.Pdc)
	assert.Nil(t, l.Vac)
	assert.Nil(t, l.Freq)
	assert.InDelta(t, 3.208, l.Eday[1], 1e-9)
	assert.InDelta(t, 4323.7, l.Etot[1], 1e-9)
}

func TestReadDetailedLogLastN(t *testing.T) {
	path := writeLog(t, testLogLines())

	l, err := ReadDetailedLog(path, testSpecs(), WithLastN(2))
	require.NoError(t, err)
	require.Len(t, l.Time, 2)
	assert.Equal(t, 21, l.Time[0].Hour())
	assert.Equal(t, 22, l.Time[1].Hour())

	// The temporary tail file is cleaned up.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadDetailedLogSkipLines(t *testing.T) {
	lines := append([]string{
		"# SBFspot detailed log",
		"# plant Zonnig",
	}, testLogLines()...)
	path := writeLog(t, lines)

	_, err := ReadDetailedLog(path, testSpecs())
	assert.ErrorIs(t, err, ErrBadLog)

	l, err := ReadDetailedLog(path, testSpecs(), WithSkipLines(2))
	require.NoError(t, err)
	assert.Len(t, l.Time, 4)
}

func TestReadDetailedLogSunPosition(t *testing.T) {
	path := writeLog(t, testLogLines())

	l, err := ReadDetailedLog(path, testSpecs(), WithSunPosition())
	require.NoError(t, err)
	require.Len(t, l.SunAlt, 4)
	require.Len(t, l.SunAz, 4)
	require.Len(t, l.SunDist, 4)

	// Solstice noon in the Netherlands: sun high and roughly south.
	assert.Greater(t, l.SunAlt[1], 0.9)
	assert.Less(t, math.Abs(l.SunAz[1]), 0.5)
	assert.InDelta(t, 1.0163, l.SunDist[1], 2e-3)
	// Late evening: below the horizon.
	assert.Less(t, l.SunAlt[3], 0.0)
}

func TestReadDetailedLogVerbose(t *testing.T) {
	path := writeLog(t, testLogLines())

	var buf strings.Builder
	_, err := ReadDetailedLog(path, testSpecs(), WithVerbosity(2), WithWriter(&buf))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Reading")
	assert.Contains(t, buf.String(), "Rows kept: 4")
}

func TestReadDetailedLogErrors(t *testing.T) {
	specs := testSpecs()

	_, err := ReadDetailedLog(filepath.Join(t.TempDir(), "absent.csv"), specs)
	assert.Error(t, err)

	// Wrong column count.
	path := writeLog(t, []string{"2025-06-21, 06:05:00, too, short"})
	_, err = ReadDetailedLog(path, specs)
	assert.ErrorIs(t, err, ErrBadLog)

	// Unparsable number in a numeric column.
	bad := strings.Replace(testLogLines()[0], "50.02", "fifty", 1)
	path = writeLog(t, []string{bad})
	_, err = ReadDetailedLog(path, specs)
	assert.ErrorIs(t, err, ErrBadLog)

	// Unparsable timestamp.
	bad = strings.Replace(testLogLines()[0], "2025-06-21", "21 June 2025", 1)
	path = writeLog(t, []string{bad})
	_, err = ReadDetailedLog(path, specs)
	assert.ErrorIs(t, err, ErrBadLog)

	// Bad options.
	path = writeLog(t, testLogLines())
	_, err = ReadDetailedLog(path, specs, WithLastN(0))
	assert.Error(t, err)
	_, err = ReadDetailedLog(path, specs, WithWriter(nil))
	assert.Error(t, err)

	// Unknown timezone.
	specs.Timezone = "Mars/Olympus_Mons"
	_, err = ReadDetailedLog(path, specs)
	assert.Error(t, err)
}

func TestWriteDayFile(t *testing.T) {
	path := writeLog(t, testLogLines())
	specs := testSpecs()

	l, err := ReadDetailedLog(path, specs, WithPowerOnly())
	require.NoError(t, err)

	dir := t.TempDir()
	out, err := l.WriteDayFile(specs, dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Zonnig-20250621.csv"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want := "sep=;\n" +
		"Version CSV1|Tool SBFspot3.3.1 (Linux)|Linebreaks CR/LF|Delimiter semicolon|Decimalpoint dot|Precision 3\n" +
		"\n" +
		";SN: 2130310138;SN: 2130310138\n" +
		";SB 1300TL-10;SB 1300TL-10\n" +
		";2130310138;2130310138\n" +
		";Total yield;Power\n" +
		";Counter;Analog\n" +
		"yyyy-MM-dd;HH:mm:ss;kWh;kW\n" +
		"2025-06-21;06:05:00;4321.001;0.724\n" +
		"2025-06-21;12:10:00;4323.700;0.874\n"
	assert.Equal(t, want, string(data))
}

func TestWriteDayFileExtension(t *testing.T) {
	path := writeLog(t, testLogLines())
	specs := testSpecs()

	l, err := ReadDetailedLog(path, specs)
	require.NoError(t, err)

	dir := t.TempDir()
	out, err := l.WriteDayFile(specs, dir, "dat")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Zonnig-20250621.dat"))
}

func TestWriteDayFileEmpty(t *testing.T) {
	var buf strings.Builder
	l := &DetailedLog{}
	out, err := l.WriteDayFile(testSpecs(), t.TempDir(), "",
		WithVerbosity(1), WithWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Contains(t, buf.String(), "No data available, no file created.")
}

func TestWriteDayFileNoPower(t *testing.T) {
	path := writeLog(t, testLogLines())
	specs := testSpecs()

	l, err := ReadDetailedLog(path, specs, WithEnergyOnly())
	require.NoError(t, err)

	_, err = l.WriteDayFile(specs, t.TempDir(), "")
	assert.ErrorIs(t, err, ErrNoPowerData)
}

func TestWriteCSV(t *testing.T) {
	path := writeLog(t, testLogLines())

	l, err := ReadDetailedLog(path, testSpecs(), WithPowerOnly())
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, l.WriteCSV(&buf))
	want := "               time;      Pdc;      Pac;       Etot\n" +
		"2025-06-21 06:05:00;  727.488;  724.086;   4321.001\n" +
		"2025-06-21 12:10:00;  880.000;  874.000;   4323.700\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVNoPower(t *testing.T) {
	l := &DetailedLog{Time: []time.Time{time.Now()}}
	assert.ErrorIs(t, l.WriteCSV(&strings.Builder{}), ErrNoPowerData)
}
