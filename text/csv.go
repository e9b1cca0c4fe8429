package text

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Replacements that turn a row format into a header format: every
// numeric verb, C style included, becomes a plain %s of equal width.
var (
	reDotVerb   = regexp.MustCompile(`\.[0-9]*[ifegIFEG]`)
	reDotLong   = regexp.MustCompile(`\.[0-9]*lf`)
	rePlainVerb = regexp.MustCompile(`[dicfegDICFEG]`)
	reZeroFlag  = regexp.MustCompile(`%0*`)
)

// HeaderFormat derives a format string for a header row from the
// format string of the value rows, keeping field widths and
// separators but replacing each numeric verb with %s.
func HeaderFormat(rowFmt string) string {
	h := reDotVerb.ReplaceAllString(rowFmt, "s")
	h = reDotLong.ReplaceAllString(h, "s")
	h = strings.ReplaceAll(h, "lf", "s")
	h = strings.ReplaceAll(h, "LF", "s")
	h = rePlainVerb.ReplaceAllString(h, "s")
	h = reZeroFlag.ReplaceAllString(h, "%")
	return h
}

// WriteFormattedCSV writes a table with one Fprintf-style format for
// all value rows and a derived format for the header, so columns line
// up with their headings. rowFmt should not end in a newline; one is
// added per row.
func WriteFormattedCSV(w io.Writer, rowFmt string, header []string, rows [][]any) error {
	rowFmt += "\n"

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if _, err := fmt.Fprintf(w, HeaderFormat(rowFmt), hdr...); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, rowFmt, row...); err != nil {
			return err
		}
	}
	return nil
}
