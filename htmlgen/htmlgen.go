// Package htmlgen writes the skeleton of simple HTML status pages,
// the kind that a cron job regenerates every few minutes.
package htmlgen

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// PageOptions configures the head section written by StartPage. Zero
// values drop the corresponding lines; an empty Lang means "en".
type PageOptions struct {
	FileName string // page file name, used as the refresh target
	Lang     string
	Title    string

	Icon string // path to an icon file
	CSS  string // path to a style sheet

	Author         string // author meta line, skipped when empty
	CopyrightStart int    // first copyright year; 0 means the current year

	RefreshMinutes int               // page refresh period; 0 = no refresh
	Meta           map[string]string // extra meta properties, written in key order
}

// StartPage writes the doctype, the head section and the body-open
// tag of a page.
func StartPage(w io.Writer, o PageOptions) error {
	lang := o.Lang
	if lang == "" {
		lang = "en"
	}
	title := o.Title
	if title == "" {
		title = "Page title"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE HTML>\n")
	fmt.Fprintf(&b, "<html lang=\"%s\">\n", lang)

	b.WriteString("  <head>\n")
	b.WriteString("    <meta http-equiv=\"Content-Type\" content=\"text/html;charset=utf-8\">\n")

	if o.RefreshMinutes > 0 {
		// An index page refreshes to its directory, which keeps the
		// URL clean.
		url := o.FileName
		if url == "index.html" {
			url = "."
		}
		fmt.Fprintf(&b, "    <meta content=\"%d; URL=%s\" http-equiv=\"Refresh\">\n",
			o.RefreshMinutes*60, url)
	}
	if o.Icon != "" {
		fmt.Fprintf(&b, "    <link rel=\"icon\" href=\"%s\">\n", o.Icon)
	}
	if o.CSS != "" {
		fmt.Fprintf(&b, "    <link rel=\"stylesheet\" type=\"text/css\" href=\"%s\">\n", o.CSS)
	}
	fmt.Fprintf(&b, "    <title>%s</title>\n", title)

	if o.Author != "" {
		year := timeNow().Year()
		if o.CopyrightStart == 0 || o.CopyrightStart == year {
			fmt.Fprintf(&b, "    <meta name=\"author\" content=\"(c) %d %s\">\n",
				year, o.Author)
		} else {
			fmt.Fprintf(&b, "    <meta name=\"author\" content=\"(c) %d-%d %s\">\n",
				o.CopyrightStart, year, o.Author)
		}
	}

	keys := make([]string, 0, len(o.Meta))
	for k := range o.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "    <meta property=\"%s\" content=\"%s\">\n", k, o.Meta[k])
	}

	b.WriteString("  </head>\n")
	b.WriteString("  \n")
	b.WriteString("  <body>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// EndPage closes the body and html tags opened by StartPage.
func EndPage(w io.Writer) error {
	_, err := io.WriteString(w, "  </body>\n</html>\n")
	return err
}
