// Package text provides small text-formatting helpers.
package text

import "strings"

// WrapLine wraps line to at most wlen characters per line by breaking
// at spaces, indenting continuation lines with indent spaces. Words
// longer than wlen are left unbroken and may overflow.
func WrapLine(line string, wlen, indent int) string {
	r := []rune(line)
	llen := len(r)
	if wlen >= llen {
		return line
	}

	pad := []rune(strings.Repeat(" ", indent))

	i0 := 0    // start of the current output line
	il := wlen // offset of the break candidate
	dl := -1   // search direction
	for {
		if i0+il < len(r) && r[i0+il] == ' ' {
			// Break here: the space becomes a newline plus indentation.
			rep := make([]rune, 0, len(r)+indent)
			rep = append(rep, r[:i0+il]...)
			rep = append(rep, '\n')
			rep = append(rep, pad...)
			rep = append(rep, r[i0+il+1:]...)
			r = rep

			i0 += il + indent
			il = wlen
			if i0+il >= len(r) {
				break
			}
			dl = -1
			continue
		}

		il += dl
		if i0+il > llen {
			break
		}
		if il == indent-1 {
			// No space found searching backward: scan forward past
			// the long word instead.
			i0 += wlen
			dl = +1
		}
	}

	return string(r)
}
