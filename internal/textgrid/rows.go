// Package textgrid reads whitespace-delimited numeric text files, the format
// shared by the trajectory, obstacle and activity inputs.
package textgrid

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/wormvis/internal/vizerr"
)

// maxLineBytes bounds a single row. Trajectory rows hold three columns per
// segment, so rows of a few hundred kilobytes are normal.
const maxLineBytes = 16 * 1024 * 1024

// RowFunc receives the 1-based line number and the parsed values of a row.
// The values slice is reused between calls.
type RowFunc func(line int, vals []float64) error

// Scan parses every non-blank row of r as floats and hands it to fn. Text
// after '#' is a comment. "nan" and "inf" tokens parse to the IEEE values so
// missing samples survive as NaN. Any other non-numeric token is malformed
// input; name is used in error messages.
func Scan(r io.Reader, name string, fn RowFunc) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var vals []float64
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		vals = vals[:0]
		for col, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return vizerr.Malformed(name, line, "column %d: non-numeric token %q", col, tok)
			}
			vals = append(vals, v)
		}
		if err := fn(line, vals); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return vizerr.Malformed(name, line+1, "read: %v", err)
	}
	return nil
}
