package rsc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// logisimHeader is the literal first line of a v2.0 raw memory image.
const logisimHeader = "v2.0 raw"

// WriteLogisim renders instructions as a bit-exact Logisim "v2.0 raw"
// memory image: a header line followed by one 8-uppercase-hex-digit
// word per line, in ascending address order (§6).
func WriteLogisim(w io.Writer, instructions []uint32) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, logisimHeader); err != nil {
		return err
	}
	for _, word := range instructions {
		if _, err := fmt.Fprintf(bw, "%08X\n", word); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadLogisim parses a "v2.0 raw" memory image back into its word
// vector. Round-tripping WriteLogisim through ReadLogisim must yield
// the same instruction vector (P6).
func ReadLogisim(r io.Reader) ([]uint32, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, fmt.Errorf("rsc: empty logisim image")
	}
	header := strings.TrimSpace(sc.Text())
	if header != logisimHeader {
		return nil, fmt.Errorf("rsc: unrecognized logisim header %q", header)
	}

	var words []uint32
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		val, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("rsc: invalid logisim word %q: %w", line, err)
		}
		words = append(words, uint32(val))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
