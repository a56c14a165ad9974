package sparse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadEdges feeds a tab-separated edge list into b.
//
// Each line holds two entity names and an optional weight (default 1).
// Blank lines and lines starting with '#' are skipped.
func ReadEdges(r io.Reader, b *Builder) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		line  int
		edges int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 2 || len(fields) > 3 {
			return edges, fmt.Errorf("sparse: line %d: expected 2 or 3 tab-separated fields, got %d", line, len(fields))
		}

		w := float32(1)
		if len(fields) == 3 {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 32)
			if err != nil {
				return edges, fmt.Errorf("sparse: line %d: weight: %w", line, err)
			}
			w = float32(v)
		}

		if err := b.AddPair(strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]), w); err != nil {
			return edges, fmt.Errorf("sparse: line %d: %w", line, err)
		}
		edges++
	}
	if err := sc.Err(); err != nil {
		return edges, fmt.Errorf("sparse: read edges: %w", err)
	}
	return edges, nil
}
