package level

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Tile addresses a cell of the tileset texture by row and column.
type Tile struct {
	Row int
	Col int
}

// ParseTilemap reads rows*cols tiles. Each tile is two digits, the tileset
// row followed by the column, and tiles are separated by commas.
func ParseTilemap(r io.Reader, rows, cols int) ([][]Tile, error) {
	sc := bufio.NewScanner(r)
	out := make([][]Tile, 0, rows)
	for len(out) < rows && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < cols {
			return nil, fmt.Errorf("tilemap row %d: %d tiles, want %d", len(out), len(fields), cols)
		}
		row := make([]Tile, cols)
		for x := 0; x < cols; x++ {
			f := strings.TrimSpace(fields[x])
			if len(f) != 2 || !isDigit(f[0]) || !isDigit(f[1]) {
				return nil, fmt.Errorf("tilemap row %d col %d: bad tile %q", len(out), x, f)
			}
			row[x] = Tile{Row: int(f[0] - '0'), Col: int(f[1] - '0')}
		}
		out = append(out, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) < rows {
		return nil, fmt.Errorf("tilemap: %d rows, want %d", len(out), rows)
	}
	return out, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
