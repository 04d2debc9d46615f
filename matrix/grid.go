package matrix

import (
	"fmt"
	"strings"
)

// Grid is an immutable square matrix of QR modules.
//
// A Grid is produced by a Provider and never modified afterwards; a new
// encoding always yields a new Grid. Dark modules are "set".
type Grid struct {
	size int
	dark []bool
}

// NewGrid builds a size x size grid by sampling dark for every module.
func NewGrid(size int, dark func(x, y int) bool) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidGrid, size)
	}
	g := &Grid{size: size, dark: make([]bool, size*size)}
	for y := range size {
		for x := range size {
			g.dark[y*size+x] = dark(x, y)
		}
	}
	return g, nil
}

// GridFromRows builds a grid from row-major booleans, rows[y][x].
// The rows must form a non-empty square.
func GridFromRows(rows [][]bool) (*Grid, error) {
	size := len(rows)
	for y, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d modules, want %d", ErrInvalidGrid, y, len(row), size)
		}
	}
	return NewGrid(size, func(x, y int) bool { return rows[y][x] })
}

// ParseGrid builds a grid from text rows where '#' or 'X' marks a dark module
// and any other byte a light one. Handy for fixtures.
func ParseGrid(rows ...string) (*Grid, error) {
	size := len(rows)
	for y, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d modules, want %d", ErrInvalidGrid, y, len(row), size)
		}
	}
	return NewGrid(size, func(x, y int) bool {
		c := rows[y][x]
		return c == '#' || c == 'X'
	})
}

// Size returns the number of modules on a side.
func (g *Grid) Size() int {
	return g.size
}

// Dark reports whether the module at (x, y) is set.
// Coordinates outside the grid are light.
func (g *Grid) Dark(x, y int) bool {
	if x < 0 || x >= g.size || y < 0 || y >= g.size {
		return false
	}
	return g.dark[y*g.size+x]
}

// DarkCount returns the number of set modules.
func (g *Grid) DarkCount() int {
	n := 0
	for _, d := range g.dark {
		if d {
			n++
		}
	}
	return n
}

// String renders the grid with '#' for dark and '.' for light modules,
// one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.size * (g.size + 1))
	for y := range g.size {
		for x := range g.size {
			if g.dark[y*g.size+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
