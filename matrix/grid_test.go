package matrix

import (
	"errors"
	"testing"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(3, func(x, y int) bool { return x == y })
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}
	if g.DarkCount() != 3 {
		t.Errorf("DarkCount() = %d, want 3", g.DarkCount())
	}
	if want := "#..\n.#.\n..#\n"; g.String() != want {
		t.Errorf("String() = %q, want %q", g.String(), want)
	}
	if g.Dark(-1, 0) || g.Dark(3, 3) {
		t.Error("out-of-range modules must be light")
	}

	if _, err := NewGrid(0, nil); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("NewGrid(0) error = %v, want ErrInvalidGrid", err)
	}
}

func TestGridFromRows(t *testing.T) {
	g, err := GridFromRows([][]bool{{true, false}, {false, false}})
	if err != nil {
		t.Fatalf("GridFromRows() error = %v", err)
	}
	if !g.Dark(0, 0) || g.Dark(1, 0) {
		t.Error("GridFromRows() modules do not match input")
	}

	tests := []struct {
		name string
		rows [][]bool
	}{
		{"empty", nil},
		{"ragged", [][]bool{{true, false}, {true}}},
		{"wide", [][]bool{{true, false, true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GridFromRows(tt.rows); !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("GridFromRows() error = %v, want ErrInvalidGrid", err)
			}
		})
	}
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid(
		"#.X",
		"...",
		"X.#",
	)
	if err != nil {
		t.Fatalf("ParseGrid() error = %v", err)
	}
	if g.DarkCount() != 4 {
		t.Errorf("DarkCount() = %d, want 4", g.DarkCount())
	}
	if _, err := ParseGrid("#", ".."); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("ParseGrid(ragged) error = %v, want ErrInvalidGrid", err)
	}
}
