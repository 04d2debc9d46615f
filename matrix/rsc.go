package matrix

import (
	"fmt"

	"rsc.io/qr"
)

// RSC encodes with rsc.io/qr.
//
// It picks the smallest numeric, alphanumeric or byte encoding for the whole
// payload and the smallest version that fits. Empty text yields a version 1
// symbol.
type RSC struct{}

// Encode implements Provider.
func (RSC) Encode(text string, level Level) (*Grid, error) {
	l, err := rscLevel(level)
	if err != nil {
		return nil, err
	}
	code, err := qr.Encode(text, l)
	if err != nil {
		return nil, encodingError(text, level, err)
	}
	return NewGrid(code.Size, code.Black)
}

func rscLevel(level Level) (qr.Level, error) {
	switch level {
	case LevelLow:
		return qr.L, nil
	case LevelMedium:
		return qr.M, nil
	case LevelQuartile:
		return qr.Q, nil
	case LevelHigh:
		return qr.H, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
}
