package matrix

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Skip2 encodes with github.com/skip2/go-qrcode.
//
// It optimises segment modes and evaluates all eight masks, so symbols
// usually scan more reliably than RSC output. It rejects empty text.
type Skip2 struct{}

// Encode implements Provider.
func (Skip2) Encode(text string, level Level) (*Grid, error) {
	l, err := skip2Level(level)
	if err != nil {
		return nil, err
	}
	q, err := qrcode.New(text, l)
	if err != nil {
		return nil, encodingError(text, level, err)
	}
	// The quiet zone is the texture's border, not the encoder's.
	q.DisableBorder = true
	return GridFromRows(q.Bitmap())
}

// skip2 names its levels Low, Medium, High, Highest for L, M, Q, H.
func skip2Level(level Level) (qrcode.RecoveryLevel, error) {
	switch level {
	case LevelLow:
		return qrcode.Low, nil
	case LevelMedium:
		return qrcode.Medium, nil
	case LevelQuartile:
		return qrcode.High, nil
	case LevelHigh:
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
}
