package qrtexture

import (
	"github.com/gogpu/qrtexture/matrix"
	"github.com/gogpu/qrtexture/schedule"
)

// Option configures a Texture during creation.
//
// Example:
//
//	// Defaults: empty text, Medium, border 2, black on white
//	tex := qrtexture.New()
//
//	// Colored code regenerated on an application loop
//	tex := qrtexture.New(
//	    qrtexture.WithScheduler(loop),
//	    qrtexture.WithText("https://example.org"),
//	    qrtexture.WithColors(qrtexture.RGB8(0x20, 0x20, 0x80), qrtexture.White),
//	)
type Option func(*options)

// options holds optional configuration for Texture creation.
type options struct {
	provider  matrix.Provider
	scheduler schedule.Deferrer
	onError   func(error)

	text      string
	level     ErrorCorrection
	border    int
	maxBorder int
	colors    bool
	fg, bg    Color
	flags     Flags
}

// defaultOptions returns the parameters a new Texture starts with.
func defaultOptions() options {
	return options{
		provider:  matrix.RSC{},
		level:     ErrorCorrectionMedium,
		border:    2,
		maxBorder: -1,
		fg:        Black,
		bg:        White,
		flags:     FlagsDefault,
	}
}

// WithProvider sets the module matrix provider. The default is matrix.RSC.
func WithProvider(p matrix.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithScheduler defers regeneration through d instead of the texture's own
// idle queue. d must run callbacks on the goroutine that owns the texture,
// typically a schedule.Loop.
func WithScheduler(d schedule.Deferrer) Option {
	return func(o *options) {
		o.scheduler = d
	}
}

// WithErrorHandler registers fn to receive regeneration failures.
// fn runs on the owner goroutine after the failure has been recorded.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithText sets the initial payload.
func WithText(text string) Option {
	return func(o *options) {
		o.text = text
	}
}

// WithErrorCorrection sets the initial error-correction level.
func WithErrorCorrection(ec ErrorCorrection) Option {
	return func(o *options) {
		o.level = ec
	}
}

// WithBorder sets the initial border width in modules.
func WithBorder(border int) Option {
	return func(o *options) {
		o.border = border
	}
}

// WithMaxBorder caps the border width. By default there is no upper bound.
// Negative values remove the cap.
func WithMaxBorder(limit int) Option {
	return func(o *options) {
		o.maxBorder = limit
	}
}

// WithColors enables color mode with the given foreground and background.
func WithColors(fg, bg Color) Option {
	return func(o *options) {
		o.colors = true
		o.fg = fg
		o.bg = bg
	}
}

// WithFlags sets the initial sampling flags.
func WithFlags(f Flags) Option {
	return func(o *options) {
		o.flags = f
	}
}
