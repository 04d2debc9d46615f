package qrtexture

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gputypes"
	"github.com/google/uuid"

	"github.com/gogpu/qrtexture/internal/compose"
	intImage "github.com/gogpu/qrtexture/internal/image"
	"github.com/gogpu/qrtexture/matrix"
	"github.com/gogpu/qrtexture/schedule"
)

// ErrorCorrection is the QR error-correction level. Ordinals are stable.
type ErrorCorrection = matrix.Level

// Error-correction levels.
const (
	ErrorCorrectionLow      = matrix.LevelLow
	ErrorCorrectionMedium   = matrix.LevelMedium
	ErrorCorrectionQuartile = matrix.LevelQuartile
	ErrorCorrectionHigh     = matrix.LevelHigh
)

// Format is the pixel format of the published buffer.
type Format = intImage.Format

// Pixel formats a Texture publishes.
const (
	FormatGray8 = intImage.FormatGray8
	FormatRGB8  = intImage.FormatRGB8
)

// Texture renders a QR code into a pixel buffer and keeps it in sync with
// its parameters.
//
// Setters record the new value and request a regeneration; any number of
// setter calls before the owner's next idle point result in a single
// regeneration reflecting the final values. A Texture is not safe for
// concurrent use: setters, Update and the scheduler's callbacks must all
// run on the owner goroutine.
type Texture struct {
	rid      uuid.UUID
	provider matrix.Provider
	queue    *schedule.IdleQueue // nil when an external scheduler is used
	update   *schedule.Coalescer
	onError  func(error)

	text      string
	level     ErrorCorrection
	border    int
	maxBorder int
	colors    bool
	fg, bg    Color
	flags     Flags

	// formatChanged forces a fresh buffer on the next regeneration.
	formatChanged bool

	buf     *intImage.ImageBuf
	grid    *matrix.Grid
	err     error
	version uint64

	observers []observer
	nextID    int
	closed    bool
}

type observer struct {
	id int
	fn func(*Texture)
}

// New creates a Texture and regenerates it once synchronously, so the
// buffer for the initial parameters is available immediately. If that
// fails the texture is empty and Err reports why.
func New(opts ...Option) *Texture {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Texture{
		rid:       uuid.New(),
		provider:  o.provider,
		onError:   o.onError,
		text:      o.text,
		maxBorder: o.maxBorder,
		colors:    o.colors,
		fg:        o.fg,
		bg:        o.bg,
		flags:     o.flags & FlagsDefault,
	}
	t.level = normalizeLevel(o.level)
	t.border = t.clampBorder(o.border)

	d := o.scheduler
	if d == nil {
		t.queue = &schedule.IdleQueue{}
		d = t.queue
	}
	t.update = schedule.NewCoalescer(d, func() { _ = t.Update() })

	_ = t.Update()
	Logger().Debug("qrtexture: created", "rid", t.rid, "width", t.Width())
	return t
}

// Flush runs regenerations deferred to the texture's own idle queue and
// returns how many callbacks ran. With WithScheduler it does nothing; the
// external scheduler decides when the idle point is.
func (t *Texture) Flush() int {
	if t.queue == nil {
		return 0
	}
	return t.queue.Flush()
}

// Pending reports whether a regeneration is scheduled.
func (t *Texture) Pending() bool {
	return t.update.Pending()
}

func (t *Texture) requestUpdate() {
	if t.closed {
		return
	}
	t.update.Request()
}

// SetText sets the payload.
func (t *Texture) SetText(text string) {
	t.text = text
	t.requestUpdate()
}

// Text returns the payload.
func (t *Texture) Text() string {
	return t.text
}

// SetErrorCorrection sets the error-correction level. Out-of-range values
// select Medium.
func (t *Texture) SetErrorCorrection(ec ErrorCorrection) {
	t.level = normalizeLevel(ec)
	t.requestUpdate()
}

// ErrorCorrection returns the error-correction level.
func (t *Texture) ErrorCorrection() ErrorCorrection {
	return t.level
}

// SetBorder sets the border width in modules. Negative values clamp to 0,
// and values above the WithMaxBorder limit clamp to the limit.
func (t *Texture) SetBorder(border int) {
	t.border = t.clampBorder(border)
	t.requestUpdate()
}

// Border returns the border width in modules.
func (t *Texture) Border() int {
	return t.border
}

// SetColorsEnabled switches between Gray8 black-on-white output and RGB8
// output using the foreground and background colors. Setting the current
// value is a no-op.
func (t *Texture) SetColorsEnabled(enabled bool) {
	if t.colors == enabled {
		return
	}
	t.colors = enabled
	t.formatChanged = true
	t.requestUpdate()
}

// ColorsEnabled reports whether color mode is on.
func (t *Texture) ColorsEnabled() bool {
	return t.colors
}

// SetForegroundColor sets the color of dark modules in color mode.
func (t *Texture) SetForegroundColor(c Color) {
	t.fg = c
	t.requestUpdate()
}

// ForegroundColor returns the color of dark modules in color mode.
func (t *Texture) ForegroundColor() Color {
	return t.fg
}

// SetBackgroundColor sets the color of light modules and the border in
// color mode.
func (t *Texture) SetBackgroundColor(c Color) {
	t.bg = c
	t.requestUpdate()
}

// BackgroundColor returns the color of light modules and the border in
// color mode.
func (t *Texture) BackgroundColor() Color {
	return t.bg
}

// SetFlags sets the sampling flags and notifies observers. The pixel buffer
// is not regenerated.
func (t *Texture) SetFlags(f Flags) {
	if t.closed {
		return
	}
	t.flags = f & FlagsDefault
	t.notify()
}

// Flags returns the sampling flags.
func (t *Texture) Flags() Flags {
	return t.flags
}

// Update regenerates the buffer from the current parameters immediately.
//
// On success the new buffer is published and observers are notified. If the
// provider rejects the payload, or the border would make the buffer wider
// than MaxSide, the previous buffer stays published, Err returns the failure,
// the error handler is called and observers are not notified.
func (t *Texture) Update() error {
	if t.closed {
		return ErrClosed
	}

	grid, err := t.provider.Encode(t.text, t.level)
	if err != nil {
		return t.fail(err)
	}

	res, err := compose.Composite(t.buf, grid, compose.Params{
		Border:        t.border,
		Color:         t.colors,
		Foreground:    t.fg.pixel(),
		Background:    t.bg.pixel(),
		FormatChanged: t.formatChanged,
	})
	if err != nil {
		return t.fail(err)
	}

	t.buf = res.Buf
	t.grid = grid
	t.formatChanged = false
	t.err = nil
	t.version++

	Logger().Debug("qrtexture: regenerated",
		"rid", t.rid,
		"modules", grid.Size(),
		"side", res.Buf.Width(),
		"format", res.Buf.Format(),
		"reallocated", res.Reallocated,
	)
	t.notify()
	return nil
}

func (t *Texture) fail(err error) error {
	t.err = err
	Logger().Warn("qrtexture: regeneration failed",
		"rid", t.rid,
		"level", t.level,
		"text_len", len(t.text),
		"err", err,
	)
	if t.onError != nil {
		t.onError(err)
	}
	return err
}

// Err returns the error from the most recent regeneration, or nil if it
// succeeded.
func (t *Texture) Err() error {
	return t.err
}

// Version increases by one every time a new buffer is published.
func (t *Texture) Version() uint64 {
	return t.version
}

// Subscribe registers fn to be called after every published change, in
// subscription order. The returned function removes the subscription.
func (t *Texture) Subscribe(fn func(*Texture)) (cancel func()) {
	if fn == nil || t.closed {
		return func() {}
	}
	t.nextID++
	id := t.nextID
	t.observers = append(t.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range t.observers {
			if o.id == id {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

func (t *Texture) notify() {
	for _, o := range t.observers {
		o.fn(t)
	}
}

// Close cancels any pending regeneration and drops all observers. Later
// setters are ignored and Update returns ErrClosed. The last published
// buffer stays readable.
func (t *Texture) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.update.Stop()
	t.observers = nil
}

// RID returns the identifier assigned to the texture at creation.
func (t *Texture) RID() uuid.UUID {
	return t.rid
}

// Width returns the published buffer width in pixels, or 0 when empty.
func (t *Texture) Width() int {
	if t.buf == nil {
		return 0
	}
	return t.buf.Width()
}

// Height returns the published buffer height in pixels, or 0 when empty.
func (t *Texture) Height() int {
	if t.buf == nil {
		return 0
	}
	return t.buf.Height()
}

// Size returns the published buffer dimensions.
func (t *Texture) Size() (width, height int) {
	return t.Width(), t.Height()
}

// Modules returns the side length of the published module grid, or 0.
func (t *Texture) Modules() int {
	if t.grid == nil {
		return 0
	}
	return t.grid.Size()
}

// Grid returns the module grid behind the published buffer, or nil.
func (t *Texture) Grid() *matrix.Grid {
	return t.grid
}

// Format returns the format of the published buffer. Before the first
// successful regeneration it reports the format the current color mode
// would produce.
func (t *Texture) Format() Format {
	if t.buf != nil {
		return t.buf.Format()
	}
	if t.colors {
		return FormatRGB8
	}
	return FormatGray8
}

// HasAlpha is always false: both formats are opaque.
func (t *Texture) HasAlpha() bool {
	return false
}

// Data returns the published pixels, tightly packed row by row. The slice
// must not be modified and is only valid until the next change
// notification.
func (t *Texture) Data() []byte {
	if t.buf == nil {
		return nil
	}
	return t.buf.Data()
}

// RGBA returns a copy of the published pixels expanded to opaque RGBA.
func (t *Texture) RGBA() []byte {
	if t.buf == nil {
		return nil
	}
	return t.buf.ExpandRGBA()
}

// Image returns a copy of the published buffer as an *image.Gray or
// *image.NRGBA. An empty texture yields an empty *image.Gray.
func (t *Texture) Image() image.Image {
	if t.buf == nil {
		return image.NewGray(image.Rectangle{})
	}
	return t.buf.ToStdImage()
}

// TextureDescriptor describes a GPU texture able to hold the published
// buffer. Gray8 maps to R8Unorm; RGB8 has no GPU equivalent and maps to
// RGBA8Unorm, see RGBA.
func (t *Texture) TextureDescriptor() gputypes.TextureDescriptor {
	format := gputypes.TextureFormatR8Unorm
	if t.Format() == FormatRGB8 {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureDescriptor{
		Label: "qrtexture-" + t.rid.String(),
		Size: gputypes.Extent3D{
			Width:              uint32(t.Width()),
			Height:             uint32(t.Height()),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: t.flags.MipLevelCount(t.Width()),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	}
}

// scaled returns the published buffer enlarged by factor.
func (t *Texture) scaled(factor int) (*intImage.ImageBuf, error) {
	if t.buf == nil {
		return nil, fmt.Errorf("qrtexture: nothing published: %w", t.emptyReason())
	}
	if factor <= 1 {
		return t.buf, nil
	}
	return t.buf.Scale(factor)
}

func (t *Texture) emptyReason() error {
	if t.err != nil {
		return t.err
	}
	return ErrClosed
}

// WritePNG encodes the published buffer, enlarged by scale, as PNG.
func (t *Texture) WritePNG(w io.Writer, scale int) error {
	buf, err := t.scaled(scale)
	if err != nil {
		return err
	}
	return buf.EncodePNG(w)
}

// WriteBMP encodes the published buffer, enlarged by scale, as BMP.
func (t *Texture) WriteBMP(w io.Writer, scale int) error {
	buf, err := t.scaled(scale)
	if err != nil {
		return err
	}
	return buf.EncodeBMP(w)
}

// Save writes the published buffer to path. The extension (.png or .bmp)
// selects the encoding.
func (t *Texture) Save(path string, scale int) error {
	buf, err := t.scaled(scale)
	if err != nil {
		return err
	}
	if err := buf.Save(path); err != nil {
		return fmt.Errorf("qrtexture: save %s: %w", path, err)
	}
	return nil
}

func normalizeLevel(ec ErrorCorrection) ErrorCorrection {
	if !ec.Valid() {
		return ErrorCorrectionMedium
	}
	return ec
}

func (t *Texture) clampBorder(border int) int {
	border = max(border, 0)
	if t.maxBorder >= 0 {
		border = min(border, t.maxBorder)
	}
	return border
}
