package qrtexture

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/qrtexture/matrix"
)

// Property names exposed through Properties, Get and Set.
const (
	PropText            = "text"
	PropErrorCorrection = "error_correction"
	PropBorder          = "border"
	PropEnableColors    = "enable_colors"
	PropBackgroundColor = "background_color"
	PropForegroundColor = "foreground_color"
)

// Kind is the value type of a property.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindColor
)

var kindNames = [...]string{"string", "int", "bool", "color"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Hint tells an editor how to present a property.
type Hint uint8

const (
	HintNone Hint = iota
	// HintEnum: HintString lists the names of values 0, 1, 2, ...
	HintEnum
	// HintRange: HintString is "min,max,step[,or_greater]".
	HintRange
)

// Usage describes where a property is shown or stored.
type Usage uint32

const (
	UsageStorage Usage = 1 << (iota + 1)
	UsageEditor
	UsageInternal

	// UsageDefault is stored and shown in editors.
	UsageDefault = UsageStorage | UsageEditor
	// UsageNoEditor is stored but hidden from editors.
	UsageNoEditor = UsageStorage
)

// Editable reports whether an editor should show the property.
func (u Usage) Editable() bool {
	return u&UsageEditor != 0 && u&UsageInternal == 0
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PropertyInfo describes one configurable parameter.
type PropertyInfo struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	Hint       Hint   `json:"hint"`
	HintString string `json:"hint_string,omitempty"`
	Usage      Usage  `json:"usage"`
}

var propertyList = [...]PropertyInfo{
	{Name: PropText, Kind: KindString, Usage: UsageDefault},
	{Name: PropErrorCorrection, Kind: KindInt, Hint: HintEnum, HintString: "Low,Medium,Quartile,High", Usage: UsageDefault},
	{Name: PropBorder, Kind: KindInt, Hint: HintRange, HintString: "0,10,1,or_greater", Usage: UsageDefault},
	{Name: PropEnableColors, Kind: KindBool, Usage: UsageDefault},
	{Name: PropBackgroundColor, Kind: KindColor, Usage: UsageDefault},
	{Name: PropForegroundColor, Kind: KindColor, Usage: UsageDefault},
}

// ColorVisibility returns the usage of the foreground and background color
// properties for the given color mode. It depends on nothing else.
func ColorVisibility(colorModeEnabled bool) Usage {
	if colorModeEnabled {
		return UsageDefault
	}
	return UsageNoEditor | UsageInternal
}

func isColorProperty(name string) bool {
	return name == PropBackgroundColor || name == PropForegroundColor
}

// Properties lists every configurable parameter with its usage for the
// current color mode. Call it again after toggling color mode.
func (t *Texture) Properties() []PropertyInfo {
	out := make([]PropertyInfo, len(propertyList))
	copy(out, propertyList[:])
	for i := range out {
		if isColorProperty(out[i].Name) {
			out[i].Usage = ColorVisibility(t.colors)
		}
	}
	return out
}

// VisibleProperties returns the names an editor should show.
func (t *Texture) VisibleProperties() []string {
	var names []string
	for _, p := range t.Properties() {
		if p.Usage.Editable() {
			names = append(names, p.Name)
		}
	}
	return names
}

// Property returns the description of name.
func (t *Texture) Property(name string) (PropertyInfo, error) {
	for _, p := range t.Properties() {
		if p.Name == name {
			return p, nil
		}
	}
	return PropertyInfo{}, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

// Get returns the value of a property: string, ErrorCorrection, int, bool
// or Color.
func (t *Texture) Get(name string) (any, error) {
	switch name {
	case PropText:
		return t.text, nil
	case PropErrorCorrection:
		return t.level, nil
	case PropBorder:
		return t.border, nil
	case PropEnableColors:
		return t.colors, nil
	case PropBackgroundColor:
		return t.bg, nil
	case PropForegroundColor:
		return t.fg, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

// Set assigns a property through its setter. Values may be the Get type or
// a convertible form: integers and floats with no fraction for numbers,
// level names for error_correction, "true"/"false" for booleans, hex
// strings or color.Color for colors.
func (t *Texture) Set(name string, value any) error {
	switch name {
	case PropText:
		s, ok := value.(string)
		if !ok {
			return invalid(name, value)
		}
		t.SetText(s)
	case PropErrorCorrection:
		ec, err := toLevel(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
		}
		t.SetErrorCorrection(ec)
	case PropBorder:
		n, ok := toInt(value)
		if !ok {
			return invalid(name, value)
		}
		t.SetBorder(n)
	case PropEnableColors:
		b, ok := toBool(value)
		if !ok {
			return invalid(name, value)
		}
		t.SetColorsEnabled(b)
	case PropBackgroundColor, PropForegroundColor:
		c, err := toColor(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
		}
		if name == PropBackgroundColor {
			t.SetBackgroundColor(c)
		} else {
			t.SetForegroundColor(c)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return nil
}

func invalid(name string, value any) error {
	return fmt.Errorf("%w: %s: unexpected %T", ErrInvalidValue, name, value)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, which does not fit.
		if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}

// toLevel accepts a level, its ordinal or its name. Ordinals outside the
// enumeration are passed through and normalized by the setter.
func toLevel(v any) (ErrorCorrection, error) {
	switch l := v.(type) {
	case ErrorCorrection:
		return l, nil
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(l)); err == nil {
			return ErrorCorrection(n), nil
		}
		return matrix.ParseLevel(l)
	}
	if n, ok := toInt(v); ok {
		return ErrorCorrection(n), nil
	}
	return 0, fmt.Errorf("unexpected %T", v)
}

func toColor(v any) (Color, error) {
	switch c := v.(type) {
	case Color:
		return c, nil
	case string:
		return ParseColor(c)
	case color.Color:
		return FromColor(c), nil
	}
	return Color{}, fmt.Errorf("unexpected %T", v)
}
