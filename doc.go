// Package qrtexture renders QR codes into pixel buffers that a host can
// display as textures, and keeps them in sync with a small set of
// parameters.
//
// # Quick Start
//
//	tex := qrtexture.New(qrtexture.WithText("HELLO"))
//	defer tex.Close()
//
//	tex.SetBorder(4)
//	tex.SetErrorCorrection(qrtexture.ErrorCorrectionHigh)
//	tex.Flush() // one regeneration for both changes
//
//	_ = tex.Save("hello.png", 8)
//
// # Regeneration
//
// Every setter records its value and requests a regeneration. Requests are
// coalesced: however many setters run before the owner's next idle point,
// the module grid is encoded and composited once, using the final values.
// Without WithScheduler the idle point is an explicit call to Flush; with a
// schedule.Loop it is the end of each batch of loop tasks.
//
// A regeneration that fails (for example, a payload too long for the
// error-correction level) leaves the previous buffer published. Err reports
// the failure and observers registered with Subscribe are not notified.
//
// # Pixel Formats
//
// With color mode off the buffer is Gray8, black modules on white. With
// color mode on it is RGB8 using the foreground and background colors.
// Toggling color mode always allocates a new buffer. Neither format carries
// alpha.
//
// # Configuration Surface
//
// Properties, Get and Set expose the parameters by name for editors and
// remote configuration. ColorVisibility hides the two color properties while
// color mode is off.
//
// # Logging
//
// qrtexture logs through log/slog and is silent by default; see SetLogger.
package qrtexture
