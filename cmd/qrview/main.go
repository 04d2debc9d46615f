// Command qrview is an interactive terminal preview of a QR code texture.
//
// Type to edit the payload. Tab cycles the error correction level, Up and
// Down change the border, Ctrl-E toggles color mode, Esc quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/qrtexture"
	"github.com/gogpu/qrtexture/integration/termview"
)

func main() {
	var (
		text    = flag.String("text", "", "initial payload")
		border  = flag.Int("border", 2, "initial quiet zone width in modules")
		logFile = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		qrtexture.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	tex := qrtexture.New(
		qrtexture.WithText(*text),
		qrtexture.WithBorder(*border),
	)
	defer tex.Close()
	// Palette used once color mode is toggled on.
	tex.SetForegroundColor(qrtexture.RGB8(20, 40, 120))
	tex.SetBackgroundColor(qrtexture.RGB8(250, 240, 210))
	tex.Flush()

	a := newApp(screen, tex)
	a.run()
}

var (
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(40, 40, 60))
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

type app struct {
	screen tcell.Screen
	tex    *qrtexture.Texture
	view   *termview.View
}

func newApp(screen tcell.Screen, tex *qrtexture.Texture) *app {
	v := termview.New(screen)
	v.SetOrigin(0, 1)
	return &app{screen: screen, tex: tex, view: v}
}

func (a *app) run() {
	a.render()
	for {
		if !a.handle(a.screen.PollEvent()) {
			return
		}
		// Coalesce a burst of input into one regeneration.
		for a.screen.HasPendingEvent() {
			if !a.handle(a.screen.PollEvent()) {
				return
			}
		}
		a.tex.Flush()
		a.render()
	}
}

// handle applies one event to the texture. It returns false to quit.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			a.tex.SetText(a.tex.Text() + string(ev.Rune()))
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if r := []rune(a.tex.Text()); len(r) > 0 {
				a.tex.SetText(string(r[:len(r)-1]))
			}
		case tcell.KeyTab:
			a.tex.SetErrorCorrection(a.tex.ErrorCorrection().Next())
		case tcell.KeyUp:
			a.tex.SetBorder(a.tex.Border() + 1)
		case tcell.KeyDown:
			a.tex.SetBorder(a.tex.Border() - 1)
		case tcell.KeyCtrlE:
			a.tex.SetColorsEnabled(!a.tex.ColorsEnabled())
		}
	case *tcell.EventResize:
		a.screen.Sync()
	case nil:
		return false
	}
	return true
}

func (a *app) render() {
	a.screen.Clear()
	status := fmt.Sprintf(" %q  ec=%s border=%d colors=%v  %dx%d %s ",
		a.tex.Text(), a.tex.ErrorCorrection(), a.tex.Border(), a.tex.ColorsEnabled(),
		a.tex.Width(), a.tex.Height(), a.tex.Format())
	a.view.DrawString(0, 0, status, statusStyle)

	rows, err := a.view.Draw(a.tex)
	if err != nil {
		a.view.DrawString(0, rows+1, err.Error(), errorStyle)
	}
	if err := a.tex.Err(); err != nil {
		a.view.DrawString(0, rows+2, err.Error(), errorStyle)
	}
	a.screen.Show()
}
