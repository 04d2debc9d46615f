package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/qrtexture"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(80, 40)
	tex := qrtexture.New()
	t.Cleanup(func() {
		tex.Close()
		s.Fini()
	})
	return newApp(s, tex)
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestHandle_BurstRegeneratesOnce(t *testing.T) {
	a := newTestApp(t)
	before := a.tex.Version()

	for _, r := range "HELLO" {
		a.handle(key(tcell.KeyRune, r))
	}
	a.handle(key(tcell.KeyBackspace2, 0))
	a.handle(key(tcell.KeyUp, 0))
	if n := a.tex.Flush(); n != 1 {
		t.Errorf("Flush() ran %d callbacks, want 1", n)
	}

	if got := a.tex.Text(); got != "HELL" {
		t.Errorf("text = %q, want HELL", got)
	}
	if got := a.tex.Border(); got != 3 {
		t.Errorf("border = %d, want 3", got)
	}
	if got := a.tex.Version(); got != before+1 {
		t.Errorf("version = %d, want %d", got, before+1)
	}
}

func TestHandle_Keys(t *testing.T) {
	a := newTestApp(t)

	a.handle(key(tcell.KeyTab, 0))
	if got := a.tex.ErrorCorrection(); got != qrtexture.ErrorCorrectionQuartile {
		t.Errorf("after Tab ec = %v, want Quartile", got)
	}
	a.handle(key(tcell.KeyCtrlE, 0))
	a.tex.Flush()
	if !a.tex.ColorsEnabled() || a.tex.Format() != qrtexture.FormatRGB8 {
		t.Errorf("after Ctrl-E colors=%v format=%v", a.tex.ColorsEnabled(), a.tex.Format())
	}
	for range 5 {
		a.handle(key(tcell.KeyDown, 0))
	}
	if got := a.tex.Border(); got != 0 {
		t.Errorf("border = %d, want clamped to 0", got)
	}

	if !a.handle(tcell.NewEventResize(100, 50)) {
		t.Error("resize quit the app")
	}
	if a.handle(key(tcell.KeyEscape, 0)) {
		t.Error("Esc did not quit")
	}
	if a.handle(key(tcell.KeyCtrlC, 0)) {
		t.Error("Ctrl-C did not quit")
	}
}

func TestRender_StatusLine(t *testing.T) {
	a := newTestApp(t)
	a.tex.SetText("HI")
	a.tex.Flush()
	a.render()

	sim := a.screen.(tcell.SimulationScreen)
	cells, w, _ := sim.GetContents()
	var line strings.Builder
	for _, c := range cells[:w] {
		line.WriteString(string(c.Runes))
	}
	if !strings.Contains(line.String(), `"HI"`) || !strings.Contains(line.String(), "ec=Medium") {
		t.Errorf("status line = %q", line.String())
	}
	// The first symbol row sits under the status line.
	if cells[w].Runes[0] != '▀' {
		t.Errorf("row 1 starts with %q, want half block", cells[w].Runes[0])
	}
}
