package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Styles
var (
	styleDefault  = tcell.StyleDefault
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgGood  = tcell.StyleDefault.Foreground(tcell.ColorLime).Background(tcell.ColorNavy)
	styleLoading  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy).Bold(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePanel    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	stylePanelH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack).Bold(true)
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
)

const panelWidth = 32

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	canvas := newCellCanvas(w, h-chrome)
	v.ctl.Render(canvas)
	canvas.blit(v.screen, 0, 0)

	if v.showPanel {
		v.drawPanel(w, h)
	}
	v.drawStatusBar(w, h)
}

// panelLines returns the focused place and the route result.
func (v *Viewer) panelLines() (lines []string, headers map[int]bool) {
	headers = map[int]bool{}
	if n, ok := v.ctl.Focus(); ok {
		headers[len(lines)] = true
		lines = append(lines, n.Name)
		lines = append(lines, fmt.Sprintf("#%d  %s", n.ID, n.Kind))
		if n.Desc != "" {
			lines = append(lines, n.Desc)
		}
	}
	if r, ok := v.ctl.Route(); ok && len(r.IDs) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		headers[len(lines)] = true
		lines = append(lines, fmt.Sprintf("Route  %.0f %s", math.Round(r.TotalCost), r.Unit))
		for i, id := range r.IDs {
			name := fmt.Sprintf("#%d", id)
			if i < len(r.Names) && r.Names[i] != "" {
				name = r.Names[i]
			}
			lines = append(lines, fmt.Sprintf("%2d. %s", i+1, name))
		}
	}
	return lines, headers
}

func (v *Viewer) drawPanel(w, h int) {
	lines, headers := v.panelLines()
	if len(lines) == 0 || w < panelWidth+2 {
		return
	}
	boxH := min(len(lines)+2, h-chrome)
	x := w - panelWidth - 1
	v.drawBox(x, 0, panelWidth, boxH, stylePanel)
	for i, line := range lines {
		if i >= boxH-2 {
			break
		}
		style := stylePanel
		if headers[i] {
			style = stylePanelH
		}
		v.drawString(x+2, i+1, truncate(line, panelWidth-4), style)
	}
}

func (v *Viewer) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	src := v.cfg.API.BaseURL
	if v.cfg.Map.Graph != "" {
		src = v.cfg.Map.Graph
	}
	v.drawString(1, y, truncate(src, 30), styleStatus)

	mode := fmt.Sprintf("%s/%s  %s  x%.2f", v.strategy, v.transport, v.ctl.Selection().State(), v.ctl.View().Scale)
	v.drawString(w/2-runewidth.StringWidth(mode)/2, y, mode, styleStatus)

	switch {
	case v.ctl.Loading():
		msg := "loading…"
		v.drawString(w-runewidth.StringWidth(msg)-2, y, msg, styleLoading)
	case v.message != "":
		style := styleMsgInfo
		switch v.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgGood
		}
		msg := truncate(v.message, max(w/2-2, 0))
		v.drawString(w-runewidth.StringWidth(msg)-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	v.drawString(1, y, helpString, styleHelp)
}

const helpString = "Click:Start/End  Drag:Pan  Wheel/+/-:Zoom  Enter:Navigate  S:Strategy  T:Transport  R:Reset  F:Fit  I:Panel  Q:Quit"

func (v *Viewer) drawBox(x, y, w, h int, style tcell.Style) {
	v.screen.SetContent(x, y, '┌', nil, styleBorder)
	v.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	v.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	v.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		v.screen.SetContent(i, y, '─', nil, styleBorder)
		v.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		v.screen.SetContent(x, i, '│', nil, styleBorder)
		v.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			v.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// drawString writes s from column x, advancing by display width.
func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// truncate shortens s to at most maxWidth columns.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
