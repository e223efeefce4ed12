package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
)

const labelWidth = 22

var (
	styleBase      = tcell.StyleDefault
	styleDim       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleFocus     = tcell.StyleDefault.Reverse(true)
	styleSecret    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleRevealing = tcell.StyleDefault.Foreground(tcell.GetColor("#6366f1")).Bold(true)
	stylePulse     = tcell.StyleDefault.Foreground(tcell.GetColor("#10b981")).Bold(true)
)

func (a *App) drawLocked() {
	if a.screen == nil {
		return
	}
	s := a.screen
	s.Clear()
	width, height := s.Size()
	now := time.Now()
	settings := a.form.Settings()

	y := 0
	title := " pwgen  [ " + settings.ActionLabel() + " ]"
	if a.loading {
		title += "  generating..."
	}
	drawText(s, 0, y, width, title, styleTitle)
	y += 2

	rows := a.form.rows()
	focus := a.form.focus
	for i, r := range rows {
		if y >= height-2 {
			break
		}
		style := styleBase
		if i == focus {
			style = styleFocus
		}

		switch r.kind {
		case rowField:
			drawText(s, 0, y, width, pad(r.field.label)+r.field.value(settings), style)
		case rowPersist:
			y++
			drawText(s, 0, y, width, pad("Save settings")+checkbox(a.persist), style)
			y++
		case rowPrimary:
			secretStyle := styleSecret
			if a.highlighted {
				secretStyle = styleRevealing
			}
			drawText(s, 0, y, width, pad("Secret"), style)
			drawText(s, labelWidth, y, width, a.revealText, secretStyle)
			if a.primary.copiedUntil.After(now) {
				drawText(s, labelWidth+len([]rune(a.revealText))+2, y, width, "Copied!", stylePulse)
			}
			y++
			if a.rated {
				drawText(s, labelWidth, y, width,
					fmt.Sprintf("%s (%d/5)", a.rating.Label, a.rating.Score),
					tcell.StyleDefault.Foreground(tcell.GetColor(a.rating.Color)))
			}
			y++
		case rowSlot:
			slot := a.slots[r.slot]
			valueStyle := styleBase
			if slot.pulseUntil.After(now) {
				valueStyle = stylePulse
			}
			drawText(s, 0, y, width, pad("  #"+strconv.Itoa(r.slot+1)), style)
			drawText(s, labelWidth, y, width, slot.text, valueStyle)
			if slot.copiedUntil.After(now) {
				drawText(s, labelWidth+len([]rune(slot.text))+2, y, width, "Copied!", stylePulse)
			}
		}
		y++
	}

	if a.toast != nil {
		style := tcell.StyleDefault.Foreground(tcell.GetColor(a.toast.n.Severity.Color())).Bold(!a.toast.leaving)
		if a.toast.leaving {
			style = style.Dim(true)
		}
		drawText(s, 0, height-2, width, " "+a.toast.n.Message, style)
	}
	drawText(s, 0, height-1, width,
		" ↑↓ move  ←→ adjust  space toggle  ^G generate  ^C copy  ^S save  esc quit", styleDim)

	s.Show()
}

func pad(label string) string {
	return fmt.Sprintf("%-*s", labelWidth, label)
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
