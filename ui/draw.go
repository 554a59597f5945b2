package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

var (
	frameStyle  = tcell.StyleDefault
	titleStyle  = tcell.StyleDefault.Bold(true)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// Draw renders the frame, the visible part of v and the status line.
func (s *Screen) Draw(v View) {
	sc := s.screen
	sc.Clear()
	w, h := sc.Size()
	if w < 2 || h < 2 {
		sc.Show()
		return
	}

	boxBottom := h - 2
	innerH := boxBottom - 1
	s.drawFrame(w, boxBottom)
	drawText(sc, 0, h-1, w, padRight(s.status, w), statusStyle)

	if innerH <= 0 {
		sc.HideCursor()
		sc.Show()
		return
	}

	innerW := w - 2
	cursorX := 0
	if v.CursorLine >= 0 && v.CursorLine < len(v.Lines) {
		cursorX = ColumnWidth(v.Lines[v.CursorLine], v.CursorCol)
	}
	s.scrollTo(v.CursorLine, innerH)
	s.hscrollTo(cursorX, innerW)
	for row := 0; row < innerH; row++ {
		idx := s.scroll + row
		if idx >= len(v.Lines) {
			break
		}
		drawTextFrom(sc, 1, 1+row, innerW, s.hscroll, expandTabs(v.Lines[idx]), frameStyle)
	}

	if innerW <= 0 {
		sc.HideCursor()
	} else {
		sc.ShowCursor(1+cursorX-s.hscroll, 1+v.CursorLine-s.scroll)
	}
	sc.Show()
}

// Sync repaints the whole terminal, used after a resize.
func (s *Screen) Sync() {
	s.screen.Sync()
}

func (s *Screen) drawFrame(w, bottom int) {
	sc := s.screen
	for x := 1; x < w-1; x++ {
		sc.SetContent(x, 0, tcell.RuneHLine, nil, frameStyle)
		sc.SetContent(x, bottom, tcell.RuneHLine, nil, frameStyle)
	}
	for y := 1; y < bottom; y++ {
		sc.SetContent(0, y, tcell.RuneVLine, nil, frameStyle)
		sc.SetContent(w-1, y, tcell.RuneVLine, nil, frameStyle)
	}
	sc.SetContent(0, 0, tcell.RuneULCorner, nil, frameStyle)
	sc.SetContent(w-1, 0, tcell.RuneURCorner, nil, frameStyle)
	sc.SetContent(0, bottom, tcell.RuneLLCorner, nil, frameStyle)
	sc.SetContent(w-1, bottom, tcell.RuneLRCorner, nil, frameStyle)
	drawText(sc, 1, 0, w-2, s.title, titleStyle)
}

func (s *Screen) scrollTo(line, height int) {
	if line < s.scroll {
		s.scroll = line
	}
	if line >= s.scroll+height {
		s.scroll = line - height + 1
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
}

// hscrollTo keeps the cursor cell column inside a viewport width cells wide.
// The cell just past the end of a line counts, so typing at the end stays
// visible.
func (s *Screen) hscrollTo(col, width int) {
	if width <= 0 {
		s.hscroll = 0
		return
	}
	if col < s.hscroll {
		s.hscroll = col
	}
	if col >= s.hscroll+width {
		s.hscroll = col - width + 1
	}
}

// drawText writes text from (x, y), clipped to max cells.
func drawText(sc tcell.Screen, x, y, max int, text string, style tcell.Style) {
	drawTextFrom(sc, x, y, max, 0, text, style)
}

// drawTextFrom writes text from (x, y) starting at cell skip of the text,
// clipped to max cells. A wide rune cut by the left edge is shown as blanks.
func drawTextFrom(sc tcell.Screen, x, y, max, skip int, text string, style tcell.Style) {
	cell := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		start := cell
		cell += rw
		if cell <= skip {
			continue
		}
		col := start - skip
		if start < skip {
			for ; col < cell-skip; col++ {
				if col >= 0 && col < max {
					sc.SetContent(x+col, y, ' ', nil, style)
				}
			}
			continue
		}
		if col+rw > max {
			return
		}
		sc.SetContent(x+col, y, r, nil, style)
	}
}

// ColumnWidth returns the number of cells the first col runes of line take.
func ColumnWidth(line string, col int) int {
	width := 0
	n := 0
	for _, r := range line {
		if n >= col {
			break
		}
		if r == '\t' {
			width += tabWidth
		} else {
			width += runewidth.RuneWidth(r)
		}
		n++
	}
	return width
}

func expandTabs(line string) string {
	out := make([]rune, 0, len(line))
	for _, r := range line {
		if r == '\t' {
			for i := 0; i < tabWidth; i++ {
				out = append(out, ' ')
			}
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func padRight(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return s + runewidth.FillRight("", width-n)
	}
	return s
}
