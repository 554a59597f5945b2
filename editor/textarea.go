package editor

import (
	"strings"
	"unicode/utf8"
)

// TextArea is a Buffer with a single cursor. The cursor is a byte offset
// that always sits on a rune boundary.
type TextArea struct {
	buf     *Buffer
	cursor  int
	goalCol int // rune column kept across vertical moves; -1 when unset
}

// NewTextArea wraps buf with the cursor at the end of its text.
func NewTextArea(buf *Buffer) *TextArea {
	if buf == nil {
		buf = NewBuffer()
	}
	return &TextArea{buf: buf, cursor: len(buf.Text()), goalCol: -1}
}

// Buffer returns the underlying buffer.
func (ta *TextArea) Buffer() *Buffer {
	return ta.buf
}

// Content returns the full text.
func (ta *TextArea) Content() string {
	return ta.buf.Text()
}

// SetContent replaces the whole text as one undoable edit and moves the
// cursor to the end.
func (ta *TextArea) SetContent(text string) {
	ta.buf.ApplyEdit(0, ta.buf.Text(), text)
	ta.cursor = len(text)
	ta.goalCol = -1
}

// Lines returns the text split into lines.
func (ta *TextArea) Lines() []string {
	return strings.Split(ta.buf.Text(), "\n")
}

// Cursor returns the cursor byte offset.
func (ta *TextArea) Cursor() int {
	return ta.cursor
}

// SetCursor moves the cursor, clamping to the text and snapping back to the
// start of a multi-byte rune.
func (ta *TextArea) SetCursor(offset int) {
	text := ta.buf.Text()
	offset = clampOffset(text, offset)
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	ta.cursor = offset
	ta.goalCol = -1
}

// CursorPos returns the cursor's 0-based line and rune column.
func (ta *TextArea) CursorPos() (line, col int) {
	return Position(ta.buf.Text(), ta.cursor)
}

// InsertText inserts s at the cursor and moves the cursor past it.
func (ta *TextArea) InsertText(s string) {
	if s == "" {
		return
	}
	ta.buf.ApplyEdit(ta.cursor, "", s)
	ta.cursor += len(s)
	ta.goalCol = -1
}

// InsertRune inserts r at the cursor.
func (ta *TextArea) InsertRune(r rune) {
	ta.InsertText(string(r))
}

// InsertNewline splits the line at the cursor.
func (ta *TextArea) InsertNewline() {
	ta.InsertText("\n")
}

// Backspace deletes the rune before the cursor. It reports whether anything
// was deleted.
func (ta *TextArea) Backspace() bool {
	if ta.cursor == 0 {
		return false
	}
	text := ta.buf.Text()
	_, size := utf8.DecodeLastRuneInString(text[:ta.cursor])
	start := ta.cursor - size
	ta.buf.ApplyEdit(start, text[start:ta.cursor], "")
	ta.cursor = start
	ta.goalCol = -1
	return true
}

// DeleteForward deletes the rune under the cursor. It reports whether
// anything was deleted.
func (ta *TextArea) DeleteForward() bool {
	text := ta.buf.Text()
	if ta.cursor >= len(text) {
		return false
	}
	_, size := utf8.DecodeRuneInString(text[ta.cursor:])
	ta.buf.ApplyEdit(ta.cursor, text[ta.cursor:ta.cursor+size], "")
	ta.goalCol = -1
	return true
}

// MoveLeft moves the cursor one rune back.
func (ta *TextArea) MoveLeft() {
	if ta.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(ta.buf.Text()[:ta.cursor])
	ta.cursor -= size
	ta.goalCol = -1
}

// MoveRight moves the cursor one rune forward.
func (ta *TextArea) MoveRight() {
	text := ta.buf.Text()
	if ta.cursor >= len(text) {
		return
	}
	_, size := utf8.DecodeRuneInString(text[ta.cursor:])
	ta.cursor += size
	ta.goalCol = -1
}

// MoveUp moves the cursor to the previous line, keeping the column where
// possible.
func (ta *TextArea) MoveUp() {
	ta.moveVertical(-1)
}

// MoveDown moves the cursor to the next line, keeping the column where
// possible.
func (ta *TextArea) MoveDown() {
	ta.moveVertical(1)
}

func (ta *TextArea) moveVertical(delta int) {
	text := ta.buf.Text()
	line, col := Position(text, ta.cursor)
	target := line + delta
	if target < 0 || target >= LineCount(text) {
		return
	}
	if ta.goalCol < 0 {
		ta.goalCol = col
	}
	ta.cursor = Offset(text, target, ta.goalCol)
}

// Home moves the cursor to the start of its line.
func (ta *TextArea) Home() {
	ta.cursor = LineStart(ta.buf.Text(), ta.cursor)
	ta.goalCol = -1
}

// End moves the cursor to the end of its line.
func (ta *TextArea) End() {
	ta.cursor = LineEnd(ta.buf.Text(), ta.cursor)
	ta.goalCol = -1
}

// Undo reverts the last edit and places the cursor at it.
func (ta *TextArea) Undo() bool {
	off, ok := ta.buf.Undo()
	if ok {
		ta.SetCursor(off)
	}
	return ok
}

// Redo reapplies the last undone edit and places the cursor after it.
func (ta *TextArea) Redo() bool {
	off, ok := ta.buf.Redo()
	if ok {
		ta.SetCursor(off)
	}
	return ok
}
