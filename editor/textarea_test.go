package editor

import "testing"

func typeText(ta *TextArea, s string) {
	for _, r := range s {
		if r == '\n' {
			ta.InsertNewline()
			continue
		}
		ta.InsertRune(r)
	}
}

func TestTextAreaTyping(t *testing.T) {
	ta := NewTextArea(nil)
	typeText(ta, "cde\nfg")
	if got := ta.Content(); got != "cde\nfg" {
		t.Errorf("content = %q, want %q", got, "cde\nfg")
	}
	line, col := ta.CursorPos()
	if line != 1 || col != 2 {
		t.Errorf("cursor = (%d, %d), want (1, 2)", line, col)
	}
	if got := ta.Lines(); len(got) != 2 || got[0] != "cde" || got[1] != "fg" {
		t.Errorf("Lines = %q", got)
	}
}

func TestTextAreaInsertInMiddle(t *testing.T) {
	ta := NewTextArea(nil)
	typeText(ta, "cdefg")
	ta.MoveLeft()
	ta.MoveLeft()
	ta.InsertRune('x')
	if got := ta.Content(); got != "cdexfg" {
		t.Errorf("content = %q, want %q", got, "cdexfg")
	}
}

func TestTextAreaBackspaceAndDelete(t *testing.T) {
	ta := NewTextArea(nil)
	typeText(ta, "cドe")
	if !ta.Backspace() {
		t.Fatal("Backspace should delete")
	}
	ta.MoveLeft()
	if !ta.DeleteForward() {
		t.Fatal("DeleteForward should delete")
	}
	if got := ta.Content(); got != "c" {
		t.Errorf("content = %q, want %q", got, "c")
	}
	if ta.DeleteForward() {
		t.Error("DeleteForward at end should do nothing")
	}
	ta.Home()
	if ta.Backspace() {
		t.Error("Backspace at start should do nothing")
	}
}

func TestTextAreaVerticalMovementKeepsColumn(t *testing.T) {
	ta := NewTextArea(nil)
	typeText(ta, "cdefg\nab\ncdefg")
	ta.MoveUp()
	line, col := ta.CursorPos()
	if line != 1 || col != 2 {
		t.Errorf("after up = (%d, %d), want (1, 2)", line, col)
	}
	ta.MoveUp()
	line, col = ta.CursorPos()
	if line != 0 || col != 5 {
		t.Errorf("after second up = (%d, %d), want (0, 5)", line, col)
	}
	ta.MoveUp()
	if line, _ := ta.CursorPos(); line != 0 {
		t.Errorf("up on first line moved to %d", line)
	}
	ta.MoveDown()
	ta.MoveDown()
	line, col = ta.CursorPos()
	if line != 2 || col != 5 {
		t.Errorf("after downs = (%d, %d), want (2, 5)", line, col)
	}
}

func TestTextAreaHomeEnd(t *testing.T) {
	ta := NewTextArea(nil)
	typeText(ta, "cde\nfga")
	ta.Home()
	if _, col := ta.CursorPos(); col != 0 {
		t.Errorf("Home col = %d, want 0", col)
	}
	ta.End()
	if _, col := ta.CursorPos(); col != 3 {
		t.Errorf("End col = %d, want 3", col)
	}
}

func TestTextAreaSetContentIsUndoable(t *testing.T) {
	ta := NewTextArea(nil)
	typeText(ta, "cde")
	ta.SetContent("c4d4e4")
	if ta.Cursor() != len("c4d4e4") {
		t.Errorf("cursor = %d, want end", ta.Cursor())
	}
	if !ta.Undo() {
		t.Fatal("Undo should revert SetContent")
	}
	if got := ta.Content(); got != "cde" {
		t.Errorf("after undo = %q, want %q", got, "cde")
	}
	if !ta.Redo() {
		t.Fatal("Redo should reapply SetContent")
	}
	if got := ta.Content(); got != "c4d4e4" {
		t.Errorf("after redo = %q, want %q", got, "c4d4e4")
	}
}

func TestTextAreaSetCursorSnapsToRune(t *testing.T) {
	ta := NewTextArea(nil)
	typeText(ta, "ドレ")
	ta.SetCursor(1)
	if ta.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", ta.Cursor())
	}
	ta.SetCursor(-5)
	if ta.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", ta.Cursor())
	}
	ta.SetCursor(100)
	if ta.Cursor() != len("ドレ") {
		t.Errorf("cursor = %d, want %d", ta.Cursor(), len("ドレ"))
	}
}

func TestNewTextAreaCursorAtEnd(t *testing.T) {
	b := openWith(t, "cde")
	ta := NewTextArea(b)
	if ta.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", ta.Cursor())
	}
	if ta.Buffer() != b {
		t.Error("Buffer() should return the wrapped buffer")
	}
}
