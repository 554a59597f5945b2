package editor

import (
	"errors"
	"os"
	"path/filepath"
)

// editOp records a single edit for undo/redo support.
type editOp struct {
	offset  int
	oldText string
	newText string
}

// Buffer holds the text of the MML document being edited.
type Buffer struct {
	path      string // absolute path, or "" if untitled
	text      string // current text content
	savedText string // text at last save/open (for dirty comparison)
	undoStack []editOp
	redoStack []editOp
}

// NewBuffer creates a new empty, untitled buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Open reads the file at path into the buffer, replacing any existing content
// and clearing history. A missing file leaves the buffer empty but remembers
// the path so Save creates it.
func (b *Buffer) Open(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(absPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	b.path = absPath
	b.text = string(data)
	b.savedText = b.text
	b.undoStack = nil
	b.redoStack = nil
	return nil
}

// Save writes the current text to the stored path.
// Returns an error if the buffer has no path (untitled).
func (b *Buffer) Save() error {
	if b.path == "" {
		return errors.New("buffer has no path")
	}
	if err := os.WriteFile(b.path, []byte(b.text), 0644); err != nil {
		return err
	}
	b.savedText = b.text
	return nil
}

// SaveAs writes the current text to the given path, updates the stored path,
// and marks the buffer as clean.
func (b *Buffer) SaveAs(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(absPath, []byte(b.text), 0644); err != nil {
		return err
	}

	b.path = absPath
	b.savedText = b.text
	return nil
}

// Path returns the absolute file path, or "" if the buffer is untitled.
func (b *Buffer) Path() string {
	return b.path
}

// Text returns the current text content of the buffer.
func (b *Buffer) Text() string {
	return b.text
}

// Dirty reports whether the buffer's text differs from the last saved/opened text.
func (b *Buffer) Dirty() bool {
	return b.text != b.savedText
}

// Untitled reports whether the buffer has no associated file path.
func (b *Buffer) Untitled() bool {
	return b.path == ""
}

// Title returns the base filename, or "untitled" if the buffer has no path.
func (b *Buffer) Title() string {
	if b.path == "" {
		return "untitled"
	}
	return filepath.Base(b.path)
}

// ApplyEdit records the edit on the undo stack, clears the redo stack,
// and applies the edit to the buffer text. The edit replaces the text at
// [offset, offset+len(oldText)) with newText. Empty edits are ignored.
func (b *Buffer) ApplyEdit(offset int, oldText, newText string) {
	if oldText == newText {
		return
	}
	b.undoStack = append(b.undoStack, editOp{
		offset:  offset,
		oldText: oldText,
		newText: newText,
	})
	b.redoStack = nil
	b.text = b.text[:offset] + newText + b.text[offset+len(oldText):]
}

// Undo reverses the last edit. It returns the byte offset just past the
// restored text and true, or false if the undo stack is empty.
func (b *Buffer) Undo() (int, bool) {
	if len(b.undoStack) == 0 {
		return 0, false
	}
	op := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.text = b.text[:op.offset] + op.oldText + b.text[op.offset+len(op.newText):]
	b.redoStack = append(b.redoStack, op)
	return op.offset + len(op.oldText), true
}

// Redo reapplies the last undone edit. It returns the byte offset just past
// the reapplied text and true, or false if the redo stack is empty.
func (b *Buffer) Redo() (int, bool) {
	if len(b.redoStack) == 0 {
		return 0, false
	}
	op := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.text = b.text[:op.offset] + op.newText + b.text[op.offset+len(op.oldText):]
	b.undoStack = append(b.undoStack, op)
	return op.offset + len(op.newText), true
}
