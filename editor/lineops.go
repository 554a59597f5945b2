package editor

import (
	"strings"
	"unicode/utf8"
)

// LineCount returns the number of lines in the text.
// An empty string is considered to have 1 line.
func LineCount(text string) int {
	if text == "" {
		return 1
	}
	return strings.Count(text, "\n") + 1
}

// LineStart returns the byte offset of the start of the line containing offset.
func LineStart(text string, offset int) int {
	offset = clampOffset(text, offset)
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

// LineEnd returns the byte offset of the newline ending the line containing
// offset, or len(text) on the last line.
func LineEnd(text string, offset int) int {
	offset = clampOffset(text, offset)
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(text)
}

// Position converts a byte offset into a 0-based line and rune column.
func Position(text string, offset int) (line, col int) {
	offset = clampOffset(text, offset)
	line = strings.Count(text[:offset], "\n")
	col = utf8.RuneCountInString(text[LineStart(text, offset):offset])
	return line, col
}

// Offset converts a 0-based line and rune column into a byte offset. Lines
// past the end clamp to the last line and columns past the end of a line
// clamp to its end.
func Offset(text string, line, col int) int {
	if line < 0 {
		line = 0
	}
	start := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			break
		}
		start += nl + 1
	}
	end := LineEnd(text, start)
	off := start
	for n := 0; n < col && off < end; n++ {
		_, size := utf8.DecodeRuneInString(text[off:end])
		off += size
	}
	return off
}

func clampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	return offset
}
