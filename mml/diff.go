// Package mml holds the text heuristics that decide what part of an MML
// document is worth playing after an edit.
package mml

import "strings"

// Diff returns the playable delta between two snapshots of the same document.
//
// Appending text yields just the appended suffix. Deleting from the end yields
// "". Any other edit (an insertion in the middle, a replacement, an equal
// length change) yields current in full so the whole edited document is heard.
// Diff(x, x) is "".
func Diff(previous, current string) string {
	switch {
	case len(current) >= len(previous) && strings.HasPrefix(current, previous):
		return current[len(previous):]
	case len(current) < len(previous) && strings.HasPrefix(previous, current):
		return ""
	default:
		return current
	}
}
