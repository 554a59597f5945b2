package mml

// ContainsNotes reports whether text holds at least one natural note letter
// (a through g, either case). It is a cheap filter, not a validator: plain
// prose such as "hello" matches too.
func ContainsNotes(text string) bool {
	for i := 0; i < len(text); i++ {
		if isNoteLetter(text[i]) {
			return true
		}
	}
	return false
}

func isNoteLetter(c byte) bool {
	c |= 0x20 // fold ASCII upper case
	return c >= 'a' && c <= 'g'
}
