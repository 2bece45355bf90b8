// Package scheme recognizes the URI scheme at the start of a link destination.
package scheme

// Len returns the length of the scheme at the start of s, including the trailing colon, or 0 if s does not begin with
// a scheme. A scheme is an ASCII letter followed by 1 to 31 ASCII letters, digits, '+', '.' or '-', and a colon.
func Len(s string) int {
	if len(s) == 0 || !isAlpha(s[0]) {
		return 0
	}
	for i := 1; i < len(s) && i <= 32; i++ {
		c := s[i]
		switch {
		case c == ':':
			if i < 2 {
				return 0
			}
			return i + 1
		case isAlpha(c) || c >= '0' && c <= '9' || c == '+' || c == '.' || c == '-':
		default:
			return 0
		}
	}
	return 0
}

// Has returns true if s begins with a URI scheme.
func Has(s string) bool {
	return Len(s) != 0
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
