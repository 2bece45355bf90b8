package renderer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// escaping selects how the writer treats characters that are significant to Markdown.
type escaping int

const (
	// escapeLiteral writes bytes unchanged.
	escapeLiteral escaping = iota
	// escapeNormal escapes characters that would otherwise be parsed as inline or block syntax.
	escapeNormal
	// escapeURL escapes characters that may not appear in an unbracketed link destination.
	escapeURL
	// escapeTitle escapes characters that may not appear in a double-quoted link title.
	escapeTitle
)

const hexDigits = "0123456789abcdef"

// writer accumulates rendered Markdown. It owns the output buffer, the line prefix, the pending newline request and
// the bookkeeping required to wrap lines after the fact.
type writer struct {
	// width is the column at which wrappable text is broken. Zero disables wrapping.
	width int

	buf         []byte
	prefix      []byte
	prefixStack []int

	column int
	// needCR is the number of pending line breaks: 1 ends the current line, 2 or more also leaves a blank line.
	needCR int
	// lastBreakable is the offset of the space at which the current line may be broken, or 0 if there is none.
	lastBreakable int
	// pendingBreak is the offset of a wrappable space that ended the previous output. It becomes a break point
	// once the next character is known, or 0 if there is none.
	pendingBreak int

	beginLine       bool
	beginContent    bool
	noLinebreaks    bool
	inTightListItem bool
}

func newWriter(width int) *writer {
	if width < 0 {
		width = 0
	}
	return &writer{
		width:        width,
		beginLine:    true,
		beginContent: true,
	}
}

// Bytes returns the rendered output. Pending line breaks are not included.
func (w *writer) Bytes() []byte {
	return w.buf
}

// PushPrefix adds the given string to the prefix written at the start of each line.
func (w *writer) PushPrefix(prefix string) {
	w.prefixStack = append(w.prefixStack, len(prefix))
	w.prefix = append(w.prefix, prefix...)
}

// PushIndent adds the given number of spaces to the line prefix.
func (w *writer) PushIndent(amount int) {
	w.PushPrefix(strings.Repeat(" ", amount))
}

// PopPrefix removes the piece added by the last call to PushPrefix or PushIndent.
func (w *writer) PopPrefix() {
	n := w.prefixStack[len(w.prefixStack)-1]
	w.prefixStack = w.prefixStack[:len(w.prefixStack)-1]
	w.prefix = w.prefix[:len(w.prefix)-n]
}

// cr requests that the next output begin on a new line.
func (w *writer) cr() {
	if w.needCR < 1 {
		w.needCR = 1
	}
}

// blankline requests that the next output be separated from the current line by a blank line.
func (w *writer) blankline() {
	if w.needCR < 2 {
		w.needCR = 2
	}
}

// write writes s without escaping or wrapping.
func (w *writer) write(s string) {
	w.output(s, false, escapeLiteral)
}

// blankPrefix returns the prefix to write on an otherwise empty line.
func (w *writer) blankPrefix() []byte {
	return bytes.TrimRight(w.prefix, " ")
}

// flushNewlines turns the pending line break request into bytes. Newlines already at the end of the buffer count
// towards the request.
func (w *writer) flushNewlines() {
	if w.inTightListItem && w.needCR > 1 {
		w.needCR = 1
	}

	k := len(w.buf) - 1
	for ; w.needCR > 0; w.needCR-- {
		if k < 0 || w.buf[k] == '\n' {
			k--
		} else {
			if w.buf[len(w.buf)-1] == '\n' {
				w.buf = append(w.buf, w.blankPrefix()...)
			}
			w.buf = append(w.buf, '\n')
		}
		w.column = 0
		w.lastBreakable, w.pendingBreak = 0, 0
		w.beginLine = true
		w.beginContent = true
	}
}

// output writes s to the buffer using the given escaping. If wrap is true and line breaks are permitted, spaces become
// candidate break points and, unless the escaping is literal, runs of spaces collapse to a single space. A space is not
// a break point if the character after it could not safely begin a line.
func (w *writer) output(s string, wrap bool, esc escaping) {
	wrap = wrap && !w.noLinebreaks

	w.flushNewlines()

	for i := 0; i < len(s); i++ {
		c := s[i]

		if w.pendingBreak != 0 && !(c == ' ' && wrap) {
			if breakableBefore(c, esc, wrap) {
				w.lastBreakable = w.pendingBreak
			}
			w.pendingBreak = 0
		}

		if c == ' ' && wrap && w.beginLine {
			continue
		}

		if w.beginLine {
			if c == '\n' {
				w.buf = append(w.buf, w.blankPrefix()...)
			} else {
				w.buf = append(w.buf, w.prefix...)
			}
			w.column = len(w.prefix)
		}

		switch {
		case c == ' ' && wrap:
			space := len(w.buf)
			afterSpace := space > 0 && w.buf[space-1] == ' '
			w.buf = append(w.buf, ' ')
			w.column++
			w.beginLine, w.beginContent = false, false
			w.pendingBreak = 0

			// Literal text such as a code span keeps its spaces, and only a lone space may become a line break.
			if esc != escapeLiteral {
				for i+1 < len(s) && s[i+1] == ' ' {
					i++
				}
			} else if afterSpace {
				break
			}

			switch {
			case i+1 >= len(s):
				w.pendingBreak = space
			case breakableBefore(s[i+1], esc, wrap):
				w.lastBreakable = space
			}
		case c == '\n' && esc != escapeURL:
			w.buf = append(w.buf, '\n')
			w.column = 0
			w.lastBreakable, w.pendingBreak = 0, 0
			w.beginLine, w.beginContent = true, true
		case c >= utf8.RuneSelf:
			_, sz := utf8.DecodeRuneInString(s[i:])
			r := s[i : i+sz]
			w.buf = append(w.buf, r...)
			if sz == 1 {
				w.column++
			} else {
				w.column += uniseg.StringWidth(r)
			}
			i += sz - 1
			w.beginLine, w.beginContent = false, false
		default:
			var next byte
			if i+1 < len(s) {
				next = s[i+1]
			}
			if esc == escapeLiteral {
				w.buf = append(w.buf, c)
				w.column++
			} else {
				w.outc(c, esc, next)
			}
			w.beginLine = false
			w.beginContent = w.beginContent && isDigit(c)
		}

		if w.width > 0 && w.column > w.width && !w.beginLine && w.lastBreakable > 0 {
			w.breakLine()
		}
	}
}

// breakLine replaces the space at the last break point with a newline and the line prefix.
func (w *writer) breakLine() {
	remainder := append([]byte(nil), w.buf[w.lastBreakable+1:]...)
	w.buf = append(w.buf[:w.lastBreakable], '\n')
	w.buf = append(w.buf, w.prefix...)
	w.buf = append(w.buf, remainder...)
	w.column = len(w.prefix) + uniseg.StringWidth(string(remainder))
	w.lastBreakable = 0
	w.beginLine, w.beginContent = false, false
}

// outc writes a single ASCII character, escaping it if necessary.
func (w *writer) outc(c byte, esc escaping, next byte) {
	followsDigit := len(w.buf) > 0 && isDigit(w.buf[len(w.buf)-1])

	switch {
	case !w.needsEscaping(c, esc, next, followsDigit):
		w.buf = append(w.buf, c)
		w.column++
	case isSpace(c):
		w.buf = append(w.buf, '%', hexDigits[c>>4], hexDigits[c&0xf])
		w.column += 3
	default:
		w.buf = append(w.buf, '\\', c)
		w.column += 2
	}
}

func (w *writer) needsEscaping(c byte, esc escaping, next byte, followsDigit bool) bool {
	if c >= utf8.RuneSelf {
		return false
	}

	switch esc {
	case escapeNormal:
		switch c {
		case '*', '_', '[', ']', '#', '<', '>', '\\', '`', '!':
			return true
		case '&':
			return isAlpha(next)
		case '-', '+', '=':
			return w.beginContent && !followsDigit
		case '.', ')':
			return w.beginContent && followsDigit && (next == 0 || isSpace(next))
		}
		return false
	case escapeURL:
		switch c {
		case '`', '<', '>', '\\', '(', ')':
			return true
		}
		return isSpace(c)
	case escapeTitle:
		switch c {
		case '`', '<', '>', '"', '\\':
			return true
		}
		return false
	default:
		return false
	}
}

// breakableBefore returns false if a line that begins with c could be read as block syntax such as a list marker,
// setext underline, fence or HTML block. Spaces are excluded because a parser strips them from the start of a line.
// Wrapped literal text like a code span is not escaped, so there emphasis and backtick characters are excluded too.
func breakableBefore(c byte, esc escaping, wrap bool) bool {
	switch c {
	case '-', '+', '=', '~', '<', '#', '>', ' ', '\t':
		return false
	case '*', '_', '`':
		return !(wrap && esc == escapeLiteral)
	}
	return !isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
