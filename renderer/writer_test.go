package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewlineRequests(t *testing.T) {
	cases := []struct {
		name     string
		run      func(w *writer)
		expected string
	}{
		{
			name: "cr",
			run: func(w *writer) {
				w.write("a")
				w.cr()
				w.cr()
				w.write("b")
			},
			expected: "a\nb",
		},
		{
			name: "blankline wins",
			run: func(w *writer) {
				w.write("a")
				w.cr()
				w.blankline()
				w.cr()
				w.write("b")
			},
			expected: "a\n\nb",
		},
		{
			name: "tight list item",
			run: func(w *writer) {
				w.write("a")
				w.blankline()
				w.inTightListItem = true
				w.write("b")
			},
			expected: "a\nb",
		},
		{
			name: "existing newline counts",
			run: func(w *writer) {
				w.write("a\n")
				w.cr()
				w.write("b")
			},
			expected: "a\nb",
		},
		{
			name: "start of output",
			run: func(w *writer) {
				w.blankline()
				w.write("a")
			},
			expected: "a",
		},
		{
			name: "blank line keeps prefix",
			run: func(w *writer) {
				w.PushPrefix("> ")
				w.write("a")
				w.blankline()
				w.write("b")
				w.PopPrefix()
			},
			expected: "> a\n>\n> b",
		},
		{
			name: "blank line after literal newline keeps prefix",
			run: func(w *writer) {
				w.PushPrefix("> ")
				w.write("a\n")
				w.blankline()
				w.write("b")
				w.PopPrefix()
			},
			expected: "> a\n>\n> b",
		},
		{
			name: "pending request is not written",
			run: func(w *writer) {
				w.write("a")
				w.blankline()
			},
			expected: "a",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newWriter(0)
			c.run(w)
			assert.Equal(t, c.expected, string(w.Bytes()))
			assert.Empty(t, w.prefix)
		})
	}
}

func TestPrefixStack(t *testing.T) {
	w := newWriter(0)
	w.PushPrefix("> ")
	w.PushIndent(4)
	assert.Equal(t, ">     ", string(w.prefix))
	w.PopPrefix()
	assert.Equal(t, "> ", string(w.prefix))
	w.PopPrefix()
	assert.Empty(t, w.prefix)
}

func TestOutputEscaping(t *testing.T) {
	cases := []struct {
		input    string
		esc      escaping
		expected string
	}{
		{"a b\tc", escapeURL, "a%20b%09c"},
		{"x(y)<z>", escapeURL, "x\\(y\\)\\<z\\>"},
		{"line\nbreak", escapeURL, "line%0abreak"},
		{`"q" <t>`, escapeTitle, `\"q\" \<t\>`},
		{"(ok)", escapeTitle, "(ok)"},
		{"*raw* [x]", escapeLiteral, "*raw* [x]"},
		{"ü*", escapeNormal, "ü\\*"},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			w := newWriter(0)
			w.output(c.input, false, c.esc)
			assert.Equal(t, c.expected, string(w.Bytes()))
		})
	}
}

func TestWrapEngine(t *testing.T) {
	t.Run("collapses spaces", func(t *testing.T) {
		w := newWriter(80)
		w.output("a    b", true, escapeNormal)
		assert.Equal(t, "a b", string(w.Bytes()))
	})

	t.Run("drops leading spaces", func(t *testing.T) {
		w := newWriter(80)
		w.PushPrefix("> ")
		w.output("  a", true, escapeNormal)
		assert.Equal(t, "> a", string(w.Bytes()))
	})

	t.Run("break points", func(t *testing.T) {
		w := newWriter(10)
		w.output("aaaa bbbb", true, escapeNormal)
		assert.Equal(t, 4, w.lastBreakable)
		w.output(" cccc", true, escapeNormal)
		assert.Equal(t, "aaaa bbbb\ncccc", string(w.Bytes()))
		assert.Equal(t, 0, w.lastBreakable)
		assert.Equal(t, 4, w.column)
	})

	t.Run("break point withheld before digit", func(t *testing.T) {
		w := newWriter(80)
		w.output("a 1", true, escapeNormal)
		assert.Equal(t, 0, w.lastBreakable)
	})

	t.Run("break point withheld before digit in next output", func(t *testing.T) {
		w := newWriter(10)
		w.output("aaaa bbbb", true, escapeNormal)
		w.output(" ", true, escapeLiteral)
		assert.Equal(t, 4, w.lastBreakable)
		w.output("1. cc dd", true, escapeNormal)
		assert.Equal(t, "aaaa\nbbbb 1. cc\ndd", string(w.Bytes()))
	})

	t.Run("trailing space becomes break point", func(t *testing.T) {
		w := newWriter(80)
		w.output("a ", true, escapeNormal)
		assert.Equal(t, 0, w.lastBreakable)
		w.output("b", true, escapeNormal)
		assert.Equal(t, 1, w.lastBreakable)
	})

	t.Run("break point withheld before block markers", func(t *testing.T) {
		for _, s := range []string{"a -b", "a +b", "a ==", "a ~~~", "a <div>", "a 2"} {
			w := newWriter(80)
			w.output(s, true, escapeNormal)
			assert.Equal(t, 0, w.lastBreakable, s)
		}
	})

	t.Run("literal text keeps spaces", func(t *testing.T) {
		w := newWriter(80)
		w.output("a   b", true, escapeLiteral)
		assert.Equal(t, "a   b", string(w.Bytes()))
		assert.Equal(t, 0, w.lastBreakable)

		w = newWriter(80)
		w.output("a b *c", true, escapeLiteral)
		assert.Equal(t, 1, w.lastBreakable)
	})

	t.Run("newline resets break point", func(t *testing.T) {
		w := newWriter(80)
		w.output("a b", true, escapeNormal)
		w.cr()
		w.output("c", true, escapeNormal)
		assert.Equal(t, 0, w.lastBreakable)
	})

	t.Run("wide characters", func(t *testing.T) {
		w := newWriter(5)
		w.output("日本 語", true, escapeNormal)
		assert.Equal(t, "日本\n語", string(w.Bytes()))
		assert.Equal(t, 2, w.column)
	})

	t.Run("wrapped text keeps prefix", func(t *testing.T) {
		w := newWriter(8)
		w.PushIndent(4)
		w.output("aa bb cc", true, escapeNormal)
		assert.Equal(t, "    aa\n    bb\n    cc", string(w.Bytes()))
	})

	t.Run("no wrapping without width", func(t *testing.T) {
		w := newWriter(0)
		w.output("aaaa bbbb cccc dddd", true, escapeNormal)
		assert.Equal(t, "aaaa bbbb cccc dddd", string(w.Bytes()))
	})

	t.Run("no wrapping in headings", func(t *testing.T) {
		w := newWriter(5)
		w.noLinebreaks = true
		w.output("aaaa bbbb", true, escapeNormal)
		assert.Equal(t, "aaaa bbbb", string(w.Bytes()))
	})
}
