// Package highlight colors formatted Markdown for display on a terminal.
package highlight

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
)

// Write writes source to w with ANSI escape sequences that color it using the given style. Formatter names a chroma
// formatter such as "terminal256" or "terminal16m".
func Write(w io.Writer, source string, style *chroma.Style, formatter string) error {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		return fmt.Errorf("no Markdown lexer available")
	}
	lexer = chroma.Coalesce(lexer)

	f, ok := formatters.Registry[formatter]
	if !ok {
		return fmt.Errorf("unknown formatter %q", formatter)
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("tokenizing: %w", err)
	}
	return f.Format(w, style, iterator)
}
