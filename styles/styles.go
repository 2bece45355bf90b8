// Package styles registers the chroma styles used to highlight formatted Markdown.
package styles

import (
	"fmt"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/styles"
)

// Default is the name of the style used when no style is requested.
const Default = "cmfmt"

// Markdown colors the tokens produced by chroma's Markdown lexer: headings, emphasis, list
// markers, code, link text and destinations.
var Markdown = styles.Register(chroma.MustNewStyle(Default, chroma.StyleEntries{
	chroma.Text:                  "#d7d7d7",
	chroma.Error:                 "#d75f5f",
	chroma.Comment:               "#afafaf",
	chroma.CommentPreproc:        "#afafaf",
	chroma.Keyword:               "#af87af",
	chroma.NameTag:               "#5fafd7",
	chroma.NameAttribute:         "#5f87af underline",
	chroma.LiteralString:         "#ffaf5f",
	chroma.LiteralStringBacktick: "#87ffaf",
	chroma.GenericDeleted:        "#d75f5f",
	chroma.GenericEmph:           "italic",
	chroma.GenericHeading:        "#d787af bold",
	chroma.GenericStrong:         "bold",
	chroma.GenericSubheading:     "#d787af",
	chroma.GenericUnderline:      "underline",
	chroma.Background:            "bg:#121212",
}))

// Get returns the registered style with the given name. An empty name selects the Default style.
func Get(name string) (*chroma.Style, error) {
	if name == "" {
		return Markdown, nil
	}
	style, ok := styles.Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown style %q", name)
	}
	return style, nil
}
