package renderer

import (
	"strings"

	"github.com/pgavlin/cmfmt/ast"
	"github.com/pgavlin/cmfmt/internal/scheme"
)

const mailto = "mailto:"

// isAutolink returns true if the given Link node can be written as <url>: its destination starts with a scheme, it has
// no title, and its only child is a Text node whose literal is the destination minus any mailto: prefix. A mailto:
// destination must contain an email address.
func isAutolink(tree *ast.Tree, node ast.NodeID, link ast.Link) bool {
	if link.URL == "" || !scheme.Has(link.URL) || link.Title != "" {
		return false
	}

	// An autolink cannot contain spaces, angle brackets or control characters.
	for i := 0; i < len(link.URL); i++ {
		if c := link.URL[i]; c <= ' ' || c == '<' || c == '>' || c == 0x7f {
			return false
		}
	}

	child := tree.FirstChild(node)
	if child == ast.None || tree.Kind(child) != ast.KindText || tree.NextSibling(child) != ast.None {
		return false
	}
	text := strings.TrimPrefix(link.URL, mailto)
	if len(text) != len(link.URL) && !strings.Contains(text, "@") {
		// <foo> would parse as HTML rather than as an email autolink.
		return false
	}
	return tree.Literal(child) == text
}
