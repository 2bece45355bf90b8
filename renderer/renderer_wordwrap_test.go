package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pgavlin/cmfmt/ast"
	"github.com/pgavlin/cmfmt/parser"
	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gettingStarted = `# Getting started

This guide walks through installing the tool, writing a first document and formatting it with a narrow width so that long paragraphs wrap.

> Quoted text is wrapped inside the quote prefix just like any other paragraph of prose.

- A list item whose text is long enough to wrap onto a second line.
- Short item.

Then number the steps:

1. Ordered items keep their content aligned after the marker when wrapped.

Text with *emphasis that spans* several words and ` + "`code`" + ` still wraps between words.
`

// blockKinds returns the kinds of the nodes in a tree, ignoring the text and soft breaks that wrapping may change.
func blockKinds(tree *ast.Tree) []ast.Kind {
	var kinds []ast.Kind
	_ = ast.Walk(tree, tree.Root(), func(n ast.NodeID, enter bool) (ast.WalkStatus, error) {
		if k := tree.Kind(n); enter && k != ast.KindText && k != ast.KindSoftBreak {
			kinds = append(kinds, k)
		}
		return ast.WalkContinue, nil
	})
	return kinds
}

func TestWordWrapDocument(t *testing.T) {
	document := parser.Parse([]byte(gettingStarted))

	for _, width := range []int{30, 40, 80} {
		t.Run(fmt.Sprintf("width %d", width), func(t *testing.T) {
			rendered, err := Format(document, Options{Width: width})
			require.NoError(t, err)

			for _, line := range strings.Split(rendered, "\n") {
				assert.LessOrEqual(t, uniseg.StringWidth(line), width, "line %q", line)
			}

			reparsed := parser.Parse([]byte(rendered))
			assert.Equal(t, blockKinds(document), blockKinds(reparsed))
			assert.Equal(t,
				strings.Fields(document.PlainText(document.Root())),
				strings.Fields(reparsed.PlainText(reparsed.Root())))

			again, err := Format(reparsed, Options{Width: width})
			require.NoError(t, err)
			assert.Equal(t, rendered, again)
		})
	}
}
