package indexer

import (
	"testing"

	"github.com/pgavlin/cmfmt/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubFlavoredMarkdown(t *testing.T) {
	cases := map[string]string{
		"Getting Started":     "getting-started",
		"What's new in 1.2?":  "whats-new-in-12",
		"snake_case and-dash": "snake_case-and-dash",
	}
	for heading, expected := range cases {
		assert.Equal(t, expected, GitHubFlavoredMarkdown(heading))
	}
}

func heading(tree *ast.Tree, level int, text string) ast.NodeID {
	h := tree.Append(tree.Root(), ast.Heading(level))
	tree.Append(h, ast.Text(text))
	return h
}

func paragraph(tree *ast.Tree, text string) ast.NodeID {
	p := tree.Append(tree.Root(), ast.Paragraph())
	tree.Append(p, ast.Text(text))
	return p
}

func TestIndex(t *testing.T) {
	tree := ast.NewTree()
	intro := paragraph(tree, "intro")
	install := heading(tree, 1, "Install")
	paragraph(tree, "install text")
	linux := heading(tree, 2, "On Linux")
	paragraph(tree, "linux text")
	usage := heading(tree, 1, "Usage")
	quote := tree.Append(tree.Root(), ast.BlockQuote())
	nested := tree.Append(quote, ast.Heading(1))
	tree.Append(nested, ast.Text("Nested"))

	index := Index(tree)

	toc := index.TableOfContents()
	assert.Equal(t, intro, toc.Start)
	assert.Equal(t, ast.None, toc.End)
	require.Len(t, toc.Subsections, 2)

	first := toc.Subsections[0]
	assert.Equal(t, "install", first.Anchor)
	assert.Equal(t, 1, first.Level)
	assert.Equal(t, install, first.Start)
	assert.Equal(t, usage, first.End)
	require.Len(t, first.Subsections, 1)

	sub := first.Subsections[0]
	assert.Equal(t, "on-linux", sub.Anchor)
	assert.Equal(t, linux, sub.Start)
	assert.Equal(t, usage, sub.End)

	second := toc.Subsections[1]
	assert.Equal(t, "usage", second.Anchor)
	assert.Equal(t, ast.None, second.End)

	_, ok := index.Lookup("nested")
	assert.False(t, ok)

	sections, ok := index.Lookup("on-linux")
	require.True(t, ok)
	assert.Equal(t, []*Section{sub}, sections)
}

func TestWithAnchors(t *testing.T) {
	tree := ast.NewTree()
	heading(tree, 1, "Title")

	index := Index(tree, WithAnchors(func(heading string) string { return "x-" + heading }))
	_, ok := index.Lookup("x-Title")
	assert.True(t, ok)
}

func TestExtract(t *testing.T) {
	tree := ast.NewTree()
	heading(tree, 1, "One")
	paragraph(tree, "first")
	heading(tree, 1, "Two")
	paragraph(tree, "second")

	index := Index(tree)

	section, ok := index.Extract("one")
	require.True(t, ok)
	assert.Equal(t, 2, section.ChildCount(section.Root()))
	assert.Equal(t, "One", section.PlainText(section.FirstChild(section.Root())))
	assert.Equal(t, "first", section.PlainText(section.LastChild(section.Root())))

	section, ok = index.Extract("two")
	require.True(t, ok)
	assert.Equal(t, "Twosecond", section.PlainText(section.Root()))

	_, ok = index.Extract("three")
	assert.False(t, ok)

	var kinds []ast.Kind
	sections, _ := index.Lookup("two")
	err := sections[0].Walk(tree, func(n ast.NodeID, enter bool) (ast.WalkStatus, error) {
		if enter {
			kinds = append(kinds, tree.Kind(n))
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []ast.Kind{ast.KindHeading, ast.KindText, ast.KindParagraph, ast.KindText}, kinds)
}
