// Package parser converts CommonMark source text into an ast.Tree using goldmark.
package parser

import (
	"strings"

	"github.com/pgavlin/cmfmt/ast"
	"github.com/pgavlin/goldmark"
	gast "github.com/pgavlin/goldmark/ast"
	"github.com/pgavlin/goldmark/text"
	"github.com/pgavlin/goldmark/util"
)

// Parse parses CommonMark source text and returns the corresponding document tree.
func Parse(source []byte) *ast.Tree {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	return Convert(doc, source)
}

// Convert translates a goldmark document into a document tree. Source must be the text the document was parsed from.
//
// Backslash escapes and entity references are resolved. Link reference definitions and source whitespace nodes are
// dropped. Nodes that have no CommonMark equivalent become CustomBlock or CustomInline nodes.
func Convert(doc gast.Node, source []byte) *ast.Tree {
	c := &converter{tree: ast.NewTree(), source: source}
	c.children(c.tree.Root(), doc)
	return c.tree
}

type converter struct {
	tree   *ast.Tree
	source []byte
}

func (c *converter) children(parent ast.NodeID, n gast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.node(parent, child)
	}
}

func (c *converter) node(parent ast.NodeID, n gast.Node) {
	switch n := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		c.children(c.tree.Append(parent, ast.Paragraph()), n)
	case *gast.Heading:
		c.children(c.tree.Append(parent, ast.Heading(n.Level)), n)
	case *gast.Blockquote:
		c.children(c.tree.Append(parent, ast.BlockQuote()), n)
	case *gast.List:
		var v ast.Value
		if n.IsOrdered() {
			delim := ast.DelimPeriod
			if n.Marker == ')' {
				delim = ast.DelimParen
			}
			v = ast.OrderedList(n.Start, delim, n.IsTight)
		} else {
			v = ast.BulletList(n.IsTight)
		}
		c.children(c.tree.Append(parent, v), n)
	case *gast.ListItem:
		c.children(c.tree.Append(parent, ast.Item()), n)
	case *gast.ThematicBreak:
		c.tree.Append(parent, ast.ThematicBreak())
	case *gast.FencedCodeBlock:
		var info string
		if n.Info != nil {
			info = unescape(n.Info.Segment.Value(c.source))
		}
		c.tree.Append(parent, ast.FencedCode(info, c.lines(n.Lines())))
	case *gast.CodeBlock:
		c.tree.Append(parent, ast.FencedCode("", c.lines(n.Lines())))
	case *gast.HTMLBlock:
		literal := c.lines(n.Lines())
		if n.HasClosure() {
			literal += string(n.ClosureLine.Value(c.source))
		}
		c.tree.Append(parent, ast.HTMLBlock(literal))
	case *gast.Text:
		c.text(parent, unescape(n.Segment.Value(c.source)))
		switch {
		case n.HardLineBreak():
			c.tree.Append(parent, ast.LineBreak())
		case n.SoftLineBreak():
			c.tree.Append(parent, ast.SoftBreak())
		}
	case *gast.String:
		c.text(parent, string(n.Value))
	case *gast.CodeSpan:
		var b strings.Builder
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*gast.Text); ok {
				b.Write(t.Segment.Value(c.source))
			}
		}
		c.tree.Append(parent, ast.Code(strings.ReplaceAll(b.String(), "\n", " ")))
	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			segment := n.Segments.At(i)
			b.Write(segment.Value(c.source))
		}
		c.tree.Append(parent, ast.HTMLInline(b.String()))
	case *gast.Emphasis:
		v := ast.Emph()
		if n.Level >= 2 {
			v = ast.Strong()
		}
		c.children(c.tree.Append(parent, v), n)
	case *gast.Link:
		c.children(c.tree.Append(parent, ast.LinkTo(unescape(n.Destination), unescape(n.Title))), n)
	case *gast.Image:
		c.children(c.tree.Append(parent, ast.ImageOf(unescape(n.Destination), unescape(n.Title))), n)
	case *gast.AutoLink:
		label := string(n.Label(c.source))
		url := label
		if n.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		link := c.tree.Append(parent, ast.LinkTo(url, ""))
		c.tree.Append(link, ast.Text(label))
	default:
		switch {
		case n.Kind() == gast.KindLinkReferenceDefinition, n.Kind() == gast.KindWhitespace:
			// References are resolved by the parser and whitespace is layout the renderer recomputes.
		case n.Type() == gast.TypeBlock:
			c.children(c.tree.Append(parent, ast.CustomBlock()), n)
		default:
			c.children(c.tree.Append(parent, ast.CustomInline()), n)
		}
	}
}

// text appends literal text to parent, merging it into a preceding Text node if there is one.
func (c *converter) text(parent ast.NodeID, literal string) {
	if literal == "" {
		return
	}
	if last := c.tree.LastChild(parent); last != ast.None && c.tree.Kind(last) == ast.KindText {
		c.tree.SetLiteral(last, c.tree.Literal(last)+literal)
		return
	}
	c.tree.Append(parent, ast.Text(literal))
}

func (c *converter) lines(lines *text.Segments) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(c.source))
	}
	return b.String()
}

// unescape resolves backslash escapes and entity references. Escaped characters are never treated as the start of an
// entity reference.
func unescape(b []byte) string {
	var sb strings.Builder
	start := 0
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) && util.IsPunct(b[i+1]) {
			sb.Write(resolveReferences(b[start:i]))
			sb.WriteByte(b[i+1])
			i++
			start = i + 1
		}
	}
	sb.Write(resolveReferences(b[start:]))
	return sb.String()
}

func resolveReferences(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(b))
}
