// Package renderer renders a document tree as canonical CommonMark. Re-parsing the output yields a tree that is
// structurally equivalent to the input, and the output uses as little escaping as the renderer can prove safe.
package renderer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pgavlin/cmfmt/ast"
)

// Options configures rendering.
type Options struct {
	// Width is the column at which wrappable text is broken. A width of zero disables wrapping.
	Width int `toml:"width" yaml:"width"`
	// HardBreaks renders hard line breaks as bare newlines and soft line breaks as spaces. This is the inverse of
	// parsing with hard breaks enabled. Wrapping is disabled when HardBreaks is set.
	HardBreaks bool `toml:"hardbreaks" yaml:"hardbreaks"`
}

// A ContractError reports a tree that the renderer cannot represent, such as a custom node or an Item whose parent is
// not a List. Rendering stops at the first such node and no output is produced.
type ContractError struct {
	Node   ast.NodeID
	Kind   ast.Kind
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("cannot render %v node %d: %s", e.Kind, e.Node, e.Reason)
}

// Renderer renders document trees as Markdown. A Renderer holds only configuration and may be used concurrently; each
// call to Render uses its own state.
type Renderer struct {
	options Options
}

// A RendererOption represents a configuration option for a Renderer.
type RendererOption func(r *Renderer)

// WithWidth enables word wrapping at the desired width. A width of zero disables wrapping. Code spans are subject to
// wrapping; headings, code blocks and raw HTML are not.
func WithWidth(width int) RendererOption {
	return func(r *Renderer) {
		r.options.Width = width
	}
}

// WithHardBreaks enables or disables hard break rendering. See Options.HardBreaks.
func WithHardBreaks(on bool) RendererOption {
	return func(r *Renderer) {
		r.options.HardBreaks = on
	}
}

// WithOptions replaces all of the renderer's options.
func WithOptions(options Options) RendererOption {
	return func(r *Renderer) {
		r.options = options
	}
}

// New creates a new Renderer with the given options.
func New(options ...RendererOption) *Renderer {
	var r Renderer
	for _, o := range options {
		o(&r)
	}
	if r.options.Width < 0 {
		r.options.Width = 0
	}
	return &r
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options {
	return r.options
}

// Render renders the tree to w. The output always ends with a single newline. If the tree cannot be rendered, nothing
// is written and the returned error is a *ContractError.
func (r *Renderer) Render(w io.Writer, tree *ast.Tree) error {
	f := &formatter{
		writer:  newWriter(r.options.Width),
		tree:    tree,
		options: r.options,
	}
	if err := ast.Walk(tree, tree.Root(), f.renderNode); err != nil {
		return err
	}

	out := f.Bytes()
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err := w.Write(out)
	return err
}

// Format renders the tree with the given options and returns the result.
func Format(tree *ast.Tree, options Options) (string, error) {
	var b strings.Builder
	if err := New(WithOptions(options)).Render(&b, tree); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustFormat is like Format, but panics if the tree cannot be rendered.
func MustFormat(tree *ast.Tree, options Options) string {
	s, err := Format(tree, options)
	if err != nil {
		panic(err)
	}
	return s
}

// formatter holds the state of a single call to Render.
type formatter struct {
	*writer

	tree    *ast.Tree
	options Options
}

func (f *formatter) allowWrap() bool {
	return f.options.Width > 0 && !f.options.HardBreaks
}

func (f *formatter) fail(node ast.NodeID, format string, args ...interface{}) (ast.WalkStatus, error) {
	return ast.WalkStop, &ContractError{Node: node, Kind: f.tree.Kind(node), Reason: fmt.Sprintf(format, args...)}
}

// parentList returns the payload of the List that contains the given Item.
func (f *formatter) parentList(item ast.NodeID) (ast.List, bool) {
	parent := f.tree.Parent(item)
	if parent == ast.None {
		return ast.List{}, false
	}
	return f.tree.ListOf(parent)
}

// isInTightListItem returns true if the nearest block containing node is, or is a child of, an item in a tight list.
func (f *formatter) isInTightListItem(node ast.NodeID) bool {
	block := f.tree.ContainingBlock(node)
	if block == ast.None {
		return false
	}
	if f.tree.Kind(block) != ast.KindItem {
		block = f.tree.Parent(block)
		if block == ast.None || f.tree.Kind(block) != ast.KindItem {
			return false
		}
	}
	list, _ := f.parentList(block)
	return list.Tight
}

func (f *formatter) renderNode(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	kind := f.tree.Kind(node)

	// The first item of a list keeps the tightness of the list's context so that the separation between the list and
	// the preceding block is not clamped by the list itself.
	if !(enter && kind == ast.KindItem && f.tree.PreviousSibling(node) == ast.None) {
		f.inTightListItem = f.isInTightListItem(node)
	}

	switch kind {
	case ast.KindDocument:
		return ast.WalkContinue, nil

	// blocks
	case ast.KindBlockQuote:
		return f.renderBlockQuote(node, enter)
	case ast.KindList:
		return f.renderList(node, enter)
	case ast.KindItem:
		return f.renderItem(node, enter)
	case ast.KindHeading:
		return f.renderHeading(node, enter)
	case ast.KindCodeBlock:
		return f.renderCodeBlock(node, enter)
	case ast.KindHTMLBlock:
		return f.renderHTMLBlock(node, enter)
	case ast.KindThematicBreak:
		return f.renderThematicBreak(node, enter)
	case ast.KindParagraph:
		return f.renderParagraph(node, enter)

	// inlines
	case ast.KindText:
		return f.renderText(node, enter)
	case ast.KindLineBreak:
		return f.renderLineBreak(node, enter)
	case ast.KindSoftBreak:
		return f.renderSoftBreak(node, enter)
	case ast.KindCode:
		return f.renderCode(node, enter)
	case ast.KindHTMLInline:
		return f.renderHTMLInline(node, enter)
	case ast.KindStrong:
		return f.renderStrong(node, enter)
	case ast.KindEmph:
		return f.renderEmph(node, enter)
	case ast.KindLink:
		return f.renderLink(node, enter)
	case ast.KindImage:
		return f.renderImage(node, enter)

	case ast.KindCustomBlock, ast.KindCustomInline:
		return f.fail(node, "custom nodes have no Markdown representation")
	default:
		return f.fail(node, "unknown node kind")
	}
}

func (f *formatter) renderBlockQuote(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		f.write("> ")
		f.beginContent = true
		f.PushPrefix("> ")
	} else {
		f.PopPrefix()
		f.blankline()
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderList(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		return ast.WalkContinue, nil
	}

	// A list followed directly by a code block or another list would absorb it. Separate them with a comment.
	if next := f.tree.NextSibling(node); next != ast.None {
		if k := f.tree.Kind(next); k == ast.KindCodeBlock || k == ast.KindList {
			f.cr()
			f.write("<!-- end list -->")
			f.blankline()
		}
	}
	return ast.WalkContinue, nil
}

// listMarker returns the marker for the given item. Continuation lines of the item are indented by the marker's
// length.
func (f *formatter) listMarker(item ast.NodeID, list ast.List) string {
	if list.Type == ast.ListBullet {
		return "  - "
	}

	number := list.Start
	for prev := f.tree.PreviousSibling(item); prev != ast.None; prev = f.tree.PreviousSibling(prev) {
		number++
	}

	delim := "."
	if list.Delimiter == ast.DelimParen {
		delim = ")"
	}
	padding := " "
	if number < 10 {
		padding = "  "
	}
	return strconv.Itoa(number) + delim + padding
}

func (f *formatter) renderItem(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	list, ok := f.parentList(node)
	if !ok {
		return f.fail(node, "parent is not a List")
	}

	if enter {
		marker := f.listMarker(node, list)
		f.write(marker)
		f.beginContent = true
		f.PushIndent(len(marker))
	} else {
		f.PopPrefix()
		f.cr()
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderHeading(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	level, _ := f.tree.HeadingLevel(node)
	if level < 1 || level > 6 {
		return f.fail(node, "level %d is not between 1 and 6", level)
	}

	if enter {
		f.write(strings.Repeat("#", level))
		f.write(" ")
		f.beginContent = true
		f.noLinebreaks = true
	} else {
		f.noLinebreaks = false
		f.blankline()
	}
	return ast.WalkContinue, nil
}

// canIndentCode returns true if a code block may be written in indented form.
func canIndentCode(code ast.CodeBlock) bool {
	literal := code.Literal
	return code.Info == "" &&
		len(literal) > 2 &&
		!isSpace(literal[0]) &&
		!(isSpace(literal[len(literal)-1]) && isSpace(literal[len(literal)-2]))
}

func (f *formatter) renderCodeBlock(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if !enter {
		return ast.WalkContinue, nil
	}

	code, _ := f.tree.CodeBlockOf(node)

	// A code block that opens a list item stays on the marker's line.
	firstInItem := false
	if f.tree.PreviousSibling(node) == ast.None {
		parent := f.tree.Parent(node)
		firstInItem = parent != ast.None && f.tree.Kind(parent) == ast.KindItem
	}
	if !firstInItem {
		f.blankline()
	}

	if canIndentCode(code) && !firstInItem {
		f.write("    ")
		f.PushIndent(4)
		f.write(code.Literal)
		f.PopPrefix()
	} else {
		fence := strings.Repeat("`", codeFenceLength(code.Literal))
		f.write(fence)
		if code.Info != "" {
			f.write(" ")
			f.write(code.Info)
		}
		f.cr()
		f.write(code.Literal)
		f.cr()
		f.write(fence)
	}
	f.blankline()

	return ast.WalkContinue, nil
}

func (f *formatter) renderHTMLBlock(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		f.blankline()
		f.write(f.tree.Literal(node))
		f.blankline()
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderThematicBreak(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		f.blankline()
		f.write("-----")
		f.blankline()
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderParagraph(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if !enter {
		f.blankline()
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderText(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		f.output(f.tree.Literal(node), f.allowWrap(), escapeNormal)
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderLineBreak(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		if !f.options.HardBreaks {
			f.write("  ")
		}
		f.cr()
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderSoftBreak(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		if !f.noLinebreaks && f.options.Width == 0 && !f.options.HardBreaks {
			f.cr()
		} else {
			f.output(" ", f.allowWrap(), escapeLiteral)
		}
	}
	return ast.WalkContinue, nil
}

// padCodeSpan returns true if the contents of a code span must be surrounded by spaces. A parser strips one space
// from each end of a code span only when both ends have one, so padding is always symmetric.
func padCodeSpan(literal string) bool {
	if literal == "" {
		return true
	}
	first, last := literal[0], literal[len(literal)-1]
	if first == '`' || last == '`' {
		return true
	}
	return first == ' ' && last == ' ' && strings.Trim(literal, " ") != ""
}

func (f *formatter) renderCode(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if !enter {
		return ast.WalkContinue, nil
	}

	literal := f.tree.Literal(node)
	delimiter := strings.Repeat("`", shortestUnusedBacktickRun(literal))
	pad := padCodeSpan(literal)

	f.write(delimiter)
	if pad {
		f.write(" ")
	}
	f.output(literal, f.allowWrap(), escapeLiteral)
	if pad {
		f.write(" ")
	}
	f.write(delimiter)

	return ast.WalkContinue, nil
}

func (f *formatter) renderHTMLInline(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		f.write(f.tree.Literal(node))
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderStrong(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	f.write("**")
	return ast.WalkContinue, nil
}

func (f *formatter) renderEmph(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	// The sole child of another emphasis uses underscores so that the delimiters do not merge into ***.
	delimiter := "*"
	if parent := f.tree.Parent(node); parent != ast.None && f.tree.Kind(parent) == ast.KindEmph &&
		f.tree.PreviousSibling(node) == ast.None && f.tree.NextSibling(node) == ast.None {
		delimiter = "_"
	}
	f.write(delimiter)
	return ast.WalkContinue, nil
}

// writeDestination writes the parenthesized destination and title of a link or image. Image titles may be wrapped
// before their opening quote.
func (f *formatter) writeDestination(link ast.Link, wrapTitle bool) {
	f.write("](")
	f.output(link.URL, false, escapeURL)
	if link.Title != "" {
		f.output(` "`, wrapTitle && f.allowWrap(), escapeLiteral)
		f.output(link.Title, false, escapeTitle)
		f.write(`"`)
	}
	f.write(")")
}

func (f *formatter) renderLink(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	link, _ := f.tree.LinkOf(node)

	if isAutolink(f.tree, node, link) {
		if enter {
			f.write("<")
			f.write(strings.TrimPrefix(link.URL, mailto))
			f.write(">")
		}
		return ast.WalkSkipChildren, nil
	}

	if enter {
		f.write("[")
	} else {
		f.writeDestination(link, false)
	}
	return ast.WalkContinue, nil
}

func (f *formatter) renderImage(node ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if enter {
		f.write("![")
	} else {
		link, _ := f.tree.LinkOf(node)
		f.writeDestination(link, true)
	}
	return ast.WalkContinue, nil
}
