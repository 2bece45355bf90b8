// Package ast defines the document tree consumed by the Markdown renderer. Nodes live in an arena owned by a Tree and
// are addressed by NodeID; parent, child and sibling links are stored as IDs rather than pointers.
package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Kind identifies the payload variant carried by a node.
type Kind int

const (
	KindDocument Kind = iota
	KindBlockQuote
	KindList
	KindItem
	KindHeading
	KindCodeBlock
	KindHTMLBlock
	KindCustomBlock
	KindThematicBreak
	KindParagraph
	KindText
	KindLineBreak
	KindSoftBreak
	KindCode
	KindHTMLInline
	KindCustomInline
	KindStrong
	KindEmph
	KindLink
	KindImage
)

var kindNames = [...]string{
	KindDocument:      "Document",
	KindBlockQuote:    "BlockQuote",
	KindList:          "List",
	KindItem:          "Item",
	KindHeading:       "Heading",
	KindCodeBlock:     "CodeBlock",
	KindHTMLBlock:     "HtmlBlock",
	KindCustomBlock:   "CustomBlock",
	KindThematicBreak: "ThematicBreak",
	KindParagraph:     "Paragraph",
	KindText:          "Text",
	KindLineBreak:     "LineBreak",
	KindSoftBreak:     "SoftBreak",
	KindCode:          "Code",
	KindHTMLInline:    "HtmlInline",
	KindCustomInline:  "CustomInline",
	KindStrong:        "Strong",
	KindEmph:          "Emph",
	KindLink:          "Link",
	KindImage:         "Image",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsBlock returns true if nodes of this kind are block-level containers or leaves.
func (k Kind) IsBlock() bool {
	switch k {
	case KindDocument, KindBlockQuote, KindList, KindItem, KindHeading, KindCodeBlock, KindHTMLBlock,
		KindCustomBlock, KindThematicBreak, KindParagraph:
		return true
	default:
		return false
	}
}

// ListType distinguishes bullet lists from ordered lists.
type ListType int

const (
	ListBullet ListType = iota
	ListOrdered
)

// ListDelim is the delimiter that follows the number of an ordered list item.
type ListDelim int

const (
	DelimPeriod ListDelim = iota
	DelimParen
)

// List is the payload of a List node.
type List struct {
	Type      ListType
	Delimiter ListDelim
	Start     int
	Tight     bool
}

// CodeBlock is the payload of a CodeBlock node.
type CodeBlock struct {
	Info    string
	Literal string
}

// Link is the payload of Link and Image nodes.
type Link struct {
	URL   string
	Title string
}

// A Value is the tagged payload of a node. Only the fields that belong to Kind are meaningful.
type Value struct {
	Kind Kind

	// Literal holds the text of Text, Code, HtmlBlock and HtmlInline nodes.
	Literal string
	// Level holds the level of a Heading.
	Level int

	List      List
	CodeBlock CodeBlock
	Link      Link
}

func Document() Value      { return Value{Kind: KindDocument} }
func BlockQuote() Value    { return Value{Kind: KindBlockQuote} }
func Item() Value          { return Value{Kind: KindItem} }
func ThematicBreak() Value { return Value{Kind: KindThematicBreak} }
func Paragraph() Value     { return Value{Kind: KindParagraph} }
func LineBreak() Value     { return Value{Kind: KindLineBreak} }
func SoftBreak() Value     { return Value{Kind: KindSoftBreak} }
func Strong() Value        { return Value{Kind: KindStrong} }
func Emph() Value          { return Value{Kind: KindEmph} }
func CustomBlock() Value   { return Value{Kind: KindCustomBlock} }
func CustomInline() Value  { return Value{Kind: KindCustomInline} }

func Text(literal string) Value       { return Value{Kind: KindText, Literal: literal} }
func Code(literal string) Value       { return Value{Kind: KindCode, Literal: literal} }
func HTMLInline(literal string) Value { return Value{Kind: KindHTMLInline, Literal: literal} }
func HTMLBlock(literal string) Value  { return Value{Kind: KindHTMLBlock, Literal: literal} }

// Heading returns the payload of a heading of the given level.
func Heading(level int) Value { return Value{Kind: KindHeading, Level: level} }

// BulletList returns the payload of a bullet list.
func BulletList(tight bool) Value {
	return Value{Kind: KindList, List: List{Type: ListBullet, Tight: tight}}
}

// OrderedList returns the payload of an ordered list whose first item is numbered start.
func OrderedList(start int, delim ListDelim, tight bool) Value {
	return Value{Kind: KindList, List: List{Type: ListOrdered, Delimiter: delim, Start: start, Tight: tight}}
}

// FencedCode returns the payload of a code block.
func FencedCode(info, literal string) Value {
	return Value{Kind: KindCodeBlock, CodeBlock: CodeBlock{Info: info, Literal: literal}}
}

// LinkTo returns the payload of a link.
func LinkTo(url, title string) Value {
	return Value{Kind: KindLink, Link: Link{URL: url, Title: title}}
}

// ImageOf returns the payload of an image.
func ImageOf(url, title string) Value {
	return Value{Kind: KindImage, Link: Link{URL: url, Title: title}}
}

// A NodeID addresses a node within its Tree. The zero NodeID refers to no node.
type NodeID int32

// None is the NodeID returned by navigation methods when the requested node does not exist.
const None NodeID = 0

type node struct {
	value Value

	parent     NodeID
	firstChild NodeID
	lastChild  NodeID
	prev       NodeID
	next       NodeID
}

// A Tree is an arena of nodes rooted at a Document node.
//
// A Tree may be read concurrently. Mutation (Append, SetValue, SetLiteral) requires exclusive access.
type Tree struct {
	nodes []node
}

// NewTree creates a tree that contains only an empty Document node.
func NewTree() *Tree {
	t := &Tree{nodes: make([]node, 2, 16)}
	t.nodes[1].value = Document()
	return t
}

// Root returns the Document node at the root of the tree.
func (t *Tree) Root() NodeID {
	return 1
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

func (t *Tree) at(n NodeID) *node {
	if n <= None || int(n) >= len(t.nodes) {
		panic(fmt.Sprintf("ast: invalid node %d", n))
	}
	return &t.nodes[n]
}

// Append creates a new node with the given payload and appends it to the children of parent.
func (t *Tree) Append(parent NodeID, v Value) NodeID {
	p := t.at(parent)
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{value: v, parent: parent, prev: p.lastChild})

	// p may have been invalidated by the append.
	p = t.at(parent)
	if p.lastChild != None {
		t.nodes[p.lastChild].next = id
	} else {
		p.firstChild = id
	}
	p.lastChild = id
	return id
}

// Value returns the payload of a node.
func (t *Tree) Value(n NodeID) Value {
	return t.at(n).value
}

// SetValue replaces the payload of a node. The kind of a node may not change.
func (t *Tree) SetValue(n NodeID, v Value) {
	nd := t.at(n)
	if nd.value.Kind != v.Kind {
		panic(fmt.Sprintf("ast: cannot change kind of node %d from %v to %v", n, nd.value.Kind, v.Kind))
	}
	nd.value = v
}

// SetLiteral replaces the literal text of a node.
func (t *Tree) SetLiteral(n NodeID, literal string) {
	t.at(n).value.Literal = literal
}

// Kind returns the kind of a node.
func (t *Tree) Kind(n NodeID) Kind {
	return t.at(n).value.Kind
}

// Literal returns the literal text of a node.
func (t *Tree) Literal(n NodeID) string {
	return t.at(n).value.Literal
}

func (t *Tree) Parent(n NodeID) NodeID          { return t.at(n).parent }
func (t *Tree) FirstChild(n NodeID) NodeID      { return t.at(n).firstChild }
func (t *Tree) LastChild(n NodeID) NodeID       { return t.at(n).lastChild }
func (t *Tree) PreviousSibling(n NodeID) NodeID { return t.at(n).prev }
func (t *Tree) NextSibling(n NodeID) NodeID     { return t.at(n).next }

// ChildCount returns the number of children of a node.
func (t *Tree) ChildCount(n NodeID) int {
	count := 0
	for c := t.FirstChild(n); c != None; c = t.NextSibling(c) {
		count++
	}
	return count
}

// ContainingBlock returns the nearest block-level node that is n or one of its ancestors, or None if there is no such
// node.
func (t *Tree) ContainingBlock(n NodeID) NodeID {
	for ; n != None; n = t.Parent(n) {
		if t.Kind(n).IsBlock() {
			return n
		}
	}
	return None
}

// ListOf returns the List payload of a node and true, or false if the node is not a List.
func (t *Tree) ListOf(n NodeID) (List, bool) {
	v := t.at(n).value
	return v.List, v.Kind == KindList
}

// CodeBlockOf returns the CodeBlock payload of a node and true, or false if the node is not a CodeBlock.
func (t *Tree) CodeBlockOf(n NodeID) (CodeBlock, bool) {
	v := t.at(n).value
	return v.CodeBlock, v.Kind == KindCodeBlock
}

// LinkOf returns the Link payload of a Link or Image node and true, or false if the node is neither.
func (t *Tree) LinkOf(n NodeID) (Link, bool) {
	v := t.at(n).value
	return v.Link, v.Kind == KindLink || v.Kind == KindImage
}

// HeadingLevel returns the level of a Heading node and true, or false if the node is not a Heading.
func (t *Tree) HeadingLevel(n NodeID) (int, bool) {
	v := t.at(n).value
	return v.Level, v.Kind == KindHeading
}

// CopySubtree copies the subtree rooted at n into dst as the last child of parent. It returns the ID of the copy.
func (t *Tree) CopySubtree(dst *Tree, parent, n NodeID) NodeID {
	id := dst.Append(parent, t.Value(n))
	for c := t.FirstChild(n); c != None; c = t.NextSibling(c) {
		t.CopySubtree(dst, id, c)
	}
	return id
}

// PlainText returns the concatenated literals of the Text and Code descendants of n.
func (t *Tree) PlainText(n NodeID) string {
	var b strings.Builder
	Walk(t, n, func(n NodeID, enter bool) (WalkStatus, error) {
		if enter {
			switch t.Kind(n) {
			case KindText, KindCode:
				b.WriteString(t.Literal(n))
			case KindSoftBreak, KindLineBreak:
				b.WriteByte(' ')
			}
		}
		return WalkContinue, nil
	})
	return b.String()
}

// Dump writes a debug representation of the subtree rooted at n to w.
func (t *Tree) Dump(w io.Writer, n NodeID, level int) {
	indent := strings.Repeat("    ", level)
	v := t.Value(n)

	var attrs []string
	switch v.Kind {
	case KindList:
		typ := "Bullet"
		if v.List.Type == ListOrdered {
			typ = fmt.Sprintf("Ordered(%d, %q)", v.List.Start, ".)"[v.List.Delimiter])
		}
		attrs = append(attrs, "Type: "+typ, fmt.Sprintf("Tight: %v", v.List.Tight))
	case KindHeading:
		attrs = append(attrs, fmt.Sprintf("Level: %d", v.Level))
	case KindCodeBlock:
		attrs = append(attrs, fmt.Sprintf("Info: %q", v.CodeBlock.Info), fmt.Sprintf("Literal: %q", v.CodeBlock.Literal))
	case KindLink, KindImage:
		attrs = append(attrs, fmt.Sprintf("URL: %q", v.Link.URL), fmt.Sprintf("Title: %q", v.Link.Title))
	case KindText, KindCode, KindHTMLBlock, KindHTMLInline:
		attrs = append(attrs, fmt.Sprintf("Literal: %q", v.Literal))
	}

	fmt.Fprintf(w, "%s%v", indent, v.Kind)
	if len(attrs) != 0 {
		fmt.Fprintf(w, " {%s}", strings.Join(attrs, ", "))
	}
	fmt.Fprintln(w)

	for c := t.FirstChild(n); c != None; c = t.NextSibling(c) {
		t.Dump(w, c, level+1)
	}
}
