package indexer

import (
	"regexp"
	"strings"

	"github.com/pgavlin/cmfmt/ast"
)

var gfmPunctuationRegexp = regexp.MustCompile(`[^\w\- ]`)

// GitHubFlavoredMarkdown is an AnchorFunc that transforms heading text into GitHub Flavored
// Markdown anchors. Heading text is converted to a GFM anchor by first converting all text
// to lowercase, removing all non-word, non-hyphen, and non-space characters, and then
// replacing all spaces with hyphens.
//
// Ref: https://github.com/gjtorikian/html-pipeline/blob/main/lib/html/pipeline/toc_filter.rb
func GitHubFlavoredMarkdown(heading string) string {
	heading = strings.ToLower(heading)
	heading = gfmPunctuationRegexp.ReplaceAllString(heading, "")
	return strings.ReplaceAll(heading, " ", "-")
}

// An AnchorFunc is a function that converts raw header text into an anchor that is appropriate
// for use in a URL.
type AnchorFunc func(heading string) (anchor string)

// An IndexOption affects the behavior of the Index function.
type IndexOption func(i *indexer)

// WithAnchors configures the AnchorFunc used by the indexer to convert heading text into anchors.
func WithAnchors(anchors AnchorFunc) IndexOption {
	return func(i *indexer) {
		i.anchorFunc = anchors
	}
}

type indexer struct {
	anchorFunc AnchorFunc
	tree       *ast.Tree

	sectionStack []*Section
	anchors      map[string][]*Section
}

func (i *indexer) walk(n ast.NodeID, enter bool) (ast.WalkStatus, error) {
	if !enter {
		return ast.WalkContinue, nil
	}
	if n == i.tree.Root() {
		return ast.WalkContinue, nil
	}

	// Only top-level headings delimit sections.
	level, ok := i.tree.HeadingLevel(n)
	if !ok {
		return ast.WalkSkipChildren, nil
	}

	newSection := &Section{
		Level:  level,
		Anchor: i.anchorFunc(i.tree.PlainText(n)),
		Start:  n,
	}
	i.anchors[newSection.Anchor] = append(i.anchors[newSection.Anchor], newSection)

	currentSection := i.sectionStack[len(i.sectionStack)-1]
	for level <= currentSection.Level {
		currentSection.End = n

		i.sectionStack = i.sectionStack[:len(i.sectionStack)-1]
		currentSection = i.sectionStack[len(i.sectionStack)-1]
	}
	parent := currentSection

	parent.Subsections = append(parent.Subsections, newSection)
	i.sectionStack = append(i.sectionStack, newSection)
	return ast.WalkSkipChildren, nil
}

// Index walks a document tree, converts the text of each top-level heading to an anchor, and
// returns a DocumentIndex that maps from anchors to lists of sections. Headings are converted to
// GitHub Flavored Markdown anchors by default. Each section begins with its heading and ends
// before the next heading of the same or a lower level.
func Index(tree *ast.Tree, options ...IndexOption) *DocumentIndex {
	root := &Section{Start: tree.FirstChild(tree.Root())}
	indexer := &indexer{
		tree:         tree,
		anchorFunc:   GitHubFlavoredMarkdown,
		sectionStack: []*Section{root},
		anchors:      map[string][]*Section{},
	}
	for _, o := range options {
		o(indexer)
	}

	// The walker never fails.
	_ = ast.Walk(tree, tree.Root(), indexer.walk)

	return &DocumentIndex{
		tree:    tree,
		toc:     root,
		anchors: indexer.anchors,
	}
}

// A Section represents a collection of nodes under a Heading (or the start of the document).
// End is ast.None if the section extends to the end of the document.
type Section struct {
	Level  int
	Anchor string

	Start ast.NodeID
	End   ast.NodeID

	Subsections []*Section
}

// Walk calls ast.Walk on each node in the section.
func (s *Section) Walk(tree *ast.Tree, walker ast.Walker) error {
	for cursor := s.Start; cursor != s.End && cursor != ast.None; cursor = tree.NextSibling(cursor) {
		if err := ast.Walk(tree, cursor, walker); err != nil {
			return err
		}
	}
	return nil
}

// Extract copies the nodes in the section into a new document tree.
func (s *Section) Extract(tree *ast.Tree) *ast.Tree {
	section := ast.NewTree()
	for cursor := s.Start; cursor != s.End && cursor != ast.None; cursor = tree.NextSibling(cursor) {
		tree.CopySubtree(section, section.Root(), cursor)
	}
	return section
}

// A DocumentIndex maps from anchors to Sections.
type DocumentIndex struct {
	tree    *ast.Tree
	toc     *Section
	anchors map[string][]*Section
}

// TableOfContents returns the root of the document's section tree.
func (index *DocumentIndex) TableOfContents() *Section {
	return index.toc
}

// Lookup returns the list of sections with the given anchor. Sections appear in the list in
// the same order in which they appear in the source document.
func (index *DocumentIndex) Lookup(anchor string) ([]*Section, bool) {
	sections, ok := index.anchors[anchor]
	return sections, ok
}

// Extract returns a document that contains the first section with the given anchor.
func (index *DocumentIndex) Extract(anchor string) (*ast.Tree, bool) {
	sections, ok := index.anchors[anchor]
	if !ok {
		return nil, false
	}
	return sections[0].Extract(index.tree), true
}
