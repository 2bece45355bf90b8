package parser

import (
	"bytes"
	"testing"

	"github.com/pgavlin/cmfmt/ast"
	"github.com/stretchr/testify/assert"
)

func dump(tree *ast.Tree) string {
	var buf bytes.Buffer
	tree.Dump(&buf, tree.Root(), 0)
	return buf.String()
}

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		markdown string
		expected string
	}{
		{
			name:     "heading and paragraph",
			markdown: "# Title\n\nsome *text*\n",
			expected: `Document
    Heading {Level: 1}
        Text {Literal: "Title"}
    Paragraph
        Text {Literal: "some "}
        Emph
            Text {Literal: "text"}
`,
		},
		{
			name:     "setext heading",
			markdown: "Title\n-----\n",
			expected: `Document
    Heading {Level: 2}
        Text {Literal: "Title"}
`,
		},
		{
			name:     "strong",
			markdown: "**bold**\n",
			expected: `Document
    Paragraph
        Strong
            Text {Literal: "bold"}
`,
		},
		{
			name:     "soft and hard breaks",
			markdown: "a\nb  \nc\n",
			expected: `Document
    Paragraph
        Text {Literal: "a"}
        SoftBreak
        Text {Literal: "b"}
        LineBreak
        Text {Literal: "c"}
`,
		},
		{
			name:     "escapes and entities",
			markdown: "a\\*b &amp; \\&amp; &#42;\n",
			expected: `Document
    Paragraph
        Text {Literal: "a*b & &amp; *"}
`,
		},
		{
			name:     "tight bullet list",
			markdown: "- a\n- b\n",
			expected: `Document
    List {Type: Bullet, Tight: true}
        Item
            Paragraph
                Text {Literal: "a"}
        Item
            Paragraph
                Text {Literal: "b"}
`,
		},
		{
			name:     "loose ordered list",
			markdown: "3) a\n\n4) b\n",
			expected: `Document
    List {Type: Ordered(3, ')'), Tight: false}
        Item
            Paragraph
                Text {Literal: "a"}
        Item
            Paragraph
                Text {Literal: "b"}
`,
		},
		{
			name:     "fenced code",
			markdown: "```go\nx := 1\n```\n",
			expected: `Document
    CodeBlock {Info: "go", Literal: "x := 1\n"}
`,
		},
		{
			name:     "indented code",
			markdown: "    x := 1\n",
			expected: `Document
    CodeBlock {Info: "", Literal: "x := 1\n"}
`,
		},
		{
			name:     "code span",
			markdown: "`a\nb`\n",
			expected: `Document
    Paragraph
        Code {Literal: "a b"}
`,
		},
		{
			name:     "link and image",
			markdown: "[a](/u \"t\") ![b](/i.png)\n",
			expected: `Document
    Paragraph
        Link {URL: "/u", Title: "t"}
            Text {Literal: "a"}
        Text {Literal: " "}
        Image {URL: "/i.png", Title: ""}
            Text {Literal: "b"}
`,
		},
		{
			name:     "reference link",
			markdown: "[a][r]\n\n[r]: /u\n",
			expected: `Document
    Paragraph
        Link {URL: "/u", Title: ""}
            Text {Literal: "a"}
`,
		},
		{
			name:     "autolinks",
			markdown: "<http://a.b> <me@a.b>\n",
			expected: `Document
    Paragraph
        Link {URL: "http://a.b", Title: ""}
            Text {Literal: "http://a.b"}
        Text {Literal: " "}
        Link {URL: "mailto:me@a.b", Title: ""}
            Text {Literal: "me@a.b"}
`,
		},
		{
			name:     "block quote",
			markdown: "> quoted\n",
			expected: `Document
    BlockQuote
        Paragraph
            Text {Literal: "quoted"}
`,
		},
		{
			name:     "thematic break",
			markdown: "***\n",
			expected: `Document
    ThematicBreak
`,
		},
		{
			name:     "html",
			markdown: "<div>\nhi\n</div>\n\na <b>c</b>\n",
			expected: `Document
    HtmlBlock {Literal: "<div>\nhi\n</div>\n"}
    Paragraph
        Text {Literal: "a "}
        HtmlInline {Literal: "<b>"}
        Text {Literal: "c"}
        HtmlInline {Literal: "</b>"}
`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, dump(Parse([]byte(c.markdown))))
		})
	}
}

func TestUnescape(t *testing.T) {
	cases := map[string]string{
		``:              ``,
		`plain`:         `plain`,
		`\*`:            `*`,
		`\a`:            `\a`,
		`trailing\`:     `trailing\`,
		`&copy;`:        `©`,
		`&#x41;&#66;`:   `AB`,
		`\&copy;`:       `&copy;`,
		`&notanentity;`: `&notanentity;`,
	}
	for input, expected := range cases {
		assert.Equal(t, expected, unescape([]byte(input)), input)
	}
}
