// Package markdown extracts the indexable page model from Markdown bodies.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsearch/internal/docmodel"
)

var attrNameID = []byte("id")

// Extract parses a Markdown body (frontmatter already removed) into the
// page model the search indexer consumes.
//
// Headings get anchors from their id attribute (auto-generated, or explicit
// via `{#id}`). Text between headings is owned by the preceding heading;
// text before the first heading becomes the page preamble. When title is
// empty the first level-1 heading supplies the page title.
func Extract(body []byte, route, title string) (docmodel.Page, error) {
	md := goldmark.New(goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	))
	root := md.Parser().Parse(text.NewReader(body))

	page := docmodel.Page{Title: title, Route: route}
	var parts []string

	flush := func() {
		if len(parts) == 0 {
			return
		}
		joined := strings.Join(parts, " ")
		parts = parts[:0]
		if len(page.Sections) == 0 {
			page.Body += joined
			return
		}
		page.Sections[len(page.Sections)-1].Body += joined
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*gmast.Heading); ok {
			flush()
			sec := docmodel.Section{
				Level:  h.Level,
				Title:  strings.TrimSpace(nodeText(h, body)),
				Anchor: headingAnchor(h),
			}
			if page.Title == "" && h.Level == 1 {
				page.Title = sec.Title
			}
			page.Sections = append(page.Sections, sec)
			continue
		}
		parts = append(parts, nodeText(n, body))
	}
	flush()

	return page, nil
}

func headingAnchor(h *gmast.Heading) string {
	v, ok := h.AttributeString(string(attrNameID))
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// nodeText reduces a node subtree to its plain text content. Raw HTML is
// stripped down to its text nodes; code blocks contribute their lines.
func nodeText(n gmast.Node, src []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		// Block boundaries become whitespace so list items and paragraphs
		// do not run together; the indexer collapses runs later.
		if c.Type() == gmast.TypeBlock && c != n {
			sb.WriteByte(' ')
		}
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(t.Value)
		case *gmast.AutoLink:
			sb.Write(t.URL(src))
		case *gmast.RawHTML:
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				sb.WriteString(stripTags(seg.Value(src)))
			}
		case *gmast.HTMLBlock:
			for i := 0; i < t.Lines().Len(); i++ {
				line := t.Lines().At(i)
				sb.WriteString(stripTags(line.Value(src)))
			}
		case *gmast.FencedCodeBlock:
			writeLines(&sb, t, src)
		case *gmast.CodeBlock:
			writeLines(&sb, t, src)
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}

func writeLines(sb *strings.Builder, n gmast.Node, src []byte) {
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		sb.Write(line.Value(src))
		sb.WriteByte(' ')
	}
}

// stripTags reduces an HTML fragment to its text content.
func stripTags(fragment []byte) string {
	var sb strings.Builder
	z := html.NewTokenizer(bytes.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.Write(z.Text())
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
