package searchidx

import (
	"strings"

	"git.home.luguber.info/inful/docsearch/internal/docmodel"
)

// Normalize converts one page into its indexable records according to the
// configured granularity. It is a pure function of the page content: no
// heading structure is ever an error, orphaned nesting is simply flattened.
func Normalize(p docmodel.Page, g Granularity) []Record {
	switch g {
	case GranularitySections, GranularityTitles:
		return normalizeSections(p, g)
	default:
		return normalizeFull(p)
	}
}

// normalizeFull emits exactly one record covering the whole page, heading
// text folded into the body.
func normalizeFull(p docmodel.Page) []Record {
	parts := make([]string, 0, 1+2*len(p.Sections))
	parts = append(parts, p.Body)
	for _, s := range p.Sections {
		parts = append(parts, s.Title, s.Body)
	}
	return []Record{{
		Location: p.Route,
		Title:    p.Title,
		Text:     collapseWhitespace(strings.Join(parts, " ")),
	}}
}

// ownerRef tracks which record owns text folded upward from anchor-less
// headings at deeper levels.
type ownerRef struct {
	level int
	idx   int
}

func normalizeSections(p docmodel.Page, g Granularity) []Record {
	pageText := ""
	if g == GranularitySections {
		pageText = collapseWhitespace(p.Body)
	}

	recs := make([]Record, 0, 1+len(p.Sections))
	havePage := p.Title != "" || pageText != "" || len(p.Sections) > 0
	if havePage {
		recs = append(recs, Record{Location: p.Route, Title: p.Title, Text: pageText})
	}

	var stack []ownerRef
	for _, s := range p.Sections {
		for len(stack) > 0 && stack[len(stack)-1].level >= s.Level {
			stack = stack[:len(stack)-1]
		}

		if s.Anchor == "" {
			// Not addressable: the heading gets no record, but its text
			// still belongs to the nearest addressable ancestor (the page
			// record when no anchored ancestor exists).
			if g == GranularityTitles {
				continue
			}
			extra := collapseWhitespace(s.Title + " " + s.Body)
			if extra == "" {
				continue
			}
			owner := 0
			if len(stack) > 0 {
				owner = stack[len(stack)-1].idx
			}
			recs[owner].Text = collapseWhitespace(recs[owner].Text + " " + extra)
			continue
		}

		text := ""
		if g == GranularitySections {
			text = collapseWhitespace(s.Body)
		}
		recs = append(recs, Record{
			Location: p.Route + "#" + s.Anchor,
			Title:    s.Title,
			Text:     text,
		})
		stack = append(stack, ownerRef{level: s.Level, idx: len(recs) - 1})
	}

	return recs
}

// collapseWhitespace trims and collapses consecutive whitespace to single
// spaces, so identical semantic content never produces spurious diffs
// across rebuilds.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
