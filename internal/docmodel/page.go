// Package docmodel defines the page model handed to the search indexer.
//
// A page's heading tree is stored as a flat, document-ordered slice of
// sections with explicit nesting levels, so consumers can walk it with
// simple iteration and level tracking instead of recursion.
package docmodel

// Page is one rendered documentation page.
type Page struct {
	Title    string    // page title; empty string when none could be determined
	Route    string    // site-relative path, e.g. "/guide/setup/"
	Body     string    // body text appearing before the first heading
	Sections []Section // headings in document order
}

// Section is one heading together with the body text it owns: the text
// between this heading and the next heading at any level. Nested sections
// carry their own text.
type Section struct {
	Level  int
	Title  string
	Anchor string // heading id; empty when the heading cannot be addressed
	Body   string
}
