// Package docs discovers Markdown documentation files and maps them to
// site-relative routes.
package docs

import (
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsearch/internal/logfields"
)

// DocFile is one discovered Markdown page.
type DocFile struct {
	Path         string // absolute path on disk
	RelativePath string // slash-separated path relative to the docs root
	Route        string // site-relative directory-style URL, e.g. "/guide/setup/"
}

// Discovery walks a docs directory for Markdown files.
type Discovery struct {
	root string
}

// NewDiscovery creates a discovery instance rooted at the given docs directory.
func NewDiscovery(root string) *Discovery {
	return &Discovery{root: root}
}

// DiscoverDocs finds all Markdown files under the docs root in deterministic
// lexical walk order. Hidden files and directories are skipped.
func (d *Discovery) DiscoverDocs() ([]DocFile, error) {
	files := make([]DocFile, 0)

	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") && p != d.root {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !isMarkdown(name) {
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		files = append(files, DocFile{
			Path:         p,
			RelativePath: rel,
			Route:        RouteFor(rel),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("documentation discovery completed", logfields.Path(d.root), logfields.Count(len(files)))
	return files, nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// RouteFor maps a docs-relative Markdown path to its pretty directory-style
// URL: index/README files map to their directory, everything else to a
// directory named after the file.
func RouteFor(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))

	dir, base := path.Split(rel)
	if base == "index" || base == "README" {
		rel = strings.TrimSuffix(dir, "/")
	}

	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return "/"
	}
	return "/" + rel + "/"
}
