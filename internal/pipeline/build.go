// Package pipeline runs one full search index build: discover pages, feed
// them through the index builder in a single serialized sequence, write the
// artifact, and copy the language support files the index needs.
package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsearch/internal/config"
	"git.home.luguber.info/inful/docsearch/internal/docs"
	dserrors "git.home.luguber.info/inful/docsearch/internal/errors"
	"git.home.luguber.info/inful/docsearch/internal/frontmatter"
	"git.home.luguber.info/inful/docsearch/internal/logfields"
	"git.home.luguber.info/inful/docsearch/internal/markdown"
	"git.home.luguber.info/inful/docsearch/internal/metrics"
	"git.home.luguber.info/inful/docsearch/internal/searchidx"
)

// IndexFileName is the artifact name inside the output search directory.
const IndexFileName = "search_index.json"

// Result summarizes one completed build.
type Result struct {
	BuildID   string
	Pages     int
	Records   int
	IndexPath string
	Languages []string
}

// Run performs one full build. Pages are processed strictly one at a time
// in discovery order; the builder's overwrite rule depends on that.
func Run(cfg *config.Config, idxCfg searchidx.Config, recorder metrics.Recorder) (*Result, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	buildID := uuid.NewString()
	log := slog.With(logfields.BuildID(buildID))
	start := time.Now()

	log.Info("Starting search index build",
		logfields.Path(cfg.DocsDir),
		slog.String("indexing", string(idxCfg.Indexing)),
		slog.Any("lang", idxCfg.Lang))

	discovery := docs.NewDiscovery(cfg.DocsDir)
	files, err := discovery.DiscoverDocs()
	if err != nil {
		recorder.IncBuildOutcome("failed")
		return nil, dserrors.DiscoveryError(err)
	}

	builder := searchidx.NewBuilder(idxCfg).WithRecorder(recorder)
	for _, f := range files {
		if err := addPage(builder, f, log); err != nil {
			recorder.IncBuildOutcome("failed")
			return nil, err
		}
	}

	artifact, err := builder.GenerateIndex()
	if err != nil {
		recorder.IncBuildOutcome("failed")
		return nil, err
	}

	searchDir := filepath.Join(cfg.OutputDir, "search")
	indexPath := filepath.Join(searchDir, IndexFileName)
	if err := os.MkdirAll(searchDir, 0o750); err != nil {
		recorder.IncBuildOutcome("failed")
		return nil, dserrors.IndexWriteError(indexPath, err)
	}
	if err := os.WriteFile(indexPath, []byte(artifact), 0o644); err != nil {
		recorder.IncBuildOutcome("failed")
		return nil, dserrors.IndexWriteError(indexPath, err)
	}

	copySupportFiles(cfg, idxCfg.Lang, searchDir, log)

	recorder.ObserveBuildDuration(time.Since(start))
	recorder.IncBuildOutcome("success")

	log.Info("Search index built",
		logfields.Count(builder.Len()),
		slog.Int("pages", len(files)),
		logfields.Path(indexPath),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	return &Result{
		BuildID:   buildID,
		Pages:     len(files),
		Records:   builder.Len(),
		IndexPath: indexPath,
		Languages: idxCfg.Lang,
	}, nil
}

// addPage reads, splits and extracts one page, then feeds it to the builder.
func addPage(builder *searchidx.Builder, f docs.DocFile, log *slog.Logger) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return dserrors.PageReadError(f.Path, err)
	}

	fm, body, _, err := frontmatter.Split(data)
	if err != nil {
		// An unterminated frontmatter block is treated as plain body text.
		log.Warn("Malformed frontmatter, indexing raw content", logfields.File(f.RelativePath), logfields.Error(err))
		body = data
		fm = nil
	}

	title := ""
	if len(fm) > 0 {
		fields, err := frontmatter.ParseYAML(fm)
		if err != nil {
			log.Warn("Unparseable frontmatter, title left to heading detection",
				logfields.File(f.RelativePath), logfields.Error(err))
		} else {
			title = frontmatter.Title(fields)
		}
	}

	page, err := markdown.Extract(body, f.Route, title)
	if err != nil {
		return dserrors.Wrap(err, dserrors.CategoryBuild, dserrors.SeverityFatal,
			"page extraction failed").WithContext("file", f.RelativePath)
	}

	builder.AddPage(page)
	return nil
}

// copySupportFiles copies the lunr-language support files the validated
// language list requires. Missing source files are logged, never fatal:
// which files actually ship is a deployment concern.
func copySupportFiles(cfg *config.Config, langs []string, searchDir string, log *slog.Logger) {
	if cfg.AssetsDir == "" {
		return
	}
	for _, name := range searchidx.SupportFiles(langs) {
		src := filepath.Join(cfg.AssetsDir, name)
		dst := filepath.Join(searchDir, name)
		if err := copyFile(src, dst); err != nil {
			log.Warn("Language support file not copied", logfields.Name(name), logfields.Error(err))
			continue
		}
		log.Debug("Language support file copied", logfields.Name(name))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
