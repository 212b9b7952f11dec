package searchidx

import (
	"encoding/json"
	"log/slog"

	"git.home.luguber.info/inful/docsearch/internal/docmodel"
	"git.home.luguber.info/inful/docsearch/internal/errors"
	"git.home.luguber.info/inful/docsearch/internal/logfields"
	"git.home.luguber.info/inful/docsearch/internal/metrics"
)

// Record is the atomic indexable unit of the artifact.
type Record struct {
	Location string `json:"location"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// artifact is the serialized index shape.
type artifact struct {
	Config Config   `json:"config"`
	Docs   []Record `json:"docs"`
}

// Builder accumulates normalized records from every page of one build.
//
// Records are kept in insertion order; inserting an existing location
// overwrites the field values in place without moving the record. The
// builder must be fed pages from a single, serialized sequence: the
// last-write-wins rule depends on strict page ordering.
type Builder struct {
	cfg      Config
	docs     []Record
	byLoc    map[string]int
	recorder metrics.Recorder
}

// NewBuilder creates a Builder for one build with the given validated configuration.
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		cfg:      cfg,
		docs:     make([]Record, 0),
		byLoc:    make(map[string]int),
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder injects a metrics recorder (fluent helper).
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// AddPage normalizes one page and folds its records into the accumulating index.
func (b *Builder) AddPage(p docmodel.Page) {
	records := Normalize(p, b.cfg.Indexing)
	for _, r := range records {
		b.add(r)
	}
	b.recorder.IncPagesIndexed()
	b.recorder.AddRecordsEmitted(len(records))
}

func (b *Builder) add(r Record) {
	if i, ok := b.byLoc[r.Location]; ok {
		slog.Debug("search index location overwritten",
			logfields.Location(r.Location),
			slog.String("previous_title", b.docs[i].Title),
			slog.String("title", r.Title))
		b.docs[i] = r
		b.recorder.IncCollisionOverwritten()
		return
	}
	b.byLoc[r.Location] = len(b.docs)
	b.docs = append(b.docs, r)
}

// Len returns the number of accumulated records.
func (b *Builder) Len() int { return len(b.docs) }

// GenerateIndex serializes the full artifact (config + records) in a
// canonical form. Calling it again without an intervening AddPage yields
// byte-identical output.
func (b *Builder) GenerateIndex() (string, error) {
	data, err := json.Marshal(artifact{Config: b.cfg, Docs: b.docs})
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal,
			"search index serialization failed")
	}
	return string(data), nil
}
