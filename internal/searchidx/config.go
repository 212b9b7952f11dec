// Package searchidx builds the search index artifact consumed by a
// lunr-style lexical search runtime in the browser.
//
// The engine is deliberately small: Configure validates options into an
// immutable Config, a Builder accumulates normalized records one page at a
// time, and GenerateIndex serializes the result deterministically.
package searchidx

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docsearch/internal/errors"
)

// DefaultSeparator is the word-boundary pattern handed to the query tokenizer.
const DefaultSeparator = `[\s\-]+`

// DefaultMinSearchLength is the minimum query token length.
const DefaultMinSearchLength = 3

// Granularity selects how much of each page becomes indexable records.
type Granularity string

const (
	GranularityFull     Granularity = "full"
	GranularitySections Granularity = "sections"
	GranularityTitles   Granularity = "titles"
)

// PrebuildMode is an informational passthrough telling the downstream
// runtime whether (and with which toolchain) the index was prebuilt.
// The boolean forms serialize as JSON booleans.
type PrebuildMode string

const (
	PrebuildOff    PrebuildMode = "false"
	PrebuildOn     PrebuildMode = "true"
	PrebuildNode   PrebuildMode = "node"
	PrebuildPython PrebuildMode = "python"
)

// MarshalJSON emits false/true as JSON booleans and the toolchain names as strings.
func (m PrebuildMode) MarshalJSON() ([]byte, error) {
	switch m {
	case PrebuildOff, "":
		return []byte("false"), nil
	case PrebuildOn:
		return []byte("true"), nil
	case PrebuildNode, PrebuildPython:
		return json.Marshal(string(m))
	}
	return nil, fmt.Errorf("unknown prebuild mode %q", string(m))
}

// ParsePrebuild converts a loosely-typed config value (bool or string) into
// a PrebuildMode. nil means off.
func ParsePrebuild(v any) (PrebuildMode, error) {
	switch t := v.(type) {
	case nil:
		return PrebuildOff, nil
	case bool:
		if t {
			return PrebuildOn, nil
		}
		return PrebuildOff, nil
	case string:
		if t == "" {
			return PrebuildOff, nil
		}
		switch PrebuildMode(t) {
		case PrebuildOff, PrebuildOn, PrebuildNode, PrebuildPython:
			return PrebuildMode(t), nil
		}
	case PrebuildMode:
		return ParsePrebuild(string(t))
	}
	return "", errors.ValidationFailed("prebuild_index",
		fmt.Sprintf("expected false, true, \"node\" or \"python\", got %v", v))
}

// Options carries the raw, host-parsed configuration handed to Configure.
//
// Lang is loosely typed because the host config allows both a single code
// and a list; everything else arrives already typed.
type Options struct {
	Lang            any // string, []string or nil (defaults to ["en"])
	Separator       string
	MinSearchLength int
	Prebuild        PrebuildMode
	Indexing        Granularity
}

// Config is the validated, immutable index configuration for one build.
//
// Its JSON shape is the "config" object of the generated artifact; the
// indexing granularity steers record generation but is not part of the
// artifact contract.
type Config struct {
	Lang            []string     `json:"lang"`
	Separator       string       `json:"separator"`
	MinSearchLength int          `json:"min_search_length"`
	Prebuild        PrebuildMode `json:"prebuild_index"`
	Indexing        Granularity  `json:"-"`
}

// Configure validates options atomically into a Config.
//
// This is the only fatal error path in the engine: everything after a
// successful Configure is absorbed and normalized internally.
func Configure(opts Options) (Config, error) {
	indexing := opts.Indexing
	if indexing == "" {
		indexing = GranularityFull
	}
	switch indexing {
	case GranularityFull, GranularitySections, GranularityTitles:
	default:
		return Config{}, errors.ValidationFailed("indexing",
			fmt.Sprintf("expected one of full, sections, titles; got %q", string(indexing)))
	}

	if opts.MinSearchLength < 0 {
		return Config{}, errors.ValidationFailed("min_search_length",
			fmt.Sprintf("expected a non-negative integer, got %d", opts.MinSearchLength))
	}

	prebuild, err := ParsePrebuild(opts.Prebuild)
	if err != nil {
		return Config{}, err
	}

	langs, err := validateLanguages(opts.Lang)
	if err != nil {
		return Config{}, err
	}

	separator := opts.Separator
	if separator == "" {
		separator = DefaultSeparator
	}

	return Config{
		Lang:            langs,
		Separator:       separator,
		MinSearchLength: opts.MinSearchLength,
		Prebuild:        prebuild,
		Indexing:        indexing,
	}, nil
}
