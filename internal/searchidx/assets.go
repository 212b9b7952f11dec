package searchidx

import (
	"fmt"
	"slices"
)

// SupportFiles returns the lunr-language support files a deployment of the
// generated index needs, given the validated language list:
//
//   - the stemmer support shim whenever any non-English stemmer is loaded,
//   - the multi-language combiner when more than one language is configured,
//   - the TinySegmenter helper when a CJK language (ja/jp) is present,
//   - one lunr.<code>.js per non-English language.
//
// The engine only names the files; selecting and copying them from disk is
// the host's responsibility.
func SupportFiles(langs []string) []string {
	files := make([]string, 0, len(langs)+3)

	multi := len(langs) > 1
	if multi || !slices.Contains(langs, "en") {
		files = append(files, "lunr.stemmer.support.js")
	}
	if multi {
		files = append(files, "lunr.multi.js")
	}
	if slices.Contains(langs, "ja") || slices.Contains(langs, "jp") {
		files = append(files, "tinyseg.js")
	}
	for _, lang := range langs {
		if lang != "en" {
			files = append(files, fmt.Sprintf("lunr.%s.js", lang))
		}
	}

	return files
}
