package searchidx

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsearch/internal/errors"
	"git.home.luguber.info/inful/docsearch/internal/logfields"
)

// langFallback maps codes with no dedicated lunr support file to the
// nearest supported base code.
var langFallback = map[string]string{
	"uk": "ru",
}

// lunrLanguages is the set of base codes the lunr-languages runtime ships
// support files for (lunr.<code>.js). "en" is built into lunr itself and is
// handled before this set is consulted.
var lunrLanguages = map[string]struct{}{
	"ar": {}, "da": {}, "de": {}, "du": {}, "es": {}, "fi": {}, "fr": {},
	"hi": {}, "hu": {}, "hy": {}, "it": {}, "ja": {}, "jp": {}, "kn": {},
	"ko": {}, "nl": {}, "no": {}, "pt": {}, "ro": {}, "ru": {}, "sa": {},
	"sv": {}, "ta": {}, "te": {}, "th": {}, "tr": {}, "vi": {}, "zh": {},
}

// lunrSupportedLang resolves a configured language code to the supported
// base code the downstream runtime can serve, or "" when none matches.
// Matching is case-insensitive and considers each script/region part of the
// code in turn, applying the fallback table first.
func lunrSupportedLang(code string) string {
	for _, part := range strings.Split(code, "_") {
		part = strings.ToLower(part)
		if mapped, ok := langFallback[part]; ok {
			part = mapped
		}
		if _, ok := lunrLanguages[part]; ok {
			return part
		}
	}
	return ""
}

// validateLanguages normalizes the loosely-typed lang option into a
// validated list. Unsupported codes are downgraded to their closest
// supported form or dropped, and "en" is guaranteed present whenever a code
// fails resolution or the list would otherwise be empty. Order of the
// resulting list is not contractual.
func validateLanguages(value any) ([]string, error) {
	var langs []string
	switch t := value.(type) {
	case nil:
		return []string{"en"}, nil
	case string:
		langs = []string{t}
	case []string:
		langs = slices.Clone(t)
	case []any:
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				return nil, errors.ValidationFailed("lang",
					fmt.Sprintf("expected a list of language codes, got element %v", v))
			}
			langs = append(langs, s)
		}
	default:
		return nil, errors.ValidationFailed("lang",
			fmt.Sprintf("expected a language code or list of codes, got %T", value))
	}

	out := slices.Clone(langs)
	for _, lang := range langs {
		if lang == "en" {
			continue
		}
		detected := lunrSupportedLang(lang)
		switch {
		case detected == "":
			out = remove(out, lang)
			slog.Info("search language not supported, falling back to en", logfields.Lang(lang))
			if !slices.Contains(out, "en") {
				out = append(out, "en")
			}
		case detected != lang:
			out = remove(out, lang)
			out = append(out, detected)
			slog.Info("search language switched to closest supported code",
				logfields.Lang(lang), slog.String("detected", detected))
		}
	}

	if len(out) == 0 {
		out = []string{"en"}
	}
	return out, nil
}

// remove deletes the first occurrence of s.
func remove(list []string, s string) []string {
	if i := slices.Index(list, s); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
