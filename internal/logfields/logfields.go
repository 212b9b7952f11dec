package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRoute      = "route"
	KeyLocation   = "location"
	KeyLang       = "lang"
	KeyURL        = "url"
	KeyName       = "name"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Location(loc string) slog.Attr    { return slog.String(KeyLocation, loc) }
func Lang(code string) slog.Attr       { return slog.String(KeyLang, code) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr          { return slog.String(KeyName, n) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
