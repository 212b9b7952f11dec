// Package watch rebuilds the search index when the docs tree changes.
package watch

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/nats-io/nats.go"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/docsearch/internal/config"
	dserrors "git.home.luguber.info/inful/docsearch/internal/errors"
	"git.home.luguber.info/inful/docsearch/internal/logfields"
	"git.home.luguber.info/inful/docsearch/internal/metrics"
	"git.home.luguber.info/inful/docsearch/internal/pipeline"
	"git.home.luguber.info/inful/docsearch/internal/searchidx"
)

// debounceInterval coalesces rapid editor save bursts into one rebuild.
const debounceInterval = 500 * time.Millisecond

// rebuiltNotice is the payload published after each successful rebuild.
type rebuiltNotice struct {
	BuildID     string    `json:"build_id"`
	Pages       int       `json:"pages"`
	Records     int       `json:"records"`
	CompletedAt time.Time `json:"completed_at"`
}

// Watcher owns the rebuild loop for one watch session.
type Watcher struct {
	cfg        *config.Config
	idxCfg     searchidx.Config
	recorder   metrics.Recorder
	metricsReg *prom.Registry
	nc         *nats.Conn
	subject    string
}

// New prepares a watch session: a Prometheus recorder when a metrics
// listener is configured, and a NATS connection when notifications are.
func New(cfg *config.Config, idxCfg searchidx.Config) (*Watcher, error) {
	w := &Watcher{
		cfg:      cfg,
		idxCfg:   idxCfg,
		recorder: metrics.NoopRecorder{},
	}

	if cfg.Metrics != nil && cfg.Metrics.Listen != "" {
		w.metricsReg = prom.NewRegistry()
		w.recorder = metrics.NewPrometheusRecorder(w.metricsReg)
	}

	if cfg.Notify != nil && cfg.Notify.NATSURL != "" {
		nc, err := nats.Connect(cfg.Notify.NATSURL)
		if err != nil {
			return nil, dserrors.NotifyError(err)
		}
		w.nc = nc
		w.subject = cfg.Notify.Subject
		if w.subject == "" {
			w.subject = "docsearch.rebuilt"
		}
		slog.Info("NATS notifications enabled", logfields.URL(cfg.Notify.NATSURL), slog.String("subject", w.subject))
	}

	return w, nil
}

// Close releases external connections.
func (w *Watcher) Close() {
	if w.nc != nil {
		w.nc.Close()
	}
}

// Run builds once, then rebuilds on filesystem changes (debounced) and,
// when every > 0, on a periodic schedule. It returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, every time.Duration) error {
	if w.metricsReg != nil {
		w.serveMetrics(ctx)
	}

	w.rebuild()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return dserrors.WatchError(err)
	}
	defer fsw.Close()

	if err := addRecursive(fsw, w.cfg.DocsDir); err != nil {
		return dserrors.WatchError(err)
	}
	slog.Info("Watching documentation tree", logfields.Path(w.cfg.DocsDir))

	periodic := make(chan struct{}, 1)
	if every > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return dserrors.WatchError(err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(every),
			gocron.NewTask(func() {
				select {
				case periodic <- struct{}{}:
				default:
				}
			}),
			gocron.WithName("periodic-rebuild"),
		)
		if err != nil {
			return dserrors.WatchError(err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
		slog.Info("Periodic rebuild scheduled", slog.Duration("every", every))
	}

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			// New directories need to be watched before anything inside
			// them changes.
			if ev.Op.Has(fsnotify.Create) {
				if err := addRecursive(fsw, ev.Name); err != nil {
					slog.Debug("Could not watch created path", logfields.Path(ev.Name), logfields.Error(err))
				}
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceInterval)
				debounceC = debounce.C
			} else {
				debounce.Reset(debounceInterval)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))

		case <-debounceC:
			w.rebuild()

		case <-periodic:
			w.rebuild()
		}
	}
}

// rebuild runs one full pipeline pass. Failures are logged and the loop
// keeps going; the previous artifact stays in place.
func (w *Watcher) rebuild() {
	result, err := pipeline.Run(w.cfg, w.idxCfg, w.recorder)
	if err != nil {
		slog.Error("Rebuild failed", logfields.Error(err))
		return
	}
	w.notify(result)
}

func (w *Watcher) notify(result *pipeline.Result) {
	if w.nc == nil {
		return
	}
	payload, err := json.Marshal(rebuiltNotice{
		BuildID:     result.BuildID,
		Pages:       result.Pages,
		Records:     result.Records,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("Rebuild notice serialization failed", logfields.Error(err))
		return
	}
	if err := w.nc.Publish(w.subject, payload); err != nil {
		slog.Warn("Rebuild notice not published", logfields.Error(err))
	}
}

// serveMetrics exposes the Prometheus registry until ctx is done.
func (w *Watcher) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(w.metricsReg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: w.cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Metrics endpoint listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Warn("Metrics endpoint failed", logfields.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// relevant filters events down to content changes on visible Markdown
// files and directory-level mutations.
func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".md", ".markdown", "":
		return true
	}
	return false
}

// addRecursive watches path and every visible directory below it. Regular
// files are ignored: watching their parent directory is enough.
func addRecursive(fsw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") && p != path {
			return filepath.SkipDir
		}
		return fsw.Add(p)
	})
}
