package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsearch/internal/config"
	dserrors "git.home.luguber.info/inful/docsearch/internal/errors"
	"git.home.luguber.info/inful/docsearch/internal/git"
	"git.home.luguber.info/inful/docsearch/internal/metrics"
	"git.home.luguber.info/inful/docsearch/internal/pipeline"
	"git.home.luguber.info/inful/docsearch/internal/searchidx"
	"git.home.luguber.info/inful/docsearch/internal/version"
	"git.home.luguber.info/inful/docsearch/internal/watch"
	"git.home.luguber.info/inful/docsearch/internal/workspace"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docsearch.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Output directory override"`
		Docs   string `short:"d" help:"Docs directory override"`
		Repo   string `short:"r" help:"Clone docs from this Git repository instead of a local directory"`
		Branch string `short:"b" help:"Branch to clone (with --repo)"`
	} `cmd:"" help:"Build the search index from the documentation tree"`

	Watch struct {
		Every time.Duration `help:"Also rebuild on this interval (e.g. 15m)"`
	} `cmd:"" help:"Watch the documentation tree and rebuild on changes"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Validate struct{} `cmd:"" help:"Load and validate the configuration without building"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := dserrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "watch":
		err = runWatch()
	case "init":
		err = config.Init(CLI.Config, CLI.Init.Force)
	case "validate":
		err = runValidate()
	case "version":
		fmt.Println(version.String())
	}

	if err != nil {
		adapter.LogError(err)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}

// loadConfigured loads the config file and applies CLI overrides, then
// validates the search options into an immutable index configuration.
func loadConfigured() (*config.Config, searchidx.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, searchidx.Config{}, err
	}
	if CLI.Build.Output != "" {
		cfg.OutputDir = CLI.Build.Output
	}
	if CLI.Build.Docs != "" {
		cfg.DocsDir = CLI.Build.Docs
	}

	idxCfg, err := searchidx.Configure(cfg.SearchOptions())
	if err != nil {
		return nil, searchidx.Config{}, err
	}
	return cfg, idxCfg, nil
}

func runBuild() error {
	cfg, idxCfg, err := loadConfigured()
	if err != nil {
		return err
	}

	if CLI.Build.Repo != "" {
		wsManager := workspace.NewManager("")
		if err := wsManager.Create(); err != nil {
			return dserrors.WorkspaceError("create", err)
		}
		defer func() {
			if err := wsManager.Cleanup(); err != nil {
				slog.Warn("Failed to cleanup workspace", slog.String("error", err.Error()))
			}
		}()

		repoPath, err := git.NewClient(wsManager.Path()).Clone(CLI.Build.Repo, CLI.Build.Branch)
		if err != nil {
			return err
		}
		cfg.DocsDir = filepath.Join(repoPath, cfg.DocsDir)
	}

	_, err = pipeline.Run(cfg, idxCfg, metrics.NoopRecorder{})
	return err
}

func runWatch() error {
	cfg, idxCfg, err := loadConfigured()
	if err != nil {
		return err
	}

	w, err := watch.New(cfg, idxCfg)
	if err != nil {
		return err
	}
	defer w.Close()

	runCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return w.Run(runCtx, CLI.Watch.Every)
}

func runValidate() error {
	cfg, idxCfg, err := loadConfigured()
	if err != nil {
		return err
	}
	slog.Info("Configuration valid",
		slog.String("docs_dir", cfg.DocsDir),
		slog.String("output_dir", cfg.OutputDir),
		slog.Any("lang", idxCfg.Lang),
		slog.String("indexing", string(idxCfg.Indexing)),
		slog.Int("min_search_length", idxCfg.MinSearchLength))
	return nil
}
