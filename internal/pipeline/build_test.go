package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsearch/internal/config"
	"git.home.luguber.info/inful/docsearch/internal/searchidx"
)

func writeDoc(t *testing.T, docsDir, rel, content string) {
	t.Helper()
	p := filepath.Join(docsDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func buildConfig(t *testing.T, docsDir, outDir string, indexing searchidx.Granularity) (*config.Config, searchidx.Config) {
	t.Helper()
	cfg := &config.Config{DocsDir: docsDir, OutputDir: outDir}
	idxCfg, err := searchidx.Configure(searchidx.Options{
		Lang:            []string{"en"},
		Separator:       `[\s\-]+`,
		MinSearchLength: 3,
		Indexing:        indexing,
	})
	require.NoError(t, err)
	return cfg, idxCfg
}

type parsedArtifact struct {
	Config struct {
		Lang            []string `json:"lang"`
		Separator       string   `json:"separator"`
		MinSearchLength int      `json:"min_search_length"`
	} `json:"config"`
	Docs []searchidx.Record `json:"docs"`
}

func TestRun_SinglePageSectionsMode_WritesExpectedArtifact(t *testing.T) {
	docsDir := t.TempDir()
	outDir := t.TempDir()
	writeDoc(t, docsDir, "intro.md", "---\ntitle: Intro\n---\nWelcome.\n\n## Setup\n\nInstall steps.\n")

	cfg, idxCfg := buildConfig(t, docsDir, outDir, searchidx.GranularitySections)

	result, err := Run(cfg, idxCfg, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Pages)
	require.Equal(t, 2, result.Records)
	require.Equal(t, []string{"en"}, result.Languages)
	require.NotEmpty(t, result.BuildID)

	data, err := os.ReadFile(filepath.Join(outDir, "search", IndexFileName))
	require.NoError(t, err)

	var artifact parsedArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))

	require.Equal(t, []string{"en"}, artifact.Config.Lang)
	require.Equal(t, `[\s\-]+`, artifact.Config.Separator)
	require.Equal(t, 3, artifact.Config.MinSearchLength)

	require.Equal(t, []searchidx.Record{
		{Location: "/intro/", Title: "Intro", Text: "Welcome."},
		{Location: "/intro/#setup", Title: "Setup", Text: "Install steps."},
	}, artifact.Docs)
}

func TestRun_RepeatedBuilds_ProduceIdenticalArtifacts(t *testing.T) {
	docsDir := t.TempDir()
	writeDoc(t, docsDir, "a.md", "# A\n\nalpha\n")
	writeDoc(t, docsDir, "b/index.md", "# B\n\nbeta\n")

	outA := t.TempDir()
	outB := t.TempDir()

	cfgA, idxCfg := buildConfig(t, docsDir, outA, searchidx.GranularityFull)
	cfgB := &config.Config{DocsDir: docsDir, OutputDir: outB}

	_, err := Run(cfgA, idxCfg, nil)
	require.NoError(t, err)
	_, err = Run(cfgB, idxCfg, nil)
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(outA, "search", IndexFileName))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(outB, "search", IndexFileName))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRun_TitlesMode_AllRecordsHaveEmptyText(t *testing.T) {
	docsDir := t.TempDir()
	outDir := t.TempDir()
	writeDoc(t, docsDir, "guide.md", "# Guide\n\nbody\n\n## Part\n\nmore\n")

	cfg, idxCfg := buildConfig(t, docsDir, outDir, searchidx.GranularityTitles)

	result, err := Run(cfg, idxCfg, nil)
	require.NoError(t, err)
	require.Equal(t, 3, result.Records)

	data, err := os.ReadFile(result.IndexPath)
	require.NoError(t, err)
	var artifact parsedArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))
	for _, d := range artifact.Docs {
		require.Empty(t, d.Text)
	}
}

func TestRun_MalformedFrontmatter_PageStillIndexed(t *testing.T) {
	docsDir := t.TempDir()
	outDir := t.TempDir()
	writeDoc(t, docsDir, "broken.md", "---\ntitle: Broken\n# Heading\n\ntext\n")

	cfg, idxCfg := buildConfig(t, docsDir, outDir, searchidx.GranularityFull)

	result, err := Run(cfg, idxCfg, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Pages)
	require.Equal(t, 1, result.Records)
}

func TestRun_SupportFiles_CopiedForConfiguredLanguages(t *testing.T) {
	docsDir := t.TempDir()
	outDir := t.TempDir()
	assetsDir := t.TempDir()
	writeDoc(t, docsDir, "index.md", "# Home\n")
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "lunr.de.js"), []byte("de"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "lunr.stemmer.support.js"), []byte("stem"), 0o644))

	cfg := &config.Config{DocsDir: docsDir, OutputDir: outDir, AssetsDir: assetsDir}
	idxCfg, err := searchidx.Configure(searchidx.Options{Lang: []string{"de"}, MinSearchLength: 3})
	require.NoError(t, err)

	_, err = Run(cfg, idxCfg, nil)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(outDir, "search", "lunr.de.js"))
	require.FileExists(t, filepath.Join(outDir, "search", "lunr.stemmer.support.js"))
}

func TestRun_MissingSupportFile_NotFatal(t *testing.T) {
	docsDir := t.TempDir()
	outDir := t.TempDir()
	writeDoc(t, docsDir, "index.md", "# Home\n")

	cfg := &config.Config{DocsDir: docsDir, OutputDir: outDir, AssetsDir: t.TempDir()}
	idxCfg, err := searchidx.Configure(searchidx.Options{Lang: []string{"de"}, MinSearchLength: 3})
	require.NoError(t, err)

	_, err = Run(cfg, idxCfg, nil)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(outDir, "search", IndexFileName))
}

func TestRun_MissingDocsDir_ReturnsBuildError(t *testing.T) {
	cfg, idxCfg := buildConfig(t, filepath.Join(t.TempDir(), "nope"), t.TempDir(), searchidx.GranularityFull)

	_, err := Run(cfg, idxCfg, nil)
	require.Error(t, err)
}
