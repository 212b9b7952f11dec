// Package git clones remote documentation sources into a build workspace.
package git

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	dserrors "git.home.luguber.info/inful/docsearch/internal/errors"
	"git.home.luguber.info/inful/docsearch/internal/logfields"
)

// Client handles Git operations
type Client struct {
	workspaceDir string
}

// NewClient creates a new Git client with the specified workspace directory
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// Clone clones a repository into the workspace and returns its path.
// Clones are shallow; an empty branch uses the remote default.
func (c *Client) Clone(url, branch string) (string, error) {
	name := repoDirName(url)
	repoPath := filepath.Join(c.workspaceDir, name)

	slog.Debug("Cloning repository", logfields.URL(url), slog.String("branch", branch), logfields.Path(repoPath))
	if err := os.RemoveAll(repoPath); err != nil {
		return "", dserrors.WorkspaceError("clean", err)
	}

	cloneOptions := &git.CloneOptions{URL: url, Depth: 1}
	if branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(branch)
		cloneOptions.SingleBranch = true
	}

	if _, err := git.PlainClone(repoPath, false, cloneOptions); err != nil {
		return "", dserrors.GitCloneError(url, err)
	}

	slog.Info("Repository cloned", logfields.URL(url), logfields.Path(repoPath))
	return repoPath, nil
}

// repoDirName derives a directory name from a repository URL.
func repoDirName(url string) string {
	name := path.Base(strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git"))
	if name == "" || name == "." || name == "/" {
		return fmt.Sprintf("repo-%d", os.Getpid())
	}
	return name
}
