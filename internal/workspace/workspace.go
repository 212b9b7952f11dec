// Package workspace manages ephemeral working directories for builds that
// clone a remote documentation source.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docsearch/internal/logfields"
)

// Manager handles the lifecycle of one ephemeral workspace directory.
type Manager struct {
	baseDir string
	tempDir string
}

// NewManager creates a workspace manager. An empty baseDir uses the system
// temporary directory.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Create creates a timestamped workspace directory.
func (m *Manager) Create() error {
	timestamp := time.Now().Format("20060102-150405")
	dir, err := os.MkdirTemp(m.baseDir, fmt.Sprintf("docsearch-%s-", timestamp))
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.tempDir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory path.
func (m *Manager) Path() string { return m.tempDir }

// Cleanup removes the workspace directory and everything in it.
func (m *Manager) Cleanup() error {
	if m.tempDir == "" {
		return nil
	}
	slog.Debug("Cleaning up workspace", logfields.Path(m.tempDir))
	if err := os.RemoveAll(m.tempDir); err != nil {
		return fmt.Errorf("failed to remove workspace directory: %w", err)
	}
	m.tempDir = ""
	return nil
}

// Join resolves a path inside the workspace.
func (m *Manager) Join(elem ...string) string {
	return filepath.Join(append([]string{m.tempDir}, elem...)...)
}
