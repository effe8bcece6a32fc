package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteArtifact persists metadata as <video_id>.md in cfg.OutputDir:
// title as a top-level heading, description below. Re-running the
// pipeline for the same video replaces the previous artifact
// byte-for-byte; concurrent writers for the same video are
// last-writer-wins.
func WriteArtifact(meta Metadata) (string, error) {
	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", E(KindPersistence, "create output directory "+dir, err)
	}

	path := filepath.Join(dir, meta.VideoID+".md")
	content := fmt.Sprintf("# %s\n\n%s\n", meta.Title, meta.Description)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", E(KindPersistence, "write "+path, err)
	}

	IncrArtifactsWritten()
	slog.Info("artifact written", slog.String("path", path))
	return path, nil
}
