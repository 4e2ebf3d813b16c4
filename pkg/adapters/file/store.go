package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aretw0/itfview/pkg/domain"
)

const ext = ".json"

// Store implements ports.PreferenceStore using the local filesystem.
// It stores each view's options as a JSON file in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".itfview/views".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".itfview", "views")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(viewID string) (string, error) {
	if viewID == "" {
		return "", errors.New("viewID cannot be empty")
	}
	if viewID == "." || viewID == ".." || strings.ContainsAny(viewID, `/\`) {
		return "", fmt.Errorf("invalid viewID %q", viewID)
	}
	return filepath.Join(s.BasePath, viewID+ext), nil
}

// Save persists the options to a JSON file atomically.
// It writes to a temporary file first, syncs it, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, viewID string, opts domain.DisplayOptions) error {
	destPath, err := s.path(viewID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure view directory: %w", err)
	}

	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	// The temp file lives in the same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+viewID+"-*"+ext+".part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename does not replace an existing file on Windows.
	if runtime.GOOS == "windows" {
		if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing view file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to view file: %w", err)
	}
	return nil
}

// Load retrieves the options from a JSON file.
func (s *Store) Load(ctx context.Context, viewID string) (domain.DisplayOptions, error) {
	filePath, err := s.path(viewID)
	if err != nil {
		return domain.DisplayOptions{}, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DisplayOptions{}, domain.ErrViewNotFound
		}
		return domain.DisplayOptions{}, fmt.Errorf("failed to read view file: %w", err)
	}

	var opts domain.DisplayOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return domain.DisplayOptions{}, fmt.Errorf("failed to unmarshal view options: %w", err)
	}
	return opts, nil
}

// Delete removes the view file.
func (s *Store) Delete(ctx context.Context, viewID string) error {
	filePath, err := s.path(viewID)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete view file: %w", err)
	}
	return nil
}

// List returns all stored view IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	var views []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		views = append(views, strings.TrimSuffix(name, ext))
	}
	return views, nil
}
