package backends

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
)

// OSFileOps performs file operations on the local filesystem, scoped to a
// root directory so the assistant never touches files outside it.
type OSFileOps struct {
	root   string
	logger zerolog.Logger
}

// NewOSFileOps creates file ops rooted at the given directory.
func NewOSFileOps(root string, logger zerolog.Logger) *OSFileOps {
	return &OSFileOps{
		root:   root,
		logger: logger,
	}
}

// resolve joins path onto the root and rejects escapes.
func (f *OSFileOps) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(f.root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("path %s is outside the managed directory", path)
		}
		return path, nil
	}
	full := filepath.Join(f.root, path)
	rel, err := filepath.Rel(f.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside the managed directory", path)
	}
	return full, nil
}

// Delete removes one file.
func (f *OSFileOps) Delete(ctx context.Context, path string) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(full)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, refusing to delete", path)
	}
	f.logger.Info().Str("path", full).Msg("Deleting file")
	return os.Remove(full)
}

// Search returns files under root whose names contain or glob-match query.
func (f *OSFileOps) Search(ctx context.Context, query, root string) ([]string, error) {
	base := f.root
	if root != "" {
		resolved, err := f.resolve(root)
		if err != nil {
			return nil, err
		}
		base = resolved
	}

	var matches []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if ok, _ := filepath.Match(query, name); ok || strings.Contains(name, query) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// DiskSpace reports free and total bytes of the filesystem holding root.
func (f *OSFileOps) DiskSpace(ctx context.Context) (uint64, uint64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(f.root, &st); err != nil {
		return 0, 0, fmt.Errorf("statfs failed: %w", err)
	}
	bsize := uint64(st.Bsize)
	return uint64(st.Bavail) * bsize, uint64(st.Blocks) * bsize, nil
}
