package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

// FileStore keeps datasets as flat CSV files in two directories: uploads,
// which this process writes, and samples, which it only reads.
type FileStore struct {
	uploadDir string
	sampleDir string
	ids       pkguid.NumberID
}

func NewFileStore(uploadDir, sampleDir string, ids pkguid.NumberID) (*FileStore, error) {
	for _, dir := range []string{uploadDir, sampleDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("prepare %s: %w", dir, err)
		}
	}

	return &FileStore{
		uploadDir: uploadDir,
		sampleDir: sampleDir,
		ids:       ids,
	}, nil
}

// Resolve returns the path of a stored dataset. Names that carry path
// components or point at anything but a regular file are reported as
// pkgerror.ErrNotFound.
func (s *FileStore) Resolve(ctx context.Context, ref entity.DatasetRef) (string, error) {
	var dir string
	switch ref.Namespace {
	case entity.NamespaceUploaded:
		dir = s.uploadDir
	case entity.NamespaceSample:
		dir = s.sampleDir
	default:
		return "", pkgerror.ErrNotFound
	}

	if !validName(ref.Name) {
		return "", pkgerror.ErrNotFound
	}

	path := filepath.Join(dir, ref.Name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", pkgerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", pkgerror.ErrNotFound
	}

	return path, nil
}

// Save writes r to the uploads directory under the sanitized form of
// filename and returns the stored name. The content goes to a temp file
// first and is renamed into place, replacing any file of the same name.
func (s *FileStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		name = fmt.Sprintf("upload-%d.csv", s.ids.Generate())
	}

	tmpPath := filepath.Join(s.uploadDir, fmt.Sprintf(".%d.part", s.ids.Generate()))
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		s.discard(ctx, tmpPath)
		return "", err
	}

	if err := tmp.Close(); err != nil {
		s.discard(ctx, tmpPath)
		return "", err
	}

	if err := os.Rename(tmpPath, filepath.Join(s.uploadDir, name)); err != nil {
		s.discard(ctx, tmpPath)
		return "", err
	}

	return name, nil
}

// Samples lists the *.csv files of the samples directory in name order.
func (s *FileStore) Samples(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.sampleDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

func (s *FileStore) discard(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "failed to remove partial upload", "path", path, "error", err)
	}
}

func validName(name string) bool {
	return name != "" &&
		name == filepath.Base(name) &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, `/\`+"\x00")
}
