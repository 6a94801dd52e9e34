package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
)

type seqID struct {
	n atomic.Int64
}

func (s *seqID) Generate() int64 {
	return s.n.Add(1)
}

func newStore(t *testing.T) (*FileStore, string, string) {
	t.Helper()
	root := t.TempDir()
	uploads := filepath.Join(root, "uploads")
	samples := filepath.Join(root, "data")

	s, err := NewFileStore(uploads, samples, &seqID{})
	require.NoError(t, err)
	return s, uploads, samples
}

func TestFileStore_SaveAndResolve(t *testing.T) {
	s, uploads, _ := newStore(t)
	ctx := context.Background()

	name, err := s.Save(ctx, "My Sales.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "My_Sales.csv", name)

	path, err := s.Resolve(ctx, entity.DatasetRef{Namespace: entity.NamespaceUploaded, Name: name})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(uploads, name), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))

	// Same name again replaces the content.
	_, err = s.Save(ctx, "My Sales.csv", strings.NewReader("a\n9\n"))
	require.NoError(t, err)
	body, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n9\n", string(body))

	entries, err := os.ReadDir(uploads)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestFileStore_SaveFailureLeavesNothing(t *testing.T) {
	s, uploads, _ := newStore(t)

	_, err := s.Save(context.Background(), "x.csv", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_SaveFallbackName(t *testing.T) {
	s, _, _ := newStore(t)

	name, err := s.Save(context.Background(), "../.csv", strings.NewReader("a\n"))
	require.NoError(t, err)
	assert.Regexp(t, `^upload-\d+\.csv$`, name)
}

func TestFileStore_Resolve(t *testing.T) {
	s, _, samples := newStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(samples, "sales.csv"), []byte("a\n1\n"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(samples, "dir.csv"), 0o755))

	path, err := s.Resolve(ctx, entity.DatasetRef{Namespace: entity.NamespaceSample, Name: "sales.csv"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(samples, "sales.csv"), path)

	for _, ref := range []entity.DatasetRef{
		{Namespace: entity.NamespaceSample, Name: "missing.csv"},
		{Namespace: entity.NamespaceSample, Name: "dir.csv"},
		{Namespace: entity.NamespaceUploaded, Name: "sales.csv"},
		{Namespace: entity.NamespaceUploaded, Name: "../data/sales.csv"},
		{Namespace: entity.NamespaceSample, Name: ".."},
		{Namespace: entity.NamespaceSample, Name: ""},
		{Namespace: "other", Name: "sales.csv"},
	} {
		_, err := s.Resolve(ctx, ref)
		assert.ErrorIs(t, err, pkgerror.ErrNotFound, ref)
	}
}

func TestFileStore_Samples(t *testing.T) {
	s, _, samples := newStore(t)
	for _, name := range []string{"b.csv", "a.csv", "notes.txt", ".hidden.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(samples, name), []byte("x\n"), 0o600))
	}

	got, err := s.Samples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv"}, got)
}

func TestFileStore_SamplesMissingDir(t *testing.T) {
	s, _, samples := newStore(t)
	require.NoError(t, os.RemoveAll(samples))

	got, err := s.Samples(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
