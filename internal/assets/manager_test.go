package assets

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/metrics"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.New())
	require.NoError(t, err)
	return m
}

// files lists the non-temporary files in the store.
func files(t *testing.T, m *Manager) []string {
	t.Helper()
	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// exists reports whether ref names a regular file in the store.
func exists(m *Manager, ref string) bool {
	path, ok := m.path(ref)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func TestNewManager_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	m, err := NewManager(dir, slog.Default(), nil)
	require.NoError(t, err)

	info, err := os.Stat(m.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Unix(1700000000, 123) }
	m.suffix = func() string { return "abcd1234" }

	ref, err := m.Store(strings.NewReader("jpeg bytes"), "my photo.JPG")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000000123_abcd1234_my_photo.JPG", ref)

	data, err := os.ReadFile(filepath.Join(m.Dir(), strings.TrimPrefix(ref, URLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
	assert.Len(t, files(t, m), 1, "no temporary file may be left behind")
	assert.Equal(t, 1.0, counter(m, "store", "ok"))
}

func TestStore_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     string
		want     error
	}{
		{"empty filename", "", "x", ErrEmptyFile},
		{"disallowed type", "photo.txt", "x", ErrBadType},
		{"no extension", "photo", "x", ErrBadType},
		{"empty body", "photo.png", "", ErrEmptyFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			ref, err := m.Store(strings.NewReader(tt.body), tt.filename)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Empty(t, ref)
			assert.Empty(t, files(t, m))
		})
	}
}

func TestStore_NonASCIIName(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	m.suffix = func() string { return "abcd1234" }

	for _, name := range []string{"фото.jpg", "写真.png"} {
		ref, err := m.Store(strings.NewReader("img"), name)
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(ref, "/uploads/1700000000000000000_abcd1234_upload."), ref)
		assert.True(t, exists(m, ref), ref)
	}
	assert.Len(t, files(t, m), 2)
}

func TestStore_UniqueNamesForSameInstant(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Unix(42, 0) }

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref, err := m.Store(strings.NewReader("x"), "same.png")
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
	assert.Len(t, files(t, m), 20)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestStore_WriteFailureIsStorageError(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Store(failingReader{}, "photo.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.Empty(t, files(t, m))
	assert.Equal(t, 1.0, counter(m, "store", "error"))
}

func TestStore_MissingDirectoryIsStorageError(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.RemoveAll(m.Dir()))

	_, err := m.Store(strings.NewReader("x"), "photo.png")
	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.Equal(t, 500, apperr.Status(err))
}

func TestReplace(t *testing.T) {
	m := newTestManager(t)
	oldRef, err := m.Store(strings.NewReader("old"), "old.png")
	require.NoError(t, err)

	var committed string
	newRef, err := m.Replace(oldRef, strings.NewReader("new"), "new.png", func(ref string) error {
		committed = ref
		assert.True(t, exists(m, oldRef), "old file must survive until commit returns")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, newRef, committed)
	assert.False(t, exists(m, oldRef))
	assert.True(t, exists(m, newRef))
	assert.Len(t, files(t, m), 1)
}

func TestReplace_OldFileAlreadyMissing(t *testing.T) {
	m := newTestManager(t)

	newRef, err := m.Replace("/uploads/1_gone_gone.png", strings.NewReader("new"), "new.png", nil)
	require.NoError(t, err)
	assert.True(t, exists(m, newRef))
	assert.Len(t, files(t, m), 1)
}

func TestReplace_CommitFailureKeepsOldFile(t *testing.T) {
	m := newTestManager(t)
	oldRef, err := m.Store(strings.NewReader("old"), "old.png")
	require.NoError(t, err)

	commitErr := errors.New("db down")
	_, err = m.Replace(oldRef, strings.NewReader("new"), "new.png", func(string) error { return commitErr })
	require.ErrorIs(t, err, commitErr)

	assert.True(t, exists(m, oldRef))
	assert.Equal(t, []string{strings.TrimPrefix(oldRef, URLPrefix)}, files(t, m))
}

func TestReplace_InvalidUploadKeepsOldFile(t *testing.T) {
	m := newTestManager(t)
	oldRef, err := m.Store(strings.NewReader("old"), "old.png")
	require.NoError(t, err)

	called := false
	_, err = m.Replace(oldRef, strings.NewReader("new"), "new.txt", func(string) error { called = true; return nil })
	require.ErrorIs(t, err, ErrBadType)
	assert.False(t, called)
	assert.True(t, exists(m, oldRef))
}

func TestDelete(t *testing.T) {
	m := newTestManager(t)
	ref, err := m.Store(strings.NewReader("x"), "photo.gif")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ref))
	assert.False(t, exists(m, ref))
	assert.Empty(t, files(t, m))

	// idempotent
	require.NoError(t, m.Delete(ref))
}

func TestDelete_IgnoresForeignReferences(t *testing.T) {
	m := newTestManager(t)
	outside := filepath.Join(filepath.Dir(m.Dir()), "keep.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	for _, ref := range []string{"", "https://cdn.example/a.png", "/uploads/", "/uploads/../keep.png", "/uploads/..", `/uploads/a\b.png`} {
		require.NoError(t, m.Delete(ref), ref)
		assert.False(t, exists(m, ref), ref)
	}
	_, err := os.Stat(outside)
	assert.NoError(t, err, "files outside the store must never be touched")
}

func counter(m *Manager, op, outcome string) float64 {
	return testutil.ToFloat64(m.metrics.AssetOps.WithLabelValues(op, outcome))
}
