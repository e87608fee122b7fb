// Package assets owns the on-disk image store. It is the only component
// that creates or removes files in the upload directory.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/metrics"
)

// URLPrefix starts every asset reference handed out by the Manager.
const URLPrefix = "/uploads/"

var (
	ErrEmptyFile = apperr.Validation("No file selected")
	ErrBadType   = apperr.Validation("Invalid file type")
)

// Manager validates, writes, replaces and deletes uploaded images.
type Manager struct {
	dir     string
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	suffix  func() string
}

// NewManager returns a Manager rooted at dir, creating it if needed.
func NewManager(dir string, logger *slog.Logger, m *metrics.Metrics) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Manager{
		dir:     dir,
		logger:  logger,
		metrics: m,
		now:     time.Now,
		suffix:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
	}, nil
}

// Dir is the directory files are written to.
func (m *Manager) Dir() string { return m.dir }

// Store writes the contents of r under a fresh name derived from filename
// and returns its reference, "/uploads/<stored name>". The file is
// written to a temporary name and renamed into place, so a failed write
// never leaves a partial file under a referenceable name.
func (m *Manager) Store(r io.Reader, filename string) (ref string, err error) {
	defer func() { m.metrics.AssetOp("store", err) }()

	if filename == "" {
		return "", ErrEmptyFile
	}
	if !ValidateType(filename) {
		return "", ErrBadType
	}
	name := fmt.Sprintf("%d_%s_%s", m.now().UnixNano(), m.suffix(), storedName(filename))

	tmp, err := os.CreateTemp(m.dir, ".upload-*")
	if err != nil {
		return "", storageErr("ASSET_CREATE_FAILED", name, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return "", storageErr("ASSET_WRITE_FAILED", name, err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	if err := tmp.Sync(); err != nil {
		return "", storageErr("ASSET_SYNC_FAILED", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", storageErr("ASSET_CLOSE_FAILED", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", storageErr("ASSET_CHMOD_FAILED", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(m.dir, name)); err != nil {
		return "", storageErr("ASSET_RENAME_FAILED", name, err)
	}
	committed = true

	m.logger.Debug("asset stored", "name", name, "bytes", n)
	return URLPrefix + name, nil
}

// Replace stores the new file, hands its reference to commit (typically
// the record update), and only after commit succeeds removes the file
// behind oldRef. If commit fails the new file is removed and the old one
// is left untouched. A nil commit is treated as always succeeding.
//
// Removing the old file is best-effort: a missing file is fine, and any
// other failure is logged rather than returned, since the record already
// points at the new file.
func (m *Manager) Replace(oldRef string, r io.Reader, filename string, commit func(newRef string) error) (string, error) {
	newRef, err := m.Store(r, filename)
	if err != nil {
		return "", err
	}
	if commit != nil {
		if err := commit(newRef); err != nil {
			m.discard(newRef)
			return "", err
		}
	}
	if oldRef != "" && oldRef != newRef {
		m.discard(oldRef)
	}
	return newRef, nil
}

// Delete removes the file behind ref. Empty refs, refs outside the asset
// store and files that are already gone are not errors.
func (m *Manager) Delete(ref string) (err error) {
	path, ok := m.path(ref)
	if !ok {
		return nil
	}
	defer func() { m.metrics.AssetOp("delete", err) }()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageErr("ASSET_DELETE_FAILED", filepath.Base(path), err)
	}
	return nil
}

// discard is Delete for cleanup paths where the caller has nothing
// better to do with the error than log it.
func (m *Manager) discard(ref string) {
	if err := m.Delete(ref); err != nil {
		apperr.Log(m.logger, "asset cleanup failed", err, "ref", ref)
	}
}

// path maps an asset reference onto a file inside the store directory.
func (m *Manager) path(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, URLPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(m.dir, name), true
}

func storageErr(code, name string, err error) error {
	return oops.Code(code).With("name", name).Wrap(apperr.Storage(err, "asset storage failed"))
}
