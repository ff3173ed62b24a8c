// Package backup creates and restores zip archives of shell startup files.
//
// Each backup is a single zip named backup_<YYYYMMDD_HHMMSS>.zip (with a
// numeric suffix on collision) containing the archived files plus a
// metadata.json entry describing them. Archives are self-contained: restore
// needs nothing but the zip.
package backup

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// stampFormat is the timestamp embedded in archive names.
const stampFormat = "20060102_150405"

// Manager handles backup creation, restoration, and pruning.
type Manager struct {
	rootDir   string
	retention int
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetention sets the number of archives Prune keeps by default.
func WithRetention(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retention = n
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:   DefaultDir(),
		retention: DefaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the manager's root backup directory.
func (m *Manager) Dir() string { return m.rootDir }

// Retention returns the configured retention count.
func (m *Manager) Retention() int { return m.retention }

// Create archives the given files into a new backup zip and returns its
// record. Paths that do not exist are skipped. Creating a backup with no
// existing files is an error; deciding that nothing needs backing up is the
// caller's job.
func (m *Manager) Create(paths []string, message string) (*Record, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one path is required")
	}

	now := m.now()

	var files []File
	seen := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", p)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}

		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(setvarerrors.ErrFileAccess, "stat %s: %v", abs, err)
		}
		files = append(files, File{
			OriginalPath: abs,
			ArchiveName:  archiveName(abs),
			Mode:         info.Mode().Perm(),
		})
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	if err := os.MkdirAll(m.rootDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	id, archivePath, err := m.claimArchiveName(now)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Version:     MetadataVersion,
		CreatedAt:   now.UTC(),
		Message:     message,
		Files:       files,
		ToolVersion: Version,
		ID:          id,
		Path:        archivePath,
	}

	if err := m.writeArchive(archivePath, record); err != nil {
		os.Remove(archivePath)
		return nil, err
	}
	return record, nil
}

// claimArchiveName picks the first free backup_<stamp>[_N].zip name under
// the root directory.
func (m *Manager) claimArchiveName(now time.Time) (id, path string, err error) {
	base := "backup_" + now.Format(stampFormat)
	for n := 0; ; n++ {
		id = base
		if n > 0 {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		path = filepath.Join(m.rootDir, id+".zip")
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return id, path, nil
			}
			return "", "", errors.Wrapf(err, "stat %s", path)
		}
	}
}

// writeArchive builds the zip at archivePath from the record's file list.
// The zip is written to a temp file and renamed into place so a partial
// archive never carries a valid backup name.
func (m *Manager) writeArchive(archivePath string, record *Record) error {
	tmp, err := os.CreateTemp(m.rootDir, ".setvar-backup-*.zip")
	if err != nil {
		return errors.Wrap(err, "creating temp archive")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	zw := zip.NewWriter(tmp)

	for _, f := range record.Files {
		if err := addFileEntry(zw, f); err != nil {
			zw.Close()
			tmp.Close()
			return err
		}
	}

	meta, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		zw.Close()
		tmp.Close()
		return errors.Wrap(err, "encoding metadata")
	}
	w, err := zw.Create(metadataName)
	if err != nil {
		zw.Close()
		tmp.Close()
		return errors.Wrap(err, "creating metadata entry")
	}
	if _, err := w.Write(meta); err != nil {
		zw.Close()
		tmp.Close()
		return errors.Wrap(err, "writing metadata entry")
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "finalizing archive")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp archive")
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		return errors.Wrap(err, "moving archive into place")
	}
	return nil
}

func addFileEntry(zw *zip.Writer, f File) error {
	src, err := os.Open(f.OriginalPath)
	if err != nil {
		return errors.Wrapf(setvarerrors.ErrFileAccess, "open %s: %v", f.OriginalPath, err)
	}
	defer src.Close()

	hdr := &zip.FileHeader{
		Name:   f.ArchiveName,
		Method: zip.Deflate,
	}
	hdr.SetMode(f.Mode)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrapf(err, "creating entry %s", f.ArchiveName)
	}
	if _, err := io.Copy(w, src); err != nil {
		return errors.Wrapf(err, "archiving %s", f.OriginalPath)
	}
	return nil
}

// List returns all backups, newest first. A missing or empty backup
// directory yields an empty list, not an error. Archives whose metadata
// cannot be read are skipped.
func (m *Manager) List() ([]Record, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var records []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "backup_") || !strings.HasSuffix(name, ".zip") {
			continue
		}
		record, err := m.readRecord(filepath.Join(m.rootDir, name))
		if err != nil {
			continue
		}
		records = append(records, *record)
	}

	slices.SortFunc(records, func(a, b Record) int {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return 1
		}
		return strings.Compare(b.ID, a.ID)
	})
	return records, nil
}

// Get returns the record for one backup. The id may be given with or
// without the .zip extension.
func (m *Manager) Get(id string) (*Record, error) {
	if id == "" {
		return nil, errors.Wrap(setvarerrors.ErrBackupNotFound, "empty backup ID")
	}
	name := strings.TrimSuffix(id, ".zip") + ".zip"
	path := filepath.Join(m.rootDir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(setvarerrors.ErrBackupNotFound, "%s", id)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	return m.readRecord(path)
}

// readRecord loads metadata.json out of one archive.
func (m *Manager) readRecord(path string) (*Record, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != metadataName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening metadata entry")
		}
		defer rc.Close()

		var record Record
		if err := json.NewDecoder(rc).Decode(&record); err != nil {
			return nil, errors.Wrap(err, "parsing metadata")
		}
		record.ID = strings.TrimSuffix(filepath.Base(path), ".zip")
		record.Path = path
		return &record, nil
	}
	return nil, errors.Newf("%s has no metadata entry", filepath.Base(path))
}

// Restore writes every file of the identified backup back to its original
// location, atomically and with its recorded permissions. Files that have
// changed since the backup are overwritten without question; callers wanting
// a safety net take a fresh backup first.
func (m *Manager) Restore(id string) (*Record, error) {
	record, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(record.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", record.Path)
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	for _, f := range record.Files {
		entry, ok := entries[f.ArchiveName]
		if !ok {
			return nil, errors.Newf("archive entry %s missing from %s", f.ArchiveName, record.ID)
		}
		data, err := readEntry(entry)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(f.OriginalPath), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", f.OriginalPath)
		}
		if err := fileutil.AtomicWriteFile(f.OriginalPath, data, f.Mode); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", f.OriginalPath)
		}
	}
	return record, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening entry %s", entry.Name)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, fileutil.MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading entry %s", entry.Name)
	}
	if int64(len(data)) > fileutil.MaxFileSize {
		return nil, errors.Newf("entry %s exceeds size limit", entry.Name)
	}
	return data, nil
}

// Prune deletes all but the newest keep archives and returns the IDs it
// removed. keep < 0 means the manager's configured retention.
func (m *Manager) Prune(keep int) ([]string, error) {
	if keep < 0 {
		keep = m.retention
	}
	records, err := m.List()
	if err != nil {
		return nil, err
	}

	var removed []string
	for i := keep; i < len(records); i++ {
		if err := os.Remove(records[i].Path); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", records[i].ID)
		}
		removed = append(removed, records[i].ID)
	}
	return removed, nil
}

// archiveName maps an absolute path to its zip entry name: the cleaned path
// with the leading separator dropped and forward slashes throughout. Full
// paths keep entries unique when different directories hold files with the
// same base name.
func archiveName(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.TrimPrefix(clean, string(filepath.Separator))
	return filepath.ToSlash(clean)
}
