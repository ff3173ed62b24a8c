package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNoFiles indicates none of the requested paths existed, so there was
// nothing to archive.
var ErrNoFiles = errors.New("no files to back up")

// Metadata format version for forward compatibility.
const MetadataVersion = 1

// DefaultRetention is the default number of backup archives to retain.
const DefaultRetention = 10

// metadataName is the archive entry holding the backup's metadata.
const metadataName = "metadata.json"

// Record describes one backup archive. It is stored as metadata.json inside
// the zip.
type Record struct {
	// Version is the metadata format version.
	Version int `json:"version"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at"`

	// Message is an optional free-form note, typically naming the operation
	// the backup was taken ahead of.
	Message string `json:"message,omitempty"`

	// Files lists the archived files.
	Files []File `json:"files"`

	// ToolVersion is the setvar version that created the backup.
	ToolVersion string `json:"tool_version"`

	// ID is the archive name without the .zip extension. Derived from the
	// filename on load, never stored.
	ID string `json:"-"`

	// Path is the archive's location on disk. Derived on load.
	Path string `json:"-"`
}

// File is one archived startup file.
type File struct {
	// OriginalPath is the absolute path the file was read from and will be
	// restored to.
	OriginalPath string `json:"original_path"`

	// ArchiveName is the file's entry name inside the zip.
	ArchiveName string `json:"archive_name"`

	// Mode is the file's permission bits, reapplied on restore.
	Mode fs.FileMode `json:"mode"`
}
