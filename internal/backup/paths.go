package backup

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultDir returns the default root backup directory,
// $XDG_DATA_HOME/setvar/backups.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "setvar", "backups")
}
