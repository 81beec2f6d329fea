package upgrade

import (
	"errors"
	"fmt"
)

// Fatal upgrade errors. Unlike per-field fetch failures, these abort the
// run.
var (
	// ErrBackupWriteFailed indicates the backup file could not be written.
	// No mutation has been applied to the primary file.
	ErrBackupWriteFailed = errors.New("backup write failed")

	// ErrPrimaryWriteFailed indicates a failure after the backup was
	// committed. The primary file may be inconsistent; the error names the
	// backup to restore from.
	ErrPrimaryWriteFailed = errors.New("primary write failed")
)

// WrapBackupWriteFailed wraps a backup failure with the backup path.
func WrapBackupWriteFailed(backupPath string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrBackupWriteFailed, backupPath, err)
}

// WrapPrimaryWriteFailed wraps a post-backup failure, pointing at the backup
// holding the pre-upgrade content.
func WrapPrimaryWriteFailed(path, backupPath string, err error) error {
	return fmt.Errorf("%w: %s (pre-upgrade content preserved at %s): %v", ErrPrimaryWriteFailed, path, backupPath, err)
}
