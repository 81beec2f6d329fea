package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a regular file exists at the given path
func FileExists(path string) (bool, error) {
	info, err := DefaultFS.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		// Don't wrap "file not found" errors
		if err.Error() == os.ErrNotExist.Error() ||
			err.Error() == "file does not exist" ||
			err.Error() == "no such file or directory" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}
	return !info.IsDir(), nil
}

// ReadFileString reads a file and returns its contents as a string
func ReadFileString(path string) (string, error) {
	data, err := DefaultFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// WriteFileString writes a string to a file
func WriteFileString(path, content string) error {
	err := DefaultFS.WriteFile(path, []byte(content), ReadWriteUserReadOthers)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// BackupPath returns the sibling path used to back up the file at path,
// inserting suffix between the file's stem and extension:
//
//	BackupPath("deploy/loko.yaml", "-prev") == "deploy/loko-prev.yaml"
//
// A dotfile whose whole name parses as an extension (".yamllint") gets the
// suffix appended instead, so the backup stays a dotfile.
func BackupPath(path, suffix string) string {
	ext := filepath.Ext(path)
	if filepath.Base(path) == ext {
		return path + suffix
	}
	return strings.TrimSuffix(path, ext) + suffix + ext
}
