// =============================================================================
// POI Reconcile - File Manager Utility
// =============================================================================
//
// This module provides the small file operations the commands share:
//   - Backing up a file before it is overwritten
//   - Creating parent directories for output files
//   - Existence checks
//
// BACKUP STRATEGY:
//   - "timestamp": copy to <path>.bak.<YYYYmmddHHMMSS>, one backup per run
//   - "fixed":     copy to <path>.bak, replacing the previous backup
//   - "none":      no backup
//   The original stays in place until the caller overwrites it, so a failed
//   write never leaves the path empty.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backup modes, matching the geometry.backup configuration values.
const (
	BackupTimestamp = "timestamp"
	BackupFixed     = "fixed"
	BackupNone      = "none"
)

// BackupSuffix is appended to backed-up file names.
const BackupSuffix = ".bak"

// backupTimeFormat renders YYYYmmddHHMMSS.
const backupTimeFormat = "20060102150405"

// =============================================================================
// BACKUP
// =============================================================================

// BackupPath returns the backup file name for path.
//
// PARAMETERS:
//   - path: The file that is about to be overwritten.
//   - mode: BackupTimestamp or BackupFixed.
//   - now:  The time stamped into timestamped names.
//
// RETURNS:
//   - The backup path, or "" for BackupNone and unknown modes.
//
// EXAMPLE:
//   BackupPath("data/poi.geojson", "timestamp", t) -> "data/poi.geojson.bak.20240115143022"
func BackupPath(path, mode string, now time.Time) string {
	switch strings.ToLower(mode) {
	case BackupTimestamp:
		return path + BackupSuffix + "." + now.Format(backupTimeFormat)
	case BackupFixed:
		return path + BackupSuffix
	default:
		return ""
	}
}

// BackupFile copies an existing file aside before it is overwritten.
//
// PARAMETERS:
//   - path: The file to back up.
//   - mode: BackupTimestamp, BackupFixed or BackupNone.
//   - now:  The time used for timestamped names.
//
// RETURNS:
//   - The backup path, or "" when nothing was backed up (mode "none" or the
//     file does not exist yet).
//   - An error if the copy fails.
func BackupFile(path, mode string, now time.Time) (string, error) {
	backupPath := BackupPath(path, mode, now)
	if backupPath == "" || !FileExists(path) {
		return "", nil
	}

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}

	return backupPath, nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst, keeping src's permissions.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
