package install

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const (
	// MaxBackupsPerAddon is the maximum number of backups to keep per addon
	MaxBackupsPerAddon = 3
	// BackupTimestampFormat is the format used for backup directory names.
	// It sorts lexically in chronological order.
	BackupTimestampFormat = "20060102-150405.000000000"
)

// BackupManager keeps copies of addon folders taken before they are deleted
type BackupManager struct {
	backupDir string
	now       func() time.Time
}

// NewBackupManager creates a new backup manager
func NewBackupManager(dataDir string) *BackupManager {
	return &BackupManager{
		backupDir: filepath.Join(dataDir, "backups"),
		now:       time.Now,
	}
}

// CreateBackup copies the folders of an addon found under root into a new
// timestamped backup. Folders missing from root are skipped.
func (bm *BackupManager) CreateBackup(addonID, root string, folderIDs []string) (string, error) {
	timestamp := bm.now().Format(BackupTimestampFormat)
	backupPath := filepath.Join(bm.backupDir, addonID, timestamp)

	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, id := range folderIDs {
		src := filepath.Join(root, id)
		if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := copyTree(src, filepath.Join(backupPath, id)); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to backup %s: %w", id, err)
		}
	}

	if err := bm.cleanupOldBackups(addonID); err != nil {
		return backupPath, fmt.Errorf("failed to cleanup old backups: %w", err)
	}

	return backupPath, nil
}

// RestoreBackup puts every folder of a backup back under root, replacing
// the folders currently installed
func (bm *BackupManager) RestoreBackup(addonID, timestamp, root string) error {
	backupPath := filepath.Join(bm.backupDir, addonID, timestamp)

	entries, err := os.ReadDir(backupPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("backup not found: %s/%s", addonID, timestamp)
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dest := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("failed to remove existing folder: %w", err)
		}
		if err := copyTree(filepath.Join(backupPath, entry.Name()), dest); err != nil {
			return fmt.Errorf("failed to restore backup: %w", err)
		}
	}

	return nil
}

// ListBackups returns the backup timestamps of an addon, newest first
func (bm *BackupManager) ListBackups(addonID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(bm.backupDir, addonID))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	backups := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			backups = append(backups, entry.Name())
		}
	}
	slices.Sort(backups)
	slices.Reverse(backups)
	return backups, nil
}

// DeleteBackup deletes a specific backup
func (bm *BackupManager) DeleteBackup(addonID, timestamp string) error {
	return os.RemoveAll(filepath.Join(bm.backupDir, addonID, timestamp))
}

// cleanupOldBackups keeps the MaxBackupsPerAddon newest backups
func (bm *BackupManager) cleanupOldBackups(addonID string) error {
	backups, err := bm.ListBackups(addonID)
	if err != nil || len(backups) <= MaxBackupsPerAddon {
		return err
	}

	for _, ts := range backups[MaxBackupsPerAddon:] {
		if err := bm.DeleteBackup(addonID, ts); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies the directory src to dst, keeping permission bits.
// Symlinks and other special files are skipped.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return nil
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
