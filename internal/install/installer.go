// Package install extracts downloaded addon archives into the addons
// directory and removes installed folders.
package install

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/zip"

	"github.com/Nazgutek/ajour/internal/addons"
)

// Installer unpacks addon archives. Calls targeting the same destination
// directory are serialized; different directories proceed concurrently.
type Installer struct {
	log    *log.Logger
	backup *BackupManager

	mu    sync.Mutex
	roots map[string]*sync.Mutex
}

// NewInstaller creates an installer. backup may be nil when backups before
// delete are not wanted.
func NewInstaller(logger *log.Logger, backup *BackupManager) *Installer {
	return &Installer{
		log:    logger,
		backup: backup,
		roots:  make(map[string]*sync.Mutex),
	}
}

// lock takes the mutex for a destination root and returns its unlock func.
// Mutexes are kept for the life of the Installer, one per root ever seen.
func (i *Installer) lock(root string) func() {
	key := filepath.Clean(root)

	i.mu.Lock()
	m, ok := i.roots[key]
	if !ok {
		m = &sync.Mutex{}
		i.roots[key] = m
	}
	i.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// InstallAddon installs the archive downloaded for addon
func (i *Installer) InstallAddon(addon *addons.Addon, fromDir, toDir string) ([]string, error) {
	return i.Install(addon.PrimaryFolderID, fromDir, toDir)
}

// Install extracts the archive fromDir/addonID into toDir and removes the
// archive afterwards. Every top-level folder in the archive replaces the
// existing folder of the same name instead of being merged into it.
// It returns the addon folders found in the archive, i.e. folders holding a
// .toc file named after themselves. A failed extraction is not rolled back.
func (i *Installer) Install(addonID, fromDir, toDir string) ([]string, error) {
	unlock := i.lock(toDir)
	defer unlock()

	archivePath := filepath.Join(fromDir, addonID)
	// An archive with non-local entry names still yields a reader next to
	// the error; those names are neutralized by sanitizeName below.
	r, err := zip.OpenReader(archivePath)
	if r == nil {
		return nil, wrapErr("open", archivePath, err)
	}

	dirs, err := i.extract(&r.Reader, toDir)
	closeErr := r.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, wrapErr("close", archivePath, closeErr)
	}

	if err := os.Remove(archivePath); err != nil {
		return nil, wrapErr("remove", archivePath, err)
	}

	i.log.Info("Addon installed", "addon", addonID, "folders", len(dirs))
	return dirs, nil
}

func (i *Installer) extract(zr *zip.Reader, toDir string) ([]string, error) {
	var addonDirs []string
	cleaned := make(map[string]bool)

	for _, f := range zr.File {
		name := sanitizeName(f.Name)
		if name == "" {
			continue
		}

		// Clear the previous version of each top-level folder before the
		// first write into it. This runs before the path is resolved so an
		// existing symlink at the top level is removed, not followed.
		top, _, _ := strings.Cut(name, "/")
		if !cleaned[top] {
			cleaned[top] = true
			topPath := filepath.Join(toDir, top)
			if err := os.RemoveAll(topPath); err != nil {
				return nil, wrapErr("clean", topPath, err)
			}
		}

		path, err := securejoin.SecureJoin(toDir, name)
		if err != nil {
			return nil, wrapErr("resolve", f.Name, err)
		}

		// A root addon folder holds a .toc named after the folder
		base := filepath.Base(name)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if name == stem+"/"+stem+".toc" {
			addonDirs = append(addonDirs, filepath.Join(toDir, stem))
			i.log.Debug("Found addon folder in archive", "folder", stem)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, wrapErr("mkdir", path, err)
			}
			continue
		}

		if err := extractFile(f, path); err != nil {
			return nil, err
		}
	}

	return addonDirs, nil
}

// extractFile copies a single archive entry to path
func extractFile(f *zip.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return wrapErr("mkdir", filepath.Dir(path), err)
	}

	src, err := f.Open()
	if err != nil {
		return wrapErr("read", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return wrapErr("create", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return wrapErr("write", path, err)
	}

	return wrapErr("close", path, dst.Close())
}

// sanitizeName turns an archive entry name into a relative slash path.
// Root, current and parent directory components are dropped, and anything
// after a NUL byte is ignored.
func sanitizeName(name string) string {
	if idx := strings.IndexByte(name, 0); idx >= 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, `\`, "/")

	parts := make([]string, 0, strings.Count(name, "/")+1)
	for _, part := range strings.Split(name, "/") {
		switch part {
		case "", ".", "..":
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/")
}

// Delete removes the folders named by folderIDs from toDir. Folders that do
// not exist are skipped.
func (i *Installer) Delete(toDir string, folderIDs []string) error {
	unlock := i.lock(toDir)
	defer unlock()

	return i.delete(toDir, folderIDs)
}

func (i *Installer) delete(toDir string, folderIDs []string) error {
	for _, id := range folderIDs {
		name := sanitizeName(id)
		if name == "" {
			continue
		}

		path, err := securejoin.SecureJoin(toDir, name)
		if err != nil {
			return wrapErr("resolve", id, err)
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			return wrapErr("remove", path, err)
		}
		i.log.Debug("Removed addon folder", "folder", id)
	}
	return nil
}

// DeleteAddon removes every folder of addon from toDir, backing them up
// first when the installer has a backup manager
func (i *Installer) DeleteAddon(addon *addons.Addon, toDir string, createBackup bool) error {
	unlock := i.lock(toDir)
	defer unlock()

	folderIDs := addon.FolderIDs()
	if createBackup && i.backup != nil {
		backupPath, err := i.backup.CreateBackup(addon.PrimaryFolderID, toDir, folderIDs)
		if err != nil {
			i.log.Warn("Failed to create backup", "addon", addon.PrimaryFolderID, "error", err)
		} else {
			i.log.Info("Backup created", "path", backupPath)
		}
	}

	if err := i.delete(toDir, folderIDs); err != nil {
		return err
	}

	i.log.Info("Addon removed", "addon", addon.PrimaryFolderID)
	return nil
}
