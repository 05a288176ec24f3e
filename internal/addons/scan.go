package addons

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

var ErrAddonsDir = errors.New("failed to access addons directory")

// FolderScanner produces the folders found in an addons directory. Folder
// ids are unique within the returned list.
type FolderScanner interface {
	Scan(root string) ([]AddonFolder, error)
}

// Fingerprinter computes the content fingerprint of a folder. Fingerprints
// are only used to match folders that declare no repository id.
type Fingerprinter interface {
	Fingerprint(folder AddonFolder) (uint32, error)
}

// IsDefaultAddon returns true for folders shipped with the game client
func IsDefaultAddon(name string) bool {
	return strings.HasPrefix(name, "Blizzard_")
}

// TOCScanner reads every addon folder's .toc file
type TOCScanner struct {
	log *log.Logger
}

// NewTOCScanner creates a scanner logging to logger
func NewTOCScanner(logger *log.Logger) *TOCScanner {
	return &TOCScanner{log: logger}
}

// Scan returns the folders under root sorted by id. Hidden directories,
// client default addons and folders without a matching .toc are skipped.
func (s *TOCScanner) Scan(root string) ([]AddonFolder, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []AddonFolder{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrAddonsDir, err)
	}

	folders := make([]AddonFolder, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || IsDefaultAddon(name) {
			continue
		}

		folder, err := ParseFolder(filepath.Join(root, name))
		if err != nil {
			s.log.Debug("Skipping folder without toc", "folder", name, "error", err)
			continue
		}
		folders = append(folders, *folder)
	}

	slices.SortFunc(folders, func(a, b AddonFolder) int {
		return strings.Compare(a.ID, b.ID)
	})

	s.log.Debug("Scanned addons directory", "path", root, "folders", len(folders))
	return folders, nil
}

// AssignFingerprints fingerprints every folder that declares no repository
// id, in place. A folder whose fingerprint fails keeps 0 and is left for
// the next pass.
func AssignFingerprints(folders []AddonFolder, fp Fingerprinter, logger *log.Logger) {
	for i := range folders {
		f := &folders[i]
		if f.RepositoryIdentifiers != (RepositoryIdentifiers{}) {
			continue
		}
		sum, err := fp.Fingerprint(*f)
		if err != nil {
			logger.Debug("Failed to fingerprint folder", "folder", f.ID, "error", err)
			continue
		}
		f.Fingerprint = sum
	}
}

// UnmatchedFingerprints returns the non-zero fingerprints of folders
// without a declared repository id, as sent to a fingerprint endpoint
func UnmatchedFingerprints(folders []AddonFolder) []uint32 {
	var sums []uint32
	for _, f := range folders {
		if f.Fingerprint != 0 && f.RepositoryIdentifiers == (RepositoryIdentifiers{}) {
			sums = append(sums, f.Fingerprint)
		}
	}
	return sums
}
