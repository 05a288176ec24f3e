package addons

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazgutek/ajour/internal/logger"
)

func writeAddon(t *testing.T, root, id, toc string) string {
	t.Helper()

	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".toc"), []byte(toc), 0644))
	return dir
}

func TestParseTOC(t *testing.T) {
	dir := writeAddon(t, t.TempDir(), "Foo", `## Interface: 90002
## Title: |cff1784d1Foo|r Addon
## Notes: Does |cffff0000things|r
## Author: Someone
## Version: v1.2.3
## X-Curse-Project-ID: 1234
## X-Tukui-ProjectID: 12
## X-WoWI-ID: 5000
## Dependencies: Bar, Baz ,
## RequiredDeps: Qux
Foo.lua
`)

	info, err := ParseTOC(filepath.Join(dir, "Foo.toc"))
	require.NoError(t, err)

	assert.Equal(t, "Foo Addon", info.Title)
	assert.Equal(t, "Does things", info.Notes)
	assert.Equal(t, "Someone", info.Author)
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "90002", info.Interface)
	assert.Equal(t, RepositoryIdentifiers{WowI: "5000", Tukui: "12", Curse: 1234}, info.RepositoryIdentifiers)
	assert.Equal(t, []string{"Bar", "Baz", "Qux"}, info.Dependencies)
}

func TestParseTOCInvalidCurseID(t *testing.T) {
	dir := writeAddon(t, t.TempDir(), "Foo", "## X-Curse-Project-ID: abc\n")

	info, err := ParseTOC(filepath.Join(dir, "Foo.toc"))
	require.NoError(t, err)
	assert.Zero(t, info.RepositoryIdentifiers.Curse)
}

func TestParseFolderTitleFallback(t *testing.T) {
	dir := writeAddon(t, t.TempDir(), "Foo", "## Version: 1.0\n")

	folder, err := ParseFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, "Foo", folder.ID)
	assert.Equal(t, "Foo", folder.Title)
	assert.Equal(t, dir, folder.Path)
	assert.Equal(t, "1.0", folder.Version)
}

func TestTOCScannerScan(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "Zeta", "## Title: Zeta\n")
	writeAddon(t, root, "Alpha", "## Title: Alpha\n## Dependencies: Zeta\n")
	writeAddon(t, root, "Blizzard_AuctionUI", "## Title: Auction\n")
	writeAddon(t, root, ".hidden", "## Title: Hidden\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "NoToc"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644))

	var scanner FolderScanner = NewTOCScanner(logger.Discard())
	folders, err := scanner.Scan(root)
	require.NoError(t, err)

	require.Len(t, folders, 2)
	assert.Equal(t, "Alpha", folders[0].ID)
	assert.Equal(t, []string{"Zeta"}, folders[0].Dependencies)
	assert.Equal(t, "Zeta", folders[1].ID)
}

func TestTOCScannerMissingRoot(t *testing.T) {
	folders, err := NewTOCScanner(logger.Discard()).Scan(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, folders)
}

type fakeFingerprinter map[string]uint32

func (f fakeFingerprinter) Fingerprint(folder AddonFolder) (uint32, error) {
	sum, ok := f[folder.ID]
	if !ok {
		return 0, errors.New("unreadable folder")
	}
	return sum, nil
}

func TestAssignFingerprints(t *testing.T) {
	declared := testFolder("Declared")
	declared.RepositoryIdentifiers.Tukui = "12"
	folders := []AddonFolder{declared, testFolder("Plain"), testFolder("Broken")}

	AssignFingerprints(folders, fakeFingerprinter{"Declared": 1, "Plain": 42}, logger.Discard())

	assert.Zero(t, folders[0].Fingerprint)
	assert.Equal(t, uint32(42), folders[1].Fingerprint)
	assert.Zero(t, folders[2].Fingerprint)
	assert.Equal(t, []uint32{42}, UnmatchedFingerprints(folders))
}
