package install

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazgutek/ajour/internal/addons"
	"github.com/Nazgutek/ajour/internal/logger"
)

type entry struct {
	name    string
	content string
}

// writeArchive writes a zip at dir/name. Entries ending in "/" are
// directories.
func writeArchive(t *testing.T, dir, name string, entries ...entry) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if e.content != "" {
			_, err = w.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

func newTestInstaller() *Installer {
	return NewInstaller(logger.Discard(), nil)
}

func fooArchive(t *testing.T, staging string) {
	writeArchive(t, staging, "Foo",
		entry{name: "Foo/"},
		entry{name: "Foo/Foo.toc", content: "## Title: Foo\n"},
		entry{name: "Foo/lib/"},
		entry{name: "Foo/lib/x.lua", content: "print('x')"},
	)
}

func TestInstallDetectsAddonRoot(t *testing.T) {
	staging, dest := t.TempDir(), t.TempDir()
	fooArchive(t, staging)

	dirs, err := newTestInstaller().Install("Foo", staging, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dest, "Foo")}, dirs)

	data, err := os.ReadFile(filepath.Join(dest, "Foo", "lib", "x.lua"))
	require.NoError(t, err)
	assert.Equal(t, "print('x')", string(data))
	assert.FileExists(t, filepath.Join(dest, "Foo", "Foo.toc"))

	// The staged archive is consumed
	assert.NoFileExists(t, filepath.Join(staging, "Foo"))
}

func TestInstallReplacesStaleFiles(t *testing.T) {
	staging, dest := t.TempDir(), t.TempDir()

	stale := filepath.Join(dest, "Foo", "old.lua")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	untouched := filepath.Join(dest, "Other", "Other.toc")
	require.NoError(t, os.MkdirAll(filepath.Dir(untouched), 0755))
	require.NoError(t, os.WriteFile(untouched, []byte("## Title: Other\n"), 0644))

	fooArchive(t, staging)
	_, err := newTestInstaller().Install("Foo", staging, dest)
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dest, "Foo", "lib", "x.lua"))
	assert.FileExists(t, untouched)
}

func TestInstallWithoutDirectoryEntries(t *testing.T) {
	staging, dest := t.TempDir(), t.TempDir()

	stale := filepath.Join(dest, "Bar", "stale.lua")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	writeArchive(t, staging, "Bar",
		entry{name: "Bar/Bar.toc", content: "## Title: Bar\n"},
		entry{name: "Bar/core/init.lua", content: "init"},
		entry{name: "Bar_Options/Bar_Options.toc", content: "## Title: Bar Options\n"},
	)

	dirs, err := newTestInstaller().Install("Bar", staging, dest)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dest, "Bar"),
		filepath.Join(dest, "Bar_Options"),
	}, dirs)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dest, "Bar", "core", "init.lua"))
}

func TestInstallNestedTocIsNotRoot(t *testing.T) {
	staging, dest := t.TempDir(), t.TempDir()

	writeArchive(t, staging, "Pack",
		entry{name: "Pack/Modules/Modules.toc", content: "## Title: Nested\n"},
		entry{name: "Pack/Other.toc", content: "## Title: Other\n"},
	)

	dirs, err := newTestInstaller().Install("Pack", staging, dest)
	require.NoError(t, err)
	assert.Empty(t, dirs)
	assert.FileExists(t, filepath.Join(dest, "Pack", "Modules", "Modules.toc"))
}

func TestInstallNeutralizesPathTraversal(t *testing.T) {
	base := t.TempDir()
	staging := filepath.Join(base, "staging")
	dest := filepath.Join(base, "AddOns")
	require.NoError(t, os.MkdirAll(staging, 0755))
	require.NoError(t, os.MkdirAll(dest, 0755))

	writeArchive(t, staging, "Evil",
		entry{name: "../escape.txt", content: "nope"},
		entry{name: "/abs/Abs.lua", content: "abs"},
		entry{name: "Evil/../../Evil.toc", content: "x"},
	)

	_, err := newTestInstaller().Install("Evil", staging, dest)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(base, "escape.txt"))
	assert.FileExists(t, filepath.Join(dest, "escape.txt"))
	assert.FileExists(t, filepath.Join(dest, "abs", "Abs.lua"))
	assert.FileExists(t, filepath.Join(dest, "Evil", "Evil.toc"))
}

func TestInstallReplacesSymlinkedFolder(t *testing.T) {
	for _, withDirEntry := range []bool{false, true} {
		base := t.TempDir()
		staging := filepath.Join(base, "staging")
		dest := filepath.Join(base, "AddOns")
		devCopy := filepath.Join(base, "dev", "Foo")
		require.NoError(t, os.MkdirAll(staging, 0755))
		require.NoError(t, os.MkdirAll(dest, 0755))
		require.NoError(t, os.MkdirAll(devCopy, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(devCopy, "dev.lua"), []byte("dev"), 0644))
		require.NoError(t, os.Symlink(devCopy, filepath.Join(dest, "Foo")))

		entries := []entry{
			{name: "Foo/Foo.toc", content: "## Title: Foo\n"},
			{name: "Foo/x.lua", content: "x"},
		}
		if withDirEntry {
			entries = append([]entry{{name: "Foo/"}}, entries...)
		}
		writeArchive(t, staging, "Foo", entries...)

		dirs, err := newTestInstaller().Install("Foo", staging, dest)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dest, "Foo")}, dirs)

		info, err := os.Lstat(filepath.Join(dest, "Foo"))
		require.NoError(t, err)
		assert.True(t, info.IsDir(), "symlink should be replaced by a real folder")
		assert.FileExists(t, filepath.Join(dest, "Foo", "Foo.toc"))
		assert.FileExists(t, filepath.Join(dest, "Foo", "x.lua"))

		// Nothing else is created under the root and the link target is untouched
		top, err := os.ReadDir(dest)
		require.NoError(t, err)
		assert.Len(t, top, 1)
		assert.FileExists(t, filepath.Join(devCopy, "dev.lua"))
		assert.NoFileExists(t, filepath.Join(devCopy, "Foo.toc"))
	}
}

func TestInstallAddonUsesPrimaryFolderID(t *testing.T) {
	staging, dest := t.TempDir(), t.TempDir()
	fooArchive(t, staging)

	dirs, err := newTestInstaller().InstallAddon(addons.NewAddon("Foo"), staging, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "Foo")}, dirs)
}

func TestInstallMissingArchive(t *testing.T) {
	_, err := newTestInstaller().Install("Missing", t.TempDir(), t.TempDir())
	require.Error(t, err)

	var installErr *InstallError
	require.True(t, errors.As(err, &installErr))
	assert.Equal(t, "open", installErr.Op)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestInstallCorruptArchive(t *testing.T) {
	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, "Foo"), []byte("not a zip"), 0644))

	_, err := newTestInstaller().Install("Foo", staging, t.TempDir())
	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, "open", installErr.Op)
}

func TestInstallConcurrentSameRoot(t *testing.T) {
	staging, dest := t.TempDir(), t.TempDir()
	names := []string{"A", "B", "C", "D"}
	for _, name := range names {
		writeArchive(t, staging, name,
			entry{name: name + "/" + name + ".toc", content: "## Title: " + name + "\n"},
		)
	}

	installer := newTestInstaller()
	var wg sync.WaitGroup
	errs := make([]error, len(names))
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = installer.Install(name, staging, dest)
		}()
	}
	wg.Wait()

	for i, name := range names {
		require.NoError(t, errs[i])
		assert.FileExists(t, filepath.Join(dest, name, name+".toc"))
	}
}

func TestDelete(t *testing.T) {
	dest := t.TempDir()
	for _, id := range []string{"Foo", "Foo_Options", "Keep"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dest, id, "sub"), 0755))
	}

	err := newTestInstaller().Delete(dest, []string{"Foo", "Foo_Options", "DoesNotExist"})
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(dest, "Foo"))
	assert.NoDirExists(t, filepath.Join(dest, "Foo_Options"))
	assert.DirExists(t, filepath.Join(dest, "Keep"))
}

func TestDeleteMissingOnly(t *testing.T) {
	err := newTestInstaller().Delete(t.TempDir(), []string{"Nope", "AlsoNope"})
	assert.NoError(t, err)
}

func TestDeleteStaysInsideRoot(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "AddOns")
	outside := filepath.Join(base, "Outside")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, os.MkdirAll(outside, 0755))

	require.NoError(t, newTestInstaller().Delete(dest, []string{"../Outside"}))
	assert.DirExists(t, outside)
}

func TestDeleteAddonWithBackup(t *testing.T) {
	dest, dataDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "Foo"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "Foo", "Foo.toc"), []byte("toc"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "Foo_Options"), 0755))

	addon := addons.NewAddon("Foo")
	addon.Folders = []addons.AddonFolder{{ID: "Foo"}, {ID: "Foo_Options"}}

	backup := NewBackupManager(dataDir)
	installer := NewInstaller(logger.Discard(), backup)
	require.NoError(t, installer.DeleteAddon(addon, dest, true))

	assert.NoDirExists(t, filepath.Join(dest, "Foo"))
	assert.NoDirExists(t, filepath.Join(dest, "Foo_Options"))

	backups, err := backup.ListBackups("Foo")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.FileExists(t, filepath.Join(dataDir, "backups", "Foo", backups[0], "Foo", "Foo.toc"))
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"Foo/Foo.toc":      "Foo/Foo.toc",
		"Foo/":             "Foo",
		"./Foo/./bar.lua":  "Foo/bar.lua",
		"../../etc/passwd": "etc/passwd",
		"/abs/path":        "abs/path",
		`Foo\Bar\baz.lua`:  "Foo/Bar/baz.lua",
		"Foo/bar\x00.toc":  "Foo/bar",
		"..":               "",
		"":                 "",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, sanitizeName(input), "input %q", input)
	}
}
