package addons

import (
	"fmt"
	"time"

	"github.com/Nazgutek/ajour/internal/curse"
)

// curseChannels maps Curse release types onto release channels. Unknown
// release types are dropped.
var curseChannels = map[int]ReleaseChannel{
	curse.ReleaseTypeRelease: ReleaseChannelStable,
	curse.ReleaseTypeBeta:    ReleaseChannelBeta,
	curse.ReleaseTypeAlpha:   ReleaseChannelAlpha,
}

func parseCurseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// FromCurseFingerprintInfo builds an addon from an exact fingerprint match.
// Every folder named in the matched file's modules becomes part of the addon,
// which is how Curse bundles end up as a single addon. folders is expected
// to be sorted by id.
func FromCurseFingerprintInfo(curseID uint32, info *curse.AddonFingerprintInfo, flavor Flavor, folders []AddonFolder) (*Addon, error) {
	packages := make(map[ReleaseChannel]*RemotePackage)
	for _, file := range info.LatestFiles {
		if file.IsAlternate || file.GameVersionFlavor != flavor.curseFlavor() {
			continue
		}
		channel, ok := curseChannels[file.ReleaseType]
		if !ok {
			continue
		}
		packages[channel] = &RemotePackage{
			Version:     file.DisplayName,
			DownloadURL: file.DownloadURL,
			DateTime:    parseCurseDate(file.FileDate),
			FileID:      file.ID,
		}
	}

	meta := RepositoryMetadata{
		Version:        info.File.DisplayName,
		FileID:         info.File.ID,
		RemotePackages: packages,
	}
	if len(info.File.GameVersion) > 0 {
		meta.GameVersion = info.File.GameVersion[0]
	}

	if curseID == 0 {
		return nil, fmt.Errorf("%w: curse id not set", ErrPrimaryFolderNotFound)
	}

	primaryID := ""
	for _, f := range folders {
		if f.RepositoryIdentifiers.Curse == curseID && info.File.HasModule(f.ID) {
			primaryID = f.ID
			break
		}
	}
	if primaryID == "" {
		for _, f := range folders {
			if info.File.HasModule(f.ID) {
				primaryID = f.ID
				break
			}
		}
	}
	if primaryID == "" {
		return nil, fmt.Errorf("%w: curse id %d", ErrPrimaryFolderNotFound, curseID)
	}

	addon := NewAddon(primaryID)
	addon.repositoryIdentifiers.Curse = curseID
	addon.link(RepositoryCurse, meta)

	for _, f := range folders {
		if info.File.HasModule(f.ID) {
			addon.Folders = append(addon.Folders, f)
		}
	}

	return addon, nil
}
