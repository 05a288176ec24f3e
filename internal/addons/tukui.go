package addons

import (
	"fmt"
	"time"

	"github.com/Nazgutek/ajour/internal/tukui"
)

// tukuiDateLayouts are tried in order when parsing Package.LastUpdate
var tukuiDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

func parseTukuiDate(s string) time.Time {
	for _, layout := range tukuiDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FromTukuiPackage builds an addon from a Tukui package. The primary folder is
// the folder declaring tukuiID; every folder depending on it belongs to the
// addon as well.
func FromTukuiPackage(tukuiID string, folders []AddonFolder, pkg *tukui.Package) (*Addon, error) {
	// An empty id is undeclared and never anchors a match
	var primary *AddonFolder
	for i := range folders {
		if tukuiID != "" && folders[i].RepositoryIdentifiers.Tukui == tukuiID {
			primary = &folders[i]
			break
		}
	}
	if primary == nil {
		return nil, fmt.Errorf("%w: tukui id %s", ErrPrimaryFolderNotFound, tukuiID)
	}

	// Tukui has no release channels, everything is published as stable
	meta := RepositoryMetadata{
		WebsiteURL:  pkg.WebURL,
		GameVersion: pkg.Patch,
		RemotePackages: map[ReleaseChannel]*RemotePackage{
			ReleaseChannelStable: {
				Version:     pkg.Version,
				DownloadURL: pkg.URL,
				DateTime:    parseTukuiDate(pkg.LastUpdate),
			},
		},
	}

	addon := NewAddon(primary.ID)
	addon.repositoryIdentifiers.Tukui = tukuiID
	addon.link(RepositoryTukui, meta)

	for _, f := range folders {
		if f.ID == primary.ID || f.DependsOn(primary.ID) {
			addon.Folders = append(addon.Folders, f)
		}
	}

	return addon, nil
}
