package addons

import (
	"fmt"
	"strings"
	"time"
)

// RemotePackage is a single release published by a repository
type RemotePackage struct {
	Version     string
	DownloadURL string
	DateTime    time.Time // Zero if the repository date could not be parsed
	FileID      int64     // Repository file id, 0 if the repository has none
}

// ComparePackages orders packages by version string. A nil package sorts
// before any package. Versions are compared lexically, so "1.10" < "1.9".
func ComparePackages(a, b *RemotePackage) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return strings.Compare(a.Version, b.Version)
}

// newerThan compares file ids. A missing package is older than any present
// one, so a channel with nothing published never hides a more stable one.
func (p *RemotePackage) newerThan(other *RemotePackage) bool {
	if p == nil {
		return false
	}
	if other == nil {
		return true
	}
	return p.FileID > other.FileID
}

// ReleaseChannel is a stability tier a repository can publish under
type ReleaseChannel int

const (
	ReleaseChannelStable ReleaseChannel = iota
	ReleaseChannelBeta
	ReleaseChannelAlpha
)

// AllReleaseChannels lists the channels from most to least stable
var AllReleaseChannels = []ReleaseChannel{
	ReleaseChannelStable,
	ReleaseChannelBeta,
	ReleaseChannelAlpha,
}

func (c ReleaseChannel) String() string {
	switch c {
	case ReleaseChannelBeta:
		return "Beta"
	case ReleaseChannelAlpha:
		return "Alpha"
	default:
		return "Stable"
	}
}

// ParseReleaseChannel parses a channel name, case-insensitively
func ParseReleaseChannel(s string) (ReleaseChannel, error) {
	for _, c := range AllReleaseChannels {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return ReleaseChannelStable, fmt.Errorf("unknown release channel %q", s)
}

func (c ReleaseChannel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ReleaseChannel) UnmarshalText(text []byte) error {
	parsed, err := ParseReleaseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Flavor is the game client flavor addons are installed for
type Flavor string

const (
	FlavorRetail  Flavor = "retail"
	FlavorClassic Flavor = "classic"
)

// curseFlavor is the tag Curse uses in gameVersionFlavor
func (f Flavor) curseFlavor() string {
	return "wow_" + string(f)
}

// FolderName is the client subdirectory holding this flavor's Interface
// directory, e.g. "_retail_"
func (f Flavor) FolderName() string {
	return "_" + string(f) + "_"
}
