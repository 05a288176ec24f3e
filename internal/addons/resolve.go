package addons

import (
	"regexp"
	"slices"
	"strings"
)

var nonDigitRegex = regexp.MustCompile(`\D`)

func stripNonDigits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// IsUpdatable reports whether remote is an update for the installed release.
// File ids are compared when the installed file id is known, otherwise the
// digits of both versions are compared.
func (a *Addon) IsUpdatable(remote *RemotePackage) bool {
	if remote == nil {
		return false
	}
	if a.FileID() == 0 {
		return a.isUpdatableByVersion(remote)
	}
	return remote.FileID > a.FileID()
}

// isUpdatableByVersion strips both versions down to their digits and treats
// the remote as an update unless its digits appear inside the local ones.
// Local versions often carry the remote version plus a build suffix.
func (a *Addon) isUpdatableByVersion(remote *RemotePackage) bool {
	local := a.Version()
	if local == "" {
		return false
	}
	return !strings.Contains(stripNonDigits(local), stripNonDigits(remote.Version))
}

// RelevantReleasePackage returns the package matching the selected release
// channel, unless a more stable channel has a newer file, in which case that
// package is returned instead.
func (a *Addon) RelevantReleasePackage() *RemotePackage {
	packages := a.repositoryMetadata.RemotePackages

	stable := packages[ReleaseChannelStable]
	beta := packages[ReleaseChannelBeta]
	alpha := packages[ReleaseChannelAlpha]

	// Unlike a strict both-present comparison, a published package beats a
	// missing one here, so a Stable-only addon resolves to Stable on every
	// channel and a channel with nothing published falls back to a more
	// stable one.
	stableNewerThanBeta := stable.newerThan(beta)
	stableNewerThanAlpha := stable.newerThan(alpha)
	betaNewerThanAlpha := beta.newerThan(alpha)

	switch a.ReleaseChannel {
	case ReleaseChannelBeta:
		if stableNewerThanBeta {
			return stable
		}
		return beta
	case ReleaseChannelAlpha:
		if betaNewerThanAlpha {
			if stableNewerThanBeta {
				return stable
			}
			return beta
		}
		if stableNewerThanAlpha {
			return stable
		}
		return alpha
	default:
		return stable
	}
}

// HasUpdate reports whether the relevant release package is an update
func (a *Addon) HasUpdate() bool {
	return a.IsUpdatable(a.RelevantReleasePackage())
}

// Compare orders addons by title, and among equal titles puts the addon with
// the greater relevant package first. Addons comparing as 0 are not
// necessarily Equal.
func Compare(a, b *Addon) int {
	if c := strings.Compare(a.Title(), b.Title()); c != 0 {
		return c
	}
	return -ComparePackages(a.RelevantReleasePackage(), b.RelevantReleasePackage())
}

// SortAddons sorts addons in place using Compare
func SortAddons(addons []*Addon) {
	slices.SortStableFunc(addons, Compare)
}
