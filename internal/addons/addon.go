package addons

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
)

var (
	// ErrPrimaryFolderNotFound is returned when none of the scanned folders can
	// anchor a repository match. Callers are expected to only build addons for
	// matches they already confirmed, so this signals a caller bug.
	ErrPrimaryFolderNotFound = errors.New("no primary folder for repository match")
)

// Repository identifies which remote service an addon is linked against
type Repository int

const (
	RepositoryCurse Repository = iota
	RepositoryTukui
	RepositoryWowI
)

func (r Repository) String() string {
	switch r {
	case RepositoryCurse:
		return "curse"
	case RepositoryTukui:
		return "tukui"
	case RepositoryWowI:
		return "wowi"
	default:
		return "unknown"
	}
}

// RepositoryIdentifiers holds the per-repository id of an addon or folder.
// Empty strings and a zero Curse id mean "not declared".
type RepositoryIdentifiers struct {
	WowI  string `json:"wowi,omitempty"`
	Tukui string `json:"tukui,omitempty"`
	Curse uint32 `json:"curse,omitempty"`
}

// AddonFolder is the metadata declared by a single directory under
// Interface/AddOns, as read from its .toc file
type AddonFolder struct {
	ID                    string                // Folder name, unique per install
	Title                 string                // From .toc: ## Title
	Path                  string                // Full path to the folder
	Author                string                // From .toc: ## Author
	Notes                 string                // From .toc: ## Notes
	Version               string                // From .toc: ## Version
	RepositoryIdentifiers RepositoryIdentifiers // From .toc: ## X-*-ID
	Dependencies          []string              // Folder ids this folder requires
	Fingerprint           uint32                // Set by the fingerprinting step, 0 if unknown
}

// DependsOn reports whether the folder lists id as a dependency
func (f *AddonFolder) DependsOn(id string) bool {
	return slices.Contains(f.Dependencies, id)
}

// RepositoryMetadata is what the active repository reported for an addon.
// Version, Title, Author and Notes override the primary folder when set.
type RepositoryMetadata struct {
	Version string
	Title   string
	Author  string
	Notes   string

	// Only available from a repository
	WebsiteURL  string
	GameVersion string
	FileID      int64

	RemotePackages map[ReleaseChannel]*RemotePackage
}

// StateKind enumerates the lifecycle states of an addon
type StateKind int

const (
	StateUnmanaged StateKind = iota
	StateIgnored
	StateDownloading
	StateFingerprinting
	StateUnpacking
	StateUpdatable
)

// State is the lifecycle state of an addon. Reason is only meaningful for
// StateUnmanaged.
type State struct {
	Kind   StateKind
	Reason string
}

// Unmanaged returns the idle state with an optional reason
func Unmanaged(reason string) State {
	return State{Kind: StateUnmanaged, Reason: reason}
}

func (s State) String() string {
	switch s.Kind {
	case StateIgnored:
		return "ignored"
	case StateDownloading:
		return "downloading"
	case StateFingerprinting:
		return "fingerprinting"
	case StateUnpacking:
		return "unpacking"
	case StateUpdatable:
		return "updatable"
	default:
		if s.Reason != "" {
			return s.Reason
		}
		return "idle"
	}
}

// Addon is a single logical addon made up of one or more folders, enriched
// with metadata from its active repository. Without a repository match the
// primary folder's metadata is used.
type Addon struct {
	// PrimaryFolderID is the folder used as metadata fallback and as the
	// unique identity of the addon. For Curse bundles it is the first folder
	// alphabetically, for Tukui the folder declaring the project id.
	PrimaryFolderID string
	Folders         []AddonFolder

	State          State
	ReleaseChannel ReleaseChannel

	repositoryIdentifiers RepositoryIdentifiers
	activeRepository      *Repository
	repositoryMetadata    RepositoryMetadata
}

// NewAddon returns an addon with no folders and no repository match
func NewAddon(primaryFolderID string) *Addon {
	return &Addon{
		PrimaryFolderID: primaryFolderID,
		State:           Unmanaged(""),
		ReleaseChannel:  ReleaseChannelStable,
		repositoryMetadata: RepositoryMetadata{
			RemotePackages: make(map[ReleaseChannel]*RemotePackage),
		},
	}
}

// Equal reports whether both addons share the same identity. No other field
// takes part in equality.
func (a *Addon) Equal(other *Addon) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.PrimaryFolderID == other.PrimaryFolderID
}

func (a *Addon) primaryFolder() *AddonFolder {
	for i := range a.Folders {
		if a.Folders[i].ID == a.PrimaryFolderID {
			return &a.Folders[i]
		}
	}
	return nil
}

// PrimaryFolder returns the folder anchoring this addon's identity
func (a *Addon) PrimaryFolder() (AddonFolder, bool) {
	if f := a.primaryFolder(); f != nil {
		return *f, true
	}
	return AddonFolder{}, false
}

// folderValue reads a field off the primary folder, or its zero value
func folderValue[T any](a *Addon, get func(*AddonFolder) T) T {
	if f := a.primaryFolder(); f != nil {
		return get(f)
	}
	var zero T
	return zero
}

// Version returns the repository version, falling back to the primary folder
func (a *Addon) Version() string {
	return cmp.Or(a.repositoryMetadata.Version,
		folderValue(a, func(f *AddonFolder) string { return f.Version }))
}

// SetVersion overrides the version, e.g. after a successful update
func (a *Addon) SetVersion(version string) {
	a.repositoryMetadata.Version = version
}

// Title returns the repository title, then the primary folder title, then
// the primary folder id
func (a *Addon) Title() string {
	return cmp.Or(a.repositoryMetadata.Title,
		folderValue(a, func(f *AddonFolder) string { return f.Title }),
		a.PrimaryFolderID)
}

func (a *Addon) Author() string {
	return cmp.Or(a.repositoryMetadata.Author,
		folderValue(a, func(f *AddonFolder) string { return f.Author }))
}

func (a *Addon) Notes() string {
	return cmp.Or(a.repositoryMetadata.Notes,
		folderValue(a, func(f *AddonFolder) string { return f.Notes }))
}

func (a *Addon) GameVersion() string {
	return a.repositoryMetadata.GameVersion
}

func (a *Addon) WebsiteURL() string {
	return a.repositoryMetadata.WebsiteURL
}

// FileID is the repository file id of the installed release, 0 if unknown
func (a *Addon) FileID() int64 {
	return a.repositoryMetadata.FileID
}

// RemotePackages returns the packages published per release channel
func (a *Addon) RemotePackages() map[ReleaseChannel]*RemotePackage {
	return a.repositoryMetadata.RemotePackages
}

// CurseID returns the confirmed Curse id, or the one declared by the
// primary folder
func (a *Addon) CurseID() uint32 {
	return cmp.Or(a.repositoryIdentifiers.Curse,
		folderValue(a, func(f *AddonFolder) uint32 { return f.RepositoryIdentifiers.Curse }))
}

func (a *Addon) TukuiID() string {
	return cmp.Or(a.repositoryIdentifiers.Tukui,
		folderValue(a, func(f *AddonFolder) string { return f.RepositoryIdentifiers.Tukui }))
}

func (a *Addon) WowIID() string {
	return cmp.Or(a.repositoryIdentifiers.WowI,
		folderValue(a, func(f *AddonFolder) string { return f.RepositoryIdentifiers.WowI }))
}

func (a *Addon) SetCurseID(id uint32) {
	a.repositoryIdentifiers.Curse = id
}

func (a *Addon) SetTukuiID(id string) {
	a.repositoryIdentifiers.Tukui = id
}

func (a *Addon) SetWowIID(id string) {
	a.repositoryIdentifiers.WowI = id
}

// ActiveRepository returns the repository this addon was matched against
func (a *Addon) ActiveRepository() (Repository, bool) {
	if a.activeRepository == nil {
		return 0, false
	}
	return *a.activeRepository, true
}

// RepositoryID returns the id used by the active repository, or "" when the
// addon is not linked to any repository
func (a *Addon) RepositoryID() string {
	if a.activeRepository == nil {
		return ""
	}
	switch *a.activeRepository {
	case RepositoryCurse:
		if a.repositoryIdentifiers.Curse == 0 {
			return ""
		}
		return strconv.FormatUint(uint64(a.repositoryIdentifiers.Curse), 10)
	case RepositoryTukui:
		return a.repositoryIdentifiers.Tukui
	case RepositoryWowI:
		return a.repositoryIdentifiers.WowI
	}
	return ""
}

// IsIgnored reports whether the user has ignored this addon
func (a *Addon) IsIgnored(ignored []string) bool {
	return slices.Contains(ignored, a.PrimaryFolderID)
}

// FolderIDs returns the ids of all folders provided by this addon
func (a *Addon) FolderIDs() []string {
	ids := make([]string, 0, len(a.Folders))
	for _, f := range a.Folders {
		ids = append(ids, f.ID)
	}
	return ids
}

// link marks repo as the active repository for this addon
func (a *Addon) link(repo Repository, meta RepositoryMetadata) {
	a.activeRepository = &repo
	if meta.RemotePackages == nil {
		meta.RemotePackages = make(map[ReleaseChannel]*RemotePackage)
	}
	a.repositoryMetadata = meta
}
