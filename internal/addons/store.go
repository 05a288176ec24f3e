package addons

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

var ErrStoreCorrupt = errors.New("addon store is corrupt")

// Preferences are the per-addon choices made by the user
type Preferences struct {
	ReleaseChannel ReleaseChannel `json:"release_channel"`
	Ignored        bool           `json:"ignored,omitempty"`
}

// Store represents the persistent addon preferences, keyed by primary
// folder id
type Store struct {
	Addons map[string]Preferences `json:"addons"`
}

// StoreManager handles persistence of addon preferences
type StoreManager struct {
	path  string
	store *Store
	mu    sync.RWMutex
}

// NewStoreManager creates a new store manager
func NewStoreManager(dataDir string) *StoreManager {
	return &StoreManager{
		path: filepath.Join(dataDir, "addons.json"),
		store: &Store{
			Addons: make(map[string]Preferences),
		},
	}
}

// Load reads the store from disk. A missing file yields an empty store.
func (sm *StoreManager) Load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, err := os.ReadFile(sm.path)
	if err != nil {
		if os.IsNotExist(err) {
			sm.store = &Store{
				Addons: make(map[string]Preferences),
			}
			return nil
		}
		return err
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}

	if store.Addons == nil {
		store.Addons = make(map[string]Preferences)
	}

	sm.store = &store
	return nil
}

// Save writes the store to disk
func (sm *StoreManager) Save() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(sm.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sm.store, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(sm.path, data, 0644)
}

// Get retrieves the preferences for an addon
func (sm *StoreManager) Get(id string) (Preferences, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	prefs, ok := sm.store.Addons[id]
	return prefs, ok
}

// SetReleaseChannel stores the release channel selected for an addon
func (sm *StoreManager) SetReleaseChannel(id string, channel ReleaseChannel) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	prefs := sm.store.Addons[id]
	prefs.ReleaseChannel = channel
	sm.store.Addons[id] = prefs
}

// SetIgnored marks an addon as ignored or not
func (sm *StoreManager) SetIgnored(id string, ignored bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	prefs := sm.store.Addons[id]
	prefs.Ignored = ignored
	sm.store.Addons[id] = prefs
}

// Delete removes the preferences of an addon
func (sm *StoreManager) Delete(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.store.Addons, id)
}

// Ignored returns the sorted ids of all ignored addons
func (sm *StoreManager) Ignored() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	var ids []string
	for id, prefs := range sm.store.Addons {
		if prefs.Ignored {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Apply copies the stored release channel onto addon and marks it ignored
// when the user asked for it
func (sm *StoreManager) Apply(addon *Addon) {
	prefs, ok := sm.Get(addon.PrimaryFolderID)
	if !ok {
		return
	}

	addon.ReleaseChannel = prefs.ReleaseChannel
	if prefs.Ignored {
		addon.State = State{Kind: StateIgnored}
	}
}
