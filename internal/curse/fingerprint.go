// Package curse holds the response shapes returned by the Curse addon API
// for fingerprint matching.
package curse

import (
	"encoding/json"
	"fmt"
	"io"
)

// Release type codes used by Curse in File.ReleaseType
const (
	ReleaseTypeRelease = 1
	ReleaseTypeBeta    = 2
	ReleaseTypeAlpha   = 3
)

// Module is one folder shipped inside a Curse file
type Module struct {
	Foldername  string `json:"foldername"`
	Fingerprint uint32 `json:"fingerprint"`
	Type        int    `json:"type"`
}

// File is a release file of a Curse project
type File struct {
	ID                int64    `json:"id"`
	DisplayName       string   `json:"displayName"`
	FileName          string   `json:"fileName"`
	FileDate          string   `json:"fileDate"` // RFC 3339
	DownloadURL       string   `json:"downloadUrl"`
	ReleaseType       int      `json:"releaseType"`
	GameVersion       []string `json:"gameVersion"`
	Modules           []Module `json:"modules"`
	IsAlternate       bool     `json:"isAlternate"`
	GameVersionFlavor string   `json:"gameVersionFlavor"`
}

// HasModule reports whether the file ships a folder named foldername
func (f *File) HasModule(foldername string) bool {
	for _, m := range f.Modules {
		if m.Foldername == foldername {
			return true
		}
	}
	return false
}

// AddonFingerprintInfo is a single exact fingerprint match
type AddonFingerprintInfo struct {
	ID          uint32 `json:"id"`
	File        File   `json:"file"`
	LatestFiles []File `json:"latestFiles"`
}

// FingerprintResponse is the body returned by the fingerprint endpoint
type FingerprintResponse struct {
	IsCacheBuilt          bool                   `json:"isCacheBuilt"`
	ExactMatches          []AddonFingerprintInfo `json:"exactMatches"`
	ExactFingerprints     []uint32               `json:"exactFingerprints"`
	PartialMatches        []AddonFingerprintInfo `json:"partialMatches"`
	InstalledFingerprints []uint32               `json:"installedFingerprints"`
	UnmatchedFingerprints []uint32               `json:"unmatchedFingerprints"`
}

// DecodeFingerprintInfo decodes a single fingerprint match
func DecodeFingerprintInfo(r io.Reader) (*AddonFingerprintInfo, error) {
	var info AddonFingerprintInfo
	if err := json.NewDecoder(r).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode curse fingerprint info: %w", err)
	}
	return &info, nil
}

// DecodeFingerprintResponse decodes the full fingerprint endpoint body
func DecodeFingerprintResponse(r io.Reader) (*FingerprintResponse, error) {
	var resp FingerprintResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode curse fingerprint response: %w", err)
	}
	return &resp, nil
}
