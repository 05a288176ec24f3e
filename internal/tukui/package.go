// Package tukui holds the response shapes returned by the Tukui addon API.
// Fetching is done elsewhere; this package only decodes what was fetched.
package tukui

import (
	"encoding/json"
	"fmt"
	"io"
)

// Package is a single addon entry from the Tukui API
type Package struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	Author     string      `json:"author"`
	SmallDesc  string      `json:"small_desc"`
	Version    string      `json:"version"`
	URL        string      `json:"url"`        // Download URL of the archive
	WebURL     string      `json:"web_url"`    // Project page
	LastUpdate string      `json:"lastupdate"` // "2006-01-02" or "2006-01-02 15:04:05"
	Patch      string      `json:"patch"`      // Target game version, may be empty
}

// DecodePackage decodes a single package response
func DecodePackage(r io.Reader) (*Package, error) {
	var pkg Package
	if err := json.NewDecoder(r).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("failed to decode tukui package: %w", err)
	}
	return &pkg, nil
}

// DecodePackages decodes a list response, as returned for classic addons
func DecodePackages(r io.Reader) ([]Package, error) {
	var pkgs []Package
	if err := json.NewDecoder(r).Decode(&pkgs); err != nil {
		return nil, fmt.Errorf("failed to decode tukui packages: %w", err)
	}
	return pkgs, nil
}
