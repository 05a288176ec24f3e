package addons

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// wowColorCodeRegex matches WoW color escape sequences like |cffRRGGBB and |r
var wowColorCodeRegex = regexp.MustCompile(`\|c[0-9a-fA-F]{8}|\|r`)

// TOCInfo is the metadata declared in the header of a .toc file
type TOCInfo struct {
	Title                 string
	Version               string
	Author                string
	Notes                 string
	Interface             string
	RepositoryIdentifiers RepositoryIdentifiers
	Dependencies          []string
}

// stripWoWColorCodes removes WoW color escape sequences from a string
func stripWoWColorCodes(s string) string {
	return wowColorCodeRegex.ReplaceAllString(s, "")
}

// splitDependencies parses a comma separated dependency list
func splitDependencies(value string) []string {
	var deps []string
	for _, dep := range strings.Split(value, ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// ParseTOC reads the "## Key: Value" header lines of a .toc file. Unknown
// keys are ignored.
func ParseTOC(tocPath string) (*TOCInfo, error) {
	file, err := os.Open(tocPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	info := &TOCInfo{}
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		// Metadata lines look like "## Key: Value"
		rest, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "##")
		if !ok {
			continue
		}
		key, value, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "title":
			info.Title = stripWoWColorCodes(value)
		case "version":
			info.Version = value
		case "author":
			info.Author = value
		case "notes":
			info.Notes = stripWoWColorCodes(value)
		case "interface":
			info.Interface = value
		case "x-curse-project-id":
			// Non-numeric ids are ignored, the folder stays unmatched
			if id, err := strconv.ParseUint(value, 10, 32); err == nil {
				info.RepositoryIdentifiers.Curse = uint32(id)
			}
		case "x-tukui-projectid":
			info.RepositoryIdentifiers.Tukui = value
		case "x-wowi-id":
			info.RepositoryIdentifiers.WowI = value
		case "dependencies", "requireddeps", "dependancies":
			info.Dependencies = append(info.Dependencies, splitDependencies(value)...)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return info, nil
}

// FindTOCFile returns the .toc file of an addon folder. Only a .toc named
// after the folder counts, matched case-insensitively.
func FindTOCFile(addonDir string) (string, error) {
	entries, err := os.ReadDir(addonDir)
	if err != nil {
		return "", err
	}

	want := strings.ToLower(filepath.Base(addonDir) + ".toc")
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == want {
			return filepath.Join(addonDir, entry.Name()), nil
		}
	}

	return "", os.ErrNotExist
}

// ParseFolder reads the addon folder at path into an AddonFolder
func ParseFolder(path string) (*AddonFolder, error) {
	tocPath, err := FindTOCFile(path)
	if err != nil {
		return nil, err
	}

	info, err := ParseTOC(tocPath)
	if err != nil {
		return nil, err
	}

	id := filepath.Base(path)
	title := info.Title
	if title == "" {
		title = id
	}

	return &AddonFolder{
		ID:                    id,
		Title:                 title,
		Path:                  path,
		Author:                info.Author,
		Notes:                 info.Notes,
		Version:               info.Version,
		RepositoryIdentifiers: info.RepositoryIdentifiers,
		Dependencies:          info.Dependencies,
	}, nil
}
