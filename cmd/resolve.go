package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/addons"
	"github.com/Nazgutek/ajour/internal/curse"
	"github.com/Nazgutek/ajour/internal/tukui"
	"github.com/Nazgutek/ajour/internal/ui/styles"
)

var (
	resolveCurseFile string
	resolveMatchFile string
	resolveTukuiFile string
	resolveTukuiID   string
	resolveAll       bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve installed folders against repository responses",
	Long: `Group installed addon folders into addons using saved repository
responses and show which ones have an update on their release channel.

Responses are read from files so they can be captured once and replayed.
--curse takes a full fingerprint response, --curse-match a single match.
--tukui takes a single package or a package list, as served for classic.

Examples:
  ajour resolve --curse fingerprints.json
  ajour resolve --curse-match dbm.json
  ajour resolve --tukui elvui.json --id -1
  ajour resolve --tukui classic.json --id 17
  ajour resolve --curse fingerprints.json --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if resolveCurseFile == "" && resolveMatchFile == "" && resolveTukuiFile == "" {
			return errors.New("at least one of --curse, --curse-match or --tukui is required")
		}
		if resolveTukuiFile != "" && resolveTukuiID == "" {
			return errors.New("--id is required with --tukui")
		}

		folders, err := scanFolders()
		if err != nil {
			return fmt.Errorf("failed to scan addons: %w", err)
		}

		var resolved []*addons.Addon
		if resolveCurseFile != "" {
			found, err := resolveCurse(resolveCurseFile, folders)
			if err != nil {
				return err
			}
			resolved = append(resolved, found...)
		}
		if resolveMatchFile != "" {
			addon, err := resolveCurseMatch(resolveMatchFile, folders)
			if err != nil {
				return err
			}
			resolved = append(resolved, addon)
		}
		if resolveTukuiFile != "" {
			addon, err := resolveTukui(resolveTukuiFile, resolveTukuiID, folders)
			if err != nil {
				return err
			}
			resolved = append(resolved, addon)
		}

		if resolveAll {
			resolved = append(resolved, unclaimed(folders, resolved)...)
		}

		store, err := loadStore()
		if err != nil {
			return err
		}
		for _, addon := range resolved {
			store.Apply(addon)
			if addon.State.Kind != addons.StateIgnored && addon.HasUpdate() {
				addon.State = addons.State{Kind: addons.StateUpdatable}
			}
		}
		addons.SortAddons(resolved)

		printAddons(resolved)
		return nil
	},
}

func resolveCurse(path string, folders []addons.AddonFolder) ([]*addons.Addon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	resp, err := curse.DecodeFingerprintResponse(f)
	if err != nil {
		return nil, err
	}

	var resolved []*addons.Addon
	for i := range resp.ExactMatches {
		info := &resp.ExactMatches[i]
		addon, err := addons.FromCurseFingerprintInfo(info.ID, info, cfg.GetFlavor(), folders)
		if err != nil {
			logger.Warn("Skipping curse match", "curse_id", info.ID, "error", err)
			continue
		}
		resolved = append(resolved, addon)
	}
	logger.Debug("Resolved curse matches", "matches", len(resp.ExactMatches), "addons", len(resolved))
	return resolved, nil
}

func resolveCurseMatch(path string, folders []addons.AddonFolder) (*addons.Addon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := curse.DecodeFingerprintInfo(f)
	if err != nil {
		return nil, err
	}
	return addons.FromCurseFingerprintInfo(info.ID, info, cfg.GetFlavor(), folders)
}

func resolveTukui(path, id string, folders []addons.AddonFolder) (*addons.Addon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pkg *tukui.Package
	if body := bytes.TrimSpace(data); len(body) > 0 && body[0] == '[' {
		pkgs, err := tukui.DecodePackages(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		for i := range pkgs {
			if pkgs[i].ID.String() == id {
				pkg = &pkgs[i]
				break
			}
		}
		if pkg == nil {
			return nil, fmt.Errorf("tukui id %s not in %s", id, path)
		}
	} else {
		pkg, err = tukui.DecodePackage(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
	}
	return addons.FromTukuiPackage(id, folders, pkg)
}

// unclaimed wraps every folder not part of a resolved addon into an
// unmanaged addon of its own
func unclaimed(folders []addons.AddonFolder, resolved []*addons.Addon) []*addons.Addon {
	claimed := make(map[string]bool)
	for _, addon := range resolved {
		for _, id := range addon.FolderIDs() {
			claimed[id] = true
		}
	}

	var rest []*addons.Addon
	for _, f := range folders {
		if claimed[f.ID] {
			continue
		}
		addon := addons.NewAddon(f.ID)
		addon.Folders = []addons.AddonFolder{f}
		rest = append(rest, addon)
	}
	return rest
}

func printAddons(list []*addons.Addon) {
	if len(list) == 0 {
		fmt.Println("No addons resolved")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		styles.Title.Render("ADDON"),
		styles.Title.Render("LOCAL"),
		styles.Title.Render("REMOTE"),
		styles.Title.Render("CHANNEL"),
		styles.Title.Render("REPOSITORY"),
		styles.Title.Render("STATE"),
	)

	for _, addon := range list {
		remote := ""
		if pkg := addon.RelevantReleasePackage(); pkg != nil {
			remote = pkg.Version
		}

		repo := ""
		if r, ok := addon.ActiveRepository(); ok {
			repo = r.String() + ":" + addon.RepositoryID()
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			styles.Highlighted.Render(addon.Title()),
			styles.OrDash(addon.Version()),
			styles.OrDash(remote),
			styles.FormatChannel(addon.ReleaseChannel),
			styles.OrDash(repo),
			styles.FormatState(addon.State),
		)
	}
	_ = w.Flush()

	fmt.Printf("\n%d addon(s)\n", len(list))
}

func init() {
	resolveCmd.Flags().StringVar(&resolveCurseFile, "curse", "", "Curse fingerprint response (JSON file)")
	resolveCmd.Flags().StringVar(&resolveMatchFile, "curse-match", "", "Single Curse fingerprint match (JSON file)")
	resolveCmd.Flags().StringVar(&resolveTukuiFile, "tukui", "", "Tukui package or package list response (JSON file)")
	resolveCmd.Flags().StringVar(&resolveTukuiID, "id", "", "Tukui project id of the --tukui package")
	resolveCmd.Flags().BoolVarP(&resolveAll, "all", "a", false, "Also list folders no repository claimed")
	rootCmd.AddCommand(resolveCmd)
}
