package cmd

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/addons"
	"github.com/Nazgutek/ajour/internal/ui/styles"
)

var (
	deleteForce    bool
	deleteNoBackup bool
)

var deleteCmd = &cobra.Command{
	Use:     "delete <addon-id>",
	Aliases: []string{"rm", "remove"},
	Short:   "Remove an installed addon and the folders depending on it",
	Long: `Remove an installed addon from the Interface/AddOns directory. Folders
declaring a dependency on the addon are removed with it.

By default, a backup is created before removal.
Use --no-backup to skip backup creation.
Use --force to skip confirmation prompt.

Examples:
  ajour delete DBM-Core
  ajour delete DBM-Core --force --no-backup`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addonID := args[0]

		folders, err := scanFolders()
		if err != nil {
			return fmt.Errorf("failed to scan addons: %w", err)
		}

		addon := addons.NewAddon(addonID)
		for _, f := range folders {
			if f.ID == addonID || f.DependsOn(addonID) {
				addon.Folders = append(addon.Folders, f)
			}
		}
		if !slices.Contains(addon.FolderIDs(), addonID) {
			return fmt.Errorf("addon not found: %s", addonID)
		}

		if !deleteForce {
			fmt.Printf("Remove addon %s?\n", styles.Highlighted.Render(addon.Title()))
			for _, id := range addon.FolderIDs() {
				fmt.Printf("  %s %s\n", styles.Arrow, id)
			}
			if deleteNoBackup {
				fmt.Println(styles.FormatWarning("No backup will be created!"))
			} else {
				fmt.Println("  A backup will be created.")
			}

			fmt.Print("\nConfirm? [y/N] ")
			response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		installer, _ := newInstaller()
		if err := installer.DeleteAddon(addon, cfg.AddonsDir(), !deleteNoBackup); err != nil {
			return fmt.Errorf("failed to remove addon: %w", err)
		}

		store, err := loadStore()
		if err != nil {
			logger.Warn("Failed to load addon store", "error", err)
		} else {
			store.Delete(addonID)
			if err := store.Save(); err != nil {
				logger.Warn("Failed to save addon store", "error", err)
			}
		}

		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Addon %s removed", addonID)))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteNoBackup, "no-backup", false, "Skip backup creation")
	rootCmd.AddCommand(deleteCmd)
}
