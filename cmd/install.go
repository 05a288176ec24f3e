package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/ui/styles"
)

var installFrom string

var installCmd = &cobra.Command{
	Use:   "install <addon-id>",
	Short: "Unpack a downloaded addon archive",
	Long: `Unpack the archive named <addon-id> from the staging directory into
Interface/AddOns. Each top-level folder of the archive replaces the installed
folder of the same name. The archive is removed once unpacked.

Examples:
  ajour install DBM-Core
  ajour install ElvUI --from ~/Downloads`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addonID := args[0]
		from := installFrom
		if from == "" {
			from = cfg.StagingDir
		}

		installer, _ := newInstaller()
		dirs, err := installer.Install(addonID, from, cfg.AddonsDir())
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no archive for %s in %s", addonID, from)
		}
		if err != nil {
			return fmt.Errorf("failed to install addon: %w", err)
		}

		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Addon %s installed", addonID)))
		for _, dir := range dirs {
			fmt.Printf("  %s %s\n", styles.Arrow, filepath.Base(dir))
		}
		if len(dirs) == 0 {
			fmt.Println(styles.FormatWarning("Archive contained no addon folder"))
		}
		return nil
	},
}

func init() {
	installCmd.Flags().StringVar(&installFrom, "from", "", "Directory holding the archive (default: staging directory)")
	rootCmd.AddCommand(installCmd)
}
