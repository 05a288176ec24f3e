package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/ui/styles"
)

var ignoreUnset bool

var ignoreCmd = &cobra.Command{
	Use:   "ignore [addon-id]",
	Short: "Ignore an addon for updates, or list ignored addons",
	Long: `Mark an addon as ignored so it is never reported as updatable.
Without an argument, the ignored addons are listed.

Examples:
  ajour ignore WeakAuras
  ajour ignore WeakAuras --unset
  ajour ignore`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			ignored := store.Ignored()
			if len(ignored) == 0 {
				fmt.Println("No ignored addons")
				return nil
			}
			for _, id := range ignored {
				fmt.Println(id)
			}
			return nil
		}

		addonID := args[0]
		store.SetIgnored(addonID, !ignoreUnset)
		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save addon store: %w", err)
		}

		if ignoreUnset {
			fmt.Println(styles.FormatSuccess(fmt.Sprintf("%s is no longer ignored", addonID)))
		} else {
			fmt.Println(styles.FormatSuccess(fmt.Sprintf("%s ignored", addonID)))
		}
		return nil
	},
}

func init() {
	ignoreCmd.Flags().BoolVar(&ignoreUnset, "unset", false, "Stop ignoring the addon")
	rootCmd.AddCommand(ignoreCmd)
}
