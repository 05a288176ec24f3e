package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/addons"
	"github.com/Nazgutek/ajour/internal/ui/styles"
)

var channelCmd = &cobra.Command{
	Use:   "channel <addon-id> [stable|beta|alpha]",
	Short: "Show or set the release channel of an addon",
	Long: `Show or set the release channel an addon is updated from.

A channel also accepts releases from any more stable channel when those are
newer, so an addon on alpha still picks up a fresh stable release.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addonID := args[0]

		store, err := loadStore()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			prefs, _ := store.Get(addonID)
			fmt.Printf("%s: %s\n", addonID, styles.FormatChannel(prefs.ReleaseChannel))
			return nil
		}

		channel, err := addons.ParseReleaseChannel(args[1])
		if err != nil {
			return err
		}

		store.SetReleaseChannel(addonID, channel)
		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save addon store: %w", err)
		}

		fmt.Println(styles.FormatSuccess(fmt.Sprintf("%s now follows %s", addonID, channel)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(channelCmd)
}
