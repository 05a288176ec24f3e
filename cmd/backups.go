package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/install"
	"github.com/Nazgutek/ajour/internal/ui/styles"
)

var backupsCmd = &cobra.Command{
	Use:   "backups <addon-id>",
	Short: "List backups taken before an addon was removed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, backup := newInstaller()
		backups, err := backup.ListBackups(args[0])
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}

		if len(backups) == 0 {
			fmt.Printf("No backups for %s\n", args[0])
			return nil
		}

		for i, ts := range backups {
			when := ts
			if t, err := time.Parse(install.BackupTimestampFormat, ts); err == nil {
				when = t.Format(time.DateTime)
			}
			line := fmt.Sprintf("%s  %s", ts, styles.MutedText.Render(when))
			if i == 0 {
				line += " " + styles.SuccessText.Render("(latest)")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <addon-id> [timestamp]",
	Short: "Restore an addon from a backup",
	Long: `Restore the folders of an addon from a backup, replacing what is
currently installed. Without a timestamp the latest backup is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addonID := args[0]
		_, backup := newInstaller()

		var timestamp string
		if len(args) == 2 {
			timestamp = args[1]
		} else {
			backups, err := backup.ListBackups(addonID)
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}
			if len(backups) == 0 {
				return fmt.Errorf("no backups for %s", addonID)
			}
			timestamp = backups[0]
		}

		if err := backup.RestoreBackup(addonID, timestamp, cfg.AddonsDir()); err != nil {
			return err
		}

		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Addon %s restored from %s", addonID, timestamp)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
}
