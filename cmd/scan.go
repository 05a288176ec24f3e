package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/ui/styles"
)

var scanCmd = &cobra.Command{
	Use:     "scan",
	Aliases: []string{"ls", "list"},
	Short:   "List installed addon folders",
	Long: `List every addon folder in the Interface/AddOns directory of the
configured flavor, with the metadata declared by its .toc file.

Client default folders (Blizzard_*) and hidden folders are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, err := scanFolders()
		if err != nil {
			return fmt.Errorf("failed to scan addons: %w", err)
		}

		if len(folders) == 0 {
			fmt.Println("No addons installed")
			fmt.Printf("Addons directory: %s\n", cfg.AddonsDir())
			return nil
		}

		store, err := loadStore()
		if err != nil {
			return err
		}
		ignored := store.Ignored()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			styles.Title.Render("FOLDER"),
			styles.Title.Render("VERSION"),
			styles.Title.Render("AUTHOR"),
			styles.Title.Render("REPOSITORY IDS"),
			styles.Title.Render("DEPENDS ON"),
		)

		for _, f := range folders {
			id := f.ID
			if slices.Contains(ignored, f.ID) {
				id = styles.MutedText.Render(f.ID + " (ignored)")
			}

			var ids []string
			if f.RepositoryIdentifiers.Curse != 0 {
				ids = append(ids, fmt.Sprintf("curse:%d", f.RepositoryIdentifiers.Curse))
			}
			if f.RepositoryIdentifiers.Tukui != "" {
				ids = append(ids, "tukui:"+f.RepositoryIdentifiers.Tukui)
			}
			if f.RepositoryIdentifiers.WowI != "" {
				ids = append(ids, "wowi:"+f.RepositoryIdentifiers.WowI)
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				id,
				styles.OrDash(f.Version),
				styles.OrDash(f.Author),
				styles.OrDash(strings.Join(ids, " ")),
				styles.OrDash(strings.Join(f.Dependencies, ", ")),
			)
		}
		_ = w.Flush()

		fmt.Printf("\n%d folder(s) found\n", len(folders))
		fmt.Printf("Addons directory: %s\n", cfg.AddonsDir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
