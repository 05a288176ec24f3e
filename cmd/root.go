package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Nazgutek/ajour/internal/addons"
	"github.com/Nazgutek/ajour/internal/config"
	"github.com/Nazgutek/ajour/internal/install"
	applog "github.com/Nazgutek/ajour/internal/logger"
)

// Version info set via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

var (
	v      = config.NewViper()
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:     "ajour",
	Short:   "World of Warcraft addon manager",
	Version: version + " (" + commit + ")",
	Long: `Inspect, resolve and install World of Warcraft addons from
Curse, Tukui and WowInterface.

Quick start:
  ajour scan                         List installed addon folders
  ajour resolve --curse matches.json Resolve folders against a Curse response
  ajour install <addon-id>           Unpack a downloaded archive`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithViper(v)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		if err := applog.Init(cfg.CacheDir, cfg.Verbose); err != nil {
			return err
		}
		logger = applog.Log
		logger.Debug("Configuration loaded", "game_dir", cfg.GameDir, "flavor", cfg.Flavor)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		applog.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadStore reads the addon preferences store
func loadStore() (*addons.StoreManager, error) {
	store := addons.NewStoreManager(cfg.DataDir)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// scanFolders reads every addon folder of the configured flavor
func scanFolders() ([]addons.AddonFolder, error) {
	return addons.NewTOCScanner(logger).Scan(cfg.AddonsDir())
}

func newInstaller() (*install.Installer, *install.BackupManager) {
	backup := install.NewBackupManager(cfg.DataDir)
	return install.NewInstaller(logger, backup), backup
}

func bindFlag(key, flag string) {
	_ = v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("game-dir", "", "World of Warcraft installation directory")
	rootCmd.PersistentFlags().String("flavor", "", "Game flavor (retail or classic)")

	bindFlag("verbose", "verbose")
	bindFlag("game_dir", "game-dir")
	bindFlag("flavor", "flavor")
}
