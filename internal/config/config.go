package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/Nazgutek/ajour/internal/addons"
)

const appName = "ajour"

// Config holds the paths and client settings used by the CLI
type Config struct {
	GameDir    string `mapstructure:"game_dir"`    // WoW installation root
	Flavor     string `mapstructure:"flavor"`      // retail | classic
	DataDir    string `mapstructure:"data_dir"`    // Preferences and backups
	CacheDir   string `mapstructure:"cache_dir"`   // Logs
	StagingDir string `mapstructure:"staging_dir"` // Downloaded archives waiting for install
	Verbose    bool   `mapstructure:"verbose"`
}

// NewViper creates a viper instance with defaults, AJOUR_ environment
// binding and the optional config file in the data directory
func NewViper() *viper.Viper {
	v := viper.New()

	// Pick up XDG_* changes made after process start
	xdg.Reload()
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(xdg.DataHome, appName)

	v.SetDefault("game_dir", filepath.Join(homeDir, "Games", "world-of-warcraft"))
	v.SetDefault("flavor", string(addons.FlavorRetail))
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("cache_dir", filepath.Join(xdg.CacheHome, appName))
	v.SetDefault("staging_dir", "")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("AJOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("ajour")
	v.AddConfigPath(dataDir)

	return v
}

// LoadWithViper reads the optional config file and unmarshals v.
// CLI flags bound to v before the call take precedence.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.StagingDir == "" {
		cfg.StagingDir = filepath.Join(cfg.DataDir, "downloads")
	}

	return &cfg, nil
}

// Load loads configuration from defaults, the config file and environment
func Load() (*Config, error) {
	return LoadWithViper(NewViper())
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GameDir == "" {
		return fmt.Errorf("game_dir is required")
	}

	switch addons.Flavor(c.Flavor) {
	case addons.FlavorRetail, addons.FlavorClassic:
	default:
		return fmt.Errorf("flavor must be retail or classic, got %q", c.Flavor)
	}

	return nil
}

// GetFlavor returns the configured client flavor
func (c *Config) GetFlavor() addons.Flavor {
	return addons.Flavor(c.Flavor)
}

// AddonsDir is the Interface/AddOns directory of the configured flavor
func (c *Config) AddonsDir() string {
	return filepath.Join(c.GameDir, c.GetFlavor().FolderName(), "Interface", "AddOns")
}
