package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const configFile = ".daybook.json"

// Config is the settings document shared with the UI layer: where the day
// files live, which AI binary to drive, and the instruction text given to it
// on the bootstrap turn.
type Config struct {
	DataDir               string `json:"dataDir"`
	AICliPath             string `json:"aiCliPath"`
	AIInstructionMarkdown string `json:"aiInstructionMarkdown"`
}

// LoadConfig reads settings from ~/.daybook.json (or the working directory),
// with DAYBOOK_* environment overrides. A missing config file is not an
// error; defaults apply.
func LoadConfig() (*Config, error) {
	viper.SetDefault("dataDir", "~/daybook")
	viper.SetConfigName(".daybook")
	viper.SetConfigType("json")
	viper.SetEnvPrefix("DAYBOOK")
	viper.AutomaticEnv()

	if override := os.Getenv("DAYBOOK_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	dataDir, err := homedir.Expand(viper.GetString("dataDir"))
	if err != nil {
		return nil, fmt.Errorf("store: expand data dir: %w", err)
	}

	return &Config{
		DataDir:               dataDir,
		AICliPath:             viper.GetString("aiCliPath"),
		AIInstructionMarkdown: viper.GetString("aiInstructionMarkdown"),
	}, nil
}

// Save writes the settings document to the home directory.
func (c *Config) Save() error {
	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("store: resolve home: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(home, configFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
