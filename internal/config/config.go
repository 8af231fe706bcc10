package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Source struct {
		BaseURLRoot string `yaml:"base_url_root"` // raw-content root for codelab assets
	} `yaml:"source"`
	Notebook struct {
		KernelDisplayName string `yaml:"kernel_display_name"`
		KernelName        string `yaml:"kernel_name"`
	} `yaml:"notebook"`
	Snowflake struct {
		Driver    string `yaml:"driver"` // database/sql driver name, "snowflake" when empty
		DSN       string `yaml:"dsn"`
		Warehouse string `yaml:"warehouse"` // default QUERY_WAREHOUSE for registration
	} `yaml:"snowflake"`
}

// LoadConfig loads configuration for one run. A missing config file is fine;
// every field has a working default downstream.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config when present
	var cfg Config
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if root := os.Getenv("NBCONV_BASE_URL_ROOT"); root != "" {
		cfg.Source.BaseURLRoot = root
	}
	if wh := os.Getenv("NBCONV_WAREHOUSE"); wh != "" {
		cfg.Snowflake.Warehouse = wh
	}
	if dsn := os.Getenv("NBCONV_SNOWFLAKE_DSN"); dsn != "" {
		cfg.Snowflake.DSN = dsn
	}

	return &cfg, nil
}
