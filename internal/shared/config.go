package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Sync     SyncConfig     `toml:"sync"`
	Database DatabaseConfig `toml:"database"`
	Template TemplateConfig `toml:"template"`
}

// APIConfig contains the catalog API connection settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	OrgID             string  `toml:"org_id"`
	BearerToken       string  `toml:"bearer_token"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// SyncConfig contains the sync run settings.
type SyncConfig struct {
	PageSize       int    `toml:"page_size"`
	ParentCategory string `toml:"parent_category"`
	UpdatedSince   string `toml:"updated_since"`
	Thumbnails     bool   `toml:"thumbnails"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// TemplateConfig contains the description template settings.
// An empty path selects the embedded default template.
type TemplateConfig struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment variables onto the config so credentials can
// be kept out of the TOML file. A .env file in the working directory is
// loaded first when present.
//
// Recognized variables: CATSYNC_BASE_URL, CATSYNC_ORG_ID, CATSYNC_BEARER_TOKEN.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("CATSYNC_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CATSYNC_ORG_ID"); v != "" {
		c.API.OrgID = v
	}
	if v := os.Getenv("CATSYNC_BEARER_TOKEN"); v != "" {
		c.API.BearerToken = v
	}
}

// Validate confirms the settings a sync run cannot start without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.API.OrgID == "" {
		return ErrMissingOrgID
	}
	if c.API.BearerToken == "" {
		return ErrMissingBearer
	}
	if c.Sync.ParentCategory == "" {
		return ErrMissingCategory
	}
	return nil
}
