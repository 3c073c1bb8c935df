package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Config holds everything offerdeck needs to talk to the offers service
// and to tune the table controller.
type Config struct {
	// APIBaseURL is the root of the remote offers service,
	// e.g. "https://offers.example.com".
	APIBaseURL string `toml:"api_base_url"`

	// TokenFile is the file holding the bearer credential. The file
	// content is used verbatim (surrounding whitespace trimmed).
	TokenFile string `toml:"token_file"`

	// Debounce is the quiet period the fetch orchestrator waits after a
	// state change before issuing a request.
	Debounce Duration `toml:"debounce"`

	// RequestTimeout bounds every HTTP call to the offers service.
	RequestTimeout Duration `toml:"request_timeout"`

	// PageSize is the default table page size.
	PageSize int `toml:"page_size"`

	// CacheDir is where snapshot databases live.
	CacheDir string `toml:"cache_dir"`

	// Endpoints maps a caller role to the offers listing path. The
	// backend owns role semantics; offerdeck only routes.
	Endpoints EndpointConfig `toml:"endpoints"`
}

// EndpointConfig holds per-role listing paths. Both roles currently point
// at the same path server-side; the split is kept so a deployment can
// override one of them without a rebuild.
type EndpointConfig struct {
	Recruiter string `toml:"recruiter"`
	Candidate string `toml:"candidate"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
	DefaultPageSize       = 10
	DefaultOffersPath     = "/api/offer"
)

func GetDefaultConfig() (*Config, error) {
	cacheDir, err := GetDefaultCacheDir()
	if err != nil {
		return nil, fmt.Errorf("getting default cache directory: %w", err)
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("getting config directory: %w", err)
	}
	return &Config{
		APIBaseURL:     "http://localhost:3000",
		TokenFile:      filepath.Join(configDir, "token"),
		Debounce:       Duration{DefaultDebounce},
		RequestTimeout: Duration{DefaultRequestTimeout},
		PageSize:       DefaultPageSize,
		CacheDir:       cacheDir,
		Endpoints: EndpointConfig{
			Recruiter: DefaultOffersPath,
			Candidate: DefaultOffersPath,
		},
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	defaults, err := GetDefaultConfig()
	if err != nil {
		return nil, err
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = defaults.APIBaseURL
	}
	config.APIBaseURL = strings.TrimRight(config.APIBaseURL, "/")
	if config.TokenFile == "" {
		config.TokenFile = defaults.TokenFile
	}
	if config.Debounce.Duration == 0 {
		config.Debounce = defaults.Debounce
	}
	if config.RequestTimeout.Duration == 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if config.CacheDir == "" {
		config.CacheDir = defaults.CacheDir
	}
	if config.Endpoints.Recruiter == "" {
		config.Endpoints.Recruiter = DefaultOffersPath
	}
	if config.Endpoints.Candidate == "" {
		config.Endpoints.Candidate = DefaultOffersPath
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the annotated sample config, substituting the
// user's real token path for the placeholder.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tokenFile := c.TokenFile
	template := strings.Replace(configTemplate, "/home/user/.config/offerdeck/token", tokenFile, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultCacheDir returns the default snapshot cache directory.
func GetDefaultCacheDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	deckDir := filepath.Join(dataDir, "offerdeck")
	if err := os.MkdirAll(deckDir, 0755); err != nil {
		return "", fmt.Errorf("creating cache directory %s: %w", deckDir, err)
	}

	return deckDir, nil
}

// GetConfigDir returns the configuration directory for offerdeck
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	deckConfigDir := filepath.Join(configDir, "offerdeck")
	if err := os.MkdirAll(deckConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", deckConfigDir, err)
	}

	return deckConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// PathForRole returns the offers listing path for the given role string.
// Unknown roles fall back to the recruiter path.
func (c *Config) PathForRole(role string) string {
	switch role {
	case "CANDIDATE":
		return c.Endpoints.Candidate
	default:
		return c.Endpoints.Recruiter
	}
}
