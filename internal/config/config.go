package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/strata-dev/strata/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "strata.json"

	// DefaultManifest is the default route manifest reference.
	DefaultManifest = "routes.json"

	// DefaultPort is the default development server port.
	DefaultPort = 5173

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultDebounceMS is the default watcher debounce in milliseconds.
	DefaultDebounceMS = 150

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "strata"
)

// Config represents the complete strata.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Manifest is the route manifest reference: a file path relative to
	// the project root, an absolute path, or an s3:// URL.
	Manifest string `json:"manifest,omitempty"`

	// Server contains development server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Watch contains manifest watcher configuration.
	Watch WatchConfig `json:"watch,omitempty"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains development server settings.
type ServerConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`
}

// WatchConfig contains manifest watcher settings.
type WatchConfig struct {
	// Enabled controls whether the manifest is watched for changes.
	Enabled bool `json:"enabled,omitempty"`

	// DebounceMS is the debounce interval in milliseconds.
	DebounceMS int `json:"debounce_ms,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether the dev server exposes /metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the Prometheus namespace for strata metrics.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Manifest: DefaultManifest,
		Server: ServerConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: DefaultDebounceMS,
			Ignore:     []string{"node_modules", ".git"},
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for strata.json in the directory. A missing file is not an
// error: projects without strata.json run on defaults.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
// A missing file yields the default configuration.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse "+path+": "+err.Error()).
			WithSuggestion("Check that "+ConfigFileName+" is valid JSON").
			WithLocationFromJSON(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
// Empty for a default (zero-config) configuration.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}

	// Server
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}

	// Watch
	if c.Watch.DebounceMS == 0 {
		c.Watch.DebounceMS = DefaultDebounceMS
	}
	if c.Watch.Ignore == nil {
		c.Watch.Ignore = []string{"node_modules", ".git"}
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + itoa(c.Server.Port))
	}
	if c.Manifest == "" {
		return errors.New("E121").
			WithDetail("No route manifest configured").
			WithSuggestion(`Set "manifest" in ` + ConfigFileName + ` or create ` + DefaultManifest)
	}
	return nil
}

// ServerAddress returns the address string for the dev server.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + itoa(c.Server.Port)
}

// ServerURL returns the full URL for the dev server.
func (c *Config) ServerURL() string {
	return "http://" + c.ServerAddress()
}

// ManifestPath resolves the manifest reference for loading.
// S3 references and absolute paths pass through unchanged; relative
// paths resolve against the config file's directory.
func (c *Config) ManifestPath() string {
	ref := c.Manifest
	if ref == "" {
		ref = DefaultManifest
	}
	if strings.HasPrefix(ref, "s3://") {
		return ref
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(c.Dir(), ref)
}

// Debounce returns the watcher debounce interval.
func (c *Config) Debounce() time.Duration {
	ms := c.Watch.DebounceMS
	if ms <= 0 {
		ms = DefaultDebounceMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing strata.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'strata init' to create a new project")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest project root.
// Falls back to the default configuration when no strata.json exists
// anywhere above the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}

	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	// Reverse
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
