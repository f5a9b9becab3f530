// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/repoglow/go-ogimage/internal/assets"
	"github.com/repoglow/go-ogimage/internal/fileutil"
	"github.com/repoglow/go-ogimage/internal/logger"
	"github.com/repoglow/go-ogimage/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid field value")
)

// Field length limits.
const (
	MaxOwnerLength = 39   // GitHub login limit
	MaxRepoLength  = 100  // GitHub repository name limit
	MaxURLLength   = 2048 // Browser limit
	MaxPathLength  = 4096 // PATH_MAX
)

// Defaults applied by DefaultConfig.
const (
	DefaultOutputPath = ".github/og-image.png"
	DefaultWebURL     = "https://github.com"
	DefaultTimeout    = 30 * time.Second
	DefaultLogLevel   = "info"
)

var (
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?$`)
	repoPattern  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// Config holds all file-level settings. Flags and environment variables
// override it in the CLI.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	GitHub     GitHubConfig     `yaml:"github"`
	Assets     AssetsConfig     `yaml:"assets"`
	Output     OutputConfig     `yaml:"output"`
	Browser    BrowserConfig    `yaml:"browser"`
	Log        LogConfig        `yaml:"log"`
}

// RepositoryConfig names the repository the card is for.
type RepositoryConfig struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// GitHubConfig points at the API and web hosts. Empty APIURL uses api.github.com.
type GitHubConfig struct {
	APIURL string `yaml:"apiURL"`
	WebURL string `yaml:"webURL"`
}

// AssetsConfig selects the asset directory and the files used from it.
type AssetsConfig struct {
	BasePath   string `yaml:"basePath"` // Empty = embedded defaults only
	Template   string `yaml:"template"`
	Background string `yaml:"background"`
	Font       string `yaml:"font"`
	Colors     string `yaml:"colors"`
}

// OutputConfig defines where the artifact is written.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// BrowserConfig tunes the headless browser.
type BrowserConfig struct {
	Headless *bool  `yaml:"headless"` // nil = true
	KeepOpen bool   `yaml:"keepOpen"`
	Bin      string `yaml:"bin"`
	Timeout  string `yaml:"timeout"` // Go duration, e.g. "45s"
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error, fail
	File  string `yaml:"file"`  // Empty = stderr only
}

// IsHeadless reports the effective headless setting.
func (b BrowserConfig) IsHeadless() bool {
	return b.Headless == nil || *b.Headless
}

// TimeoutDuration parses Timeout, returning DefaultTimeout when empty.
func (b BrowserConfig) TimeoutDuration() (time.Duration, error) {
	if b.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: browser.timeout: %v", ErrInvalidField, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: browser.timeout: must be positive, got %s", ErrInvalidField, b.Timeout)
	}
	return d, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	headless := true
	return &Config{
		GitHub: GitHubConfig{WebURL: DefaultWebURL},
		Assets: AssetsConfig{
			Template:   assets.DefaultTemplate,
			Background: assets.DefaultBackground,
			Font:       assets.DefaultFont,
			Colors:     assets.ColorTableFile,
		},
		Output:  OutputConfig{Path: DefaultOutputPath},
		Browser: BrowserConfig{Headless: &headless, Timeout: DefaultTimeout.String()},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// ApplyDefaults fills every unset field from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	setIfEmpty(&c.GitHub.WebURL, d.GitHub.WebURL)
	setIfEmpty(&c.Assets.Template, d.Assets.Template)
	setIfEmpty(&c.Assets.Background, d.Assets.Background)
	setIfEmpty(&c.Assets.Font, d.Assets.Font)
	setIfEmpty(&c.Assets.Colors, d.Assets.Colors)
	setIfEmpty(&c.Output.Path, d.Output.Path)
	setIfEmpty(&c.Browser.Timeout, d.Browser.Timeout)
	setIfEmpty(&c.Log.Level, d.Log.Level)
	if c.Browser.Headless == nil {
		c.Browser.Headless = d.Browser.Headless
	}
}

func setIfEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks formats and field lengths. Empty owner and repository
// names are accepted here; commands that need them check presence.
func (c *Config) Validate() error {
	if err := validateFieldLength("repository.owner", c.Repository.Owner, MaxOwnerLength); err != nil {
		return err
	}
	if c.Repository.Owner != "" && !ownerPattern.MatchString(c.Repository.Owner) {
		return fmt.Errorf("%w: repository.owner %q", ErrInvalidField, c.Repository.Owner)
	}
	if err := validateFieldLength("repository.name", c.Repository.Name, MaxRepoLength); err != nil {
		return err
	}
	if c.Repository.Name != "" && (!repoPattern.MatchString(c.Repository.Name) || c.Repository.Name == "." || c.Repository.Name == "..") {
		return fmt.Errorf("%w: repository.name %q", ErrInvalidField, c.Repository.Name)
	}

	for field, v := range map[string]string{"github.apiURL": c.GitHub.APIURL, "github.webURL": c.GitHub.WebURL} {
		if err := validateURL(field, v); err != nil {
			return err
		}
	}

	for field, v := range map[string]string{
		"assets.basePath":   c.Assets.BasePath,
		"assets.template":   c.Assets.Template,
		"assets.background": c.Assets.Background,
		"assets.font":       c.Assets.Font,
		"assets.colors":     c.Assets.Colors,
		"output.path":       c.Output.Path,
		"browser.bin":       c.Browser.Bin,
		"log.file":          c.Log.File,
	} {
		if err := validateFieldLength(field, v, MaxPathLength); err != nil {
			return err
		}
	}

	if _, err := c.Browser.TimeoutDuration(); err != nil {
		return err
	}
	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q (trace, debug, info, warn, error, fail)", ErrInvalidField, c.Log.Level)
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateURL(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxURLLength); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s %q must be an http(s) URL", ErrInvalidField, fieldName, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name and fills
// unset fields with defaults. A name without a path separator is searched as
// {name}.yaml/.yml in the current directory, then ~/.config/ogimage/.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := yamlutil.ReadFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		if !errors.Is(err, yamlutil.ErrNilData) {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		p := name + ext
		if fileutil.FileExists(p) {
			return p, nil
		}
		tried = append(tried, p)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			p := filepath.Join(dir, "ogimage", name+ext)
			if fileutil.FileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
