package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/repoglow/go-ogimage/internal/config"
)

// defaultDotEnv is read from the working directory unless OGIMAGE_ENV_FILE
// names another file.
const defaultDotEnv = ".env"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // OGIMAGE_CONFIG: config file path
	Owner      string // OGIMAGE_OWNER, else GITHUB_REPOSITORY owner
	Repo       string // OGIMAGE_REPO, else GITHUB_REPOSITORY name
	Output     string // OGIMAGE_OUTPUT: artifact path
	AssetPath  string // OGIMAGE_ASSET_PATH: custom asset directory
	Template   string // OGIMAGE_TEMPLATE: template name
	Timeout    string // OGIMAGE_TIMEOUT: browser timeout
	LogLevel   string // OGIMAGE_LOG_LEVEL
	LogFile    string // OGIMAGE_LOG_FILE

	// Secrets are read here and never logged.
	Token    string // GITHUB_TOKEN
	Username string // BOT_GITHUB_USERNAME
	Password string // BOT_GITHUB_PASSWORD
}

// knownEnvVars lists valid OGIMAGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"OGIMAGE_CONFIG":     true,
	"OGIMAGE_OWNER":      true,
	"OGIMAGE_REPO":       true,
	"OGIMAGE_OUTPUT":     true,
	"OGIMAGE_ASSET_PATH": true,
	"OGIMAGE_TEMPLATE":   true,
	"OGIMAGE_TIMEOUT":    true,
	"OGIMAGE_LOG_LEVEL":  true,
	"OGIMAGE_LOG_FILE":   true,
	"OGIMAGE_CONTAINER":  true, // read by doctor
	"OGIMAGE_ENV_FILE":   true,
}

// dotEnvPath returns the dotenv file to load.
func dotEnvPath() string {
	if p := os.Getenv("OGIMAGE_ENV_FILE"); p != "" {
		return p
	}
	return defaultDotEnv
}

// loadDotEnv exports the variables of a dotenv file into the process
// environment. Variables already set win. A missing default file is not an
// error; a missing file named by OGIMAGE_ENV_FILE is.
func loadDotEnv() error {
	path := dotEnvPath()
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && path == defaultDotEnv {
		return nil
	}
	return fmt.Errorf("%w: loading %s: %w", ErrUsage, path, err)
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("OGIMAGE_CONFIG"),
		Owner:      os.Getenv("OGIMAGE_OWNER"),
		Repo:       os.Getenv("OGIMAGE_REPO"),
		Output:     os.Getenv("OGIMAGE_OUTPUT"),
		AssetPath:  os.Getenv("OGIMAGE_ASSET_PATH"),
		Template:   os.Getenv("OGIMAGE_TEMPLATE"),
		Timeout:    os.Getenv("OGIMAGE_TIMEOUT"),
		LogLevel:   os.Getenv("OGIMAGE_LOG_LEVEL"),
		LogFile:    os.Getenv("OGIMAGE_LOG_FILE"),
		Token:      os.Getenv("GITHUB_TOKEN"),
		Username:   os.Getenv("BOT_GITHUB_USERNAME"),
		Password:   os.Getenv("BOT_GITHUB_PASSWORD"),
	}

	// GitHub Actions exposes the current repository as owner/name.
	if owner, repo, ok := strings.Cut(os.Getenv("GITHUB_REPOSITORY"), "/"); ok {
		if cfg.Owner == "" {
			cfg.Owner = owner
		}
		if cfg.Repo == "" {
			cfg.Repo = repo
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized OGIMAGE_* variables.
// Helps catch typos like OGIMAGE_OUTPUT_PATH instead of OGIMAGE_OUTPUT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "OGIMAGE_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with set environment values.
// CLI flags are applied afterwards, giving flags > env > file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIfSet(&cfg.Repository.Owner, env.Owner)
	setIfSet(&cfg.Repository.Name, env.Repo)
	setIfSet(&cfg.Output.Path, env.Output)
	setIfSet(&cfg.Assets.BasePath, env.AssetPath)
	setIfSet(&cfg.Assets.Template, env.Template)
	setIfSet(&cfg.Browser.Timeout, env.Timeout)
	setIfSet(&cfg.Log.Level, env.LogLevel)
	setIfSet(&cfg.Log.File, env.LogFile)
}

func setIfSet(field *string, value string) {
	if value != "" {
		*field = value
	}
}
