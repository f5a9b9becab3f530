package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/repoglow/go-ogimage/internal/config"
	"github.com/repoglow/go-ogimage/internal/hints"
	"github.com/repoglow/go-ogimage/internal/logger"
)

// resolveConfig loads the config file named by the flag or OGIMAGE_CONFIG,
// then applies environment overrides. Flags are merged by the caller.
func resolveConfig(common *commonFlags, env *envConfig) (*config.Config, error) {
	path := common.config
	if path == "" {
		path = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			err = fmt.Errorf("loading config: %w", err)
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, &configPathError{path: path, err: err}
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// newRunLogger builds the command logger. --verbose lowers the level to
// debug and --quiet raises it to error. Every record carries a run ID.
func newRunLogger(cfg *config.Config, common *commonFlags, stderr io.Writer) (*slog.Logger, io.Closer) {
	level, ok := logger.ParseLevel(cfg.Log.Level)
	if !ok {
		level = slog.LevelInfo
	}
	if common.verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	if common.quiet {
		level = slog.LevelError
	}

	log, closer := logger.New(logger.Options{
		Level:  level,
		Stderr: stderr,
		File:   cfg.Log.File,
	})
	return log.With("run", uuid.NewString()), closer
}

// noSandbox reports whether Chrome runs without its sandbox: always, unless
// ROD_NO_SANDBOX=0.
func noSandbox() bool {
	return !hints.SandboxEnabled()
}

// defaultAssetDir is used when no asset path is configured and it exists.
const defaultAssetDir = ".github/templates"

// assetBasePath returns the configured asset directory, else
// .github/templates under the working directory when present.
func assetBasePath(cfg *config.Config) string {
	if cfg.Assets.BasePath != "" {
		return cfg.Assets.BasePath
	}
	if info, err := os.Stat(defaultAssetDir); err == nil && info.IsDir() {
		return defaultAssetDir
	}
	return ""
}

// browserBin returns the browser binary from config or ROD_BROWSER_BIN.
func browserBin(cfg *config.Config) string {
	if cfg.Browser.Bin != "" {
		return cfg.Browser.Bin
	}
	return os.Getenv("ROD_BROWSER_BIN")
}
