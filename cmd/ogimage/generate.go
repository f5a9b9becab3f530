package main

import (
	"context"
	"fmt"
	"time"

	"github.com/repoglow/go-ogimage"
	"github.com/repoglow/go-ogimage/internal/github"
)

// runGenerate fetches repository metadata and writes the social preview.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	f, err := parseGenerateFlags(args, env.Stdout)
	if err != nil {
		return flagError(err)
	}

	if err := loadDotEnv(); err != nil {
		return err
	}
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := resolveConfig(&f.common, envCfg)
	if err != nil {
		return err
	}
	mergeGenerateFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer := newRunLogger(cfg, &f.common, env.Stderr)
	defer closer.Close()

	owner, repo := cfg.Repository.Owner, cfg.Repository.Name
	if owner == "" || repo == "" {
		return usageErrorf("--owner and --repo are required (or set GITHUB_REPOSITORY)")
	}

	timeout, err := cfg.Browser.TimeoutDuration()
	if err != nil {
		return err
	}

	capturer := ogimage.NewCapturer(
		ogimage.WithLauncher(env.Launcher),
		ogimage.WithLoadTimeout(timeout),
		ogimage.WithReadyTimeout(timeout),
		ogimage.WithSettleDelay(env.SettleDelay),
		ogimage.WithCaptureLogger(log),
	)

	assetPath := assetBasePath(cfg)
	if assetPath != cfg.Assets.BasePath {
		log.Debug("using default asset directory", "path", assetPath)
	}

	gen, err := ogimage.NewGenerator(
		ogimage.WithAssetPath(assetPath),
		ogimage.WithTemplate(cfg.Assets.Template),
		ogimage.WithBackground(cfg.Assets.Background),
		ogimage.WithFont(cfg.Assets.Font),
		ogimage.WithCapturer(capturer),
		ogimage.WithClock(env.Now),
		ogimage.WithLogger(log),
	)
	if err != nil {
		return withAssetPath(assetPath, err)
	}

	colors, err := ogimage.LoadColorTable(gen.Assets(), cfg.Assets.Colors)
	if err != nil {
		log.Warn("could not load language colors, using default color", "error", err)
		colors = ogimage.NewColorTable(nil)
	}
	log.Debug("loaded language colors", "count", colors.Len())

	source, err := env.NewMetadata(owner, repo, github.Options{
		Token:   envCfg.Token,
		BaseURL: cfg.GitHub.APIURL,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ogimage.ErrMetadataFetch, err)
	}

	log.Info("fetching repository metadata", "repo", owner+"/"+repo)
	data, err := ogimage.CollectPreviewData(ctx, source, owner, repo, colors, log)
	if err != nil {
		return err
	}

	if f.html != "" {
		if err := gen.WriteHTML(data, f.html); err != nil {
			return withAssetPath(assetPath, err)
		}
		log.Info("wrote HTML", "path", f.html)
	}

	opts := ogimage.DefaultCaptureOptions()
	opts.Headless = cfg.Browser.IsHeadless()
	opts.KeepOpen = cfg.Browser.KeepOpen
	opts.NoSandbox = noSandbox()
	opts.Bin = browserBin(cfg)

	res, err := gen.Generate(ctx, data, cfg.Output.Path, opts)
	if err != nil {
		return withAssetPath(assetPath, err)
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s (%d bytes, %s)\n", res.Path, res.Size, res.Duration.Round(time.Millisecond))
	}
	return nil
}

// withAssetPath attaches a custom asset directory to err for hinting.
func withAssetPath(path string, err error) error {
	if path == "" {
		return err
	}
	return &assetPathError{path: path, err: err}
}
