package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/repoglow/go-ogimage"
)

// runPublish uploads an existing artifact through the repository settings
// page. Credentials come from BOT_GITHUB_USERNAME and BOT_GITHUB_PASSWORD.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	f, err := parsePublishFlags(args, env.Stdout)
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
	mergePublishFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer := newRunLogger(cfg, &f.common, env.Stderr)
	defer closer.Close()

	timeout, err := cfg.Browser.TimeoutDuration()
	if err != nil {
		return err
	}

	image := f.image
	if image == "" {
		image = cfg.Output.Path
	}

	pub := ogimage.NewPublisher(
		ogimage.WithPublishLauncher(env.Launcher),
		ogimage.WithLaunchOptions(ogimage.LaunchOptions{
			Headless:  cfg.Browser.IsHeadless(),
			KeepOpen:  cfg.Browser.KeepOpen,
			NoSandbox: noSandbox(),
			Bin:       browserBin(cfg),
			Viewport:  ogimage.DefaultViewport,
		}),
		ogimage.WithStealth(!f.noStealth),
		ogimage.WithWebURL(cfg.GitHub.WebURL),
		ogimage.WithNavigationTimeout(timeout),
		ogimage.WithPublishLogger(log),
	)

	sess, err := pub.Publish(ctx, ogimage.PublishRequest{
		Owner: cfg.Repository.Owner,
		Repo:  cfg.Repository.Name,
		Credentials: ogimage.Credentials{
			Username: envCfg.Username,
			Password: envCfg.Password,
		},
		ImagePath: image,
	})
	if sess != nil {
		log.Debug("publish landmarks", "confirmed", strings.Join(sess.Landmarks(), ", "))
	}
	if err != nil {
		return err
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Uploaded %s to %s\n", image, pub.SettingsURL(cfg.Repository.Owner, cfg.Repository.Name))
	}
	return nil
}
