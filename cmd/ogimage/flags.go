package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/repoglow/go-ogimage/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	logFile string
}

// repoFlags names the target repository.
type repoFlags struct {
	owner string
	repo  string
}

// browserFlags holds browser control flags.
type browserFlags struct {
	headless    bool
	headlessSet bool // --headless given explicitly
	keepOpen    bool
	timeout     string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common    commonFlags
	repo      repoFlags
	browser   browserFlags
	output    string
	assetPath string
	template  string
	html      string
	apiURL    string
}

// publishFlags holds all flags for the publish command.
type publishFlags struct {
	common    commonFlags
	repo      repoFlags
	browser   browserFlags
	image     string
	webURL    string
	noStealth bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFile, "log-file", "", "also write logs to a rotating file")
}

// addRepoFlags adds repository selection flags to a FlagSet.
func addRepoFlags(fs *flag.FlagSet, f *repoFlags) {
	fs.StringVar(&f.owner, "owner", "", "repository owner (user or organization)")
	fs.StringVar(&f.repo, "repo", "", "repository name")
}

// addBrowserFlags adds browser control flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.BoolVar(&f.headless, "headless", true, "run the browser without a window")
	fs.BoolVar(&f.keepOpen, "keep-open", false, "leave the browser running for inspection")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser step timeout (e.g., 30s, 2m)")
}

// buildGenerateFlagSet registers generate flags into f. Shared by parsing
// and completion.
func buildGenerateFlagSet(f *generateFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "artifact path (default .github/og-image.png)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.template, "template", "", "template name")
	fs.StringVar(&f.html, "html", "", "also write the rendered HTML to this path")
	fs.StringVar(&f.apiURL, "api-url", "", "GitHub API root (GitHub Enterprise)")

	addRepoFlags(fs, &f.repo)
	addBrowserFlags(fs, &f.browser)
	addCommonFlags(fs, &f.common)

	return fs
}

// buildPublishFlagSet registers publish flags into f.
func buildPublishFlagSet(f *publishFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)

	fs.StringVarP(&f.image, "image", "i", "", "artifact to upload (default: output path)")
	fs.StringVar(&f.webURL, "web-url", "", "GitHub web root")
	fs.BoolVar(&f.noStealth, "no-stealth", false, "disable automation masking")

	addRepoFlags(fs, &f.repo)
	addBrowserFlags(fs, &f.browser)
	addCommonFlags(fs, &f.common)

	return fs
}

// parseGenerateFlags parses generate command flags. Help goes to w.
func parseGenerateFlags(args []string, w io.Writer) (*generateFlags, error) {
	f := &generateFlags{}
	fs := buildGenerateFlagSet(f)
	fs.SetOutput(w)
	fs.Usage = func() { printGenerateUsage(w) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, usageErrorf("unexpected argument %q", fs.Arg(0))
	}
	f.browser.headlessSet = fs.Changed("headless")
	return f, nil
}

// parsePublishFlags parses publish command flags. Help goes to w.
func parsePublishFlags(args []string, w io.Writer) (*publishFlags, error) {
	f := &publishFlags{}
	fs := buildPublishFlagSet(f)
	fs.SetOutput(w)
	fs.Usage = func() { printPublishUsage(w) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, usageErrorf("unexpected argument %q", fs.Arg(0))
	}
	f.browser.headlessSet = fs.Changed("headless")
	return f, nil
}

// mergeCommonFlags applies flags shared by every command.
func mergeCommonFlags(f *commonFlags, cfg *config.Config) {
	setIfSet(&cfg.Log.File, f.logFile)
}

// mergeRepoFlags applies repository flags.
func mergeRepoFlags(f *repoFlags, cfg *config.Config) {
	setIfSet(&cfg.Repository.Owner, f.owner)
	setIfSet(&cfg.Repository.Name, f.repo)
}

// mergeBrowserFlags applies browser flags. --headless only overrides when
// given, since its default is true.
func mergeBrowserFlags(f *browserFlags, cfg *config.Config) {
	if f.headlessSet {
		headless := f.headless
		cfg.Browser.Headless = &headless
	}
	if f.keepOpen {
		cfg.Browser.KeepOpen = true
	}
	setIfSet(&cfg.Browser.Timeout, f.timeout)
}

// mergeGenerateFlags overrides cfg with explicitly set generate flags.
func mergeGenerateFlags(f *generateFlags, cfg *config.Config) {
	mergeCommonFlags(&f.common, cfg)
	mergeRepoFlags(&f.repo, cfg)
	mergeBrowserFlags(&f.browser, cfg)
	setIfSet(&cfg.Output.Path, f.output)
	setIfSet(&cfg.Assets.BasePath, f.assetPath)
	setIfSet(&cfg.Assets.Template, f.template)
	setIfSet(&cfg.GitHub.APIURL, f.apiURL)
}

// mergePublishFlags overrides cfg with explicitly set publish flags.
func mergePublishFlags(f *publishFlags, cfg *config.Config) {
	mergeCommonFlags(&f.common, cfg)
	mergeRepoFlags(&f.repo, cfg)
	mergeBrowserFlags(&f.browser, cfg)
	setIfSet(&cfg.GitHub.WebURL, f.webURL)
}
