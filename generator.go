package ogimage

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/repoglow/go-ogimage/internal/assets"
	"github.com/repoglow/go-ogimage/internal/fileutil"
	"github.com/repoglow/go-ogimage/internal/pipeline"
)

// MaxOutputSize is the largest artifact GitHub accepts as a social preview.
const MaxOutputSize = 1 << 20

// Asset names used when no override is configured.
const (
	DefaultTemplate   = assets.DefaultTemplate
	DefaultBackground = assets.DefaultBackground
	DefaultFont       = assets.DefaultFont
	DefaultColorTable = assets.ColorTableFile
)

// Result describes a written artifact.
type Result struct {
	Path     string
	Size     int
	RawSize  int // screenshot size before compression
	Duration time.Duration
}

// Generator renders preview data into a compressed PNG artifact.
type Generator struct {
	src        AssetSource
	assetPath  string
	template   string
	background string
	font       string
	iconColor  string
	capturer   *Capturer
	compressor Compressor
	maxSize    int
	logger     *slog.Logger
	now        func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithAssetPath layers a directory over the embedded assets.
func WithAssetPath(dir string) GeneratorOption {
	return func(g *Generator) {
		g.assetPath = dir
	}
}

// WithAssetSource replaces asset resolution entirely. Takes precedence over
// WithAssetPath.
func WithAssetSource(src AssetSource) GeneratorOption {
	return func(g *Generator) {
		g.src = src
	}
}

// WithTemplate selects the card template by name.
func WithTemplate(name string) GeneratorOption {
	return func(g *Generator) {
		g.template = name
	}
}

// WithBackground selects the background image by name.
func WithBackground(name string) GeneratorOption {
	return func(g *Generator) {
		g.background = name
	}
}

// WithFont selects the font by asset path. When the default Mona Sans file
// is absent, the bundled Go font is used instead.
func WithFont(name string) GeneratorOption {
	return func(g *Generator) {
		g.font = name
	}
}

// WithIconColor sets the fill color for stat icons.
func WithIconColor(color string) GeneratorOption {
	return func(g *Generator) {
		g.iconColor = color
	}
}

// WithCapturer sets the screenshot capturer.
func WithCapturer(c *Capturer) GeneratorOption {
	return func(g *Generator) {
		g.capturer = c
	}
}

// WithCompressor sets the image compressor.
func WithCompressor(c Compressor) GeneratorOption {
	return func(g *Generator) {
		g.compressor = c
	}
}

// WithClock sets the time source used to measure Result.Duration. Nil keeps
// time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets the generator logger.
func WithLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator creates a Generator. It fails if the asset path is unusable.
func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		template:   DefaultTemplate,
		background: DefaultBackground,
		font:       DefaultFont,
		iconColor:  assets.DefaultIconColor,
		compressor: DefaultCompressor,
		maxSize:    MaxOutputSize,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.src == nil {
		resolver, err := assets.NewResolver(g.assetPath)
		if err != nil {
			return nil, err
		}
		g.src = resolver
	}
	if g.capturer == nil {
		g.capturer = NewCapturer(WithCaptureLogger(g.logger))
	}
	return g, nil
}

// Assets returns the generator's asset source.
func (g *Generator) Assets() AssetSource {
	return g.src
}

// RenderHTML produces the self-contained card document for data.
func (g *Generator) RenderHTML(data RepositoryPreviewData) (string, error) {
	embedder := assets.NewEmbedder(g.src)

	background, err := embedder.EmbedImage(g.background)
	if err != nil {
		return "", fmt.Errorf("embedding background %s: %w", g.background, err)
	}
	font, err := embedder.EmbedFont(g.font)
	if errors.Is(err, assets.ErrAssetNotFound) && g.font == DefaultFont {
		g.logger.Warn("font not found, using bundled fallback", "font", g.font, "fallback", assets.FallbackFont)
		font, err = embedder.EmbedFont(assets.FallbackFont)
	}
	if err != nil {
		return "", fmt.Errorf("embedding font %s: %w", g.font, err)
	}

	td := pipeline.TemplateData{
		BackgroundImage: template.URL(background), // #nosec G203 -- data URI built from asset bytes
		FontURL:         template.URL(font),       // #nosec G203 -- data URI built from asset bytes
		Owner:           data.Owner,
		RepoName:        data.RepoName,
		Description:     data.Description,
		Stars:           data.Stars,
		Forks:           data.Forks,
		Contributors:    data.Contributors,
		Languages:       data.LanguageNames,
	}
	icons := []struct {
		name string
		slot *template.URL
	}{
		{assets.IconStar, &td.StarIcon},
		{assets.IconFork, &td.ForkIcon},
		{assets.IconContributors, &td.ContributorsIcon},
		{assets.IconIssue, &td.IssueIcon},
		{assets.IconDiscussion, &td.DiscussionIcon},
	}
	for _, icon := range icons {
		uri, err := embedder.EmbedIcon(icon.name, g.iconColor)
		if err != nil {
			return "", fmt.Errorf("embedding icon %s: %w", icon.name, err)
		}
		*icon.slot = template.URL(uri) // #nosec G203 -- data URI built from asset bytes
	}

	td.LanguageDistribution = make([]pipeline.Language, len(data.Languages))
	for i, l := range data.Languages {
		td.LanguageDistribution[i] = pipeline.Language{
			Name:       l.Name,
			Percentage: l.Percentage,
			Label:      l.Label,
			Color:      l.Color,
		}
	}

	return pipeline.NewRenderer(g.src).Render(g.template, td)
}

// Generate renders, captures, compresses and writes the card to outputPath.
// Nothing is written unless every step succeeds.
func (g *Generator) Generate(ctx context.Context, data RepositoryPreviewData, outputPath string, opts CaptureOptions) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrUnexpectedFailure, r)
		}
	}()

	start := g.now()

	html, err := g.RenderHTML(data)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("rendered card", "bytes", len(html), "template", g.template)

	raw, err := g.capturer.Capture(ctx, html, opts)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("captured screenshot", "bytes", len(raw))

	png, err := g.compressor.Compress(raw)
	if err != nil {
		return nil, err
	}
	if len(png) > g.maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrOutputTooLarge, len(png), g.maxSize)
	}

	if err := fileutil.WriteAtomic(outputPath, png, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}

	res = &Result{
		Path:     outputPath,
		Size:     len(png),
		RawSize:  len(raw),
		Duration: g.now().Sub(start),
	}
	g.logger.Info("wrote social preview", "path", outputPath, "bytes", res.Size, "raw_bytes", res.RawSize)
	return res, nil
}

// WriteHTML writes the rendered card document to path for inspection.
func (g *Generator) WriteHTML(data RepositoryPreviewData, path string) error {
	html, err := g.RenderHTML(data)
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	return nil
}
