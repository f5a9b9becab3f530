package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/repoglow/go-ogimage/internal/assets"
)

// Language is one precomputed row of the language bar.
type Language struct {
	Name       string
	Percentage float64
	Label      string // two-decimal percentage, e.g. "80.00"
	Color      string // #RRGGBB
}

// TemplateData holds every slot a card template can reference. All values
// are computed before rendering; templates only substitute, range and test.
type TemplateData struct {
	BackgroundImage  template.URL
	StarIcon         template.URL
	ForkIcon         template.URL
	ContributorsIcon template.URL
	IssueIcon        template.URL
	DiscussionIcon   template.URL
	FontURL          template.URL

	Owner        string
	RepoName     string
	Description  string
	Stars        int
	Forks        int
	Contributors int

	Languages            string // comma-separated names
	LanguageDistribution []Language
}

// Renderer executes card templates read from a Source.
type Renderer struct {
	src assets.Source
}

// NewRenderer creates a Renderer reading templates from src.
func NewRenderer(src assets.Source) *Renderer {
	return &Renderer{src: src}
}

// Render executes the template called name with data. The result is
// byte-identical for identical inputs.
func (r *Renderer) Render(name string, data TemplateData) (string, error) {
	if err := validateTemplateName(name); err != nil {
		return "", err
	}

	raw, err := r.src.ReadAsset(name)
	if err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}

	if data.LanguageDistribution == nil {
		data.LanguageDistribution = []Language{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}

	doc := buf.String()
	if err := VerifySelfContained(doc); err != nil {
		return "", err
	}
	return doc, nil
}

func validateTemplateName(name string) error {
	if !strings.HasSuffix(name, ".html") || len(name) == len(".html") {
		return fmt.Errorf("%w: %q must end in .html", ErrInvalidTemplateName, name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}
	return nil
}
