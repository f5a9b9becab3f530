package pipeline

// Notes:
// - The embedded default template is rendered with synthetic data URIs; the
//   real asset embedding is covered in internal/assets.

import (
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/repoglow/go-ogimage/internal/assets"
)

type mapSource map[string]string

func (m mapSource) ReadAsset(name string) ([]byte, error) {
	v, ok := m[name]
	if !ok {
		return nil, assets.ErrAssetNotFound
	}
	return []byte(v), nil
}

func sampleData() TemplateData {
	return TemplateData{
		BackgroundImage:  template.URL("data:image/png;base64,iVBORw0KGgo="),
		StarIcon:         template.URL("data:image/svg+xml;base64,c3Rhcg=="),
		ForkIcon:         template.URL("data:image/svg+xml;base64,Zm9yaw=="),
		ContributorsIcon: template.URL("data:image/svg+xml;base64,cGVvcGxl"),
		IssueIcon:        template.URL("data:image/svg+xml;base64,aXNzdWU="),
		DiscussionIcon:   template.URL("data:image/svg+xml;base64,ZGlzYw=="),
		FontURL:          template.URL("data:font/woff2;base64,d09GMg=="),
		Owner:            "octocat",
		RepoName:         "Hello-World",
		Description:      "My first repository",
		Stars:            2500,
		Forks:            1200,
		Contributors:     3,
		Languages:        "JavaScript, HTML",
		LanguageDistribution: []Language{
			{Name: "JavaScript", Percentage: 80, Label: "80.00", Color: "#f1e05a"},
			{Name: "HTML", Percentage: 20, Label: "20.00", Color: "#e34c26"},
		},
	}
}

// ---------------------------------------------------------------------------
// TestRender - Default template
// ---------------------------------------------------------------------------

func TestRender_DefaultTemplate(t *testing.T) {
	t.Parallel()

	r := NewRenderer(assets.NewEmbeddedSource())
	doc, err := r.Render(assets.DefaultTemplate, sampleData())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"Hello-World",
		"octocat/",
		"My first repository",
		"2500",
		"JavaScript 80.00%",
		"HTML 20.00%",
		`url("data:image/png;base64,iVBORw0KGgo=")`,
		`src="data:image/svg+xml;base64,c3Rhcg=="`,
		"data:font/woff2;base64,d09GMg==",
		"#f1e05a",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc, "ZgotmplZ") {
		t.Error("escaper rejected a value (ZgotmplZ in output)")
	}
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	r := NewRenderer(assets.NewEmbeddedSource())
	first, err := r.Render(assets.DefaultTemplate, sampleData())
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(assets.DefaultTemplate, sampleData())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("rendering identical data twice produced different documents")
	}
}

func TestRender_EmptyLanguagesHidesSection(t *testing.T) {
	t.Parallel()

	data := sampleData()
	data.Languages = ""
	data.LanguageDistribution = nil

	doc, err := NewRenderer(assets.NewEmbeddedSource()).Render(assets.DefaultTemplate, data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(doc, `class="languages"`) {
		t.Error("language section rendered for empty distribution")
	}
}

func TestRender_EscapesText(t *testing.T) {
	t.Parallel()

	data := sampleData()
	data.Description = `<script>alert(1)</script>`

	doc, err := NewRenderer(assets.NewEmbeddedSource()).Render(assets.DefaultTemplate, data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(doc, "<script>") {
		t.Error("description was not escaped")
	}
}

// ---------------------------------------------------------------------------
// TestRender - Errors
// ---------------------------------------------------------------------------

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	src := mapSource{
		"broken.html":   `{{if .Owner}}`,
		"external.html": `<img src="https://example.com/x.png">`,
		"unknown.html":  `{{.Nope}}`,
	}
	r := NewRenderer(src)

	tests := []struct {
		name     string
		template string
		wantErr  error
	}{
		{"missing template", "missing.html", ErrTemplateNotFound},
		{"wrong extension", "card.txt", ErrInvalidTemplateName},
		{"bare extension", ".html", ErrInvalidTemplateName},
		{"path separator", "sub/card.html", ErrInvalidTemplateName},
		{"parse error", "broken.html", ErrTemplateInvalid},
		{"unknown field", "unknown.html", ErrTemplateInvalid},
		{"external reference", "external.html", ErrExternalReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := r.Render(tt.template, sampleData())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Render(%q) error = %v, want %v", tt.template, err, tt.wantErr)
			}
		})
	}
}

func TestRender_NilDistributionIsEmptySlice(t *testing.T) {
	t.Parallel()

	src := mapSource{"count.html": `{{len .LanguageDistribution}}`}
	got, err := NewRenderer(src).Render("count.html", TemplateData{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "0" {
		t.Errorf("Render() = %q, want %q", got, "0")
	}
}
