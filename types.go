package ogimage

import "context"

// RepositoryPreviewData is everything shown on the card.
type RepositoryPreviewData struct {
	Owner        string
	RepoName     string
	Description  string // may be empty
	Stars        int
	Forks        int
	Contributors int

	// Languages is ordered by bytes descending, then name.
	Languages []LanguageShare
	// LanguageNames is the comma-separated list of Languages names.
	LanguageNames string
}

// RepoInfo holds the repository fields read from the metadata API.
type RepoInfo struct {
	Description string
	Stars       int
	Forks       int
}

// MetadataSource reads repository metadata for a single repository.
type MetadataSource interface {
	FetchRepoData(ctx context.Context) (RepoInfo, error)
	FetchContributorsCount(ctx context.Context) (int, error)
	FetchLanguages(ctx context.Context) (map[string]int, error)
}

// AssetSource reads asset bytes by slash-separated relative name.
type AssetSource interface {
	ReadAsset(name string) ([]byte, error)
}

// Viewport is the capture size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
	Scale  float64
}

// DefaultViewport matches GitHub's recommended social preview size.
var DefaultViewport = Viewport{Width: 1280, Height: 640, Scale: 1}
