package ogimage

import (
	"context"
	"fmt"
	"log/slog"
)

// CollectPreviewData reads metadata for one repository and computes the
// language distribution. Repository and contributor failures abort with
// ErrMetadataFetch. A language failure or an empty language map only logs
// a warning; the card then omits its language section.
func CollectPreviewData(ctx context.Context, src MetadataSource, owner, repo string, colors ColorTable, logger *slog.Logger) (RepositoryPreviewData, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	info, err := src.FetchRepoData(ctx)
	if err != nil {
		return RepositoryPreviewData{}, fmt.Errorf("%w: repository: %w", ErrMetadataFetch, err)
	}
	contributors, err := src.FetchContributorsCount(ctx)
	if err != nil {
		return RepositoryPreviewData{}, fmt.Errorf("%w: contributors: %w", ErrMetadataFetch, err)
	}

	languages, err := src.FetchLanguages(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return RepositoryPreviewData{}, fmt.Errorf("%w: languages: %w", ErrMetadataFetch, err)
		}
		logger.Warn("could not fetch languages, skipping language distribution", "error", err)
		languages = nil
	}

	shares := ComputeLanguageDistribution(languages, colors)
	if len(shares) == 0 {
		logger.Warn("no languages found, skipping language distribution")
	}

	return RepositoryPreviewData{
		Owner:         owner,
		RepoName:      repo,
		Description:   info.Description,
		Stars:         info.Stars,
		Forks:         info.Forks,
		Contributors:  contributors,
		Languages:     shares,
		LanguageNames: LanguageNames(shares),
	}, nil
}
