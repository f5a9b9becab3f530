package main

import (
	"context"

	"github.com/repoglow/go-ogimage"
	"github.com/repoglow/go-ogimage/internal/github"
)

// githubMetadata adapts the API client to ogimage.MetadataSource.
type githubMetadata struct {
	client *github.Client
}

var _ ogimage.MetadataSource = (*githubMetadata)(nil)

func newGitHubMetadata(owner, repo string, opts github.Options) (ogimage.MetadataSource, error) {
	c, err := github.New(owner, repo, opts)
	if err != nil {
		return nil, err
	}
	return &githubMetadata{client: c}, nil
}

func (g *githubMetadata) FetchRepoData(ctx context.Context) (ogimage.RepoInfo, error) {
	info, err := g.client.FetchRepoData(ctx)
	if err != nil {
		return ogimage.RepoInfo{}, err
	}
	return ogimage.RepoInfo{
		Description: info.Description,
		Stars:       info.Stars,
		Forks:       info.Forks,
	}, nil
}

func (g *githubMetadata) FetchContributorsCount(ctx context.Context) (int, error) {
	return g.client.FetchContributorsCount(ctx)
}

func (g *githubMetadata) FetchLanguages(ctx context.Context) (map[string]int, error) {
	return g.client.FetchLanguages(ctx)
}
