// Package github reads the repository metadata shown on a preview card.
//
// Requests go through go-github on top of a retryablehttp transport, so
// transient network failures and 5xx responses are retried a few times
// before a call fails.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v75/github"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrRepositoryNotFound indicates a 404, also returned for private
	// repositories the token cannot read.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrRateLimited indicates the primary or secondary rate limit was hit.
	ErrRateLimited = errors.New("GitHub API rate limit exceeded")
)

const (
	defaultRetryMax = 3
	defaultTimeout  = 15 * time.Second
)

// RepoInfo is the subset of repository fields shown on the card.
type RepoInfo struct {
	Description string
	Stars       int
	Forks       int
}

// Options configures New.
type Options struct {
	Token    string        // optional; anonymous requests are rate limited harder
	BaseURL  string        // API root, e.g. https://ghe.example.com/api/v3/; empty = api.github.com
	RetryMax int           // 0 = default; negative disables retries
	Timeout  time.Duration // per attempt; 0 = default
}

// Client fetches metadata for one repository.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

// New creates a Client for owner/repo.
func New(owner, repo string, opts Options) (*Client, error) {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = defaultRetryMax
	if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	} else if opts.RetryMax < 0 {
		rc.RetryMax = 0
	}
	rc.HTTPClient.Timeout = defaultTimeout
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}

	client := gh.NewClient(rc.StandardClient())
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid API URL %q", opts.BaseURL)
		}
		client.BaseURL = u
	}

	return &Client{gh: client, owner: owner, repo: repo}, nil
}

// FetchRepoData returns the description and star/fork counts.
func (c *Client) FetchRepoData(ctx context.Context) (RepoInfo, error) {
	r, _, err := c.gh.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return RepoInfo{}, c.wrap("repository", err)
	}
	return RepoInfo{
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
	}, nil
}

// FetchContributorsCount counts contributors, anonymous ones included, with
// a single one-per-page request: the last page number is the total.
func (c *Client) FetchContributorsCount(ctx context.Context) (int, error) {
	opts := &gh.ListContributorsOptions{
		Anon:        "true",
		ListOptions: gh.ListOptions{PerPage: 1},
	}
	list, resp, err := c.gh.Repositories.ListContributors(ctx, c.owner, c.repo, opts)
	if err != nil {
		return 0, c.wrap("contributors", err)
	}
	if resp != nil && resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(list), nil
}

// FetchLanguages returns bytes of code per language.
func (c *Client) FetchLanguages(ctx context.Context) (map[string]int, error) {
	langs, _, err := c.gh.Repositories.ListLanguages(ctx, c.owner, c.repo)
	if err != nil {
		return nil, c.wrap("languages", err)
	}
	return langs, nil
}

func (c *Client) wrap(what string, err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return fmt.Errorf("fetching %s of %s/%s: %w: %v", what, c.owner, c.repo, ErrRateLimited, err)
	case errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound:
		return fmt.Errorf("fetching %s of %s/%s: %w", what, c.owner, c.repo, ErrRepositoryNotFound)
	default:
		return fmt.Errorf("fetching %s of %s/%s: %w", what, c.owner, c.repo, err)
	}
}
