package stargazers

import (
	"context"
	"errors"
	"time"

	"github.com/google/go-github/v66/github"
)

// GitHubAPI implements API with go-github.
type GitHubAPI struct {
	client  *github.Client
	perPage int
}

// NewGitHubAPI creates a client for api.github.com. An empty token makes anonymous calls.
func NewGitHubAPI(token string, perPage int) *GitHubAPI {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubAPI{client: client, perPage: perPage}
}

// NewEnterpriseAPI creates a client for a GitHub Enterprise server at baseURL.
func NewEnterpriseAPI(baseURL, token string, perPage int) (*GitHubAPI, error) {
	api := NewGitHubAPI(token, perPage)
	client, err := api.client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, err
	}
	api.client = client
	return api, nil
}

// Repository returns the canonical full name and the stargazer count.
func (g *GitHubAPI) Repository(ctx context.Context, owner, repo string) (string, int, error) {
	r, _, err := g.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", 0, translate(err)
	}
	return r.GetFullName(), r.GetStargazersCount(), nil
}

// Stargazers returns one page of stargazer logins.
func (g *GitHubAPI) Stargazers(ctx context.Context, owner, repo string, page int) ([]string, int, error) {
	users, resp, err := g.client.Activity.ListStargazers(ctx, owner, repo, &github.ListOptions{
		Page:    page,
		PerPage: g.perPage,
	})
	if err != nil {
		return nil, 0, translate(err)
	}
	logins := make([]string, 0, len(users))
	for _, u := range users {
		if login := u.GetUser().GetLogin(); login != "" {
			logins = append(logins, login)
		}
	}
	return logins, resp.NextPage, nil
}

// Starred returns one page of repositories starred by user.
func (g *GitHubAPI) Starred(ctx context.Context, user string, page int) ([]string, int, error) {
	repos, resp, err := g.client.Activity.ListStarred(ctx, user, &github.ActivityListStarredOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: g.perPage},
	})
	if err != nil {
		return nil, 0, translate(err)
	}
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		if name := r.GetRepository().GetFullName(); name != "" {
			names = append(names, name)
		}
	}
	return names, resp.NextPage, nil
}

// translate turns go-github rate-limit errors into RateLimitedError.
func translate(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitedError{Reset: rateErr.Rate.Reset.Time, Err: err}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		wait := time.Minute
		if abuseErr.RetryAfter != nil {
			wait = abuseErr.GetRetryAfter()
		}
		return &RateLimitedError{Reset: time.Now().Add(wait), Err: err}
	}
	return err
}
