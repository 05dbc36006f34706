package stargazers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// API is the subset of the GitHub REST API the collector needs.
// Paged calls take a 1-based page and return the next page, or 0 after the last one.
type API interface {
	Repository(ctx context.Context, owner, repo string) (fullName string, stars int, err error)
	Stargazers(ctx context.Context, owner, repo string, page int) (logins []string, next int, err error)
	Starred(ctx context.Context, user string, page int) (fullNames []string, next int, err error)
}

// RateLimitedError reports that the API refused a call until Reset.
type RateLimitedError struct {
	Reset time.Time
	Err   error
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited until %s: %v", e.Reset.Format(time.RFC3339), e.Err)
}

func (e *RateLimitedError) Unwrap() error {
	return e.Err
}

const defaultMaxRetries = 5

// Collector walks the stargazers of a repository and counts what else they starred.
type Collector struct {
	Client API
	// StarsLimit bounds the starred repositories counted per stargazer to StarsLimit-1.
	StarsLimit int
	// TopCommon trims the result to the most common repositories; 0 keeps all.
	TopCommon int
	// MaxRetries bounds consecutive rate-limit waits for one call.
	MaxRetries int
	// Sleep waits for a rate-limit reset. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnUser is called after each stargazer, with the error that made it skipped.
	OnUser func(login string, err error)
}

// NewCollector creates a collector with the given limits.
func NewCollector(client API, starsLimit, topCommon int) *Collector {
	return &Collector{
		Client:     client,
		StarsLimit: starsLimit,
		TopCommon:  topCommon,
	}
}

// Collect counts, for every stargazer of owner/repo, the other repositories they starred.
// The repository itself is counted with its stargazer total.
func (c *Collector) Collect(ctx context.Context, owner, repo string) ([]RepoCount, error) {
	counter := Counter{}

	var (
		fullName string
		stars    int
	)
	err := c.retry(ctx, func() error {
		var err error
		fullName, stars, err = c.Client.Repository(ctx, owner, repo)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	if fullName == "" {
		fullName = owner + "/" + repo
	}
	counter[fullName] = stars

	for page := 1; page != 0; {
		var (
			logins []string
			next   int
		)
		err := c.retry(ctx, func() error {
			var err error
			logins, next, err = c.Client.Stargazers(ctx, owner, repo, page)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("list stargazers of %s: %w", fullName, err)
		}

		for _, login := range logins {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			err := c.countStarred(ctx, counter, fullName, login)
			if err != nil && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if c.OnUser != nil {
				c.OnUser(login, err)
			}
		}
		page = next
	}

	return counter.MostCommon(c.TopCommon), nil
}

// countStarred adds one stargazer's starred repositories. An API error skips the rest of the user.
func (c *Collector) countStarred(ctx context.Context, counter Counter, self, login string) error {
	counted := 1
	for page := 1; page != 0; {
		var (
			names []string
			next  int
		)
		err := c.retry(ctx, func() error {
			var err error
			names, next, err = c.Client.Starred(ctx, login, page)
			return err
		})
		if err != nil {
			return err
		}

		for _, name := range names {
			if counted >= c.StarsLimit {
				return nil
			}
			if strings.EqualFold(name, self) {
				continue
			}
			counter[name]++
			counted++
		}
		page = next
	}
	return nil
}

// retry runs fn again on the same request after every rate-limit reset.
func (c *Collector) retry(ctx context.Context, fn func() error) error {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 0; ; attempt++ {
		err := fn()
		var limited *RateLimitedError
		if !errors.As(err, &limited) || attempt >= maxRetries {
			return err
		}
		wait := time.Until(limited.Reset)
		if wait < 0 {
			wait = 0
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
