package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/masmgr/repomine-go/internal/output"
	"github.com/masmgr/repomine-go/internal/stargazers"
	"github.com/urfave/cli/v2"
)

// StargazersCmd returns the stargazers command.
func StargazersCmd() *cli.Command {
	return &cli.Command{
		Name:  "stargazers",
		Usage: "Count the repositories most often starred by the stargazers of a repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "Observed repository (github.com/owner/repo or owner/repo)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "apikey",
				Aliases: []string{"k"},
				Usage:   "GitHub API token",
				EnvVars: []string{"GITHUB_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base name of the output file (.json is appended)",
				Value:   "output_stars",
			},
			&cli.StringFlag{
				Name:  "enterprise-url",
				Usage: "Base URL of a GitHub Enterprise server",
			},
			&cli.IntFlag{
				Name:  "stars-limit",
				Usage: "Starred repositories counted per stargazer",
			},
			&cli.IntFlag{
				Name:  "per-page",
				Usage: "Page size of GitHub API list calls (max 100)",
			},
			&cli.IntFlag{
				Name:  "top-common",
				Usage: "Number of most common repositories kept (0 keeps all)",
			},
		},
		Action: stargazersAction,
	}
}

func stargazersAction(c *cli.Context) error {
	start := time.Now()
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("stars-limit") {
		cfg.Stargazers.StarsLimit = c.Int("stars-limit")
	}
	if c.IsSet("per-page") {
		cfg.Stargazers.PerPage = c.Int("per-page")
	}
	if c.IsSet("top-common") {
		cfg.Stargazers.TopCommon = c.Int("top-common")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	owner, repo, err := stargazers.ParseRepoName(c.String("url"))
	if err != nil {
		return fmt.Errorf("%w: should be github.com/user/repo or user/repo", err)
	}

	api, err := newGitHubAPI(c.String("enterprise-url"), c.String("apikey"), cfg.Stargazers.PerPage)
	if err != nil {
		return err
	}

	log := output.NewLogger(os.Stdout)
	path := c.String("output") + ".json"
	log.Info("Output will be saved into %s file.", path)
	log.Status("Collecting stargazers of %s/%s", owner, repo)

	collector := stargazers.NewCollector(api, cfg.Stargazers.StarsLimit, cfg.Stargazers.TopCommon)
	collector.OnUser = func(login string, err error) {
		if err != nil {
			log.Error("\tskip %s: %v", login, err)
		}
	}

	counts, err := collector.Collect(context.Background(), owner, repo)
	if err != nil {
		return fmt.Errorf("failed to collect stargazers: %w", err)
	}

	for i, rc := range counts {
		if i == 10 {
			break
		}
		log.Progress("%4d  %s", rc.Count, rc.Name)
	}
	if err := output.WriteCounter(path, counts); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nCompleted in %s\n", time.Since(start))
	return nil
}

func newGitHubAPI(enterpriseURL, token string, perPage int) (*stargazers.GitHubAPI, error) {
	if enterpriseURL != "" {
		return stargazers.NewEnterpriseAPI(enterpriseURL, token, perPage)
	}
	return stargazers.NewGitHubAPI(token, perPage), nil
}
