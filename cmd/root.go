package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/masmgr/repomine-go/config"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "repomine",
		Usage:   "Extract per-file change records from Git commit histories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			ParseReposCmd(),
			WalkCmd(),
			AuthorsCmd(),
			CommitsCmd(),
			LangsCmd(),
			StargazersCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
	}
}

// Flags shared by every command that walks history.
func walkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch, tag or revision to walk (default: HEAD)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Walk commits since this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Walk commits until this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "rename-detect",
			Usage: "Rename detection mode (off, simple, aggressive)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History backend (go-git, git-cli)",
		},
		&cli.StringFlag{
			Name:  "count",
			Usage: "Size unit of added and deleted files (chars, lines)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "clones-dir",
			Usage: "Directory receiving clones of remote repositories",
		},
	}
}

// Common flags of the single-repository commands.
func commonFlags() []cli.Flag {
	return append(walkFlags(),
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path or URL of the Git repository",
			Value:   ".",
		},
		&cli.BoolFlag{
			Name:  "no-dedupe",
			Usage: "Keep every record instead of one per commit",
		},
	)
}

// Report flags of the summary commands.
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of top results to show",
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

// parseDateFlag parses a date string flag.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

// loadConfig loads configuration from file or defaults and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyOverrides(c *cli.Context, cfg *config.Config) {
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if v := c.String("branch"); v != "" {
		cfg.Walk.Branch = v
	}
	if v := c.String("rename-detect"); v != "" {
		cfg.Walk.RenameDetect = v
	}
	if v := c.String("backend"); v != "" {
		cfg.Walk.Backend = v
	}
	if v := c.String("count"); v != "" {
		cfg.Counting.AddDeleteMode = v
	}
	if v := c.String("clones-dir"); v != "" {
		cfg.Clones.Dir = v
	}
	if c.IsSet("workers") {
		cfg.Pipeline.Workers = c.Int("workers")
	}
	if c.Bool("no-dedupe") {
		cfg.Pipeline.DedupeByCommit = false
	}
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
