package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/masmgr/repomine-go/config"
	"github.com/masmgr/repomine-go/internal/aggregation"
	"github.com/masmgr/repomine-go/internal/git"
	"github.com/masmgr/repomine-go/internal/output"
	"github.com/masmgr/repomine-go/internal/syntax"
)

// Options configures a pipeline run.
type Options struct {
	ClonesDir string
	// OutDir receives one <name>.json file per repository. Empty disables them.
	OutDir string
	// OutputPath is the combined output file; every repository's array is appended to it.
	// Empty disables it.
	OutputPath string
	Workers    int
	Dedupe     bool
	Classify   bool
	Backend    string
	Repo       git.RepositoryOptions
	Walk       git.WalkOptions
	// Extractor enables syntax extraction when non-nil.
	Extractor *syntax.Extractor
}

// OptionsFromConfig builds run options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mode, err := git.ParseRenameDetectMode(cfg.Walk.RenameDetect)
	if err != nil {
		return Options{}, err
	}
	size := git.CharSize
	if cfg.Counting.AddDeleteMode == config.AddDeleteLines {
		size = git.LineSize
	}

	opts := Options{
		ClonesDir: cfg.Clones.Dir,
		OutDir:    cfg.Pipeline.OutDir,
		Workers:   cfg.Pipeline.Workers,
		Dedupe:    cfg.Pipeline.DedupeByCommit,
		Classify:  true,
		Backend:   cfg.Walk.Backend,
		Repo: git.RepositoryOptions{
			Branch:       cfg.Walk.Branch,
			RenameDetect: mode,
		},
		Walk: git.WalkOptions{
			Include: cfg.Filters.Include,
			Exclude: cfg.Filters.Exclude,
			Size:    size,
		},
	}
	if cfg.Pipeline.OutputPath != "" {
		opts.OutputPath = cfg.Pipeline.OutputPath + ".json"
	}
	if cfg.Syntax.Enabled {
		opts.Extractor = syntax.NewExtractor(cfg.Syntax.Languages...)
	}
	return opts, nil
}

// Result describes the processing of one repository.
type Result struct {
	Location   string
	Name       string
	OutputFile string
	Commits    int
	Records    int
	Partial    int
	Authors    []*aggregation.AuthorSummary
	Duration   time.Duration
	Err        error

	entries []output.Entry
}

// Runner processes repositories into change entries.
type Runner struct {
	opts      Options
	acquirer  *git.Acquirer
	annotator *Annotator
	log       *output.Logger
}

// NewRunner creates a runner. A nil logger discards status lines.
func NewRunner(opts Options, log *output.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if log == nil {
		log = output.NewLogger(io.Discard)
	}
	acq := git.NewAcquirer(opts.ClonesDir, opts.Repo)
	acq.Progress = func(msg string) { log.Info("\t%s", msg) }
	return &Runner{
		opts:      opts,
		acquirer:  acq,
		annotator: NewAnnotator(opts.Extractor),
		log:       log,
	}
}

// Run processes every location with at most Workers repositories in flight.
// A failing repository is reported in its Result and does not stop the others.
// Results and the combined output follow input order.
func (r *Runner) Run(ctx context.Context, locations []string) ([]Result, error) {
	results := make([]Result, len(locations))

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, location := range locations {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Location: location, Name: RepoName(location), Err: err}
				return nil
			}
			r.log.Progress("[%d/%d] Parse %s", i+1, len(locations), location)
			results[i] = r.Process(ctx, location)
			if err := results[i].Err; err != nil {
				r.log.Error("\tError %s: %v", location, err)
			} else {
				r.log.Progress("\tEnd %s (%d records)", location, results[i].Records)
			}
			return nil
		})
	}
	_ = g.Wait()

	if r.opts.OutputPath != "" {
		for i := range results {
			if results[i].Err != nil {
				continue
			}
			if err := output.WriteEntries(r.opts.OutputPath, results[i].entries, true); err != nil {
				return results, fmt.Errorf("write %s: %w", r.opts.OutputPath, err)
			}
			results[i].entries = nil
		}
	}
	return results, ctx.Err()
}

// Process runs the whole chain for one repository and writes its own output file.
func (r *Runner) Process(ctx context.Context, location string) Result {
	start := time.Now()
	res := Result{Location: location, Name: RepoName(location)}

	entries, stats, err := r.Entries(ctx, location)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.Commits = stats.Commits
	res.Partial = stats.Partial()
	res.Records = len(entries)
	res.entries = entries

	agg := aggregation.NewAuthorAggregator()
	for _, e := range entries {
		agg.Add(e.Record, e.Lang)
	}
	res.Authors = agg.Summaries()

	if r.opts.OutDir != "" {
		res.OutputFile = filepath.Join(r.opts.OutDir, res.Name+".json")
		if err := output.WriteEntries(res.OutputFile, entries, false); err != nil {
			res.Err = fmt.Errorf("write %s: %w", res.OutputFile, err)
		}
	}
	res.Duration = time.Since(start)
	return res
}

// Entries acquires the repository, walks its history and annotates every record.
func (r *Runner) Entries(ctx context.Context, location string) ([]output.Entry, git.WalkStats, error) {
	repo, err := r.Open(ctx, location)
	if err != nil {
		return nil, git.WalkStats{}, err
	}

	walker := git.NewWalker(repo, r.opts.Walk)
	records, err := walker.Walk(ctx)
	if err != nil {
		return nil, walker.Stats(), err
	}
	if r.opts.Dedupe {
		records = aggregation.DedupeByCommit(records)
	}

	entries := make([]output.Entry, len(records))
	for i, rec := range records {
		if r.opts.Classify {
			entries[i] = r.annotator.Annotate(rec, repo)
		} else {
			entries[i] = output.NewEntry(rec)
		}
	}
	return entries, walker.Stats(), nil
}

// Open acquires a repository with the configured backend. Remote locations are
// cloned with go-git in both cases.
func (r *Runner) Open(ctx context.Context, location string) (git.Repository, error) {
	repo, err := r.acquirer.OpenOrClone(ctx, location)
	if err != nil {
		return nil, err
	}
	if r.opts.Backend == config.BackendGitCLI {
		return git.NewCLIRepository(repo.Root(), r.opts.Repo)
	}
	return repo, nil
}

// RepoName returns the last path segment of a location without a ".git" suffix.
func RepoName(location string) string {
	name := strings.TrimRight(location, "/\\")
	if i := strings.LastIndexAny(name, "/\\:"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." {
		if abs, err := filepath.Abs(location); err == nil {
			name = filepath.Base(abs)
		}
	}
	return name
}
