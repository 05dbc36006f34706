package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// CLIRepository reads history by running the git executable.
// It produces the same change events as GoGitRepository and is usually faster
// on large histories.
type CLIRepository struct {
	dir  string
	root string
	opts RepositoryOptions
}

// NewCLIRepository creates a git CLI backed repository for dir.
func NewCLIRepository(dir string, opts RepositoryOptions) (*CLIRepository, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("%w: git executable not found: %v", ErrRepositoryUnavailable, err)
	}
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--git-dir").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrRepositoryUnavailable, dir, strings.TrimSpace(string(out)))
	}
	return &CLIRepository{dir: dir, root: strings.TrimRight(dir, "/"), opts: opts}, nil
}

// Root returns the repository directory.
func (r *CLIRepository) Root() string {
	return r.root
}

type gitRawEntry struct {
	hashes  []string // one per parent, then the result
	status  string   // e.g. "M", "A", "D", "R100", "MM" for merges
	path    string   // destination path (or path for non-renames)
	oldPath string   // source path for renames
}

// ForEachCommit runs git log once and delivers each parsed commit.
func (r *CLIRepository) ForEachCommit(ctx context.Context, fn func(CommitEntry) error) error {
	// Each commit header line is prefixed by 0x1e (record separator), then NUL-separated fields,
	// and ends with a newline. This makes the combined --raw/-z output reliably parseable as
	// "records" split by 0x1e.
	const format = "%x1e%H%x00%P%x00%aI%x00%an <%ae>%n"

	args := []string{
		"-C", r.dir,
		"log",
		"--no-color",
		"--root",
		"-c",
		"--raw", "-z",
		"--no-abbrev",
		"--pretty=format:" + format,
	}

	switch r.opts.RenameDetect {
	case RenameDetectOff:
		args = append(args, "--no-renames")
	case RenameDetectSimple:
		args = append(args, "-M100%")
	case RenameDetectAggressive:
		// Match go-git's default threshold (60).
		args = append(args, "-M60%")
	}

	if r.opts.Since != nil {
		args = append(args, fmt.Sprintf("--since=@%d", r.opts.Since.Unix()))
	}
	if r.opts.Until != nil {
		args = append(args, fmt.Sprintf("--until=@%d", r.opts.Until.Unix()))
	}

	rev := strings.TrimSpace(r.opts.Branch)
	if rev != "" && !strings.EqualFold(rev, "HEAD") {
		args = append(args, rev, "--")
	}

	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			// A repository without commits has no HEAD to log from.
			if rev == "" && strings.Contains(stderr, "does not have any commits") {
				return nil
			}
			return fmt.Errorf("%w: git log failed: %s", ErrRepositoryUnavailable, stderr)
		}
		return fmt.Errorf("%w: git log failed: %v", ErrRepositoryUnavailable, err)
	}

	for _, rec := range bytes.Split(out, []byte{0x1e}) {
		if len(rec) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, ok, err := parseGitLogRecord(rec)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
		}
		if !ok {
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// ReadBlob returns the content of a blob via git cat-file.
func (r *CLIRepository) ReadBlob(id string) ([]byte, error) {
	if !plumbing.IsHash(id) {
		return nil, fmt.Errorf("%w: %q", ErrBlobNotFound, id)
	}
	out, err := exec.Command("git", "-C", r.dir, "cat-file", "blob", id).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %s", ErrBlobNotFound, id, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

func parseGitLogRecord(rec []byte) (CommitEntry, bool, error) {
	header, body := splitHeaderBody(rec)
	if len(header) == 0 {
		return CommitEntry{}, false, nil
	}

	fields := bytes.SplitN(header, []byte{0x00}, 4)
	if len(fields) < 4 {
		return CommitEntry{}, false, fmt.Errorf("unexpected git log header format")
	}

	when, err := time.Parse(time.RFC3339, string(fields[2]))
	if err != nil {
		return CommitEntry{}, false, fmt.Errorf("parse author date: %w", err)
	}

	rawEntries, _, err := parseGitRawEntries(body)
	if err != nil {
		return CommitEntry{}, false, err
	}

	return CommitEntry{
		ID:           string(fields[0]),
		AuthorString: string(fields[3]),
		When:         when,
		Changes:      rawEntriesToEvents(rawEntries),
	}, true, nil
}

func rawEntriesToEvents(entries []gitRawEntry) []ChangeEvent {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].path < entries[j].path
	})

	events := make([]ChangeEvent, 0, len(entries))
	for _, e := range entries {
		parents := len(e.hashes) - 1
		result := rawSide(e.path, e.hashes[parents])

		if parents == 1 {
			oldPath := e.path
			if e.oldPath != "" {
				oldPath = e.oldPath
			}
			events = append(events, SingleChange{Old: rawSide(oldPath, e.hashes[0]), New: result})
			continue
		}

		parts := make([]SingleChange, 0, parents)
		for i := 0; i < parents; i++ {
			parts = append(parts, SingleChange{Old: rawSide(e.path, e.hashes[i]), New: result})
		}
		events = append(events, CompositeChange{Parts: parts})
	}
	return events
}

func rawSide(path, hash string) BlobSide {
	if strings.Trim(hash, "0") == "" {
		return BlobSide{}
	}
	return BlobSide{Path: path, BlobID: hash}
}

func splitHeaderBody(rec []byte) (header []byte, body []byte) {
	// The pretty line is followed by '\n', then diff output.
	if idx := bytes.IndexByte(rec, '\n'); idx != -1 {
		return rec[:idx], rec[idx+1:]
	}
	return rec, nil
}

// parseGitRawEntries parses --raw -z output, including the combined format
// git prints for merge commits ("::" followed by one mode and hash per parent).
func parseGitRawEntries(body []byte) ([]gitRawEntry, int, error) {
	i := 0
	for i < len(body) && (body[i] == '\n' || body[i] == '\r') {
		i++
	}

	entries := make([]gitRawEntry, 0, 128)

	for i < len(body) && body[i] == ':' {
		meta, ok := readUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing NUL)")
		}

		text := string(meta)
		parents := len(text) - len(strings.TrimLeft(text, ":"))
		fields := strings.Fields(strings.TrimLeft(text, ":"))
		if len(fields) != 2*(parents+1)+1 {
			return nil, 0, fmt.Errorf("unexpected git --raw meta: %q", text)
		}

		for _, m := range fields[:parents+1] {
			if _, err := parseGitFileMode(m); err != nil {
				return nil, 0, err
			}
		}
		hashes := append([]string(nil), fields[parents+1:2*(parents+1)]...)
		status := fields[len(fields)-1]

		path1, ok := readStringUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing path)")
		}

		path := path1
		oldPath := ""
		if parents == 1 && len(status) > 0 && (status[0] == 'R' || status[0] == 'C') {
			path2, ok := readStringUntilNUL(body, &i)
			if !ok {
				return nil, 0, fmt.Errorf("unexpected git --raw format (missing rename path)")
			}
			oldPath = path1
			path = path2
		}

		entries = append(entries, gitRawEntry{
			hashes:  hashes,
			status:  status,
			path:    path,
			oldPath: oldPath,
		})
	}

	return entries, i, nil
}

func parseGitFileMode(s string) (filemode.FileMode, error) {
	if s == "" {
		return filemode.Empty, nil
	}
	// Modes are printed as octal (e.g. 100644, 120000, 160000, 000000).
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return filemode.Empty, fmt.Errorf("parse file mode %q: %w", s, err)
	}
	return filemode.FileMode(v), nil
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}

func readStringUntilNUL(b []byte, i *int) (string, bool) {
	raw, ok := readUntilNUL(b, i)
	if !ok {
		return "", false
	}
	return string(raw), true
}
