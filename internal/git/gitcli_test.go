package git

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestParseGitRawEntries_RenameAndModify(t *testing.T) {
	// Body bytes are what comes after the pretty header line.
	// For -z formats, entries are NUL-separated and concatenated.
	body := []byte{}

	// Modify a.txt
	body = append(body, []byte(":100644 100644 1111111111111111111111111111111111111111 2222222222222222222222222222222222222222 M")...)
	body = append(body, 0)
	body = append(body, []byte("a.txt")...)
	body = append(body, 0)

	// Rename old.go -> new.go
	body = append(body, []byte(":100644 100644 3333333333333333333333333333333333333333 4444444444444444444444444444444444444444 R100")...)
	body = append(body, 0)
	body = append(body, []byte("old.go")...)
	body = append(body, 0)
	body = append(body, []byte("new.go")...)
	body = append(body, 0)

	raw, _, err := parseGitRawEntries(body)
	if err != nil {
		t.Fatalf("parseGitRawEntries: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("raw entries = %d, expected 2", len(raw))
	}
	if raw[0].status != "M" || raw[0].path != "a.txt" || raw[0].oldPath != "" {
		t.Fatalf("raw[0] = %#v", raw[0])
	}
	if raw[1].status != "R100" || raw[1].path != "new.go" || raw[1].oldPath != "old.go" {
		t.Fatalf("raw[1] = %#v", raw[1])
	}

	events := rawEntriesToEvents(raw)
	if len(events) != 2 {
		t.Fatalf("events = %d, expected 2", len(events))
	}
	rename := events[1].(SingleChange)
	if rename.Old.Path != "old.go" || rename.New.Path != "new.go" || rename.Kind() != ChangeKindModified {
		t.Errorf("rename event = %+v", rename)
	}
}

func TestParseGitRawEntries_Combined(t *testing.T) {
	body := []byte("\n")
	body = append(body, []byte("::100644 100644 100644 "+
		"1111111111111111111111111111111111111111 "+
		"0000000000000000000000000000000000000000 "+
		"3333333333333333333333333333333333333333 MA")...)
	body = append(body, 0)
	body = append(body, []byte("merged.txt")...)
	body = append(body, 0)

	raw, _, err := parseGitRawEntries(body)
	if err != nil {
		t.Fatalf("parseGitRawEntries: %v", err)
	}
	events := rawEntriesToEvents(raw)
	if len(events) != 1 {
		t.Fatalf("events = %d, expected 1", len(events))
	}
	composite, ok := events[0].(CompositeChange)
	if !ok || len(composite.Parts) != 2 {
		t.Fatalf("event = %#v, expected two-part composite", events[0])
	}
	if composite.Parts[0].Kind() != ChangeKindModified {
		t.Errorf("part 0 kind = %v, expected modified", composite.Parts[0].Kind())
	}
	if composite.Parts[1].Kind() != ChangeKindAdded {
		t.Errorf("part 1 kind = %v, expected added", composite.Parts[1].Kind())
	}
}

func TestParseGitRawEntries_Malformed(t *testing.T) {
	body := append([]byte(":100644 100644 abc M"), 0)
	body = append(body, []byte("a.txt")...)
	body = append(body, 0)
	if _, _, err := parseGitRawEntries(body); err == nil {
		t.Fatal("expected error for short meta line")
	}
}

func TestParseGitLogRecord(t *testing.T) {
	rec := []byte("abc\x00def\x002024-01-02T03:04:05Z\x00Jane Doe <jane@example.com>\n")
	rec = append(rec, []byte(":000000 100644 0000000000000000000000000000000000000000 5555555555555555555555555555555555555555 A")...)
	rec = append(rec, 0)
	rec = append(rec, []byte("f.txt")...)
	rec = append(rec, 0, 0)

	entry, ok, err := parseGitLogRecord(rec)
	if err != nil || !ok {
		t.Fatalf("parseGitLogRecord = (%v, %v)", ok, err)
	}
	if entry.ID != "abc" || entry.AuthorString != "Jane Doe <jane@example.com>" {
		t.Errorf("entry = %+v", entry)
	}
	if len(entry.Changes) != 1 || entry.Changes[0].(SingleChange).Kind() != ChangeKindAdded {
		t.Errorf("changes = %+v", entry.Changes)
	}
}

func TestCLIRepository_MatchesGoGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	tr := newTestRepo(t)
	tr.write("a.txt", []byte("a\nb\nc\n"))
	tr.write("b.txt", []byte("keep\n"))
	tr.commit("initial", "Jane Doe", "jane@example.com")
	tr.write("a.txt", []byte("a\nb\nd\n"))
	tr.remove("b.txt")
	tr.commit("second", "Bob", "bob@example.com")

	cli, err := NewCLIRepository(tr.dir, RepositoryOptions{})
	if err != nil {
		t.Fatalf("NewCLIRepository: %v", err)
	}
	fromCLI, err := NewWalker(cli, WalkOptions{RootLabel: "r"}).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk(cli): %v", err)
	}
	fromGoGit, err := NewWalker(tr.open(RepositoryOptions{}), WalkOptions{RootLabel: "r"}).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk(go-git): %v", err)
	}

	if len(fromCLI) != len(fromGoGit) {
		t.Fatalf("cli records = %d, go-git records = %d", len(fromCLI), len(fromGoGit))
	}
	for i := range fromCLI {
		a, b := fromCLI[i], fromGoGit[i]
		if a.CommitID != b.CommitID || a.Path != b.Path || a.BlobID != b.BlobID || a.Churn() != b.Churn() {
			t.Errorf("record %d differs: cli=%+v go-git=%+v", i, a, b)
		}
	}
}

func TestNewCLIRepository_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	if _, err := NewCLIRepository(t.TempDir(), RepositoryOptions{}); !errors.Is(err, ErrRepositoryUnavailable) {
		t.Errorf("err = %v, expected ErrRepositoryUnavailable", err)
	}
}
