package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/masmgr/repomine-go/internal/git"
	"github.com/masmgr/repomine-go/internal/stargazers"
	"github.com/masmgr/repomine-go/internal/syntax"
)

// Entry is the serialized form of one change record, with classification attached.
type Entry struct {
	Record    git.ChangeRecord
	Lang      []string // nil when classification did not run
	TreeParse *syntax.Result
}

// NewEntry wraps a record without classification.
func NewEntry(rec git.ChangeRecord) Entry {
	return Entry{Record: rec}
}

type entryJSON struct {
	Author    string         `json:"author"`
	Email     string         `json:"email"`
	CommitID  string         `json:"commit_id"`
	Add       *int           `json:"add,omitempty"`
	Delete    *int           `json:"delete,omitempty"`
	BlobID    string         `json:"blob_id,omitempty"`
	Path      string         `json:"path,omitempty"`
	Lang      *[]string      `json:"lang,omitempty"`
	TreeParse *syntax.Result `json:"tree_parse,omitempty"`
}

// MarshalJSON writes the record fields, omitting the ones that are absent.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		Author:    e.Record.Author,
		Email:     e.Record.Email,
		CommitID:  e.Record.CommitID,
		Add:       e.Record.Added,
		Delete:    e.Record.Deleted,
		BlobID:    e.Record.BlobID,
		Path:      e.Record.Path,
		TreeParse: e.TreeParse,
	}
	if e.Lang != nil {
		out.Lang = &e.Lang
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an entry written by MarshalJSON. Kind is restored from the counts present.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = Entry{
		Record: git.ChangeRecord{
			Author:   in.Author,
			Email:    in.Email,
			CommitID: in.CommitID,
			Kind:     kindFromCounts(in.Add, in.Delete),
			Path:     in.Path,
			BlobID:   in.BlobID,
			Added:    in.Add,
			Deleted:  in.Delete,
		},
		TreeParse: in.TreeParse,
	}
	if in.Lang != nil {
		e.Lang = *in.Lang
	}
	return nil
}

func kindFromCounts(add, del *int) git.ChangeKind {
	switch {
	case add != nil && del == nil:
		return git.ChangeKindAdded
	case add == nil && del != nil:
		return git.ChangeKindDeleted
	default:
		return git.ChangeKindModified
	}
}

// WriteEntries writes entries as one JSON array. In append mode the array is
// appended to the existing content, so a file shared by several repositories
// holds one array per repository.
func WriteEntries(path string, entries []Entry, appendMode bool) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadEntries decodes every JSON array in a file written by WriteEntries.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var all []Entry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var batch []Entry
		if err := dec.Decode(&batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	return all, nil
}

// WriteCounter writes ranked counts as one JSON object, keys in rank order.
func WriteCounter(path string, counts []stargazers.RepoCount) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rc := range counts {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := json.Marshal(rc.Name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.WriteString(strconv.Itoa(rc.Count))
	}
	buf.WriteByte('}')
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
