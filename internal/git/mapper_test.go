package git

import (
	"errors"
	"testing"
)

type failingBlobs struct{ err error }

func (f failingBlobs) ReadBlob(string) ([]byte, error) { return nil, f.err }

func TestMapChange(t *testing.T) {
	blobs := NewMemoryRepository("repo", nil, map[string][]byte{
		"old":    []byte("a\nb\nc\n"),
		"new":    []byte("a\nb\nd\n"),
		"hello":  []byte("hello\n"),
		"binary": {0xff, 0xd8, 0xff, 0xe0, 0x00},
	})
	base := ChangeRecord{Author: "Jane", Email: "jane@example.com", CommitID: "c1"}

	t.Run("modify", func(t *testing.T) {
		ev := SingleChange{Old: BlobSide{Path: "src/f.txt", BlobID: "old"}, New: BlobSide{Path: "src/f.txt", BlobID: "new"}}
		res := MapChange(ev, blobs, "repo", base)
		if res.Partial != nil {
			t.Fatalf("unexpected partial: %v", res.Partial)
		}
		r := res.Record
		if r.Kind != ChangeKindModified || r.AddedLines() != 1 || r.DeletedLines() != 1 {
			t.Errorf("record = %+v, expected modified (1,1)", r)
		}
		if r.BlobID != "new" || r.Path != "repo/src/f.txt" {
			t.Errorf("BlobID/Path = %q/%q", r.BlobID, r.Path)
		}
		if r.Author != "Jane" || r.Email != "jane@example.com" || r.CommitID != "c1" {
			t.Errorf("base fields not copied: %+v", r)
		}
	})

	t.Run("add counts characters", func(t *testing.T) {
		ev := SingleChange{New: BlobSide{Path: "hello.txt", BlobID: "hello"}}
		res := MapChange(ev, blobs, "repo", base)
		if res.Partial != nil {
			t.Fatalf("unexpected partial: %v", res.Partial)
		}
		if res.Record.Added == nil || *res.Record.Added != 6 {
			t.Errorf("Added = %v, expected 6", res.Record.Added)
		}
		if res.Record.Deleted != nil {
			t.Errorf("Deleted should be absent for additions")
		}
	})

	t.Run("delete uses old side", func(t *testing.T) {
		ev := SingleChange{Old: BlobSide{Path: "gone.txt", BlobID: "hello"}}
		res := MapChange(ev, blobs, "repo", base)
		r := res.Record
		if res.Partial != nil || r.Kind != ChangeKindDeleted {
			t.Fatalf("unexpected result: %+v", res)
		}
		if r.Deleted == nil || *r.Deleted != 6 || r.Added != nil {
			t.Errorf("counts = %v/%v", r.Added, r.Deleted)
		}
		if r.BlobID != "hello" || r.Path != "repo/gone.txt" {
			t.Errorf("BlobID/Path = %q/%q", r.BlobID, r.Path)
		}
	})

	t.Run("binary addition stays partial", func(t *testing.T) {
		ev := SingleChange{New: BlobSide{Path: "img.png", BlobID: "binary"}}
		res := MapChange(ev, blobs, "repo", base)
		if !errors.Is(res.Partial, ErrDecode) {
			t.Fatalf("Partial = %v, expected ErrDecode", res.Partial)
		}
		r := res.Record
		if r.Kind != ChangeKindAdded {
			t.Errorf("Kind = %v, expected added", r.Kind)
		}
		if r.Added != nil || r.BlobID != "" || r.Path != "" {
			t.Errorf("partial record has fields past the failure: %+v", r)
		}
		if r.CommitID != "c1" || r.Author != "Jane" {
			t.Errorf("partial record lost base fields: %+v", r)
		}
	})

	t.Run("missing blob on modify", func(t *testing.T) {
		ev := SingleChange{Old: BlobSide{Path: "f.txt", BlobID: "nope"}, New: BlobSide{Path: "f.txt", BlobID: "new"}}
		res := MapChange(ev, blobs, "repo", base)
		if !errors.Is(res.Partial, ErrBlobNotFound) {
			t.Fatalf("Partial = %v, expected ErrBlobNotFound", res.Partial)
		}
		if res.Record.Added != nil || res.Record.Deleted != nil || res.Record.Path != "" {
			t.Errorf("partial record has counts: %+v", res.Record)
		}
	})

	t.Run("other reader errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		ev := SingleChange{New: BlobSide{Path: "f.txt", BlobID: "x"}}
		res := MapChange(ev, failingBlobs{err: boom}, "repo", base)
		if !errors.Is(res.Partial, boom) {
			t.Fatalf("Partial = %v, expected wrapped boom", res.Partial)
		}
	})

	t.Run("empty root label", func(t *testing.T) {
		ev := SingleChange{New: BlobSide{Path: "a/b.txt", BlobID: "hello"}}
		res := MapChange(ev, blobs, "", base)
		if res.Record.Path != "a/b.txt" {
			t.Errorf("Path = %q, expected bare relative path", res.Record.Path)
		}
	})

	t.Run("base is not modified", func(t *testing.T) {
		b := ChangeRecord{CommitID: "c2", Path: "stale", Added: intPtr(99)}
		ev := SingleChange{New: BlobSide{Path: "img.png", BlobID: "binary"}}
		res := MapChange(ev, blobs, "repo", b)
		if res.Record.Path != "" || res.Record.Added != nil {
			t.Errorf("stale base fields leaked: %+v", res.Record)
		}
		if b.Path != "stale" || *b.Added != 99 {
			t.Errorf("base mutated: %+v", b)
		}
	})
}

func TestMapChange_LineSize(t *testing.T) {
	blobs := NewMemoryRepository("", nil, map[string][]byte{"b": []byte("x\ny\nz\n")})
	res := mapChange(SingleChange{New: BlobSide{Path: "f", BlobID: "b"}}, blobs, "", ChangeRecord{}, LineSize)
	if res.Record.AddedLines() != 3 {
		t.Errorf("Added = %d, expected 3", res.Record.AddedLines())
	}
}
