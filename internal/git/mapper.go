package git

import (
	"errors"
	"fmt"
)

// BlobReader resolves blob ids to their content.
type BlobReader interface {
	ReadBlob(id string) ([]byte, error)
}

// MapResult is the outcome of mapping one change event.
// Partial is non-nil when the record was kept with only some fields populated.
type MapResult struct {
	Record  ChangeRecord
	Partial error
}

// MapChange turns one change event into a record.
//
// The record starts as a copy of base (author, email and commit id). Counts are
// populated first, then the blob id, then the path. A decode or lookup failure
// stops population at the failing step and is reported through Partial.
func MapChange(ev SingleChange, blobs BlobReader, root string, base ChangeRecord) MapResult {
	return mapChange(ev, blobs, root, base, CharSize)
}

func mapChange(ev SingleChange, blobs BlobReader, root string, base ChangeRecord, size SizeMetric) MapResult {
	rec := base
	rec.Kind = ev.Kind()
	rec.Path = ""
	rec.BlobID = ""
	rec.Added = nil
	rec.Deleted = nil

	switch rec.Kind {
	case ChangeKindAdded:
		n, err := sideSize(blobs, ev.New.BlobID, size)
		if err != nil {
			return MapResult{Record: rec, Partial: err}
		}
		rec.Added = &n
		rec.BlobID = ev.New.BlobID
		rec.Path = JoinRoot(root, ev.New.Path)

	case ChangeKindDeleted:
		n, err := sideSize(blobs, ev.Old.BlobID, size)
		if err != nil {
			return MapResult{Record: rec, Partial: err}
		}
		rec.Deleted = &n
		rec.BlobID = ev.Old.BlobID
		rec.Path = JoinRoot(root, ev.Old.Path)

	default:
		oldContent, err := readBlob(blobs, ev.Old.BlobID)
		if err != nil {
			return MapResult{Record: rec, Partial: err}
		}
		newContent, err := readBlob(blobs, ev.New.BlobID)
		if err != nil {
			return MapResult{Record: rec, Partial: err}
		}
		added, deleted, err := diffCounts(nonNil(oldContent), nonNil(newContent), size)
		if err != nil {
			return MapResult{Record: rec, Partial: err}
		}
		rec.Added = &added
		rec.Deleted = &deleted
		rec.BlobID = ev.New.BlobID
		rec.Path = JoinRoot(root, ev.New.Path)
	}

	return MapResult{Record: rec}
}

// JoinRoot prefixes a repository-relative path with the root label.
func JoinRoot(root, rel string) string {
	if root == "" {
		return rel
	}
	return root + "/" + rel
}

func sideSize(blobs BlobReader, id string, size SizeMetric) (int, error) {
	content, err := readBlob(blobs, id)
	if err != nil {
		return 0, err
	}
	text, err := DecodeText(content)
	if err != nil {
		return 0, err
	}
	return size(text), nil
}

// readBlob normalizes reader errors so that callers can test them with errors.Is.
func readBlob(blobs BlobReader, id string) ([]byte, error) {
	content, err := blobs.ReadBlob(id)
	if err == nil {
		return content, nil
	}
	if errors.Is(err, ErrBlobNotFound) || errors.Is(err, ErrDecode) {
		return nil, err
	}
	return nil, fmt.Errorf("read blob %s: %w", id, err)
}

// nonNil keeps an empty blob distinct from an absent side.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
