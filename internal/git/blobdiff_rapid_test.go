package git

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// --- Generators ---

func genLines() *rapid.Generator[[]string] {
	line := rapid.SampledFrom([]string{"", "a", "b", "c", "func main() {", "}", "return nil", "日本"})
	return rapid.SliceOfN(line, 0, 30)
}

func genText() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		lines := genLines().Draw(t, "lines")
		sep := rapid.SampledFrom([]string{"\n", "\r\n"}).Draw(t, "sep")
		text := strings.Join(lines, sep)
		if len(lines) > 0 && rapid.Bool().Draw(t, "trailing") {
			text += sep
		}
		return text
	})
}

// --- Property Tests ---

func TestRapidDiffCounts_IdentityIsZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := genText().Draw(t, "text")

		added, deleted, err := DiffCounts([]byte(text), []byte(text))
		if err != nil {
			t.Fatalf("DiffCounts error: %v", err)
		}
		if added != 0 || deleted != 0 {
			t.Fatalf("DiffCounts(x, x) = (%d, %d), expected (0, 0)", added, deleted)
		}
	})
}

func TestRapidDiffCounts_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		oldText := genText().Draw(t, "old")
		newText := genText().Draw(t, "new")

		added, deleted, err := DiffCounts([]byte(oldText), []byte(newText))
		if err != nil {
			t.Fatalf("DiffCounts error: %v", err)
		}

		oldLines := len(SplitLines(oldText))
		newLines := len(SplitLines(newText))
		if added < 0 || added > newLines {
			t.Fatalf("added = %d, expected in [0,%d]", added, newLines)
		}
		if deleted < 0 || deleted > oldLines {
			t.Fatalf("deleted = %d, expected in [0,%d]", deleted, oldLines)
		}
		if added-deleted != newLines-oldLines {
			t.Fatalf("added-deleted = %d, expected %d", added-deleted, newLines-oldLines)
		}
	})
}

func TestRapidMapChange_KindFollowsBlobIDs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hasOld := rapid.Bool().Draw(t, "hasOld")
		hasNew := rapid.Bool().Draw(t, "hasNew")
		if !hasOld && !hasNew {
			hasNew = true
		}

		blobs := map[string][]byte{}
		var ev SingleChange
		if hasOld {
			ev.Old = BlobSide{Path: "f.txt", BlobID: "old"}
			blobs["old"] = []byte(genText().Draw(t, "oldText"))
		}
		if hasNew {
			ev.New = BlobSide{Path: "f.txt", BlobID: "new"}
			blobs["new"] = []byte(genText().Draw(t, "newText"))
		}

		res := MapChange(ev, NewMemoryRepository("r", nil, blobs), "r", ChangeRecord{})
		if res.Partial != nil {
			t.Fatalf("unexpected partial: %v", res.Partial)
		}

		want := ChangeKindModified
		switch {
		case !hasOld:
			want = ChangeKindAdded
		case !hasNew:
			want = ChangeKindDeleted
		}
		if res.Record.Kind != want {
			t.Fatalf("Kind = %v, expected %v", res.Record.Kind, want)
		}
		if (res.Record.Added != nil) != (want != ChangeKindDeleted) {
			t.Fatalf("Added presence wrong for %v", want)
		}
		if (res.Record.Deleted != nil) != (want != ChangeKindAdded) {
			t.Fatalf("Deleted presence wrong for %v", want)
		}
	})
}

func TestRapidWalker_PreservesOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nCommits := rapid.IntRange(0, 10).Draw(t, "commits")
		blobs := map[string][]byte{"b": []byte("x\n")}

		var commits []CommitEntry
		var expected []string
		for i := 0; i < nCommits; i++ {
			nChanges := rapid.IntRange(0, 5).Draw(t, fmt.Sprintf("changes%d", i))
			c := CommitEntry{ID: fmt.Sprintf("c%02d", i), AuthorString: "A <a@x>"}
			for j := 0; j < nChanges; j++ {
				path := fmt.Sprintf("f%d.txt", j)
				if rapid.Bool().Draw(t, fmt.Sprintf("composite%d_%d", i, j)) {
					c.Changes = append(c.Changes, CompositeChange{Parts: []SingleChange{
						{New: BlobSide{Path: path + ".p0", BlobID: "b"}},
						{New: BlobSide{Path: path + ".p1", BlobID: "b"}},
					}})
					expected = append(expected, c.ID+"/"+path+".p0", c.ID+"/"+path+".p1")
					continue
				}
				c.Changes = append(c.Changes, SingleChange{New: BlobSide{Path: path, BlobID: "b"}})
				expected = append(expected, c.ID+"/"+path)
			}
			commits = append(commits, c)
		}

		w := NewWalker(NewMemoryRepository("", commits, blobs), WalkOptions{})
		records, err := w.Walk(context.Background())
		if err != nil {
			t.Fatalf("Walk error: %v", err)
		}
		if len(records) != len(expected) {
			t.Fatalf("got %d records, expected %d", len(records), len(expected))
		}
		for i, r := range records {
			if got := r.CommitID + "/" + r.Path; got != expected[i] {
				t.Fatalf("record %d = %q, expected %q", i, got, expected[i])
			}
		}
	})
}
