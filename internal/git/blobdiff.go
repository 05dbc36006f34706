package git

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SizeMetric measures the size of a blob that exists on one side of a change only.
type SizeMetric func(text string) int

// CharSize counts decoded characters. It is the default metric for ADD and DELETE.
func CharSize(text string) int {
	return utf8.RuneCountInString(text)
}

// LineSize counts lines with the same splitting rule the line diff uses.
func LineSize(text string) int {
	return len(SplitLines(text))
}

// DecodeText decodes blob bytes as UTF-8 text.
func DecodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrDecode
	}
	return string(b), nil
}

// DecodedLength returns the number of characters in the decoded blob.
func DecodedLength(b []byte) (int, error) {
	text, err := DecodeText(b)
	if err != nil {
		return 0, err
	}
	return CharSize(text), nil
}

// SplitLines splits text at "\n", "\r\n" and "\r". A trailing line break does
// not produce an extra empty line.
func SplitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		idx := strings.IndexAny(text, "\r\n")
		if idx == -1 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx])
		next := idx + 1
		if text[idx] == '\r' && next < len(text) && text[next] == '\n' {
			next++
		}
		text = text[next:]
	}
	return lines
}

// DiffCounts returns the number of added and deleted lines between two blobs.
// A nil old blob is an addition and a nil new blob a deletion; in those cases the
// decoded character count of the present side is returned in the matching slot.
func DiffCounts(old, new []byte) (added, deleted int, err error) {
	return diffCounts(old, new, CharSize)
}

func diffCounts(old, new []byte, size SizeMetric) (added, deleted int, err error) {
	switch {
	case old == nil && new == nil:
		return 0, 0, ErrNoContent
	case old == nil:
		text, err := DecodeText(new)
		if err != nil {
			return 0, 0, err
		}
		return size(text), 0, nil
	case new == nil:
		text, err := DecodeText(old)
		if err != nil {
			return 0, 0, err
		}
		return 0, size(text), nil
	}

	oldText, err := DecodeText(old)
	if err != nil {
		return 0, 0, err
	}
	newText, err := DecodeText(new)
	if err != nil {
		return 0, 0, err
	}
	added, deleted = lineDiff(oldText, newText)
	return added, deleted, nil
}

// lineDiff counts inserted and deleted lines using a line-mode diff.
func lineDiff(oldText, newText string) (added, deleted int) {
	if oldText == newText {
		return 0, 0
	}

	oldLines := SplitLines(oldText)
	newLines := SplitLines(newText)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	// Every line is terminated so that line-mode hashing sees whole lines only.
	a, b, _ := dmp.DiffLinesToRunes(joinLines(oldLines), joinLines(newLines))
	for _, d := range dmp.DiffMainRunes(a, b, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += utf8.RuneCountInString(d.Text)
		}
	}
	return added, deleted
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
