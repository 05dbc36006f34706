package pipeline

import (
	"github.com/masmgr/repomine-go/internal/git"
	"github.com/masmgr/repomine-go/internal/lang"
	"github.com/masmgr/repomine-go/internal/output"
	"github.com/masmgr/repomine-go/internal/syntax"
)

// Annotator attaches language and syntax information to records.
// A nil extractor disables syntax extraction.
type Annotator struct {
	classifier *lang.Classifier
	extractor  *syntax.Extractor
}

// NewAnnotator creates an annotator.
func NewAnnotator(extractor *syntax.Extractor) *Annotator {
	return &Annotator{classifier: lang.NewClassifier(), extractor: extractor}
}

// Annotate classifies one record from its blob content and, for supported
// languages, extracts imports and names. Failures leave the fields unset.
func (a *Annotator) Annotate(rec git.ChangeRecord, blobs git.BlobReader) output.Entry {
	e := output.NewEntry(rec)

	var content []byte
	if rec.Path != "" && rec.BlobID != "" && blobs != nil {
		if b, err := blobs.ReadBlob(rec.BlobID); err == nil {
			content = b
		}
	}
	e.Lang = a.classifier.Classify(rec.Path, content)

	if a.extractor == nil || content == nil {
		return e
	}
	language, ok := syntax.PickLanguage(e.Lang)
	if !ok || !a.extractor.Enabled(language) {
		return e
	}
	res, err := a.extractor.Extract(language, content)
	if err != nil {
		return e
	}
	e.TreeParse = &res
	return e
}
