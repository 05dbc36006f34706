package output

import (
	"encoding/json"
	"io"
)

// NDJSONWriter streams entries as newline-delimited JSON, one object per line.
type NDJSONWriter struct {
	enc   *json.Encoder
	count int
}

// NewNDJSONWriter creates a streaming writer over w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{enc: json.NewEncoder(w)}
}

// Write encodes one entry followed by a newline.
func (w *NDJSONWriter) Write(e Entry) error {
	if err := w.enc.Encode(e); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of entries written so far.
func (w *NDJSONWriter) Count() int {
	return w.count
}
