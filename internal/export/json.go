package export

import (
	"bytes"
	"io"
	"os"

	"github.com/goccy/go-json"

	"vbrplot/internal/failures"
	"vbrplot/internal/fileutil"
)

// WriteJSON writes doc as indented JSON.
func WriteJSON(path string, doc Document) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeJSON(w, doc)
	})
	if err != nil {
		return failures.Wrap(failures.ErrIO, "json", "write "+path, "", err)
	}
	return nil
}

// EncodeJSON encodes doc to w.
func EncodeJSON(w io.Writer, doc Document) error {
	if doc.Buckets == nil {
		doc.Buckets = []Point{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadJSON loads a document written by WriteJSON. A bare array of points is
// accepted as well.
func ReadJSON(path string) (Document, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Document{}, failures.Wrap(failures.ErrIO, "json", "open "+path, "", err)
	}
	return DecodeJSON(payload)
}

// DecodeJSON parses either export envelope shape.
func DecodeJSON(payload []byte) (Document, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var points []Point
		if err := json.Unmarshal(trimmed, &points); err != nil {
			return Document{}, failures.Wrap(failures.ErrConfiguration, "json", "read", "", err)
		}
		return Document{BucketSeconds: inferWidth(points), Buckets: points}, nil
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, failures.Wrap(failures.ErrConfiguration, "json", "read", "", err)
	}
	return doc, nil
}
