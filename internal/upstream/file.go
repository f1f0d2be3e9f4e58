package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/afero"
)

// FileRetriever serves a static JSON array of documents.
type FileRetriever struct {
	docs []schema.Document
}

var _ contract.Retriever = &FileRetriever{} // Compile-time check

// NewFileRetriever reads the document dataset at path once.
func NewFileRetriever(fs afero.Fs, path string) (*FileRetriever, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents file %q: %w", path, err)
	}
	var docs []schema.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents file %q: %w", path, err)
	}
	return &FileRetriever{docs: docs}, nil
}

// NewStaticRetriever serves an in-memory dataset.
func NewStaticRetriever(docs []schema.Document) *FileRetriever {
	return &FileRetriever{docs: docs}
}

// Fetch implements the Retriever interface.
func (r *FileRetriever) Fetch(ctx context.Context, countryCode string) ([]schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	out := make([]schema.Document, 0, len(r.docs))
	for _, d := range r.docs {
		if code == "" || strings.EqualFold(d.CountryCode, code) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Len returns the size of the dataset.
func (r *FileRetriever) Len() int {
	return len(r.docs)
}
