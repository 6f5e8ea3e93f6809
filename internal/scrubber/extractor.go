package scrubber

import (
	"context"
	"time"
)

// Extractor turns the text content of a PDF into structured metadata.
// Implementations may fail per document; a failure is recorded on that
// item only and never aborts the batch.
type Extractor interface {
	Extract(ctx context.Context, text string, path string) (*Metadata, error)
}

// StubExtractor is the default extractor. Field detection is not
// implemented; it returns placeholder metadata flagged as assumed so the
// review UI can mark the values as guesses.
type StubExtractor struct{}

// Extract returns the placeholder metadata for any document.
func (StubExtractor) Extract(ctx context.Context, text string, path string) (*Metadata, error) {
	return &Metadata{
		Company:      "Unknown",
		DocumentType: "Document",
		Date:         time.Now().Format("2006/01/02"),
		Assumed:      true,
	}, nil
}
