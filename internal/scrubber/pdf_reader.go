package scrubber

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// TextReader extracts the text content of a PDF document from its raw bytes.
type TextReader interface {
	ReadText(data []byte) (string, error)
}

// FitzTextReader reads PDF text through MuPDF.
type FitzTextReader struct {
	logger *zap.Logger
}

// NewFitzTextReader creates a new FitzTextReader
func NewFitzTextReader(logger *zap.Logger) *FitzTextReader {
	return &FitzTextReader{logger: logger}
}

// ReadText returns the concatenated text of all pages. A page that fails
// to render is skipped; an unparseable document is an error.
func (r *FitzTextReader) ReadText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	pageCount := doc.NumPage()

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}
