package scrubber

// Metadata holds the document fields extracted from a PDF.
type Metadata struct {
	Company      string `json:"company"`
	DocumentType string `json:"document_type"`
	Date         string `json:"date"`
	// Assumed is set when the extractor could not confidently determine
	// the fields and fell back to defaults. The UI must surface it.
	Assumed bool `json:"assumed"`
}

// ProcessingResult is the outcome of processing one PDF file.
// Succeeded is true iff Extracted and DerivedName are set and
// ErrorMessage is empty. Results are immutable once emitted.
type ProcessingResult struct {
	OriginalName string    `json:"original_name"`
	Extracted    *Metadata `json:"extracted,omitempty"`
	DerivedName  string    `json:"derived_name,omitempty"`
	Succeeded    bool      `json:"succeeded"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// FolderSelection describes a picked folder and its scan-time PDF count.
// A new folder pick supersedes the previous selection wholesale.
type FolderSelection struct {
	Path     string `json:"path"`
	PDFCount int    `json:"pdf_count"`
}

// Progress reports per-item batch progress. PercentComplete is
// monotonically non-decreasing within a batch and reaches exactly 100
// after the last item.
type Progress struct {
	CurrentFile     string  `json:"current_file"`
	PercentComplete float64 `json:"percent_complete"`
}
