package scrubber

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// DeriveFilename builds the normalized filename for a document from its
// extracted metadata. Pure and total: well-formed metadata always yields
// a name. Collisions with existing files are not detected here.
func DeriveFilename(m Metadata) string {
	company := nonAlphanumeric.ReplaceAllString(strings.ToLower(m.Company), "")
	docType := nonAlphanumeric.ReplaceAllString(strings.ToLower(m.DocumentType), "_")
	// Dates pass through verbatim apart from slashes; no reformatting.
	date := strings.ReplaceAll(m.Date, "/", ".")

	return fmt.Sprintf("%s-%s-%s.pdf", company, docType, date)
}
