package scrubber

import (
	"fmt"
	"os"
	"strings"
)

// SelectFolder scans path once and reports how many entries look like
// PDF files. The count matches exactly the set of files a subsequent
// Process call will emit results for.
func SelectFolder(path string) (*FolderSelection, error) {
	names, err := listPDFs(path)
	if err != nil {
		return nil, err
	}
	return &FolderSelection{Path: path, PDFCount: len(names)}, nil
}

// listPDFs enumerates the directory once and returns entries whose name
// case-insensitively ends in ".pdf", in the order the filesystem reports
// them. That order is binding for result emission and progress.
func listPDFs(folderPath string) ([]string, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnreadable, err)
	}

	var names []string
	for _, entry := range entries {
		if isPDFName(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
