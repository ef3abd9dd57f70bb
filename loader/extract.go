package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"docchat/types"
)

// Segment is one ordered piece of extracted document text. For PDFs a
// segment is a page; a DOCX yields a single segment.
type Segment struct {
	Page int
	Text string
}

// ExtractFile pulls plain text out of the staged file. The format is decided
// by the original filename's extension, never by sniffing content.
// Whitespace-only segments are dropped.
func ExtractFile(path, filename string) ([]Segment, error) {
	var (
		segments []Segment
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		segments, err = extractPDF(path)
	case ".docx":
		segments, err = extractDOCX(path)
	default:
		return nil, types.ErrUnsupportedFormat(filename)
	}
	if err != nil {
		return nil, types.ErrBadRequest(fmt.Sprintf("could not read document: %v", err))
	}

	kept := segments[:0]
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) != "" {
			kept = append(kept, seg)
		}
	}
	if len(kept) == 0 {
		return nil, types.ErrEmptyDocument()
	}
	return kept, nil
}
