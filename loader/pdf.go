package loader

import (
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// extractPDF validates the file with pdfcpu, then reads per-page plain text.
func extractPDF(path string) ([]Segment, error) {
	conf := api.LoadConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	segments := make([]Segment, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip pages whose content stream fails to decode
			continue
		}
		segments = append(segments, Segment{Page: i, Text: text})
	}
	return segments, nil
}
