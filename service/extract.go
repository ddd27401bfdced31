package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kifouliw-hash/MYMIR-sub000/config"
)

// ErrExtraction indicates the uploaded bytes could not be parsed as a PDF.
var ErrExtraction = errors.New("document could not be parsed")

// ExtractService turns an uploaded PDF into bounded plain text.
type ExtractService struct {
	maxChars int
}

func NewExtractService(cfg *config.ExtractConfig) *ExtractService {
	return &ExtractService{maxChars: cfg.MaxChars}
}

// Extract reads all text from the PDF bytes, clipped to the configured
// character ceiling. The input is transient; nothing is written to disk.
// A document that cannot be opened yields ErrExtraction and no text.
func (s *ExtractService) Extract(data []byte) (text string, err error) {
	// The pdf library panics on some malformed documents; fold those
	// into the same typed failure as a regular parse error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only or damaged pages are skipped, not fatal.
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return clip(strings.TrimSpace(sb.String()), s.maxChars), nil
}

// clip truncates s to at most max characters (runes, so the cut never
// splits a UTF-8 sequence).
func clip(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
