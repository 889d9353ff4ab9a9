package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ExtractText returns the page-ordered text of the document at filePath.
// PDFs go through the PDF extractors; .txt files are read as already
// extracted text with pages separated by form feeds.
func ExtractText(filePath string) ([]string, error) {
	return ExtractTextFor(filePath, nil)
}

// ExtractTextFor is ExtractText for statements whose entries open with
// lineStart. Among the PDF extraction methods it prefers output where some
// line starts that way.
func ExtractTextFor(filePath string, lineStart *regexp.Regexp) ([]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".pdf":
		if _, err := os.Stat(filePath); err != nil {
			return nil, err
		}
		return extractPDF(filePath, lineStart)
	case ".txt", ".text":
		return extractPlainText(filePath)
	default:
		return nil, fmt.Errorf("unsupported source type %q (want .pdf or .txt)", ext)
	}
}

// Supported reports whether ExtractText handles the file's extension.
func Supported(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf", ".txt", ".text":
		return true
	}
	return false
}

func extractPlainText(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return SplitPages(string(data), "\f"), nil
}

// SplitPages splits text on sep, dropping pages that are blank.
func SplitPages(text, sep string) []string {
	var pages []string
	for _, page := range strings.Split(text, sep) {
		if strings.TrimSpace(page) != "" {
			pages = append(pages, page)
		}
	}
	return pages
}
