package extractor

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// minReadableShare is the fraction of runes that must be plain ASCII text
// for an extraction to be used.
const minReadableShare = 0.6

// candidate is the page text produced by one extraction method.
type candidate struct {
	method string
	pages  []string
}

// extractPDF runs the extraction methods cheapest first and keeps the first
// readable output with at least one line opening with lineStart. When none
// has such a line, the first readable output wins. A nil lineStart accepts
// any readable output.
func extractPDF(filePath string, lineStart *regexp.Regexp) ([]string, error) {
	cands, libErr := libraryCandidates(filePath)
	if c, ok := chooseCandidate(cands, lineStart, true); ok {
		return c.pages, nil
	}

	if pages, err := extractWithPdftotext(filePath); err == nil {
		cands = append(cands, candidate{method: "pdftotext", pages: pages})
	}
	if c, ok := chooseCandidate(cands, lineStart, true); ok {
		return c.pages, nil
	}
	if c, ok := chooseCandidate(cands, nil, false); ok {
		return c.pages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w", libErr)
	}
	return nil, errors.New("no readable text could be extracted from PDF; it may be image-based or use custom font encodings")
}

// chooseCandidate returns the first readable candidate. With needDated set it
// must also contain a line opening with lineStart.
func chooseCandidate(cands []candidate, lineStart *regexp.Regexp, needDated bool) (candidate, bool) {
	for _, c := range cands {
		if !isReadableText(c.pages) {
			continue
		}
		if needDated && lineStart != nil && datedLines(c.pages, lineStart) == 0 {
			continue
		}
		return c, true
	}
	return candidate{}, false
}

// datedLines counts trimmed lines that begin with a lineStart match.
func datedLines(pages []string, lineStart *regexp.Regexp) int {
	n := 0
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			loc := lineStart.FindStringIndex(strings.TrimSpace(line))
			if loc != nil && loc[0] == 0 && loc[1] > 0 {
				n++
			}
		}
	}
	return n
}

func isReadableText(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range strings.TrimSpace(page) {
			total++
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)) {
				readable++
			}
		}
	}
	return total > 0 && float64(readable)/float64(total) > minReadableShare
}

// libraryCandidates reads the document with ledongthuc/pdf twice over: the
// words of each row joined per page, then the whole document as plain text.
func libraryCandidates(filePath string) (cands []candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return nil, errors.New("PDF has no pages")
	}

	cands = append(cands, candidate{method: "rows", pages: pagesByRow(r)})
	if plain := plainText(r); plain != "" {
		cands = append(cands, candidate{method: "plain", pages: []string{plain}})
	}
	return cands, nil
}

func pagesByRow(r *pdf.Reader) []string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func plainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to poppler's pdftotext, one page per call
// so page boundaries survive.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	var pages []string
	for i := 1; i <= pdfinfoPages(filePath); i++ {
		n := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", n, "-l", n, filePath, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, errors.New("pdftotext produced no output")
	}
	return pages, nil
}

// pdfinfoPages returns the page count reported by pdfinfo, or 1.
func pdfinfoPages(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 1
	}
	for _, line := range strings.Split(string(out), "\n") {
		if v, ok := strings.CutPrefix(line, "Pages:"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}
