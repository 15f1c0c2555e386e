package cv

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for any extension other than
// .pdf/.docx/.txt, before any bytes are read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var (
	urlPattern   = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+)`)
	wsRunPattern = regexp.MustCompile(`\s+`)
)

// Links containing any of these are surfaced in the first page's trailing
// "Links:" annotation so the completion prompt sees profile/portfolio URLs
// early.
var linkKeywords = []string{
	"linkedin", "github", "portfolio", "vercel", "netlify",
	"streamlit", "huggingface", "render", "demo", "live", "project",
}

// ExtractText converts a raw uploaded file into plain text. Dispatch is
// purely by filename extension.
func ExtractText(data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	case ".txt":
		return string(bytes.ToValidUTF8(data, []byte("�"))), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// extractPDF runs two passes over the same buffer: one over every page's
// link annotations, one over the visible text. Bare URLs found in the text
// are merged with the annotation links, and per-page text is joined with
// page markers.
func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files; a broken upload must
	// fail that file only.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}

	links := make(map[string]struct{})

	// Pass 1: embedded hyperlink annotations.
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		annots := page.V.Key("Annots")
		for j := 0; j < annots.Len(); j++ {
			uri := annots.Index(j).Key("A").Key("URI")
			if uri.Kind() != pdf.String {
				continue
			}
			if u := strings.TrimSpace(uri.RawString()); strings.HasPrefix(u, "http") {
				links[u] = struct{}{}
			}
		}
	}

	// Pass 2: visible text plus bare URLs.
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		pageText := ""
		if !page.V.IsNull() {
			if t, err := page.GetPlainText(nil); err == nil {
				pageText = t
			}
		}

		for _, u := range urlPattern.FindAllString(pageText, -1) {
			links[strings.Trim(u, ").,;:!?")] = struct{}{}
		}

		pageText = cidPattern.ReplaceAllString(pageText, "")
		pageText = wsRunPattern.ReplaceAllString(pageText, " ")

		if i == 1 && len(links) > 0 {
			if top := filterTopLinks(links); len(top) > 0 {
				pageText = strings.TrimSpace(pageText) + "\n\nLinks: " + strings.Join(top, ", ")
			}
		}

		builder.WriteString(fmt.Sprintf("\n\n--- Page %d ---\n%s", i, strings.TrimSpace(pageText)))
	}

	return strings.TrimSpace(builder.String()), nil
}

// filterTopLinks keeps profile/portfolio-looking links, sorted
// lexicographically for a stable prompt.
func filterTopLinks(links map[string]struct{}) []string {
	var top []string
	for link := range links {
		lower := strings.ToLower(link)
		for _, kw := range linkKeywords {
			if strings.Contains(lower, kw) {
				top = append(top, link)
				break
			}
		}
	}
	sort.Strings(top)
	return top
}

// extractDOCX concatenates paragraph text in document order. No link
// extraction on this path.
func extractDOCX(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("docx parse: %w", err)
	}
	return text, nil
}
