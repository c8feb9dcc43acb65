// Package extract implements the document extractor: dispatch by file
// signature to a PDF parser or an OCR collaborator, producing a
// ParsedDocument of per-page text and anchored hyperlinks.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/resumariner/engine/engine/domain"
)

// Extractor converts raw file bytes into a ParsedDocument.
type Extractor interface {
	Parse(filename string, content []byte) (domain.ParsedDocument, error)
}

// OCR is the contract-level collaborator for image documents (JPEG/PNG).
// No reference implementation is provided; callers wire in whatever OCR
// service they operate.
type OCR interface {
	Recognize(content []byte) ([]domain.DocumentPage, error)
}

// DocumentExtractor dispatches by file signature to the PDF parser or an
// OCR collaborator, after running filename/content/size validation.
type DocumentExtractor struct {
	Limits SizeLimits
	OCR    OCR
	now    func() time.Time
}

// New builds a DocumentExtractor with the default size limits.
func New(ocr OCR) *DocumentExtractor {
	return &DocumentExtractor{Limits: DefaultSizeLimits(), OCR: ocr, now: time.Now}
}

// Parse validates filename, content, and size, detects the file signature,
// and dispatches to the matching parser.
func (e *DocumentExtractor) Parse(filename string, content []byte) (domain.ParsedDocument, error) {
	if err := ValidateFilename(filename); err != nil {
		return domain.ParsedDocument{}, err
	}

	sig := DetectSignature(content)
	if sig == SignatureUnknown {
		return domain.ParsedDocument{}, domain.NewParseError("extract.Parse", filename, fmt.Errorf("unrecognized file signature"))
	}
	if ext := filepath.Ext(filename); ext != "" && !sig.MatchesExtension(ext) {
		return domain.ParsedDocument{}, domain.NewValidationError("extract.Parse", filename, fmt.Errorf("declared extension %s does not match detected type %s", ext, sig))
	}
	if err := ValidateSize(sig, int64(len(content)), e.Limits); err != nil {
		return domain.ParsedDocument{}, err
	}
	if err := ValidateContent(content); err != nil {
		return domain.ParsedDocument{}, err
	}

	now := e.now
	if now == nil {
		now = time.Now
	}

	switch sig {
	case SignaturePDF:
		pages, err := parsePDF(content)
		if err != nil {
			return domain.ParsedDocument{}, domain.NewParseError("extract.Parse", filename, err)
		}
		return domain.ParsedDocument{
			FileType:         sig.String(),
			ProcessedAt:      now().UTC(),
			ProcessingMethod: "ledongthuc/pdf",
			Pages:            pages,
		}, nil
	case SignatureJPEG, SignaturePNG:
		if e.OCR == nil {
			return domain.ParsedDocument{}, domain.NewParseError("extract.Parse", filename, fmt.Errorf("no OCR collaborator configured for %s", sig))
		}
		pages, err := e.OCR.Recognize(content)
		if err != nil {
			return domain.ParsedDocument{}, domain.NewParseError("extract.Parse", filename, err)
		}
		return domain.ParsedDocument{
			FileType:         sig.String(),
			ProcessedAt:      now().UTC(),
			ProcessingMethod: "ocr",
			Pages:            pages,
		}, nil
	default:
		return domain.ParsedDocument{}, domain.NewParseError("extract.Parse", filename, fmt.Errorf("unsupported signature %s", sig))
	}
}

// parsePDF extracts per-page text plus anchored hyperlinks, replicating
// the word/link-rectangle intersection algorithm of the reference Python
// extractor: a word is part of a link's anchor text if its bounding box
// intersects the link annotation's rectangle.
func parsePDF(content []byte) ([]domain.DocumentPage, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]domain.DocumentPage, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil && err != io.EOF {
			text = ""
		}

		links := extractLinks(page)

		pages = append(pages, domain.DocumentPage{
			PageNumber: i,
			Text:       text,
			Links:      links,
		})
	}

	return pages, nil
}

// wordBox is a word's bounding box in PDF coordinates (origin lower-left).
type wordBox struct {
	text           string
	x0, y0, x1, y1 float64
}

// extractLinks reads the page's /Annots array for /Link subtype entries
// carrying a /URI action, converts each /Rect to the intersection test,
// and accumulates every word whose box overlaps it into the anchor text.
func extractLinks(page pdf.Page) []domain.DocumentLink {
	words := wordsFromContent(page.Content())

	annots := page.V.Key("Annots")
	if annots.IsNull() {
		return nil
	}

	var links []domain.DocumentLink
	seen := map[string]bool{}

	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.Key("Subtype").Name() != "Link" {
			continue
		}
		action := annot.Key("A")
		if action.IsNull() {
			continue
		}
		uri := action.Key("URI").RawString()
		if uri == "" {
			continue
		}
		rect := annot.Key("Rect")
		if rect.IsNull() || rect.Len() != 4 {
			continue
		}
		rx0 := rect.Index(0).Float64()
		ry0 := rect.Index(1).Float64()
		rx1 := rect.Index(2).Float64()
		ry1 := rect.Index(3).Float64()

		var anchor []string
		for _, w := range words {
			if w.x0 <= rx1 && w.x1 >= rx0 && w.y0 <= ry1 && w.y1 >= ry0 {
				anchor = append(anchor, w.text)
			}
		}
		text := joinWords(anchor)
		dedupeKey := text + "\x00" + uri
		if text != "" && !seen[dedupeKey] {
			seen[dedupeKey] = true
			links = append(links, domain.DocumentLink{Text: text, URL: uri})
		}
	}

	return links
}

// wordsFromContent flattens the page's positioned text runs into
// per-word bounding boxes, which is the minimal shape the intersection
// test needs. ledongthuc/pdf reports one run per contiguous text show
// operator, which for resume-style documents is effectively per word.
func wordsFromContent(content pdf.Content) []wordBox {
	words := make([]wordBox, 0, len(content.Text))
	for _, t := range content.Text {
		words = append(words, wordBox{
			text: t.S,
			x0:   t.X,
			y0:   t.Y,
			x1:   t.X + t.W,
			y1:   t.Y + t.FontSize,
		})
	}
	return words
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
