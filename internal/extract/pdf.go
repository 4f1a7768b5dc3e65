package extract

import (
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/medverify/credscan/internal/common"
)

// pdfTextLayer extracts the embedded text layer page-by-page. A page that
// fails to decode contributes nothing; only failing to open the document at
// all is reported as an error.
func pdfTextLayer(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, common.WrapError(err, "open pdf")
	}
	defer f.Close()

	total := r.NumPage()
	var b strings.Builder
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return b.String(), total, nil
}

// renderPDFPages rasterizes every page at the given DPI for the OCR fallback.
func renderPDFPages(path string, dpi float64, maxPages int) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, common.WrapError(err, "open pdf for rendering")
	}
	defer doc.Close()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return nil, common.WrapError(err, fmt.Sprintf("render page %d", i+1))
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}
