package extract

import (
	"archive/zip"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medverify/credscan/constants"
	"github.com/medverify/credscan/internal/analysis"
	"github.com/medverify/credscan/internal/common"
)

// fakeEngine records calls and returns a canned result, standing in for the
// tesseract engine.
type fakeEngine struct {
	text  string
	err   error
	calls int
}

func (f *fakeEngine) Recognize(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestExtractor(engine *fakeEngine) *Extractor {
	return NewExtractor(Config{DPI: 72}, engine, discardLogger())
}

func writeTestPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

func TestExtractImage(t *testing.T) {
	engine := &fakeEngine{text: "License Text\r\nLine Two"}
	e := newTestExtractor(engine)

	res, err := e.Extract(context.Background(), writeTestPNG(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Text != "License Text\nLine Two" {
		t.Errorf("Text = %q, want normalized OCR output", res.Text)
	}
	if res.Method != "image-ocr" || res.SourceType != constants.IMAGE || res.Pages != 1 {
		t.Errorf("unexpected metadata: method=%q source=%q pages=%d", res.Method, res.SourceType, res.Pages)
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", engine.calls)
	}
}

func TestExtractPDFTextLayer(t *testing.T) {
	engine := &fakeEngine{text: "SHOULD NOT RUN"}
	e := newTestExtractor(engine)
	rendered := false
	e.pdfTextLayer = func(string) (string, int, error) { return "Direct text layer", 2, nil }
	e.renderPages = func(string, float64, int) ([]image.Image, error) {
		rendered = true
		return nil, nil
	}

	res, err := e.Extract(context.Background(), "cert.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Text != "Direct text layer" || res.Method != "pdf-text" || res.Pages != 2 {
		t.Errorf("got (%q, %q, %d), want direct text layer result", res.Text, res.Method, res.Pages)
	}
	if rendered || engine.calls != 0 {
		t.Errorf("OCR fallback ran on a PDF with a text layer")
	}
}

func TestExtractPDFOCRFallback(t *testing.T) {
	engine := &fakeEngine{text: "PAGE"}
	e := newTestExtractor(engine)
	e.pdfTextLayer = func(string) (string, int, error) { return "", 0, nil }
	e.renderPages = func(_ string, dpi float64, _ int) ([]image.Image, error) {
		if dpi != 72 {
			t.Errorf("render dpi = %v, want 72", dpi)
		}
		return []image.Image{
			image.NewGray(image.Rect(0, 0, 4, 4)),
			image.NewGray(image.Rect(0, 0, 4, 4)),
		}, nil
	}

	res, err := e.Extract(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Text != "PAGE\nPAGE" {
		t.Errorf("Text = %q, want concatenated page OCR", res.Text)
	}
	if res.Method != "pdf-ocr" || res.Pages != 2 || engine.calls != 2 {
		t.Errorf("got (method=%q, pages=%d, calls=%d), want OCR over both pages", res.Method, res.Pages, engine.calls)
	}
}

func TestExtractPDFTextLayerErrorRecovers(t *testing.T) {
	engine := &fakeEngine{text: "RECOVERED"}
	e := newTestExtractor(engine)
	e.pdfTextLayer = func(string) (string, int, error) { return "", 0, errors.New("bad xref table") }
	e.renderPages = func(string, float64, int) ([]image.Image, error) {
		return []image.Image{image.NewGray(image.Rect(0, 0, 4, 4))}, nil
	}

	res, err := e.Extract(context.Background(), "corrupt.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v, want OCR recovery", err)
	}
	if res.Text != "RECOVERED" || res.Method != "pdf-ocr" {
		t.Errorf("got (%q, %q), want recovered OCR text", res.Text, res.Method)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "bad xref table") {
		t.Errorf("Warnings = %v, want the text-layer failure recorded", res.Warnings)
	}
}

func TestExtractPDFOCRErrorFatal(t *testing.T) {
	engine := &fakeEngine{err: errors.New("tesseract not available")}
	e := newTestExtractor(engine)
	e.pdfTextLayer = func(string) (string, int, error) { return "", 0, nil }
	e.renderPages = func(string, float64, int) ([]image.Image, error) {
		return []image.Image{image.NewGray(image.Rect(0, 0, 4, 4))}, nil
	}

	_, err := e.Extract(context.Background(), "scan.pdf")
	if err == nil || !strings.Contains(err.Error(), "ocr page 1") {
		t.Fatalf("Extract() error = %v, want fatal OCR failure", err)
	}
}

func TestExtractPDFRasterizeError(t *testing.T) {
	e := newTestExtractor(&fakeEngine{})
	e.pdfTextLayer = func(string) (string, int, error) { return "", 0, nil }
	e.renderPages = func(string, float64, int) ([]image.Image, error) {
		return nil, errors.New("mupdf open failed")
	}

	_, err := e.Extract(context.Background(), "scan.pdf")
	if err == nil || !strings.Contains(err.Error(), "rasterize pdf") {
		t.Fatalf("Extract() error = %v, want rasterize failure", err)
	}
}

func writeTestDOCX(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cert.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	return path
}

func TestExtractDOCX(t *testing.T) {
	const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Medical License</w:t></w:r></w:p>
    <w:p><w:r><w:t>Name: John Smith</w:t></w:r></w:p>
  </w:body>
</w:document>`

	e := newTestExtractor(&fakeEngine{})
	res, err := e.Extract(context.Background(), writeTestDOCX(t, documentXML))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Text != "Medical License\nName: John Smith\n" {
		t.Errorf("Text = %q, want paragraph-per-line text", res.Text)
	}
	if res.Method != "docx-text" || res.SourceType != constants.DOCX {
		t.Errorf("unexpected metadata: method=%q source=%q", res.Method, res.SourceType)
	}
}

func TestExtractDOCXMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	f.Close()

	e := newTestExtractor(&fakeEngine{})
	if _, err := e.Extract(context.Background(), path); err == nil {
		t.Fatal("Extract() = nil error, want missing document.xml failure")
	}
}

func TestExtractFailureCarriesErrorCode(t *testing.T) {
	engineErr := errors.New("tesseract not available")
	engine := &fakeEngine{err: engineErr}
	e := newTestExtractor(engine)
	e.pdfTextLayer = func(string) (string, int, error) { return "", 0, nil }
	e.renderPages = func(string, float64, int) ([]image.Image, error) {
		return []image.Image{image.NewGray(image.Rect(0, 0, 4, 4))}, nil
	}

	_, err := e.Extract(context.Background(), "scan.pdf")
	var ae *common.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("Extract() error = %v, want an *common.AppError in the chain", err)
	}
	if ae.Code != CodeOCRPage {
		t.Errorf("Code = %q, want %q", ae.Code, CodeOCRPage)
	}
	if !errors.Is(err, engineErr) {
		t.Errorf("error chain does not unwrap to the engine failure: %v", err)
	}
}

// A scanned PDF with no text layer must still yield the credential fields
// through the OCR fallback.
func TestScannedPDFAnalysisPipeline(t *testing.T) {
	engine := &fakeEngine{text: "CALIFORNIA STATE LICENSING AUTHORITY\n" +
		"Medical License\n" +
		"Name: John Smith MD\n" +
		"License Expiration Date: 01/15/2026"}
	e := newTestExtractor(engine)
	e.pdfTextLayer = func(string) (string, int, error) { return "", 0, nil }
	e.renderPages = func(string, float64, int) ([]image.Image, error) {
		return []image.Image{image.NewGray(image.Rect(0, 0, 4, 4))}, nil
	}

	res, err := e.Extract(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != "pdf-ocr" {
		t.Fatalf("Method = %q, want %q", res.Method, "pdf-ocr")
	}

	ar := analysis.NewAnalyzer(nil, nil, discardLogger()).Analyze(res.Text)
	if ar.State.Value != "CA" || ar.State.Confidence != 1.0 {
		t.Errorf("State = (%q, %v), want (%q, 1.0)", ar.State.Value, ar.State.Confidence, "CA")
	}
	if ar.Expiration.Value != "01-15-2026" || ar.Expiration.Confidence != 0.95 {
		t.Errorf("Expiration = (%q, %v), want (%q, 0.95)", ar.Expiration.Value, ar.Expiration.Confidence, "01-15-2026")
	}
	if ar.Provider.Value != "John Smith" || ar.Provider.Confidence != 0.95 {
		t.Errorf("Provider = (%q, %v), want (%q, 0.95)", ar.Provider.Value, ar.Provider.Confidence, "John Smith")
	}
	if ar.DocType.Value != "State Medical License" || ar.DocType.Confidence != 0.95 {
		t.Errorf("DocType = (%q, %v), want (%q, 0.95)", ar.DocType.Value, ar.DocType.Confidence, "State Medical License")
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := newTestExtractor(&fakeEngine{})
	if _, err := e.Extract(context.Background(), "notes.txt"); err == nil {
		t.Fatal("Extract() = nil error, want unsupported extension failure")
	}
}
