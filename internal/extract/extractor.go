// Package extract turns an uploaded document file into a raw text string.
//
// Two strategies exist: direct text-layer extraction (cheap, exact, works
// only for digitally-generated PDFs and DOCX) and OCR on a rasterized page
// or standalone image. For PDFs the direct path is tried first; OCR runs
// only when it yields nothing, and a direct-path failure degrades to empty
// text rather than aborting, so the fallback can still proceed.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/medverify/credscan/constants"
	"github.com/medverify/credscan/internal/common"
	"github.com/medverify/credscan/internal/imaging"
	"github.com/medverify/credscan/internal/ocr"
)

// Error codes carried on extraction failures, for log correlation.
const (
	CodeImageRead   = "IMAGE_READ"
	CodeImageDecode = "IMAGE_DECODE"
	CodePDFRender   = "PDF_RENDER"
	CodeOCRPage     = "OCR_PAGE"
	CodeDOCXParse   = "DOCX_PARSE"
)

type Config struct {
	DPI      int // rasterization DPI for scanned PDFs, default 300
	MaxPages int // 0 = no limit
}

type Extractor struct {
	cfg    Config
	engine ocr.Engine
	logger *slog.Logger

	// overridable in tests, like an exec runner stub
	pdfTextLayer func(path string) (string, int, error)
	renderPages  func(path string, dpi float64, maxPages int) ([]image.Image, error)
	docxText     func(path string) (string, error)
}

func NewExtractor(cfg Config, engine ocr.Engine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{
		cfg:          cfg,
		engine:       engine,
		logger:       logger,
		pdfTextLayer: pdfTextLayer,
		renderPages:  renderPDFPages,
		docxText:     docxText,
	}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var res Result
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
	case constants.DOCX:
		res, err = e.extractDOCX(path)
	default:
		e.logger.Error("unsupported extraction extension", "extension", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	e.logger.Info("text extraction done",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{SourceType: constants.IMAGE}, common.NewAppError(CodeImageRead, "read image", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{SourceType: constants.IMAGE}, common.NewAppError(CodeImageDecode, "decode image", err)
	}

	txt, err := e.recognize(ctx, img)
	if err != nil {
		return Result{SourceType: constants.IMAGE}, err
	}
	return Result{
		Text:       ocr.Normalize(txt),
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
	}, nil
}

// extractPDF tries the text layer first and falls back to rasterized OCR
// when the direct result is blank. Both partial results are concatenated;
// the caller decides whether an overall empty text is an error.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	var warns []string

	direct, pages, err := e.pdfTextLayer(path)
	if err != nil {
		// recoverable: a corrupt text layer still leaves the OCR path
		e.logger.Warn("pdf text-layer extraction failed", "path", path, "error", err)
		warns = append(warns, err.Error())
		direct = ""
	}

	method := "pdf-text"
	var ocrText string
	if strings.TrimSpace(direct) == "" {
		imgs, err := e.renderPages(path, float64(e.cfg.DPI), e.cfg.MaxPages)
		if err != nil {
			return Result{SourceType: constants.PDF, Warnings: warns}, common.NewAppError(CodePDFRender, "rasterize pdf", err)
		}
		var b strings.Builder
		for i, img := range imgs {
			txt, err := e.recognize(ctx, img)
			if err != nil {
				// OCR engine failure is fatal, unlike a bad text layer
				return Result{SourceType: constants.PDF, Warnings: warns},
					common.NewAppError(CodeOCRPage, fmt.Sprintf("ocr page %d", i+1), err)
			}
			b.WriteString(txt)
			b.WriteString("\n")
		}
		ocrText = ocr.Normalize(b.String())
		pages = len(imgs)
		method = "pdf-ocr"
	}

	return Result{
		Text:       direct + ocrText,
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     method,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) extractDOCX(path string) (Result, error) {
	txt, err := e.docxText(path)
	if err != nil {
		return Result{SourceType: constants.DOCX}, common.NewAppError(CodeDOCXParse, "extract docx", err)
	}
	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.DOCX,
		Method:     "docx-text",
	}, nil
}

// recognize preprocesses a decoded image and runs it through the OCR engine.
func (e *Extractor) recognize(ctx context.Context, img image.Image) (string, error) {
	prepared := imaging.PrepareForOCR(img)
	data, err := imaging.EncodePNG(prepared)
	if err != nil {
		return "", common.WrapError(err, "encode image")
	}
	return e.engine.Recognize(ctx, data)
}
