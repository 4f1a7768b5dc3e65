package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements Engine on the gosseract client. A fresh client
// is created per recognition call: gosseract clients are not safe for
// concurrent reuse and setup cost is dwarfed by recognition itself.
type TesseractEngine struct {
	language      string
	dpi           int
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine.
// language defaults to "eng" when empty.
func NewTesseractEngine(language string, dpi int) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{
		language:      language,
		dpi:           dpi,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize runs OCR on a single encoded image and returns the raw engine
// output. No post-filtering happens here; downstream patterns must tolerate
// OCR noise.
func (e *TesseractEngine) Recognize(ctx context.Context, png []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
