package extract

import "time"

// Result summarizes one text-extraction run.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.DOCX
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "docx-text"
	Duration   time.Duration
	Warnings   []string
}
