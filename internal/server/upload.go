package server

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/medverify/credscan/constants"
	"github.com/medverify/credscan/internal/common"
)

// UploadResponse is the structured record returned for a processed document.
type UploadResponse struct {
	Provider       string           `json:"provider"`
	DocumentName   string           `json:"documentName"`
	DocumentType   string           `json:"documentType"`
	Category       string           `json:"category"`
	ExpirationDate string           `json:"expirationDate"`
	StateCode      string           `json:"stateCode"`
	Confidence     ConfidenceScores `json:"confidence_scores"`
}

// ConfidenceScores carries the per-field heuristic weights.
type ConfidenceScores struct {
	State    float32 `json:"state"`
	Provider float32 `json:"provider"`
	Type     float32 `json:"type"`
	Date     float32 `json:"date"`
}

// handleUpload validates the multipart upload, persists the file under a
// random unique name, runs extraction and analysis, and removes the file
// unconditionally after producing a response.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		s.logger.Error("no file uploaded", "error", err)
		return common.ErrNoFile
	}
	if fh.Filename == "" {
		s.logger.Error("no file selected")
		return common.ErrEmptyFilename
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !constants.IsAllowedExt(ext) {
		s.logger.Error("unsupported file type", "extension", ext)
		return common.ErrUnsupportedType
	}

	path := filepath.Join(s.cfg.Upload.Dir, uuid.New().String()+ext)
	if err := c.SaveFile(fh, path); err != nil {
		s.logger.Error("save upload", "path", path, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store upload")
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("remove upload", "path", path, "error", rmErr)
		}
	}()
	s.logger.Info("file saved", "path", path, "size", fh.Size)

	res, err := s.extractor.Extract(c.Context(), path)
	if err != nil {
		var ae *common.AppError
		if errors.As(err, &ae) {
			s.logger.Error("text extraction failed", "path", path, "code", ae.Code, "error", err)
		} else {
			s.logger.Error("text extraction failed", "path", path, "error", err)
		}
		return common.ErrNoTextExtracted
	}
	if strings.TrimSpace(res.Text) == "" {
		s.logger.Error("extracted text is empty", "path", path, "method", res.Method)
		return common.ErrNoTextExtracted
	}

	ar := s.analyzer.Analyze(res.Text)
	resp := UploadResponse{
		Provider:       ar.Provider.Value,
		DocumentName:   ar.DocumentName,
		DocumentType:   ar.DocType.Value,
		Category:       ar.DocType.Value,
		ExpirationDate: ar.Expiration.Value,
		StateCode:      ar.State.Value,
		Confidence: ConfidenceScores{
			State:    ar.State.Confidence,
			Provider: ar.Provider.Confidence,
			Type:     ar.DocType.Confidence,
			Date:     ar.Expiration.Confidence,
		},
	}

	s.logger.Info("document analyzed",
		"state", resp.StateCode,
		"type", resp.DocumentType,
		"method", res.Method,
		"pages", res.Pages,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return c.JSON(resp)
}
