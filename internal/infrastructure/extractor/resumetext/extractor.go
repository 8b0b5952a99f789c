package resumetext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
)

// Extractor pulls plain text out of a stored resume file. PDF and plain
// text are supported; anything else is an invalid upload.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, resume *domain.Resume) (string, error) {
	reader, err := e.storage.Open(ctx, resume.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open resume file: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read resume file: %w", err)
	}

	if isPDF(resume, raw) {
		return extractPDF(raw)
	}
	return extractPlain(resume.Filename, raw)
}

// isPDF trusts the magic bytes over the declared mime type; browsers lie
// about content types often enough.
func isPDF(resume *domain.Resume, raw []byte) bool {
	if bytes.HasPrefix(raw, []byte("%PDF-")) {
		return true
	}
	if resume.MimeType == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(resume.Filename), ".pdf")
}

func extractPDF(raw []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	textReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(textReader)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(string(text)), nil
}

func extractPlain(filename string, raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract resume text",
			fmt.Errorf("unsupported binary format: %s", filename))
	}
	return strings.TrimSpace(string(raw)), nil
}
