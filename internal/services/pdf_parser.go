package services

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

type PDFParserService interface {
	ExtractText(filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
}

type pdfParserService struct {
	logger *zap.Logger
}

func NewPDFParserService(logger *zap.Logger) PDFParserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pdfParserService{logger: logger}
}

func (p *pdfParserService) ExtractText(filePath string) (*PDFContent, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", ErrInvalidResume, err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("skipping unreadable resume page", zap.Int("page", pageIndex), zap.Error(err))
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := CleanText(textBuilder.String())
	if text == "" {
		return nil, fmt.Errorf("%w: no text content found in PDF", ErrInvalidResume)
	}

	return &PDFContent{Text: text, PageCount: totalPage}, nil
}

// ResumeReader turns an uploaded resume into plain text. The upload never
// outlives the call.
type ResumeReader struct {
	storage StorageService
	parser  PDFParserService
	logger  *zap.Logger
}

func NewResumeReader(storage StorageService, parser PDFParserService, logger *zap.Logger) *ResumeReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResumeReader{storage: storage, parser: parser, logger: logger}
}

func (r *ResumeReader) Read(file *multipart.FileHeader) (string, error) {
	path, err := r.storage.SaveFile(file)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := r.storage.DeleteFile(path); err != nil {
			r.logger.Warn("failed to remove uploaded resume", zap.Error(err))
		}
	}()

	content, err := r.parser.ExtractText(path)
	if err != nil {
		return "", err
	}

	r.logger.Debug("resume parsed", zap.Int("pages", content.PageCount), zap.Int("chars", len(content.Text)))
	return content.Text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
