package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"

	"examprep-backend/internal/logger"
)

// MaxFileSize is the per-file upload limit.
const MaxFileSize int64 = 20 << 20

// Upload is one named document to extract.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReaderAt, io.Closer, error)
}

// UploadsFromMultipart adapts multipart headers to uploads, keeping order.
func UploadsFromMultipart(headers []*multipart.FileHeader) []Upload {
	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		uploads = append(uploads, Upload{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReaderAt, io.Closer, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, nil, err
				}
				return f, f, nil
			},
		})
	}
	return uploads
}

type FileExtractService struct {
	maxFileSize int64
	log         *logger.Logger
}

func NewFileExtractService(log *logger.Logger) *FileExtractService {
	return &FileExtractService{maxFileSize: MaxFileSize, log: log}
}

// CheckSizes rejects any upload above the per-file limit.
func (s *FileExtractService) CheckSizes(uploads []Upload) error {
	for _, u := range uploads {
		if u.Size > s.maxFileSize {
			return &TooLargeError{File: u.Name, Limit: s.maxFileSize}
		}
	}
	return nil
}

// ExtractPDFs concatenates the text of every page of every upload in order.
// Pages without extractable text contribute nothing.
func (s *FileExtractService) ExtractPDFs(ctx context.Context, uploads []Upload) (string, error) {
	if err := s.CheckSizes(uploads); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, u := range uploads {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := s.extractOne(u)
		if err != nil {
			return "", &ExtractionError{File: u.Name, Err: err}
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func (s *FileExtractService) extractOne(u Upload) (text string, err error) {
	ra, closer, err := u.Open()
	if err != nil {
		return "", err
	}
	defer closer.Close()

	return s.extractPDF(ra, u.Size, u.Name)
}

func (s *FileExtractService) extractPDF(ra io.ReaderAt, size int64, name string) (text string, err error) {
	// the parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	skipped := 0
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			skipped++
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil || content == "" {
			skipped++
			continue
		}
		b.WriteString(content)
	}

	if skipped > 0 && s.log != nil {
		s.log.Debug("pdf pages without text", "file", name, "skipped", skipped, "pages", totalPage)
	}
	return b.String(), nil
}

// AppendVideoNote records the lecture URL alongside the extracted text. The
// URL is never fetched.
func AppendVideoNote(text, videoURL string) string {
	if strings.TrimSpace(videoURL) == "" {
		return text
	}
	return text + fmt.Sprintf("\nNote: User also provided a YouTube lecture at %s.", videoURL)
}
