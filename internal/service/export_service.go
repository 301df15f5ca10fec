package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-admin-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered export ready to stream to the caller.
type ExportFile struct {
	Filename    string
	ContentType string
	Format      export.Format
	Rows        int
	Body        []byte
}

// ExportService renders projected datasets into downloadable files.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Render encodes data in format. entity names the file and the PDF title.
func (s *ExportService) Render(entity string, format export.Format, data export.Dataset) (*ExportFile, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case export.FormatCSV:
		body, err = s.csv.Render(data)
	case export.FormatPDF:
		body, err = s.pdf.Render(data, exportTitle(entity))
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("export rendered", zap.String("entity", entity), zap.String("format", string(format)), zap.Int("rows", len(data.Rows)))
	return &ExportFile{
		Filename:    s.buildFilename(entity, format),
		ContentType: format.ContentType(),
		Format:      format,
		Rows:        len(data.Rows),
		Body:        body,
	}, nil
}

func (s *ExportService) buildFilename(entity string, format export.Format) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(strings.ToLower(entity)), timestamp, format.Extension())
}

func exportTitle(entity string) string {
	if entity == "" {
		return "Export"
	}
	return strings.ToUpper(entity[:1]) + entity[1:]
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
