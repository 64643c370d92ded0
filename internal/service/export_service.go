package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/export"
)

const (
	exportTitle          = "Approved Camp Registrations"
	exportMissingValue   = "N/A"
	MsgNothingToExport   = "No approved registrations to export"
	MsgUnsupportedFormat = "Unsupported export format"
)

var exportHeaders = []string{"Name", "Email", "Phone", "Additional Info", "Registration Date"}

type approvedLister interface {
	ListByStatus(ctx context.Context, status models.RegistrationStatus) ([]models.Registration, error)
}

// ExportFile is a rendered export ready to be downloaded or written to disk.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Count       int
}

// ExportService renders approved registrations to CSV or PDF.
type ExportService struct {
	repo   approvedLister
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(repo approvedLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{repo: repo, logger: logger, now: time.Now}
}

// ExportApproved renders every approved registration, oldest first.
func (s *ExportService) ExportApproved(ctx context.Context, format export.Format) (*ExportFile, error) {
	renderer, err := export.RendererFor(export.Format(strings.ToLower(string(format))))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgUnsupportedFormat)
	}

	items, err := s.repo.ListByStatus(ctx, models.RegistrationStatusApproved)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approved registrations")
	}
	if len(items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, MsgNothingToExport)
	}

	data, err := renderer.Render(approvedDataset(items))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("approved registrations exported", zap.String("format", renderer.Extension()), zap.Int("count", len(items)))

	return &ExportFile{
		Filename:    fmt.Sprintf("approved-registrations-%s.%s", s.now().Format("2006-01-02"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
		Count:       len(items),
	}, nil
}

func approvedDataset(items []models.Registration) export.Dataset {
	rows := make([]map[string]string, 0, len(items))
	for _, r := range items {
		created := exportMissingValue
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Format("2006-01-02")
		}
		rows = append(rows, map[string]string{
			"Name":              orMissing(r.Name),
			"Email":             orMissing(r.Email),
			"Phone":             orMissing(r.PhoneNumber()),
			"Additional Info":   orMissing(deref(r.ExtraInfo)),
			"Registration Date": created,
		})
	}
	return export.Dataset{Title: exportTitle, Headers: exportHeaders, Rows: rows}
}

func orMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return exportMissingValue
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
