package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"salesdashboard/internal/domain"
)

// ExportService turns the displayed page of a widget into a spreadsheet. It
// only reads a snapshot and never touches the widget's query state.
type ExportService struct {
	writer   domain.SpreadsheetWriter
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewExportService returns an ExportService. mailer and renderer may be nil
// when email export is not configured.
func NewExportService(writer domain.SpreadsheetWriter, mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{writer: writer, mailer: mailer, renderer: renderer, logger: logger}
}

// Write writes the snapshot's items, in displayed order, as a workbook.
func (s *ExportService) Write(w io.Writer, cfg domain.WidgetConfig, snap WidgetSnapshot) error {
	columns := ExportColumns(cfg, snap.Items)
	if err := s.writer.Write(w, cfg.Name, columns, snap.Items); err != nil {
		return fmt.Errorf("write %s export: %w", cfg.Name, err)
	}
	return nil
}

// Filename names the export of a snapshot, e.g.
// orders_p2_01-01-2024_31-01-2024.xlsx.
func (s *ExportService) Filename(snap WidgetSnapshot) string {
	dr := snap.Query.DateRange
	name := fmt.Sprintf("%s_p%d", snap.Widget, snap.Query.Page)
	if !dr.IsZero() {
		name += "_" + dr.Start.Format("02-01-2006") + "_" + dr.End.Format("02-01-2006")
	}
	return name + ".xlsx"
}

// Email sends the snapshot's workbook to the given addresses.
func (s *ExportService) Email(ctx context.Context, to []string, session *domain.Session, cfg domain.WidgetConfig, snap WidgetSnapshot) error {
	if s.mailer == nil || s.renderer == nil {
		return fmt.Errorf("email export is not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	var buf bytes.Buffer
	if err := s.Write(&buf, cfg, snap); err != nil {
		return err
	}
	filename := s.Filename(snap)
	data := &domain.ExportEmailData{
		Widget:    cfg.Name,
		StoreID:   snap.Query.StoreID,
		DateRange: snap.Query.DateRange.String(),
		Page:      snap.Query.Page,
		Rows:      len(snap.Items),
		Filename:  filename,
	}
	if session != nil {
		data.UserName = session.UserName
	}
	subject, htmlBody, textBody, err := s.renderer.Render("export_ready", data)
	if err != nil {
		return fmt.Errorf("failed to render export_ready template: %w", err)
	}
	msg := domain.Message{
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
		Attachments: []domain.Attachment{{
			Filename:    filename,
			ContentType: domain.XLSXContentType,
			Data:        buf.Bytes(),
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send export email: %w", err)
	}
	s.logger.InfoContext(ctx, "export emailed", "widget", cfg.Name, "rows", len(snap.Items), "to", strings.Join(to, ","))
	return nil
}

// ExportColumns returns the widget's configured columns, or one column per
// item key in sorted order when none are configured.
func ExportColumns(cfg domain.WidgetConfig, items []domain.Record) []domain.Column {
	if len(cfg.Columns) > 0 {
		return cfg.Columns
	}
	seen := make(map[string]struct{})
	var keys []string
	for _, item := range items {
		for k := range item {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	columns := make([]domain.Column, len(keys))
	for i, k := range keys {
		columns[i] = domain.Column{Key: k, Header: k}
	}
	return columns
}
