package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Atenciones"

// ReportArtifacts names the files one report run produced.
type ReportArtifacts struct {
	PDFKey  string
	XLSXKey string
	Count   int
}

// VisitReport renders the date-ranged cross-resident report as PDF and
// XLSX, one line per matched visit, and stores both artifacts.
func (s *Service) VisitReport(ctx context.Context, from, to time.Time, visits []repository.Record[entity.Visit]) (ReportArtifacts, error) {
	stamp := s.now().Format("20060102-150405")
	rangeLabel := fmt.Sprintf("%s al %s", from.Format("02/01/2006"), to.Format("02/01/2006"))

	pdfKey := fmt.Sprintf("reporte-atenciones-%s.pdf", stamp)
	pdfBytes, err := s.renderReportPDF(rangeLabel, visits)
	if err != nil {
		return ReportArtifacts{}, err
	}
	if err := s.artifacts.Save(ctx, pdfKey, "application/pdf", pdfBytes); err != nil {
		return ReportArtifacts{}, err
	}

	xlsxKey := fmt.Sprintf("reporte-atenciones-%s.xlsx", stamp)
	xlsxBytes, err := renderReportXLSX(visits)
	if err != nil {
		return ReportArtifacts{}, err
	}
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if err := s.artifacts.Save(ctx, xlsxKey, contentType, xlsxBytes); err != nil {
		return ReportArtifacts{}, err
	}

	return ReportArtifacts{PDFKey: pdfKey, XLSXKey: xlsxKey, Count: len(visits)}, nil
}

func (s *Service) renderReportPDF(rangeLabel string, visits []repository.Record[entity.Visit]) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Reporte de Atenciones"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Período: %s", rangeLabel)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	if len(visits) == 0 {
		pdf.CellFormat(0, 6, tr("No se registraron atenciones en el período."), "", 1, "L", false, 0, "")
	}
	for _, rec := range visits {
		v := rec.Data
		line := fmt.Sprintf("%s - %s - %s - %s", v.Date.Format("02/01/2006"), v.Type, v.Site, v.Reason)
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Total: %d atenciones. Generado el %s.", len(visits), s.now().Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render report PDF")
	}

	return buf.Bytes(), nil
}

func renderReportXLSX(visits []repository.Record[entity.Visit]) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, errors.Wrap(err, "failed to name report sheet")
	}

	headers := []string{"Fecha", "Tipo", "Lugar", "Motivo", "Observaciones"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if err := f.SetCellValue(reportSheet, cell, header); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	for row, rec := range visits {
		v := rec.Data
		values := []any{v.Date.Format("02/01/2006"), string(v.Type), string(v.Site), v.Reason, v.Observations}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return nil, errors.WithStack(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render report XLSX")
	}

	return buf.Bytes(), nil
}
