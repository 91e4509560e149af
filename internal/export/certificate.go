// Package export produces the two document artifacts of the system: the
// per-pet vaccination certificate and the date-ranged cross-resident visit
// report. Layout is sequential text; generation is synchronous and
// fire-and-forget from the caller's point of view.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// Service renders documents and stores them as local file artifacts.
type Service struct {
	artifacts service.ArtifactStore
	qr        service.QRCodeService
	logger    *slog.Logger
	now       func() time.Time
}

// NewService builds the exporter.
func NewService(artifacts service.ArtifactStore, qr service.QRCodeService, logger *slog.Logger) *Service {
	return &Service{artifacts: artifacts, qr: qr, logger: logger, now: time.Now}
}

// CertificateData is everything the certificate lays out. Visits may be the
// pet's full history; only vaccinations end up on the document.
type CertificateData struct {
	Resident repository.Record[entity.Resident]
	Pet      repository.Record[entity.Pet]
	Visits   []repository.Record[entity.Visit]
}

// FilterVaccinations projects a visit history down to its vaccination
// entries, preserving order.
func FilterVaccinations(visits []repository.Record[entity.Visit]) []repository.Record[entity.Visit] {
	matched := make([]repository.Record[entity.Visit], 0, len(visits))
	for _, rec := range visits {
		if rec.Data.IsVaccination() {
			matched = append(matched, rec)
		}
	}

	return matched
}

// VaccinationCertificate renders and stores the certificate, returning the
// artifact key.
func (s *Service) VaccinationCertificate(ctx context.Context, data CertificateData) (string, error) {
	vaccinations := FilterVaccinations(data.Visits)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Certificado de Vacunación"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Dirección de Zoonosis - Municipalidad de San Isidro"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Datos del animal"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pet := data.Pet.Data
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Nombre: %s    Especie: %s    Raza: %s", pet.Name, pet.Species, pet.Breed)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Sexo: %s    Fecha de nacimiento (aprox.): %s", pet.Sex, pet.BirthDate)), "", 1, "L", false, 0, "")

	resident := data.Resident.Data
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Propietario"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s    DNI: %s", resident.FullName(), resident.DNI)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Domicilio: %s", resident.Address)), "", 1, "L", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Vacunas aplicadas"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if len(vaccinations) == 0 {
		pdf.CellFormat(0, 6, tr("Sin vacunas registradas."), "", 1, "L", false, 0, "")
	}
	for _, rec := range vaccinations {
		v := rec.Data
		line := fmt.Sprintf("%s - %s - %s", v.Date.Format("02/01/2006"), v.Reason, v.Site)
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}

	// Verification QR in the bottom-right corner.
	png, err := s.qr.GenerateCertificateQR(data.Resident.ID, data.Pet.ID)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate certificate QR")
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("certificate-qr", 160, 240, 30, 30, false, opts, 0, "")

	pdf.SetY(275)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Emitido el %s. Documento guardado localmente.", s.now().Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", errors.Wrap(err, "failed to render certificate")
	}

	key := fmt.Sprintf("certificado-%s-%s.pdf", data.Pet.ID, s.now().Format("20060102-150405"))
	if err := s.artifacts.Save(ctx, key, "application/pdf", buf.Bytes()); err != nil {
		return "", err
	}

	return key, nil
}
