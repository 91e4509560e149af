package export

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/blob"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/qrcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitHistory() []repository.Record[entity.Visit] {
	day := func(d int) time.Time {
		return time.Date(2026, 7, d, 11, 0, 0, 0, time.UTC)
	}

	return []repository.Record[entity.Visit]{
		{ID: "doc-0001", Data: entity.Visit{Date: day(1), Site: entity.SiteCentral, Type: entity.VisitClinical, Reason: "Control general"}},
		{ID: "doc-0002", Data: entity.Visit{Date: day(8), Site: entity.SiteCentral, Type: entity.VisitVaccine, Reason: "Antirrábica"}},
		{ID: "doc-0003", Data: entity.Visit{Date: day(20), Site: entity.SiteMobileUnit, Type: entity.VisitVaccine, Reason: "Quíntuple"}},
		{ID: "doc-0004", Data: entity.Visit{Date: day(25), Site: entity.SiteCentral, Type: entity.VisitNeutering, Reason: "Castración"}},
	}
}

func TestFilterVaccinationsKeepsOnlyVaccinesInOrder(t *testing.T) {
	vaccinations := FilterVaccinations(visitHistory())
	require.Len(t, vaccinations, 2)
	assert.Equal(t, "doc-0002", vaccinations[0].ID)
	assert.Equal(t, "doc-0003", vaccinations[1].ID)

	assert.Empty(t, FilterVaccinations(nil))
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	artifacts, closeStore, err := blob.NewArtifactStoreAt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	qr := qrcode.NewQRCodeService(256, "M")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(artifacts, qr, logger)
}

func TestVaccinationCertificateProducesStoredPDF(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 15, 4, 0, 0, time.UTC) }

	data := CertificateData{
		Resident: repository.Record[entity.Resident]{
			ID: "vecino-1",
			Data: entity.Resident{
				FirstName: "Ana", LastName: "Gomez", DNI: "30111222",
				Address: "Av. Centenario 77", Email: "ana@example.com",
			},
		},
		Pet: repository.Record[entity.Pet]{
			ID:   "mascota-1",
			Data: entity.Pet{Name: "Rocky", Species: entity.SpeciesDog, Sex: entity.SexMale, Breed: "Mestizo"},
		},
		Visits: visitHistory(),
	}

	key, err := svc.VaccinationCertificate(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "certificado-mascota-1-20260831-150400.pdf", key)

	stored, err := svc.artifacts.Open(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(stored), "%PDF"))
}

func TestVaccinationCertificateWithEmptyHistory(t *testing.T) {
	svc := newTestService(t)

	data := CertificateData{
		Resident: repository.Record[entity.Resident]{ID: "vecino-1", Data: entity.Resident{FirstName: "Ana", LastName: "Gomez"}},
		Pet:      repository.Record[entity.Pet]{ID: "mascota-1", Data: entity.Pet{Name: "Rocky", Species: entity.SpeciesDog, Sex: entity.SexMale}},
	}

	key, err := svc.VaccinationCertificate(context.Background(), data)
	require.NoError(t, err)
	assert.NotEmpty(t, key)
}

func TestVisitReportProducesBothArtifacts(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 15, 4, 0, 0, time.UTC) }

	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	artifacts, err := svc.VisitReport(context.Background(), from, to, visitHistory())
	require.NoError(t, err)
	assert.Equal(t, 4, artifacts.Count)
	assert.Equal(t, "reporte-atenciones-20260831-150400.pdf", artifacts.PDFKey)
	assert.Equal(t, "reporte-atenciones-20260831-150400.xlsx", artifacts.XLSXKey)

	pdf, err := svc.artifacts.Open(context.Background(), artifacts.PDFKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	xlsx, err := svc.artifacts.Open(context.Background(), artifacts.XLSXKey)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx)
}

func TestVisitReportWithEmptyRange(t *testing.T) {
	svc := newTestService(t)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	artifacts, err := svc.VisitReport(context.Background(), from, to, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, artifacts.Count)
	assert.NotEmpty(t, artifacts.PDFKey)
}
