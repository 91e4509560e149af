package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Manuufarina/gestion-zoonosis/internal/app"
	"github.com/Manuufarina/gestion-zoonosis/internal/audit"
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http/validator"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"
	"github.com/Manuufarina/gestion-zoonosis/internal/export"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/blob"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/persistence/memory"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/qrcode"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSession accepts any credentials and notifies subscribers in place.
type stubSession struct {
	subs []func(*service.Identity)
}

func (s *stubSession) Subscribe(fn func(*service.Identity)) func() {
	s.subs = append(s.subs, fn)
	fn(nil)

	return func() {}
}

func (s *stubSession) SignIn(ctx context.Context, email, password string) error {
	for _, fn := range s.subs {
		fn(&service.Identity{UID: "uid-1", Email: email})
	}

	return nil
}

func (s *stubSession) SignOut() {
	for _, fn := range s.subs {
		fn(nil)
	}
}

func newTestShell(t *testing.T) *app.Shell {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	artifacts, closeStore, err := blob.NewArtifactStoreAt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	auditRepo := memory.NewAuditRepository()
	shell := app.NewShell(
		context.Background(),
		logger,
		&stubSession{},
		export.NewService(artifacts, qrcode.NewQRCodeService(128, "M"), logger),
		audit.NewRecorder(auditRepo, logger),
		memory.NewResidentRepository(),
		memory.NewPetRepository(),
		memory.NewVisitRepository(),
		memory.NewCollection[entity.Supply](),
		memory.NewCollection[entity.User](),
		auditRepo,
	)
	shell.Start()
	t.Cleanup(shell.Stop)

	return shell
}

func postAction(t *testing.T, h *ActionHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(http.MethodPost, "/actions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Handle(c))

	return rec
}

func TestActionHandlerUnknownType(t *testing.T) {
	h := NewActionHandler(ActionHandlerParams{
		Shell:  newTestShell(t),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	rec := postAction(t, h, `{"type":"frobnicate"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_ACTION")
	assert.Contains(t, rec.Body.String(), "frobnicate")
}

func TestActionHandlerMissingType(t *testing.T) {
	h := NewActionHandler(ActionHandlerParams{
		Shell:  newTestShell(t),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	rec := postAction(t, h, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestActionHandlerRequiresSession(t *testing.T) {
	h := NewActionHandler(ActionHandlerParams{
		Shell:  newTestShell(t),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	rec := postAction(t, h, `{"type":"navigate","section":"residents"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_SIGNED_IN")
}
