package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/app"
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http/response"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	domainerrors "github.com/Manuufarina/gestion-zoonosis/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ActionHandlerParams holds dependencies for ActionHandler, injected by Fx.
type ActionHandlerParams struct {
	fx.In

	Shell  *app.Shell
	Logger *slog.Logger
}

// ActionHandler translates posted user actions into shell commands.
type ActionHandler struct {
	shell  *app.Shell
	logger *slog.Logger
}

// NewActionHandler is the constructor for ActionHandler.
func NewActionHandler(params ActionHandlerParams) *ActionHandler {
	return &ActionHandler{
		shell:  params.Shell,
		logger: params.Logger,
	}
}

// ActionRequest is one user action. Type selects the command; the remaining
// fields carry its payload. Entity references travel as document IDs and are
// resolved against the live snapshot, never refetched.
type ActionRequest struct {
	Type    string `json:"type" validate:"required"`
	ID      string `json:"id,omitempty"`
	Section string `json:"section,omitempty"`
	Text    string `json:"text,omitempty"`

	Resident *entity.Resident `json:"vecino,omitempty"`
	Pet      *entity.Pet      `json:"mascota,omitempty"`
	Visit    *entity.Visit    `json:"atencion,omitempty"`
	Supply   *entity.Supply   `json:"insumo,omitempty"`

	Role string `json:"rol,omitempty"`
	From string `json:"desde,omitempty"`
	To   string `json:"hasta,omitempty"`
}

// Handle dispatches POST /actions and answers with the resulting view.
func (h *ActionHandler) Handle(c echo.Context) error {
	var req ActionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Acción mal formada")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.dispatch(c, req); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.shell.ViewModel())
}

func (h *ActionHandler) dispatch(c echo.Context, req ActionRequest) error {
	ctx := c.Request().Context()

	switch req.Type {
	case "navigate":
		return h.shell.Navigate(req.Section)
	case "filter":
		return h.shell.SetFilter(req.Text)
	case "back":
		return h.shell.Back()

	case "openResident":
		return h.shell.OpenResident(req.ID)
	case "newResident":
		return h.shell.NewResidentForm()
	case "editResident":
		return h.shell.EditResidentForm()
	case "saveResident":
		if req.Resident == nil {
			return domainerrors.ErrValidationFailed.WithDetails("falta el vecino")
		}

		return h.shell.SubmitResidentForm(ctx, *req.Resident)
	case "deleteResident":
		return h.shell.DeleteResident(ctx)

	case "openPet":
		return h.shell.OpenPet(req.ID)
	case "newPet":
		return h.shell.NewPetForm()
	case "editPet":
		return h.shell.EditPetForm()
	case "savePet":
		if req.Pet == nil {
			return domainerrors.ErrValidationFailed.WithDetails("falta la mascota")
		}

		return h.shell.SubmitPetForm(ctx, *req.Pet)

	case "newVisit":
		return h.shell.NewVisitForm()
	case "saveVisit":
		if req.Visit == nil {
			return domainerrors.ErrValidationFailed.WithDetails("falta la atención")
		}

		return h.shell.SubmitVisitForm(ctx, *req.Visit)

	case "showCertificate":
		return h.shell.OpenCertificate()
	case "exportCertificate":
		_, err := h.shell.ExportCertificate(ctx)

		return err

	case "newSupply":
		return h.shell.NewSupplyForm()
	case "openSupply":
		return h.shell.OpenSupply(req.ID)
	case "saveSupply":
		if req.Supply == nil {
			return domainerrors.ErrValidationFailed.WithDetails("falta el insumo")
		}

		return h.shell.SubmitSupplyForm(ctx, *req.Supply)

	case "setReportRange":
		from, to, err := parseRange(req.From, req.To)
		if err != nil {
			return err
		}

		return h.shell.SetReportRange(from, to)
	case "exportReport":
		_, err := h.shell.ExportReport(ctx)

		return err

	case "updateUserRole":
		return h.shell.UpdateUserRole(ctx, req.ID, entity.Role(req.Role))

	default:
		return domainerrors.ErrUnknownAction.WithDetails(req.Type)
	}
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, domainerrors.ErrValidationFailed.WithDetails("fecha desde inválida")
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, domainerrors.ErrValidationFailed.WithDetails("fecha hasta inválida")
	}
	// Make the range inclusive of the whole end day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	return from, to, nil
}
