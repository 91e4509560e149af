// Package form implements the generic create-or-edit form controller every
// entity screen reuses. A controller holds one mutable draft; submitting it
// dispatches exactly one write (a create in new mode, a point update in edit
// mode) and reports completion through a callback. On failure the draft is
// preserved so the user stays on the form.
package form

import (
	"context"
	"log/slog"

	domainerrors "github.com/Manuufarina/gestion-zoonosis/internal/domain/errors"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Mode distinguishes create from edit. Edit mode is detected by the
// presence of an existing record.
type Mode string

const (
	ModeCreate Mode = "new"
	ModeEdit   Mode = "edit"
)

// Schema describes an entity form: its empty defaults plus the validation
// carried by the entity's struct tags.
type Schema[T any] struct {
	Defaults func() T
	validate *validator.Validate
}

// NewSchema builds a schema with the standard struct-tag validator.
func NewSchema[T any](defaults func() T) Schema[T] {
	return Schema[T]{
		Defaults: defaults,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Controller is one live form. It is not reused across screens; navigation
// constructs a fresh controller on entering a form screen.
type Controller[T any] struct {
	col    repository.Collection[T]
	schema Schema[T]
	logger *slog.Logger

	mode  Mode
	id    string
	draft T
}

// NewCreate returns a controller in create mode, seeded with defaults.
func NewCreate[T any](col repository.Collection[T], schema Schema[T], logger *slog.Logger) *Controller[T] {
	return &Controller[T]{
		col:    col,
		schema: schema,
		logger: logger,
		mode:   ModeCreate,
		draft:  schema.Defaults(),
	}
}

// NewEdit returns a controller in edit mode, seeded with a copy of the
// existing record.
func NewEdit[T any](col repository.Collection[T], schema Schema[T], logger *slog.Logger, rec repository.Record[T]) *Controller[T] {
	return &Controller[T]{
		col:    col,
		schema: schema,
		logger: logger,
		mode:   ModeEdit,
		id:     rec.ID,
		draft:  rec.Data,
	}
}

// Mode reports whether the controller creates or edits.
func (c *Controller[T]) Mode() Mode {
	return c.mode
}

// Draft returns the current draft record.
func (c *Controller[T]) Draft() T {
	return c.draft
}

// SetDraft replaces the draft wholesale (one event per form change).
func (c *Controller[T]) SetDraft(draft T) {
	c.draft = draft
}

// Submit validates the draft and dispatches exactly one write: a create in
// new mode or a point update in edit mode, never both. On success the
// assigned (or known) document ID is returned. On failure the error is
// logged and the draft is left intact; nothing was applied remotely, so
// there is no rollback.
func (c *Controller[T]) Submit(ctx context.Context) (string, error) {
	if err := c.schema.validate.Struct(c.draft); err != nil {
		return "", domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	if c.mode == ModeEdit {
		if err := c.col.Update(ctx, c.id, c.draft); err != nil {
			c.logger.Error("form update failed", slog.String("id", c.id), slog.Any("error", err))

			return "", errors.Wrap(err, "failed to update record")
		}

		return c.id, nil
	}

	id, err := c.col.Create(ctx, c.draft)
	if err != nil {
		c.logger.Error("form create failed", slog.Any("error", err))

		return "", errors.Wrap(err, "failed to create record")
	}

	return id, nil
}
