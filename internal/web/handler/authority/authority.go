// Package authority provides the JSON handlers for managing authorities.
package authority

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authdesk/authdesk/internal/apperr"
	lifecycle "github.com/authdesk/authdesk/internal/db/controller/authority"
	"github.com/authdesk/authdesk/internal/db/models"
	"github.com/authdesk/authdesk/internal/web/handler"
)

// Path is the base path for authority management.
const Path = handler.RootPath + "authorities"

// Manager is the authority lifecycle used by the handlers.
type Manager interface {
	Create(ctx context.Context, in lifecycle.CreateInput) (*models.Authority, error)
	Read(ctx context.Context, id uint64) (*models.Authority, error)
	List(ctx context.Context, params lifecycle.ListParams) (*lifecycle.Page, error)
	Update(ctx context.Context, id uint64, in lifecycle.UpdateInput) (*models.Authority, error)
	Delete(ctx context.Context, id uint64) error
	BulkDelete(ctx context.Context, in lifecycle.BulkDeleteInput) (int, error)
	BlankForm(ctx context.Context) (*lifecycle.Form, error)
	Form(ctx context.Context, id uint64) (*lifecycle.Form, error)
}

// Service provides the authority routes.
type Service struct {
	manager Manager
}

// New returns the authority handlers.
func New(manager Manager) *Service {
	return &Service{manager: manager}
}

// Init registers routes.
func (s *Service) Init(router fiber.Router) {
	if router == nil || s.manager == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	router.Get(Path, s.List)
	router.Get(Path+"/form", s.BlankForm)
	router.Post(Path, s.Create)
	router.Post(Path+"/bulk-delete", s.BulkDelete)
	router.Get(Path+"/:id", s.Get)
	router.Get(Path+"/:id/form", s.Form)
	router.Put(Path+"/:id", s.Update)
	router.Delete(Path+"/:id", s.Delete)
}

// List returns a page of authorities joined with their type name.
func (s *Service) List(c *fiber.Ctx) error {
	var params lifecycle.ListParams
	if err := c.QueryParser(&params); err != nil {
		return handler.Error(c, apperr.Wrap(apperr.KindValidation, "invalid_query", "invalid query parameters", err))
	}

	page, err := s.manager.List(c.UserContext(), params)
	if err != nil {
		return handler.Error(c, err)
	}

	return handler.JSON(c, fiber.StatusOK, "ok", page)
}

// Get returns one authority.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Error(c, err)
	}

	a, err := s.manager.Read(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	return handler.JSON(c, fiber.StatusOK, "ok", a)
}

// BlankForm returns the empty create form.
func (s *Service) BlankForm(c *fiber.Ctx) error {
	form, err := s.manager.BlankForm(c.UserContext())
	if err != nil {
		return handler.Error(c, err)
	}

	return handler.JSON(c, fiber.StatusOK, "ok", form)
}

// Form returns the prefilled edit form.
func (s *Service) Form(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Error(c, err)
	}

	form, err := s.manager.Form(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	return handler.JSON(c, fiber.StatusOK, "ok", form)
}

// Create creates an authority together with its user.
func (s *Service) Create(c *fiber.Ctx) error {
	var in lifecycle.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, invalidBody(err))
	}

	a, err := s.manager.Create(c.UserContext(), in)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) || apperr.Is(err, apperr.KindNotFound) {
			return handler.Error(c, err, fiber.StatusBadRequest)
		}

		return handler.Error(c, err)
	}

	return handler.JSON(c, fiber.StatusCreated, "Authority created successfully", a)
}

// Update applies the given fields to the authority and its user.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var in lifecycle.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, invalidBody(err))
	}

	a, err := s.manager.Update(c.UserContext(), id, in)
	if err != nil {
		return handler.Error(c, err)
	}

	return handler.JSON(c, fiber.StatusOK, "Authority updated successfully", a)
}

// Delete removes the authority and its user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Error(c, err)
	}

	if err := s.manager.Delete(c.UserContext(), id); err != nil {
		if apperr.HasCode(err, "authority_not_found") {
			return handler.Error(c, err)
		}

		return handler.Error(c, err, fiber.StatusBadRequest)
	}

	return handler.JSON(c, fiber.StatusOK, "Authority deleted successfully", nil)
}

// BulkDelete removes all listed authorities or none of them.
func (s *Service) BulkDelete(c *fiber.Ctx) error {
	var in lifecycle.BulkDeleteInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, invalidBody(err))
	}

	n, err := s.manager.BulkDelete(c.UserContext(), in)
	if err != nil {
		var batchErr *lifecycle.BatchError
		if errors.As(err, &batchErr) {
			code := "unknown"
			var ae *apperr.Error
			if errors.As(batchErr.Err, &ae) {
				code = ae.Code
			}

			err = &apperr.Error{
				Kind:    apperr.KindOf(batchErr.Err),
				Code:    "bulk_delete_failed",
				Message: "Authorities could not be deleted",
				Fields:  map[string]string{"id": strconv.FormatUint(batchErr.ID, 10), "reason": code},
				Cause:   err,
			}
		}

		return handler.Error(c, err, fiber.StatusBadRequest)
	}

	return handler.JSON(c, fiber.StatusOK, "Authorities deleted successfully", fiber.Map{"deleted": n})
}

func paramID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.InvalidField("id", "numeric")
	}

	return id, nil
}

func invalidBody(err error) error {
	return apperr.Wrap(apperr.KindValidation, "invalid_body", "invalid request body", err)
}
