package handlers

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-directory/internal/api/dto"
	"github.com/spec-kit/worker-directory/internal/auth"
	"github.com/spec-kit/worker-directory/internal/domain"
	"github.com/spec-kit/worker-directory/internal/report"
	"github.com/spec-kit/worker-directory/internal/service"
	apperrors "github.com/spec-kit/worker-directory/pkg/util/errorutil"
)

// WorkersHandler exposes the Staff List View of the caller's session.
type WorkersHandler struct {
	service *service.WorkerListService
}

// NewWorkersHandler constructs handler.
func NewWorkersHandler(svc *service.WorkerListService) *WorkersHandler {
	return &WorkersHandler{service: svc}
}

// Get handles GET /workers.
func (h *WorkersHandler) Get(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	st, err := h.service.Current(c.UserContext(), sessionID)
	return respondView(c, st, err)
}

// Reload handles POST /workers/reload.
func (h *WorkersHandler) Reload(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	st, err := h.service.Reload(c.UserContext(), sessionID)
	return respondView(c, st, err)
}

// SetCriteria handles PUT /workers/criteria.
func (h *WorkersHandler) SetCriteria(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.CriteriaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	st, err := h.service.SetCriteria(c.UserContext(), sessionID, req.Criteria())
	return respondView(c, st, err)
}

// Search handles POST /workers/search. A body replaces the pending criteria first.
func (h *WorkersHandler) Search(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	var criteria *domain.FilterCriteria
	if len(c.Body()) > 0 {
		var req dto.CriteriaRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
		}
		parsed := req.Criteria()
		criteria = &parsed
	}
	st, err := h.service.Search(c.UserContext(), sessionID, criteria)
	return respondView(c, st, err)
}

// Clear handles POST /workers/clear.
func (h *WorkersHandler) Clear(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	st, err := h.service.Clear(c.UserContext(), sessionID)
	return respondView(c, st, err)
}

// Delete handles DELETE /workers/:id?confirm=true.
func (h *WorkersHandler) Delete(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid staff id", map[string]any{"id": c.Params("id")})
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	st, err := h.service.Delete(c.UserContext(), sessionID, id, confirmed)
	return respondView(c, st, err)
}

// Report handles GET /workers/report.pdf.
func (h *WorkersHandler) Report(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), sessionID, &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.FileName))
	return c.Send(buf.Bytes())
}

func requireSession(c *fiber.Ctx) (string, error) {
	sessionID, ok := auth.SessionFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthorized("session required")
	}
	return sessionID, nil
}

func respondView(c *fiber.Ctx, st *service.ViewState, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewViewResponse(st)})
}
