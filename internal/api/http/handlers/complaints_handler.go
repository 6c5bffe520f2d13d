package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/gira-airport/complaint-service/internal/api/dto"
	"github.com/gira-airport/complaint-service/internal/auth"
	"github.com/gira-airport/complaint-service/internal/domain"
	"github.com/gira-airport/complaint-service/internal/service"
	apperrors "github.com/gira-airport/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler exposes the complaint lifecycle over HTTP.
type ComplaintsHandler struct {
	lifecycle *service.LifecycleService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(lifecycle *service.LifecycleService) *ComplaintsHandler {
	return &ComplaintsHandler{lifecycle: lifecycle}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload", nil)
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return apperrors.NewBadRequest("invalid category_id", nil)
	}
	input := service.CreateInput{
		CategoryID:  categoryID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Metadata:    req.Metadata,
	}
	if req.SubCategoryID != nil {
		subCategoryID, err := uuid.Parse(*req.SubCategoryID)
		if err != nil {
			return apperrors.NewBadRequest("invalid sub_category_id", nil)
		}
		input.SubCategoryID = &subCategoryID
	}

	complaint, err := h.lifecycle.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	complaints, err := h.lifecycle.ListForActor(c.Context(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.FromComplaint(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	complaint, err := h.lifecycle.GetByID(c.Context(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// GetByNumber GET /complaints/number/:number. Lookup by the public RCL
// reference printed on receipts and emails.
func (h *ComplaintsHandler) GetByNumber(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	number := strings.TrimSpace(c.Params("number"))
	if number == "" {
		return apperrors.NewBadRequest("missing complaint number", nil)
	}
	complaint, err := h.lifecycle.GetByNumber(c.Context(), number, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Update PATCH /complaints/:id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload", nil)
	}

	input := service.UpdateInput{
		Title:               req.Title,
		Description:         req.Description,
		Priority:            req.Priority,
		Status:              req.Status,
		Satisfaction:        req.Satisfaction,
		SatisfactionComment: req.SatisfactionComment,
	}
	if req.AgentID != nil {
		agentID, err := uuid.Parse(*req.AgentID)
		if err != nil {
			return apperrors.NewBadRequest("invalid agent_id", nil)
		}
		input.AgentID = &agentID
	}
	if input.FilesToAttach, err = parseIDList(req.AttachFiles, "attach_files"); err != nil {
		return err
	}
	if input.FilesToDetach, err = parseIDList(req.DetachFiles, "detach_files"); err != nil {
		return err
	}

	complaint, err := h.lifecycle.Update(c.Context(), id, input, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Escalate POST /complaints/:id/escalate.
func (h *ComplaintsHandler) Escalate(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.EscalateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload", nil)
	}
	supervisorID, err := uuid.Parse(req.SupervisorID)
	if err != nil {
		return apperrors.NewBadRequest("invalid supervisor_id", nil)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewBadRequest("reason required", nil)
	}

	complaint, err := h.lifecycle.Escalate(c.Context(), id, supervisorID, req.Reason, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Delete DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.lifecycle.Delete(c.Context(), id, actor); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Audit GET /complaints/:id/audit.
func (h *ComplaintsHandler) Audit(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entries, err := h.lifecycle.ListAudit(c.Context(), id, actor)
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.FromAuditEntry(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func requireActor(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequest("invalid complaint id", nil)
	}
	return id, nil
}

func parseIDList(raw []string, field string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, apperrors.NewBadRequest("invalid "+field, map[string]any{"value": value})
		}
		ids = append(ids, id)
	}
	return ids, nil
}
