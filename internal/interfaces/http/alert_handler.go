package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/alerts"
)

// AlertHandler bandeja de alertas.
type AlertHandler struct {
	uc *alerts.UseCase
}

func NewAlertHandler(uc *alerts.UseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídas"
// @Param        limit   query  int   false  "Límite"  default(20)
// @Param        offset  query  int   false  "Offset"  default(0)
// @Success      200     {object}  dto.AlertListResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.Context(), companyID, c.QueryBool("unread", false), page(c))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Cantidad de alertas sin leer (badge)
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadCountResponse
// @Router       /api/alerts/unread-count [get]
func (h *AlertHandler) UnreadCount(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.UnreadCount(c.Context(), companyID)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/read [post]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.MarkRead(c.Context(), GetCompanyID(c), id); err != nil {
		return writeError(c, err, "alerta no encontrada")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
