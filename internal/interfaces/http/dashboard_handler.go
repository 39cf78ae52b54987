package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/bodega-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero de vencimientos y consistencia.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetExpiry devuelve el último triage de vencimientos.
// GET /api/dashboard/expiry
//
// Respuesta: ExpiryDashboardDTO (critical, buckets[4], expired, evaluated,
// skipped, computed_at). Se recalcula si el snapshot es de otro día.
func (h *DashboardHandler) GetExpiry(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Expiry(c.Context(), companyID)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// GetConsistency productos cuyo stock difiere de la suma de sus lotes.
// GET /api/dashboard/consistency
func (h *DashboardHandler) GetConsistency(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Consistency(c.Context(), companyID)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
