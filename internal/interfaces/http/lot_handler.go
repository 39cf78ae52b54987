package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
)

// LotHandler lotes por producto.
type LotHandler struct {
	uc *usecase.LotUseCase
}

func NewLotHandler(uc *usecase.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar lote
// @Description  La cantidad admite texto; un valor no numérico se guarda como vacío y cuenta 0.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err, "producto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByProduct godoc
// @Summary      Lotes de un producto
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/products/{id}/lots [get]
func (h *LotHandler) ListByProduct(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.ListByProduct(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
