package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
)

// InventoryHandler mermas, devoluciones y sincronización de stock (protegido).
type InventoryHandler struct {
	waste   *inventory.WasteUseCase
	returns *inventory.ReturnUseCase
	sync    *inventory.SyncUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(waste *inventory.WasteUseCase, returns *inventory.ReturnUseCase, sync *inventory.SyncUseCase) *InventoryHandler {
	return &InventoryHandler{waste: waste, returns: returns, sync: sync}
}

// RegisterWaste godoc
// @Summary      Registrar merma
// @Description  Descuenta stock, registra la merma, el kardex WASTE y las alertas en una transacción. 409 si la cantidad supera el stock.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WasteRequest  true  "product_id, quantity, cause"
// @Success      201   {object}  dto.WasteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/waste [post]
func (h *InventoryHandler) RegisterWaste(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.WasteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.waste.ApplyFromRequest(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err, "producto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterReturn godoc
// @Summary      Registrar devolución de cliente
// @Description  Queda Pendiente; el stock no cambia hasta aprobarla.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Devolución"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *InventoryHandler) RegisterReturn(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.returns.Register(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err, "producto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ApproveReturn godoc
// @Summary      Aprobar devolución
// @Description  Reingresa el stock con kardex RETURN y evalúa stock bajo. 409 si ya fue resuelta.
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/approve [post]
func (h *InventoryHandler) ApproveReturn(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.returns.Approve(c.Context(), inventory.ApproveReturn{
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
		ReturnID:  id,
	})
	if err != nil {
		return writeError(c, err, "devolución no encontrada")
	}
	return c.JSON(out)
}

// RejectReturn godoc
// @Summary      Rechazar devolución
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/reject [post]
func (h *InventoryHandler) RejectReturn(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.returns.Reject(c.Context(), GetCompanyID(c), GetUserID(c), id)
	if err != nil {
		return writeError(c, err, "devolución no encontrada")
	}
	return c.JSON(out)
}

// ListReturns godoc
// @Summary      Listar devoluciones
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Pendiente | Aprobada | Rechazada"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.ReturnResponse
// @Router       /api/returns [get]
func (h *InventoryHandler) ListReturns(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	p := page(c)
	out, err := h.returns.List(c.Context(), companyID, c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar stock con lotes
// @Description  La suma de lotes sobrescribe el stock de cada producto con lotes que difiera. Emite una alerta de Sincronización por corrección.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncReportResponse
// @Router       /api/inventory/sync [post]
func (h *InventoryHandler) Sync(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.sync.Run(c.Context(), companyID, GetUserID(c))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
