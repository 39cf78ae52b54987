package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Description  Crea el producto con su stock inicial. Evalúa stock bajo y vencimiento.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.SKU == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y name son requeridos"})
	}
	out, err := h.uc.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Scan godoc
// @Summary      Ingreso por escaneo
// @Description  Si el SKU existe suma la cantidad (o cajas × unidades por caja); si no, crea el producto.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanProductRequest  true  "Código y cantidad"
// @Success      200   {object}  dto.StockMutationResponse
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/scan [post]
func (h *ProductHandler) Scan(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ScanProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Scan(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err, "")
	}
	if out.Created {
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err, "")
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// GetBySKU godoc
// @Summary      Buscar producto por SKU
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU o código escaneado"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/sku/{sku} [get]
func (h *ProductHandler) GetBySKU(c *fiber.Ctx) error {
	out, err := h.uc.GetBySKU(c.Context(), GetCompanyID(c), c.Params("sku"))
	if err != nil {
		return writeError(c, err, "")
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	p := page(c)
	out, err := h.uc.List(c.Context(), companyID, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// SetStock godoc
// @Summary      Editar stock manualmente
// @Description  Fija el stock (los tres campos heredados quedan iguales) y registra ADJUSTMENT en el kardex.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del producto"
// @Param        body  body  dto.SetStockRequest   true  "Nuevo stock"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [patch]
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetStock(c.Context(), GetCompanyID(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err, "producto no encontrado")
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Kardex del producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.MovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	p := page(c)
	out, err := h.uc.Movements(c.Context(), GetCompanyID(c), id, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
