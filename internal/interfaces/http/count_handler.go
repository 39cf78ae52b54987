package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/counting"
	"github.com/jhoicas/bodega-api/internal/application/dto"
)

// CountHandler conteo cíclico: sesión, escaneo, guardado de líneas, cierre y exportes.
type CountHandler struct {
	uc *counting.UseCase
}

func NewCountHandler(uc *counting.UseCase) *CountHandler {
	return &CountHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar conteo
// @Description  Toma como esperado el stock canónico de los productos de la ubicación.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartCountRequest  true  "Ubicación"
// @Success      201   {object}  dto.CountSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/counts [post]
func (h *CountHandler) Start(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.StartCountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Start(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id} [get]
func (h *CountHandler) Get(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err, "conteo no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar conteos
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "Filtrar por ubicación"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.CountListResponse
// @Router       /api/counts [get]
func (h *CountHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	p := page(c)
	out, err := h.uc.List(c.Context(), companyID, c.Query("location"), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Scan godoc
// @Summary      Previsualizar línea escaneada
// @Description  No guarda nada. 404 si el código no pertenece al conteo.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la sesión"
// @Param        body  body  dto.ScanCountRequest  true  "Código leído"
// @Success      200   {object}  dto.CountItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/scan [post]
func (h *CountHandler) Scan(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	var in dto.ScanCountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Preview(c.Context(), GetCompanyID(c), id, in.Code)
	if err != nil {
		return writeError(c, err, "código no pertenece al conteo")
	}
	return c.JSON(out)
}

// SaveLine godoc
// @Summary      Guardar línea contada
// @Description  Escaneo + cantidad (unidades o cajas). Una diferencia emite una alerta de discrepancia; regrabar el mismo valor no la repite.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la sesión"
// @Param        body  body  dto.SaveCountLineRequest  true  "Línea"
// @Success      200   {object}  dto.CountLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/lines [post]
func (h *CountHandler) SaveLine(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	var in dto.SaveCountLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SaveLineFromRequest(c.Context(), GetCompanyID(c), id, in)
	if err != nil {
		return writeError(c, err, "conteo o código no encontrado")
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar conteo
// @Description  Marca la sesión Cerrado y ajusta el stock de las líneas con diferencia (kardex COUNT).
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CloseCountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/close [post]
func (h *CountHandler) Close(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Close(c.Context(), GetCompanyID(c), GetUserID(c), id)
	if err != nil {
		return writeError(c, err, "conteo no encontrado")
	}
	return c.JSON(out)
}

// Sheet godoc
// @Summary      Planilla PDF del conteo
// @Tags         counts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/sheet.pdf [get]
func (h *CountHandler) Sheet(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Sheet(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err, "conteo no encontrado")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="conteo-%s.pdf"`, id))
	return c.Send(out)
}

// ExportCSV godoc
// @Summary      Exportar conteo a CSV
// @Tags         counts
// @Security     Bearer
// @Produce      text/csv
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/export.csv [get]
func (h *CountHandler) ExportCSV(c *fiber.Ctx) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.ExportCSV(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err, "conteo no encontrado")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="conteo-%s.csv"`, id))
	return c.Send(out)
}
