package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materias-primas/internal/application/dto"
	"github.com/jhoicas/materias-primas/internal/application/inventory"
)

// StockHandler consultas del submayor (solo lectura).
type StockHandler struct {
	uc *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockQueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListBalances godoc
// @Summary      Existencias de un almacén
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Almacén"
// @Success      200  {object}  dto.BalanceListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{warehouse_id} [get]
func (h *StockHandler) ListBalances(c *fiber.Ctx) error {
	out, err := h.uc.ListBalances(c.UserContext(), c.Params("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Existencia de un producto en un almacén
// @Description  Devuelve 0 si el par nunca tuvo movimientos.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Almacén"
// @Param        product_id    path  string  true  "Producto"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/stock/{warehouse_id}/{product_id} [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	out, err := h.uc.Balance(c.UserContext(), c.Params("warehouse_id"), c.Params("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Kardex de un producto en un almacén
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "Almacén"
// @Param        product_id    path   string  true   "Producto"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/{warehouse_id}/{product_id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), c.Params("warehouse_id"), c.Params("product_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListSiteBalances godoc
// @Summary      Existencias por UEB
// @Description  Suma por producto sobre la UEB y las unidades que dependen de ella.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        ueb_id  path  string  true  "UEB"
// @Success      200  {object}  dto.SiteBalanceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{ueb_id}/stock [get]
func (h *StockHandler) ListSiteBalances(c *fiber.Ctx) error {
	out, err := h.uc.ListSiteBalances(c.UserContext(), c.Params("ueb_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListOwnSiteBalances godoc
// @Summary      Existencias de la UEB del usuario
// @Description  Igual que /api/sites/{ueb_id}/stock con la UEB del claim site_id del token.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SiteBalanceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/mine/stock [get]
func (h *StockHandler) ListOwnSiteBalances(c *fiber.Ctx) error {
	site := GetSiteID(c)
	if site == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_SITE", Message: "el token no indica UEB"})
	}
	out, err := h.uc.ListSiteBalances(c.UserContext(), site)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
