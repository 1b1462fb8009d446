package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pos/internal/config"
	"pos/internal/middleware"
	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラー種別をHTTPステータスに写す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var (
		ve  *usecase.ValidationError
		nf  *usecase.NotFoundError
		ec  *usecase.EmptyCartError
		pnf *usecase.ProductNotFoundError
		ins *usecase.InsufficientStockError
	)

	switch {
	case errors.As(err, &ve), errors.As(err, &ec), errors.As(err, &pnf), errors.As(err, &ins):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /products のカタログ保守API
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 価格・在庫は文字列で受けて、この境界で数値に検証してから渡す
type UpsertProductRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock string `json:"stock"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/products", h.list)

	g := e.Group("/products")
	g.Use(middleware.AuthJWT(cfg))
	g.PUT("", h.upsert)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/adjustments", h.listAdjustments)
}

func (h *ProductHandler) list(c echo.Context) error {
	products, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) upsert(c echo.Context) error {
	var req UpsertProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "price must be numeric"})
	}
	stock, err := decimal.NewFromString(req.Stock)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "stock must be numeric"})
	}

	p, err := h.uc.Upsert(c.Request().Context(), usecase.UpsertProductInput{
		Name:  req.Name,
		Price: price,
		Stock: stock,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) listAdjustments(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adjustments, err := h.uc.ListAdjustments(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, adjustments)
}
