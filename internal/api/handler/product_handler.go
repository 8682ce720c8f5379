package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ewersson/app-api/internal/api/metrics"
	"github.com/ewersson/app-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /products.
//
// A repeated Idempotency-Key returns the product created by the first call
// with 200 instead of 201, or 409 while that product is not stored.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createProductRequest  true   "Product details"
// @Success      201              {object}  productResponse
// @Success      200              {object}  productResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateProduct(c.Request().Context(), ports.CreateProductInput{
		ProductName:    req.ProductName,
		Image:          req.Image,
		Price:          req.Price,
		Stock:          req.Stock,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
		return c.JSON(http.StatusOK, toProductResponse(result.Product))
	}
	metrics.ProductsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toProductResponse(result.Product))
}

// List handles GET /products/all.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   productResponse
// @Failure      401  {object}  errorResponse
// @Router       /products/all [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// Delete handles DELETE /products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  string  true  "Product id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateStock handles PATCH /products/:id/stock.
//
// @Summary      Update product stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Product id"
// @Param        body  body      updateStockRequest  true  "New stock level"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	var req updateStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdateStock(c.Request().Context(), c.Param("id"), *req.Stock)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}
