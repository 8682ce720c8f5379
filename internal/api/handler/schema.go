package handler

import "github.com/ewersson/app-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Login    string `json:"login"    validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"required"`
}

type loginRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authLinks struct {
	Self     string `json:"self"`
	Login    string `json:"login,omitempty"`
	Register string `json:"register,omitempty"`
}

type registerResponse struct {
	Message string    `json:"message"`
	Links   authLinks `json:"_links"`
}

type loginResponse struct {
	Token string    `json:"token"`
	Links authLinks `json:"_links"`
}

type meResponse struct {
	ID    string      `json:"id"`
	Login string      `json:"login"`
	Role  domain.Role `json:"role"`
}

// --- Products ---

type createProductRequest struct {
	ProductName string  `json:"product_name" validate:"required"`
	Image       string  `json:"image"        validate:"required"`
	Price       float64 `json:"price"        validate:"gt=0"`
	Stock       int     `json:"stock"        validate:"gte=0"`
}

type updateStockRequest struct {
	// pointer so a missing field is told apart from zero
	Stock *int `json:"stock" validate:"required,gte=0"`
}

type productLinks struct {
	Self       string `json:"self"`
	Collection string `json:"collection"`
}

type productResponse struct {
	ID          string       `json:"id"`
	ProductName string       `json:"product_name"`
	Image       string       `json:"image"`
	Price       float64      `json:"price"`
	Stock       int          `json:"stock"`
	CreatedAt   string       `json:"created_at"`
	Links       productLinks `json:"_links"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		ProductName: p.ProductName,
		Image:       p.Image,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Links: productLinks{
			Self:       "/products/" + p.ID,
			Collection: "/products/all",
		},
	}
}
