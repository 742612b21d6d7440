package request

type CreateProductRequest struct {
	Sku   string  `json:"sku"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type UpdateProductRequest struct {
	Uuid   string  `json:"uuid"`
	Name   string  `json:"name"`
	Brand  string  `json:"brand"`
	Price  float64 `json:"price"`
	Active *bool   `json:"active"`
}

type AdjustStockRequest struct {
	Uuid  string `json:"uuid"`
	Delta int    `json:"delta"`
}
