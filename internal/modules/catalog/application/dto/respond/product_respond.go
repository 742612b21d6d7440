package respond

type ProductItem struct {
	Uuid      string  `json:"uuid"`
	Sku       string  `json:"sku"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	Active    bool    `json:"active"`
	UpdatedAt string  `json:"updated_at"`
}
