package respond

type OrderLineItem struct {
	ProductUuid string  `json:"product_uuid"`
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
}

type OrderItemRespond struct {
	OrderNo       string          `json:"order_no"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Status        string          `json:"status"`
	Total         float64         `json:"total"`
	PaymentRef    string          `json:"payment_ref,omitempty"`
	CreatedAt     string          `json:"created_at"`
	Items         []OrderLineItem `json:"items"`
}
