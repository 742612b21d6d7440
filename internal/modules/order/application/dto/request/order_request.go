package request

type OrderLineRequest struct {
	ProductUuid string `json:"product_uuid"`
	Qty         int    `json:"qty"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Items         []OrderLineRequest `json:"items"`
}

type MarkPaidRequest struct {
	OrderNo    string `json:"order_no"`
	PaymentRef string `json:"payment_ref"`
}

type OrderNoRequest struct {
	OrderNo string `json:"order_no"`
}
