package order

import "github.com/MikeMC777/storefront/internal/product"

// Order is a placed purchase. UserID points at a user owned elsewhere.
// Status is free text; no set of valid values is declared.
type Order struct {
	ID       string            `json:"id"`
	UserID   string            `json:"userId"`
	Products []product.Product `json:"products"`
	Status   string            `json:"status"`
}

// View wraps one order for presentation.
// swagger:model OrderView
type View struct {
	Order Order `json:"order"`
}

// ListResponse is returned by GET /users/{user_id}/orders.
type ListResponse struct {
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Items  []Order `json:"items"`
}
