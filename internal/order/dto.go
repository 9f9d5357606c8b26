package order

import (
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/product"
)

// DefaultStatus is written when a create request carries no status. It is
// a default only; any string is accepted.
const DefaultStatus = "created"

// CreateOrderRequest payload of order creation from product ids. Products
// are fetched from the catalog and copied into the order by value.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	UserID     string   `json:"userId"     binding:"required" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	ProductIDs []string `json:"productIds" binding:"required,min=1"`
	Status     string   `json:"status"     example:"created"`
}

// CheckoutRequest payload of order creation from a stored cart.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	UserID string `json:"userId" binding:"required"`
	CartID string `json:"cartId" binding:"required"`
	Status string `json:"status"`
}

// UpdateStatusRequest payload of PATCH /orders/{id}/status.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"shipped"`
}

func statusOrDefault(s string) string {
	if s == "" {
		return DefaultStatus
	}
	return s
}

// Order builds the order for already resolved products.
func (r CreateOrderRequest) Order(id string, products []product.Product) Order {
	if products == nil {
		products = []product.Product{}
	}
	return Order{ID: id, UserID: r.UserID, Products: products, Status: statusOrDefault(r.Status)}
}

// Order copies the cart's items, in order, into a new order.
func (r CheckoutRequest) Order(id string, c cart.Cart) Order {
	products := append([]product.Product{}, c.Items...)
	return Order{ID: id, UserID: r.UserID, Products: products, Status: statusOrDefault(r.Status)}
}
