package cart

import (
	"github.com/MikeMC777/storefront/internal/money"
	"github.com/MikeMC777/storefront/internal/product"
)

// Cart holds products in display order plus a stated total. TotalPrice is
// set by whoever writes the cart; it is not derived from Items.
type Cart struct {
	Items      []product.Product `json:"items"`
	TotalPrice money.Amount      `json:"totalPrice" swaggertype:"number" example:"19.98"`
}

// ItemsTotal sums the item prices. It does not touch TotalPrice.
func (c Cart) ItemsTotal() money.Amount {
	prices := make([]money.Amount, 0, len(c.Items))
	for _, it := range c.Items {
		prices = append(prices, it.Price)
	}
	return money.Sum(prices...)
}

// View wraps one cart for presentation.
// swagger:model CartView
type View struct {
	Cart Cart `json:"cart"`
}

// CreateResponse is returned by POST /carts.
type CreateResponse struct {
	ID   string `json:"id"`
	Cart Cart   `json:"cart"`
}
