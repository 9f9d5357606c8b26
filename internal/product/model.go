package product

import "github.com/MikeMC777/storefront/internal/money"

// Product is a purchasable item. It is a leaf shape: nothing here checks
// that the id is set or that the price is positive.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price" swaggertype:"number" example:"9.99"`
	Image       string       `json:"image"` // URL or path
}

// List wraps a page of products for the catalog listing.
// swagger:model ProductList
type List struct {
	Products []Product `json:"products"`
}

// ListResponse is a paginated listing as returned by GET /products.
// swagger:model
type ListResponse struct {
	List
	// search query applied
	Q      string `json:"q,omitempty"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string        `json:"name"        binding:"required" example:"Mechanical Keyboard"`
	Description string        `json:"description" example:"RGB 60%"`
	Price       *money.Amount `json:"price"       binding:"required" swaggertype:"number" example:"199.90"`
	Image       string        `json:"image"       example:"/img/keyboard.png"`
}

// Product builds the stored shape for a new id.
func (r CreateProductRequest) Product(id string) Product {
	p := Product{ID: id, Name: r.Name, Description: r.Description, Image: r.Image}
	if r.Price != nil {
		p.Price = *r.Price
	}
	return p
}

// UpdateProductRequest payload of partial update. Empty strings and a
// missing price leave the stored value untouched.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       *money.Amount `json:"price" swaggertype:"number"`
	Image       string        `json:"image"`
}

// Apply merges the non-empty fields of r into p.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != "" {
		p.Name = r.Name
	}
	if r.Description != "" {
		p.Description = r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Image != "" {
		p.Image = r.Image
	}
}
