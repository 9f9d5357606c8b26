package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/money"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/product"
	"github.com/MikeMC777/storefront/internal/record"
)

func widget() product.Product {
	return product.Product{
		ID:          "p1",
		Name:        "Widget",
		Description: "A widget",
		Price:       money.NewFromFloat(9.99),
		Image:       "/img/p1.png",
	}
}

func TestProductRoundTrip(t *testing.T) {
	in := widget()
	s, err := record.ToStruct(in)
	require.NoError(t, err)
	assert.Equal(t, "Widget", s.Fields["name"].GetStringValue())
	assert.Equal(t, 9.99, s.Fields["price"].GetNumberValue())

	var out product.Product
	require.NoError(t, record.FromStruct(s, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Description, out.Description)
	assert.True(t, in.Price.Equal(out.Price))
	assert.Equal(t, in.Image, out.Image)
}

func TestCartRoundTrip(t *testing.T) {
	in := cart.Cart{Items: []product.Product{widget(), widget()}, TotalPrice: money.NewFromFloat(1)}
	s, err := record.ToStruct(in)
	require.NoError(t, err)

	var out cart.Cart
	require.NoError(t, record.FromStruct(s, &out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "p1", out.Items[1].ID)
	// the stated total is carried as-is even though it disagrees with the items
	assert.Equal(t, "1", out.TotalPrice.String())
}

func TestEmptyCartRoundTrip(t *testing.T) {
	s, err := record.ToStruct(cart.Cart{Items: []product.Product{}, TotalPrice: money.Zero})
	require.NoError(t, err)

	var out cart.Cart
	require.NoError(t, record.FromStruct(s, &out))
	assert.Empty(t, out.Items)
	assert.True(t, out.TotalPrice.Equal(money.Zero))
}

func TestOrderRoundTrip(t *testing.T) {
	in := order.Order{ID: "o1", UserID: "u1", Products: []product.Product{widget()}, Status: "anything goes"}
	s, err := record.ToStruct(in)
	require.NoError(t, err)

	var out order.Order
	require.NoError(t, record.FromStruct(s, &out))
	assert.Equal(t, "o1", out.ID)
	assert.Equal(t, "u1", out.UserID)
	assert.Equal(t, "anything goes", out.Status)
	require.Len(t, out.Products, 1)
	assert.True(t, out.Products[0].Price.Equal(money.NewFromFloat(9.99)))
}

func TestToStructRejectsNonObjects(t *testing.T) {
	_, err := record.ToStruct([]int{1, 2})
	assert.Error(t, err)
}

func TestFromStructNil(t *testing.T) {
	var p product.Product
	assert.Error(t, record.FromStruct(nil, &p))
}

func TestPricesBeyondFloatPrecisionStayExact(t *testing.T) {
	price := money.RequireFromString("12345678901234.567")
	in := cart.Cart{
		Items:      []product.Product{widget(), {ID: "p2", Price: price}},
		TotalPrice: money.RequireFromString("12345678901244.557"),
	}
	s, err := record.ToStruct(in)
	require.NoError(t, err)

	items := s.Fields["items"].GetListValue().GetValues()
	require.Len(t, items, 2)
	// float-safe prices stay numbers; the rest travel as decimal text
	assert.Equal(t, 9.99, items[0].GetStructValue().Fields["price"].GetNumberValue())
	assert.Equal(t, "12345678901234.567", items[1].GetStructValue().Fields["price"].GetStringValue())

	var out cart.Cart
	require.NoError(t, record.FromStruct(s, &out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "12345678901234.567", out.Items[1].Price.String())
	assert.Equal(t, "12345678901244.557", out.TotalPrice.String())
	assert.True(t, out.Items[0].Price.Equal(money.NewFromFloat(9.99)))
}
