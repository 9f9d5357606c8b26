package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/cartrpc"
	"github.com/MikeMC777/storefront/internal/product"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
)

// CartReader reads carts from the cart service.
type CartReader interface {
	FetchCart(ctx context.Context, id string, opts ...grpc.CallOption) (*cart.Cart, error)
}

// Ext bundles the outbound clients of the order service.
type Ext struct {
	HTTP           *http.Client
	Carts          CartReader
	ProductBaseURL string
}

func NewExt(cartAddr, productBaseURL string) (*Ext, error) {
	// Non-blocking gRPC connection (RPC will use WaitForReady)
	conn, err := grpc.NewClient(cartAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &Ext{
		HTTP:           &http.Client{Timeout: 5 * time.Second},
		Carts:          cartrpc.NewClient(conn),
		ProductBaseURL: productBaseURL,
	}, nil
}

func (e *Ext) FetchProduct(ctx context.Context, id string) (*product.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/products/%s", e.ProductBaseURL, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	res, err := e.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	default:
		return nil, fmt.Errorf("fetch product %s: %s", id, res.Status)
	}
	var p product.Product
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchProducts resolves ids in order; duplicates are fetched and kept.
func (e *Ext) FetchProducts(ctx context.Context, ids []string) ([]product.Product, error) {
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := e.FetchProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (e *Ext) FetchCart(ctx context.Context, id string) (*cart.Cart, error) {
	c, err := e.Carts.FetchCart(ctx, id, grpc.WaitForReady(true))
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCartNotFound, id)
		}
		return nil, err
	}
	return c, nil
}
