package cartrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/record"
)

type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// FetchCart returns cart.ErrNotFound when the server reports NotFound.
func (c *Client) FetchCart(ctx context.Context, id string, opts ...grpc.CallOption) (*cart.Cart, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetCartFullMethod, wrapperspb.String(id), out, opts...); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, cart.ErrNotFound
		}
		return nil, err
	}
	var cr cart.Cart
	if err := record.FromStruct(out, &cr); err != nil {
		return nil, err
	}
	return &cr, nil
}
