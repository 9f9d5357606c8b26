// Package cartrpc exposes stored carts over gRPC. Messages are the
// well-known wrapper and Struct types, so no generated code is needed.
package cartrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/record"
)

const (
	ServiceName       = "storefront.cart.v1.CartService"
	GetCartFullMethod = "/" + ServiceName + "/GetCart"
)

// CartServiceServer is the server API for the cart service.
type CartServiceServer interface {
	GetCart(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCart", Handler: getCartHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/cart/v1/cart.proto",
}

func getCartHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CartServiceServer).GetCart(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetCartFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CartServiceServer).GetCart(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Service serves carts from a cart.Store.
type Service struct {
	store cart.Store
}

func NewService(store cart.Store) *Service {
	return &Service{store: store}
}

// GetCart
func (s *Service) GetCart(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	if in.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "cart id is required")
	}
	c, err := s.store.Get(ctx, in.GetValue())
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "cart not found")
		}
		return nil, status.Errorf(codes.Internal, "get error: %v", err)
	}
	out, err := record.ToStruct(c)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode error: %v", err)
	}
	return out, nil
}
