package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
)

// publish is best effort: the order is already stored.
func (d deps) publish(ctx context.Context, ev events.Event) {
	if err := d.pub.Publish(ctx, ev); err != nil {
		d.log.Warn("publish event", zap.String("type", ev.Type), zap.String("order_id", ev.OrderID), zap.Error(err))
	}
}

func (d deps) place(c *gin.Context, o *order.Order, source string) {
	ctx := c.Request.Context()
	if err := d.repo.Create(ctx, o); err != nil {
		d.log.Error("create order", zap.Error(err))
		httpx.Fail(c, http.StatusInternalServerError, "create error")
		return
	}
	d.publish(ctx, events.New(events.TypeOrderCreated, o.ID, map[string]any{
		"user_id":  o.UserID,
		"status":   o.Status,
		"products": len(o.Products),
		"source":   source,
	}))
	c.JSON(http.StatusCreated, order.View{Order: *o})
}

// createOrderHandler places an order for the given product ids. Each id is
// resolved against the product service and copied into the order.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body order.CreateOrderRequest true "Order"
// @Success 201 {object} order.View
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Failure 502 {object} httpx.HTTPError
// @Router /orders [post]
func createOrderHandler(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "userId and productIds are required")
			return
		}
		products, err := d.ext.FetchProducts(c.Request.Context(), req.ProductIDs)
		if err != nil {
			if errors.Is(err, order.ErrProductNotFound) {
				httpx.Fail(c, http.StatusNotFound, err.Error())
				return
			}
			d.log.Error("fetch products", zap.Error(err))
			httpx.Fail(c, http.StatusBadGateway, "product service error")
			return
		}
		o := req.Order(uuid.NewString(), products)
		d.place(c, &o, "products")
	}
}

// checkoutHandler places an order from a stored cart. The cart's products
// are copied in order; its totalPrice is not carried over.
// @Summary Checkout cart
// @Accept json
// @Produce json
// @Param checkout body order.CheckoutRequest true "Checkout"
// @Success 201 {object} order.View
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Failure 502 {object} httpx.HTTPError
// @Router /orders/checkout [post]
func checkoutHandler(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "userId and cartId are required")
			return
		}
		cr, err := d.ext.FetchCart(c.Request.Context(), req.CartID)
		if err != nil {
			if errors.Is(err, order.ErrCartNotFound) {
				httpx.Fail(c, http.StatusNotFound, "cart not found")
				return
			}
			d.log.Error("fetch cart", zap.Error(err))
			httpx.Fail(c, http.StatusBadGateway, "cart service error")
			return
		}
		o := req.Order(uuid.NewString(), *cr)
		d.place(c, &o, "cart")
	}
}

// getOrderHandler
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.View
// @Failure 404 {object} httpx.HTTPError
// @Router /orders/{id} [get]
func getOrderHandler(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := d.repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "not found")
				return
			}
			d.log.Error("get order", zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "get error")
			return
		}
		c.JSON(http.StatusOK, order.View{Order: *o})
	}
}

// listUserOrdersHandler
// @Summary List a user's orders
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "page size (1-100)"
// @Param offset query int false "offset"
// @Success 200 {object} order.ListResponse
// @Router /users/{user_id}/orders [get]
func listUserOrdersHandler(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		limit, offset = order.Page(limit, offset)

		items, err := d.repo.ListByUser(c.Request.Context(), c.Param("user_id"), limit, offset)
		if err != nil {
			d.log.Error("list orders", zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "list error")
			return
		}
		if items == nil {
			items = []order.Order{}
		}
		c.JSON(http.StatusOK, order.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// updateStatusHandler stores any non-empty status string.
// @Summary Update order status
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body order.UpdateStatusRequest true "Status"
// @Success 200 {object} order.View
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Router /orders/{id}/status [patch]
func updateStatusHandler(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "status is required")
			return
		}
		ctx := c.Request.Context()
		id := c.Param("id")
		if err := d.repo.UpdateStatus(ctx, id, req.Status); err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "not found")
				return
			}
			d.log.Error("update status", zap.String("id", id), zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "update error")
			return
		}
		d.publish(ctx, events.New(events.TypeOrderStatusChanged, id, map[string]any{"status": req.Status}))

		o, err := d.repo.GetByID(ctx, id)
		if err != nil {
			d.log.Error("refetch order", zap.String("id", id), zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "refetch error")
			return
		}
		c.JSON(http.StatusOK, order.View{Order: *o})
	}
}

// deleteOrderHandler
// @Summary Delete order
// @Param id path string true "Order ID"
// @Success 204
// @Failure 404 {object} httpx.HTTPError
// @Router /orders/{id} [delete]
func deleteOrderHandler(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")
		ok, err := d.repo.Delete(ctx, id)
		if err != nil {
			d.log.Error("delete order", zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "delete error")
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "not found")
			return
		}
		d.publish(ctx, events.New(events.TypeOrderDeleted, id, nil))
		c.Status(http.StatusNoContent)
	}
}
