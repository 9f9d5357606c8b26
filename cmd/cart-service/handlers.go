package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/product"
)

// withItems keeps an absent item list rendering as [] instead of null.
func withItems(c cart.Cart) cart.Cart {
	if c.Items == nil {
		c.Items = []product.Product{}
	}
	return c
}

func storeError(c *gin.Context, log *zap.Logger, op string, err error) {
	if errors.Is(err, cart.ErrNotFound) {
		httpx.Fail(c, http.StatusNotFound, "cart not found")
		return
	}
	if errors.Is(err, cart.ErrConflict) {
		log.Warn(op, zap.Error(err))
		httpx.Fail(c, http.StatusConflict, "cart is busy, retry")
		return
	}
	log.Error(op, zap.Error(err))
	httpx.Fail(c, http.StatusInternalServerError, op+" error")
}

// createCartHandler stores the posted cart as-is. totalPrice is not
// checked against the items.
// @Summary Create cart
// @Accept json
// @Produce json
// @Param cart body cart.Cart true "Cart"
// @Success 201 {object} cart.CreateResponse
// @Failure 400 {object} httpx.HTTPError
// @Router /carts [post]
func createCartHandler(store cart.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body cart.Cart
		if err := c.ShouldBindJSON(&body); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		body = withItems(body)
		id := uuid.NewString()
		if err := store.Create(c.Request.Context(), id, body); err != nil {
			storeError(c, log, "create", err)
			return
		}
		c.JSON(http.StatusCreated, cart.CreateResponse{ID: id, Cart: body})
	}
}

// getCartHandler
// @Summary Get cart
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} cart.View
// @Failure 404 {object} httpx.HTTPError
// @Router /carts/{id} [get]
func getCartHandler(store cart.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, log, "get", err)
			return
		}
		c.JSON(http.StatusOK, cart.View{Cart: withItems(*got)})
	}
}

// putCartHandler replaces the whole cart.
// @Summary Replace cart
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param cart body cart.Cart true "Cart"
// @Success 200 {object} cart.View
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Router /carts/{id} [put]
func putCartHandler(store cart.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body cart.Cart
		if err := c.ShouldBindJSON(&body); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		body = withItems(body)
		if err := store.Put(c.Request.Context(), c.Param("id"), body); err != nil {
			storeError(c, log, "put", err)
			return
		}
		c.JSON(http.StatusOK, cart.View{Cart: body})
	}
}

// addItemHandler appends one product. totalPrice is left as the client
// last set it.
// @Summary Add item to cart
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param product body product.Product true "Product"
// @Success 200 {object} cart.View
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Failure 409 {object} httpx.HTTPError
// @Router /carts/{id}/items [post]
func addItemHandler(store cart.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p product.Product
		if err := c.ShouldBindJSON(&p); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		cur, err := store.Append(c.Request.Context(), c.Param("id"), p)
		if err != nil {
			storeError(c, log, "append", err)
			return
		}
		c.JSON(http.StatusOK, cart.View{Cart: withItems(*cur)})
	}
}

// deleteCartHandler
// @Summary Delete cart
// @Param id path string true "Cart ID"
// @Success 204
// @Failure 404 {object} httpx.HTTPError
// @Router /carts/{id} [delete]
func deleteCartHandler(store cart.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := store.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, log, "delete", err)
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "cart not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
