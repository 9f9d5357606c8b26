package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/product"
)

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

func list(c *gin.Context, repo product.Repository, log *zap.Logger, q product.Query) {
	q = q.Normalize()
	items, err := repo.List(c.Request.Context(), q)
	if err != nil {
		log.Error("list products", zap.String("q", q.Q), zap.Error(err))
		httpx.Fail(c, http.StatusInternalServerError, "list error")
		return
	}
	c.JSON(http.StatusOK, product.ListResponse{
		List:   product.List{Products: items},
		Q:      q.Q,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// listOnlyHandler pages through the catalog without a search filter.
// @Summary List products
// @Produce json
// @Param limit query int false "page size (1-100)"
// @Param offset query int false "offset"
// @Success 200 {object} product.ListResponse
// @Router /products [get]
func listOnlyHandler(repo product.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pageParams(c)
		list(c, repo, log, product.Query{Limit: limit, Offset: offset})
	}
}

// searchHandler filters by name/description.
// @Summary Search products
// @Produce json
// @Param q query string true "search text, at least 2 characters"
// @Success 200 {object} product.ListResponse
// @Failure 400 {object} httpx.HTTPError
// @Router /products/search [get]
func searchHandler(repo product.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len([]rune(q)) < 2 {
			httpx.Fail(c, http.StatusBadRequest, "q must have at least 2 characters")
			return
		}
		limit, offset := pageParams(c)
		list(c, repo, log, product.Query{Q: q, Limit: limit, Offset: offset})
	}
}

// getProductHandler
// @Summary Get product
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} product.Product
// @Failure 404 {object} httpx.HTTPError
// @Router /products/{id} [get]
func getProductHandler(repo product.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "not found")
				return
			}
			log.Error("get product", zap.String("id", c.Param("id")), zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "get error")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler
// @Summary Create product
// @Accept json
// @Produce json
// @Param product body product.CreateProductRequest true "Product"
// @Success 201 {object} product.Product
// @Failure 400 {object} httpx.HTTPError
// @Router /products [post]
func createProductHandler(repo product.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "name and price are required")
			return
		}
		p := req.Product(uuid.NewString())
		if err := repo.Create(c.Request.Context(), &p); err != nil {
			log.Error("create product", zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "create error")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler applies a partial update. Omitted fields keep their value.
// @Summary Update product
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body product.UpdateProductRequest true "Fields to change"
// @Success 200 {object} product.Product
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Router /products/{id} [put]
func updateProductHandler(repo product.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		ctx := c.Request.Context()
		p, err := repo.GetByID(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "not found")
				return
			}
			log.Error("get product for update", zap.String("id", c.Param("id")), zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "get error")
			return
		}
		req.Apply(p)
		if err := repo.Update(ctx, p); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "not found")
				return
			}
			log.Error("update product", zap.String("id", p.ID), zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "update error")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// deleteProductHandler
// @Summary Delete product
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} httpx.HTTPError
// @Router /products/{id} [delete]
func deleteProductHandler(repo product.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			log.Error("delete product", zap.Error(err))
			httpx.Fail(c, http.StatusInternalServerError, "delete error")
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
