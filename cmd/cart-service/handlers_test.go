package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/product"
)

func newRouter(store cart.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes(r, store, zap.NewNop())
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func create(t *testing.T, r http.Handler, body string) cart.CreateResponse {
	t.Helper()
	w := do(r, http.MethodPost, "/carts", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var out cart.CreateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.ID == "" {
		t.Fatal("empty cart id")
	}
	return out
}

func TestCreateEmptyCart(t *testing.T) {
	store := cart.NewMemStore()
	r := newRouter(store)

	created := create(t, r, `{"items":[],"totalPrice":0}`)

	w := do(r, http.MethodGet, "/carts/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"cart":{"items":[],"totalPrice":0}}` {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestCreateCart_TotalIsNotRecomputed(t *testing.T) {
	store := cart.NewMemStore()
	r := newRouter(store)

	created := create(t, r, `{"items":[{"id":"p1","name":"Widget","description":"A widget","price":9.99,"image":"/img/p1.png"}],"totalPrice":1}`)

	got, err := store.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalPrice.String() != "1" {
		t.Fatalf("total rewritten: %s", got.TotalPrice)
	}
	if got.ItemsTotal().String() != "9.99" {
		t.Fatalf("items total=%s", got.ItemsTotal())
	}
}

func TestAddItem_LeavesTotalAlone(t *testing.T) {
	store := cart.NewMemStore()
	r := newRouter(store)
	created := create(t, r, `{"items":[],"totalPrice":5}`)

	w := do(r, http.MethodPost, "/carts/"+created.ID+"/items", `{"id":"p2","name":"Gadget","price":3.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var view cart.View
	_ = json.Unmarshal(w.Body.Bytes(), &view)
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].ID != "p2" {
		t.Fatalf("unexpected items: %+v", view.Cart.Items)
	}
	if view.Cart.TotalPrice.String() != "5" {
		t.Fatalf("total changed: %s", view.Cart.TotalPrice)
	}

	if w := do(r, http.MethodPost, "/carts/nope/items", `{"id":"p2"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/carts/"+created.ID+"/items", `not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPutCart(t *testing.T) {
	store := cart.NewMemStore()
	r := newRouter(store)
	created := create(t, r, `{}`)

	w := do(r, http.MethodPut, "/carts/"+created.ID, `{"items":[{"id":"a","price":1},{"id":"b","price":2}],"totalPrice":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := store.Get(context.Background(), created.ID)
	if len(got.Items) != 2 || got.Items[0].ID != "a" || got.Items[1].ID != "b" {
		t.Fatalf("order not kept: %+v", got.Items)
	}

	if w := do(r, http.MethodPut, "/carts/nope", `{}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteCart(t *testing.T) {
	store := cart.NewMemStore()
	r := newRouter(store)
	created := create(t, r, `{}`)

	if w := do(r, http.MethodDelete, "/carts/"+created.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if w := do(r, http.MethodGet, "/carts/"+created.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/carts/"+created.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

// remoteStore puts a round-trip delay in front of MemStore, like Redis.
type remoteStore struct {
	*cart.MemStore
}

func (s remoteStore) Get(ctx context.Context, id string) (*cart.Cart, error) {
	time.Sleep(2 * time.Millisecond)
	return s.MemStore.Get(ctx, id)
}

func (s remoteStore) Append(ctx context.Context, id string, p product.Product) (*cart.Cart, error) {
	time.Sleep(2 * time.Millisecond)
	return s.MemStore.Append(ctx, id, p)
}

func TestAddItem_ConcurrentRequestsKeepEveryItem(t *testing.T) {
	store := remoteStore{cart.NewMemStore()}
	r := newRouter(store)
	created := create(t, r, `{"items":[],"totalPrice":0}`)

	const n = 50
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"id":"p%d","price":1}`, i)
			codes <- do(r, http.MethodPost, "/carts/"+created.ID+"/items", body).Code
		}(i)
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		if code != http.StatusOK {
			t.Fatalf("status=%d", code)
		}
	}

	got, err := store.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != n {
		t.Fatalf("items stored=%d, want %d", len(got.Items), n)
	}
}
