package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/storefront/internal/product"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PGRepo keeps orders in PostgreSQL. Products are snapshotted into
// order_products by value, in order, so later catalog edits do not
// rewrite placed orders.
type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, user_id, status, created_at, updated_at)
    VALUES ($1,$2,$3,NOW(),NOW())
  `, o.ID, o.UserID, o.Status); err != nil {
		return err
	}

	for i, p := range o.Products {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_products (order_id, position, product_id, name, description, price, image)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, o.ID, i, p.ID, p.Name, p.Description, p.Price, p.Image); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
    SELECT id, user_id, status FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	byOrder, err := r.products(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Products = byOrder[id]
	if o.Products == nil {
		o.Products = []product.Product{}
	}
	return &o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit, offset = Page(limit, offset)
	rows, err := r.db.Query(ctx, `
    SELECT id, user_id, status
    FROM orders WHERE user_id=$1
    ORDER BY created_at DESC LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	var ids []string
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status); err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	byOrder, err := r.products(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Products = byOrder[out[i].ID]
		if out[i].Products == nil {
			out[i].Products = []product.Product{}
		}
	}
	return out, nil
}

func (r *PGRepo) products(ctx context.Context, orderIDs []string) (map[string][]product.Product, error) {
	rows, err := r.db.Query(ctx, `
    SELECT order_id, product_id, name, description, price::text, image
    FROM order_products
    WHERE order_id = ANY($1)
    ORDER BY order_id, position
  `, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]product.Product, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			p       product.Product
		)
		if err := rows.Scan(&orderID, &p.ID, &p.Name, &p.Description, &p.Price, &p.Image); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], p)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order; order_products rows go with it (ON DELETE CASCADE).
func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Page clamps a listing window: limit to (0,100] with 20 as the default,
// offset to >= 0.
func Page(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
