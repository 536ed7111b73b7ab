package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/tourbot/core/logger"
)

// PostgresStore keeps orders in the orders table, one row per item.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type orderRow struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	FIO       string    `db:"fio"`
	Packaging string    `db:"packaging"`
	ItemID    string    `db:"item_id"`
	Name      string    `db:"name"`
	Unit      string    `db:"unit"`
	Qty       int       `db:"qty"`
	Price     float64   `db:"price"`
	SavedAt   time.Time `db:"saved_at"`
	Position  int       `db:"position"`
}

const selectOrderColumns = `user_id, username, fio, packaging, item_id, name, unit, qty, price, saved_at, position`

// Get loads the user's order.
func (s *PostgresStore) Get(ctx context.Context, userID int64) (Order, error) {
	var rows []orderRow
	q := `SELECT ` + selectOrderColumns + ` FROM orders WHERE user_id = $1 ORDER BY position`
	if err := s.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return Order{}, fmt.Errorf("order: select: %w", err)
	}
	orders := groupRows(rows)
	if len(orders) == 0 {
		return Order{}, ErrNotFound
	}
	return orders[0], nil
}

// Put replaces all rows of the user's order in one transaction.
func (s *PostgresStore) Put(ctx context.Context, o Order) (err error) {
	if o.SavedAt.IsZero() {
		o.SavedAt = time.Now()
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("order: begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.SVCOrders.LogAttrs(ctx, slog.LevelWarn, "order.rollback_failed",
					slog.String("err", rbErr.Error()),
				)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE user_id = $1`, o.UserID); err != nil {
		return fmt.Errorf("order: clear: %w", err)
	}
	for i, it := range o.Items {
		row := orderRow{
			UserID: o.UserID, Username: o.Username, FIO: o.FullName, Packaging: o.Packaging,
			ItemID: it.ID, Name: it.Name, Unit: it.Unit, Qty: it.Qty, Price: it.Price,
			SavedAt: o.SavedAt, Position: i,
		}
		_, err = tx.NamedExecContext(ctx, `INSERT INTO orders (`+selectOrderColumns+`)
			VALUES (:user_id, :username, :fio, :packaging, :item_id, :name, :unit, :qty, :price, :saved_at, :position)`, row)
		if err != nil {
			return fmt.Errorf("order: insert item %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("order: commit: %w", err)
	}
	return nil
}

// Delete removes the user's order rows.
func (s *PostgresStore) Delete(ctx context.Context, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("order: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("order: rows affected: %w", err)
	}
	return n > 0, nil
}

// All loads every order, ordered by user id.
func (s *PostgresStore) All(ctx context.Context) ([]Order, error) {
	var rows []orderRow
	q := `SELECT ` + selectOrderColumns + ` FROM orders ORDER BY user_id, position`
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("order: select all: %w", err)
	}
	return groupRows(rows), nil
}

// groupRows folds rows sorted by user id into orders.
func groupRows(rows []orderRow) []Order {
	var out []Order
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].UserID != r.UserID {
			out = append(out, Order{
				UserID:    r.UserID,
				Username:  r.Username,
				FullName:  r.FIO,
				Packaging: r.Packaging,
				SavedAt:   r.SavedAt,
			})
		}
		last := &out[len(out)-1]
		last.Items = append(last.Items, Item{ID: r.ItemID, Name: r.Name, Unit: r.Unit, Qty: r.Qty, Price: r.Price})
	}
	return out
}
