package order

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/tourbot/core/logger"
)

// Service applies the order lifecycle on top of a Store.
type Service struct {
	store Store
}

// NewService builds a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Current returns the user's order, or false when there is none.
func (s *Service) Current(ctx context.Context, userID int64) (Order, bool, error) {
	o, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}
	return o, true, nil
}

// HasOrder reports whether the user has a non-empty order. Read errors count as no order.
func (s *Service) HasOrder(ctx context.Context, userID int64) bool {
	_, ok, err := s.Current(ctx, userID)
	if err != nil {
		logger.SVCOrders.LogAttrs(ctx, slog.LevelError, "order.check_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return ok
}

// Save replaces the user's order with the submitted form.
func (s *Service) Save(ctx context.Context, userID int64, username string, f Form) (Order, error) {
	if len(f.Items) == 0 {
		return Order{}, ErrEmptyCart
	}
	o := Order{
		UserID:    userID,
		Username:  username,
		FullName:  f.FullName,
		Packaging: f.Packaging,
		Items:     f.Items,
	}
	if err := s.store.Put(ctx, o); err != nil {
		return Order{}, err
	}
	logger.SVCOrders.LogAttrs(ctx, slog.LevelInfo, "order.saved",
		slog.Int64("user_id", userID),
		slog.Int("items", len(o.Items)),
		slog.Float64("total", o.Total()),
	)
	return o, nil
}

// Cancel deletes the user's order and reports whether there was one.
func (s *Service) Cancel(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.store.Delete(ctx, userID)
	if err != nil {
		return false, err
	}
	logger.SVCOrders.LogAttrs(ctx, slog.LevelInfo, "order.cancel",
		slog.Int64("user_id", userID),
		slog.Bool("existed", ok),
	)
	return ok, nil
}

// All returns every stored order.
func (s *Service) All(ctx context.Context) ([]Order, error) {
	return s.store.All(ctx)
}
