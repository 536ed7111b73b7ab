package registration

import (
	"context"
	"log/slog"

	"github.com/m3rciful/tourbot/core/logger"
)

// Service applies register/unregister on top of a Store.
// Every change is persisted before it returns.
type Service struct {
	store Store
}

// NewService builds a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the user's current set.
func (s *Service) Get(ctx context.Context, userID int64) (Set, error) {
	return s.store.Load(ctx, userID)
}

// Register adds tourID to the user's set.
func (s *Service) Register(ctx context.Context, userID int64, tourID string) (Set, error) {
	return s.loadAndApply(ctx, userID, tourID, true)
}

// Unregister removes tourID. Removing an absent id is a no-op.
func (s *Service) Unregister(ctx context.Context, userID int64, tourID string) (Set, error) {
	return s.loadAndApply(ctx, userID, tourID, false)
}

// Toggle flips membership of tourID and reports whether the user is now registered.
func (s *Service) Toggle(ctx context.Context, userID int64, tourID string) (bool, Set, error) {
	set, err := s.store.Load(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	on := !set.Has(tourID)
	set, err = s.apply(ctx, userID, set, tourID, on)
	return on, set, err
}

func (s *Service) loadAndApply(ctx context.Context, userID int64, tourID string, on bool) (Set, error) {
	set, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, set, tourID, on)
}

// apply changes set in place and saves it unless membership already matches.
func (s *Service) apply(ctx context.Context, userID int64, set Set, tourID string, on bool) (Set, error) {
	if set.Has(tourID) == on {
		return set, nil
	}
	if on {
		set[tourID] = struct{}{}
	} else {
		delete(set, tourID)
	}
	if err := s.store.Save(ctx, userID, set); err != nil {
		return nil, err
	}
	logger.SVCRegistrations.LogAttrs(ctx, slog.LevelInfo, "registration.changed",
		slog.Int64("user_id", userID),
		slog.String("tour_id", tourID),
		slog.Bool("registered", on),
	)
	return set, nil
}
