package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/tourbot/core/config"
	coredatabase "github.com/m3rciful/tourbot/core/database"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunFileStorage(t *testing.T) {
	var seeded []string
	res, err := Run(context.Background(), Options[string]{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			t.Fatal("connect called without a database config")
			return nil, nil
		},
		Modules: Modules[string]{
			Seeders: []Seeder{
				SeederFunc(func(context.Context, Storage) error { seeded = append(seeded, "dirs"); return nil }),
				nil,
				SeederFunc(func(context.Context, Storage) error { seeded = append(seeded, "content"); return nil }),
			},
			Services: ServiceProviderFunc[string](func(_ context.Context, s Storage) (string, error) {
				if s.DB != nil {
					t.Fatal("file storage must not carry a DB")
				}
				return "services", nil
			}),
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Services != "services" || strings.Join(seeded, ",") != "dirs,content" {
		t.Fatalf("services=%q seeded=%v", res.Services, seeded)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRunStopsOnSeederError(t *testing.T) {
	boom := errors.New("boom")
	provided := false
	_, err := Run(context.Background(), Options[int]{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Modules: Modules[int]{
			Seeders: []Seeder{SeederFunc(func(context.Context, Storage) error { return boom })},
			Services: ServiceProviderFunc[int](func(context.Context, Storage) (int, error) {
				provided = true
				return 1, nil
			}),
		},
	})
	if !errors.Is(err, boom) || provided {
		t.Fatalf("err=%v provided=%v", err, provided)
	}
}

func TestRunReportsConnectFailure(t *testing.T) {
	dial := errors.New("dial tcp: refused")
	migrated := false
	_, err := Run(context.Background(), Options[int]{
		Config:     &coreconfig.Config{},
		Database:   &coredatabase.Config{Host: "db"},
		LoggerInit: noLogger,
		Connect:    func(coredatabase.Config) (*sqlx.DB, error) { return nil, dial },
		Migrate:    func(coredatabase.Config) error { migrated = true; return nil },
	})
	if !errors.Is(err, dial) || migrated {
		t.Fatalf("err=%v migrated=%v", err, migrated)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if _, err := Run(context.Background(), Options[int]{}); err == nil {
		t.Fatal("nil config accepted")
	}
}
