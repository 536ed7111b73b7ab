package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/m3rciful/tourbot/core/bootstrap"
	"github.com/m3rciful/tourbot/core/cmd"
	"github.com/m3rciful/tourbot/core/logger"
	coretelegram "github.com/m3rciful/tourbot/core/telegram"
	"github.com/m3rciful/tourbot/internal/bot"
	"github.com/m3rciful/tourbot/internal/catalog"
	"github.com/m3rciful/tourbot/internal/config"
	"github.com/m3rciful/tourbot/internal/order"
	"github.com/m3rciful/tourbot/internal/registration"
	"github.com/m3rciful/tourbot/internal/support"
	"github.com/m3rciful/tourbot/internal/userlog"
	"github.com/m3rciful/tourbot/internal/webapp"
)

type services struct {
	catalog       *catalog.Repository
	orderStore    order.Store
	orders        *order.Service
	registrations *registration.Service
	tickets       *support.CacheStore
	sender        *bot.TeleSender
	relay         *support.Relay
	journal       *userlog.Journal
}

type app struct {
	cfg       *config.Config
	res       *bootstrap.Result[*services]
	bot       *bot.Bot
	web       *webapp.Server
	stopWatch context.CancelFunc
}

func bootstrapApp(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(ctx, bootstrap.Options[*services]{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database(),
		Modules: bootstrap.Modules[*services]{
			Seeders: []bootstrap.Seeder{bootstrap.SeederFunc(func(context.Context, bootstrap.Storage) error {
				return makeDirs(cfg)
			})},
			Services: bootstrap.ServiceProviderFunc[*services](func(_ context.Context, st bootstrap.Storage) (*services, error) {
				return provideServices(cfg, st)
			}),
		},
	})
	if err != nil {
		return nil, err
	}

	svc := res.Services
	images := bot.NewImageChecker(
		coretelegram.BuildHTTPClient(coretelegram.WithRetries(0), coretelegram.WithTimeout(cfg.ImageCheckTimeout)),
		cfg.ImageCheckTimeout,
	)
	a := &app{
		cfg: cfg,
		res: res,
		bot: bot.New(bot.Deps{
			Catalog:       svc.catalog,
			Registrations: svc.registrations,
			Orders:        svc.orders,
			Relay:         svc.relay,
			Journal:       svc.journal,
			Images:        images,
			WebAppURL:     cfg.WebApp.URL,
			WelcomeText:   cfg.WelcomeText,
			BotUsername:   cfg.BotUsername,
		}),
	}
	if cfg.WebApp.Enabled() {
		a.web = webapp.NewServer(webapp.Options{
			Addr:           cfg.WebApp.Addr(),
			StaticDir:      cfg.WebApp.StaticDir,
			AllowedOrigins: cfg.WebApp.AllowedOrigins,
			Orders:         svc.orderStore,
		})
	}
	return a, nil
}

func makeDirs(cfg *config.Config) error {
	dirs := []string{cfg.Dirs.Data, cfg.Dirs.Materials, cfg.Dirs.Logs}
	if cfg.Storage.Driver == config.DriverFile {
		dirs = append(dirs, cfg.Dirs.Orders, cfg.Dirs.Registrations)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

func provideServices(cfg *config.Config, st bootstrap.Storage) (*services, error) {
	var (
		orderStore order.Store
		regStore   registration.Store
	)
	if st.DB != nil {
		orderStore = order.NewPostgresStore(st.DB)
		regStore = registration.NewPostgresStore(st.DB)
	} else {
		orderStore = order.NewFileStore(cfg.Dirs.Orders)
		regStore = registration.NewFileStore(cfg.Dirs.Registrations)
	}

	tickets, err := support.NewCacheStore(cfg.Support.TicketTTL)
	if err != nil {
		return nil, err
	}
	sender := &bot.TeleSender{}
	if cfg.Support.OperatorsChatID == 0 {
		logger.L.With("component", "app").Warn("operator chat is not configured",
			slog.String("event", "support.disabled"),
		)
	}

	return &services{
		catalog:       catalog.NewRepository(cfg.Dirs.Data, cfg.Dirs.Materials),
		orderStore:    orderStore,
		orders:        order.NewService(orderStore),
		registrations: registration.NewService(regStore),
		tickets:       tickets,
		sender:        sender,
		relay:         support.NewRelay(tickets, sender, cfg.Support.OperatorsChatID),
		journal:       userlog.New(cfg.Dirs.Logs),
	}, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.bot.Register(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}
	core := a.cfg.CoreConfig()
	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, a.bot.OnRateLimited),
		Routes:      a.bot.Routes(reg, core.Telegram.AdminID),
		OnError:     a.bot.OnError,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *app) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	svc := a.res.Services
	svc.sender.Attach(rt.Bot)

	watchCtx, cancel := context.WithCancel(ctx)
	a.stopWatch = cancel
	if err := svc.catalog.Watch(watchCtx); err != nil {
		logger.Catalog.Warn("catalog watch disabled",
			slog.String("event", "catalog.watch_failed"),
			slog.String("err", err.Error()),
		)
	}

	if a.web != nil {
		if err := a.web.Start(ctx); err != nil {
			cancel()
			return err
		}
	}
	return nil
}

func (a *app) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	var errs []error
	if a.web != nil {
		errs = append(errs, a.web.Shutdown(ctx))
	}
	errs = append(errs, a.res.Services.tickets.Close(), a.res.Close())
	return errors.Join(errs...)
}
