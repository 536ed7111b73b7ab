package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	coreconfig "github.com/m3rciful/tourbot/core/config"
	coretelegram "github.com/m3rciful/tourbot/core/telegram"
)

type stubConfig struct{ core *coreconfig.Config }

func (s stubConfig) CoreConfig() *coreconfig.Config { return s.core }

type stubApp struct{ opts coretelegram.RunOptions }

func (s stubApp) TelegramRunOptions() (coretelegram.RunOptions, error) { return s.opts, nil }

func TestRunRequiresConfigPath(t *testing.T) {
	t.Setenv("TOURBOT_TEST_CONFIG", "")
	err := Run(Options{
		ConfigEnvVar: "TOURBOT_TEST_CONFIG",
		LoadConfig:   func(string) (ConfigCarrier, error) { return stubConfig{}, nil },
		Bootstrap:    func(context.Context, ConfigCarrier) (TelegramApp, error) { return stubApp{}, nil },
	})
	if err == nil || !strings.Contains(err.Error(), "TOURBOT_TEST_CONFIG") {
		t.Fatalf("expected missing path error, got %v", err)
	}
}

func TestRunRejectsMissingCoreConfig(t *testing.T) {
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        func(string) (ConfigCarrier, error) { return stubConfig{}, nil },
		Bootstrap:         func(context.Context, ConfigCarrier) (TelegramApp, error) { return stubApp{}, nil },
	})
	if err == nil || !strings.Contains(err.Error(), "core configuration") {
		t.Fatalf("expected core config error, got %v", err)
	}
}

func TestRunWrapsLifecycleHooks(t *testing.T) {
	t.Setenv("TOURBOT_TEST_CONFIG", "from-env.yaml")
	var (
		loadedPath string
		calls      []string
		shutdown   bool
	)
	app := stubApp{opts: coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error {
			calls = append(calls, "start")
			return nil
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			calls = append(calls, "stop")
			return nil
		},
	}}
	errRun := errors.New("stopped")

	err := Run(Options{
		ConfigEnvVar:      "TOURBOT_TEST_CONFIG",
		DefaultConfigPath: "ignored.yaml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedPath = path
			return stubConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(context.Context, ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error { shutdown = true; return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			if err := opts.OnStop(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return errRun
		},
	})
	if !errors.Is(err, errRun) {
		t.Fatalf("expected run error, got %v", err)
	}
	if loadedPath != "from-env.yaml" {
		t.Fatalf("loaded %q", loadedPath)
	}
	if strings.Join(calls, ",") != "start,stop" {
		t.Fatalf("hooks = %v", calls)
	}
	if !shutdown {
		t.Fatal("logger shutdown not called")
	}
}

func TestRunStopsOnStartError(t *testing.T) {
	boom := errors.New("boom")
	app := stubApp{opts: coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { return boom },
	}}
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        func(string) (ConfigCarrier, error) { return stubConfig{core: &coreconfig.Config{}}, nil },
		Bootstrap:         func(context.Context, ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger:    func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			return opts.OnStart(ctx, coretelegram.Runtime{})
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
}
