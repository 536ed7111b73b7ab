package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/m3rciful/tourbot/core/buildinfo"
	coreconfig "github.com/m3rciful/tourbot/core/config"
)

var (
	initOnce sync.Once

	closeMu  sync.Mutex
	closed   bool
	sinks    []*asyncWriter
	sinkFile []io.Closer

	levelVar     slog.LevelVar
	debugSampler = newRatioSampler(1, defaultDebugSample)
	trace        bool

	// L is the process-wide logger; prefer the component loggers below.
	L *slog.Logger

	// DB logs database connection events.
	DB *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TWire logs Telegram wiring steps.
	TWire *slog.Logger
	// Catalog logs content repository loads and reloads.
	Catalog *slog.Logger
	// SVCOrders logs souvenir order activity.
	SVCOrders *slog.Logger
	// SVCRegistrations logs tour registration activity.
	SVCRegistrations *slog.Logger
	// SVCSupport logs support relay activity.
	SVCSupport *slog.Logger
	// WebApp logs the Web App HTTP server.
	WebApp *slog.Logger
)

// components maps each component logger to its component attribute.
var components = []struct {
	dst  **slog.Logger
	name string
}{
	{&DB, "db"},
	{&TG, "tg"},
	{&MIG, "db.migrate"},
	{&TWire, "tg.wire"},
	{&Catalog, "catalog"},
	{&SVCOrders, "service.orders"},
	{&SVCRegistrations, "service.registrations"},
	{&SVCSupport, "service.support"},
	{&WebApp, "webapp"},
}

func init() {
	// Packages and tests may log before InitLogger runs.
	setBase(slog.Default())
}

func setBase(base *slog.Logger) {
	L = base
	for _, c := range components {
		*c.dst = base.With("component", c.name)
	}
}

// InitLogger configures the global structured logger. Only the first call has effect.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		o := resolveOptions(cfg)
		levelVar.Set(o.level)
		debugSampler.Set(o.sampleNum, o.sampleDen)
		trace = o.trace

		out, errOut, files := o.sinks()
		sinkFile = files
		hc := handlerConfig{
			level:    &levelVar,
			writer:   newAsyncWriter(out, 64*1024),
			format:   o.format,
			keyOrder: o.keyOrder,
		}
		sinks = append(sinks, hc.writer)
		if errOut != nil {
			hc.errors = newAsyncWriter([]io.Writer{errOut}, 16*1024)
			sinks = append(sinks, hc.errors)
		}

		base := slog.New(newStructuredHandler(hc))
		slog.SetDefault(base)
		setBase(base)

		attrs := []slog.Attr{
			slog.String("component", "app"),
			slog.String("go_version", runtime.Version()),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
		}
		if o.profile != "" {
			attrs = append(attrs, slog.String("cfg_profile", o.profile))
		}
		LogEvent(context.Background(), base, slog.LevelInfo, "startup", attrs...)
	})
	return nil
}

// Shutdown flushes buffered output and closes log files. Later calls are no-ops.
func Shutdown() error {
	closeMu.Lock()
	defer closeMu.Unlock()
	if closed {
		return nil
	}
	closed = true

	var errs []error
	for _, w := range sinks {
		errs = append(errs, w.Flush(), w.Close())
	}
	for _, c := range sinkFile {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Background returns context.Background().
func Background() context.Context {
	return context.Background()
}

// LogEvent logs attrs under event. A nil logg falls back to the context logger.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Component returns L scoped to name. An empty name yields L itself.
func Component(name string) *slog.Logger {
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// Event logs event for component at level.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), level, event, attrs...)
}

// Debug logs a debug-level event for the given component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

// Info logs an info-level event for the given component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

// Warn logs a warn-level event for the given component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

// Error logs an error-level event for the given component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

// ShouldSampleDebug reports whether a high-volume debug event should be logged.
// TRACE or LOG_TRACE in the environment lets every event through.
func ShouldSampleDebug() bool {
	return trace || debugSampler.Allow()
}
