package router

import (
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/tourbot/core/logger"
	tghelpers "github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// handled is the summary line written once per routed update.
type handled struct {
	name    string
	start   time.Time
	skipped bool
	err     error
	extras  []slog.Attr
}

// runHandler invokes h under name and logs the summary.
func runHandler(c tele.Context, name string, start time.Time, h tele.HandlerFunc, extras ...slog.Attr) error {
	tghelpers.WithHandler(c, name)
	var err error
	if h != nil {
		err = h(c)
	}
	handled{name: name, start: start, err: err, extras: extras}.log(c)
	return err
}

// logSkipped records an update that matched no handler.
func logSkipped(c tele.Context, name string, start time.Time) {
	handled{name: name, start: start, skipped: true}.log(c)
}

func (s handled) log(c tele.Context) {
	ctx := tghelpers.WithHandler(c, s.name)
	counters := middleware.Counters(c)

	status, outcome := "ok", "ok"
	switch {
	case s.err != nil:
		status, outcome = "fail", "fail"
	case s.skipped:
		status = "skip"
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", s.name),
		slog.String("outcome", outcome),
		slog.Int("messages", counters.Messages),
		slog.Bool("kb", counters.Keyboard),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(s.start)).Milliseconds()),
	}
	if counters.Files > 0 {
		attrs = append(attrs, slog.Int("files", counters.Files))
	}
	if s.err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(s.err.Error(), 256)),
			slog.String("err_code", errorCode(s.err)),
			slog.String("cause", s.name),
		)
	}
	attrs = append(attrs, s.extras...)
	logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "handler.handled", attrs...)
}

// handlerName turns a command, button key or resolver name into a log-friendly identifier.
func handlerName(raw string) string {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(raw, " ", "_"))
}

// errorCode prefers an error's own Code method and falls back to its type name.
func errorCode(err error) string {
	upper := func(s string) string { return strings.ToUpper(strings.ReplaceAll(s, " ", "_")) }
	if c, ok := err.(interface{ Code() string }); ok {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return upper(code)
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return upper(t.Name())
}
