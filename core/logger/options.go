package logger

import (
	"cmp"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	coreconfig "github.com/m3rciful/tourbot/core/config"
)

const defaultDebugSample = 50

// options is the resolved form of coreconfig.LoggingConfig.
type options struct {
	format   logFormat
	keyOrder []string
	level    slog.Level
	profile  string
	// sampleNum/sampleDen of 0/0 logs every sampled debug event.
	sampleNum, sampleDen int
	trace                bool

	dir, botFile, errorsFile string
}

func resolveOptions(cfg *coreconfig.Config) options {
	o := options{
		format:    formatJSON,
		keyOrder:  append([]string(nil), defaultKeyOrder...),
		level:     slog.LevelInfo,
		sampleNum: 1,
		sampleDen: defaultDebugSample,
		trace:     envFlag("TRACE") || envFlag("LOG_TRACE"),
	}
	if cfg == nil {
		return o
	}
	lc := cfg.Logging

	o.profile = strings.ToLower(cmp.Or(strings.TrimSpace(lc.Profile), "prod"))
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		o.format = formatKV
	case "json":
	default:
		if o.profile == "debug" || o.profile == "dev" {
			o.format = formatKV
		}
	}
	if order := splitKeys(lc.KeysOrder); len(order) > 0 {
		o.keyOrder = order
	}
	switch normalizeLevel(strings.TrimSpace(lc.Level)) {
	case LevelDebug:
		o.level = slog.LevelDebug
	case LevelWarn:
		o.level = slog.LevelWarn
	case LevelError, LevelFatal:
		o.level = slog.LevelError
	}
	if spec := strings.TrimSpace(lc.DebugSample); spec != "" {
		switch num, den := parseRatioSpec(spec); {
		case num == 0 && den == 0:
			o.sampleNum, o.sampleDen = 0, 0
		case num > 0 && den > 0:
			o.sampleNum, o.sampleDen = num, den
		}
	}
	o.dir = strings.TrimSpace(lc.Dir)
	o.botFile = strings.TrimSpace(lc.BotFile)
	o.errorsFile = strings.TrimSpace(lc.ErrorsFile)
	return o
}

// splitKeys parses a comma separated key list; "default" means none.
func splitKeys(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "default" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func envFlag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// sinks opens stdout plus the optional bot and errors files. A file that
// cannot be opened is reported on the standard logger and skipped.
func (o options) sinks() (out []io.Writer, errs io.Writer, closers []io.Closer) {
	out = []io.Writer{os.Stdout}
	if f := o.open(o.botFile); f != nil {
		out = append(out, f)
		closers = append(closers, f)
	}
	if f := o.open(o.errorsFile); f != nil {
		errs = f
		closers = append(closers, f)
	}
	return out, errs, closers
}

func (o options) open(name string) *os.File {
	if o.dir == "" || name == "" {
		return nil
	}
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		log.Printf("logger: create log dir %s: %v", o.dir, err)
		return nil
	}
	path := filepath.Join(o.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("logger: open log file %s: %v", path, err)
		return nil
	}
	return f
}
