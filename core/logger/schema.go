package logger

import "strings"

// Level names as they appear in the level field.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

// enum lists the accepted spellings of a field and their canonical form.
type enum map[string]string

func (e enum) lookup(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", false
	}
	canon, ok := e[v]
	return canon, ok
}

func values(vs ...string) enum {
	e := make(enum, len(vs))
	for _, v := range vs {
		e[v] = v
	}
	return e
}

var (
	levels = enum{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"fatal":   LevelFatal,
	}
	statuses = values("ok", "fail", "skip", "retry", "rate_limited", "cancelled")
	caches   = values("hit", "miss", "refresh")
	outcomes = values("ok", "fail", "cancelled", "rate_limited")
)

// normalizeLevel maps slog and config spellings onto the level names above.
// Unknown levels such as "DEBUG-4" are upper-cased as is.
func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if canon, ok := levels.lookup(level); ok {
		return canon
	}
	return strings.ToUpper(level)
}

func normalizeStatus(s string) (string, bool)  { return statuses.lookup(s) }
func normalizeCache(s string) (string, bool)   { return caches.lookup(s) }
func normalizeOutcome(s string) (string, bool) { return outcomes.lookup(s) }

// defaultKeyOrder fixes the leading keys of every line; the rest follow alphabetically.
var defaultKeyOrder = []string{
	// envelope
	"ts", "level", "component", "event", "status", "rid", "rid_full", "ts_unix_nano",
	// update
	"update_id", "user_id", "chat_id", "chat_type", "handler", "operation", "op", "cb_key",
	"outcome", "duration_ms", "messages", "kb", "files", "count", "page", "pages", "cache",
	"payload", "lang", "username",
	// runtime
	"mode", "listen", "public_url", "http_code", "db", "host", "port",
	// domain
	"tour_id", "date", "category", "items", "total", "ticket_id", "operator_msg_id",
	// failure
	"err", "err_code", "cause", "retryable", "attempts", "backoff_ms", "rate_limited",
	// http
	"path", "method", "http_status",
}
