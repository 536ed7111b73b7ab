package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/tourbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval time.Duration
	// Exclude lists update kinds that bypass the limit: message, callback, web_app, other.
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// updateKind names the update for RateLimitOptions.Exclude.
func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil && upd.Message.WebAppData != nil:
		return "web_app"
	case upd.Message != nil:
		return "message"
	}
	return "other"
}

// lastSeen remembers the last accepted update per user. Entries older than the
// interval are swept once the map has grown past sweepAt.
type lastSeen struct {
	mu       sync.Mutex
	interval time.Duration
	seen     map[int64]time.Time
	sweepAt  int
}

const minSweep = 1024

// allow records an update from userID at now unless the previous one is too recent.
func (l *lastSeen) allow(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.seen[userID]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.seen[userID] = now
	if len(l.seen) >= l.sweepAt {
		for id, t := range l.seen {
			if now.Sub(t) >= l.interval {
				delete(l.seen, id)
			}
		}
		l.sweepAt = max(minSweep, 2*len(l.seen))
	}
	return true
}

// RateLimitMiddleware drops updates that arrive from the same user within Interval.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	limiter := &lastSeen{interval: opts.Interval, seen: make(map[int64]time.Time), sweepAt: minSweep}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}
			if limiter.allow(user.ID, time.Now()) {
				return next(c)
			}

			attrs := []any{slog.String("event", "tg.rate_limit"), slog.Int64("user_id", user.ID)}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.Int64("chat_id", chat.ID))
			}
			logger.TG.Warn("rate limit", attrs...)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
