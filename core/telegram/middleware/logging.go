package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/tourbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const receiptTTL = 10 * time.Second

// receipts remembers update IDs whose receipt was already logged. The logger
// middleware wraps several routes, so one update can pass through it twice.
var receipts = struct {
	sync.Mutex
	at map[int]time.Time
}{at: make(map[int]time.Time)}

// firstReceipt reports whether updateID is seen for the first time within receiptTTL.
func firstReceipt(updateID int, now time.Time) bool {
	receipts.Lock()
	defer receipts.Unlock()
	for id, ts := range receipts.at {
		if now.Sub(ts) > receiptTTL {
			delete(receipts.at, id)
		}
	}
	if _, dup := receipts.at[updateID]; dup {
		return false
	}
	receipts.at[updateID] = now
	return true
}

// LoggerMiddleware assigns the request id, stores the logging context and
// writes one sampled update.received line per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set("update_start", time.Now())
		ctx, rid := tghelpers.NewUpdateContext(c)
		upd := c.Update()

		if logger.ShouldSampleDebug() && firstReceipt(upd.ID, time.Now()) {
			attrs := append([]slog.Attr{
				slog.String("status", "ok"),
				slog.String("rid", rid),
				slog.Int("update_id", upd.ID),
			}, receiptAttrs(c)...)
			logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)
		}
		return next(c)
	}
}

// receiptAttrs describes the sender, chat and payload of the update.
func receiptAttrs(c tele.Context) []slog.Attr {
	var attrs []slog.Attr
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.Int64("chat_id", chat.ID), slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil {
		attrs = append(attrs, slog.Int64("user_id", user.ID))
		if user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		if user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
	}

	upd := c.Update()
	var payload string
	switch {
	case upd.Callback != nil:
		var key string
		key, payload = callbacks.ParseCallbackData(upd.Callback)
		if key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		}
	case upd.Message != nil && upd.Message.WebAppData != nil:
		payload = upd.Message.WebAppData.Data
	case upd.Message != nil:
		payload = c.Text()
	}
	if payload != "" {
		attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
	}
	return attrs
}
