package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/m3rciful/tourbot/core/logger"
	tghelpers "github.com/m3rciful/tourbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

var panicReply atomic.Pointer[tele.HandlerFunc]

// SetPanicReply sets the reply sent after a recovered panic. Nil disables it.
func SetPanicReply(h tele.HandlerFunc) {
	var p *tele.HandlerFunc
	if h != nil {
		p = &h
	}
	panicReply.Store(p)
}

// RecoverMiddleware turns a handler panic into an error log with the stack
// and the configured user reply. The update is then treated as handled.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(tghelpers.BuildContext(c), "tg", "tg.panic",
					slog.String("err", fmt.Sprint(r)),
					slog.String("stack", string(debug.Stack())),
				)
				if reply := panicReply.Load(); reply != nil {
					_ = (*reply)(c)
				}
				err = nil
			}
		}()
		return next(c)
	}
}
