package router

import (
	"log/slog"
	"sync"
	"time"

	tg "github.com/m3rciful/tourbot/core/telegram"
	"github.com/m3rciful/tourbot/core/telegram/callbacks"
	"github.com/m3rciful/tourbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises parsing and fallback behaviour for callbacks.
type CallbackOptions struct {
	// Parse maps raw callback data to a registry key and its argument.
	// Defaults to callbacks.Split.
	Parse    func(data string) (key, payload string)
	NotFound tele.HandlerFunc
	// OnError answers a failed or panicked callback. It receives the same
	// answer-once context as the handler, so its reply replaces the plain
	// ack. The error is treated as handled and not returned to telebot.
	OnError func(c tele.Context, err error) error
}

// ackOnceContext lets a handler answer the callback with its own text while
// guaranteeing that Telegram receives exactly one answer per callback.
type ackOnceContext struct {
	tele.Context
	once *sync.Once
}

func (a ackOnceContext) Respond(resp ...*tele.CallbackResponse) error {
	var err error
	a.once.Do(func() { err = a.Context.Respond(resp...) })
	return err
}

func (a ackOnceContext) RespondText(text string) error {
	return a.Respond(&tele.CallbackResponse{Text: text})
}

func (a ackOnceContext) RespondAlert(text string) error {
	return a.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

// CallbackRoute returns a handler that routes callbacks through the registry.
// The callback is answered once: by the handler or OnError if they respond,
// otherwise by the route afterwards. Panics are recovered inside that scope.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	parse := opts.Parse
	if parse == nil {
		parse = callbacks.Split
	}
	dispatch := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		key, payload := parse(cb.Data)
		if cb.Unique != "" {
			key, payload = cb.Unique, cb.Data
		}
		callbacks.StorePayload(c, payload)
		name := "callback." + handlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if opts.NotFound != nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return runHandler(c, name, start, fallback, extras...)
		}

		return runHandler(c, name, start, cbHandler, extras...)
	}
	handler := func(raw tele.Context) error {
		if raw.Callback() == nil {
			return nil
		}

		c := ackOnceContext{Context: raw, once: &sync.Once{}}
		defer func() { _ = c.Respond() }()

		err := middleware.RecoverMiddleware(dispatch)(c)
		if err != nil && opts.OnError != nil {
			return opts.OnError(c, err)
		}
		return err
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.LoggerMiddleware(handler),
	}
}
