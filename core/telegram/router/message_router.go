package router

import (
	"time"

	tg "github.com/m3rciful/tourbot/core/telegram"
	"github.com/m3rciful/tourbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextResolver maps an incoming text message to a handler before command aliases are consulted.
// It is where conversation state and menu labels take precedence over everything else.
type TextResolver interface {
	ResolveText(c tele.Context) (name string, h tele.HandlerFunc, ok bool)
}

// TextResolverFunc adapts a function to TextResolver.
type TextResolverFunc func(c tele.Context) (string, tele.HandlerFunc, bool)

// ResolveText calls f(c).
func (f TextResolverFunc) ResolveText(c tele.Context) (string, tele.HandlerFunc, bool) {
	return f(c)
}

// TextOptions controls fallback behaviour for text/document updates.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// FallbackProvider supplies the handlers for text and documents that match no route.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
}

// TextOptionsFrom builds TextOptions from a fallback provider.
func TextOptionsFrom(p FallbackProvider) TextOptions {
	if p == nil {
		return TextOptions{}
	}
	return TextOptions{
		UnknownText:     p.UnknownText(),
		UnknownDocument: p.UnknownDocument(),
	}
}

// TextRoutes builds handlers for text and document routing.
// Precedence: resolver, then registry command lookup, then registry fallback, then UnknownText.
func TextRoutes(resolver TextResolver, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if resolver != nil {
			if name, h, ok := resolver.ResolveText(c); ok {
				if h == nil {
					logSkipped(c, handlerName(name), start)
					return nil
				}
				return runHandler(c, handlerName(name), start, h)
			}
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				return runHandler(c, handlerName(key), start, cmd.Handler)
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return runHandler(c, "fallback", start, fb)
			}
		}

		if opts.UnknownText != nil {
			return runHandler(c, "unknown_text", start, opts.UnknownText)
		}

		logSkipped(c, "unknown_text", start)
		return nil
	}

	docHandler := func(c tele.Context) error {
		start := time.Now()
		if opts.UnknownDocument != nil {
			return runHandler(c, "unexpected_document", start, opts.UnknownDocument)
		}
		logSkipped(c, "unexpected_document", start)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnDocument,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(docHandler)),
		},
	}
}
