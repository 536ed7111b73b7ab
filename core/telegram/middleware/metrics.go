package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const countersKey = "msg_counters"

// MessageCounters summarises what a handler sent back for one update.
// Files counts photos and documents among Messages.
type MessageCounters struct {
	Messages int
	Files    int
	Keyboard bool
}

type metricsContext struct {
	tele.Context
	counters *MessageCounters
}

func (m metricsContext) count(what any, opts []any, err error) error {
	if err != nil {
		return err
	}
	m.counters.Messages++
	switch what.(type) {
	case *tele.Photo, *tele.Document:
		m.counters.Files++
	case *tele.ReplyMarkup:
		m.counters.Keyboard = true
	}
	if hasKeyboard(opts) {
		m.counters.Keyboard = true
	}
	return nil
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) Send(what any, opts ...any) error {
	return m.count(what, opts, m.Context.Send(what, opts...))
}

func (m metricsContext) Reply(what any, opts ...any) error {
	return m.count(what, opts, m.Context.Reply(what, opts...))
}

// Edit counts an edited message as a response.
func (m metricsContext) Edit(what any, opts ...any) error {
	return m.count(what, opts, m.Context.Edit(what, opts...))
}

func (m metricsContext) EditOrSend(what any, opts ...any) error {
	return m.count(what, opts, m.Context.EditOrSend(what, opts...))
}

func (m metricsContext) EditOrReply(what any, opts ...any) error {
	return m.count(what, opts, m.Context.EditOrReply(what, opts...))
}

// MessageMetricsMiddleware wraps the context so outgoing messages are counted.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		counters := &MessageCounters{}
		c.Set(countersKey, counters)
		return next(metricsContext{Context: c, counters: counters})
	}
}

// Counters returns what has been sent so far for the update in c.
func Counters(c tele.Context) MessageCounters {
	if v, ok := c.Get(countersKey).(*MessageCounters); ok && v != nil {
		return *v
	}
	return MessageCounters{}
}
