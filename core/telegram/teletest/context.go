// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Sent captures one outgoing call made through the context.
type Sent struct {
	What any
	Opts []any
	Edit bool
}

// Context is a tele.Context backed by a fixed update. It records sends, edits
// and callback answers instead of calling Telegram. Methods that are not
// overridden panic through the nil embedded interface.
type Context struct {
	tele.Context

	Upd tele.Update

	mu        sync.Mutex
	store     map[string]any
	Sent      []Sent
	Responses []*tele.CallbackResponse
	// SendErr is returned by Send when set.
	SendErr error
}

// NewText builds a context for a text message from user in chat.
func NewText(userID, chatID int64, text string) *Context {
	return &Context{Upd: tele.Update{ID: 1, Message: &tele.Message{
		ID:     100,
		Sender: &tele.User{ID: userID, Username: "tester", FirstName: "Test"},
		Chat:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
		Text:   text,
	}}}
}

// NewCallback builds a context for a callback query with raw data.
func NewCallback(userID int64, data string) *Context {
	return &Context{Upd: tele.Update{ID: 2, Callback: &tele.Callback{
		ID:     "cb",
		Sender: &tele.User{ID: userID, Username: "tester", FirstName: "Test"},
		Data:   data,
		Message: &tele.Message{
			ID:   200,
			Chat: &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		},
	}}}
}

// NewWebApp builds a context for a message carrying Web App data.
func NewWebApp(userID int64, data string) *Context {
	c := NewText(userID, userID, "")
	c.Upd.Message.WebAppData = &tele.WebAppData{Data: data}
	return c
}

func (c *Context) Update() tele.Update { return c.Upd }

func (c *Context) Message() *tele.Message {
	if c.Upd.Message != nil {
		return c.Upd.Message
	}
	if c.Upd.Callback != nil {
		return c.Upd.Callback.Message
	}
	return nil
}

func (c *Context) Callback() *tele.Callback { return c.Upd.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Sender
	case c.Upd.Message != nil:
		return c.Upd.Message.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Recipient() tele.Recipient { return c.Chat() }

func (c *Context) Text() string {
	if m := c.Message(); m != nil {
		return m.Text
	}
	return ""
}

func (c *Context) Data() string {
	if c.Upd.Callback != nil {
		return c.Upd.Callback.Data
	}
	return ""
}

func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

func (c *Context) Send(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, Sent{What: what, Opts: opts})
	return nil
}

func (c *Context) Reply(what any, opts ...any) error { return c.Send(what, opts...) }

func (c *Context) Edit(what any, opts ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, Sent{What: what, Opts: opts, Edit: true})
	return nil
}

func (c *Context) EditOrSend(what any, opts ...any) error {
	if c.Upd.Callback != nil {
		return c.Edit(what, opts...)
	}
	return c.Send(what, opts...)
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var r *tele.CallbackResponse
	if len(resp) > 0 {
		r = resp[0]
	}
	c.Responses = append(c.Responses, r)
	return nil
}

func (c *Context) RespondText(text string) error {
	return c.Respond(&tele.CallbackResponse{Text: text})
}

func (c *Context) RespondAlert(text string) error {
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

// Texts returns the string payloads of all recorded sends and edits in order.
func (c *Context) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range c.Sent {
		if t, ok := s.What.(string); ok {
			out = append(out, t)
		}
	}
	return out
}

// LastMarkup returns the reply markup attached to the most recent send or edit.
func (c *Context) LastMarkup() *tele.ReplyMarkup {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.Sent) - 1; i >= 0; i-- {
		if m, ok := c.Sent[i].What.(*tele.ReplyMarkup); ok {
			return m
		}
		for _, o := range c.Sent[i].Opts {
			switch v := o.(type) {
			case *tele.ReplyMarkup:
				return v
			case *tele.SendOptions:
				if v != nil && v.ReplyMarkup != nil {
					return v.ReplyMarkup
				}
			}
		}
	}
	return nil
}
