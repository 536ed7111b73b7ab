package bot

import (
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

// ResolveText maps a text message to its handler. Commands are left to the registry.
func (b *Bot) ResolveText(c tele.Context) (string, tele.HandlerFunc, bool) {
	in := menu.TextInput{Text: c.Text()}
	if ch := c.Chat(); ch != nil {
		in.ChatID = ch.ID
	}
	if b.relay != nil {
		in.OperatorChatID = b.relay.OperatorChat()
	}
	if m := c.Message(); m != nil && m.ReplyTo != nil {
		in.IsReply = true
	}
	sess := b.session(c)
	in.AwaitingQuestion = sess.AwaitingQuestion()
	in.Menu = sess.Menu

	intent := menu.ParseText(in)
	switch intent.Kind {
	case menu.Command:
		return "", nil, false
	case menu.Ignore:
		return intent.Kind.String(), nil, true
	}
	h, ok := b.text[intent.Kind]
	if !ok {
		return "", nil, false
	}
	helpers.WithHandler(c, intent.Kind.String())
	return intent.Kind.String(), h, true
}

// UnknownText implements router.FallbackProvider.
func (b *Bot) UnknownText() tele.HandlerFunc { return b.unknownText }

// UnknownDocument implements router.FallbackProvider.
func (b *Bot) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error { return c.Send(textUnexpectedDoc) }
}

func (b *Bot) unknownText(c tele.Context) error {
	b.record(c, c.Text())
	return c.Send(textChooseMenu)
}

func (b *Bot) unknownCallback(c tele.Context) error {
	return c.Edit(textUnknownAction)
}
