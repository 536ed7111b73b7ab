package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/keyboard"
	"github.com/m3rciful/tourbot/core/telegram/state"
	"github.com/m3rciful/tourbot/internal/menu"
	"github.com/m3rciful/tourbot/internal/support"

	tele "gopkg.in/telebot.v4"
)

var errSenderDetached = errors.New("bot: sender not attached")

// TeleSender implements support.Sender on a running bot.
// Sends fail until Attach is called.
type TeleSender struct {
	bot atomic.Pointer[tele.Bot]
}

// Attach binds the sender to a started bot.
func (s *TeleSender) Attach(b *tele.Bot) { s.bot.Store(b) }

// SendText posts text to chatID and returns the new message id.
func (s *TeleSender) SendText(_ context.Context, chatID int64, text string, markdown bool) (int, error) {
	b := s.bot.Load()
	if b == nil {
		return 0, errSenderDetached
	}
	opts := &tele.SendOptions{}
	if markdown {
		opts.ParseMode = tele.ModeMarkdown
	}
	m, err := b.Send(tele.ChatID(chatID), text, opts)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (b *Bot) askSupport(c tele.Context) error {
	b.updateSession(c, func(s *Session) { s.State = support.StateAwaitingQuestion })
	cancel := keyboard.SingleButtonMarkup(textSupportCancelBtn, menu.TokenCancelSupport)
	return helpers.SendText(c, textSupportPrompt, &tele.SendOptions{ReplyMarkup: cancel})
}

func (b *Bot) cancelSupport(c tele.Context) error {
	b.updateSession(c, func(s *Session) { s.State = state.StateIdle })
	return c.Edit(textSupportCanceled)
}

// supportQuestion forwards the question and always returns the user to the main menu.
func (b *Bot) supportQuestion(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	b.updateSession(c, func(s *Session) { s.State = state.StateIdle })
	b.record(c, "support: "+c.Text())

	asker := support.Asker{ID: userID(c)}
	if u := c.Sender(); u != nil {
		asker.Username = u.Username
		asker.FirstName = u.FirstName
	}

	reply := textSupportSent
	if _, err := b.relay.Forward(ctx, asker, c.Text()); err != nil {
		if errors.Is(err, support.ErrNoOperatorChat) {
			logger.Error(ctx, "tg", "support.no_operator_chat")
			reply = textSupportNoChat
		} else {
			logger.Error(ctx, "tg", "support.forward_failed", slog.String("err", err.Error()))
			reply = textSupportFailed
		}
	}
	if err := helpers.SendText(c, reply); err != nil {
		return err
	}
	return b.sendMainMenu(c)
}

// operatorReply relays an operator answer. Replies to unknown messages are dropped.
func (b *Bot) operatorReply(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	msg := c.Message()
	if msg == nil || msg.ReplyTo == nil {
		return nil
	}
	_, err := b.relay.Answer(ctx, msg.ReplyTo.ID, c.Text())
	switch {
	case errors.Is(err, support.ErrTicketNotFound):
		return nil
	case err != nil:
		logger.Error(ctx, "tg", "support.answer_failed", slog.String("err", err.Error()))
	}
	return nil
}
