package bot

import (
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/state"
	"github.com/m3rciful/tourbot/internal/menu"
	"github.com/m3rciful/tourbot/internal/order"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) enterSouvenirs(c tele.Context) {
	b.updateSession(c, func(s *Session) {
		s.State = state.StateIdle
		s.Menu = menu.MenuSouvenirs
	})
}

// souvenirCommand runs h inside the souvenir sub-menu.
func (b *Bot) souvenirCommand(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		b.record(c, c.Text())
		b.enterSouvenirs(c)
		return h(c)
	}
}

func (b *Bot) showSouvenirs(c tele.Context) error {
	b.enterSouvenirs(c)
	if err := helpers.SendText(c, b.catalog.Message(messageSouvenirs, textSouvenirInfo)); err != nil {
		return err
	}
	return b.sendSouvenirMenu(c, textSouvenirMenu)
}

func (b *Bot) sendSouvenirMenu(c tele.Context, text string) error {
	hasOrder := b.orders.HasOrder(helpers.BuildContext(c), userID(c))
	return helpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: b.souvenirMarkup(hasOrder)})
}

func (b *Bot) viewOrder(c tele.Context) error {
	o, ok, err := b.orders.Current(helpers.BuildContext(c), userID(c))
	if err != nil {
		return err
	}
	if !ok {
		return helpers.SendText(c, textNoOrder, &tele.SendOptions{ReplyMarkup: b.souvenirMarkup(false)})
	}
	return helpers.SendText(c, order.Summary(o), &tele.SendOptions{ReplyMarkup: b.souvenirMarkup(true)})
}

func (b *Bot) cancelOrder(c tele.Context) error {
	ok, err := b.orders.Cancel(helpers.BuildContext(c), userID(c))
	if err != nil {
		return err
	}
	text := textNothingToDelete
	if ok {
		text = textOrderDeleted
	}
	return helpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: b.souvenirMarkup(false)})
}

func (b *Bot) souvenirBack(c tele.Context) error {
	b.resetNavigation(c)
	return b.sendMainMenu(c)
}

func (b *Bot) souvenirUnknown(c tele.Context) error {
	return b.sendSouvenirMenu(c, textSouvenirChoose)
}

func (b *Bot) myOrderCallback(c tele.Context) error {
	o, ok, err := b.orders.Current(helpers.BuildContext(c), userID(c))
	if err != nil {
		return err
	}
	if !ok {
		return c.Edit(textNoOrder)
	}
	return c.Edit(order.Summary(o))
}

func (b *Bot) cancelOrderCallback(c tele.Context) error {
	ok, err := b.orders.Cancel(helpers.BuildContext(c), userID(c))
	if err != nil {
		return err
	}
	if !ok {
		return c.Edit(textNothingToDelete)
	}
	return c.Edit(textOrderDeleted)
}
