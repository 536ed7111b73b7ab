package bot

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/keyboard"
	"github.com/m3rciful/tourbot/internal/order"

	tele "gopkg.in/telebot.v4"
)

// webAppData handles the souvenir form submitted from the Web App.
func (b *Bot) webAppData(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.WebAppData == nil {
		return nil
	}
	ctx := helpers.WithHandler(c, "webapp.data")
	data := msg.WebAppData.Data
	b.record(c, "WebApp data: "+data)
	b.enterSouvenirs(c)

	form, err := order.ParseForm(data)
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return helpers.SendText(c, textEmptyCart)
	case err != nil:
		logger.Warn(ctx, "tg", "webapp.bad_payload", slog.String("err", err.Error()))
		return helpers.SendText(c, textBadFormData)
	}

	uid := userID(c)
	if form.Cancel {
		ok, err := b.orders.Cancel(ctx, uid)
		if err != nil {
			return err
		}
		if !ok {
			return helpers.SendText(c, textWebAppNoOrder)
		}
		if err := helpers.SendText(c, textWebAppCancelled); err != nil {
			return err
		}
		if err := helpers.SendText(c, textClearLocalStore, &tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()}); err != nil {
			return err
		}
		return b.sendSouvenirMenu(c, textSouvenirMenu)
	}

	o, err := b.orders.Save(ctx, uid, username(c), form)
	if err != nil {
		return err
	}
	if err := helpers.SendText(c, savedOrderText(o)); err != nil {
		return err
	}
	return b.sendSouvenirMenu(c, textSouvenirMenu)
}

func savedOrderText(o order.Order) string {
	var sb strings.Builder
	sb.WriteString("Спасибо, " + o.FullName + "!\nВаш заказ обновлён:\n")
	for _, it := range o.Items {
		sb.WriteString("- " + it.Name + " — " + strconv.Itoa(it.Qty) + " " + it.Unit + "\n")
	}
	return sb.String()
}
