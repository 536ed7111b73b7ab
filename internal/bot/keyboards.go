package bot

import (
	"context"
	"log/slog"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/keyboard"
	"github.com/m3rciful/tourbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

func mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(menu.MainKeyboard()...)
}

func (b *Bot) souvenirMarkup(hasOrder bool) *tele.ReplyMarkup {
	return keyboard.ReplyButtonsRows(menu.SouvenirKeyboard(b.webAppURL, hasOrder)...)
}

// listButtons builds one inline button per key. Keys whose payload cannot be
// encoded are logged and left out.
func listButtons(ctx context.Context, keys []string, label func(string) string, data func(string) (string, error)) []keyboard.InlineBtn {
	btns := make([]keyboard.InlineBtn, 0, len(keys))
	for _, k := range keys {
		d, err := data(k)
		if err != nil {
			logger.Warn(ctx, "tg", "keyboard.skip_button",
				slog.String("key", k),
				slog.String("err", err.Error()),
			)
			continue
		}
		btns = append(btns, keyboard.InlineBtn{Text: label(k), Data: d})
	}
	return btns
}

func plain(s string) string { return s }

func (b *Bot) sendMainMenu(c tele.Context) error {
	return helpers.SendText(c, textMainMenu, &tele.SendOptions{ReplyMarkup: mainMenuMarkup()})
}

func (b *Bot) start(c tele.Context) error {
	if err := helpers.SendText(c, b.catalog.Message(messageWelcome, b.welcomeText)); err != nil {
		return err
	}
	return b.sendMainMenu(c)
}
