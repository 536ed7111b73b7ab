package bot

import (
	"log/slog"
	"strings"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/callbacks"
	"github.com/m3rciful/tourbot/core/telegram/format"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/keyboard"
	"github.com/m3rciful/tourbot/internal/catalog"
	"github.com/m3rciful/tourbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) contactsMarkup(c tele.Context) (*tele.ReplyMarkup, bool) {
	ctx := helpers.BuildContext(c)
	contacts, err := b.catalog.Contacts()
	if err != nil {
		logger.Error(ctx, "tg", "contacts.load_failed", slog.String("err", err.Error()))
		return nil, false
	}
	if contacts.Len() == 0 {
		return nil, false
	}
	return keyboard.InlineButtons(listButtons(ctx, contacts.Keys, plain, menu.ContactsCategoryData)), true
}

func (b *Bot) showContacts(c tele.Context) error {
	markup, ok := b.contactsMarkup(c)
	if !ok {
		return helpers.SendText(c, textContactEmpty)
	}
	return helpers.SendText(c, textContactPick, &tele.SendOptions{ReplyMarkup: markup})
}

func (b *Bot) contactsBack(c tele.Context) error {
	markup, ok := b.contactsMarkup(c)
	if !ok {
		return c.Edit(textContactEmpty)
	}
	return c.Edit(textContactPick, markup)
}

func (b *Bot) contactsCategory(c tele.Context) error {
	cat := callbacks.CallbackPayload(c)
	contacts, err := b.catalog.Contacts()
	if err != nil {
		return err
	}
	back := keyboard.SingleButtonMarkup(textBack, menu.TokenContactsBack)
	list, _ := contacts.Lookup(cat)
	if len(list) == 0 {
		return helpers.EditMD(c, "В категории *"+cat+"* контакты не найдены.", back)
	}
	return helpers.EditMD(c, contactsText(cat, list), back)
}

func contactsText(cat string, contacts []catalog.Contact) string {
	lines := []string{"📂 *" + cat + "*:\n"}
	for _, ct := range contacts {
		name := ct.Name
		if name == "" {
			name = textNoName
		}
		lines = append(lines, "👤 *"+name+"*")
		if ct.Phone != "" {
			lines = append(lines, "[📱 "+ct.Phone+"]("+format.Phone(ct.Phone)+")")
		}
		if ct.Info != "" {
			lines = append(lines, "ℹ️ _"+ct.Info+"_")
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
