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

func (b *Bot) guideMarkup(c tele.Context) (*tele.ReplyMarkup, bool) {
	ctx := helpers.BuildContext(c)
	guide, err := b.catalog.Guide()
	if err != nil {
		logger.Error(ctx, "tg", "guide.load_failed", slog.String("err", err.Error()))
		return nil, false
	}
	if guide.Len() == 0 {
		return nil, false
	}
	return keyboard.InlineButtons(listButtons(ctx, guide.Keys, plain, menu.GuideCategoryData)), true
}

func (b *Bot) showGuide(c tele.Context) error {
	markup, ok := b.guideMarkup(c)
	if !ok {
		return helpers.SendText(c, textGuideEmpty)
	}
	return helpers.SendText(c, textGuideChoose, &tele.SendOptions{ReplyMarkup: markup})
}

func (b *Bot) guideBack(c tele.Context) error {
	markup, ok := b.guideMarkup(c)
	if !ok {
		return c.Edit(textGuideEmpty)
	}
	return c.Edit(textGuideChoose, markup)
}

func (b *Bot) guideCategory(c tele.Context) error {
	cat := callbacks.CallbackPayload(c)
	guide, err := b.catalog.Guide()
	if err != nil {
		return err
	}
	back := keyboard.SingleButtonMarkup(textBack, menu.TokenGuideBack)
	places, _ := guide.Lookup(cat)
	if len(places) == 0 {
		return helpers.EditMD(c, "В категории *"+cat+"* ничего не найдено.", back)
	}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: back}
	return c.Edit(guideText(cat, places), opts, tele.NoPreview)
}

func guideText(cat string, places []catalog.Place) string {
	lines := []string{"📂 *" + cat + "*:\n"}
	for _, p := range places {
		lines = append(lines, "📌 *"+p.Name+"*")
		if p.Phone != "" {
			lines = append(lines, "[📱 "+p.Phone+"]("+format.Phone(p.Phone)+")")
		}
		if p.Address != "" {
			lines = append(lines, "📍 "+p.Address)
		}
		if len(p.Links) > 0 {
			links := make([]string, 0, len(p.Links))
			for _, l := range p.Links {
				if l.URL == "" {
					continue
				}
				text := l.Text
				if text == "" {
					text = textLink
				}
				links = append(links, "["+text+"]("+l.URL+")")
			}
			if len(links) > 0 {
				lines = append(lines, "🔗 "+strings.Join(links, ", "))
			}
		}
		if p.Description != "" {
			lines = append(lines, "ℹ️ _"+p.Description+"_")
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
