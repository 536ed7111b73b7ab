package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/callbacks"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/keyboard"
	"github.com/m3rciful/tourbot/internal/catalog"
	"github.com/m3rciful/tourbot/internal/menu"
	"github.com/m3rciful/tourbot/internal/registration"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) showTours(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	tours, err := b.catalog.Tours()
	if err != nil {
		logger.Error(ctx, "tg", "tours.load_failed", slog.String("err", err.Error()))
	}
	if len(tours) == 0 {
		return helpers.SendText(c, textToursEmpty)
	}
	snap := catalog.GroupTours(tours)
	warnDateKeys(ctx, catalog.ToursFile, snap.Keys)
	b.updateSession(c, func(s *Session) { s.Tours = &snap })
	return helpers.SendText(c, textToursChoose, &tele.SendOptions{ReplyMarkup: tourDatesMarkup(ctx, snap.Keys)})
}

func tourDatesMarkup(ctx context.Context, dates []string) *tele.ReplyMarkup {
	return keyboard.InlineButtons(listButtons(ctx, dates, plain, menu.TourDateData))
}

// tourMarkup renders one toggle button per tour plus the way back to the dates.
func tourMarkup(ctx context.Context, regs registration.Set, tours []catalog.Tour) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(tours)+1)
	for _, t := range tours {
		id := t.ID.String()
		glyph, build := "❌ ", menu.RegisterData
		if regs.Has(id) {
			glyph, build = "✅ ", menu.UnregisterData
		}
		data, err := build(id)
		if err != nil {
			logger.Warn(ctx, "tg", "keyboard.skip_button",
				slog.String("tour_id", id),
				slog.String("err", err.Error()),
			)
			continue
		}
		btns = append(btns, keyboard.InlineBtn{Text: glyph + t.Time + " - " + t.Name, Data: data})
	}
	btns = append(btns, keyboard.InlineBtn{Text: textBackToDates, Data: menu.TokenBackToDates})
	return keyboard.InlineButtons(btns)
}

func tourDayText(date string, tours []catalog.Tour) string {
	var sb strings.Builder
	sb.WriteString("Туры на " + date + ":\n")
	for _, t := range tours {
		sb.WriteString("\n🕒 " + t.Period() + "\n*" + t.Name + "*\n")
		if t.Description != "" {
			sb.WriteString("_" + t.Description + "_\n")
		}
		sb.WriteString("💰 Цена: " + t.Price.String() + " ₽")
		if t.Link != "" {
			sb.WriteString("\n🔗 [Подробнее](" + t.Link + ")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Bot) tourDate(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sess := b.session(c)
	if sess.Tours == nil {
		return c.RespondText(textToursStale)
	}
	date := callbacks.CallbackPayload(c)
	tours, ok := sess.Tours.Lookup(date)
	if !ok || len(tours) == 0 {
		return c.RespondText(textToursNoneDate)
	}
	regs, err := b.registrations.Get(ctx, userID(c))
	if err != nil {
		return err
	}
	if err := helpers.EditMD(c, tourDayText(date, tours), tourMarkup(ctx, regs, tours)); err != nil {
		return err
	}
	b.sendTourPhotos(ctx, c, tours)
	return nil
}

// sendTourPhotos posts the picture of every tour that has a usable one.
func (b *Bot) sendTourPhotos(ctx context.Context, c tele.Context, tours []catalog.Tour) {
	for _, t := range tours {
		file, ok := b.images.Photo(ctx, t.Image)
		if !ok {
			continue
		}
		if err := c.Send(&tele.Photo{File: file, Caption: t.Name}); err != nil {
			logger.Warn(ctx, "tg", "tours.photo_failed",
				slog.String("tour_id", t.ID.String()),
				slog.String("err", err.Error()),
			)
		}
	}
}

// tourToggle flips the registration, persists it and only then re-renders the keyboard.
func (b *Bot) tourToggle(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	id := callbacks.CallbackPayload(c)
	on, regs, err := b.registrations.Toggle(ctx, userID(c), id)
	if err != nil {
		return err
	}
	toast := textUnregistered
	if on {
		toast = textRegistered
	}
	if err := c.RespondText(toast); err != nil {
		logger.Warn(ctx, "tg", "callback.answer_failed", slog.String("err", err.Error()))
	}

	sess := b.session(c)
	if sess.Tours == nil {
		return c.Edit(textToursStale)
	}
	date, found := sess.Tours.KeyOf(func(t catalog.Tour) bool { return t.ID.String() == id })
	if !found {
		return c.Edit(tourDatesMarkup(ctx, sess.Tours.Keys))
	}
	tours, _ := sess.Tours.Lookup(date)
	return c.Edit(tourMarkup(ctx, regs, tours))
}

func (b *Bot) tourBack(c tele.Context) error {
	sess := b.session(c)
	if sess.Tours == nil {
		return c.RespondText(textToursStale)
	}
	return c.Edit(textToursChoose, tourDatesMarkup(helpers.BuildContext(c), sess.Tours.Keys))
}
