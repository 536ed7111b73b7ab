package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/callbacks"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/keyboard"
	"github.com/m3rciful/tourbot/internal/catalog"
	"github.com/m3rciful/tourbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

const isoDate = "2006-01-02"

// warnDateKeys reports date keys that will not sort chronologically.
func warnDateKeys(ctx context.Context, source string, keys []string) {
	for _, k := range keys {
		if _, err := time.Parse(isoDate, k); err == nil {
			continue
		}
		attrs := []slog.Attr{slog.String("source", source), slog.String("date", k)}
		if t, ok := helpers.ParseFlexibleDate(k); ok {
			attrs = append(attrs, slog.String("iso", t.Format(isoDate)))
		}
		logger.Warn(ctx, "catalog", "catalog.date_not_iso", attrs...)
	}
}

func (b *Bot) showEvents(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	raw, err := b.catalog.Events()
	if err != nil {
		logger.Error(ctx, "tg", "events.load_failed", slog.String("err", err.Error()))
	}
	snap := catalog.GroupEvents(raw)
	if snap.Len() == 0 {
		return helpers.SendText(c, textEventsEmpty)
	}
	warnDateKeys(ctx, catalog.EventsFile, snap.Keys)
	b.updateSession(c, func(s *Session) { s.Events = &snap })
	return helpers.SendText(c, textEventsChoose, &tele.SendOptions{ReplyMarkup: eventDatesMarkup(ctx, snap.Keys)})
}

func eventDatesMarkup(ctx context.Context, dates []string) *tele.ReplyMarkup {
	label := func(d string) string { return "📅 " + d }
	return keyboard.InlineButtons(listButtons(ctx, dates, label, menu.EventDateData))
}

func (b *Bot) eventDate(c tele.Context) error {
	sess := b.session(c)
	if sess.Events == nil {
		return c.RespondText(textEventsStale)
	}
	date := callbacks.CallbackPayload(c)
	events, ok := sess.Events.Lookup(date)
	if !ok || len(events) == 0 {
		return c.RespondText(textEventsNoneDate)
	}
	back := keyboard.SingleButtonMarkup(textBackToDates, menu.TokenEventBack)
	return helpers.EditMD(c, eventDayText(date, events), back)
}

func (b *Bot) eventBack(c tele.Context) error {
	sess := b.session(c)
	if sess.Events == nil {
		return c.RespondText(textEventsStale)
	}
	return c.Edit(textEventsChoose, eventDatesMarkup(helpers.BuildContext(c), sess.Events.Keys))
}

func eventDayText(date string, events []catalog.Event) string {
	lines := []string{"📅 *" + date + "*\n"}
	for _, e := range events {
		title := e.Title
		if title == "" {
			title = textUntitled
		}
		lines = append(lines, "🕒 "+e.Period()+" *"+title+"*")
		if e.Description != "" {
			lines = append(lines, "_"+e.Description+"_")
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
