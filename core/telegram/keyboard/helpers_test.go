package keyboard

import "testing"

func TestInlineButtonsKeepRawData(t *testing.T) {
	m := InlineButtons([]InlineBtn{{Text: "📅 2025-06-01", Data: "event_date|2025-06-01"}})
	if len(m.InlineKeyboard) != 1 || len(m.InlineKeyboard[0]) != 1 {
		t.Fatalf("unexpected layout: %+v", m.InlineKeyboard)
	}
	b := m.InlineKeyboard[0][0]
	if b.Unique != "" || b.Data != "event_date|2025-06-01" {
		t.Fatalf("button = %+v", b)
	}
}

func TestInlineButtonsNPerRow(t *testing.T) {
	btns := []InlineBtn{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	m := InlineButtonsNPerRow(btns, 2)
	if len(m.InlineKeyboard) != 2 || len(m.InlineKeyboard[1]) != 1 {
		t.Fatalf("rows = %+v", m.InlineKeyboard)
	}
}

func TestReplyButtonsRowsWebApp(t *testing.T) {
	m := ReplyButtonsRows(
		[]ReplyBtn{{Text: "Order", WebAppURL: "https://example.org/app"}},
		[]ReplyBtn{{Text: "Back"}},
	)
	if !m.ResizeKeyboard {
		t.Fatal("expected resized keyboard")
	}
	if m.ReplyKeyboard[0][0].WebApp == nil || m.ReplyKeyboard[0][0].WebApp.URL != "https://example.org/app" {
		t.Fatalf("web app button = %+v", m.ReplyKeyboard[0][0])
	}
	if m.ReplyKeyboard[1][0].WebApp != nil {
		t.Fatal("plain button must not carry a web app")
	}
}

func TestInlineButtonsNPerRowBelowOne(t *testing.T) {
	m := InlineButtonsNPerRow([]InlineBtn{{Text: "a"}, {Text: "b"}}, 0)
	if len(m.InlineKeyboard) != 2 {
		t.Fatalf("rows = %+v", m.InlineKeyboard)
	}
}

func TestReplyButtonsLabels(t *testing.T) {
	m := ReplyButtons([]string{"Tours", "Events"}, []string{"Support"})
	if len(m.ReplyKeyboard) != 2 || len(m.ReplyKeyboard[0]) != 2 || m.ReplyKeyboard[1][0].Text != "Support" {
		t.Fatalf("keyboard = %+v", m.ReplyKeyboard)
	}
}
