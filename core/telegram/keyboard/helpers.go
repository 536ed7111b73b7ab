// Package keyboard builds reply and inline markups from plain button values.
package keyboard

import (
	"slices"

	tele "gopkg.in/telebot.v4"
)

// InlineBtn is an inline button. With an empty Unique the Data is sent to
// Telegram verbatim, which keeps callback payloads bit-exact for routers that
// parse them by prefix.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

func (b InlineBtn) button() tele.InlineButton {
	return tele.InlineButton{Text: b.Text, Unique: b.Unique, Data: b.Data}
}

// ReplyBtn is a reply keyboard button. A non-empty WebAppURL turns it into a Web App launcher.
type ReplyBtn struct {
	Text      string
	WebAppURL string
}

func (b ReplyBtn) button() tele.ReplyButton {
	btn := tele.ReplyButton{Text: b.Text}
	if b.WebAppURL != "" {
		btn.WebApp = &tele.WebApp{URL: b.WebAppURL}
	}
	return btn
}

func grid[B, T any](rows [][]B, conv func(B) T) [][]T {
	out := make([][]T, len(rows))
	for i, row := range rows {
		out[i] = make([]T, len(row))
		for j, b := range row {
			out[i][j] = conv(b)
		}
	}
	return out
}

// RemoveKeyboard returns a markup that hides the reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// ReplyButtons builds a resized reply keyboard from rows of text labels.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	return ReplyButtonsRows(grid(rows, func(label string) ReplyBtn { return ReplyBtn{Text: label} })...)
}

// ReplyButtonsRows builds a resized reply keyboard.
func ReplyButtonsRows(rows ...[]ReplyBtn) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{ResizeKeyboard: true, ReplyKeyboard: grid(rows, ReplyBtn.button)}
}

// InlineButtons builds an inline keyboard with one button per row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	return InlineButtonsNPerRow(buttons, 1)
}

// InlineButtonsRows builds an inline keyboard from explicit rows.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: grid(rows, InlineBtn.button)}
}

// InlineButtonsNPerRow lays buttons out n per row; n below 1 means one per row.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	return InlineButtonsRows(slices.Collect(slices.Chunk(buttons, max(n, 1)))...)
}

// SingleButtonMarkup creates an inline keyboard with one raw-data button.
func SingleButtonMarkup(text, data string) *tele.ReplyMarkup {
	return InlineButtons([]InlineBtn{{Text: text, Data: data}})
}
