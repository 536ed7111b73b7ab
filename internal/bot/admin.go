package bot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/internal/order"

	tele "gopkg.in/telebot.v4"
)

const qrSize = 256

// exportOrders sends every stored order as an XLSX workbook.
func (b *Bot) exportOrders(c tele.Context) error {
	orders, err := b.orders.All(helpers.BuildContext(c))
	if err != nil {
		return fmt.Errorf("export orders: %w", err)
	}
	if len(orders) == 0 {
		return helpers.SendText(c, textExportEmpty)
	}
	data, err := order.ExportXLSX(orders)
	if err != nil {
		return fmt.Errorf("export orders: %w", err)
	}
	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: textExportFileName,
		Caption:  fmt.Sprintf("Заказов: %d", len(orders)),
	})
}

// DeepLink is the public t.me link of the bot.
func DeepLink(botUsername string) string {
	return "https://t.me/" + strings.TrimPrefix(strings.TrimSpace(botUsername), "@")
}

// sendQR sends a printable QR code pointing at the bot.
func (b *Bot) sendQR(c tele.Context) error {
	if strings.TrimSpace(b.botUsername) == "" {
		return helpers.SendText(c, textQRNoUsername)
	}
	link := DeepLink(b.botUsername)
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return fmt.Errorf("qr: %w", err)
	}
	return c.Send(&tele.Photo{File: tele.FromReader(bytes.NewReader(png)), Caption: link})
}
