package bot

import (
	"log/slog"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/callbacks"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/keyboard"
	"github.com/m3rciful/tourbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) showMaterials(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	files, err := b.catalog.Materials()
	if err != nil {
		logger.Error(ctx, "tg", "materials.list_failed", slog.String("err", err.Error()))
		return helpers.SendText(c, textMaterialsError)
	}
	if len(files) == 0 {
		return helpers.SendText(c, textMaterialsEmpty)
	}
	markup := keyboard.InlineButtons(listButtons(ctx, files, plain, menu.MaterialData))
	return helpers.SendText(c, textMaterialsChoose, &tele.SendOptions{ReplyMarkup: markup})
}

func (b *Bot) sendMaterial(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	name := callbacks.CallbackPayload(c)
	path, err := b.catalog.MaterialPath(name)
	if err != nil {
		logger.Warn(ctx, "tg", "materials.not_found", slog.String("file", name))
		return c.Edit(textFileNotFound)
	}
	b.record(c, "material: "+name)
	if err := c.Send(&tele.Document{File: tele.FromDisk(path), FileName: name}); err != nil {
		logger.Error(ctx, "tg", "materials.send_failed",
			slog.String("file", name),
			slog.String("err", err.Error()),
		)
		return c.Edit(textFileSendFailed)
	}
	return nil
}
