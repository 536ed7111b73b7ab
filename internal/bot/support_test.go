package bot

import (
	"testing"

	"github.com/m3rciful/tourbot/core/telegram/teletest"

	tele "gopkg.in/telebot.v4"
)

func operatorMessage(text string, replyTo int) *teletest.Context {
	c := teletest.NewText(55, testOperator, text)
	c.Upd.Message.Chat.Type = tele.ChatSuperGroup
	if replyTo != 0 {
		c.Upd.Message.ReplyTo = &tele.Message{ID: replyTo}
	}
	return c
}

func TestSupportQuestionRoundTrip(t *testing.T) {
	h := newHarness(t, nil)

	prompt := h.text(42, "👨💻 Связаться с оператором")
	if got := prompt.Texts(); len(got) != 1 || got[0] != textSupportPrompt {
		t.Fatalf("prompt = %q", got)
	}
	if got := inlineData(t, prompt.LastMarkup()); len(got) != 1 || got[0] != "cancel_support" {
		t.Fatalf("cancel button = %v", got)
	}

	asked := h.text(42, "Где вход?")
	if got := asked.Texts(); len(got) != 2 || got[0] != "✅ Ваш запрос отправлен оператору. Возвращаемся в главное меню." || got[1] != "Главное меню:" {
		t.Fatalf("after question = %q", got)
	}
	if len(h.sender.sent) != 1 {
		t.Fatalf("forwarded %d messages", len(h.sender.sent))
	}
	fwd := h.sender.sent[0]
	if fwd.chatID != testOperator || fwd.text != "📩 Запрос от @tester (ID: 42):\nГде вход?" {
		t.Fatalf("forward = %+v", fwd)
	}

	h.dispatch(tele.OnText, operatorMessage("С торца", h.sender.nextID))
	if len(h.sender.sent) != 2 {
		t.Fatalf("answer not delivered: %+v", h.sender.sent)
	}
	ans := h.sender.sent[1]
	if ans.chatID != 42 || !ans.markdown || ans.text != "Получен ответ от оператора\n*Ваш вопрос*: Где вход?\n*Ответ:* С торца" {
		t.Fatalf("answer = %+v", ans)
	}

	if got := h.text(42, "ещё вопрос").Texts(); got[0] != "Пожалуйста, выберите пункт меню из списка." {
		t.Fatalf("state must be idle after the question, got %q", got)
	}
}

func TestOperatorChatIgnoresNonReplies(t *testing.T) {
	h := newHarness(t, nil)

	c := h.dispatch(tele.OnText, operatorMessage("всем привет", 0))
	if len(c.Sent) != 0 || len(h.sender.sent) != 0 {
		t.Fatalf("operator chatter must be ignored: %+v %+v", c.Sent, h.sender.sent)
	}

	c = h.dispatch(tele.OnText, operatorMessage("ответ в никуда", 12345))
	if len(c.Sent) != 0 || len(h.sender.sent) != 0 {
		t.Fatalf("reply to unknown message must be dropped: %+v %+v", c.Sent, h.sender.sent)
	}
}

func TestSupportCancel(t *testing.T) {
	h := newHarness(t, nil)
	h.command(42, "/support")

	c := h.callback(42, "cancel_support")
	if got := c.Texts(); len(got) != 1 || got[0] != "Отправка запроса отменена." || !c.Sent[0].Edit {
		t.Fatalf("cancel = %+v", c.Sent)
	}
	h.text(42, "Где вход?")
	if len(h.sender.sent) != 0 {
		t.Fatalf("nothing must be forwarded after cancel: %+v", h.sender.sent)
	}
}

func TestSupportCommandOverridesPendingQuestion(t *testing.T) {
	h := newHarness(t, nil)
	h.command(42, "/support")
	h.command(42, "/start")
	h.text(42, "просто текст")
	if len(h.sender.sent) != 0 {
		t.Fatalf("question state must be cleared by /start: %+v", h.sender.sent)
	}
}
