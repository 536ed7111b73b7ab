package bot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tg "github.com/m3rciful/tourbot/core/telegram"
	"github.com/m3rciful/tourbot/core/telegram/teletest"
	"github.com/m3rciful/tourbot/internal/catalog"
	"github.com/m3rciful/tourbot/internal/order"
	"github.com/m3rciful/tourbot/internal/registration"
	"github.com/m3rciful/tourbot/internal/support"

	tele "gopkg.in/telebot.v4"
)

const (
	testAdmin    int64 = 7
	testOperator int64 = -100
	testWebApp         = "https://example.org/app"
)

type sentText struct {
	chatID   int64
	text     string
	markdown bool
}

type fakeSender struct {
	nextID int
	sent   []sentText
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string, markdown bool) (int, error) {
	f.nextID++
	f.sent = append(f.sent, sentText{chatID: chatID, text: text, markdown: markdown})
	return f.nextID, nil
}

type harness struct {
	t      *testing.T
	dir    string
	bot    *Bot
	sender *fakeSender
	routes map[string]tele.HandlerFunc
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	tickets, err := support.NewCacheStore(time.Hour)
	if err != nil {
		t.Fatalf("NewCacheStore: %v", err)
	}
	t.Cleanup(func() { _ = tickets.Close() })

	sender := &fakeSender{nextID: 900}
	b := New(Deps{
		Catalog:       catalog.NewRepository(filepath.Join(dir, "data"), filepath.Join(dir, "materials")),
		Registrations: registration.NewService(registration.NewFileStore(filepath.Join(dir, "registrations"))),
		Orders:        order.NewService(order.NewFileStore(filepath.Join(dir, "orders"))),
		Relay:         support.NewRelay(tickets, sender, testOperator),
		Images:        NewImageChecker(nil, time.Second),
		WebAppURL:     testWebApp,
		BotUsername:   "@tour_test_bot",
	})

	reg := tg.NewRegistry()
	if err := b.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	h := &harness{t: t, dir: dir, bot: b, sender: sender, routes: map[string]tele.HandlerFunc{}}
	for _, r := range b.Routes(reg, testAdmin) {
		if ep, ok := r.Endpoint.(string); ok {
			h.routes[ep] = r.Handler
		}
	}
	return h
}

func (h *harness) dispatch(endpoint string, c *teletest.Context) *teletest.Context {
	h.t.Helper()
	fn, ok := h.routes[endpoint]
	if !ok {
		h.t.Fatalf("no route for %q", endpoint)
	}
	if err := fn(c); err != nil {
		h.t.Fatalf("%s: %v", endpoint, err)
	}
	return c
}

func (h *harness) command(uid int64, cmd string) *teletest.Context {
	return h.dispatch(cmd, teletest.NewText(uid, uid, cmd))
}

func (h *harness) text(uid int64, text string) *teletest.Context {
	return h.dispatch(tele.OnText, teletest.NewText(uid, uid, text))
}

func (h *harness) callback(uid int64, data string) *teletest.Context {
	return h.dispatch(tele.OnCallback, teletest.NewCallback(uid, data))
}

func (h *harness) webApp(uid int64, data string) *teletest.Context {
	return h.dispatch(tele.OnWebApp, teletest.NewWebApp(uid, data))
}

func inlineData(t *testing.T, m *tele.ReplyMarkup) []string {
	t.Helper()
	if m == nil {
		t.Fatal("expected reply markup")
	}
	var out []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.Data)
		}
	}
	return out
}

func inlineText(t *testing.T, m *tele.ReplyMarkup) []string {
	t.Helper()
	if m == nil {
		t.Fatal("expected reply markup")
	}
	var out []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.Text)
		}
	}
	return out
}

func lastResponse(t *testing.T, c *teletest.Context) string {
	t.Helper()
	if len(c.Responses) != 1 {
		t.Fatalf("callback answered %d times, want 1", len(c.Responses))
	}
	if c.Responses[0] == nil {
		return ""
	}
	return c.Responses[0].Text
}

func TestStartSendsWelcomeAndMainMenu(t *testing.T) {
	h := newHarness(t, map[string]string{"data/welcome.txt": "Привет!\n"})
	c := h.command(1, "/start")

	texts := c.Texts()
	if len(texts) != 2 || texts[0] != "Привет!" || texts[1] != "Главное меню:" {
		t.Fatalf("texts = %q", texts)
	}
	m := c.LastMarkup()
	if m == nil || len(m.ReplyKeyboard) != 3 || m.ReplyKeyboard[2][0].Text != "👨💻 Связаться с оператором" {
		t.Fatalf("main keyboard = %+v", m)
	}
}

func TestStartFallsBackToDefaultWelcome(t *testing.T) {
	h := newHarness(t, nil)
	if texts := h.command(1, "/start").Texts(); texts[0] != "Добро пожаловать!" {
		t.Fatalf("welcome = %q", texts[0])
	}
}

func TestUnknownTextAsksToChoose(t *testing.T) {
	h := newHarness(t, nil)
	texts := h.text(1, "что тут?").Texts()
	if len(texts) != 1 || texts[0] != "Пожалуйста, выберите пункт меню из списка." {
		t.Fatalf("texts = %q", texts)
	}
}

func TestUnknownCallbackEditsMessage(t *testing.T) {
	h := newHarness(t, nil)
	c := h.callback(1, "bogus")
	if !c.Sent[0].Edit || c.Texts()[0] != "Неизвестная команда." {
		t.Fatalf("sent = %+v", c.Sent)
	}
	if len(c.Responses) != 1 {
		t.Fatalf("responses = %d", len(c.Responses))
	}
}

func TestHiddenAndAdminCommandsAreNotPublished(t *testing.T) {
	reg := tg.NewRegistry()
	h := newHarness(t, nil)
	if err := h.bot.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var names []string
	for _, cmd := range reg.ListCommands(true) {
		names = append(names, cmd.Text)
	}
	want := []string{"start", "events", "contacts", "tours", "souvenirs", "materials", "guide", "support"}
	if len(names) != len(want) {
		t.Fatalf("published = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("published = %v, want %v", names, want)
		}
	}
}

func TestAdminCommandRejectsOthers(t *testing.T) {
	h := newHarness(t, nil)
	if texts := h.command(1, "/export_orders").Texts(); len(texts) != 1 || texts[0] != "Команда доступна только администратору." {
		t.Fatalf("texts = %q", texts)
	}
}

func TestExportOrdersSendsWorkbook(t *testing.T) {
	h := newHarness(t, nil)
	h.webApp(5, `{"fio":"Иван","items":[{"id":"1","name":"Magnet","unit":"pcs","qty":3,"price":150}]}`)

	c := h.command(testAdmin, "/export_orders")
	doc, ok := c.Sent[0].What.(*tele.Document)
	if !ok || doc.FileName != "orders.xlsx" || doc.Caption != "Заказов: 1" {
		t.Fatalf("sent = %+v", c.Sent[0].What)
	}
}

func TestQRSendsDeepLinkPhoto(t *testing.T) {
	h := newHarness(t, nil)
	c := h.command(testAdmin, "/qr")
	photo, ok := c.Sent[0].What.(*tele.Photo)
	if !ok || photo.Caption != "https://t.me/tour_test_bot" {
		t.Fatalf("sent = %+v", c.Sent[0].What)
	}
}
