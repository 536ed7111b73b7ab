package support

import (
	"context"
	"errors"
	"testing"
	"time"
)

type sentText struct {
	chatID   int64
	text     string
	markdown bool
}

type fakeSender struct {
	nextID int
	err    error
	sent   []sentText
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string, markdown bool) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.sent = append(f.sent, sentText{chatID: chatID, text: text, markdown: markdown})
	return f.nextID, nil
}

func newStore(t *testing.T) *CacheStore {
	t.Helper()
	s, err := NewCacheStore(time.Hour)
	if err != nil {
		t.Fatalf("NewCacheStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestForwardAndAnswer(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{nextID: 500}
	relay := NewRelay(newStore(t), sender, -100)

	ticket, err := relay.Forward(ctx, Asker{ID: 42, FirstName: "Анна"}, "Где вход?")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if sender.sent[0].chatID != -100 || sender.sent[0].text != "📩 Запрос от @Анна (ID: 42):\nГде вход?" {
		t.Fatalf("forwarded = %+v", sender.sent[0])
	}

	got, err := relay.Answer(ctx, 501, "С торца")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got.ID != ticket.ID {
		t.Fatalf("ticket id = %v, want %v", got.ID, ticket.ID)
	}
	last := sender.sent[len(sender.sent)-1]
	want := "Получен ответ от оператора\n*Ваш вопрос*: Где вход?\n*Ответ:* С торца"
	if last.chatID != 42 || last.text != want || !last.markdown {
		t.Fatalf("answer = %+v", last)
	}
}

func TestFormatAnswerEscapesMarkdown(t *testing.T) {
	got := FormatAnswer("Пишите на my_email@x.ru *срочно*", "Ответила команда support_team, см. [FAQ]")
	want := "Получен ответ от оператора\n*Ваш вопрос*: Пишите на my\\_email@x.ru \\*срочно\\*" +
		"\n*Ответ:* Ответила команда support\\_team, см. \\[FAQ]"
	if got != want {
		t.Fatalf("FormatAnswer = %q, want %q", got, want)
	}
}

func TestAnswerUnknownMessageIsDropped(t *testing.T) {
	sender := &fakeSender{}
	relay := NewRelay(newStore(t), sender, -100)
	if _, err := relay.Answer(context.Background(), 999, "hi"); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("err = %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d messages for an unknown ticket", len(sender.sent))
	}
}

func TestForwardWithoutOperatorChat(t *testing.T) {
	relay := NewRelay(newStore(t), &fakeSender{}, 0)
	if _, err := relay.Forward(context.Background(), Asker{ID: 1}, "q"); !errors.Is(err, ErrNoOperatorChat) {
		t.Fatalf("err = %v", err)
	}
}

func TestForwardFailureStoresNothing(t *testing.T) {
	store := newStore(t)
	relay := NewRelay(store, &fakeSender{err: errors.New("boom")}, -100)
	if _, err := relay.Forward(context.Background(), Asker{ID: 1}, "q"); err == nil {
		t.Fatalf("expected error")
	}
	if store.Len() != 0 {
		t.Fatalf("stored %d tickets after a failed forward", store.Len())
	}
}

func TestTicketExpires(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Put(ctx, 7, Ticket{UserID: 1, Question: "q"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Get(ctx, 7); err != nil {
		t.Fatalf("Get fresh: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, err := store.Get(ctx, 7); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("Get expired err = %v", err)
	}
}

func TestDisplayNamePrefersUsername(t *testing.T) {
	if got := (Asker{Username: "ivan", FirstName: "Иван"}).DisplayName(); got != "ivan" {
		t.Fatalf("DisplayName = %q", got)
	}
}
