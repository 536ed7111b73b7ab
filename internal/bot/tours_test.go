package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

const toursJSON = `[
  {"id": "T7", "date": "2024-06-01", "time": "10:00", "end_time": "12:00", "name": "Walk", "description": "Old town", "price": 1500},
  {"id": 8, "date": "2024-05-20", "time": "09:00", "name": "Boat", "description": "River", "price": "900", "link": "https://example.org/boat"}
]`

const eventsJSON = `{
  "2024-05-02": [{"time": "18:00", "title": "Concert"}],
  "2024-05-01": [
    {"time": "09:00", "end_time": "11:00", "title": "Fair", "description": "Crafts"},
    {"time": "12:00", "title": ""}
  ]
}`

func TestEventsDatesAscendingAndDayText(t *testing.T) {
	h := newHarness(t, map[string]string{"data/events.json": eventsJSON})

	c := h.text(1, "📅 Мероприятия")
	if got := c.Texts(); len(got) != 1 || got[0] != "Выберите дату мероприятия:" {
		t.Fatalf("texts = %q", got)
	}
	if got := inlineData(t, c.LastMarkup()); !reflect.DeepEqual(got, []string{"event_date|2024-05-01", "event_date|2024-05-02"}) {
		t.Fatalf("dates = %v", got)
	}
	if got := inlineText(t, c.LastMarkup()); got[0] != "📅 2024-05-01" {
		t.Fatalf("label = %q", got[0])
	}

	day := h.callback(1, "event_date|2024-05-01")
	want := "📅 *2024-05-01*\n\n🕒 09:00 - 11:00 *Fair*\n_Crafts_\n\n🕒 12:00 *Без названия*\n"
	if got := day.Texts(); len(got) != 1 || got[0] != want {
		t.Fatalf("day text = %q, want %q", got, want)
	}
	if got := inlineData(t, day.LastMarkup()); !reflect.DeepEqual(got, []string{"event_back"}) {
		t.Fatalf("back = %v", got)
	}

	back := h.callback(1, "event_back")
	if got := back.Texts(); got[0] != "Выберите дату мероприятия:" || !back.Sent[0].Edit {
		t.Fatalf("back = %+v", back.Sent)
	}
}

func TestEventsEmptyCatalog(t *testing.T) {
	h := newHarness(t, nil)
	if got := h.command(1, "/events").Texts(); got[0] != "Мероприятия пока не запланированы." {
		t.Fatalf("texts = %q", got)
	}
}

func TestEventDateWithoutSnapshotAsksToReopen(t *testing.T) {
	h := newHarness(t, map[string]string{"data/events.json": eventsJSON})
	c := h.callback(1, "event_date|2024-05-01")
	if got := lastResponse(t, c); got != "Пожалуйста, заново вызовите команду /events" {
		t.Fatalf("toast = %q", got)
	}
	if len(c.Sent) != 0 {
		t.Fatalf("unexpected sends %+v", c.Sent)
	}
}

func TestEventDateMissingFromSnapshot(t *testing.T) {
	h := newHarness(t, map[string]string{"data/events.json": eventsJSON})
	h.command(1, "/events")
	if got := lastResponse(t, h.callback(1, "event_date|2030-01-01")); got != "Мероприятий на эту дату нет." {
		t.Fatalf("toast = %q", got)
	}
}

func TestToursDayTextAndKeyboard(t *testing.T) {
	h := newHarness(t, map[string]string{"data/tours.json": toursJSON})

	c := h.command(1, "/tours")
	if got := inlineData(t, c.LastMarkup()); !reflect.DeepEqual(got, []string{"date|2024-05-20", "date|2024-06-01"}) {
		t.Fatalf("dates = %v", got)
	}

	day := h.callback(1, "date|2024-05-20")
	want := "Туры на 2024-05-20:\n\n🕒 09:00\n*Boat*\n_River_\n💰 Цена: 900 ₽\n🔗 [Подробнее](https://example.org/boat)\n"
	if got := day.Texts(); len(got) != 1 || got[0] != want {
		t.Fatalf("day text = %q, want %q", got, want)
	}
	if got := inlineText(t, day.LastMarkup()); !reflect.DeepEqual(got, []string{"❌ 09:00 - Boat", "⬅️ Назад к датам"}) {
		t.Fatalf("buttons = %v", got)
	}
	if got := inlineData(t, day.LastMarkup()); !reflect.DeepEqual(got, []string{"register|8", "back_to_dates"}) {
		t.Fatalf("data = %v", got)
	}
}

func TestTourRegisterCallbackToggles(t *testing.T) {
	h := newHarness(t, map[string]string{"data/tours.json": toursJSON})
	h.command(1, "/tours")
	h.callback(1, "date|2024-06-01")

	first := h.callback(1, "register|T7")
	if got := lastResponse(t, first); got != "Вы записаны на тур" {
		t.Fatalf("toast = %q", got)
	}
	if got := inlineText(t, first.LastMarkup()); got[0] != "✅ 10:00 - Walk" {
		t.Fatalf("after register = %v", got)
	}
	if got := inlineData(t, first.LastMarkup()); got[0] != "unregister|T7" {
		t.Fatalf("after register data = %v", got)
	}
	raw, err := os.ReadFile(filepath.Join(h.dir, "registrations", "1.json"))
	if err != nil || string(raw) != `["T7"]` {
		t.Fatalf("stored = %q, %v", raw, err)
	}

	second := h.callback(1, "register|T7")
	if got := lastResponse(t, second); got != "Вы отписались от тура" {
		t.Fatalf("toast = %q", got)
	}
	if got := inlineText(t, second.LastMarkup()); got[0] != "❌ 10:00 - Walk" {
		t.Fatalf("after second tap = %v", got)
	}
}

func TestTourUnregisterOfUnknownTourShowsDates(t *testing.T) {
	h := newHarness(t, map[string]string{"data/tours.json": toursJSON})
	h.command(1, "/tours")

	c := h.callback(1, "register|gone")
	if got := inlineData(t, c.LastMarkup()); !reflect.DeepEqual(got, []string{"date|2024-05-20", "date|2024-06-01"}) {
		t.Fatalf("markup = %v", got)
	}
}

func TestTourRegisterWithoutSnapshotStillPersists(t *testing.T) {
	h := newHarness(t, map[string]string{"data/tours.json": toursJSON})
	c := h.callback(1, "register|T7")
	if got := c.Texts(); len(got) != 1 || got[0] != "Пожалуйста, заново вызовите команду /tours" {
		t.Fatalf("texts = %q", got)
	}
	if _, err := os.Stat(filepath.Join(h.dir, "registrations", "1.json")); err != nil {
		t.Fatalf("registration not stored: %v", err)
	}
}

func TestTourDateSendsReachablePhotos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/walk.jpg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tours := `[
  {"id": "1", "date": "2024-06-01", "time": "10:00", "name": "Walk", "price": 1, "image": "` + srv.URL + `/walk.jpg"},
  {"id": "2", "date": "2024-06-01", "time": "11:00", "name": "Ride", "price": 1, "image": "` + srv.URL + `/ride.png"}
]`
	h := newHarness(t, map[string]string{"data/tours.json": tours})
	h.command(1, "/tours")

	c := h.callback(1, "date|2024-06-01")
	var photos []*tele.Photo
	for _, s := range c.Sent {
		if p, ok := s.What.(*tele.Photo); ok {
			photos = append(photos, p)
		}
	}
	if len(photos) != 1 || photos[0].Caption != "Walk" || photos[0].File.FileURL != srv.URL+"/walk.jpg" {
		t.Fatalf("photos = %+v", photos)
	}
}

func TestImageCheckerRules(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	local := filepath.Join(t.TempDir(), "cover.bin")
	if err := os.WriteFile(local, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ic := NewImageChecker(srv.Client(), time.Second)
	cases := []struct {
		src  string
		want bool
	}{
		{"", false},
		{local, true},
		{srv.URL + "/a.JPEG", true},
		{srv.URL + "/page.html", false},
		{"ftp://example.org/a.png", false},
		{"missing/local.png", false},
	}
	for _, tc := range cases {
		if _, got := ic.Photo(context.Background(), tc.src); got != tc.want {
			t.Fatalf("Photo(%q) = %v, want %v", tc.src, got, tc.want)
		}
	}

	var nilChecker *ImageChecker
	if _, ok := nilChecker.Photo(context.Background(), local); ok {
		t.Fatal("nil checker must not resolve images")
	}
}

func TestTourToggleFailureAnswersOnce(t *testing.T) {
	h := newHarness(t, map[string]string{
		"data/tours.json":       toursJSON,
		"registrations/42.json": "{corrupt",
	})
	h.command(42, "/tours")

	c := h.callback(42, "register|T7")
	if len(c.Responses) != 1 {
		t.Fatalf("callback answered %d times, want 1", len(c.Responses))
	}
	if r := c.Responses[0]; r == nil || r.Text != textGenericError || !r.ShowAlert {
		t.Fatalf("answer = %+v", r)
	}
}
