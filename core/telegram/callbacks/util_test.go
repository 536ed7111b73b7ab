package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestSplitRawData(t *testing.T) {
	key, payload := Split("register|t-42")
	if key != "register" || payload != "t-42" {
		t.Fatalf("got %q %q", key, payload)
	}
	key, payload = Split("event_back")
	if key != "event_back" || payload != "" {
		t.Fatalf("bare token: got %q %q", key, payload)
	}
}

func TestSplitKeepsPipesInPayload(t *testing.T) {
	_, payload := Split("date|2025-01-01|extra")
	if payload != "2025-01-01|extra" {
		t.Fatalf("payload = %q", payload)
	}
}

func TestParseCallbackDataPrefersUnique(t *testing.T) {
	key, payload := ParseCallbackData(&tele.Callback{Unique: "buy", Data: "7"})
	if key != "buy" || payload != "7" {
		t.Fatalf("got %q %q", key, payload)
	}
	key, payload = ParseCallbackData(&tele.Callback{Data: "\fbuy|7"})
	if key != "buy" || payload != "7" {
		t.Fatalf("encoded: got %q %q", key, payload)
	}
	if k, p := ParseCallbackData(nil); k != "" || p != "" {
		t.Fatalf("nil callback: got %q %q", k, p)
	}
}
