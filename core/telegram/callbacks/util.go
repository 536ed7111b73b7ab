package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// payloadKey is where the callback route stores the argument it resolved.
const payloadKey = "cb_payload"

// Split separates callback data into key and payload.
// Telebot's "\f<unique>|<payload>" encoding and raw "<verb>|<payload>" data are both accepted.
func Split(data string) (string, string) {
	raw := strings.TrimPrefix(data, "\f")
	key, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}

// ParseCallbackData splits the callback data, preferring cb.Unique when telebot already decoded it.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return Split(cb.Data)
}

// StorePayload records the argument resolved by the router for downstream handlers.
func StorePayload(c tele.Context, payload string) {
	c.Set(payloadKey, payload)
}

// CallbackPayload returns the argument of the current callback.
func CallbackPayload(c tele.Context) string {
	if v, ok := c.Get(payloadKey).(string); ok {
		return v
	}
	_, payload := ParseCallbackData(c.Callback())
	return payload
}
