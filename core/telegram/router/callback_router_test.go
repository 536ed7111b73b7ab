package router

import (
	"errors"
	"testing"

	tg "github.com/m3rciful/tourbot/core/telegram"
	"github.com/m3rciful/tourbot/core/telegram/middleware"
	"github.com/m3rciful/tourbot/core/telegram/teletest"

	tele "gopkg.in/telebot.v4"
)

const sorry = "something went wrong"

func callbackRoute(t *testing.T, key string, h tele.HandlerFunc) tele.HandlerFunc {
	t.Helper()
	reg := tg.NewRegistry()
	if err := reg.RegisterCallback(key, h); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	return CallbackRoute(reg, CallbackOptions{
		OnError: func(c tele.Context, err error) error { return c.RespondAlert(sorry) },
	}).Handler
}

func singleAnswer(t *testing.T, c *teletest.Context) *tele.CallbackResponse {
	t.Helper()
	if len(c.Responses) != 1 {
		t.Fatalf("callback answered %d times, want 1", len(c.Responses))
	}
	return c.Responses[0]
}

func TestCallbackRouteAcksOnce(t *testing.T) {
	h := callbackRoute(t, "tap", func(c tele.Context) error { return nil })
	c := teletest.NewCallback(1, "tap|x")
	if err := h(c); err != nil {
		t.Fatalf("route: %v", err)
	}
	if r := singleAnswer(t, c); r != nil {
		t.Fatalf("plain ack = %+v", r)
	}
}

func TestCallbackRouteKeepsHandlerToast(t *testing.T) {
	h := callbackRoute(t, "tap", func(c tele.Context) error { return c.RespondText("done") })
	c := teletest.NewCallback(1, "tap|x")
	if err := h(c); err != nil {
		t.Fatalf("route: %v", err)
	}
	if r := singleAnswer(t, c); r == nil || r.Text != "done" {
		t.Fatalf("answer = %+v", r)
	}
}

func TestCallbackRouteAnswersErrorOnce(t *testing.T) {
	h := callbackRoute(t, "tap", func(c tele.Context) error { return errors.New("store down") })
	c := teletest.NewCallback(1, "tap|x")
	if err := h(c); err != nil {
		t.Fatalf("handled error leaked: %v", err)
	}
	if r := singleAnswer(t, c); r == nil || r.Text != sorry || !r.ShowAlert {
		t.Fatalf("answer = %+v", r)
	}
}

func TestCallbackRouteAnswersPanicOnce(t *testing.T) {
	middleware.SetPanicReply(func(c tele.Context) error { return c.RespondAlert(sorry) })
	t.Cleanup(func() { middleware.SetPanicReply(nil) })

	h := callbackRoute(t, "tap", func(c tele.Context) error { panic("boom") })
	c := teletest.NewCallback(1, "tap|x")
	if err := h(c); err != nil {
		t.Fatalf("route: %v", err)
	}
	if r := singleAnswer(t, c); r == nil || r.Text != sorry || !r.ShowAlert {
		t.Fatalf("answer = %+v", r)
	}
}
