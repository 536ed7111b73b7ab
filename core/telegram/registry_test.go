package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/tourbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommandValidation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "x"}); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("missing slash: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop}); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("missing description: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Again"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate: %v", err)
	}
}

func TestRegistryListCommandsOrder(t *testing.T) {
	reg := NewRegistry()
	for name, cmd := range map[string]commands.Command{
		"/zeta":   {Handler: noop, Description: "z"},
		"/alpha":  {Handler: noop, Description: "a"},
		"/second": {Handler: noop, Description: "2", Order: 2},
		"/first":  {Handler: noop, Description: "1", Order: 1},
		"/hidden": {Handler: noop, Description: "h", Hidden: true},
		"/admin":  {Handler: noop, Description: "adm", AdminOnly: true, Order: 1},
	} {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	var got []string
	for _, c := range reg.ListCommands(true) {
		got = append(got, c.Text)
	}
	want := []string{"first", "second", "alpha", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("visible = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visible = %v, want %v", got, want)
		}
	}
	if all := reg.ListCommands(false); len(all) != 6 {
		t.Fatalf("all = %d commands", len(all))
	}
}

func TestRegistryLookupByAlias(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("/materials", commands.Command{Handler: noop, Description: "m", Aliases: []string{"material", "/docs"}}); err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{"materials", "/materials", "material", "/material", "docs", "/docs"} {
		key, _, ok := reg.LookupCommand(in)
		if !ok || key != "/materials" {
			t.Fatalf("lookup %q: key=%q ok=%v", in, key, ok)
		}
	}
	if _, _, ok := reg.LookupCommand("/unknown"); ok {
		t.Fatal("unknown command found")
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("", noop); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("empty key: %v", err)
	}
	for _, key := range []string{"tour", "guide"} {
		if err := reg.RegisterCallback(key, noop); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.RegisterCallback("tour", noop); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate: %v", err)
	}
	if keys := reg.ListCallbacks(); len(keys) != 2 || keys[0] != "guide" || keys[1] != "tour" {
		t.Fatalf("keys = %v", keys)
	}
	if _, ok := reg.GetCallback("guide"); !ok {
		t.Fatal("guide callback missing")
	}

	before := reg.CallbackNotFound()
	reg.SetCallbackNotFound(nil)
	if reg.CallbackNotFound() == nil || before == nil {
		t.Fatal("nil must not replace the fallback")
	}

	if reg.TextFallback() != nil {
		t.Fatal("text fallback must start unset")
	}
	reg.SetTextFallback(noop)
	if reg.TextFallback() == nil {
		t.Fatal("text fallback not stored")
	}
}
