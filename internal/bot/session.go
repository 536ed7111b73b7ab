package bot

import (
	"github.com/m3rciful/tourbot/core/telegram/state"
	"github.com/m3rciful/tourbot/internal/catalog"
	"github.com/m3rciful/tourbot/internal/support"

	tele "gopkg.in/telebot.v4"
)

// Session is the per-user navigation record. It lives in memory only.
type Session struct {
	State state.State
	// Menu is the sticky sub-menu marker, see menu.MenuSouvenirs.
	Menu string

	// Date snapshots taken when the user opened events or tours.
	Events *catalog.Snapshot[catalog.Event]
	Tours  *catalog.Snapshot[catalog.Tour]
}

// AwaitingQuestion reports whether the next text is a support question.
func (s Session) AwaitingQuestion() bool {
	return s.State == support.StateAwaitingQuestion
}

func userID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	if ch := c.Chat(); ch != nil {
		return ch.ID
	}
	return 0
}

func username(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return u.Username
	}
	return ""
}

func (b *Bot) session(c tele.Context) Session {
	s, _ := b.sessions.Get(userID(c))
	return s
}

func (b *Bot) updateSession(c tele.Context, fn func(s *Session)) Session {
	return b.sessions.Update(userID(c), fn)
}

// resetNavigation returns the user to the top level: no sub-menu, no pending question.
func (b *Bot) resetNavigation(c tele.Context) {
	b.updateSession(c, func(s *Session) {
		s.State = state.StateIdle
		s.Menu = ""
	})
}
