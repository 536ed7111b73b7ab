package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/format"
)

// ErrNoOperatorChat means the operator chat is not configured.
var ErrNoOperatorChat = errors.New("support: operator chat not configured")

// Sender delivers text to a chat and returns the id of the sent message.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, markdown bool) (int, error)
}

// Asker identifies the user behind a question.
type Asker struct {
	ID        int64
	Username  string
	FirstName string
}

// DisplayName is the @-name shown to operators.
func (a Asker) DisplayName() string {
	if a.Username != "" {
		return a.Username
	}
	return a.FirstName
}

// FormatQuestion renders the message posted to the operator chat.
func FormatQuestion(a Asker, question string) string {
	return "📩 Запрос от @" + a.DisplayName() + " (ID: " + strconv.FormatInt(a.ID, 10) + "):\n" + question
}

// FormatAnswer renders the Markdown message delivered to the asking user.
// Both texts are escaped so their own markup cannot break the message.
func FormatAnswer(question, answer string) string {
	return "Получен ответ от оператора\n*Ваш вопрос*: " + format.MD(question) + "\n*Ответ:* " + format.MD(answer)
}

// Relay forwards questions and routes operator replies through a TicketStore.
type Relay struct {
	tickets      TicketStore
	sender       Sender
	operatorChat int64
	now          func() time.Time
}

// NewRelay builds a Relay posting to operatorChat.
func NewRelay(tickets TicketStore, sender Sender, operatorChat int64) *Relay {
	return &Relay{tickets: tickets, sender: sender, operatorChat: operatorChat, now: time.Now}
}

// OperatorChat returns the configured operator chat id.
func (r *Relay) OperatorChat() int64 { return r.operatorChat }

// Forward posts the question to the operator chat and remembers who asked it.
func (r *Relay) Forward(ctx context.Context, a Asker, question string) (Ticket, error) {
	if r.operatorChat == 0 {
		return Ticket{}, ErrNoOperatorChat
	}
	msgID, err := r.sender.SendText(ctx, r.operatorChat, FormatQuestion(a, question), false)
	if err != nil {
		return Ticket{}, fmt.Errorf("support: forward: %w", err)
	}
	t := Ticket{
		ID:        uuid.New(),
		UserID:    a.ID,
		Username:  a.DisplayName(),
		Question:  question,
		CreatedAt: r.now(),
	}
	if err := r.tickets.Put(ctx, msgID, t); err != nil {
		return Ticket{}, err
	}
	logger.SVCSupport.LogAttrs(ctx, slog.LevelInfo, "support.forwarded",
		slog.String("ticket_id", t.ID.String()),
		slog.Int64("user_id", a.ID),
		slog.Int("operator_msg_id", msgID),
	)
	return t, nil
}

// Answer delivers an operator reply to the user whose question it answers.
// Unknown message ids yield ErrTicketNotFound and nothing is sent.
func (r *Relay) Answer(ctx context.Context, replyToMsgID int, answer string) (Ticket, error) {
	t, err := r.tickets.Get(ctx, replyToMsgID)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			logger.SVCSupport.LogAttrs(ctx, slog.LevelWarn, "support.ticket_missing",
				slog.Int("operator_msg_id", replyToMsgID),
			)
		}
		return Ticket{}, err
	}
	if _, err := r.sender.SendText(ctx, t.UserID, FormatAnswer(t.Question, answer), true); err != nil {
		return t, fmt.Errorf("support: deliver answer: %w", err)
	}
	logger.SVCSupport.LogAttrs(ctx, slog.LevelInfo, "support.answered",
		slog.String("ticket_id", t.ID.String()),
		slog.Int64("user_id", t.UserID),
	)
	return t, nil
}
