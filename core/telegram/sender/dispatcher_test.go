package sender

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/m3rciful/tourbot/core/logger"
)

func TestDispatcherKeepsPerChatOrder(t *testing.T) {
	d := NewDispatcher(Options{Workers: 4, QueueSize: 128})

	var mu sync.Mutex
	got := make(map[int64][]int)
	for i := 0; i < 40; i++ {
		for _, chat := range []int64{10, 11, 12} {
			chat, i := chat, i
			ctx := logger.WithUpdateMeta(context.Background(), 1, chat, chat)
			err := d.Enqueue(ctx, "send.text", "sendMessage", func() error {
				mu.Lock()
				got[chat] = append(got[chat], i)
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Fatalf("enqueue: %v", err)
			}
		}
	}
	d.Close()

	for chat, seq := range got {
		if len(seq) != 40 {
			t.Fatalf("chat %d: %d jobs ran, want 40", chat, len(seq))
		}
		for i, v := range seq {
			if v != i {
				t.Fatalf("chat %d: out of order at %d: %v", chat, i, seq)
			}
		}
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	d.Close()
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestDispatcherCountsFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 0, MaxDuration: time.Second})
	_ = d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		return errors.New("bad request (400)")
	})
	d.Close()
	if d.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", d.ErrorCount())
	}
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond, MaxDuration: time.Second})
	var calls int
	_ = d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		calls++
		if calls < 3 {
			return syscall.ECONNRESET
		}
		return nil
	})
	d.Close()
	if calls != 3 || d.ErrorCount() != 0 {
		t.Fatalf("calls = %d, failures = %d", calls, d.ErrorCount())
	}
}

func TestDispatcherStopsOnPermanentError(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 5, RetryBackoff: time.Millisecond})
	var calls int
	_ = d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		calls++
		return errors.New("Forbidden: bot was blocked by the user (403)")
	})
	d.Close()
	if calls != 1 || d.ErrorCount() != 1 {
		t.Fatalf("calls = %d, failures = %d", calls, d.ErrorCount())
	}
}

func TestClassifyErrorByStatus(t *testing.T) {
	if got := classifyError(errors.New("telegram: internal (502)")); got != "http_5xx" {
		t.Fatalf("classify 502 = %s", got)
	}
	if got := classifyError(context.DeadlineExceeded); got != "timeout" {
		t.Fatalf("classify deadline = %s", got)
	}
	if got := classifyError(errors.New("Forbidden (403)")); got != "http_4xx" {
		t.Fatalf("classify 403 = %s", got)
	}
	if got := classifyError(errors.New("no code here")); got != "unknown" {
		t.Fatalf("classify plain = %s", got)
	}
}

func TestSanitizeErrorMessageRedactsToken(t *testing.T) {
	msg := sanitizeErrorMessage(errors.New("Post https://api.telegram.org/bot123:ABC-def/sendMessage: timeout"))
	if msg != "Post https://api.telegram.org/bot<redacted>/sendMessage: timeout" {
		t.Fatalf("sanitized = %s", msg)
	}
}
