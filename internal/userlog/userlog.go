// Package userlog appends a per-user activity journal to <dir>/<user_id>.log.
package userlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/m3rciful/tourbot/core/logger"
)

// Journal writes one line per recorded user action.
type Journal struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

// New returns a journal writing into dir. An empty dir disables it.
func New(dir string) *Journal {
	return &Journal{dir: dir, now: time.Now}
}

// Record appends "<time> - @<username>: <text>". Failures are logged, not returned.
func (j *Journal) Record(ctx context.Context, userID int64, username, text string) {
	if j == nil || j.dir == "" {
		return
	}
	if err := j.append(userID, username, text); err != nil {
		logger.FromContext(ctx).LogAttrs(ctx, slog.LevelWarn, "userlog.write_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

func (j *Journal) append(userID int64, username, text string) error {
	tag := "@unknown"
	if username != "" {
		tag = "@" + username
	}
	line := fmt.Sprintf("%s - %s: %s\n", j.now().Format("2006-01-02T15:04:05.000000"), tag, text)

	j.mu.Lock()
	defer j.mu.Unlock()
	f, err := os.OpenFile(filepath.Join(j.dir, strconv.FormatInt(userID, 10)+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
