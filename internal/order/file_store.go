package order

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/core/telegram/format"
)

// csvHeader is the on-disk column layout of an order file.
var csvHeader = []string{"user_id", "username", "fio", "packaging", "item_id", "name", "unit", "qty", "price", "timestamp"}

// FileStore keeps one CSV file per user in a directory.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore returns a store writing <dir>/<user_id>.csv.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

func (s *FileStore) path(userID int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(userID, 10)+".csv")
}

// Get reads the user's order. An existing file without rows counts as no order.
func (s *FileStore) Get(_ context.Context, userID int64) (Order, error) {
	f, err := os.Open(s.path(userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("order: open: %w", err)
	}
	defer f.Close()

	o, err := readCSV(f)
	if err != nil {
		return Order{}, fmt.Errorf("order: read %d: %w", userID, err)
	}
	if len(o.Items) == 0 {
		return Order{}, ErrNotFound
	}
	if o.UserID == 0 {
		o.UserID = userID
	}
	return o, nil
}

// Put replaces the user's order file. The file is written to a temp name and renamed.
func (s *FileStore) Put(ctx context.Context, o Order) error {
	if o.SavedAt.IsZero() {
		o.SavedAt = s.now()
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("order: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".order-*.csv")
	if err != nil {
		return fmt.Errorf("order: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, o); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("order: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("order: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(o.UserID)); err != nil {
		return fmt.Errorf("order: rename: %w", err)
	}
	logger.SVCOrders.LogAttrs(ctx, slog.LevelDebug, "order.file_saved",
		slog.Int64("user_id", o.UserID),
		slog.Int("items", len(o.Items)),
	)
	return nil
}

// Delete removes the user's order file.
func (s *FileStore) Delete(_ context.Context, userID int64) (bool, error) {
	err := os.Remove(s.path(userID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("order: remove: %w", err)
	}
}

// All reads every order in the directory, ordered by user id.
func (s *FileStore) All(ctx context.Context) ([]Order, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("order: list: %w", err)
	}
	var out []Order
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, ".csv"), 10, 64)
		if err != nil {
			continue
		}
		o, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			logger.SVCOrders.LogAttrs(ctx, slog.LevelWarn, "order.file_skipped",
				slog.String("path", name),
				slog.String("err", err.Error()),
			)
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func writeCSV(w io.Writer, o Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	uid := strconv.FormatInt(o.UserID, 10)
	ts := o.SavedAt.Format(time.RFC3339)
	for _, it := range o.Items {
		row := []string{
			uid, o.Username, o.FullName, o.Packaging,
			it.ID, it.Name, it.Unit,
			strconv.Itoa(it.Qty), format.Number(it.Price),
			ts,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV accepts files written by older versions: columns are located by header
// name and numeric fields go through the fallback parser.
func readCSV(r io.Reader) (Order, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Order{}, nil
		}
		return Order{}, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var o Order
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Order{}, err
		}
		if len(o.Items) == 0 {
			o.UserID, _ = strconv.ParseInt(field(row, "user_id"), 10, 64)
			o.Username = field(row, "username")
			o.FullName = field(row, "fio")
			o.Packaging = field(row, "packaging")
			o.SavedAt = parseTimestamp(field(row, "timestamp"))
		}
		o.Items = append(o.Items, Item{
			ID:    field(row, "item_id"),
			Name:  field(row, "name"),
			Unit:  field(row, "unit"),
			Qty:   ParseQty(field(row, "qty")),
			Price: ParseNumber(field(row, "price")),
		})
	}
	return o, nil
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
