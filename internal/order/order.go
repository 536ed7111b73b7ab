// Package order stores souvenir orders, one record per user, and renders summaries.
package order

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/tourbot/core/telegram/format"
)

// ErrNotFound is returned when the user has no stored order.
var ErrNotFound = errors.New("order: not found")

// Item is one order line.
type Item struct {
	ID    string
	Name  string
	Unit  string
	Qty   int
	Price float64
}

// Subtotal is Qty × Price.
func (it Item) Subtotal() float64 { return float64(it.Qty) * it.Price }

// Order is a user's current souvenir selection. A save replaces it entirely.
type Order struct {
	UserID    int64
	Username  string
	FullName  string
	Packaging string
	Items     []Item
	SavedAt   time.Time
}

// Total sums all line subtotals.
func (o Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Subtotal()
	}
	return sum
}

// Store persists orders keyed by user id.
type Store interface {
	// Get returns ErrNotFound when the user has no order.
	Get(ctx context.Context, userID int64) (Order, error)
	Put(ctx context.Context, o Order) error
	// Delete reports whether an order existed.
	Delete(ctx context.Context, userID int64) (bool, error)
	All(ctx context.Context) ([]Order, error)
}

// ParseNumber reads a free-form stored number. Anything that is not a finite
// decimal is 0, so NaN, Inf, hex and underscore forms all count as 0.
// Comma decimal separators and spaces are tolerated.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" || strings.TrimLeft(s, "0123456789.+-eE") != "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseQty reads a stored quantity. Fractional or malformed values are 0.
func ParseQty(raw string) int {
	v := ParseNumber(raw)
	if v != float64(int(v)) {
		return 0
	}
	return int(v)
}

// Line renders "{name} — {qty} {unit} × {price} ₽ = {subtotal} ₽".
func Line(it Item) string {
	return it.Name + " — " + strconv.Itoa(it.Qty) + " " + it.Unit +
		" × " + format.Number(it.Price) + " ₽ = " + format.Number(it.Subtotal()) + " ₽"
}

// Summary renders the full order view with the grand total.
func Summary(o Order) string {
	var b strings.Builder
	b.WriteString("Ваш текущий заказ:\n")
	for i, it := range o.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Line(it))
	}
	b.WriteString("\n\n💰 Итоговая сумма: ")
	b.WriteString(format.Number(o.Total()))
	b.WriteString(" ₽")
	return b.String()
}
