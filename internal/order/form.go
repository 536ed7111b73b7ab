package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCart is returned for a form without items.
var ErrEmptyCart = errors.New("order: empty cart")

// DefaultFullName is used when the form omits the customer's name.
const DefaultFullName = "Не указано"

// Form is the payload submitted by the souvenir Web App.
type Form struct {
	Cancel    bool
	FullName  string
	Packaging string
	Items     []Item
}

type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
	default:
		*v = formValue(b)
	}
	return nil
}

type formItem struct {
	ID    formValue `json:"id"`
	Name  formValue `json:"name"`
	Unit  formValue `json:"unit"`
	Qty   formValue `json:"qty"`
	Price formValue `json:"price"`
}

type formPayload struct {
	CancelOrder bool            `json:"cancelOrder"`
	FIO         *string         `json:"fio"`
	Packaging   string          `json:"packaging"`
	Items       json.RawMessage `json:"items"`
}

// ParseForm decodes and normalizes a Web App payload. Quantities and prices are
// converted to numbers here so stored orders are always well typed.
func ParseForm(data string) (Form, error) {
	var p formPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Form{}, fmt.Errorf("order: decode form: %w", err)
	}
	if p.CancelOrder {
		return Form{Cancel: true}, nil
	}

	f := Form{FullName: DefaultFullName, Packaging: strings.TrimSpace(p.Packaging)}
	if p.FIO != nil {
		f.FullName = *p.FIO
	}

	var items []formItem
	if len(p.Items) == 0 || json.Unmarshal(p.Items, &items) != nil || len(items) == 0 {
		return f, ErrEmptyCart
	}
	f.Items = make([]Item, 0, len(items))
	for _, it := range items {
		f.Items = append(f.Items, Item{
			ID:    string(it.ID),
			Name:  string(it.Name),
			Unit:  string(it.Unit),
			Qty:   ParseQty(string(it.Qty)),
			Price: ParseNumber(string(it.Price)),
		})
	}
	return f, nil
}
