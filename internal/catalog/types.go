// Package catalog loads the read-mostly content shown by the bot: events,
// tours, guide places, contacts, message texts and downloadable materials.
package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Scalar is a JSON value that may be written as a string or a number.
// It keeps the literal text so prices like 1500 and "1 500" both render as typed.
type Scalar string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	*s = Scalar(b)
	return nil
}

func (s Scalar) String() string { return string(s) }

// Event is one entry of the events catalog, keyed by date in the source document.
type Event struct {
	Time        string `json:"time"`
	EndTime     string `json:"end_time,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Period renders "start - end" or just the start time.
func (e Event) Period() string { return period(e.Time, e.EndTime) }

// Tour is one bookable tour occurrence.
type Tour struct {
	ID          Scalar `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	EndTime     string `json:"end_time,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Scalar `json:"price"`
	Link        string `json:"link,omitempty"`
	// Image is a local file path or an image URL.
	Image string `json:"image,omitempty"`
}

// Period renders "start - end" or just the start time.
func (t Tour) Period() string { return period(t.Time, t.EndTime) }

// Link is a titled hyperlink attached to a guide place.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text,omitempty"`
}

// Place is a guide entry.
type Place struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
	Links       []Link `json:"links,omitempty"`
}

// Contact is a person or office listed under a contacts category.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Info  string `json:"info,omitempty"`
}

func period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if end == "" {
		return start
	}
	return start + " - " + end
}
