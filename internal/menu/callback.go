package menu

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCallbackData is the Telegram limit for callback_data in bytes.
const MaxCallbackData = 64

var (
	// ErrPipeInArgument rejects arguments that would break the verb|argument grammar.
	ErrPipeInArgument = errors.New("menu: callback argument contains '|'")
	// ErrCallbackTooLong rejects payloads Telegram would refuse.
	ErrCallbackTooLong = errors.New("menu: callback data exceeds 64 bytes")
)

func build(prefix, arg string) (string, error) {
	if strings.Contains(arg, "|") {
		return "", fmt.Errorf("%w: %q", ErrPipeInArgument, arg)
	}
	data := prefix + arg
	if len(data) > MaxCallbackData {
		return "", fmt.Errorf("%w: %q", ErrCallbackTooLong, data)
	}
	return data, nil
}

// TourDateData builds "date|<date>".
func TourDateData(date string) (string, error) { return build(VerbDate+"|", date) }

// RegisterData builds "register|<tour id>".
func RegisterData(tourID string) (string, error) { return build(VerbRegister+"|", tourID) }

// UnregisterData builds "unregister|<tour id>".
func UnregisterData(tourID string) (string, error) { return build(VerbUnregister+"|", tourID) }

// EventDateData builds "event_date|<date>".
func EventDateData(date string) (string, error) { return build(VerbEventDate+"|", date) }

// GuideCategoryData builds "guide_cat|<category>".
func GuideCategoryData(cat string) (string, error) { return build(VerbGuideCat+"|", cat) }

// ContactsCategoryData builds "contacts_cat|<category>".
func ContactsCategoryData(cat string) (string, error) { return build(VerbContactsCat+"|", cat) }

// MaterialData builds "material_<file name>".
func MaterialData(name string) (string, error) { return build(MaterialPrefix, name) }
