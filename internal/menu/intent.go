// Package menu turns free text and callback payloads into intents.
// Parsing is pure: handlers are chosen elsewhere from the returned Kind.
package menu

// Kind enumerates everything an update can ask the bot to do.
type Kind int

const (
	// UnknownText is free text that matches no menu entry.
	UnknownText Kind = iota
	// Ignore drops the update without replying.
	Ignore
	// Command is slash-prefixed text left to the command registry.
	Command
	// OperatorReply is an operator answering a forwarded question.
	OperatorReply
	// SupportQuestion is the text a user sends while a question is expected.
	SupportQuestion

	Events
	Tours
	Souvenirs
	Materials
	Guide
	Contacts
	Support

	SouvenirViewOrder
	SouvenirCancelOrder
	SouvenirBack
	SouvenirUnknown

	TourDate
	TourRegister
	TourUnregister
	TourBackToDates
	EventDate
	EventBack
	GuideCategory
	GuideBack
	ContactsCategory
	ContactsBack
	Material
	MyOrder
	CancelOrder
	CancelSupport
	UnknownCallback
)

var kindNames = map[Kind]string{
	UnknownText:         "unknown_text",
	Ignore:              "ignore",
	Command:             "command",
	OperatorReply:       "operator_reply",
	SupportQuestion:     "support_question",
	Events:              "events",
	Tours:               "tours",
	Souvenirs:           "souvenirs",
	Materials:           "materials",
	Guide:               "guide",
	Contacts:            "contacts",
	Support:             "support",
	SouvenirViewOrder:   "souvenirs.view_order",
	SouvenirCancelOrder: "souvenirs.cancel_order",
	SouvenirBack:        "souvenirs.back",
	SouvenirUnknown:     "souvenirs.unknown",
	TourDate:            "tours.date",
	TourRegister:        "tours.register",
	TourUnregister:      "tours.unregister",
	TourBackToDates:     "tours.back",
	EventDate:           "events.date",
	EventBack:           "events.back",
	GuideCategory:       "guide.category",
	GuideBack:           "guide.back",
	ContactsCategory:    "contacts.category",
	ContactsBack:        "contacts.back",
	Material:            "materials.file",
	MyOrder:             "orders.view",
	CancelOrder:         "orders.cancel",
	CancelSupport:       "support.cancel",
	UnknownCallback:     "unknown_callback",
}

// String returns a stable handler name used in logs.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(?)"
}

// Intent is a parsed request. Arg carries the callback argument
// (date, tour id, category, file name) when the kind has one.
type Intent struct {
	Kind Kind
	Arg  string
}
