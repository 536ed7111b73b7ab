package menu

import "strings"

// TextInput is everything ParseText needs to know about a text message.
type TextInput struct {
	ChatID         int64
	OperatorChatID int64
	Text           string
	IsReply        bool

	// AwaitingQuestion is set while the user is expected to type a support question.
	AwaitingQuestion bool
	// Menu is the sticky sub-menu marker from the session.
	Menu string
}

// ParseText picks the intent for a text message. Precedence:
// operator chat, commands, pending support question, sticky sub-menu, main labels.
func ParseText(in TextInput) Intent {
	if in.OperatorChatID != 0 && in.ChatID == in.OperatorChatID {
		if in.IsReply {
			return Intent{Kind: OperatorReply}
		}
		return Intent{Kind: Ignore}
	}

	text := in.Text
	if strings.HasPrefix(text, "/") {
		return Intent{Kind: Command}
	}
	if in.AwaitingQuestion {
		return Intent{Kind: SupportQuestion}
	}
	if in.Menu == MenuSouvenirs {
		if k, ok := souvenirLabels[text]; ok {
			return Intent{Kind: k}
		}
		return Intent{Kind: SouvenirUnknown}
	}
	if k, ok := mainLabels[text]; ok {
		return Intent{Kind: k}
	}
	return Intent{Kind: UnknownText}
}

// Callback data verbs and tokens.
const (
	VerbDate        = "date"
	VerbRegister    = "register"
	VerbUnregister  = "unregister"
	VerbEventDate   = "event_date"
	VerbGuideCat    = "guide_cat"
	VerbContactsCat = "contacts_cat"

	TokenBackToDates   = "back_to_dates"
	TokenEventBack     = "event_back"
	TokenGuideBack     = "guide_back"
	TokenContactsBack  = "contacts_back"
	TokenMyOrder       = "myorder"
	TokenCancelOrder   = "cancelorder"
	TokenCancelSupport = "cancel_support"

	MaterialPrefix = "material_"
)

type callbackRule struct {
	prefix string
	kind   Kind
	// exact rules match the whole payload and carry no argument.
	exact bool
}

// First match wins.
var callbackRules = []callbackRule{
	{prefix: VerbDate + "|", kind: TourDate},
	{prefix: VerbRegister + "|", kind: TourRegister},
	{prefix: VerbUnregister + "|", kind: TourUnregister},
	{prefix: TokenBackToDates, kind: TourBackToDates, exact: true},
	{prefix: VerbEventDate + "|", kind: EventDate},
	{prefix: TokenEventBack, kind: EventBack, exact: true},
	{prefix: VerbGuideCat + "|", kind: GuideCategory},
	{prefix: TokenGuideBack, kind: GuideBack, exact: true},
	{prefix: VerbContactsCat + "|", kind: ContactsCategory},
	{prefix: TokenContactsBack, kind: ContactsBack, exact: true},
	{prefix: MaterialPrefix, kind: Material},
	{prefix: TokenMyOrder, kind: MyOrder, exact: true},
	{prefix: TokenCancelOrder, kind: CancelOrder, exact: true},
	{prefix: TokenCancelSupport, kind: CancelSupport, exact: true},
}

// ParseCallback maps raw callback data to an intent.
func ParseCallback(data string) Intent {
	data = strings.TrimPrefix(data, "\f")
	for _, r := range callbackRules {
		if r.exact {
			if data == r.prefix {
				return Intent{Kind: r.kind}
			}
			continue
		}
		if arg, ok := strings.CutPrefix(data, r.prefix); ok {
			return Intent{Kind: r.kind, Arg: arg}
		}
	}
	return Intent{Kind: UnknownCallback}
}
