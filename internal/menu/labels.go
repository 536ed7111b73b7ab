package menu

import "github.com/m3rciful/tourbot/core/telegram/keyboard"

// Main menu labels.
const (
	LabelEvents    = "📅 Мероприятия"
	LabelContacts  = "📞 Контакты"
	LabelTours     = "🏛 Экскурсии"
	LabelSouvenirs = "🛍 Сувениры"
	LabelMaterials = "📚 Материалы"
	LabelGuide     = "🧭 Путеводитель"
	LabelSupport   = "👨💻 Связаться с оператором"
)

// Souvenir sub-menu labels.
const (
	LabelMakeOrder   = "Сделать/обновить заказ"
	LabelViewOrder   = "Посмотреть заказ"
	LabelCancelOrder = "Отменить заказ"
	LabelBack        = "Назад"
)

// MenuSouvenirs marks a session whose free text belongs to the souvenir sub-menu.
const MenuSouvenirs = "souvenirs"

var mainLabels = map[string]Kind{
	LabelEvents:    Events,
	LabelTours:     Tours,
	LabelSouvenirs: Souvenirs,
	LabelMaterials: Materials,
	LabelGuide:     Guide,
	LabelSupport:   Support,
	LabelContacts:  Contacts,
}

var souvenirLabels = map[string]Kind{
	LabelViewOrder:   SouvenirViewOrder,
	LabelCancelOrder: SouvenirCancelOrder,
	LabelBack:        SouvenirBack,
}

// MainKeyboard lays out the main menu as a reply keyboard.
func MainKeyboard() [][]string {
	return [][]string{
		{LabelEvents, LabelContacts, LabelTours},
		{LabelSouvenirs, LabelMaterials, LabelGuide},
		{LabelSupport},
	}
}

// SouvenirKeyboard lays out the souvenir sub-menu. The order button opens the Web App.
func SouvenirKeyboard(webAppURL string, hasOrder bool) [][]keyboard.ReplyBtn {
	rows := [][]keyboard.ReplyBtn{{{Text: LabelMakeOrder, WebAppURL: webAppURL}}}
	if hasOrder {
		rows = append(rows, []keyboard.ReplyBtn{{Text: LabelViewOrder}, {Text: LabelCancelOrder}})
	}
	return append(rows, []keyboard.ReplyBtn{{Text: LabelBack}})
}
