// Package bot holds the tour bot Telegram handlers and wires them into the core runtime.
package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/tourbot/core/logger"
	tg "github.com/m3rciful/tourbot/core/telegram"
	"github.com/m3rciful/tourbot/core/telegram/commands"
	"github.com/m3rciful/tourbot/core/telegram/helpers"
	"github.com/m3rciful/tourbot/core/telegram/middleware"
	"github.com/m3rciful/tourbot/core/telegram/router"
	"github.com/m3rciful/tourbot/core/telegram/state"
	"github.com/m3rciful/tourbot/internal/catalog"
	"github.com/m3rciful/tourbot/internal/menu"
	"github.com/m3rciful/tourbot/internal/order"
	"github.com/m3rciful/tourbot/internal/registration"
	"github.com/m3rciful/tourbot/internal/support"
	"github.com/m3rciful/tourbot/internal/userlog"

	tele "gopkg.in/telebot.v4"
)

// Deps are the services the handlers work on.
type Deps struct {
	Catalog       *catalog.Repository
	Registrations *registration.Service
	Orders        *order.Service
	Relay         *support.Relay
	Journal       *userlog.Journal
	Images        *ImageChecker
	// Sessions defaults to an in-memory store.
	Sessions state.Store[Session]

	WebAppURL   string
	WelcomeText string
	BotUsername string
}

// Bot dispatches menu intents to the content domains.
type Bot struct {
	catalog       *catalog.Repository
	registrations *registration.Service
	orders        *order.Service
	relay         *support.Relay
	journal       *userlog.Journal
	images        *ImageChecker
	sessions      state.Store[Session]

	webAppURL   string
	welcomeText string
	botUsername string

	text map[menu.Kind]tele.HandlerFunc
}

// New builds a Bot.
func New(d Deps) *Bot {
	b := &Bot{
		catalog:       d.Catalog,
		registrations: d.Registrations,
		orders:        d.Orders,
		relay:         d.Relay,
		journal:       d.Journal,
		images:        d.Images,
		sessions:      d.Sessions,
		webAppURL:     d.WebAppURL,
		welcomeText:   d.WelcomeText,
		botUsername:   d.BotUsername,
	}
	if b.sessions == nil {
		b.sessions = state.NewMemoryStore[Session]()
	}
	if b.welcomeText == "" {
		b.welcomeText = textDefaultHello
	}
	b.text = map[menu.Kind]tele.HandlerFunc{
		menu.UnknownText:     b.unknownText,
		menu.OperatorReply:   b.operatorReply,
		menu.SupportQuestion: b.supportQuestion,

		menu.Events:    b.topLevel(b.showEvents),
		menu.Tours:     b.topLevel(b.showTours),
		menu.Souvenirs: b.topLevel(b.showSouvenirs),
		menu.Materials: b.topLevel(b.showMaterials),
		menu.Guide:     b.topLevel(b.showGuide),
		menu.Contacts:  b.topLevel(b.showContacts),
		menu.Support:   b.topLevel(b.askSupport),

		menu.SouvenirViewOrder:   b.viewOrder,
		menu.SouvenirCancelOrder: b.cancelOrder,
		menu.SouvenirBack:        b.souvenirBack,
		menu.SouvenirUnknown:     b.souvenirUnknown,
	}
	return b
}

// Register adds the bot commands and callback handlers to reg.
func (b *Bot) Register(reg *tg.Registry) error {
	cmds := map[string]commands.Command{
		"/start":     {Handler: b.topLevel(b.start), Description: "Главное меню", Order: 1},
		"/events":    {Handler: b.topLevel(b.showEvents), Description: "Мероприятия", Order: 2},
		"/contacts":  {Handler: b.topLevel(b.showContacts), Description: "Контакты", Order: 3},
		"/tours":     {Handler: b.topLevel(b.showTours), Description: "Экскурсии", Order: 4},
		"/souvenirs": {Handler: b.topLevel(b.showSouvenirs), Description: "Сувениры", Order: 5},
		"/materials": {Handler: b.topLevel(b.showMaterials), Description: "Материалы", Order: 6},
		"/guide":     {Handler: b.topLevel(b.showGuide), Description: "Путеводитель", Order: 7},
		"/support":   {Handler: b.topLevel(b.askSupport), Description: "Связаться с оператором", Order: 8},

		"/material":    {Handler: b.topLevel(b.showMaterials), Description: "Материалы", Hidden: true},
		"/myorder":     {Handler: b.souvenirCommand(b.viewOrder), Description: "Мой заказ", Hidden: true},
		"/cancelorder": {Handler: b.souvenirCommand(b.cancelOrder), Description: "Отменить заказ", Hidden: true},

		"/export_orders": {Handler: b.exportOrders, Description: "Выгрузить заказы", AdminOnly: true},
		"/qr":            {Handler: b.sendQR, Description: "QR-код бота", AdminOnly: true},
	}
	var errs []error
	for name, cmd := range cmds {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			errs = append(errs, err)
		}
	}

	cbs := map[menu.Kind]tele.HandlerFunc{
		menu.TourDate:         b.tourDate,
		menu.TourRegister:     b.tourToggle,
		menu.TourUnregister:   b.tourToggle,
		menu.TourBackToDates:  b.tourBack,
		menu.EventDate:        b.eventDate,
		menu.EventBack:        b.eventBack,
		menu.GuideCategory:    b.guideCategory,
		menu.GuideBack:        b.guideBack,
		menu.ContactsCategory: b.contactsCategory,
		menu.ContactsBack:     b.contactsBack,
		menu.Material:         b.sendMaterial,
		menu.MyOrder:          b.myOrderCallback,
		menu.CancelOrder:      b.cancelOrderCallback,
		menu.CancelSupport:    b.cancelSupport,
	}
	for kind, h := range cbs {
		if err := reg.RegisterCallback(kind.String(), h); err != nil {
			errs = append(errs, err)
		}
	}
	reg.SetCallbackNotFound(b.unknownCallback)
	return errors.Join(errs...)
}

// Routes builds every endpoint of the bot on top of a populated registry.
func (b *Bot) Routes(reg *tg.Registry, adminID int64) []tg.Route {
	middleware.SetPanicReply(b.replyError)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       adminID,
		OnAdminReject: b.adminRejected,
	})
	routes = append(routes, router.TextRoutes(router.TextResolverFunc(b.ResolveText), reg, router.TextOptionsFrom(b))...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		Parse:    parseCallback,
		NotFound: b.unknownCallback,
		OnError:  b.callbackFailed,
	}))
	routes = append(routes, tg.Route{
		Endpoint: tele.OnWebApp,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(b.webAppData)),
	})
	return routes
}

// OnError receives handler errors that escaped the router.
func (b *Bot) OnError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		ctx = helpers.BuildContext(c)
	}
	logger.Error(ctx, "tg", "handler.error", slog.String("err", err.Error()))
	if c != nil {
		_ = b.replyError(c)
	}
}

// callbackFailed logs a callback handler error and answers the callback with
// the generic apology. The route answers callbacks once, so this reply wins
// over its plain ack unless the handler already answered.
func (b *Bot) callbackFailed(c tele.Context, err error) error {
	logger.Error(helpers.BuildContext(c), "tg", "handler.error", slog.String("err", err.Error()))
	return b.replyError(c)
}

// OnRateLimited tells the user to slow down.
func (b *Bot) OnRateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.RespondText(textRateLimited)
	}
	return c.Send(textRateLimited)
}

func parseCallback(data string) (string, string) {
	in := menu.ParseCallback(data)
	return in.Kind.String(), in.Arg
}

func (b *Bot) replyError(c tele.Context) error {
	if c.Callback() != nil {
		return c.RespondAlert(textGenericError)
	}
	return c.Send(textGenericError)
}

func (b *Bot) adminRejected(c tele.Context) error {
	return c.Send(textAdminOnly)
}

// topLevel resets navigation before a main menu entry and records the visit.
func (b *Bot) topLevel(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		b.record(c, c.Text())
		b.resetNavigation(c)
		return h(c)
	}
}

func (b *Bot) record(c tele.Context, text string) {
	b.journal.Record(helpers.BuildContext(c), userID(c), username(c), text)
}
