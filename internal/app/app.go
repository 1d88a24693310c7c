// Package app assembles the booking bot: storage, sessions, conversations,
// menus, and the Telegram runtime options.
package app

import (
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/9304065865a/podolog/core/logger"
	tg "github.com/9304065865a/podolog/core/telegram"
	"github.com/9304065865a/podolog/core/telegram/callbacks"
	"github.com/9304065865a/podolog/core/telegram/commands"
	tghelpers "github.com/9304065865a/podolog/core/telegram/helpers"
	"github.com/9304065865a/podolog/core/telegram/router"
	"github.com/9304065865a/podolog/internal/flow"
	"github.com/9304065865a/podolog/internal/flow/appointment"
	"github.com/9304065865a/podolog/internal/flow/schedulefill"
	"github.com/9304065865a/podolog/internal/models"
	"github.com/9304065865a/podolog/internal/photos"
	"github.com/9304065865a/podolog/internal/session"
	"github.com/9304065865a/podolog/internal/storage"
)

// App is the assembled bot application.
type App struct {
	cfg      *Config
	store    storage.Store
	sessions *session.Store
	photos   *photos.Store
	flows    *flow.Router
	reg      *tg.Registry
}

// New wires the application over an already-connected database.
func New(cfg *Config, db *sqlx.DB) (*App, error) {
	photoStore, err := photos.NewStore(cfg.Photos.Dir)
	if err != nil {
		return nil, fmt.Errorf("app: photo store init failed: %w", err)
	}

	a := &App{
		cfg:    cfg,
		store:  storage.NewPostgres(db),
		photos: photoStore,
		reg:    tg.NewRegistry(),
	}
	a.sessions = session.NewStore(photoStore)
	a.flows = flow.NewRouter(a.sessions)

	adminID := cfg.Core.Telegram.AdminID
	appointment.New(a.sessions, a.store, a.photos, cfg.ScheduleOptions(), adminID).
		Register(a.flows, a.reg)
	schedulefill.New(a.sessions, a.store, cfg.ScheduleOptions(), adminID).
		Register(a.flows, a.reg)

	a.registerCommands()
	a.registerCallbacks()

	return a, nil
}

func (a *App) registerCommands() {
	a.reg.RegisterCommand("/start", commands.Command{
		Handler:     a.showMenu,
		Description: "Open the main menu",
	})
	a.reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.cancelConversation,
		Description: "Cancel the current conversation",
	})
}

func (a *App) registerCallbacks() {
	_ = a.reg.RegisterCallback(cbMenu, a.showMenu)
	_ = a.reg.RegisterCallback(cbAbout, a.showAbout)
	_ = a.reg.RegisterCallback(cbShare, a.showShare)
	_ = a.reg.RegisterCallback(cbViewSchedule, a.adminOnly(a.showSchedule))
	_ = a.reg.RegisterCallback(cbAppointments, a.adminOnly(a.showAppointments))
	_ = a.reg.RegisterCallback(cbApptDelete, a.adminOnly(a.deleteAppointment))

	a.reg.SetCallbackNotFound(func(c tele.Context) error {
		return tghelpers.EditOrSendMD(c, msgStaleButton, a.menuMarkup(c.Sender().ID))
	})
}

func (a *App) adminID() int64 { return a.cfg.Core.Telegram.AdminID }

func (a *App) isAdmin(userID int64) bool {
	return a.adminID() != 0 && userID == a.adminID()
}

func (a *App) adminOnly(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !a.isAdmin(c.Sender().ID) {
			return nil
		}
		return h(c)
	}
}

func (a *App) showMenu(c tele.Context) error {
	userID := c.Sender().ID
	greeting := msgClientGreeting
	if a.isAdmin(userID) {
		greeting = msgAdminGreeting
	}
	return tghelpers.EditOrSendMD(c, greeting, a.menuMarkup(userID))
}

func (a *App) cancelConversation(c tele.Context) error {
	userID := c.Sender().ID
	if !a.sessions.Active(userID) {
		return a.showMenu(c)
	}
	a.sessions.End(userID)
	return tghelpers.SendMD(c, msgConversationCancelled, a.menuMarkup(userID))
}

func (a *App) showAbout(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, msgAbout, backToMenuMarkup())
}

func (a *App) showShare(c tele.Context) error {
	username := ""
	if b, ok := c.Bot().(*tele.Bot); ok && b.Me != nil {
		username = b.Me.Username
	}
	text := msgShare
	if username != "" {
		text = fmt.Sprintf("%s\n\nhttps://t.me/%s", msgShare, username)
	}
	return tghelpers.EditOrSendMD(c, text, backToMenuMarkup())
}

// showSchedule renders the practitioner's horizon: one line per day with its
// working hours, day-off and learning-day marks, and booked slot counts.
func (a *App) showSchedule(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	from := models.DateOnly(time.Now())
	to := from.AddDate(0, 0, a.cfg.ScheduleOptions().DaysAhead-1)

	days, err := a.store.ListSchedule(ctx, from, to)
	if err != nil {
		return err
	}
	appts, err := a.store.ListAppointments(ctx, from, to)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, renderSchedule(from, to, days, appts), backToMenuMarkup())
}

// showAppointments lists upcoming bookings with a cancel button per entry.
func (a *App) showAppointments(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	from := models.DateOnly(time.Now())
	to := from.AddDate(0, 0, a.cfg.ScheduleOptions().DaysAhead-1)

	appts, err := a.store.ListAppointments(ctx, from, to)
	if err != nil {
		return err
	}
	text, markup := renderAppointments(appts)
	return tghelpers.EditOrSendMD(c, text, markup)
}

func (a *App) deleteAppointment(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.EditOrSendMD(c, msgStaleButton, backToMenuMarkup())
	}

	ctx := tghelpers.BuildContext(c)
	if err := a.store.CancelAppointment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return a.showAppointments(c)
		}
		return err
	}
	logger.Info(ctx, "service.appointments", "appointment.cancel",
		slog.Int64("appointment_id", id),
	)
	return a.showAppointments(c)
}

func (a *App) unknownText(c tele.Context) error {
	return tghelpers.SendMD(c, msgUnknownInput, a.menuMarkup(c.Sender().ID))
}

func (a *App) unexpectedPhoto(c tele.Context) error {
	return tghelpers.SendMD(c, msgUnexpectedPhoto, a.menuMarkup(c.Sender().ID))
}

// TelegramRunOptions builds the bot runtime: default middlewares, command and
// callback routing, and conversation-aware text/photo routing.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()

	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminID: a.adminID(),
	})
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.flows, a.reg, router.TextOptions{
		UnknownText:  a.unknownText,
		UnknownPhoto: a.unexpectedPhoto,
	})...)

	return tg.RunOptions{
		Config:      core,
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(core, nil),
		Routes:      routes,
	}, nil
}
