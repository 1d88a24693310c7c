// Package appointment implements the client booking conversation: collect
// name, phone and problem description, optionally a photo, then a date and a
// free time slot, and persist the appointment.
package appointment

import (
	"errors"
	"fmt"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/9304065865a/podolog/core/logger"
	tg "github.com/9304065865a/podolog/core/telegram"
	"github.com/9304065865a/podolog/core/telegram/callbacks"
	tghelpers "github.com/9304065865a/podolog/core/telegram/helpers"
	"github.com/9304065865a/podolog/core/telegram/keyboard"
	"github.com/9304065865a/podolog/core/telegram/middleware"
	"github.com/9304065865a/podolog/internal/flow"
	"github.com/9304065865a/podolog/internal/models"
	"github.com/9304065865a/podolog/internal/photos"
	"github.com/9304065865a/podolog/internal/schedule"
	"github.com/9304065865a/podolog/internal/session"
	"github.com/9304065865a/podolog/internal/storage"
)

// Callback keys owned by this conversation.
const (
	CBStart   = "book"
	cbRestart = "appt_restart"
	cbCancel  = "appt_cancel"
	cbPhoto   = "appt_photo"
	cbDate    = "appt_date"
	cbTime    = "appt_time"

	cbBackToMenu = "menu"
)

// Flow drives the appointment conversation.
type Flow struct {
	sessions *session.Store
	store    storage.Store
	photos   *photos.Store
	opts     schedule.Options
	adminID  int64
	now      func() time.Time
}

// New wires the conversation over its collaborators.
func New(sessions *session.Store, store storage.Store, ph *photos.Store, opts schedule.Options, adminID int64) *Flow {
	return &Flow{
		sessions: sessions,
		store:    store,
		photos:   ph,
		opts:     opts,
		adminID:  adminID,
		now:      time.Now,
	}
}

// Register binds callbacks and step handlers.
func (f *Flow) Register(r *flow.Router, reg *tg.Registry) {
	_ = reg.RegisterCallback(CBStart, f.start)
	_ = reg.RegisterCallback(cbRestart, f.restart)
	_ = reg.RegisterCallback(cbCancel, f.cancel)
	_ = reg.RegisterCallback(cbPhoto,
		middleware.Step(r, string(session.StepOfferingPhoto))(f.photoChoice))
	_ = reg.RegisterCallback(cbDate,
		middleware.Step(r, string(session.StepSelectingDate))(f.dateChosen))
	_ = reg.RegisterCallback(cbTime,
		middleware.Step(r, string(session.StepSelectingTime))(f.timeChosen))

	r.HandleText(session.StepCollectingName, f.gotName)
	r.HandleText(session.StepCollectingPhone, f.gotPhone)
	r.HandleText(session.StepCollectingDescription, f.gotDescription)
	r.HandleText(session.StepSelectingTime, f.gotTypedTime)
	r.HandlePhoto(session.StepCollectingPhoto, f.gotPhoto)
}

func (f *Flow) start(c tele.Context) error {
	userID := c.Sender().ID
	if _, err := f.sessions.Begin(userID, session.KindAppointment); err != nil {
		if errors.Is(err, session.ErrActive) {
			return tghelpers.EditOrSendMD(c, msgAlreadyActive, restartMarkup())
		}
		return err
	}
	return tghelpers.EditOrSendMD(c, msgAskName, cancelMarkup())
}

func (f *Flow) restart(c tele.Context) error {
	userID := c.Sender().ID
	f.sessions.End(userID)
	if _, err := f.sessions.Begin(userID, session.KindAppointment); err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, msgAskName, cancelMarkup())
}

func (f *Flow) cancel(c tele.Context) error {
	f.sessions.End(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, msgCancelled, backToMenuMarkup())
}

func (f *Flow) gotName(c tele.Context) error {
	name := c.Text()
	if err := f.sessions.Advance(c.Sender().ID, session.StepCollectingPhone, func(fd *session.Fields) {
		fd.Name = name
	}); err != nil {
		return err
	}
	return tghelpers.SendMD(c, msgAskPhone, cancelMarkup())
}

func (f *Flow) gotPhone(c tele.Context) error {
	phone := c.Text()
	if err := f.sessions.Advance(c.Sender().ID, session.StepCollectingDescription, func(fd *session.Fields) {
		fd.Phone = phone
	}); err != nil {
		return err
	}
	return tghelpers.SendMD(c, msgAskDescription, cancelMarkup())
}

func (f *Flow) gotDescription(c tele.Context) error {
	desc := c.Text()
	if err := f.sessions.Advance(c.Sender().ID, session.StepOfferingPhoto, func(fd *session.Fields) {
		fd.Description = desc
	}); err != nil {
		return err
	}
	return tghelpers.SendMD(c, msgOfferPhoto, photoOfferMarkup())
}

func (f *Flow) photoChoice(c tele.Context) error {
	switch callbacks.CallbackPayload(c) {
	case "add":
		if err := f.sessions.Advance(c.Sender().ID, session.StepCollectingPhoto, nil); err != nil {
			return err
		}
		return tghelpers.EditOrSendMD(c, msgAskPhoto, cancelMarkup())
	case "skip":
		if err := f.sessions.Advance(c.Sender().ID, session.StepSelectingDate, nil); err != nil {
			return err
		}
		return f.showDates(c, msgAskDate)
	default:
		return nil
	}
}

func (f *Flow) gotPhoto(c tele.Context) error {
	userID := c.Sender().ID
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}

	rc, err := c.Bot().File(&msg.Photo.File)
	if err != nil {
		logger.Error(tghelpers.BuildContext(c), "photos", "photo.download",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendMD(c, msgPhotoFailed, cancelMarkup())
	}
	defer func() { _ = rc.Close() }()

	path, err := f.photos.Save(userID, f.now(), rc)
	if err != nil {
		logger.Error(tghelpers.BuildContext(c), "photos", "photo.save",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendMD(c, msgPhotoFailed, cancelMarkup())
	}

	if err := f.sessions.Advance(userID, session.StepSelectingDate, func(fd *session.Fields) {
		fd.PhotoPath = path
	}); err != nil {
		return err
	}
	return f.showDates(c, msgPhotoSaved)
}

// showDates presents the dates that still have bookable time, over the
// configured horizon.
func (f *Flow) showDates(c tele.Context, intro string) error {
	ctx := tghelpers.BuildContext(c)

	var rows [][]keyboard.InlineBtn
	for _, date := range f.opts.Dates(f.now()) {
		avail, err := f.store.AvailableTimes(ctx, date)
		if err != nil {
			return err
		}
		if len(avail) == 0 {
			continue
		}
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("%s (%s)", date.Format(models.DateHuman), date.Format("Mon")),
			Unique: cbDate,
			Data:   date.Format(models.DateISO),
		}})
	}
	if len(rows) == 0 {
		return tghelpers.EditOrSendMD(c, msgNoDates, cancelMarkup())
	}
	markup := keyboard.InlineButtonsRows(rows...)
	keyboard.AppendCancelRow(markup, cbCancel)
	return tghelpers.EditOrSendMD(c, intro, markup)
}

func (f *Flow) dateChosen(c tele.Context) error {
	date, err := models.ParseDateISO(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.EditOrSendMD(c, msgBadDate, cancelMarkup())
	}
	if err := f.sessions.Advance(c.Sender().ID, session.StepSelectingTime, func(fd *session.Fields) {
		fd.Date = date
	}); err != nil {
		return err
	}
	return f.showTimes(c, fmt.Sprintf(msgAskTime, date.Format(models.DateHuman)), date)
}

// showTimes re-derives availability on every render: the schedule and other
// users' bookings may have changed since the date keyboard was built.
func (f *Flow) showTimes(c tele.Context, intro string, date time.Time) error {
	ctx := tghelpers.BuildContext(c)
	avail, err := f.store.AvailableTimes(ctx, date)
	if err != nil {
		return err
	}
	if len(avail) == 0 {
		if err := f.sessions.Advance(c.Sender().ID, session.StepSelectingDate, nil); err != nil {
			return err
		}
		return f.showDates(c, msgDateFull)
	}

	btns := make([]keyboard.InlineBtn, 0, len(avail))
	for _, tr := range avail {
		btns = append(btns, keyboard.InlineBtn{
			Text:   tr.Start.String(),
			Unique: cbTime,
			Data:   tr.Start.String(),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(btns, 3)
	keyboard.AppendCancelRow(markup, cbCancel)
	return tghelpers.EditOrSendMD(c, intro, markup)
}

func (f *Flow) timeChosen(c tele.Context) error {
	t, err := models.ParseTimeOfDay(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.EditOrSendMD(c, msgBadTime, cancelMarkup())
	}
	return f.commit(c, t)
}

// gotTypedTime accepts a typed HH:MM while the time keyboard is shown.
func (f *Flow) gotTypedTime(c tele.Context) error {
	t, err := models.ParseTimeOfDay(c.Text())
	if err != nil {
		return tghelpers.SendMD(c, msgBadTime, cancelMarkup())
	}
	return f.commit(c, t)
}

// commit books the slot. A Conflict keeps the session on time selection and
// re-presents what is still free.
func (f *Flow) commit(c tele.Context, t models.TimeOfDay) error {
	userID := c.Sender().ID
	sess, ok := f.sessions.Get(userID)
	if !ok {
		return tghelpers.SendMD(c, msgNoConversation, backToMenuMarkup())
	}

	ctx := tghelpers.BuildContext(c)
	appt, err := f.store.CreateAppointment(ctx, storage.ClientInput{
		Name:               sess.Fields.Name,
		Phone:              sess.Fields.Phone,
		ProblemDescription: sess.Fields.Description,
		PhotoPath:          sess.Fields.PhotoPath,
	}, sess.Fields.Date, t)
	if err != nil {
		if errors.Is(err, storage.ErrSlotTaken) {
			return f.showTimes(c, msgSlotTaken, sess.Fields.Date)
		}
		return err
	}

	// The photo now belongs to the stored client record; end the session
	// without discarding it.
	f.sessions.Commit(userID)

	summary := confirmationMessage(sess.Fields, appt.Date, appt.Time)
	if err := tghelpers.EditOrSendMD(c, summary, backToMenuMarkup()); err != nil {
		return err
	}
	f.notifyAdmin(c, summary)
	return nil
}

// notifyAdmin forwards the confirmation to the practitioner. Failures are
// logged, not surfaced: the booking is already durable.
func (f *Flow) notifyAdmin(c tele.Context, summary string) {
	if f.adminID == 0 || f.adminID == c.Sender().ID {
		return
	}
	_, err := c.Bot().Send(&tele.User{ID: f.adminID}, msgAdminNewBooking+"\n\n"+summary,
		&tele.SendOptions{ParseMode: tele.ModeMarkdown})
	if err != nil {
		logger.Warn(tghelpers.BuildContext(c), "service.appointments", "notify.admin",
			slog.String("err", err.Error()),
		)
	}
}

func cancelMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(cbCancel)
}

func restartMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🔄 Start over", Unique: cbRestart}},
		[]keyboard.InlineBtn{{Text: "◀️ Keep current", Unique: cbBackToMenu}},
	)
}

func photoOfferMarkup() *tele.ReplyMarkup {
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "📸 Attach a photo", Unique: cbPhoto, Data: "add"}},
		[]keyboard.InlineBtn{{Text: "⏭ Skip", Unique: cbPhoto, Data: "skip"}},
	)
	keyboard.AppendCancelRow(markup, cbCancel)
	return markup
}

func backToMenuMarkup() *tele.ReplyMarkup {
	return keyboard.SingleButtonMarkup("◀️ Back to menu", cbBackToMenu)
}
