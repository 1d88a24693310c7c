// Package schedulefill implements the admin conversation that fills the
// working schedule day by day: pick a date, pick opening and closing times,
// or mark the day off, then chain straight into the next day.
package schedulefill

import (
	"context"
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
	"github.com/9304065865a/podolog/internal/schedule"
	"github.com/9304065865a/podolog/internal/session"
	"github.com/9304065865a/podolog/internal/storage"
)

// Callback keys owned by this conversation.
const (
	CBStart  = "fill"
	cbDate   = "fill_date"
	cbStart  = "fill_start"
	cbEnd    = "fill_end"
	cbDayOff = "fill_dayoff"
	cbLearn  = "fill_learn"
	cbNext   = "fill_next"
	cbCancel = "fill_cancel"

	cbBackToMenu = "menu"
)

// Flow drives the schedule-filling conversation. Every handler is gated to
// the practitioner's Telegram ID.
type Flow struct {
	sessions *session.Store
	store    storage.Store
	opts     schedule.Options
	adminID  int64
	now      func() time.Time
}

func New(sessions *session.Store, store storage.Store, opts schedule.Options, adminID int64) *Flow {
	return &Flow{
		sessions: sessions,
		store:    store,
		opts:     opts,
		adminID:  adminID,
		now:      time.Now,
	}
}

// Register binds the admin-only callbacks and the typed-date handler.
func (f *Flow) Register(r *flow.Router, reg *tg.Registry) {
	admin := middleware.AdminOnlyMiddleware(middleware.AdminOptions{AdminID: f.adminID})
	_ = reg.RegisterCallback(CBStart, admin(f.start))
	_ = reg.RegisterCallback(cbDate, admin(f.dateChosen))
	_ = reg.RegisterCallback(cbStart, admin(f.startChosen))
	_ = reg.RegisterCallback(cbEnd, admin(f.endChosen))
	_ = reg.RegisterCallback(cbDayOff, admin(f.dayOff))
	_ = reg.RegisterCallback(cbLearn, admin(f.learningDay))
	_ = reg.RegisterCallback(cbNext, admin(f.nextDay))
	_ = reg.RegisterCallback(cbCancel, admin(f.cancel))

	r.HandleText(session.StepFillSelectingDate, f.gotTypedDate)
}

func (f *Flow) start(c tele.Context) error {
	userID := c.Sender().ID
	// Stale admin sessions are dropped silently; there is nothing worth
	// resuming in a half-filled day.
	f.sessions.End(userID)
	if _, err := f.sessions.Begin(userID, session.KindScheduleFill); err != nil {
		return err
	}
	return f.showDates(c)
}

func (f *Flow) cancel(c tele.Context) error {
	f.sessions.End(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, msgCancelled, backToMenuMarkup())
}

// showDates lists the horizon with each day's current schedule state, so the
// admin can see at a glance what still needs filling.
func (f *Flow) showDates(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	dates := f.opts.Dates(f.now())

	known := map[time.Time][]models.ScheduleDay{}
	if len(dates) > 0 {
		days, err := f.store.ListSchedule(ctx, dates[0], dates[len(dates)-1])
		if err != nil {
			return err
		}
		for _, d := range days {
			key := models.DateOnly(d.Date)
			known[key] = append(known[key], d)
		}
	}

	var rows [][]keyboard.InlineBtn
	for _, date := range dates {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   dateLabel(date, known),
			Unique: cbDate,
			Data:   date.Format(models.DateISO),
		}})
	}
	markup := keyboard.InlineButtonsRows(rows...)
	keyboard.AppendCancelRow(markup, cbCancel)
	return tghelpers.EditOrSendMD(c, msgPickDate, markup)
}

func (f *Flow) dateChosen(c tele.Context) error {
	date, err := models.ParseDateISO(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.EditOrSendMD(c, msgBadDate, cancelMarkup())
	}
	return f.toStartStep(c, date)
}

// gotTypedDate lets the admin type a date instead of scrolling the keyboard.
func (f *Flow) gotTypedDate(c tele.Context) error {
	if c.Sender().ID != f.adminID {
		return nil
	}
	parsed, ok := tghelpers.ParseFlexibleDate(c.Text())
	if !ok {
		return tghelpers.SendMD(c, msgBadDate, cancelMarkup())
	}
	return f.toStartStep(c, models.DateOnly(parsed))
}

func (f *Flow) toStartStep(c tele.Context, date time.Time) error {
	if err := f.sessions.Advance(c.Sender().ID, session.StepFillSelectingStart, func(fd *session.Fields) {
		fd.Date = date
	}); err != nil {
		return err
	}
	return f.showStartTimes(c, date)
}

func (f *Flow) showStartTimes(c tele.Context, date time.Time) error {
	btns := make([]keyboard.InlineBtn, 0)
	for _, t := range f.opts.StartTimes() {
		btns = append(btns, keyboard.InlineBtn{
			Text:   t.String(),
			Unique: cbStart,
			Data:   t.String(),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(btns, 3)
	keyboard.AppendRow(markup, keyboard.InlineBtn{Text: "🚫 Day off", Unique: cbDayOff})
	keyboard.AppendRow(markup, keyboard.InlineBtn{Text: "📚 Learning day", Unique: cbLearn})
	keyboard.AppendCancelRow(markup, cbCancel)
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf(msgPickStart, date.Format(models.DateHuman)), markup)
}

func (f *Flow) startChosen(c tele.Context) error {
	start, err := models.ParseTimeOfDay(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.EditOrSendMD(c, msgBadTime, cancelMarkup())
	}
	if err := f.sessions.Advance(c.Sender().ID, session.StepFillSelectingEnd, func(fd *session.Fields) {
		fd.StartTime = start
	}); err != nil {
		return err
	}
	return f.showEndTimes(c, start)
}

func (f *Flow) showEndTimes(c tele.Context, start models.TimeOfDay) error {
	btns := make([]keyboard.InlineBtn, 0)
	for _, t := range f.opts.EndTimesAfter(start) {
		btns = append(btns, keyboard.InlineBtn{
			Text:   t.String(),
			Unique: cbEnd,
			Data:   t.String(),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(btns, 3)
	keyboard.AppendCancelRow(markup, cbCancel)
	return tghelpers.EditOrSendMD(c, fmt.Sprintf(msgPickEnd, start.String()), markup)
}

func (f *Flow) endChosen(c tele.Context) error {
	userID := c.Sender().ID
	end, err := models.ParseTimeOfDay(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.EditOrSendMD(c, msgBadTime, cancelMarkup())
	}
	sess, ok := f.sessions.Get(userID)
	if !ok {
		return tghelpers.EditOrSendMD(c, msgNoConversation, backToMenuMarkup())
	}
	if end <= sess.Fields.StartTime {
		return f.showEndTimes(c, sess.Fields.StartTime)
	}

	slots := f.opts.SlotsBetween(sess.Fields.StartTime, end)
	if len(slots) == 0 {
		return f.showEndTimes(c, sess.Fields.StartTime)
	}

	ctx := tghelpers.BuildContext(c)
	if err := f.store.ReplaceScheduleDay(ctx, sess.Fields.Date, slots); err != nil {
		logger.Error(ctx, "service.schedule", "fill.replace",
			slog.String("date", sess.Fields.Date.Format(models.DateISO)),
			slog.String("err", err.Error()),
		)
		// Keep the session so the admin can retry the same day.
		return tghelpers.EditOrSendMD(c, msgSaveFailed, cancelMarkup())
	}
	f.sessions.End(userID)

	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf(msgDaySaved, sess.Fields.Date.Format(models.DateHuman),
			sess.Fields.StartTime.String(), end.String()),
		f.nextDayMarkup(sess.Fields.Date))
}

func (f *Flow) dayOff(c tele.Context) error {
	return f.markDay(c, msgDayOffSet, f.store.MarkDayOff)
}

func (f *Flow) learningDay(c tele.Context) error {
	return f.markDay(c, msgLearningSet, f.store.MarkLearningDay)
}

func (f *Flow) markDay(c tele.Context, doneFmt string, mark func(ctx context.Context, date time.Time) error) error {
	userID := c.Sender().ID
	sess, ok := f.sessions.Get(userID)
	if !ok || sess.Step != session.StepFillSelectingStart {
		return tghelpers.EditOrSendMD(c, msgNoConversation, backToMenuMarkup())
	}

	ctx := tghelpers.BuildContext(c)
	if err := mark(ctx, sess.Fields.Date); err != nil {
		logger.Error(ctx, "service.schedule", "fill.mark",
			slog.String("date", sess.Fields.Date.Format(models.DateISO)),
			slog.String("err", err.Error()),
		)
		return tghelpers.EditOrSendMD(c, msgSaveFailed, cancelMarkup())
	}
	f.sessions.End(userID)

	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf(doneFmt, sess.Fields.Date.Format(models.DateHuman)),
		f.nextDayMarkup(sess.Fields.Date))
}

// nextDay restarts the conversation directly on the day after the one just
// saved, skipping the date keyboard.
func (f *Flow) nextDay(c tele.Context) error {
	date, err := models.ParseDateISO(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.EditOrSendMD(c, msgBadDate, backToMenuMarkup())
	}
	userID := c.Sender().ID
	f.sessions.End(userID)
	if _, err := f.sessions.Begin(userID, session.KindScheduleFill); err != nil {
		return err
	}
	return f.toStartStep(c, date)
}

func (f *Flow) nextDayMarkup(saved time.Time) *tele.ReplyMarkup {
	next := saved.AddDate(0, 0, 1)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{
			Text:   fmt.Sprintf("➡️ Fill %s", next.Format(models.DateHuman)),
			Unique: cbNext,
			Data:   next.Format(models.DateISO),
		}},
		[]keyboard.InlineBtn{{Text: "◀️ Back to menu", Unique: cbBackToMenu}},
	)
}

// dateLabel summarizes a day's slot rows: rows are ordered by start time, so
// the window is first start to last end.
func dateLabel(date time.Time, known map[time.Time][]models.ScheduleDay) string {
	base := fmt.Sprintf("%s (%s)", date.Format(models.DateHuman), date.Format("Mon"))
	rows := known[models.DateOnly(date)]
	switch {
	case len(rows) == 0:
		return base + " · unset"
	case !rows[0].IsWorkingDay && rows[0].IsLearningDay:
		return base + " · learning"
	case !rows[0].IsWorkingDay:
		return base + " · day off"
	default:
		return fmt.Sprintf("%s · %s–%s", base,
			rows[0].StartTime.String(), rows[len(rows)-1].EndTime.String())
	}
}

func cancelMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(cbCancel)
}

func backToMenuMarkup() *tele.ReplyMarkup {
	return keyboard.SingleButtonMarkup("◀️ Back to menu", cbBackToMenu)
}
