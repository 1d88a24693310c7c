package app

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/9304065865a/podolog/core/telegram/format"
	"github.com/9304065865a/podolog/core/telegram/keyboard"
	"github.com/9304065865a/podolog/internal/models"
	"github.com/9304065865a/podolog/internal/storage"
)

// renderSchedule builds the admin's day-by-day overview. Days without a
// schedule row are listed as unset so gaps are visible.
func renderSchedule(from, to time.Time, days []models.ScheduleDay, appts []storage.AppointmentView) string {
	byDate := map[time.Time][]models.ScheduleDay{}
	for _, d := range days {
		key := models.DateOnly(d.Date)
		byDate[key] = append(byDate[key], d)
	}
	booked := map[time.Time]int{}
	for _, ap := range appts {
		booked[models.DateOnly(ap.Date)]++
	}

	var b strings.Builder
	b.WriteString("📋 *Schedule*\n")
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		fmt.Fprintf(&b, "\n*%s (%s)* — ", date.Format(models.DateHuman), date.Format("Mon"))
		rows := byDate[date]
		switch {
		case len(rows) == 0:
			b.WriteString("not set")
		case !rows[0].IsWorkingDay && rows[0].IsLearningDay:
			b.WriteString("learning day")
		case !rows[0].IsWorkingDay:
			b.WriteString("day off")
		default:
			// Rows come back ordered by start time.
			fmt.Fprintf(&b, "%s–%s, %d slots",
				rows[0].StartTime.String(), rows[len(rows)-1].EndTime.String(), len(rows))
		}
		if n := booked[date]; n > 0 {
			fmt.Fprintf(&b, ", %d booked", n)
		}
	}
	return b.String()
}

// renderAppointments builds the upcoming-bookings list with one cancel
// button per entry.
func renderAppointments(appts []storage.AppointmentView) (string, *tele.ReplyMarkup) {
	if len(appts) == 0 {
		return "📒 No upcoming appointments.", backToMenuMarkup()
	}

	var b strings.Builder
	b.WriteString("📒 *Upcoming appointments*\n")
	rows := make([][]keyboard.InlineBtn, 0, len(appts)+1)
	for _, ap := range appts {
		fmt.Fprintf(&b, "\n*%s %s* — %s, %s",
			ap.Date.Format(models.DateHuman), ap.Time.String(),
			format.EscapeMD(ap.Name), format.EscapeMD(ap.Phone))
		if ap.PhotoPath != "" {
			b.WriteString(" 📸")
		}
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("❌ %s %s · %s", ap.Date.Format("02.01"), ap.Time.String(), ap.Name),
			Unique: cbApptDelete,
			Data:   fmt.Sprintf("%d", ap.ID),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "◀️ Back to menu", Unique: cbMenu}})
	return b.String(), keyboard.InlineButtonsRows(rows...)
}
