package app

import (
	tele "gopkg.in/telebot.v4"

	"github.com/9304065865a/podolog/core/telegram/keyboard"
	"github.com/9304065865a/podolog/internal/flow/appointment"
	"github.com/9304065865a/podolog/internal/flow/schedulefill"
)

// Callback keys owned by the menu layer. Conversation keys live with their
// flows.
const (
	cbMenu         = "menu"
	cbAbout        = "about"
	cbShare        = "share"
	cbViewSchedule = "sched_view"
	cbAppointments = "appts"
	cbApptDelete   = "appt_del"
)

const (
	msgClientGreeting = "👋 Welcome! I can book you an appointment with the podiatrist."
	msgAdminGreeting  = "👋 Hello! Admin tools are below."
	msgAbout          = "ℹ️ *About*\n\nProfessional podiatry: nail and skin care, ingrown nail correction, diabetic foot care.\n\nBook an appointment right here in the chat."
	msgShare          = "💌 Share this bot with someone who needs an appointment:"

	msgConversationCancelled = "❌ Cancelled. What next?"
	msgUnknownInput          = "I didn't catch that. Use the menu below."
	msgUnexpectedPhoto       = "I can only accept a photo during booking. Start one from the menu."
	msgStaleButton           = "That button has expired. Here is the menu:"
)

func (a *App) menuMarkup(userID int64) *tele.ReplyMarkup {
	if a.isAdmin(userID) {
		return keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: "🗓 Fill schedule", Unique: schedulefill.CBStart}},
			[]keyboard.InlineBtn{{Text: "📋 View schedule", Unique: cbViewSchedule}},
			[]keyboard.InlineBtn{{Text: "📒 Appointments", Unique: cbAppointments}},
			[]keyboard.InlineBtn{{Text: "ℹ️ About", Unique: cbAbout}},
		)
	}
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "📅 Book an appointment", Unique: appointment.CBStart}},
		[]keyboard.InlineBtn{{Text: "ℹ️ About", Unique: cbAbout}},
		[]keyboard.InlineBtn{{Text: "💌 Share", Unique: cbShare}},
	)
}

func backToMenuMarkup() *tele.ReplyMarkup {
	return keyboard.SingleButtonMarkup("◀️ Back to menu", cbMenu)
}
