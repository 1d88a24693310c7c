package schedulefill

const (
	msgPickDate       = "🗓 *Schedule filling*\n\nPick a day to set up:"
	msgPickStart      = "🕘 *%s* — when does the day start?"
	msgPickEnd        = "🕕 Starts at *%s*. When does the day end?"
	msgDaySaved       = "✅ *%s* saved: working %s–%s."
	msgDayOffSet      = "🚫 *%s* marked as a day off."
	msgLearningSet    = "📚 *%s* marked as a learning day. Clients will not see it."
	msgBadDate        = "I couldn't read that date. Use the buttons or send it as DD.MM.YYYY."
	msgBadTime        = "I couldn't read that time."
	msgSaveFailed     = "⚠️ Could not save the day. Try again."
	msgCancelled      = "❌ Schedule filling cancelled."
	msgNoConversation = "This conversation has ended. Open the menu and start schedule filling again."
)
