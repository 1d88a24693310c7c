package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/9304065865a/podolog/core/telegram/format"
	"github.com/9304065865a/podolog/internal/models"
	"github.com/9304065865a/podolog/internal/session"
)

const (
	msgAskName         = "📝 *New booking*\n\nWhat is your name?"
	msgAskPhone        = "📞 Thanks! Now send your phone number."
	msgAskDescription  = "🩺 Briefly describe the problem you want help with."
	msgOfferPhoto      = "📸 Would you like to attach a photo of the problem area? It helps with preparation."
	msgAskPhoto        = "Send the photo as a regular picture."
	msgPhotoSaved      = "✅ Photo saved. Now pick a date:"
	msgAskDate         = "📅 Pick a date:"
	msgAskTime         = "🕐 *%s* — pick a time:"
	msgNoDates         = "😔 There are no free slots in the coming days. Please try again later."
	msgDateFull        = "😔 That day just filled up. Pick another date:"
	msgSlotTaken       = "⚠️ That time was taken a moment ago. Pick another:"
	msgBadDate         = "I couldn't read that date. Please use the buttons."
	msgBadTime         = "I couldn't read that time. Send it as HH:MM, e.g. 14:30."
	msgPhotoFailed     = "⚠️ I couldn't save the photo. Try sending it again, or cancel and book without one."
	msgCancelled       = "❌ Booking cancelled."
	msgAlreadyActive   = "You already have a booking in progress. Start over?"
	msgNoConversation  = "This conversation has ended. Use the menu to start a new booking."
	msgAdminNewBooking = "🔔 *New booking*"
)

// confirmationMessage renders the booking summary shown to the client and
// forwarded to the practitioner.
func confirmationMessage(f session.Fields, date time.Time, t models.TimeOfDay) string {
	var b strings.Builder
	b.WriteString("✅ *Booking confirmed!*\n\n")
	fmt.Fprintf(&b, "👤 *Name:* %s\n", format.EscapeMD(f.Name))
	fmt.Fprintf(&b, "📅 *Date:* %s\n", date.Format(models.DateHuman))
	fmt.Fprintf(&b, "🕐 *Time:* %s\n", t.String())
	fmt.Fprintf(&b, "📞 *Phone:* %s\n", format.EscapeMD(f.Phone))
	fmt.Fprintf(&b, "📝 *Problem:* %s", format.EscapeMD(f.Description))
	if f.PhotoPath != "" {
		b.WriteString("\n📸 Photo attached")
	}
	return b.String()
}
