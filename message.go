package slotchecker

import (
	"fmt"
	"html"

	"github.com/jpalmerr/slotchecker/internal/site"
)

// DefaultBookingURL is the booking page linked from notifications.
const DefaultBookingURL = "https://teleservices.paris.fr/rdvtitres/jsp/site/Portal.jsp?page=appointmentsearch&view=search&category=titres"

// slotDateLayout renders slot dates, e.g. "03 June 2025 09:30".
const slotDateLayout = "02 January 2006 15:04"

func formatSlotDate(slot site.Slot) string {
	return slot.Date.Format(slotDateLayout)
}

// formatMessage renders the notification for slot. Text is escaped since
// the message is sent with HTML styling.
func formatMessage(slot site.Slot, bookingURL string) string {
	return fmt.Sprintf("Rendez-vous ! <b>%s</b>\n<b>%s</b>\n%s\n%s",
		formatSlotDate(slot),
		html.EscapeString(slot.Location),
		html.EscapeString(slot.Address),
		html.EscapeString(bookingURL),
	)
}
