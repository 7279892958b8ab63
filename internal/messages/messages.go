// Package messages holds user-facing notification texts. Titles and bodies
// live in per-language const files (vi.go) so translators touch one file.
package messages

import "fmt"

// ─── Booking builders ────────────────────────────────────────────────────────

func BookingConfirmed(resourceName, slot string) (string, string) {
	return BookingConfirmedTitle, fmt.Sprintf(BookingConfirmedBody, resourceName, slot)
}

func BookingChanged(resourceName string) (string, string) {
	return BookingChangedTitle, fmt.Sprintf(BookingChangedBody, resourceName)
}

func BookingCancelled(resourceName string) (string, string) {
	return BookingCancelledTitle, fmt.Sprintf(BookingCancelledBody, resourceName)
}

// ─── Shop builders ───────────────────────────────────────────────────────────

func OrderPlaced(orderCode string) (string, string) {
	return OrderPlacedTitle, fmt.Sprintf(OrderPlacedBody, orderCode)
}

func OrderStatusChanged(orderCode, status string) (string, string) {
	return OrderStatusChangedTitle, fmt.Sprintf(OrderStatusChangedBody, orderCode, status)
}

// ─── Forms builders ──────────────────────────────────────────────────────────

func FormSubmitted(formName, submitterName string) (string, string) {
	return FormSubmittedTitle, fmt.Sprintf(FormSubmittedBody, formName, submitterName)
}

func FormApproved(formName string) (string, string) {
	return FormApprovedTitle, fmt.Sprintf(FormApprovedBody, formName)
}

// ─── Batch builders ──────────────────────────────────────────────────────────

func DailyReminder() (string, string) {
	return DailyReminderTitle, DailyReminderBody
}
