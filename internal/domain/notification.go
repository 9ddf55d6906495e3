package domain

// NotificationMessage is the event shape published to the notification queue.
// Delivery and storage are the notifier worker's responsibility.
type NotificationMessage struct {
	RecipientID int64  `json:"recipientID"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Link        string `json:"link"`
}

// Notification types emitted by the core.
const (
	NotificationTimeEntryFlagged     = "time_entry_flagged"
	NotificationTimeEntryResolved    = "time_entry_resolved"
	NotificationSwapRequestCreated   = "swap_request_created"
	NotificationSwapRequestResolved  = "swap_request_resolved"
	NotificationShiftAssigned        = "shift_assigned"
	NotificationPasswordResetOTP     = "password_reset_otp"
	NotificationAccountCreated       = "account_created"
)
