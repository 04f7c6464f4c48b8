package domain

import "time"

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotificationBookingUpdate NotificationType = "booking_update"
	NotificationMessage       NotificationType = "message"
	NotificationReview        NotificationType = "review"
	NotificationPromo         NotificationType = "promo"
)

// Notification is a server-generated alert. The only mutation the client
// performs is the read / read-all transition.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
