package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingDeclined  BookingStatus = "declined"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// validTransitions defines the transitions the client is allowed to request.
// Anything past pending is terminal from the client's point of view; a
// booking reaching completed arrives already in that state from the backend.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingPending: {BookingAccepted, BookingDeclined},
}

// CanTransitionTo reports whether a client-requested transition from s to
// next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s.Normalize()] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Normalize maps an absent status to pending. Bookings created before the
// backend stamped a default status carry an empty string.
func (s BookingStatus) Normalize() BookingStatus {
	if s == "" {
		return BookingPending
	}
	return s
}

// FilterBucket is a display grouping of booking statuses.
type FilterBucket string

const (
	BucketPending   FilterBucket = "pending"
	BucketAccepted  FilterBucket = "accepted"
	BucketCompleted FilterBucket = "completed"
	// BucketDeclined groups declined and cancelled bookings together.
	BucketDeclined FilterBucket = "declined"
)

// Bucket returns the display bucket this status falls into.
func (s BookingStatus) Bucket() FilterBucket {
	switch s.Normalize() {
	case BookingAccepted:
		return BucketAccepted
	case BookingCompleted:
		return BucketCompleted
	case BookingDeclined, BookingCancelled:
		return BucketDeclined
	default:
		return BucketPending
	}
}

// Actionable reports whether accept/decline actions apply to this status.
func (s BookingStatus) Actionable() bool {
	return s.Normalize() == BookingPending
}

// Location is the free-text address plus coordinates attached to a booking.
type Location struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

// BookingParty is the embedded view of a counterpart carried on a booking
// record. It holds exactly what the chat screen needs to address the other
// side after acceptance.
type BookingParty struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Booking is a requested service engagement between a customer and an
// artisan. Never deleted, only transitioned.
type Booking struct {
	ID          string        `json:"id"`
	Customer    BookingParty  `json:"customer"`
	Artisan     BookingParty  `json:"artisan"`
	ServiceType string        `json:"serviceType"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	Description string        `json:"description"`
	Location    Location      `json:"location"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
}

// Counterpart returns the other party of the booking from the perspective
// of the given user id.
func (b *Booking) Counterpart(userID string) BookingParty {
	if b.Artisan.ID == userID {
		return b.Customer
	}
	return b.Artisan
}
