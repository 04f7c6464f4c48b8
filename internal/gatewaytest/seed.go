package gatewaytest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

// SeedAccount registers an account and returns its user record.
func (s *Server) SeedAccount(email, password, role string, profile domain.Profile) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("gatewaytest: seed account: %v", err))
	}
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		Profile:   profile,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.accounts[user.ID] = &account{user: user, passwordHash: hash}
	s.byEmail[strings.ToLower(email)] = user.ID
	s.mu.Unlock()

	out := user
	return &out
}

// TokenFor mints a valid token for a seeded user, bypassing login.
func (s *Server) TokenFor(user *domain.User) string {
	token, err := s.issueToken(user)
	if err != nil {
		panic(fmt.Sprintf("gatewaytest: issue token: %v", err))
	}
	return token
}

// SeedBooking inserts a booking directly, with the given status. An empty
// status is stored as-is, mimicking records that predate the backend's
// default-status stamping.
func (s *Server) SeedBooking(customer, artisan *domain.User, serviceType string, status domain.BookingStatus) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	booking := &domain.Booking{
		ID:          fmt.Sprintf("bk_%04d", s.nextSeq),
		Customer:    domain.BookingParty{ID: customer.ID, Name: customer.Profile.Name, Avatar: customer.Profile.Avatar},
		Artisan:     domain.BookingParty{ID: artisan.ID, Name: artisan.Profile.Name, Avatar: artisan.Profile.Avatar},
		ServiceType: serviceType,
		Date:        "2026-09-01",
		Time:        "10:00",
		Description: "seeded booking",
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	s.bookings = append(s.bookings, booking)

	clone := *booking
	return &clone
}

// SeedMessage inserts a message directly at the given timestamp.
func (s *Server) SeedMessage(sender, recipient *domain.User, content string, at time.Time) *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &domain.Message{
		ID:        uuid.NewString(),
		Sender:    sender.ID,
		Recipient: recipient.ID,
		Content:   content,
		CreatedAt: at,
	}
	s.messages = append(s.messages, msg)

	clone := *msg
	return &clone
}

// SeedNotification inserts a notification for the user.
func (s *Server) SeedNotification(user *domain.User, typ domain.NotificationType, title, message string) *domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := &domain.Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	s.notifications[user.ID] = append(s.notifications[user.ID], n)

	clone := *n
	return &clone
}
